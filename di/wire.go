//go:build wireinject
// +build wireinject

package di

import (
	"escaperoom/config"
	"escaperoom/infras/kafka"
	"escaperoom/infras/otel"
	"escaperoom/infras/postgres"
	"escaperoom/infras/redis"
	"escaperoom/shared/cache"
	"escaperoom/transport/http"
	"escaperoom/transport/http/middleware"
	"escaperoom/transport/http/router"

	bookingEvent "escaperoom/internal/domains/booking/event"
	bookingHold "escaperoom/internal/domains/booking/hold"
	bookingRepository "escaperoom/internal/domains/booking/repository"
	bookingService "escaperoom/internal/domains/booking/service"
	roomRepository "escaperoom/internal/domains/room/repository"
	roomService "escaperoom/internal/domains/room/service"
	userRepository "escaperoom/internal/domains/user/repository"
	userService "escaperoom/internal/domains/user/service"
	bookingHandler "escaperoom/internal/handlers/booking"
	roomHandler "escaperoom/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
)

var serverHealth = wire.NewSet(
	wire.Bind(new(http.HealthChecker), new(*postgres.Connection)),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var bookingDomain = wire.NewSet(
	bookingHold.NewSystemClock,
	bookingHold.NewPolicy,
	bookingEvent.New,
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	roomDomain,
	userDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		serverHealth,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeRoomSeeder() roomService.Room {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		redis.New,
		sharedHelpers,
		roomDomain,
	)

	return nil
}
