package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"escaperoom/infras/otel"
	"escaperoom/internal/domains/user/model"
	"escaperoom/internal/domains/user/repository"
	"escaperoom/shared"
	"escaperoom/shared/constant"
	gModel "escaperoom/shared/model"
	"escaperoom/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type User interface {
	Resolve(ctx context.Context, name, email string) (model.User, error)
}

type serviceImpl struct {
	repo repository.User
	otel otel.Otel
}

func New(repo repository.User, otel otel.Otel) User {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// Resolve returns the user registered under email, creating it on first sight.
// An existing user keeps its stored username.
func (s *serviceImpl) Resolve(ctx context.Context, name, email string) (user model.User, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Resolve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	email = strings.ToLower(strings.TrimSpace(email))

	user, err = s.findByEmail(ctx, email)
	if err != nil || user.ID != constant.Empty {
		return user, err
	}

	now := timezone.Now()
	user = model.User{
		ID:       uuid.NewString(),
		Username: strings.TrimSpace(name),
		Email:    email,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  constant.SystemActor,
			ModifiedBy: constant.SystemActor,
		},
	}

	err = s.repo.Insert(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		log.Debug().Str("email", email).Msg("user created concurrently, reading stored row")

		return s.findByEmail(ctx, email)
	}

	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to create user")

		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *serviceImpl) findByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := s.repo.Get(ctx, shared.FilterByField(model.FieldEmail, email, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to get user by email")

		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
