package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"escaperoom/infras/otel"
	"escaperoom/internal/domains/booking/event"
	"escaperoom/internal/domains/booking/hold"
	"escaperoom/internal/domains/booking/model"
	"escaperoom/internal/domains/booking/model/dto"
	"escaperoom/internal/domains/booking/repository"
	roomDto "escaperoom/internal/domains/room/model/dto"
	roomService "escaperoom/internal/domains/room/service"
	userService "escaperoom/internal/domains/user/service"
	"escaperoom/shared"
	"escaperoom/shared/constant"
	"escaperoom/shared/daterange"
	gDto "escaperoom/shared/dto"
	"escaperoom/shared/validator"

	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.Filter) (dto.GetBookingsResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Release(ctx context.Context, id string) error
	GetAvailableRooms(ctx context.Context, start, end any) (dto.AvailabilityResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	room      roomService.Room
	user      userService.User
	policy    *hold.Policy
	publisher event.Publisher
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	room roomService.Room,
	user userService.User,
	policy *hold.Policy,
	publisher event.Publisher,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		room:      room,
		user:      user,
		policy:    policy,
		publisher: publisher,
		otel:      otel,
	}
}

// Create places a pending hold on the room for the requested window.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	now := s.policy.Now()

	window, err := daterange.Parse(req.StartDate, req.EndDate, now)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	exist, err := s.room.Exists(ctx, req.RoomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to check room")

		return res, fmt.Errorf("failed to check room: %w", err)
	}

	if !exist {
		return res, model.ErrRoomNotFound // nolint:wrapcheck
	}

	user, err := s.user.Resolve(ctx, req.Guest.Name, req.Guest.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve guest")

		return res, fmt.Errorf("failed to resolve guest: %w", err)
	}

	booking := req.ToModel(user.ID, window, now)
	threshold := s.policy.Threshold(now)

	scope.SetAttributes(map[string]any{"booking_id": booking.ID, "room_id": booking.RoomID})

	if err = s.repo.InsertIfFree(ctx, booking, threshold); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return res, model.ErrRoomUnavailable // nolint:wrapcheck
		case errors.Is(err, repository.ErrNotFound):
			return res, model.ErrRoomNotFound // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publisher.Publish(ctx, event.NewPayload(event.Created, booking, now))

	res.FromModel(booking, threshold)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsValidID(id) {
		return res, model.ErrBookingNotFound // nolint:wrapcheck
	}

	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if detail.ID == constant.Empty {
		return res, model.ErrBookingNotFound // nolint:wrapcheck
	}

	res.FromDetail(detail, s.policy.Threshold(s.policy.Now()))

	return res, nil
}

// GetAll lists bookings with their effective statuses. Results are not cached since expiry moves with the clock.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.Filter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&filter); err != nil {
		return res, err //nolint:wrapcheck
	}

	threshold := s.policy.Threshold(s.policy.Now())
	group := filter.ToFilterGroup(threshold)

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	details, err := s.repo.GetAllDetails(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(details, threshold, total, params.Limit)

	return res, nil
}

// Update moves a booking to a new window and, optionally, a new status.
// An empty status keeps the stored one, so an expired hold can only be cancelled or released.
func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status.IsTerminal() {
		return res, model.ErrBookingClosed // nolint:wrapcheck
	}

	now := s.policy.Now()
	threshold := s.policy.Threshold(now)

	window, err := daterange.Parse(req.StartDate, req.EndDate, now)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	target := booking.Status
	if req.Status != constant.Empty {
		target = model.Status(req.Status)
	}

	if !model.CanTransition(booking.EffectiveStatus(threshold), target) {
		return res, model.ErrInvalidTransition // nolint:wrapcheck
	}

	// the stored window decides, not the requested one
	if target == model.StatusCancelled && booking.EndTime.Before(now) {
		return res, model.ErrPastEndDate // nolint:wrapcheck
	}

	expected := booking.Status

	booking.StartTime = window.Start
	booking.EndTime = window.End
	booking.Status = target
	booking.ModifiedAt = now
	booking.ModifiedBy = constant.SystemActor

	check := target == model.StatusPending || target == model.StatusConfirmed

	if err = s.repo.UpdateIfFree(ctx, booking, expected, threshold, check); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return res, model.ErrRoomUnavailable // nolint:wrapcheck
		case errors.Is(err, repository.ErrNotModified):
			return res, model.ErrBookingChanged // nolint:wrapcheck
		case errors.Is(err, repository.ErrNotFound):
			return res, model.ErrBookingNotFound // nolint:wrapcheck
		}

		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	s.publisher.Publish(ctx, event.NewPayload(event.Updated, booking, now))

	res.FromModel(booking, threshold)

	return res, nil
}

// Confirm turns an unexpired pending hold into a confirmed booking.
func (s *serviceImpl) Confirm(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Confirm")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsValidID(id) {
		return model.ErrNotPendingOrExpired // nolint:wrapcheck
	}

	now := s.policy.Now()

	ok, err := s.repo.Confirm(ctx, id, s.policy.Threshold(now), constant.SystemActor)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to confirm booking")

		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	if !ok {
		return model.ErrNotPendingOrExpired // nolint:wrapcheck
	}

	s.publisher.Publish(ctx, event.NewPayload(event.Confirmed, model.Booking{ID: id, Status: model.StatusConfirmed}, now))

	return nil
}

// Release gives up a pending hold. Expiry is not checked.
func (s *serviceImpl) Release(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Release")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !shared.IsValidID(id) {
		return model.ErrNotPendingOrExpired // nolint:wrapcheck
	}

	ok, err := s.repo.Release(ctx, id, constant.SystemActor)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to release booking")

		return fmt.Errorf("failed to release booking: %w", err)
	}

	if !ok {
		return model.ErrNotPendingOrExpired // nolint:wrapcheck
	}

	s.publisher.Publish(ctx, event.NewPayload(event.Released, model.Booking{ID: id, Status: model.StatusReleased}, s.policy.Now()))

	return nil
}

// Cancel cancels any booking that has not ended yet. Cancelling twice succeeds.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	now := s.policy.Now()

	if booking.EndTime.Before(now) {
		return model.ErrPastEndDate // nolint:wrapcheck
	}

	switch booking.Status {
	case model.StatusCancelled:
		return nil
	case model.StatusReleased:
		return model.ErrBookingClosed // nolint:wrapcheck
	}

	ok, err := s.repo.Cancel(ctx, id, constant.SystemActor)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if !ok {
		// lost a race; the winner either cancelled or released it
		current, findErr := s.find(ctx, id)
		if findErr != nil {
			return findErr
		}

		if current.Status == model.StatusReleased {
			return model.ErrBookingClosed // nolint:wrapcheck
		}

		return nil
	}

	booking.Status = model.StatusCancelled

	s.publisher.Publish(ctx, event.NewPayload(event.Cancelled, booking, now))

	return nil
}

// GetAvailableRooms lists rooms with no blocking booking over [start, end).
func (s *serviceImpl) GetAvailableRooms(ctx context.Context, start, end any) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAvailableRooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	window, err := daterange.ParseWindow(start, end)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	rooms, err := s.repo.FreeRooms(ctx, window, s.policy.Threshold(s.policy.Now()))
	if err != nil {
		log.Error().Err(err).Msg("failed to list available rooms")

		return res, fmt.Errorf("failed to list available rooms: %w", err)
	}

	res.StartDate = window.Start.Format(constant.DateFormat)
	res.EndDate = window.End.Format(constant.DateFormat)
	res.Rooms = roomDto.FromModels(rooms)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	if !shared.IsValidID(id) {
		return model.Booking{}, model.ErrBookingNotFound // nolint:wrapcheck
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, model.ErrBookingNotFound // nolint:wrapcheck
	}

	return booking, nil
}
