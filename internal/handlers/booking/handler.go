package booking

import (
	"net/http"

	"escaperoom/infras/otel"
	"escaperoom/internal/domains/booking/model/dto"
	"escaperoom/internal/domains/booking/service"
	"escaperoom/shared/constant"
	gDto "escaperoom/shared/dto"
	"escaperoom/shared/failure"
	"escaperoom/shared/validator"
	"escaperoom/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/availability", handler.GetAvailableRooms)

	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.UpdateBooking)
		routerGroup.Put("/{id}/confirm", handler.ConfirmBooking)
		routerGroup.Delete("/{id}/cancel", handler.CancelBooking)
		routerGroup.Delete("/{id}/release", handler.ReleaseBooking)
	})
}

// writeError logs client mistakes quietly and everything else as an error.
func writeError(w http.ResponseWriter, scope otel.Scope, err error, msg string) {
	scope.TraceError(err)

	if failure.IsClientError(err) {
		log.Warn().Err(err).Msg(msg)
	} else {
		log.Error().Err(err).Msg(msg)
	}

	response.WithError(w, err)
}

// GetAvailableRooms lists rooms that can be booked for a window.
// @Summary Get available rooms
// @Description List every room with no confirmed booking or active hold overlapping [start_date, end_date).
// @Tags Booking
// @Accept json
// @Produce json
// @Param start_date query string true "Window start, ISO8601"
// @Param end_date query string true "Window end, ISO8601"
// @Success 200 {object} response.Data[dto.AvailabilityResponse] "Available rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [get]
func (handler *Handler) GetAvailableRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableRooms")
	defer scope.End()

	query := r.URL.Query()

	var rooms dto.AvailabilityResponse

	rooms, err := handler.service.GetAvailableRooms(ctx, query.Get(constant.RequestParamStartDate), query.Get(constant.RequestParamEndDate))
	if err != nil {
		writeError(w, scope, err, "failed to get available rooms")

		return
	}

	scope.SetAttribute("rooms.available", len(rooms.Rooms))

	response.WithJSON(w, http.StatusOK, rooms)
}

// CreateBooking places a pending hold on a room.
// @Summary Create a new booking
// @Description Hold a room for the guest. The hold must be confirmed before it expires.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Pending booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		writeError(w, scope, err, "failed to validate request body")

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		writeError(w, scope, err, "failed to create booking")

		return
	}

	scope.AddEvent("Booking created " + booking.ID)

	response.WithJSON(w, http.StatusCreated, booking)
}

// GetBookings lists bookings with their effective statuses.
// @Summary Get all bookings
// @Description Retrieve bookings with optional filtering and pagination.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room"
// @Param user_id query string false "Filter by user"
// @Param status query string false "Filter by effective status" Enums(pending, confirmed, cancelled, released, expired)
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.Filter{
		RoomID: query.Get("room_id"),
		UserID: query.Get("user_id"),
		Status: query.Get("status"),
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		writeError(w, scope, err, "failed to get bookings")

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking with its guest and room.
// @Summary Get a booking by ID
// @Description Retrieve a booking; pending holds past their duration report status expired.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		writeError(w, scope, err, "failed to get booking by ID")

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBooking reschedules a booking and optionally changes its status.
// @Summary Update a booking
// @Description Move a booking to a new window. The room must be free unless the booking is being cancelled or released.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingRequest true "Update Booking Request"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [patch]
func (handler *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBooking")
	defer scope.End()

	req := dto.UpdateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		writeError(w, scope, err, "failed to validate request body")

		return
	}

	booking, err := handler.service.Update(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		writeError(w, scope, err, "failed to update booking")

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// ConfirmBooking confirms an unexpired hold.
// @Summary Confirm a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking confirmed successfully"
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/confirm [put]
func (handler *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmBooking")
	defer scope.End()

	if err := handler.service.Confirm(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		writeError(w, scope, err, "failed to confirm booking")

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking confirmed successfully")
}

// CancelBooking cancels a booking that has not ended.
// @Summary Cancel a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking cancelled successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [delete]
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	if err := handler.service.Cancel(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		writeError(w, scope, err, "failed to cancel booking")

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}

// ReleaseBooking gives up a pending hold.
// @Summary Release a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message "Booking released successfully"
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/release [delete]
func (handler *Handler) ReleaseBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReleaseBooking")
	defer scope.End()

	if err := handler.service.Release(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		writeError(w, scope, err, "failed to release booking")

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking released successfully")
}
