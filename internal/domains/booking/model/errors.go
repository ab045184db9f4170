package model

import (
	"net/http"

	"escaperoom/shared/failure"
)

var (
	ErrRoomNotFound        = failure.New(http.StatusNotFound, "room does not exist")
	ErrRoomUnavailable     = failure.New(http.StatusConflict, "room is not available for the selected time range")
	ErrBookingNotFound     = failure.New(http.StatusNotFound, "booking not found")
	ErrNotPendingOrExpired = failure.New(http.StatusConflict, "booking not found, not pending or already expired")
	ErrPastEndDate         = failure.New(http.StatusBadRequest, "cannot cancel a booking after its end_date has passed")
	ErrBookingClosed       = failure.New(http.StatusConflict, "booking is already cancelled or released")
	ErrInvalidTransition   = failure.New(http.StatusBadRequest, "booking status transition is not allowed")
	ErrBookingChanged      = failure.New(http.StatusConflict, "booking was modified by another request")
)
