package dto

import (
	"time"

	"escaperoom/internal/domains/booking/model"
	roomDto "escaperoom/internal/domains/room/model/dto"
	"escaperoom/shared"
	"escaperoom/shared/constant"
	"escaperoom/shared/daterange"
	gDto "escaperoom/shared/dto"
	gModel "escaperoom/shared/model"
	"escaperoom/shared/timezone"

	"github.com/google/uuid"
)

type Guest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=100"`
}

type CreateBookingRequest struct {
	RoomID    string `json:"room_id"    validate:"required,uuid"`
	Guest     Guest  `json:"guest"      validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"   validate:"required"`
}

// ToModel builds a fresh hold acquired at now.
func (c *CreateBookingRequest) ToModel(userID string, window daterange.Range, now time.Time) model.Booking {
	return model.Booking{
		ID:        uuid.NewString(),
		RoomID:    c.RoomID,
		UserID:    userID,
		StartTime: window.Start,
		EndTime:   window.End,
		Status:    model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}
}

type UpdateBookingRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"   validate:"required"`
	Status    string `json:"status"     validate:"omitempty,oneof=pending confirmed cancelled released"`
}

// Filter narrows booking listings. Status may be any effective status, including expired.
type Filter struct {
	RoomID string `json:"room_id" validate:"omitempty,uuid"`
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	Status string `json:"status"  validate:"omitempty,oneof=pending confirmed cancelled released expired"`
}

// ToFilterGroup translates the effective status filter into stored columns.
func (f Filter) ToFilterGroup(threshold time.Time) gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	if f.RoomID != constant.Empty {
		group.Add(shared.FilterByField(model.FieldRoomID, f.RoomID, model.TableName).Filters...)
	}

	if f.UserID != constant.Empty {
		group.Add(shared.FilterByField(model.FieldUserID, f.UserID, model.TableName).Filters...)
	}

	switch model.Status(f.Status) {
	case model.StatusPending:
		group.Add(statusFilter(model.StatusPending), thresholdFilter(gDto.FilterOperatorGreater, threshold))
	case model.StatusExpired:
		group.Add(statusFilter(model.StatusPending), thresholdFilter(gDto.FilterOperatorLessEq, threshold))
	case model.StatusConfirmed, model.StatusCancelled, model.StatusReleased:
		group.Add(statusFilter(model.Status(f.Status)))
	}

	return group
}

func thresholdFilter(operator string, threshold time.Time) gDto.Filter {
	return gDto.Filter{ArgName: "threshold", Field: model.FieldCreatedAt, Value: threshold, Operator: operator, Table: model.TableName}
}

func statusFilter(status model.Status) gDto.Filter {
	return gDto.Filter{Field: model.FieldStatus, Value: status, Operator: gDto.FilterOperatorEq, Table: model.TableName}
}

type BookingResponse struct {
	ID              string `json:"id"`
	RoomID          string `json:"room_id"`
	UserID          string `json:"user_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Status          string `json:"status"`
	UserName        string `json:"user_name,omitempty"`
	UserEmail       string `json:"user_email,omitempty"`
	RoomName        string `json:"room_name,omitempty"`
	RoomDescription string `json:"room_description,omitempty"`
	gDto.Metadata
}

// FromModel fills the response with the status effective at threshold.
func (r *BookingResponse) FromModel(booking model.Booking, threshold time.Time) {
	r.ID = booking.ID
	r.RoomID = booking.RoomID
	r.UserID = booking.UserID
	r.StartDate = timezone.Format(booking.StartTime, constant.DateFormat)
	r.EndDate = timezone.Format(booking.EndTime, constant.DateFormat)
	r.Status = booking.EffectiveStatus(threshold).String()
	r.Metadata.FromModel(booking.Metadata)
}

func (r *BookingResponse) FromDetail(detail model.BookingDetail, threshold time.Time) {
	r.FromModel(detail.Booking, threshold)
	r.UserName = detail.UserName
	r.UserEmail = detail.UserEmail
	r.RoomName = detail.RoomName
	r.RoomDescription = detail.RoomDescription
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.BookingDetail, threshold time.Time, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromDetail(mod, threshold)
	}
}

type AvailabilityResponse struct {
	StartDate string                 `json:"start_date"`
	EndDate   string                 `json:"end_date"`
	Rooms     []roomDto.RoomResponse `json:"rooms"`
}
