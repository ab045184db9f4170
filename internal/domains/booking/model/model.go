package model

import (
	"time"

	"escaperoom/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldRoomID    = "room_id"
	FieldUserID    = "user_id"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldStatus    = "status"
	FieldCreatedAt = "created_at"
)

// Booking is a reservation row. CreatedAt marks when its hold was acquired.
type Booking struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	UserID    string    `db:"user_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Status    Status    `db:"status"`
	model.Metadata
}

// EffectiveStatus is the status as seen at threshold.
func (b Booking) EffectiveStatus(threshold time.Time) Status {
	return EffectiveStatus(b.Status, b.CreatedAt, threshold)
}

// BookingDetail is a booking joined with its guest and room.
type BookingDetail struct {
	Booking
	UserName        string `column:"username"    db:"user_name"        table:"users"`
	UserEmail       string `column:"email"       db:"user_email"       table:"users"`
	RoomName        string `column:"name"        db:"room_name"        table:"rooms"`
	RoomDescription string `column:"description" db:"room_description" table:"rooms"`
}

func (BookingDetail) GetJoinQuery() string {
	return "JOIN users ON users.id = bookings.user_id JOIN rooms ON rooms.id = bookings.room_id"
}
