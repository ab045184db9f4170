package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"time"

	"escaperoom/infras/kafka"
	"escaperoom/infras/otel"
	"escaperoom/internal/domains/booking/model"
	"escaperoom/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	Created   = "booking.created"
	Updated   = "booking.updated"
	Confirmed = "booking.confirmed"
	Cancelled = "booking.cancelled"
	Released  = "booking.released"
)

// Payload is the message body. Window and owner fields are empty when the producer only knows the id.
type Payload struct {
	Event      string     `json:"event"`
	BookingID  string     `json:"booking_id"`
	Status     string     `json:"status"`
	RoomID     string     `json:"room_id,omitempty"`
	UserID     string     `json:"user_id,omitempty"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

func NewPayload(name string, booking model.Booking, occurredAt time.Time) Payload {
	payload := Payload{
		Event:      name,
		BookingID:  booking.ID,
		Status:     booking.Status.String(),
		RoomID:     booking.RoomID,
		UserID:     booking.UserID,
		OccurredAt: occurredAt,
	}

	if !booking.StartTime.IsZero() {
		payload.StartTime = &booking.StartTime
	}

	if !booking.EndTime.IsZero() {
		payload.EndTime = &booking.EndTime
	}

	return payload
}

type Publisher interface {
	// Publish hands the event to the broker without blocking the caller. Failures are only logged.
	Publish(ctx context.Context, payload Payload)
}

type publisherImpl struct {
	client kafka.Client
	otel   otel.Otel
}

func New(client kafka.Client, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		otel:   otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, payload Payload) {
	go func() {
		c := context.WithoutCancel(ctx)

		p.send(c, payload)
	}()
}

func (p *publisherImpl) send(ctx context.Context, payload Payload) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()

	scope.SetAttributes(map[string]any{"event": payload.Event, "booking_id": payload.BookingID})

	err := p.client.SendMessages(ctx, kafka.Message{
		Key:   payload.BookingID,
		Event: payload.Event,
		Value: payload,
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("event", payload.Event).Str("booking_id", payload.BookingID).Msg("failed to publish booking event")
	}
}
