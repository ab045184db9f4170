// Package hold decides how long a pending booking keeps its room.
package hold

import (
	"time"

	"escaperoom/config"
	"escaperoom/shared/timezone"
)

const DefaultMinutes = 5

type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return timezone.Now()
}

func NewSystemClock() Clock {
	return systemClock{}
}

// Policy is the single source of "now" and of the expiry threshold for every booking decision.
type Policy struct {
	cfg   *config.Config
	clock Clock
}

func NewPolicy(cfg *config.Config, clock Clock) *Policy {
	return &Policy{
		cfg:   cfg,
		clock: clock,
	}
}

func (p *Policy) Now() time.Time {
	return p.clock.Now()
}

// Duration reads the configured hold length on every call.
func (p *Policy) Duration() time.Duration {
	minutes := p.cfg.Booking.HoldMinutes
	if minutes <= 0 {
		minutes = DefaultMinutes
	}

	return time.Duration(minutes) * time.Minute
}

// Threshold is the creation instant at or before which a pending hold has expired.
func (p *Policy) Threshold(now time.Time) time.Time {
	return now.Add(-p.Duration())
}
