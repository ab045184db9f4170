package hold_test

import (
	"testing"
	"time"

	"escaperoom/config"
	"escaperoom/internal/domains/booking/hold"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Threshold(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := &config.Config{}

	policy := hold.NewPolicy(cfg, hold.ClockFunc(func() time.Time { return now }))

	assert.Equal(t, now, policy.Now())
	assert.Equal(t, hold.DefaultMinutes*time.Minute, policy.Duration())
	assert.Equal(t, now.Add(-5*time.Minute), policy.Threshold(now))

	cfg.Booking.HoldMinutes = 15
	assert.Equal(t, 15*time.Minute, policy.Duration(), "duration is read at call time")
	assert.Equal(t, now.Add(-15*time.Minute), policy.Threshold(now))
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	got := hold.NewSystemClock().Now()

	assert.False(t, got.Before(before.Add(-time.Second)))
}
