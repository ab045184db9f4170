package model

import (
	"slices"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusReleased  Status = "released"

	// StatusExpired is derived at read time and never stored.
	StatusExpired Status = "expired"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusPending, StatusConfirmed, StatusCancelled, StatusReleased},
	StatusExpired:   {StatusCancelled, StatusReleased},
	StatusConfirmed: {StatusConfirmed, StatusCancelled},
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further change is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusReleased
}

// IsStored reports whether s may be written to the store.
func (s Status) IsStored() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusReleased:
		return true
	default:
		return false
	}
}

// IsExpired reports whether a hold created at createdAt has lapsed at threshold.
func IsExpired(stored Status, createdAt, threshold time.Time) bool {
	return stored == StatusPending && !createdAt.After(threshold)
}

// EffectiveStatus maps a lapsed pending hold to expired and returns every other status unchanged.
func EffectiveStatus(stored Status, createdAt, threshold time.Time) Status {
	if IsExpired(stored, createdAt, threshold) {
		return StatusExpired
	}

	return stored
}

// Blocks reports whether the booking keeps its room occupied.
// It must stay in step with BlockingPredicate in the repository.
func Blocks(stored Status, createdAt, threshold time.Time) bool {
	switch EffectiveStatus(stored, createdAt, threshold) {
	case StatusConfirmed, StatusPending:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a booking whose effective status is from may be moved to to.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}
