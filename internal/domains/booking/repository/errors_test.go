package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"escaperoom/shared/constant"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	pqErr := func(code string) error {
		return fmt.Errorf("failed to insert data (booking): %w", &pq.Error{Code: pq.ErrorCode(code), Message: "boom"})
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "exclusion violation", err: pqErr(constant.PqErrorCodeExclusionViolation), want: ErrConflict},
		{name: "serialization failure", err: pqErr(constant.PqErrorCodeSerializationFailure), want: ErrConflict},
		{name: "deadlock", err: pqErr(constant.PqErrorCodeDeadlockDetected), want: ErrConflict},
		{name: "lock timeout", err: pqErr(constant.PqErrorCodeLockNotAvailable), want: ErrConflict},
		{name: "foreign key", err: pqErr(constant.PqErrorCodeFkViolation), want: ErrNotFound},
		{name: "malformed uuid", err: pqErr(constant.PqErrorCodeInvalidText), want: ErrNotFound},
		{name: "room lock found nothing", err: fmt.Errorf("failed to lock room: %w", sql.ErrNoRows), want: ErrNotFound},
		{name: "already translated", err: ErrConflict, want: ErrConflict},
		{name: "guard lost", err: ErrNotModified, want: ErrNotModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.err), tt.want)
		})
	}
}

func TestTranslate_PassThrough(t *testing.T) {
	assert.NoError(t, translate(nil))

	plain := errors.New("connection refused")
	assert.Same(t, plain, translate(plain))

	unique := &pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)}
	assert.Equal(t, unique, translate(unique))
}

func TestQueriesShareBlockingPredicate(t *testing.T) {
	assert.Contains(t, roomFreeQuery, BlockingPredicate)
	assert.Contains(t, freeRoomsQuery, BlockingPredicate)
	assert.Contains(t, roomFreeQuery, OverlapPredicate)
	assert.Contains(t, freeRoomsQuery, OverlapPredicate)
	assert.Contains(t, roomFreeQuery, "CAST(b.id AS TEXT) <> :exclude_id")
}
