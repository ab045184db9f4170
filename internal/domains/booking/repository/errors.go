package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"escaperoom/shared/constant"

	"github.com/lib/pq"
)

var (
	// ErrConflict means another booking holds the room for an overlapping window.
	ErrConflict = errors.New("booking conflicts with an existing reservation")
	// ErrNotFound means a referenced row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotModified means the guarded row changed before the write.
	ErrNotModified = errors.New("booking was modified concurrently")
)

// translate folds driver errors that signal a lost race into ErrConflict.
func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotModified) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constant.PqErrorCodeExclusionViolation,
			constant.PqErrorCodeSerializationFailure,
			constant.PqErrorCodeDeadlockDetected,
			constant.PqErrorCodeLockNotAvailable:
			return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
		case constant.PqErrorCodeFkViolation, constant.PqErrorCodeInvalidText:
			return fmt.Errorf("%w: %s", ErrNotFound, pqErr.Message)
		}
	}

	return err
}
