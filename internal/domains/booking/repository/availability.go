package repository

import (
	"context"
	"fmt"
	"time"

	"escaperoom/internal/domains/booking/model"
	roomModel "escaperoom/internal/domains/room/model"
	"escaperoom/shared/constant"
	"escaperoom/shared/daterange"
	"escaperoom/shared/logger"

	"github.com/jmoiron/sqlx"
)

const (
	// OverlapPredicate matches bookings b intersecting [:start_time, :end_time).
	OverlapPredicate = "b.start_time < :end_time AND b.end_time > :start_time"

	// BlockingPredicate matches bookings b that occupy their room at :threshold. See model.Blocks.
	BlockingPredicate = "(b.status = 'confirmed' OR (b.status = 'pending' AND b.created_at > :threshold))"

	lockTimeout = "5s"
)

var (
	roomFreeQuery = fmt.Sprintf(`SELECT NOT EXISTS (
	SELECT 1 FROM %s b
	WHERE b.room_id = :room_id
	  AND CAST(b.id AS TEXT) <> :exclude_id
	  AND %s
	  AND %s
)`, model.TableName, OverlapPredicate, BlockingPredicate)

	freeRoomsQuery = fmt.Sprintf(`SELECT r.id, r.name, r.description, r.price, r.created_at, r.modified_at, r.created_by, r.modified_by
FROM %s r
WHERE NOT EXISTS (
	SELECT 1 FROM %s b
	WHERE b.room_id = r.id
	  AND %s
	  AND %s
)
ORDER BY r.name`, roomModel.TableName, model.TableName, OverlapPredicate, BlockingPredicate)

	lockRoomQuery = fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", roomModel.TableName)
)

type namedPreparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

func windowArgs(roomID string, window daterange.Range, threshold time.Time, excludeID string) map[string]any {
	return map[string]any{
		"room_id":    roomID,
		"start_time": window.Start,
		"end_time":   window.End,
		"threshold":  threshold,
		"exclude_id": excludeID,
	}
}

func (r *repositoryImpl) IsRoomFree(ctx context.Context, roomID string, window daterange.Range, threshold time.Time, excludeID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.IsRoomFree")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, roomFreeQuery)

	free, err := r.isRoomFree(ctx, r.db.Read, roomID, window, threshold, excludeID)
	if err != nil {
		scope.TraceError(err)

		return false, err
	}

	return free, nil
}

func (r *repositoryImpl) isRoomFree(ctx context.Context, db namedPreparer, roomID string, window daterange.Range, threshold time.Time, excludeID string) (bool, error) {
	stmt, err := db.PrepareNamedContext(ctx, roomFreeQuery)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to prepare availability check: %w", err)
	}
	defer stmt.Close()

	var free bool
	if err = stmt.GetContext(ctx, &free, windowArgs(roomID, window, threshold, excludeID)); err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check room availability: %w", translate(err))
	}

	return free, nil
}

// FreeRooms lists every room with no blocking booking over window, in one query.
func (r *repositoryImpl) FreeRooms(ctx context.Context, window daterange.Range, threshold time.Time) ([]roomModel.Room, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FreeRooms")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, freeRoomsQuery)

	rooms := []roomModel.Room{}

	stmt, err := r.db.Read.PrepareNamedContext(ctx, freeRoomsQuery)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rooms, fmt.Errorf("failed to prepare free rooms query: %w", err)
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, &rooms, windowArgs("", window, threshold, "")); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return rooms, fmt.Errorf("failed to list free rooms: %w", err)
	}

	return rooms, nil
}

// lockRoom serializes writers of one room until the surrounding transaction ends.
func (r *repositoryImpl) lockRoom(ctx context.Context, tx *sqlx.Tx, roomID string) error {
	if _, err := tx.ExecContext(ctx, "SET LOCAL lock_timeout = '"+lockTimeout+"'"); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	var id string
	if err := tx.GetContext(ctx, &id, lockRoomQuery, roomID); err != nil {
		return fmt.Errorf("failed to lock room: %w", err)
	}

	return nil
}

func (r *repositoryImpl) InsertIfFree(ctx context.Context, booking model.Booking, threshold time.Time) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertIfFree")
	defer scope.End()

	window := daterange.Range{Start: booking.StartTime, End: booking.EndTime}

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.lockRoom(ctx, tx, booking.RoomID); err != nil {
			return err
		}

		free, err := r.isRoomFree(ctx, tx, booking.RoomID, window, threshold, constant.Empty)
		if err != nil {
			return err
		}

		if !free {
			return ErrConflict
		}

		return r.InsertTx(ctx, tx, booking) //nolint:wrapcheck
	})
	if err != nil {
		scope.TraceError(err)

		return translate(err)
	}

	return nil
}

func (r *repositoryImpl) UpdateIfFree(ctx context.Context, booking model.Booking, expected model.Status, threshold time.Time, check bool) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateIfFree")
	defer scope.End()

	window := daterange.Range{Start: booking.StartTime, End: booking.EndTime}

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.lockRoom(ctx, tx, booking.RoomID); err != nil {
			return err
		}

		if check {
			free, err := r.isRoomFree(ctx, tx, booking.RoomID, window, threshold, booking.ID)
			if err != nil {
				return err
			}

			if !free {
				return ErrConflict
			}
		}

		return r.updateTx(ctx, tx, booking, expected)
	})
	if err != nil {
		scope.TraceError(err)

		return translate(err)
	}

	return nil
}
