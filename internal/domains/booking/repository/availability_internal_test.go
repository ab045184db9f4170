package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"escaperoom/infras/otel/mocks"
	"escaperoom/infras/postgres"
	"escaperoom/internal/domains/booking/model"
	"escaperoom/shared/daterange"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statementLog is a database/sql driver that records every statement in order.
// Room lock and availability queries answer from its fields; writes affect one row.
type statementLog struct {
	mu         sync.Mutex
	statements []string
	free       bool
}

func (l *statementLog) record(stmt string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.statements = append(l.statements, stmt)
}

// steps names each recorded statement by its role in the transaction.
func (l *statementLog) steps() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	steps := make([]string, 0, len(l.statements))

	for _, stmt := range l.statements {
		switch {
		case strings.HasPrefix(stmt, "SET LOCAL lock_timeout"):
			steps = append(steps, "lock timeout")
		case strings.HasSuffix(stmt, "FOR UPDATE"):
			steps = append(steps, "lock room")
		case strings.HasPrefix(stmt, "SELECT NOT EXISTS"):
			steps = append(steps, "check overlap")
		case strings.HasPrefix(stmt, "INSERT INTO bookings"):
			steps = append(steps, "insert")
		case strings.HasPrefix(stmt, "UPDATE bookings"):
			steps = append(steps, "update")
		default:
			steps = append(steps, stmt)
		}
	}

	return steps
}

func (l *statementLog) Connect(context.Context) (driver.Conn, error) { return &logConn{log: l}, nil }
func (l *statementLog) Driver() driver.Driver { return l }
func (l *statementLog) Open(string) (driver.Conn, error) { return &logConn{log: l}, nil }

type logConn struct {
	log *statementLog
}

func (c *logConn) Prepare(query string) (driver.Stmt, error) {
	return &logStmt{log: c.log, query: query}, nil
}

func (c *logConn) Close() error { return nil }

func (c *logConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *logConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	c.log.record("BEGIN")

	return &logTx{log: c.log}, nil
}

type logTx struct {
	log *statementLog
}

func (t *logTx) Commit() error {
	t.log.record("COMMIT")

	return nil
}

func (t *logTx) Rollback() error {
	t.log.record("ROLLBACK")

	return nil
}

type logStmt struct {
	log   *statementLog
	query string
}

func (s *logStmt) Close() error { return nil }
func (s *logStmt) NumInput() int { return -1 }

func (s *logStmt) Exec([]driver.Value) (driver.Result, error) {
	s.log.record(s.query)

	return driver.RowsAffected(1), nil
}

func (s *logStmt) Query([]driver.Value) (driver.Rows, error) {
	s.log.record(s.query)

	if strings.HasSuffix(s.query, "FOR UPDATE") {
		return &singleRow{column: "id", value: "room"}, nil
	}

	return &singleRow{column: "not_exists", value: s.log.free}, nil
}

type singleRow struct {
	column string
	value  driver.Value
	done   bool
}

func (r *singleRow) Columns() []string { return []string{r.column} }
func (r *singleRow) Close() error { return nil }

func (r *singleRow) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}

	r.done = true
	dest[0] = r.value

	return nil
}

func newLoggedRepository(t *testing.T, free bool) (*repositoryImpl, *statementLog) {
	t.Helper()

	log := &statementLog{free: free}
	db := sqlx.NewDb(sql.OpenDB(log), "postgres")

	t.Cleanup(func() { _ = db.Close() })

	repo, ok := New(&postgres.Connection{Read: db, Write: db}, mocks.NewOtel()).(*repositoryImpl)
	require.True(t, ok)

	return repo, log
}

func heldBooking() model.Booking {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	return model.Booking{
		ID:        "3d6f0a51-2b7c-4e8d-9f10-a1b2c3d4e5f6",
		RoomID:    "6f1c2a4e-1b7d-4c55-9a43-0d2f2b7c9a11",
		UserID:    "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    model.StatusPending,
	}
}

func TestInsertIfFree_LocksRoomBeforeCheckAndInsert(t *testing.T) {
	repo, log := newLoggedRepository(t, true)

	err := repo.InsertIfFree(context.Background(), heldBooking(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, []string{"BEGIN", "lock timeout", "lock room", "check overlap", "insert", "COMMIT"}, log.steps())
}

func TestInsertIfFree_BlockedRollsBack(t *testing.T) {
	repo, log := newLoggedRepository(t, false)

	err := repo.InsertIfFree(context.Background(), heldBooking(), time.Now())

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, []string{"BEGIN", "lock timeout", "lock room", "check overlap", "ROLLBACK"}, log.steps())
}

func TestUpdateIfFree_StatementOrder(t *testing.T) {
	tests := []struct {
		name      string
		check     bool
		wantSteps []string
	}{
		{
			name:      "rescheduling checks the window",
			check:     true,
			wantSteps: []string{"BEGIN", "lock timeout", "lock room", "check overlap", "update", "COMMIT"},
		},
		{
			name:      "cancelling skips the check",
			wantSteps: []string{"BEGIN", "lock timeout", "lock room", "update", "COMMIT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, log := newLoggedRepository(t, true)

			err := repo.UpdateIfFree(context.Background(), heldBooking(), model.StatusPending, time.Now(), tt.check)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSteps, log.steps())
		})
	}
}

func TestIsRoomFree_UsesAvailabilityQuery(t *testing.T) {
	repo, log := newLoggedRepository(t, false)
	booking := heldBooking()

	free, err := repo.IsRoomFree(context.Background(), booking.RoomID,
		daterange.Range{Start: booking.StartTime, End: booking.EndTime}, time.Now(), booking.ID)

	require.NoError(t, err)
	assert.False(t, free)
	assert.Equal(t, []string{"check overlap"}, log.steps())
}
