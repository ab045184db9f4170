package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"escaperoom/infras/otel"
	"escaperoom/infras/postgres"
	"escaperoom/internal/domains/booking/model"
	roomModel "escaperoom/internal/domains/room/model"
	"escaperoom/shared"
	"escaperoom/shared/constant"
	"escaperoom/shared/daterange"
	gDto "escaperoom/shared/dto"
	gRepo "escaperoom/shared/repository"
	"escaperoom/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetDetail(ctx context.Context, id string) (model.BookingDetail, error)
	GetAllDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)

	// InsertIfFree stores a new hold unless a blocking booking overlaps it. Returns ErrConflict when blocked.
	InsertIfFree(ctx context.Context, booking model.Booking, threshold time.Time) error
	// UpdateIfFree rewrites window and status of booking while its stored status is still expected.
	// With check set the room must be free of other blocking bookings.
	UpdateIfFree(ctx context.Context, booking model.Booking, expected model.Status, threshold time.Time, check bool) error

	Confirm(ctx context.Context, id string, threshold time.Time, actor string) (bool, error)
	Release(ctx context.Context, id string, actor string) (bool, error)
	Cancel(ctx context.Context, id string, actor string) (bool, error)

	IsRoomFree(ctx context.Context, roomID string, window daterange.Range, threshold time.Time, excludeID string) (bool, error)
	FreeRooms(ctx context.Context, window daterange.Range, threshold time.Time) ([]roomModel.Room, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	detail gRepo.Repository[model.BookingDetail]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.BookingDetail](model.EntityName+"_detail", model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) GetDetail(ctx context.Context, id string) (model.BookingDetail, error) {
	return r.detail.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) GetAllDetails(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
	return r.detail.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) Confirm(ctx context.Context, id string, threshold time.Time, actor string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Confirm")
	defer scope.End()

	return r.transition(ctx, id, model.StatusConfirmed, actor,
		gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Value: model.StatusPending, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{ArgName: "threshold", Field: model.FieldCreatedAt, Value: threshold, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
	)
}

func (r *repositoryImpl) Release(ctx context.Context, id string, actor string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Release")
	defer scope.End()

	return r.transition(ctx, id, model.StatusReleased, actor,
		gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Value: model.StatusPending, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	)
}

func (r *repositoryImpl) Cancel(ctx context.Context, id string, actor string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Cancel")
	defer scope.End()

	return r.transition(ctx, id, model.StatusCancelled, actor,
		gDto.Filter{ArgName: "current_status", Field: model.FieldStatus, Value: []model.Status{model.StatusPending, model.StatusConfirmed}, Operator: gDto.FilterOperatorIn, Table: model.TableName},
	)
}

// transition is a single conditional UPDATE. It reports false when no row satisfied the guards.
func (r *repositoryImpl) transition(ctx context.Context, id string, to model.Status, actor string, guards ...gDto.Filter) (bool, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName}},
	}

	for _, guard := range guards {
		filter.Filters = append(filter.Filters, guard)
	}

	affected, err := r.Update(ctx, map[string]any{
		model.FieldStatus:        to,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}, filter)
	if err != nil {
		return false, fmt.Errorf("failed to set booking %s: %w", to, translate(err))
	}

	return affected > 0, nil
}

// updateTx writes the new window and status, guarded on the status read before the transaction.
func (r *repositoryImpl) updateTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, expected model.Status) error {
	affected, err := r.UpdateTx(ctx, tx, map[string]any{
		model.FieldStartTime:     booking.StartTime,
		model.FieldEndTime:       booking.EndTime,
		model.FieldStatus:        booking.Status,
		constant.FieldModifiedAt: booking.ModifiedAt,
		constant.FieldModifiedBy: booking.ModifiedBy,
	}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: booking.ID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "expected_status", Field: model.FieldStatus, Value: expected, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	if affected == 0 {
		return ErrNotModified
	}

	return nil
}
