package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"escaperoom/infras/otel"
	"escaperoom/infras/postgres"
	"escaperoom/internal/domains/user/model"
	"escaperoom/shared/constant"
	gDto "escaperoom/shared/dto"
	gRepo "escaperoom/shared/repository"

	"github.com/lib/pq"
)

// ErrDuplicate means a user with the same email was stored first.
var ErrDuplicate = errors.New("user already exists")

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, user model.User) error {
	err := r.Repository.Insert(ctx, user)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, user.Email)
	}

	return err //nolint:wrapcheck
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
	}

	return false
}
