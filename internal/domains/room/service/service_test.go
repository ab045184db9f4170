package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"escaperoom/config"
	"escaperoom/infras/otel/mocks"
	roomMocks "escaperoom/internal/domains/room/mocks"
	"escaperoom/internal/domains/room/model"
	"escaperoom/internal/domains/room/service"
	cacheMocks "escaperoom/shared/cache/mocks"
	"escaperoom/shared/constant"
	gDto "escaperoom/shared/dto"
	"escaperoom/shared/failure"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const roomID = "6f1c2a4e-1b7d-4c55-9a43-0d2f2b7c9a11"

func newService(t *testing.T) (service.Room, *roomMocks.MockRoom, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo, mockCache
}

func TestRoomService_GetAll(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantTotal int
	}{
		{
			name: "cache hit",
			setupMock: func(_ *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "cache miss loads from database",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{{ID: "r1"}, {ID: "r2"}}, nil)
			},
			wantTotal: 2,
		},
		{
			name: "count error",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)

				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name: "get all error",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
				cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

				repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newService(t)
			tt.setupMock(repo, cache)

			res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalData)
		})
	}
}

func TestRoomService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), "room:get:"+roomID, gomock.Any()).Return(errors.New("cache miss"))
		cache.EXPECT().Save(gomock.Any(), "room:get:"+roomID, gomock.Any(), 3600).Return(nil).AnyTimes()
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: roomID, Name: "The Vault", Price: 25}, nil)

		res, err := svc.Get(context.Background(), roomID)

		assert.NoError(t, err)
		assert.Equal(t, "The Vault", res.Name)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), "8b0e6a52-3c4d-4e1f-8a2b-9c7d6e5f4a32")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("malformed id skips storage", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Get(context.Background(), "abc")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("repository error", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, errors.New("db down"))

		_, err := svc.Get(context.Background(), roomID)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestRoomService_Exists(t *testing.T) {
	t.Run("cached room", func(t *testing.T) {
		svc, _, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), "room:get:"+roomID, gomock.Any()).Return(nil)

		exist, err := svc.Exists(context.Background(), "r1")

		assert.NoError(t, err)
		assert.True(t, exist)
	})

	t.Run("falls back to database", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		exist, err := svc.Exists(context.Background(), "r9")

		assert.NoError(t, err)
		assert.False(t, exist)
	})

	t.Run("database error", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))

		_, err := svc.Exists(context.Background(), "r1")

		assert.Error(t, err)
	})
}

func TestRoomService_Seed(t *testing.T) {
	t.Run("stamps audit fields and invalidates listings", func(t *testing.T) {
		svc, repo, cache := newService(t)

		repo.EXPECT().
			InsertIgnore(gomock.Any(), model.FieldID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, rooms ...model.Room) (int64, error) {
				for _, room := range rooms {
					assert.Equal(t, constant.SystemActor, room.CreatedBy)
					assert.False(t, room.CreatedAt.IsZero())
				}

				return 1, nil
			})
		cache.EXPECT().Clear(gomock.Any(), "room:gets*").Return(nil)
		cache.EXPECT().Clear(gomock.Any(), "room:count*").Return(nil)

		inserted, err := svc.Seed(context.Background(), []model.Room{{ID: "r1", Name: "The Vault"}, {ID: "r2", Name: "Asylum"}})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), inserted)
	})

	t.Run("nothing new keeps caches", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().InsertIgnore(gomock.Any(), model.FieldID, gomock.Any()).Return(int64(0), nil)

		inserted, err := svc.Seed(context.Background(), []model.Room{{ID: "r1", Name: "The Vault"}})

		assert.NoError(t, err)
		assert.Zero(t, inserted)
	})

	t.Run("rejects rooms without id", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Seed(context.Background(), []model.Room{{Name: "Nameless"}})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
