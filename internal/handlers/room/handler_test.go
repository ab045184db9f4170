package room_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	otelMocks "escaperoom/infras/otel/mocks"
	"escaperoom/internal/domains/room/model"
	"escaperoom/internal/domains/room/model/dto"
	"escaperoom/internal/domains/room/service/mocks"
	"escaperoom/internal/handlers/room"
	gDto "escaperoom/shared/dto"
	"escaperoom/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newRouter(t *testing.T) (*chi.Mux, *mocks.MockRoom) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockRoom(ctrl)

	handler := room.New(svc, otelMocks.NewOtel())

	mux := chi.NewRouter()
	handler.Router(mux)

	return mux, svc
}

func TestHandler_GetRooms(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantFilters int
		err         error
		wantStatus  int
	}{
		{name: "all rooms", target: "/rooms", wantStatus: http.StatusOK},
		{name: "name search", target: "/rooms?name=vault", wantFilters: 1, wantStatus: http.StatusOK},
		{name: "storage failure", target: "/rooms", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, svc := newRouter(t)

			svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ any, _ gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error) {
					assert.Len(t, filter.Filters, tt.wantFilters)

					return dto.GetRoomsResponse{Rooms: []dto.RoomResponse{{Name: "The Vault"}}, TotalData: 1}, tt.err
				})

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_GetRoomByID(t *testing.T) {
	mux, svc := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), "r1").Return(dto.RoomResponse{ID: "r1", Name: "Asylum"}, nil)
	svc.EXPECT().Get(gomock.Any(), "r2").Return(dto.RoomResponse{}, failure.NotFound(model.EntityName))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/r1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Asylum"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/r2", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
