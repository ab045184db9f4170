package booking_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMocks "escaperoom/infras/otel/mocks"
	"escaperoom/internal/domains/booking/model"
	"escaperoom/internal/domains/booking/model/dto"
	"escaperoom/internal/domains/booking/service/mocks"
	"escaperoom/internal/handlers/booking"
	gDto "escaperoom/shared/dto"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const bookingID = "3d6f0a51-2b7c-4e8d-9f10-a1b2c3d4e5f6"

func newRouter(t *testing.T) (*chi.Mux, *mocks.MockBooking) {
	t.Helper()

	mux, svc, _ := newTracedRouter(t)

	return mux, svc
}

func newTracedRouter(t *testing.T) (*chi.Mux, *mocks.MockBooking, *otelMocks.Otel) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBooking(ctrl)
	recorder := otelMocks.NewRecorder()

	handler := booking.New(svc, recorder)

	mux := chi.NewRouter()
	handler.Router(mux)

	return mux, svc, recorder
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	return rec
}

func TestHandler_CreateBooking(t *testing.T) {
	validBody := `{"room_id":"6f1c2a4e-1b7d-4c55-9a43-0d2f2b7c9a11","guest":{"name":"Ann","email":"ann@example.com"},` +
		`"start_date":"2026-03-01T12:00:00Z","end_date":"2026-03-01T13:00:00Z"}`

	tests := []struct {
		name       string
		body       string
		setupMock  func(svc *mocks.MockBooking)
		wantStatus int
		wantBody   string
	}{
		{
			name: "created",
			body: validBody,
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{ID: bookingID, Status: "pending"}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"status":"pending"`,
		},
		{
			name:       "malformed body",
			body:       `{"room_id":`,
			setupMock:  func(_ *mocks.MockBooking) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing guest email",
			body:       `{"room_id":"6f1c2a4e-1b7d-4c55-9a43-0d2f2b7c9a11","guest":{"name":"Ann"},"start_date":"a","end_date":"b"}`,
			setupMock:  func(_ *mocks.MockBooking) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "email is required",
		},
		{
			name: "room taken",
			body: validBody,
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, model.ErrRoomUnavailable)
			},
			wantStatus: http.StatusConflict,
			wantBody:   model.ErrRoomUnavailable.Message,
		},
		{
			name: "storage failure",
			body: validBody,
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, svc := newRouter(t)
			tt.setupMock(svc)

			rec := serve(mux, http.MethodPost, "/bookings", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_GetBookings_PassesFilter(t *testing.T) {
	mux, svc := newRouter(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), dto.Filter{Status: "expired", RoomID: "r1"}).
		DoAndReturn(func(_ any, params gDto.QueryParams, _ dto.Filter) (dto.GetBookingsResponse, error) {
			assert.Equal(t, 2, params.Page)

			return dto.GetBookingsResponse{TotalData: 1}, nil
		})

	rec := serve(mux, http.MethodGet, "/bookings?status=expired&room_id=r1&page=2", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_data":1`)
}

func TestHandler_GetBookingByID(t *testing.T) {
	mux, svc := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), bookingID).Return(dto.BookingResponse{ID: bookingID, Status: "expired"}, nil)
	svc.EXPECT().Get(gomock.Any(), "missing").Return(dto.BookingResponse{}, model.ErrBookingNotFound)

	rec := serve(mux, http.MethodGet, "/bookings/"+bookingID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"expired"`)

	rec = serve(mux, http.MethodGet, "/bookings/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_MalformedIDIsClientError(t *testing.T) {
	mux, svc := newRouter(t)

	svc.EXPECT().Get(gomock.Any(), "abc").Return(dto.BookingResponse{}, model.ErrBookingNotFound)
	svc.EXPECT().Confirm(gomock.Any(), "abc").Return(model.ErrNotPendingOrExpired)

	rec := serve(mux, http.MethodGet, "/bookings/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrBookingNotFound.Message)

	rec = serve(mux, http.MethodPut, "/bookings/abc/confirm", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_UpdateBooking(t *testing.T) {
	mux, svc := newRouter(t)

	svc.EXPECT().Update(gomock.Any(), bookingID, dto.UpdateBookingRequest{
		StartDate: "2026-03-02T12:00:00Z",
		EndDate:   "2026-03-02T13:00:00Z",
		Status:    "confirmed",
	}).Return(dto.BookingResponse{ID: bookingID, Status: "confirmed"}, nil)

	body := `{"start_date":"2026-03-02T12:00:00Z","end_date":"2026-03-02T13:00:00Z","status":"confirmed"}`
	rec := serve(mux, http.MethodPatch, "/bookings/"+bookingID, body)

	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(mux, http.MethodPatch, "/bookings/"+bookingID, `{"start_date":"a","end_date":"b","status":"expired"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Lifecycle(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		setupMock  func(svc *mocks.MockBooking)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "confirm",
			method: http.MethodPut,
			path:   "/bookings/" + bookingID + "/confirm",
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Confirm(gomock.Any(), bookingID).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "Booking confirmed successfully",
		},
		{
			name:   "confirm expired hold",
			method: http.MethodPut,
			path:   "/bookings/" + bookingID + "/confirm",
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Confirm(gomock.Any(), bookingID).Return(model.ErrNotPendingOrExpired)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "cancel",
			method: http.MethodDelete,
			path:   "/bookings/" + bookingID + "/cancel",
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Cancel(gomock.Any(), bookingID).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "Booking cancelled successfully",
		},
		{
			name:   "cancel after end",
			method: http.MethodDelete,
			path:   "/bookings/" + bookingID + "/cancel",
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Cancel(gomock.Any(), bookingID).Return(model.ErrPastEndDate)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "release",
			method: http.MethodDelete,
			path:   "/bookings/" + bookingID + "/release",
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().Release(gomock.Any(), bookingID).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "Booking released successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, svc := newRouter(t)
			tt.setupMock(svc)

			rec := serve(mux, tt.method, tt.path, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_GetAvailableRooms(t *testing.T) {
	mux, svc, recorder := newTracedRouter(t)

	svc.EXPECT().GetAvailableRooms(gomock.Any(), "2026-03-01T12:00:00Z", "2026-03-01T13:00:00Z").
		Return(dto.AvailabilityResponse{StartDate: "2026-03-01T12:00:00Z"}, nil)

	rec := serve(mux, http.MethodGet, "/availability?start_date=2026-03-01T12:00:00Z&end_date=2026-03-01T13:00:00Z", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"start_date":"2026-03-01T12:00:00Z"`)

	scope := recorder.Scope("handler.GetAvailableRooms")
	require.NotNil(t, scope)
	assert.Equal(t, 0, scope.Attributes["rooms.available"])
	assert.True(t, scope.Ended)
}

func TestHandler_TracesRejection(t *testing.T) {
	mux, svc, recorder := newTracedRouter(t)

	svc.EXPECT().Confirm(gomock.Any(), bookingID).Return(model.ErrNotPendingOrExpired)

	serve(mux, http.MethodPut, "/bookings/"+bookingID+"/confirm", "")

	scope := recorder.Scope("handler.ConfirmBooking")
	require.NotNil(t, scope)
	require.Len(t, scope.Errors, 1)
	assert.ErrorIs(t, scope.Errors[0], model.ErrNotPendingOrExpired)
}
