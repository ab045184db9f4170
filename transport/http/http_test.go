package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"escaperoom/shared/constant"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	err error
}

func (s stubChecker) Ping(_ context.Context) error {
	return s.err
}

func TestHTTP_Health(t *testing.T) {
	tests := []struct {
		name       string
		state      ServerState
		db         HealthChecker
		wantStatus int
		wantBody   string
	}{
		{name: "ready", state: ServerStateReady, db: stubChecker{}, wantStatus: http.StatusOK, wantBody: "OK"},
		{name: "no checker", state: ServerStateReady, wantStatus: http.StatusOK, wantBody: "OK"},
		{
			name:       "database down",
			state:      ServerStateReady,
			db:         stubChecker{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   constant.ResponseErrorUnhealthy,
		},
		{
			name:       "draining",
			state:      ServerStateInGracePeriod,
			db:         stubChecker{},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   constant.ResponseErrorPrepareShutdown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := &HTTP{DB: tt.db}
			server.state.Store(int32(tt.state))

			rec := httptest.NewRecorder()
			server.health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
