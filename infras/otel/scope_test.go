package otel_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"escaperoom/infras/otel"
	"escaperoom/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func record(t *testing.T, fn func(scope otel.Scope)) trace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "service.booking.Create")
	scope := otel.NewScope(span)

	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func TestScope_RecordsAttributesAndErrors(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.SetAttributes(map[string]any{"room_id": "r1", "rooms": 2, "held": true})
		scope.TraceIfError(nil)
		scope.TraceIfError(errors.New("connection refused"))
	})

	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "connection refused", span.Status().Description)
	assert.Len(t, span.Attributes(), 3)
	assert.Len(t, span.Events(), 1)
}

func TestScope_ClientErrorKeepsSpanUnset(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.TraceError(failure.New(http.StatusConflict, "room is not available for the selected time range"))
	})

	assert.Equal(t, codes.Unset, span.Status().Code)
	require.Len(t, span.Events(), 1)
	assert.Equal(t, "client_error", span.Events()[0].Name)
	assert.Contains(t, span.Events()[0].Attributes, attribute.Int("error.code", http.StatusConflict))
}

func TestScope_AttributeTypes(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	span := record(t, func(scope otel.Scope) {
		scope.SetAttribute("created_at", createdAt)
		scope.SetAttribute("hold", 5*time.Minute)
		scope.SetAttribute("price", 120.5)
		scope.SetAttribute("inserted", int64(4))
	})

	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("created_at", "2026-03-01T10:00:00Z"),
		attribute.String("hold", "5m0s"),
		attribute.Float64("price", 120.5),
		attribute.Int64("inserted", 4),
	}, span.Attributes())
}
