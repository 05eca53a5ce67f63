package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"conroom/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "service.CheckIn")
	scope := otel.NewScope(span)

	scope.SetAttributes(map[string]any{
		"booking.id": "b-1",
		"attempts":   2,
		"late":       true,
		"deadline":   time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC),
		"grace":      15 * time.Minute,
		"deposit":    20.5,
	})
	scope.AddEvent("checked in")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	recorded := spans[0]
	assert.Equal(t, "service.CheckIn", recorded.Name())
	assert.Equal(t, codes.Error, recorded.Status().Code)
	assert.Equal(t, "boom", recorded.Status().Description)
	assert.Contains(t, recorded.Attributes(), attribute.String("booking.id", "b-1"))
	assert.Contains(t, recorded.Attributes(), attribute.Int("attempts", 2))
	assert.Contains(t, recorded.Attributes(), attribute.Bool("late", true))
	assert.Contains(t, recorded.Attributes(), attribute.String("deadline", "2024-01-01T09:15:00Z"))
	assert.Contains(t, recorded.Attributes(), attribute.String("grace", "15m0s"))
	assert.Contains(t, recorded.Attributes(), attribute.Float64("deposit", 20.5))
	require.Len(t, recorded.Events(), 2)
	assert.Equal(t, "checked in", recorded.Events()[0].Name)
}
