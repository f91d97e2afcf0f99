package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewLogger_AddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production", "info", "")

	ctx := WithUserID(WithCorrelationID(context.Background(), "cid-1"), 42)
	logger.InfoContext(ctx, "hello", slog.String("k", "v"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "cid-1", record["correlation_id"])
	assert.Equal(t, float64(42), record["user_id"])
	assert.Equal(t, "v", record["k"])
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "development", "warn", "text")

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestEnsureCorrelationID(t *testing.T) {
	ctx := EnsureCorrelationID(context.Background())
	id := ExtractCorrelationID(ctx)
	assert.NotEmpty(t, id)

	// An existing id is kept.
	assert.Equal(t, id, ExtractCorrelationID(EnsureCorrelationID(ctx)))
}

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(StoreOperations.WithLabelValues("TestOp", "ok"))
	ObserveOperation("TestOp", "ok", time.Now())
	assert.Equal(t, before+1, testutil.ToFloat64(StoreOperations.WithLabelValues("TestOp", "ok")))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "giftlist-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	ctx, span := StartOperation(context.Background(), "noop")
	assert.NotNil(t, ctx)
	EndOperation(span, errors.New("boom"))
}

func TestInitTracing_StdoutWritesOperationSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:  "giftlist-test",
		Environment:  "test",
		Enabled:      true,
		Exporter:     ExporterStdout,
		SamplerRatio: 1,
		Writer:       &buf,
	})
	require.NoError(t, err)
	t.Cleanup(func() { Tracer = otel.Tracer("giftlist") })

	_, span := StartOperation(context.Background(), "AddGift")
	EndOperation(span, errors.New("boom"))
	require.NoError(t, shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "store.AddGift")
	assert.Contains(t, out, "deployment.environment")
	assert.Contains(t, out, "boom")
}

func TestInitTracing_RejectsUnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{ServiceName: "giftlist-test", Enabled: true, Exporter: "zipkin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zipkin")
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), sampler(0.25).Description())
}
