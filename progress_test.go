// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// TestOtelProgressEmitsSpans checks that a Build run with an otel-backed
// Progress option opens and closes one span per (phase, row) pair, via an
// in-memory exporter instead of a real collector.
func TestOtelProgressEmitsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	reporter := &otelProgressReporter{
		tracer: tp.Tracer("tdzdd-test"),
		ctx:    context.Background(),
		spans:  make(map[string]trace.Span),
	}

	n, k := 6, 3
	_, err := Build[int](newCombinationSpec(n, k), Progress(reporter))
	require.NoError(t, err)

	spans := exporter.GetSpans()
	require.NotEmpty(t, spans)
	for _, s := range spans {
		require.Equal(t, "build", s.Name)
		require.False(t, s.EndTime.IsZero())
	}
	// One span per distinct row actually visited during construction.
	require.LessOrEqual(t, len(spans), n)
}
