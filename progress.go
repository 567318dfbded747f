// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProgressReporter receives phase-level callbacks from the Builder,
// Subsetter, Reducer, and Sweeper so a caller can trace or log the progress
// of a long-running construction without the core depending on any
// particular logging or tracing library (spec.md §6 treats this as an
// external collaborator).
type ProgressReporter interface {
	// StartLevel is called before a level's frontier is expanded, reduced,
	// or swept. phase is one of "build", "subset", "reduce", "sweep".
	StartLevel(phase string, row int)
	// EndLevel is called after a level finishes, reporting how many nodes
	// are now live in that row. The "sweep" phase reports once, with row 0
	// and the node count of the whole swept table.
	EndLevel(phase string, row int, liveNodes int)
}

// noopProgress is the default ProgressReporter: it does nothing.
type noopProgress struct{}

func (noopProgress) StartLevel(string, int)    {}
func (noopProgress) EndLevel(string, int, int) {}

// otelProgressReporter reports each level as a span, using the given tracer.
// Constructed with NewOtelProgress, grounded on the span-per-phase pattern
// used for long pipeline stages.
type otelProgressReporter struct {
	tracer trace.Tracer
	ctx    context.Context
	spans  map[string]trace.Span
}

// NewOtelProgress returns a ProgressReporter that opens one span per
// (phase, row) pair under the given context, using a tracer named tracerName
// from the global OpenTelemetry tracer provider ("tdzdd" if tracerName is
// empty).
func NewOtelProgress(ctx context.Context, tracerName string) ProgressReporter {
	if tracerName == "" {
		tracerName = "tdzdd"
	}
	return &otelProgressReporter{
		tracer: otel.Tracer(tracerName),
		ctx:    ctx,
		spans:  make(map[string]trace.Span),
	}
}

func spanKey(phase string, row int) string {
	return phase + ":" + strconv.Itoa(row)
}

func (p *otelProgressReporter) StartLevel(phase string, row int) {
	_, span := p.tracer.Start(p.ctx, phase,
		trace.WithAttributes(attribute.Int("tdzdd.row", row)))
	p.spans[spanKey(phase, row)] = span
}

func (p *otelProgressReporter) EndLevel(phase string, row int, liveNodes int) {
	key := spanKey(phase, row)
	span, ok := p.spans[key]
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("tdzdd.live_nodes", liveNodes))
	span.End()
	delete(p.spans, key)
}
