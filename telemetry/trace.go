package telemetry

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/pitabwire/util"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/greendam/greenframe/bizerr"
	"github.com/greendam/greenframe/localization"
)

// Attribute keys shared by spans and metrics.
//
//nolint:gochecknoglobals // OpenTelemetry attribute keys must be global for reuse
var (
	AttrMethodKey  = attribute.Key("greenframe_method")
	AttrPackageKey = attribute.Key("greenframe_package")
	AttrStatusKey  = attribute.Key("greenframe_status")
	AttrErrorKey   = attribute.Key("greenframe_error")
	AttrOutcomeKey = attribute.Key("outcome")
	AttrLocaleKey  = attribute.Key("locale")
)

type spanStart struct {
	at     time.Time
	method string
}

type contextKey string

const spanStartContextKey contextKey = "spanStartCtxKey"

type tracer struct {
	name           string
	tracer         trace.Tracer
	latencyMeasure metric.Float64Histogram
}

// NewTracer creates a new tracer for a package.
func NewTracer(name string, options ...trace.TracerOption) Tracer {
	return &tracer{
		name:           name,
		tracer:         otel.Tracer(name, options...),
		latencyMeasure: LatencyMeasure(name),
	}
}

// Start opens a span tagged with the method and, when the context carries
// one, the request locale. The caller ends it with End.
//
//nolint:spancheck // the caller ends the span
func (t *tracer) Start(
	ctx context.Context,
	spanName string,
	options ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{AttrMethodKey.String(spanName)}
	if l, ok := localization.FromContext(ctx); ok {
		attrs = append(attrs, AttrLocaleKey.String(l.String()))
	}
	options = append(options, trace.WithAttributes(attrs...))

	sCtx, span := t.tracer.Start(ctx, spanName, options...)
	return context.WithValue(sCtx, spanStartContextKey, spanStart{
		at:     time.Now(),
		method: t.name + "/" + spanName,
	}), span
}

// End completes a span with error information if applicable and records its
// latency. Business errors are expected outcomes and leave the span status Ok.
func (t *tracer) End(ctx context.Context, span trace.Span, err error, options ...trace.SpanEndOption) {
	start, ok := ctx.Value(spanStartContextKey).(spanStart)
	if !ok {
		util.Log(ctx).Error("span was not started by this tracer")
		span.End(options...)
		return
	}

	status := ErrorCode(err)
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case isBusiness(err):
		span.SetAttributes(AttrStatusKey.String(status))
		span.SetStatus(codes.Ok, "")
	default:
		options = append(options, trace.WithStackTrace(true))
		span.SetAttributes(AttrErrorKey.String(err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End(options...)

	t.latencyMeasure.Record(ctx,
		float64(time.Since(start.at).Milliseconds()),
		metric.WithAttributes(
			AttrStatusKey.String(status),
			AttrMethodKey.String(start.method)),
	)
}

func isBusiness(err error) bool {
	_, ok := bizerr.As(err)
	return ok
}

// ErrorCode classifies err for the status attribute.
func ErrorCode(err error) string {
	if err == nil {
		return "ok"
	}
	if be, ok := bizerr.As(err); ok {
		return "biz_" + strconv.Itoa(be.Code())
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "deadline exceeded"
	}
	return "err"
}
