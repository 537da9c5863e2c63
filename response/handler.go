package response

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/lmittmann/tint"
	"github.com/pitabwire/util"
	"go.opentelemetry.io/otel/trace"

	"github.com/greendam/greenframe/bizerr"
	"github.com/greendam/greenframe/telemetry"
)

const (
	tintAttrCode   = 214
	tintAttrDetail = 12
)

// HandlerFunc is endpoint logic. It either returns an envelope or an error
// that the boundary turns into one.
type HandlerFunc[T any] func(r *http.Request) (Envelope[T], error)

// Boundary is the single place where returned errors and panics become
// failure envelopes.
type Boundary struct {
	counter *telemetry.EnvelopeCounter
	tracer  telemetry.Tracer
}

type BoundaryOption func(b *Boundary)

// WithEnvelopeCounter counts every envelope written by outcome.
func WithEnvelopeCounter(counter *telemetry.EnvelopeCounter) BoundaryOption {
	return func(b *Boundary) {
		b.counter = counter
	}
}

// WithTracer wraps every handled request in a span.
func WithTracer(tracer telemetry.Tracer) BoundaryOption {
	return func(b *Boundary) {
		b.tracer = tracer
	}
}

func NewBoundary(opts ...BoundaryOption) *Boundary {
	b := &Boundary{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromError converts err into the envelope sent to the client. A business
// error keeps its code and message while its detail only reaches the log.
// Anything else is reported as a generic failure.
func FromError(ctx context.Context, err error) Envelope[any] {
	if err == nil {
		return Ok[any]()
	}

	if be, ok := bizerr.As(err); ok {
		log := util.Log(ctx).With(
			tint.Attr(tintAttrCode, slog.Int("code", be.Code())),
			tint.Attr(tintAttrDetail, slog.String("detail", be.DetailMessage())),
		)
		defer log.Release()
		if cause := be.Unwrap(); cause != nil {
			log = log.WithError(cause)
		}
		log.Warn("business failure", "message", be.Message())

		return FailCode[any](be.Code(), be.Message())
	}

	log := util.Log(ctx).WithError(err)
	var pe *panicError
	if errors.As(err, &pe) {
		log = log.WithField("stack", string(pe.stack))
	}
	log.Error("request failed")
	return Fail[any]()
}

// Handle adapts fn into an http.Handler. Every outcome is written as an
// envelope with HTTP status 200.
func Handle[T any](b *Boundary, fn HandlerFunc[T]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var span trace.Span
		if b.tracer != nil {
			ctx, span = b.tracer.Start(ctx, spanName(r))
			r = r.WithContext(ctx)
		}

		env, err := call(r, fn)
		if span != nil {
			b.tracer.End(ctx, span, err)
		}

		out := env.Any()
		if err != nil {
			out = FromError(ctx, err)
		}
		b.Write(ctx, w, out)
	})
}

// Write sends env and records its outcome.
func (b *Boundary) Write(ctx context.Context, w http.ResponseWriter, env Envelope[any]) {
	b.counter.Record(ctx, Outcome(env.Code()))

	if err := Write(w, env); err != nil {
		util.Log(ctx).WithError(err).Warn("could not write response envelope")
	}
}

// Recover turns a panic escaping next into a generic failure envelope. When
// next had already started the response the panic is only logged.
func (b *Boundary) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &writeTracker{ResponseWriter: w}
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				ctx := r.Context()
				env := FromError(ctx, &panicError{value: p, stack: debug.Stack()})
				if tw.started {
					return
				}
				b.Write(ctx, w, env)
			}
		}()

		next.ServeHTTP(tw, r)
	})
}

// writeTracker records whether a handler has sent anything yet.
type writeTracker struct {
	http.ResponseWriter
	started bool
}

func (w *writeTracker) WriteHeader(code int) {
	w.started = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *writeTracker) Write(b []byte) (int, error) {
	w.started = true
	return w.ResponseWriter.Write(b)
}

func (w *writeTracker) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func call[T any](r *http.Request, fn HandlerFunc[T]) (env Envelope[T], err error) {
	defer func() {
		if p := recover(); p != nil {
			if p == http.ErrAbortHandler {
				panic(p)
			}
			err = &panicError{value: p, stack: debug.Stack()}
		}
	}()
	return fn(r)
}

func spanName(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.Method + " " + r.URL.Path
}

type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}
