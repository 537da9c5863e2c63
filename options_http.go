package greenframe

import (
	"context"
	"net/http"

	"github.com/greendam/greenframe/response"
	"github.com/greendam/greenframe/telemetry"
)

const tracerName = "greenframe/http"

// WithHTTPHandler sets the application handler mounted at "/".
func WithHTTPHandler(h http.Handler) Option {
	return func(_ context.Context, s *Service) {
		s.handler = h
	}
}

// WithHTTPMiddleware adds middleware between the built in chain and the
// application handler. The first middleware given is the outermost.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(_ context.Context, s *Service) {
		s.middleware = append(s.middleware, mw...)
	}
}

// Boundary returns the envelope boundary shared by every handler of the
// service. It counts envelopes and traces handlers once telemetry is set up.
func (s *Service) Boundary() *response.Boundary {
	if s.boundary == nil {
		s.boundary = response.NewBoundary(
			response.WithEnvelopeCounter(telemetry.NewEnvelopeCounter()),
			response.WithTracer(telemetry.NewTracer(tracerName)),
		)
	}
	return s.boundary
}
