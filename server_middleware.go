package greenframe

import (
	"net/http"
	"time"

	"github.com/pitabwire/util"
	"github.com/rs/xid"

	"github.com/greendam/greenframe/localization"
)

const headerRequestID = "X-Request-ID"

// requestIDMiddleware tags the request with the caller supplied X-Request-ID
// or a new xid and puts a logger carrying it on the request context.
func (s *Service) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = xid.New().String()
		}
		w.Header().Set(headerRequestID, requestID)

		logger := s.Log(r.Context()).WithField("request_id", requestID)
		ctx := util.ContextWithLogger(r.Context(), logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// accessLogMiddleware adds the request locale, method and path to the
// context logger and logs every completed request.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := util.Log(ctx).
			WithField("method", r.Method).
			WithField("path", r.URL.Path)
		if l, ok := localization.FromContext(ctx); ok {
			logger = logger.WithField("locale", l.String())
		}
		ctx = util.ContextWithLogger(ctx, logger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.WithField("status", rec.status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Debug("request handled")
	})
}
