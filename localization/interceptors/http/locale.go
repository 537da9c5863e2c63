package http

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/greendam/greenframe/localization"
)

// LocaleHTTPMiddleware resolves the request locale, stores it in the request
// context and advertises it in the Content-Language response header.
func LocaleHTTPMiddleware(resolver *localization.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := resolver.ResolveRequest(r)

			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("locale", l.String()))
			w.Header().Set("Content-Language", l.Tag().String())

			ctx := localization.ToContext(r.Context(), l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
