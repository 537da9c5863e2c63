package localization

import (
	"net/http"
)

// DefaultHeaderName is the request header carrying the caller's locale.
const DefaultHeaderName = "Area"

// Resolver derives the locale of a request from a single header. It has no
// state besides its configuration and is safe for concurrent use.
type Resolver struct {
	defaultLocale Locale
	headerName    string
}

type ResolverOption func(r *Resolver)

// WithHeaderName overrides the header read by the resolver.
func WithHeaderName(name string) ResolverOption {
	return func(r *Resolver) {
		if name != "" {
			r.headerName = http.CanonicalHeaderKey(name)
		}
	}
}

func NewResolver(defaultLocale Locale, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		defaultLocale: defaultLocale,
		headerName:    DefaultHeaderName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) DefaultLocale() Locale {
	return r.defaultLocale
}

func (r *Resolver) HeaderName() string {
	return r.headerName
}

// Resolve returns the locale named by the configured header, or the default
// locale when the header is absent or malformed.
func (r *Resolver) Resolve(h http.Header) Locale {
	if h == nil {
		return r.defaultLocale
	}
	return r.ResolveValue(h.Get(r.headerName))
}

// ResolveValue applies the resolution rule to a raw header value.
func (r *Resolver) ResolveValue(value string) Locale {
	if value == "" {
		return r.defaultLocale
	}

	l, err := ParseLocale(value)
	if err != nil {
		return r.defaultLocale
	}
	return l
}

func (r *Resolver) ResolveRequest(req *http.Request) Locale {
	if req == nil {
		return r.defaultLocale
	}
	return r.Resolve(req.Header)
}

// SetLocale does nothing. A locale is only ever read from the request.
func (r *Resolver) SetLocale(_ http.ResponseWriter, _ *http.Request, _ Locale) {}
