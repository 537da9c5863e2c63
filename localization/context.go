package localization

import (
	"context"
)

type contextKey string

func (c contextKey) String() string {
	return "greenframe/localization/" + string(c)
}

const ctxKeyLocale = contextKey("localeKey")

// mapKeyLocale is the metadata key used when a locale crosses a process
// boundary, e.g. in gRPC metadata.
const mapKeyLocale = "area"

// ToContext adds the locale to the supplied context.
func ToContext(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, l)
}

// FromContext extracts the locale from the supplied context if one exists.
func FromContext(ctx context.Context) (Locale, bool) {
	l, ok := ctx.Value(ctxKeyLocale).(Locale)
	return l, ok
}

// LocaleOrDefault is FromContext with a fallback for contexts that did not
// originate from a request.
func LocaleOrDefault(ctx context.Context, def Locale) Locale {
	if l, ok := FromContext(ctx); ok {
		return l
	}
	return def
}

func ToMap(m map[string]string, l Locale) map[string]string {
	m[mapKeyLocale] = l.String()
	return m
}

func FromMap(m map[string]string) (Locale, bool) {
	value, ok := m[mapKeyLocale]
	if !ok {
		return Locale{}, false
	}
	l, err := ParseLocale(value)
	if err != nil {
		return Locale{}, false
	}
	return l, true
}

// MetadataKey is the lower case key read from gRPC metadata.
func MetadataKey() string {
	return mapKeyLocale
}
