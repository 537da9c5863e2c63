package localization

import (
	"context"
	"fmt"

	"github.com/pitabwire/util"

	"github.com/greendam/greenframe/resources"
)

// DefaultLocaleValue is used when no default locale is configured.
const DefaultLocaleValue = "en_US"

type Option func(o *managerOptions)

type managerOptions struct {
	defaultLocale Locale
	headerName    string
	languages     []string
	sources       []Source
}

func WithDefaultLocale(l Locale) Option {
	return func(o *managerOptions) {
		if !l.IsZero() {
			o.defaultLocale = l
		}
	}
}

// WithLocaleHeader sets the request header the resolver reads.
func WithLocaleHeader(name string) Option {
	return func(o *managerOptions) {
		o.headerName = name
	}
}

// WithLanguages restricts loading to the given languages.
func WithLanguages(languages ...string) Option {
	return func(o *managerOptions) {
		o.languages = append(o.languages, languages...)
	}
}

// WithSources replaces the embedded catalogs with the given sources.
func WithSources(sources ...Source) Option {
	return func(o *managerOptions) {
		o.sources = append(o.sources, sources...)
	}
}

// EmbeddedSource serves the catalogs compiled into the binary.
func EmbeddedSource() Source {
	return FSSource(resources.Catalogs, resources.CatalogDir)
}

// NewManager loads message files once and returns a read only manager that
// is safe for concurrent use.
func NewManager(ctx context.Context, opts ...Option) (Manager, error) {
	o := &managerOptions{
		defaultLocale: MustParseLocale(DefaultLocaleValue),
		headerName:    DefaultHeaderName,
	}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.sources) == 0 {
		o.sources = []Source{EmbeddedSource()}
	}

	bundle := newBundle(o.defaultLocale.Tag())
	loaded, err := loadSources(ctx, bundle, o.languages, o.sources...)
	if err != nil {
		return nil, fmt.Errorf("load message catalogs: %w", err)
	}

	util.Log(ctx).
		WithField("files", loaded).
		WithField("default_locale", o.defaultLocale.String()).
		Debug("message catalogs loaded")

	return &managerImpl{
		bundle:   bundle,
		resolver: NewResolver(o.defaultLocale, WithHeaderName(o.headerName)),
	}, nil
}
