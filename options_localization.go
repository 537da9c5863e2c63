package greenframe

import (
	"context"
	"fmt"

	"github.com/greendam/greenframe/config"
	"github.com/greendam/greenframe/localization"
)

// WithLocalization loads the message catalogs. The configuration supplies
// the default locale, the locale header, the catalog bucket URL and the
// languages to load; opts are applied after it.
func WithLocalization(opts ...localization.Option) Option {
	return func(ctx context.Context, s *Service) {
		var cfgOpts []localization.Option

		if cfg, ok := s.Config().(config.ConfigurationLocalization); ok {
			def, err := localization.ParseLocale(cfg.DefaultLocale())
			if err != nil {
				s.initErrors = append(s.initErrors, fmt.Errorf("default locale %q: %w", cfg.DefaultLocale(), err))
				return
			}

			cfgOpts = append(cfgOpts,
				localization.WithDefaultLocale(def),
				localization.WithLocaleHeader(cfg.LocaleHeader()),
				localization.WithLanguages(cfg.I18nLanguages()...))

			if cfg.I18nCatalogURL() != "" {
				cfgOpts = append(cfgOpts,
					localization.WithSources(localization.BucketSource(cfg.I18nCatalogURL(), "")))
			}
		}

		manager, err := localization.NewManager(ctx, append(cfgOpts, opts...)...)
		if err != nil {
			s.initErrors = append(s.initErrors, err)
			return
		}
		s.localizationManager = manager
	}
}

func (s *Service) Localization() localization.Manager {
	return s.localizationManager
}
