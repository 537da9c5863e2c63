package greenframe

import (
	"context"

	"github.com/greendam/greenframe/config"
)

// WithConfig specifies or overrides the configuration object of the service.
// Telemetry, logging and localization are rebuilt from the new configuration.
func WithConfig(cfg any) Option {
	return func(ctx context.Context, s *Service) {
		s.configuration = cfg

		serviceCfg, ok := cfg.(config.ConfigurationService)
		if ok {
			if serviceCfg.Name() != "" {
				WithName(serviceCfg.Name())(ctx, s)
			}

			if serviceCfg.Environment() != "" {
				WithEnvironment(serviceCfg.Environment())(ctx, s)
			}

			if serviceCfg.Version() != "" {
				WithVersion(serviceCfg.Version())(ctx, s)
			}
		}

		if httpCfg, ok := cfg.(config.ConfigurationHTTPServer); ok {
			WithHealthCheckPath(httpCfg.HealthPath())(ctx, s)
		}

		WithTelemetry()(ctx, s)

		WithLogger()(ctx, s)

		WithLocalization()(ctx, s)
	}
}

func (s *Service) Config() any {
	return s.configuration
}
