package greenframe

import (
	"context"
	"fmt"

	"github.com/greendam/greenframe/config"
	"github.com/greendam/greenframe/telemetry"
)

// WithTelemetry sets up tracing, metrics and log export. It is a no-op
// export-wise while OPENTELEMETRY_DISABLE is true. A manager set up earlier
// is shut down first.
func WithTelemetry(opts ...telemetry.Option) Option {
	return func(ctx context.Context, s *Service) {
		cfg, ok := s.Config().(config.ConfigurationTelemetry)
		if !ok {
			s.Log(ctx).Error("configuration object not of type : ConfigurationTelemetry")
			return
		}

		extOpts := []telemetry.Option{
			telemetry.WithServiceName(s.Name()),
			telemetry.WithServiceVersion(s.Version()),
			telemetry.WithServiceEnvironment(s.Environment())}

		if locCfg, isLoc := s.Config().(config.ConfigurationLocalization); isLoc {
			extOpts = append(extOpts, telemetry.WithDefaultLocale(locCfg.DefaultLocale()))
		}

		extOpts = append(extOpts, opts...)

		if s.telemetryManager != nil {
			if err := s.telemetryManager.Shutdown(ctx); err != nil {
				s.Log(ctx).WithError(err).Warn("replaced telemetry did not flush")
			}
			s.telemetryManager = nil
		}

		manager := telemetry.NewManager(ctx, cfg, extOpts...)
		if err := manager.Init(ctx); err != nil {
			s.initErrors = append(s.initErrors, fmt.Errorf("initialise telemetry: %w", err))
			return
		}
		s.telemetryManager = manager
	}
}

func (s *Service) Telemetry() telemetry.Manager {
	return s.telemetryManager
}
