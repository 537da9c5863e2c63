package greenframe

import (
	"context"
	"log/slog"

	"github.com/pitabwire/util"

	"github.com/greendam/greenframe/config"
)

// WithLogger builds the service logger from the logging configuration. opts
// are applied before the configured ones.
func WithLogger(opts ...util.Option) Option {
	return func(ctx context.Context, s *Service) {
		if cfg, ok := s.Config().(config.ConfigurationLogLevel); ok {
			logLevel, err := util.ParseLevel(cfg.LoggingLevel())
			if err == nil {
				opts = append(opts, util.WithLogLevel(logLevel))
			}
			opts = append(opts,
				util.WithLogTimeFormat(cfg.LoggingTimeFormat()),
				util.WithLogNoColor(!cfg.LoggingColored()))
			if cfg.LoggingShowStackTrace() {
				opts = append(opts, util.WithLogStackTrace())
			}
		}

		if s.telemetryManager != nil && s.telemetryManager.LogHandler() != nil {
			opts = append(opts, util.WithLogHandler(s.telemetryManager.LogHandler()))
		}

		s.logger = util.NewLogger(ctx, opts...)
	}
}

// Log returns the service logger bound to ctx and tagged with the service name.
func (s *Service) Log(ctx context.Context) *util.LogEntry {
	entry := s.logger.WithContext(ctx)
	if s.name != "" {
		entry = entry.WithField("service", s.name)
	}
	return entry
}

func (s *Service) SLog(ctx context.Context) *slog.Logger {
	return s.Log(ctx).SLog()
}
