package telemetry

import (
	"context"

	sdklogs "go.opentelemetry.io/otel/sdk/log"
	sdkmetrics "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Option func(ctx context.Context, m *manager)

func WithServiceName(name string) Option {
	return func(_ context.Context, m *manager) {
		m.serviceName = name
	}
}

func WithServiceVersion(version string) Option {
	return func(_ context.Context, m *manager) {
		m.serviceVersion = version
	}
}

func WithServiceEnvironment(env string) Option {
	return func(_ context.Context, m *manager) {
		m.serviceEnvironment = env
	}
}

// WithDefaultLocale records the fallback locale on the service resource.
func WithDefaultLocale(locale string) Option {
	return func(_ context.Context, m *manager) {
		m.defaultLocale = locale
	}
}

func WithTraceExporter(exporter sdktrace.SpanExporter) Option {
	return func(_ context.Context, m *manager) {
		m.traceExporter = exporter
	}
}

// WithMetricsReader is mostly used by tests to collect envelope counts.
func WithMetricsReader(reader sdkmetrics.Reader) Option {
	return func(_ context.Context, m *manager) {
		m.metricsReader = reader
	}
}

func WithLogsExporter(exporter sdklogs.Exporter) Option {
	return func(_ context.Context, m *manager) {
		m.logsExporter = exporter
	}
}
