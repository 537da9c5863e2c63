package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log/global"
	sdklogs "go.opentelemetry.io/otel/sdk/log"
	sdkmetrics "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.40.0"

	"github.com/greendam/greenframe/config"
)

// AttrDefaultLocaleKey tags the service resource with its fallback locale.
const AttrDefaultLocaleKey = attribute.Key("greenframe.default_locale")

type Manager interface {
	Init(ctx context.Context) error
	Disabled() bool
	LogHandler() slog.Handler
	Shutdown(ctx context.Context) error
}

type manager struct {
	serviceName        string
	serviceVersion     string
	serviceEnvironment string
	defaultLocale      string

	cfg      config.ConfigurationTelemetry
	disabled bool

	traceExporter sdktrace.SpanExporter
	metricsReader sdkmetrics.Reader
	logsExporter  sdklogs.Exporter

	logHandler slog.Handler
	shutdowns  []func(context.Context) error
}

func (m *manager) LogHandler() slog.Handler {
	return m.logHandler
}

func (m *manager) Disabled() bool {
	return m.disabled
}

// NewManager creates a telemetry manager. Nothing is exported until Init is
// called, and a configuration with telemetry disabled keeps it that way.
func NewManager(ctx context.Context, cfg config.ConfigurationTelemetry, opts ...Option) Manager {
	m := &manager{
		cfg:      cfg,
		disabled: cfg != nil && cfg.DisableOpenTelemetry(),
	}

	for _, opt := range opts {
		opt(ctx, m)
	}

	return m
}

// Init installs global trace, metric and log providers. Exporters not given
// as options come from the OTEL_*_EXPORTER variables, defaulting to none.
func (m *manager) Init(ctx context.Context) error {
	if m.Disabled() {
		return nil
	}

	res, err := m.resource(ctx)
	if err != nil {
		return err
	}

	if m.traceExporter == nil {
		exporterDefault("OTEL_TRACES_EXPORTER")
		if m.traceExporter, err = autoexport.NewSpanExporter(ctx); err != nil {
			return err
		}
	}

	if m.metricsReader == nil {
		exporterDefault("OTEL_METRICS_EXPORTER")
		if m.metricsReader, err = autoexport.NewMetricReader(ctx); err != nil {
			return err
		}
	}

	if m.logsExporter == nil {
		exporterDefault("OTEL_LOGS_EXPORTER")
		if m.logsExporter, err = autoexport.NewLogExporter(ctx); err != nil {
			return err
		}
	}

	m.installProviders(res)
	return nil
}

func exporterDefault(key string) {
	if os.Getenv(key) == "" {
		_ = os.Setenv(key, "none")
	}
}

// resource describes the service. Its own attributes carry no schema URL so
// merging with the SDK default can never conflict.
func (m *manager) resource(ctx context.Context) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(m.serviceName),
		semconv.ServiceVersion(m.serviceVersion),
		semconv.DeploymentEnvironmentName(m.serviceEnvironment),
	}
	if m.defaultLocale != "" {
		attrs = append(attrs, AttrDefaultLocaleKey.String(m.defaultLocale))
	}

	detected, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcessPID(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(resource.Default(), detected)
	if err != nil {
		return nil, err
	}
	return resource.Merge(res, resource.NewSchemaless(attrs...))
}

func (m *manager) installProviders(res *resource.Resource) {
	ratio := 1.0
	if m.cfg != nil {
		ratio = m.cfg.SamplingRatio()
	}

	otel.SetTextMapPropagator(autoprop.NewTextMapPropagator())

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithBatcher(m.traceExporter),
		sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)

	mp := sdkmetrics.NewMeterProvider(
		sdkmetrics.WithReader(m.metricsReader),
		sdkmetrics.WithResource(res),
		sdkmetrics.WithView(CounterView(envelopePackage, envelopeMeterName, envelopeDescription)...),
	)
	otel.SetMeterProvider(mp)

	lp := sdklogs.NewLoggerProvider(
		sdklogs.WithResource(res),
		sdklogs.WithProcessor(sdklogs.NewBatchProcessor(m.logsExporter)),
	)
	global.SetLoggerProvider(lp)

	m.shutdowns = append(m.shutdowns, tp.Shutdown, mp.Shutdown, lp.Shutdown)

	m.logHandler = otelslog.NewHandler(envelopePackage,
		otelslog.WithSource(true),
		otelslog.WithLoggerProvider(lp),
		otelslog.WithAttributes(res.Attributes()...))
}

// Shutdown flushes and stops every provider started by Init.
func (m *manager) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(m.shutdowns) - 1; i >= 0; i-- {
		if err := m.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	m.shutdowns = nil
	return errors.Join(errs...)
}
