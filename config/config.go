package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type contextKey string

func (c contextKey) String() string {
	return "greenframe/config/" + string(c)
}

const ctxKeyConfiguration = contextKey("configurationKey")

// ToContext adds service configuration to the current supplied context.
func ToContext(ctx context.Context, config any) context.Context {
	return context.WithValue(ctx, ctxKeyConfiguration, config)
}

// FromContext extracts service configuration from the supplied context if any exist.
func FromContext[T any](ctx context.Context) T {
	if cfg, ok := ctx.Value(ctxKeyConfiguration).(T); ok {
		return cfg
	}
	var zero T
	return zero
}

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

type ConfigurationDefault struct {
	LogLevel      string `envDefault:"info"                      env:"LOG_LEVEL"       yaml:"log_level"`
	LogTimeFormat string `envDefault:"2006-01-02T15:04:05Z07:00" env:"LOG_TIME_FORMAT" yaml:"log_time_format"`
	LogColored    bool   `envDefault:"true"                      env:"LOG_COLORED"     yaml:"log_colored"`

	LogShowStackTrace bool `envDefault:"false" env:"LOG_SHOW_STACK_TRACE" yaml:"log_show_stack_trace"`

	OpenTelemetryDisable    bool    `envDefault:"true" env:"OPENTELEMETRY_DISABLE"        yaml:"opentelemetry_disable"`
	OpenTelemetryTraceRatio float64 `envDefault:"0.1"  env:"OPENTELEMETRY_TRACE_ID_RATIO" yaml:"opentelemetry_trace_id_ratio"`

	ServiceName        string `envDefault:"" env:"SERVICE_NAME"        yaml:"service_name"`
	ServiceEnvironment string `envDefault:"" env:"SERVICE_ENVIRONMENT" yaml:"service_environment"`
	ServiceVersion     string `envDefault:"" env:"SERVICE_VERSION"     yaml:"service_version"`

	HTTPServerPort string `envDefault:":8080"  env:"HTTP_PORT"    yaml:"http_server_port"`
	GrpcServerPort string `envDefault:":50051" env:"GRPC_PORT"    yaml:"grpc_server_port"`
	GrpcEnabled    bool   `envDefault:"false"  env:"GRPC_ENABLED" yaml:"grpc_enabled"`

	HTTPReadTimeout  time.Duration `envDefault:"15s" env:"HTTP_READ_TIMEOUT"  yaml:"http_read_timeout"`
	HTTPWriteTimeout time.Duration `envDefault:"15s" env:"HTTP_WRITE_TIMEOUT" yaml:"http_write_timeout"`
	HTTPIdleTimeout  time.Duration `envDefault:"60s" env:"HTTP_IDLE_TIMEOUT"  yaml:"http_idle_timeout"`
	ShutdownTimeout  time.Duration `envDefault:"10s" env:"SHUTDOWN_TIMEOUT"   yaml:"shutdown_timeout"`

	HealthCheckPath string `envDefault:"/healthz" env:"HEALTH_CHECK_PATH" yaml:"health_check_path"`

	ProfilerEnable   bool   `envDefault:"false" env:"PROFILER_ENABLE" yaml:"profiler_enable"`
	ProfilerPortAddr string `envDefault:":6060" env:"PROFILER_PORT"   yaml:"profiler_port"`

	DefaultLocaleValue string   `envDefault:"en_US" env:"DEFAULT_LOCALE"   yaml:"default_locale"`
	LocaleHeaderName   string   `envDefault:"Area"  env:"LOCALE_HEADER"    yaml:"locale_header"`
	CatalogURL         string   `envDefault:""      env:"I18N_CATALOG_URL" yaml:"i18n_catalog_url"`
	CatalogLanguages   []string `env:"I18N_LANGUAGES" yaml:"i18n_languages"`
}

type ConfigurationService interface {
	Name() string
	Environment() string
	Version() string
}

var _ ConfigurationService = new(ConfigurationDefault)

func (c *ConfigurationDefault) Name() string {
	return c.ServiceName
}
func (c *ConfigurationDefault) Environment() string {
	return c.ServiceEnvironment
}
func (c *ConfigurationDefault) Version() string {
	return c.ServiceVersion
}

type ConfigurationLogLevel interface {
	LoggingLevel() string
	LoggingTimeFormat() string
	LoggingShowStackTrace() bool
	LoggingColored() bool
	LoggingLevelIsDebug() bool
}

var _ ConfigurationLogLevel = new(ConfigurationDefault)

func (c *ConfigurationDefault) LoggingLevel() string {
	return c.LogLevel
}

func (c *ConfigurationDefault) LoggingTimeFormat() string {
	return c.LogTimeFormat
}

func (c *ConfigurationDefault) LoggingColored() bool {
	return c.LogColored
}

func (c *ConfigurationDefault) LoggingShowStackTrace() bool {
	return c.LogShowStackTrace
}

func (c *ConfigurationDefault) LoggingLevelIsDebug() bool {
	return c.LoggingLevel() == "debug" || c.LoggingLevel() == "trace"
}

type ConfigurationPorts interface {
	HTTPPort() string
	GrpcPort() string
	GrpcServerEnabled() bool
}

var _ ConfigurationPorts = new(ConfigurationDefault)

// normalisePort accepts "8080", ":8080" and "host:8080".
func normalisePort(value, fallback string) string {
	value = strings.TrimSpace(value)
	if i, err := strconv.Atoi(value); err == nil && i > 0 {
		return fmt.Sprintf(":%s", value)
	}

	if strings.Contains(value, ":") {
		return value
	}

	return fallback
}

func (c *ConfigurationDefault) HTTPPort() string {
	return normalisePort(c.HTTPServerPort, ":8080")
}

func (c *ConfigurationDefault) GrpcPort() string {
	return normalisePort(c.GrpcServerPort, ":50051")
}

func (c *ConfigurationDefault) GrpcServerEnabled() bool {
	return c.GrpcEnabled
}

type ConfigurationHTTPServer interface {
	ReadTimeout() time.Duration
	WriteTimeout() time.Duration
	IdleTimeout() time.Duration
	ShutdownGracePeriod() time.Duration
	HealthPath() string
}

var _ ConfigurationHTTPServer = new(ConfigurationDefault)

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

func (c *ConfigurationDefault) ReadTimeout() time.Duration {
	return durationOr(c.HTTPReadTimeout, 15*time.Second)
}

func (c *ConfigurationDefault) WriteTimeout() time.Duration {
	return durationOr(c.HTTPWriteTimeout, 15*time.Second)
}

func (c *ConfigurationDefault) IdleTimeout() time.Duration {
	return durationOr(c.HTTPIdleTimeout, time.Minute)
}

func (c *ConfigurationDefault) ShutdownGracePeriod() time.Duration {
	return durationOr(c.ShutdownTimeout, 10*time.Second)
}

func (c *ConfigurationDefault) HealthPath() string {
	if c.HealthCheckPath == "" {
		return "/healthz"
	}
	if !strings.HasPrefix(c.HealthCheckPath, "/") {
		return "/" + c.HealthCheckPath
	}
	return c.HealthCheckPath
}

type ConfigurationProfiler interface {
	ProfilerEnabled() bool
	ProfilerPort() string
}

var _ ConfigurationProfiler = new(ConfigurationDefault)

func (c *ConfigurationDefault) ProfilerEnabled() bool {
	return c.ProfilerEnable
}

func (c *ConfigurationDefault) ProfilerPort() string {
	return normalisePort(c.ProfilerPortAddr, ":6060")
}

type ConfigurationTelemetry interface {
	DisableOpenTelemetry() bool
	SamplingRatio() float64
}

var _ ConfigurationTelemetry = new(ConfigurationDefault)

func (c *ConfigurationDefault) DisableOpenTelemetry() bool {
	return c.OpenTelemetryDisable
}

func (c *ConfigurationDefault) SamplingRatio() float64 {
	return c.OpenTelemetryTraceRatio
}

type ConfigurationLocalization interface {
	DefaultLocale() string
	LocaleHeader() string
	I18nCatalogURL() string
	I18nLanguages() []string
}

var _ ConfigurationLocalization = new(ConfigurationDefault)

func (c *ConfigurationDefault) DefaultLocale() string {
	if c.DefaultLocaleValue == "" {
		return "en_US"
	}
	return c.DefaultLocaleValue
}

func (c *ConfigurationDefault) LocaleHeader() string {
	if c.LocaleHeaderName == "" {
		return "Area"
	}
	return c.LocaleHeaderName
}

func (c *ConfigurationDefault) I18nCatalogURL() string {
	return c.CatalogURL
}

func (c *ConfigurationDefault) I18nLanguages() []string {
	var languages []string
	for _, l := range c.CatalogLanguages {
		if l = strings.TrimSpace(l); l != "" {
			languages = append(languages, l)
		}
	}
	return languages
}
