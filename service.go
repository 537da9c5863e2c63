package greenframe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pitabwire/util"
	"gocloud.dev/server/health"
	"google.golang.org/grpc"

	"github.com/greendam/greenframe/config"
	"github.com/greendam/greenframe/localization"
	"github.com/greendam/greenframe/profiler"
	"github.com/greendam/greenframe/response"
	"github.com/greendam/greenframe/telemetry"
)

type contextKey string

func (c contextKey) String() string {
	return "greenframe/" + string(c)
}

const ctxKeyService = contextKey("serviceKey")

// Service holds together all application components. One instance lives for
// the lifetime of the process and is pushed into contexts so handlers can
// reach it.
type Service struct {
	name          string
	version       string
	environment   string
	logger        *util.LogEntry
	configuration any

	telemetryManager    telemetry.Manager
	localizationManager localization.Manager
	boundary            *response.Boundary

	handler         http.Handler
	middleware      []func(http.Handler) http.Handler
	wrappedHandler  http.Handler
	healthHandler   *health.Handler
	healthCheckers  []Checker
	healthCheckPath string
	debugEnabled    bool
	debugBasePath   string

	grpcServer *grpc.Server
	grpcPort   string

	httpServer   *http.Server
	httpListener net.Listener
	grpcListener net.Listener
	profiler     *profiler.Server

	initErrors []error

	cancelFunc         context.CancelFunc
	errorChannelMutex  sync.Mutex
	errorChannel       chan error
	errorChannelClosed bool
	cleanup            func(ctx context.Context)
	buildOnce          sync.Once
	stopMutex          sync.Mutex
	stopped            bool
}

type Option func(ctx context.Context, service *Service)

// NewService creates a service configured from the environment and then
// from opts, applied in order. The returned context is cancelled on SIGINT,
// SIGTERM, SIGHUP or SIGQUIT and carries the service, its configuration and
// its logger.
func NewService(opts ...Option) (context.Context, *Service) {
	return NewServiceWithContext(context.Background(), opts...)
}

// NewServiceWithContext is NewService deriving from a caller supplied context.
func NewServiceWithContext(ctx context.Context, opts ...Option) (context.Context, *Service) {
	ctx, signalCancelFunc := signal.NotifyContext(ctx,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	defaultLogger := util.Log(ctx)
	ctx = util.ContextWithLogger(ctx, defaultLogger)

	service := &Service{
		cancelFunc:    signalCancelFunc,
		errorChannel:  make(chan error, 1),
		logger:        defaultLogger,
		healthHandler: new(health.Handler),
	}

	defaultCfg, err := config.FromEnv[config.ConfigurationDefault]()
	if err != nil {
		service.initErrors = append(service.initErrors, fmt.Errorf("parse configuration: %w", err))
	}

	opts = append([]Option{WithConfig(&defaultCfg)}, opts...)
	service.Init(ctx, opts...)

	ctx = SvcToContext(ctx, service)
	ctx = config.ToContext(ctx, service.Config())
	ctx = util.ContextWithLogger(ctx, service.logger)
	return ctx, service
}

// SvcToContext pushes a service instance into the supplied context.
func SvcToContext(ctx context.Context, service *Service) context.Context {
	return context.WithValue(ctx, ctxKeyService, service)
}

// Svc obtains a service instance being propagated through the context.
func Svc(ctx context.Context) *Service {
	service, ok := ctx.Value(ctxKeyService).(*Service)
	if !ok {
		return nil
	}

	return service
}

func (s *Service) Name() string {
	return s.name
}

func WithName(name string) Option {
	return func(_ context.Context, s *Service) {
		s.name = name
	}
}

func (s *Service) Version() string {
	return s.version
}

func WithVersion(version string) Option {
	return func(_ context.Context, s *Service) {
		s.version = version
	}
}

func (s *Service) Environment() string {
	return s.environment
}

func WithEnvironment(environment string) Option {
	return func(_ context.Context, s *Service) {
		s.environment = environment
	}
}

// Init applies opts to the service. It may be called again before Run to
// register components that need the service, such as HTTP routes.
func (s *Service) Init(ctx context.Context, opts ...Option) {
	for _, opt := range opts {
		opt(ctx, s)
	}
}

// AddCleanupMethod registers f to run while the service stops. Methods run
// in reverse order of registration.
func (s *Service) AddCleanupMethod(f func(ctx context.Context)) {
	s.stopMutex.Lock()
	defer s.stopMutex.Unlock()

	if s.cleanup == nil {
		s.cleanup = f
		return
	}

	old := s.cleanup
	s.cleanup = func(ctx context.Context) { f(ctx); old(ctx) }
}

// Run serves HTTP on address, or on the configured HTTP port when address is
// empty, and gRPC when a gRPC server is set. It blocks until ctx is done or a
// server fails.
func (s *Service) Run(ctx context.Context, address string) error {
	if err := errors.Join(s.initErrors...); err != nil {
		return err
	}

	address = s.determineHTTPPort(address)

	if cfg, ok := s.Config().(config.ConfigurationProfiler); ok {
		s.profiler = profiler.NewServer()
		if err := s.profiler.StartIfEnabled(ctx, cfg); err != nil {
			return err
		}
	}

	if err := s.listen(ctx, address); err != nil {
		s.Stop(context.WithoutCancel(ctx))
		return err
	}

	s.Log(ctx).
		WithField("name", s.Name()).
		WithField("version", s.Version()).
		WithField("environment", s.Environment()).
		WithField("http", s.httpListener.Addr().String()).
		WithField("default_locale", s.Localization().DefaultLocale().String()).
		Info("service started")

	go func() {
		s.sendStopError(ctx, s.serveHTTP())
	}()

	if s.grpcServer != nil {
		go func() {
			s.sendStopError(ctx, s.serveGRPC())
		}()
	}

	select {
	case <-ctx.Done():
		s.Stop(context.WithoutCancel(ctx))
		return ctx.Err()
	case err := <-s.errorChannel:
		if err != nil {
			s.Log(ctx).WithError(err).Error("system exit in error")
		} else {
			s.Log(ctx).Debug("system exit")
		}
		s.Stop(context.WithoutCancel(ctx))
		return err
	}
}

// Stop shuts the servers down gracefully, runs cleanup methods and flushes
// telemetry. Calls after the first are ignored.
func (s *Service) Stop(ctx context.Context) {
	s.stopMutex.Lock()
	defer s.stopMutex.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true

	s.Log(ctx).Info("service stopping")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownGracePeriod())
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.Log(ctx).WithError(err).Warn("http server did not shut down cleanly")
		}
	}

	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}

	if s.profiler != nil {
		if err := s.profiler.Stop(ctx); err != nil {
			s.Log(ctx).WithError(err).Warn("profiler did not shut down cleanly")
		}
	}

	if s.cleanup != nil {
		s.cleanup(ctx)
	}

	if s.telemetryManager != nil {
		if err := s.telemetryManager.Shutdown(shutdownCtx); err != nil {
			s.Log(ctx).WithError(err).Warn("telemetry did not flush")
		}
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	s.errorChannelMutex.Lock()
	defer s.errorChannelMutex.Unlock()
	s.errorChannelClosed = true
	close(s.errorChannel)
}

func (s *Service) sendStopError(ctx context.Context, err error) {
	s.errorChannelMutex.Lock()
	defer s.errorChannelMutex.Unlock()

	if s.errorChannelClosed {
		return
	}

	select {
	case <-ctx.Done():
	case s.errorChannel <- err:
	default:
	}
}
