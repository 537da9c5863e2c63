package greenframe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/greendam/greenframe/config"
	"github.com/greendam/greenframe/localization"
	lhttp "github.com/greendam/greenframe/localization/interceptors/http"
)

const (
	defaultHTTPPort        = ":8080"
	defaultGRPCPort        = ":50051"
	defaultHealthCheckPath = "/healthz"
	defaultShutdownPeriod  = 10 * time.Second
)

// Handler returns the fully wrapped HTTP handler: tracing, request ids, locale
// resolution, access logging and panic recovery around the health endpoint
// and the application handler. It is built once.
func (s *Service) Handler() http.Handler {
	s.buildOnce.Do(func() {
		healthPath := s.healthCheckPath
		if healthPath == "" {
			healthPath = defaultHealthCheckPath
		}

		mux := http.NewServeMux()
		mux.Handle(healthPath, s.healthHandler)
		s.registerDebugEndpoints(mux)
		if s.handler != nil {
			mux.Handle("/", s.handler)
		}

		var h http.Handler = mux
		for i := len(s.middleware) - 1; i >= 0; i-- {
			h = s.middleware[i](h)
		}

		h = s.Boundary().Recover(h)
		h = accessLogMiddleware(h)
		h = lhttp.LocaleHTTPMiddleware(s.resolver())(h)
		h = s.requestIDMiddleware(h)
		s.wrappedHandler = otelhttp.NewHandler(h, s.Name(),
			otelhttp.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != healthPath
			}))
	})
	return s.wrappedHandler
}

func (s *Service) resolver() *localization.Resolver {
	if s.localizationManager != nil {
		return s.localizationManager.Resolver()
	}
	return localization.NewResolver(localization.MustParseLocale(localization.DefaultLocaleValue))
}

func (s *Service) determineHTTPPort(currentPort string) string {
	if currentPort != "" {
		return currentPort
	}

	cfg, ok := s.Config().(config.ConfigurationPorts)
	if !ok {
		return defaultHTTPPort
	}
	return cfg.HTTPPort()
}

func (s *Service) determineGRPCPort(currentPort string) string {
	if currentPort != "" {
		return currentPort
	}

	cfg, ok := s.Config().(config.ConfigurationPorts)
	if !ok {
		return defaultGRPCPort
	}
	return cfg.GrpcPort()
}

func (s *Service) shutdownGracePeriod() time.Duration {
	if cfg, ok := s.Config().(config.ConfigurationHTTPServer); ok {
		return cfg.ShutdownGracePeriod()
	}
	return defaultShutdownPeriod
}

func (s *Service) listen(ctx context.Context, address string) error {
	if cfg, ok := s.Config().(config.ConfigurationPorts); ok && cfg.GrpcServerEnabled() && s.grpcServer == nil {
		WithGRPCServer(nil)(ctx, s)
	}

	s.httpServer = &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
	if cfg, ok := s.Config().(config.ConfigurationHTTPServer); ok {
		s.httpServer.ReadTimeout = cfg.ReadTimeout()
		s.httpServer.WriteTimeout = cfg.WriteTimeout()
		s.httpServer.IdleTimeout = cfg.IdleTimeout()
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("listen http on %s: %w", address, err)
	}
	s.httpListener = listener

	if s.grpcServer == nil {
		return nil
	}

	grpc_health_v1.RegisterHealthServer(s.grpcServer, NewGrpcHealthServer(s))

	grpcAddress := s.determineGRPCPort(s.grpcPort)
	s.grpcListener, err = lc.Listen(ctx, "tcp", grpcAddress)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("listen grpc on %s: %w", grpcAddress, err)
	}
	return nil
}

// HTTPAddr is the bound HTTP address once Run has started listening.
func (s *Service) HTTPAddr() string {
	if s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// GRPCAddr is the bound gRPC address once Run has started listening.
func (s *Service) GRPCAddr() string {
	if s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

func (s *Service) serveHTTP() error {
	err := s.httpServer.Serve(s.httpListener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Service) serveGRPC() error {
	err := s.grpcServer.Serve(s.grpcListener)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}
