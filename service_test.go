package greenframe_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/pitabwire/util"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/greendam/greenframe"
	"github.com/greendam/greenframe/config"
	"github.com/greendam/greenframe/frametests"
)

type ServiceTestSuite struct {
	frametests.ServiceBaseTestSuite
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, &ServiceTestSuite{})
}

func (s *ServiceTestSuite) freeAddress() string {
	port, err := frametests.GetFreePort(s.T().Context())
	s.Require().NoError(err)
	return fmt.Sprintf("127.0.0.1:%d", port)
}

func (s *ServiceTestSuite) TestDefaultService() {
	ctx, svc := greenframe.NewServiceWithContext(s.T().Context(),
		greenframe.WithName("svc"),
		greenframe.WithVersion("v0.1.0"),
		greenframe.WithEnvironment("test"))

	s.Equal("svc", svc.Name())
	s.Equal("v0.1.0", svc.Version())
	s.Equal("test", svc.Environment())
	s.Same(svc, greenframe.Svc(ctx))
	s.Nil(greenframe.Svc(context.Background()))

	cfg := config.FromContext[*config.ConfigurationDefault](ctx)
	s.Require().NotNil(cfg)
	s.Equal("en_US", cfg.DefaultLocale())

	s.NotNil(svc.Localization())
	s.Equal("en_US", svc.Localization().DefaultLocale().String())
	s.NotNil(svc.Telemetry())
	s.Same(svc.Boundary(), svc.Boundary())
}

func (s *ServiceTestSuite) TestConfigurationFromEnvironment() {
	s.T().Setenv("SERVICE_NAME", "from-env")
	s.T().Setenv("DEFAULT_LOCALE", "zh_CN")
	s.T().Setenv("LOCALE_HEADER", "X-Area")

	_, svc := greenframe.NewServiceWithContext(s.T().Context())

	s.Equal("from-env", svc.Name())
	s.Equal("zh_CN", svc.Localization().DefaultLocale().String())
	s.Equal("X-Area", svc.Localization().Resolver().HeaderName())
}

func (s *ServiceTestSuite) TestInitErrorsSurfaceOnRun() {
	s.T().Setenv("DEFAULT_LOCALE", "english")

	ctx, svc := greenframe.NewServiceWithContext(s.T().Context())
	err := svc.Run(ctx, s.freeAddress())
	s.Require().Error(err)
	s.Contains(err.Error(), "default locale")
}

func (s *ServiceTestSuite) TestRunAndStop() {
	parent, cancel := context.WithCancel(s.T().Context())
	defer cancel()

	ctx, svc := greenframe.NewServiceWithContext(parent, greenframe.WithName("run-test"))

	cleaned := make(chan struct{})
	svc.AddCleanupMethod(func(_ context.Context) { close(cleaned) })

	address := s.freeAddress()
	result := make(chan error, 1)
	go func() { result <- svc.Run(ctx, address) }()

	s.Require().NoError(frametests.WaitForHTTP(ctx, "http://"+address+"/healthz", 5*time.Second))
	s.Equal(address, svc.HTTPAddr())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+address+"/healthz", nil)
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	_ = resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err = <-result:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(5 * time.Second):
		s.Fail("service did not stop")
	}

	select {
	case <-cleaned:
	case <-time.After(time.Second):
		s.Fail("cleanup did not run")
	}

	svc.Stop(context.Background())
}

func (s *ServiceTestSuite) TestGrpcHealth() {
	parent, cancel := context.WithCancel(s.T().Context())
	defer cancel()

	grpcAddress := s.freeAddress()
	ctx, svc := greenframe.NewServiceWithContext(parent,
		greenframe.WithGRPCServer(nil),
		greenframe.WithGRPCPort(grpcAddress))

	httpAddress := s.freeAddress()
	go func() { _ = svc.Run(ctx, httpAddress) }()
	s.Require().NoError(frametests.WaitForHTTP(ctx, "http://"+httpAddress+"/healthz", 5*time.Second))
	s.Equal(grpcAddress, svc.GRPCAddr())

	conn, err := grpc.NewClient(grpcAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err)
	defer util.CloseAndLogOnError(ctx, conn)

	client := grpc_health_v1.NewHealthClient(conn)
	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	s.Require().NoError(err)
	s.Equal(grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())

	svc.AddHealthCheck(greenframe.CheckerFunc(func() error { return fmt.Errorf("not ready") }))
	_, err = client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	s.Equal(codes.Unavailable, status.Code(err))
}

func (s *ServiceTestSuite) enableTelemetry() {
	t := s.T()
	t.Setenv("OPENTELEMETRY_DISABLE", "false")
	t.Setenv("OPENTELEMETRY_TRACE_ID_RATIO", "1")
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_METRICS_EXPORTER", "none")
	t.Setenv("OTEL_LOGS_EXPORTER", "none")
}

func (s *ServiceTestSuite) TestRunWithTelemetryEnabled() {
	s.enableTelemetry()

	parent, cancel := context.WithCancel(s.T().Context())
	defer cancel()

	ctx, svc := greenframe.NewServiceWithContext(parent, greenframe.WithName("otel-test"))
	s.Require().NotNil(svc.Telemetry())
	s.False(svc.Telemetry().Disabled())
	s.NotNil(svc.Telemetry().LogHandler())

	address := s.freeAddress()
	result := make(chan error, 1)
	go func() { result <- svc.Run(ctx, address) }()

	s.Require().NoError(frametests.WaitForHTTP(ctx, "http://"+address+"/healthz", 5*time.Second))

	cancel()
	select {
	case err := <-result:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(5 * time.Second):
		s.Fail("service did not stop")
	}
}

func (s *ServiceTestSuite) TestReplacingConfigShutsDownTelemetry() {
	s.enableTelemetry()

	ctx, svc := greenframe.NewServiceWithContext(s.T().Context())
	first := svc.Telemetry()
	oldProvider := otel.GetTracerProvider()

	_, span := oldProvider.Tracer("greenframe/test").Start(ctx, "before")
	s.True(span.IsRecording())
	span.End()

	cfg, err := config.FromEnv[config.ConfigurationDefault]()
	s.Require().NoError(err)
	svc.Init(ctx, greenframe.WithConfig(&cfg))

	s.NotSame(first, svc.Telemetry())

	_, span = oldProvider.Tracer("greenframe/test").Start(ctx, "after")
	s.False(span.IsRecording())
	span.End()

	_, span = otel.GetTracerProvider().Tracer("greenframe/test").Start(ctx, "current")
	s.True(span.IsRecording())
	span.End()

	svc.Stop(ctx)
}
