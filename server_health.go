package greenframe

import (
	"context"
	"time"

	"gocloud.dev/server/health"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

const healthWatchIntervalSeconds = 5

// Checker reports nil when a resource is healthy. It must be safe to call
// from multiple goroutines.
type Checker = health.Checker

// CheckerFunc adapts an ordinary function into a Checker.
type CheckerFunc func() error

func (f CheckerFunc) CheckHealth() error {
	return f()
}

// WithHealthCheckPath sets where the HTTP health handler is mounted.
func WithHealthCheckPath(path string) Option {
	return func(_ context.Context, s *Service) {
		s.healthCheckPath = path
	}
}

// AddHealthCheck registers a checker with both the HTTP and the gRPC health
// endpoints.
func (s *Service) AddHealthCheck(checker Checker) {
	s.healthCheckers = append(s.healthCheckers, checker)
	s.healthHandler.Add(checker)
}

func (s *Service) HealthCheckers() []Checker {
	return s.healthCheckers
}

func (s *Service) servingStatus() (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	for _, c := range s.healthCheckers {
		if err := c.CheckHealth(); err != nil {
			return grpc_health_v1.HealthCheckResponse_NOT_SERVING, err
		}
	}
	return grpc_health_v1.HealthCheckResponse_SERVING, nil
}

type grpcHealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	service *Service
}

func (ghs *grpcHealthServer) Check(
	_ context.Context,
	_ *grpc_health_v1.HealthCheckRequest,
) (*grpc_health_v1.HealthCheckResponse, error) {
	servingStatus, err := ghs.service.servingStatus()
	if err != nil {
		return &grpc_health_v1.HealthCheckResponse{Status: servingStatus}, status.Error(codes.Unavailable, err.Error())
	}
	return &grpc_health_v1.HealthCheckResponse{Status: servingStatus}, nil
}

// Watch sends the serving status whenever it changes, checking every few
// seconds.
func (ghs *grpcHealthServer) Watch(
	_ *grpc_health_v1.HealthCheckRequest,
	stream grpc_health_v1.Health_WatchServer,
) error {
	var lastSentStatus grpc_health_v1.HealthCheckResponse_ServingStatus = -1
	ticker := time.NewTicker(healthWatchIntervalSeconds * time.Second)
	defer ticker.Stop()

	for {
		servingStatus, _ := ghs.service.servingStatus()
		if lastSentStatus != servingStatus {
			lastSentStatus = servingStatus
			if err := stream.Send(&grpc_health_v1.HealthCheckResponse{Status: servingStatus}); err != nil {
				return status.Error(codes.Canceled, "Stream has ended.")
			}
		}

		select {
		case <-ticker.C:
		case <-stream.Context().Done():
			return status.Error(codes.Canceled, "Stream has ended.")
		}
	}
}

func NewGrpcHealthServer(service *Service) grpc_health_v1.HealthServer {
	return &grpcHealthServer{
		service: service,
	}
}
