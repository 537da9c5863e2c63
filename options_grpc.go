package greenframe

import (
	"context"

	"google.golang.org/grpc"

	lgrpc "github.com/greendam/greenframe/localization/interceptors/grpc"
)

// WithGRPCServer serves a gRPC server next to HTTP. When server is nil one is
// built with the locale interceptors installed. The gRPC health service is
// registered on it when the service runs.
func WithGRPCServer(server *grpc.Server, opts ...grpc.ServerOption) Option {
	return func(_ context.Context, s *Service) {
		if server == nil {
			resolver := s.resolver()
			opts = append(opts,
				grpc.ChainUnaryInterceptor(lgrpc.LocaleUnaryInterceptor(resolver)),
				grpc.ChainStreamInterceptor(lgrpc.LocaleStreamInterceptor(resolver)))
			server = grpc.NewServer(opts...)
		}
		s.grpcServer = server
	}
}

// WithGRPCPort sets the gRPC listen address, overriding GRPC_PORT.
func WithGRPCPort(port string) Option {
	return func(_ context.Context, s *Service) {
		s.grpcPort = port
	}
}

func (s *Service) GRPCServer() *grpc.Server {
	return s.grpcServer
}
