package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/greendam/greenframe/localization"
)

func fromMetadata(ctx context.Context, resolver *localization.Resolver) localization.Locale {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return resolver.DefaultLocale()
	}

	values := md.Get(localization.MetadataKey())
	if len(values) == 0 {
		values = md.Get(resolver.HeaderName())
	}
	if len(values) == 0 {
		return resolver.DefaultLocale()
	}
	return resolver.ResolveValue(values[0])
}

// LocaleUnaryInterceptor places the locale supplied via metadata in the
// handler context.
func LocaleUnaryInterceptor(resolver *localization.Resolver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any,
		_ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = localization.ToContext(ctx, fromMetadata(ctx, resolver))
		return handler(ctx, req)
	}
}

// LocaleStreamInterceptor is the streaming counterpart of LocaleUnaryInterceptor.
func LocaleStreamInterceptor(resolver *localization.Resolver) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := localization.ToContext(ss.Context(), fromMetadata(ss.Context(), resolver))
		return handler(srv, &serverStreamWrapper{ctx, ss})
	}
}

type serverStreamWrapper struct {
	ctx context.Context
	grpc.ServerStream
}

func (s *serverStreamWrapper) Context() context.Context {
	return s.ctx
}
