package connect

import (
	"context"

	"connectrpc.com/connect"

	"github.com/greendam/greenframe/localization"
)

// LocaleInterceptor implements connect.Interceptor and places the request
// locale in the handler context.
type LocaleInterceptor struct {
	resolver *localization.Resolver
}

var _ connect.Interceptor = new(LocaleInterceptor)

func NewLocaleInterceptor(resolver *localization.Resolver) *LocaleInterceptor {
	return &LocaleInterceptor{resolver: resolver}
}

func (l *LocaleInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		ctx = localization.ToContext(ctx, l.resolver.Resolve(req.Header()))
		return next(ctx, req)
	}
}

// WrapStreamingClient passes client streams through untouched.
func (l *LocaleInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (l *LocaleInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		ctx = localization.ToContext(ctx, l.resolver.Resolve(conn.RequestHeader()))
		return next(ctx, conn)
	}
}
