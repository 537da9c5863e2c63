package connect

import (
	"connectrpc.com/connect"
	"connectrpc.com/otelconnect"

	"github.com/greendam/greenframe/localization"
)

// DefaultList returns the interceptors every Connect handler of a service
// should carry: tracing first, then locale resolution, then moreInterceptors.
func DefaultList(
	resolver *localization.Resolver,
	moreInterceptors ...connect.Interceptor,
) ([]connect.Interceptor, error) {
	otelInterceptor, err := otelconnect.NewInterceptor()
	if err != nil {
		return nil, err
	}

	interceptorList := []connect.Interceptor{
		otelInterceptor,
		NewLocaleInterceptor(resolver),
	}
	interceptorList = append(interceptorList, moreInterceptors...)

	return interceptorList, nil
}
