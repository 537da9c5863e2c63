package greenframe

import (
	"connectrpc.com/connect"

	lconnect "github.com/greendam/greenframe/localization/interceptors/connect"
)

// ConnectInterceptors returns the interceptors for Connect handlers mounted
// through WithHTTPHandler, with extra appended after the built in ones.
func (s *Service) ConnectInterceptors(extra ...connect.Interceptor) ([]connect.Interceptor, error) {
	return lconnect.DefaultList(s.resolver(), extra...)
}
