package greenframe_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pitabwire/util"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/greendam/greenframe"
	"github.com/greendam/greenframe/frametests"
	"github.com/greendam/greenframe/internal/hello"
	"github.com/greendam/greenframe/localization"
	"github.com/greendam/greenframe/response"
)

type ServerTestSuite struct {
	frametests.ServiceBaseTestSuite
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, &ServerTestSuite{})
}

func (s *ServerTestSuite) newHelloService(opts ...greenframe.Option) (context.Context, *greenframe.Service) {
	ctx, svc := greenframe.NewServiceWithContext(s.T().Context(), greenframe.WithName("hello-test"))
	controller := hello.NewController(svc.Boundary(), svc.Localization())
	svc.Init(ctx, append([]greenframe.Option{greenframe.WithHTTPHandler(controller.Routes())}, opts...)...)
	return ctx, svc
}

func decodeEnvelope(t *testing.T, body string) response.Envelope[any] {
	t.Helper()
	var env response.Envelope[any]
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	return env
}

func (s *ServerTestSuite) TestHelloEndpointsPerLocale() {
	_, svc := s.newHelloService()
	handler := svc.Handler()

	expected := map[string]struct {
		message  string
		language string
	}{
		"":      {"Hello world, this message is in English", "en-US"},
		"en_US": {"Hello world, this message is in English", "en-US"},
		"zh_CN": {"你好 world，这是一条中文消息", "zh-CN"},
		"zh":    {"Hello world, this message is in English", "en-US"},
		"fr_FR": {"Hello world, this message is in English", "fr-FR"},
	}

	frametests.WithTestLocales(s.T(), []string{"", "en_US", "zh_CN", "zh", "fr_FR"},
		func(t *testing.T, locale string) {
			req := httptest.NewRequest(http.MethodGet, "/hello/i18n/world", nil)
			if locale != "" {
				req.Header.Set(localization.DefaultHeaderName, locale)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			require.Equal(t, expected[locale].language, rr.Header().Get("Content-Language"))
			require.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

			env := decodeEnvelope(t, rr.Body.String())
			require.Equal(t, response.StatusSuccess, env.Code())
			require.Equal(t, expected[locale].message, env.Message())
		})
}

func (s *ServerTestSuite) TestPingAndRequestID() {
	_, svc := s.newHelloService()
	handler := svc.Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/hello/ping", nil))
	s.JSONEq(`{"code":200,"message":"operation.successful","data":null}`, rr.Body.String())
	s.NotEmpty(rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/hello/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	s.Equal("req-123", rr.Header().Get("X-Request-ID"))
}

func (s *ServerTestSuite) TestHealthEndpoint() {
	_, svc := s.newHelloService()
	handler := svc.Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rr.Code)

	svc.AddHealthCheck(greenframe.CheckerFunc(func() error { return errors.New("catalog store down") }))
	s.Len(svc.HealthCheckers(), 1)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusInternalServerError, rr.Code)
}

func (s *ServerTestSuite) TestCustomHealthPath() {
	s.T().Setenv("HEALTH_CHECK_PATH", "/ready")
	_, svc := s.newHelloService()
	handler := svc.Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	s.Equal(http.StatusOK, rr.Code)
}

func (s *ServerTestSuite) TestPanicBecomesFailureEnvelope() {
	ctx, svc := greenframe.NewServiceWithContext(s.T().Context())
	svc.Init(ctx, greenframe.WithHTTPHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/anything", nil))

	s.Equal(http.StatusOK, rr.Code)
	env := decodeEnvelope(s.T(), rr.Body.String())
	s.Equal(response.StatusError, env.Code())
	s.Equal(response.MessageFailed, env.Message())
	s.NotContains(rr.Body.String(), "boom")
}

func (s *ServerTestSuite) TestMiddlewareOrder() {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				_, ok := localization.FromContext(r.Context())
				s.True(ok, "locale resolved before %s", name)
				next.ServeHTTP(w, r)
			})
		}
	}

	_, svc := s.newHelloService(greenframe.WithHTTPMiddleware(tag("first"), tag("second")))

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/hello/ping", nil))

	s.Equal(http.StatusOK, rr.Code)
	s.Equal([]string{"first", "second"}, order)
}

func (s *ServerTestSuite) TestBusinessFailureIsLogged() {
	var logs strings.Builder
	ctx, svc := greenframe.NewServiceWithContext(s.T().Context(), greenframe.WithName("log-test"))
	controller := hello.NewController(svc.Boundary(), svc.Localization())
	svc.Init(ctx, greenframe.WithHTTPHandler(controller.Routes()))
	svc.Init(ctx, greenframe.WithLogger(util.WithLogOutput(&logs)))

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/hello/fail/409", nil))

	env := decodeEnvelope(s.T(), rr.Body.String())
	s.Equal(409, env.Code())
	s.Equal("requested failure 409", env.Message())
	s.NotContains(rr.Body.String(), "raised on demand")

	out := logs.String()
	s.Contains(out, "business failure")
	s.Contains(out, "raised on demand by /hello/fail/409")
	s.Contains(out, "request_id=")
	s.Contains(out, "service=log-test")
}

func (s *ServerTestSuite) TestDebugEndpoints() {
	_, svc := s.newHelloService(greenframe.WithDebugEndpoints())
	svc.AddHealthCheck(greenframe.CheckerFunc(func() error { return nil }))
	handler := svc.Handler()

	testCases := []struct {
		name     string
		path     string
		contains []string
	}{
		{"service", "/debug/greenframe/service", []string{`"service_name":"hello-test"`, `"grpc":false`}},
		{"i18n", "/debug/greenframe/i18n", []string{`"default_locale":"en_US"`, `"header":"Area"`, `"zh-CN"`, `"en-US"`}},
		{"health", "/debug/greenframe/health", []string{`"checks":1`, `"status":"SERVING"`}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))

			s.Equal(http.StatusOK, rr.Code)
			for _, want := range tc.contains {
				s.Contains(rr.Body.String(), want)
			}
		})
	}
}

func (s *ServerTestSuite) TestDebugEndpointsDisabledByDefault() {
	_, svc := greenframe.NewServiceWithContext(s.T().Context())

	rr := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/greenframe/service", nil))
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *ServerTestSuite) TestConnectInterceptors() {
	_, svc := greenframe.NewServiceWithContext(s.T().Context())

	list, err := svc.ConnectInterceptors()
	s.Require().NoError(err)
	s.Len(list, 2)
}
