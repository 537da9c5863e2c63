package hello_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/greendam/greenframe/internal/hello"
	"github.com/greendam/greenframe/localization"
	lhttp "github.com/greendam/greenframe/localization/interceptors/http"
	"github.com/greendam/greenframe/response"
)

type HelloTestSuite struct {
	suite.Suite
	handler http.Handler
}

func TestHelloSuite(t *testing.T) {
	suite.Run(t, &HelloTestSuite{})
}

func (s *HelloTestSuite) SetupSuite() {
	catalog, err := localization.NewManager(context.Background())
	s.Require().NoError(err)

	controller := hello.NewController(response.NewBoundary(), catalog)
	s.handler = lhttp.LocaleHTTPMiddleware(catalog.Resolver())(controller.Routes())
}

func (s *HelloTestSuite) TestEndpoints() {
	testCases := []struct {
		name        string
		path        string
		area        string
		wantCode    int
		wantMessage string
	}{
		{"ping", "/hello/ping", "", 200, "operation.successful"},
		{"ping ignores locale", "/hello/ping", "zh_CN", 200, "operation.successful"},
		{"i18n default locale", "/hello/i18n/x", "", 200, "Hello x, this message is in English"},
		{"i18n chinese", "/hello/i18n/x", "zh_CN", 200, "你好 x，这是一条中文消息"},
		{"i18n malformed locale", "/hello/i18n/x", "zh", 200, "Hello x, this message is in English"},
		{"i18n unknown locale", "/hello/i18n/x", "fr_FR", 200, "Hello x, this message is in English"},
		{"fail with code", "/hello/fail/404", "", 404, "requested failure 404"},
		{"fail with bad code", "/hello/fail/abc", "", 400, "code abc is not a number"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.area != "" {
				req.Header.Set("Area", tc.area)
			}
			rr := httptest.NewRecorder()
			s.handler.ServeHTTP(rr, req)

			s.Equal(http.StatusOK, rr.Code)

			var env response.Envelope[any]
			s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &env))
			s.Equal(tc.wantCode, env.Code())
			s.Equal(tc.wantMessage, env.Message())
			s.NotContains(rr.Body.String(), "raised on demand")
		})
	}
}

func (s *HelloTestSuite) TestPingBody() {
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/hello/ping", nil))

	s.JSONEq(`{"code":200,"message":"operation.successful","data":null}`, rr.Body.String())
}

func (s *HelloTestSuite) TestUnknownRoute() {
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/hello/nope", nil))
	s.Equal(http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	s.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/hello/ping", nil))
	s.Equal(http.StatusMethodNotAllowed, rr.Code)
}
