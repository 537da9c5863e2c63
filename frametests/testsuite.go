package frametests

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// ServiceBaseTestSuite keeps service tests quiet and offline.
type ServiceBaseTestSuite struct {
	suite.Suite
}

// SetupTest disables telemetry export and colour for every test.
func (s *ServiceBaseTestSuite) SetupTest() {
	t := s.T()
	t.Setenv("OPENTELEMETRY_DISABLE", "true")
	t.Setenv("LOG_COLORED", "false")
	t.Setenv("LOG_LEVEL", "debug")
}

// WithTestLocales runs testFn once per locale header value in its own subtest.
func WithTestLocales(t *testing.T, locales []string, testFn func(t *testing.T, locale string)) {
	t.Helper()
	for _, locale := range locales {
		name := locale
		if name == "" {
			name = "no-locale"
		}
		t.Run(name, func(tt *testing.T) {
			testFn(tt, locale)
		})
	}
}
