package greenframe

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/greendam/greenframe/version"
)

const defaultDebugBasePath = "/debug/greenframe"

// WithDebugEndpoints enables read only introspection endpoints under
// /debug/greenframe.
func WithDebugEndpoints() Option {
	return func(_ context.Context, s *Service) {
		s.debugEnabled = true
		if s.debugBasePath == "" {
			s.debugBasePath = defaultDebugBasePath
		}
	}
}

// WithDebugEndpointsAt enables introspection endpoints at a custom base path.
func WithDebugEndpointsAt(basePath string) Option {
	return func(_ context.Context, s *Service) {
		s.debugEnabled = true
		s.debugBasePath = basePath
	}
}

func (s *Service) registerDebugEndpoints(mux *http.ServeMux) {
	if !s.debugEnabled {
		return
	}
	base := s.debugBasePath
	if base == "" {
		base = defaultDebugBasePath
	}

	mux.HandleFunc("GET "+base+"/service", s.debugService)
	mux.HandleFunc("GET "+base+"/i18n", s.debugLocalization)
	mux.HandleFunc("GET "+base+"/health", s.debugHealth)
}

func (s *Service) debugService(w http.ResponseWriter, _ *http.Request) {
	cfgType := ""
	if s.configuration != nil {
		cfgType = reflect.TypeOf(s.configuration).String()
	}

	writeJSON(w, map[string]any{
		"service_name": s.Name(),
		"environment":  s.Environment(),
		"version":      s.Version(),
		"build":        version.Info(),
		"config_type":  cfgType,
		"grpc":         s.grpcServer != nil,
	})
}

func (s *Service) debugLocalization(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"default_locale": "",
		"header":         "",
		"languages":      []string{},
	}

	if m := s.Localization(); m != nil {
		languages := []string{}
		for _, tag := range m.Bundle().LanguageTags() {
			languages = append(languages, tag.String())
		}
		resp["default_locale"] = m.DefaultLocale().String()
		resp["header"] = m.Resolver().HeaderName()
		resp["languages"] = languages
	}

	writeJSON(w, resp)
}

func (s *Service) debugHealth(w http.ResponseWriter, _ *http.Request) {
	servingStatus, err := s.servingStatus()
	resp := map[string]any{
		"checks": len(s.healthCheckers),
		"status": servingStatus.String(),
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(payload)
}
