// Package hello serves the liveness and localization probe endpoints.
package hello

import (
	"net/http"
	"strconv"

	"github.com/greendam/greenframe/bizerr"
	"github.com/greendam/greenframe/localization"
	"github.com/greendam/greenframe/response"
)

const messageI18nProbe = "test.i18n"

type Controller struct {
	catalog  localization.Manager
	boundary *response.Boundary
}

func NewController(boundary *response.Boundary, catalog localization.Manager) *Controller {
	return &Controller{catalog: catalog, boundary: boundary}
}

// Routes mounts the controller under /hello.
func (c *Controller) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /hello/ping", response.Handle(c.boundary, c.Ping))
	mux.Handle("GET /hello/i18n/{text}", response.Handle(c.boundary, c.I18n))
	mux.Handle("GET /hello/fail/{code}", response.Handle(c.boundary, c.Fail))
	return mux
}

// Ping confirms the service is up.
func (c *Controller) Ping(_ *http.Request) (response.Envelope[any], error) {
	return response.Ok[any](), nil
}

// I18n renders the probe message in the request locale with text filled in.
func (c *Controller) I18n(r *http.Request) (response.Envelope[string], error) {
	msg := c.catalog.Translate(r.Context(), messageI18nProbe, r.PathValue("text"))
	return response.OkMsg[string](msg), nil
}

// Fail returns a business error carrying the requested code.
func (c *Controller) Fail(r *http.Request) (response.Envelope[any], error) {
	raw := r.PathValue("code")
	code, err := strconv.Atoi(raw)
	if err != nil {
		return response.Envelope[any]{}, bizerr.Newf("code {} is not a number", raw).
			SetCode(response.StatusBadRequest).
			SetCause(err)
	}

	return response.Envelope[any]{}, bizerr.Newf("requested failure {}", code).
		SetCode(code).
		SetDetailMessage("raised on demand by " + r.URL.Path)
}
