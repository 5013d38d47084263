package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"userdir/internal/handler"
)

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()
	Register(e, handler.NewUserHandler(nil))

	want := map[string]string{
		http.MethodGet + " /api/users":        "",
		http.MethodGet + " /api/users/:id":    "",
		http.MethodPost + " /api/users":       "",
		http.MethodPatch + " /api/users/:id":  "",
		http.MethodDelete + " /api/users/:id": "",
		http.MethodGet + " /healthz":          "",
	}
	for _, r := range e.Routes() {
		delete(want, r.Method+" "+r.Path)
	}
	assert.Empty(t, want, "missing routes: %v", want)
}

func TestHealthz(t *testing.T) {
	e := echo.New()
	Register(e, handler.NewUserHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
