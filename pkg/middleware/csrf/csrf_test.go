package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{SkipPrefixes: []string{"/api/auth/"}}))
	h := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/api/shop/cart/get/u1", h)
	e.POST("/api/shop/order/create", h)
	e.POST("/api/auth/login", h)
	return e
}

func TestCSRF_IssuesTokenOnSafeMethod(t *testing.T) {
	t.Parallel()

	e := newServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shop/cart/get/u1", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	tok := rec.Header().Get("X-CSRF-Token")
	assert.NotEmpty(t, tok)

	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "XSRF-TOKEN" {
			found = true
			assert.Equal(t, tok, ck.Value)
		}
	}
	assert.True(t, found)
}

func TestCSRF_UnsafeMethod(t *testing.T) {
	t.Parallel()

	e := newServer()

	tests := []struct {
		name   string
		header string
		origin string
		want   int
	}{
		{name: "matching token", header: "tok", origin: "http://example.com", want: http.StatusNoContent},
		{name: "missing token", header: "", origin: "http://example.com", want: http.StatusForbidden},
		{name: "wrong token", header: "other", origin: "http://example.com", want: http.StatusForbidden},
		{name: "foreign origin", header: "tok", origin: "http://evil.test", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/shop/order/create", nil)
			req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
			req.Header.Set("Origin", tt.origin)
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCSRF_SkipsConfiguredPrefix(t *testing.T) {
	t.Parallel()

	e := newServer()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
