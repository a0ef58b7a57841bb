package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/handlertest"
)

func newService(t *testing.T) *Service {
	t.Helper()

	env := handlertest.New(t)

	svc, err := New(env.Deps.Config, env.Deps)
	require.NoError(t, err)

	return svc
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestNewRejectsMissingDeps(t *testing.T) {
	env := handlertest.New(t)
	env.Deps.Sessions = nil

	_, err := New(env.Deps.Config, env.Deps)
	require.Error(t, err)
}

func TestCheckAlive(t *testing.T) {
	svc := newService(t)

	resp, _ := send(t, svc.App, httptest.NewRequest(http.MethodGet, CheckAlivePath, nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	svc.alive.Store(true)

	resp, body := send(t, svc.App, httptest.NewRequest(http.MethodGet, CheckAlivePath, nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)
}

func TestMetrics(t *testing.T) {
	svc := newService(t)

	resp, body := send(t, svc.App, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "go_goroutines")
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	svc := newService(t)

	for _, target := range []string{"/dashboard", "/admin/items/restaurant_item", "/admin/settings/restaurant-settings"} {
		resp, _ := send(t, svc.App, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, target)
		assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation), target)
	}
}

func TestPublicArchive(t *testing.T) {
	svc := newService(t)

	resp, body := send(t, svc.App, httptest.NewRequest(http.MethodGet, "/menu", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<h1>Menu</h1>")
	assert.Contains(t, body, "No menu items found")

	resp, _ = send(t, svc.App, httptest.NewRequest(http.MethodGet, "/unknown-menu", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMenuBasesCannotShadowRoutes(t *testing.T) {
	svc := newService(t)

	for _, route := range svc.App.GetRoutes() {
		first := strings.SplitN(strings.TrimPrefix(route.Path, "/"), "/", 2)[0]
		if first == "" || strings.HasPrefix(first, ":") || strings.HasPrefix(first, "*") {
			continue
		}

		assert.True(t, slices.Contains(config.ReservedMenuBases, first),
			"%s %s is not a reserved menu base", route.Method, route.Path)
	}
}

func TestLoginFlow(t *testing.T) {
	svc := newService(t)

	resp, body := send(t, svc.App, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="password"`)

	form := url.Values{"username": {"admin"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, _ = send(t, svc.App, req)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get(fiber.HeaderLocation))

	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, body = send(t, svc.App, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Restaurant")
	assert.Contains(t, body, "/admin/settings/restaurant-settings")
	assert.Contains(t, body, "admin")

	// logged in users skip the login page
	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, _ = send(t, svc.App, req)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get(fiber.HeaderLocation))
}
