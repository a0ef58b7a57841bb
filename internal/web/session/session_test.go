package session

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStorage is a minimal in-memory implementation of fiber.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func (s *testStorage) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

func newTestApp(m *Manager) *fiber.App {
	app := fiber.New()

	app.Get("/login/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.ErrBadRequest
		}

		return m.Login(c, id)
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		id, err := m.UserID(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		return c.SendString(strconv.FormatUint(id, 10))
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		return m.Logout(c)
	})
	app.Get("/flash/set", func(c *fiber.Ctx) error {
		return m.SetFlash(c, "Menu item deleted.")
	})
	app.Get("/flash", func(c *fiber.Ctx) error {
		return c.SendString(m.Flash(c))
	})

	return app
}

func do(t *testing.T, app *fiber.App, target, cookie string) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != "" {
		req.Header.Set("Cookie", CookieName+"="+cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			return c.Value
		}
	}

	return ""
}

func TestLoginAndLogout(t *testing.T) {
	storage := &testStorage{data: map[string][]byte{}}
	app := newTestApp(New(Config{Storage: storage, Expiry: time.Minute}))

	resp, _ := do(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, app, "/login/42", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotEmpty(t, cookie)
	assert.Equal(t, 1, storage.len())

	resp, body := do(t, app, "/me", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "42", body)

	resp, _ = do(t, app, "/logout", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, storage.len())

	resp, _ = do(t, app, "/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCookieFlags(t *testing.T) {
	app := newTestApp(New(Config{Expiry: time.Minute, Secure: true}))

	resp, _ := do(t, app, "/login/1", "")

	setCookie := strings.ToLower(resp.Header.Get("Set-Cookie"))
	assert.Contains(t, setCookie, "secure")
	assert.Contains(t, setCookie, "httponly")
	assert.Contains(t, setCookie, "samesite=lax")
}

func TestFlashIsReadOnce(t *testing.T) {
	app := newTestApp(New(Config{Expiry: time.Minute}))

	resp, _ := do(t, app, "/login/7", "")
	cookie := sessionCookie(resp)

	_, _ = do(t, app, "/flash/set", cookie)

	_, body := do(t, app, "/flash", cookie)
	assert.Equal(t, "Menu item deleted.", body)

	_, body = do(t, app, "/flash", cookie)
	assert.Empty(t, body)

	// the login survives reading the flash
	_, body = do(t, app, "/me", cookie)
	assert.Equal(t, "7", body)
}
