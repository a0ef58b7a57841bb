// Package handlertest builds a fiber app with seeded users and booted menu plugins for handler tests.
package handlertest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/lifecycle"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/plugin"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/posttype"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/session"
)

// HeaderUser carries the id of the acting user in test requests.
const HeaderUser = "X-Test-User"

// Views is a minimal Fiber Views engine used for tests.
// It writes the template name and the Error and Success fields, and keeps the last data.
type Views struct {
	mu   sync.Mutex
	name string
	data fiber.Map
}

// Load implements fiber.Views.
func (*Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	m, _ := data.(fiber.Map)

	v.mu.Lock()
	v.name = name
	v.data = m
	v.mu.Unlock()

	_, _ = io.WriteString(w, name)

	for _, key := range []string{"Error", "Success"} {
		if s, ok := m[key].(string); ok && s != "" {
			_, _ = io.WriteString(w, "\n"+s)
		}
	}

	return nil
}

// Last returns the name and data of the last rendered template.
func (v *Views) Last() (string, fiber.Map) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.name, v.data
}

// Env is a test web environment.
type Env struct {
	App   *fiber.App
	Views *Views
	Deps  *handler.Deps
	// Admin holds the administrator role, Author the author role.
	Admin  *models.User
	Author *models.User
}

// Restaurant is the restaurant plugin definition used in tests.
func Restaurant() config.Plugin {
	return config.Plugin{
		Slug:                      "restaurant",
		Name:                      "Restaurant",
		Version:                   "1.0.0",
		DBVersion:                 1,
		TextDomain:                "restaurant",
		PostType:                  "restaurant_item",
		CapabilityPrefix:          "restaurant",
		MenuBase:                  "menu",
		MenuName:                  "Restaurant",
		SettingsCapability:        config.DefaultSettingsCapability,
		DefaultArchiveTitle:       "Menu",
		DefaultArchiveDescription: "",
	}
}

// NewDB opens a migrated in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	return db
}

// New seeds roles and users, boots and activates the restaurant plugin and returns
// an app whose requests act as the user named in HeaderUser.
func New(t *testing.T) *Env {
	t.Helper()

	ctx := context.Background()
	db := NewDB(t)
	authService := auth.NewService(db)

	for role, caps := range auth.DefaultRoleCapabilities() {
		_, err := authService.EnsureRole(ctx, role, role, caps...)
		require.NoError(t, err)
	}

	admin, err := authService.CreateUser(ctx, "admin", "admin@example.com", "secret", auth.RoleAdministrator)
	require.NoError(t, err)

	author, err := authService.CreateUser(ctx, "author", "author@example.com", "secret", auth.RoleAuthor)
	require.NoError(t, err)

	cfg := &config.Config{
		Title:    "GoMenu-Admin",
		Language: "en-US",
		DataDir:  t.TempDir(),
		Webserver: config.Webserver{
			Port:    8080,
			URL:     "http://localhost:8080",
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Plugins: []config.Plugin{Restaurant()},
	}

	registry := posttype.NewRegistry()
	pages := handler.NewPages()
	host := plugin.NewHost(plugin.Deps{
		DB:           db,
		Dispatcher:   lifecycle.New(),
		Registry:     registry,
		Capabilities: authService,
		Admin:        pages,
		Language:     language.AmericanEnglish,
		DataDir:      cfg.DataDir,
		BaseURL:      cfg.Webserver.URL,
	})

	host.Instance(Restaurant())
	require.NoError(t, host.Boot(ctx))
	require.NoError(t, host.Activate(ctx, "restaurant"))

	views := &Views{}
	app := fiber.New(fiber.Config{Views: views})

	app.Use(func(c *fiber.Ctx) error {
		if id, err := strconv.ParseUint(c.Get(HeaderUser), 10, 64); err == nil {
			c.Locals(auth.LocalsUserID, id)
		}

		return c.Next()
	})

	return &Env{
		App:   app,
		Views: views,
		Deps: &handler.Deps{
			Config:   cfg,
			DB:       db,
			Auth:     authService,
			Sessions: session.New(session.Config{Expiry: time.Minute}),
			Registry: registry,
			Plugins:  host,
			Pages:    pages,
		},
		Admin:  admin,
		Author: author,
	}
}

// Do sends a request as user. A nil user is anonymous, a nil form sends no body.
func (e *Env) Do(t *testing.T, method, target string, user *models.User, form url.Values) (*http.Response, string) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}

	if user != nil {
		req.Header.Set(HeaderUser, fmt.Sprint(user.ID))
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(out)
}
