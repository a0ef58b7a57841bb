package daemon

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/plugin"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/handlertest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()

	return &config.Config{
		Title:    "GoMenu-Admin",
		Language: "en-US",
		DataDir:  dir,
		DB: config.DB{
			GormEngine: "sqlite",
			Path:       filepath.Join(dir, "gomenu.db"),
		},
		Webserver: config.Webserver{
			Port:         8080,
			URL:          "http://localhost:8080",
			ShutDownTime: 1,
			Session:      config.Session{ExpiryTime: time.Minute},
		},
		Seed: config.Seed{
			AdminUsername: "admin",
			AdminEmail:    "admin@example.com",
		},
		Plugins: []config.Plugin{handlertest.Restaurant()},
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	authService := auth.NewService(handlertest.NewDB(t))

	fresh, err := seed(ctx, cfg, authService)
	require.NoError(t, err)
	assert.True(t, fresh)

	count, err := authService.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	caps, err := authService.RoleCapabilities(ctx, auth.RoleAdministrator)
	require.NoError(t, err)
	assert.Contains(t, caps, auth.CapManageOptions)

	// second run keeps the existing account
	fresh, err = seed(ctx, cfg, authService)
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestSeedWithConfiguredPassword(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Seed.AdminPassword = "configured"
	authService := auth.NewService(handlertest.NewDB(t))

	_, err := seed(ctx, cfg, authService)
	require.NoError(t, err)

	user, err := authService.Authenticate(ctx, "admin", "configured")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
}

func TestNewActivatesPluginsOnFreshInstall(t *testing.T) {
	cfg := testConfig(t)

	d, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, d.webService)

	_, ok := d.Host().Plugin("restaurant")
	require.True(t, ok)

	caps, err := auth.NewService(d.db).RoleCapabilities(context.Background(), auth.RoleAdministrator)
	require.NoError(t, err)
	assert.Subset(t, caps, []string{"manage_restaurant", "create_restaurant_items", "edit_restaurant_items"})
}

func TestActivate(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	require.ErrorIs(t, Activate(ctx, cfg, "unknown"), plugin.ErrUnknownPlugin)
	require.NoError(t, Activate(ctx, cfg, "restaurant"))

	conn, err := db.Open(cfg)
	require.NoError(t, err)

	caps, err := auth.NewService(conn).RoleCapabilities(ctx, auth.RoleAdministrator)
	require.NoError(t, err)
	assert.Contains(t, caps, "manage_restaurant")
}
