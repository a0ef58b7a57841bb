package settings

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/menusettings"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/handlertest"
)

const pagePath = "/admin/settings/restaurant-settings"

func newTestEnv(t *testing.T) *handlertest.Env {
	t.Helper()

	env := handlertest.New(t)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	return env
}

// shopManager may manage options but not post unfiltered HTML.
func shopManager(t *testing.T, env *handlertest.Env) *models.User {
	t.Helper()

	ctx := context.Background()

	_, err := env.Deps.Auth.EnsureRole(ctx, "shop_manager", "Shop Manager", auth.CapRead, auth.CapManageOptions)
	require.NoError(t, err)

	user, err := env.Deps.Auth.CreateUser(ctx, "manager", "manager@example.com", "secret", "shop_manager")
	require.NoError(t, err)

	return user
}

func TestGet(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.Do(t, http.MethodGet, pagePath, env.Admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, TemplateName)

	_, data := env.Views.Last()
	assert.Equal(t, "restaurant_settings", data["Option"])
	assert.Equal(t, menusettings.Record{ArchiveTitle: "Menu"}, data["Record"])

	fields, ok := data["Fields"].(template.HTML)
	require.True(t, ok)
	assert.Contains(t, string(fields), `name="restaurant_settings[archive_title]"`)
	assert.Contains(t, string(fields), `value="Menu"`)
	assert.Contains(t, string(fields), `rows="4"`)

	link, ok := data["ArchiveLink"].(template.HTML)
	require.True(t, ok)
	assert.Equal(t,
		`Your restaurant's menu is located at <a href="http://localhost:8080/menu"><code>http://localhost:8080/menu</code></a>.`,
		string(link))
}

func TestAccess(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		target string
		user   *models.User
		want   int
	}{
		{"anonymous", pagePath, nil, http.StatusUnauthorized},
		{"author lacks manage_options", pagePath, env.Author, http.StatusForbidden},
		{"unknown page", "/admin/settings/nope", env.Admin, http.StatusNotFound},
		{"administrator", pagePath, env.Admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := env.Do(t, http.MethodGet, tt.target, tt.user, nil)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	resp, _ := env.Do(t, http.MethodPost, pagePath, env.Author, url.Values{
		"restaurant_settings[archive_title]": {"Hacked"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	rec, err := env.Deps.Pages.All()[0].Settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Menu", rec.ArchiveTitle)
}

func TestPost(t *testing.T) {
	const description = `<script>alert(1)</script><p class="lead">Served <em>daily</em></p>`

	tests := []struct {
		name     string
		privUser bool
		wantDesc string
	}{
		{"administrator keeps markup", true, description},
		{"manager is filtered", false, `<p class="lead">Served <em>daily</em></p>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			user := env.Admin
			if !tt.privUser {
				user = shopManager(t, env)
			}

			resp, body := env.Do(t, http.MethodPost, pagePath, user, url.Values{
				"restaurant_settings[archive_title]":       {"<b>Lunch</b> Menu"},
				"restaurant_settings[archive_description]": {description},
			})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, "Settings saved.")

			want := menusettings.Record{ArchiveTitle: "Lunch Menu", ArchiveDescription: tt.wantDesc}

			_, data := env.Views.Last()
			assert.Equal(t, want, data["Record"])

			rec, err := env.Deps.Pages.All()[0].Settings.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, rec)

			// the content type is re-declared from the new record
			ct, ok := env.Deps.Registry.Get("restaurant_item")
			require.True(t, ok)
			assert.Equal(t, "Lunch Menu", ct.Labels.ArchiveTitle)
			assert.Equal(t, tt.wantDesc, ct.Description)
		})
	}
}

func TestPostMissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.Do(t, http.MethodPost, pagePath, env.Admin, url.Values{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rec, err := env.Deps.Pages.All()[0].Settings.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, menusettings.Record{}, rec)
}
