package dashboard

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/handlertest"
)

func TestGet(t *testing.T) {
	env := handlertest.New(t)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	tests := []struct {
		name        string
		admin       bool
		wantEdit    bool
		wantSetting bool
	}{
		{name: "administrator", admin: true, wantEdit: true, wantSetting: true},
		{name: "author", admin: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := env.Author
			if tt.admin {
				user = env.Admin
			}

			resp, body := env.Do(t, http.MethodGet, Path, user, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, TemplateName)

			_, data := env.Views.Last()
			cards, ok := data["Cards"].([]Card)
			require.True(t, ok)
			require.Len(t, cards, 1)

			card := cards[0]
			assert.Equal(t, "restaurant", card.Slug)
			assert.Equal(t, "1.0.0", card.Version)
			assert.Equal(t, "/menu", card.ArchiveURL)
			assert.Equal(t, "/admin/items/restaurant_item", card.ItemsURL)
			assert.Equal(t, "/admin/settings/restaurant-settings", card.SettingsURL)
			assert.Zero(t, card.Items)
			assert.Equal(t, tt.wantEdit, card.CanEdit)
			assert.Equal(t, tt.wantSetting, card.CanSettings)
		})
	}
}

func TestGetAnonymous(t *testing.T) {
	env := handlertest.New(t)

	var s Service
	require.NoError(t, s.Init(env.App, env.Deps))

	resp, _ := env.Do(t, http.MethodGet, Path, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
