package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Restaurant Settings", "settings", "restaurant-settings")

	assert.Equal(t, "Restaurant Settings", ctx.PageTitle)
	assert.Equal(t, "settings", ctx.ActiveSection)
	assert.Equal(t, "restaurant-settings", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestAddBreadcrumbChains(t *testing.T) {
	ctx := NewContext("Edit Menu Item", "items", "restaurant_item").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Menu Items", "/admin/items/restaurant_item", false).
		AddBreadcrumb("Edit Menu Item", "/admin/items/restaurant_item/7", true)

	require.Len(t, ctx.Breadcrumbs, 3)
	assert.Equal(t, BreadcrumbItem{Title: "Home", URL: "/dashboard"}, ctx.Breadcrumbs[0])
	assert.Equal(t, "/admin/items/restaurant_item", ctx.Breadcrumbs[1].URL)
	assert.False(t, ctx.Breadcrumbs[1].Active)
	assert.True(t, ctx.Breadcrumbs[2].Active)
}

func TestIsActive(t *testing.T) {
	ctx := NewContext("WP Dentist Settings", "settings", "wpdentist-settings")

	tests := []struct {
		section string
		page    string
		want    bool
	}{
		{"settings", "wpdentist-settings", true},
		{"settings", "restaurant-settings", false},
		{"items", "wpdentist-settings", false},
		{"items", "wpdentist_item", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ctx.IsActive(tt.section, tt.page), "%s/%s", tt.section, tt.page)
	}

	assert.True(t, ctx.IsSectionActive("settings"))
	assert.False(t, ctx.IsSectionActive("users"))
}
