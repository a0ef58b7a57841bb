package plugin

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/lifecycle"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/menusettings"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/posttype"
)

// CapabilityGranter adds capabilities to a role.
type CapabilityGranter interface {
	GrantCapabilities(ctx context.Context, roleName string, capabilities ...string) error
}

// SettingsPage is an admin page editing one plugin's settings.
type SettingsPage struct {
	// Slug is the URL segment below /admin/settings/, e.g. "restaurant-settings".
	Slug string
	// Plugin is the owning plugin slug.
	Plugin string
	// PostType is the content type the page is nested under.
	PostType   string
	Title      string
	MenuTitle  string
	Capability string
	Settings   *menusettings.Controller
	Printer    *message.Printer
	// AfterSave re-declares the content type so it reflects the new settings.
	AfterSave func(ctx context.Context) error
}

// AdminPages receives settings pages. It is nil outside the administrative context.
type AdminPages interface {
	AddSettingsPage(page SettingsPage)
}

// Deps are the host services handed to every plugin.
type Deps struct {
	DB           *gorm.DB
	Dispatcher   *lifecycle.Dispatcher
	Registry     *posttype.Registry
	Capabilities CapabilityGranter
	Admin        AdminPages
	Language     language.Tag
	DataDir      string
	BaseURL      string
}
