package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// PublicLayout wraps the public archive pages.
	PublicLayout = "layouts/public"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root of a route group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)

const (
	// ItemsPath is the root of the menu item admin pages, followed by the content type name.
	ItemsPath = RootPath + "admin/items"

	// SettingsPath is the root of the plugin settings pages, followed by the page slug.
	SettingsPath = RootPath + "admin/settings"
)
