package config

import (
	"time"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool   // enable dev mode for development
	Title     string // title shown in the admin header
	Language  string // fallback language tag for translations, e.g. en-US
	DataDir   string // base directory for plugin data
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Seed      Seed
	Plugins   []Plugin
}

// DB holds the database configuration settings.
type DB struct {
	GormEngine string // sqlite, mysql or postgres
	Path       string // sqlite database file
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic bool    // enable static file browsing (for development purposes only)
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver
	Session      Session // session settings
}

// Seed holds the initial administrator account created on an empty database.
type Seed struct {
	AdminUsername string
	AdminPassword string // random password is generated and logged once when empty
	AdminEmail    string
}

// Plugin describes one menu plugin hosted by the service.
type Plugin struct {
	// Slug identifies the plugin, e.g. "restaurant".
	Slug string `validate:"required,alphanum"`
	// Name is the human readable plugin name.
	Name string `validate:"required"`
	// Version is the plugin version, semver.
	Version string `validate:"required,semver"`
	// DBVersion is the schema version of the plugin data.
	DBVersion int `validate:"gte=1"`
	// TextDomain selects the translation catalog.
	TextDomain string `validate:"required,alphanum"`
	// PostType is the content type name, e.g. "restaurant_item".
	PostType string `validate:"required,max=20,excludesall=/ "`
	// CapabilityPrefix builds the coarse capability names manage_<prefix>, ...
	CapabilityPrefix string `validate:"required,excludesall=/ "`
	// MenuBase is the public URL segment of the menu archive.
	MenuBase string `validate:"required,excludesall=/ ?#"`
	// MenuName is the admin menu label.
	MenuName string `validate:"required"`
	// SettingsCapability gates the settings page; defaults to manage_options.
	SettingsCapability string
	// DefaultArchiveTitle is used while no settings were saved.
	DefaultArchiveTitle string
	// DefaultArchiveDescription is used while no settings were saved.
	DefaultArchiveDescription string
}
