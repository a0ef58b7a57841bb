// Package main provides the entry point of GoMenu-Admin.
// It reads etc/main.toml, boots the configured menu plugins and serves the
// admin UI and the public menu archives with the Fiber framework. Data is
// kept with gorm in sqlite, mysql or postgres.
package main
