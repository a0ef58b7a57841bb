// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case "postgres":
		return Postgres(cfg)
	case "mysql":
		return MySQL(cfg)
	default:
		return SQLite(cfg)
	}
}

// MySQL builds a go-sql-driver DSN.
func MySQL(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
		cfg.DB.Extras,
	)
}

// Postgres builds a postgres connection URI.
func Postgres(cfg *config.Config) string {
	out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
	)

	if cfg.DB.Extras != "" {
		out += "?" + strings.TrimPrefix(cfg.DB.Extras, "?")
	}

	return out
}

// SQLite returns the database file, or an in-memory database when no path is set.
func SQLite(cfg *config.Config) string {
	if cfg.DB.Path == "" {
		return "file::memory:?cache=shared"
	}

	return cfg.DB.Path
}
