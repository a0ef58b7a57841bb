// Package db opens and migrates the gorm database.
package db

import (
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/dsn"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/logger/adapter/gormlogger"
)

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case "mysql":
		return gormmysql.Open(dsn.MySQL(cfg))
	case "postgres":
		return postgres.Open(dsn.Postgres(cfg))
	default:
		return sqlite.Open(dsn.SQLite(cfg))
	}
}

// Open connects to the configured database and migrates the schema.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DB.GormEngine == "sqlite" && cfg.DB.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o750); err != nil { //nolint:mnd
			return nil, errors.Wrap(err, "failed to create sqlite directory")
		}
	}

	conn, err := gorm.Open(Dialector(cfg), &gorm.Config{
		Logger: gormlogger.New(nil),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	if err = Migrate(conn); err != nil {
		return nil, err
	}

	return conn, nil
}

// Migrate creates or updates all tables.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
