package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
)

func TestOpenSQLiteFile(t *testing.T) {
	cfg := &config.Config{
		DB: config.DB{
			GormEngine: "sqlite",
			Path:       filepath.Join(t.TempDir(), "nested", "menu.db"),
		},
	}

	conn, err := Open(cfg)
	require.NoError(t, err)

	for _, table := range []string{"settings", "roles", "capabilities", "role_capabilities", "users", "menu_items"} {
		assert.True(t, conn.Migrator().HasTable(table), "table %s missing", table)
	}

	require.NoError(t, conn.Create(&models.Setting{Name: "probe", Value: []byte("{}")}).Error)
}

func TestDialectorName(t *testing.T) {
	assert.Equal(t, "mysql", Dialector(&config.Config{DB: config.DB{GormEngine: "mysql"}}).Name())
	assert.Equal(t, "postgres", Dialector(&config.Config{DB: config.DB{GormEngine: "postgres"}}).Name())
	assert.Equal(t, "sqlite", Dialector(&config.Config{DB: config.DB{GormEngine: "sqlite"}}).Name())
}
