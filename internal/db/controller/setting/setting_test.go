package setting

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Setting{Name: "site_name", Value: []byte("My Site")}).Error)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		expectedError error
		expectedValue []byte
	}{
		{name: "nil database", settingName: "test", expectedError: ErrDBNil},
		{name: "empty name", dbParam: db, expectedError: ErrSettingNameEmpty},
		{name: "not found", dbParam: db, settingName: "nonexistent", expectedError: ErrSettingNotFound},
		{name: "found", dbParam: db, settingName: "site_name", expectedValue: []byte("My Site")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Get(ctx, tc.dbParam, tc.settingName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, s)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedValue, s.Value)
		})
	}
}

func TestSetUpserts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	s, err := Set(ctx, db, "restaurant_settings", []byte("one"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), s.Value)

	s, err = Set(ctx, db, "restaurant_settings", []byte("two"))
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), s.Value)

	var count int64
	db.Model(&models.Setting{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = Set(ctx, db, "", []byte("x"))
	require.ErrorIs(t, err, ErrSettingNameEmpty)
}

func TestAddKeepsExisting(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created, err := Add(ctx, db, "wpdentist_settings", []byte("first"))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Add(ctx, db, "wpdentist_settings", []byte("second"))
	require.NoError(t, err)
	assert.False(t, created)

	s, err := Get(ctx, db, "wpdentist_settings")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), s.Value)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := Set(ctx, db, "gone", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, Delete(ctx, db, "gone"))
	require.ErrorIs(t, Delete(ctx, db, "gone"), ErrSettingNotFound)
	require.ErrorIs(t, Delete(ctx, nil, "gone"), ErrDBNil)
}

func TestList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"b", "a", "c"} {
		_, err := Set(ctx, db, name, nil)
		require.NoError(t, err)
	}

	all, err := List(ctx, db)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "c", all[2].Name)

	_, err = List(ctx, nil)
	require.ErrorIs(t, err, ErrDBNil)
}

func TestJSONHelpers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	type doc struct {
		Title string `json:"archive_title"`
	}

	var out doc
	require.ErrorIs(t, GetJSON(ctx, db, "menu", &out), ErrSettingNotFound)

	created, err := AddJSON(ctx, db, "menu", doc{Title: "Menu"})
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, GetJSON(ctx, db, "menu", &out))
	assert.Equal(t, "Menu", out.Title)

	require.NoError(t, SetJSON(ctx, db, "menu", doc{Title: "Lunch"}))
	require.NoError(t, GetJSON(ctx, db, "menu", &out))
	assert.Equal(t, "Lunch", out.Title)

	_, err = Set(ctx, db, "broken", []byte("{"))
	require.NoError(t, err)
	require.ErrorIs(t, GetJSON(ctx, db, "broken", &out), ErrSettingMalformed)
}
