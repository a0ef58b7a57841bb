// Package setting is the named option store. Each option is one row holding an opaque value,
// usually a JSON document owned by a single plugin.
package setting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when no option with the given name exists.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when an option name is empty.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrSettingMalformed is returned when a stored JSON document cannot be decoded.
	ErrSettingMalformed = errors.New("setting is malformed")
)

func check(db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	return nil
}

// Get retrieves an option by name.
func Get(ctx context.Context, db *gorm.DB, name string) (*models.Setting, error) {
	if err := check(db, name); err != nil {
		return nil, err
	}

	var setting models.Setting

	err := db.WithContext(ctx).Where(nameQueryPattern, name).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSettingNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get setting %q: %w", name, err)
	}

	return &setting, nil
}

// List returns every option ordered by name.
func List(ctx context.Context, db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	if err := db.WithContext(ctx).Order("name").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	return settings, nil
}

// Set creates or replaces an option.
func Set(ctx context.Context, db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if err := check(db, name); err != nil {
		return nil, err
	}

	setting := &models.Setting{Name: name, Value: value}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return nil, fmt.Errorf("set setting %q: %w", name, err)
	}

	return Get(ctx, db, name)
}

// Add stores an option only if it does not exist yet. It reports whether a row was created.
func Add(ctx context.Context, db *gorm.DB, name string, value []byte) (bool, error) {
	if err := check(db, name); err != nil {
		return false, err
	}

	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Setting{Name: name, Value: value})
	if res.Error != nil {
		return false, fmt.Errorf("add setting %q: %w", name, res.Error)
	}

	return res.RowsAffected > 0, nil
}

// Delete removes an option by name.
func Delete(ctx context.Context, db *gorm.DB, name string) error {
	if err := check(db, name); err != nil {
		return err
	}

	res := db.WithContext(ctx).Where(nameQueryPattern, name).Delete(&models.Setting{})
	if res.Error != nil {
		return fmt.Errorf("delete setting %q: %w", name, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// GetJSON decodes the named option into out.
func GetJSON(ctx context.Context, db *gorm.DB, name string, out any) error {
	s, err := Get(ctx, db, name)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(s.Value, out); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrSettingMalformed, name, err)
	}

	return nil
}

// SetJSON encodes in and stores it under name.
func SetJSON(ctx context.Context, db *gorm.DB, name string, in any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode setting %q: %w", name, err)
	}

	_, err = Set(ctx, db, name, data)

	return err
}

// AddJSON encodes in and stores it under name unless the option already exists.
func AddJSON(ctx context.Context, db *gorm.DB, name string, in any) (bool, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return false, fmt.Errorf("encode setting %q: %w", name, err)
	}

	return Add(ctx, db, name, data)
}
