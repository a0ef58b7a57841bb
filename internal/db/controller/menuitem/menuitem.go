// Package menuitem stores the entries of plugin content types.
package menuitem

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
)

const maxSlugLen = 200

var (
	// ErrItemNotFound is returned when no item matches.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrPostTypeEmpty is returned when an item has no content type.
	ErrPostTypeEmpty = errors.New("post type cannot be empty")
	// ErrInvalidStatus is returned for statuses other than draft, publish and private.
	ErrInvalidStatus = errors.New("invalid item status")
)

// ListOptions filters List.
type ListOptions struct {
	// Statuses restricts the result; empty means all.
	Statuses []string
	// AuthorID restricts the result to one author when non-zero.
	AuthorID uint64
}

// Slugify turns a title into a lower-case URL segment.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder

	dash := false

	for _, r := range strings.ToLower(plain) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)

			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')

			dash = true
		}
	}

	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > maxSlugLen {
		out = strings.TrimSuffix(out[:maxSlugLen], "-")
	}

	return out
}

func validStatus(status string) bool {
	switch status {
	case models.StatusDraft, models.StatusPublish, models.StatusPrivate:
		return true
	}

	return false
}

// uniqueSlug returns base, or base-N when base is already used by another item of the type.
func uniqueSlug(tx *gorm.DB, postType, base string, exceptID uint64) (string, error) {
	if base == "" {
		base = "item"
	}

	candidate := base

	for n := 2; ; n++ {
		var count int64

		q := tx.Model(&models.MenuItem{}).Where("post_type = ? AND slug = ?", postType, candidate)
		if exceptID != 0 {
			q = q.Where("id <> ?", exceptID)
		}

		if err := q.Count(&count).Error; err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}

		if count == 0 {
			return candidate, nil
		}

		candidate = base + "-" + strconv.Itoa(n)
	}
}

func prepare(tx *gorm.DB, item *models.MenuItem) error {
	if item.PostType == "" {
		return ErrPostTypeEmpty
	}

	if item.Status == "" {
		item.Status = models.StatusDraft
	}

	if !validStatus(item.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, item.Status)
	}

	base := Slugify(item.Slug)
	if base == "" {
		base = Slugify(item.Title)
	}

	slug, err := uniqueSlug(tx, item.PostType, base, item.ID)
	if err != nil {
		return err
	}

	item.Slug = slug

	return nil
}

// Create stores a new item, deriving its slug from the title when none is given.
func Create(ctx context.Context, db *gorm.DB, item *models.MenuItem) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := prepare(tx, item); err != nil {
			return err
		}

		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("create menu item: %w", err)
		}

		return nil
	})
}

// Update saves item. When keepRevision is set the stored version is snapshotted first.
func Update(ctx context.Context, db *gorm.DB, item *models.MenuItem, keepRevision bool) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.MenuItem

		err := tx.Where("post_type = ?", item.PostType).First(&current, item.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}

		if err != nil {
			return fmt.Errorf("load menu item %d: %w", item.ID, err)
		}

		if err = prepare(tx, item); err != nil {
			return err
		}

		if keepRevision {
			rev := &models.MenuItemRevision{
				MenuItemID: current.ID,
				Title:      current.Title,
				Content:    current.Content,
				Excerpt:    current.Excerpt,
				AuthorID:   current.AuthorID,
			}
			if err = tx.Create(rev).Error; err != nil {
				return fmt.Errorf("store revision of menu item %d: %w", item.ID, err)
			}
		}

		item.AuthorID = current.AuthorID
		item.CreatedAt = current.CreatedAt

		if err = tx.Save(item).Error; err != nil {
			return fmt.Errorf("update menu item %d: %w", item.ID, err)
		}

		return nil
	})
}

// Get returns one item of the content type.
func Get(ctx context.Context, db *gorm.DB, postType string, id uint64) (*models.MenuItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var item models.MenuItem

	err := db.WithContext(ctx).Where("post_type = ?", postType).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get menu item %d: %w", id, err)
	}

	return &item, nil
}

// GetBySlug returns the item of the content type with the given slug.
func GetBySlug(ctx context.Context, db *gorm.DB, postType, slug string) (*models.MenuItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var item models.MenuItem

	err := db.WithContext(ctx).Where("post_type = ? AND slug = ?", postType, slug).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get menu item %q: %w", slug, err)
	}

	return &item, nil
}

// List returns the items of a content type ordered by menu order, then title.
func List(ctx context.Context, db *gorm.DB, postType string, opts ListOptions) ([]models.MenuItem, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db.WithContext(ctx).Where("post_type = ?", postType)
	if len(opts.Statuses) > 0 {
		q = q.Where("status IN ?", opts.Statuses)
	}

	if opts.AuthorID != 0 {
		q = q.Where("author_id = ?", opts.AuthorID)
	}

	var items []models.MenuItem
	if err := q.Order("menu_order, title").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s items: %w", postType, err)
	}

	return items, nil
}

// Delete removes an item together with its revisions.
func Delete(ctx context.Context, db *gorm.DB, postType string, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_type = ?", postType).Delete(&models.MenuItem{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete menu item %d: %w", id, res.Error)
		}

		if res.RowsAffected == 0 {
			return ErrItemNotFound
		}

		if err := tx.Where("menu_item_id = ?", id).Delete(&models.MenuItemRevision{}).Error; err != nil {
			return fmt.Errorf("delete revisions of menu item %d: %w", id, err)
		}

		return nil
	})
}

// Revisions returns the stored snapshots of an item, newest first.
func Revisions(ctx context.Context, db *gorm.DB, id uint64) ([]models.MenuItemRevision, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var revs []models.MenuItemRevision
	if err := db.WithContext(ctx).Where("menu_item_id = ?", id).Order("id desc").Find(&revs).Error; err != nil {
		return nil, fmt.Errorf("list revisions of menu item %d: %w", id, err)
	}

	return revs, nil
}
