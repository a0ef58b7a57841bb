// Package menusettings holds the archive title and description of a menu plugin
// and the form that edits them.
package menusettings

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/controller/setting"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/sanitize"
)

// OptionSuffix is appended to the plugin slug to name its option slot.
const OptionSuffix = "_settings"

var (
	updates     *prometheus.CounterVec //nolint:gochecknoglobals
	updatesOnce sync.Once              //nolint:gochecknoglobals
)

func updateCounter() *prometheus.CounterVec {
	updatesOnce.Do(func() {
		updates = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menu_settings_updates_total",
				Help: "Number of saved menu settings, by option.",
			},
			[]string{"option"},
		)
	})

	return updates
}

// Record is the persisted settings document.
type Record struct {
	ArchiveTitle       string `json:"archive_title"       form:"archive_title"`
	ArchiveDescription string `json:"archive_description" form:"archive_description"`
}

// Controller loads, validates and stores the settings of one plugin.
type Controller struct {
	db       *gorm.DB
	option   string
	defaults Record
}

// OptionName returns the option slot used by the plugin with the given slug.
func OptionName(slug string) string {
	return slug + OptionSuffix
}

// New returns the controller for the plugin with the given slug.
func New(db *gorm.DB, slug string, defaults Record) *Controller {
	return &Controller{
		db:       db,
		option:   OptionName(slug),
		defaults: defaults,
	}
}

// Option returns the option slot name.
func (c *Controller) Option() string {
	return c.option
}

// Defaults returns the record used when nothing is stored.
func (c *Controller) Defaults() Record {
	return c.defaults
}

// Load returns the stored record, or the defaults when none is stored.
// A stored document that cannot be decoded is logged and replaced by the defaults.
func (c *Controller) Load(ctx context.Context) (Record, error) {
	var rec Record

	err := setting.GetJSON(ctx, c.db, c.option, &rec)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, setting.ErrSettingNotFound):
		return c.defaults, nil
	case errors.Is(err, setting.ErrSettingMalformed):
		log.Warn().Err(err).Str("option", c.option).Msg("malformed settings, using defaults")

		return c.defaults, nil
	default:
		return c.defaults, err
	}
}

// Validate sanitizes a submitted record. It never fails.
func (c *Controller) Validate(raw Record, unfilteredHTML bool) Record {
	return Validate(raw, unfilteredHTML)
}

// Validate strips all markup from the title and filters the description
// unless the user may post unfiltered HTML.
func Validate(raw Record, unfilteredHTML bool) Record {
	return Record{
		ArchiveTitle:       sanitize.StripTags(raw.ArchiveTitle),
		ArchiveDescription: sanitize.Description(raw.ArchiveDescription, unfilteredHTML),
	}
}

// Save validates raw and stores the result.
func (c *Controller) Save(ctx context.Context, raw Record, unfilteredHTML bool) (Record, error) {
	rec := Validate(raw, unfilteredHTML)

	if err := setting.SetJSON(ctx, c.db, c.option, rec); err != nil {
		return rec, err
	}

	updateCounter().WithLabelValues(c.option).Inc()
	log.Info().Str("option", c.option).Msg("menu settings updated")

	return rec, nil
}

// EnsureDefaults stores the defaults unless a record exists. It reports whether it created one.
func (c *Controller) EnsureDefaults(ctx context.Context) (bool, error) {
	created, err := setting.AddJSON(ctx, c.db, c.option, c.defaults)
	if err != nil {
		return false, err
	}

	if created {
		log.Debug().Str("option", c.option).Msg("stored default menu settings")
	}

	return created, nil
}
