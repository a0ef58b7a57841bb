package posttype

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/message"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/menusettings"
)

// ErrSlugTaken is returned when another content type already uses the archive or item URL.
var ErrSlugTaken = errors.New("slug already used by another content type")

// Registry holds the declared content types. Registering a name again replaces the declaration.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*ContentType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]*ContentType{}}
}

// Register stores ct.
func (r *Registry) Register(ct *ContentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, other := range r.types {
		if name == ct.Name {
			continue
		}

		if other.HasArchive == ct.HasArchive || other.Rewrite.Slug == ct.Rewrite.Slug {
			return fmt.Errorf("%w: %q of %s conflicts with %s", ErrSlugTaken, ct.HasArchive, ct.Name, name)
		}
	}

	r.types[ct.Name] = ct

	return nil
}

// Get returns the content type with the given name.
func (r *Registry) Get(name string) (*ContentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, ok := r.types[name]

	return ct, ok
}

// ByArchive returns the content type whose archive lives at base.
func (r *Registry) ByArchive(base string) (*ContentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ct := range r.types {
		if ct.HasArchive == base {
			return ct, true
		}
	}

	return nil, false
}

// All returns every content type sorted by name.
func (r *Registry) All() []*ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ContentType, 0, len(r.types))
	for _, ct := range r.types {
		out = append(out, ct)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

// SettingsLoader returns the current plugin settings.
type SettingsLoader interface {
	Load(ctx context.Context) (menusettings.Record, error)
}

// Registrar declares one plugin's content type on every init cycle.
type Registrar struct {
	opts     Options
	settings SettingsLoader
	registry *Registry
	printer  *message.Printer
}

// NewRegistrar returns a registrar for opts.
func NewRegistrar(opts Options, settings SettingsLoader, registry *Registry, p *message.Printer) *Registrar {
	return &Registrar{
		opts:     opts,
		settings: settings,
		registry: registry,
		printer:  p,
	}
}

// Register reads the latest settings and (re)declares the content type.
// Storage errors while reading settings are logged and the declaration uses the returned defaults.
func (r *Registrar) Register(ctx context.Context) error {
	rec, err := r.settings.Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("post_type", r.opts.Name).Msg("failed to load menu settings")
	}

	ct, err := Declare(r.opts, rec, r.printer)
	if err != nil {
		return err
	}

	if err = r.registry.Register(ct); err != nil {
		return err
	}

	log.Debug().Str("post_type", ct.Name).Str("archive", ct.ArchivePath()).Msg("content type registered")

	return nil
}
