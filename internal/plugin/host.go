package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/lifecycle"
)

// ErrUnknownPlugin is returned for slugs no plugin was constructed for.
var ErrUnknownPlugin = errors.New("unknown plugin")

// Host constructs the plugins and drives their lifecycle.
type Host struct {
	deps Deps

	mu      sync.Mutex
	plugins map[string]*Plugin
	order   []string
}

// NewHost returns a host. A nil dispatcher is replaced by a new one.
func NewHost(deps Deps) *Host {
	if deps.Dispatcher == nil {
		deps.Dispatcher = lifecycle.New()
	}

	return &Host{
		deps:    deps,
		plugins: map[string]*Plugin{},
	}
}

// Instance returns the plugin for def, constructing it on the first call.
// Later calls with the same slug return the same instance.
func (h *Host) Instance(def config.Plugin) *Plugin {
	h.mu.Lock()
	defer h.mu.Unlock()

	if p, ok := h.plugins[def.Slug]; ok {
		return p
	}

	p := newPlugin(def, h.deps)
	h.plugins[def.Slug] = p
	h.order = append(h.order, def.Slug)

	log.Debug().Str("plugin", def.Slug).Msg("plugin constructed")

	return p
}

// Plugin returns a constructed plugin.
func (h *Host) Plugin(slug string) (*Plugin, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.plugins[slug]

	return p, ok
}

// Plugins returns the constructed plugins in construction order.
func (h *Host) Plugins() []*Plugin {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*Plugin, 0, len(h.order))
	for _, slug := range h.order {
		out = append(out, h.plugins[slug])
	}

	return out
}

// Dispatcher returns the lifecycle dispatcher.
func (h *Host) Dispatcher() *lifecycle.Dispatcher {
	return h.deps.Dispatcher
}

// Boot fires plugins_loaded and init, then admin_menu and admin_init in the administrative context.
func (h *Host) Boot(ctx context.Context) error {
	events := []lifecycle.Event{lifecycle.PluginsLoaded, lifecycle.Init}
	if h.deps.Admin != nil {
		events = append(events, lifecycle.AdminMenu, lifecycle.AdminInit)
	}

	var errs []error

	for _, ev := range events {
		if err := h.deps.Dispatcher.Fire(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Activate fires the activation event of a plugin.
func (h *Host) Activate(ctx context.Context, slug string) error {
	if _, ok := h.Plugin(slug); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, slug)
	}

	return h.deps.Dispatcher.Fire(ctx, lifecycle.ActivationEvent(slug))
}

// ByPostType returns the plugin declaring postType.
func (h *Host) ByPostType(postType string) (*Plugin, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, slug := range h.order {
		if p := h.plugins[slug]; p.def.PostType == postType {
			return p, true
		}
	}

	return nil, false
}
