// Package plugin boots the menu plugins: each one declares a content type, registers
// its settings page in the admin and grants its capabilities on activation.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/message"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/i18n"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/lifecycle"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/menusettings"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/posttype"
)

// Stage priorities on the plugins_loaded event.
const (
	PriorityConstants    = 1
	PriorityLocalization = 2
	PriorityIncludes     = 3
	PriorityAdmin        = 4
)

// Plugin is one booted menu plugin.
type Plugin struct {
	def  config.Plugin
	deps Deps

	constantsOnce sync.Once
	i18nOnce      sync.Once
	includesOnce  sync.Once
	adminOnce     sync.Once

	version   *semver.Version
	dir       string
	uri       string
	domain    *i18n.Domain
	printer   *message.Printer
	settings  *menusettings.Controller
	registrar *posttype.Registrar
}

func newPlugin(def config.Plugin, deps Deps) *Plugin {
	p := &Plugin{def: def, deps: deps}

	d := deps.Dispatcher
	d.Subscribe(lifecycle.PluginsLoaded, PriorityConstants, p.handlerName("constants"), p.constants)
	d.Subscribe(lifecycle.PluginsLoaded, PriorityLocalization, p.handlerName("i18n"), p.localization)
	d.Subscribe(lifecycle.PluginsLoaded, PriorityIncludes, p.handlerName("includes"), p.includes)
	d.Subscribe(lifecycle.PluginsLoaded, PriorityAdmin, p.handlerName("admin"), p.admin)
	d.Subscribe(lifecycle.ActivationEvent(def.Slug), lifecycle.DefaultPriority, p.handlerName("activation"), p.Activate)

	return p
}

func (p *Plugin) handlerName(stage string) string {
	return p.def.Slug + "." + stage
}

func (p *Plugin) constants(context.Context) error {
	var err error

	p.constantsOnce.Do(func() {
		p.version, err = semver.StrictNewVersion(p.def.Version)
		if err != nil {
			err = fmt.Errorf("plugin %s version %q: %w", p.def.Slug, p.def.Version, err)
			return
		}

		p.dir = filepath.Join(p.deps.DataDir, "plugins", p.def.Slug) + string(filepath.Separator)
		p.uri = strings.TrimRight(p.deps.BaseURL, "/") + "/plugins/" + p.def.Slug + "/"
	})

	return err
}

func (p *Plugin) localization(context.Context) error {
	p.i18nOnce.Do(func() {
		domain, err := i18n.Load(p.def.TextDomain)
		if err != nil {
			log.Debug().Err(err).Str("plugin", p.def.Slug).Msg("no translations loaded, using source strings")

			domain = i18n.Fallback(p.def.TextDomain)
		}

		p.domain = domain
		p.printer = domain.Printer(p.deps.Language)
	})

	return nil
}

func (p *Plugin) includes(ctx context.Context) error {
	p.includesOnce.Do(func() {
		// includes may run without the localization stage when fired out of order
		_ = p.localization(ctx)

		p.settings = menusettings.New(p.deps.DB, p.def.Slug, menusettings.Record{
			ArchiveTitle:       p.def.DefaultArchiveTitle,
			ArchiveDescription: p.def.DefaultArchiveDescription,
		})

		p.registrar = posttype.NewRegistrar(p.Options(), p.settings, p.deps.Registry, p.printer)

		p.deps.Dispatcher.Subscribe(lifecycle.Init, lifecycle.DefaultPriority, p.handlerName("register_post_types"), p.registrar.Register)
	})

	return nil
}

func (p *Plugin) admin(ctx context.Context) error {
	if p.deps.Admin == nil {
		return nil
	}

	p.adminOnce.Do(func() {
		_ = p.includes(ctx)

		d := p.deps.Dispatcher
		d.Subscribe(lifecycle.AdminMenu, lifecycle.DefaultPriority, p.handlerName("admin_menu"), func(context.Context) error {
			p.deps.Admin.AddSettingsPage(p.SettingsPage())
			return nil
		})
		d.Subscribe(lifecycle.AdminInit, lifecycle.DefaultPriority, p.handlerName("register_settings"), func(ctx context.Context) error {
			_, err := p.settings.EnsureDefaults(ctx)
			return err
		})
	})

	return nil
}

// Activate grants the plugin capabilities to the administrator role. A missing role is
// logged and skipped.
func (p *Plugin) Activate(ctx context.Context) error {
	caps := p.ActivationCapabilities()

	err := p.deps.Capabilities.GrantCapabilities(ctx, auth.RoleAdministrator, caps...)
	if errors.Is(err, auth.ErrRoleNotFound) {
		log.Warn().Str("plugin", p.def.Slug).Str("role", auth.RoleAdministrator).
			Msg("role not found, no capabilities granted")

		return nil
	}

	if err != nil {
		return fmt.Errorf("activate plugin %s: %w", p.def.Slug, err)
	}

	log.Info().Str("plugin", p.def.Slug).Strs("capabilities", caps).Msg("plugin activated")

	return nil
}

// ActivationCapabilities returns the capabilities granted on activation.
func (p *Plugin) ActivationCapabilities() []string {
	prefix := p.def.CapabilityPrefix

	return []string{
		"manage_" + prefix,
		"create_" + prefix + "_items",
		"edit_" + prefix + "_items",
	}
}

// Options returns the content type options of the plugin.
func (p *Plugin) Options() posttype.Options {
	return posttype.Options{
		Name:             p.def.PostType,
		CapabilityPrefix: p.def.CapabilityPrefix,
		MenuBase:         p.def.MenuBase,
		MenuName:         p.def.MenuName,
	}
}

// SettingsPage describes the admin settings page of the plugin.
func (p *Plugin) SettingsPage() SettingsPage {
	pr := p.Printer()

	return SettingsPage{
		Slug:       p.def.Slug + "-settings",
		Plugin:     p.def.Slug,
		PostType:   p.def.PostType,
		Title:      pr.Sprintf("%s Settings", p.def.Name),
		MenuTitle:  pr.Sprintf("Settings"),
		Capability: p.def.SettingsCapability,
		Settings:   p.settings,
		Printer:    pr,
		AfterSave:  p.registrar.Register,
	}
}

// Slug returns the plugin slug.
func (p *Plugin) Slug() string { return p.def.Slug }

// Definition returns the configured plugin definition.
func (p *Plugin) Definition() config.Plugin { return p.def }

// Version returns the parsed version, nil before the constants stage.
func (p *Plugin) Version() *semver.Version { return p.version }

// DBVersion returns the schema version of the plugin data.
func (p *Plugin) DBVersion() int { return p.def.DBVersion }

// Dir returns the plugin data directory with a trailing separator.
func (p *Plugin) Dir() string { return p.dir }

// URI returns the plugin base URL with a trailing slash.
func (p *Plugin) URI() string { return p.uri }

// Domain returns the translation domain.
func (p *Plugin) Domain() *i18n.Domain { return p.domain }

// Settings returns the settings controller, nil before the includes stage.
func (p *Plugin) Settings() *menusettings.Controller { return p.settings }

// Printer returns the plugin's message printer.
func (p *Plugin) Printer() *message.Printer {
	if p.printer == nil {
		return i18n.Fallback(p.def.TextDomain).Printer(p.deps.Language)
	}

	return p.printer
}
