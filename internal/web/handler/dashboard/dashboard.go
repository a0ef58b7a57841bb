// Package dashboard provides the landing page of the admin UI listing the menu plugins.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/controller/menuitem"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/plugin"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// Card summarizes one plugin for the current user.
type Card struct {
	Slug        string
	Name        string
	Version     string
	PostType    string
	MenuName    string
	ArchiveURL  string
	ItemsURL    string
	SettingsURL string
	Items       int
	CanEdit     bool
	CanSettings bool
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := deps.Check(app); err != nil {
		return err
	}

	s.deps = deps

	app.Get(Path,
		auth.RequireCapability(deps.Auth, auth.CapRead),
		s.Get,
	)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Home", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	cards := make([]Card, 0)

	if s.deps.Plugins != nil {
		for _, p := range s.deps.Plugins.Plugins() {
			cards = append(cards, s.card(c, p))
		}
	}

	flash := ""
	if s.deps.Sessions != nil {
		flash = s.deps.Sessions.Flash(c)
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Cards":      cards,
		"Success":    flash,
	}, handler.BaseLayout)
}

func (s *Service) card(c *fiber.Ctx, p *plugin.Plugin) Card {
	def := p.Definition()

	card := Card{
		Slug:     def.Slug,
		Name:     def.Name,
		PostType: def.PostType,
		MenuName: def.MenuName,
	}

	if v := p.Version(); v != nil {
		card.Version = v.String()
	}

	if s.deps.Registry != nil {
		if ct, ok := s.deps.Registry.Get(def.PostType); ok {
			card.MenuName = ct.Labels.MenuName
			card.ArchiveURL = ct.ArchivePath()
			card.ItemsURL = handler.ItemsPath + "/" + ct.Name
			card.CanEdit = auth.Can(c, s.deps.Auth, ct.Capabilities.EditPosts)

			items, err := menuitem.List(c.UserContext(), s.deps.DB, ct.Name, menuitem.ListOptions{})
			if err != nil {
				log.Error().Err(err).Str("post_type", ct.Name).Msg("failed to count menu items")
			}

			card.Items = len(items)
		}
	}

	if s.deps.Pages != nil {
		if page, ok := s.deps.Pages.ForPostType(def.PostType); ok {
			card.SettingsURL = handler.SettingsPath + "/" + page.Slug
			card.CanSettings = auth.Can(c, s.deps.Auth, page.Capability)
		}
	}

	return card
}
