// Package settings serves the settings pages the menu plugins add to the admin.
package settings

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/menusettings"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/plugin"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/dashboard"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/navigation"
)

const (
	// Path is the route of a settings page, the page slug being the parameter.
	Path = handler.SettingsPath + "/:page"

	// TemplateName is the name of the menu settings template.
	TemplateName = "admin/settings/menu"
)

// Service is the plugin settings handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the plugin settings handler.
var Handler = Service{}

// Init initializes the plugin settings handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := deps.Check(app); err != nil {
		return err
	}

	if deps.Pages == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	app.Get(Path, s.page, s.Get)
	app.Post(Path, s.page, s.Post)

	return nil
}

// page resolves the settings page and checks its capability.
func (s *Service) page(c *fiber.Ctx) error {
	page, ok := s.deps.Pages.Get(c.Params("page"))
	if !ok {
		return fiber.ErrNotFound
	}

	c.Locals("settings_page", page)

	return auth.RequireCapability(s.deps.Auth, page.Capability)(c)
}

// Get handles the settings page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	page, _ := c.Locals("settings_page").(plugin.SettingsPage)

	rec, err := page.Settings.Load(c.UserContext())
	if err != nil {
		log.Error().Err(err).Str("option", page.Settings.Option()).Msg("failed to load menu settings")
	}

	return s.render(c, fiber.StatusOK, page, rec, fiber.Map{})
}

// Post handles the settings form submission. Input is sanitized, never rejected.
func (s *Service) Post(c *fiber.Ctx) error {
	page, _ := c.Locals("settings_page").(plugin.SettingsPage)
	option := page.Settings.Option()

	raw := menusettings.FromForm(option, func(key string) string {
		return c.FormValue(key)
	})

	unfiltered := auth.Can(c, s.deps.Auth, auth.CapUnfilteredHTML)

	rec, err := page.Settings.Save(c.UserContext(), raw, unfiltered)
	if err != nil {
		log.Error().Err(err).Str("option", option).Msg("failed to save menu settings")

		return s.render(c, fiber.StatusInternalServerError, page, rec, fiber.Map{
			"Error": "Failed to save settings",
		})
	}

	if page.AfterSave != nil {
		if err = page.AfterSave(c.UserContext()); err != nil {
			log.Error().Err(err).Str("post_type", page.PostType).Msg("failed to re-register content type")
		}
	}

	log.Info().
		Str("option", option).
		Uint64("user_id", auth.UserIDFromLocals(c)).
		Bool("unfiltered_html", unfiltered).
		Msg("menu settings saved")

	return s.render(c, fiber.StatusOK, page, rec, fiber.Map{
		"Success": page.Printer.Sprintf("Settings saved."),
	})
}

func (s *Service) render(c *fiber.Ctx, status int, page plugin.SettingsPage, rec menusettings.Record, data fiber.Map) error {
	p := page.Printer
	option := page.Settings.Option()

	nav := navigation.NewContext(page.Title, "settings", page.Slug).
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb(page.MenuTitle, "", false).
		AddBreadcrumb(page.Title, handler.SettingsPath+"/"+page.Slug, true)

	fields, err := menusettings.RenderFields(rec, option, p)
	if err != nil {
		log.Error().Err(err).Str("option", option).Msg("failed to render settings fields")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to render settings")
	}

	data["Navigation"] = nav
	data["Page"] = page
	data["Option"] = option
	data["Record"] = rec
	data["Fields"] = fields
	data["SectionTitle"] = p.Sprintf("Menu Settings")
	data["Submit"] = p.Sprintf("Update Settings")
	data["ArchiveLink"] = s.archiveLink(page)

	return c.Status(status).Render(TemplateName, data, handler.BaseLayout)
}

// archiveLink renders "Your <plugin>'s menu is located at <link>." for the declared content type.
func (s *Service) archiveLink(page plugin.SettingsPage) template.HTML {
	if s.deps.Registry == nil {
		return ""
	}

	ct, ok := s.deps.Registry.Get(page.PostType)
	if !ok {
		return ""
	}

	u := html.EscapeString(strings.TrimRight(s.deps.Config.Webserver.URL, "/") + ct.ArchivePath())
	link := fmt.Sprintf(`<a href="%s"><code>%s</code></a>`, u, u)

	return template.HTML(page.Printer.Sprintf("Your %s's menu is located at %s.", html.EscapeString(page.Plugin), link)) //nolint:gosec
}
