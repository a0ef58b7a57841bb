// Package archive serves the public menu pages of the declared content types.
package archive

import (
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/controller/menuitem"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/posttype"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
)

const (
	// Path is the archive route. It must be registered after every other route.
	Path = handler.RootPath + ":base"

	// ItemPath is the single item route.
	ItemPath = Path + posttype.ItemsSuffix + "/:slug"

	// TemplateArchive is the name of the archive template.
	TemplateArchive = "archive/archive"

	// TemplateSingle is the name of the single item template.
	TemplateSingle = "archive/single"
)

// Entry is an item prepared for the public templates.
type Entry struct {
	Item    models.MenuItem
	URL     string
	Content template.HTML
	Excerpt template.HTML
}

// Service is the public archive handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the public archive handler.
var Handler = Service{}

// Init initializes the archive handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := deps.Check(app); err != nil {
		return err
	}

	if deps.Registry == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	app.Get(Path, s.Archive)
	app.Get(ItemPath, s.Single)

	return nil
}

// Archive lists the visible items of the content type whose archive is :base.
func (s *Service) Archive(c *fiber.Ctx) error {
	ct, ok := s.deps.Registry.ByArchive(c.Params("base"))
	if !ok {
		return fiber.ErrNotFound
	}

	list, err := menuitem.List(c.UserContext(), s.deps.DB, ct.Name, menuitem.ListOptions{
		Statuses: []string{models.StatusPublish, models.StatusPrivate},
	})
	if err != nil {
		log.Error().Err(err).Str("post_type", ct.Name).Msg("failed to list menu items")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load menu")
	}

	entries := make([]Entry, 0, len(list))
	for i := range list {
		if s.visible(c, ct, &list[i]) {
			entries = append(entries, entry(ct, &list[i]))
		}
	}

	title := ct.Labels.ArchiveTitle
	if title == "" {
		title = ct.Labels.Name
	}

	return c.Render(TemplateArchive, fiber.Map{
		"Type":        ct,
		"Title":       title,
		"Description": template.HTML(ct.Description), //nolint:gosec
		"Entries":     entries,
		"NotFound":    ct.Labels.NotFound,
	}, handler.PublicLayout)
}

// Single renders one item. Drafts are shown only as previews to users who may edit them.
func (s *Service) Single(c *fiber.Ctx) error {
	ct, ok := s.deps.Registry.ByArchive(c.Params("base"))
	if !ok {
		return fiber.ErrNotFound
	}

	item, err := menuitem.GetBySlug(c.UserContext(), s.deps.DB, ct.Name, c.Params("slug"))
	if errors.Is(err, menuitem.ErrItemNotFound) {
		return fiber.ErrNotFound
	}

	if err != nil {
		log.Error().Err(err).Str("post_type", ct.Name).Msg("failed to load menu item")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load menu item")
	}

	if !s.visible(c, ct, item) {
		return fiber.ErrNotFound
	}

	return c.Render(TemplateSingle, fiber.Map{
		"Type":       ct,
		"Entry":      entry(ct, item),
		"ArchiveURL": ct.ArchivePath(),
		"Preview":    item.Status == models.StatusDraft,
	}, handler.PublicLayout)
}

// visible reports whether the current visitor may see item.
func (s *Service) visible(c *fiber.Ctx, ct *posttype.ContentType, item *models.MenuItem) bool {
	switch item.Status {
	case models.StatusPublish:
		return true
	case models.StatusPrivate:
		return s.can(c, ct, ct.Capabilities.ReadPost, item)
	case models.StatusDraft:
		return c.QueryBool("preview") && s.can(c, ct, ct.Capabilities.EditPost, item)
	}

	return false
}

func (s *Service) can(c *fiber.Ctx, ct *posttype.ContentType, meta string, item *models.MenuItem) bool {
	userID := auth.UserIDFromLocals(c)
	if userID == 0 {
		return false
	}

	ok, err := s.deps.Auth.HasAllCapabilities(c.UserContext(), userID, posttype.MapMetaCap(ct, meta, userID, item)...)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("failed to check capabilities")
		return false
	}

	return ok
}

func entry(ct *posttype.ContentType, item *models.MenuItem) Entry {
	// content and excerpt were sanitized when saved
	return Entry{
		Item:    *item,
		URL:     ct.ItemPath(item.Slug),
		Content: template.HTML(item.Content), //nolint:gosec
		Excerpt: template.HTML(item.Excerpt), //nolint:gosec
	}
}
