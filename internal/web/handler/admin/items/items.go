// Package items provides the admin pages editing the entries of the menu content types.
package items

import (
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/controller/menuitem"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/posttype"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/sanitize"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/dashboard"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/navigation"
)

const (
	// Path is the route of the item list, the content type name being the parameter.
	Path = handler.ItemsPath + "/:type"

	// TemplateList is the name of the item list template.
	TemplateList = "admin/items/list"

	// TemplateEdit is the name of the item editor template.
	TemplateEdit = "admin/items/edit"

	localsContentType = "content_type"
)

// Form is a submitted menu item.
type Form struct {
	Title        string `form:"title"         validate:"max=255"`
	Slug         string `form:"slug"          validate:"max=200"`
	Content      string `form:"content"`
	Excerpt      string `form:"excerpt"`
	ThumbnailURL string `form:"thumbnail_url" validate:"omitempty,url,max=2048"`
	Status       string `form:"status"        validate:"omitempty,oneof=draft publish private"`
	MenuOrder    int    `form:"menu_order"`
}

// Row is one line of the item list.
type Row struct {
	Item      models.MenuItem
	EditURL   string
	ViewURL   string
	CanEdit   bool
	CanDelete bool
}

// Service is the menu item handler service.
type Service struct {
	handler.Service
	deps      *handler.Deps
	validator *validator.Validate
}

// Handler is the menu item handler.
var Handler = Service{}

// Init initializes the menu item handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := deps.Check(app); err != nil {
		return err
	}

	if deps.Registry == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.contentType, s.require(edit), s.List)
		router.Get("/new", s.contentType, s.require(create), s.New)
		router.Post("/new", s.contentType, s.require(create), s.Create)
		router.Get("/:id<int>", s.contentType, s.Edit)
		router.Post("/:id<int>", s.contentType, s.Update)
		router.Post("/:id<int>/delete", s.contentType, s.Delete)
	})

	return nil
}

// contentType resolves the :type parameter.
func (s *Service) contentType(c *fiber.Ctx) error {
	ct, ok := s.deps.Registry.Get(c.Params("type"))
	if !ok {
		return fiber.ErrNotFound
	}

	c.Locals(localsContentType, ct)

	return c.Next()
}

func current(c *fiber.Ctx) *posttype.ContentType {
	ct, _ := c.Locals(localsContentType).(*posttype.ContentType)

	return ct
}

func edit(ct *posttype.ContentType) string   { return ct.Capabilities.EditPosts }
func create(ct *posttype.ContentType) string { return ct.Capabilities.CreatePosts }

// require checks a capability of the resolved content type.
func (s *Service) require(capability func(ct *posttype.ContentType) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return auth.RequireCapability(s.deps.Auth, capability(current(c)))(c)
	}
}

// allowed checks the primitive capabilities a meta capability on item maps to.
func (s *Service) allowed(c *fiber.Ctx, meta string, item *models.MenuItem) bool {
	userID := auth.UserIDFromLocals(c)
	if userID == 0 {
		return false
	}

	caps := posttype.MapMetaCap(current(c), meta, userID, item)

	ok, err := s.deps.Auth.HasAllCapabilities(c.UserContext(), userID, caps...)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Strs("capabilities", caps).Msg("failed to check capabilities")
		return false
	}

	return ok
}

// load fetches the :id item of the resolved content type and checks meta.
func (s *Service) load(c *fiber.Ctx, meta string) (*models.MenuItem, error) {
	if auth.UserIDFromLocals(c) == 0 {
		return nil, fiber.ErrUnauthorized
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.ErrBadRequest
	}

	item, err := menuitem.Get(c.UserContext(), s.deps.DB, current(c).Name, id)
	if errors.Is(err, menuitem.ErrItemNotFound) {
		return nil, fiber.ErrNotFound
	}

	if err != nil {
		log.Error().Err(err).Uint64("id", id).Msg("failed to load menu item")
		return nil, fiber.ErrInternalServerError
	}

	if !s.allowed(c, meta, item) {
		return nil, fiber.ErrForbidden
	}

	return item, nil
}

// List renders the items of the content type. Users who may not edit others' items see their own only.
func (s *Service) List(c *fiber.Ctx) error {
	ct := current(c)
	userID := auth.UserIDFromLocals(c)

	opts := menuitem.ListOptions{}
	if !auth.Can(c, s.deps.Auth, ct.Capabilities.EditOthersPosts) {
		opts.AuthorID = userID
	}

	list, err := menuitem.List(c.UserContext(), s.deps.DB, ct.Name, opts)
	if err != nil {
		log.Error().Err(err).Str("post_type", ct.Name).Msg("failed to list menu items")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load menu items")
	}

	rows := make([]Row, 0, len(list))
	for i := range list {
		item := &list[i]
		rows = append(rows, Row{
			Item:      *item,
			EditURL:   s.editURL(ct, item.ID),
			ViewURL:   ct.ItemPath(item.Slug),
			CanEdit:   s.allowed(c, ct.Capabilities.EditPost, item),
			CanDelete: s.allowed(c, ct.Capabilities.DeletePost, item),
		})
	}

	flash := ""
	if s.deps.Sessions != nil {
		flash = s.deps.Sessions.Flash(c)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation": s.nav(ct, ct.Labels.AllItems),
		"Type":       ct,
		"Rows":       rows,
		"NewURL":     handler.ItemsPath + "/" + ct.Name + "/new",
		"CanCreate":  auth.Can(c, s.deps.Auth, ct.Capabilities.CreatePosts),
		"Success":    flash,
	}, handler.BaseLayout)
}

// New renders an empty editor.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderEdit(c, fiber.StatusOK, &models.MenuItem{Status: models.StatusDraft}, fiber.Map{})
}

// Create stores a new item and redirects to its editor.
func (s *Service) Create(c *fiber.Ctx) error {
	ct := current(c)

	form, err := s.parse(c)
	if err != nil {
		return s.renderEdit(c, fiber.StatusBadRequest, form.item(ct), fiber.Map{"Error": err.Error()})
	}

	item := s.sanitized(c, form.item(ct))
	item.AuthorID = auth.UserIDFromLocals(c)
	item.Status = s.status(c, item.Status, models.StatusDraft)

	if err = menuitem.Create(c.UserContext(), s.deps.DB, item); err != nil {
		log.Error().Err(err).Str("post_type", ct.Name).Msg("failed to create menu item")

		return s.renderEdit(c, fiber.StatusInternalServerError, item, fiber.Map{"Error": "Failed to save menu item"})
	}

	log.Info().Str("post_type", ct.Name).Uint64("id", item.ID).Str("status", item.Status).Msg("menu item created")

	msg := posttype.MessageDraftUpdated

	switch item.Status {
	case models.StatusPublish:
		msg = posttype.MessagePublished
	case models.StatusPrivate:
		msg = posttype.MessageSaved
	}

	return c.Redirect(fmt.Sprintf("%s?message=%d", s.editURL(ct, item.ID), msg))
}

// Edit renders the editor of an item.
func (s *Service) Edit(c *fiber.Ctx) error {
	item, err := s.load(c, current(c).Capabilities.EditPost)
	if err != nil {
		return err
	}

	return s.renderEdit(c, fiber.StatusOK, item, fiber.Map{})
}

// Update saves an item, keeping a revision when the content type supports them.
func (s *Service) Update(c *fiber.Ctx) error {
	ct := current(c)

	existing, err := s.load(c, ct.Capabilities.EditPost)
	if err != nil {
		return err
	}

	form, err := s.parse(c)
	if err != nil {
		item := form.item(ct)
		item.ID = existing.ID

		return s.renderEdit(c, fiber.StatusBadRequest, item, fiber.Map{"Error": err.Error()})
	}

	item := s.sanitized(c, form.item(ct))
	item.ID = existing.ID
	item.Status = s.status(c, item.Status, existing.Status)

	if item.Slug == "" {
		item.Slug = existing.Slug
	}

	if err = menuitem.Update(c.UserContext(), s.deps.DB, item, ct.Supports(posttype.FeatureRevisions)); err != nil {
		log.Error().Err(err).Uint64("id", item.ID).Msg("failed to update menu item")

		return s.renderEdit(c, fiber.StatusInternalServerError, item, fiber.Map{"Error": "Failed to save menu item"})
	}

	msg := posttype.MessageUpdated

	switch {
	case item.Status == models.StatusPublish && existing.Status != models.StatusPublish:
		msg = posttype.MessagePublished
	case item.Status == models.StatusDraft:
		msg = posttype.MessageDraftUpdated
	}

	return c.Redirect(fmt.Sprintf("%s?message=%d", s.editURL(ct, item.ID), msg))
}

// Delete removes an item with its revisions.
func (s *Service) Delete(c *fiber.Ctx) error {
	ct := current(c)

	item, err := s.load(c, ct.Capabilities.DeletePost)
	if err != nil {
		return err
	}

	if err = menuitem.Delete(c.UserContext(), s.deps.DB, ct.Name, item.ID); err != nil {
		log.Error().Err(err).Uint64("id", item.ID).Msg("failed to delete menu item")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to delete menu item")
	}

	log.Info().Str("post_type", ct.Name).Uint64("id", item.ID).Msg("menu item deleted")

	if s.deps.Sessions != nil {
		if err = s.deps.Sessions.SetFlash(c, s.deps.Printer(ct.Name).Sprintf("Menu item deleted.")); err != nil {
			log.Error().Err(err).Msg("failed to store flash message")
		}
	}

	return c.Redirect(handler.ItemsPath + "/" + ct.Name)
}

func (s *Service) parse(c *fiber.Ctx) (*Form, error) {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		return form, errors.New("invalid form data")
	}

	if err := s.validator.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)

		msgs := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			msgs[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		return form, errors.New(strings.Join(msgs, "; "))
	}

	return form, nil
}

func (f *Form) item(ct *posttype.ContentType) *models.MenuItem {
	return &models.MenuItem{
		PostType:     ct.Name,
		Title:        f.Title,
		Slug:         f.Slug,
		Content:      f.Content,
		Excerpt:      f.Excerpt,
		ThumbnailURL: f.ThumbnailURL,
		Status:       f.Status,
		MenuOrder:    f.MenuOrder,
	}
}

// sanitized filters the item text like the archive description.
func (s *Service) sanitized(c *fiber.Ctx, item *models.MenuItem) *models.MenuItem {
	unfiltered := auth.Can(c, s.deps.Auth, auth.CapUnfilteredHTML)

	item.Title = sanitize.StripTags(item.Title)
	item.Slug = menuitem.Slugify(item.Slug)
	item.Content = sanitize.Description(item.Content, unfiltered)
	item.Excerpt = sanitize.Description(item.Excerpt, unfiltered)

	return item
}

// status returns the requested status, or fallback when publishing is not allowed.
func (s *Service) status(c *fiber.Ctx, requested, fallback string) string {
	if requested == "" {
		return fallback
	}

	if requested == models.StatusDraft {
		return requested
	}

	if requested != fallback && !auth.Can(c, s.deps.Auth, current(c).Capabilities.PublishPosts) {
		return fallback
	}

	return requested
}

func (s *Service) renderEdit(c *fiber.Ctx, status int, item *models.MenuItem, data fiber.Map) error {
	ct := current(c)
	p := s.deps.Printer(ct.Name)

	title := ct.Labels.AddNewItem
	action := handler.ItemsPath + "/" + ct.Name + "/new"

	if item.ID != 0 {
		title = ct.Labels.EditItem
		action = s.editURL(ct, item.ID)

		permalink := strings.TrimRight(s.deps.Config.Webserver.URL, "/") + ct.ItemPath(item.Slug)
		if msg, ok := posttype.UpdatedMessages(p, permalink)[c.QueryInt("message")]; ok {
			data["Notice"] = template.HTML(msg) //nolint:gosec
		}

		if ct.Supports(posttype.FeatureRevisions) {
			revisions, err := menuitem.Revisions(c.UserContext(), s.deps.DB, item.ID)
			if err != nil {
				log.Error().Err(err).Uint64("id", item.ID).Msg("failed to load revisions")
			}

			data["Revisions"] = revisions
		}

		data["CanDelete"] = s.allowed(c, ct.Capabilities.DeletePost, item)
	}

	data["Navigation"] = s.nav(ct, title)
	data["Type"] = ct
	data["Item"] = item
	data["Action"] = action
	data["CanPublish"] = auth.Can(c, s.deps.Auth, ct.Capabilities.PublishPosts)
	data["Statuses"] = []string{models.StatusDraft, models.StatusPublish, models.StatusPrivate}

	return c.Status(status).Render(TemplateEdit, data, handler.BaseLayout)
}

func (s *Service) nav(ct *posttype.ContentType, title string) *navigation.Context {
	return navigation.NewContext(title, "items", ct.Name).
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb(ct.Labels.MenuName, handler.ItemsPath+"/"+ct.Name, false).
		AddBreadcrumb(title, "", true)
}

func (s *Service) editURL(ct *posttype.ContentType, id uint64) string {
	return handler.ItemsPath + "/" + ct.Name + "/" + strconv.FormatUint(id, 10)
}
