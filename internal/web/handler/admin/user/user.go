// Package user provides the admin pages listing, adding and editing users.
package user

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/models"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/dashboard"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/navigation"
)

const (
	// Path is the base path for user management.
	Path = handler.RootPath + "admin/user"

	// TemplateList is the template for listing users.
	TemplateList = "admin/user/list"
	// TemplateForm is the template for creating/updating a user.
	TemplateForm = "admin/user/form"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25

	maxPageSize = 100
)

// ErrSelfLockout is shown when users try to demote or disable themselves.
var ErrSelfLockout = errors.New("you cannot change your own role or disable your own account")

// CreateForm is the add user form.
type CreateForm struct {
	Username string `form:"username" validate:"required,max=100"`
	Email    string `form:"email"    validate:"required,email,max=255"`
	Password string `form:"password" validate:"required,min=8"`
	Role     string `form:"role"     validate:"required"`
}

// UpdateForm is the edit user form.
type UpdateForm struct {
	DisplayName string `form:"display_name" validate:"max=100"`
	Password    string `form:"password"     validate:"omitempty,min=8"`
	Role        string `form:"role"         validate:"required"`
	Active      bool   `form:"active"`
}

// Service provides user management.
type Service struct {
	handler.Service
	deps      *handler.Deps
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := deps.Check(app); err != nil {
		return err
	}

	s.deps = deps
	s.validator = validator.New()

	app.Get(Path,
		auth.RequireCapability(deps.Auth, auth.CapListUsers),
		s.List,
	)
	app.Get(Path+"/new",
		auth.RequireCapability(deps.Auth, auth.CapCreateUsers),
		s.New,
	)
	app.Post(Path,
		auth.RequireCapability(deps.Auth, auth.CapCreateUsers),
		s.Create,
	)
	app.Get(Path+"/:id<int>/edit",
		auth.RequireCapability(deps.Auth, auth.CapEditUsers),
		s.Edit,
	)
	app.Post(Path+"/:id<int>",
		auth.RequireCapability(deps.Auth, auth.CapEditUsers),
		s.Update,
	)

	return nil
}

// List shows users with simple pagination and search.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.NewContext("Users", "users", "users").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Users", Path, true)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = DefaultPageSize
	}

	search := c.Query("search", "")

	result, err := s.deps.Auth.ListUsers(c.UserContext(), search, (page-1)*pageSize, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("query users failed")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load users",
			"Search":     search,
		}, handler.BaseLayout)
	}

	totalPages := int((result.Total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages == 0 {
		totalPages = 1
	}

	flash := ""
	if s.deps.Sessions != nil {
		flash = s.deps.Sessions.Flash(c)
	}

	return c.Render(TemplateList, fiber.Map{
		"Navigation":    nav,
		"Users":         result.Users,
		"CurrentUserID": auth.UserIDFromLocals(c),
		"CanCreate":     auth.Can(c, s.deps.Auth, auth.CapCreateUsers),
		"CanEdit":       auth.Can(c, s.deps.Auth, auth.CapEditUsers),
		"Search":        search,
		"Page":          page,
		"PageSize":      pageSize,
		"TotalItems":    result.Total,
		"TotalPages":    totalPages,
		"HasPrev":       page > 1,
		"HasNext":       page < totalPages,
		"PrevPage":      page - 1,
		"NextPage":      page + 1,
		"Success":       flash,
	}, handler.BaseLayout)
}

// New shows the creation form.
func (s *Service) New(c *fiber.Ctx) error {
	return s.renderForm(c, fiber.StatusOK, &models.User{Active: true, Role: models.Role{Name: auth.RoleAuthor}}, fiber.Map{})
}

// Create handles the add user form.
func (s *Service) Create(c *fiber.Ctx) error {
	form := new(CreateForm)
	if err := c.BodyParser(form); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, &models.User{Active: true}, fiber.Map{"Error": "Invalid form data"})
	}

	draft := &models.User{Active: true, Username: form.Username, Email: form.Email, Role: models.Role{Name: form.Role}}

	if err := s.validator.Struct(form); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, draft, fiber.Map{"Error": "Please check the highlighted fields: " + err.Error()})
	}

	user, err := s.deps.Auth.CreateUser(c.UserContext(), form.Username, form.Email, form.Password, form.Role)
	if err != nil {
		status, msg := fiber.StatusInternalServerError, "Failed to create user"

		switch {
		case errors.Is(err, auth.ErrUserNameOrEmailExists):
			status, msg = fiber.StatusConflict, "Username or email already exists"
		case errors.Is(err, auth.ErrRoleNotFound):
			status, msg = fiber.StatusBadRequest, "Unknown role"
		default:
			log.Error().Err(err).Str("username", form.Username).Msg("failed to create user")
		}

		return s.renderForm(c, status, draft, fiber.Map{"Error": msg})
	}

	log.Info().
		Str("username", user.Username).
		Str("role", form.Role).
		Uint64("by", auth.UserIDFromLocals(c)).
		Msg("user created")

	s.flash(c, "User created.")

	return c.Redirect(Path)
}

// Edit shows the edit form.
func (s *Service) Edit(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return err
	}

	return s.renderForm(c, fiber.StatusOK, user, fiber.Map{})
}

// Update handles the edit user form.
func (s *Service) Update(c *fiber.Ctx) error {
	user, err := s.load(c)
	if err != nil {
		return err
	}

	form := new(UpdateForm)
	if err = c.BodyParser(form); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, user, fiber.Map{"Error": "Invalid form data"})
	}

	if err = s.validator.Struct(form); err != nil {
		return s.renderForm(c, fiber.StatusBadRequest, user, fiber.Map{"Error": "Please check the highlighted fields: " + err.Error()})
	}

	if user.ID == auth.UserIDFromLocals(c) && (!form.Active || form.Role != user.Role.Name) {
		return s.renderForm(c, fiber.StatusBadRequest, user, fiber.Map{"Error": ErrSelfLockout.Error()})
	}

	err = s.deps.Auth.UpdateUser(c.UserContext(), user.ID, form.Role, form.DisplayName, form.Password, form.Active)
	if err != nil {
		if errors.Is(err, auth.ErrRoleNotFound) {
			return s.renderForm(c, fiber.StatusBadRequest, user, fiber.Map{"Error": "Unknown role"})
		}

		log.Error().Err(err).Uint64("id", user.ID).Msg("failed to update user")

		return s.renderForm(c, fiber.StatusInternalServerError, user, fiber.Map{"Error": "Failed to update user"})
	}

	log.Info().
		Uint64("id", user.ID).
		Str("role", form.Role).
		Bool("active", form.Active).
		Uint64("by", auth.UserIDFromLocals(c)).
		Msg("user updated")

	s.flash(c, "User updated.")

	return c.Redirect(Path)
}

func (s *Service) load(c *fiber.Ctx) (*models.User, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.ErrBadRequest
	}

	user, err := s.deps.Auth.GetUser(c.UserContext(), id)
	if errors.Is(err, auth.ErrUserNotFound) {
		return nil, fiber.ErrNotFound
	}

	if err != nil {
		log.Error().Err(err).Uint64("id", id).Msg("failed to load user")

		return nil, fiber.ErrInternalServerError
	}

	return user, nil
}

func (s *Service) flash(c *fiber.Ctx, msg string) {
	if s.deps.Sessions == nil {
		return
	}

	if err := s.deps.Sessions.SetFlash(c, msg); err != nil {
		log.Error().Err(err).Msg("failed to store flash message")
	}
}

func (s *Service) renderForm(c *fiber.Ctx, status int, user *models.User, data fiber.Map) error {
	title, action := "New User", Path

	if user.ID != 0 {
		title, action = "Edit User", Path+"/"+strconv.FormatUint(user.ID, 10)
	}

	nav := navigation.NewContext(title, "users", "users").
		AddBreadcrumb("Home", dashboard.Path, false).
		AddBreadcrumb("Users", Path, false).
		AddBreadcrumb(title, action, true)

	roles, err := s.deps.Auth.Roles(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to load roles")

		data["Error"] = "Failed to load roles"
		status = fiber.StatusInternalServerError
	}

	data["Navigation"] = nav
	data["User"] = user
	data["Roles"] = roles
	data["Action"] = action
	data["IsNew"] = user.ID == 0

	return c.Status(status).Render(TemplateForm, data, handler.BaseLayout)
}
