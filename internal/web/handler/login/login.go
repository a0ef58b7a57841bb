package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/dashboard"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// Form is the submitted login form.
type Form struct {
	Username string `form:"username" validate:"required,max=100"`
	Password string `form:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	deps      *handler.Deps
	validator *validator.Validate
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if err := deps.Check(app); err != nil {
		return err
	}

	if deps.Sessions == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps
	s.validator = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.deps.Config.Title,
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		return s.fail(c, ErrInvalidFormData)
	}

	if err := s.validator.Struct(form); err != nil {
		return s.fail(c, ErrInvalidFormData)
	}

	user, err := s.deps.Auth.Authenticate(c.UserContext(), form.Username, form.Password)

	switch {
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return s.fail(c, ErrAccountDisabled)
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		log.Info().Str("username", form.Username).Str("ip", c.IP()).Msg("failed login")
		return s.fail(c, ErrInvalidCredentials)
	case err != nil:
		log.Error().Err(err).Msg("failed to authenticate user")
		return s.fail(c, ErrInternalServerError)
	}

	if err = s.deps.Sessions.Login(c, user.ID); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.fail(c, ErrInternalServerError)
	}

	log.Info().Str("username", user.Username).Msg("user logged in")

	return c.Redirect(dashboard.Path)
}

func (s *Service) fail(c *fiber.Ctx, err error) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.deps.Config.Title,
		"Error": err.Error(),
	})
}
