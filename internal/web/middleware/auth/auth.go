package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	coreauth "github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	accesslog "github.com/GoMenu-Admin/GoMenu-Admin/internal/logger/adapter/fiber"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/dashboard"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/login"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/logout"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/session"
)

// LocalsCurrentUser holds the logged in models.User for templates.
const LocalsCurrentUser = "CurrentUser"

// SkipPrefixes are never checked.
var SkipPrefixes = []string{"/static", "/metrics", "/checkalive"}

// protectedPrefixes require a logged in user.
var protectedPrefixes = []string{"/admin", "/dashboard"}

// New returns the middleware.
func New(sessions *session.Manager, authService *coreauth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hasPrefix(c, SkipPrefixes) || IsLogoutPage(c) {
			return c.Next()
		}

		loggedIn := false

		userID, err := sessions.UserID(c)
		switch {
		case err == nil:
			user, errUser := authService.GetUserByID(c.UserContext(), userID)
			if errUser != nil {
				// deleted or disabled since login
				if !errors.Is(errUser, coreauth.ErrUserNotFound) {
					log.Error().Err(errUser).Uint64("user_id", userID).Msg("failed to load session user")
				}

				_ = sessions.Logout(c)

				break
			}

			loggedIn = true

			c.Locals(coreauth.LocalsUserID, user.ID)
			c.Locals(accesslog.LocalsUsername, user.Username)
			c.Locals(LocalsCurrentUser, *user)
		case !errors.Is(err, session.ErrNoUser):
			log.Error().Err(err).Msg("failed to read session")
		}

		if loggedIn && IsLoginPage(c) {
			return c.Redirect(dashboard.Path)
		}

		if !loggedIn && hasPrefix(c, protectedPrefixes) {
			return c.Redirect(login.Path)
		}

		return c.Next()
	}
}

func hasPrefix(c *fiber.Ctx, prefixes []string) bool {
	p := strings.ToLower(c.Path())
	for _, prefix := range prefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}

	return false
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	return hasPrefix(c, []string{login.Path})
}

// IsLogoutPage checks if the current request is for the logout page.
func IsLogoutPage(c *fiber.Ctx) bool {
	return hasPrefix(c, []string{logout.Path})
}
