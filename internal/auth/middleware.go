package auth

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Locals keys set by the session middleware and read here.
const (
	LocalsUserID       = "user_id"
	LocalsCapabilities = "capabilities"
	LocalsCan          = "can"
)

// UserIDFromLocals returns the logged in user, or 0.
func UserIDFromLocals(c *fiber.Ctx) uint64 {
	id, _ := c.Locals(LocalsUserID).(uint64)

	return id
}

// RequireCapability creates Fiber middleware that requires a specific capability.
func RequireCapability(authService *Service, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserIDFromLocals(c)
		if userID == 0 {
			log.Error().Str("path", c.Path()).Msg("no user in request")
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		has, err := authService.HasCapability(c.UserContext(), userID, capability)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Str("capability", capability).
				Msg("Failed to check capability")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !has {
			log.Warn().Uint64("user_id", userID).Str("capability", capability).
				Msg("User lacks required capability")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// Can reports whether the current user holds capability. Errors count as no.
func Can(c *fiber.Ctx, authService *Service, capability string) bool {
	if caps, ok := c.Locals(LocalsCapabilities).([]string); ok {
		return slices.Contains(caps, capability)
	}

	userID := UserIDFromLocals(c)
	if userID == 0 {
		return false
	}

	has, err := authService.HasCapability(c.UserContext(), userID, capability)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Str("capability", capability).Msg("Failed to check capability")
		return false
	}

	return has
}

// AddCapabilitiesToLocals adds the user's capabilities to fiber.Locals so templates can
// render conditionally.
func AddCapabilitiesToLocals(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserIDFromLocals(c)
		if userID == 0 {
			return c.Next()
		}

		caps, err := authService.GetUserCapabilities(c.UserContext(), userID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Msg("Failed to get user capabilities")

			return c.Next()
		}

		c.Locals(LocalsCapabilities, caps)
		c.Locals(LocalsCan, func(capability string) bool {
			return slices.Contains(caps, capability)
		})

		return c.Next()
	}
}
