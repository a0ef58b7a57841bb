package daemon

import (
	"context"

	"github.com/dchest/uniuri"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
)

const generatedPasswordLen = 20

// seed creates the default roles and, on an empty database, the first administrator.
// It reports whether the administrator was created.
func seed(ctx context.Context, cfg *config.Config, authService *auth.Service) (bool, error) {
	for role, caps := range auth.DefaultRoleCapabilities() {
		if _, err := authService.EnsureRole(ctx, role, role, caps...); err != nil {
			return false, errors.Wrapf(err, "failed to seed role %s", role)
		}
	}

	count, err := authService.CountUsers(ctx)
	if err != nil {
		return false, err
	}

	if count > 0 {
		return false, nil
	}

	username := cfg.Seed.AdminUsername
	if username == "" {
		username = "admin"
	}

	password := cfg.Seed.AdminPassword
	generated := password == ""

	if generated {
		password = uniuri.NewLen(generatedPasswordLen)
	}

	if _, err = authService.CreateUser(ctx, username, cfg.Seed.AdminEmail, password, auth.RoleAdministrator); err != nil {
		return false, errors.Wrap(err, "failed to seed administrator")
	}

	event := log.Warn().Str("username", username)
	if generated {
		event = event.Str("password", password)
	}

	event.Msg("administrator account created, change the password after the first login")

	return true, nil
}
