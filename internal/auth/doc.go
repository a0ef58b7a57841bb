// Package auth provides authentication and capability checks.
//
// Users log in with a local username and an Argon2id hashed password. Every user has
// one role and a role holds a set of capabilities, e.g. "manage_options" or
// "edit_restaurant_items". Plugins grant their own capabilities to roles on activation.
//
// # Capability Checking
//
// The Service type answers capability questions for a user:
//   - HasCapability: check a single capability
//   - HasAllCapabilities: check every capability of a list
//   - GetUserCapabilities: list everything the user's role holds
//
// # Middleware
//
// Fiber middleware functions protect routes:
//   - RequireCapability: reject requests lacking a capability
//   - AddCapabilitiesToLocals: expose the capabilities to templates
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Get("/admin/settings/restaurant-settings",
//	    auth.RequireCapability(authService, "manage_options"),
//	    handler,
//	)
//
//	err := authService.GrantCapabilities(ctx, auth.RoleAdministrator, "manage_restaurant")
package auth
