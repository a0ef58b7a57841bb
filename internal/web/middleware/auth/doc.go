// Package auth provides the fiber middleware resolving the logged in user from the session
// and guarding the admin pages.
//
// The middleware performs the following tasks:
//   - Skips static files, metrics and health checks
//   - Stores the user id in fiber.Locals (auth.LocalsUserID) for capability checks
//   - Redirects anonymous requests below /admin and /dashboard to the login page
//   - Redirects logged in users away from the login page
//
// Usage:
//
//	app.Use(authmiddleware.New(sessions, authService))
//
// Public archive pages pass through for anonymous visitors.
package auth
