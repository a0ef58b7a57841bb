// Package session keeps the login state of admin users in fiber sessions.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	keyUserID = "user_id"
	keyFlash  = "flash"
)

// ErrNoUser is returned when the session holds no logged in user.
var ErrNoUser = errors.New("no user in session")

// Manager reads and writes the session of a request.
type Manager struct {
	store *session.Store
}

// Config holds the session settings.
type Config struct {
	// Storage backs the sessions. Nil uses fiber's in-memory storage.
	Storage fiber.Storage
	Expiry  time.Duration
	// Secure sets the Secure cookie flag. It is off in dev mode.
	Secure bool
}

// New returns a session manager.
func New(cfg Config) *Manager {
	return &Manager{
		store: session.New(session.Config{
			Storage:        cfg.Storage,
			Expiration:     cfg.Expiry,
			KeyLookup:      "cookie:" + CookieName,
			CookieHTTPOnly: true,
			CookieSecure:   cfg.Secure,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
		}),
	}
}

// Login starts a fresh session for userID.
func (m *Manager) Login(c *fiber.Ctx, userID uint64) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	// new id on privilege change
	if err = sess.Regenerate(); err != nil {
		return fmt.Errorf("regenerate session: %w", err)
	}

	sess.Set(keyUserID, userID)

	return sess.Save() //nolint:wrapcheck
}

// UserID returns the logged in user or ErrNoUser.
func (m *Manager) UserID(c *fiber.Ctx) (uint64, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return 0, fmt.Errorf("get session: %w", err)
	}

	id, ok := sess.Get(keyUserID).(uint64)
	if !ok || id == 0 {
		return 0, ErrNoUser
	}

	return id, nil
}

// Logout destroys the session.
func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	return sess.Destroy() //nolint:wrapcheck
}

// SetFlash stores a message shown on the next page.
func (m *Manager) SetFlash(c *fiber.Ctx, msg string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}

	sess.Set(keyFlash, msg)

	return sess.Save() //nolint:wrapcheck
}

// Flash returns and clears the stored message.
func (m *Manager) Flash(c *fiber.Ctx) string {
	sess, err := m.store.Get(c)
	if err != nil {
		return ""
	}

	msg, _ := sess.Get(keyFlash).(string)
	if msg == "" {
		return ""
	}

	sess.Delete(keyFlash)
	_ = sess.Save()

	return msg
}
