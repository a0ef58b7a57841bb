package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/i18n"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/plugin"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/posttype"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/session"
)

// ErrNilDeps is returned by Init when a required dependency is missing.
var ErrNilDeps = errors.New(ErrNilACDFatalLogMsg)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

// Deps are the services shared by all handlers.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Auth     *auth.Service
	Sessions *session.Manager
	Registry *posttype.Registry
	Plugins  *plugin.Host
	Pages    *Pages
}

// Check returns ErrNilDeps unless config, db and auth service are set.
func (d *Deps) Check(app *fiber.App) error {
	if app == nil || d == nil || d.Config == nil || d.DB == nil || d.Auth == nil {
		return ErrNilDeps
	}

	return nil
}

// Language returns the configured fallback language.
func (d *Deps) Language() language.Tag {
	tag, err := language.Parse(d.Config.Language)
	if err != nil {
		return language.MustParse(i18n.SourceLocale)
	}

	return tag
}

// Printer returns the printer of the plugin declaring postType.
func (d *Deps) Printer(postType string) *message.Printer {
	if d.Plugins != nil {
		if p, ok := d.Plugins.ByPostType(postType); ok {
			return p.Printer()
		}
	}

	return i18n.Fallback("default").Printer(d.Language())
}
