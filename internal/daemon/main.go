// Package daemon wires the database, the menu plugins and the web service together.
package daemon

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/db/dsn"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/i18n"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/lifecycle"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/plugin"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/posttype"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/session"
)

const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	host       *plugin.Host
	webService *web.Service
}

// Start starts the web service and blocks until it was shut down.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	go func() {
		if err := d.webService.Start(addr); err != nil {
			log.Error().Err(err).Msg("web service stopped")
		}
	}()

	log.Info().Str("addr", addr).Int("plugins", len(d.host.Plugins())).Msg("web service started")

	d.webService.WaitShutdown()

	return nil
}

// Host returns the plugin host.
func (d *Daemon) Host() *plugin.Host {
	return d.host
}

// New opens the database, seeds it, boots the configured plugins and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	ctx := context.Background()

	conn, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	authService := auth.NewService(conn)

	fresh, err := seed(ctx, cfg, authService)
	if err != nil {
		return nil, err
	}

	pages := handler.NewPages()
	registry := posttype.NewRegistry()

	host, err := boot(ctx, cfg, conn, authService, registry, pages)
	if err != nil {
		return nil, err
	}

	// a fresh install activates every configured plugin once
	if fresh {
		for _, p := range host.Plugins() {
			if err = host.Activate(ctx, p.Slug()); err != nil {
				return nil, errors.Wrapf(err, "failed to activate plugin %s", p.Slug())
			}
		}
	}

	webService, err := web.New(cfg, &handler.Deps{
		DB:   conn,
		Auth: authService,
		Sessions: session.New(session.Config{
			Storage: sessionStorage(cfg),
			Expiry:  cfg.Webserver.Session.ExpiryTime,
			Secure:  isHTTPS(cfg.Webserver.URL),
		}),
		Registry: registry,
		Plugins:  host,
		Pages:    pages,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create web service")
	}

	return &Daemon{
		cfg:        cfg,
		db:         conn,
		host:       host,
		webService: webService,
	}, nil
}

// Activate runs the activation of one configured plugin without starting the web service.
func Activate(ctx context.Context, cfg *config.Config, slug string) error {
	if _, ok := cfg.PluginBySlug(slug); !ok {
		return errors.Wrap(plugin.ErrUnknownPlugin, slug)
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}

	authService := auth.NewService(conn)

	if _, err = seed(ctx, cfg, authService); err != nil {
		return err
	}

	host, err := boot(ctx, cfg, conn, authService, posttype.NewRegistry(), nil)
	if err != nil {
		return err
	}

	return host.Activate(ctx, slug)
}

// boot instantiates and boots every configured plugin. admin may be nil outside the web service.
func boot(
	ctx context.Context,
	cfg *config.Config,
	conn *gorm.DB,
	authService *auth.Service,
	registry *posttype.Registry,
	admin plugin.AdminPages,
) (*plugin.Host, error) {
	deps := plugin.Deps{
		DB:           conn,
		Dispatcher:   lifecycle.New(),
		Registry:     registry,
		Capabilities: authService,
		Admin:        admin,
		Language:     languageTag(cfg.Language),
		DataDir:      cfg.DataDir,
		BaseURL:      cfg.Webserver.URL,
	}

	host := plugin.NewHost(deps)
	for _, def := range cfg.Plugins {
		host.Instance(def)
	}

	if err := host.Boot(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to boot plugins")
	}

	return host, nil
}

func languageTag(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		log.Warn().Err(err).Str("language", s).Msg("unsupported language, using the source locale")

		return language.MustParse(i18n.SourceLocale)
	}

	return tag
}

// sessionStorage keeps sessions in the application database. sqlite uses the in-memory store.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case "mysql":
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         sessionTable,
		})
	case "postgres":
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         sessionTable,
		})
	default:
		log.Info().Msg("sqlite database: sessions are kept in memory")

		return nil
	}
}

func isHTTPS(url string) bool {
	return strings.HasPrefix(url, "https://")
}
