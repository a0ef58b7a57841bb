package web

import (
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/GoMenu-Admin/GoMenu-Admin/internal/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/config"
	accesslog "github.com/GoMenu-Admin/GoMenu-Admin/internal/logger/adapter/fiber"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/admin/items"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/admin/settings"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/admin/user"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/archive"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/dashboard"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/login"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/handler/logout"
	authmiddleware "github.com/GoMenu-Admin/GoMenu-Admin/internal/web/middleware/auth"
	"github.com/GoMenu-Admin/GoMenu-Admin/internal/web/navigation"
)

// CheckAlivePath answers 200 while the service accepts traffic.
const CheckAlivePath = "/checkalive"

// MetricsPath exposes the prometheus metrics.
const MetricsPath = "/metrics"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the http server down.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// SetFastShutdown skips the graceful 503 phase on shutdown.
func (s *Service) SetFastShutdown(fast bool) {
	s.fastShutDown = fast
}

// newEngine returns the template engine with the helper functions.
func newEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("raw", func(s string) template.HTML {
		return template.HTML(s) //nolint:gosec // sanitized on save
	})
	templateEngine.AddFunc("hasPrefix", strings.HasPrefix)
	templateEngine.AddFunc("fmtTime", func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	})
	templateEngine.AddFunc("siteTitle", func() string {
		return cfg.Title
	})

	return templateEngine
}

// adminMenu stores the sidebar of the logged in user in fiber.Locals.
func adminMenu(deps *handler.Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.UserIDFromLocals(c) == 0 || deps.Registry == nil {
			return c.Next()
		}

		c.Locals(navigation.LocalsAdminMenu, navigation.AdminMenu(deps.Registry.All(), deps.Pages.All(), func(capability string) bool {
			return auth.Can(c, deps.Auth, capability)
		}))

		return c.Next()
	}
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, deps *handler.Deps) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if deps == nil || deps.DB == nil || deps.Auth == nil || deps.Sessions == nil || deps.Pages == nil {
		return nil, handler.ErrNilDeps
	}

	deps.Config = cfg

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:    8192,
			AppName:           cfg.Title,
			CaseSensitive:     true,
			Prefork:           false,
			Immutable:         true,
			Views:             newEngine(cfg),
			PassLocalsToViews: true,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
	}

	app.Use(accesslog.New(accesslog.Config{
		Log:          cfg.Log,
		SkipPrefixes: authmiddleware.SkipPrefixes,
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(authmiddleware.New(deps.Sessions, deps.Auth))

	// capabilities for templates, after the session is resolved
	app.Use(auth.AddCapabilitiesToLocals(deps.Auth))
	app.Use(adminMenu(deps))

	// archive catches /:base, so it goes last
	for _, svc := range []handler.Service{
		&login.Handler,
		&logout.Handler,
		&dashboard.Handler,
		&settings.Handler,
		&items.Handler,
		&user.Handler,
	} {
		if err := svc.Init(app, deps); err != nil {
			return nil, err
		}
	}

	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	if err := archive.Handler.Init(app, deps); err != nil {
		return nil, err
	}

	return service, nil
}
