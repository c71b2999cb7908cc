// Package app wires configuration, middleware, routes and the data layer into
// a runnable HTTP service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lewisedginton/account_service/internal/accounts"
	"github.com/lewisedginton/account_service/internal/config"
	"github.com/lewisedginton/account_service/internal/middleware"
	"github.com/lewisedginton/account_service/internal/persistence"
	"github.com/lewisedginton/account_service/internal/response"
	"github.com/lewisedginton/account_service/pkg/health"
	"github.com/lewisedginton/account_service/pkg/health/checkers"
	"github.com/lewisedginton/account_service/pkg/httpmiddleware"
	"github.com/lewisedginton/account_service/pkg/logger"
	"github.com/lewisedginton/account_service/pkg/metrics"
)

// ExitCodeDatabaseInit is the process status after a failed data layer
// initialisation. Process supervisors such as gunicorn read it as "do not
// respawn".
const ExitCodeDatabaseInit = 4

const (
	bannerWidth = 70
	bannerTitle = "  A C C O U N T   S E R V I C E   R U N N I N G  "

	shutdownTimeout = 10 * time.Second
)

// App is the account service.
type App struct {
	cfg     *config.Config
	log     logger.Logger
	data    DataLayer
	metrics *metrics.Metrics
	health  *health.Checker
	exit    func(int)

	router chi.Router
	server *http.Server
}

// Option customises an App.
type Option func(*App)

// WithDataLayer replaces the PostgreSQL store.
func WithDataLayer(d DataLayer) Option {
	return func(a *App) {
		a.data = d
	}
}

// WithExitFunc replaces os.Exit for fatal bootstrap failures.
func WithExitFunc(exit func(int)) Option {
	return func(a *App) {
		a.exit = exit
	}
}

// WithMetrics records HTTP metrics and data layer statistics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) {
		a.metrics = m
	}
}

// New builds the router with the security header policy and CORS policy
// applied ahead of every route. Nothing is connected until Bootstrap.
func New(cfg *config.Config, log logger.Logger, opts ...Option) *App {
	a := &App{
		cfg:  cfg,
		log:  log,
		exit: os.Exit,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.data == nil {
		a.data = persistence.NewStore(cfg.Database, log)
	}

	a.health = health.New(
		health.WithTimeout(cfg.Health.Timeout),
		health.WithFailureThreshold(cfg.Health.FailureThreshold),
		health.WithService(cfg.ServiceName),
		health.WithLogger(log),
	)
	a.health.AddReadinessCheck(checkers.NewDatabaseChecker(a.data, "database"))

	a.router = a.createRouter()
	a.server = &http.Server{
		Addr:           cfg.HTTP.Addr(),
		Handler:        a.router,
		ReadTimeout:    cfg.HTTP.ReadTimeout(),
		WriteTimeout:   cfg.HTTP.WriteTimeout(),
		IdleTimeout:    cfg.HTTP.IdleTimeout(),
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	return a
}

func (a *App) createRouter() chi.Router {
	r := chi.NewRouter()

	secureOptions := a.cfg.HeaderPolicy().SecureOptions()
	corsPolicy := a.cfg.CORSPolicy()

	recovery := middleware.DefaultRecoveryConfig()
	recovery.Logger = a.log

	mw := httpmiddleware.DefaultConfig()
	mw.Logger = a.log
	mw.EnableLogging = true
	mw.Security = &secureOptions
	mw.CORS = &corsPolicy
	mw.Recoverer = middleware.Recovery(recovery)
	httpmiddleware.ApplyToRouter(r, mw)

	if a.metrics != nil {
		r.Use(a.metrics.HTTPMiddleware())
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound,
			"The requested URL was not found on the server.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed,
			"The method is not allowed for the requested URL.")
	})

	r.Get("/", a.indexHandler)
	r.Get("/health", a.health.LivenessHandler())
	r.Get("/ready", a.health.ReadinessHandler())
	r.Mount("/accounts", accounts.NewHandler(deferredRepository{a.data}, a.log).Routes())

	return r
}

// Handler returns the fully wrapped router.
func (a *App) Handler() http.Handler {
	return a.router
}

// Bootstrap announces the service and initialises the data layer. Any
// initialisation error is logged at critical level and ends the process with
// ExitCodeDatabaseInit; the error is also returned for callers whose exit
// function does not terminate.
func (a *App) Bootstrap(ctx context.Context) error {
	for _, line := range banner() {
		a.log.Info(line)
	}

	if err := a.data.Init(ctx); err != nil {
		a.log.Critical(fmt.Sprintf("%s: Cannot continue", err), logger.ErrorField(err))
		a.exit(ExitCodeDatabaseInit)
		return err
	}

	if a.metrics != nil {
		if src, ok := a.data.(interface{ Collectors() []prometheus.Collector }); ok {
			for _, c := range src.Collectors() {
				a.metrics.AddCustomMetric(c)
			}
		}
	}

	a.log.Info("Service initialized!")
	return nil
}

// Listen starts the HTTP server. The error channel carries any serve error
// and is closed once the server stops. closer stops immediately,
// gracefulCloser drains in-flight requests first.
func (a *App) Listen() (chan error, func(), func(), error) {
	errChan := make(chan error, 1)

	go func() {
		defer close(errChan)
		a.log.Info("Starting HTTP server", logger.StringField("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	closer := func() {
		a.log.Info("Forcefully closing HTTP server")
		if err := a.Close(); err != nil {
			a.log.Error("Error during forced shutdown", logger.ErrorField(err))
		}
	}

	gracefulCloser := func() {
		a.log.Info("Gracefully closing HTTP server")
		if err := a.GracefulShutdown(); err != nil {
			a.log.Error("Error during graceful shutdown", logger.ErrorField(err))
		}
	}

	return errChan, closer, gracefulCloser, nil
}

// GracefulShutdown stops accepting requests, waits for in-flight ones and
// releases the data layer.
func (a *App) GracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	defer a.data.Close()
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Close stops the server without waiting and releases the data layer.
func (a *App) Close() error {
	defer a.data.Close()
	return a.server.Close()
}

type serviceInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Accounts string `json:"accounts"`
}

func (a *App) indexHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, serviceInfo{
		Name:     a.cfg.ServiceName,
		Version:  a.cfg.Version,
		Accounts: "/accounts",
	})
}

// banner returns the three startup lines: a rule, the centred title and a rule.
func banner() []string {
	rule := strings.Repeat("*", bannerWidth)
	return []string{rule, center(bannerTitle, bannerWidth, '*'), rule}
}

// center pads s with fill on both sides to width. An odd remainder goes to
// the right unless both the padding and width are odd.
func center(s string, width int, fill rune) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad/2 + (pad & width & 1)
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), pad-left)
}
