package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/tradejournal/internal/di"
	"github.com/aristath/tradejournal/internal/metrics"
	accountshandlers "github.com/aristath/tradejournal/internal/modules/accounts/handlers"
	dailybookhandlers "github.com/aristath/tradejournal/internal/modules/dailybook/handlers"
	dashboardhandlers "github.com/aristath/tradejournal/internal/modules/dashboard/handlers"
	settingshandlers "github.com/aristath/tradejournal/internal/modules/settings/handlers"
	tradingplanhandlers "github.com/aristath/tradejournal/internal/modules/tradingplan/handlers"
	usershandlers "github.com/aristath/tradejournal/internal/modules/users/handlers"
	widgetshandlers "github.com/aristath/tradejournal/internal/modules/widgets/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Port        int
	DevMode     bool
	CORSOrigins []string
	Version     string
	Container   *di.Container // DI container with all services
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	version        string
	container      *di.Container
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		version:   cfg.Version,
		container: cfg.Container,
	}

	var backups BackupLister
	if cfg.Container.BackupService != nil {
		backups = cfg.Container.BackupService
	}
	s.systemHandlers = NewSystemHandlers(cfg.Container.JournalDB, backups, cfg.Version, cfg.Log)

	s.setupMiddleware(cfg.DevMode, cfg.CORSOrigins)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool, origins []string) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Request metrics
	s.router.Use(metrics.Middleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	c := s.container

	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)

	// Operations
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/system/status", s.systemHandlers.HandleSystemStatus)
	s.router.Handle("/metrics", metrics.Handler())

	// Auth
	usershandlers.NewHandler(c.UserService, c.Authenticator, c.LoginLimiter, metrics.RecordLogin, s.log).
		RegisterRoutes(s.router)

	// Journal
	accountshandlers.NewHandler(c.AccountService, c.Authenticator, s.log).RegisterRoutes(s.router)
	tradingplanhandlers.NewHandler(c.TradingPlanService, c.Authenticator, s.log).RegisterRoutes(s.router)
	dailybookhandlers.NewHandler(c.DailyBookService, c.Authenticator, s.log).RegisterRoutes(s.router)
	dashboardhandlers.NewHandler(c.DashboardService, c.Authenticator, s.log).RegisterRoutes(s.router)

	// Preferences and market widgets
	settingshandlers.NewHandler(c.SettingsService, c.Authenticator, s.log).RegisterRoutes(s.router)
	widgetshandlers.NewHandler(c.WidgetRenderer, c.SettingsService, c.Authenticator, s.log).RegisterRoutes(s.router)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
