// Package server provides the HTTP server and routing for hoteldo.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/hoteldo/internal/di"
	demandhandlers "github.com/aristath/hoteldo/internal/modules/demand/handlers"
	hotelshandlers "github.com/aristath/hoteldo/internal/modules/hotels/handlers"
	pricinghandlers "github.com/aristath/hoteldo/internal/modules/pricing/handlers"
	recommendationshandlers "github.com/aristath/hoteldo/internal/modules/recommendations/handlers"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Port      int
	DevMode   bool
	Container *di.Container    // DI container with all services
	Jobs      *di.JobInstances // Jobs exposed for manual triggering
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	port           int
	container      *di.Container
	systemHandlers *SystemHandlers
	eventsStream   *EventsStreamHandler
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	c := cfg.Container

	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		port:      cfg.Port,
		container: c,
		systemHandlers: NewSystemHandlers(
			cfg.Log,
			c.Snapshots,
			c.DatasetRepo,
			c.DB,
			c.AnalysisCache,
			cfg.Jobs.ReloadDataset,
			cfg.Jobs.CheckDatabase,
		),
	}

	// Typed nil pointers must not reach the handler interfaces
	if c.BackupService != nil && cfg.Jobs.BackupDataset != nil {
		s.systemHandlers.SetBackups(cfg.Jobs.BackupDataset, c.BackupService)
	}
	if c.Scheduler != nil {
		s.systemHandlers.SetJobHistory(c.Scheduler)
	}
	if c.EventBus != nil {
		s.eventsStream = NewEventsStreamHandler(c.EventBus, cfg.Log)
	}

	s.setupMiddleware(cfg.DevMode)
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

func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	c := s.container
	s.router.Route("/api", func(r chi.Router) {
		// Event streams are long-lived and stay outside the request timeout
		if s.eventsStream != nil {
			r.Get("/events/stream", s.eventsStream.HandleSSE)
			r.Get("/events/ws", s.eventsStream.HandleWebSocket)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			hotelshandlers.NewHandler(c.Snapshots, s.log).RegisterRoutes(r)
			pricinghandlers.NewHandler(c.AnalysisCache, c.Snapshots, s.log).RegisterRoutes(r)
			demandhandlers.NewHandler(c.AnalysisCache, c.Snapshots, s.log).RegisterRoutes(r)
			recommendationshandlers.NewHandler(
				c.RecommendationEngine,
				c.AnalysisCache,
				c.AnalysisCache,
				c.Snapshots,
				s.log,
			).RegisterRoutes(r)

			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.systemHandlers.HandleSystemStatus)
				r.Post("/reload", s.systemHandlers.HandleReload)
				r.Post("/integrity-check", s.systemHandlers.HandleIntegrityCheck)
				r.Post("/backup", s.systemHandlers.HandleBackup)
				r.Get("/backups", s.systemHandlers.HandleListBackups)
			})
		})
	})
}

// Router exposes the configured routes
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
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
