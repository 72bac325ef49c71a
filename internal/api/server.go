package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/career-engine/internal/catalog"
	"github.com/terra-clan/career-engine/internal/config"
	"github.com/terra-clan/career-engine/internal/events"
	"github.com/terra-clan/career-engine/internal/health"
	"github.com/terra-clan/career-engine/internal/metrics"
	"github.com/terra-clan/career-engine/internal/progress"
)

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	service        *progress.Service
	catalog        *catalog.Catalog
	hub            *events.Hub
	health         *health.Registry
	metrics        *metrics.Metrics
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	service *progress.Service,
	hub *events.Hub,
	registry *health.Registry,
	m *metrics.Metrics,
) *Server {
	s := &Server{
		config:         cfg,
		service:        service,
		catalog:        service.Engine().Catalog(),
		hub:            hub,
		health:         registry,
		metrics:        m,
		authMiddleware: NewAuthMiddleware(service),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Operational endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.config.RequestTimeout))

		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	})

	r.Route("/api", func(r chi.Router) {
		// The progress stream is long-lived and stays outside the request timeout
		r.With(s.authMiddleware.AuthenticateStream).Get("/progress/stream", s.handleProgressStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.config.RequestTimeout))

			// Public
			r.Get("/health", s.handleAPIHealth)
			r.Get("/career-paths", s.handleCareerPaths)
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)

			// Authenticated
			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware.Authenticate)

				r.Get("/profile", s.handleProfile)
				r.Get("/scores", s.handleScores)
				r.Put("/progress", s.handleSubmitProgress)
				r.Post("/career-guidance", s.handleCareerGuidance)
				r.Post("/checkpoints", s.handleRecordCheckpoint)
				r.Post("/achievements", s.handleGrantAchievement)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog and records request metrics
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			s.metrics.ObserveRequest(r.Method, route, status, start)

			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
