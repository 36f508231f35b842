package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terra-clan/closet-profile/internal/config"
	"github.com/terra-clan/closet-profile/internal/delivery"
	"github.com/terra-clan/closet-profile/internal/metrics"
	"github.com/terra-clan/closet-profile/internal/services"
	"github.com/terra-clan/closet-profile/internal/web"
	"github.com/terra-clan/closet-profile/internal/wizard"
)

// Server represents the HTTP server: browser pages, JSON API and ops endpoints
type Server struct {
	config   config.ServerConfig
	router   *chi.Mux
	manager  *wizard.Manager
	delivery *delivery.Adapter
	registry *services.Registry
	sessions *SessionMiddleware
}

// NewServer creates a new server
func NewServer(
	cfg config.ServerConfig,
	manager *wizard.Manager,
	adapter *delivery.Adapter,
	registry *services.Registry,
) *Server {
	if registry == nil {
		registry = services.NewRegistry()
	}
	s := &Server{
		config:   cfg,
		manager:  manager,
		delivery: adapter,
		registry: registry,
		sessions: NewSessionMiddleware(manager),
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

	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// Ops
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	// Static bundle and brand images
	r.Handle("/static/*", http.StripPrefix("/static/", web.Handler()))
	if s.config.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.config.AssetsDir))))
	}

	// Browser flow (session token = auth)
	r.Get("/", s.handleStart)
	r.Route("/s/{token}", func(r chi.Router) {
		r.With(s.sessions.Load(writePageError)).Get("/", s.handlePage)
		r.Post("/", s.handlePagePost)
		r.With(s.sessions.Load(writePageError)).Get("/thanks", s.handleThanks)
		r.Post("/deliver", s.handleDeliver)
		r.Get("/live", s.handleLive)
	})

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", s.handleGetCatalog)
			r.Get("/steps/{id}", s.handleGetStep)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)

			r.Route("/{token}", func(r chi.Router) {
				r.With(s.sessions.Load(writeJSONError)).Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/actions", s.handleApplyActions)
				r.Get("/summary.pdf", s.handleSummary)
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
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())

			slog.Info("http request",
				"method", r.Method,
				"path", maskPath(r.URL.Path),
				"route", route,
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
