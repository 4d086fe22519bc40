package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/globalmedics/transcript-summarizer/apimodels"
	"github.com/globalmedics/transcript-summarizer/internal/config"
	"github.com/globalmedics/transcript-summarizer/internal/metrics"
)

type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*apimodels.SummaryResponse, error)
}

type Server struct {
	cfg        config.ServerConfig
	server     *http.Server
	router     *chi.Mux
	summarizer Summarizer
	metrics    *metrics.Metrics
}

// New wires routes and middleware. m may be nil, in which case no metrics
// are recorded and /metrics is not served.
func New(cfg config.Config, summarizer Summarizer, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:        cfg.Server,
		router:     chi.NewRouter(),
		summarizer: summarizer,
		metrics:    m,
	}

	s.router.Use(requestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		// Any origin is reflected back so credentials can be sent.
		AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Get("/", s.handleHome)
	s.router.Get("/healthz", s.handleHealth)
	if cfg.Metrics.Enabled && m != nil {
		s.router.Method(http.MethodGet, "/metrics", m.Handler())
	}

	// Only the model-backed route is limited; health and metrics stay reachable.
	s.router.Group(func(r chi.Router) {
		if cfg.RateLimit.RequestsPerMinute > 0 {
			r.Use(NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst).Middleware)
		}
		if s.cfg.MaxInFlight > 0 {
			r.Use(middleware.ThrottleBacklog(s.cfg.MaxInFlight, s.cfg.QueueSize, s.cfg.QueueTimeout))
		}
		r.Post("/summarisedetailed", s.handleSummarise)
	})

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response wrapper to capture status code
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r)

		status := rw.status
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.RecordHTTPRequest(route, status)

		slog.Info("HTTP request completed",
			"request_id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr,
		)
	})
}

func (s *Server) Run() error {
	// Create a channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "address", s.server.Addr)
		serverErrors <- s.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("Starting shutdown", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	return nil
}

// Custom response writer to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
