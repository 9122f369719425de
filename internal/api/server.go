// Package api exposes the rules engine over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/taxwise/internal/advisory"
	"github.com/Veraticus/taxwise/internal/classify"
	"github.com/Veraticus/taxwise/internal/credit"
	"github.com/Veraticus/taxwise/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

const maxBodyBytes = 10 << 20

// Advisor enriches a what-if delta with advisory text.
type Advisor interface {
	Advise(ctx context.Context, delta credit.Delta) advisory.Result
}

// Config controls the HTTP surface.
type Config struct {
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
}

// DefaultConfig allows a local front-end and 60 requests per minute per client.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		RateLimit:      60,
		RateWindow:     time.Minute,
	}
}

// Server holds the engine collaborators the handlers need.
type Server struct {
	classifier *classify.Classifier
	advisor    Advisor
	store      storage.Storage
	logger     *slog.Logger
	limiter    *RateLimiter
	cfg        Config
	now        func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithStorage persists every tax calculation the API produces.
func WithStorage(store storage.Storage) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a server. advisor must not be nil. Call Close to stop
// the rate limiter.
func NewServer(classifier *classify.Classifier, advisor Advisor, cfg Config, opts ...Option) *Server {
	s := &Server{
		classifier: classifier,
		advisor:    advisor,
		cfg:        cfg,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter = NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	return s
}

// Close releases background resources.
func (s *Server) Close() {
	s.limiter.Stop()
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}).Handler)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limiter.Middleware)
		r.Use(middleware.AllowContentType("application/json", "text/csv", "text/plain"))

		r.Post("/transactions/classify", s.handleClassify)
		r.Post("/tax/optimize", s.handleOptimize)
		r.Post("/tax/optimize/csv", s.handleOptimizeCSV)
		r.Post("/credit/score", s.handleCreditScore)
		r.Post("/credit/whatif", s.handleWhatIf)
		r.Post("/credit/advisory", s.handleAdvisory)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
