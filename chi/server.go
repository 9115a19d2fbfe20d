// Package chi serves the question answering API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/docqa"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// API limits and defaults.
const (
	MaxQuestionLength   = 10000
	DefaultQueryTimeout = 30 * time.Second
	CORSMaxAge          = 3600
)

// InternalErrorMessage is the only detail clients see for unexpected errors.
const InternalErrorMessage = "An unexpected error occurred. Please try again."

// APIVersion is reported by the root endpoint.
const APIVersion = "1.0.0"

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	asker   docqa.Asker
	store   docqa.VectorStore
	log     *slog.Logger
	origins []string
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithCORSOrigins sets the allowed browser origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithQueryTimeout bounds each query and health check.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithClock sets the time source for health timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates and configures the HTTP server. store is used for the
// health check only.
func NewServer(asker docqa.Asker, store docqa.VectorStore, log *slog.Logger, opts ...Option) *Server {
	s := &Server{
		asker:   asker,
		store:   store,
		log:     log,
		origins: []string{docqa.DefaultCORSOrigin},
		timeout: DefaultQueryTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           CORSMaxAge,
	}))

	r.Get("/", s.handleRoot)
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Get("/health", s.handleHealth)
	})

	s.router = r
}

// QueryRequest is the body of POST /api/chat/query.
type QueryRequest struct {
	Question string `json:"question"`
}

// Validate checks the question length in characters.
func (r *QueryRequest) Validate() error {
	n := utf8.RuneCountInString(r.Question)
	if n < 1 {
		return docqa.Errorf(docqa.EINVALID, "question must not be empty")
	}
	if n > MaxQuestionLength {
		return docqa.Errorf(docqa.EINVALID, "question must be at most %d characters", MaxQuestionLength)
	}
	return nil
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusUnprocessableEntity)
		return
	}
	if err := req.Validate(); err != nil {
		jsonError(w, docqa.ErrorMessage(err), http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	s.log.Info("received query", "question", truncate(req.Question, 100))
	answer, err := s.asker.Ask(ctx, req.Question)
	if err != nil {
		if docqa.ErrorCode(err) == docqa.EINVALID {
			jsonError(w, docqa.ErrorMessage(err), http.StatusUnprocessableEntity)
			return
		}
		s.log.Error("query failed", "err", err)
		jsonError(w, InternalErrorMessage, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// HealthResponse is the body of GET /api/chat/health.
type HealthResponse struct {
	Status       string                `json:"status"`
	Timestamp    time.Time             `json:"timestamp"`
	Dependencies map[string]string     `json:"dependencies"`
	Collection   *docqa.CollectionInfo `json:"collection,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	info, err := s.store.Info(ctx)
	if err != nil {
		s.log.Error("health check failed", "err", err)
		jsonError(w, "Service unhealthy", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "healthy",
		Timestamp:    s.now().UTC(),
		Dependencies: map[string]string{"vector_store": "connected"},
		Collection:   info,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Documentation RAG API",
		"version": APIVersion,
		"health":  "/api/chat/health",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"detail": msg})
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
