// Package server provides the HTTP JSON API over résumé workspaces, section
// editors, content generation and the career-advice chat.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/chat"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/rs/zerolog"
)

// JobFetcher turns a posting URL into job description text
type JobFetcher interface {
	JobDescription(ctx context.Context, url string) (string, error)
}

// Config holds server configuration
type Config struct {
	Port      int
	Store     Store
	History   chat.HistoryStore
	Service   generation.Service
	Fetcher   JobFetcher
	IDs       identity.Allocator
	Logger    zerolog.Logger
	RateLimit *ratelimit.Config

	ExperienceLevel string
	Parallelism     int
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	history     chat.HistoryStore
	service     generation.Service
	fetcher     JobFetcher
	ids         identity.Allocator
	logger      zerolog.Logger
	rateLimiter *ratelimit.Limiter
	orchOpts    []generation.Option
	validate    *validator.Validate

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// session is the live state of one open résumé
type session struct {
	ws   *editor.Workspace
	orch *generation.Orchestrator
	chat *chat.Session
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if cfg.Service == nil {
		return nil, errors.New("server: generation service is required")
	}
	if cfg.History == nil {
		cfg.History = chat.NewMemoryStore()
	}
	if cfg.IDs == nil {
		cfg.IDs = identity.Default()
	}

	s := &Server{
		store:       cfg.Store,
		history:     cfg.History,
		service:     cfg.Service,
		fetcher:     cfg.Fetcher,
		ids:         cfg.IDs,
		logger:      cfg.Logger.With().Str("component", "server").Logger(),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validate:    newValidator(),
		sessions:    make(map[uuid.UUID]*session),
	}
	if cfg.ExperienceLevel != "" {
		s.orchOpts = append(s.orchOpts, generation.WithExperienceLevel(cfg.ExperienceLevel))
	}
	if cfg.Parallelism > 0 {
		s.orchOpts = append(s.orchOpts, generation.WithParallelism(cfg.Parallelism))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /resumes", s.handleListResumes)
	mux.HandleFunc("POST /resumes", s.handleCreateResume)
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.HandleFunc("PUT /resumes/{id}", s.handleReplaceResume)
	mux.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)
	mux.HandleFunc("POST /resumes/{id}/operations", s.handleOperation)

	mux.HandleFunc("POST /resumes/{id}/generate/summary", s.handleGenerateSummary)
	mux.HandleFunc("POST /resumes/{id}/generate/skills", s.handleSuggestSkills)
	mux.HandleFunc("POST /resumes/{id}/generate/experience", s.handleDraftAllBulletPoints)
	mux.HandleFunc("POST /resumes/{id}/generate/experience/{entry_id}", s.handleGenerateBulletPoints)
	mux.HandleFunc("POST /resumes/{id}/generate/projects/{entry_id}", s.handleGenerateProjectDescription)
	mux.HandleFunc("GET /resumes/{id}/generation-status", s.handleListGenerationStatus)
	mux.HandleFunc("GET /resumes/{id}/generation-status/{key}", s.handleGenerationStatus)

	mux.HandleFunc("GET /resumes/{id}/chat", s.handleChatHistory)
	mux.HandleFunc("POST /resumes/{id}/chat", s.handleChat)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info().Msg("server stopped")
	return nil
}

// Close releases background resources. The store is owned by the caller.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// session returns the live session for id, loading the document on first use
func (s *Server) session(ctx context.Context, id uuid.UUID) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	rec, err := s.store.GetResume(ctx, id)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With().Str("resume", id.String()).Logger()
	ws := editor.NewWorkspace(rec.Document, s.ids, editor.WithLogger(logger))
	orch := generation.NewOrchestrator(s.service, nil, logger, s.orchOpts...)
	sess := &session{
		ws:   ws,
		orch: orch,
		chat: chat.NewSession(id.String(), s.history, orch, chat.WithLogger(logger)),
	}
	s.sessions[id] = sess
	return sess, nil
}

func (s *Server) forget(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// persist writes the current document of a session back to the store
func (s *Server) persist(ctx context.Context, id uuid.UUID, sess *session) error {
	if err := s.store.SaveResume(ctx, id, sess.ws.Snapshot()); err != nil {
		s.logger.Error().Err(err).Str("resume", id.String()).Msg("failed to persist resume")
		return fmt.Errorf("failed to persist resume: %w", err)
	}
	return nil
}

// resumeID parses the {id} path value
func resumeID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// openSession resolves the {id} path value to a live session, writing the
// error response itself when that fails
func (s *Server) openSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, *session, bool) {
	id, err := resumeID(r)
	if err != nil {
		s.writeError(w, err)
		return uuid.Nil, nil, false
	}
	sess, err := s.session(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return uuid.Nil, nil, false
	}
	return id, sess, true
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exceed their request budget
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// clientID uses the peer IP address; forwarded headers are not trusted
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	s.logger.Warn().Str("client", clientID(r)).Str("path", r.URL.Path).Int("limit", info.Limit).Msg("rate limit exceeded")
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError maps err onto a status code and error body
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Int("status", status).Msg("request failed")
	}
	s.jsonResponse(w, status, errorBody(err))
}

// decodeJSON reads a JSON body into dst and validates its struct tags.
// An empty body leaves dst untouched.
func (s *Server) decodeJSON(r *http.Request, dst any) error {
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
		}
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: fe.Field(), Message: "failed " + fe.Tag() + " check"}
		}
		return err
	}
	return nil
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
