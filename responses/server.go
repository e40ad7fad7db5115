package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/petal-labs/hfgo/core"
	"github.com/petal-labs/hfgo/inference"
)

// maxBodyBytes bounds a request body.
const maxBodyBytes = 1 << 20

// Backend runs chat completions for one caller.
type Backend interface {
	ChatCompletion(ctx context.Context, in *core.ChatCompletionInput) (*core.ChatCompletionOutput, error)
	ChatCompletionStream(ctx context.Context, in *core.ChatCompletionInput) (*core.ChatStream, error)
}

var _ Backend = (*inference.Client)(nil)

// BackendFactory returns the Backend serving a caller's bearer token.
type BackendFactory func(token string) Backend

// InferenceBackend returns a factory creating an inference client per
// token with opts applied.
func InferenceBackend(opts ...inference.Option) BackendFactory {
	return func(token string) Backend {
		return inference.New(token, opts...)
	}
}

// Server serves the Responses API.
type Server struct {
	backend        BackendFactory
	logger         *zap.Logger
	allowedOrigins []string
	timeout        time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the request logger.
func WithServerLogger(l *zap.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithAllowedOrigins sets the CORS origins. Default: any.
func WithAllowedOrigins(origins ...string) ServerOption {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithRequestTimeout bounds non-streaming requests. Default: 5 minutes.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.timeout = d }
}

// NewServer creates a Server sending completions to backend.
func NewServer(backend BackendFactory, opts ...ServerOption) *Server {
	s := &Server{
		backend:        backend,
		allowedOrigins: []string{"*"},
		timeout:        5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = core.OrDefault(s.logger)
	return s
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.With(requireBearer).Post("/responses", s.handleCreate)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		_ = WriteError(w, http.StatusNotFound, "endpoint not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		_ = WriteJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method_not_allowed"})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("responses server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

type tokenKey struct{}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			_ = WriteError(w, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		ctx := context.WithValue(r.Context(), tokenKey{}, strings.TrimSpace(token))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		w.Header().Set(middleware.RequestIDHeader, reqID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", reqID),
		)
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		_ = WriteError(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			_ = WriteError(w, http.StatusBadRequest, verr.Message, verr.Fields)
			return
		}
		_ = WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	token, _ := r.Context().Value(tokenKey{}).(string)
	backend := s.backend(token)

	if req.Stream {
		s.stream(w, r, backend, &req)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	resp := newResponse(&req)
	out, err := backend.ChatCompletion(ctx, req.ToChatCompletion())
	if err != nil {
		s.logger.Warn("chat completion failed",
			zap.String("model", req.Model),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		_ = WriteError(w, statusFor(err), err.Error(), nil)
		return
	}
	resp.complete(out)
	_ = WriteJSON(w, http.StatusOK, resp)
}
