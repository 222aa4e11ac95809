// Package server exposes the tool service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/coltype/internal/config"
	"github.com/sells-group/coltype/internal/tools"
)

// maxBodySize bounds a tool request body.
const maxBodySize = 1 << 20

// Server routes HTTP requests to a tools.Service.
type Server struct {
	svc    *tools.Service
	cfg    config.ServerConfig
	router chi.Router
}

// New builds a Server and its router.
func New(svc *tools.Service, cfg config.ServerConfig) *Server {
	s := &Server{svc: svc, cfg: cfg}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if s.cfg.RateLimit > 0 {
		r.Use(newRateLimiter(s.cfg.RateLimit, s.cfg.Burst).Handler)
	}

	r.Get("/health", s.handleHealth)
	r.Get("/tools", s.handleListTools)
	r.Post("/tools/{name}", s.handleCall)
	return r
}

// ListenAndServe serves on cfg.Port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.Int("port", s.cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Call(r.Context(), tools.ToolListTools, nil)
	s.respond(w, r, result, err)
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.respond(w, r, nil, &tools.Error{Kind: tools.ErrMalformedRequest, Msg: "read body: " + err.Error()})
		return
	}
	var args json.RawMessage
	if len(body) > 0 {
		var probe any
		if err := json.Unmarshal(body, &probe); err != nil {
			s.respond(w, r, nil, &tools.Error{Kind: tools.ErrMalformedRequest, Msg: "Invalid JSON: " + err.Error()})
			return
		}
		args = body
	}

	result, err := s.svc.Call(r.Context(), name, args)
	s.respond(w, r, result, err)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, result any, err error) {
	var id json.RawMessage
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		id, _ = json.Marshal(reqID)
	}
	writeJSON(w, statusFor(err), tools.Respond(id, result, err))
}

// statusFor maps a tool error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, tools.ErrMalformedRequest), errors.Is(err, tools.ErrInvalidArgs):
		return http.StatusBadRequest
	case errors.Is(err, tools.ErrUnknownTool), errors.Is(err, tools.ErrInputNotFound), errors.Is(err, tools.ErrColumnNotFound):
		return http.StatusNotFound
	case errors.Is(err, tools.ErrEmptyTable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}
