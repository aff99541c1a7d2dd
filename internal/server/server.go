// Package server exposes a local HTTP preview of an exported mirror.
package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server serves a mirror directory the way the live site resolved its paths:
// "/" maps to index.html and extensionless paths to their .html page.
type Server struct {
	router chi.Router
	root   string
	logger *zap.Logger
}

// New constructs a Server rooted at dir.
func New(root string, logger *zap.Logger) *Server {
	s := &Server{root: root, logger: logger}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.NotFound(s.serveMirror)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok\n")); err != nil {
		s.logger.Error("healthz write failed", zap.Error(err))
	}
}

// serveMirror resolves the request path against the mirror tree. Pages are
// stored flat as <path>.html, so /about resolves to about.html and a bare /
// to index.html.
func (s *Server) serveMirror(w http.ResponseWriter, r *http.Request) {
	target, ok := s.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, target)
}

func (s *Server) resolve(urlPath string) (string, bool) {
	cleaned := filepath.FromSlash(strings.TrimPrefix(filepath.Clean("/"+urlPath), "/"))
	if cleaned == "." {
		cleaned = "index.html"
	}

	target := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(target, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", false
	}

	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return target, true
	}
	if !strings.HasSuffix(cleaned, ".html") {
		page := target + ".html"
		if info, err := os.Stat(page); err == nil && !info.IsDir() {
			return page, true
		}
	}
	return "", false
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
