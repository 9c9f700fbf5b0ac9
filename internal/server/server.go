package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-needle-survey/pkg/renderers/html"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer swaps the HTML page renderer.
func WithRenderer(renderer *html.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// Server exposes survey sessions as server-rendered pages and as a JSON API.
type Server struct {
	store    *SessionStore
	renderer *html.Renderer
	doc      *apiDocument
	logger   *zap.Logger
	mux      *http.ServeMux
}

// New wires the routes. JSON API routes come from the embedded OpenAPI
// document, so a handler without a documented operation fails here.
func New(ctx context.Context, store *SessionStore, options ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("server: session store is nil")
	}
	s := &Server{
		store:  store,
		logger: zap.NewNop(),
		mux:    http.NewServeMux(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.renderer == nil {
		renderer, err := html.New()
		if err != nil {
			return nil, fmt.Errorf("server: build renderer: %w", err)
		}
		s.renderer = renderer
	}

	doc, err := loadAPIDocument(ctx)
	if err != nil {
		return nil, err
	}
	s.doc = doc

	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) routes() error {
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowedWith(w, http.MethodGet, http.MethodHead)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.HandleFunc("/openapi.json", s.doc.serveHTTP)
	s.mux.Handle("GET "+html.DefaultAssetsPath, http.StripPrefix(html.DefaultAssetsPath, http.FileServerFS(html.AssetsFS())))

	s.mux.HandleFunc("GET /{$}", s.handleStart)
	s.mux.HandleFunc("GET /s/{id}", s.handlePage)
	s.mux.HandleFunc("POST /s/{id}", s.handlePagePost)

	api := map[string]http.HandlerFunc{
		"createSession":  s.createSession,
		"getSession":     s.getSession,
		"replaceSection": s.replaceSection,
		"editField":      s.editField,
		"advance":        s.advance,
		"retreat":        s.retreat,
		"submit":         s.submit,
	}
	for id, handler := range api {
		op, err := s.doc.Operation(id)
		if err != nil {
			return err
		}
		s.mux.HandleFunc(op.Pattern(), handler)
	}
	return nil
}

// Handler returns the root handler with request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Store returns the session store backing the server.
func (s *Server) Store() *SessionStore {
	return s.store
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if r.URL.Path == "/healthz" {
			return
		}
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodGet)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func methodNotAllowedWith(w http.ResponseWriter, allowed ...string) {
	if len(allowed) == 0 {
		methodNotAllowed(w)
		return
	}
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
