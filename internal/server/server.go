// Package server exposes a canvas over HTTP so a browser or script can
// drive tile gestures.
package server

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tileboard/pkg/canvas"
	"github.com/matzehuels/tileboard/pkg/geometry"
)

// Server serves one canvas.
type Server struct {
	canvas *canvas.Canvas
	bounds geometry.Bounds
	logger *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithBounds sets the container size used when a gesture request does not
// carry its own.
func WithBounds(b geometry.Bounds) Option {
	return func(s *Server) { s.bounds = b }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a Server for c.
func New(c *canvas.Canvas, opts ...Option) *Server {
	s := &Server{
		canvas: c,
		bounds: geometry.Bounds{Width: 800, Height: 480},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(withSecurityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Get("/canvas.svg", s.handleSVG)
	r.Get("/canvas.json", s.handleJSON)

	r.Route("/selection", func(r chi.Router) {
		r.Get("/", s.handleGetSelection)
		r.Put("/", s.handlePutSelection)
		r.Delete("/", s.handleDeleteSelection)
	})

	r.Route("/tiles", func(r chi.Router) {
		r.Get("/", s.handleListTiles)
		r.Post("/", s.handleAddTile)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTile)
			r.Delete("/", s.handleDeleteTile)
			r.Post("/drag/start", s.handleDragStart)
			r.Post("/drag/move", s.handleDragMove)
			r.Post("/drag/end", s.handleDragEnd)
			r.Post("/resize/start", s.handleResizeStart)
			r.Post("/resize/move", s.handleResizeMove)
			r.Post("/resize/end", s.handleResizeEnd)
			r.Delete("/gesture", s.handleCancel)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
