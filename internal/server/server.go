// Package server exposes comparisons over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rangedeck/pkg/buildinfo"
	"github.com/matzehuels/rangedeck/pkg/catalog"
	rderrors "github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/grid"
	"github.com/matzehuels/rangedeck/pkg/observability"
	"github.com/matzehuels/rangedeck/pkg/store"
)

// Options configures a Server.
type Options struct {
	// Width is the viewport width used when a request carries none.
	Width float64

	// Breakpoints defaults to grid.DefaultBreakpoints.
	Breakpoints grid.Breakpoints

	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Server serves the comparison API.
type Server struct {
	store   *store.Store
	catalog *catalog.Catalog
	opts    Options
	logger  *log.Logger
	router  chi.Router
}

// New builds the router.
func New(s *store.Store, cat *catalog.Catalog, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	srv := &Server{
		store:   s,
		catalog: cat,
		opts:    opts,
		logger:  opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(srv.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", srv.handleHealth)
	r.Route("/api/comparisons", func(r chi.Router) {
		r.Get("/", srv.handleList)
		r.Route("/{key}", func(r chi.Router) {
			r.Get("/", srv.handleGet)
			r.Delete("/", srv.handleDelete)
			r.Post("/drop", srv.handleDrop)
			r.Post("/undo", srv.handleUndo)
			r.Post("/adjust", srv.handleAdjust)
			r.Post("/reset", srv.handleReset)
			r.Post("/preset", srv.handlePreset)
			r.Post("/zoom", srv.handleZoom)
			r.Post("/mode", srv.handleMode)
			r.Post("/cards/{id}/move", srv.handleCardMove)
			r.Post("/cards/{id}/resize", srv.handleCardResize)
			r.Post("/cards/{id}/front", srv.handleCardFront)
		})
	})
	srv.router = r
	return srv
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("api server started", "addr", ln.Addr().String())
		errc <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests logs every request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    rderrors.Code `json:"code"`
	Message string        `json:"message"`
}

// writeJSON writes v as JSON with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and writes it as {"error": {...}}.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := rderrors.GetCode(err)
	if code == "" {
		code = rderrors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: rderrors.UserMessage(err)},
	})
}

// statusFor returns 400 for invalid input, 404 for unknown resources and 500
// otherwise.
func statusFor(err error) int {
	switch {
	case rderrors.IsInvalid(err):
		return http.StatusBadRequest
	case rderrors.Is(err, rderrors.ErrCodeNotFound):
		return http.StatusNotFound
	case rderrors.Is(err, rderrors.ErrCodeUnsupported):
		return http.StatusConflict
	case rderrors.Is(err, rderrors.ErrCodeStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"store":  s.store.Backend().Name(),
		"build":  buildinfo.Get(),
	})
}
