// Package server exposes manifest recognition over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness probe
//	GET  /version            build information
//	POST /v1/inspect         recognize the manifest in the request body
//	POST /v1/scan            scan a directory below the server root
//	GET  /v1/reports         list stored reports (when a store is configured)
//	GET  /v1/reports/{id}    fetch a stored report
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pkgscan/pkg/buildinfo"
	"github.com/matzehuels/pkgscan/pkg/errors"
	"github.com/matzehuels/pkgscan/pkg/observability"
	"github.com/matzehuels/pkgscan/pkg/packages/composer"
	"github.com/matzehuels/pkgscan/pkg/render"
	"github.com/matzehuels/pkgscan/pkg/scan"
	"github.com/matzehuels/pkgscan/pkg/store"
)

// maxManifestBytes bounds /v1/inspect request bodies.
const maxManifestBytes = 5 << 20

// Server serves the HTTP API.
type Server struct {
	scanner *scan.Scanner
	store   store.Store // nil when reports are not persisted
	root    string
	logger  *log.Logger
	router  chi.Router
}

// New creates a server that scans below root. st may be nil.
func New(scanner *scan.Scanner, st store.Store, root string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{scanner: scanner, store: st, root: root, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	})
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/inspect", s.handleInspect)
		r.Post("/scan", s.handleScan)
		r.Get("/reports", s.handleReports)
		r.Get("/reports/{id}", s.handleReport)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "root", s.root)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// instrument logs each request and reports it to the HTTP hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleInspect recognizes the manifest sent as the request body and
// responds with the package, or 204 when the manifest is not a usable
// package. The optional "filename" query parameter selects the handler and
// defaults to composer.json.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("filename")
	if name == "" {
		name = composer.ManifestName
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxManifestBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	pkg, err := s.scanner.RecognizeBytes(r.Context(), filepath.Base(name), data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if pkg == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if purl := pkg.PackageURL(); purl != "" {
		w.Header().Set("X-Package-URL", purl)
	}
	writeJSON(w, http.StatusOK, pkg)
}

type scanRequest struct {
	Path  string `json:"path"`
	Store bool   `json:"store"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scan request"))
		return
	}
	if err := errors.ValidatePath(req.Path); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Store && s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "report storage is not configured"))
		return
	}

	report, err := s.scanner.Scan(r.Context(), filepath.Join(s.root, filepath.FromSlash(req.Path)))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.Store {
		if err := s.store.SaveReport(r.Context(), report); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "report storage is not configured"))
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be between 1 and 500"))
			return
		}
		limit = n
	}
	summaries, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "report storage is not configured"))
		return
	}
	report, err := s.store.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = render.WriteJSON(w, v)
}
