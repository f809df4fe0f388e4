package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crshop/attendance/internal/attendance/service"
	"github.com/crshop/attendance/internal/attendance/types"
	"github.com/crshop/attendance/internal/logging"
)

type Dependencies struct {
	Logger   *slog.Logger
	Addr     string
	Session  *service.Session
	Gatherer prometheus.Gatherer         // nil disables /metrics
	Ping     func(context.Context) error // nil reports healthy
}

// Server is the HTTP front-end for browser or tablet kiosks. Each request
// carries the whole input buffer, so no state is kept between requests.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	session    *service.Session
	ping       func(context.Context) error
}

func NewServer(d Dependencies) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	s := &Server{
		logger:  d.Logger,
		session: d.Session,
		ping:    d.Ping,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(d.Logger))

	r.Post("/v1/preview", s.handlePreview)
	r.Post("/v1/submit", s.handleSubmit)
	r.Post("/v1/export", s.handleExport)
	r.Get("/healthz", s.handleHealth)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_body", err.Error())
		return
	}

	st := s.session.Edit(service.State{}, req.Input)
	respond(w, r, http.StatusOK, types.PreviewResponse{
		Greeting: s.session.Preview(st),
		Admin:    st.AdminMode,
	})
}

// handleSubmit always answers 200 for a well-formed request; whether the
// line was stored is informational only.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_body", err.Error())
		return
	}

	_, res := s.session.Submit(r.Context(), s.session.Edit(service.State{}, req.Input))

	resp := types.SubmitResponse{OK: true}
	if res.Outcome == service.Stored {
		resp.Stored = true
		resp.ID = res.Record.ID
	}
	respond(w, r, http.StatusOK, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := decodeInput(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_body", err.Error())
		return
	}

	_, res := s.session.Export(r.Context(), s.session.Edit(service.State{}, req.Input))

	switch res.Outcome {
	case service.ExportDenied:
		logging.FromContext(r.Context(), s.logger).Warn("export denied")
		writeError(w, r, http.StatusForbidden, "forbidden", "admin password required")
	case service.ExportFailed:
		respond(w, r, http.StatusOK, types.ExportResponse{OK: false})
	case service.Exported:
		respond(w, r, http.StatusOK, types.ExportResponse{
			OK:       true,
			Artifact: res.Artifact.Path,
			Records:  res.Artifact.Written,
			Skipped:  res.Artifact.Skipped + res.RowErrors,
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
