// ABOUTME: HTTP server for the dashboard page, chart images, and JSON API.
// ABOUTME: The table is loaded once before serving and only read by handlers.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harperreed/healthboard/internal/dashboard"
	"github.com/harperreed/healthboard/internal/metrics"
	"github.com/harperreed/healthboard/internal/render"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server serves one loaded table.
type Server struct {
	charts  *Charts
	layout  dashboard.Layout
	metrics *metrics.Recorder
	logger  *log.Logger
	mux     *http.ServeMux
}

// New wires the routes. A nil recorder gets a fresh one.
func New(charts *Charts, layout dashboard.Layout, recorder *metrics.Recorder, logger *log.Logger) *Server {
	if recorder == nil {
		recorder = metrics.New()
	}
	if charts.Metrics == nil {
		charts.Metrics = recorder
	}
	recorder.SetTableRows(charts.Table().Len())

	s := &Server{
		charts:  charts,
		layout:  layout,
		metrics: recorder,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.route("GET /{$}", s.handleIndex)
	s.route("GET /charts/{file}", s.handleChart)
	s.route("GET /api/figures", s.handleListFigures)
	s.route("GET /api/figures/{id}", s.handleFigure)
	s.route("GET /api/summary", s.handleSummary)
	s.route("GET /api/layout", s.handleLayout)
	s.route("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", recorder.Handler())
	return s
}

func (s *Server) route(pattern string, h http.HandlerFunc) {
	route := strings.TrimSuffix(pattern[strings.Index(pattern, " ")+1:], "{$}")
	s.mux.Handle(pattern, s.instrument(route, h))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument logs each request with a request ID and counts it by route.
func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)

		s.metrics.ObserveRequest(route, rec.status)
		s.logger.Debug("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	err := WritePage(&buf, s.layout, func(id string) string {
		return "/charts/" + id + "." + string(render.FormatSVG)
	})
	if err != nil {
		s.logger.Error("render page failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	dot := strings.LastIndex(file, ".")
	if dot < 0 {
		writeError(w, http.StatusNotFound, "chart not found: "+file)
		return
	}
	id := file[:dot]
	format, err := render.ParseFormat(file[dot+1:])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	data, err := s.charts.Render(id, format)
	if errors.Is(err, ErrUnknownChart) {
		writeError(w, http.StatusNotFound, "chart not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("render chart failed", "chart", id, "format", format, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

type figureInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Empty bool   `json:"empty"`
}

func (s *Server) handleListFigures(w http.ResponseWriter, _ *http.Request) {
	figures := make([]figureInfo, 0, len(dashboard.Charts))
	for _, fig := range dashboard.BuildAll(s.charts.Table()) {
		chart, _ := dashboard.Lookup(fig.ID)
		figures = append(figures, figureInfo{
			ID:    fig.ID,
			Label: chart.Label,
			Title: fig.Title,
			Empty: fig.IsEmpty(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"figures": figures})
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	fig, err := s.charts.Figure(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "chart not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dashboard.Summarize(s.charts.Table()))
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.layout)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rows": s.charts.Table().Len()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully.
// ready, if non-nil, receives the bound address once listening.
func Run(ctx context.Context, addr string, h http.Handler, logger *log.Logger, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info("listening", "addr", ln.Addr().String())
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
