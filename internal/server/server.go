// Package server serves the dashboard over HTTP. Every request runs a fresh
// render pass: the dataset is re-read from disk and the page rebuilt.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tipdash/internal/dashboard"
	"github.com/KaramelBytes/tipdash/internal/dataset"
	"github.com/KaramelBytes/tipdash/internal/metrics"
	"github.com/KaramelBytes/tipdash/internal/render"
)

// Config holds what a server needs to run passes.
type Config struct {
	DataFile  string
	Options   dashboard.Options
	PNGWidth  int
	PNGHeight int
}

// Server wires the dashboard into a chi router.
type Server struct {
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Collector
}

// New creates a server. A nil collector gets a private one.
func New(cfg Config, logger *zap.Logger, m *metrics.Collector) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewCollector("tipdash")
	}
	return &Server{cfg: cfg, logger: logger, metrics: m}
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handlePage)
	r.Get("/api/page", s.handlePageJSON)
	r.Get("/charts/{file}", s.handleChart)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())
	return r
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr), zap.String("data_file", s.cfg.DataFile))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// pass runs one render pass for the request's UI state and records metrics.
func (s *Server) pass(r *http.Request) (dashboard.Page, error) {
	q := r.URL.Query()
	req := dashboard.Request{
		Smoker:  dashboard.ParseSelection(q.Get("smoker")),
		ShowRaw: isTruthy(q.Get("raw")),
	}
	start := time.Now()
	p, err := dashboard.Run(s.cfg.DataFile, req, s.cfg.Options)
	s.metrics.PassSeconds.Observe(time.Since(start).Seconds())
	log := s.logger.With(zap.String("run_id", p.RunID), zap.String("requestID", chimiddleware.GetReqID(r.Context())))
	switch {
	case errors.Is(err, dataset.ErrFileNotFound):
		s.metrics.Passes.WithLabelValues("missing_file").Inc()
		log.Warn("dataset missing", zap.String("path", s.cfg.DataFile))
	case err != nil:
		s.metrics.Passes.WithLabelValues("read_error").Inc()
		log.Error("dataset unreadable", zap.String("path", s.cfg.DataFile), zap.Error(err))
	default:
		s.metrics.Passes.WithLabelValues("ok").Inc()
		s.metrics.RowsLoaded.Set(float64(p.Rows))
		warnings := p.Warnings()
		s.metrics.Warnings.Add(float64(len(warnings)))
		log.Debug("render pass",
			zap.Int("rows", p.Rows),
			zap.Int("charts", len(p.Charts())),
			zap.Strings("warnings", warnings),
			zap.String("smoker", string(req.Smoker)),
		)
	}
	return p, err
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	p, _ := s.pass(r)
	var buf bytes.Buffer
	if err := render.HTML(&buf, p, render.HTMLOptions{ChartURL: "/charts/%s.png"}); err != nil {
		s.logger.Error("render page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePageJSON(w http.ResponseWriter, r *http.Request) {
	p, err := s.pass(r)
	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, p)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	var id, ext string
	switch {
	case strings.HasSuffix(file, ".png"):
		id, ext = strings.TrimSuffix(file, ".png"), "png"
	case strings.HasSuffix(file, ".json"):
		id, ext = strings.TrimSuffix(file, ".json"), "json"
	default:
		http.NotFound(w, r)
		return
	}
	p, err := s.pass(r)
	if err != nil {
		http.Error(w, p.Error, http.StatusServiceUnavailable)
		return
	}
	c, ok := p.Chart(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	switch ext {
	case "png":
		if err := render.PNG(&buf, c, s.cfg.PNGWidth, s.cfg.PNGHeight); err != nil {
			if errors.Is(err, render.ErrNoData) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			s.logger.Error("render png", zap.String("chart", id), zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
	case "json":
		b, err := render.VegaLite(c)
		if err != nil {
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		buf.Write(b)
		w.Header().Set("Content-Type", "application/json")
	}
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
