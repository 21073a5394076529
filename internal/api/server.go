// Package api serves the analytics and reporting use cases over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/sitewise/internal/narration"
	"github.com/alexanderramin/sitewise/internal/service"
)

// AgentConfig reports the narration provider in use.
type AgentConfig interface {
	Config() narration.ProviderInfo
}

// Services are the use cases the API exposes.
type Services struct {
	Labor     service.LaborService
	Finance   service.FinanceService
	Anomalies service.AnomalyService
	Insights  service.InsightService
	Reporting service.ReportingService
	Dashboard service.DashboardService
	Agent     AgentConfig
}

type Config struct {
	Addr     string
	Services Services
	Logger   *slog.Logger
	// Now anchors time-dependent views. Nil means time.Now.
	Now func() time.Time
}

type Server struct {
	addr   string
	svc    Services
	logger *slog.Logger
	now    func() time.Time
}

func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Server{addr: cfg.Addr, svc: cfg.Services, logger: logger, now: now}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestIDs,
		middleware.RequestID,
		accessLog(s.logger),
		middleware.Recoverer,
	)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Construction labor intelligence API is running"})
	})

	r.Route("/labor", func(r chi.Router) {
		r.Get("/productivity", s.productivity)
		r.Get("/employees", s.employees)
		r.Get("/payroll-estimation", s.payroll)
		r.Get("/union-reconciliation", s.unions)
	})
	r.Get("/automation/anomalies", s.anomalies)
	r.Route("/agent", func(r chi.Router) {
		r.Post("/insights", s.insights)
		r.Get("/config", s.agentConfig)
	})
	r.Route("/finance", func(r chi.Router) {
		r.Get("/variance", s.variance)
		r.Get("/project-analytics", s.projectAnalytics)
		r.Get("/portfolio", s.portfolio)
	})
	r.Route("/reporting", func(r chi.Router) {
		r.Get("/projects", s.listProjects)
		r.Post("/projects", s.createProject)
		r.Get("/projects/{id}", s.getProject)
		r.Post("/projects/{id}/events", s.addEvent)
		r.Post("/projects/{id}/media", s.addMedia)
		r.Patch("/events/{id}", s.updateEvent)
	})
	r.Get("/dashboard", s.dashboard)
	r.Get("/dashboard/export", s.dashboardExport)

	return r
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.logger.Info("starting api server", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down api server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
