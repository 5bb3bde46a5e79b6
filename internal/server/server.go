// Package server exposes the allocation calculator over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/compare"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/optimizer"
	"github.com/bayneri/crossmix/internal/planner"
)

// Settings are the defaults applied when a request leaves a field unset.
type Settings struct {
	Parameters      optimizer.Parameters
	Optimizer       optimizer.Options
	Planner         planner.Options
	Comparison      compare.Options
	ComparisonPlan  string
	SweepWorkers    int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Parameters:      optimizer.DefaultParameters(),
		Optimizer:       optimizer.DefaultOptions(),
		Planner:         planner.DefaultOptions(),
		Comparison:      compare.DefaultOptions(),
		ComparisonPlan:  "client",
		ShutdownTimeout: 10 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
	}
}

// Handler serves one dataset. The baseline is aggregated once at
// construction since the dataset is immutable.
type Handler struct {
	data     dataset.Dataset
	base     baseline.Metrics
	settings Settings
	now      func() time.Time
}

func NewHandler(data dataset.Dataset, settings Settings) *Handler {
	return &Handler{
		data:     data,
		base:     baseline.Aggregate(data),
		settings: settings,
		now:      time.Now,
	}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/baseline", handler.baseline)
		r.Post("/optimize", handler.optimize)
		r.Get("/optimal-plan", handler.optimalPlan)
		r.Get("/comparison", handler.comparison)
		r.Get("/plans", handler.plans)
		r.Post("/sweep", handler.sweep)
	})

	return r
}

// ListenAndServe runs the router on addr until ctx is cancelled, then
// drains in-flight requests.
func ListenAndServe(ctx context.Context, addr string, handler *Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(handler),
		ReadTimeout:  handler.settings.ReadTimeout,
		WriteTimeout: handler.settings.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		serverLogger().InfoContext(ctx, "starting crossmix server", "address", addr, "dataset", handler.data.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		serverLogger().Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), handler.settings.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func serverLogger() *slog.Logger {
	return slog.Default().With("module", "http")
}
