package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bayneri/crossmix/internal/compare"
	"github.com/bayneri/crossmix/internal/metrics"
	"github.com/bayneri/crossmix/internal/optimizer"
	"github.com/bayneri/crossmix/internal/planner"
	"github.com/bayneri/crossmix/internal/report"
	"github.com/bayneri/crossmix/internal/sweep"
)

const maxBodyBytes = 1 << 20

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "dataset": h.data.Name})
}

func (h *Handler) baseline(w http.ResponseWriter, r *http.Request) {
	h.writeEnvelope(w, report.KindBaseline, h.base)
}

func (h *Handler) plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"plans": h.data.PlanNames()})
}

// optimize accepts a partial Parameters document; absent fields keep the
// configured defaults.
func (h *Handler) optimize(w http.ResponseWriter, r *http.Request) {
	params := h.settings.Parameters
	if err := decodeBody(r, &params); err != nil {
		h.badRequest(w, r, "optimize", err)
		return
	}
	if err := params.Validate(); err != nil {
		h.badRequest(w, r, "optimize", err)
		return
	}

	start := time.Now()
	res := optimizer.Compute(h.base, h.data, params, h.settings.Optimizer)
	metrics.RecordComputation(report.KindOptimize, res.Total.ATC, time.Since(start).Seconds())
	h.writeEnvelope(w, report.KindOptimize, res)
}

func (h *Handler) optimalPlan(w http.ResponseWriter, r *http.Request) {
	opts := h.settings.Planner
	q := r.URL.Query()
	if v := q.Get("sync"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			h.badRequest(w, r, "optimal_plan", fmt.Errorf("invalid sync %q", v))
			return
		}
		opts.SyncEnabled = enabled
	}
	if v := q.Get("syncBudget"); v != "" {
		budget, err := strconv.ParseFloat(v, 64)
		if err != nil || budget <= 0 {
			h.badRequest(w, r, "optimal_plan", fmt.Errorf("invalid syncBudget %q", v))
			return
		}
		opts.SyncBudget = budget
	}

	start := time.Now()
	plan := planner.Build(h.base, h.data, opts)
	metrics.RecordComputation(report.KindOptimal, plan.Optimal.Total.ATC, time.Since(start).Seconds())
	h.writeEnvelope(w, report.KindOptimal, plan)
}

func (h *Handler) comparison(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("plan")
	if name == "" {
		name = h.settings.ComparisonPlan
	}
	plan, ok := h.data.ClientPlan(name)
	if !ok {
		logHTTPError(r, "comparison", http.StatusNotFound, "unknown plan "+name)
		writeError(w, http.StatusNotFound, "PLAN_NOT_FOUND", fmt.Sprintf("plan %q not found", name))
		return
	}
	opts := h.settings.Comparison
	if v := q.Get("jitter"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			h.badRequest(w, r, "comparison", fmt.Errorf("invalid jitter %q", v))
			return
		}
		if !enabled {
			opts.Jitter = compare.NoJitter{}
		} else if opts.Jitter == nil || !opts.Jitter.Enabled() {
			opts.Jitter = compare.DefaultJitter()
		}
	}

	start := time.Now()
	res := compare.Compare(h.base, h.data, name, plan, opts)
	metrics.RecordComputation(report.KindComparison, res.Total.OptimalATC, time.Since(start).Seconds())
	h.writeEnvelope(w, report.KindComparison, res)
}

// sweepRequest carries ranges in the CLI's min:max:step notation. Empty
// ranges hold the configured default.
type sweepRequest struct {
	TVDigitalSplit      string  `json:"tvDigitalSplit"`
	PlatformASplit      string  `json:"platformASplit"`
	Intensity           string  `json:"intensity"`
	ProtectionThreshold string  `json:"protectionThreshold"`
	Sync                []bool  `json:"sync"`
	SyncBudget          float64 `json:"syncBudget"`
	Top                 int     `json:"top"`
}

func (h *Handler) sweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, r, "sweep", err)
		return
	}
	grid, err := h.sweepGrid(req)
	if err != nil {
		h.badRequest(w, r, "sweep", err)
		return
	}

	start := time.Now()
	rows, err := sweep.Run(r.Context(), h.base, h.data, grid, sweep.Options{
		Optimizer: h.settings.Optimizer,
		Workers:   h.settings.SweepWorkers,
		Top:       req.Top,
	})
	if err != nil {
		h.badRequest(w, r, "sweep", err)
		return
	}
	var best float64
	if len(rows) > 0 {
		best = rows[0].ATC
	}
	metrics.RecordComputation(report.KindSweep, best, time.Since(start).Seconds())
	h.writeEnvelope(w, report.KindSweep, rows)
}

func (h *Handler) sweepGrid(req sweepRequest) (sweep.Grid, error) {
	p := h.settings.Parameters
	grid := sweep.Grid{
		TVDigitalSplit:      sweep.Fixed(p.TVDigitalSplitPct),
		PlatformASplit:      sweep.Fixed(p.PlatformASplitPct),
		Intensity:           sweep.Fixed(p.IntensityPct),
		ProtectionThreshold: sweep.Fixed(p.ProtectionThresholdPct),
		Sync:                req.Sync,
		SyncBudget:          p.SyncBudget,
		Renormalize:         p.Renormalize,
	}
	if len(grid.Sync) == 0 {
		grid.Sync = []bool{p.SyncEnabled}
	}
	if req.SyncBudget > 0 {
		grid.SyncBudget = req.SyncBudget
	}
	fields := []struct {
		raw string
		dst *sweep.Range
	}{
		{req.TVDigitalSplit, &grid.TVDigitalSplit},
		{req.PlatformASplit, &grid.PlatformASplit},
		{req.Intensity, &grid.Intensity},
		{req.ProtectionThreshold, &grid.ProtectionThreshold},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		rng, err := sweep.ParseRange(f.raw)
		if err != nil {
			return sweep.Grid{}, err
		}
		*f.dst = rng
	}
	return grid, nil
}

func (h *Handler) writeEnvelope(w http.ResponseWriter, kind string, result any) {
	writeJSON(w, http.StatusOK, report.NewEnvelope(kind, h.data.Name, result, h.now()))
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, operation string, err error) {
	metrics.RecordError(operation, "validation")
	logHTTPError(r, operation, http.StatusBadRequest, err.Error())
	writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func logHTTPError(r *http.Request, operation string, statusCode int, message string) {
	serverLogger().WarnContext(r.Context(), "http operation failed",
		"operation", operation,
		"status_code", statusCode,
		"message", message,
		"request_id", requestIDFromContext(r.Context()),
	)
}
