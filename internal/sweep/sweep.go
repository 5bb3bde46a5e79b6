// Package sweep evaluates the optimizer over a grid of control positions
// and ranks the results by total ATC.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/metrics"
	"github.com/bayneri/crossmix/internal/optimizer"
	"github.com/bayneri/crossmix/internal/report"
)

// MaxScenarios bounds a single sweep.
const MaxScenarios = 20000

// Range is an inclusive min:max:step series. A zero step means the single
// value Min.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

func Fixed(v float64) Range { return Range{Min: v, Max: v} }

// ParseRange reads "v", "min:max" (step 1) or "min:max:step".
func ParseRange(s string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	var vals []float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Range{}, fmt.Errorf("invalid range %q: values must be finite", s)
		}
		vals = append(vals, v)
	}
	var r Range
	switch len(vals) {
	case 1:
		r = Fixed(vals[0])
	case 2:
		r = Range{Min: vals[0], Max: vals[1], Step: 1}
	case 3:
		r = Range{Min: vals[0], Max: vals[1], Step: vals[2]}
	default:
		return Range{}, fmt.Errorf("invalid range %q: want v, min:max or min:max:step", s)
	}
	if r.Max < r.Min {
		return Range{}, fmt.Errorf("invalid range %q: max below min", s)
	}
	if len(vals) > 1 && r.Step <= 0 {
		return Range{}, fmt.Errorf("invalid range %q: step must be positive", s)
	}
	if n := r.Count(); n > MaxScenarios {
		return Range{}, fmt.Errorf("invalid range %q: %.0f values, limit is %d", s, n, MaxScenarios)
	}
	return r, nil
}

// Count is the number of values the range expands to. It is a float so
// that huge ranges can be rejected before anything is allocated.
func (r Range) Count() float64 {
	if r.Step <= 0 || r.Max == r.Min {
		return 1
	}
	n := math.Floor((r.Max-r.Min)/r.Step+1e-9) + 1
	if math.IsNaN(n) {
		return math.Inf(1)
	}
	return n
}

// Values expands the range. Steps are counted, not accumulated, so
// 0.1 increments do not drift past Max. Ranges above MaxScenarios
// values yield nil.
func (r Range) Values() []float64 {
	count := r.Count()
	if count > MaxScenarios {
		return nil
	}
	if count == 1 {
		return []float64{r.Min}
	}
	n := int(count)
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.Min+float64(i)*r.Step)
	}
	return out
}

type Grid struct {
	TVDigitalSplit      Range
	PlatformASplit      Range
	Intensity           Range
	ProtectionThreshold Range
	// Sync lists the sync switch positions to try.
	Sync        []bool
	SyncBudget  float64
	Renormalize bool
}

// DefaultGrid holds every control at its default.
func DefaultGrid() Grid {
	p := optimizer.DefaultParameters()
	return Grid{
		TVDigitalSplit:      Fixed(p.TVDigitalSplitPct),
		PlatformASplit:      Fixed(p.PlatformASplitPct),
		Intensity:           Fixed(p.IntensityPct),
		ProtectionThreshold: Fixed(p.ProtectionThresholdPct),
		Sync:                []bool{false},
		SyncBudget:          p.SyncBudget,
	}
}

// Expand lists every parameter set of the grid and rejects grids that
// leave the supported control ranges.
func (g Grid) Expand() ([]optimizer.Parameters, error) {
	syncs := g.Sync
	if len(syncs) == 0 {
		syncs = []bool{false}
	}
	size := g.TVDigitalSplit.Count() * g.PlatformASplit.Count() * g.Intensity.Count() *
		g.ProtectionThreshold.Count() * float64(len(syncs))
	if size > MaxScenarios {
		return nil, fmt.Errorf("grid has %.0f scenarios, limit is %d", size, MaxScenarios)
	}
	tv, a, in, th := g.TVDigitalSplit.Values(), g.PlatformASplit.Values(), g.Intensity.Values(), g.ProtectionThreshold.Values()
	total := len(tv) * len(a) * len(in) * len(th) * len(syncs)
	out := make([]optimizer.Parameters, 0, total)
	var errs []string
	for _, s := range syncs {
		for _, tvSplit := range tv {
			for _, aSplit := range a {
				for _, intensity := range in {
					for _, threshold := range th {
						p := optimizer.Parameters{
							TVDigitalSplitPct:      tvSplit,
							PlatformASplitPct:      aSplit,
							IntensityPct:           intensity,
							ProtectionThresholdPct: threshold,
							SyncEnabled:            s,
							SyncBudget:             g.SyncBudget,
							Renormalize:            g.Renormalize,
						}
						if err := p.Validate(); err != nil {
							errs = append(errs, err.Error())
							continue
						}
						out = append(out, p)
					}
				}
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.New(strings.Join(dedupe(errs), "; "))
	}
	return out, nil
}

func Label(p optimizer.Parameters) string {
	sync := "off"
	if p.SyncEnabled {
		sync = strconv.FormatFloat(p.SyncBudget, 'f', -1, 64)
	}
	return fmt.Sprintf("tv=%g a=%g i=%g t=%g sync=%s", p.TVDigitalSplitPct, p.PlatformASplitPct, p.IntensityPct, p.ProtectionThresholdPct, sync)
}

type Options struct {
	Optimizer optimizer.Options
	// Workers caps concurrent evaluations; 0 uses GOMAXPROCS.
	Workers int
	// Top keeps only the best N rows; 0 keeps all.
	Top int
}

// Run evaluates every grid point concurrently and returns the ranked rows.
func Run(ctx context.Context, base baseline.Metrics, data dataset.Provider, grid Grid, opts Options) ([]report.ScenarioRow, error) {
	params, err := grid.Expand()
	if err != nil {
		return nil, err
	}
	metrics.RecordSweep(len(params))
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	rows := make([]report.ScenarioRow, len(params))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range params {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := optimizer.Compute(base, data, p, opts.Optimizer)
			rows[i] = report.NewScenarioRow(Label(p), res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.RankScenarios(rows)
	if opts.Top > 0 && len(rows) > opts.Top {
		rows = rows[:opts.Top]
	}
	return rows, nil
}

func dedupe(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
