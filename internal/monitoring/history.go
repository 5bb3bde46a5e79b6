package monitoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ScenarioLabel is the metric label Publish stores the scenario name in.
const ScenarioLabel = "scenario"

// Reader reads back published KPI points.
type Reader interface {
	ReadKPIs(ctx context.Context, req ReadKPIsRequest) ([]KPISample, error)
}

type ReadKPIsRequest struct {
	Project      string
	MetricPrefix string
	// Name is the KPI name without the prefix, e.g. total_atc.
	Name  string
	Start time.Time
	End   time.Time
}

// KPISample is the latest point of one series in the window.
type KPISample struct {
	Name   string
	Labels map[string]string
	Value  float64
	At     time.Time
}

type HistoryRequest struct {
	Project      string
	MetricPrefix string
	Start        time.Time
	End          time.Time
}

// ScenarioHistory is the most recent published outcome of one scenario.
type ScenarioHistory struct {
	Scenario  string    `json:"scenario"`
	TotalATC  float64   `json:"totalATC"`
	LiftPct   float64   `json:"liftPct"`
	Published time.Time `json:"published"`
}

type HistoryResult struct {
	Project string            `json:"project"`
	Start   time.Time         `json:"start"`
	End     time.Time         `json:"end"`
	Items   []ScenarioHistory `json:"scenarios"`
}

// History collects the latest total ATC and lift per scenario, ordered by
// total ATC, highest first.
func History(ctx context.Context, reader Reader, req HistoryRequest) (HistoryResult, error) {
	if req.Project == "" {
		return HistoryResult{}, errors.New("project is required")
	}
	if !req.End.After(req.Start) {
		return HistoryResult{}, errors.New("window end must be after start")
	}
	read := func(name string) ([]KPISample, error) {
		samples, err := reader.ReadKPIs(ctx, ReadKPIsRequest{
			Project:      req.Project,
			MetricPrefix: req.MetricPrefix,
			Name:         name,
			Start:        req.Start,
			End:          req.End,
		})
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return samples, nil
	}
	totals, err := read(MetricTotalATC)
	if err != nil {
		return HistoryResult{}, err
	}
	lifts, err := read(MetricATCLift)
	if err != nil {
		return HistoryResult{}, err
	}

	byScenario := map[string]*ScenarioHistory{}
	for _, s := range totals {
		name := s.Labels[ScenarioLabel]
		cur, ok := byScenario[name]
		if !ok || s.At.After(cur.Published) {
			byScenario[name] = &ScenarioHistory{Scenario: name, TotalATC: s.Value, Published: s.At}
		}
	}
	for _, s := range lifts {
		// Lift and total of one publish share a timestamp.
		if cur, ok := byScenario[s.Labels[ScenarioLabel]]; ok && s.At.Equal(cur.Published) {
			cur.LiftPct = s.Value
		}
	}

	res := HistoryResult{Project: req.Project, Start: req.Start, End: req.End}
	for _, item := range byScenario {
		res.Items = append(res.Items, *item)
	}
	sort.Slice(res.Items, func(i, j int) bool {
		if res.Items[i].TotalATC != res.Items[j].TotalATC {
			return res.Items[i].TotalATC > res.Items[j].TotalATC
		}
		return res.Items[i].Scenario < res.Items[j].Scenario
	})
	return res, nil
}
