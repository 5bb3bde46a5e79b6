package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bayneri/crossmix/internal/optimizer"
)

const (
	StatusOK      = "ok"
	StatusPartial = "partial"
)

// OptimizeRun is one optimize envelope read back from disk.
type OptimizeRun struct {
	Input   string
	RunID   string
	Dataset string
	Result  optimizer.Result
}

type AggregateResult struct {
	SchemaVersion string        `json:"schemaVersion"`
	Inputs        []string      `json:"inputs"`
	Status        string        `json:"status"`
	Scenarios     []ScenarioRow `json:"scenarios"`
	Errors        []string      `json:"errors"`
}

// ScenarioRow is the ranking view of one optimize result.
type ScenarioRow struct {
	Rank       int                  `json:"rank"`
	Label      string               `json:"label"`
	RunID      string               `json:"runId,omitempty"`
	Dataset    string               `json:"dataset,omitempty"`
	Parameters optimizer.Parameters `json:"parameters"`
	Spend      float64              `json:"spend"`
	ATC        float64              `json:"atc"`
	Lift       float64              `json:"lift"`
	Gain       float64              `json:"gain"`
	SyncATC    float64              `json:"syncATC"`
}

func NewScenarioRow(label string, res optimizer.Result) ScenarioRow {
	row := ScenarioRow{
		Label:      label,
		Parameters: res.Parameters,
		Spend:      res.Total.Spend,
		ATC:        res.Total.ATC,
		Lift:       res.Total.ATCLift,
		Gain:       res.Total.ATCGain,
	}
	if res.Sync != nil {
		row.SyncATC = res.Sync.ATC
	}
	return row
}

// RankScenarios orders rows by total ATC, highest first, and numbers them
// from 1. Ties keep the lower spend first, then the label order.
func RankScenarios(rows []ScenarioRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ATC != rows[j].ATC {
			return rows[i].ATC > rows[j].ATC
		}
		if rows[i].Spend != rows[j].Spend {
			return rows[i].Spend < rows[j].Spend
		}
		return rows[i].Label < rows[j].Label
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

func ReadOptimizeResults(paths []string) ([]OptimizeRun, error) {
	var runs []OptimizeRun
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var env struct {
			SchemaVersion string          `json:"schemaVersion"`
			RunID         string          `json:"runId"`
			Kind          string          `json:"kind"`
			Dataset       string          `json:"dataset"`
			Result        json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if env.SchemaVersion == "" {
			return nil, fmt.Errorf("missing schemaVersion in %s", path)
		}
		if env.Kind != KindOptimize {
			return nil, fmt.Errorf("%s: expected kind %q, got %q", path, KindOptimize, env.Kind)
		}
		run := OptimizeRun{Input: path, RunID: env.RunID, Dataset: env.Dataset}
		if err := json.Unmarshal(env.Result, &run.Result); err != nil {
			return nil, fmt.Errorf("parse result in %s: %w", path, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Aggregate ranks optimize runs against each other. Runs computed from a
// different dataset or total budget than the first one are kept but
// flagged, and the overall status becomes partial.
func Aggregate(runs []OptimizeRun) (AggregateResult, error) {
	if len(runs) == 0 {
		return AggregateResult{}, errors.New("no results to aggregate")
	}
	var (
		inputs   []string
		rows     []ScenarioRow
		warnings []string
	)
	first := runs[0]
	for _, run := range runs {
		inputs = append(inputs, run.Input)
		if run.Dataset != first.Dataset {
			warnings = append(warnings, fmt.Sprintf("%s: dataset %q differs from %q", run.Input, run.Dataset, first.Dataset))
		}
		if run.Result.Total.Spend != first.Result.Total.Spend {
			warnings = append(warnings, fmt.Sprintf("%s: total budget %s differs from %s",
				run.Input, Amount(run.Result.Total.Spend), Amount(first.Result.Total.Spend)))
		}
		row := NewScenarioRow(run.Input, run.Result)
		row.RunID = run.RunID
		row.Dataset = run.Dataset
		rows = append(rows, row)
	}
	RankScenarios(rows)

	status := StatusOK
	if len(warnings) > 0 {
		status = StatusPartial
	}
	return AggregateResult{
		SchemaVersion: SchemaVersion,
		Inputs:        inputs,
		Status:        status,
		Scenarios:     rows,
		Errors:        warnings,
	}, nil
}

func WriteAggregateJSON(path string, result AggregateResult) error {
	return WriteJSON(path, result)
}

func AggregateMarkdown(result AggregateResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# crossmix scenarios\n\n")
	fmt.Fprintf(&b, "Inputs: %d, status: %s\n\n", len(result.Inputs), result.Status)
	fmt.Fprintf(&b, "| Rank | Scenario | TV/Digital | Platform A | Intensity | Threshold | Sync | Total ATC | Lift |\n")
	fmt.Fprintf(&b, "| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, row := range result.Scenarios {
		p := row.Parameters
		sync := "off"
		if p.SyncEnabled {
			sync = Currency(p.SyncBudget)
		}
		fmt.Fprintf(&b, "| %d | %s | %.0f/%.0f | %s | %s | %s | %s | %.0f | %s |\n",
			row.Rank, row.Label, p.TVDigitalSplitPct, 100-p.TVDigitalSplitPct,
			Pct(p.PlatformASplitPct, 0), Pct(p.IntensityPct, 0), Pct(p.ProtectionThresholdPct, 0),
			sync, row.ATC, SignedPct(row.Lift, 2))
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, "\n## Warnings\n")
		for _, err := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", err)
		}
	}
	return b.String()
}

func WriteAggregateMarkdown(path string, result AggregateResult) error {
	return WriteMarkdown(path, AggregateMarkdown(result))
}
