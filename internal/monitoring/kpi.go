package monitoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bayneri/crossmix/internal/model"
	"github.com/bayneri/crossmix/internal/optimizer"
)

const (
	MetricTotalATC   = "total_atc"
	MetricATCLift    = "atc_lift_pct"
	MetricATCGain    = "atc_gain"
	MetricLayerSpend = "layer_spend"
	MetricLayerATC   = "layer_atc"

	LayerLabel = "layer"
)

// KPIsFromResult flattens an optimizer result into gauge values. Layers
// are tv, digital, platform_a, platform_b and, when enabled, sync.
func KPIsFromResult(res optimizer.Result) []KPI {
	points := []KPI{
		{Name: MetricTotalATC, Value: res.Total.ATC},
		{Name: MetricATCLift, Value: res.Total.ATCLift},
		{Name: MetricATCGain, Value: res.Total.ATCGain},
	}
	layers := []struct {
		name string
		c    model.Change
	}{
		{"tv", res.TV},
		{"digital", res.Digital},
		{"platform_a", res.PlatformA},
		{"platform_b", res.PlatformB},
	}
	for _, l := range layers {
		points = append(points,
			KPI{Name: MetricLayerSpend, Value: l.c.Spend, Labels: map[string]string{LayerLabel: l.name}},
			KPI{Name: MetricLayerATC, Value: l.c.ATC, Labels: map[string]string{LayerLabel: l.name}},
		)
	}
	if res.Sync != nil {
		points = append(points,
			KPI{Name: MetricLayerSpend, Value: res.Sync.Spend, Labels: map[string]string{LayerLabel: "sync"}},
			KPI{Name: MetricLayerATC, Value: res.Sync.ATC, Labels: map[string]string{LayerLabel: "sync"}},
		)
	}
	return points
}

type PublishRequest struct {
	Project      string
	MetricPrefix string
	Scenario     string
	Labels       map[string]string
	Dashboard    bool
	At           time.Time
}

// Publish writes the KPIs of res and optionally applies the dashboard
// that charts them.
func Publish(ctx context.Context, client Client, res optimizer.Result, req PublishRequest) error {
	if req.Project == "" {
		return errors.New("project is required")
	}
	labels := map[string]string{}
	for k, v := range req.Labels {
		labels[k] = v
	}
	if req.Scenario != "" {
		labels[ScenarioLabel] = req.Scenario
	}
	at := req.At
	if at.IsZero() {
		at = time.Now()
	}
	if err := client.WriteKPIs(ctx, WriteKPIsRequest{
		Project:      req.Project,
		MetricPrefix: req.MetricPrefix,
		Labels:       labels,
		Points:       KPIsFromResult(res),
		At:           at,
	}); err != nil {
		return fmt.Errorf("write kpis: %w", err)
	}
	if !req.Dashboard {
		return nil
	}
	if err := client.ApplyDashboard(ctx, ApplyDashboardRequest{
		Project:      req.Project,
		MetricPrefix: req.MetricPrefix,
		DisplayName:  DashboardDisplayName,
		Labels:       ManagedLabels(req.Labels),
	}); err != nil {
		return fmt.Errorf("apply dashboard: %w", err)
	}
	return nil
}
