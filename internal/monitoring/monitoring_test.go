package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"cloud.google.com/go/monitoring/dashboard/apiv1/dashboardpb"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/optimizer"
)

type fakeClient struct {
	writes     []WriteKPIsRequest
	dashboards []ApplyDashboardRequest
	writeErr   error
}

func (f *fakeClient) WriteKPIs(_ context.Context, req WriteKPIsRequest) error {
	f.writes = append(f.writes, req)
	return f.writeErr
}

func (f *fakeClient) ApplyDashboard(_ context.Context, req ApplyDashboardRequest) error {
	f.dashboards = append(f.dashboards, req)
	return nil
}

func (f *fakeClient) DeleteManagedDashboards(context.Context, DeleteRequest) error { return nil }

func syncResult(t *testing.T) optimizer.Result {
	t.Helper()
	d, err := dataset.Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	params := optimizer.DefaultParameters()
	params.SyncEnabled = true
	return optimizer.Compute(baseline.Aggregate(d), d, params, optimizer.DefaultOptions())
}

func TestKPIsFromResult(t *testing.T) {
	res := syncResult(t)
	kpis := KPIsFromResult(res)
	if len(kpis) != 3+2*5 {
		t.Fatalf("kpis = %d", len(kpis))
	}
	if kpis[0].Name != MetricTotalATC || kpis[0].Value != 28378 {
		t.Fatalf("unexpected first kpi %+v", kpis[0])
	}
	last := kpis[len(kpis)-1]
	if last.Name != MetricLayerATC || last.Labels[LayerLabel] != "sync" || last.Value != 3300 {
		t.Fatalf("unexpected sync kpi %+v", last)
	}
}

func TestPublish(t *testing.T) {
	client := &fakeClient{}
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	err := Publish(context.Background(), client, syncResult(t), PublishRequest{
		Project:   "demo",
		Scenario:  "sync-4m",
		Labels:    map[string]string{"team": "media"},
		Dashboard: true,
		At:        at,
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(client.writes) != 1 || len(client.dashboards) != 1 {
		t.Fatalf("writes=%d dashboards=%d", len(client.writes), len(client.dashboards))
	}
	w := client.writes[0]
	if w.Labels["scenario"] != "sync-4m" || w.Labels["team"] != "media" || !w.At.Equal(at) {
		t.Fatalf("unexpected write %+v", w)
	}
	if client.dashboards[0].Labels[ManagedByLabel] != ManagedByValue {
		t.Fatalf("dashboard not marked managed: %v", client.dashboards[0].Labels)
	}
}

func TestPublishErrors(t *testing.T) {
	if err := Publish(context.Background(), &fakeClient{}, optimizer.Result{}, PublishRequest{}); err == nil {
		t.Fatalf("expected missing project error")
	}
	client := &fakeClient{writeErr: errors.New("quota")}
	err := Publish(context.Background(), client, optimizer.Result{}, PublishRequest{Project: "p", Dashboard: true})
	if err == nil || len(client.dashboards) != 0 {
		t.Fatalf("expected write failure to stop publish, err=%v", err)
	}
}

func TestBuildTimeSeries(t *testing.T) {
	at := time.Unix(1700000000, 0)
	series := BuildTimeSeries(WriteKPIsRequest{
		Project: "demo",
		Labels:  map[string]string{"scenario": "base"},
		Points: []KPI{
			{Name: MetricLayerSpend, Value: 2, Labels: map[string]string{LayerLabel: "tv"}},
			{Name: MetricTotalATC, Value: 1},
			{Name: MetricLayerSpend, Value: 3, Labels: map[string]string{LayerLabel: "digital"}},
		},
		At: at,
	})
	if len(series) != 3 {
		t.Fatalf("series = %d", len(series))
	}
	want := []string{
		DefaultMetricPrefix + "/" + MetricLayerSpend,
		DefaultMetricPrefix + "/" + MetricLayerSpend,
		DefaultMetricPrefix + "/" + MetricTotalATC,
	}
	for i, w := range want {
		if series[i].Metric.Type != w {
			t.Fatalf("series %d type %s, want %s", i, series[i].Metric.Type, w)
		}
	}
	first := series[0]
	if first.Metric.Labels[LayerLabel] != "digital" || first.Metric.Labels["scenario"] != "base" {
		t.Fatalf("unexpected labels %v", first.Metric.Labels)
	}
	if first.Resource.Type != "global" || first.Resource.Labels["project_id"] != "demo" {
		t.Fatalf("unexpected resource %v", first.Resource)
	}
	point := first.Points[0]
	if !point.Interval.EndTime.AsTime().Equal(at) || point.Value.GetDoubleValue() != 3 {
		t.Fatalf("unexpected point %v", point)
	}
}

func TestChunkSeries(t *testing.T) {
	series := make([]*monitoringpb.TimeSeries, 450)
	chunks := chunkSeries(series, maxSeriesPerRequest)
	if len(chunks) != 3 || len(chunks[2]) != 50 {
		t.Fatalf("unexpected chunks %d", len(chunks))
	}
	if chunkSeries(nil, 10) != nil {
		t.Fatalf("expected no chunks for empty input")
	}
}

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(ApplyDashboardRequest{MetricPrefix: "custom.googleapis.com/test/", Labels: map[string]string{"a": "b"}})
	if d.DisplayName != DashboardDisplayName || d.Labels["a"] != "b" {
		t.Fatalf("unexpected dashboard %v", d.DisplayName)
	}
	tiles := d.GetMosaicLayout().GetTiles()
	if len(tiles) != 6 {
		t.Fatalf("tiles = %d", len(tiles))
	}
	chart := tiles[4].GetWidget().GetXyChart()
	filter := chart.GetDataSets()[0].GetTimeSeriesQuery().GetTimeSeriesFilter()
	if filter.GetFilter() != `metric.type="custom.googleapis.com/test/layer_spend" AND resource.type="global"` {
		t.Fatalf("unexpected filter %s", filter.GetFilter())
	}
	if filter.GetAggregation().GetCrossSeriesReducer() != dashboardpb.Aggregation_REDUCE_MEAN {
		t.Fatalf("layer chart should reduce across scenarios")
	}
}

func TestParseLabels(t *testing.T) {
	labels, err := ParseLabels("team=media, env=prod")
	if err != nil || labels["team"] != "media" || labels["env"] != "prod" {
		t.Fatalf("unexpected %v %v", labels, err)
	}
	if _, err := ParseLabels("broken"); err == nil {
		t.Fatalf("expected error")
	}
	if !hasManagedLabel(ManagedLabels(nil), map[string]string{ManagedByLabel: ManagedByValue}) {
		t.Fatalf("managed labels should match filter")
	}
	if hasManagedLabel(nil, nil) {
		t.Fatalf("empty labels never match")
	}
}
