package terraform

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTerraform(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(Request{Project: "demo", MetricPrefix: "custom.googleapis.com/media/"}, dir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("expected output in temp dir, got %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var cfg struct {
		Resource map[string]map[string]map[string]interface{} `json:"resource"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	descriptors := cfg.Resource["google_monitoring_metric_descriptor"]
	if len(descriptors) != len(metricDescriptors) {
		t.Fatalf("descriptors = %d", len(descriptors))
	}
	if got := descriptors["layer_spend"]["type"]; got != "custom.googleapis.com/media/layer_spend" {
		t.Fatalf("unexpected metric type %v", got)
	}
	dash, ok := cfg.Resource["google_monitoring_dashboard"]["crossmix_kpis"]
	if !ok {
		t.Fatalf("expected dashboard resource")
	}
	var dashboard map[string]interface{}
	if err := json.Unmarshal([]byte(dash["dashboard_json"].(string)), &dashboard); err != nil {
		t.Fatalf("dashboard_json is not JSON: %v", err)
	}
	if dashboard["displayName"] != "crossmix allocation KPIs" {
		t.Fatalf("unexpected dashboard %v", dashboard["displayName"])
	}
}

func TestTFName(t *testing.T) {
	cases := map[string]string{
		"total_atc": "total_atc",
		"ATC Lift":  "atc_lift",
		"9lives":    "metric_9lives",
	}
	for in, want := range cases {
		if got := tfName("metric", in); got != want {
			t.Fatalf("tfName(%q) = %q, want %q", in, got, want)
		}
	}
}
