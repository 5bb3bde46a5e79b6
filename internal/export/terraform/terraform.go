package terraform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bayneri/crossmix/internal/monitoring"
)

const outputFile = "main.tf.json"

type Request struct {
	Project      string
	MetricPrefix string
	Labels       map[string]string
}

// metricDescriptors lists every KPI crossmix publishes and its labels.
var metricDescriptors = []struct {
	name        string
	displayName string
	unit        string
	labels      []string
}{
	{monitoring.MetricTotalATC, "Total ATC", "1", nil},
	{monitoring.MetricATCLift, "ATC lift", "%", nil},
	{monitoring.MetricATCGain, "ATC gain", "1", nil},
	{monitoring.MetricLayerSpend, "Spend by layer", "1", []string{monitoring.LayerLabel}},
	{monitoring.MetricLayerATC, "ATC by layer", "1", []string{monitoring.LayerLabel}},
}

// Write emits a terraform JSON config declaring the KPI metric
// descriptors and the KPI dashboard.
func Write(req Request, outDir string) (string, error) {
	if outDir == "" {
		outDir = filepath.Join("out", "terraform")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	dashboardJSON, err := monitoring.BuildDashboardJSON(monitoring.ApplyDashboardRequest{
		Project:      req.Project,
		MetricPrefix: req.MetricPrefix,
		Labels:       monitoring.ManagedLabels(req.Labels),
	})
	if err != nil {
		return "", err
	}
	cfg := map[string]interface{}{
		"terraform": map[string]interface{}{
			"required_providers": map[string]interface{}{
				"google": map[string]interface{}{
					"source":  "hashicorp/google",
					"version": ">= 5.0",
				},
			},
		},
		"provider": map[string]interface{}{
			"google": map[string]interface{}{
				"project": req.Project,
			},
		},
		"resource": buildResources(req, dashboardJSON),
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')
	path := filepath.Join(outDir, outputFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func buildResources(req Request, dashboardJSON string) map[string]map[string]interface{} {
	resources := map[string]map[string]interface{}{}

	prefix := req.MetricPrefix
	if prefix == "" {
		prefix = monitoring.DefaultMetricPrefix
	}
	descriptors := map[string]interface{}{}
	for _, d := range metricDescriptors {
		labels := []map[string]interface{}{{
			"key":         monitoring.ScenarioLabel,
			"value_type":  "STRING",
			"description": "Scenario name given to crossmix publish.",
		}}
		for _, l := range d.labels {
			labels = append(labels, map[string]interface{}{"key": l, "value_type": "STRING"})
		}
		descriptors[tfName("metric", d.name)] = map[string]interface{}{
			"project":      req.Project,
			"type":         strings.TrimSuffix(prefix, "/") + "/" + d.name,
			"display_name": d.displayName,
			"description":  fmt.Sprintf("crossmix %s per published scenario.", strings.ToLower(d.displayName)),
			"metric_kind":  "GAUGE",
			"value_type":   "DOUBLE",
			"unit":         d.unit,
			"labels":       labels,
		}
	}
	resources["google_monitoring_metric_descriptor"] = descriptors

	resources["google_monitoring_dashboard"] = map[string]interface{}{
		"crossmix_kpis": map[string]interface{}{
			"project":        req.Project,
			"dashboard_json": dashboardJSON,
		},
	}
	return resources
}

func tfName(prefix, value string) string {
	normalized := strings.ToLower(value)
	var out []rune
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	if len(out) == 0 || (out[0] >= '0' && out[0] <= '9') {
		return fmt.Sprintf("%s_%s", prefix, string(out))
	}
	return string(out)
}
