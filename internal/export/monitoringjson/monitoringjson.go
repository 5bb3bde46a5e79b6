package monitoringjson

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/bayneri/crossmix/internal/monitoring"
	"github.com/bayneri/crossmix/internal/optimizer"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const outputFile = "monitoring.json"

type Request struct {
	Project      string
	MetricPrefix string
	Scenario     string
	Labels       map[string]string
	At           time.Time
}

// Write renders the dashboard and the time series that publish would send
// for res, without calling the API.
func Write(res optimizer.Result, req Request, outDir string) (string, error) {
	if outDir == "" {
		outDir = filepath.Join("out", "monitoring-json")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	dashboard := monitoring.BuildDashboard(monitoring.ApplyDashboardRequest{
		Project:      req.Project,
		MetricPrefix: req.MetricPrefix,
		Labels:       monitoring.ManagedLabels(req.Labels),
	})
	dashboardJSON, err := protoToInterface(dashboard)
	if err != nil {
		return "", err
	}

	labels := map[string]string{}
	for k, v := range req.Labels {
		labels[k] = v
	}
	if req.Scenario != "" {
		labels["scenario"] = req.Scenario
	}
	at := req.At
	if at.IsZero() {
		at = time.Now()
	}
	var series []interface{}
	for _, ts := range monitoring.BuildTimeSeries(monitoring.WriteKPIsRequest{
		Project:      req.Project,
		MetricPrefix: req.MetricPrefix,
		Labels:       labels,
		Points:       monitoring.KPIsFromResult(res),
		At:           at,
	}) {
		item, err := protoToInterface(ts)
		if err != nil {
			return "", err
		}
		series = append(series, item)
	}

	payload := map[string]interface{}{
		"dashboard":  dashboardJSON,
		"timeSeries": series,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
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

func protoToInterface(msg proto.Message) (interface{}, error) {
	data, err := protojson.Marshal(msg)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
