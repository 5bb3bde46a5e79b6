package monitoring

import (
	"context"
	"time"
)

const (
	ManagedByLabel = "managed-by"
	ManagedByValue = "crossmix"

	DefaultMetricPrefix = "custom.googleapis.com/crossmix"
)

// Client is the subset of Cloud Monitoring crossmix writes to.
type Client interface {
	WriteKPIs(ctx context.Context, req WriteKPIsRequest) error
	ApplyDashboard(ctx context.Context, req ApplyDashboardRequest) error
	DeleteManagedDashboards(ctx context.Context, req DeleteRequest) error
}

// KPI is one gauge value. Name is appended to the metric prefix.
type KPI struct {
	Name   string
	Value  float64
	Labels map[string]string
}

type WriteKPIsRequest struct {
	Project      string
	MetricPrefix string
	// Labels are added to every point, on top of the KPI's own labels.
	Labels map[string]string
	Points []KPI
	At     time.Time
}

type ApplyDashboardRequest struct {
	Project      string
	MetricPrefix string
	DisplayName  string
	Labels       map[string]string
}

type DeleteRequest struct {
	Project string
	Labels  map[string]string
}
