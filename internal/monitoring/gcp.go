package monitoring

import (
	"context"
	"fmt"
	"strings"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	dashboard "cloud.google.com/go/monitoring/dashboard/apiv1"
	"cloud.google.com/go/monitoring/dashboard/apiv1/dashboardpb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var (
	_ Client = (*GCPClient)(nil)
	_ Reader = (*GCPClient)(nil)
)

type GCPClient struct {
	metricClient *monitoring.MetricClient
	dashClient   *dashboard.DashboardsClient
}

// NewGCPClient uses application default credentials unless
// credentialsFile is set.
func NewGCPClient(ctx context.Context, credentialsFile string) (*GCPClient, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	metricClient, err := monitoring.NewMetricClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric client: %w", err)
	}
	dashClient, err := dashboard.NewDashboardsClient(ctx, opts...)
	if err != nil {
		metricClient.Close()
		return nil, fmt.Errorf("create dashboards client: %w", err)
	}
	return &GCPClient{metricClient: metricClient, dashClient: dashClient}, nil
}

func (c *GCPClient) Close() error {
	var errs []string
	if err := c.metricClient.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.dashClient.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("close clients: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *GCPClient) WriteKPIs(ctx context.Context, req WriteKPIsRequest) error {
	for _, chunk := range chunkSeries(BuildTimeSeries(req), maxSeriesPerRequest) {
		if err := c.metricClient.CreateTimeSeries(ctx, &monitoringpb.CreateTimeSeriesRequest{
			Name:       fmt.Sprintf("projects/%s", req.Project),
			TimeSeries: chunk,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *GCPClient) ApplyDashboard(ctx context.Context, req ApplyDashboardRequest) error {
	desired := BuildDashboard(req)

	existing, err := c.findDashboard(ctx, req.Project, desired.DisplayName)
	if err != nil {
		return err
	}
	if existing != nil {
		desired.Name = existing.Name
		desired.Etag = existing.Etag
		_, err = c.dashClient.UpdateDashboard(ctx, &dashboardpb.UpdateDashboardRequest{
			Dashboard: desired,
		})
		if status.Code(err) != codes.NotFound {
			return err
		}
		// Deleted between list and update.
		desired.Name = ""
		desired.Etag = ""
	}

	_, err = c.dashClient.CreateDashboard(ctx, &dashboardpb.CreateDashboardRequest{
		Parent:    fmt.Sprintf("projects/%s", req.Project),
		Dashboard: desired,
	})
	return err
}

func (c *GCPClient) DeleteManagedDashboards(ctx context.Context, req DeleteRequest) error {
	iter := c.dashClient.ListDashboards(ctx, &dashboardpb.ListDashboardsRequest{Parent: fmt.Sprintf("projects/%s", req.Project)})
	for {
		d, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		if !hasManagedLabel(d.Labels, req.Labels) {
			continue
		}
		err = c.dashClient.DeleteDashboard(ctx, &dashboardpb.DeleteDashboardRequest{Name: d.Name})
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
	}
}

func (c *GCPClient) findDashboard(ctx context.Context, project, displayName string) (*dashboardpb.Dashboard, error) {
	iter := c.dashClient.ListDashboards(ctx, &dashboardpb.ListDashboardsRequest{Parent: fmt.Sprintf("projects/%s", project)})
	for {
		d, err := iter.Next()
		if err == iterator.Done {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if d.DisplayName == displayName {
			return d, nil
		}
	}
}

// ReadKPIs returns the newest point of every series of one KPI within
// the window.
func (c *GCPClient) ReadKPIs(ctx context.Context, req ReadKPIsRequest) ([]KPISample, error) {
	iter := c.metricClient.ListTimeSeries(ctx, &monitoringpb.ListTimeSeriesRequest{
		Name:   fmt.Sprintf("projects/%s", req.Project),
		Filter: fmt.Sprintf("metric.type = %q", metricType(req.MetricPrefix, req.Name)),
		Interval: &monitoringpb.TimeInterval{
			StartTime: timestamppb.New(req.Start),
			EndTime:   timestamppb.New(req.End),
		},
		View: monitoringpb.ListTimeSeriesRequest_FULL,
	})
	var out []KPISample
	for {
		ts, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		// Points are returned newest first.
		if len(ts.Points) == 0 || ts.Points[0].Value == nil {
			continue
		}
		point := ts.Points[0]
		var value float64
		switch v := point.Value.GetValue().(type) {
		case *monitoringpb.TypedValue_DoubleValue:
			value = v.DoubleValue
		case *monitoringpb.TypedValue_Int64Value:
			value = float64(v.Int64Value)
		default:
			continue
		}
		out = append(out, KPISample{
			Name:   req.Name,
			Labels: ts.GetMetric().GetLabels(),
			Value:  value,
			At:     point.GetInterval().GetEndTime().AsTime(),
		})
	}
	return out, nil
}
