package monitoring

import (
	"fmt"
	"time"

	"cloud.google.com/go/monitoring/dashboard/apiv1/dashboardpb"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"
)

const DashboardDisplayName = "crossmix allocation KPIs"

func BuildDashboard(req ApplyDashboardRequest) *dashboardpb.Dashboard {
	name := req.DisplayName
	if name == "" {
		name = DashboardDisplayName
	}
	const columns int32 = 12
	tiles := []*dashboardpb.MosaicLayout_Tile{
		tile(0, 0, columns, 2, dashboardIntro(name)),
		tile(0, 2, 4, 3, scorecard("Total ATC", metricType(req.MetricPrefix, MetricTotalATC))),
		tile(4, 2, 4, 3, scorecard("ATC lift (%)", metricType(req.MetricPrefix, MetricATCLift))),
		tile(8, 2, 4, 3, scorecard("ATC gain", metricType(req.MetricPrefix, MetricATCGain))),
		tile(0, 5, 6, 4, layerChart("Spend by layer", "INR", metricType(req.MetricPrefix, MetricLayerSpend))),
		tile(6, 5, 6, 4, layerChart("ATC by layer", "ATC", metricType(req.MetricPrefix, MetricLayerATC))),
	}
	return &dashboardpb.Dashboard{
		DisplayName: name,
		Labels:      req.Labels,
		Layout: &dashboardpb.Dashboard_MosaicLayout{
			MosaicLayout: &dashboardpb.MosaicLayout{
				Columns: columns,
				Tiles:   tiles,
			},
		},
	}
}

// BuildDashboardJSON is BuildDashboard in the JSON form accepted by the
// console and the terraform provider.
func BuildDashboardJSON(req ApplyDashboardRequest) (string, error) {
	data, err := protojson.Marshal(BuildDashboard(req))
	if err != nil {
		return "", fmt.Errorf("marshal dashboard: %w", err)
	}
	return string(data), nil
}

func tile(x, y, width, height int32, widget *dashboardpb.Widget) *dashboardpb.MosaicLayout_Tile {
	return &dashboardpb.MosaicLayout_Tile{
		XPos:   x,
		YPos:   y,
		Width:  width,
		Height: height,
		Widget: widget,
	}
}

func dashboardIntro(name string) *dashboardpb.Widget {
	content := fmt.Sprintf("# %s\nPublished by `crossmix publish`. One point per run, labelled by scenario.", name)
	return &dashboardpb.Widget{
		Content: &dashboardpb.Widget_Text{
			Text: &dashboardpb.Text{
				Content: content,
				Format:  dashboardpb.Text_MARKDOWN,
			},
		},
	}
}

func gaugeQuery(filter string, groupBy ...string) *dashboardpb.TimeSeriesQuery {
	agg := &dashboardpb.Aggregation{
		AlignmentPeriod:  durationpb.New(time.Hour),
		PerSeriesAligner: dashboardpb.Aggregation_ALIGN_MEAN,
	}
	if len(groupBy) > 0 {
		agg.CrossSeriesReducer = dashboardpb.Aggregation_REDUCE_MEAN
		agg.GroupByFields = groupBy
	}
	return &dashboardpb.TimeSeriesQuery{
		Source: &dashboardpb.TimeSeriesQuery_TimeSeriesFilter{
			TimeSeriesFilter: &dashboardpb.TimeSeriesFilter{
				Filter:      filter,
				Aggregation: agg,
			},
		},
	}
}

func scorecard(title, metric string) *dashboardpb.Widget {
	filter := fmt.Sprintf("metric.type=%q AND resource.type=\"global\"", metric)
	return &dashboardpb.Widget{
		Title: title,
		Content: &dashboardpb.Widget_Scorecard{
			Scorecard: &dashboardpb.Scorecard{
				TimeSeriesQuery: gaugeQuery(filter),
			},
		},
	}
}

func layerChart(title, unit, metric string) *dashboardpb.Widget {
	filter := fmt.Sprintf("metric.type=%q AND resource.type=\"global\"", metric)
	return &dashboardpb.Widget{
		Title: title,
		Content: &dashboardpb.Widget_XyChart{
			XyChart: &dashboardpb.XyChart{
				DataSets: []*dashboardpb.XyChart_DataSet{{
					TimeSeriesQuery: gaugeQuery(filter, "metric.label."+LayerLabel),
					PlotType:        dashboardpb.XyChart_DataSet_STACKED_BAR,
				}},
				YAxis: &dashboardpb.XyChart_Axis{
					Label: unit,
					Scale: dashboardpb.XyChart_Axis_LINEAR,
				},
			},
		},
	}
}
