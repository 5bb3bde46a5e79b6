package monitoring

import (
	"sort"

	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	metricpb "google.golang.org/genproto/googleapis/api/metric"
	monitoredres "google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// maxSeriesPerRequest is the CreateTimeSeries limit.
const maxSeriesPerRequest = 200

// BuildTimeSeries turns KPIs into global-resource gauge series, one point
// each, ordered by metric type then labels.
func BuildTimeSeries(req WriteKPIsRequest) []*monitoringpb.TimeSeries {
	resource := &monitoredres.MonitoredResource{
		Type:   "global",
		Labels: map[string]string{"project_id": req.Project},
	}
	end := timestamppb.New(req.At)
	var series []*monitoringpb.TimeSeries
	for _, kpi := range req.Points {
		labels := map[string]string{}
		for k, v := range req.Labels {
			labels[k] = v
		}
		for k, v := range kpi.Labels {
			labels[k] = v
		}
		series = append(series, &monitoringpb.TimeSeries{
			Metric: &metricpb.Metric{
				Type:   metricType(req.MetricPrefix, kpi.Name),
				Labels: labels,
			},
			Resource:   resource,
			MetricKind: metricpb.MetricDescriptor_GAUGE,
			ValueType:  metricpb.MetricDescriptor_DOUBLE,
			Points: []*monitoringpb.Point{{
				Interval: &monitoringpb.TimeInterval{EndTime: end},
				Value: &monitoringpb.TypedValue{
					Value: &monitoringpb.TypedValue_DoubleValue{DoubleValue: kpi.Value},
				},
			}},
		})
	}
	sort.SliceStable(series, func(i, j int) bool {
		if series[i].Metric.Type != series[j].Metric.Type {
			return series[i].Metric.Type < series[j].Metric.Type
		}
		return series[i].Metric.Labels[LayerLabel] < series[j].Metric.Labels[LayerLabel]
	})
	return series
}

func chunkSeries(series []*monitoringpb.TimeSeries, size int) [][]*monitoringpb.TimeSeries {
	var chunks [][]*monitoringpb.TimeSeries
	for len(series) > size {
		chunks = append(chunks, series[:size])
		series = series[size:]
	}
	if len(series) > 0 {
		chunks = append(chunks, series)
	}
	return chunks
}
