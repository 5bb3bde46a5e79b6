package monitoring

import (
	"fmt"
	"strings"
)

// ParseLabels reads "k=v,k2=v2" as given on the command line.
func ParseLabels(input string) (map[string]string, error) {
	labels := map[string]string{}
	if strings.TrimSpace(input) == "" {
		return labels, nil
	}
	pairs := strings.Split(input, ",")
	for _, pair := range pairs {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid label %q", pair)
		}
		labels[parts[0]] = parts[1]
	}
	return labels, nil
}

// ManagedLabels returns labels with the managed-by marker added.
func ManagedLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels)+1)
	for k, v := range labels {
		out[k] = v
	}
	out[ManagedByLabel] = ManagedByValue
	return out
}

func hasManagedLabel(labels map[string]string, filter map[string]string) bool {
	if len(labels) == 0 {
		return false
	}
	for key, value := range filter {
		if labels[key] != value {
			return false
		}
	}
	return true
}

func metricType(prefix, name string) string {
	if prefix == "" {
		prefix = DefaultMetricPrefix
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}
