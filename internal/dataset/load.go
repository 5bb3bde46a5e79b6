package dataset

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the embedded baseline tables.
func Default() (Dataset, error) {
	d, err := Parse(defaultYAML)
	if err != nil {
		return Dataset{}, fmt.Errorf("embedded dataset: %w", err)
	}
	return d, nil
}

func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	return d, nil
}

// LoadOrDefault loads path, or the embedded tables when path is empty.
func LoadOrDefault(path string) (Dataset, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// MarshalPlans renders named plans in the layout used by the plans
// section of a dataset file.
func MarshalPlans(plans map[string][]ClientPlanChannel) ([]byte, error) {
	doc := struct {
		Plans map[string][]ClientPlanChannel `yaml:"plans"`
	}{Plans: plans}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal plans: %w", err)
	}
	return out, nil
}

// MergePlans returns a copy of d whose plans include extra; entries in
// extra replace plans of the same name.
func (d Dataset) MergePlans(extra map[string][]ClientPlanChannel) Dataset {
	merged := make(map[string][]ClientPlanChannel, len(d.Plans)+len(extra))
	for name, plan := range d.Plans {
		merged[name] = plan
	}
	for name, plan := range extra {
		merged[name] = plan
	}
	d.Plans = merged
	return d
}

// LoadPlans reads a plans-only YAML document such as one written by the
// importer.
func LoadPlans(path string) (map[string][]ClientPlanChannel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans: %w", err)
	}
	var doc struct {
		Plans map[string][]ClientPlanChannel `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plans: %w", err)
	}
	return doc.Plans, nil
}
