// Package importer converts a client media plan spreadsheet export into
// the plans YAML read by the dataset loader.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bayneri/crossmix/internal/dataset"
)

var requiredColumns = []string{"channel", "region", "spend", "genre"}

type Options struct {
	Name string
	// Aliases is used only to detect rows naming the same channel twice.
	Aliases map[string]string
}

type Result struct {
	Name     string
	Plan     []dataset.ClientPlanChannel
	Warnings []string
}

// Import reads a CSV with a header row naming channel, region, spend and
// genre in any order. Rows that cannot be used are skipped with a warning;
// the import only fails when nothing usable remains.
func Import(r io.Reader, opts Options) (Result, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return Result{}, errors.New("--name is required")
	}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Result{}, errors.New("empty plan file")
	}
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return Result{}, err
	}

	res := Result{Name: opts.Name}
	seen := map[string]int{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return Result{}, fmt.Errorf("line %d: %w", line, err)
		}
		row, warn, ok := parseRow(record, cols)
		if warn != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %s", line, warn))
		}
		if !ok {
			continue
		}
		key := dataset.ResolveName(row.Name, opts.Aliases)
		if prev, dup := seen[key]; dup {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %q repeats line %d", line, row.Name, prev))
		}
		seen[key] = line
		res.Plan = append(res.Plan, row)
	}
	if len(res.Plan) == 0 {
		return Result{}, errors.New("no usable rows found to import")
	}
	return res, nil
}

func ImportFile(path string, opts Options) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()
	return Import(f, opts)
}

// Write stores the imported plan under its name in a plans file. Plans
// already in the file are kept unless they share the name.
func Write(path string, res Result) error {
	plans := map[string][]dataset.ClientPlanChannel{}
	if _, err := os.Stat(path); err == nil {
		existing, err := dataset.LoadPlans(path)
		if err != nil {
			return err
		}
		for name, plan := range existing {
			plans[name] = plan
		}
	}
	plans[res.Name] = res.Plan
	data, err := dataset.MarshalPlans(plans)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func columnIndex(header []string) (map[string]int, error) {
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int) (dataset.ClientPlanChannel, string, bool) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	name := field("channel")
	if name == "" {
		return dataset.ClientPlanChannel{}, "missing channel name", false
	}
	spend, err := parseSpend(field("spend"))
	if err != nil {
		return dataset.ClientPlanChannel{}, fmt.Sprintf("%s: invalid spend %q", name, field("spend")), false
	}
	row := dataset.ClientPlanChannel{
		Name:   name,
		Region: field("region"),
		Spend:  spend,
		Genre:  strings.ToLower(field("genre")),
	}
	var warns []string
	if !dataset.MapRegionCode(row.Region).Valid() {
		warns = append(warns, fmt.Sprintf("unknown region %q", row.Region))
	}
	if spend <= 0 {
		warns = append(warns, "non-positive spend, row is ignored by comparisons")
	}
	if len(warns) > 0 {
		return row, name + ": " + strings.Join(warns, "; "), true
	}
	return row, "", true
}

// parseSpend accepts plain numbers with optional rupee sign and grouping
// commas, e.g. "₹12,50,000".
func parseSpend(value string) (float64, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "₹")
	value = strings.ReplaceAll(value, ",", "")
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
