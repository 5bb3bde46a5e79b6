package dataset

import (
	"errors"
	"fmt"
	"strings"
)

func (d Dataset) Validate() error {
	var errs []string
	if d.Version != VersionV1 {
		errs = append(errs, fmt.Sprintf("version must be %q", VersionV1))
	}
	errs = append(errs, validatePlatform("platformA", d.PlatformAMetric)...)
	errs = append(errs, validatePlatform("platformB", d.PlatformBMetric)...)

	if len(d.RegionTable) == 0 {
		errs = append(errs, "at least one region is required")
	}
	seen := map[Region]bool{}
	for i, r := range d.RegionTable {
		prefix := fmt.Sprintf("regions[%d]", i)
		if !r.Region.Valid() {
			errs = append(errs, fmt.Sprintf("%s.region %q is not a known region code", prefix, r.Region))
		}
		if seen[r.Region] {
			errs = append(errs, fmt.Sprintf("%s.region %q is duplicated", prefix, r.Region))
		}
		seen[r.Region] = true
		if r.Spend < 0 || r.ATC < 0 {
			errs = append(errs, fmt.Sprintf("%s spend and atc must not be negative", prefix))
		}
	}

	for i, c := range d.ChannelTable {
		prefix := fmt.Sprintf("channels[%d]", i)
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, fmt.Sprintf("%s.name is required", prefix))
		}
		if !c.Region.Valid() {
			errs = append(errs, fmt.Sprintf("%s.region %q is not a known region code", prefix, c.Region))
		}
		if c.ImpactScore < 0 || c.ImpactScore > 100 {
			errs = append(errs, fmt.Sprintf("%s.impactScore must be between 0 and 100", prefix))
		}
		if c.Spend < 0 || c.ATC < 0 {
			errs = append(errs, fmt.Sprintf("%s spend and atc must not be negative", prefix))
		}
	}

	if len(d.SyncTable) == 0 {
		errs = append(errs, "at least one sync scenario is required")
	}
	spends := map[float64]bool{}
	for i, s := range d.SyncTable {
		prefix := fmt.Sprintf("syncScenarios[%d]", i)
		if s.Spend <= 0 {
			errs = append(errs, fmt.Sprintf("%s.spend must be positive", prefix))
		}
		if spends[s.Spend] {
			errs = append(errs, fmt.Sprintf("%s.spend %.0f is duplicated", prefix, s.Spend))
		}
		spends[s.Spend] = true
	}

	for from, to := range d.AliasTable {
		if NormalizeName(from) != from {
			errs = append(errs, fmt.Sprintf("alias %q must be normalized", from))
		}
		if strings.TrimSpace(to) == "" {
			errs = append(errs, fmt.Sprintf("alias %q has an empty target", from))
		}
	}

	for _, name := range d.PlanNames() {
		for i, row := range d.Plans[name] {
			prefix := fmt.Sprintf("plans.%s[%d]", name, i)
			if strings.TrimSpace(row.Name) == "" {
				errs = append(errs, fmt.Sprintf("%s.name is required", prefix))
			}
			if strings.TrimSpace(row.Region) == "" {
				errs = append(errs, fmt.Sprintf("%s.region is required", prefix))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validatePlatform(prefix string, p PlatformMetric) []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Sprintf("%s.name is required", prefix))
	}
	if p.Spend < 0 || p.ATC < 0 {
		errs = append(errs, fmt.Sprintf("%s spend and atc must not be negative", prefix))
	}
	return errs
}
