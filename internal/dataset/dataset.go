package dataset

import (
	"maps"
	"slices"
	"sort"
)

const VersionV1 = "v1"

// Region is a TV region code. The set of codes is closed.
type Region string

const (
	RegionHSM    Region = "HSM"
	RegionAP     Region = "AP"
	RegionTN     Region = "TN"
	RegionKar    Region = "Kar"
	RegionKer    Region = "Ker"
	RegionWB     Region = "WB"
	RegionSports Region = "Sports"
	RegionOthers Region = "Others"
)

// RegionOrder is the display order used by reports and rollups.
var RegionOrder = []Region{
	RegionHSM, RegionAP, RegionTN, RegionKar, RegionKer, RegionWB, RegionSports, RegionOthers,
}

func (r Region) Valid() bool {
	return slices.Contains(RegionOrder, r)
}

// RegionRank returns the display position of r, unknown codes sort last.
func RegionRank(r Region) int {
	if i := slices.Index(RegionOrder, r); i >= 0 {
		return i
	}
	return len(RegionOrder)
}

type PlatformMetric struct {
	Name        string  `yaml:"name" json:"name"`
	Spend       float64 `yaml:"spend" json:"spend"`
	ATC         float64 `yaml:"atc" json:"atc"`
	Impressions float64 `yaml:"impressions,omitempty" json:"impressions,omitempty"`
	Searches    float64 `yaml:"searches,omitempty" json:"searches,omitempty"`
	ReachPct    float64 `yaml:"reachPct,omitempty" json:"reachPct,omitempty"`
	Frequency   float64 `yaml:"frequency,omitempty" json:"frequency,omitempty"`
	CPM         float64 `yaml:"cpm,omitempty" json:"cpm,omitempty"`
}

type RegionAggregate struct {
	Region       Region  `yaml:"region" json:"region"`
	Spend        float64 `yaml:"spend" json:"spend"`
	ATC          float64 `yaml:"atc" json:"atc"`
	ChannelCount int     `yaml:"channelCount" json:"channelCount"`
	ReachPct     float64 `yaml:"reachPct" json:"reachPct"`
}

type Channel struct {
	Name        string  `yaml:"name" json:"name"`
	Region      Region  `yaml:"region" json:"region"`
	Genre       string  `yaml:"genre" json:"genre"`
	Spend       float64 `yaml:"spend" json:"spend"`
	ReachPct    float64 `yaml:"reachPct" json:"reachPct"`
	ATC         float64 `yaml:"atc" json:"atc"`
	ImpactScore int     `yaml:"impactScore" json:"impactScore"`
}

// SyncScenario is one known operating point of the sync spend line.
// PlatformAATC and PlatformBATC are the platform ATC values observed at
// that sync spend.
type SyncScenario struct {
	Spend        float64 `yaml:"spend" json:"spend"`
	ATC          float64 `yaml:"atc" json:"atc"`
	CostPerATC   float64 `yaml:"costPerATC" json:"costPerATC"`
	PlatformAATC float64 `yaml:"platformAATC" json:"platformAATC"`
	PlatformBATC float64 `yaml:"platformBATC" json:"platformBATC"`
}

// ClientPlanChannel is a row of an alternate plan as supplied by the client.
// Region is kept raw; use MapRegionCode to resolve it.
type ClientPlanChannel struct {
	Name   string  `yaml:"name" json:"name"`
	Region string  `yaml:"region" json:"region"`
	Spend  float64 `yaml:"spend" json:"spend"`
	Genre  string  `yaml:"genre" json:"genre"`
}

// Provider is the read-only view of the baseline tables. Every accessor
// returns a copy so callers cannot mutate shared state.
type Provider interface {
	PlatformA() PlatformMetric
	PlatformB() PlatformMetric
	Regions() []RegionAggregate
	Channels() []Channel
	SyncScenarios() []SyncScenario
	Aliases() map[string]string
	ClientPlan(name string) ([]ClientPlanChannel, bool)
	PlanNames() []string
}

type Dataset struct {
	Version         string                         `yaml:"version"`
	Name            string                         `yaml:"name"`
	PlatformAMetric PlatformMetric                 `yaml:"platformA"`
	PlatformBMetric PlatformMetric                 `yaml:"platformB"`
	RegionTable     []RegionAggregate              `yaml:"regions"`
	SyncTable       []SyncScenario                 `yaml:"syncScenarios"`
	ChannelTable    []Channel                      `yaml:"channels"`
	AliasTable      map[string]string              `yaml:"aliases"`
	Plans           map[string][]ClientPlanChannel `yaml:"plans"`
}

var _ Provider = Dataset{}

func (d Dataset) PlatformA() PlatformMetric { return d.PlatformAMetric }
func (d Dataset) PlatformB() PlatformMetric { return d.PlatformBMetric }

func (d Dataset) Regions() []RegionAggregate { return slices.Clone(d.RegionTable) }
func (d Dataset) Channels() []Channel        { return slices.Clone(d.ChannelTable) }

func (d Dataset) SyncScenarios() []SyncScenario { return slices.Clone(d.SyncTable) }

func (d Dataset) Aliases() map[string]string {
	if d.AliasTable == nil {
		return map[string]string{}
	}
	return maps.Clone(d.AliasTable)
}

func (d Dataset) ClientPlan(name string) ([]ClientPlanChannel, bool) {
	plan, ok := d.Plans[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(plan), true
}

func (d Dataset) PlanNames() []string {
	names := make([]string, 0, len(d.Plans))
	for name := range d.Plans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegionIndex returns the regions of p keyed by code.
func RegionIndex(p Provider) map[Region]RegionAggregate {
	regions := p.Regions()
	out := make(map[Region]RegionAggregate, len(regions))
	for _, r := range regions {
		out[r.Region] = r
	}
	return out
}
