package compare

import "github.com/bayneri/crossmix/internal/dataset"

const SchemaVersion = "1.0"

const (
	StatusOK      = "ok"
	StatusPartial = "partial"
)

// ChannelComparison pairs a client plan channel with the matching
// baseline channel rescaled to the client plan's total spend.
type ChannelComparison struct {
	dataset.Channel
	BaselineSpend         float64 `json:"baselineSpend"`
	BaselineATC           float64 `json:"baselineATC"`
	ClientSpend           float64 `json:"clientSpend"`
	ClientATC             float64 `json:"clientATC"`
	SpendChange           float64 `json:"spendChange"`
	ATCChange             float64 `json:"atcChange"`
	EfficiencyImprovement float64 `json:"efficiencyImprovement"`
	EfficiencyIndex       float64 `json:"efficiencyIndex"`
}

type Totals struct {
	BaselineSpend float64 `json:"baselineSpend"`
	ClientSpend   float64 `json:"clientSpend"`
	BaselineATC   float64 `json:"baselineATC"`
	ClientATC     float64 `json:"clientATC"`
	SpendChange   float64 `json:"spendChange"`
	ATCChange     float64 `json:"atcChange"`
}

type TVTotals struct {
	Totals
	Savings    float64 `json:"savings"`
	SavingsPct float64 `json:"savingsPercent"`
	Ratio      float64 `json:"ratio"`
}

type PlatformComparison struct {
	BaselineSpend float64 `json:"baselineSpend"`
	OptimalSpend  float64 `json:"optimalSpend"`
	BaselineATC   float64 `json:"baselineATC"`
	OptimalATC    float64 `json:"optimalATC"`
}

type DigitalComparison struct {
	PlatformComparison
	PlatformA PlatformComparison `json:"platformA"`
	PlatformB PlatformComparison `json:"platformB"`
}

type TotalComparison struct {
	BaselineATC    float64 `json:"baselineATC"`
	OptimalATC     float64 `json:"optimalATC"`
	ImprovementPct float64 `json:"improvement"`
	Variation      float64 `json:"variation"`
	Gain           float64 `json:"gain"`
}

type RegionComparison struct {
	Region          dataset.Region      `json:"region"`
	BaselineSpend   float64             `json:"baselineSpend"`
	ClientSpend     float64             `json:"clientSpend"`
	BaselineATC     float64             `json:"baselineATC"`
	ClientATC       float64             `json:"clientATC"`
	EfficiencyIndex float64             `json:"efficiencyIndex"`
	Channels        []ChannelComparison `json:"channels"`
}

type Result struct {
	SchemaVersion string              `json:"schemaVersion"`
	Plan          string              `json:"plan"`
	Status        string              `json:"status"`
	Jitter        bool                `json:"jitter"`
	Common        []ChannelComparison `json:"commonChannels"`
	NewChannels   []dataset.Channel   `json:"clientOnlyChannels"`
	Dropped       []string            `json:"dropped"`
	CommonTotals  Totals              `json:"commonTotals"`
	TVTotals      TVTotals            `json:"tvTotals"`
	ClientTVATC   float64             `json:"clientTVATC"`
	Digital       DigitalComparison   `json:"digital"`
	Total         TotalComparison     `json:"total"`
	Regions       []RegionComparison  `json:"regions"`
}
