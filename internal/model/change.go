package model

type Status string

const (
	StatusIncrease Status = "INCREASE"
	StatusDecrease Status = "DECREASE"
	StatusMaintain Status = "MAINTAIN"
)

type Threshold string

const (
	ThresholdHigh Threshold = "High"
	ThresholdLow  Threshold = "Low"
)

// PercentChange returns the change from base to value in percent, or 0
// when base is 0.
func PercentChange(value, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (value - base) / base * 100
}

// SafeRatio divides num by den, returning 0 when den is 0.
func SafeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// ClassifyChange maps a spend change in percent to a status using a
// symmetric band of bandPct around zero.
func ClassifyChange(spendChangePct, bandPct float64) Status {
	switch {
	case spendChangePct > bandPct:
		return StatusIncrease
	case spendChangePct < -bandPct:
		return StatusDecrease
	}
	return StatusMaintain
}

// ClassifySpend compares a new spend to its baseline with a relative
// tolerance (0.01 for 1%).
func ClassifySpend(newSpend, spend, tolerance float64) Status {
	switch {
	case newSpend > spend*(1+tolerance):
		return StatusIncrease
	case newSpend < spend*(1-tolerance):
		return StatusDecrease
	}
	return StatusMaintain
}

// ThresholdFor classifies a channel as protected (High) when its impact
// score reaches protectionPct.
func ThresholdFor(impactScore int, protectionPct float64) Threshold {
	if float64(impactScore) >= protectionPct {
		return ThresholdHigh
	}
	return ThresholdLow
}

// Change is a new spend/ATC pair with its percent changes against a
// baseline pair.
type Change struct {
	Spend       float64 `json:"spend"`
	ATC         float64 `json:"atc"`
	SpendChange float64 `json:"spendChange"`
	ATCChange   float64 `json:"atcChange"`
}

// NewChange pairs spend and atc with their changes against the baseline.
func NewChange(spend, atc, baseSpend, baseATC float64) Change {
	return Change{
		Spend:       spend,
		ATC:         atc,
		SpendChange: PercentChange(spend, baseSpend),
		ATCChange:   PercentChange(atc, baseATC),
	}
}
