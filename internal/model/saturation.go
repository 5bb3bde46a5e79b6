// Package model holds the arithmetic shared by the optimizer, the optimal
// plan and the plan comparison: the saturation curve, the sync lookup and
// the change/status helpers.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// SaturationPolicy names the exponent used at every call site of
// ProjectATC. Smaller exponents mean stronger diminishing returns.
type SaturationPolicy struct {
	PlatformA        float64 `json:"platformA" mapstructure:"platform_a"`
	PlatformB        float64 `json:"platformB" mapstructure:"platform_b"`
	Region           float64 `json:"region" mapstructure:"region"`
	Channel          float64 `json:"channel" mapstructure:"channel"`
	OptimalPlatformA float64 `json:"optimalPlatformA" mapstructure:"optimal_platform_a"`
	OptimalPlatformB float64 `json:"optimalPlatformB" mapstructure:"optimal_platform_b"`
	OptimalChannel   float64 `json:"optimalChannel" mapstructure:"optimal_channel"`
}

// DefaultPolicy returns the calibrated exponents used when config sets none.
func DefaultPolicy() SaturationPolicy {
	return SaturationPolicy{
		PlatformA:        0.78,
		PlatformB:        0.72,
		Region:           0.70,
		Channel:          0.72,
		OptimalPlatformA: 0.88,
		OptimalPlatformB: 0.80,
		OptimalChannel:   0.82,
	}
}

// Validate reports every exponent outside (0,1].
func (p SaturationPolicy) Validate() error {
	var errs []string
	check := func(name string, v float64) {
		if v <= 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("%s exponent must be in (0,1], got %v", name, v))
		}
	}
	check("platformA", p.PlatformA)
	check("platformB", p.PlatformB)
	check("region", p.Region)
	check("channel", p.Channel)
	check("optimalPlatformA", p.OptimalPlatformA)
	check("optimalPlatformB", p.OptimalPlatformB)
	check("optimalChannel", p.OptimalChannel)
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ProjectATC scales baseATC by a spend multiplier. Cuts are linear;
// increases are damped by multiplier^exponent.
func ProjectATC(baseATC, multiplier, exponent float64) float64 {
	if multiplier > 1 {
		return Round(baseATC * math.Pow(multiplier, exponent))
	}
	return Round(baseATC * multiplier)
}

// Round rounds to the nearest integer with halves going toward +Inf,
// so -2.5 becomes -2.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// SplitPenalty is the efficiency cliff applied to platform A once its
// share of digital passes OptimalSplitPct.
type SplitPenalty struct {
	OptimalSplitPct float64 `json:"optimalSplitPct"`
	StepPerPct      float64 `json:"stepPerPct"`
	Floor           float64 `json:"floor"`
}

// DefaultSplitPenalty starts the cliff above an 81% split and removes 5%
// of platform A ATC per point, down to a floor of 30%.
func DefaultSplitPenalty() SplitPenalty {
	return SplitPenalty{OptimalSplitPct: 81, StepPerPct: 0.05, Floor: 0.30}
}

// Factor returns the multiplier applied to platform A ATC at splitPct.
func (p SplitPenalty) Factor(splitPct float64) float64 {
	if splitPct <= p.OptimalSplitPct {
		return 1
	}
	return math.Max(p.Floor, 1-(splitPct-p.OptimalSplitPct)*p.StepPerPct)
}

// AverageImpact is the impact score that receives no reallocation.
const AverageImpact = 70

// ReallocationFactor shifts a channel's multiplier toward high-impact
// channels. intensity is a fraction (0.15 for 15%).
func ReallocationFactor(impactScore int, intensity, weight float64) float64 {
	delta := float64(impactScore-AverageImpact) / 100
	return 1 + intensity*delta*weight
}
