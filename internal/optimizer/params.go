package optimizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bayneri/crossmix/internal/model"
)

// Parameters is one position of the allocation controls. All percentages
// are expressed 0-100.
type Parameters struct {
	TVDigitalSplitPct      float64 `json:"tvDigitalSplitPct" mapstructure:"tv_digital_split"`
	PlatformASplitPct      float64 `json:"platformASplitPct" mapstructure:"platform_a_split"`
	IntensityPct           float64 `json:"intensityPct" mapstructure:"intensity"`
	ProtectionThresholdPct float64 `json:"protectionThresholdPct" mapstructure:"protection_threshold"`
	SyncEnabled            bool    `json:"syncEnabled" mapstructure:"sync_enabled"`
	SyncBudget             float64 `json:"syncBudget" mapstructure:"sync_budget"`
	Renormalize            bool    `json:"renormalize,omitempty" mapstructure:"renormalize"`
}

func DefaultParameters() Parameters {
	return Parameters{
		TVDigitalSplitPct:      79,
		PlatformASplitPct:      81,
		IntensityPct:           15,
		ProtectionThresholdPct: 70,
		SyncBudget:             4000000,
	}
}

// ActiveSyncBudget is the sync spend carved out of TV, 0 when disabled.
func (p Parameters) ActiveSyncBudget() float64 {
	if !p.SyncEnabled {
		return 0
	}
	return p.SyncBudget
}

// Validate checks the control ranges exposed to users. Compute does not
// call it.
func (p Parameters) Validate() error {
	var errs []string
	inRange := func(name string, v, lo, hi float64) {
		if v < lo || v > hi {
			errs = append(errs, fmt.Sprintf("%s must be between %g and %g, got %g", name, lo, hi, v))
		}
	}
	inRange("tvDigitalSplitPct", p.TVDigitalSplitPct, 50, 95)
	inRange("platformASplitPct", p.PlatformASplitPct, 30, 90)
	inRange("intensityPct", p.IntensityPct, 5, 30)
	inRange("protectionThresholdPct", p.ProtectionThresholdPct, 50, 90)
	if p.SyncEnabled && p.SyncBudget <= 0 {
		errs = append(errs, "syncBudget must be positive when sync is enabled")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Options carries the tuning constants of the optimizer.
type Options struct {
	Policy          model.SaturationPolicy
	Penalty         model.SplitPenalty
	ChannelWeight   float64
	MaintainBandPct float64
}

func DefaultOptions() Options {
	return Options{
		Policy:          model.DefaultPolicy(),
		Penalty:         model.DefaultSplitPenalty(),
		ChannelWeight:   0.5,
		MaintainBandPct: 1,
	}
}
