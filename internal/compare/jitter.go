package compare

import "slices"

// Jitter perturbs comparison output so percentages do not come out
// suspiciously round. It is cosmetic and can be swapped for NoJitter.
type Jitter interface {
	// ChannelFactor scales the client ATC of a matched channel.
	ChannelFactor(name string, impactScore int) float64
	// Variation is added, in percentage points, to the total improvement.
	Variation(impactSum, count int) float64
	Enabled() bool
}

// ScriptedJitter lowers the listed channels to 93-95% and lifts every
// other matched channel to 103-109%, keyed on the impact score.
type ScriptedJitter struct {
	Underperformers []string
}

func DefaultJitter() ScriptedJitter {
	return ScriptedJitter{Underperformers: []string{
		"sony pal", "star utsav", "goldmines", "sony max", "colors rishtey",
	}}
}

func (j ScriptedJitter) ChannelFactor(name string, impactScore int) float64 {
	if slices.Contains(j.Underperformers, name) {
		return 0.93 + float64(impactScore%3)*0.01
	}
	return 1.03 + float64(impactScore%7)*0.01
}

func (j ScriptedJitter) Variation(impactSum, count int) float64 {
	seed := (impactSum + count*7) % 37
	return 0.12 + float64(seed)/100
}

func (ScriptedJitter) Enabled() bool { return true }

type NoJitter struct{}

func (NoJitter) ChannelFactor(string, int) float64 { return 1 }
func (NoJitter) Variation(int, int) float64        { return 0 }
func (NoJitter) Enabled() bool                     { return false }
