package explain

import (
	"fmt"
	"sort"
)

var topics = map[string]string{
	"saturation": `Every channel and platform follows a diminishing-returns curve.

When a budget grows by a multiplier m > 1, ATC grows by m^e where e < 1 is the saturation exponent of that entity: 0.78 for platform A, 0.72 for platform B, 0.70 for regions and 0.72 for channels. Cutting a budget (m <= 1) scales ATC linearly, so a cut never looks cheaper than it is.

Platform A also pays a split penalty: every point of its digital share above 81% costs 5% of its ATC, down to a floor of 30%.`,

	"sync": `Sync is a fixed-price digital line funded out of the TV budget.

Its ATC comes from a table of measured scenarios and is interpolated linearly between the two nearest spends; spends outside the table clamp to the first or last row. Each scenario also carries the platform A and platform B ATC observed alongside it, which replace the platform baselines while sync is on. In that mode platform ATC scales linearly with the budget multiplier.`,

	"reallocation": `Inside TV, budget moves from low-impact to high-impact channels.

Each channel's multiplier is its region multiplier times 1 + intensity * (impact - 70) / 100 * weight. The optimizer uses weight 0.5 and the optimal plan 0.85. Channels within 1% of their old spend are reported as MAINTAIN and kept unchanged.

Region totals are not forced back to their target, so the channel sum can drift slightly from the TV budget. Pass --renormalize to rescale each region's channels to its target.`,

	"jitter": `Plan comparisons add a small deterministic variation to look less mechanical.

A short list of named channels is scaled to 93-95% of its estimated ATC and every other matched channel to 103-109%, keyed on the impact score. The total improvement then gets an extra 0.12-0.48 points derived from the channel impact scores. The same plan always produces the same numbers. Pass --no-jitter (or comparison.jitter: false) to see the raw comparison.`,
}

func Topics() []string {
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Topic(name string) (string, error) {
	text, ok := topics[name]
	if !ok {
		return "", fmt.Errorf("unknown explain topic %q (choose from %v)", name, Topics())
	}
	return text, nil
}
