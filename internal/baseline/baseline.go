// Package baseline reduces the dataset tables to the aggregate figures
// every scenario is measured against.
package baseline

import (
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/model"
)

type Totals struct {
	Spend float64 `json:"spend"`
	ATC   float64 `json:"atc"`
}

type Metrics struct {
	TV           Totals                 `json:"tv"`
	Digital      Totals                 `json:"digital"`
	PlatformA    dataset.PlatformMetric `json:"platformA"`
	PlatformB    dataset.PlatformMetric `json:"platformB"`
	Total        Totals                 `json:"total"`
	TVPct        float64                `json:"tvPct"`
	DigitalPct   float64                `json:"digitalPct"`
	PlatformAPct float64                `json:"platformAPct"`
}

// Aggregate sums the region table into TV totals and the two platforms
// into digital totals.
func Aggregate(p dataset.Provider) Metrics {
	var tv Totals
	for _, r := range p.Regions() {
		tv.Spend += r.Spend
		tv.ATC += r.ATC
	}
	a, b := p.PlatformA(), p.PlatformB()
	digital := Totals{Spend: a.Spend + b.Spend, ATC: a.ATC + b.ATC}
	total := Totals{Spend: tv.Spend + digital.Spend, ATC: tv.ATC + digital.ATC}

	return Metrics{
		TV:           tv,
		Digital:      digital,
		PlatformA:    a,
		PlatformB:    b,
		Total:        total,
		TVPct:        model.SafeRatio(tv.Spend, total.Spend) * 100,
		DigitalPct:   model.SafeRatio(digital.Spend, total.Spend) * 100,
		PlatformAPct: model.SafeRatio(a.Spend, digital.Spend) * 100,
	}
}
