package baseline

import (
	"math"
	"testing"

	"github.com/bayneri/crossmix/internal/dataset"
)

func TestAggregateDefault(t *testing.T) {
	d, err := dataset.Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	m := Aggregate(d)

	if m.TV.Spend != 41877941 || m.TV.ATC != 8929 {
		t.Fatalf("tv = %+v", m.TV)
	}
	if m.Digital.Spend != 10875230 || m.Digital.ATC != 12443 {
		t.Fatalf("digital = %+v", m.Digital)
	}
	if m.Total.Spend != 52753171 || m.Total.ATC != 21372 {
		t.Fatalf("total = %+v", m.Total)
	}
	if math.Abs(m.TVPct+m.DigitalPct-100) > 1e-9 {
		t.Fatalf("shares do not sum to 100: %v + %v", m.TVPct, m.DigitalPct)
	}
	if math.Abs(m.PlatformAPct-59.85379) > 1e-4 {
		t.Fatalf("platformAPct = %v", m.PlatformAPct)
	}
}

func TestAggregateEmpty(t *testing.T) {
	m := Aggregate(dataset.Dataset{})
	if m.TVPct != 0 || m.DigitalPct != 0 || m.PlatformAPct != 0 {
		t.Fatalf("expected zero shares for empty dataset, got %+v", m)
	}
}
