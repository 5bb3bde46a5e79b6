package csvexport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/model"
	"github.com/bayneri/crossmix/internal/optimizer"
)

func TestWriteBaseline(t *testing.T) {
	channels := []dataset.Channel{
		{Name: "zee tv", Region: dataset.RegionHSM, Genre: "entertainment", Spend: 1000, ReachPct: 4.25, ATC: 12, ImpactScore: 87},
		{Name: "Asianet", Region: dataset.RegionKer, Genre: "entertainment", Spend: 500.5, ReachPct: 2, ATC: 3, ImpactScore: 80},
		{Name: "colors", Region: dataset.RegionHSM, Genre: "say \"hi\"", Spend: 2000, ReachPct: 3, ATC: 20, ImpactScore: 84},
	}
	var buf bytes.Buffer
	if err := WriteBaseline(&buf, channels); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	want := []string{
		"Channel,Region,Genre,Reach %,Impact Score,Current Spend,ATC",
		`"colors","HSM","say ""hi""","3.0","84","2000","20"`,
		`"zee tv","HSM","entertainment","4.3","87","1000","12"`,
		`"Asianet","Ker","entertainment","2.0","80","500.5","3"`,
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %d:\n%s", len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %s, want %s", i, lines[i], want[i])
		}
	}
}

func TestWriteOptimizedParsesAsCSV(t *testing.T) {
	d, err := dataset.Default()
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	res := optimizer.Compute(baseline.Aggregate(d), d, optimizer.DefaultParameters(), optimizer.DefaultOptions())
	var buf bytes.Buffer
	if err := WriteOptimized(&buf, res.Channels); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != len(res.Channels)+1 {
		t.Fatalf("records = %d", len(records))
	}
	if records[0][6] != "Optimized Spend" || len(records[0]) != 9 {
		t.Fatalf("unexpected header %v", records[0])
	}
	for _, r := range records[1:] {
		switch model.Status(r[7]) {
		case model.StatusIncrease, model.StatusDecrease, model.StatusMaintain:
		default:
			t.Fatalf("unexpected status %q", r[7])
		}
	}
	if records[1][1] != "AP" {
		t.Fatalf("rows should be sorted by region, first is %v", records[1])
	}
}

func TestFileName(t *testing.T) {
	day := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	if got := FileName(true, day); got != "TV_Channels_All_Markets_Optimized_2025-03-09.csv" {
		t.Fatalf("got %s", got)
	}
	if got := FileName(false, day); got != "TV_Channels_All_Markets_Baseline_2025-03-09.csv" {
		t.Fatalf("got %s", got)
	}
}
