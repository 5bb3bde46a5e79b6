package output

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/compare"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/optimizer"
	"github.com/bayneri/crossmix/internal/planner"
	"github.com/bayneri/crossmix/internal/report"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"auto", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
	if _, err := ParseColorMode("rainbow"); err == nil {
		t.Error("expected error for invalid color mode")
	}
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if !ResolveColors(ColorAlways, false) {
		t.Error("ColorAlways should ignore NO_COLOR")
	}
	if ResolveColors(ColorAuto, true) {
		t.Error("NO_COLOR should disable auto colors")
	}
	os.Unsetenv("NO_COLOR")
	t.Setenv("TERM", "dumb")
	if ResolveColors(ColorAuto, true) {
		t.Error("TERM=dumb should disable auto colors")
	}
	t.Setenv("TERM", "xterm-256color")
	if !ResolveColors(ColorAuto, true) || ResolveColors(ColorNever, true) {
		t.Error("auto should follow config, never should win")
	}
}

func newTestPrinter(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	p := NewPrinterTo(&out, &errOut, PrinterOptions{ColorMode: ColorNever, Quiet: quiet, PlatformA: "YouTube"})
	return p, &out, &errOut
}

func TestPrinterMessages(t *testing.T) {
	p, out, errOut := newTestPrinter(false)
	p.Success("saved %s", "x.json")
	p.Warning("careful")
	p.Error("broken")
	p.Header("Title")
	if got := out.String(); !strings.Contains(got, "[OK] saved x.json") || !strings.Contains(got, "Title\n-----") {
		t.Fatalf("unexpected stdout %q", got)
	}
	if got := errOut.String(); !strings.Contains(got, "[WARN] careful") || !strings.Contains(got, "[ERROR] broken") {
		t.Fatalf("unexpected stderr %q", got)
	}
	if p.StatusBadge("INCREASE") != "INCREASE" || p.Delta(5, "+5%") != "+5%" {
		t.Fatalf("plain printer should not decorate")
	}
}

func TestQuietPrinter(t *testing.T) {
	p, out, errOut := newTestPrinter(true)
	p.Info("hidden")
	p.Warning("hidden")
	p.Error("shown")
	if err := p.Scenarios([]report.ScenarioRow{{Rank: 1}}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("quiet printer wrote %q", out.String())
	}
	if !strings.Contains(errOut.String(), "shown") || strings.Contains(errOut.String(), "hidden") {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}
}

func TestViews(t *testing.T) {
	d, err := dataset.Default()
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	base := baseline.Aggregate(d)
	p, out, _ := newTestPrinter(false)

	if err := p.Baseline(base); err != nil {
		t.Fatalf("baseline: %v", err)
	}
	if err := p.Optimize(optimizer.Compute(base, d, optimizer.DefaultParameters(), optimizer.DefaultOptions()), true); err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if err := p.Optimal(planner.Build(base, d, planner.DefaultOptions()), false); err != nil {
		t.Fatalf("optimal: %v", err)
	}
	plan, _ := d.ClientPlan("client")
	if err := p.Comparison(compare.Compare(base, d, "client", plan, compare.DefaultOptions()), false); err != nil {
		t.Fatalf("comparison: %v", err)
	}

	got := out.String()
	for _, want := range []string{"YouTube", "Platform B", "star plus", "INCREASE", "Total ATC 23.5K", "Plan comparison: client", "New channel sony max"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}
