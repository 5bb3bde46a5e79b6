package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultDataset(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("default dataset invalid: %v", err)
	}

	var tv float64
	for _, r := range d.Regions() {
		tv += r.Spend
	}
	if tv != 41877941 {
		t.Fatalf("tv spend = %.0f, want 41877941", tv)
	}
	if got := d.PlatformA().Spend + d.PlatformB().Spend; got != 10875230 {
		t.Fatalf("digital spend = %.0f, want 10875230", got)
	}
	if got := len(d.Channels()); got != 72 {
		t.Fatalf("channels = %d, want 72", got)
	}
	if got := len(d.SyncScenarios()); got != 7 {
		t.Fatalf("sync scenarios = %d, want 7", got)
	}
	if got := d.PlanNames(); strings.Join(got, ",") != "client,proposal" {
		t.Fatalf("plan names = %v", got)
	}
	client, ok := d.ClientPlan("client")
	if !ok || len(client) != 45 {
		t.Fatalf("client plan rows = %d (ok=%v), want 45", len(client), ok)
	}
	if got := d.Aliases()["sony wah"]; got != "sony max" {
		t.Fatalf("alias sony wah = %q", got)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	channels := d.Channels()
	channels[0].Spend = -1
	if d.Channels()[0].Spend == -1 {
		t.Fatalf("Channels leaked internal slice")
	}
	aliases := d.Aliases()
	aliases["zee telugu"] = "changed"
	if d.Aliases()["zee telugu"] != "gemini tv" {
		t.Fatalf("Aliases leaked internal map")
	}
	plan, _ := d.ClientPlan("client")
	plan[0].Spend = 0
	again, _ := d.ClientPlan("client")
	if again[0].Spend == 0 {
		t.Fatalf("ClientPlan leaked internal slice")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Star Plus", "star plus"},
		{"  sony   SAB ", "sony sab"},
		{"zee\ttv", "zee tv"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Fatalf("NormalizeName(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveName(t *testing.T) {
	aliases := map[string]string{"sony wah": "sony max", "9x m": "9xm"}
	cases := []struct {
		in   string
		want string
	}{
		{"Sony  Wah", "sony max"},
		{"9X M", "9xm"},
		{"Colors", "colors"},
	}
	for _, tc := range cases {
		if got := ResolveName(tc.in, aliases); got != tc.want {
			t.Fatalf("ResolveName(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMapRegionCode(t *testing.T) {
	cases := []struct {
		in   string
		want Region
	}{
		{"KAR", RegionKar},
		{"KER", RegionKer},
		{"Bihar", RegionOthers},
		{"HSM", RegionHSM},
		{"AP", RegionAP},
		{"Mars", Region("Mars")},
	}
	for _, tc := range cases {
		if got := MapRegionCode(tc.in); got != tc.want {
			t.Fatalf("MapRegionCode(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	d := Dataset{
		Version:         "v0",
		PlatformAMetric: PlatformMetric{Name: "a", Spend: 1},
		PlatformBMetric: PlatformMetric{Spend: -1},
		RegionTable: []RegionAggregate{
			{Region: RegionHSM, Spend: 1},
			{Region: "Mars", Spend: 1},
		},
		ChannelTable: []Channel{{Name: "x", Region: RegionHSM, ImpactScore: 120}},
		SyncTable:    []SyncScenario{{Spend: 10}, {Spend: 10}},
		AliasTable:   map[string]string{"Upper Case": "x"},
	}
	err := d.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{
		`version must be "v1"`,
		"platformB.name is required",
		`regions[1].region "Mars"`,
		"channels[0].impactScore",
		"syncScenarios[1].spend 10 is duplicated",
		`alias "Upper Case" must be normalized`,
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestLoadPlansRoundTrip(t *testing.T) {
	plans := map[string][]ClientPlanChannel{
		"q3": {{Name: "star plus", Region: "HSM", Spend: 1000, Genre: "entertainment"}},
	}
	data, err := MarshalPlans(plans)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "plans.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadPlans(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got["q3"]) != 1 || got["q3"][0].Spend != 1000 {
		t.Fatalf("unexpected plans %+v", got)
	}

	d, _ := Default()
	merged := d.MergePlans(got)
	if _, ok := merged.ClientPlan("q3"); !ok {
		t.Fatalf("merged dataset missing q3")
	}
	if _, ok := d.ClientPlan("q3"); ok {
		t.Fatalf("MergePlans mutated the receiver")
	}
}
