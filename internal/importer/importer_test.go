package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bayneri/crossmix/internal/dataset"
)

const planCSV = `Genre,Channel,Region,Spend
entertainment,Star Plus,HSM,"₹9,02,730"
movies,Gemini Movies,AP,250000
entertainment,Sony Max,XYZ,100
entertainment,,HSM,10
news,Aaj Tak,HSM,abc
entertainment,star  plus,HSM,0
`

func TestImport(t *testing.T) {
	res, err := Import(strings.NewReader(planCSV), Options{Name: "q3"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Name != "q3" || len(res.Plan) != 4 {
		t.Fatalf("unexpected plan %+v", res.Plan)
	}
	first := res.Plan[0]
	if first.Name != "Star Plus" || first.Region != "HSM" || first.Spend != 902730 || first.Genre != "entertainment" {
		t.Fatalf("unexpected first row %+v", first)
	}
	want := []string{
		`line 4: Sony Max: unknown region "XYZ"`,
		"line 5: missing channel name",
		`line 6: Aaj Tak: invalid spend "abc"`,
		"line 7: star  plus: non-positive spend, row is ignored by comparisons",
		`line 7: "star  plus" repeats line 2`,
	}
	if len(res.Warnings) != len(want) {
		t.Fatalf("warnings = %v", res.Warnings)
	}
	for i := range want {
		if res.Warnings[i] != want[i] {
			t.Fatalf("warning %d = %q, want %q", i, res.Warnings[i], want[i])
		}
	}
}

func TestImportErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts Options
		want string
	}{
		{"no name", "channel,region,spend,genre\n", Options{}, "--name"},
		{"empty", "", Options{Name: "x"}, "empty"},
		{"missing columns", "channel,spend\n", Options{Name: "x"}, "region, genre"},
		{"no rows", "channel,region,spend,genre\n,HSM,1,news\n", Options{Name: "x"}, "no usable rows"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tc.in), tc.opts)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestKarnatakaCodeIsKnown(t *testing.T) {
	res, err := Import(strings.NewReader("channel,region,spend,genre\nudaya tv,KAR,100,entertainment\n"), Options{Name: "k"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("KAR should map to a known region: %v", res.Warnings)
	}
}

func TestWriteMergesPlans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "plans.yaml")
	first := Result{Name: "a", Plan: []dataset.ClientPlanChannel{{Name: "x", Region: "HSM", Spend: 1, Genre: "news"}}}
	second := Result{Name: "b", Plan: []dataset.ClientPlanChannel{{Name: "y", Region: "AP", Spend: 2, Genre: "movies"}}}
	if err := Write(path, first); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := Write(path, second); err != nil {
		t.Fatalf("write b: %v", err)
	}
	plans, err := dataset.LoadPlans(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(plans) != 2 || plans["a"][0].Name != "x" || plans["b"][0].Spend != 2 {
		t.Fatalf("unexpected plans %+v", plans)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
