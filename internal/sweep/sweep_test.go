package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/optimizer"
)

func TestParseRange(t *testing.T) {
	cases := []struct {
		in   string
		want Range
	}{
		{"79", Range{Min: 79, Max: 79}},
		{"60:90", Range{Min: 60, Max: 90, Step: 1}},
		{"60:90:5", Range{Min: 60, Max: 90, Step: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseRange(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
	for _, bad := range []string{"", "a:b", "90:60", "60:90:0", "1:2:3:4", "0:1e300:1e-300", "50:95:0.00001", "0:Inf:1", "NaN"} {
		_, err := ParseRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestRangeValues(t *testing.T) {
	assert.Equal(t, []float64{60, 65, 70}, Range{Min: 60, Max: 70, Step: 5}.Values())
	assert.Equal(t, []float64{60, 65}, Range{Min: 60, Max: 69, Step: 5}.Values())
	assert.Equal(t, []float64{79}, Fixed(79).Values())
	vals := Range{Min: 0.1, Max: 0.5, Step: 0.1}.Values()
	assert.Len(t, vals, 5)
	assert.Nil(t, Range{Min: 50, Max: 95, Step: 0.00001}.Values())
}

func TestRangeCount(t *testing.T) {
	assert.Equal(t, 7.0, Range{Min: 60, Max: 90, Step: 5}.Count())
	assert.Equal(t, 1.0, Fixed(79).Count())
	assert.Greater(t, Range{Min: 0, Max: 1e300, Step: 1e-300}.Count(), float64(MaxScenarios))
}

func TestExpandRejectsOutOfRange(t *testing.T) {
	g := DefaultGrid()
	g.TVDigitalSplit = Range{Min: 40, Max: 60, Step: 10}
	_, err := g.Expand()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tvDigitalSplitPct")

	g = DefaultGrid()
	g.TVDigitalSplit = Range{Min: 50, Max: 95, Step: 0.001}
	_, err = g.Expand()
	assert.ErrorContains(t, err, "limit")

	g = DefaultGrid()
	g.TVDigitalSplit = Range{Min: 0, Max: 1e300, Step: 1e-300}
	require.NotPanics(t, func() { _, err = g.Expand() })
	assert.ErrorContains(t, err, "limit")

	g = DefaultGrid()
	g.TVDigitalSplit = Range{Min: 50, Max: 95, Step: 1}
	g.PlatformASplit = Range{Min: 30, Max: 90, Step: 1}
	g.Intensity = Range{Min: 5, Max: 30, Step: 1}
	_, err = g.Expand()
	assert.ErrorContains(t, err, "limit")
}

func TestRun(t *testing.T) {
	d, err := dataset.Default()
	require.NoError(t, err)
	base := baseline.Aggregate(d)

	g := DefaultGrid()
	g.TVDigitalSplit = Range{Min: 70, Max: 90, Step: 5}
	g.Sync = []bool{false, true}
	rows, err := Run(context.Background(), base, d, g, Options{Optimizer: optimizer.DefaultOptions(), Workers: 3})
	require.NoError(t, err)
	require.Len(t, rows, 10)

	for i, row := range rows {
		assert.Equal(t, i+1, row.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, rows[i-1].ATC, row.ATC)
		}
		want := optimizer.Compute(base, d, row.Parameters, optimizer.DefaultOptions())
		assert.Equal(t, want.Total.ATC, row.ATC, row.Label)
	}

	top, err := Run(context.Background(), base, d, g, Options{Optimizer: optimizer.DefaultOptions(), Top: 3})
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, rows[0].Label, top[0].Label)
}

func TestRunHonoursCancellation(t *testing.T) {
	d, err := dataset.Default()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := DefaultGrid()
	g.TVDigitalSplit = Range{Min: 50, Max: 95, Step: 1}
	_, err = Run(ctx, baseline.Aggregate(d), d, g, Options{Optimizer: optimizer.DefaultOptions()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLabel(t *testing.T) {
	p := optimizer.DefaultParameters()
	assert.Equal(t, "tv=79 a=81 i=15 t=70 sync=off", Label(p))
	p.SyncEnabled = true
	assert.Equal(t, "tv=79 a=81 i=15 t=70 sync=4000000", Label(p))
}
