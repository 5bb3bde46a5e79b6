package report

import "testing"

func TestCurrency(t *testing.T) {
	cases := map[float64]string{
		41675005.09: "₹4.17 Cr",
		2299699.3:   "₹23.00 L",
		4500:        "₹4.5K",
		999.4:       "₹999",
		0:           "₹0",
	}
	for in, want := range cases {
		if got := Currency(in); got != want {
			t.Fatalf("Currency(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestNumber(t *testing.T) {
	cases := map[float64]string{
		23507:   "23.5K",
		999:     "999",
		12.3456: "12.346",
		-1500:   "-1.5K",
	}
	for in, want := range cases {
		if got := Number(in); got != want {
			t.Fatalf("Number(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPercentages(t *testing.T) {
	if got := Pct(9.98974, 2); got != "9.99%" {
		t.Fatalf("Pct = %q", got)
	}
	if got := SignedPct(9.98974, 1); got != "+10.0%" {
		t.Fatalf("SignedPct positive = %q", got)
	}
	if got := SignedPct(-4.5, 1); got != "-4.5%" {
		t.Fatalf("SignedPct negative = %q", got)
	}
}

func TestAmount(t *testing.T) {
	if got := Amount(11167027.71881); got != "11167027.72" {
		t.Fatalf("Amount = %q", got)
	}
	if got := Amount(100); got != "100" {
		t.Fatalf("Amount = %q", got)
	}
}
