package report

import "github.com/shopspring/decimal"

var (
	crore    = decimal.NewFromInt(10000000)
	lakh     = decimal.NewFromInt(100000)
	thousand = decimal.NewFromInt(1000)
)

// Currency formats rupees in the Indian short scale: Cr, L and K.
func Currency(v float64) string {
	return "₹" + scaled(v, 2, 1, 0)
}

// Number formats counts in the same short scale without the symbol.
func Number(v float64) string {
	return scaled(v, 1, 1, -1)
}

// Pct formats a percentage with the given number of decimals.
func Pct(v float64, decimals int32) string {
	return decimal.NewFromFloat(v).StringFixed(decimals) + "%"
}

// SignedPct is Pct with an explicit sign for non-negative values.
func SignedPct(v float64, decimals int32) string {
	if v >= 0 {
		return "+" + Pct(v, decimals)
	}
	return Pct(v, decimals)
}

// Amount renders v with at most two decimals and no scale suffix.
func Amount(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

// scaled picks the largest unit below |v|. unitPlaces applies to Cr and
// L, kPlaces to K and plainPlaces to the unscaled value (-1 keeps up to
// three decimals).
func scaled(v float64, unitPlaces, kPlaces, plainPlaces int32) string {
	d := decimal.NewFromFloat(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	switch {
	case d.GreaterThanOrEqual(crore):
		return sign + d.Div(crore).StringFixed(unitPlaces) + " Cr"
	case d.GreaterThanOrEqual(lakh):
		return sign + d.Div(lakh).StringFixed(unitPlaces) + " L"
	case d.GreaterThanOrEqual(thousand):
		return sign + d.Div(thousand).StringFixed(kPlaces) + "K"
	}
	if plainPlaces < 0 {
		return sign + d.Round(3).String()
	}
	return sign + d.StringFixed(plainPlaces)
}
