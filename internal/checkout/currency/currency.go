// Package currency classifies currencies for the hosted checkout widget.
package currency

// Zero-decimal currencies have no fractional subunit, so amounts are sent to
// the widget as-is instead of being scaled to the smallest unit.
var zeroDecimal = map[string]struct{}{
	"BIF": {}, "XAF": {}, "XPF": {}, "CLP": {}, "KMF": {},
	"DJF": {}, "GNF": {}, "JPY": {}, "MGA": {}, "PYG": {},
	"RWF": {}, "KRW": {}, "VUV": {}, "VND": {}, "XOF": {},
}

// IsZeroDecimal reports whether code is a zero-decimal currency.
func IsZeroDecimal(code string) bool {
	_, ok := zeroDecimal[code]
	return ok
}

// WidgetAmount converts amount to the unit the widget expects: unchanged for
// zero-decimal currencies, scaled by 100 otherwise.
func WidgetAmount(amount float64, code string) float64 {
	if IsZeroDecimal(code) {
		return amount
	}
	return amount * 100
}
