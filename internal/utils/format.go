package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

var billion = decimal.New(1, 9)

// NotAvailable is rendered for amounts that are NaN or infinite.
const NotAvailable = "N/A"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round2 rounds half away from zero to two decimal places. Non-finite values
// are returned unchanged.
func Round2(v float64) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatBillions renders an amount as "$X.XXB".
func FormatBillions(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return "$" + decimal.NewFromFloat(v).Div(billion).StringFixed(2) + "B"
}

// FormatPercent renders a fraction as a percentage, 0.0433 -> "4.33%".
func FormatPercent(fraction float64, places int32) string {
	if !finite(fraction) {
		return NotAvailable
	}
	return decimal.NewFromFloat(fraction).Shift(2).StringFixed(places) + "%"
}
