// Package core holds the installment edit domain: form state, the edit
// event reducer, payment schedule math and display formatting.
//
// This file contains amount coercion and Baht display formatting.
package core

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var bahtPrinter = message.NewPrinter(language.Thai)

// ParseAmount converts a form value to a number. Empty or non-numeric
// input counts as zero, matching HTML number inputs where a cleared
// field must not poison a calculation.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatBaht renders an amount for display: integer-rounded, grouped
// per the th-TH locale, prefixed with the Baht sign. Full precision
// stays in the underlying state; only the display rounds.
func FormatBaht(amount float64) string {
	rounded := math.Round(amount)
	return bahtPrinter.Sprintf("฿%v", number.Decimal(rounded, number.MaxFractionDigits(0)))
}
