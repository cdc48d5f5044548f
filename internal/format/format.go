// Package format renders prices, coin amounts and premium rates for display.
package format

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// PremiumMode selects how a premium rate is labelled.
type PremiumMode string

const (
	// Discount labels negative rates "discount" with their absolute value.
	Discount PremiumMode = "discount"
	// Signed always labels "premium" with an explicit +/- sign.
	Signed PremiumMode = "signed"
)

// LocalCurrency renders amount grouped in thousands with two decimals, or
// with one decimal when the two-decimal rendering ends in ".00".
//
//	1234567    -> "1,234,567.0"
//	1234567.5  -> "1,234,567.50"
//	100.001    -> "100.0"
func LocalCurrency(amount decimal.Decimal) string {
	s := fixed(amount, 2)
	if strings.HasSuffix(s, ".00") {
		return fixed(amount, 1)
	}
	return s
}

// UnitAmount renders an integer count of smallest units with thousands
// grouping, e.g. 2100 -> "2,100".
func UnitAmount(units int64) string {
	return humanize.Comma(units)
}

// CoinAmount renders a coin-native amount with eight decimals.
func CoinAmount(amount decimal.Decimal) string {
	return amount.StringFixed(8)
}

// Premium renders a premium rate according to mode. Zero is a premium.
func Premium(rate decimal.Decimal, mode PremiumMode) string {
	if mode == Signed {
		sign := "+"
		if rate.IsNegative() {
			sign = "-"
		}
		return "premium " + sign + rate.Abs().StringFixed(2) + "%"
	}

	if rate.IsNegative() {
		return "discount " + rate.Abs().StringFixed(2) + "%"
	}
	return "premium " + rate.StringFixed(2) + "%"
}

// fixed rounds half away from zero to places and groups the integer part.
func fixed(amount decimal.Decimal, places int32) string {
	r := amount.Round(places)

	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = r.Abs()
	}

	digits := r.StringFixed(places)
	frac := ""
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		frac = digits[i:]
	}

	return sign + humanize.BigComma(r.Truncate(0).BigInt()) + frac
}
