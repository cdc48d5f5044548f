// Package convert converts between smallest coin units and local currency,
// applying a premium or discount percentage.
//
// All arithmetic is done in decimal. Multiplication is exact, so
// ToLocalCurrency carries no rounding error; ToCoinUnits uses an integer
// quotient so truncation toward zero is exact as well. Rounding to cents
// happens only when the result is formatted.
package convert

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// UnitsPerCoin is the number of smallest units in one coin.
const UnitsPerCoin = 100_000_000

var (
	unitsPerCoin = decimal.NewFromInt(UnitsPerCoin)
	hundred      = decimal.NewFromInt(100)
)

// ErrInvalidInput is wrapped by every InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports an argument that would make a conversion
// undefined or non-finite.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// FromFloat converts a user-supplied float, rejecting NaN and infinities.
func FromFloat(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, &InvalidInputError{Field: field, Reason: "not a finite number"}
	}
	return decimal.NewFromFloat(v), nil
}

// ValidatePrice rejects a non-positive price.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return &InvalidInputError{Field: "price", Reason: fmt.Sprintf("must be positive, got %s", price)}
	}
	return nil
}

// ValidateRate rejects premium rates at or below -100%, where the
// premium factor would be zero or negative.
func ValidateRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(hundred.Neg()) {
		return &InvalidInputError{Field: "premium", Reason: fmt.Sprintf("must be greater than -100, got %s", rate)}
	}
	return nil
}

// UnitsToCoin converts smallest units to a coin-native amount.
func UnitsToCoin(units int64) decimal.Decimal {
	return decimal.New(units, -8)
}

// ToLocalCurrency converts units (smallest coin unit) at price, then applies
// the premium rate: units / 1e8 * price * (1 + rate/100).
func ToLocalCurrency(units int64, rate, price decimal.Decimal) (decimal.Decimal, error) {
	if units < 0 {
		return decimal.Zero, &InvalidInputError{Field: "units", Reason: "must not be negative"}
	}
	if err := ValidatePrice(price); err != nil {
		return decimal.Zero, err
	}
	if err := ValidateRate(rate); err != nil {
		return decimal.Zero, err
	}

	// (units * price * (100 + rate)) / (1e8 * 100), all exact
	return UnitsToCoin(units).Mul(price).Mul(hundred.Add(rate)).Shift(-2), nil
}

// ToCoinUnits converts a local-currency amount to smallest coin units at
// price, removing the premium rate: local / price / (1 + rate/100) * 1e8.
// The result is truncated toward zero.
func ToCoinUnits(local, rate, price decimal.Decimal) (int64, error) {
	if local.IsNegative() {
		return 0, &InvalidInputError{Field: "amount", Reason: "must not be negative"}
	}
	if err := ValidatePrice(price); err != nil {
		return 0, err
	}
	if err := ValidateRate(rate); err != nil {
		return 0, err
	}

	num := local.Mul(unitsPerCoin).Mul(hundred)
	den := price.Mul(hundred.Add(rate))

	q, _ := num.QuoRem(den, 0)
	if !q.BigInt().IsInt64() {
		return 0, &InvalidInputError{Field: "amount", Reason: "too large"}
	}
	return q.IntPart(), nil
}
