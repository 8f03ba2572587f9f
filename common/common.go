package common

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNilArguments is a common error response to highlight that nils were
	// passed in when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrNegativeAmount is returned when a monetary helper receives an amount
	// below zero
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

var two = decimal.NewFromInt(2)

// FloorToUnit returns the largest multiple of unit that does not exceed x.
// A zero unit denotes unlimited precision and returns x unchanged.
func FloorToUnit(x, unit decimal.Decimal) decimal.Decimal {
	if unit.IsZero() {
		return x
	}
	return x.Sub(x.Mod(unit))
}

// CeilToUnit returns the smallest multiple of unit that is not below x.
// A zero unit denotes unlimited precision and returns x unchanged.
func CeilToUnit(x, unit decimal.Decimal) decimal.Decimal {
	if unit.IsZero() {
		return x
	}
	floored := x.Sub(x.Mod(unit))
	if floored.LessThan(x) {
		return floored.Add(unit)
	}
	return floored
}

// RoundToUnit returns the multiple of unit nearest to x, rounding half away
// from zero. A zero unit denotes unlimited precision and returns x unchanged.
func RoundToUnit(x, unit decimal.Decimal) decimal.Decimal {
	if unit.IsZero() {
		return x
	}
	floored := x.Sub(x.Mod(unit))
	if x.Sub(floored).Mul(two).GreaterThanOrEqual(unit) {
		return floored.Add(unit)
	}
	return floored
}
