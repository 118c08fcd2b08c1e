package types

import (
	"github.com/shopspring/decimal"
)

// Precision of the NUMERIC columns decimals are stored in. Both keep two
// decimal places.
const (
	MoneyPrecision = 12
	HoursPrecision = 8

	numericScale = 2
)

// CheckNumeric reports whether d fits a NUMERIC(precision, 2) column without
// Postgres rounding it.
func CheckNumeric(field string, d decimal.Decimal, precision int32) error {
	if !d.Equal(d.Round(numericScale)) {
		return NewValidationError(field, "must have at most %d decimal places", numericScale)
	}

	if d.Abs().Cmp(decimal.New(1, precision-numericScale)) >= 0 {
		return NewValidationError(field, "must be less than %s", decimal.New(1, precision-numericScale))
	}

	return nil
}
