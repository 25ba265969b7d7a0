// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents so repeated sums never drift. Conversion
// to and from decimal strings goes through shopspring/decimal.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a non-negative fixed-point amount in cents.
type Money struct {
	Cents int64

	// set when a stored amount could not be decoded
	unreadable bool
}

// MaxCents is the largest accepted amount, the NUMERIC(12,2) limit of the
// postgres store. Sums of capped amounts stay far from int64 overflow.
const MaxCents = 999_999_999_999

// UnreadableMoney stands in for a stored amount that could not be decoded.
// It counts as zero and fails Validate.
func UnreadableMoney() Money {
	return Money{unreadable: true}
}

// Unreadable reports whether m replaces an undecodable stored amount.
func (m Money) Unreadable() bool {
	return m.unreadable
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up on the third decimal place. Zero is accepted; negative values and
// explicit signs are rejected.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
//	ParseDecimalToCents("12.344") -> 1234, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return decimalToCents(d)
}

// ParseMoney is ParseDecimalToCents returning a Money.
func ParseMoney(s string) (Money, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// MoneyFromFloat rounds a floating point amount to the nearest cent.
func MoneyFromFloat(f float64) (Money, error) {
	cents, err := decimalToCents(decimal.NewFromFloat(f))
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// MoneyFromDecimal rounds d to the nearest cent.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents, err := decimalToCents(d)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

func decimalToCents(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2)
	if cents.GreaterThan(decimal.NewFromInt(MaxCents)) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

func (m Money) Validate() error {
	if m.unreadable || m.Cents < 0 || m.Cents > MaxCents {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Decimal returns the amount as an exact decimal in units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount in units for display and charting.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Float() float64 {
	return m.Decimal().InexactFloat64()
}

// String returns the shortest exact decimal form, e.g. "15.5" or "65".
func (m Money) String() string {
	return m.Decimal().String()
}

// Fixed returns the amount with exactly two decimals, e.g. "15.50".
func (m Money) Fixed() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a JSON number in units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}
