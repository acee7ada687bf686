// Package money implements the fixed-point amount used for balances and
// operation values: two fractional digits, at most twelve integer digits at
// construction, exact arithmetic.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Scale is the number of fractional digits every Money value carries.
	Scale = 2
	// MaxIntegerDigits bounds the integer part accepted by Parse and FromDecimal.
	MaxIntegerDigits = 12
)

var ErrInvalidFormat = errors.New("invalid amount format")

var integerCeiling = decimal.New(1, MaxIntegerDigits)

// Money is immutable; every operation returns a new value.
type Money struct {
	d decimal.Decimal
}

var Zero = Money{d: decimal.Zero}

func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("Parse: empty amount: %w", ErrInvalidFormat)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("Parse: %q: %w", s, ErrInvalidFormat)
	}
	m, err := FromDecimal(d)
	if err != nil {
		return Money{}, fmt.Errorf("Parse: %q: %w", s, err)
	}
	return m, nil
}

func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.Exponent() < -Scale {
		return Money{}, fmt.Errorf("more than %d fractional digits: %w", Scale, ErrInvalidFormat)
	}
	if d.IsZero() {
		return Zero, nil
	}
	// Bound the digit count from the exponent first; comparing a value like
	// 1e999999999 would expand it to a big.Int of that many digits.
	if exp := int64(d.Exponent()); exp > 0 && int64(d.NumDigits())+exp > MaxIntegerDigits {
		return Money{}, fmt.Errorf("more than %d integer digits: %w", MaxIntegerDigits, ErrInvalidFormat)
	}
	if d.Abs().Truncate(0).GreaterThanOrEqual(integerCeiling) {
		return Money{}, fmt.Errorf("more than %d integer digits: %w", MaxIntegerDigits, ErrInvalidFormat)
	}
	return Money{d: d}, nil
}

// MustParse is for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromCents builds a Money from an integer number of hundredths.
func FromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -Scale)}
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

// Cmp returns -1, 0 or +1 as m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }

func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }

func (m Money) IsPositive() bool { return m.d.IsPositive() }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) String() string { return m.d.StringFixed(Scale) }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return fmt.Errorf("UnmarshalJSON: null amount: %w", ErrInvalidFormat)
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("UnmarshalJSON: %w", ErrInvalidFormat)
		}
	}
	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("UnmarshalJSON: %w", err)
	}
	*m = parsed
	return nil
}

func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("Scan: %w", err)
	}
	m.d = d
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
