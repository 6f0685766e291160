package money

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-precision currency amount. All price arithmetic in the
// service goes through this type; float64 never touches a total.
type Money struct {
	d decimal.Decimal
}

// FromMinorUnits builds a Money from an integer count of minor currency
// units (cents for USD).
func FromMinorUnits(units int64) Money {
	return Money{d: decimal.New(units, -2)}
}

// FromString parses a decimal string like "25.00".
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{d: d.Round(2)}, nil
}

// MustFromString is FromString for constants in tests and seeds.
func MustFromString(s string) Money {
	m, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func Zero() Money {
	return Money{}
}

func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// MulInt multiplies a unit price by a quantity.
func (m Money) MulInt(n int64) Money {
	return Money{d: m.d.Mul(decimal.NewFromInt(n))}
}

// MinorUnits returns the amount as an integer count of minor units,
// rounding half-up at the second decimal.
func (m Money) MinorUnits() int64 {
	return m.d.Round(2).Shift(2).IntPart()
}

func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

// WithinOneMinorUnit reports whether two amounts differ by at most one
// minor currency unit. Used as the claimed-total tolerance.
func (m Money) WithinOneMinorUnit(other Money) bool {
	diff := m.MinorUnits() - other.MinorUnits()
	return diff >= -1 && diff <= 1
}

func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// String renders with exactly two decimal places.
func (m Money) String() string {
	return m.d.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("unmarshal money: %w", err)
	}
	// same precision as FromString
	m.d = d.Round(2)
	return nil
}

// Value / Scan store Money as an integer count of minor units so the
// database never holds a float.
func (m Money) Value() (driver.Value, error) {
	return m.MinorUnits(), nil
}

func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*m = FromMinorUnits(v)
		return nil
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("scan money: %w", err)
		}
		*m = FromMinorUnits(d.IntPart())
		return nil
	default:
		return fmt.Errorf("scan money: unsupported type %T", src)
	}
}
