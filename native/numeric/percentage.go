package numeric

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPercentage indicates a malformed or negative percentage.
	ErrInvalidPercentage = errors.New("numeric: invalid percentage")

	basisPoints = decimal.NewFromInt(10_000)
	hundred     = decimal.NewFromInt(100)
)

// Percentage is a non-negative fraction where 1 represents 100%. Values above
// one are permitted for penalties and bonuses.
type Percentage struct {
	value decimal.Decimal
}

// NewPercentage validates that d is not negative.
func NewPercentage(d decimal.Decimal) (Percentage, error) {
	if d.Sign() < 0 {
		return Percentage{}, fmt.Errorf("%w: %s is negative", ErrInvalidPercentage, d.String())
	}
	return Percentage{value: d}, nil
}

// MustPercentage parses s and panics on failure.
func MustPercentage(s string) Percentage {
	p, err := ParsePercentage(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePercentage parses a fractional decimal string such as "0.002".
func ParsePercentage(s string) (Percentage, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Percentage{}, fmt.Errorf("%w: %q", ErrInvalidPercentage, s)
	}
	return NewPercentage(d)
}

// PercentageFromBps converts basis points into a fraction.
func PercentageFromBps(bps uint64) Percentage {
	return Percentage{value: decimal.NewFromInt(int64(bps)).Div(basisPoints)}
}

// Decimal returns the fractional value.
func (p Percentage) Decimal() decimal.Decimal { return p.value }

// IsZero reports whether the percentage is exactly zero.
func (p Percentage) IsZero() bool { return p.value.IsZero() }

// Cmp compares two percentages.
func (p Percentage) Cmp(o Percentage) int { return p.value.Cmp(o.value) }

// Equal reports whether two percentages hold the same value.
func (p Percentage) Equal(o Percentage) bool { return p.value.Equal(o.value) }

// Of applies the percentage to an amount.
func (p Percentage) Of(a Amount) Amount {
	return a.Mul(NewAmount(p.value))
}

// String returns the exact fractional value, e.g. "0.002".
func (p Percentage) String() string { return p.value.String() }

// Format renders the percentage as a percent string with the given number of
// fractional digits, e.g. Format(2) of 0.0525 is "5.25%".
func (p Percentage) Format(places int32) string {
	return p.value.Mul(hundred).StringFixed(places) + "%"
}

// MarshalText implements encoding.TextMarshaler.
func (p Percentage) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Percentage) UnmarshalText(text []byte) error {
	parsed, err := ParsePercentage(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
