package numeric

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DivisionScale is the number of fractional digits retained by Amount.Div. The
// quotient is truncated toward zero at this scale.
const DivisionScale int32 = 27

const unboundedLiteral = "unbounded"

var (
	// ErrInvalidAmount indicates a decimal string could not be interpreted as a
	// finite amount or the unbounded sentinel.
	ErrInvalidAmount = errors.New("numeric: invalid amount")
)

// Amount is a token quantity expressed in human readable units. A finite
// amount carries an arbitrary precision decimal; the unbounded variant models
// liquidity without an upper limit and compares greater than every finite
// amount. The zero value is a finite zero.
type Amount struct {
	value     decimal.Decimal
	unbounded bool
}

// Zero returns the finite zero amount.
func Zero() Amount { return Amount{} }

// Unbounded returns the sentinel used for infinite available liquidity.
func Unbounded() Amount { return Amount{unbounded: true} }

// NewAmount wraps a finite decimal.
func NewAmount(d decimal.Decimal) Amount { return Amount{value: d} }

// AmountFromInt returns the finite amount equal to v.
func AmountFromInt(v int64) Amount { return Amount{value: decimal.NewFromInt(v)} }

// ParseAmount parses a plain decimal string. The literals "unbounded" and
// "Infinity" (any case) produce the unbounded amount. NaN and negative
// infinity are rejected.
func ParseAmount(s string) (Amount, error) {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "":
		return Amount{}, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	case unboundedLiteral, "infinity", "+infinity", "inf":
		return Unbounded(), nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Amount{value: d}, nil
}

// MustParseAmount is ParseAmount for constants and tests. It panics on
// malformed input.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsUnbounded reports whether the amount is the unbounded sentinel.
func (a Amount) IsUnbounded() bool { return a.unbounded }

// Decimal returns the finite value. The boolean is false for the unbounded
// amount, in which case the returned decimal is zero.
func (a Amount) Decimal() (decimal.Decimal, bool) {
	if a.unbounded {
		return decimal.Zero, false
	}
	return a.value, true
}

// Sign returns -1, 0 or +1. Unbounded amounts are positive.
func (a Amount) Sign() int {
	if a.unbounded {
		return 1
	}
	return a.value.Sign()
}

// IsZero reports whether the amount is a finite zero.
func (a Amount) IsZero() bool { return !a.unbounded && a.value.IsZero() }

// Cmp compares two amounts. Unbounded is strictly greater than any finite
// amount and equal to itself.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.unbounded && b.unbounded:
		return 0
	case a.unbounded:
		return 1
	case b.unbounded:
		return -1
	}
	return a.value.Cmp(b.value)
}

// Equal reports whether both amounts hold the same value.
func (a Amount) Equal(b Amount) bool { return a.Cmp(b) == 0 }

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool { return a.Cmp(b) < 0 }

// GreaterThan reports whether a > b.
func (a Amount) GreaterThan(b Amount) bool { return a.Cmp(b) > 0 }

// Add returns a + b. Adding anything to unbounded stays unbounded.
func (a Amount) Add(b Amount) Amount {
	if a.unbounded || b.unbounded {
		return Unbounded()
	}
	return Amount{value: a.value.Add(b.value)}
}

// Sub returns a - b. Subtracting a finite amount from unbounded stays
// unbounded; subtracting unbounded from anything saturates at zero.
func (a Amount) Sub(b Amount) Amount {
	if b.unbounded {
		return Zero()
	}
	if a.unbounded {
		return Unbounded()
	}
	return Amount{value: a.value.Sub(b.value)}
}

// Mul returns a * b. An unbounded factor yields unbounded when the other
// factor is positive and zero otherwise.
func (a Amount) Mul(b Amount) Amount {
	if a.unbounded || b.unbounded {
		if a.Sign() > 0 && b.Sign() > 0 {
			return Unbounded()
		}
		return Zero()
	}
	return Amount{value: a.value.Mul(b.value)}
}

// Div returns a / b truncated toward zero at DivisionScale fractional digits.
// Unbounded divided by a positive amount (or by unbounded) is unbounded and a
// finite amount divided by unbounded is zero. Division by a finite zero is a
// programming error and panics.
func (a Amount) Div(b Amount) Amount {
	if b.IsZero() {
		panic("numeric: division by zero")
	}
	if a.unbounded {
		if b.Sign() < 0 {
			return Zero()
		}
		return Unbounded()
	}
	if b.unbounded {
		return Zero()
	}
	q, _ := a.value.QuoRem(b.value, DivisionScale)
	return Amount{value: q}
}

// Min returns the smaller of a and b.
func (a Amount) Min(b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func (a Amount) Max(b Amount) Amount {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// FloorZero clamps negative amounts to zero.
func (a Amount) FloorZero() Amount {
	if a.Sign() < 0 {
		return Zero()
	}
	return a
}

// Truncate drops fractional digits beyond places. Unbounded is unchanged.
func (a Amount) Truncate(places int32) Amount {
	if a.unbounded {
		return a
	}
	return Amount{value: a.value.Truncate(places)}
}

// String returns the exact decimal value, or "unbounded". The value round
// trips through ParseAmount but the input text does not: trailing fractional
// zeros are dropped, so "1.50" prints as "1.5".
func (a Amount) String() string {
	if a.unbounded {
		return unboundedLiteral
	}
	return a.value.String()
}

// StringFixed formats a finite amount with exactly places fractional digits,
// rounding half away from zero. It is intended for display only.
func (a Amount) StringFixed(places int32) string {
	if a.unbounded {
		return unboundedLiteral
	}
	return a.value.StringFixed(places)
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MinAmount returns the smallest of the supplied amounts. It panics when
// called without arguments.
func MinAmount(first Amount, rest ...Amount) Amount {
	out := first
	for _, a := range rest {
		out = out.Min(a)
	}
	return out
}
