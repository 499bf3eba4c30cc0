package numeric

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// RayDecimals is the number of fractional digits carried by a Ray.
const RayDecimals = 27

var (
	// ErrRayOverflow reports that an intermediate product exceeded 256 bits,
	// which reverts on chain.
	ErrRayOverflow = errors.New("numeric: ray arithmetic overflow")
	// ErrInvalidRay indicates a malformed ray integer string or an amount that
	// cannot be represented as an unsigned ray.
	ErrInvalidRay = errors.New("numeric: invalid ray value")

	rayScale = uint256.MustFromDecimal("1000000000000000000000000000") // 1e27
)

// Ray is an unsigned fixed point number scaled by 10^27 held in a 256-bit
// word. Multiplication and division truncate toward zero after every step so
// results match the on-chain primitives bit for bit.
type Ray struct {
	v uint256.Int
}

// RayOne returns 1.0 in ray units.
func RayOne() Ray {
	var r Ray
	r.v.Set(rayScale)
	return r
}

// ParseRay parses the raw scaled integer, e.g. "1000000000000000000000000000"
// for 1.0.
func ParseRay(s string) (Ray, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Ray{}, fmt.Errorf("%w: empty string", ErrInvalidRay)
	}
	var r Ray
	if err := r.v.SetFromDecimal(trimmed); err != nil {
		return Ray{}, fmt.Errorf("%w: %q: %v", ErrInvalidRay, s, err)
	}
	return r, nil
}

// MustParseRay is ParseRay for constants and tests.
func MustParseRay(s string) Ray {
	r, err := ParseRay(s)
	if err != nil {
		panic(err)
	}
	return r
}

// RayFromBig converts a raw scaled integer.
func RayFromBig(b *big.Int) (Ray, error) {
	if b == nil || b.Sign() < 0 {
		return Ray{}, fmt.Errorf("%w: negative or nil integer", ErrInvalidRay)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return Ray{}, ErrRayOverflow
	}
	return Ray{v: *v}, nil
}

// RayFromUint64 returns the raw scaled integer v. RayFromUint64(1) is 1e-27.
func RayFromUint64(v uint64) Ray {
	var r Ray
	r.v.SetUint64(v)
	return r
}

// RayFromAmount scales a finite, non-negative amount by 10^27, discarding any
// digits beyond the 27th fractional place.
func RayFromAmount(a Amount) (Ray, error) {
	d, ok := a.Decimal()
	if !ok {
		return Ray{}, fmt.Errorf("%w: unbounded amount", ErrInvalidRay)
	}
	if d.Sign() < 0 {
		return Ray{}, fmt.Errorf("%w: negative amount %s", ErrInvalidRay, d.String())
	}
	return RayFromBig(d.Shift(RayDecimals).Truncate(0).BigInt())
}

// Amount converts the ray back into an exact decimal amount.
func (r Ray) Amount() Amount {
	return NewAmount(decimal.NewFromBigInt(r.v.ToBig(), -RayDecimals))
}

// Big returns the raw scaled integer.
func (r Ray) Big() *big.Int { return r.v.ToBig() }

// IsZero reports whether the ray is zero.
func (r Ray) IsZero() bool { return r.v.IsZero() }

// Cmp compares two rays.
func (r Ray) Cmp(o Ray) int { return r.v.Cmp(&o.v) }

// String returns the raw scaled integer in base 10.
func (r Ray) String() string { return r.v.Dec() }

// Mul returns floor(r * o / 1e27).
func (r Ray) Mul(o Ray) (Ray, error) {
	var out Ray
	if _, overflow := out.v.MulOverflow(&r.v, &o.v); overflow {
		return Ray{}, ErrRayOverflow
	}
	out.v.Div(&out.v, rayScale)
	return out, nil
}

// Div returns floor(r * 1e27 / o). Dividing by zero panics.
func (r Ray) Div(o Ray) (Ray, error) {
	if o.v.IsZero() {
		panic("numeric: ray division by zero")
	}
	var out Ray
	if _, overflow := out.v.MulOverflow(&r.v, rayScale); overflow {
		return Ray{}, ErrRayOverflow
	}
	out.v.Div(&out.v, &o.v)
	return out, nil
}

// Pow raises r to the n-th power by binary exponentiation over ray units,
// truncating after each multiplication the same way the on-chain rpow does.
// Pow(0) is one; zero to any positive power is zero.
func (r Ray) Pow(n uint64) (Ray, error) {
	if r.v.IsZero() {
		if n == 0 {
			return RayOne(), nil
		}
		return Ray{}, nil
	}
	z := RayOne()
	if n%2 == 1 {
		z = r
	}
	x := r
	var err error
	for n /= 2; n > 0; n /= 2 {
		if x, err = x.Mul(x); err != nil {
			return Ray{}, err
		}
		if n%2 == 1 {
			if z, err = z.Mul(x); err != nil {
				return Ray{}, err
			}
		}
	}
	return z, nil
}

// MarshalText implements encoding.TextMarshaler using the raw integer form.
func (r Ray) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Ray) UnmarshalText(text []byte) error {
	parsed, err := ParseRay(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
