package savings

import (
	"fmt"

	"lendcore/native/numeric"
)

// ChiAt returns the rate index at the given unix timestamp:
// chi * rpow(dsr, at - rho) / RAY, truncating at every step.
func ChiAt(at int64, pot PotParameters) (numeric.Ray, error) {
	if err := pot.Validate(); err != nil {
		return numeric.Ray{}, err
	}
	dt, err := pot.elapsed(at)
	if err != nil {
		return numeric.Ray{}, err
	}
	if dt == 0 {
		return pot.Chi, nil
	}
	growth, err := pot.DSR.Pow(dt)
	if err != nil {
		return numeric.Ray{}, fmt.Errorf("savings: rpow: %w", err)
	}
	chi, err := pot.Chi.Mul(growth)
	if err != nil {
		return numeric.Ray{}, fmt.Errorf("savings: chi: %w", err)
	}
	return chi, nil
}

// SharesToPrincipal converts a share amount into principal at the given
// timestamp: shares * chi / RAY, truncated to 27 fractional digits.
func SharesToPrincipal(shares numeric.Amount, at int64, pot PotParameters) (numeric.Amount, error) {
	scaled, err := toRay(shares)
	if err != nil {
		return numeric.Amount{}, err
	}
	chi, err := ChiAt(at, pot)
	if err != nil {
		return numeric.Amount{}, err
	}
	principal, err := scaled.Mul(chi)
	if err != nil {
		return numeric.Amount{}, fmt.Errorf("savings: shares to principal: %w", err)
	}
	return principal.Amount(), nil
}

// PrincipalToShares converts a principal amount into shares at the given
// timestamp: principal * RAY / chi, truncated to 27 fractional digits.
func PrincipalToShares(principal numeric.Amount, at int64, pot PotParameters) (numeric.Amount, error) {
	scaled, err := toRay(principal)
	if err != nil {
		return numeric.Amount{}, err
	}
	chi, err := ChiAt(at, pot)
	if err != nil {
		return numeric.Amount{}, err
	}
	if chi.IsZero() {
		return numeric.Amount{}, fmt.Errorf("%w: rate index decayed to zero", ErrInvalidPot)
	}
	shares, err := scaled.Div(chi)
	if err != nil {
		return numeric.Amount{}, fmt.Errorf("savings: principal to shares: %w", err)
	}
	return shares.Amount(), nil
}

func toRay(a numeric.Amount) (numeric.Ray, error) {
	if a.IsUnbounded() || a.Sign() < 0 {
		return numeric.Ray{}, fmt.Errorf("%w: %s", ErrInvalidAmount, a)
	}
	r, err := numeric.RayFromAmount(a)
	if err != nil {
		return numeric.Ray{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return r, nil
}
