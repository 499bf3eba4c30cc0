package savings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lendcore/native/numeric"
)

var (
	// ErrInvalidPot indicates pot parameters that cannot describe an accruing
	// savings rate.
	ErrInvalidPot = errors.New("savings: invalid pot parameters")
	// ErrNegativeElapsed indicates a conversion timestamp earlier than the
	// pot's last accrual.
	ErrNegativeElapsed = errors.New("savings: timestamp precedes last accrual")
	// ErrInvalidAmount indicates a negative or unbounded conversion input.
	ErrInvalidAmount = errors.New("savings: invalid amount")
	// ErrTimestampOutOfRange indicates a timestamp too close to the int64
	// limit to project forward from.
	ErrTimestampOutOfRange = errors.New("savings: timestamp out of range")
)

// PotParameters is a snapshot of the savings rate contract.
type PotParameters struct {
	// DSR is the per-second accrual multiplier in ray units.
	DSR numeric.Ray
	// Rho is the unix timestamp (seconds) of the last accrual.
	Rho int64
	// Chi is the accumulated rate index at Rho in ray units.
	Chi numeric.Ray
}

// ParsePotParameters builds a snapshot from the raw on-chain integer strings.
func ParsePotParameters(dsr, rho, chi string) (PotParameters, error) {
	d, err := numeric.ParseRay(dsr)
	if err != nil {
		return PotParameters{}, fmt.Errorf("savings: dsr: %w", err)
	}
	c, err := numeric.ParseRay(chi)
	if err != nil {
		return PotParameters{}, fmt.Errorf("savings: chi: %w", err)
	}
	r, err := strconv.ParseInt(strings.TrimSpace(rho), 10, 64)
	if err != nil {
		return PotParameters{}, fmt.Errorf("%w: rho %q", ErrInvalidPot, rho)
	}
	pot := PotParameters{DSR: d, Rho: r, Chi: c}
	if err := pot.Validate(); err != nil {
		return PotParameters{}, err
	}
	return pot, nil
}

// Validate rejects snapshots that would divide by zero or never accrue.
func (p PotParameters) Validate() error {
	if p.Chi.IsZero() {
		return fmt.Errorf("%w: chi is zero", ErrInvalidPot)
	}
	if p.DSR.IsZero() {
		return fmt.Errorf("%w: dsr is zero", ErrInvalidPot)
	}
	if p.Rho < 0 {
		return fmt.Errorf("%w: negative rho", ErrInvalidPot)
	}
	return nil
}

func (p PotParameters) elapsed(at int64) (uint64, error) {
	if at < p.Rho {
		return 0, fmt.Errorf("%w: at=%d rho=%d", ErrNegativeElapsed, at, p.Rho)
	}
	return uint64(at - p.Rho), nil
}
