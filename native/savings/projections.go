package savings

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"lendcore/native/numeric"
)

const (
	secondsPerDay  int64 = 24 * 60 * 60
	secondsPerYear int64 = 365 * secondsPerDay
)

// Projections holds the principal a share balance is expected to earn if the
// current rate holds.
type Projections struct {
	ThirtyDays numeric.Amount
	OneYear    numeric.Amount
}

// RateAPY annualises a per-second rate: rpow(dsr, secondsPerYear) - 1.
func RateAPY(dsr numeric.Ray) (numeric.Percentage, error) {
	if dsr.IsZero() {
		return numeric.Percentage{}, fmt.Errorf("%w: dsr is zero", ErrInvalidPot)
	}
	growth, err := dsr.Pow(uint64(secondsPerYear))
	if err != nil {
		return numeric.Percentage{}, fmt.Errorf("savings: apy: %w", err)
	}
	d, _ := growth.Amount().Decimal()
	apy := d.Sub(decimal.NewFromInt(1))
	if apy.IsNegative() {
		apy = decimal.Zero
	}
	return numeric.NewPercentage(apy)
}

// Project returns the earnings of a share balance over the next 30 days and the
// next year, measured from at. Timestamps within a year of math.MaxInt64 are
// rejected with ErrTimestampOutOfRange.
func Project(shares numeric.Amount, at int64, pot PotParameters) (Projections, error) {
	if at > math.MaxInt64-secondsPerYear {
		return Projections{}, fmt.Errorf("%w: at=%d", ErrTimestampOutOfRange, at)
	}
	now, err := SharesToPrincipal(shares, at, pot)
	if err != nil {
		return Projections{}, err
	}
	month, err := SharesToPrincipal(shares, at+30*secondsPerDay, pot)
	if err != nil {
		return Projections{}, err
	}
	year, err := SharesToPrincipal(shares, at+secondsPerYear, pot)
	if err != nil {
		return Projections{}, err
	}
	return Projections{
		ThirtyDays: month.Sub(now).FloorZero(),
		OneYear:    year.Sub(now).FloorZero(),
	}, nil
}
