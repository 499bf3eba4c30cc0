package lending

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lendcore/native/numeric"
)

// InterestModel encapsulates the parameters that shape how interest rates react
// to market utilisation.
type InterestModel struct {
	// BaseRate is the minimum borrow APY applied when utilisation is zero.
	BaseRate numeric.Percentage
	// Slope1 is the borrow APY increase per unit of utilisation up to the
	// kink point.
	Slope1 numeric.Percentage
	// Slope2 governs the additional APY increase applied when utilisation
	// exceeds the kink point.
	Slope2 numeric.Percentage
	// Kink represents the utilisation ratio where the borrow rate slope
	// changes to encourage liquidity.
	Kink numeric.Percentage
}

// NewInterestModel constructs an interest model from decimal strings.
//
// The parameters should be provided as fractions, e.g. a 2% base rate is
// expressed as "0.02" and an 80% kink utilisation is "0.8".
func NewInterestModel(baseRate, slope1, slope2, kink string) (InterestModel, error) {
	var (
		model InterestModel
		err   error
	)
	if model.BaseRate, err = numeric.ParsePercentage(baseRate); err != nil {
		return InterestModel{}, fmt.Errorf("lending: base rate: %w", err)
	}
	if model.Slope1, err = numeric.ParsePercentage(slope1); err != nil {
		return InterestModel{}, fmt.Errorf("lending: slope1: %w", err)
	}
	if model.Slope2, err = numeric.ParsePercentage(slope2); err != nil {
		return InterestModel{}, fmt.Errorf("lending: slope2: %w", err)
	}
	if model.Kink, err = numeric.ParsePercentage(kink); err != nil {
		return InterestModel{}, fmt.Errorf("lending: kink: %w", err)
	}
	return model, nil
}

// Utilisation computes U = totalBorrowed / totalSupplied. When no liquidity
// exists, or supply is unbounded, the utilisation is defined as zero.
func Utilisation(totalBorrowed, totalSupplied numeric.Amount) numeric.Percentage {
	if totalBorrowed.Sign() <= 0 || totalSupplied.Sign() <= 0 || totalSupplied.IsUnbounded() {
		return numeric.Percentage{}
	}
	ratio, ok := totalBorrowed.Div(totalSupplied).Decimal()
	if !ok {
		return numeric.Percentage{}
	}
	p, err := numeric.NewPercentage(ratio)
	if err != nil {
		return numeric.Percentage{}
	}
	return p
}

// BorrowAPY derives the borrow rate based on the current utilisation.
func (m InterestModel) BorrowAPY(totalBorrowed, totalSupplied numeric.Amount) numeric.Percentage {
	return m.borrowRateAt(Utilisation(totalBorrowed, totalSupplied).Decimal())
}

func (m InterestModel) borrowRateAt(utilisation decimal.Decimal) numeric.Percentage {
	rate := m.BaseRate.Decimal()
	if utilisation.Sign() == 0 {
		return mustPercentage(rate)
	}

	kink := m.Kink.Decimal()
	if kink.Sign() == 0 || utilisation.Cmp(kink) <= 0 {
		// Linear region before the kink.
		return mustPercentage(rate.Add(m.Slope1.Decimal().Mul(utilisation)))
	}

	rate = rate.Add(m.Slope1.Decimal().Mul(kink))
	excess := utilisation.Sub(kink)
	return mustPercentage(rate.Add(m.Slope2.Decimal().Mul(excess)))
}

// SupplyAPY derives the supply rate from the borrow rate, utilisation and the
// share of interest routed to reserves.
func (m InterestModel) SupplyAPY(totalBorrowed, totalSupplied numeric.Amount, reserveFactor numeric.Percentage) numeric.Percentage {
	utilisation := Utilisation(totalBorrowed, totalSupplied).Decimal()
	if utilisation.Sign() == 0 {
		return numeric.Percentage{}
	}
	borrowRate := m.borrowRateAt(utilisation).Decimal()
	oneMinusReserve := decimal.NewFromInt(1).Sub(reserveFactor.Decimal())
	if oneMinusReserve.Sign() < 0 {
		oneMinusReserve = decimal.Zero
	}
	return mustPercentage(borrowRate.Mul(utilisation).Mul(oneMinusReserve))
}

// inputs are non-negative by construction
func mustPercentage(d decimal.Decimal) numeric.Percentage {
	p, err := numeric.NewPercentage(d)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultInterestModel provides a reasonable starting configuration featuring a
// kinked interest rate curve with a modest base rate.
var DefaultInterestModel = InterestModel{
	BaseRate: numeric.MustPercentage("0.02"),
	Slope1:   numeric.MustPercentage("0.15"),
	Slope2:   numeric.MustPercentage("0.6"),
	Kink:     numeric.MustPercentage("0.8"),
}
