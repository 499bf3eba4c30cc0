package lending

import "lendcore/native/numeric"

// HealthFactor returns sum(value * liquidationThreshold) / debt. A position
// without debt has an unbounded health factor. Positions below 1 may be
// liquidated.
func HealthFactor(collateral []CollateralPosition, totalDebt numeric.Amount) numeric.Amount {
	if totalDebt.Sign() <= 0 {
		return numeric.Unbounded()
	}
	return weightedCollateral(collateral).Div(totalDebt)
}

func weightedCollateral(collateral []CollateralPosition) numeric.Amount {
	weighted := numeric.Zero()
	for _, position := range collateral {
		weighted = weighted.Add(position.LiquidationThreshold.Of(position.Value.FloorZero()))
	}
	return weighted
}

// HealthFactorAfterWithdraw returns the health factor once value tokens of the
// asset described by pos have left the position.
func HealthFactorAfterWithdraw(pos WithdrawPosition, value numeric.Amount) numeric.Amount {
	if pos.TotalDebt.Sign() <= 0 {
		return numeric.Unbounded()
	}
	removed := pos.LiquidationThreshold.Of(value.FloorZero().Mul(pos.Price.FloorZero()))
	return weightedCollateral(pos.Collateral).Sub(removed).FloorZero().Div(pos.TotalDebt)
}

// LiquidationPrice returns the collateral unit price at which a single
// collateral position reaches a health factor of exactly 1:
// debt / (collateralAmount * liquidationThreshold). The boolean is false when
// there is no debt or no effective collateral, in which case no liquidation
// price exists.
func LiquidationPrice(collateralAmount numeric.Amount, liquidationThreshold numeric.Percentage, debt numeric.Amount) (numeric.Amount, bool) {
	if debt.Sign() <= 0 || debt.IsUnbounded() {
		return numeric.Zero(), false
	}
	effective := liquidationThreshold.Of(collateralAmount.FloorZero())
	if effective.Sign() <= 0 || effective.IsUnbounded() {
		return numeric.Zero(), false
	}
	return debt.Div(effective), true
}
