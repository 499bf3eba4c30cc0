package lending

import "lendcore/native/numeric"

// MaxBorrow returns the largest amount of the asset the user may borrow given
// the snapshot. Any validation issue yields zero. In isolation mode the
// collateral limit is further capped by the remaining isolation debt ceiling,
// floored at zero. The result is the smaller of the collateral limit and the
// available liquidity, and is never negative.
func MaxBorrow(input BorrowCapacityInput) numeric.Amount {
	if input.ValidationIssue.Present() {
		return numeric.Zero()
	}

	limit := collateralLimit(input.User)
	liquidity := input.Asset.AvailableLiquidity
	if liquidity.IsUnbounded() {
		return limit
	}
	return limit.Min(liquidity.FloorZero())
}

func collateralLimit(user UserBorrowPosition) numeric.Amount {
	limit := user.MaxBorrowBasedOnCollateral.FloorZero()
	if !user.InIsolationMode {
		return limit
	}
	headroom := user.IsolationModeCollateralDebtCeiling.
		Sub(user.IsolationModeCollateralTotalDebt).
		FloorZero()
	return limit.Min(headroom)
}

// MaxDeposit returns the largest amount the user may supply: the wallet
// balance capped by the remaining supply cap. Any validation issue yields
// zero.
func MaxDeposit(input DepositCapacityInput) numeric.Amount {
	if input.ValidationIssue.Present() {
		return numeric.Zero()
	}
	balance := input.WalletBalance.FloorZero()
	if input.SupplyCap.IsUnbounded() {
		return balance
	}
	headroom := input.SupplyCap.Sub(input.TotalSupplied).FloorZero()
	return balance.Min(headroom)
}

// MaxWithdraw returns the largest amount of the asset the user may withdraw:
// the supplied balance capped by available liquidity and by the largest
// withdrawal that keeps the health factor at or above 1. Any validation issue
// yields zero.
func MaxWithdraw(input WithdrawCapacityInput) numeric.Amount {
	if input.ValidationIssue.Present() {
		return numeric.Zero()
	}
	pos := input.Position
	limit := pos.SuppliedBalance.FloorZero()
	if !pos.AvailableLiquidity.IsUnbounded() {
		limit = limit.Min(pos.AvailableLiquidity.FloorZero())
	}
	return limit.Min(healthHeadroom(pos))
}

// healthHeadroom is the token amount whose removal brings the health factor
// down to exactly 1, truncated so the remaining position stays healthy.
func healthHeadroom(pos WithdrawPosition) numeric.Amount {
	if !pos.affectsHealth() {
		return numeric.Unbounded()
	}
	excess := weightedCollateral(pos.Collateral).Sub(pos.TotalDebt).FloorZero()
	perToken := pos.LiquidationThreshold.Of(pos.Price)
	return excess.Div(perToken)
}

// affectsHealth reports whether withdrawing the asset can lower the health
// factor at all.
func (pos WithdrawPosition) affectsHealth() bool {
	return pos.TotalDebt.Sign() > 0 && !pos.LiquidationThreshold.IsZero() && pos.Price.Sign() > 0
}
