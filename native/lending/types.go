package lending

import "lendcore/native/numeric"

// AssetLiquidity captures the market side of a borrow capacity snapshot.
type AssetLiquidity struct {
	// AvailableLiquidity is the amount that can currently leave the reserve.
	// numeric.Unbounded() models reserves with no liquidity limit.
	AvailableLiquidity numeric.Amount
}

// UserBorrowPosition captures the user side of a borrow capacity snapshot.
type UserBorrowPosition struct {
	// MaxBorrowBasedOnCollateral is the aggregate collateral value multiplied
	// by the applicable max LTV, less existing debt, expressed in units of the
	// asset being borrowed. It is computed upstream.
	MaxBorrowBasedOnCollateral numeric.Amount
	// InIsolationMode is set when the user's only collateral is an isolated
	// asset with a debt ceiling.
	InIsolationMode bool
	// IsolationModeCollateralTotalDebt is the debt already counted against the
	// isolated collateral's ceiling.
	IsolationModeCollateralTotalDebt numeric.Amount
	// IsolationModeCollateralDebtCeiling is the ceiling of the isolated
	// collateral.
	IsolationModeCollateralDebtCeiling numeric.Amount
}

// BorrowCapacityInput is an immutable snapshot supplied by the caller for a
// single MaxBorrow evaluation.
type BorrowCapacityInput struct {
	Asset           AssetLiquidity
	User            UserBorrowPosition
	ValidationIssue ValidationIssue
}

// CollateralPosition describes one supplied collateral asset for health
// factor calculations. Value is denominated in the same unit as debt (usually
// USD).
type CollateralPosition struct {
	Value                numeric.Amount
	LiquidationThreshold numeric.Percentage
}

// DepositCapacityInput is the snapshot used by MaxDeposit.
type DepositCapacityInput struct {
	WalletBalance numeric.Amount
	// TotalSupplied is the amount already supplied to the reserve.
	TotalSupplied numeric.Amount
	// SupplyCap limits the total supplied amount. numeric.Unbounded() means no
	// cap is configured.
	SupplyCap       numeric.Amount
	ValidationIssue ValidationIssue
}

// WithdrawPosition describes the supplied asset being withdrawn and the
// position it collateralises.
type WithdrawPosition struct {
	// SuppliedBalance is the user's supplied amount of the asset, in tokens.
	SuppliedBalance numeric.Amount
	// AvailableLiquidity is the amount of the asset that can leave the
	// reserve. numeric.Unbounded() means no limit.
	AvailableLiquidity numeric.Amount
	// Collateral lists every collateral position, including the withdrawn
	// asset, valued in debt units.
	Collateral []CollateralPosition
	TotalDebt  numeric.Amount
	// Price converts one token of the asset into debt units.
	Price numeric.Amount
	// LiquidationThreshold of the asset. Zero when the asset is not used as
	// collateral, in which case withdrawals never affect health.
	LiquidationThreshold numeric.Percentage
}

// WithdrawCapacityInput is the snapshot used by MaxWithdraw.
type WithdrawCapacityInput struct {
	Position        WithdrawPosition
	ValidationIssue ValidationIssue
}
