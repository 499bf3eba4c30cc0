package lending

import "lendcore/native/numeric"

// BorrowValidationInput is the snapshot evaluated by ValidateBorrow.
type BorrowValidationInput struct {
	Value    numeric.Amount
	Reserve  ReserveStatus
	Caps     BorrowCaps
	Gates    ModeGates
	Asset    AssetLiquidity
	Position UserBorrowPosition
}

// ValidateBorrow returns the first issue that blocks borrowing Value, or
// IssueNone. Status and mode gates are checked before any amount based rule so
// the returned issue is stable while the user edits the amount.
func ValidateBorrow(in BorrowValidationInput) ValidationIssue {
	if issue := borrowGate(in.Reserve, in.Gates, in.Position.InIsolationMode); issue.Present() {
		return issue
	}
	if in.Value.Sign() <= 0 || in.Value.IsUnbounded() {
		return IssueValueNotPositive
	}
	if in.Value.GreaterThan(in.Caps.Remaining()) {
		return IssueBorrowCapReached
	}
	if in.Position.InIsolationMode {
		headroom := in.Position.IsolationModeCollateralDebtCeiling.
			Sub(in.Position.IsolationModeCollateralTotalDebt).
			FloorZero()
		if in.Value.GreaterThan(headroom) {
			return IssueIsolationModeDebtCeilingExceeded
		}
	}
	if in.Value.GreaterThan(in.Asset.AvailableLiquidity) {
		return IssueExceedsLiquidity
	}
	if in.Value.GreaterThan(in.Position.MaxBorrowBasedOnCollateral) {
		return IssueInsufficientCollateral
	}
	return IssueNone
}

// BorrowGateIssue evaluates only the amount independent rules and is meant to
// feed BorrowCapacityInput.ValidationIssue.
func BorrowGateIssue(reserve ReserveStatus, gates ModeGates, inIsolationMode bool) ValidationIssue {
	return borrowGate(reserve, gates, inIsolationMode)
}

func borrowGate(reserve ReserveStatus, gates ModeGates, inIsolationMode bool) ValidationIssue {
	switch {
	case !reserve.Active:
		return IssueReserveNotActive
	case reserve.Paused:
		return IssueReservePaused
	case reserve.Frozen:
		return IssueReserveFrozen
	case !reserve.BorrowingEnabled:
		return IssueReserveBorrowingDisabled
	case inIsolationMode && !gates.BorrowableInIsolation:
		return IssueAssetNotBorrowableInIsolation
	case gates.AssetSiloed && gates.BorrowingOtherAssets:
		return IssueSiloedModeCannotEnable
	case gates.InSiloedMode:
		return IssueSiloedModeEnabled
	case gates.eModeMismatch():
		return IssueEModeCategoryMismatch
	}
	return IssueNone
}

// DepositValidationInput is the snapshot evaluated by ValidateDeposit.
type DepositValidationInput struct {
	Value         numeric.Amount
	Reserve       ReserveStatus
	WalletBalance numeric.Amount
	TotalSupplied numeric.Amount
	SupplyCap     numeric.Amount
}

// ValidateDeposit returns the first issue that blocks supplying Value, or
// IssueNone.
func ValidateDeposit(in DepositValidationInput) ValidationIssue {
	if issue := DepositGateIssue(in.Reserve); issue.Present() {
		return issue
	}
	if in.Value.Sign() <= 0 || in.Value.IsUnbounded() {
		return IssueValueNotPositive
	}
	if in.Value.GreaterThan(in.WalletBalance) {
		return IssueExceedsBalance
	}
	if in.TotalSupplied.Add(in.Value).GreaterThan(in.SupplyCap) {
		return IssueSupplyCapReached
	}
	return IssueNone
}

// DepositGateIssue is the amount independent part of ValidateDeposit, for
// DepositCapacityInput.ValidationIssue.
func DepositGateIssue(reserve ReserveStatus) ValidationIssue {
	switch {
	case !reserve.Active:
		return IssueReserveNotActive
	case reserve.Paused:
		return IssueReservePaused
	case reserve.Frozen:
		return IssueReserveFrozen
	}
	return IssueNone
}

// WithdrawValidationInput is the snapshot evaluated by ValidateWithdraw.
type WithdrawValidationInput struct {
	Value    numeric.Amount
	Reserve  ReserveStatus
	Position WithdrawPosition
}

// ValidateWithdraw returns the first issue that blocks withdrawing Value, or
// IssueNone.
func ValidateWithdraw(in WithdrawValidationInput) ValidationIssue {
	if issue := WithdrawGateIssue(in.Reserve); issue.Present() {
		return issue
	}
	if in.Value.Sign() <= 0 || in.Value.IsUnbounded() {
		return IssueValueNotPositive
	}
	if in.Value.GreaterThan(in.Position.SuppliedBalance) {
		return IssueExceedsBalance
	}
	if in.Value.GreaterThan(in.Position.AvailableLiquidity) {
		return IssueExceedsLiquidity
	}
	if in.Position.affectsHealth() &&
		HealthFactorAfterWithdraw(in.Position, in.Value).LessThan(numeric.AmountFromInt(1)) {
		return IssueInsufficientCollateral
	}
	return IssueNone
}

// WithdrawGateIssue is the amount independent part of ValidateWithdraw.
// Frozen reserves still allow withdrawals.
func WithdrawGateIssue(reserve ReserveStatus) ValidationIssue {
	switch {
	case !reserve.Active:
		return IssueReserveNotActive
	case reserve.Paused:
		return IssueReservePaused
	}
	return IssueNone
}
