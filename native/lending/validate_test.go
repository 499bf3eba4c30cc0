package lending

import (
	"testing"

	"lendcore/native/numeric"
)

func healthyBorrow() BorrowValidationInput {
	return BorrowValidationInput{
		Value:   amt("10"),
		Reserve: ReserveStatus{Active: true, BorrowingEnabled: true},
		Caps:    BorrowCaps{BorrowCap: numeric.Unbounded(), TotalBorrowed: amt("0")},
		Gates:   ModeGates{BorrowableInIsolation: true},
		Asset:   AssetLiquidity{AvailableLiquidity: amt("1000")},
		Position: UserBorrowPosition{
			MaxBorrowBasedOnCollateral: amt("100"),
		},
	}
}

func TestValidateBorrow(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BorrowValidationInput)
		want   ValidationIssue
	}{
		{name: "valid", mutate: func(*BorrowValidationInput) {}, want: IssueNone},
		{name: "zero value", mutate: func(in *BorrowValidationInput) { in.Value = amt("0") }, want: IssueValueNotPositive},
		{name: "negative value", mutate: func(in *BorrowValidationInput) { in.Value = amt("-1") }, want: IssueValueNotPositive},
		{name: "inactive", mutate: func(in *BorrowValidationInput) { in.Reserve.Active = false }, want: IssueReserveNotActive},
		{name: "paused", mutate: func(in *BorrowValidationInput) { in.Reserve.Paused = true }, want: IssueReservePaused},
		{name: "frozen", mutate: func(in *BorrowValidationInput) { in.Reserve.Frozen = true }, want: IssueReserveFrozen},
		{name: "borrowing disabled", mutate: func(in *BorrowValidationInput) { in.Reserve.BorrowingEnabled = false }, want: IssueReserveBorrowingDisabled},
		{
			name: "not borrowable in isolation",
			mutate: func(in *BorrowValidationInput) {
				in.Position.InIsolationMode = true
				in.Gates.BorrowableInIsolation = false
			},
			want: IssueAssetNotBorrowableInIsolation,
		},
		{
			name: "siloed asset while borrowing others",
			mutate: func(in *BorrowValidationInput) {
				in.Gates.AssetSiloed = true
				in.Gates.BorrowingOtherAssets = true
			},
			want: IssueSiloedModeCannotEnable,
		},
		{name: "already siloed", mutate: func(in *BorrowValidationInput) { in.Gates.InSiloedMode = true }, want: IssueSiloedModeEnabled},
		{
			name: "emode mismatch",
			mutate: func(in *BorrowValidationInput) {
				in.Gates.EModeCategory = 1
				in.Gates.AssetEModeCategory = 2
			},
			want: IssueEModeCategoryMismatch,
		},
		{
			name: "borrow cap",
			mutate: func(in *BorrowValidationInput) {
				in.Caps = BorrowCaps{BorrowCap: amt("500"), TotalBorrowed: amt("495")}
			},
			want: IssueBorrowCapReached,
		},
		{
			name: "isolation ceiling",
			mutate: func(in *BorrowValidationInput) {
				in.Position.InIsolationMode = true
				in.Position.IsolationModeCollateralDebtCeiling = amt("100")
				in.Position.IsolationModeCollateralTotalDebt = amt("95")
			},
			want: IssueIsolationModeDebtCeilingExceeded,
		},
		{name: "exceeds liquidity", mutate: func(in *BorrowValidationInput) { in.Asset.AvailableLiquidity = amt("5") }, want: IssueExceedsLiquidity},
		{name: "insufficient collateral", mutate: func(in *BorrowValidationInput) { in.Value = amt("150") }, want: IssueInsufficientCollateral},
		{
			name: "unbounded liquidity still checks collateral",
			mutate: func(in *BorrowValidationInput) {
				in.Asset.AvailableLiquidity = numeric.Unbounded()
				in.Value = amt("100.000001")
			},
			want: IssueInsufficientCollateral,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := healthyBorrow()
			tc.mutate(&in)
			if got := ValidateBorrow(in); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestValidateBorrowAgreesWithMaxBorrow(t *testing.T) {
	in := healthyBorrow()
	in.Asset.AvailableLiquidity = amt("42")
	capacity := MaxBorrow(BorrowCapacityInput{Asset: in.Asset, User: in.Position})

	in.Value = capacity
	if issue := ValidateBorrow(in); issue.Present() {
		t.Fatalf("borrowing exactly the capacity should be valid, got %s", issue)
	}
	in.Value = capacity.Add(amt("0.000000000000000001"))
	if issue := ValidateBorrow(in); !issue.Present() {
		t.Fatalf("borrowing above capacity should be rejected")
	}
}

func TestBorrowGateIssueFeedsCapacity(t *testing.T) {
	issue := BorrowGateIssue(ReserveStatus{Active: true, BorrowingEnabled: false}, ModeGates{}, false)
	if issue != IssueReserveBorrowingDisabled {
		t.Fatalf("expected borrowing disabled, got %s", issue)
	}
	got := MaxBorrow(BorrowCapacityInput{
		Asset:           AssetLiquidity{AvailableLiquidity: amt("100")},
		User:            UserBorrowPosition{MaxBorrowBasedOnCollateral: amt("100")},
		ValidationIssue: issue,
	})
	if !got.IsZero() {
		t.Fatalf("expected zero capacity, got %s", got)
	}
}

func TestValidateDeposit(t *testing.T) {
	base := DepositValidationInput{
		Value:         amt("5"),
		Reserve:       ReserveStatus{Active: true},
		WalletBalance: amt("10"),
		TotalSupplied: amt("0"),
		SupplyCap:     numeric.Unbounded(),
	}
	cases := []struct {
		name   string
		mutate func(*DepositValidationInput)
		want   ValidationIssue
	}{
		{name: "valid", mutate: func(*DepositValidationInput) {}, want: IssueNone},
		{name: "frozen", mutate: func(in *DepositValidationInput) { in.Reserve.Frozen = true }, want: IssueReserveFrozen},
		{name: "zero", mutate: func(in *DepositValidationInput) { in.Value = amt("0") }, want: IssueValueNotPositive},
		{name: "exceeds balance", mutate: func(in *DepositValidationInput) { in.Value = amt("100") }, want: IssueExceedsBalance},
		{
			name: "supply cap",
			mutate: func(in *DepositValidationInput) {
				in.SupplyCap = amt("100")
				in.TotalSupplied = amt("97")
			},
			want: IssueSupplyCapReached,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if got := ValidateDeposit(in); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDepositGateIssueFeedsCapacity(t *testing.T) {
	issue := DepositGateIssue(ReserveStatus{Active: true, Paused: true})
	if issue != IssueReservePaused {
		t.Fatalf("expected reserve paused, got %s", issue)
	}
	got := MaxDeposit(DepositCapacityInput{
		WalletBalance:   amt("10"),
		TotalSupplied:   amt("0"),
		SupplyCap:       numeric.Unbounded(),
		ValidationIssue: issue,
	})
	if !got.IsZero() {
		t.Fatalf("expected zero deposit capacity, got %s", got)
	}
	if DepositGateIssue(ReserveStatus{Active: true}).Present() {
		t.Fatalf("active reserve should not be gated")
	}
}

func TestValidateWithdraw(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*WithdrawValidationInput)
		want   ValidationIssue
	}{
		{name: "valid", mutate: func(*WithdrawValidationInput) {}, want: IssueNone},
		{name: "inactive", mutate: func(in *WithdrawValidationInput) { in.Reserve.Active = false }, want: IssueReserveNotActive},
		{name: "paused", mutate: func(in *WithdrawValidationInput) { in.Reserve.Paused = true }, want: IssueReservePaused},
		{name: "frozen allows withdrawals", mutate: func(in *WithdrawValidationInput) { in.Reserve.Frozen = true }, want: IssueNone},
		{name: "zero", mutate: func(in *WithdrawValidationInput) { in.Value = amt("0") }, want: IssueValueNotPositive},
		{name: "exceeds balance", mutate: func(in *WithdrawValidationInput) { in.Value = amt("11") }, want: IssueExceedsBalance},
		{name: "exceeds liquidity", mutate: func(in *WithdrawValidationInput) { in.Position.AvailableLiquidity = amt("1") }, want: IssueExceedsLiquidity},
		{name: "insufficient collateral", mutate: func(in *WithdrawValidationInput) { in.Value = amt("6") }, want: IssueInsufficientCollateral},
		{
			name: "not used as collateral",
			mutate: func(in *WithdrawValidationInput) {
				in.Value = amt("10")
				in.Position.LiquidationThreshold = numeric.Percentage{}
			},
			want: IssueNone,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := WithdrawValidationInput{
				Value:    amt("2"),
				Reserve:  ReserveStatus{Active: true},
				Position: collateralisedWithdraw(),
			}
			tc.mutate(&in)
			if got := ValidateWithdraw(in); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestValidateWithdrawAgreesWithMaxWithdraw(t *testing.T) {
	in := WithdrawValidationInput{Reserve: ReserveStatus{Active: true}, Position: collateralisedWithdraw()}
	capacity := MaxWithdraw(WithdrawCapacityInput{Position: in.Position})
	if !capacity.Equal(amt("5")) {
		t.Fatalf("expected capacity 5, got %s", capacity)
	}

	in.Value = capacity
	if issue := ValidateWithdraw(in); issue.Present() {
		t.Fatalf("withdrawing exactly the capacity should be valid, got %s", issue)
	}
	in.Value = capacity.Add(amt("0.000000000000000001"))
	if issue := ValidateWithdraw(in); issue != IssueInsufficientCollateral {
		t.Fatalf("withdrawing above capacity should fail on collateral, got %s", issue)
	}
}

func TestWithdrawGateIssueFeedsCapacity(t *testing.T) {
	issue := WithdrawGateIssue(ReserveStatus{Active: false})
	if issue != IssueReserveNotActive {
		t.Fatalf("expected reserve not active, got %s", issue)
	}
	got := MaxWithdraw(WithdrawCapacityInput{Position: collateralisedWithdraw(), ValidationIssue: issue})
	if !got.IsZero() {
		t.Fatalf("expected zero withdraw capacity, got %s", got)
	}
	if WithdrawGateIssue(ReserveStatus{Active: true, Frozen: true}).Present() {
		t.Fatalf("frozen reserve should not gate withdrawals")
	}
}
