package calculator

import (
	"context"
	"log/slog"

	"lendcore/native/lending"
	"lendcore/native/numeric"
	"lendcore/observability/metrics"
)

// MaxBorrow returns the largest amount the position may borrow.
func (s *Service) MaxBorrow(ctx context.Context, in lending.BorrowCapacityInput) numeric.Amount {
	c := s.begin(ctx, "max_borrow")
	capacity := lending.MaxBorrow(in)
	if in.ValidationIssue.Present() {
		c.blocked(in.ValidationIssue, slog.String("max_borrow", capacity.String()))
		return capacity
	}
	c.finish(metrics.OutcomeOK, nil, slog.String("max_borrow", capacity.String()))
	return capacity
}

// ValidateBorrow returns the first reason a borrow would be rejected.
func (s *Service) ValidateBorrow(ctx context.Context, in lending.BorrowValidationInput) lending.ValidationIssue {
	c := s.begin(ctx, "validate_borrow")
	issue := lending.ValidateBorrow(in)
	if issue.Present() {
		c.blocked(issue)
		return issue
	}
	c.finish(metrics.OutcomeOK, nil)
	return issue
}

// MaxDeposit returns the largest amount the wallet may supply.
func (s *Service) MaxDeposit(ctx context.Context, in lending.DepositCapacityInput) numeric.Amount {
	c := s.begin(ctx, "max_deposit")
	capacity := lending.MaxDeposit(in)
	if in.ValidationIssue.Present() {
		c.blocked(in.ValidationIssue, slog.String("max_deposit", capacity.String()))
		return capacity
	}
	c.finish(metrics.OutcomeOK, nil, slog.String("max_deposit", capacity.String()))
	return capacity
}

// ValidateDeposit returns the first reason a supply would be rejected.
func (s *Service) ValidateDeposit(ctx context.Context, in lending.DepositValidationInput) lending.ValidationIssue {
	c := s.begin(ctx, "validate_deposit")
	issue := lending.ValidateDeposit(in)
	if issue.Present() {
		c.blocked(issue)
		return issue
	}
	c.finish(metrics.OutcomeOK, nil)
	return issue
}

// MaxWithdraw returns the largest amount the position may withdraw while
// staying healthy.
func (s *Service) MaxWithdraw(ctx context.Context, in lending.WithdrawCapacityInput) numeric.Amount {
	c := s.begin(ctx, "max_withdraw")
	capacity := lending.MaxWithdraw(in)
	if in.ValidationIssue.Present() {
		c.blocked(in.ValidationIssue, slog.String("max_withdraw", capacity.String()))
		return capacity
	}
	c.finish(metrics.OutcomeOK, nil, slog.String("max_withdraw", capacity.String()))
	return capacity
}

// ValidateWithdraw returns the first reason a withdrawal would be rejected.
func (s *Service) ValidateWithdraw(ctx context.Context, in lending.WithdrawValidationInput) lending.ValidationIssue {
	c := s.begin(ctx, "validate_withdraw")
	issue := lending.ValidateWithdraw(in)
	if issue.Present() {
		c.blocked(issue)
		return issue
	}
	c.finish(metrics.OutcomeOK, nil)
	return issue
}

// HealthAfterWithdraw evaluates the position once value tokens have been
// withdrawn.
func (s *Service) HealthAfterWithdraw(ctx context.Context, pos lending.WithdrawPosition, value numeric.Amount) Health {
	c := s.begin(ctx, "health_after_withdraw")
	hf := lending.HealthFactorAfterWithdraw(pos, value)
	h := Health{Factor: hf, Liquidatable: hf.LessThan(numeric.AmountFromInt(1))}
	c.finish(metrics.OutcomeOK, nil, slog.String("health_factor", hf.String()))
	return h
}

// Health summarises a position's distance from liquidation.
type Health struct {
	Factor numeric.Amount
	// Liquidatable is set once the factor drops below one.
	Liquidatable bool
}

// HealthFactor evaluates the collateral against the outstanding debt.
func (s *Service) HealthFactor(ctx context.Context, collateral []lending.CollateralPosition, debt numeric.Amount) Health {
	c := s.begin(ctx, "health_factor")
	hf := lending.HealthFactor(collateral, debt)
	h := Health{Factor: hf, Liquidatable: hf.LessThan(numeric.AmountFromInt(1))}
	c.finish(metrics.OutcomeOK, nil, slog.String("health_factor", hf.String()))
	return h
}

// Rates is the reserve's rate snapshot at the supplied utilisation.
type Rates struct {
	Utilisation numeric.Percentage
	BorrowAPY   numeric.Percentage
	SupplyAPY   numeric.Percentage
}

// ReserveRates prices borrowing and supplying with the configured curve.
func (s *Service) ReserveRates(ctx context.Context, totalBorrowed, totalSupplied numeric.Amount) Rates {
	c := s.begin(ctx, "reserve_rates")
	r := Rates{
		Utilisation: lending.Utilisation(totalBorrowed, totalSupplied),
		BorrowAPY:   s.interest.BorrowAPY(totalBorrowed, totalSupplied),
		SupplyAPY:   s.interest.SupplyAPY(totalBorrowed, totalSupplied, s.reserveFactor),
	}
	c.finish(metrics.OutcomeOK, nil,
		slog.String("utilisation", r.Utilisation.String()),
		slog.String("borrow_apy", r.BorrowAPY.String()),
	)
	return r
}

// IssueMessage is the user-facing text for a validation issue. Values outside
// the closed set yield their String form instead of a message.
func (s *Service) IssueMessage(issue lending.ValidationIssue) string {
	if !issue.Valid() {
		return issue.String()
	}
	return issue.Message()
}
