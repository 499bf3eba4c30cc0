package calculator

import (
	"context"
	"log/slog"

	"lendcore/native/numeric"
	"lendcore/native/savings"
	"lendcore/observability/metrics"
)

// SharesToPrincipal converts savings shares into principal at unix time at.
func (s *Service) SharesToPrincipal(ctx context.Context, shares numeric.Amount, at int64, pot savings.PotParameters) (numeric.Amount, error) {
	c := s.begin(ctx, "shares_to_principal")
	principal, err := savings.SharesToPrincipal(shares, at, pot)
	if err != nil {
		c.finish(metrics.OutcomeError, err, slog.Int64("at", at))
		return numeric.Amount{}, err
	}
	c.finish(metrics.OutcomeOK, nil, slog.Int64("at", at), slog.String("principal", principal.String()))
	return principal, nil
}

// PrincipalToShares converts principal into savings shares at unix time at.
func (s *Service) PrincipalToShares(ctx context.Context, principal numeric.Amount, at int64, pot savings.PotParameters) (numeric.Amount, error) {
	c := s.begin(ctx, "principal_to_shares")
	shares, err := savings.PrincipalToShares(principal, at, pot)
	if err != nil {
		c.finish(metrics.OutcomeError, err, slog.Int64("at", at))
		return numeric.Amount{}, err
	}
	c.finish(metrics.OutcomeOK, nil, slog.Int64("at", at), slog.String("shares", shares.String()))
	return shares, nil
}

// SavingsPosition is a share balance valued at a point in time.
type SavingsPosition struct {
	Shares      numeric.Amount
	Principal   numeric.Amount
	APY         numeric.Percentage
	Projections savings.Projections
}

// DescribeSavings values a share balance and projects its earnings.
func (s *Service) DescribeSavings(ctx context.Context, shares numeric.Amount, at int64, pot savings.PotParameters) (SavingsPosition, error) {
	c := s.begin(ctx, "describe_savings")
	pos, err := describeSavings(shares, at, pot)
	if err != nil {
		c.finish(metrics.OutcomeError, err, slog.Int64("at", at))
		return SavingsPosition{}, err
	}
	c.finish(metrics.OutcomeOK, nil,
		slog.Int64("at", at),
		slog.String("principal", pos.Principal.String()),
		slog.String("apy", pos.APY.String()),
	)
	return pos, nil
}

func describeSavings(shares numeric.Amount, at int64, pot savings.PotParameters) (SavingsPosition, error) {
	principal, err := savings.SharesToPrincipal(shares, at, pot)
	if err != nil {
		return SavingsPosition{}, err
	}
	apy, err := savings.RateAPY(pot.DSR)
	if err != nil {
		return SavingsPosition{}, err
	}
	projections, err := savings.Project(shares, at, pot)
	if err != nil {
		return SavingsPosition{}, err
	}
	return SavingsPosition{Shares: shares, Principal: principal, APY: apy, Projections: projections}, nil
}
