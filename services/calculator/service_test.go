package calculator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"lendcore/config"
	"lendcore/native/fees"
	"lendcore/native/lending"
	"lendcore/native/numeric"
	"lendcore/native/savings"
	"lendcore/observability/metrics"
)

type harness struct {
	svc     *Service
	logs    *bytes.Buffer
	metrics *metrics.CalculatorMetrics
	spans   *tracetest.SpanRecorder
	reader  *sdkmetric.ManualReader
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logs := &bytes.Buffer{}
	m := metrics.NewCalculatorMetrics(prometheus.NewRegistry())
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	seq := 0
	svc, err := New(config.Default(),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
		WithMetrics(m),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("calc-%d", seq)
		}),
		WithClock(func() time.Time { return time.Unix(1_700_000_000, 0) }),
		WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))),
		WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))),
	)
	require.NoError(t, err)
	return &harness{svc: svc, logs: logs, metrics: m, spans: spans, reader: reader}
}

func (h *harness) logLines(t *testing.T) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(h.logs.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func amt(s string) numeric.Amount { return numeric.MustParseAmount(s) }

func TestMaxBorrowLogsAndCounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	got := h.svc.MaxBorrow(ctx, lending.BorrowCapacityInput{
		Asset: lending.AssetLiquidity{AvailableLiquidity: amt("50")},
		User:  lending.UserBorrowPosition{MaxBorrowBasedOnCollateral: amt("100")},
	})
	require.True(t, got.Equal(amt("50")))

	blocked := h.svc.MaxBorrow(ctx, lending.BorrowCapacityInput{
		Asset:           lending.AssetLiquidity{AvailableLiquidity: amt("50")},
		User:            lending.UserBorrowPosition{MaxBorrowBasedOnCollateral: amt("100")},
		ValidationIssue: lending.IssueReserveFrozen,
	})
	require.True(t, blocked.IsZero())

	ops := h.metrics.Operations()
	require.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("max_borrow", metrics.OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("max_borrow", metrics.OutcomeBlocked)))
	require.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Blocked().WithLabelValues(lending.IssueReserveFrozen.String())))

	lines := h.logLines(t)
	require.Len(t, lines, 2)
	require.Equal(t, "max_borrow", lines[0]["operation"])
	require.Equal(t, "calc-1", lines[0]["calc_id"])
	require.Equal(t, "ok", lines[0]["outcome"])
	require.Equal(t, "50", lines[0]["max_borrow"])
	require.Equal(t, "calculator", lines[0]["component"])
	require.Equal(t, "blocked", lines[1]["outcome"])
	require.Equal(t, lending.IssueReserveFrozen.String(), lines[1]["issue"])

	ended := h.spans.Ended()
	require.Len(t, ended, 2)
	require.Equal(t, "calculator.max_borrow", ended[0].Name())
}

func TestValidateBorrowAndDeposit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	issue := h.svc.ValidateBorrow(ctx, lending.BorrowValidationInput{
		Value:    amt("10"),
		Reserve:  lending.ReserveStatus{Active: true, BorrowingEnabled: true},
		Caps:     lending.BorrowCaps{BorrowCap: numeric.Unbounded(), TotalBorrowed: amt("0")},
		Asset:    lending.AssetLiquidity{AvailableLiquidity: amt("5")},
		Position: lending.UserBorrowPosition{MaxBorrowBasedOnCollateral: amt("100")},
	})
	require.Equal(t, lending.IssueExceedsLiquidity, issue)
	require.NotEmpty(t, h.svc.IssueMessage(issue))

	deposit := lending.DepositValidationInput{
		Value:         amt("5"),
		Reserve:       lending.ReserveStatus{Active: true},
		WalletBalance: amt("10"),
		TotalSupplied: amt("0"),
		SupplyCap:     numeric.Unbounded(),
	}
	require.Equal(t, lending.IssueNone, h.svc.ValidateDeposit(ctx, deposit))

	capacity := h.svc.MaxDeposit(ctx, lending.DepositCapacityInput{
		WalletBalance: amt("10"),
		TotalSupplied: amt("95"),
		SupplyCap:     amt("100"),
	})
	require.True(t, capacity.Equal(amt("5")))

	ops := h.metrics.Operations()
	require.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("validate_borrow", metrics.OutcomeBlocked)))
	require.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("validate_deposit", metrics.OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("max_deposit", metrics.OutcomeOK)))
}

func TestWithdraw(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	pos := lending.WithdrawPosition{
		SuppliedBalance:      amt("10"),
		AvailableLiquidity:   numeric.Unbounded(),
		Collateral:           []lending.CollateralPosition{{Value: amt("20000"), LiquidationThreshold: numeric.MustPercentage("0.8")}},
		TotalDebt:            amt("8000"),
		Price:                amt("2000"),
		LiquidationThreshold: numeric.MustPercentage("0.8"),
	}
	capacity := h.svc.MaxWithdraw(ctx, lending.WithdrawCapacityInput{Position: pos})
	require.True(t, capacity.Equal(amt("5")), "got %s", capacity)

	issue := h.svc.ValidateWithdraw(ctx, lending.WithdrawValidationInput{
		Value:    amt("6"),
		Reserve:  lending.ReserveStatus{Active: true},
		Position: pos,
	})
	require.Equal(t, lending.IssueInsufficientCollateral, issue)

	after := h.svc.HealthAfterWithdraw(ctx, pos, amt("6"))
	require.True(t, after.Factor.Equal(amt("0.8")), "got %s", after.Factor)
	require.True(t, after.Liquidatable)

	ops := h.metrics.Operations()
	require.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("max_withdraw", metrics.OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("validate_withdraw", metrics.OutcomeBlocked)))
	require.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Blocked().WithLabelValues(lending.IssueInsufficientCollateral.String())))
	require.Equal(t, 1.0, testutil.ToFloat64(ops.WithLabelValues("health_after_withdraw", metrics.OutcomeOK)))
}

func TestIssueMessageOutsideClosedSet(t *testing.T) {
	h := newHarness(t)
	unknown := lending.ValidationIssue(200)
	require.NotPanics(t, func() {
		require.Equal(t, "ValidationIssue(200)", h.svc.IssueMessage(unknown))
	})
	require.Equal(t, "Exceeds your balance", h.svc.IssueMessage(lending.IssueExceedsBalance))
	require.Empty(t, h.svc.IssueMessage(lending.IssueNone))
}

func TestHealthAndRates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	health := h.svc.HealthFactor(ctx, []lending.CollateralPosition{
		{Value: amt("1000"), LiquidationThreshold: numeric.MustPercentage("0.8")},
	}, amt("1000"))
	require.True(t, health.Factor.Equal(amt("0.8")))
	require.True(t, health.Liquidatable)

	rates := h.svc.ReserveRates(ctx, amt("400"), amt("1000"))
	require.True(t, rates.Utilisation.Equal(numeric.MustPercentage("0.4")))
	require.True(t, rates.BorrowAPY.Equal(numeric.MustPercentage("0.08")))
	require.True(t, rates.SupplyAPY.Equal(numeric.MustPercentage("0.0288")))
}

func TestSavingsConversions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	pot, err := savings.ParsePotParameters("1000000564701133626865910626", "1700000000", "1000000000000000000000000000")
	require.NoError(t, err)

	principal, err := h.svc.SharesToPrincipal(ctx, amt("100"), 1_700_086_400, pot)
	require.NoError(t, err)
	require.True(t, principal.Equal(amt("104.9999999999999999999993338")))

	shares, err := h.svc.PrincipalToShares(ctx, principal, 1_700_086_400, pot)
	require.NoError(t, err)
	require.True(t, shares.Equal(amt("100")))

	_, err = h.svc.SharesToPrincipal(ctx, amt("100"), 1_699_999_999, pot)
	require.ErrorIs(t, err, savings.ErrNegativeElapsed)
	require.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Operations().WithLabelValues("shares_to_principal", metrics.OutcomeError)))

	lines := h.logLines(t)
	last := lines[len(lines)-1]
	require.Equal(t, "WARN", last["level"])
	require.Contains(t, last["error"], "timestamp precedes last accrual")
}

func TestDescribeSavings(t *testing.T) {
	h := newHarness(t)
	pot, err := savings.ParsePotParameters("1000000001547125957863212450", "1700000000", "1000000000000000000000000000")
	require.NoError(t, err)

	pos, err := h.svc.DescribeSavings(context.Background(), amt("100"), 1_700_000_000, pot)
	require.NoError(t, err)
	require.True(t, pos.Principal.Equal(amt("100")))
	require.Equal(t, "5.00%", pos.APY.Format(2))
	require.True(t, pos.Projections.ThirtyDays.GreaterThan(amt("0.4")))
}

func TestQuoteRoute(t *testing.T) {
	h := newHarness(t)
	route, err := config.Default().FeeRouteConfig()
	require.NoError(t, err)

	waived := h.svc.QuoteRoute(context.Background(), fees.Route{From: route.YieldShare, To: route.Principal})
	require.Equal(t, "calc-1", waived.ID)
	require.Equal(t, fees.RouteSavings, waived.Class)
	require.True(t, waived.Fee.Equal(fees.WaivedFeeQuote))

	stable := h.svc.QuoteRoute(context.Background(), fees.Route{From: route.Principal, To: route.Reference})
	require.Equal(t, fees.RouteStable, stable.Class)
	require.True(t, stable.Fee.Equal(fees.DefaultFeeQuote))

	quotes := h.metrics.FeeQuotes()
	require.Equal(t, 1.0, testutil.ToFloat64(quotes.WithLabelValues("savings", fees.WaivedIntegratorKey)))
	require.Equal(t, 1.0, testutil.ToFloat64(quotes.WithLabelValues("stable", fees.DefaultIntegratorKey)))
}

func TestLatencyHistogramRecorded(t *testing.T) {
	h := newHarness(t)
	h.svc.ReserveRates(context.Background(), amt("1"), amt("2"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Equal(t, instrumentationName, rm.ScopeMetrics[0].Scope.Name)
	require.Equal(t, "lendcore.calculator.duration", rm.ScopeMetrics[0].Metrics[0].Name)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Fees.YieldShare = cfg.Fees.Principal
	_, err := New(cfg)
	require.ErrorIs(t, err, fees.ErrInvalidRouteConfig)
}
