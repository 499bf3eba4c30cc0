package lending

import (
	"testing"

	"lendcore/native/numeric"
)

func TestHealthFactor(t *testing.T) {
	collateral := []CollateralPosition{
		{Value: amt("1000"), LiquidationThreshold: numeric.MustPercentage("0.8")},
		{Value: amt("500"), LiquidationThreshold: numeric.MustPercentage("0.7")},
	}
	got := HealthFactor(collateral, amt("575"))
	if !got.Equal(amt("2")) {
		t.Fatalf("expected health factor 2, got %s", got)
	}
}

func TestHealthFactorWithoutDebtIsUnbounded(t *testing.T) {
	got := HealthFactor([]CollateralPosition{{Value: amt("1"), LiquidationThreshold: numeric.MustPercentage("0.5")}}, amt("0"))
	if !got.IsUnbounded() {
		t.Fatalf("expected unbounded health factor, got %s", got)
	}
}

func TestHealthFactorWithoutCollateral(t *testing.T) {
	if got := HealthFactor(nil, amt("10")); !got.IsZero() {
		t.Fatalf("expected zero health factor, got %s", got)
	}
}

func TestLiquidationPrice(t *testing.T) {
	price, ok := LiquidationPrice(amt("2"), numeric.MustPercentage("0.8"), amt("2400"))
	if !ok {
		t.Fatalf("expected liquidation price")
	}
	if !price.Equal(amt("1500")) {
		t.Fatalf("expected 1500, got %s", price)
	}

	// At the liquidation price the health factor is exactly one.
	hf := HealthFactor([]CollateralPosition{{
		Value:                amt("2").Mul(price),
		LiquidationThreshold: numeric.MustPercentage("0.8"),
	}}, amt("2400"))
	if !hf.Equal(amt("1")) {
		t.Fatalf("expected health factor 1 at liquidation price, got %s", hf)
	}
}

func TestLiquidationPriceUndefined(t *testing.T) {
	if _, ok := LiquidationPrice(amt("2"), numeric.MustPercentage("0.8"), amt("0")); ok {
		t.Fatalf("no debt should have no liquidation price")
	}
	if _, ok := LiquidationPrice(amt("0"), numeric.MustPercentage("0.8"), amt("10")); ok {
		t.Fatalf("no collateral should have no liquidation price")
	}
	if _, ok := LiquidationPrice(amt("2"), numeric.MustPercentage("0"), amt("10")); ok {
		t.Fatalf("zero threshold should have no liquidation price")
	}
}

func TestHealthFactorAfterWithdraw(t *testing.T) {
	pos := collateralisedWithdraw()
	if got := HealthFactorAfterWithdraw(pos, amt("0")); !got.Equal(amt("2")) {
		t.Fatalf("expected unchanged health factor 2, got %s", got)
	}
	if got := HealthFactorAfterWithdraw(pos, amt("5")); !got.Equal(amt("1")) {
		t.Fatalf("expected health factor 1, got %s", got)
	}
	if got := HealthFactorAfterWithdraw(pos, amt("20")); !got.IsZero() {
		t.Fatalf("over-withdrawal should floor at zero, got %s", got)
	}
	pos.TotalDebt = amt("0")
	if got := HealthFactorAfterWithdraw(pos, amt("5")); !got.IsUnbounded() {
		t.Fatalf("debt free position should stay unbounded, got %s", got)
	}
}
