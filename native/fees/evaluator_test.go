package fees

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	principal  = MustParseAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	yieldShare = MustParseAddress("0x83F20F44975D03b1b09e64809B757c47f942BEeA")
	reference  = MustParseAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	unrelated  = MustParseAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	ev, err := NewEvaluator(DefaultRouteConfig(principal, yieldShare, reference))
	if err != nil {
		t.Fatalf("new evaluator: %v", err)
	}
	return ev
}

func TestEvaluateSavingsPairIsWaivedBothWays(t *testing.T) {
	ev := newEvaluator(t)
	for _, route := range []Route{{From: principal, To: yieldShare}, {From: yieldShare, To: principal}} {
		if got := ev.Evaluate(route); !got.Equal(WaivedFeeQuote) {
			t.Fatalf("route %s->%s: expected waived quote, got %+v", route.From.Hex(), route.To.Hex(), got)
		}
	}
}

func TestEvaluateOtherRoutesUseDefault(t *testing.T) {
	ev := newEvaluator(t)
	routes := []Route{
		{From: principal, To: reference},
		{From: reference, To: yieldShare},
		{From: principal, To: unrelated},
		{From: unrelated, To: reference},
		{From: principal, To: principal},
	}
	for _, route := range routes {
		if got := ev.Evaluate(route); !got.Equal(DefaultFeeQuote) {
			t.Fatalf("route %s->%s: expected default quote, got %+v", route.From.Hex(), route.To.Hex(), got)
		}
	}
}

func TestCanonicalQuotes(t *testing.T) {
	if DefaultFeeQuote.IntegratorKey != "protocol_fee" || DefaultFeeQuote.Fee.String() != "0.002" {
		t.Fatalf("unexpected default quote %+v", DefaultFeeQuote)
	}
	if WaivedFeeQuote.IntegratorKey != "fee_waiver" || WaivedFeeQuote.Fee.String() != "0.00001" {
		t.Fatalf("unexpected waived quote %+v", WaivedFeeQuote)
	}
	if WaivedFeeQuote.Fee.Cmp(DefaultFeeQuote.Fee) >= 0 {
		t.Fatalf("waived fee must be below the default fee")
	}
}

func TestClassify(t *testing.T) {
	ev := newEvaluator(t)
	cases := []struct {
		route Route
		want  RouteClass
	}{
		{Route{From: yieldShare, To: principal}, RouteSavings},
		{Route{From: principal, To: reference}, RouteStable},
		{Route{From: reference, To: yieldShare}, RouteStable},
		{Route{From: unrelated, To: principal}, RouteOther},
		{Route{From: reference, To: reference}, RouteOther},
	}
	for _, tc := range cases {
		if got := ev.Classify(tc.route); got != tc.want {
			t.Fatalf("route %s->%s: expected %s, got %s", tc.route.From.Hex(), tc.route.To.Hex(), tc.want, got)
		}
	}
}

func TestNewEvaluatorRejectsBadConfig(t *testing.T) {
	cases := map[string]RouteConfig{
		"missing principal": DefaultRouteConfig(common.Address{}, yieldShare, reference),
		"missing share":     DefaultRouteConfig(principal, common.Address{}, reference),
		"same pair":         DefaultRouteConfig(principal, principal, reference),
		"reference clash":   DefaultRouteConfig(principal, yieldShare, yieldShare),
	}
	for name, cfg := range cases {
		if _, err := NewEvaluator(cfg); !errors.Is(err, ErrInvalidRouteConfig) {
			t.Fatalf("%s: expected ErrInvalidRouteConfig, got %v", name, err)
		}
	}
	ev, err := NewEvaluator(RouteConfig{Principal: principal, YieldShare: yieldShare})
	if err != nil {
		t.Fatalf("config without reference: %v", err)
	}
	if !ev.Evaluate(Route{From: principal, To: yieldShare}).Equal(WaivedFeeQuote) {
		t.Fatalf("empty quotes should fall back to the canonical ones")
	}
}

func TestParseAddress(t *testing.T) {
	lower, err := ParseAddress("0x6b175474e89094c44da98b954eedeac495271d0f")
	if err != nil {
		t.Fatalf("lowercase address: %v", err)
	}
	if lower != principal {
		t.Fatalf("expected lowercase to canonicalise to %s, got %s", principal.Hex(), lower.Hex())
	}
	if _, err := ParseAddress("  0x6B175474E89094C44Da98b954EedeAC495271d0F "); err != nil {
		t.Fatalf("checksummed address with padding: %v", err)
	}
	bad := []string{
		"",
		"0x1234",
		"not-an-address",
		"0x6B175474E89094C44Da98b954EedeAC495271d0g",
		// checksum broken by lowering the first letter
		"0x6b175474E89094C44Da98b954EedeAC495271d0F",
	}
	for _, raw := range bad {
		if _, err := ParseAddress(raw); !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("%q: expected ErrInvalidAddress, got %v", raw, err)
		}
	}
}
