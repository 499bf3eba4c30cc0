package fees

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"lendcore/native/numeric"
)

const (
	// DefaultIntegratorKey tags swaps charged the standard protocol fee.
	DefaultIntegratorKey = "protocol_fee"
	// WaivedIntegratorKey tags principal <-> yield-share swaps.
	WaivedIntegratorKey = "fee_waiver"
)

var (
	// DefaultFeeQuote is the standard 0.2% protocol fee.
	DefaultFeeQuote = FeeQuote{Fee: numeric.MustPercentage("0.002"), IntegratorKey: DefaultIntegratorKey}
	// WaivedFeeQuote is the near-zero fee applied to the savings pair.
	WaivedFeeQuote = FeeQuote{Fee: numeric.MustPercentage("0.00001"), IntegratorKey: WaivedIntegratorKey}

	// ErrInvalidRouteConfig indicates a configuration with missing or
	// colliding addresses.
	ErrInvalidRouteConfig = errors.New("fees: invalid route config")
)

// FeeQuote is the fee charged on a swap and the key the fee is collected under.
type FeeQuote struct {
	Fee           numeric.Percentage
	IntegratorKey string
}

// Equal reports whether both quotes carry the same fee and key.
func (q FeeQuote) Equal(o FeeQuote) bool {
	return q.IntegratorKey == o.IntegratorKey && q.Fee.Equal(o.Fee)
}

// Route is a swap from one token to another.
type Route struct {
	From common.Address
	To   common.Address
}

// RouteConfig names the stable-pair addresses used to classify routes.
type RouteConfig struct {
	Principal  common.Address
	YieldShare common.Address
	Reference  common.Address
	Default    FeeQuote
	Waived     FeeQuote
}

// DefaultRouteConfig wires the canonical quotes to the given addresses.
func DefaultRouteConfig(principal, yieldShare, reference common.Address) RouteConfig {
	return RouteConfig{
		Principal:  principal,
		YieldShare: yieldShare,
		Reference:  reference,
		Default:    DefaultFeeQuote,
		Waived:     WaivedFeeQuote,
	}
}

// RouteClass describes which part of the stable set a route touches.
type RouteClass uint8

const (
	RouteOther RouteClass = iota
	RouteStable
	RouteSavings
)

func (c RouteClass) String() string {
	switch c {
	case RouteSavings:
		return "savings"
	case RouteStable:
		return "stable"
	default:
		return "other"
	}
}

// Evaluator prices swap routes. It holds no mutable state and is safe for
// concurrent use.
type Evaluator struct {
	cfg RouteConfig
}

// NewEvaluator validates the configuration. The principal and yield-share
// addresses are required and must differ; the reference token is optional.
func NewEvaluator(cfg RouteConfig) (*Evaluator, error) {
	zero := common.Address{}
	if cfg.Principal == zero {
		return nil, fmt.Errorf("%w: principal address unset", ErrInvalidRouteConfig)
	}
	if cfg.YieldShare == zero {
		return nil, fmt.Errorf("%w: yield share address unset", ErrInvalidRouteConfig)
	}
	if cfg.Principal == cfg.YieldShare {
		return nil, fmt.Errorf("%w: principal and yield share are both %s", ErrInvalidRouteConfig, cfg.Principal.Hex())
	}
	if cfg.Reference != zero && (cfg.Reference == cfg.Principal || cfg.Reference == cfg.YieldShare) {
		return nil, fmt.Errorf("%w: reference %s duplicates a savings token", ErrInvalidRouteConfig, cfg.Reference.Hex())
	}
	if cfg.Default.IntegratorKey == "" {
		cfg.Default = DefaultFeeQuote
	}
	if cfg.Waived.IntegratorKey == "" {
		cfg.Waived = WaivedFeeQuote
	}
	return &Evaluator{cfg: cfg}, nil
}

// Config returns the configuration the evaluator was built with.
func (e *Evaluator) Config() RouteConfig { return e.cfg }

// Evaluate returns the waived quote for the principal/yield-share pair in
// either direction and the default quote for every other route.
func (e *Evaluator) Evaluate(route Route) FeeQuote {
	if e.isSavingsPair(route) {
		return e.cfg.Waived
	}
	return e.cfg.Default
}

// Classify reports whether a route is the savings pair, stays inside the
// configured stable set, or leaves it.
func (e *Evaluator) Classify(route Route) RouteClass {
	if e.isSavingsPair(route) {
		return RouteSavings
	}
	if e.isStable(route.From) && e.isStable(route.To) && route.From != route.To {
		return RouteStable
	}
	return RouteOther
}

func (e *Evaluator) isSavingsPair(route Route) bool {
	p, s := e.cfg.Principal, e.cfg.YieldShare
	return (route.From == p && route.To == s) || (route.From == s && route.To == p)
}

func (e *Evaluator) isStable(addr common.Address) bool {
	if addr == e.cfg.Principal || addr == e.cfg.YieldShare {
		return true
	}
	return e.cfg.Reference != (common.Address{}) && addr == e.cfg.Reference
}
