package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/message"

	"lendcore/native/lending"
	"lendcore/native/numeric"
)

func borrowUsage() string {
	buf := &bytes.Buffer{}
	fmt.Fprintln(buf, "Usage: lendcore-cli borrow <subcommand> [flags]")
	fmt.Fprintln(buf, "Subcommands:")
	fmt.Fprintln(buf, "  max       Maximum borrowable amount for a position")
	fmt.Fprintln(buf, "  check     Validate a borrow of --value against reserve and position state")
	fmt.Fprintln(buf, "  health    Health factor of a collateral set against a debt")
	fmt.Fprintln(buf, "  rates     Utilisation and APYs at the given reserve totals")
	return buf.String()
}

func (c *cli) runBorrowCommand(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.stderr, borrowUsage())
		return 1
	}
	switch strings.ToLower(args[0]) {
	case "max":
		return c.runBorrowMax(args[1:])
	case "check":
		return c.runBorrowCheck(args[1:])
	case "health":
		return c.runBorrowHealth(args[1:])
	case "rates":
		return c.runBorrowRates(args[1:])
	default:
		fmt.Fprintf(c.stderr, "Unknown borrow subcommand %q\n", args[0])
		fmt.Fprint(c.stderr, borrowUsage())
		return 1
	}
}

type positionFlags struct {
	liquidity       numeric.Amount
	collateralLimit numeric.Amount
	isolation       bool
	debtCeiling     numeric.Amount
	isolatedDebt    numeric.Amount
}

func (p *positionFlags) register(fs *flag.FlagSet) {
	fs.TextVar(&p.liquidity, "liquidity", numeric.Unbounded(), "liquidity available in the reserve")
	fs.TextVar(&p.collateralLimit, "collateral-limit", numeric.Zero(), "borrow limit implied by collateral")
	fs.BoolVar(&p.isolation, "isolation", false, "position is in isolation mode")
	fs.TextVar(&p.debtCeiling, "debt-ceiling", numeric.Zero(), "isolation mode debt ceiling of the collateral")
	fs.TextVar(&p.isolatedDebt, "isolated-debt", numeric.Zero(), "debt already drawn against the isolated collateral")
}

func (p positionFlags) asset() lending.AssetLiquidity {
	return lending.AssetLiquidity{AvailableLiquidity: p.liquidity}
}

func (p positionFlags) user() lending.UserBorrowPosition {
	return lending.UserBorrowPosition{
		MaxBorrowBasedOnCollateral:         p.collateralLimit,
		InIsolationMode:                    p.isolation,
		IsolationModeCollateralTotalDebt:   p.isolatedDebt,
		IsolationModeCollateralDebtCeiling: p.debtCeiling,
	}
}

type borrowMaxView struct {
	MaxBorrow string `json:"maxBorrow"`
	Issue     string `json:"issue"`
}

func (c *cli) runBorrowMax(args []string) int {
	fs := flag.NewFlagSet("borrow max", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var pos positionFlags
	pos.register(fs)
	var issue lending.ValidationIssue
	fs.TextVar(&issue, "issue", lending.IssueNone, "validation issue blocking the reserve, e.g. reserve-frozen")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	capacity := c.svc.MaxBorrow(context.Background(), lending.BorrowCapacityInput{
		Asset:           pos.asset(),
		User:            pos.user(),
		ValidationIssue: issue,
	})
	view := borrowMaxView{MaxBorrow: capacity.String(), Issue: issue.String()}
	return c.emit(view, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "max borrow: %s\n", humanAmount(p, capacity))
		if issue.Present() {
			p.Fprintf(w, "blocked:    %s\n", issue.Message())
		}
	})
}

type borrowCheckView struct {
	Valid     bool   `json:"valid"`
	Issue     string `json:"issue"`
	Message   string `json:"message,omitempty"`
	MaxBorrow string `json:"maxBorrow"`
}

func (c *cli) runBorrowCheck(args []string) int {
	fs := flag.NewFlagSet("borrow check", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var pos positionFlags
	pos.register(fs)
	var value, borrowCap, totalBorrowed numeric.Amount
	fs.TextVar(&value, "value", numeric.Zero(), "amount to borrow")
	fs.TextVar(&borrowCap, "borrow-cap", numeric.Unbounded(), "reserve borrow cap")
	fs.TextVar(&totalBorrowed, "total-borrowed", numeric.Zero(), "reserve debt outstanding")
	inactive := fs.Bool("inactive", false, "reserve is not active")
	paused := fs.Bool("paused", false, "reserve is paused")
	frozen := fs.Bool("frozen", false, "reserve is frozen")
	disabled := fs.Bool("borrowing-disabled", false, "borrowing is disabled on the reserve")
	notIsolatable := fs.Bool("not-borrowable-in-isolation", false, "asset cannot be borrowed in isolation mode")
	siloedAsset := fs.Bool("siloed-asset", false, "asset is siloed")
	borrowingOthers := fs.Bool("borrowing-others", false, "position already borrows other assets")
	inSiloed := fs.Bool("in-siloed-mode", false, "position is already in siloed mode")
	emode := fs.Uint("emode", 0, "active e-mode category of the position")
	assetEmode := fs.Uint("asset-emode", 0, "e-mode category of the asset")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *emode > 255 || *assetEmode > 255 {
		fmt.Fprintln(c.stderr, "Error: e-mode categories must fit in a byte")
		return 1
	}

	reserve := lending.ReserveStatus{
		Active:           !*inactive,
		Paused:           *paused,
		Frozen:           *frozen,
		BorrowingEnabled: !*disabled,
	}
	gates := lending.ModeGates{
		BorrowableInIsolation: !*notIsolatable,
		AssetSiloed:           *siloedAsset,
		BorrowingOtherAssets:  *borrowingOthers,
		InSiloedMode:          *inSiloed,
		EModeCategory:         uint8(*emode),
		AssetEModeCategory:    uint8(*assetEmode),
	}
	ctx := context.Background()
	issue := c.svc.ValidateBorrow(ctx, lending.BorrowValidationInput{
		Value:    value,
		Reserve:  reserve,
		Caps:     lending.BorrowCaps{BorrowCap: borrowCap, TotalBorrowed: totalBorrowed},
		Gates:    gates,
		Asset:    pos.asset(),
		Position: pos.user(),
	})
	capacity := c.svc.MaxBorrow(ctx, lending.BorrowCapacityInput{
		Asset:           pos.asset(),
		User:            pos.user(),
		ValidationIssue: lending.BorrowGateIssue(reserve, gates, pos.isolation),
	})
	view := borrowCheckView{
		Valid:     !issue.Present(),
		Issue:     issue.String(),
		Message:   issue.Message(),
		MaxBorrow: capacity.String(),
	}
	return c.emit(view, func(p *message.Printer, w io.Writer) {
		if issue.Present() {
			p.Fprintf(w, "rejected:   %s (%s)\n", issue.Message(), issue)
		} else {
			p.Fprintf(w, "ok:         %s can be borrowed\n", humanAmount(p, value))
		}
		p.Fprintf(w, "max borrow: %s\n", humanAmount(p, capacity))
	})
}

// collateralFlag collects repeated --collateral value@threshold entries.
type collateralFlag []lending.CollateralPosition

func (f *collateralFlag) String() string {
	parts := make([]string, 0, len(*f))
	for _, pos := range *f {
		parts = append(parts, pos.Value.String()+"@"+pos.LiquidationThreshold.String())
	}
	return strings.Join(parts, ",")
}

func (f *collateralFlag) Set(raw string) error {
	value, threshold, ok := strings.Cut(raw, "@")
	if !ok {
		return fmt.Errorf("expected value@threshold, got %q", raw)
	}
	amount, err := numeric.ParseAmount(value)
	if err != nil {
		return err
	}
	if amount.IsUnbounded() || amount.Sign() < 0 {
		return fmt.Errorf("collateral value must be finite and non-negative, got %q", value)
	}
	lt, err := numeric.ParsePercentage(threshold)
	if err != nil {
		return err
	}
	*f = append(*f, lending.CollateralPosition{Value: amount, LiquidationThreshold: lt})
	return nil
}

type healthView struct {
	HealthFactor     string `json:"healthFactor"`
	Liquidatable     bool   `json:"liquidatable"`
	LiquidationPrice string `json:"liquidationPrice,omitempty"`
}

func (c *cli) runBorrowHealth(args []string) int {
	fs := flag.NewFlagSet("borrow health", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var collateral collateralFlag
	fs.Var(&collateral, "collateral", "collateral as value@threshold, repeatable")
	var debt, units numeric.Amount
	fs.TextVar(&debt, "debt", numeric.Zero(), "outstanding debt")
	fs.TextVar(&units, "units", numeric.Zero(), "token units of the first collateral, for its liquidation price")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	health := c.svc.HealthFactor(context.Background(), collateral, debt)
	view := healthView{HealthFactor: health.Factor.String(), Liquidatable: health.Liquidatable}
	var price numeric.Amount
	var hasPrice bool
	if len(collateral) > 0 {
		price, hasPrice = lending.LiquidationPrice(units, collateral[0].LiquidationThreshold, debt)
		if hasPrice {
			view.LiquidationPrice = price.String()
		}
	}
	return c.emit(view, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "health factor: %s\n", humanAmount(p, health.Factor))
		if health.Liquidatable {
			p.Fprintf(w, "position can be liquidated\n")
		}
		if hasPrice {
			p.Fprintf(w, "liquidation price: %s\n", humanAmount(p, price))
		}
	})
}

type ratesView struct {
	Utilisation string `json:"utilisation"`
	BorrowAPY   string `json:"borrowApy"`
	SupplyAPY   string `json:"supplyApy"`
}

func (c *cli) runBorrowRates(args []string) int {
	fs := flag.NewFlagSet("borrow rates", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var borrowed, supplied numeric.Amount
	fs.TextVar(&borrowed, "borrowed", numeric.Zero(), "reserve debt outstanding")
	fs.TextVar(&supplied, "supplied", numeric.Zero(), "reserve deposits")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	rates := c.svc.ReserveRates(context.Background(), borrowed, supplied)
	view := ratesView{
		Utilisation: rates.Utilisation.String(),
		BorrowAPY:   rates.BorrowAPY.String(),
		SupplyAPY:   rates.SupplyAPY.String(),
	}
	return c.emit(view, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "utilisation: %s\n", humanPercent(rates.Utilisation))
		p.Fprintf(w, "borrow APY:  %s\n", humanPercent(rates.BorrowAPY))
		p.Fprintf(w, "supply APY:  %s\n", humanPercent(rates.SupplyAPY))
	})
}
