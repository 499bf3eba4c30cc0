package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/message"

	"lendcore/native/lending"
	"lendcore/native/numeric"
)

const supplyUsage = `Usage: lendcore-cli supply <max|check> --balance <amount> [--supply-cap <amount>] [--total-supplied <amount>] [--value <amount>]
       lendcore-cli supply withdraw --supplied <amount> --price <amount> --threshold <pct> [--collateral value@threshold]... [--debt <amount>] [--value <amount>]
`

type supplyView struct {
	MaxDeposit string `json:"maxDeposit"`
	Issue      string `json:"issue"`
	Message    string `json:"message,omitempty"`
}

func (c *cli) runSupplyCommand(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.stderr, supplyUsage)
		return 1
	}
	mode := strings.ToLower(args[0])
	if mode == "withdraw" {
		return c.runSupplyWithdraw(args[1:])
	}
	if mode != "max" && mode != "check" {
		fmt.Fprintf(c.stderr, "Unknown supply subcommand %q\n", args[0])
		fmt.Fprint(c.stderr, supplyUsage)
		return 1
	}

	fs := flag.NewFlagSet("supply "+mode, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var balance, supplyCap, totalSupplied, value numeric.Amount
	fs.TextVar(&balance, "balance", numeric.Zero(), "wallet balance of the asset")
	fs.TextVar(&supplyCap, "supply-cap", numeric.Unbounded(), "reserve supply cap")
	fs.TextVar(&totalSupplied, "total-supplied", numeric.Zero(), "reserve deposits")
	fs.TextVar(&value, "value", numeric.Zero(), "amount to supply (check only)")
	inactive := fs.Bool("inactive", false, "reserve is not active")
	paused := fs.Bool("paused", false, "reserve is paused")
	frozen := fs.Bool("frozen", false, "reserve is frozen")
	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}

	ctx := context.Background()
	reserve := lending.ReserveStatus{Active: !*inactive, Paused: *paused, Frozen: *frozen}
	issue := lending.IssueNone
	if mode == "check" {
		issue = c.svc.ValidateDeposit(ctx, lending.DepositValidationInput{
			Value:         value,
			Reserve:       reserve,
			WalletBalance: balance,
			TotalSupplied: totalSupplied,
			SupplyCap:     supplyCap,
		})
	}
	gate := lending.DepositGateIssue(reserve)
	capacity := c.svc.MaxDeposit(ctx, lending.DepositCapacityInput{
		WalletBalance:   balance,
		TotalSupplied:   totalSupplied,
		SupplyCap:       supplyCap,
		ValidationIssue: gate,
	})
	if mode == "max" {
		issue = gate
	}

	view := supplyView{MaxDeposit: capacity.String(), Issue: issue.String(), Message: issue.Message()}
	return c.emit(view, func(p *message.Printer, w io.Writer) {
		if issue.Present() {
			p.Fprintf(w, "rejected:    %s (%s)\n", issue.Message(), issue)
		}
		p.Fprintf(w, "max deposit: %s\n", humanAmount(p, capacity))
	})
}

type withdrawView struct {
	MaxWithdraw  string `json:"maxWithdraw"`
	Issue        string `json:"issue"`
	Message      string `json:"message,omitempty"`
	HealthFactor string `json:"healthFactor,omitempty"`
}

func (c *cli) runSupplyWithdraw(args []string) int {
	fs := flag.NewFlagSet("supply withdraw", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var supplied, liquidity, debt, price, value numeric.Amount
	var threshold numeric.Percentage
	var collateral collateralFlag
	fs.TextVar(&supplied, "supplied", numeric.Zero(), "supplied balance of the asset")
	fs.TextVar(&liquidity, "liquidity", numeric.Unbounded(), "liquidity available in the reserve")
	fs.TextVar(&debt, "debt", numeric.Zero(), "outstanding debt of the position")
	fs.TextVar(&price, "price", numeric.Zero(), "price of one token in debt units")
	fs.TextVar(&threshold, "threshold", numeric.Percentage{}, "liquidation threshold of the asset, 0 when not collateral")
	fs.TextVar(&value, "value", numeric.Zero(), "amount to withdraw (optional)")
	fs.Var(&collateral, "collateral", "collateral as value@threshold, repeatable, including this asset")
	inactive := fs.Bool("inactive", false, "reserve is not active")
	paused := fs.Bool("paused", false, "reserve is paused")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	ctx := context.Background()
	reserve := lending.ReserveStatus{Active: !*inactive, Paused: *paused}
	pos := lending.WithdrawPosition{
		SuppliedBalance:      supplied,
		AvailableLiquidity:   liquidity,
		Collateral:           collateral,
		TotalDebt:            debt,
		Price:                price,
		LiquidationThreshold: threshold,
	}
	gate := lending.WithdrawGateIssue(reserve)
	capacity := c.svc.MaxWithdraw(ctx, lending.WithdrawCapacityInput{Position: pos, ValidationIssue: gate})
	view := withdrawView{MaxWithdraw: capacity.String(), Issue: gate.String(), Message: gate.Message()}

	issue := gate
	var after numeric.Amount
	checked := value.Sign() != 0
	if checked {
		issue = c.svc.ValidateWithdraw(ctx, lending.WithdrawValidationInput{Value: value, Reserve: reserve, Position: pos})
		after = c.svc.HealthAfterWithdraw(ctx, pos, value).Factor
		view.Issue = issue.String()
		view.Message = issue.Message()
		view.HealthFactor = after.String()
	}
	return c.emit(view, func(p *message.Printer, w io.Writer) {
		if issue.Present() {
			p.Fprintf(w, "rejected:      %s (%s)\n", issue.Message(), issue)
		}
		p.Fprintf(w, "max withdraw:  %s\n", humanAmount(p, capacity))
		if checked {
			p.Fprintf(w, "health after:  %s\n", humanAmount(p, after))
		}
	})
}
