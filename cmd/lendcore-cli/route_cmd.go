package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/message"

	"lendcore/native/fees"
)

type routeView struct {
	ID    string        `json:"id"`
	From  string        `json:"from"`
	To    string        `json:"to"`
	Class string        `json:"class"`
	Quote fees.FeeQuote `json:"quote"`
}

func (c *cli) runRouteCommand(args []string) int {
	fs := flag.NewFlagSet("route", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	from := fs.String("from", "", "token sold (hex address)")
	to := fs.String("to", "", "token bought (hex address)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if strings.TrimSpace(*from) == "" || strings.TrimSpace(*to) == "" {
		fmt.Fprintln(c.stderr, "Usage: lendcore-cli route --from <address> --to <address>")
		return 1
	}
	fromAddr, err := fees.ParseAddress(*from)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: --from: %v\n", err)
		return 1
	}
	toAddr, err := fees.ParseAddress(*to)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: --to: %v\n", err)
		return 1
	}

	q := c.svc.QuoteRoute(context.Background(), fees.Route{From: fromAddr, To: toAddr})
	view := routeView{
		ID:    q.ID,
		From:  fromAddr.Hex(),
		To:    toAddr.Hex(),
		Class: q.Class.String(),
		Quote: q.Fee,
	}
	return c.emit(view, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "route: %s -> %s (%s)\n", fromAddr.Hex(), toAddr.Hex(), q.Class)
		p.Fprintf(w, "fee:   %s under %s\n", q.Fee.Fee.Format(3), q.Fee.IntegratorKey)
	})
}
