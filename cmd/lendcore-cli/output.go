package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"lendcore/native/numeric"
)

type outputFormat int

const (
	formatJSON outputFormat = iota
	formatText
)

// resolveFormat picks JSON for pipes and files and text for terminals unless
// the caller forces one.
func resolveFormat(name string, stdout io.Writer) (outputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return formatJSON, nil
	case "text":
		return formatText, nil
	case "", "auto":
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return formatText, nil
		}
		return formatJSON, nil
	default:
		return formatJSON, fmt.Errorf("unknown format %q", name)
	}
}

// emit writes v as indented JSON, or calls text with an English printer.
func (c *cli) emit(v any, text func(p *message.Printer, w io.Writer)) int {
	if c.out == formatText {
		text(message.NewPrinter(language.English), c.stdout)
		return 0
	}
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(c.stderr, "Error encoding output: %v\n", err)
		return 1
	}
	return 0
}

// humanAmount groups digits for display. JSON output keeps the exact string.
func humanAmount(p *message.Printer, a numeric.Amount) string {
	d, ok := a.Decimal()
	if !ok {
		return "unbounded"
	}
	return p.Sprintf("%v", number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(6)))
}

func humanPercent(p numeric.Percentage) string {
	return p.Format(2)
}
