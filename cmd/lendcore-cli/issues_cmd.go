package main

import (
	"flag"
	"fmt"
	"io"

	"golang.org/x/text/message"

	"lendcore/native/lending"
)

type issueView struct {
	Name    string `json:"name"`
	Code    uint8  `json:"code"`
	Message string `json:"message"`
}

func (c *cli) runIssuesCommand(args []string) int {
	fs := flag.NewFlagSet("issues", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	issues := lending.AllValidationIssues()
	if name := fs.Arg(0); name != "" {
		issue, err := lending.ParseValidationIssue(name)
		if err != nil || !issue.Present() {
			fmt.Fprintf(c.stderr, "Error: unknown validation issue %q\n", name)
			return 1
		}
		issues = []lending.ValidationIssue{issue}
	}

	views := make([]issueView, 0, len(issues))
	for _, issue := range issues {
		if !issue.Present() {
			continue
		}
		views = append(views, issueView{Name: issue.String(), Code: uint8(issue), Message: c.svc.IssueMessage(issue)})
	}
	return c.emit(views, func(p *message.Printer, w io.Writer) {
		for _, v := range views {
			p.Fprintf(w, "%-38s %s\n", v.Name, v.Message)
		}
	})
}
