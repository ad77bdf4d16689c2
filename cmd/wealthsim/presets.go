package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/simaogato/wealthflow-sim/internal/usecase/seeder"
)

type presetsCmd struct {
	out io.Writer
}

func (*presetsCmd) Name() string     { return "presets" }
func (*presetsCmd) Synopsis() string { return "list the built-in scenarios" }
func (*presetsCmd) Usage() string {
	return `presets

  Lists the preset scenarios the server seeds on startup. Use an ID with
  "run -preset <id>".
`
}

func (*presetsCmd) SetFlags(*flag.FlagSet) {}

func (c *presetsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tPolicy\tYears\tPrice\tLoan\tRate\tTerm")
	for _, p := range seeder.Presets() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%d\n",
			p.ID, p.Name, p.Policy, p.Years,
			p.Property.PurchasePrice.StringFixed(0),
			p.Mortgage.Principal.StringFixed(0),
			p.Mortgage.InterestRate.String(),
			p.Mortgage.TermYears,
		)
	}
	if err := w.Flush(); err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
