// Command wealthsim projects an index fund against a leveraged rental property
// from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&runCmd{out: os.Stdout}, "projection")
	commander.Register(&presetsCmd{out: os.Stdout}, "projection")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
