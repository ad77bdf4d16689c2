package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	grpcadapter "github.com/simaogato/wealthflow-sim/internal/adapter/grpc"
	"github.com/simaogato/wealthflow-sim/internal/domain"
	"github.com/simaogato/wealthflow-sim/internal/platform/config"
	"github.com/simaogato/wealthflow-sim/internal/usecase/projection"
	"github.com/simaogato/wealthflow-sim/internal/usecase/seeder"
)

type runCmd struct {
	out io.Writer

	preset     string
	name       string
	years      int
	policy     string
	reinvest   bool
	recalc     bool
	configPath string
	jsonOut    bool
	server     string
	token      string
	timeout    time.Duration

	price     decimal.Decimal
	growth    decimal.Decimal
	yield     decimal.Decimal
	expenses  decimal.Decimal
	loan      decimal.Decimal
	rate      decimal.Decimal
	term      int
	offset    decimal.Decimal
	cash      decimal.Decimal
	etfReturn decimal.Decimal
	mer       decimal.Decimal
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "project a fund against a leveraged property" }
func (*runCmd) Usage() string {
	return `run [-preset <id>] [-years N] [-policy offset|discard] [flags]

  Simulates both strategies year by year and prints the yearly values and a
  liquidation summary. Without -preset every parameter comes from the flags;
  with -preset only the flags given on the command line override the preset.
  With -server the projection runs on a wealthsim server and is stored there.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.preset, "preset", "", "ID of a preset scenario (see presets)")
	f.StringVar(&c.name, "name", "Command line scenario", "scenario name")
	f.IntVar(&c.years, "years", 30, "projection horizon in years (1-100)")
	f.StringVar(&c.policy, "policy", "offset", "positive cash flow policy: offset or discard")
	f.BoolVar(&c.reinvest, "reinvest", true, "invest the property's out-of-pocket cash into the fund")
	f.BoolVar(&c.recalc, "recalc", false, "recompute the mortgage payment every year")
	f.StringVar(&c.configPath, "config", "", "config file with the simulation assumptions (default $WEALTHSIM_CONFIG)")
	f.BoolVar(&c.jsonOut, "json", false, "print the projection as JSON")
	f.StringVar(&c.server, "server", "", "address of a wealthsim server; empty runs locally")
	f.StringVar(&c.token, "token", os.Getenv("WEALTHSIM_AUTH_TOKEN"), "auth token for -server")
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "request timeout for -server")

	decimalVar(f, &c.price, "price", decimal.NewFromInt(500000), "property purchase price")
	decimalVar(f, &c.growth, "growth", decimal.RequireFromString("0.03"), "annual property growth rate")
	decimalVar(f, &c.yield, "yield", decimal.RequireFromString("0.04"), "gross rental yield")
	decimalVar(f, &c.expenses, "expenses", decimal.NewFromInt(5000), "first year property expenses")
	decimalVar(f, &c.loan, "loan", decimal.NewFromInt(400000), "mortgage principal")
	decimalVar(f, &c.rate, "rate", decimal.RequireFromString("0.04"), "mortgage interest rate")
	f.IntVar(&c.term, "term", 30, "mortgage term in years")
	decimalVar(f, &c.offset, "offset", decimal.Zero, "initial offset account balance")
	decimalVar(f, &c.cash, "cash", decimal.Zero, "fund starting cash; 0 means the property's upfront capital")
	decimalVar(f, &c.etfReturn, "etf-return", decimal.RequireFromString("0.07"), "annual fund return")
	decimalVar(f, &c.mer, "mer", decimal.RequireFromString("0.002"), "fund management expense ratio")
}

func (c *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(f.Args(), " "))
		return subcommands.ExitUsageError
	}

	scenario, err := c.scenario(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var result *domain.ProjectionResult
	if c.server != "" {
		result, err = c.runRemote(ctx, scenario)
	} else {
		result, err = projection.Simulate(scenario)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running projection: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.jsonOut {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		err = enc.Encode(result)
	} else {
		err = renderProjection(c.out, scenario.Name, result)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// scenario assembles the scenario from a preset and/or the flags
func (c *runCmd) scenario(f *flag.FlagSet) (*domain.Scenario, error) {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	var sc *domain.Scenario
	if c.preset != "" {
		p, err := findPreset(c.preset)
		if err != nil {
			return nil, err
		}
		sc = p
	} else {
		sc = &domain.Scenario{}
		// Every flag applies when there is no preset
		f.VisitAll(func(fl *flag.Flag) { set[fl.Name] = true })
	}

	if set["config"] || c.preset == "" {
		assumptions, err := loadAssumptions(c.configPath)
		if err != nil {
			return nil, err
		}
		sc.Assumptions = assumptions
	}

	if set["name"] {
		sc.Name = c.name
	}
	if set["years"] {
		sc.Years = c.years
	}
	if set["policy"] {
		policy, err := parsePolicy(c.policy)
		if err != nil {
			return nil, err
		}
		sc.Policy = policy
	}
	if set["reinvest"] {
		sc.ReinvestOutOfPocket = c.reinvest
	}
	if set["recalc"] {
		sc.Mortgage.RecalculatePayment = c.recalc
	}
	if set["price"] {
		sc.Property.PurchasePrice = c.price
	}
	if set["growth"] {
		sc.Property.GrowthRate = c.growth
	}
	if set["yield"] {
		sc.Property.RentalYield = c.yield
	}
	if set["expenses"] {
		sc.Property.Expenses = c.expenses
	}
	if set["loan"] {
		sc.Mortgage.Principal = c.loan
	}
	if set["rate"] {
		sc.Mortgage.InterestRate = c.rate
	}
	if set["term"] {
		sc.Mortgage.TermYears = c.term
	}
	if set["offset"] {
		sc.Mortgage.OffsetBalance = c.offset
	}
	if set["cash"] {
		sc.ETF.InitialCash = c.cash
	}
	if set["etf-return"] {
		sc.ETF.AnnualReturn = c.etfReturn
	}
	if set["mer"] {
		sc.ETF.MER = c.mer
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (c *runCmd) runRemote(ctx context.Context, scenario *domain.Scenario) (*domain.ProjectionResult, error) {
	conn, err := grpc.NewClient(c.server, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.server, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
	}

	req, err := grpcadapter.EncodeRequest(scenario)
	if err != nil {
		return nil, err
	}
	resp, err := grpcadapter.NewProjectionServiceClient(conn).RunProjection(ctx, req)
	if err != nil {
		return nil, err
	}

	var result domain.ProjectionResult
	if err := grpcadapter.DecodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// findPreset looks a preset up by ID or case-insensitive name
func findPreset(key string) (*domain.Scenario, error) {
	for _, p := range seeder.Presets() {
		if p.ID.String() == key || strings.EqualFold(p.Name, key) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown preset %q", key)
}

func loadAssumptions(configPath string) (domain.Assumptions, error) {
	var cfg *config.Config
	var err error
	if configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(configPath)
	}
	if err != nil {
		return domain.Assumptions{}, err
	}
	return cfg.Simulation.Assumptions()
}
