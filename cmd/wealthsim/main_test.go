package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"testing"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/wealthflow-sim/internal/domain"
	"github.com/simaogato/wealthflow-sim/internal/usecase/seeder"
)

func parseRun(t *testing.T, args ...string) (*runCmd, *flag.FlagSet, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cmd := &runCmd{out: &out}
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cmd, fs, &out
}

func TestRunCmd_ScenarioFromFlags(t *testing.T) {
	cmd, fs, _ := parseRun(t, "-years", "15", "-policy", "discard", "-price", "650000", "-loan", "520000", "-rate", "0.055")

	sc, err := cmd.scenario(fs)
	require.NoError(t, err)

	assert.Equal(t, 15, sc.Years)
	assert.Equal(t, domain.PolicyDiscardSurplus, sc.Policy)
	assert.True(t, sc.Property.PurchasePrice.Equal(decimal.NewFromInt(650000)))
	assert.True(t, sc.Mortgage.Principal.Equal(decimal.NewFromInt(520000)))
	assert.True(t, sc.Mortgage.InterestRate.Equal(decimal.RequireFromString("0.055")))
	assert.Equal(t, 30, sc.Mortgage.TermYears)
	assert.True(t, sc.ReinvestOutOfPocket)
	assert.True(t, sc.Assumptions.MarginalTaxRate.Equal(domain.DefaultMarginalTaxRate))
}

func TestRunCmd_PresetWithOverrides(t *testing.T) {
	preset := seeder.PRESET_REFERENCE_DISCARD.String()
	cmd, fs, _ := parseRun(t, "-preset", preset, "-years", "5")

	sc, err := cmd.scenario(fs)
	require.NoError(t, err)

	assert.Equal(t, seeder.PRESET_REFERENCE_DISCARD, sc.ID)
	assert.Equal(t, 5, sc.Years)
	assert.Equal(t, domain.PolicyDiscardSurplus, sc.Policy)
}

func TestRunCmd_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown policy", []string{"-policy", "spend"}},
		{"unknown preset", []string{"-preset", "nope"}},
		{"loan above price", []string{"-price", "100000", "-loan", "200000"}},
		{"too many years", []string{"-years", "101"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, fs, _ := parseRun(t, tt.args...)
			_, err := cmd.scenario(fs)
			assert.Error(t, err)
		})
	}
}

func TestRunCmd_BadDecimalFlag(t *testing.T) {
	cmd := &runCmd{}
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	cmd.SetFlags(fs)
	assert.Error(t, fs.Parse([]string{"-price", "lots"}))
}

func TestRunCmd_ExecuteTable(t *testing.T) {
	cmd, fs, out := parseRun(t, "-years", "3")

	status := cmd.Execute(context.Background(), fs)
	require.Equal(t, subcommands.ExitSuccess, status)

	text := out.String()
	assert.Contains(t, text, "Command line scenario: 3 years, policy OFFSET_BANKING")
	assert.Contains(t, text, "Net cash flow")
	assert.Contains(t, text, "Leader")
	assert.Contains(t, text, "515000.00")
}

func TestRunCmd_ExecuteJSON(t *testing.T) {
	cmd, fs, out := parseRun(t, "-years", "2", "-json")

	status := cmd.Execute(context.Background(), fs)
	require.Equal(t, subcommands.ExitSuccess, status)

	var result domain.ProjectionResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Len(t, result.ETF, 2)
	assert.Len(t, result.Property, 2)
}

func TestPresetsCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := &presetsCmd{out: &out}

	status := cmd.Execute(context.Background(), flag.NewFlagSet("presets", flag.ContinueOnError))
	require.Equal(t, subcommands.ExitSuccess, status)

	for _, p := range seeder.Presets() {
		assert.Contains(t, out.String(), p.ID.String())
		assert.Contains(t, out.String(), p.Name)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.CashFlowPolicy
		wantErr bool
	}{
		{"offset", domain.PolicyOffsetBanking, false},
		{"OFFSET_BANKING", domain.PolicyOffsetBanking, false},
		{"discard", domain.PolicyDiscardSurplus, false},
		{"A", domain.PolicyDiscardSurplus, false},
		{"spend", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
