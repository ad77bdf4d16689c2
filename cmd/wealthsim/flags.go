package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// decimalFlag binds a command line flag to a decimal.Decimal
type decimalFlag struct {
	dst *decimal.Decimal
	set bool
}

func (f *decimalFlag) String() string {
	if f == nil || f.dst == nil {
		return ""
	}
	return f.dst.String()
}

func (f *decimalFlag) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("not a decimal: %q", s)
	}
	*f.dst = d
	f.set = true
	return nil
}

func decimalVar(fs *flag.FlagSet, dst *decimal.Decimal, name string, value decimal.Decimal, usage string) *decimalFlag {
	*dst = value
	f := &decimalFlag{dst: dst}
	fs.Var(f, name, usage)
	return f
}

// parsePolicy accepts the short names used on the command line as well as the wire names
func parsePolicy(s string) (domain.CashFlowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "offset", "b", "offset_banking":
		return domain.PolicyOffsetBanking, nil
	case "discard", "a", "discard_surplus":
		return domain.PolicyDiscardSurplus, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want offset or discard)", s)
	}
}
