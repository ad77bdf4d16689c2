package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// renderProjection prints one row per year followed by the liquidation summary
func renderProjection(out io.Writer, name string, result *domain.ProjectionResult) error {
	fmt.Fprintf(out, "%s: %d years, policy %s\n\n", name, result.Years, result.Policy)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Year\t%s\t%s\tEquity\tPrincipal\tOffset\tNet cash flow\tOut of pocket\t\n", result.FundName, result.PropertyName)
	for i, fund := range result.ETF {
		if i >= len(result.Property) {
			break
		}
		prop := result.Property[i]
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			fund.Year,
			money(fund.Value),
			money(prop.Value),
			money(prop.Extra["equity"]),
			money(prop.Extra["principal"]),
			money(prop.Extra["offset_balance"]),
			money(prop.Extra["net_cash_flow"]),
			money(prop.Extra["out_of_pocket"]),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s := result.Summary
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Fund value\t%s\n", money(s.ETFValue))
	fmt.Fprintf(w, "Fund contributed\t%s\n", money(s.ETFContributed))
	fmt.Fprintf(w, "Fund capital gains tax\t%s\n", money(s.ETFCapitalGainsTax))
	fmt.Fprintf(w, "Fund net proceeds\t%s\n", money(s.ETFNetProceeds))
	fmt.Fprintf(w, "Property value\t%s\n", money(s.PropertyValue))
	fmt.Fprintf(w, "Property equity\t%s\n", money(s.PropertyEquity))
	fmt.Fprintf(w, "Total out of pocket\t%s\n", money(s.TotalOutOfPocket))
	fmt.Fprintf(w, "Property capital gains tax\t%s\n", money(s.PropertyCapitalGainsTax))
	fmt.Fprintf(w, "Property net proceeds\t%s\n", money(s.PropertyNetProceeds))
	fmt.Fprintf(w, "Difference\t%s\n", money(s.Difference))
	fmt.Fprintf(w, "Leader\t%s\n", s.Leader)
	return w.Flush()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
