package domain

import (
	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)

	DefaultInflationRate           = decimal.RequireFromString("0.03")
	DefaultMarginalTaxRate         = decimal.RequireFromString("0.37")
	DefaultCapitalGainsTaxDiscount = decimal.RequireFromString("0.50")
	DefaultStampDutyRate           = decimal.RequireFromString("0.04")
	DefaultClosingCosts            = decimal.NewFromInt(3000)
)

// SimulationConfig holds the economic assumptions shared by every investment
// in one simulation run. It is never mutated after construction; investments
// keep a pointer to the same value.
type SimulationConfig struct {
	inflationRate           decimal.Decimal
	marginalTaxRate         decimal.Decimal
	capitalGainsTaxDiscount decimal.Decimal
	stampDutyRate           decimal.Decimal
	closingCosts            decimal.Decimal
}

// NewSimulationConfig validates the assumptions and returns an immutable config
func NewSimulationConfig(inflationRate, marginalTaxRate, capitalGainsTaxDiscount, stampDutyRate, closingCosts decimal.Decimal) (*SimulationConfig, error) {
	if err := checkRate("inflation_rate", inflationRate); err != nil {
		return nil, err
	}
	if err := checkRate("marginal_tax_rate", marginalTaxRate); err != nil {
		return nil, err
	}
	if capitalGainsTaxDiscount.IsNegative() || capitalGainsTaxDiscount.GreaterThan(one) {
		return nil, invalid("capital_gains_tax_discount", "must be between 0 and 1")
	}
	if err := checkRate("stamp_duty_rate", stampDutyRate); err != nil {
		return nil, err
	}
	if closingCosts.IsNegative() {
		return nil, invalid("closing_costs", "must not be negative")
	}

	return &SimulationConfig{
		inflationRate:           inflationRate,
		marginalTaxRate:         marginalTaxRate,
		capitalGainsTaxDiscount: capitalGainsTaxDiscount,
		stampDutyRate:           stampDutyRate,
		closingCosts:            closingCosts,
	}, nil
}

// DefaultSimulationConfig returns the documented default assumptions
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		inflationRate:           DefaultInflationRate,
		marginalTaxRate:         DefaultMarginalTaxRate,
		capitalGainsTaxDiscount: DefaultCapitalGainsTaxDiscount,
		stampDutyRate:           DefaultStampDutyRate,
		closingCosts:            DefaultClosingCosts,
	}
}

// InflationRate is the annual growth applied to property expenses
func (c *SimulationConfig) InflationRate() decimal.Decimal { return c.inflationRate }

// MarginalTaxRate applies to taxable rental profit and refunds losses
func (c *SimulationConfig) MarginalTaxRate() decimal.Decimal { return c.marginalTaxRate }

func (c *SimulationConfig) CapitalGainsTaxDiscount() decimal.Decimal {
	return c.capitalGainsTaxDiscount
}

func (c *SimulationConfig) StampDutyRate() decimal.Decimal { return c.stampDutyRate }

func (c *SimulationConfig) ClosingCosts() decimal.Decimal { return c.closingCosts }

// AcquisitionCosts returns the one-off costs of buying a property at purchasePrice:
// stamp duty on the price plus fixed closing costs
func (c *SimulationConfig) AcquisitionCosts(purchasePrice decimal.Decimal) decimal.Decimal {
	return purchasePrice.Mul(c.stampDutyRate).Add(c.closingCosts)
}

// CapitalGainsTax returns the tax due when realising gain.
// Only the undiscounted share of a positive gain is taxed at the marginal rate.
func (c *SimulationConfig) CapitalGainsTax(gain decimal.Decimal) decimal.Decimal {
	if !gain.IsPositive() {
		return decimal.Zero
	}
	taxable := gain.Mul(one.Sub(c.capitalGainsTaxDiscount))
	return taxable.Mul(c.marginalTaxRate)
}

// checkRate enforces the [0, 1) range used for fractional rates
func checkRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
		return invalid(field, "must be in the range [0, 1)")
	}
	return nil
}
