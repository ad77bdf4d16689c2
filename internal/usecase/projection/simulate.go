package projection

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-sim/internal/domain"
)

const (
	defaultFundName     = "ETF"
	defaultPropertyName = "Leveraged Property"
)

// Portfolio is the pair of investments built from a scenario
type Portfolio struct {
	Config   *domain.SimulationConfig
	Fund     *domain.ETFInvestment
	Property *domain.LeveragedProperty
}

// Investments returns both sides in driver order
func (p *Portfolio) Investments() []domain.Investment {
	return []domain.Investment{p.Fund, p.Property}
}

// Build constructs the config, mortgage, property and fund of a scenario.
// A zero fund InitialCash is replaced with the property's upfront capital so
// both strategies start from the same money.
func Build(scenario *domain.Scenario) (*Portfolio, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	cfg, err := scenario.Assumptions.SimulationConfig()
	if err != nil {
		return nil, err
	}

	mortgage, err := domain.NewMortgage(domain.MortgageInput{
		Principal:          scenario.Mortgage.Principal,
		InterestRate:       scenario.Mortgage.InterestRate,
		TermYears:          scenario.Mortgage.TermYears,
		OffsetBalance:      scenario.Mortgage.OffsetBalance,
		RecalculatePayment: scenario.Mortgage.RecalculatePayment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build mortgage: %w", err)
	}

	propertyName := scenario.Property.Name
	if propertyName == "" {
		propertyName = defaultPropertyName
	}
	property, err := domain.NewLeveragedProperty(domain.PropertyInput{
		Name:          propertyName,
		PurchasePrice: scenario.Property.PurchasePrice,
		GrowthRate:    scenario.Property.GrowthRate,
		RentalYield:   scenario.Property.RentalYield,
		Expenses:      scenario.Property.Expenses,
		Policy:        scenario.Policy,
	}, mortgage, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build property: %w", err)
	}

	fundName := scenario.ETF.Name
	if fundName == "" {
		fundName = defaultFundName
	}
	initialCash := scenario.ETF.InitialCash
	if initialCash.IsZero() {
		initialCash = scenario.UpfrontCapital(cfg)
	}
	fund, err := domain.NewETFInvestment(fundName, initialCash, scenario.ETF.AnnualReturn, scenario.ETF.MER, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build fund: %w", err)
	}

	return &Portfolio{Config: cfg, Fund: fund, Property: property}, nil
}

// Simulate runs a scenario year by year and summarises the outcome.
// Every year all growth is applied before any cost, then the property's
// shortfall is optionally moved into the fund, then both are logged.
func Simulate(scenario *domain.Scenario) (*domain.ProjectionResult, error) {
	portfolio, err := Build(scenario)
	if err != nil {
		return nil, err
	}

	fund, property := portfolio.Fund, portfolio.Property
	totalOutOfPocket := decimal.Zero

	for year := 1; year <= scenario.Years; year++ {
		investments := portfolio.Investments()
		growth := make([]decimal.Decimal, len(investments))
		for i, inv := range investments {
			growth[i] = inv.CalculateAnnualReturn()
		}

		fee := fund.ApplyCosts()
		outOfPocket := property.ApplyCosts()
		totalOutOfPocket = totalOutOfPocket.Add(outOfPocket)

		invested := decimal.Zero
		if scenario.ReinvestOutOfPocket && outOfPocket.IsPositive() {
			fund.InvestCash(outOfPocket)
			invested = outOfPocket
		}

		fund.LogStatus(year, map[string]decimal.Decimal{
			"growth":      growth[0],
			"fee":         fee,
			"invested":    invested,
			"contributed": fund.Contributed(),
		})

		status := property.StatusData()
		status["appreciation"] = growth[1]
		status["cumulative_out_of_pocket"] = totalOutOfPocket
		property.LogStatus(year, status)
	}

	return &domain.ProjectionResult{
		ScenarioID:   scenario.ID,
		Years:        scenario.Years,
		Policy:       property.Policy,
		FundName:     fund.Name(),
		PropertyName: property.Name(),
		ETF:          fund.History(),
		Property:     property.History(),
		Summary:      Summarize(portfolio, totalOutOfPocket),
	}, nil
}

// Summarize values both strategies as if liquidated today, after capital gains tax
func Summarize(p *Portfolio, totalOutOfPocket decimal.Decimal) domain.Summary {
	cfg := p.Config
	fund, property := p.Fund, p.Property
	mortgage := property.Mortgage

	fundGain := fund.Value().Sub(fund.Contributed())
	fundCGT := cfg.CapitalGainsTax(fundGain)
	fundNet := fund.Value().Sub(fundCGT)

	propertyGain := property.Value().Sub(property.CostBase())
	propertyCGT := cfg.CapitalGainsTax(propertyGain)
	// Equity already carries the offset cash when the policy banks it
	propertyNet := property.Equity().Sub(propertyCGT)

	difference := propertyNet.Sub(fundNet)

	return domain.Summary{
		ETFValue:                fund.Value(),
		ETFContributed:          fund.Contributed(),
		ETFCapitalGainsTax:      fundCGT,
		ETFNetProceeds:          fundNet,
		PropertyValue:           property.Value(),
		PropertyEquity:          property.Equity(),
		MortgagePrincipal:       mortgage.Principal,
		OffsetBalance:           mortgage.OffsetBalance,
		TotalOutOfPocket:        totalOutOfPocket,
		PropertyCostBase:        property.CostBase(),
		PropertyCapitalGainsTax: propertyCGT,
		PropertyNetProceeds:     propertyNet,
		Difference:              difference,
		Leader:                  domain.LeaderOf(difference),
	}
}
