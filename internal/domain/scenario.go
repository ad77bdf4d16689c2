package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxProjectionYears bounds the simulation horizon
const MaxProjectionYears = 100

// Assumptions is the serializable form of a SimulationConfig
type Assumptions struct {
	InflationRate           decimal.Decimal `json:"inflation_rate"`
	MarginalTaxRate         decimal.Decimal `json:"marginal_tax_rate"`
	CapitalGainsTaxDiscount decimal.Decimal `json:"capital_gains_tax_discount"`
	StampDutyRate           decimal.Decimal `json:"stamp_duty_rate"`
	ClosingCosts            decimal.Decimal `json:"closing_costs"`
}

// DefaultAssumptions mirrors DefaultSimulationConfig
func DefaultAssumptions() Assumptions {
	return Assumptions{
		InflationRate:           DefaultInflationRate,
		MarginalTaxRate:         DefaultMarginalTaxRate,
		CapitalGainsTaxDiscount: DefaultCapitalGainsTaxDiscount,
		StampDutyRate:           DefaultStampDutyRate,
		ClosingCosts:            DefaultClosingCosts,
	}
}

// IsZero reports whether no assumption was supplied at all
func (a Assumptions) IsZero() bool {
	return a.InflationRate.IsZero() &&
		a.MarginalTaxRate.IsZero() &&
		a.CapitalGainsTaxDiscount.IsZero() &&
		a.StampDutyRate.IsZero() &&
		a.ClosingCosts.IsZero()
}

// SimulationConfig validates the assumptions and freezes them
func (a Assumptions) SimulationConfig() (*SimulationConfig, error) {
	return NewSimulationConfig(a.InflationRate, a.MarginalTaxRate, a.CapitalGainsTaxDiscount, a.StampDutyRate, a.ClosingCosts)
}

type ETFParams struct {
	Name string `json:"name"`
	// InitialCash of zero means "the capital the property purchase ties up"
	InitialCash  decimal.Decimal `json:"initial_cash"`
	AnnualReturn decimal.Decimal `json:"annual_return"`
	MER          decimal.Decimal `json:"mer"`
}

type PropertyParams struct {
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	GrowthRate    decimal.Decimal `json:"growth_rate"`
	RentalYield   decimal.Decimal `json:"rental_yield"`
	Expenses      decimal.Decimal `json:"expenses"`
}

type MortgageParams struct {
	Principal          decimal.Decimal `json:"principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	TermYears          int             `json:"term_years"`
	OffsetBalance      decimal.Decimal `json:"offset_balance"`
	RecalculatePayment bool            `json:"recalculate_payment"`
}

// Scenario is a complete, repeatable comparison between a fund and a leveraged property
type Scenario struct {
	ID                  uuid.UUID      `json:"id"`
	Name                string         `json:"name"`
	Years               int            `json:"years"`
	Policy              CashFlowPolicy `json:"policy"`
	ReinvestOutOfPocket bool           `json:"reinvest_out_of_pocket"`
	Assumptions         Assumptions    `json:"assumptions"`
	ETF                 ETFParams      `json:"etf"`
	Property            PropertyParams `json:"property"`
	Mortgage            MortgageParams `json:"mortgage"`
	CreatedAt           time.Time      `json:"created_at"`
}

// Validate checks the scenario-level rules.
// Component parameters are validated again by their constructors.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return invalid("scenario name", "cannot be empty")
	}
	if s.Years <= 0 || s.Years > MaxProjectionYears {
		return invalid("years", "must be between 1 and 100")
	}
	if err := s.Policy.Validate(); err != nil {
		return err
	}
	if !s.Property.PurchasePrice.IsPositive() {
		return invalid("purchase_price", "must be positive")
	}
	if s.Mortgage.Principal.GreaterThan(s.Property.PurchasePrice) {
		return invalid("principal", "cannot exceed the purchase price")
	}
	if s.Mortgage.OffsetBalance.IsNegative() {
		return invalid("offset_balance", "must not be negative")
	}
	// Policy A has no offset account to hold the cash
	if s.Policy == PolicyDiscardSurplus && !s.Mortgage.OffsetBalance.IsZero() {
		return invalid("offset_balance", "requires the OFFSET_BANKING policy")
	}
	if s.ETF.InitialCash.IsNegative() {
		return invalid("initial_cash", "must not be negative")
	}
	if _, err := s.Assumptions.SimulationConfig(); err != nil {
		return err
	}
	return nil
}

// UpfrontCapital is the cash a buyer ties up on day one: deposit, acquisition
// costs and any opening offset balance
func (s *Scenario) UpfrontCapital(config *SimulationConfig) decimal.Decimal {
	deposit := s.Property.PurchasePrice.Sub(s.Mortgage.Principal)
	return deposit.
		Add(config.AcquisitionCosts(s.Property.PurchasePrice)).
		Add(s.Mortgage.OffsetBalance)
}

// Fingerprint identifies the scenario inputs regardless of ID, name and creation time
func (s *Scenario) Fingerprint() (string, error) {
	inputs := *s
	inputs.ID = uuid.Nil
	inputs.Name = ""
	inputs.CreatedAt = time.Time{}

	raw, err := json.Marshal(inputs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
