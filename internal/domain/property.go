package domain

import (
	"github.com/shopspring/decimal"
)

// CashFlowPolicy decides what happens to a leveraged property's yearly cash flow
type CashFlowPolicy string

const (
	// PolicyDiscardSurplus reports shortfalls as out-of-pocket and drops any surplus
	PolicyDiscardSurplus CashFlowPolicy = "DISCARD_SURPLUS"
	// PolicyOffsetBanking deposits any surplus into the mortgage offset account
	PolicyOffsetBanking CashFlowPolicy = "OFFSET_BANKING"
)

// Validate ensures the policy is one of the known values
func (p CashFlowPolicy) Validate() error {
	switch p {
	case PolicyDiscardSurplus, PolicyOffsetBanking:
		return nil
	default:
		return invalid("cash_flow_policy", "must be DISCARD_SURPLUS or OFFSET_BANKING")
	}
}

// PropertyInput carries the construction parameters of a LeveragedProperty
type PropertyInput struct {
	Name          string
	PurchasePrice decimal.Decimal
	GrowthRate    decimal.Decimal
	RentalYield   decimal.Decimal
	Expenses      decimal.Decimal // annual expense level before the first year's inflation
	Policy        CashFlowPolicy  // empty means DISCARD_SURPLUS
}

// CashFlow is the breakdown of one ApplyCosts year
type CashFlow struct {
	RentalIncome      decimal.Decimal `json:"rental_income"`
	Interest          decimal.Decimal `json:"interest"`
	PrincipalPaid     decimal.Decimal `json:"principal_paid"`
	MortgagePayment   decimal.Decimal `json:"mortgage_payment"`
	Expenses          decimal.Decimal `json:"expenses"`
	TaxableProfitLoss decimal.Decimal `json:"taxable_profit_loss"`
	TaxRefund         decimal.Decimal `json:"tax_refund"`
	TaxPaid           decimal.Decimal `json:"tax_paid"`
	NetCashFlow       decimal.Decimal `json:"net_cash_flow"`
	OffsetDeposit     decimal.Decimal `json:"offset_deposit"`
	OutOfPocket       decimal.Decimal `json:"out_of_pocket"`
}

// LeveragedProperty is a rental property bought with an amortizing mortgage.
// Equity is derived from value, principal and (under offset banking) the
// offset balance after every ApplyCosts; it is never set directly.
type LeveragedProperty struct {
	position

	PurchasePrice decimal.Decimal
	GrowthRate    decimal.Decimal
	RentalYield   decimal.Decimal
	Expenses      decimal.Decimal
	Policy        CashFlowPolicy
	Mortgage      *Mortgage

	equity   decimal.Decimal
	lastFlow CashFlow
}

// NewLeveragedProperty creates a property owning mortgage
func NewLeveragedProperty(input PropertyInput, mortgage *Mortgage, config *SimulationConfig) (*LeveragedProperty, error) {
	if !input.PurchasePrice.IsPositive() {
		return nil, invalid("purchase_price", "must be positive")
	}
	pos, err := newPosition(input.Name, input.PurchasePrice, config)
	if err != nil {
		return nil, err
	}
	if input.GrowthRate.LessThanOrEqual(one.Neg()) || input.GrowthRate.GreaterThanOrEqual(one) {
		return nil, invalid("growth_rate", "must be in the range (-1, 1)")
	}
	if err := checkRate("rental_yield", input.RentalYield); err != nil {
		return nil, err
	}
	if input.Expenses.IsNegative() {
		return nil, invalid("expenses", "must not be negative")
	}
	if mortgage == nil {
		return nil, invalid("mortgage", "mortgage is required")
	}
	policy := input.Policy
	if policy == "" {
		policy = PolicyDiscardSurplus
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	p := &LeveragedProperty{
		position:      pos,
		PurchasePrice: input.PurchasePrice,
		GrowthRate:    input.GrowthRate,
		RentalYield:   input.RentalYield,
		Expenses:      input.Expenses,
		Policy:        policy,
		Mortgage:      mortgage,
	}
	p.updateEquity()
	return p, nil
}

// Equity returns value less outstanding principal, plus offset cash under offset banking
func (p *LeveragedProperty) Equity() decimal.Decimal {
	return p.equity
}

// LastCashFlow returns the breakdown of the most recent ApplyCosts call
func (p *LeveragedProperty) LastCashFlow() CashFlow {
	return p.lastFlow
}

// CostBase is the purchase price plus acquisition costs
func (p *LeveragedProperty) CostBase() decimal.Decimal {
	return p.PurchasePrice.Add(p.config.AcquisitionCosts(p.PurchasePrice))
}

// CalculateAnnualReturn appreciates the whole asset value (not just equity) by GrowthRate
func (p *LeveragedProperty) CalculateAnnualReturn() decimal.Decimal {
	appreciation := p.value.Mul(p.GrowthRate)
	p.value = p.value.Add(appreciation)
	return appreciation
}

// ApplyCosts runs one year of rent, mortgage servicing, expense inflation and
// tax, routes the net cash flow according to Policy, and returns the cash the
// investor had to supply (zero when the property paid for itself).
func (p *LeveragedProperty) ApplyCosts() decimal.Decimal {
	// Rent is earned on the post-growth value
	rentalIncome := p.value.Mul(p.RentalYield)

	repayment := p.Mortgage.PayYear()

	p.Expenses = p.Expenses.Mul(one.Add(p.config.InflationRate()))
	expenses := p.Expenses

	// Principal repayment is not deductible
	taxable := rentalIncome.Sub(repayment.Interest).Sub(expenses)

	taxRefund, taxPaid := decimal.Zero, decimal.Zero
	if taxable.IsNegative() {
		taxRefund = taxable.Abs().Mul(p.config.MarginalTaxRate())
	} else {
		taxPaid = taxable.Mul(p.config.MarginalTaxRate())
	}

	inflow := rentalIncome.Add(taxRefund)
	outflow := repayment.Total.Add(expenses).Add(taxPaid)
	netCashFlow := inflow.Sub(outflow)

	outOfPocket, offsetDeposit := decimal.Zero, decimal.Zero
	switch p.Policy {
	case PolicyOffsetBanking:
		if netCashFlow.IsPositive() {
			offsetDeposit = netCashFlow
			p.Mortgage.DepositOffset(offsetDeposit)
		} else {
			outOfPocket = netCashFlow.Abs()
		}
	default:
		if netCashFlow.IsNegative() {
			outOfPocket = netCashFlow.Abs()
		}
	}

	p.updateEquity()

	p.lastFlow = CashFlow{
		RentalIncome:      rentalIncome,
		Interest:          repayment.Interest,
		PrincipalPaid:     repayment.Principal,
		MortgagePayment:   repayment.Total,
		Expenses:          expenses,
		TaxableProfitLoss: taxable,
		TaxRefund:         taxRefund,
		TaxPaid:           taxPaid,
		NetCashFlow:       netCashFlow,
		OffsetDeposit:     offsetDeposit,
		OutOfPocket:       outOfPocket,
	}
	return outOfPocket
}

// StatusData renders the latest year for LogStatus
func (p *LeveragedProperty) StatusData() map[string]decimal.Decimal {
	f := p.lastFlow
	return map[string]decimal.Decimal{
		"equity":              p.equity,
		"principal":           p.Mortgage.Principal,
		"offset_balance":      p.Mortgage.OffsetBalance,
		"rental_income":       f.RentalIncome,
		"interest":            f.Interest,
		"principal_paid":      f.PrincipalPaid,
		"mortgage_payment":    f.MortgagePayment,
		"expenses":            f.Expenses,
		"taxable_profit_loss": f.TaxableProfitLoss,
		"tax_refund":          f.TaxRefund,
		"tax_paid":            f.TaxPaid,
		"net_cash_flow":       f.NetCashFlow,
		"out_of_pocket":       f.OutOfPocket,
	}
}

func (p *LeveragedProperty) updateEquity() {
	equity := p.value.Sub(p.Mortgage.Principal)
	if p.Policy == PolicyOffsetBanking {
		equity = equity.Add(p.Mortgage.OffsetBalance)
	}
	p.equity = equity
}
