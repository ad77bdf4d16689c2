package domain

import (
	"github.com/shopspring/decimal"
)

// ETFInvestment is a liquid fund compounding at a fixed rate less a management fee
type ETFInvestment struct {
	position

	Rate decimal.Decimal
	MER  decimal.Decimal

	contributed decimal.Decimal
}

// NewETFInvestment creates a fund holding initialCash
func NewETFInvestment(name string, initialCash, annualReturn, merFee decimal.Decimal, config *SimulationConfig) (*ETFInvestment, error) {
	pos, err := newPosition(name, initialCash, config)
	if err != nil {
		return nil, err
	}
	if annualReturn.LessThanOrEqual(one.Neg()) || annualReturn.GreaterThanOrEqual(one) {
		return nil, invalid("annual_return", "must be in the range (-1, 1)")
	}
	if err := checkRate("mer_fee", merFee); err != nil {
		return nil, err
	}

	return &ETFInvestment{
		position:    pos,
		Rate:        annualReturn,
		MER:         merFee,
		contributed: initialCash,
	}, nil
}

// CalculateAnnualReturn compounds the value by Rate and returns the growth
func (e *ETFInvestment) CalculateAnnualReturn() decimal.Decimal {
	growth := e.value.Mul(e.Rate)
	e.value = e.value.Add(growth)
	return growth
}

// ApplyCosts deducts the management fee on the current value and returns it
func (e *ETFInvestment) ApplyCosts() decimal.Decimal {
	fee := e.value.Mul(e.MER)
	e.value = e.value.Sub(fee)
	return fee
}

// InvestCash adds external capital to the fund, e.g. the cash a leveraged
// property consumed that could have been invested here instead
func (e *ETFInvestment) InvestCash(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	e.value = e.value.Add(amount)
	e.contributed = e.contributed.Add(amount)
}

// Contributed returns the initial cash plus every InvestCash deposit
func (e *ETFInvestment) Contributed() decimal.Decimal {
	return e.contributed
}
