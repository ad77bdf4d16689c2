package domain

import (
	"github.com/shopspring/decimal"
)

// MortgageInput carries the construction parameters of a Mortgage
type MortgageInput struct {
	Principal     decimal.Decimal
	InterestRate  decimal.Decimal
	TermYears     int
	OffsetBalance decimal.Decimal
	// RecalculatePayment recomputes the annual payment from the current balance
	// and remaining term every year instead of fixing it at construction
	RecalculatePayment bool
}

// Repayment is the outcome of one year of loan servicing
type Repayment struct {
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Total     decimal.Decimal
}

// Mortgage is an amortizing loan advanced one year at a time.
// Interest accrues on the principal net of the offset balance; the principal
// never increases and reaches zero no later than TermYears payments.
type Mortgage struct {
	Principal          decimal.Decimal
	InterestRate       decimal.Decimal
	TermYears          int
	OffsetBalance      decimal.Decimal
	RecalculatePayment bool
	YearsPaid          int

	annualPayment decimal.Decimal
}

// NewMortgage validates input and fixes the level annual payment
func NewMortgage(input MortgageInput) (*Mortgage, error) {
	if input.Principal.IsNegative() {
		return nil, invalid("principal", "must not be negative")
	}
	if err := checkRate("interest_rate", input.InterestRate); err != nil {
		return nil, err
	}
	if input.TermYears <= 0 {
		return nil, invalid("term_years", "must be positive")
	}
	if input.OffsetBalance.IsNegative() {
		return nil, invalid("offset_balance", "must not be negative")
	}

	m := &Mortgage{
		Principal:          input.Principal,
		InterestRate:       input.InterestRate,
		TermYears:          input.TermYears,
		OffsetBalance:      input.OffsetBalance,
		RecalculatePayment: input.RecalculatePayment,
	}
	m.annualPayment = m.ComputeAnnualPayment()
	return m, nil
}

// paymentPlaces is the precision of the amortization quotient
const paymentPlaces = 40

// RemainingTerm returns the number of scheduled payments left
func (m *Mortgage) RemainingTerm() int {
	if m.YearsPaid >= m.TermYears {
		return 0
	}
	return m.TermYears - m.YearsPaid
}

// AnnualPayment returns the payment the next PayYear will use
func (m *Mortgage) AnnualPayment() decimal.Decimal {
	if m.RecalculatePayment {
		return m.ComputeAnnualPayment()
	}
	return m.annualPayment
}

// ComputeAnnualPayment returns the level payment that amortizes the current
// principal over the remaining term:
//
//	P × r(1+r)^n / ((1+r)^n − 1)
//
// With r = 0 the loan is repaid straight-line as P / n.
//
// The quotient keeps paymentPlaces decimal places. When (1+r)^n exceeds about
// 10^paymentPlaces the principal share of early payments is below that
// resolution and the loan behaves as interest-only until the final years.
func (m *Mortgage) ComputeAnnualPayment() decimal.Decimal {
	if !m.Principal.IsPositive() {
		return decimal.Zero
	}
	n := m.RemainingTerm()
	if n == 0 {
		return m.Principal
	}
	if m.InterestRate.IsZero() {
		return m.Principal.Div(decimal.NewFromInt(int64(n)))
	}

	r := m.InterestRate
	growth := one.Add(r).Pow(decimal.NewFromInt(int64(n)))
	return m.Principal.Mul(r).Mul(growth).DivRound(growth.Sub(one), paymentPlaces)
}

// EffectivePrincipal is the interest-bearing balance: principal less offset cash, floored at zero
func (m *Mortgage) EffectivePrincipal() decimal.Decimal {
	effective := m.Principal.Sub(m.OffsetBalance)
	if effective.IsNegative() {
		return decimal.Zero
	}
	return effective
}

// DepositOffset adds cash to the offset account.
// Non-positive amounts are ignored.
func (m *Mortgage) DepositOffset(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	m.OffsetBalance = m.OffsetBalance.Add(amount)
}

// IsPaidOff reports whether the loan has reached its terminal state
func (m *Mortgage) IsPaidOff() bool {
	return !m.Principal.IsPositive()
}

// PayYear advances the loan by one year and returns the interest, principal
// and total paid. A paid-off loan returns a zero Repayment and is not changed.
func (m *Mortgage) PayYear() Repayment {
	if m.IsPaidOff() {
		return Repayment{Interest: decimal.Zero, Principal: decimal.Zero, Total: decimal.Zero}
	}

	payment := m.AnnualPayment()
	interest := m.EffectivePrincipal().Mul(m.InterestRate)
	principalPaid := payment.Sub(interest)
	if principalPaid.IsNegative() {
		principalPaid = decimal.Zero
		payment = interest
	}

	// Final scheduled year settles whatever rounding left behind
	if m.RemainingTerm() <= 1 || principalPaid.GreaterThan(m.Principal) {
		principalPaid = m.Principal
		payment = interest.Add(principalPaid)
	}

	m.Principal = m.Principal.Sub(principalPaid)
	m.YearsPaid++

	return Repayment{Interest: interest, Principal: principalPaid, Total: payment}
}
