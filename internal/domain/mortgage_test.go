package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMortgage(t *testing.T, principal, rate string, term int) *Mortgage {
	t.Helper()
	m, err := NewMortgage(MortgageInput{
		Principal:    d(principal),
		InterestRate: d(rate),
		TermYears:    term,
	})
	require.NoError(t, err)
	return m
}

func TestNewMortgage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   MortgageInput
		wantErr bool
		errMsg  string
	}{
		{
			name:  "standard loan",
			input: MortgageInput{Principal: d("400000"), InterestRate: d("0.04"), TermYears: 30},
		},
		{
			name:  "zero principal is allowed",
			input: MortgageInput{Principal: decimal.Zero, InterestRate: d("0.04"), TermYears: 30},
		},
		{
			name:    "negative principal",
			input:   MortgageInput{Principal: d("-1"), InterestRate: d("0.04"), TermYears: 30},
			wantErr: true,
			errMsg:  "invalid principal",
		},
		{
			name:    "zero term",
			input:   MortgageInput{Principal: d("1000"), InterestRate: d("0.04"), TermYears: 0},
			wantErr: true,
			errMsg:  "invalid term_years",
		},
		{
			name:    "rate of 100 percent",
			input:   MortgageInput{Principal: d("1000"), InterestRate: d("1"), TermYears: 5},
			wantErr: true,
			errMsg:  "invalid interest_rate",
		},
		{
			name:    "negative offset",
			input:   MortgageInput{Principal: d("1000"), InterestRate: d("0.04"), TermYears: 5, OffsetBalance: d("-5")},
			wantErr: true,
			errMsg:  "invalid offset_balance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMortgage(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, m)
				assert.True(t, IsValidationError(err))
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, m)
			}
		})
	}
}

func TestMortgage_ComputeAnnualPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
		want      string
	}{
		{name: "400k @ 4% over 30 years", principal: "400000", rate: "0.04", term: 30, want: "23132.04"},
		{name: "100k @ 5% over 10 years", principal: "100000", rate: "0.05", term: 10, want: "12950.46"},
		{name: "200k @ 5% over 25 years", principal: "200000", rate: "0.05", term: 25, want: "14190.49"},
		{name: "zero rate is straight line", principal: "100000", rate: "0", term: 10, want: "10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMortgage(t, tt.principal, tt.rate, tt.term)
			assertClose(t, tt.want, m.ComputeAnnualPayment(), "0.01")

			// Pure function of state: repeated calls agree
			assert.True(t, m.ComputeAnnualPayment().Equal(m.ComputeAnnualPayment()))
			assert.True(t, m.AnnualPayment().Equal(m.ComputeAnnualPayment()))
		})
	}
}

func TestMortgage_PayYear_FirstYear(t *testing.T) {
	m := newTestMortgage(t, "400000", "0.04", 30)

	r := m.PayYear()

	assertDecimal(t, "16000", r.Interest)
	assertClose(t, "7132.04", r.Principal, "0.01")
	assertClose(t, "23132.04", r.Total, "0.01")
	assert.True(t, r.Total.Equal(r.Interest.Add(r.Principal)))
	assert.True(t, m.Principal.Equal(d("400000").Sub(r.Principal)))
	assert.Equal(t, 1, m.YearsPaid)
}

func TestMortgage_FullTermRepaysExactly(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
	}{
		{name: "400k @ 4% / 30", principal: "400000", rate: "0.04", term: 30},
		{name: "123456.78 @ 6.5% / 17", principal: "123456.78", rate: "0.065", term: 17},
		{name: "100k @ 0% / 3 with inexact division", principal: "100000", rate: "0", term: 3},
		{name: "100k @ 90% / 100", principal: "100000", rate: "0.9", term: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMortgage(t, tt.principal, tt.rate, tt.term)
			previous := m.Principal
			total := decimal.Zero

			for year := 1; year <= tt.term; year++ {
				r := m.PayYear()
				assert.False(t, r.Principal.IsNegative(), "year %d", year)
				assert.True(t, m.Principal.LessThanOrEqual(previous), "principal increased in year %d", year)
				previous = m.Principal
				total = total.Add(r.Principal)
			}

			assert.True(t, m.Principal.IsZero(), "residual principal %s", m.Principal)
			assertDecimal(t, tt.principal, total)
			assert.True(t, m.IsPaidOff())
		})
	}
}

func TestMortgage_ExtremeRateStillAmortizesFromYearOne(t *testing.T) {
	m := newTestMortgage(t, "100000", "0.9", 100)

	r := m.PayYear()

	assertDecimal(t, "90000", r.Interest)
	assert.True(t, r.Principal.IsPositive(), "first year principal %s", r.Principal)
	assert.True(t, m.Principal.LessThan(d("100000")))
}

func TestMortgage_ZeroRateEqualInstalments(t *testing.T) {
	m := newTestMortgage(t, "100000", "0", 10)

	for year := 1; year <= 10; year++ {
		r := m.PayYear()
		assertDecimal(t, "0", r.Interest)
		assertDecimal(t, "10000", r.Principal)
		assertDecimal(t, "10000", r.Total)
	}
	assert.True(t, m.Principal.IsZero())
}

func TestMortgage_PaidOffIsTerminal(t *testing.T) {
	m := newTestMortgage(t, "1000", "0.05", 1)

	first := m.PayYear()
	assertDecimal(t, "50", first.Interest)
	assertDecimal(t, "1000", first.Principal)
	assertDecimal(t, "1050", first.Total)
	require.True(t, m.IsPaidOff())

	for i := 0; i < 3; i++ {
		r := m.PayYear()
		assert.True(t, r.Interest.IsZero())
		assert.True(t, r.Principal.IsZero())
		assert.True(t, r.Total.IsZero())
		assert.True(t, m.Principal.IsZero())
	}
}

func TestMortgage_PayYear_ClampsFinalPartialPayment(t *testing.T) {
	m := newTestMortgage(t, "1000", "0.05", 10)
	// Balance knocked down out of band, the fixed payment now exceeds what is owed
	m.Principal = d("100")

	r := m.PayYear()

	assertDecimal(t, "5", r.Interest)
	assertDecimal(t, "100", r.Principal)
	assertDecimal(t, "105", r.Total)
	assert.True(t, m.Principal.IsZero())
}

func TestMortgage_OffsetReducesInterest(t *testing.T) {
	tests := []struct {
		name         string
		offset       string
		wantInterest string
	}{
		{name: "no offset", offset: "0", wantInterest: "20000"},
		{name: "partial offset", offset: "100000", wantInterest: "15000"},
		{name: "offset above principal floors at zero", offset: "500000", wantInterest: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMortgage(MortgageInput{
				Principal:     d("400000"),
				InterestRate:  d("0.05"),
				TermYears:     30,
				OffsetBalance: d(tt.offset),
			})
			require.NoError(t, err)

			r := m.PayYear()
			assertDecimal(t, tt.wantInterest, r.Interest)
			// Offset cash is never used to repay principal
			assertDecimal(t, tt.offset, m.OffsetBalance)
		})
	}
}

func TestMortgage_DepositOffset(t *testing.T) {
	m := newTestMortgage(t, "1000", "0.05", 10)

	m.DepositOffset(d("250"))
	m.DepositOffset(d("-10"))
	m.DepositOffset(decimal.Zero)

	assertDecimal(t, "250", m.OffsetBalance)
	assertDecimal(t, "1000", m.Principal)
	assertDecimal(t, "750", m.EffectivePrincipal())
}

func TestMortgage_RecalculatePayment(t *testing.T) {
	fixed := newTestMortgage(t, "400000", "0.04", 30)
	dynamic, err := NewMortgage(MortgageInput{
		Principal:          d("400000"),
		InterestRate:       d("0.04"),
		TermYears:          30,
		RecalculatePayment: true,
	})
	require.NoError(t, err)

	// Without offset cash both schedules agree
	for year := 1; year <= 5; year++ {
		f := fixed.PayYear()
		g := dynamic.PayYear()
		assertClose(t, f.Total.String(), g.Total, "0.000001")
	}

	// With offset cash the dynamic payment shrinks as principal falls faster
	dynamic.DepositOffset(d("200000"))
	fixed.DepositOffset(d("200000"))
	fixed.PayYear()
	dynamic.PayYear()
	assert.True(t, dynamic.AnnualPayment().LessThan(fixed.AnnualPayment()))
}
