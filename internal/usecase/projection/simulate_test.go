package projection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-sim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func referenceScenario(years int, policy domain.CashFlowPolicy) *domain.Scenario {
	return &domain.Scenario{
		ID:                  uuid.New(),
		Name:                "Reference",
		Years:               years,
		Policy:              policy,
		ReinvestOutOfPocket: true,
		Assumptions:         domain.DefaultAssumptions(),
		ETF: domain.ETFParams{
			Name:         "Index Fund",
			AnnualReturn: d("0.07"),
			MER:          d("0.01"),
		},
		Property: domain.PropertyParams{
			Name:          "Rental",
			PurchasePrice: d("500000"),
			GrowthRate:    d("0.03"),
			RentalYield:   d("0.04"),
			Expenses:      d("5000"),
		},
		Mortgage: domain.MortgageParams{
			Principal:    d("400000"),
			InterestRate: d("0.04"),
			TermYears:    30,
		},
	}
}

func TestBuild_DefaultsFundToUpfrontCapital(t *testing.T) {
	p, err := Build(referenceScenario(1, domain.PolicyDiscardSurplus))
	require.NoError(t, err)

	// 100000 deposit + 20000 stamp duty + 3000 closing costs
	assert.True(t, p.Fund.Value().Equal(d("123000")), "got %s", p.Fund.Value())
	assert.True(t, p.Property.Value().Equal(d("500000")))
	assert.Equal(t, "Index Fund", p.Fund.Name())
	assert.Equal(t, "Rental", p.Property.Name())
}

func TestBuild_OpeningOffsetIsUpfrontCapital(t *testing.T) {
	sc := referenceScenario(1, domain.PolicyOffsetBanking)
	sc.Mortgage.OffsetBalance = d("100000")

	p, err := Build(sc)
	require.NoError(t, err)

	// 123000 purchase capital plus the cash parked in the offset account
	assert.True(t, p.Fund.Value().Equal(d("223000")), "got %s", p.Fund.Value())
	assert.True(t, p.Property.Equity().Equal(d("200000")), "got %s", p.Property.Equity())
}

func TestBuild_ExplicitFundCashAndDefaultNames(t *testing.T) {
	sc := referenceScenario(1, domain.PolicyOffsetBanking)
	sc.ETF.InitialCash = d("50000")
	sc.ETF.Name = ""
	sc.Property.Name = ""

	p, err := Build(sc)
	require.NoError(t, err)

	assert.True(t, p.Fund.Value().Equal(d("50000")))
	assert.Equal(t, defaultFundName, p.Fund.Name())
	assert.Equal(t, defaultPropertyName, p.Property.Name())
	assert.Equal(t, domain.PolicyOffsetBanking, p.Property.Policy)
}

func TestBuild_InvalidScenario(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(sc *domain.Scenario)
		errMsg string
	}{
		{name: "no years", mutate: func(sc *domain.Scenario) { sc.Years = 0 }, errMsg: "invalid years"},
		{name: "unknown policy", mutate: func(sc *domain.Scenario) { sc.Policy = "" }, errMsg: "invalid cash_flow_policy"},
		{name: "loan above price", mutate: func(sc *domain.Scenario) { sc.Mortgage.Principal = d("600000") }, errMsg: "invalid principal"},
		{name: "zero term", mutate: func(sc *domain.Scenario) { sc.Mortgage.TermYears = 0 }, errMsg: "invalid term_years"},
		{name: "bad fund fee", mutate: func(sc *domain.Scenario) { sc.ETF.MER = d("2") }, errMsg: "invalid mer_fee"},
		{name: "offset without offset policy", mutate: func(sc *domain.Scenario) { sc.Mortgage.OffsetBalance = d("100000") }, errMsg: "invalid offset_balance"},
		{name: "negative offset", mutate: func(sc *domain.Scenario) { sc.Mortgage.OffsetBalance = d("-1") }, errMsg: "invalid offset_balance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := referenceScenario(5, domain.PolicyDiscardSurplus)
			tt.mutate(sc)

			p, err := Build(sc)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, domain.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSimulate_ReferenceFirstYear(t *testing.T) {
	sc := referenceScenario(1, domain.PolicyDiscardSurplus)

	result, err := Simulate(sc)
	require.NoError(t, err)

	assert.Equal(t, sc.ID, result.ScenarioID)
	require.Len(t, result.Property, 1)
	require.Len(t, result.ETF, 1)

	prop := result.Property[0]
	assert.Equal(t, 1, prop.Year)
	assert.True(t, prop.Value.Equal(d("515000")))
	assert.True(t, prop.Extra["rental_income"].Equal(d("20600")))
	assert.True(t, prop.Extra["interest"].Equal(d("16000")))
	assert.True(t, prop.Extra["expenses"].Equal(d("5150")))
	assert.True(t, prop.Extra["tax_refund"].Equal(d("203.5")))
	assert.True(t, prop.Extra["appreciation"].Equal(d("15000")))
	assert.True(t, prop.Extra["equity"].Equal(d("515000").Sub(prop.Extra["principal"])))

	outOfPocket := prop.Extra["out_of_pocket"]
	require.True(t, outOfPocket.IsPositive())

	// Fund: 123000 * 1.07 * 0.99, then the property's shortfall is deposited
	fund := result.ETF[0]
	assert.True(t, fund.Extra["growth"].Equal(d("8610")))
	assert.True(t, fund.Extra["fee"].Equal(d("1316.1")))
	assert.True(t, fund.Extra["invested"].Equal(outOfPocket))
	assert.True(t, fund.Value.Equal(d("130293.9").Add(outOfPocket)))
	assert.True(t, result.Summary.TotalOutOfPocket.Equal(outOfPocket))
}

func TestSummarize_NetProceedsFollowEquity(t *testing.T) {
	for _, policy := range []domain.CashFlowPolicy{domain.PolicyDiscardSurplus, domain.PolicyOffsetBanking} {
		t.Run(string(policy), func(t *testing.T) {
			result, err := Simulate(referenceScenario(10, policy))
			require.NoError(t, err)

			s := result.Summary
			assert.True(t, s.PropertyNetProceeds.Equal(s.PropertyEquity.Sub(s.PropertyCapitalGainsTax)),
				"net %s, equity %s, cgt %s", s.PropertyNetProceeds, s.PropertyEquity, s.PropertyCapitalGainsTax)
		})
	}
}

func TestSummarize_OpeningOffsetDoesNotTiltComparison(t *testing.T) {
	base := referenceScenario(1, domain.PolicyOffsetBanking)
	withOffset := referenceScenario(1, domain.PolicyOffsetBanking)
	withOffset.Mortgage.OffsetBalance = d("100000")

	plain, err := Simulate(base)
	require.NoError(t, err)
	offset, err := Simulate(withOffset)
	require.NoError(t, err)

	// Both sides start 100000 richer, so the gap only moves by a year of returns on it
	shift := offset.Summary.Difference.Sub(plain.Summary.Difference).Abs()
	assert.True(t, shift.LessThan(d("10000")), "difference moved by %s", shift)
	assert.True(t, offset.Summary.ETFContributed.Sub(plain.Summary.ETFContributed).GreaterThan(d("99000")))
}

func TestSimulate_WithoutReinvestment(t *testing.T) {
	sc := referenceScenario(1, domain.PolicyDiscardSurplus)
	sc.ReinvestOutOfPocket = false

	result, err := Simulate(sc)
	require.NoError(t, err)

	assert.True(t, result.ETF[0].Value.Equal(d("130293.9")))
	assert.True(t, result.ETF[0].Extra["invested"].IsZero())
	assert.True(t, result.Summary.ETFContributed.Equal(d("123000")))
}

func TestSimulate_FullTerm(t *testing.T) {
	for _, policy := range []domain.CashFlowPolicy{domain.PolicyDiscardSurplus, domain.PolicyOffsetBanking} {
		t.Run(string(policy), func(t *testing.T) {
			result, err := Simulate(referenceScenario(35, policy))
			require.NoError(t, err)

			require.Len(t, result.ETF, 35)
			require.Len(t, result.Property, 35)
			for i, snap := range result.Property {
				assert.Equal(t, i+1, snap.Year)
			}

			s := result.Summary
			assert.True(t, s.MortgagePrincipal.IsZero(), "loan should be repaid after its term")

			// Paid-off years carry no mortgage payment
			last := result.Property[34]
			assert.True(t, last.Extra["mortgage_payment"].IsZero())
			assert.True(t, last.Extra["net_cash_flow"].IsPositive())

			wantEquity := s.PropertyValue.Sub(s.MortgagePrincipal)
			if policy == domain.PolicyOffsetBanking {
				wantEquity = wantEquity.Add(s.OffsetBalance)
				assert.True(t, s.OffsetBalance.IsPositive())
			} else {
				assert.True(t, s.OffsetBalance.IsZero())
			}
			assert.True(t, s.PropertyEquity.Equal(wantEquity))
		})
	}
}

func TestSummarize_CapitalGains(t *testing.T) {
	result, err := Simulate(referenceScenario(10, domain.PolicyDiscardSurplus))
	require.NoError(t, err)
	s := result.Summary

	cfg := domain.DefaultSimulationConfig()
	assert.True(t, s.PropertyCostBase.Equal(d("523000")))
	assert.True(t, s.ETFCapitalGainsTax.Equal(cfg.CapitalGainsTax(s.ETFValue.Sub(s.ETFContributed))))
	assert.True(t, s.ETFNetProceeds.Equal(s.ETFValue.Sub(s.ETFCapitalGainsTax)))
	assert.True(t, s.PropertyCapitalGainsTax.Equal(cfg.CapitalGainsTax(s.PropertyValue.Sub(s.PropertyCostBase))))

	wantNet := s.PropertyValue.Sub(s.MortgagePrincipal).Add(s.OffsetBalance).Sub(s.PropertyCapitalGainsTax)
	assert.True(t, s.PropertyNetProceeds.Equal(wantNet))
	assert.True(t, s.Difference.Equal(s.PropertyNetProceeds.Sub(s.ETFNetProceeds)))
	assert.Equal(t, domain.LeaderOf(s.Difference), s.Leader)
}
