package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Strategy identifies one side of a comparison
type Strategy string

const (
	StrategyETF      Strategy = "ETF"
	StrategyProperty Strategy = "PROPERTY"
	StrategyTie      Strategy = "TIE"
)

// Summary compares the two strategies at the end of the horizon
type Summary struct {
	ETFValue           decimal.Decimal `json:"etf_value"`
	ETFContributed     decimal.Decimal `json:"etf_contributed"`
	ETFCapitalGainsTax decimal.Decimal `json:"etf_capital_gains_tax"`
	ETFNetProceeds     decimal.Decimal `json:"etf_net_proceeds"`

	PropertyValue           decimal.Decimal `json:"property_value"`
	PropertyEquity          decimal.Decimal `json:"property_equity"`
	MortgagePrincipal       decimal.Decimal `json:"mortgage_principal"`
	OffsetBalance           decimal.Decimal `json:"offset_balance"`
	TotalOutOfPocket        decimal.Decimal `json:"total_out_of_pocket"`
	PropertyCostBase        decimal.Decimal `json:"property_cost_base"`
	PropertyCapitalGainsTax decimal.Decimal `json:"property_capital_gains_tax"`
	PropertyNetProceeds     decimal.Decimal `json:"property_net_proceeds"`

	// Difference is property net proceeds minus fund net proceeds
	Difference decimal.Decimal `json:"difference"`
	Leader     Strategy        `json:"leader"`
}

// ProjectionResult is the full yearly history of one scenario run
type ProjectionResult struct {
	ScenarioID   uuid.UUID      `json:"scenario_id"`
	Years        int            `json:"years"`
	Policy       CashFlowPolicy `json:"policy"`
	FundName     string         `json:"fund_name"`
	PropertyName string         `json:"property_name"`
	ETF          []Snapshot     `json:"etf"`
	Property     []Snapshot     `json:"property"`
	Summary      Summary        `json:"summary"`
	Cached       bool           `json:"cached"`
}

// SnapshotRecord is a persisted history entry
type SnapshotRecord struct {
	ID         uuid.UUID
	ScenarioID uuid.UUID
	Strategy   Strategy
	Investment string
	Snapshot
}

// LeaderOf returns which strategy a difference (property minus fund) favours
func LeaderOf(difference decimal.Decimal) Strategy {
	switch difference.Sign() {
	case 1:
		return StrategyProperty
	case -1:
		return StrategyETF
	default:
		return StrategyTie
	}
}
