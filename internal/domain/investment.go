package domain

import (
	"maps"

	"github.com/shopspring/decimal"
)

// Investment is the lifecycle shared by every strategy in a simulation.
// A driver calls CalculateAnnualReturn then ApplyCosts once per simulated
// year, then LogStatus. The two annual operations stay separate so a driver
// can run all growth before any cost or cash-flow effect.
type Investment interface {
	Name() string
	Value() decimal.Decimal
	History() []Snapshot

	// CalculateAnnualReturn accrues one year of growth into the value and returns the growth amount
	CalculateAnnualReturn() decimal.Decimal

	// ApplyCosts applies one year of costs and cash-flow effects.
	// The returned amount is variant specific.
	ApplyCosts() decimal.Decimal

	LogStatus(year int, extra map[string]decimal.Decimal)
}

// Snapshot is one year of an investment's history
type Snapshot struct {
	Year  int                        `json:"year"`
	Value decimal.Decimal            `json:"value"`
	Extra map[string]decimal.Decimal `json:"extra,omitempty"`
}

// position holds the state common to all investments
type position struct {
	name    string
	value   decimal.Decimal
	config  *SimulationConfig
	history []Snapshot
}

func newPosition(name string, initialValue decimal.Decimal, config *SimulationConfig) (position, error) {
	if name == "" {
		return position{}, invalid("name", "cannot be empty")
	}
	if initialValue.IsNegative() {
		return position{}, invalid("initial value", "must not be negative")
	}
	if config == nil {
		return position{}, invalid("config", "simulation config is required")
	}
	return position{name: name, value: initialValue, config: config}, nil
}

func (p *position) Name() string              { return p.name }
func (p *position) Value() decimal.Decimal    { return p.value }
func (p *position) Config() *SimulationConfig { return p.config }

// History returns a copy of the logged snapshots in chronological order
func (p *position) History() []Snapshot {
	out := make([]Snapshot, len(p.history))
	copy(out, p.history)
	return out
}

// LogStatus appends a snapshot of the current value.
// extra is copied so later changes by the caller do not leak into history.
func (p *position) LogStatus(year int, extra map[string]decimal.Decimal) {
	snap := Snapshot{Year: year, Value: p.value}
	if len(extra) > 0 {
		snap.Extra = maps.Clone(extra)
	}
	p.history = append(p.history, snap)
}

var (
	_ Investment = (*ETFInvestment)(nil)
	_ Investment = (*LeveragedProperty)(nil)
)
