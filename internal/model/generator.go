package model

import (
	"errors"
	"fmt"
)

// GenData is one row of the generator table.
// Units:
// - StartupCost, InitMoney: $
// - A: $/MWh, B: $/MW^2h (marginal cost = A + 2*B*p)
// - CapL, CapU: MW
type GenData struct {
	Name        string  `json:"name"`
	ID          int     `json:"id"`
	AtBus       int     `json:"at_bus"`
	StartupCost float64 `json:"startup_cost"`
	A           float64 `json:"a"`
	B           float64 `json:"b"`
	CapL        float64 `json:"cap_l"`
	CapU        float64 `json:"cap_u"`
	InitMoney   float64 `json:"init_money"`

	// IsCanary marks an alert generator. It is the only field patched after
	// construction, once the whole case has been read.
	IsCanary bool `json:"is_canary"`
}

func NewGenData(name string, id, atBus int, startupCost, a, b, capL, capU, initMoney float64) (*GenData, error) {
	g := &GenData{
		Name:        name,
		ID:          id,
		AtBus:       atBus,
		StartupCost: startupCost,
		A:           a,
		B:           b,
		CapL:        capL,
		CapU:        capU,
		InitMoney:   initMoney,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *GenData) Validate() error {
	if g.Name == "" {
		return errors.New("generator name is required")
	}
	if g.AtBus < 1 {
		return fmt.Errorf("generator %s: atBus must be >= 1", g.Name)
	}
	if g.CapL > g.CapU {
		return fmt.Errorf("generator %s: CapL %.4f exceeds CapU %.4f", g.Name, g.CapL, g.CapU)
	}
	return nil
}

// Row returns the generator in the column order downstream market code expects.
func (g GenData) Row() []any {
	return []any{g.Name, g.ID, g.AtBus, g.StartupCost, g.A, g.B, g.CapL, g.CapU, g.InitMoney, g.IsCanary}
}

// NodeData is the single row of the node section.
type NodeData struct {
	NumNodes      int     `json:"num_nodes"`
	PenaltyWeight float64 `json:"penalty_weight"`
}

// BranchData is one transmission line. Capacity and Reactance are kept at
// four decimal places.
type BranchData struct {
	Name      string  `json:"name"`
	From      int     `json:"from"`
	To        int     `json:"to"`
	MaxCap    float64 `json:"max_cap"`
	Reactance float64 `json:"reactance"`
}
