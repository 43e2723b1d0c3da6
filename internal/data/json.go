package data

import (
	"encoding/json"
	"io"
	"os"

	"ames-casefile/internal/model"
)

// Zone is one entry of the zone index.
type Zone struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// CaseDocument is the JSON shape of a finished case.
type CaseDocument struct {
	Simulation      model.SimulationParams       `json:"simulation"`
	Zones           []Zone                       `json:"zones"`
	Node            *model.NodeData              `json:"node,omitempty"`
	Branches        []model.BranchData           `json:"branches"`
	Generators      []model.GenData              `json:"generators"`
	AlertGenerators []string                     `json:"alert_generators,omitempty"`
	Learning        []model.LearningParams       `json:"learning"`
	HasLearningData bool                         `json:"has_learning_data"`
	SCUC            map[string]model.SCUCInput   `json:"scuc"`
	GenCosts        map[string]model.GenCost     `json:"gen_costs,omitempty"`
	FuelTypes       map[string]string            `json:"fuel_types,omitempty"`
	NumLSE          int                          `json:"num_lse"`
	LSE             []model.LSEData              `json:"lse,omitempty"`
	LSESections     [][]model.LSESection         `json:"lse_sections,omitempty"`
	PriceSensitive  []model.PriceSensitiveDemand `json:"price_sensitive,omitempty"`
	Hybrid          []model.HybridDemand         `json:"hybrid,omitempty"`
}

func NewCaseDocument(c *model.CaseData) CaseDocument {
	doc := CaseDocument{
		Simulation:      c.SimulationParams,
		Node:            c.Node,
		Branches:        c.Branches,
		Generators:      c.Generators,
		AlertGenerators: c.AlertGenerators,
		Learning:        c.Learning,
		HasLearningData: c.HasLearningData,
		SCUC:            c.SCUCData(),
		GenCosts:        c.GenCosts(),
		FuelTypes:       c.FuelTypes(),
		NumLSE:          c.NumLSE,
		LSE:             c.LSE,
		PriceSensitive:  c.PriceSensitive,
		Hybrid:          c.Hybrid,
	}
	for _, name := range c.Zones.Names() {
		idx, _ := c.Zones.Get(name)
		doc.Zones = append(doc.Zones, Zone{Name: name, Index: idx})
	}
	if c.LSE != nil {
		doc.LSESections = c.LSESections[:]
	}
	return doc
}

func WriteCaseJSON(w io.Writer, c *model.CaseData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewCaseDocument(c))
}

func SaveCaseJSON(path string, c *model.CaseData) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCaseJSON(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func LoadCaseJSON(path string) (*CaseDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc CaseDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GroupByZone splits the generator table into zone-keyed slices.
func GroupByZone(c *model.CaseData) map[string][]model.GenData {
	out := map[string][]model.GenData{}
	if c == nil {
		return out
	}
	for _, g := range c.Generators {
		name, ok := c.Zones.Name(g.AtBus)
		if !ok {
			continue
		}
		out[name] = append(out[name], g)
	}
	return out
}
