package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownGenerator is returned by the name-keyed lookups below.
var ErrUnknownGenerator = errors.New("unknown generator")

// SimulationParams are the scalar settings of a test case. Anything not set by
// a directive keeps the value from DefaultSimulation.
type SimulationParams struct {
	BaseS float64 `json:"base_s"`
	BaseV float64 `json:"base_v"`

	RandomSeed int64 `json:"random_seed"`
	MaxDay     int   `json:"max_day"`

	ThresholdProbability     float64 `json:"threshold_probability"`
	DailyNetEarningThreshold float64 `json:"daily_net_earning_threshold"`
	GenPriceCap              float64 `json:"gen_price_cap"`
	LSEPriceCap              float64 `json:"lse_price_cap"`
	StartDay                 int     `json:"start_day"`
	CheckDayLength           int     `json:"check_day_length"`
	ActionProbability        float64 `json:"action_probability"`
	LearningCheckStartDay    int     `json:"learning_check_start_day"`
	LearningCheckDayLength   int     `json:"learning_check_day_length"`
	LearningCheckDifference  float64 `json:"learning_check_difference"`
	DailyNetEarningStartDay  int     `json:"daily_net_earning_start_day"`
	DailyNetEarningDayLength int     `json:"daily_net_earning_day_length"`

	StopOnMaximumDay        bool `json:"stop_on_maximum_day"`
	StopOnThreshold         bool `json:"stop_on_threshold"`
	StopOnDailyNetEarning   bool `json:"stop_on_daily_net_earning"`
	StopOnActionProbability bool `json:"stop_on_action_probability"`
	StopOnLearningCheck     bool `json:"stop_on_learning_check"`

	ReserveRequirements float64         `json:"reserve_requirements"`
	// CapacityMargin is a fraction, not a percentage.
	CapacityMargin      float64         `json:"capacity_margin"`
	LSEDemandSource     LSEDemandSource `json:"lse_demand_source"`
	SCUCType            SCUCType        `json:"scuc_type"`
	LoadCaseControlFile string          `json:"load_case_control_file"`
}

func DefaultSimulation() SimulationParams {
	return SimulationParams{
		RandomSeed:               695672061,
		MaxDay:                   50,
		ThresholdProbability:     0.999,
		DailyNetEarningThreshold: 10.0,
		GenPriceCap:              1000.0,
		LSEPriceCap:              0.0,
		StartDay:                 1,
		CheckDayLength:           5,
		ActionProbability:        0.001,
		LearningCheckStartDay:    1,
		LearningCheckDayLength:   5,
		LearningCheckDifference:  0.001,
		DailyNetEarningStartDay:  1,
		DailyNetEarningDayLength: 5,
		StopOnMaximumDay:         true,
		StopOnThreshold:          true,
		ReserveRequirements:      1000,
		CapacityMargin:           0.10,
		LSEDemandSource:          DemandFromTestCase,
		SCUCType:                 SCUCDeterministic,
		LoadCaseControlFile:      "DATA/ControlFile.dat",
	}
}

// GenCost is one row of the generator cost section.
type GenCost struct {
	NoLoad      float64 `json:"no_load"`
	ColdStartUp float64 `json:"cold_start_up"`
	HotStartUp  float64 `json:"hot_start_up"`
	ShutDown    float64 `json:"shut_down"`
}

// CaseData is everything read from one test case. It is filled section by
// section while reading and then passed once through the finishing pipeline;
// after that it is treated as read-only.
type CaseData struct {
	SimulationParams

	Zones *ZoneIndex

	Node       *NodeData
	Branches   []BranchData
	Generators []GenData

	// AlertGenerators are the names listed in the AlertGenCo section.
	AlertGenerators []string

	Learning        []LearningParams
	HasLearningData bool

	// Fixed demand. LSE is nil until a fixed demand section is read or
	// synthesized.
	LSESections [NumSections][]LSESection
	LSE         []LSEData
	NumLSE      int

	PriceSensitive []PriceSensitiveDemand
	Hybrid         []HybridDemand

	scuc  map[string]SCUCInput
	costs map[string]GenCost
	fuel  map[string]string

	learningDefaulted bool
}

func NewCaseData(sim SimulationParams) *CaseData {
	return &CaseData{
		SimulationParams: sim,
		Zones:            NewZoneIndex(),
		scuc:             map[string]SCUCInput{},
		costs:            map[string]GenCost{},
		fuel:             map[string]string{},
	}
}

// Generator finds a generator by exact name.
func (c *CaseData) Generator(name string) (*GenData, bool) {
	for i := range c.Generators {
		if c.Generators[i].Name == name {
			return &c.Generators[i], true
		}
	}
	return nil, false
}

// LearningFor returns the learning params of the named generator. Learning
// rows are positional, so the generator's table position selects the row.
func (c *CaseData) LearningFor(name string) (LearningParams, error) {
	for i := range c.Generators {
		if c.Generators[i].Name != name {
			continue
		}
		if i >= len(c.Learning) {
			return LearningParams{}, fmt.Errorf("generator %s has no learning row", name)
		}
		return c.Learning[i], nil
	}
	return LearningParams{}, fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
}

// PutSCUC stores the commitment inputs for a generator, replacing any
// earlier entry.
func (c *CaseData) PutSCUC(name string, in SCUCInput) {
	c.scuc[name] = in
}

func (c *CaseData) SCUC(name string) (SCUCInput, error) {
	in, ok := c.scuc[name]
	if !ok {
		return SCUCInput{}, fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
	}
	return in, nil
}

// SCUCData returns a copy of all commitment inputs keyed by generator name.
func (c *CaseData) SCUCData() map[string]SCUCInput {
	out := make(map[string]SCUCInput, len(c.scuc))
	for k, v := range c.scuc {
		out[k] = v
	}
	return out
}

func (c *CaseData) PutGenCost(name string, cost GenCost) {
	c.costs[name] = cost
}

func (c *CaseData) PutFuelType(name, fuel string) {
	c.fuel[name] = fuel
}

func (c *CaseData) genCost(name string) (GenCost, error) {
	cost, ok := c.costs[name]
	if !ok {
		return GenCost{}, fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
	}
	return cost, nil
}

func (c *CaseData) HasNoLoadCost(name string) bool {
	_, ok := c.costs[name]
	return ok
}

func (c *CaseData) NoLoadCost(name string) (float64, error) {
	cost, err := c.genCost(name)
	return cost.NoLoad, err
}

func (c *CaseData) ColdStartUpCost(name string) (float64, error) {
	cost, err := c.genCost(name)
	return cost.ColdStartUp, err
}

func (c *CaseData) HotStartUpCost(name string) (float64, error) {
	cost, err := c.genCost(name)
	return cost.HotStartUp, err
}

func (c *CaseData) ShutDownCost(name string) (float64, error) {
	cost, err := c.genCost(name)
	return cost.ShutDown, err
}

func (c *CaseData) HasFuelType(name string) bool {
	_, ok := c.fuel[name]
	return ok
}

func (c *CaseData) FuelType(name string) (string, error) {
	f, ok := c.fuel[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
	}
	return f, nil
}

// GenCosts returns a copy of the cost table.
func (c *CaseData) GenCosts() map[string]GenCost {
	out := make(map[string]GenCost, len(c.costs))
	for k, v := range c.costs {
		out[k] = v
	}
	return out
}

// FuelTypes returns a copy of the fuel type table.
func (c *CaseData) FuelTypes() map[string]string {
	out := make(map[string]string, len(c.fuel))
	for k, v := range c.fuel {
		out[k] = v
	}
	return out
}

// sortedKeys is used wherever map contents end up in messages or output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
