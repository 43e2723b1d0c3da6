package model

// SCUCInput holds the unit commitment constraints for one generator.
type SCUCInput struct {
	PowerT0         float64 `json:"power_t0"`
	UnitOnT0        int     `json:"unit_on_t0"`
	MinUpTime       int     `json:"min_up_time"`
	MinDownTime     int     `json:"min_down_time"`
	NominalRampUp   float64 `json:"nominal_ramp_up"`
	NominalRampDown float64 `json:"nominal_ramp_down"`
	StartupRampLim  float64 `json:"startup_ramp_lim"`
	ShutdownRampLim float64 `json:"shutdown_ramp_lim"`
	Schedule1       int     `json:"schedule1"`
	Schedule2       int     `json:"schedule2"`
}

// DefaultSCUCInput is what a generator without a ScucInputData row gets:
// full output, committed, no ramp limits, both schedule flags set.
func DefaultSCUCInput(g GenData) SCUCInput {
	return SCUCInput{
		PowerT0:   g.CapU,
		UnitOnT0:  1,
		Schedule1: 1,
		Schedule2: 1,
	}
}

// SCUCType selects the commitment solver.
type SCUCType string

const (
	SCUCDeterministic SCUCType = "Deterministic"
	SCUCStochastic    SCUCType = "Stochastic"
)

// LSEDemandSource says where LSE demand comes from.
type LSEDemandSource string

const (
	DemandFromTestCase LSEDemandSource = "TestCase"
	DemandFromLoadCase LSEDemandSource = "LoadCase"
)
