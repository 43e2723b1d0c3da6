package model

import "fmt"

// LearningFields is the number of columns in a GenLearningData row.
const LearningFields = 12

// LearningParams configures one generator's learning agent and the action
// domain it chooses from.
type LearningParams struct {
	InitPropensity  float64 `json:"init_propensity"`
	Cooling         float64 `json:"cooling"`
	Recency         float64 `json:"recency"`
	Experimentation float64 `json:"experimentation"`
	M1              int     `json:"m1"`
	M2              int     `json:"m2"`
	M3              int     `json:"m3"`
	RIMaxLower      float64 `json:"ri_max_lower"`
	RIMaxUpper      float64 `json:"ri_max_upper"`
	RIMinC          float64 `json:"ri_min_c"`
	SlopeStart      float64 `json:"slope_start"`
	RewardSelection int     `json:"reward_selection"`
}

// LearningDefaults supplies the learning vector used for every generator when
// a case has no GenLearningData section.
type LearningDefaults interface {
	DefaultLearning() LearningParams
}

// LearningFromVector builds params from the positional row layout. Count
// fields are truncated toward zero.
func LearningFromVector(v []float64) (LearningParams, error) {
	if len(v) != LearningFields {
		return LearningParams{}, fmt.Errorf("learning vector has %d fields, expected %d", len(v), LearningFields)
	}
	return LearningParams{
		InitPropensity:  v[0],
		Cooling:         v[1],
		Recency:         v[2],
		Experimentation: v[3],
		M1:              int(v[4]),
		M2:              int(v[5]),
		M3:              int(v[6]),
		RIMaxLower:      v[7],
		RIMaxUpper:      v[8],
		RIMinC:          v[9],
		SlopeStart:      v[10],
		RewardSelection: int(v[11]),
	}, nil
}

// Vector returns the params in GenLearningData column order.
func (p LearningParams) Vector() []float64 {
	return []float64{
		p.InitPropensity,
		p.Cooling,
		p.Recency,
		p.Experimentation,
		float64(p.M1),
		float64(p.M2),
		float64(p.M3),
		p.RIMaxLower,
		p.RIMaxUpper,
		p.RIMinC,
		p.SlopeStart,
		float64(p.RewardSelection),
	}
}
