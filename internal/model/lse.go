package model

const (
	HoursPerDay     = 24
	HoursPerSection = 8
	NumSections     = HoursPerDay / HoursPerSection
)

// LSESection is one row of one 8-hour block of the fixed demand section.
type LSESection struct {
	Name   string                   `json:"name"`
	ID     int                      `json:"id"`
	AtBus  int                      `json:"at_bus"`
	Demand [HoursPerSection]float64 `json:"demand"`
}

// LSEData is the merged 24-hour fixed demand of one LSE. Name, ID and AtBus
// come from the first block.
type LSEData struct {
	Name   string               `json:"name"`
	ID     int                  `json:"id"`
	AtBus  int                  `json:"at_bus"`
	Demand [HoursPerDay]float64 `json:"demand"`
}

// PeakDemand returns the largest hourly demand.
func (l LSEData) PeakDemand() float64 {
	peak := l.Demand[0]
	for _, d := range l.Demand[1:] {
		if d > peak {
			peak = d
		}
	}
	return peak
}

// PriceSensitiveHour is one hourly row of the price-sensitive demand section.
// Demand at price p is C - 2*D*p, capped at SLMax.
type PriceSensitiveHour struct {
	Name  string  `json:"name"`
	ID    int     `json:"id"`
	AtBus int     `json:"at_bus"`
	Hour  int     `json:"hour"`
	C     float64 `json:"c"`
	D     float64 `json:"d"`
	SLMax float64 `json:"sl_max"`
}

// PriceSensitiveDemand is the 24 hourly rows of a single LSE.
type PriceSensitiveDemand [HoursPerDay]PriceSensitiveHour

// HybridDemand carries one demand-type flag per hour for one LSE.
type HybridDemand struct {
	Name  string           `json:"name"`
	ID    int              `json:"id"`
	AtBus int              `json:"at_bus"`
	Flags [HoursPerDay]int `json:"flags"`
}
