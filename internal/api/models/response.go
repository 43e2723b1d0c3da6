package models

import (
	"time"

	"ames-casefile/internal/analysis"
	"ames-casefile/internal/casefile"
	"ames-casefile/internal/data"
	"ames-casefile/internal/model"
	"ames-casefile/internal/strategy"
)

// CaseResponse is returned for an uploaded or fetched case
type CaseResponse struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	ContentHash string             `json:"content_hash"`
	Cached      bool               `json:"cached"`
	CreatedAt   time.Time          `json:"created_at"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	Warnings    []casefile.Warning `json:"warnings"`
	Case        *data.CaseDocument `json:"case,omitempty"`
}

// CaseSummaryResponse is the capacity overview of a stored case
type CaseSummaryResponse struct {
	ID         string                `json:"id"`
	Generators int                   `json:"generators"`
	LSEs       int                   `json:"lses"`
	Zones      []analysis.RankedZone `json:"zones"`
	Adequacy   analysis.Adequacy     `json:"adequacy"`
}

// ActionDomainResponse lists the action domain built from one parameter set
type ActionDomainResponse struct {
	Generator string             `json:"generator,omitempty"`
	Params    ActionDomainParams `json:"params"`
	Count     int                `json:"count"`
	Actions   []strategy.Action  `json:"actions"`
}

// ActionDomainParams echoes the six inputs actually used
type ActionDomainParams struct {
	M1     int     `json:"m1"`
	M2     int     `json:"m2"`
	M3     int     `json:"m3"`
	RIMaxL float64 `json:"rimaxl"`
	RIMaxU float64 `json:"rimaxu"`
	RIMinC float64 `json:"riminc"`
}

// LearningDefaultsResponse is the learning vector used for cases without a
// GenLearningData section
type LearningDefaultsResponse struct {
	Learning         model.LearningParams `json:"learning"`
	ActionDomainSize int                  `json:"action_domain_size"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
