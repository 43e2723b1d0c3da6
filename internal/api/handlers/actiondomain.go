package handlers

import (
	"errors"
	"net/http"

	"ames-casefile/internal/api/models"
	"ames-casefile/internal/config"
	"ames-casefile/internal/report"
	"ames-casefile/internal/strategy"

	"github.com/gin-gonic/gin"
)

// ActionDomainHandler builds action domains from ad-hoc parameters
type ActionDomainHandler struct {
	cfg *config.Config
}

// NewActionDomainHandler creates a new action domain handler
func NewActionDomainHandler(cfg *config.Config) *ActionDomainHandler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ActionDomainHandler{cfg: cfg}
}

// BuildActionDomain handles GET /api/v1/action-domain
func (h *ActionDomainHandler) BuildActionDomain(c *gin.Context) {
	var q models.ActionDomainQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	p := strategy.ParamsFromLearning(h.cfg.DefaultLearning())
	if q.M1 != nil {
		p.M1 = *q.M1
	}
	if q.M2 != nil {
		p.M2 = *q.M2
	}
	if q.M3 != nil {
		p.M3 = *q.M3
	}
	if q.RIMaxL != nil {
		p.RIMaxL = *q.RIMaxL
	}
	if q.RIMaxU != nil {
		p.RIMaxU = *q.RIMaxU
	}
	if q.RIMinC != nil {
		p.RIMinC = *q.RIMinC
	}

	ad, err := strategy.NewActionDomain(p)
	if err != nil {
		if errors.Is(err, strategy.ErrParameterRange) {
			respondError(c, http.StatusBadRequest, "PARAMETER_RANGE", err.Error(), nil)
			return
		}
		respondError(c, http.StatusInternalServerError, "ACTION_DOMAIN_ERROR", err.Error(), nil)
		return
	}

	switch q.Format {
	case "", "json":
		c.JSON(http.StatusOK, actionDomainResponse(p, ad))
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := report.WriteActionDomainCSV(c.Writer, ad); err != nil {
			_ = c.Error(err)
		}
	default:
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be json or csv", nil)
	}
}

func actionDomainResponse(p strategy.ActionDomainParams, ad []strategy.Action) models.ActionDomainResponse {
	return models.ActionDomainResponse{
		Params: models.ActionDomainParams{
			M1:     p.M1,
			M2:     p.M2,
			M3:     p.M3,
			RIMaxL: p.RIMaxL,
			RIMaxU: p.RIMaxU,
			RIMinC: p.RIMinC,
		},
		Count:   len(ad),
		Actions: ad,
	}
}
