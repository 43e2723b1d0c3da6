package handlers

import (
	"net/http"

	"ames-casefile/internal/api/models"
	"ames-casefile/internal/config"
	"ames-casefile/internal/strategy"

	"github.com/gin-gonic/gin"
)

// DefaultsHandler exposes the server's default learning vector
type DefaultsHandler struct {
	cfg *config.Config
}

// NewDefaultsHandler creates a new defaults handler
func NewDefaultsHandler(cfg *config.Config) *DefaultsHandler {
	if cfg == nil {
		cfg = config.Default()
	}
	return &DefaultsHandler{cfg: cfg}
}

// GetLearningDefaults handles GET /api/v1/defaults/learning
func (h *DefaultsHandler) GetLearningDefaults(c *gin.Context) {
	learning := h.cfg.DefaultLearning()
	resp := models.LearningDefaultsResponse{Learning: learning}
	// The config was validated at load, but a hand-built one may not be.
	if ad, err := strategy.ActionDomainFor(learning); err == nil {
		resp.ActionDomainSize = len(ad)
	}
	c.JSON(http.StatusOK, resp)
}
