package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"

	"ames-casefile/internal/analysis"
	"ames-casefile/internal/api/models"
	"ames-casefile/internal/casefile"
	"ames-casefile/internal/config"
	"ames-casefile/internal/data"
	"ames-casefile/internal/model"
	"ames-casefile/internal/strategy"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	parsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casefile_parses_total",
		Help: "Uploaded cases by outcome (parsed, cached, format_error, error).",
	}, []string{"outcome"})

	parseWarningsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casefile_parse_warnings_total",
		Help: "Warnings raised while parsing uploaded cases.",
	})
)

// CaseHandler parses uploaded cases and serves them from the cache
type CaseHandler struct {
	cfg      *config.Config
	cache    *data.CaseCache
	maxBytes int64
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(cfg *config.Config, cache *data.CaseCache) *CaseHandler {
	if cfg == nil {
		cfg = config.Default()
	}
	maxBytes := cfg.Server.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = config.Default().Server.MaxUploadBytes
	}
	return &CaseHandler{cfg: cfg, cache: cache, maxBytes: maxBytes}
}

// UploadCase handles POST /api/v1/cases
func (h *CaseHandler) UploadCase(c *gin.Context) {
	var opts models.UploadOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if opts.Source == "" {
		opts.Source = "upload"
	}

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "CASE_TOO_LARGE", err.Error(),
				map[string]interface{}{"limit_bytes": tooLarge.Limit})
			return
		}
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		respondError(c, http.StatusBadRequest, "EMPTY_CASE", "request body must contain case text", nil)
		return
	}

	if !opts.Refresh {
		if e, ok := h.cache.Lookup(raw); ok {
			parsesTotal.WithLabelValues("cached").Inc()
			c.JSON(http.StatusOK, caseResponse(e, true, !opts.Brief))
			return
		}
	}

	reader := casefile.NewReader(casefile.WithConfig(h.cfg))
	res, err := reader.Read(bytes.NewReader(raw), opts.Source)
	if err != nil {
		var fe *casefile.FormatError
		if errors.As(err, &fe) {
			parsesTotal.WithLabelValues("format_error").Inc()
			log.Printf("CaseHandler: rejected %s: %v", opts.Source, err)
			respondError(c, http.StatusUnprocessableEntity, "FORMAT_ERROR", err.Error(), formatErrorDetails(fe))
			return
		}
		parsesTotal.WithLabelValues("error").Inc()
		respondError(c, http.StatusInternalServerError, "PARSE_ERROR", err.Error(), nil)
		return
	}

	parsesTotal.WithLabelValues("parsed").Inc()
	parseWarningsTotal.Add(float64(len(res.Warnings)))
	e := h.cache.Put(raw, opts.Source, res)
	log.Printf("CaseHandler: stored %s as %s (%d generators, %d warnings)", opts.Source, e.ID, len(res.Case.Generators), len(res.Warnings))
	c.JSON(http.StatusCreated, caseResponse(e, false, !opts.Brief))
}

// GetCase handles GET /api/v1/cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	e, ok := h.entry(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, caseResponse(e, true, true))
}

// GetSummary handles GET /api/v1/cases/:id/summary
func (h *CaseHandler) GetSummary(c *gin.Context) {
	e, ok := h.entry(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.CaseSummaryResponse{
		ID:         e.ID,
		Generators: len(e.Case.Generators),
		LSEs:       e.Case.NumLSE,
		Zones:      analysis.RankByHeadroom(e.Case),
		Adequacy:   analysis.CheckAdequacy(e.Case),
	})
}

// GetGeneratorActionDomain handles GET /api/v1/cases/:id/generators/:name/action-domain
func (h *CaseHandler) GetGeneratorActionDomain(c *gin.Context) {
	e, ok := h.entry(c)
	if !ok {
		return
	}
	name := c.Param("name")
	params, err := e.Case.LearningFor(name)
	if err != nil {
		if errors.Is(err, model.ErrUnknownGenerator) {
			respondError(c, http.StatusNotFound, "GENERATOR_NOT_FOUND", err.Error(), nil)
			return
		}
		respondError(c, http.StatusUnprocessableEntity, "NO_LEARNING_DATA", err.Error(), nil)
		return
	}

	ad, err := strategy.ActionDomainFor(params)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "PARAMETER_RANGE", err.Error(),
			map[string]interface{}{"generator": name})
		return
	}
	resp := actionDomainResponse(strategy.ParamsFromLearning(params), ad)
	resp.Generator = name
	c.JSON(http.StatusOK, resp)
}

func (h *CaseHandler) entry(c *gin.Context) (*data.CaseEntry, bool) {
	id := c.Param("id")
	e, ok := h.cache.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "CASE_NOT_FOUND", "no stored case with id "+id, nil)
		return nil, false
	}
	return e, true
}

func caseResponse(e *data.CaseEntry, cached, includeCase bool) models.CaseResponse {
	resp := models.CaseResponse{
		ID:          e.ID,
		Source:      e.Source,
		ContentHash: e.ContentHash,
		Cached:      cached,
		CreatedAt:   e.CreatedAt,
		Warnings:    e.Warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []casefile.Warning{}
	}
	if !e.ExpiresAt.IsZero() {
		expires := e.ExpiresAt
		resp.ExpiresAt = &expires
	}
	if includeCase {
		doc := data.NewCaseDocument(e.Case)
		resp.Case = &doc
	}
	return resp
}
