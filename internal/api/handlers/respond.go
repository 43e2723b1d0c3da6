package handlers

import (
	"errors"

	"ames-casefile/internal/api/models"
	"ames-casefile/internal/casefile"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

var formatErrorKinds = []struct {
	err  error
	kind string
}{
	{casefile.ErrUnexpectedKeyword, "unexpected_keyword"},
	{casefile.ErrFieldCount, "field_count"},
	{casefile.ErrBadNumber, "bad_number"},
	{casefile.ErrMissingTerminator, "missing_terminator"},
	{casefile.ErrUnknownZone, "unknown_zone"},
	{casefile.ErrDuplicateName, "duplicate_name"},
	{casefile.ErrUnknownNoLoadNames, "unknown_no_load_names"},
	{casefile.ErrBadValue, "bad_value"},
}

// formatErrorDetails describes where a case failed to parse.
func formatErrorDetails(fe *casefile.FormatError) map[string]interface{} {
	details := map[string]interface{}{
		"source": fe.Source,
		"kind":   "format",
	}
	if fe.Line > 0 {
		details["line"] = fe.Line
	}
	for _, k := range formatErrorKinds {
		if errors.Is(fe, k.err) {
			details["kind"] = k.kind
			break
		}
	}
	return details
}
