package middleware

import (
	"encoding/json"
	"strings"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/types"
	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

const safeDetailsPrefix = "__json__:"

// ErrorHandler converts errors attached to the gin context into the
// standard error envelope. Hints form the caller facing message; safe
// details become the structured details map.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)

		response := ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Display:       displayMessage(err),
				InternalError: err.Error(),
				Details:       safeDetails(err),
			},
		}

		log.Warnw("request failed",
			"status", status,
			"path", c.Request.URL.Path,
			"request_id", types.GetRequestID(c.Request.Context()),
			"error", err,
		)

		c.AbortWithStatusJSON(status, response)
	}
}

// displayMessage builds the caller facing message from the hint chain
func displayMessage(err error) string {
	hints := errors.GetAllHints(err)
	if len(hints) > 0 {
		return strings.Join(hints, ": ")
	}

	var internal *ierr.InternalError
	if ierr.As(err, &internal) {
		return internal.Message
	}
	return "something went wrong"
}

// safeDetails extracts structured reportable details from the error chain
func safeDetails(err error) map[string]any {
	for _, payload := range errors.GetAllSafeDetails(err) {
		for _, detail := range payload.SafeDetails {
			if !strings.HasPrefix(detail, safeDetailsPrefix) {
				continue
			}
			raw := strings.TrimPrefix(detail, safeDetailsPrefix)
			var details map[string]any
			if jsonErr := json.Unmarshal([]byte(raw), &details); jsonErr == nil {
				return details
			}
		}
	}
	return nil
}
