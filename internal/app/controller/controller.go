package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"github.com/ikkim/emporium-backend/internal/middleware"
	"github.com/ikkim/emporium-backend/internal/validation"
)

// parseID reads the :id path parameter. A malformed id matches nothing, so
// it is reported the same way as a missing row.
func parseID(c *gin.Context, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid resource ID", map[string]interface{}{
			"resource": resource,
			"id":       c.Param("id"),
		})
		apperrors.Respond(c, apperrors.NewNotFound(resource), "")
		return 0, false
	}
	return uint(id), true
}

// decodeBody reads a JSON payload into dest, responding 400 when it is malformed
func decodeBody(c *gin.Context, dest interface{}) bool {
	if err := validation.DecodeJSON(c, dest); err != nil {
		apperrors.Respond(c, err, "")
		return false
	}
	return true
}

// queryUint parses an optional unsigned integer query parameter
func queryUint(c *gin.Context, name string, errs *validation.Errors) *uint {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		errs.AddMessage(name, validation.CodeInvalid, "A valid integer is required.")
		return nil
	}
	id := uint(n)
	return &id
}

// currentUserID returns the authenticated caller; routes are gated so it is always set
func currentUserID(c *gin.Context) uint {
	id, _ := middleware.GetUserID(c)
	return id
}

// requestOrigin is the scheme and host the client used to reach the API
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
