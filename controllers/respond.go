package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mathacharan30/nutricompare-atme/apperrors"
)

// respondError writes err as {"error", "message", "details"}.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", err,
		)
	}

	body := gin.H{"error": appErr.Code, "message": appErr.Message}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.StatusCode, body)
}

// localeTag prefers ?lang= and falls back to the first Accept-Language tag.
func localeTag(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	al := c.GetHeader("Accept-Language")
	if i := strings.IndexAny(al, ",;"); i >= 0 {
		al = al[:i]
	}
	return strings.TrimSpace(al)
}
