package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"citysync-be/apperrors"
)

// respondError maps a tagged domain error onto the response envelope.
// Internal causes are logged and never shown to the client.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "error", appErr.Cause)
	}
	c.JSON(appErr.StatusCode, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}

// respondBindError answers malformed request bodies. Binding errors carry
// struct field paths from the validator, so clients get a flat message and
// the detail goes to the debug log.
func respondBindError(c *gin.Context, err error) {
	slog.Debug("request binding failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request body",
	})
}
