// Package handlers: this file implements the small operational debug
// surface (spec §6: liveness probe and provider/model introspection).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamspace-dev/codesandbox/internal/analysis"
	"github.com/streamspace-dev/codesandbox/internal/apperr"
)

// DebugHandler exposes liveness and provider-configuration introspection.
// None of it requires authentication; none of it touches persistence.
type DebugHandler struct {
	aiClient *analysis.Client
}

// NewDebugHandler constructs a DebugHandler.
func NewDebugHandler(aiClient *analysis.Client) *DebugHandler {
	return &DebugHandler{aiClient: aiClient}
}

// RegisterRoutes registers the /api/debug routes.
func (h *DebugHandler) RegisterRoutes(router *gin.RouterGroup) {
	debugRoutes := router.Group("/debug")
	{
		debugRoutes.GET("/ping", h.Ping)
		debugRoutes.GET("/models", h.Models)
	}
}

// Ping is a trivial liveness probe.
func (h *DebugHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Models reports the live provider's model catalogue. It fails with an
// internal error when no provider key is configured, since the caller is
// explicitly asking what the live provider looks like, unlike /analyze
// which degrades silently for that same condition. If the catalogue call
// itself fails, it falls back to the statically configured model name
// rather than failing the request.
func (h *DebugHandler) Models(c *gin.Context) {
	if !h.aiClient.Enabled() {
		apperr.Abort(c, apperr.Internal("analysis provider not configured", nil))
		return
	}
	models, err := h.aiClient.ListModels(c.Request.Context())
	if err != nil {
		models = []string{h.aiClient.Model()}
	}
	c.JSON(http.StatusOK, gin.H{
		"api_provider": "google-genai",
		"count":        len(models),
		"models":       models,
	})
}
