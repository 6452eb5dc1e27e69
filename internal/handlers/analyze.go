// Package handlers: this file implements the core analyze endpoint (spec
// §4.F, §6).
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamspace-dev/codesandbox/internal/apperr"
	"github.com/streamspace-dev/codesandbox/internal/auth"
	"github.com/streamspace-dev/codesandbox/internal/models"
	"github.com/streamspace-dev/codesandbox/internal/orchestrator"
	"github.com/streamspace-dev/codesandbox/internal/validator"
)

// AnalyzeHandler runs submitted source through the full analyze pipeline.
type AnalyzeHandler struct {
	orchestrator *orchestrator.Orchestrator
}

// NewAnalyzeHandler constructs an AnalyzeHandler.
func NewAnalyzeHandler(orch *orchestrator.Orchestrator) *AnalyzeHandler {
	return &AnalyzeHandler{orchestrator: orch}
}

// RegisterRoutes registers the /api/analyze route.
func (h *AnalyzeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/analyze", h.Analyze)
}

// Analyze validates the request (code and language both required,
// language drawn from the closed supported set, code under the size cap)
// then hands it to the orchestrator. Sandbox and analysis-provider
// failures are never request failures: they surface inside the returned
// report (spec §4.F, §7).
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if !validator.BindAndValidate(c, &req) {
		return
	}

	if !models.IsSupportedLanguage(req.Language) {
		apperr.Abort(c, apperr.BadRequest(fmt.Sprintf("unsupported language: %s", req.Language)))
		return
	}
	if len(req.Code) > MaxSourceCodeBytes {
		apperr.Abort(c, apperr.BadRequest("code exceeds maximum allowed size"))
		return
	}

	userID := auth.UserID(c)
	report := h.orchestrator.Run(c.Request.Context(), userID, req.Language, req.Code, "")

	c.JSON(http.StatusOK, report)
}
