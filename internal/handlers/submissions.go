// Package handlers: this file implements submission history retrieval
// (spec §4.B, §6).
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streamspace-dev/codesandbox/internal/apperr"
	"github.com/streamspace-dev/codesandbox/internal/auth"
	"github.com/streamspace-dev/codesandbox/internal/blob"
	"github.com/streamspace-dev/codesandbox/internal/cache"
	"github.com/streamspace-dev/codesandbox/internal/db"
	"github.com/streamspace-dev/codesandbox/internal/logger"
	"github.com/streamspace-dev/codesandbox/internal/models"
)

// submissionDetailTTL bounds how long a submission's detail view is cached
// once fetched; submissions are append-only so staleness only matters for
// this long.
const submissionDetailTTL = 10 * time.Minute

// SubmissionsHandler serves the authenticated caller's own submission
// history. A submission owned by another user is never distinguishable
// from a missing one (spec §4.B access key: (id, user_id)).
type SubmissionsHandler struct {
	submissions *db.SubmissionStore
	blobs       *blob.Store
	cache       *cache.Cache
}

// NewSubmissionsHandler constructs a SubmissionsHandler.
func NewSubmissionsHandler(submissions *db.SubmissionStore, blobs *blob.Store, c *cache.Cache) *SubmissionsHandler {
	return &SubmissionsHandler{submissions: submissions, blobs: blobs, cache: c}
}

// RegisterRoutes registers the /api/submissions routes.
func (h *SubmissionsHandler) RegisterRoutes(router *gin.RouterGroup) {
	submissionRoutes := router.Group("/submissions")
	{
		submissionRoutes.GET("", h.List)
		submissionRoutes.GET("/:id", h.Get)
	}
}

// List returns the caller's submissions, newest first.
func (h *SubmissionsHandler) List(c *gin.Context) {
	userID := auth.UserID(c)
	submissions, err := h.submissions.ListByUser(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, apperr.Internal("failed to list submissions", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// Get returns one submission's full detail, including its source code and
// stored analysis report. Not found covers both a missing id and an id
// owned by a different user.
func (h *SubmissionsHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Abort(c, apperr.BadRequest("invalid submission id"))
		return
	}

	userID := auth.UserID(c)
	key := cache.SubmissionKey(userID, id)

	var detail models.SubmissionDetail
	if err := h.cache.Get(c.Request.Context(), key, &detail); err == nil {
		c.JSON(http.StatusOK, detail)
		return
	}

	sub, err := h.submissions.GetByIDAndUser(c.Request.Context(), id, userID)
	if err != nil {
		apperr.Abort(c, apperr.Internal("failed to load submission", err))
		return
	}
	if sub == nil {
		apperr.Abort(c, apperr.NotFound("submission"))
		return
	}

	code, err := h.blobs.Read(sub.FilePath)
	if err != nil {
		logger.HTTP().Warn().Err(err).Int64("submission_id", id).Msg("submission code blob unreadable")
	}

	var report *models.AnalysisReport
	if sub.AnalysisResultJSON != "" {
		report = &models.AnalysisReport{}
		if err := sub.UnmarshalAnalysisResult(report); err != nil {
			logger.HTTP().Warn().Err(err).Int64("submission_id", id).Msg("stored analysis report unparsable")
			report = nil
		}
	}

	detail = models.SubmissionDetail{
		ID:             sub.ID,
		Language:       sub.Language,
		Code:           string(code),
		AnalysisResult: report,
		CreatedAt:      sub.CreatedAt,
		FileName:       sub.FileName,
	}

	if err := h.cache.Set(c.Request.Context(), key, detail, submissionDetailTTL); err != nil {
		logger.HTTP().Warn().Err(err).Int64("submission_id", id).Msg("failed to cache submission detail")
	}

	c.JSON(http.StatusOK, detail)
}
