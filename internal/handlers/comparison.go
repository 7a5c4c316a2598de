package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/services"
)

type ComparisonHandler struct {
	log               *logger.Logger
	projectService    services.ProjectService
	comparisonService services.ComparisonService
}

func NewComparisonHandler(
	log *logger.Logger,
	projectService services.ProjectService,
	comparisonService services.ComparisonService,
) *ComparisonHandler {
	return &ComparisonHandler{
		log:               log.With("handler", "ComparisonHandler"),
		projectService:    projectService,
		comparisonService: comparisonService,
	}
}

// GetComparison builds the comparison panel for a project. An optional
// `recommended` query param forces a specific scenario into the
// recommended slot ahead of flag and rank resolution.
func (h *ComparisonHandler) GetComparison(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}

	var explicitRecommended *uuid.UUID
	if raw := c.Query("recommended"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_recommended_id", err)
			return
		}
		explicitRecommended = &id
	}

	result, err := h.comparisonService.Compose(c.Request.Context(), projectID, explicitRecommended)
	if err != nil {
		h.log.Error("Compose failed", "error", err, "project_id", projectID)
		RespondError(c, http.StatusInternalServerError, "comparison_failed", err)
		return
	}
	if len(result.Slots) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	RespondOK(c, result)
}
