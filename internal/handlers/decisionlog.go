package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/services"
)

type DecisionLogHandler struct {
	log                *logger.Logger
	projectService     services.ProjectService
	decisionLogService services.DecisionLogService
}

func NewDecisionLogHandler(
	log *logger.Logger,
	projectService services.ProjectService,
	decisionLogService services.DecisionLogService,
) *DecisionLogHandler {
	return &DecisionLogHandler{
		log:                log.With("handler", "DecisionLogHandler"),
		projectService:     projectService,
		decisionLogService: decisionLogService,
	}
}

func (h *DecisionLogHandler) GetDecisionLog(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	entries, err := h.decisionLogService.Latest(c.Request.Context(), projectID)
	if err != nil {
		h.log.Error("Latest failed", "error", err, "project_id", projectID)
		RespondError(c, http.StatusInternalServerError, "load_decision_log_failed", err)
		return
	}
	RespondOK(c, gin.H{"entries": entries})
}
