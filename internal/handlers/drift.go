package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/services"
)

type DriftHandler struct {
	log            *logger.Logger
	projectService services.ProjectService
	driftService   services.DriftService
}

func NewDriftHandler(
	log *logger.Logger,
	projectService services.ProjectService,
	driftService services.DriftService,
) *DriftHandler {
	return &DriftHandler{
		log:            log.With("handler", "DriftHandler"),
		projectService: projectService,
		driftService:   driftService,
	}
}

func (h *DriftHandler) ListAlerts(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	var scenarioID *uuid.UUID
	if raw := c.Query("scenario"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
			return
		}
		scenarioID = &id
	}
	alerts, err := h.driftService.ListUnacked(c.Request.Context(), projectID, scenarioID)
	if err != nil {
		h.log.Error("ListUnacked failed", "error", err, "project_id", projectID)
		RespondError(c, http.StatusInternalServerError, "load_alerts_failed", err)
		return
	}
	RespondOK(c, gin.H{"alerts": alerts})
}

func (h *DriftHandler) GetCounts(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	scenarioID, ok := parseUUIDParam(c, "scenarioID")
	if !ok {
		return
	}
	counts, err := h.driftService.Counts(c.Request.Context(), projectID, scenarioID)
	if err != nil {
		h.log.Error("Counts failed", "error", err, "scenario_id", scenarioID)
		RespondError(c, http.StatusInternalServerError, "drift_counts_failed", err)
		return
	}
	RespondOK(c, gin.H{"counts": counts})
}

func (h *DriftHandler) Acknowledge(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	alertID, ok := parseUUIDParam(c, "alertID")
	if !ok {
		return
	}
	if err := h.driftService.Acknowledge(c.Request.Context(), projectID, alertID); err != nil {
		h.log.Error("Acknowledge failed", "error", err, "alert_id", alertID)
		RespondError(c, http.StatusInternalServerError, "acknowledge_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "acknowledged"})
}

func (h *DriftHandler) Clear(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	scenarioID, ok := parseUUIDParam(c, "scenarioID")
	if !ok {
		return
	}
	if err := h.driftService.Clear(c.Request.Context(), projectID, scenarioID); err != nil {
		h.log.Error("Clear failed", "error", err, "scenario_id", scenarioID)
		RespondError(c, http.StatusInternalServerError, "clear_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "cleared"})
}
