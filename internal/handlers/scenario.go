package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/services"
)

type ScenarioHandler struct {
	log               *logger.Logger
	projectService    services.ProjectService
	scenarioService   services.ScenarioService
	projectionService services.ProjectionService
}

func NewScenarioHandler(
	log *logger.Logger,
	projectService services.ProjectService,
	scenarioService services.ScenarioService,
	projectionService services.ProjectionService,
) *ScenarioHandler {
	return &ScenarioHandler{
		log:               log.With("handler", "ScenarioHandler"),
		projectService:    projectService,
		scenarioService:   scenarioService,
		projectionService: projectionService,
	}
}

func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	scenarios, err := h.scenarioService.ListScenarios(c.Request.Context(), nil, projectID)
	if err != nil {
		h.log.Error("ListScenarios failed", "error", err, "project_id", projectID)
		RespondError(c, http.StatusInternalServerError, "load_scenarios_failed", err)
		return
	}
	RespondOK(c, gin.H{"scenarios": scenarios})
}

func (h *ScenarioHandler) Activate(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	scenarioID, ok := parseUUIDParam(c, "scenarioID")
	if !ok {
		return
	}
	if err := h.scenarioService.Activate(c.Request.Context(), projectID, scenarioID); err != nil {
		h.log.Error("Activate failed", "error", err, "scenario_id", scenarioID)
		RespondError(c, http.StatusInternalServerError, "activate_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "active", "scenario_id": scenarioID})
}

func (h *ScenarioHandler) TogglePin(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	scenarioID, ok := parseUUIDParam(c, "scenarioID")
	if !ok {
		return
	}
	pinned, err := h.scenarioService.TogglePin(c.Request.Context(), projectID, scenarioID)
	if err != nil {
		h.log.Error("TogglePin failed", "error", err, "scenario_id", scenarioID)
		RespondError(c, http.StatusInternalServerError, "pin_failed", err)
		return
	}
	RespondOK(c, gin.H{"pinned": pinned})
}

func (h *ScenarioHandler) Archive(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	scenarioID, ok := parseUUIDParam(c, "scenarioID")
	if !ok {
		return
	}
	if err := h.scenarioService.Archive(c.Request.Context(), projectID, scenarioID); err != nil {
		h.log.Error("Archive failed", "error", err, "scenario_id", scenarioID)
		RespondError(c, http.StatusInternalServerError, "archive_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "archived"})
}

func (h *ScenarioHandler) Branch(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	scenarioID, ok := parseUUIDParam(c, "scenarioID")
	if !ok {
		return
	}
	var req struct {
		Name          string     `json:"name"`
		SourceEventID *uuid.UUID `json:"source_event_id"`
	}
	// Body is optional; a bare branch clones the scenario head.
	_ = c.ShouldBindJSON(&req)

	branch, err := h.scenarioService.Branch(c.Request.Context(), projectID, scenarioID, req.SourceEventID, req.Name)
	if err != nil {
		h.log.Error("Branch failed", "error", err, "scenario_id", scenarioID)
		RespondError(c, http.StatusInternalServerError, "branch_failed", err)
		return
	}
	RespondOK(c, gin.H{"scenario": branch})
}

func (h *ScenarioHandler) RunProjection(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	scenarioID, ok := parseUUIDParam(c, "scenarioID")
	if !ok {
		return
	}
	var req struct {
		Months    int            `json:"months"`
		Overrides map[string]any `json:"assumption_overrides"`
	}
	_ = c.ShouldBindJSON(&req)

	projection, err := h.projectionService.RunProjection(c.Request.Context(), projectID, scenarioID, req.Months, req.Overrides)
	if err != nil {
		h.log.Error("RunProjection failed", "error", err, "scenario_id", scenarioID)
		RespondError(c, http.StatusBadGateway, "projection_failed", err)
		return
	}
	RespondOK(c, gin.H{"projection": projection})
}

func (h *ScenarioHandler) RunStressTest(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	scenarioID, ok := parseUUIDParam(c, "scenarioID")
	if !ok {
		return
	}
	stressTest, err := h.projectionService.RunStressTest(c.Request.Context(), projectID, scenarioID)
	if err != nil {
		h.log.Error("RunStressTest failed", "error", err, "scenario_id", scenarioID)
		RespondError(c, http.StatusBadGateway, "stress_test_failed", err)
		return
	}
	RespondOK(c, gin.H{"stress_test": stressTest})
}

func (h *ScenarioHandler) ComputeRecommendation(c *gin.Context) {
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}
	recommended, err := h.projectionService.ComputeRecommendation(c.Request.Context(), projectID)
	if err != nil {
		h.log.Error("ComputeRecommendation failed", "error", err, "project_id", projectID)
		RespondError(c, http.StatusBadGateway, "recommendation_failed", err)
		return
	}
	RespondOK(c, gin.H{"scenario": recommended})
}
