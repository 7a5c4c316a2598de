package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/requestdata"
	"github.com/slateline/slateline-backend/internal/services"
)

type ProjectHandler struct {
	log            *logger.Logger
	projectService services.ProjectService
}

func NewProjectHandler(log *logger.Logger, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		log:            log.With("handler", "ProjectHandler"),
		projectService: projectService,
	}
}

func (h *ProjectHandler) ListUserProjects(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	projects, err := h.projectService.GetUserProjects(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("ListUserProjects failed", "error", err, "user_id", rd.UserID)
		RespondError(c, http.StatusInternalServerError, "load_projects_failed", err)
		return
	}
	RespondOK(c, gin.H{"projects": projects})
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		Title  string `json:"title"`
		Format string `json:"format"`
		Genre  string `json:"genre"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	project, err := h.projectService.CreateProject(c.Request.Context(), rd.UserID, req.Title, req.Format, req.Genre)
	if err != nil {
		h.log.Error("CreateProject failed", "error", err, "user_id", rd.UserID)
		RespondError(c, http.StatusInternalServerError, "create_project_failed", err)
		return
	}
	RespondOK(c, gin.H{"project": project})
}
