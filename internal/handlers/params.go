package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/requestdata"
	"github.com/slateline/slateline-backend/internal/services"
)

// requireProject resolves the authenticated user and the :projectID path
// param, enforcing ownership. On failure it writes the error response and
// reports !ok.
func requireProject(c *gin.Context, projectService services.ProjectService) (userID, projectID uuid.UUID, ok bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, uuid.Nil, false
	}
	projectID, err := uuid.Parse(c.Param("projectID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_project_id", err)
		return uuid.Nil, uuid.Nil, false
	}
	if err := projectService.EnsureOwned(c.Request.Context(), rd.UserID, projectID); err != nil {
		RespondError(c, http.StatusNotFound, "project_not_found", err)
		return uuid.Nil, uuid.Nil, false
	}
	return rd.UserID, projectID, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return uuid.Nil, false
	}
	return id, true
}
