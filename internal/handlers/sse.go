package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/requestdata"
	"github.com/slateline/slateline-backend/internal/services"
	"github.com/slateline/slateline-backend/internal/sse"
)

type SSEHandler struct {
	log            *logger.Logger
	projectService services.ProjectService
	hub            *sse.SSEHub
}

func NewSSEHandler(log *logger.Logger, projectService services.ProjectService, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:            log.With("handler", "SSEHandler"),
		projectService: projectService,
		hub:            hub,
	}
}

// Stream subscribes the caller to the project's event channel and holds
// the connection open until the client disconnects.
func (h *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "missing_request_data", nil)
		return
	}
	_, projectID, ok := requireProject(c, h.projectService)
	if !ok {
		return
	}

	client := h.hub.NewSSEClient(rd.UserID)
	h.hub.AddChannel(client, sse.ProjectChannel(projectID))
	defer h.hub.CloseClient(client)

	h.log.Info("SSE stream opened", "user_id", rd.UserID, "project_id", projectID)
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
