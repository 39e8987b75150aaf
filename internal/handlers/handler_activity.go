package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/cargoseal/cargoseal_backend/internal/core/ports/services"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
	"github.com/cargoseal/cargoseal_backend/internal/middleware"
)

// activityHandler handles HTTP requests for the audit log view.
type activityHandler struct {
	activityService portssvc.ActivitySvcFacade
}

// newActivityHandler creates a new activityHandler.
func newActivityHandler(as portssvc.ActivitySvcFacade) *activityHandler {
	return &activityHandler{activityService: as}
}

// registerActivityRoutes registers routes related to the audit log.
func registerActivityRoutes(rg *gin.RouterGroup, activityService portssvc.ActivitySvcFacade) {
	h := newActivityHandler(activityService)

	rg.GET("/activity", h.listActivity)
}

// listActivity godoc
// @Summary List audit log entries
// @Description Retrieves role-scoped audit entries, newest first
// @Tags activity
// @Produce  json
// @Param   action query string false "Filter by action"
// @Param   userID query string false "Filter by acting account"
// @Param   fromDate query string false "Filter from date (YYYY-MM-DD)"
// @Param   toDate query string false "Filter to date (YYYY-MM-DD)"
// @Param   page query int false "Page number"
// @Param   limit query int false "Page size"
// @Success 200 {object} dto.ListActivityResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Requested scope not visible to the caller"
// @Failure 500 {object} ErrorResponse "Failed to list activity"
// @Security BearerAuth
// @Router /activity [get]
func (h *activityHandler) listActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListActivityParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.activityService.ListActivity(c.Request.Context(), actorID, params)
	if err != nil {
		logger.Error("Failed to list activity", slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to list activity")})
		return
	}

	c.JSON(http.StatusOK, resp)
}
