package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "tasknexus/internal/errors"
	"tasknexus/internal/middleware"
	"tasknexus/internal/services"
)

// AnalyticsHandler serves the dashboard summary.
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Dashboard returns task and project aggregates across the caller's
// workspaces.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	summary, err := h.analyticsService.Dashboard(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, summary)
}
