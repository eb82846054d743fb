package handler

import (
	"net/http"
	"strconv"

	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// Get returns platform-wide counters, system admin only
// @Summary  Platform analytics
// @Tags     Analytics
// @Security BearerAuth
// @Success  200 {object} service.Analytics
// @Router   /analytics [get]
func (h *AnalyticsHandler) Get(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.Analytics(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// ActivityLogs returns recent activity across the platform, system admin only
// @Summary  Recent activity log
// @Tags     Analytics
// @Security BearerAuth
// @Param    limit  query int false "Max entries"  default(50)
// @Param    offset query int false "Skip entries" default(0)
// @Success  200 {array} model.ActivityLog
// @Router   /analytics/activity [get]
func (h *AnalyticsHandler) ActivityLogs(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	logs, err := h.analyticsService.ActivityLogs(c.Request.Context(), user, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// UserActivityLogs returns one user's recent activity, system admin only
// @Summary  Activity log of a user
// @Tags     Analytics
// @Security BearerAuth
// @Param    id    path  string true  "User ID"
// @Param    limit query int    false "Max entries" default(50)
// @Success  200 {array} model.ActivityLog
// @Router   /analytics/users/{id}/activity [get]
func (h *AnalyticsHandler) UserActivityLogs(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 50)

	logs, err := h.analyticsService.UserActivityLogs(c.Request.Context(), user, userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
