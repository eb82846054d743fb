package handler

import (
	"net/http"

	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetAll returns the caller's notifications newest-first
// @Summary  List own notifications
// @Tags     Notifications
// @Security BearerAuth
// @Success  200 {array} NotificationResponse
// @Router   /notifications [get]
func (h *NotificationHandler) GetAll(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		response[i] = toNotificationResponse(&notifications[i])
	}
	c.JSON(http.StatusOK, response)
}

// UnreadCount returns how many of the caller's notifications are unread
// @Summary  Count unread notifications
// @Tags     Notifications
// @Security BearerAuth
// @Success  200 {object} map[string]int64
// @Router   /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead marks one of the caller's notifications as read
// @Summary  Mark a notification read
// @Tags     Notifications
// @Security BearerAuth
// @Param    id path string true "Notification ID"
// @Success  200 {object} NotificationResponse
// @Router   /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	notificationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), user, notificationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toNotificationResponse(notification))
}

// MarkAllRead marks every unread notification of the caller as read
// @Summary  Mark all notifications read
// @Tags     Notifications
// @Security BearerAuth
// @Success  200 {object} map[string]bool
// @Router   /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": true})
}

// Delete soft-deletes one of the caller's notifications
// @Summary  Delete a notification
// @Tags     Notifications
// @Security BearerAuth
// @Param    id path string true "Notification ID"
// @Success  200 {object} map[string]bool
// @Router   /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	notificationID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), user, notificationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
