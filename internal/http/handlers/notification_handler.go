package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/innies-app/innies-backend/internal/http/handlers/common"
	"github.com/innies-app/innies-backend/internal/http/response"
	"github.com/innies-app/innies-backend/internal/service"
)

// NotificationHandler обслуживает маршруты уведомлений.
type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications GET /notifications?unread_only=true
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	limit, offset := common.GetPagination(c, 20)
	unreadOnly := c.Query("unread_only") == "true"

	notifications, err := h.notifications.ListNotifications(c.Request.Context(), userID, limit, offset, unreadOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, notifications, len(notifications), limit, offset)
}

// GetNotification GET /notifications/:id
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	notification, err := h.notifications.GetNotification(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notification)
}

// MarkAsRead PUT /notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "уведомление отмечено как прочитанное"})
}

// MarkAllAsRead PUT /notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "все уведомления отмечены как прочитанные"})
}

// DeleteNotification DELETE /notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}
	id, ok := common.UUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.DeleteNotification(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "уведомление удалено"})
}

// CountUnread GET /notifications/unread/count
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	userID, ok := common.RequireUser(c)
	if !ok {
		return
	}

	count, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}
