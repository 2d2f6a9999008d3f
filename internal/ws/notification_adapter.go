package ws

import (
	"context"

	"github.com/google/uuid"
)

// notificationCreator сервис уведомлений с точки зрения хаба.
type notificationCreator interface {
	CreateNotificationForWS(ctx context.Context, userID uuid.UUID, event string, data interface{}) error
}

// NotificationServiceAdapter адаптирует NotificationService к NotificationSaver.
type NotificationServiceAdapter struct {
	service notificationCreator
}

func NewNotificationServiceAdapter(service notificationCreator) *NotificationServiceAdapter {
	return &NotificationServiceAdapter{service: service}
}

// CreateNotification реализует интерфейс NotificationSaver.
func (a *NotificationServiceAdapter) CreateNotification(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	return a.service.CreateNotificationForWS(ctx, userID, event, data)
}
