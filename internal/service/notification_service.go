package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
)

// NotificationRepository описывает взаимодействие сервиса с хранилищем уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetForUser(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// NotificationService хранит события, доставленные пользователю, для опроса через REST.
type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// CreateNotification сохраняет событие в формате {event, data}.
func (s *NotificationService) CreateNotification(ctx context.Context, userID uuid.UUID, event string, data interface{}) (*models.Notification, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		return nil, fmt.Errorf("notification service: marshal payload %w", err)
	}

	notification := &models.Notification{
		UserID:  userID,
		Payload: payload,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// CreateNotificationForWS используется WebSocket hub'ом.
func (s *NotificationService) CreateNotificationForWS(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	_, err := s.CreateNotification(ctx, userID, event, data)
	return err
}

func (s *NotificationService) GetNotification(ctx context.Context, actorID, id uuid.UUID) (*models.Notification, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	n, err := s.repo.GetForUser(ctx, actorID, id)
	if err != nil {
		return nil, translate(err, repository.ErrNotificationNotFound, apperror.ErrNotificationNotFound)
	}
	return n, nil
}

// ListNotifications возвращает уведомления пользователя, новые первыми.
func (s *NotificationService) ListNotifications(ctx context.Context, actorID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, actorID, limit, offset, unreadOnly)
}

// MarkAsRead отмечает уведомление прочитанным. Чужое уведомление выглядит как отсутствующее.
func (s *NotificationService) MarkAsRead(ctx context.Context, actorID, id uuid.UUID) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	return translate(s.repo.MarkAsRead(ctx, actorID, id), repository.ErrNotificationNotFound, apperror.ErrNotificationNotFound)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, actorID uuid.UUID) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	return s.repo.MarkAllAsRead(ctx, actorID)
}

func (s *NotificationService) DeleteNotification(ctx context.Context, actorID, id uuid.UUID) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	return translate(s.repo.Delete(ctx, actorID, id), repository.ErrNotificationNotFound, apperror.ErrNotificationNotFound)
}

func (s *NotificationService) CountUnread(ctx context.Context, actorID uuid.UUID) (int, error) {
	if err := requireActor(actorID); err != nil {
		return 0, err
	}
	return s.repo.CountUnread(ctx, actorID)
}
