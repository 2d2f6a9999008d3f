package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/repository/common"
)

// ErrNotificationNotFound возвращается, когда уведомление не найдено или принадлежит другому пользователю.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository хранит события для опроса клиентами.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository создаёт экземпляр репозитория.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create создаёт новое уведомление.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO notifications (user_id, payload, is_read)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, notification.UserID, string(notification.Payload), notification.IsRead).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("notification repository: create %w", err)
	}
	return nil
}

// GetForUser возвращает уведомление, только если оно принадлежит пользователю.
func (r *NotificationRepository) GetForUser(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	n, err := common.GetByID[models.Notification](ctx, r.db, "notifications", id, ErrNotificationNotFound)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

// List возвращает уведомления пользователя, новые первыми.
func (r *NotificationRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	var where common.Where
	where.Add("user_id = ?", userID)
	if unreadOnly {
		where.AddRaw("is_read = FALSE")
	}

	query := `SELECT * FROM notifications` + where.SQL() +
		` ORDER BY created_at DESC LIMIT ` + where.Arg(limit) + ` OFFSET ` + where.Arg(offset)

	var notifications []models.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, where.Args()...); err != nil {
		return nil, fmt.Errorf("notification repository: list %w", err)
	}
	return notifications, nil
}

// MarkAsRead отмечает уведомление пользователя как прочитанное.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("notification repository: mark as read %w", err)
	}
	return common.ExpectAffected(result, ErrNotificationNotFound)
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID); err != nil {
		return fmt.Errorf("notification repository: mark all as read %w", err)
	}
	return nil
}

// Delete удаляет уведомление пользователя.
func (r *NotificationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("notification repository: delete %w", err)
	}
	return common.ExpectAffected(result, ErrNotificationNotFound)
}

// CountUnread возвращает количество непрочитанных уведомлений пользователя.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID); err != nil {
		return 0, fmt.Errorf("notification repository: count unread %w", err)
	}
	return count, nil
}
