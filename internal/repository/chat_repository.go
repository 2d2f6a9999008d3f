package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/repository/common"
)

var ErrChatNotFound = errors.New("chat not found")

// ChatRepository работает с таблицей chats.
type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create сохраняет чат.
func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO chats (title, participants, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, chat.Title, chat.Participants, chat.IsActive).Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("chat repository: create %w", err)
	}
	return nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	return common.GetByID[models.Chat](ctx, r.db, "chats", id, ErrChatNotFound)
}

// chatRow чат с колонками последнего сообщения.
type chatRow struct {
	models.Chat
	LastContent   *string      `db:"last_content"`
	LastSenderID  *uuid.UUID   `db:"last_sender_id"`
	LastIsRead    *bool        `db:"last_is_read"`
	LastCreatedAt sql.NullTime `db:"last_created_at"`
}

// ListByParticipant возвращает чаты пользователя с последним сообщением, свежие первыми.
func (r *ChatRepository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.ChatWithLastMessage, error) {
	var rows []chatRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT c.*, m.content AS last_content, m.sender_id AS last_sender_id,
		       m.is_read AS last_is_read, m.created_at AS last_created_at
		FROM chats c
		LEFT JOIN messages m ON m.id = c.last_message_id
		WHERE $1 = ANY(c.participants)
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("chat repository: list by participant %w", err)
	}

	result := make([]models.ChatWithLastMessage, 0, len(rows))
	for _, row := range rows {
		item := models.ChatWithLastMessage{Chat: row.Chat}
		if row.LastMessageID != nil && row.LastContent != nil && row.LastSenderID != nil {
			item.LastMessage = &models.Message{
				ID:       *row.LastMessageID,
				ChatID:   row.ID,
				SenderID: *row.LastSenderID,
				Content:  *row.LastContent,
			}
			if row.LastIsRead != nil {
				item.LastMessage.IsRead = *row.LastIsRead
			}
			if row.LastCreatedAt.Valid {
				item.LastMessage.CreatedAt = row.LastCreatedAt.Time
			}
		}
		result = append(result, item)
	}
	return result, nil
}
