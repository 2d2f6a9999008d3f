package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/repository/common"
)

// MessageRepository работает с таблицей messages.
type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create сохраняет сообщение и обновляет last_message_id и updated_at чата в одной транзакции.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.Attachments == nil {
		message.Attachments = pq.StringArray{}
	}

	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO messages (chat_id, sender_id, content, attachments, is_read)
			VALUES ($1, $2, $3, $4, FALSE)
			RETURNING id, created_at
		`, message.ChatID, message.SenderID, message.Content, message.Attachments).Scan(&message.ID, &message.CreatedAt)
		if err != nil {
			return fmt.Errorf("message repository: create %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE chats SET last_message_id = $2, updated_at = $3 WHERE id = $1
		`, message.ChatID, message.ID, message.CreatedAt)
		if err != nil {
			return fmt.Errorf("message repository: touch chat %w", err)
		}
		return common.ExpectAffected(result, ErrChatNotFound)
	})
}

// ListByChat возвращает сообщения чата в хронологическом порядке.
func (r *MessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM messages WHERE chat_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3
	`, chatID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("message repository: list by chat %w", err)
	}
	return messages, nil
}

// ListByIDs возвращает сообщения по набору ID.
func (r *MessageRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Message, error) {
	if len(ids) == 0 {
		return []models.Message{}, nil
	}
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, `SELECT * FROM messages WHERE id = ANY($1::uuid[])`, models.UUIDArray(ids)); err != nil {
		return nil, fmt.Errorf("message repository: list by ids %w", err)
	}
	return messages, nil
}

// MarkRead помечает сообщения прочитанными и возвращает число изменённых строк.
func (r *MessageRepository) MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE messages SET is_read = TRUE WHERE id = ANY($1::uuid[]) AND is_read = FALSE
	`, models.UUIDArray(ids))
	if err != nil {
		return 0, fmt.Errorf("message repository: mark read %w", err)
	}
	return result.RowsAffected()
}
