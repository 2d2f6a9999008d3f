package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Chat переписка между двумя и более участниками.
type Chat struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Title         *string    `db:"title" json:"title,omitempty"`
	Participants  UUIDArray  `db:"participants" json:"participants"`
	LastMessageID *uuid.UUID `db:"last_message_id" json:"last_message_id,omitempty"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// HasParticipant проверяет членство пользователя в чате.
func (c *Chat) HasParticipant(userID uuid.UUID) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// ChatWithLastMessage чат вместе с последним сообщением.
type ChatWithLastMessage struct {
	Chat
	LastMessage *Message `json:"last_message,omitempty"`
}

// Message сообщение в чате. После создания меняется только флаг прочтения.
type Message struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	ChatID      uuid.UUID      `db:"chat_id" json:"chat_id"`
	SenderID    uuid.UUID      `db:"sender_id" json:"sender_id"`
	Content     string         `db:"content" json:"content"`
	Attachments pq.StringArray `db:"attachments" json:"attachments"`
	IsRead      bool           `db:"is_read" json:"is_read"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// Notification событие, сохранённое для пользователя.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
