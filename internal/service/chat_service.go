package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
	"github.com/innies-app/innies-backend/internal/validation"
)

const maxAttachmentsPerMessage = 10

type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.ChatWithLastMessage, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByChat(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]models.Message, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// ParticipantLookup проверяет существование участников чата.
type ParticipantLookup interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

// ChatService управляет перепиской между пользователями.
type ChatService struct {
	chats     ChatRepository
	messages  MessageRepository
	users     ParticipantLookup
	publisher EventPublisher
}

func NewChatService(chats ChatRepository, messages MessageRepository, users ParticipantLookup) *ChatService {
	return &ChatService{chats: chats, messages: messages, users: users}
}

// SetPublisher подключает доставку событий.
func (s *ChatService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// CreateChat создаёт чат минимум на двух разных участников, среди которых вызывающий.
func (s *ChatService) CreateChat(ctx context.Context, actorID uuid.UUID, participants []uuid.UUID, title *string) (*models.Chat, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validation.ValidateOptional("название чата", title, validation.MaxBookingTitleLength); err != nil {
		return nil, apperror.Validation(err)
	}

	unique := dedupeIDs(participants)
	if len(unique) < 2 {
		return nil, apperror.New(apperror.ErrCodeValidation, "в чате должно быть минимум два участника")
	}

	chat := &models.Chat{Title: title, Participants: models.UUIDArray(unique), IsActive: true}
	if !chat.HasParticipant(actorID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя создать чат без своего участия")
	}

	users, err := s.users.ListByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(users) != len(unique) {
		return nil, apperror.ErrUserNotFound
	}

	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("chat service: create %w", err)
	}

	publish(s.publisher, EventChatCreated, chat, others(chat.Participants, actorID)...)
	return chat, nil
}

// GetChat возвращает чат участнику.
func (s *ChatService) GetChat(ctx context.Context, actorID, chatID uuid.UUID) (*models.Chat, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	chat, err := s.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, translate(err, repository.ErrChatNotFound, apperror.ErrChatNotFound)
	}
	if !chat.HasParticipant(actorID) {
		return nil, apperror.ErrNotParticipant
	}
	return chat, nil
}

// ListMyChats чаты вызывающего с последним сообщением.
func (s *ChatService) ListMyChats(ctx context.Context, actorID uuid.UUID) ([]models.ChatWithLastMessage, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	return s.chats.ListByParticipant(ctx, actorID)
}

// SendMessage отправляет сообщение от имени участника чата.
func (s *ChatService) SendMessage(ctx context.Context, actorID, chatID uuid.UUID, content string, attachments []string) (*models.Message, error) {
	chat, err := s.GetChat(ctx, actorID, chatID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.Validation(err)
	}
	if len(attachments) > maxAttachmentsPerMessage {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("не более %d вложений в сообщении", maxAttachmentsPerMessage))
	}

	message := &models.Message{
		ChatID:      chat.ID,
		SenderID:    actorID,
		Content:     strings.TrimSpace(content),
		Attachments: pq.StringArray(attachments),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, translate(err, repository.ErrChatNotFound, apperror.ErrChatNotFound)
	}

	publish(s.publisher, EventMessageCreated, message, others(chat.Participants, actorID)...)
	return message, nil
}

// ListMessages сообщения чата, старые первыми.
func (s *ChatService) ListMessages(ctx context.Context, actorID, chatID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if _, err := s.GetChat(ctx, actorID, chatID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.messages.ListByChat(ctx, chatID, limit, offset)
}

// MarkMessagesRead отмечает прочитанными чужие сообщения из чатов, где участвует вызывающий.
// Остальные ID пропускаются. Возвращает число отмеченных сообщений.
func (s *ChatService) MarkMessagesRead(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if err := requireActor(actorID); err != nil {
		return 0, err
	}
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	messages, err := s.messages.ListByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	membership := make(map[uuid.UUID]bool)
	allowed := make([]uuid.UUID, 0, len(messages))
	for _, m := range messages {
		if m.SenderID == actorID {
			continue
		}
		member, seen := membership[m.ChatID]
		if !seen {
			chat, err := s.chats.GetByID(ctx, m.ChatID)
			member = err == nil && chat.HasParticipant(actorID)
			membership[m.ChatID] = member
		}
		if member {
			allowed = append(allowed, m.ID)
		}
	}

	return s.messages.MarkRead(ctx, allowed)
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func others(participants []uuid.UUID, self uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(participants))
	for _, id := range participants {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}
