package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
)

type mockChatRepo struct {
	mock.Mock
}

func (m *mockChatRepo) Create(ctx context.Context, chat *models.Chat) error {
	args := m.Called(ctx, chat)
	if args.Error(0) == nil {
		chat.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockChatRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *mockChatRepo) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.ChatWithLastMessage, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.ChatWithLastMessage), args.Error(1)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	if args.Error(0) == nil {
		message.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockMessageRepo) ListByChat(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, chatID, limit, offset)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockMessageRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type chatFixture struct {
	svc       *ChatService
	chats     *mockChatRepo
	messages  *mockMessageRepo
	users     *mockUserRepo
	publisher *recordingPublisher
	a, b      uuid.UUID
	chat      *models.Chat
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		chats:     new(mockChatRepo),
		messages:  new(mockMessageRepo),
		users:     new(mockUserRepo),
		publisher: &recordingPublisher{},
		a:         uuid.New(),
		b:         uuid.New(),
	}
	f.chat = &models.Chat{ID: uuid.New(), Participants: models.UUIDArray{f.a, f.b}, IsActive: true}
	f.svc = NewChatService(f.chats, f.messages, f.users)
	f.svc.SetPublisher(f.publisher)
	return f
}

func TestChatService_CreateChat_Success(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	f.users.On("ListByIDs", ctx, []uuid.UUID{f.a, f.b}).Return([]models.User{{ID: f.a}, {ID: f.b}}, nil)
	f.chats.On("Create", ctx, mock.AnythingOfType("*models.Chat")).Return(nil)

	chat, err := f.svc.CreateChat(ctx, f.a, []uuid.UUID{f.a, f.b, f.b}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.UUIDArray{f.a, f.b}, chat.Participants)
	assert.Equal(t, []uuid.UUID{f.b}, f.publisher.recipients(EventChatCreated))
}

func TestChatService_CreateChat_Rules(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	_, err := f.svc.CreateChat(ctx, f.a, []uuid.UUID{f.a, f.a}, nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = f.svc.CreateChat(ctx, f.a, []uuid.UUID{f.b, uuid.New()}, nil)
	assert.True(t, apperror.IsForbidden(err))

	_, err = f.svc.CreateChat(ctx, uuid.Nil, []uuid.UUID{f.a, f.b}, nil)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestChatService_CreateChat_UnknownUser(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	f.users.On("ListByIDs", ctx, []uuid.UUID{f.a, f.b}).Return([]models.User{{ID: f.a}}, nil)

	_, err := f.svc.CreateChat(ctx, f.a, []uuid.UUID{f.a, f.b}, nil)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestChatService_SendMessage_Success(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	f.chats.On("GetByID", ctx, f.chat.ID).Return(f.chat, nil)
	f.messages.On("Create", ctx, mock.AnythingOfType("*models.Message")).Return(nil)

	message, err := f.svc.SendMessage(ctx, f.a, f.chat.ID, "  привет ", []string{"attachments/a.png"})

	require.NoError(t, err)
	assert.Equal(t, "привет", message.Content)
	assert.Equal(t, f.a, message.SenderID)
	assert.Equal(t, []uuid.UUID{f.b}, f.publisher.recipients(EventMessageCreated))
}

func TestChatService_SendMessage_NonParticipantRejected(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	f.chats.On("GetByID", ctx, f.chat.ID).Return(f.chat, nil)

	_, err := f.svc.SendMessage(ctx, uuid.New(), f.chat.ID, "привет", nil)

	assert.ErrorIs(t, err, apperror.ErrNotParticipant)
	f.messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChatService_SendMessage_EmptyContent(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	f.chats.On("GetByID", ctx, f.chat.ID).Return(f.chat, nil)

	_, err := f.svc.SendMessage(ctx, f.a, f.chat.ID, "   ", nil)
	assert.True(t, apperror.IsValidation(err))
}

func TestChatService_GetChat_NotFound(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	id := uuid.New()

	f.chats.On("GetByID", ctx, id).Return(nil, repository.ErrChatNotFound)

	_, err := f.svc.GetChat(ctx, f.a, id)
	assert.ErrorIs(t, err, apperror.ErrChatNotFound)
}

func TestChatService_ListMessages_DefaultPaging(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	f.chats.On("GetByID", ctx, f.chat.ID).Return(f.chat, nil)
	f.messages.On("ListByChat", ctx, f.chat.ID, 50, 0).Return([]models.Message{}, nil)

	_, err := f.svc.ListMessages(ctx, f.b, f.chat.ID, 0, -1)
	require.NoError(t, err)
	f.messages.AssertExpectations(t)
}

func TestChatService_MarkMessagesRead_FiltersForeignChats(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	foreignChat := &models.Chat{ID: uuid.New(), Participants: models.UUIDArray{uuid.New(), uuid.New()}}

	incoming := models.Message{ID: uuid.New(), ChatID: f.chat.ID, SenderID: f.b}
	own := models.Message{ID: uuid.New(), ChatID: f.chat.ID, SenderID: f.a}
	foreign := models.Message{ID: uuid.New(), ChatID: foreignChat.ID, SenderID: uuid.New()}
	ids := []uuid.UUID{incoming.ID, own.ID, foreign.ID}

	f.messages.On("ListByIDs", ctx, ids).Return([]models.Message{incoming, own, foreign}, nil)
	f.chats.On("GetByID", ctx, f.chat.ID).Return(f.chat, nil)
	f.chats.On("GetByID", ctx, foreignChat.ID).Return(foreignChat, nil)
	f.messages.On("MarkRead", ctx, []uuid.UUID{incoming.ID}).Return(int64(1), nil)

	n, err := f.svc.MarkMessagesRead(ctx, f.a, ids)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	f.messages.AssertExpectations(t)
}
