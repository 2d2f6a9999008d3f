package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
)

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockNotificationRepo) GetForUser(ctx context.Context, userID, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset, unreadOnly)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockNotificationRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func TestNotificationService_CreateNotification_Payload(t *testing.T) {
	repo := new(mockNotificationRepo)
	svc := NewNotificationService(repo)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	n, err := svc.CreateNotification(ctx, userID, EventBookingCreated, map[string]string{"id": "b1"})
	require.NoError(t, err)

	var payload struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(n.Payload, &payload))
	assert.Equal(t, EventBookingCreated, payload.Event)
	assert.Equal(t, "b1", payload.Data["id"])
	assert.Equal(t, userID, n.UserID)
	assert.False(t, n.IsRead)
}

func TestNotificationService_ListNotifications_DefaultLimit(t *testing.T) {
	repo := new(mockNotificationRepo)
	svc := NewNotificationService(repo)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("List", ctx, userID, 20, 0, true).Return([]models.Notification{}, nil)

	_, err := svc.ListNotifications(ctx, userID, 500, -3, true)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotificationService_MarkAsRead_ForeignNotification(t *testing.T) {
	repo := new(mockNotificationRepo)
	svc := NewNotificationService(repo)
	ctx := context.Background()
	userID, id := uuid.New(), uuid.New()

	repo.On("MarkAsRead", ctx, userID, id).Return(repository.ErrNotificationNotFound)

	err := svc.MarkAsRead(ctx, userID, id)
	assert.ErrorIs(t, err, apperror.ErrNotificationNotFound)
}

func TestNotificationService_RequiresActor(t *testing.T) {
	svc := NewNotificationService(new(mockNotificationRepo))
	ctx := context.Background()

	_, err := svc.CountUnread(ctx, uuid.Nil)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.ErrorIs(t, svc.DeleteNotification(ctx, uuid.Nil, uuid.New()), apperror.ErrUnauthorized)
}
