package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
)

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) Create(ctx context.Context, submission *models.ContactSubmission) error {
	args := m.Called(ctx, submission)
	if args.Error(0) == nil {
		submission.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactSubmission), args.Error(1)
}

func (m *mockContactRepo) List(ctx context.Context, filter repository.ContactFilter) ([]models.ContactSubmission, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.ContactSubmission), args.Error(1)
}

func (m *mockContactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func validContact() models.ContactInput {
	return models.ContactInput{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       " Ada@Example.com ",
		InquiryType: models.InquirySupport,
		Message:     "Не могу оплатить бронирование",
	}
}

func TestContactService_Submit_Success(t *testing.T) {
	repo := new(mockContactRepo)
	svc := NewContactService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.ContactSubmission")).Return(nil)

	submission, err := svc.Submit(ctx, validContact())

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", submission.Email)
	assert.Equal(t, models.ContactStatusNew, submission.Status)
}

func TestContactService_Submit_Validation(t *testing.T) {
	svc := NewContactService(new(mockContactRepo))
	ctx := context.Background()

	in := validContact()
	in.InquiryType = "spam"
	_, err := svc.Submit(ctx, in)
	assert.True(t, apperror.IsValidation(err))

	in = validContact()
	in.Message = strings.Repeat("x", 2001)
	_, err = svc.Submit(ctx, in)
	assert.True(t, apperror.IsValidation(err))

	in = validContact()
	in.Email = "nope"
	_, err = svc.Submit(ctx, in)
	assert.True(t, apperror.IsValidation(err))
}

func TestContactService_List_Filters(t *testing.T) {
	repo := new(mockContactRepo)
	svc := NewContactService(repo)
	ctx := context.Background()
	status, email := "resolved", "ada@example.com"

	repo.On("List", ctx, repository.ContactFilter{Status: &status, Email: &email, Limit: 50}).Return([]models.ContactSubmission{}, nil)

	_, err := svc.List(ctx, "resolved", "ADA@example.com", 0, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)

	_, err = svc.List(ctx, "archived", "", 0, 0)
	assert.True(t, apperror.IsValidation(err))
}

func TestContactService_UpdateStatus(t *testing.T) {
	repo := new(mockContactRepo)
	svc := NewContactService(repo)
	ctx := context.Background()
	id := uuid.New()

	repo.On("UpdateStatus", ctx, id, "in_progress").Return(nil)
	repo.On("GetByID", ctx, id).Return(&models.ContactSubmission{ID: id, Status: "in_progress"}, nil)

	submission, err := svc.UpdateStatus(ctx, id, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", submission.Status)

	missing := uuid.New()
	repo.On("UpdateStatus", ctx, missing, "resolved").Return(repository.ErrContactNotFound)
	_, err = svc.UpdateStatus(ctx, missing, "resolved")
	assert.ErrorIs(t, err, apperror.ErrContactNotFound)
}
