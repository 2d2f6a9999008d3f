package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
)

func TestUserService_UpsertFromIdentity_Normalizes(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo)
	ctx := context.Background()

	expected := models.IdentityProfile{ExternalID: "user_2abc", Name: "ada", Email: "ada@example.com"}
	repo.On("UpsertByExternalID", ctx, expected).Return(&models.User{ID: uuid.New(), Role: models.RoleSeeker}, nil)

	user, err := svc.UpsertFromIdentity(ctx, models.IdentityProfile{ExternalID: " user_2abc ", Email: " Ada@Example.com "})

	require.NoError(t, err)
	assert.Equal(t, models.RoleSeeker, user.Role)
	repo.AssertExpectations(t)
}

func TestUserService_UpsertFromIdentity_Invalid(t *testing.T) {
	svc := NewUserService(new(mockUserRepo))
	ctx := context.Background()

	_, err := svc.UpsertFromIdentity(ctx, models.IdentityProfile{Email: "ada@example.com"})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.UpsertFromIdentity(ctx, models.IdentityProfile{ExternalID: "x", Email: "not-an-email"})
	assert.True(t, apperror.IsValidation(err))
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo)
	ctx := context.Background()
	id := uuid.New()

	repo.On("GetByID", ctx, id).Return(nil, repository.ErrUserNotFound)

	_, err := svc.GetUser(ctx, id)
	assert.True(t, errors.Is(err, apperror.ErrUserNotFound))
}

func TestUserService_UpdateProfile_Success(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo)
	ctx := context.Background()
	id := uuid.New()

	repo.On("GetByID", ctx, id).Return(&models.User{ID: id, Name: "Ada", Role: models.RoleSeeker}, nil)
	repo.On("UpdateProfile", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	windows := models.AvailabilityWindows{{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"}}
	user, err := svc.UpdateProfile(ctx, id, models.ProfileUpdate{
		Role:         ptr(models.RoleProvider),
		HourlyRate:   ptr(100.0),
		Availability: &windows,
		IsAvailable:  ptr(false),
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleProvider, user.Role)
	assert.Equal(t, 100.0, *user.HourlyRate)
	assert.Len(t, user.Availability, 1)
	assert.False(t, user.IsAvailable)
}

func TestUserService_UpdateProfile_ValidationErrors(t *testing.T) {
	svc := NewUserService(new(mockUserRepo))
	ctx := context.Background()
	id := uuid.New()

	_, err := svc.UpdateProfile(ctx, id, models.ProfileUpdate{HourlyRate: ptr(-5.0)})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.UpdateProfile(ctx, id, models.ProfileUpdate{Role: ptr("admin")})
	assert.True(t, apperror.IsValidation(err))

	bad := models.AvailabilityWindows{{DayOfWeek: 2, StartTime: "18:00", EndTime: "09:00"}}
	_, err = svc.UpdateProfile(ctx, id, models.ProfileUpdate{Availability: &bad})
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "раньше")
}

func TestUserService_UpdateProfile_Unauthenticated(t *testing.T) {
	svc := NewUserService(new(mockUserRepo))

	_, err := svc.UpdateProfile(context.Background(), uuid.Nil, models.ProfileUpdate{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestUserService_ListProviders_DefaultLimit(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo)
	ctx := context.Background()

	repo.On("ListProviders", ctx, true, 20, 0).Return([]models.User{}, nil)

	_, err := svc.ListProviders(ctx, true, 0, -3)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
