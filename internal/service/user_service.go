package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
	"github.com/innies-app/innies-backend/internal/validation"
)

type UserRepository interface {
	UpsertByExternalID(ctx context.Context, profile models.IdentityProfile) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	ListProviders(ctx context.Context, availableOnly bool, limit, offset int) ([]models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// UpsertFromIdentity создаёт пользователя по данным провайдера идентификации или
// обновляет имя, email и аватар существующего. Новые пользователи получают роль seeker.
func (s *UserService) UpsertFromIdentity(ctx context.Context, profile models.IdentityProfile) (*models.User, error) {
	profile.ExternalID = strings.TrimSpace(profile.ExternalID)
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))

	if profile.ExternalID == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "не указан внешний идентификатор пользователя")
	}
	if err := validation.ValidateEmail(profile.Email); err != nil {
		return nil, apperror.Validation(err)
	}
	if profile.Name == "" {
		profile.Name = strings.Split(profile.Email, "@")[0]
	}

	user, err := s.repo.UpsertByExternalID(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("user service: upsert %w", err)
	}
	return user, nil
}

// GetUser возвращает пользователя по ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	return user, nil
}

// GetByExternalID возвращает пользователя по идентификатору внешнего провайдера.
func (s *UserService) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	user, err := s.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, translate(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	return user, nil
}

// ListProviders возвращает специалистов, лучшие по рейтингу первыми.
func (s *UserService) ListProviders(ctx context.Context, availableOnly bool, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListProviders(ctx, availableOnly, limit, offset)
}

// UpdateProfile применяет частичное обновление профиля вызывающего.
func (s *UserService) UpdateProfile(ctx context.Context, actorID uuid.UUID, patch models.ProfileUpdate) (*models.User, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validateProfileUpdate(patch); err != nil {
		return nil, apperror.Validation(err)
	}

	user, err := s.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Bio != nil {
		user.Bio = patch.Bio
	}
	if patch.ImageURL != nil {
		user.ImageURL = patch.ImageURL
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.HourlyRate != nil {
		user.HourlyRate = patch.HourlyRate
	}
	if patch.Availability != nil {
		user.Availability = *patch.Availability
	}
	if patch.PortfolioURLs != nil {
		user.PortfolioURLs = pq.StringArray(*patch.PortfolioURLs)
	}
	if patch.Location != nil {
		user.Location = patch.Location
	}
	if patch.IsAvailable != nil {
		user.IsAvailable = *patch.IsAvailable
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("user service: update profile %w", err)
	}
	return user, nil
}

func validateProfileUpdate(patch models.ProfileUpdate) error {
	if patch.Name != nil {
		if err := validation.ValidateRequired("имя", *patch.Name, validation.MaxNameLength); err != nil {
			return err
		}
	}
	if err := validation.ValidateOptional("биография", patch.Bio, validation.MaxBioLength); err != nil {
		return err
	}
	if err := validation.ValidateOptional("местоположение", patch.Location, validation.MaxLocationLength); err != nil {
		return err
	}
	if patch.ImageURL != nil && *patch.ImageURL != "" {
		if err := validation.ValidateURL("аватар", *patch.ImageURL); err != nil {
			return err
		}
	}
	if patch.Role != nil {
		if err := validation.ValidateOneOf("role", *patch.Role, models.ValidRoles); err != nil {
			return err
		}
	}
	if err := validation.ValidateHourlyRate(patch.HourlyRate); err != nil {
		return err
	}
	if patch.Availability != nil {
		for _, w := range *patch.Availability {
			if err := validation.ValidateAvailabilityWindow(w.DayOfWeek, w.StartTime, w.EndTime); err != nil {
				return err
			}
		}
	}
	if patch.PortfolioURLs != nil {
		if err := validation.ValidateURLs("портфолио", *patch.PortfolioURLs, validation.MaxPortfolioURLs); err != nil {
			return err
		}
	}
	return nil
}
