package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/innies-app/innies-backend/internal/cache"
	"github.com/innies-app/innies-backend/internal/domain/valueobject"
	"github.com/innies-app/innies-backend/internal/logger"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
	"github.com/innies-app/innies-backend/internal/validation"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	FindByTriple(ctx context.Context, userID, categoryID uuid.UUID, skillName string) (*models.Skill, error)
	Update(ctx context.Context, skill *models.Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SkillWithCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.SkillWithUser, error)
	Search(ctx context.Context, term string, level *string) ([]models.SkillWithUser, error)
}

// SkillBookingCounter нужен, чтобы не удалять навык с активными бронированиями.
type SkillBookingCounter interface {
	CountBySkill(ctx context.Context, skillID uuid.UUID, statuses []valueobject.BookingStatus) (int, error)
}

// CatalogService управляет категориями и навыками специалистов.
type CatalogService struct {
	categories CategoryRepository
	skills     SkillRepository
	bookings   SkillBookingCounter
	cache      cache.Cache
	cacheTTL   time.Duration
}

func NewCatalogService(categories CategoryRepository, skills SkillRepository, bookings SkillBookingCounter, c cache.Cache, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		categories: categories,
		skills:     skills,
		bookings:   bookings,
		cache:      c,
		cacheTTL:   cacheTTL,
	}
}

// ListCategories возвращает все категории, список кешируется.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return cache.GetOrSet(ctx, s.cache, cache.CategoriesKey(), s.cacheTTL, func() ([]models.Category, error) {
		return s.categories.List(ctx)
	})
}

func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, repository.ErrCategoryNotFound, apperror.ErrCategoryNotFound)
	}
	return category, nil
}

func (s *CatalogService) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	category, err := s.categories.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, translate(err, repository.ErrCategoryNotFound, apperror.ErrCategoryNotFound)
	}
	return category, nil
}

// CreateCategory создаёт категорию с уникальным названием.
func (s *CatalogService) CreateCategory(ctx context.Context, actorID uuid.UUID, in models.CategoryInput) (*models.Category, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(in); err != nil {
		return nil, apperror.Validation(err)
	}

	category := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IconURL:     in.IconURL,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, translate(err, repository.ErrCategoryExists, apperror.ErrCategoryExists)
	}

	s.invalidateCategories(ctx)
	return category, nil
}

// UpdateCategory меняет категорию; новое название тоже должно быть уникальным.
func (s *CatalogService) UpdateCategory(ctx context.Context, actorID, id uuid.UUID, in models.CategoryInput) (*models.Category, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(in); err != nil {
		return nil, apperror.Validation(err)
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(in.Name)
	category.Description = in.Description
	category.IconURL = in.IconURL

	if err := s.categories.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryExists):
			return nil, apperror.ErrCategoryExists
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, apperror.ErrCategoryNotFound
		}
		return nil, err
	}

	s.invalidateCategories(ctx)
	return category, nil
}

// DeleteCategory удаляет категорию, если к ней не привязаны навыки.
func (s *CatalogService) DeleteCategory(ctx context.Context, actorID, id uuid.UUID) error {
	if err := requireActor(actorID); err != nil {
		return err
	}

	count, err := s.skills.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.ErrCategoryInUse
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return translate(err, repository.ErrCategoryNotFound, apperror.ErrCategoryNotFound)
	}

	s.invalidateCategories(ctx)
	return nil
}

// AddSkill добавляет навык вызывающему в существующую категорию.
func (s *CatalogService) AddSkill(ctx context.Context, actorID uuid.UUID, in models.SkillInput) (*models.Skill, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	in.SkillName = strings.TrimSpace(in.SkillName)
	if err := validateSkillInput(in); err != nil {
		return nil, apperror.Validation(err)
	}

	if _, err := s.GetCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	existing, err := s.skills.FindByTriple(ctx, actorID, in.CategoryID, in.SkillName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrSkillExists
	}

	skill := &models.Skill{
		UserID:            actorID,
		CategoryID:        in.CategoryID,
		SkillName:         in.SkillName,
		ExperienceLevel:   in.ExperienceLevel,
		YearsOfExperience: in.YearsOfExperience,
		Certifications:    pq.StringArray(in.Certifications),
	}
	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, translate(err, repository.ErrSkillExists, apperror.ErrSkillExists)
	}
	return skill, nil
}

// UpdateSkill меняет уровень, стаж и сертификаты; доступно только владельцу.
func (s *CatalogService) UpdateSkill(ctx context.Context, actorID, skillID uuid.UUID, patch models.SkillUpdate) (*models.Skill, error) {
	skill, err := s.ownedSkill(ctx, actorID, skillID)
	if err != nil {
		return nil, err
	}

	if patch.ExperienceLevel != nil {
		if err := validation.ValidateOneOf("experience_level", *patch.ExperienceLevel, models.ValidExperienceLevels); err != nil {
			return nil, apperror.Validation(err)
		}
		skill.ExperienceLevel = *patch.ExperienceLevel
	}
	if patch.YearsOfExperience != nil {
		if err := validation.ValidateYearsOfExperience(patch.YearsOfExperience); err != nil {
			return nil, apperror.Validation(err)
		}
		skill.YearsOfExperience = patch.YearsOfExperience
	}
	if patch.Certifications != nil {
		if err := validation.ValidateCertifications(*patch.Certifications); err != nil {
			return nil, apperror.Validation(err)
		}
		skill.Certifications = pq.StringArray(*patch.Certifications)
	}

	if err := s.skills.Update(ctx, skill); err != nil {
		return nil, translate(err, repository.ErrSkillNotFound, apperror.ErrSkillNotFound)
	}
	return skill, nil
}

// RemoveSkill удаляет навык владельца, если по нему нет активных бронирований.
func (s *CatalogService) RemoveSkill(ctx context.Context, actorID, skillID uuid.UUID) error {
	if _, err := s.ownedSkill(ctx, actorID, skillID); err != nil {
		return err
	}

	active, err := s.bookings.CountBySkill(ctx, skillID, valueobject.ActiveBookingStatuses())
	if err != nil {
		return err
	}
	if active > 0 {
		return apperror.ErrSkillInUse
	}

	if err := s.skills.Delete(ctx, skillID); err != nil {
		if errors.Is(err, repository.ErrSkillInUse) {
			return apperror.ErrSkillInUse
		}
		return translate(err, repository.ErrSkillNotFound, apperror.ErrSkillNotFound)
	}
	return nil
}

// GetSkill возвращает навык по ID.
func (s *CatalogService) GetSkill(ctx context.Context, skillID uuid.UUID) (*models.Skill, error) {
	skill, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return nil, translate(err, repository.ErrSkillNotFound, apperror.ErrSkillNotFound)
	}
	return skill, nil
}

func (s *CatalogService) ListUserSkills(ctx context.Context, userID uuid.UUID) ([]models.SkillWithCategory, error) {
	return s.skills.ListByUser(ctx, userID)
}

// ListMySkills навыки вызывающего.
func (s *CatalogService) ListMySkills(ctx context.Context, actorID uuid.UUID) ([]models.SkillWithCategory, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	return s.skills.ListByUser(ctx, actorID)
}

func (s *CatalogService) ListCategorySkills(ctx context.Context, categoryID uuid.UUID) ([]models.SkillWithUser, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.skills.ListByCategory(ctx, categoryID)
}

// SearchSkills ищет навыки по подстроке названия и уровню.
func (s *CatalogService) SearchSkills(ctx context.Context, term string, level *string) ([]models.SkillWithUser, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "поисковый запрос не может быть пустым")
	}
	if level != nil {
		if err := validation.ValidateOneOf("experience_level", *level, models.ValidExperienceLevels); err != nil {
			return nil, apperror.Validation(err)
		}
	}
	return s.skills.Search(ctx, term, level)
}

func (s *CatalogService) ownedSkill(ctx context.Context, actorID, skillID uuid.UUID) (*models.Skill, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	skill, err := s.GetSkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if skill.UserID != actorID {
		return nil, apperror.ErrForbidden
	}
	return skill, nil
}

func (s *CatalogService) invalidateCategories(ctx context.Context) {
	if err := cache.Invalidate(ctx, s.cache, cache.CategoriesPrefix()); err != nil {
		logger.Component("catalog").WithError(err).Warn("не удалось сбросить кеш категорий")
	}
}

func validateCategoryInput(in models.CategoryInput) error {
	if err := validation.ValidateRequired("название категории", in.Name, validation.MaxCategoryNameLength); err != nil {
		return err
	}
	if err := validation.ValidateOptional("описание категории", in.Description, validation.MaxBioLength); err != nil {
		return err
	}
	if in.IconURL != nil && *in.IconURL != "" {
		if err := validation.ValidateURL("иконка", *in.IconURL); err != nil {
			return fmt.Errorf("категория: %w", err)
		}
	}
	return nil
}

func validateSkillInput(in models.SkillInput) error {
	if in.CategoryID == uuid.Nil {
		return fmt.Errorf("категория обязательна")
	}
	if err := validation.ValidateRequired("название навыка", in.SkillName, validation.MaxSkillNameLength); err != nil {
		return err
	}
	if err := validation.ValidateOneOf("experience_level", in.ExperienceLevel, models.ValidExperienceLevels); err != nil {
		return err
	}
	if err := validation.ValidateYearsOfExperience(in.YearsOfExperience); err != nil {
		return err
	}
	return validation.ValidateCertifications(in.Certifications)
}
