package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/innies-app/innies-backend/internal/cache"
	"github.com/innies-app/innies-backend/internal/domain/valueobject"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
)

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	if args.Error(0) == nil {
		category.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCategoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newCatalogService(c cache.Cache) (*CatalogService, *mockCategoryRepo, *mockSkillRepo, *mockBookingRepo) {
	categories := new(mockCategoryRepo)
	skills := new(mockSkillRepo)
	bookings := new(mockBookingRepo)
	return NewCatalogService(categories, skills, bookings, c, time.Minute), categories, skills, bookings
}

func TestCatalogService_ListCategories_Cached(t *testing.T) {
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	svc, categories, _, _ := newCatalogService(mem)
	ctx := context.Background()

	categories.On("List", ctx).Return([]models.Category{{ID: uuid.New(), Name: "Design"}}, nil).Once()

	first, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	second, err := svc.ListCategories(ctx)
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Equal(t, first[0].Name, second[0].Name)
	categories.AssertNumberOfCalls(t, "List", 1)
}

func TestCatalogService_CreateCategory_InvalidatesCache(t *testing.T) {
	mem := cache.NewMemoryCache(0)
	defer mem.Close()
	svc, categories, _, _ := newCatalogService(mem)
	ctx := context.Background()

	categories.On("List", ctx).Return([]models.Category{}, nil).Twice()
	categories.On("Create", ctx, mock.AnythingOfType("*models.Category")).Return(nil)

	_, err := svc.ListCategories(ctx)
	require.NoError(t, err)

	category, err := svc.CreateCategory(ctx, uuid.New(), models.CategoryInput{Name: "  Music "})
	require.NoError(t, err)
	assert.Equal(t, "Music", category.Name)

	_, err = svc.ListCategories(ctx)
	require.NoError(t, err)
	categories.AssertNumberOfCalls(t, "List", 2)
}

func TestCatalogService_CreateCategory_Duplicate(t *testing.T) {
	svc, categories, _, _ := newCatalogService(nil)
	ctx := context.Background()

	categories.On("Create", ctx, mock.AnythingOfType("*models.Category")).Return(repository.ErrCategoryExists)

	_, err := svc.CreateCategory(ctx, uuid.New(), models.CategoryInput{Name: "Music"})
	assert.ErrorIs(t, err, apperror.ErrCategoryExists)
}

func TestCatalogService_DeleteCategory_InUse(t *testing.T) {
	svc, categories, skills, _ := newCatalogService(nil)
	ctx := context.Background()
	id := uuid.New()

	skills.On("CountByCategory", ctx, id).Return(2, nil)

	err := svc.DeleteCategory(ctx, uuid.New(), id)
	assert.ErrorIs(t, err, apperror.ErrCategoryInUse)
	categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalogService_AddSkill_Success(t *testing.T) {
	svc, categories, skills, _ := newCatalogService(nil)
	ctx := context.Background()
	actor, categoryID := uuid.New(), uuid.New()

	categories.On("GetByID", ctx, categoryID).Return(&models.Category{ID: categoryID}, nil)
	skills.On("FindByTriple", ctx, actor, categoryID, "Guitar").Return(nil, nil)
	skills.On("Create", ctx, mock.AnythingOfType("*models.Skill")).Return(nil)

	skill, err := svc.AddSkill(ctx, actor, models.SkillInput{
		CategoryID:      categoryID,
		SkillName:       " Guitar ",
		ExperienceLevel: models.ExperienceExpert,
	})

	require.NoError(t, err)
	assert.Equal(t, actor, skill.UserID)
	assert.Equal(t, "Guitar", skill.SkillName)
}

func TestCatalogService_AddSkill_Duplicate(t *testing.T) {
	svc, categories, skills, _ := newCatalogService(nil)
	ctx := context.Background()
	actor, categoryID := uuid.New(), uuid.New()

	categories.On("GetByID", ctx, categoryID).Return(&models.Category{ID: categoryID}, nil)
	skills.On("FindByTriple", ctx, actor, categoryID, "Guitar").Return(&models.Skill{ID: uuid.New()}, nil)

	_, err := svc.AddSkill(ctx, actor, models.SkillInput{CategoryID: categoryID, SkillName: "Guitar", ExperienceLevel: "beginner"})
	assert.ErrorIs(t, err, apperror.ErrSkillExists)
}

func TestCatalogService_AddSkill_UnknownCategory(t *testing.T) {
	svc, categories, _, _ := newCatalogService(nil)
	ctx := context.Background()
	categoryID := uuid.New()

	categories.On("GetByID", ctx, categoryID).Return(nil, repository.ErrCategoryNotFound)

	_, err := svc.AddSkill(ctx, uuid.New(), models.SkillInput{CategoryID: categoryID, SkillName: "Guitar", ExperienceLevel: "beginner"})
	assert.ErrorIs(t, err, apperror.ErrCategoryNotFound)
}

func TestCatalogService_AddSkill_InvalidLevel(t *testing.T) {
	svc, _, _, _ := newCatalogService(nil)

	_, err := svc.AddSkill(context.Background(), uuid.New(), models.SkillInput{CategoryID: uuid.New(), SkillName: "Guitar", ExperienceLevel: "guru"})
	assert.True(t, apperror.IsValidation(err))
}

func TestCatalogService_UpdateSkill_NotOwner(t *testing.T) {
	svc, _, skills, _ := newCatalogService(nil)
	ctx := context.Background()
	skillID := uuid.New()

	skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, UserID: uuid.New()}, nil)

	_, err := svc.UpdateSkill(ctx, uuid.New(), skillID, models.SkillUpdate{ExperienceLevel: ptr("expert")})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestCatalogService_RemoveSkill_ActiveBookings(t *testing.T) {
	svc, _, skills, bookings := newCatalogService(nil)
	ctx := context.Background()
	actor, skillID := uuid.New(), uuid.New()

	skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, UserID: actor}, nil)
	bookings.On("CountBySkill", ctx, skillID, valueobject.ActiveBookingStatuses()).Return(1, nil)

	err := svc.RemoveSkill(ctx, actor, skillID)
	assert.ErrorIs(t, err, apperror.ErrSkillInUse)
	skills.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalogService_RemoveSkill_Success(t *testing.T) {
	svc, _, skills, bookings := newCatalogService(nil)
	ctx := context.Background()
	actor, skillID := uuid.New(), uuid.New()

	skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, UserID: actor}, nil)
	bookings.On("CountBySkill", ctx, skillID, valueobject.ActiveBookingStatuses()).Return(0, nil)
	skills.On("Delete", ctx, skillID).Return(nil)

	assert.NoError(t, svc.RemoveSkill(ctx, actor, skillID))
}

func TestCatalogService_RemoveSkill_OnlyFinishedBookings(t *testing.T) {
	svc, _, skills, bookings := newCatalogService(nil)
	ctx := context.Background()
	actor, skillID := uuid.New(), uuid.New()

	// завершённые и отменённые бронирования не считаются активными
	skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, UserID: actor}, nil)
	bookings.On("CountBySkill", ctx, skillID, valueobject.ActiveBookingStatuses()).Return(0, nil)
	skills.On("Delete", ctx, skillID).Return(nil)

	require.NoError(t, svc.RemoveSkill(ctx, actor, skillID))
	skills.AssertCalled(t, "Delete", ctx, skillID)
}

func TestCatalogService_RemoveSkill_ReferencedByBookings(t *testing.T) {
	svc, _, skills, bookings := newCatalogService(nil)
	ctx := context.Background()
	actor, skillID := uuid.New(), uuid.New()

	skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID, UserID: actor}, nil)
	bookings.On("CountBySkill", ctx, skillID, valueobject.ActiveBookingStatuses()).Return(0, nil)
	skills.On("Delete", ctx, skillID).Return(repository.ErrSkillInUse)

	err := svc.RemoveSkill(ctx, actor, skillID)
	assert.ErrorIs(t, err, apperror.ErrSkillInUse)
	assert.True(t, apperror.IsConflict(err))
}

func TestCatalogService_SearchSkills_EmptyTerm(t *testing.T) {
	svc, _, _, _ := newCatalogService(nil)

	_, err := svc.SearchSkills(context.Background(), "  ", nil)
	assert.True(t, apperror.IsValidation(err))
}

func TestCatalogService_GetCategory_PassesInfraErrors(t *testing.T) {
	svc, categories, _, _ := newCatalogService(nil)
	ctx := context.Background()
	id := uuid.New()
	dbErr := errors.New("connection reset")

	categories.On("GetByID", ctx, id).Return(nil, dbErr)

	_, err := svc.GetCategory(ctx, id)
	assert.ErrorIs(t, err, dbErr)
}
