package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/repository/common"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

// CategoryRepository работает с таблицей skill_categories.
type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create создаёт категорию. Повтор названия возвращает ErrCategoryExists.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO skill_categories (name, description, icon_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, category.Name, category.Description, category.IconURL).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err, "") {
			return ErrCategoryExists
		}
		return fmt.Errorf("category repository: create %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return common.GetByID[models.Category](ctx, r.db, "skill_categories", id, ErrCategoryNotFound)
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return common.GetByField[models.Category](ctx, r.db, "skill_categories", "name", name, ErrCategoryNotFound)
}

// List возвращает все категории по алфавиту.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, `SELECT * FROM skill_categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("category repository: list %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE skill_categories SET name = $2, description = $3, icon_url = $4 WHERE id = $1
	`, category.ID, category.Name, category.Description, category.IconURL)
	if err != nil {
		if common.IsUniqueViolation(err, "") {
			return ErrCategoryExists
		}
		return fmt.Errorf("category repository: update %w", err)
	}
	return common.ExpectAffected(result, ErrCategoryNotFound)
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM skill_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("category repository: delete %w", err)
	}
	return common.ExpectAffected(result, ErrCategoryNotFound)
}
