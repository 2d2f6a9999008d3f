package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/repository/common"
)

var (
	ErrSkillNotFound = errors.New("skill not found")
	ErrSkillExists   = errors.New("skill already exists")
	ErrSkillInUse    = errors.New("skill is referenced by bookings")
)

// SkillRepository работает с таблицей user_skills.
type SkillRepository struct {
	db *sqlx.DB
}

func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// Create добавляет навык. Тройка (user_id, category_id, skill_name) уникальна.
func (r *SkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	if skill.Certifications == nil {
		skill.Certifications = pq.StringArray{}
	}

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO user_skills (user_id, category_id, skill_name, experience_level, years_of_experience, certifications)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, skill.UserID, skill.CategoryID, skill.SkillName, skill.ExperienceLevel, skill.YearsOfExperience, skill.Certifications,
	).Scan(&skill.ID, &skill.CreatedAt, &skill.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err, "") {
			return ErrSkillExists
		}
		return fmt.Errorf("skill repository: create %w", err)
	}
	return nil
}

func (r *SkillRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	return common.GetByID[models.Skill](ctx, r.db, "user_skills", id, ErrSkillNotFound)
}

// FindByTriple ищет навык пользователя по категории и названию, nil если не найден.
func (r *SkillRepository) FindByTriple(ctx context.Context, userID, categoryID uuid.UUID, skillName string) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.GetContext(ctx, &skill, `
		SELECT * FROM user_skills WHERE user_id = $1 AND category_id = $2 AND skill_name = $3
	`, userID, categoryID, skillName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("skill repository: find by triple %w", err)
	}
	return &skill, nil
}

func (r *SkillRepository) Update(ctx context.Context, skill *models.Skill) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE user_skills
		SET experience_level = $2, years_of_experience = $3, certifications = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, skill.ID, skill.ExperienceLevel, skill.YearsOfExperience, skill.Certifications).Scan(&skill.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSkillNotFound
		}
		return fmt.Errorf("skill repository: update %w", err)
	}
	return nil
}

func (r *SkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_skills WHERE id = $1`, id)
	if err != nil {
		return deleteSkillError(err)
	}
	return common.ExpectAffected(result, ErrSkillNotFound)
}

// deleteSkillError переводит отказ внешнего ключа в ErrSkillInUse.
func deleteSkillError(err error) error {
	if common.IsForeignKeyViolation(err) {
		return ErrSkillInUse
	}
	return fmt.Errorf("skill repository: delete %w", err)
}

// CountByCategory считает навыки в категории.
func (r *SkillRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM user_skills WHERE category_id = $1`, categoryID); err != nil {
		return 0, fmt.Errorf("skill repository: count by category %w", err)
	}
	return count, nil
}

// skillJoinRow строка навыка с колонками категории или пользователя.
type skillJoinRow struct {
	models.Skill
	CategoryName    sql.NullString  `db:"category_name"`
	CategoryDesc    *string         `db:"category_description"`
	CategoryIcon    *string         `db:"category_icon_url"`
	CategoryCreated sql.NullTime    `db:"category_created_at"`
	UserName        sql.NullString  `db:"user_name"`
	UserImage       *string         `db:"user_image_url"`
	UserRole        sql.NullString  `db:"user_role"`
	UserRating      sql.NullFloat64 `db:"user_rating"`
}

// ListByUser возвращает навыки пользователя вместе с категориями.
func (r *SkillRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SkillWithCategory, error) {
	var rows []skillJoinRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT s.*, c.name AS category_name, c.description AS category_description,
		       c.icon_url AS category_icon_url, c.created_at AS category_created_at
		FROM user_skills s
		LEFT JOIN skill_categories c ON c.id = s.category_id
		WHERE s.user_id = $1
		ORDER BY s.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("skill repository: list by user %w", err)
	}

	result := make([]models.SkillWithCategory, 0, len(rows))
	for _, row := range rows {
		item := models.SkillWithCategory{Skill: row.Skill}
		if row.CategoryName.Valid {
			item.Category = &models.Category{
				ID:          row.CategoryID,
				Name:        row.CategoryName.String,
				Description: row.CategoryDesc,
				IconURL:     row.CategoryIcon,
				CreatedAt:   row.CategoryCreated.Time,
			}
		}
		result = append(result, item)
	}
	return result, nil
}

// ListByCategory возвращает навыки категории вместе с владельцами.
func (r *SkillRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.SkillWithUser, error) {
	return r.listWithUsers(ctx, `s.category_id = $1`, categoryID)
}

// Search ищет навыки по подстроке названия и, опционально, уровню опыта.
func (r *SkillRepository) Search(ctx context.Context, term string, level *string) ([]models.SkillWithUser, error) {
	if level != nil {
		return r.listWithUsers(ctx, `s.skill_name ILIKE '%' || $1 || '%' AND s.experience_level = $2`, term, *level)
	}
	return r.listWithUsers(ctx, `s.skill_name ILIKE '%' || $1 || '%'`, term)
}

func (r *SkillRepository) listWithUsers(ctx context.Context, cond string, args ...interface{}) ([]models.SkillWithUser, error) {
	var rows []skillJoinRow
	query := `
		SELECT s.*, u.name AS user_name, u.image_url AS user_image_url,
		       u.role AS user_role, u.rating AS user_rating
		FROM user_skills s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE ` + cond + `
		ORDER BY s.skill_name, s.created_at
		LIMIT 200`
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("skill repository: list with users %w", err)
	}

	result := make([]models.SkillWithUser, 0, len(rows))
	for _, row := range rows {
		item := models.SkillWithUser{Skill: row.Skill}
		if row.UserName.Valid {
			user := &models.PublicUser{
				ID:       row.UserID,
				Name:     row.UserName.String,
				ImageURL: row.UserImage,
				Role:     row.UserRole.String,
			}
			if row.UserRating.Valid {
				rating := row.UserRating.Float64
				user.Rating = &rating
			}
			item.User = user
		}
		result = append(result, item)
	}
	return result, nil
}
