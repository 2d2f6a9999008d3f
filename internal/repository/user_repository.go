package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/repository/common"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// UserRepository отвечает за работу с таблицей users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertByExternalID создаёт пользователя при первом событии провайдера идентификации
// и обновляет имя, email и аватар при последующих. Роль и поля специалиста не трогаются.
func (r *UserRepository) UpsertByExternalID(ctx context.Context, profile models.IdentityProfile) (*models.User, error) {
	query := `
		INSERT INTO users (external_id, name, email, image_url, role, is_available)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (external_id) DO UPDATE
		SET name = EXCLUDED.name,
		    email = EXCLUDED.email,
		    image_url = EXCLUDED.image_url,
		    updated_at = NOW()
		RETURNING *
	`

	var user models.User
	if err := r.db.GetContext(ctx, &user, query,
		profile.ExternalID, profile.Name, profile.Email, profile.ImageURL, models.RoleSeeker,
	); err != nil {
		return nil, fmt.Errorf("user repository: upsert %w", err)
	}

	return &user, nil
}

// GetByID возвращает пользователя по ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, ErrUserNotFound)
}

// GetByExternalID возвращает пользователя по идентификатору внешнего провайдера.
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "external_id", externalID, ErrUserNotFound)
}

// ListByIDs возвращает пользователей по набору ID (порядок не гарантируется).
func (r *UserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, `SELECT * FROM users WHERE id = ANY($1::uuid[])`, models.UUIDArray(ids)); err != nil {
		return nil, fmt.Errorf("user repository: list by ids %w", err)
	}
	return users, nil
}

// ListProviders возвращает специалистов, лучшие по рейтингу первыми.
func (r *UserRepository) ListProviders(ctx context.Context, availableOnly bool, limit, offset int) ([]models.User, error) {
	var where common.Where
	where.Add("role = ?", models.RoleProvider)
	if availableOnly {
		where.AddRaw("is_available = TRUE")
	}

	query := `SELECT * FROM users` + where.SQL() +
		` ORDER BY rating DESC NULLS LAST, total_bookings DESC, created_at DESC` +
		` LIMIT ` + where.Arg(limit) + ` OFFSET ` + where.Arg(offset)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, where.Args()...); err != nil {
		return nil, fmt.Errorf("user repository: list providers %w", err)
	}
	return users, nil
}

// UpdateProfile сохраняет изменяемые пользователем поля профиля.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $2, bio = $3, image_url = $4, role = $5, hourly_rate = $6,
		    availability = $7, portfolio_urls = $8, location = $9, is_available = $10,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.ID, user.Name, user.Bio, user.ImageURL, user.Role, user.HourlyRate,
		user.Availability, user.PortfolioURLs, user.Location, user.IsAvailable,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("user repository: update profile %w", err)
	}
	return nil
}

// SetRating записывает агрегированный рейтинг; nil очищает значение.
func (r *UserRepository) SetRating(ctx context.Context, id uuid.UUID, rating *float64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET rating = $2, updated_at = NOW() WHERE id = $1`, id, rating)
	if err != nil {
		return fmt.Errorf("user repository: set rating %w", err)
	}
	return common.ExpectAffected(result, ErrUserNotFound)
}
