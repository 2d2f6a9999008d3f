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

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists")
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create создаёт отзыв.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (booking_id, reviewer_id, reviewee_id, rating, comment, is_public)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		review.BookingID, review.ReviewerID, review.RevieweeID, review.Rating, review.Comment, review.IsPublic,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err, "") {
			return ErrReviewExists
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// GetByID возвращает отзыв по ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return common.GetByID[models.Review](ctx, r.db, "reviews", id, ErrReviewNotFound)
}

// GetByBookingAndReviewer проверяет, оставлял ли пользователь отзыв на бронирование.
func (r *ReviewRepository) GetByBookingAndReviewer(ctx context.Context, bookingID, reviewerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE booking_id = $1 AND reviewer_id = $2`, bookingID, reviewerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("review repository: get by booking and reviewer %w", err)
	}
	return &review, nil
}

// ListByBooking возвращает отзывы по бронированию.
func (r *ReviewRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, `SELECT * FROM reviews WHERE booking_id = $1 ORDER BY created_at`, bookingID); err != nil {
		return nil, fmt.Errorf("review repository: list by booking %w", err)
	}
	return reviews, nil
}

// ListByReviewee возвращает отзывы о пользователе, новые первыми.
func (r *ReviewRepository) ListByReviewee(ctx context.Context, revieweeID uuid.UUID, isPublic *bool) ([]models.Review, error) {
	var where common.Where
	where.Add("reviewee_id = ?", revieweeID)
	if isPublic != nil {
		where.Add("is_public = ?", *isPublic)
	}

	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, `SELECT * FROM reviews`+where.SQL()+` ORDER BY created_at DESC`, where.Args()...); err != nil {
		return nil, fmt.Errorf("review repository: list by reviewee %w", err)
	}
	return reviews, nil
}

// ListPublicByMinRating возвращает публичные отзывы не ниже minRating, лучшие первыми.
func (r *ReviewRepository) ListPublicByMinRating(ctx context.Context, revieweeID uuid.UUID, minRating int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews
		WHERE reviewee_id = $1 AND is_public = TRUE AND rating >= $2
		ORDER BY rating DESC, created_at DESC
	`, revieweeID, minRating)
	if err != nil {
		return nil, fmt.Errorf("review repository: list by min rating %w", err)
	}
	return reviews, nil
}

// PublicRatings возвращает оценки всех публичных отзывов о пользователе.
func (r *ReviewRepository) PublicRatings(ctx context.Context, revieweeID uuid.UUID) ([]int, error) {
	var ratings []int
	if err := r.db.SelectContext(ctx, &ratings, `SELECT rating FROM reviews WHERE reviewee_id = $1 AND is_public = TRUE`, revieweeID); err != nil {
		return nil, fmt.Errorf("review repository: public ratings %w", err)
	}
	return ratings, nil
}

// Update обновляет отзыв.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE reviews SET rating = $2, comment = $3, is_public = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, review.ID, review.Rating, review.Comment, review.IsPublic).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("review repository: update %w", err)
	}
	return nil
}

// Delete удаляет отзыв.
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("review repository: delete %w", err)
	}
	return common.ExpectAffected(result, ErrReviewNotFound)
}
