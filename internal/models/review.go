package models

import (
	"time"

	"github.com/google/uuid"
)

// Review отзыв одной стороны завершённого бронирования о другой.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	BookingID  uuid.UUID `db:"booking_id" json:"booking_id"`
	ReviewerID uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	RevieweeID uuid.UUID `db:"reviewee_id" json:"reviewee_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	IsPublic   bool      `db:"is_public" json:"is_public"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CreateReviewInput данные нового отзыва.
type CreateReviewInput struct {
	BookingID  uuid.UUID `json:"booking_id"`
	RevieweeID uuid.UUID `json:"reviewee_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	IsPublic   *bool     `json:"is_public"`
}

// ReviewUpdate частичное обновление отзыва.
type ReviewUpdate struct {
	Rating   *int    `json:"rating"`
	Comment  *string `json:"comment"`
	IsPublic *bool   `json:"is_public"`
}

// RatingSummary агрегированная статистика отзывов пользователя.
type RatingSummary struct {
	AverageRating      float64     `json:"average_rating"`
	TotalReviews       int         `json:"total_reviews"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}
