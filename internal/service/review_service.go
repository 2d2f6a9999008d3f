package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/cache"
	"github.com/innies-app/innies-backend/internal/domain/valueobject"
	"github.com/innies-app/innies-backend/internal/logger"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
	"github.com/innies-app/innies-backend/internal/validation"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	GetByBookingAndReviewer(ctx context.Context, bookingID, reviewerID uuid.UUID) (*models.Review, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Review, error)
	ListByReviewee(ctx context.Context, revieweeID uuid.UUID, isPublic *bool) ([]models.Review, error)
	ListPublicByMinRating(ctx context.Context, revieweeID uuid.UUID, minRating int) ([]models.Review, error)
	PublicRatings(ctx context.Context, revieweeID uuid.UUID) ([]int, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RatingWriter сохраняет агрегированный рейтинг пользователя.
type RatingWriter interface {
	SetRating(ctx context.Context, id uuid.UUID, rating *float64) error
}

type ReviewService struct {
	repo      ReviewRepository
	bookings  BookingReader
	ratings   RatingWriter
	cache     cache.Cache
	cacheTTL  time.Duration
	publisher EventPublisher
}

func NewReviewService(repo ReviewRepository, bookings BookingReader, ratings RatingWriter, c cache.Cache, cacheTTL time.Duration) *ReviewService {
	return &ReviewService{repo: repo, bookings: bookings, ratings: ratings, cache: c, cacheTTL: cacheTTL}
}

// SetPublisher подключает доставку событий.
func (s *ReviewService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// AverageRating среднее оценок, округлённое до десятых. nil, если оценок нет.
func AverageRating(ratings []int) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := math.Round(float64(sum)/float64(len(ratings))*10) / 10
	return &avg
}

// CreateReview создаёт отзыв после завершения бронирования. Оставить отзыв можно
// только о второй стороне и только один раз.
func (s *ReviewService) CreateReview(ctx context.Context, actorID uuid.UUID, in models.CreateReviewInput) (*models.Review, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, apperror.Validation(err)
	}
	if err := validation.ValidateOptional("комментарий", in.Comment, validation.MaxReviewCommentLength); err != nil {
		return nil, apperror.Validation(err)
	}

	booking, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, translate(err, repository.ErrBookingNotFound, apperror.ErrBookingNotFound)
	}
	if booking.Status != valueobject.BookingStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "отзыв можно оставить только после завершения сессии")
	}
	if !booking.IsParty(actorID) {
		return nil, apperror.ErrForbidden
	}
	if in.RevieweeID != booking.Counterpart(actorID) {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "отзыв можно оставить только о второй стороне бронирования")
	}

	existing, err := s.repo.GetByBookingAndReviewer(ctx, booking.ID, actorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrReviewExists
	}

	review := &models.Review{
		BookingID:  booking.ID,
		ReviewerID: actorID,
		RevieweeID: in.RevieweeID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		IsPublic:   true,
	}
	if in.IsPublic != nil {
		review.IsPublic = *in.IsPublic
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return nil, apperror.ErrReviewExists
		}
		return nil, fmt.Errorf("review service: create %w", err)
	}

	s.recomputeRating(ctx, review.RevieweeID)
	publish(s.publisher, EventReviewCreated, review, review.RevieweeID)
	return review, nil
}

// UpdateReview меняет оценку, комментарий или видимость; доступно только автору.
func (s *ReviewService) UpdateReview(ctx context.Context, actorID, reviewID uuid.UUID, patch models.ReviewUpdate) (*models.Review, error) {
	review, err := s.ownReview(ctx, actorID, reviewID)
	if err != nil {
		return nil, err
	}

	if patch.Rating != nil {
		if err := validation.ValidateRating(*patch.Rating); err != nil {
			return nil, apperror.Validation(err)
		}
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		if err := validation.ValidateOptional("комментарий", patch.Comment, validation.MaxReviewCommentLength); err != nil {
			return nil, apperror.Validation(err)
		}
		review.Comment = patch.Comment
	}
	if patch.IsPublic != nil {
		review.IsPublic = *patch.IsPublic
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, translate(err, repository.ErrReviewNotFound, apperror.ErrReviewNotFound)
	}

	s.recomputeRating(ctx, review.RevieweeID)
	return review, nil
}

// DeleteReview удаляет отзыв автора и пересчитывает рейтинг.
func (s *ReviewService) DeleteReview(ctx context.Context, actorID, reviewID uuid.UUID) error {
	review, err := s.ownReview(ctx, actorID, reviewID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, review.ID); err != nil {
		return translate(err, repository.ErrReviewNotFound, apperror.ErrReviewNotFound)
	}

	s.recomputeRating(ctx, review.RevieweeID)
	return nil
}

func (s *ReviewService) GetReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	review, err := s.repo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, translate(err, repository.ErrReviewNotFound, apperror.ErrReviewNotFound)
	}
	return review, nil
}

// ListUserReviews отзывы о пользователе, новые первыми.
func (s *ReviewService) ListUserReviews(ctx context.Context, userID uuid.UUID, isPublic *bool) ([]models.Review, error) {
	return s.repo.ListByReviewee(ctx, userID, isPublic)
}

// ListReviewsByRating публичные отзывы с оценкой не ниже minRating, лучшие первыми.
func (s *ReviewService) ListReviewsByRating(ctx context.Context, userID uuid.UUID, minRating int) ([]models.Review, error) {
	if minRating == 0 {
		minRating = validation.MinRating
	}
	if err := validation.ValidateRating(minRating); err != nil {
		return nil, apperror.Validation(err)
	}
	return s.repo.ListPublicByMinRating(ctx, userID, minRating)
}

// GetBookingReviews отзывы по бронированию для его сторон, опционально одного автора.
func (s *ReviewService) GetBookingReviews(ctx context.Context, actorID, bookingID uuid.UUID, reviewerID *uuid.UUID) ([]models.Review, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translate(err, repository.ErrBookingNotFound, apperror.ErrBookingNotFound)
	}
	if !booking.IsParty(actorID) {
		return nil, apperror.ErrForbidden
	}

	if reviewerID == nil {
		return s.repo.ListByBooking(ctx, bookingID)
	}

	review, err := s.repo.GetByBookingAndReviewer(ctx, bookingID, *reviewerID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return []models.Review{}, nil
	}
	return []models.Review{*review}, nil
}

// RatingSummary статистика публичных отзывов пользователя, кешируется.
func (s *ReviewService) RatingSummary(ctx context.Context, userID uuid.UUID) (*models.RatingSummary, error) {
	return cache.GetOrSet(ctx, s.cache, cache.RatingSummaryKey(userID), s.cacheTTL, func() (*models.RatingSummary, error) {
		ratings, err := s.repo.PublicRatings(ctx, userID)
		if err != nil {
			return nil, err
		}

		summary := &models.RatingSummary{
			TotalReviews:       len(ratings),
			RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		}
		for _, r := range ratings {
			summary.RatingDistribution[r]++
		}
		if avg := AverageRating(ratings); avg != nil {
			summary.AverageRating = *avg
		}
		return summary, nil
	})
}

func (s *ReviewService) ownReview(ctx context.Context, actorID, reviewID uuid.UUID) (*models.Review, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != actorID {
		return nil, apperror.ErrForbidden
	}
	return review, nil
}

// recomputeRating пересчитывает рейтинг по публичным отзывам. Отзыв к этому моменту
// уже сохранён, поэтому ошибка только логируется.
func (s *ReviewService) recomputeRating(ctx context.Context, revieweeID uuid.UUID) {
	log := logger.Component("reviews").WithField("user_id", revieweeID)

	ratings, err := s.repo.PublicRatings(ctx, revieweeID)
	if err != nil {
		log.WithError(err).Error("не удалось получить оценки для пересчёта рейтинга")
		return
	}
	if err := s.ratings.SetRating(ctx, revieweeID, AverageRating(ratings)); err != nil {
		log.WithError(err).Error("не удалось сохранить рейтинг")
	}
	if err := cache.Invalidate(ctx, s.cache, cache.RatingSummaryKey(revieweeID)); err != nil {
		log.WithError(err).Warn("не удалось сбросить кеш рейтинга")
	}
}
