package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/innies-app/innies-backend/internal/domain/valueobject"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/repository/common"
)

var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository работает с таблицей bookings.
type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create сохраняет бронирование.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (provider_id, seeker_id, skill_id, title, description, scheduled_date,
		                      duration, total_amount, status, location, is_online)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		booking.ProviderID, booking.SeekerID, booking.SkillID, booking.Title, booking.Description,
		booking.ScheduledDate, booking.Duration, booking.TotalAmount, booking.Status,
		booking.Location, booking.IsOnline,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return fmt.Errorf("booking repository: create %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return common.GetByID[models.Booking](ctx, r.db, "bookings", id, ErrBookingNotFound)
}

// CountConflicts считает бронирования специалиста в заданных статусах,
// начало которых попадает в [from, to] включительно.
func (r *BookingRepository) CountConflicts(ctx context.Context, providerID uuid.UUID, from, to time.Time, statuses []valueobject.BookingStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM bookings
		WHERE provider_id = $1
		  AND status = ANY($2)
		  AND scheduled_date >= $3
		  AND scheduled_date <= $4
	`, providerID, pq.Array(statusStrings(statuses)), from, to)
	if err != nil {
		return 0, fmt.Errorf("booking repository: count conflicts %w", err)
	}
	return count, nil
}

// CountBySkill считает бронирования навыка в заданных статусах.
func (r *BookingRepository) CountBySkill(ctx context.Context, skillID uuid.UUID, statuses []valueobject.BookingStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM bookings WHERE skill_id = $1 AND status = ANY($2)
	`, skillID, pq.Array(statusStrings(statuses)))
	if err != nil {
		return 0, fmt.Errorf("booking repository: count by skill %w", err)
	}
	return count, nil
}

// ListByUser возвращает бронирования пользователя, ближайшие по дате сверху.
func (r *BookingRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter models.BookingFilter) ([]models.Booking, error) {
	var where common.Where
	switch filter.Role {
	case models.RoleProvider:
		where.Add("provider_id = ?", userID)
	case models.RoleSeeker:
		where.Add("seeker_id = ?", userID)
	default:
		ph := where.Arg(userID)
		where.AddRaw("(provider_id = " + ph + " OR seeker_id = " + ph + ")")
	}
	if filter.Status != nil {
		where.Add("status = ?", *filter.Status)
	}

	var bookings []models.Booking
	query := `SELECT * FROM bookings` + where.SQL() + ` ORDER BY scheduled_date DESC`
	if err := r.db.SelectContext(ctx, &bookings, query, where.Args()...); err != nil {
		return nil, fmt.Errorf("booking repository: list by user %w", err)
	}
	return bookings, nil
}

// ListUpcomingByProvider возвращает подтверждённые и идущие сессии специалиста начиная с since.
func (r *BookingRepository) ListUpcomingByProvider(ctx context.Context, providerID uuid.UUID, since time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT * FROM bookings
		WHERE provider_id = $1 AND status = ANY($2) AND scheduled_date >= $3
		ORDER BY scheduled_date
	`, providerID, pq.Array(statusStrings(valueobject.SchedulingBookingStatuses())), since)
	if err != nil {
		return nil, fmt.Errorf("booking repository: list upcoming %w", err)
	}
	return bookings, nil
}

// UpdateStatus меняет статус. Ссылка на встречу и причина отмены пишутся только если переданы.
func (r *BookingRepository) UpdateStatus(ctx context.Context, booking *models.Booking) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE bookings
		SET status = $2,
		    meeting_link = COALESCE($3, meeting_link),
		    cancellation_reason = COALESCE($4, cancellation_reason),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, booking.ID, booking.Status, booking.MeetingLink, booking.CancellationReason).Scan(&booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("booking repository: update status %w", err)
	}
	return nil
}

// Complete переводит бронирование в completed и увеличивает счётчик сессий специалиста в одной транзакции.
func (r *BookingRepository) Complete(ctx context.Context, booking *models.Booking) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			UPDATE bookings
			SET status = $2, meeting_link = COALESCE($3, meeting_link), updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at
		`, booking.ID, valueobject.BookingStatusCompleted, booking.MeetingLink).Scan(&booking.UpdatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("booking repository: complete %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE users SET total_bookings = total_bookings + 1, updated_at = NOW() WHERE id = $1
		`, booking.ProviderID)
		if err != nil {
			return fmt.Errorf("booking repository: increment total bookings %w", err)
		}
		if err := common.ExpectAffected(result, ErrUserNotFound); err != nil {
			return err
		}

		booking.Status = valueobject.BookingStatusCompleted
		return nil
	})
}

func statusStrings[T ~string](statuses []T) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
