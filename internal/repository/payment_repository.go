package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/innies-app/innies-backend/internal/domain/valueobject"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/repository/common"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentExists   = errors.New("payment already exists for booking")
)

// PaymentRepository работает с таблицей payments.
type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create сохраняет платёж. Второй платёж на то же бронирование отклоняется уникальным индексом.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (booking_id, payer_id, receiver_id, amount, platform_fee, net_amount,
		                      currency, payment_method, payment_intent_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		payment.BookingID, payment.PayerID, payment.ReceiverID, payment.Amount, payment.PlatformFee,
		payment.NetAmount, payment.Currency, payment.PaymentMethod, payment.PaymentIntentID, payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err, "") {
			return ErrPaymentExists
		}
		return fmt.Errorf("payment repository: create %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return common.GetByID[models.Payment](ctx, r.db, "payments", id, ErrPaymentNotFound)
}

// GetByBookingID возвращает платёж бронирования или nil, если его нет.
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, `SELECT * FROM payments WHERE booking_id = $1`, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("payment repository: get by booking %w", err)
	}
	return &payment, nil
}

// ListByUser возвращает платежи пользователя, новые первыми.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter models.PaymentFilter) ([]models.Payment, error) {
	var where common.Where
	switch filter.Role {
	case "payer":
		where.Add("payer_id = ?", userID)
	case "receiver":
		where.Add("receiver_id = ?", userID)
	default:
		ph := where.Arg(userID)
		where.AddRaw("(payer_id = " + ph + " OR receiver_id = " + ph + ")")
	}
	if filter.Status != nil {
		where.Add("status = ?", *filter.Status)
	}

	var payments []models.Payment
	query := `SELECT * FROM payments` + where.SQL() + ` ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &payments, query, where.Args()...); err != nil {
		return nil, fmt.Errorf("payment repository: list by user %w", err)
	}
	return payments, nil
}

// ListSucceededByReceiver возвращает успешные платежи специалиста. Границы применяются к paid_at,
// платежи без paid_at в выборку попадают.
func (r *PaymentRepository) ListSucceededByReceiver(ctx context.Context, receiverID uuid.UUID, from, to *time.Time) ([]models.Payment, error) {
	var where common.Where
	where.Add("receiver_id = ?", receiverID)
	where.Add("status = ?", valueobject.PaymentStatusSucceeded)
	if from != nil {
		where.Add("(paid_at IS NULL OR paid_at >= ?)", *from)
	}
	if to != nil {
		where.Add("(paid_at IS NULL OR paid_at <= ?)", *to)
	}

	var payments []models.Payment
	query := `SELECT * FROM payments` + where.SQL() + ` ORDER BY paid_at DESC NULLS LAST`
	if err := r.db.SelectContext(ctx, &payments, query, where.Args()...); err != nil {
		return nil, fmt.Errorf("payment repository: list succeeded %w", err)
	}
	return payments, nil
}

// UpdateStatus применяет изменение статуса; при ConfirmBookingID подтверждает бронирование,
// если оно ещё в pending.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, change models.PaymentStatusChange) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE payments
			SET status = $2,
			    payment_intent_id = COALESCE($3, payment_intent_id),
			    paid_at = COALESCE(paid_at, $4),
			    updated_at = NOW()
			WHERE id = $1
		`, id, change.Status, change.PaymentIntentID, change.PaidAt)
		if err != nil {
			return fmt.Errorf("payment repository: update status %w", err)
		}
		if err := common.ExpectAffected(result, ErrPaymentNotFound); err != nil {
			return err
		}

		if change.ConfirmBookingID != nil {
			if _, err := tx.ExecContext(ctx, `
				UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1 AND status = $3
			`, *change.ConfirmBookingID, valueobject.BookingStatusConfirmed, valueobject.BookingStatusPending); err != nil {
				return fmt.Errorf("payment repository: confirm booking %w", err)
			}
		}
		return nil
	})
}

// Refund помечает платёж возвращённым и отменяет бронирование в одной транзакции.
func (r *PaymentRepository) Refund(ctx context.Context, payment *models.Payment, bookingID uuid.UUID) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			UPDATE payments
			SET status = $2, refund_amount = $3, refund_reason = $4,
			    refunded_at = COALESCE(refunded_at, $5), updated_at = NOW()
			WHERE id = $1
			RETURNING refunded_at, updated_at
		`, payment.ID, valueobject.PaymentStatusRefunded, payment.RefundAmount, payment.RefundReason, payment.RefundedAt,
		).Scan(&payment.RefundedAt, &payment.UpdatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("payment repository: refund %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1
		`, bookingID, valueobject.BookingStatusCancelled); err != nil {
			return fmt.Errorf("payment repository: cancel booking %w", err)
		}

		payment.Status = valueobject.PaymentStatusRefunded
		return nil
	})
}
