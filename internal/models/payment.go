package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/domain/valueobject"
)

// Payment платёж за бронирование, не больше одного на бронирование.
type Payment struct {
	ID              uuid.UUID                 `db:"id" json:"id"`
	BookingID       uuid.UUID                 `db:"booking_id" json:"booking_id"`
	PayerID         uuid.UUID                 `db:"payer_id" json:"payer_id"`
	ReceiverID      uuid.UUID                 `db:"receiver_id" json:"receiver_id"`
	Amount          float64                   `db:"amount" json:"amount"`
	PlatformFee     float64                   `db:"platform_fee" json:"platform_fee"`
	NetAmount       float64                   `db:"net_amount" json:"net_amount"`
	Currency        string                    `db:"currency" json:"currency"`
	PaymentMethod   string                    `db:"payment_method" json:"payment_method"`
	PaymentIntentID *string                   `db:"payment_intent_id" json:"payment_intent_id,omitempty"`
	Status          valueobject.PaymentStatus `db:"status" json:"status"`
	RefundAmount    *float64                  `db:"refund_amount" json:"refund_amount,omitempty"`
	RefundReason    *string                   `db:"refund_reason" json:"refund_reason,omitempty"`
	PaidAt          *time.Time                `db:"paid_at" json:"paid_at,omitempty"`
	RefundedAt      *time.Time                `db:"refunded_at" json:"refunded_at,omitempty"`
	CreatedAt       time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time                 `db:"updated_at" json:"updated_at"`
}

// IsParty сообщает, является ли пользователь плательщиком или получателем.
func (p *Payment) IsParty(userID uuid.UUID) bool {
	return userID == p.PayerID || userID == p.ReceiverID
}

// PaymentDetails платёж со связанными сущностями.
type PaymentDetails struct {
	Payment
	Booking  *Booking    `json:"booking,omitempty"`
	Payer    *PublicUser `json:"payer,omitempty"`
	Receiver *PublicUser `json:"receiver,omitempty"`
}

// PaymentFilter фильтр списка платежей пользователя.
type PaymentFilter struct {
	// Role: payer, receiver или пусто.
	Role   string
	Status *valueobject.PaymentStatus
}

// RefundResult результат возврата.
type RefundResult struct {
	PaymentID    uuid.UUID `json:"payment_id"`
	RefundAmount float64   `json:"refund_amount"`
}

// Earnings сводка заработка специалиста.
type Earnings struct {
	TotalEarnings    float64   `json:"total_earnings"`
	TotalPlatformFee float64   `json:"total_platform_fees"`
	PaymentCount     int       `json:"payment_count"`
	Payments         []Payment `json:"payments"`
}

// PaymentStatusChange изменение статуса платежа. Если ConfirmBookingID задан,
// бронирование в статусе pending переводится в confirmed в той же транзакции.
type PaymentStatusChange struct {
	Status           valueobject.PaymentStatus
	PaymentIntentID  *string
	PaidAt           *time.Time
	ConfirmBookingID *uuid.UUID
}
