package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/domain/valueobject"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
	"github.com/innies-app/innies-backend/internal/validation"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter models.PaymentFilter) ([]models.Payment, error)
	ListSucceededByReceiver(ctx context.Context, receiverID uuid.UUID, from, to *time.Time) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, change models.PaymentStatusChange) error
	Refund(ctx context.Context, payment *models.Payment, bookingID uuid.UUID) error
}

type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

// PaymentService ведёт платежи по бронированиям: комиссия, статусы, возвраты, заработок.
type PaymentService struct {
	repo      PaymentRepository
	bookings  BookingReader
	users     UserReader
	publisher EventPublisher
	now       func() time.Time
}

func NewPaymentService(repo PaymentRepository, bookings BookingReader, users UserReader) *PaymentService {
	return &PaymentService{repo: repo, bookings: bookings, users: users, now: time.Now}
}

// SetPublisher подключает доставку событий.
func (s *PaymentService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// CreatePayment создаёт платёж за бронирование. Платить может только ищущий помощь,
// на одно бронирование допускается один платёж.
func (s *PaymentService) CreatePayment(ctx context.Context, actorID, bookingID uuid.UUID, method string, intentID *string) (*models.Payment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("способ оплаты", method, 50); err != nil {
		return nil, apperror.Validation(err)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translate(err, repository.ErrBookingNotFound, apperror.ErrBookingNotFound)
	}
	if booking.SeekerID != actorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "оплатить бронирование может только заказчик")
	}
	if booking.Status == valueobject.BookingStatusCancelled {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "нельзя оплатить отменённое бронирование")
	}

	existing, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrPaymentExists
	}

	split := valueobject.SplitPayment(booking.TotalAmount)
	payment := &models.Payment{
		BookingID:       booking.ID,
		PayerID:         booking.SeekerID,
		ReceiverID:      booking.ProviderID,
		Amount:          split.Gross,
		PlatformFee:     split.Fee,
		NetAmount:       split.Net,
		Currency:        valueobject.DefaultCurrency,
		PaymentMethod:   method,
		PaymentIntentID: intentID,
		Status:          valueobject.PaymentStatusPending,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrPaymentExists) {
			return nil, apperror.ErrPaymentExists
		}
		return nil, fmt.Errorf("payment service: create %w", err)
	}

	publish(s.publisher, EventPaymentUpdated, payment, payment.PayerID, payment.ReceiverID)
	return payment, nil
}

// UpdatePaymentStatus меняет статус платежа. Первый переход в succeeded фиксирует paid_at
// и подтверждает бронирование, если оно ещё в pending. Переход в refunded проходит
// по правилам ProcessRefund.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, actorID, paymentID uuid.UUID, status string, intentID *string) (*models.Payment, error) {
	next, err := valueobject.NewPaymentStatus(status)
	if err != nil {
		return nil, err
	}

	payment, err := s.partyPayment(ctx, actorID, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(next) {
		return nil, apperror.InvalidTransition(payment.Status.String(), next.String())
	}
	if next == valueobject.PaymentStatusRefunded && payment.Status != valueobject.PaymentStatusRefunded {
		if _, err := s.refund(ctx, payment, nil); err != nil {
			return nil, err
		}
		return payment, nil
	}

	now := s.now()
	change := models.PaymentStatusChange{Status: next, PaymentIntentID: intentID}
	if next == valueobject.PaymentStatusSucceeded && payment.PaidAt == nil {
		change.PaidAt = &now
		change.ConfirmBookingID = &payment.BookingID
	}

	if err := s.repo.UpdateStatus(ctx, payment.ID, change); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, apperror.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("payment service: update status %w", err)
	}

	payment.Status = next
	if intentID != nil {
		payment.PaymentIntentID = intentID
	}
	if change.PaidAt != nil {
		payment.PaidAt = change.PaidAt
	}

	publish(s.publisher, EventPaymentUpdated, payment, payment.PayerID, payment.ReceiverID)
	return payment, nil
}

// ProcessRefund возвращает оплату успешного платежа и отменяет бронирование.
// Ближе чем за 24 часа до начала возвращается половина суммы.
func (s *PaymentService) ProcessRefund(ctx context.Context, actorID, paymentID uuid.UUID, reason *string) (*models.RefundResult, error) {
	if err := validation.ValidateOptional("причина возврата", reason, validation.MaxContactMessage); err != nil {
		return nil, apperror.Validation(err)
	}

	payment, err := s.partyPayment(ctx, actorID, paymentID)
	if err != nil {
		return nil, err
	}
	return s.refund(ctx, payment, reason)
}

// refund применяет политику возврата к платежу, проверенному на участие вызывающего.
func (s *PaymentService) refund(ctx context.Context, payment *models.Payment, reason *string) (*models.RefundResult, error) {
	if payment.Status != valueobject.PaymentStatusSucceeded {
		return nil, apperror.ErrRefundNotAllowed
	}

	booking, err := s.bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, translate(err, repository.ErrBookingNotFound, apperror.ErrBookingNotFound)
	}
	if booking.Status == valueobject.BookingStatusInProgress || booking.Status == valueobject.BookingStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "нельзя вернуть оплату за начатую или завершённую сессию")
	}

	now := s.now()
	amount := valueobject.RefundAmount(payment.Amount, booking.ScheduledDate, now)
	payment.Status = valueobject.PaymentStatusRefunded
	payment.RefundAmount = &amount
	payment.RefundReason = reason
	payment.RefundedAt = &now

	if err := s.repo.Refund(ctx, payment, booking.ID); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, apperror.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("payment service: refund %w", err)
	}

	booking.Status = valueobject.BookingStatusCancelled
	publish(s.publisher, EventPaymentUpdated, payment, payment.PayerID, payment.ReceiverID)
	publish(s.publisher, EventBookingUpdated, booking, booking.ProviderID, booking.SeekerID)

	return &models.RefundResult{PaymentID: payment.ID, RefundAmount: amount}, nil
}

// ProviderEarnings суммирует успешные платежи специалиста. По умолчанию считает для вызывающего.
func (s *PaymentService) ProviderEarnings(ctx context.Context, actorID uuid.UUID, providerID *uuid.UUID, from, to *time.Time) (*models.Earnings, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	target := actorID
	if providerID != nil {
		target = *providerID
	}
	if target != actorID {
		return nil, apperror.ErrForbidden
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, apperror.New(apperror.ErrCodeValidation, "начало периода позже конца")
	}

	user, err := s.users.GetByID(ctx, target)
	if err != nil {
		return nil, translate(err, repository.ErrUserNotFound, apperror.ErrUserNotFound)
	}
	if !user.IsProvider() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "заработок доступен только специалистам")
	}

	payments, err := s.repo.ListSucceededByReceiver(ctx, target, from, to)
	if err != nil {
		return nil, err
	}

	earnings := &models.Earnings{Payments: payments, PaymentCount: len(payments)}
	for _, p := range payments {
		earnings.TotalEarnings += p.NetAmount
		earnings.TotalPlatformFee += p.PlatformFee
	}
	earnings.TotalEarnings = valueobject.RoundCents(earnings.TotalEarnings)
	earnings.TotalPlatformFee = valueobject.RoundCents(earnings.TotalPlatformFee)
	if earnings.Payments == nil {
		earnings.Payments = []models.Payment{}
	}
	return earnings, nil
}

// GetPayment возвращает платёж с бронированием и сторонами.
func (s *PaymentService) GetPayment(ctx context.Context, actorID, paymentID uuid.UUID) (*models.PaymentDetails, error) {
	payment, err := s.partyPayment(ctx, actorID, paymentID)
	if err != nil {
		return nil, err
	}

	details := &models.PaymentDetails{Payment: *payment}
	if booking, err := s.bookings.GetByID(ctx, payment.BookingID); err == nil {
		details.Booking = booking
	}
	if payer, err := s.users.GetByID(ctx, payment.PayerID); err == nil {
		details.Payer = payer.Public()
	}
	if receiver, err := s.users.GetByID(ctx, payment.ReceiverID); err == nil {
		details.Receiver = receiver.Public()
	}
	return details, nil
}

// GetPaymentByBooking возвращает платёж бронирования для его сторон.
func (s *PaymentService) GetPaymentByBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*models.Payment, error) {
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

	payment, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.ErrPaymentNotFound
	}
	return payment, nil
}

// ListUserPayments платежи вызывающего как плательщика и/или получателя.
func (s *PaymentService) ListUserPayments(ctx context.Context, actorID uuid.UUID, role, status string) ([]models.Payment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	filter := models.PaymentFilter{}
	switch role {
	case "", "payer", "receiver":
		filter.Role = role
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "role должен быть payer или receiver")
	}
	if status != "" {
		st, err := valueobject.NewPaymentStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}

	return s.repo.ListByUser(ctx, actorID, filter)
}

func (s *PaymentService) partyPayment(ctx context.Context, actorID, paymentID uuid.UUID) (*models.Payment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	payment, err := s.repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, translate(err, repository.ErrPaymentNotFound, apperror.ErrPaymentNotFound)
	}
	if !payment.IsParty(actorID) {
		return nil, apperror.ErrForbidden
	}
	return payment, nil
}
