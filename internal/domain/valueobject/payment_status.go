package valueobject

import "github.com/innies-app/innies-backend/internal/pkg/apperror"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Повторная установка текущего статуса разрешена всегда, см. CanTransitionTo.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusSucceeded, PaymentStatusFailed},
	PaymentStatusProcessing: {PaymentStatusSucceeded, PaymentStatusFailed},
	PaymentStatusFailed:     {PaymentStatusPending, PaymentStatusProcessing},
	PaymentStatusSucceeded:  {PaymentStatusRefunded},
	PaymentStatusRefunded:   {},
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

func NewPaymentStatus(status string) (PaymentStatus, error) {
	s := PaymentStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус платежа")
	}
	return s, nil
}
