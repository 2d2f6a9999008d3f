package valueobject

import (
	"fmt"
	"math"
	"time"

	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

const (
	DefaultCurrency = "USD"
	// PlatformFeeRate доля платформы от суммы платежа.
	PlatformFeeRate = 0.05
	// LateCancellationWindow за это время до начала возвращается только половина суммы.
	LateCancellationWindow = 24 * time.Hour
	LateRefundRate         = 0.5
)

type Money struct {
	Amount   float64
	Currency string
}

func NewMoney(amount float64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, apperror.New(apperror.ErrCodeValidation, "сумма не может быть отрицательной")
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: RoundCents(amount), Currency: currency}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", m.Currency, m.Amount)
}

// RoundCents округляет сумму до центов.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// BookingTotal считает стоимость сессии: ставка в час × длительность в минутах / 60.
func BookingTotal(hourlyRate float64, durationMinutes int) float64 {
	return RoundCents(hourlyRate * float64(durationMinutes) / 60)
}

// PaymentSplit раскладывает платёж на комиссию платформы и сумму специалисту.
type PaymentSplit struct {
	Gross float64
	Fee   float64
	Net   float64
}

func SplitPayment(gross float64) PaymentSplit {
	fee := RoundCents(gross * PlatformFeeRate)
	return PaymentSplit{
		Gross: gross,
		Fee:   fee,
		Net:   RoundCents(gross - fee),
	}
}

// RefundAmount возвращает сумму возврата. hoursDiff = (now - scheduled) в часах;
// при hoursDiff > -24 возвращается половина, ровно за 24 часа и раньше возвращается всё.
func RefundAmount(gross float64, scheduled, now time.Time) float64 {
	hoursDiff := now.Sub(scheduled).Hours()
	if hoursDiff > -LateCancellationWindow.Hours() {
		return RoundCents(gross * LateRefundRate)
	}
	return gross
}
