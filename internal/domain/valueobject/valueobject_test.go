package valueobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_Transitions(t *testing.T) {
	all := []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled,
	}
	allowed := map[[2]BookingStatus]bool{
		{BookingStatusPending, BookingStatusConfirmed}:     true,
		{BookingStatusPending, BookingStatusCancelled}:     true,
		{BookingStatusConfirmed, BookingStatusInProgress}:  true,
		{BookingStatusConfirmed, BookingStatusCancelled}:   true,
		{BookingStatusInProgress, BookingStatusCompleted}:  true,
		{BookingStatusInProgress, BookingStatusCancelled}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]BookingStatus{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatus_Flags(t *testing.T) {
	assert.True(t, BookingStatusPending.IsActive())
	assert.True(t, BookingStatusInProgress.IsActive())
	assert.False(t, BookingStatusCompleted.IsActive())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
}

func TestNewBookingStatus(t *testing.T) {
	s, err := NewBookingStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, BookingStatusInProgress, s)

	_, err = NewBookingStatus("done")
	assert.Error(t, err)
}

func TestPaymentStatus_Transitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusSucceeded))
	assert.True(t, PaymentStatusSucceeded.CanTransitionTo(PaymentStatusSucceeded))
	assert.True(t, PaymentStatusSucceeded.CanTransitionTo(PaymentStatusRefunded))
	assert.True(t, PaymentStatusFailed.CanTransitionTo(PaymentStatusPending))
	assert.False(t, PaymentStatusRefunded.CanTransitionTo(PaymentStatusSucceeded))
	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatusRefunded))
	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatus("paid")))
}

func TestBookingTotal(t *testing.T) {
	assert.Equal(t, 150.0, BookingTotal(100, 90))
	assert.Equal(t, 0.0, BookingTotal(0, 60))
	assert.Equal(t, 33.33, BookingTotal(100, 20))
}

func TestSplitPayment(t *testing.T) {
	split := SplitPayment(150)

	assert.Equal(t, 150.0, split.Gross)
	assert.Equal(t, 7.5, split.Fee)
	assert.Equal(t, 142.5, split.Net)
}

func TestRefundAmount(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		scheduled time.Time
		want      float64
	}{
		{"за 48 часов", now.Add(48 * time.Hour), 100},
		{"ровно за 24 часа", now.Add(24 * time.Hour), 100},
		{"за 23 часа", now.Add(23 * time.Hour), 50},
		{"уже началось", now.Add(-time.Hour), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RefundAmount(100, tt.scheduled, now))
		})
	}
}

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(10.005, "")
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency)

	_, err = NewMoney(-1, "USD")
	assert.Error(t, err)
}
