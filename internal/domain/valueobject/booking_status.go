package valueobject

import "github.com/innies-app/innies-backend/internal/pkg/apperror"

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// IsActive сообщает, занимает ли бронирование слот специалиста и навык.
func (s BookingStatus) IsActive() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}

// ActiveBookingStatuses блокируют удаление навыка.
func ActiveBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress}
}

// SchedulingBookingStatuses участвуют в проверке пересечения по времени.
func SchedulingBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingStatusConfirmed, BookingStatusInProgress}
}

func NewBookingStatus(status string) (BookingStatus, error) {
	s := BookingStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус бронирования")
	}
	return s, nil
}
