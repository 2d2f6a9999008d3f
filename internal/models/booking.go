package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/domain/valueobject"
)

// Booking запланированная сессия между ищущим помощь и специалистом.
type Booking struct {
	ID                 uuid.UUID                 `db:"id" json:"id"`
	ProviderID         uuid.UUID                 `db:"provider_id" json:"provider_id"`
	SeekerID           uuid.UUID                 `db:"seeker_id" json:"seeker_id"`
	SkillID            *uuid.UUID                `db:"skill_id" json:"skill_id,omitempty"`
	Title              string                    `db:"title" json:"title"`
	Description        string                    `db:"description" json:"description"`
	ScheduledDate      time.Time                 `db:"scheduled_date" json:"scheduled_date"`
	Duration           int                       `db:"duration" json:"duration"`
	TotalAmount        float64                   `db:"total_amount" json:"total_amount"`
	Status             valueobject.BookingStatus `db:"status" json:"status"`
	Location           *string                   `db:"location" json:"location,omitempty"`
	IsOnline           bool                      `db:"is_online" json:"is_online"`
	MeetingLink        *string                   `db:"meeting_link" json:"meeting_link,omitempty"`
	CancellationReason *string                   `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time                 `db:"updated_at" json:"updated_at"`
}

// IsParty сообщает, является ли пользователь одной из сторон бронирования.
func (b *Booking) IsParty(userID uuid.UUID) bool {
	return userID == b.ProviderID || userID == b.SeekerID
}

// Counterpart возвращает вторую сторону бронирования.
func (b *Booking) Counterpart(userID uuid.UUID) uuid.UUID {
	if userID == b.ProviderID {
		return b.SeekerID
	}
	return b.ProviderID
}

// ConflictWindow границы окна [start - duration, start + duration], в котором
// подтверждённые бронирования специалиста считаются пересечением.
func ConflictWindow(start time.Time, durationMinutes int) (time.Time, time.Time) {
	d := time.Duration(durationMinutes) * time.Minute
	return start.Add(-d), start.Add(d)
}

// BookingDetails бронирование со связанными сущностями.
type BookingDetails struct {
	Booking
	Provider *PublicUser `json:"provider,omitempty"`
	Seeker   *PublicUser `json:"seeker,omitempty"`
	Skill    *Skill      `json:"skill,omitempty"`
}

// CreateBookingInput данные для создания бронирования.
type CreateBookingInput struct {
	ProviderID    uuid.UUID `json:"provider_id"`
	SkillID       uuid.UUID `json:"skill_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Duration      int       `json:"duration"`
	Location      *string   `json:"location"`
	IsOnline      bool      `json:"is_online"`
}

// BookingFilter фильтр списка бронирований пользователя.
type BookingFilter struct {
	// Role: provider, seeker или пусто для обеих ролей.
	Role   string
	Status *valueobject.BookingStatus
}
