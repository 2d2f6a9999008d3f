package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Роли пользователей.
const (
	RoleSeeker   = "seeker"
	RoleProvider = "provider"
)

// ValidRoles список допустимых ролей.
var ValidRoles = map[string]struct{}{
	RoleSeeker:   {},
	RoleProvider: {},
}

// User описывает участника платформы: ищущего помощь или специалиста.
type User struct {
	ID            uuid.UUID           `db:"id" json:"id"`
	ExternalID    string              `db:"external_id" json:"external_id"`
	Name          string              `db:"name" json:"name"`
	Email         string              `db:"email" json:"email"`
	Role          string              `db:"role" json:"role"`
	ImageURL      *string             `db:"image_url" json:"image_url,omitempty"`
	Bio           *string             `db:"bio" json:"bio,omitempty"`
	HourlyRate    *float64            `db:"hourly_rate" json:"hourly_rate,omitempty"`
	Availability  AvailabilityWindows `db:"availability" json:"availability"`
	PortfolioURLs pq.StringArray      `db:"portfolio_urls" json:"portfolio_urls"`
	Location      *string             `db:"location" json:"location,omitempty"`
	IsAvailable   bool                `db:"is_available" json:"is_available"`
	Rating        *float64            `db:"rating" json:"rating,omitempty"`
	TotalBookings int                 `db:"total_bookings" json:"total_bookings"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`
}

// IsProvider сообщает, может ли пользователь принимать бронирования.
func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}

// PublicUser урезанная карточка пользователя для вложения в ответы.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL *string   `json:"image_url,omitempty"`
	Role     string    `json:"role"`
	Rating   *float64  `json:"rating,omitempty"`
}

// Public возвращает карточку без email и служебных полей.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{ID: u.ID, Name: u.Name, ImageURL: u.ImageURL, Role: u.Role, Rating: u.Rating}
}

// AvailabilityWindow окно доступности специалиста в неделе.
type AvailabilityWindow struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AvailabilityWindows хранится в JSONB колонке.
type AvailabilityWindows []AvailabilityWindow

// Value реализует driver.Valuer.
func (w AvailabilityWindows) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan реализует sql.Scanner.
func (w *AvailabilityWindows) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*w = AvailabilityWindows{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("availability: неподдерживаемый тип колонки")
	}
	return json.Unmarshal(raw, w)
}

// ProfileUpdate частичное обновление профиля: nil поля не меняются.
type ProfileUpdate struct {
	Name          *string              `json:"name"`
	Bio           *string              `json:"bio"`
	ImageURL      *string              `json:"image_url"`
	Role          *string              `json:"role"`
	HourlyRate    *float64             `json:"hourly_rate"`
	Availability  *AvailabilityWindows `json:"availability"`
	PortfolioURLs *[]string            `json:"portfolio_urls"`
	Location      *string              `json:"location"`
	IsAvailable   *bool                `json:"is_available"`
}

// IdentityProfile данные пользователя из провайдера идентификации.
type IdentityProfile struct {
	ExternalID string
	Name       string
	Email      string
	ImageURL   *string
}
