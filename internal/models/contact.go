package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы обращений.
const (
	InquiryGeneral     = "general"
	InquirySupport     = "support"
	InquiryPartnership = "partnership"
	InquiryExpert      = "expert"
	InquiryFeedback    = "feedback"
)

// ValidInquiryTypes список допустимых типов обращений.
var ValidInquiryTypes = map[string]struct{}{
	InquiryGeneral:     {},
	InquirySupport:     {},
	InquiryPartnership: {},
	InquiryExpert:      {},
	InquiryFeedback:    {},
}

// Статусы обработки обращений.
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in_progress"
	ContactStatusResolved   = "resolved"
)

// ValidContactStatuses список допустимых статусов обращения.
var ValidContactStatuses = map[string]struct{}{
	ContactStatusNew:        {},
	ContactStatusInProgress: {},
	ContactStatusResolved:   {},
}

// ContactSubmission обращение с публичной формы обратной связи.
type ContactSubmission struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Email       string    `db:"email" json:"email"`
	InquiryType string    `db:"inquiry_type" json:"inquiry_type"`
	Message     string    `db:"message" json:"message"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ContactInput данные формы обратной связи.
type ContactInput struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	InquiryType string `json:"inquiry_type" binding:"required"`
	Message     string `json:"message" binding:"required"`
}
