package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
	"github.com/innies-app/innies-backend/internal/validation"
)

type ContactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error)
	List(ctx context.Context, filter repository.ContactFilter) ([]models.ContactSubmission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ContactService принимает обращения с публичной формы и отдаёт их администратору.
type ContactService struct {
	repo ContactRepository
}

func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// Submit сохраняет обращение со статусом new.
func (s *ContactService) Submit(ctx context.Context, in models.ContactInput) (*models.ContactSubmission, error) {
	submission := &models.ContactSubmission{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		InquiryType: strings.TrimSpace(in.InquiryType),
		Message:     strings.TrimSpace(in.Message),
		Status:      models.ContactStatusNew,
	}
	if err := validateContact(submission); err != nil {
		return nil, apperror.Validation(err)
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("contact service: create %w", err)
	}
	return submission, nil
}

// List обращения с необязательными фильтрами по статусу и email.
func (s *ContactService) List(ctx context.Context, status, email string, limit, offset int) ([]models.ContactSubmission, error) {
	filter := repository.ContactFilter{Limit: limit, Offset: offset}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if status != "" {
		if err := validation.ValidateOneOf("status", status, models.ValidContactStatuses); err != nil {
			return nil, apperror.Validation(err)
		}
		filter.Status = &status
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		filter.Email = &email
	}
	return s.repo.List(ctx, filter)
}

func (s *ContactService) Get(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, repository.ErrContactNotFound, apperror.ErrContactNotFound)
	}
	return submission, nil
}

// UpdateStatus меняет статус обработки обращения.
func (s *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.ContactSubmission, error) {
	if err := validation.ValidateOneOf("status", status, models.ValidContactStatuses); err != nil {
		return nil, apperror.Validation(err)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, translate(err, repository.ErrContactNotFound, apperror.ErrContactNotFound)
	}
	return s.Get(ctx, id)
}

func validateContact(c *models.ContactSubmission) error {
	if err := validation.ValidateRequired("имя", c.FirstName, validation.MaxNameLength); err != nil {
		return err
	}
	if err := validation.ValidateRequired("фамилия", c.LastName, validation.MaxNameLength); err != nil {
		return err
	}
	if err := validation.ValidateEmail(c.Email); err != nil {
		return err
	}
	if err := validation.ValidateOneOf("inquiry_type", c.InquiryType, models.ValidInquiryTypes); err != nil {
		return err
	}
	return validation.ValidateRequired("сообщение", c.Message, validation.MaxContactMessage)
}
