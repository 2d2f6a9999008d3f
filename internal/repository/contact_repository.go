package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/repository/common"
)

var ErrContactNotFound = errors.New("contact submission not found")

// ContactFilter фильтр обращений для администратора.
type ContactFilter struct {
	Status *string
	Email  *string
	Limit  int
	Offset int
}

// ContactRepository работает с таблицей contact_submissions.
type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO contact_submissions (first_name, last_name, email, inquiry_type, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, submission.FirstName, submission.LastName, submission.Email, submission.InquiryType,
		submission.Message, submission.Status,
	).Scan(&submission.ID, &submission.CreatedAt, &submission.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contact repository: create %w", err)
	}
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	return common.GetByID[models.ContactSubmission](ctx, r.db, "contact_submissions", id, ErrContactNotFound)
}

// List возвращает обращения, новые первыми.
func (r *ContactRepository) List(ctx context.Context, filter ContactFilter) ([]models.ContactSubmission, error) {
	var where common.Where
	if filter.Status != nil {
		where.Add("status = ?", *filter.Status)
	}
	if filter.Email != nil {
		where.Add("email = ?", *filter.Email)
	}

	query := `SELECT * FROM contact_submissions` + where.SQL() + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + where.Arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + where.Arg(filter.Offset)
	}

	var submissions []models.ContactSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, where.Args()...); err != nil {
		return nil, fmt.Errorf("contact repository: list %w", err)
	}
	return submissions, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE contact_submissions SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("contact repository: update status %w", err)
	}
	return common.ExpectAffected(result, ErrContactNotFound)
}
