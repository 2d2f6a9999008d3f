package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/domain/valueobject"
	"github.com/innies-app/innies-backend/internal/models"
	"github.com/innies-app/innies-backend/internal/pkg/apperror"
	"github.com/innies-app/innies-backend/internal/repository"
	"github.com/innies-app/innies-backend/internal/validation"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	CountConflicts(ctx context.Context, providerID uuid.UUID, from, to time.Time, statuses []valueobject.BookingStatus) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter models.BookingFilter) ([]models.Booking, error)
	ListUpcomingByProvider(ctx context.Context, providerID uuid.UUID, since time.Time) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, booking *models.Booking) error
	Complete(ctx context.Context, booking *models.Booking) error
}

type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type SkillReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error)
}

// BookingService ведёт жизненный цикл бронирований.
type BookingService struct {
	repo      BookingRepository
	users     UserReader
	skills    SkillReader
	publisher EventPublisher
	now       func() time.Time
}

func NewBookingService(repo BookingRepository, users UserReader, skills SkillReader) *BookingService {
	return &BookingService{repo: repo, users: users, skills: skills, now: time.Now}
}

// SetPublisher подключает доставку событий.
func (s *BookingService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

// CreateBooking создаёт бронирование от имени ищущего помощь.
func (s *BookingService) CreateBooking(ctx context.Context, actorID uuid.UUID, in models.CreateBookingInput) (*models.Booking, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := validateBookingInput(in); err != nil {
		return nil, apperror.Validation(err)
	}
	if in.ProviderID == actorID {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "нельзя забронировать сессию у самого себя")
	}

	provider, err := s.users.GetByID(ctx, in.ProviderID)
	if err != nil {
		return nil, translate(err, repository.ErrUserNotFound, apperror.ErrProviderNotFound)
	}
	if !provider.IsProvider() {
		return nil, apperror.ErrProviderNotFound
	}

	skill, err := s.skills.GetByID(ctx, in.SkillID)
	if err != nil {
		return nil, translate(err, repository.ErrSkillNotFound, apperror.ErrSkillNotFound)
	}
	if skill.UserID != provider.ID {
		return nil, apperror.ErrSkillNotOwned
	}

	if !provider.IsAvailable {
		return nil, apperror.ErrProviderUnavailable
	}

	var rate float64
	if provider.HourlyRate != nil {
		rate = *provider.HourlyRate
	}

	from, to := models.ConflictWindow(in.ScheduledDate, in.Duration)
	conflicts, err := s.repo.CountConflicts(ctx, provider.ID, from, to, valueobject.SchedulingBookingStatuses())
	if err != nil {
		return nil, err
	}
	if conflicts > 0 {
		return nil, apperror.ErrSchedulingConflict
	}

	booking := &models.Booking{
		ProviderID:    provider.ID,
		SeekerID:      actorID,
		SkillID:       &skill.ID,
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		ScheduledDate: in.ScheduledDate,
		Duration:      in.Duration,
		TotalAmount:   valueobject.BookingTotal(rate, in.Duration),
		Status:        valueobject.BookingStatusPending,
		Location:      in.Location,
		IsOnline:      in.IsOnline,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("booking service: create %w", err)
	}

	publish(s.publisher, EventBookingCreated, booking, booking.ProviderID)
	return booking, nil
}

// UpdateBookingStatus переводит бронирование по таблице переходов.
// Подтвердить может только специалист.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, actorID, bookingID uuid.UUID, status string, meetingLink *string) (*models.Booking, error) {
	next, err := valueobject.NewBookingStatus(status)
	if err != nil {
		return nil, err
	}
	if meetingLink != nil && *meetingLink != "" {
		if err := validation.ValidateURL("ссылка на встречу", *meetingLink); err != nil {
			return nil, apperror.Validation(err)
		}
	}
	return s.changeStatus(ctx, actorID, bookingID, next, func(b *models.Booking) {
		if meetingLink != nil {
			b.MeetingLink = meetingLink
		}
	})
}

// CancelBooking отменяет бронирование, пока оно не завершено.
func (s *BookingService) CancelBooking(ctx context.Context, actorID, bookingID uuid.UUID, reason *string) (*models.Booking, error) {
	if err := validation.ValidateOptional("причина отмены", reason, validation.MaxBookingDescription); err != nil {
		return nil, apperror.Validation(err)
	}
	return s.changeStatus(ctx, actorID, bookingID, valueobject.BookingStatusCancelled, func(b *models.Booking) {
		if reason != nil {
			b.CancellationReason = reason
		}
	})
}

func (s *BookingService) changeStatus(ctx context.Context, actorID, bookingID uuid.UUID, next valueobject.BookingStatus, apply func(*models.Booking)) (*models.Booking, error) {
	booking, err := s.partyBooking(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(next) {
		return nil, apperror.InvalidTransition(booking.Status.String(), next.String())
	}
	if next == valueobject.BookingStatusConfirmed && actorID != booking.ProviderID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "подтвердить бронирование может только специалист")
	}

	apply(booking)
	booking.Status = next

	if next == valueobject.BookingStatusCompleted {
		err = s.repo.Complete(ctx, booking)
	} else {
		err = s.repo.UpdateStatus(ctx, booking)
	}
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, apperror.ErrBookingNotFound
		}
		return nil, fmt.Errorf("booking service: update status %w", err)
	}

	publish(s.publisher, EventBookingUpdated, booking, booking.ProviderID, booking.SeekerID)
	return booking, nil
}

// GetBooking возвращает бронирование со сторонами и навыком; доступно только сторонам.
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*models.BookingDetails, error) {
	booking, err := s.partyBooking(ctx, actorID, bookingID)
	if err != nil {
		return nil, err
	}

	details := &models.BookingDetails{Booking: *booking}
	if provider, err := s.users.GetByID(ctx, booking.ProviderID); err == nil {
		details.Provider = provider.Public()
	}
	if seeker, err := s.users.GetByID(ctx, booking.SeekerID); err == nil {
		details.Seeker = seeker.Public()
	}
	if booking.SkillID != nil {
		if skill, err := s.skills.GetByID(ctx, *booking.SkillID); err == nil {
			details.Skill = skill
		}
	}
	return details, nil
}

// ListUserBookings бронирования вызывающего, поздние по дате сессии первыми.
func (s *BookingService) ListUserBookings(ctx context.Context, actorID uuid.UUID, role string, status string) ([]models.Booking, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}

	filter := models.BookingFilter{}
	switch role {
	case "", models.RoleProvider, models.RoleSeeker:
		filter.Role = role
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "role должен быть provider или seeker")
	}
	if status != "" {
		st, err := valueobject.NewBookingStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}

	return s.repo.ListByUser(ctx, actorID, filter)
}

// ListProviderUpcoming подтверждённые и идущие сессии специалиста начиная с текущего момента.
func (s *BookingService) ListProviderUpcoming(ctx context.Context, providerID uuid.UUID) ([]models.Booking, error) {
	return s.repo.ListUpcomingByProvider(ctx, providerID, s.now())
}

func (s *BookingService) partyBooking(ctx context.Context, actorID, bookingID uuid.UUID) (*models.Booking, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, translate(err, repository.ErrBookingNotFound, apperror.ErrBookingNotFound)
	}
	if !booking.IsParty(actorID) {
		return nil, apperror.ErrForbidden
	}
	return booking, nil
}

func validateBookingInput(in models.CreateBookingInput) error {
	if in.ProviderID == uuid.Nil || in.SkillID == uuid.Nil {
		return fmt.Errorf("специалист и навык обязательны")
	}
	if err := validation.ValidateRequired("заголовок", in.Title, validation.MaxBookingTitleLength); err != nil {
		return err
	}
	if err := validation.ValidateLength("описание", in.Description, 0, validation.MaxBookingDescription); err != nil {
		return err
	}
	if err := validation.ValidateDuration(in.Duration); err != nil {
		return err
	}
	if in.ScheduledDate.IsZero() {
		return fmt.Errorf("дата сессии обязательна")
	}
	return nil
}
