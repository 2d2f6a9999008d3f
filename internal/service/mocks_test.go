package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/innies-app/innies-backend/internal/domain/valueobject"
	"github.com/innies-app/innies-backend/internal/models"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) UpsertByExternalID(ctx context.Context, profile models.IdentityProfile) (*models.User, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserRepo) ListProviders(ctx context.Context, availableOnly bool, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, availableOnly, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) SetRating(ctx context.Context, id uuid.UUID, rating *float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

type mockSkillRepo struct {
	mock.Mock
}

func (m *mockSkillRepo) Create(ctx context.Context, skill *models.Skill) error {
	args := m.Called(ctx, skill)
	if args.Error(0) == nil {
		skill.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockSkillRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func (m *mockSkillRepo) FindByTriple(ctx context.Context, userID, categoryID uuid.UUID, skillName string) (*models.Skill, error) {
	args := m.Called(ctx, userID, categoryID, skillName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func (m *mockSkillRepo) Update(ctx context.Context, skill *models.Skill) error {
	args := m.Called(ctx, skill)
	return args.Error(0)
}

func (m *mockSkillRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSkillRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *mockSkillRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SkillWithCategory, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.SkillWithCategory), args.Error(1)
}

func (m *mockSkillRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.SkillWithUser, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]models.SkillWithUser), args.Error(1)
}

func (m *mockSkillRepo) Search(ctx context.Context, term string, level *string) ([]models.SkillWithUser, error) {
	args := m.Called(ctx, term, level)
	return args.Get(0).([]models.SkillWithUser), args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil {
		booking.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockBookingRepo) CountConflicts(ctx context.Context, providerID uuid.UUID, from, to time.Time, statuses []valueobject.BookingStatus) (int, error) {
	args := m.Called(ctx, providerID, from, to, statuses)
	return args.Int(0), args.Error(1)
}

func (m *mockBookingRepo) CountBySkill(ctx context.Context, skillID uuid.UUID, statuses []valueobject.BookingStatus) (int, error) {
	args := m.Called(ctx, skillID, statuses)
	return args.Int(0), args.Error(1)
}

func (m *mockBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter models.BookingFilter) ([]models.Booking, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListUpcomingByProvider(ctx context.Context, providerID uuid.UUID, since time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, providerID, since)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockBookingRepo) Complete(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

// recordingPublisher запоминает отправленные события.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	userID uuid.UUID
	event  string
	data   any
}

func (p *recordingPublisher) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID: userID, event: event, data: data})
	return nil
}

func (p *recordingPublisher) recipients(event string) []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ids []uuid.UUID
	for _, e := range p.events {
		if e.event == event {
			ids = append(ids, e.userID)
		}
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}
