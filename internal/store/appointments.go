package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vetcare/backend/internal/domain"
)

// AppointmentFilter selects appointments by owner or vet whose start falls in
// [WindowStart, WindowEnd). Zero window bounds are open.
type AppointmentFilter struct {
	OwnerID     string
	VetID       string
	Status      domain.AppointmentStatus
	WindowStart time.Time
	WindowEnd   time.Time
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	// UpdateStatus moves id from one status to another and fails with
	// ErrNotFound when the row is missing or no longer in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AppointmentStatus, notes *string) (domain.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)

	// ListBookedSlots returns non-cancelled appointments of vetID starting in
	// [windowStart, windowEnd).
	ListBookedSlots(ctx context.Context, vetID string, windowStart, windowEnd time.Time) ([]domain.BookedSlot, error)
}

type ScheduleRepository interface {
	GetWeeklyAvailability(ctx context.Context, vetID string) ([]domain.WeeklyAvailabilityWindow, error)
	ReplaceWeeklyAvailability(ctx context.Context, vetID string, windows []domain.WeeklyAvailabilityWindow) ([]domain.WeeklyAvailabilityWindow, error)
	ListVetIDs(ctx context.Context) ([]string, error)
}

type RatingRepository interface {
	Create(ctx context.Context, r domain.Rating) (domain.Rating, error)
	ListByVet(ctx context.Context, vetID string) ([]domain.Rating, error)
	ListAll(ctx context.Context) ([]domain.Rating, error)
}
