package store

import (
	"context"
	"time"

	"vetcare/backend/internal/domain"
)

// VetCalendarTx is the set of operations available while a vet's calendar is
// locked for writing.
type VetCalendarTx interface {
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	ListActiveAppointments(ctx context.Context, vetID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error)
}
