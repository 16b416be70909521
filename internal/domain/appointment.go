package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s. Only scheduled
// appointments move; completed and cancelled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusScheduled:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID        uuid.UUID         `bun:"id,pk,type:uuid"`
	VetID     string            `bun:"vet_id,notnull"`
	PetID     string            `bun:"pet_id,notnull"`
	OwnerID   string            `bun:"owner_id,notnull"`
	StartTime time.Time         `bun:"start_time,notnull"`
	EndTime   time.Time         `bun:"end_time,notnull"`
	Status    AppointmentStatus `bun:"status,notnull"`
	Notes     string            `bun:"notes"`
	CreatedAt time.Time         `bun:"created_at,notnull"`
	UpdatedAt time.Time         `bun:"updated_at,notnull"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.Status == "" {
			a.Status = StatusScheduled
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// Booked returns the slot this appointment holds, for subtraction from a
// vet's candidates.
func (a Appointment) Booked() BookedSlot {
	return BookedSlot{AppointmentID: a.ID, DateTime: a.StartTime.UTC()}
}
