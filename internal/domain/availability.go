package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookedSlot is an instant already reserved for a vet.
type BookedSlot struct {
	AppointmentID uuid.UUID
	DateTime      time.Time
}

// AvailableSlot is a SlotCandidate confirmed free and far enough in the future.
type AvailableSlot struct {
	SlotCandidate
}

// ResolveAvailableSlots removes booked candidates and candidates that do not
// start strictly after now+minLead. Input order is preserved.
func ResolveAvailableSlots(candidates []SlotCandidate, booked []BookedSlot, now time.Time, minLead time.Duration) []AvailableSlot {
	taken := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		taken[b.DateTime.UTC().UnixNano()] = struct{}{}
	}

	cutoff := now.UTC().Add(minLead)
	out := make([]AvailableSlot, 0, len(candidates))
	for _, c := range candidates {
		start := c.Start()
		if !start.After(cutoff) {
			continue
		}
		if _, ok := taken[start.UnixNano()]; ok {
			continue
		}
		out = append(out, AvailableSlot{SlotCandidate: c})
	}
	return out
}
