package domain

import (
	"sort"
	"time"
)

// DefaultSlotMinutes matches the hourly stepping vets publish their agenda in.
const DefaultSlotMinutes = 60

// SlotCandidate is one fixed-length interval on a concrete date. It is derived
// from a vet's weekly windows per query and never persisted.
type SlotCandidate struct {
	Date      Date
	StartTime TimeOfDay
	EndTime   TimeOfDay
}

// Start is the UTC instant the slot begins.
func (s SlotCandidate) Start() time.Time {
	return s.Date.At(s.StartTime)
}

func (s SlotCandidate) End() time.Time {
	return s.Date.At(s.EndTime)
}

// GenerateSlots expands the windows matching date's weekday into consecutive
// slots of slotMinutes. A window's trailing remainder shorter than a slot is
// dropped. Windows are assumed non-overlapping (see ValidateWindows), so
// ordering them by start time is enough to keep the result sorted.
func GenerateSlots(windows []WeeklyAvailabilityWindow, date Date, slotMinutes int) ([]SlotCandidate, error) {
	if !date.Valid() {
		return nil, &Error{Kind: KindInvalidDate, Msg: "invalid calendar date"}
	}
	if slotMinutes <= 0 {
		return nil, &Error{Kind: KindInvalidRequest, Msg: "slot duration must be positive"}
	}

	weekday := date.Weekday()
	matching := make([]WeeklyAvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		if w.DayOfWeek == weekday {
			matching = append(matching, w)
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].StartTime < matching[j].StartTime
	})

	step := TimeOfDay(slotMinutes)
	out := make([]SlotCandidate, 0, 8)
	for _, w := range matching {
		for start := w.StartTime; start+step <= w.EndTime; start += step {
			out = append(out, SlotCandidate{
				Date:      date,
				StartTime: start,
				EndTime:   start + step,
			})
		}
	}
	return out, nil
}
