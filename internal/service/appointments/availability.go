package appointments

import (
	"context"
	"sort"
	"strings"
	"time"

	"vetcare/backend/internal/domain"
)

// ResolveAvailability lists the slots of vetID on date that can still be
// booked. Both the schedule and the booked slots are read fresh on every call.
func (s *Service) ResolveAvailability(ctx context.Context, vetID string, date domain.Date) ([]domain.AvailableSlot, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return nil, invalidRequest("vet_id is required")
	}
	if !date.Valid() {
		return nil, &domain.Error{Kind: domain.KindInvalidDate, Msg: "invalid calendar date"}
	}
	now := s.now().UTC()
	if date.Before(domain.DateOf(now)) {
		return nil, &domain.Error{Kind: domain.KindInvalidDate, Msg: "date is in the past"}
	}

	windows, err := s.schedules.GetWeeklyAvailability(ctx, vetID)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindScheduleUnavailable, Msg: "load vet schedule", Err: err}
	}

	candidates, err := domain.GenerateSlots(windows, date, s.slotMin)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []domain.AvailableSlot{}, nil
	}

	dayStart := date.At(0)
	booked, err := s.repo.ListBookedSlots(ctx, vetID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindScheduleUnavailable, Msg: "load booked slots", Err: err}
	}

	return domain.ResolveAvailableSlots(candidates, booked, now, s.minLead), nil
}

func (s *Service) GetWeeklyAvailability(ctx context.Context, vetID string) ([]domain.WeeklyAvailabilityWindow, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return nil, invalidRequest("vet_id is required")
	}
	windows, err := s.schedules.GetWeeklyAvailability(ctx, vetID)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindScheduleUnavailable, Msg: "load vet schedule", Err: err}
	}
	return windows, nil
}

type WindowInput struct {
	DayOfWeek int
	StartTime string
	EndTime   string
}

// SetWeeklyAvailability replaces the whole weekly schedule of vetID. Existing
// appointments are left untouched.
func (s *Service) SetWeeklyAvailability(ctx context.Context, vetID string, in []WindowInput) ([]domain.WeeklyAvailabilityWindow, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return nil, invalidRequest("vet_id is required")
	}

	windows := make([]domain.WeeklyAvailabilityWindow, 0, len(in))
	for _, w := range in {
		start, err := domain.ParseTimeOfDay(w.StartTime)
		if err != nil {
			return nil, invalidRequest(err.Error())
		}
		end, err := domain.ParseTimeOfDay(w.EndTime)
		if err != nil {
			return nil, invalidRequest(err.Error())
		}
		windows = append(windows, domain.WeeklyAvailabilityWindow{
			VetID:     vetID,
			DayOfWeek: time.Weekday(w.DayOfWeek),
			StartTime: start,
			EndTime:   end,
		})
	}
	if err := domain.ValidateWindows(windows); err != nil {
		return nil, invalidRequest(err.Error())
	}

	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].DayOfWeek != windows[j].DayOfWeek {
			return windows[i].DayOfWeek < windows[j].DayOfWeek
		}
		return windows[i].StartTime < windows[j].StartTime
	})

	out, err := s.schedules.ReplaceWeeklyAvailability(ctx, vetID, windows)
	if err != nil {
		return nil, serverUnavailable("store vet schedule", err)
	}
	return out, nil
}
