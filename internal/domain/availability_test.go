package domain

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func mondayMorning(t *testing.T) []SlotCandidate {
	t.Helper()
	slots, err := GenerateSlots([]WeeklyAvailabilityWindow{window(time.Monday, "08:00", "12:00")}, monday, 60)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	return slots
}

func availableTimes(slots []AvailableSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.String()+"-"+s.EndTime.String())
	}
	return out
}

func TestResolveAvailableSlots_SubtractsBooked(t *testing.T) {
	booked := []BookedSlot{{
		AppointmentID: uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		DateTime:      time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
	}}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got := ResolveAvailableSlots(mondayMorning(t), booked, now, 0)

	want := []string{"08:00-09:00", "10:00-11:00", "11:00-12:00"}
	if !reflect.DeepEqual(availableTimes(got), want) {
		t.Fatalf("available = %v, want %v", availableTimes(got), want)
	}
}

func TestResolveAvailableSlots_BookedInOtherZoneMatches(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	booked := []BookedSlot{{DateTime: time.Date(2026, 1, 5, 6, 0, 0, 0, loc)}}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got := ResolveAvailableSlots(mondayMorning(t), booked, now, 0)

	want := []string{"08:00-09:00", "10:00-11:00", "11:00-12:00"}
	if !reflect.DeepEqual(availableTimes(got), want) {
		t.Fatalf("available = %v, want %v", availableTimes(got), want)
	}
}

func TestResolveAvailableSlots_ExcludesStartedAndPast(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 30, 0, 0, time.UTC)

	got := ResolveAvailableSlots(mondayMorning(t), nil, now, 0)

	want := []string{"11:00-12:00"}
	if !reflect.DeepEqual(availableTimes(got), want) {
		t.Fatalf("available = %v, want %v", availableTimes(got), want)
	}
}

func TestResolveAvailableSlots_StartEqualToCutoffExcluded(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	got := ResolveAvailableSlots(mondayMorning(t), nil, now, time.Hour)

	want := []string{"11:00-12:00"}
	if !reflect.DeepEqual(availableTimes(got), want) {
		t.Fatalf("available = %v, want %v", availableTimes(got), want)
	}
}

func TestResolveAvailableSlots_NextDayOnlyLeadTime(t *testing.T) {
	now := time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)

	got := ResolveAvailableSlots(mondayMorning(t), nil, now, 24*time.Hour)

	if len(got) != 0 {
		t.Fatalf("available = %v, want none", availableTimes(got))
	}
}

func TestResolveAvailableSlots_NeverReturnsBookedOrEarly(t *testing.T) {
	candidates := mondayMorning(t)
	now := time.Date(2026, 1, 5, 7, 0, 0, 0, time.UTC)
	lead := 90 * time.Minute
	booked := []BookedSlot{
		{DateTime: time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)},
		{DateTime: time.Date(2026, 1, 5, 11, 0, 0, 0, time.UTC)},
	}

	got := ResolveAvailableSlots(candidates, booked, now, lead)

	for _, s := range got {
		for _, b := range booked {
			if s.Start().Equal(b.DateTime) {
				t.Fatalf("booked slot %s returned", s.StartTime)
			}
		}
		if !s.Start().After(now.Add(lead)) {
			t.Fatalf("slot %s starts before cutoff", s.StartTime)
		}
	}
	if want := []string{"09:00-10:00"}; !reflect.DeepEqual(availableTimes(got), want) {
		t.Fatalf("available = %v, want %v", availableTimes(got), want)
	}
}
