package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var monday = Date{Year: 2026, Month: time.January, Day: 5}

func window(day time.Weekday, start, end string) WeeklyAvailabilityWindow {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return WeeklyAvailabilityWindow{VetID: "v1", DayOfWeek: day, StartTime: s, EndTime: e}
}

func slotTimes(slots []SlotCandidate) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime.String()+"-"+s.EndTime.String())
	}
	return out
}

func TestGenerateSlots_HourlyMondayWindow(t *testing.T) {
	slots, err := GenerateSlots([]WeeklyAvailabilityWindow{window(time.Monday, "08:00", "12:00")}, monday, 60)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}

	want := []string{"08:00-09:00", "09:00-10:00", "10:00-11:00", "11:00-12:00"}
	if got := slotTimes(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
	for _, s := range slots {
		if s.Date != monday {
			t.Fatalf("slot date = %v, want %v", s.Date, monday)
		}
	}
}

func TestGenerateSlots_DropsRemainder(t *testing.T) {
	// 100 minute window with 45 minute slots leaves 10 unused minutes.
	slots, err := GenerateSlots([]WeeklyAvailabilityWindow{window(time.Monday, "09:00", "10:40")}, monday, 45)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}

	want := []string{"09:00-09:45", "09:45-10:30"}
	if got := slotTimes(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

func TestGenerateSlots_WindowShorterThanSlot(t *testing.T) {
	slots, err := GenerateSlots([]WeeklyAvailabilityWindow{window(time.Monday, "09:00", "09:30")}, monday, 60)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("len(slots) = %d, want 0", len(slots))
	}
}

func TestGenerateSlots_OtherWeekdaysIgnored(t *testing.T) {
	windows := []WeeklyAvailabilityWindow{
		window(time.Tuesday, "08:00", "12:00"),
		window(time.Sunday, "08:00", "12:00"),
	}
	slots, err := GenerateSlots(windows, monday, 60)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Fatalf("slots = %v, want empty non-nil", slots)
	}
}

func TestGenerateSlots_MultipleWindowsOrderedByStart(t *testing.T) {
	windows := []WeeklyAvailabilityWindow{
		window(time.Monday, "14:00", "16:00"),
		window(time.Monday, "08:00", "10:00"),
	}
	slots, err := GenerateSlots(windows, monday, 60)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}

	want := []string{"08:00-09:00", "09:00-10:00", "14:00-15:00", "15:00-16:00"}
	if got := slotTimes(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].StartTime < slots[i-1].EndTime {
			t.Fatalf("slots %d and %d overlap", i-1, i)
		}
	}
}

func TestGenerateSlots_CoversEvenlyDividedWindow(t *testing.T) {
	for _, d := range []int{10, 15, 20, 30, 60, 120} {
		w := window(time.Monday, "08:00", "12:00")
		slots, err := GenerateSlots([]WeeklyAvailabilityWindow{w}, monday, d)
		if err != nil {
			t.Fatalf("duration %d: GenerateSlots error: %v", d, err)
		}
		if want := int(w.EndTime-w.StartTime) / d; len(slots) != want {
			t.Fatalf("duration %d: len(slots) = %d, want %d", d, len(slots), want)
		}
		if slots[0].StartTime != w.StartTime || slots[len(slots)-1].EndTime != w.EndTime {
			t.Fatalf("duration %d: slots do not span the window", d)
		}
		for i := 1; i < len(slots); i++ {
			if slots[i].StartTime != slots[i-1].EndTime {
				t.Fatalf("duration %d: slots %d and %d not contiguous", d, i-1, i)
			}
		}
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	windows := []WeeklyAvailabilityWindow{
		window(time.Monday, "13:00", "15:00"),
		window(time.Monday, "08:00", "09:30"),
	}
	a, err := GenerateSlots(windows, monday, 30)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	b, err := GenerateSlots(windows, monday, 30)
	if err != nil {
		t.Fatalf("GenerateSlots error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("results differ: %v vs %v", a, b)
	}
	if windows[0].StartTime != NewTimeOfDay(13, 0) {
		t.Fatalf("input windows were reordered")
	}
}

func TestGenerateSlots_RejectsMalformedInput(t *testing.T) {
	windows := []WeeklyAvailabilityWindow{window(time.Monday, "08:00", "12:00")}

	_, err := GenerateSlots(windows, Date{Year: 2026, Month: time.February, Day: 30}, 60)
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidDate)
	}

	_, err = GenerateSlots(windows, monday, 0)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidRequest)
	}
}
