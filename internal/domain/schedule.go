package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time without a date, in minutes after midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts "HH:MM" (24h clock). "24:00" is allowed as an end of day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 || !allDigits(h) || !allDigits(m) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	t := NewTimeOfDay(hour, minute)
	if hour < 0 || t > minutesPerDay {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return t, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Date is a calendar date with no time zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &Error{Kind: KindInvalidDate, Msg: fmt.Sprintf("invalid date %q", s)}
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Valid reports whether d names a real calendar day.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return DateOf(d.midnight()) == d
}

func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() time.Weekday {
	return d.midnight().Weekday()
}

// At returns the UTC instant of t on d.
func (d Date) At(t TimeOfDay) time.Time {
	return d.midnight().Add(time.Duration(t) * time.Minute)
}

func (d Date) Before(o Date) bool {
	return d.midnight().Before(o.midnight())
}

func (d Date) String() string {
	return d.midnight().Format(dateLayout)
}

// WeeklyAvailabilityWindow is one recurring open interval of a vet's week.
type WeeklyAvailabilityWindow struct {
	bun.BaseModel `bun:"table:availability_windows"`

	ID        uuid.UUID    `bun:"id,pk,type:uuid"`
	VetID     string       `bun:"vet_id,notnull"`
	DayOfWeek time.Weekday `bun:"day_of_week,notnull"`
	StartTime TimeOfDay    `bun:"start_minute,notnull"`
	EndTime   TimeOfDay    `bun:"end_minute,notnull"`
	CreatedAt time.Time    `bun:"created_at,notnull"`
	UpdatedAt time.Time    `bun:"updated_at,notnull"`
}

func (w *WeeklyAvailabilityWindow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if w.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			w.ID = id
		}
		if w.CreatedAt.IsZero() {
			w.CreatedAt = now
		}
		if w.UpdatedAt.IsZero() {
			w.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		w.UpdatedAt = now
	}
	return nil
}

// ValidateWindows checks a vet's full weekly schedule before it is stored.
// The slot generator assumes every rule checked here already holds.
func ValidateWindows(windows []WeeklyAvailabilityWindow) error {
	byDay := make(map[time.Weekday][]WeeklyAvailabilityWindow, 7)
	for _, w := range windows {
		if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
			return errors.New("day_of_week must be between 0 and 6")
		}
		if w.StartTime < 0 || w.EndTime > minutesPerDay {
			return errors.New("window must lie within a single day")
		}
		if w.StartTime >= w.EndTime {
			return errors.New("window end_time must be after start_time")
		}
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
	}

	for day, ws := range byDay {
		sort.Slice(ws, func(i, j int) bool { return ws[i].StartTime < ws[j].StartTime })
		for i := 1; i < len(ws); i++ {
			if ws[i].StartTime < ws[i-1].EndTime {
				return fmt.Errorf("windows overlap on %s: %s-%s and %s-%s",
					day, ws[i-1].StartTime, ws[i-1].EndTime, ws[i].StartTime, ws[i].EndTime)
			}
		}
	}
	return nil
}
