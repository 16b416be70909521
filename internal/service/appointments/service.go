package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vetcare/backend/internal/domain"
	redisclient "vetcare/backend/internal/redis"
	"vetcare/backend/internal/store"
)

type Options struct {
	// SlotMinutes is the fixed slot length; zero means domain.DefaultSlotMinutes.
	SlotMinutes int
	// MinLeadTime is how far past now a slot must start to be bookable.
	MinLeadTime time.Duration
	// Locker narrows the booking race before the database constraint does.
	Locker redisclient.Locker
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

type Service struct {
	schedules store.ScheduleRepository
	repo      store.AppointmentRepository
	locker    redisclient.Locker
	slotMin   int
	minLead   time.Duration
	now       func() time.Time
}

func NewService(schedules store.ScheduleRepository, repo store.AppointmentRepository, opts Options) *Service {
	s := &Service{
		schedules: schedules,
		repo:      repo,
		locker:    opts.Locker,
		slotMin:   opts.SlotMinutes,
		minLead:   opts.MinLeadTime,
		now:       opts.Now,
	}
	if s.locker == nil {
		s.locker = redisclient.NoopLocker()
	}
	if s.slotMin <= 0 {
		s.slotMin = domain.DefaultSlotMinutes
	}
	if s.minLead < 0 {
		s.minLead = 0
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func invalidRequest(msg string) error {
	return &domain.Error{Kind: domain.KindInvalidRequest, Msg: msg}
}

func serverUnavailable(op string, err error) error {
	return &domain.Error{Kind: domain.KindServerUnavailable, Msg: op, Err: err}
}

type BookInput struct {
	VetID          string
	PetID          string
	OwnerID        string
	Slot           domain.AvailableSlot
	IdempotencyKey string
}

// BookSlot reserves slot for the pet. The slot is re-validated against the
// vet's current schedule and the clock, and the store's uniqueness
// constraint decides the race between concurrent bookings of the same slot.
func (s *Service) BookSlot(ctx context.Context, in BookInput) (domain.Appointment, error) {
	vetID := strings.TrimSpace(in.VetID)
	petID := strings.TrimSpace(in.PetID)
	ownerID := strings.TrimSpace(in.OwnerID)
	switch {
	case vetID == "":
		return domain.Appointment{}, invalidRequest("vet_id is required")
	case petID == "":
		return domain.Appointment{}, invalidRequest("pet_id is required")
	case ownerID == "":
		return domain.Appointment{}, invalidRequest("owner_id is required")
	}

	slot := in.Slot
	if !slot.Date.Valid() {
		return domain.Appointment{}, invalidRequest("slot date is invalid")
	}
	if slot.EndTime <= slot.StartTime {
		return domain.Appointment{}, invalidRequest("slot end_time must be after start_time")
	}

	start := slot.Start()
	if !start.After(s.now().UTC().Add(s.minLead)) {
		return domain.Appointment{}, invalidRequest("slot is no longer bookable")
	}

	windows, err := s.schedules.GetWeeklyAvailability(ctx, vetID)
	if err != nil {
		return domain.Appointment{}, serverUnavailable("load vet schedule", err)
	}
	offered, err := domain.GenerateSlots(windows, slot.Date, s.slotMin)
	if err != nil {
		return domain.Appointment{}, err
	}
	if !containsSlot(offered, slot.SlotCandidate) {
		return domain.Appointment{}, invalidRequest("slot is not offered by the vet")
	}

	appt := domain.Appointment{
		VetID:     vetID,
		PetID:     petID,
		OwnerID:   ownerID,
		StartTime: start,
		EndTime:   slot.End(),
		Status:    domain.StatusScheduled,
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > 256 {
			return domain.Appointment{}, invalidRequest("idempotency_key too long")
		}
		appt.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("vetcare:book_slot:"+ownerID+":"+key))
	}

	var created domain.Appointment
	err = s.locker.WithSlotLock(ctx, vetID, start, func(ctx context.Context) error {
		a, err := s.repo.Create(ctx, appt)
		if err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, redisclient.ErrLockNotAcquired):
			return domain.Appointment{}, &domain.Error{Kind: domain.KindSlotTaken, Msg: "slot is being booked by another client", Err: err}
		case errors.Is(err, store.ErrConflict):
			return domain.Appointment{}, &domain.Error{Kind: domain.KindSlotTaken, Msg: "slot already booked", Err: err}
		case errors.Is(err, store.ErrIdempotencyConflict):
			return domain.Appointment{}, &domain.Error{Kind: domain.KindInvalidRequest, Msg: "idempotency key already used for a different booking", Err: err}
		case errors.Is(err, store.ErrBookingNotActive):
			return domain.Appointment{}, &domain.Error{Kind: domain.KindInvalidRequest, Msg: "idempotency key belongs to a booking that is no longer scheduled", Err: err}
		}
		return domain.Appointment{}, serverUnavailable("create appointment", err)
	}

	return created, nil
}

func containsSlot(slots []domain.SlotCandidate, want domain.SlotCandidate) bool {
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}

// CancelAppointment cancels a scheduled appointment. Cancelling an already
// cancelled appointment succeeds without changes.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	return s.transition(ctx, id, domain.StatusCancelled, nil)
}

// CompleteAppointment records that the vet attended a scheduled appointment.
func (s *Service) CompleteAppointment(ctx context.Context, id uuid.UUID, notes string) (domain.Appointment, error) {
	notes = strings.TrimSpace(notes)
	return s.transition(ctx, id, domain.StatusCompleted, &notes)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to domain.AppointmentStatus, notes *string) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, invalidRequest("appointment_id is required")
	}

	appt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		if to == domain.StatusCancelled && appt.Status == domain.StatusCancelled {
			return appt, nil
		}
		if !appt.Status.CanTransitionTo(to) {
			return domain.Appointment{}, invalidRequest(fmt.Sprintf("cannot move appointment from %s to %s", appt.Status, to))
		}

		updated, err := s.repo.UpdateStatus(ctx, id, appt.Status, to, notes)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, serverUnavailable("update appointment status", err)
		}

		// Someone else changed the status between our read and write.
		appt, err = s.GetAppointment(ctx, id)
		if err != nil {
			return domain.Appointment{}, err
		}
	}

	return domain.Appointment{}, invalidRequest(fmt.Sprintf("cannot move appointment from %s to %s", appt.Status, to))
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, invalidRequest("appointment_id is required")
	}
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, &domain.Error{Kind: domain.KindNotFound, Msg: "appointment not found", Err: err}
		}
		return domain.Appointment{}, serverUnavailable("load appointment", err)
	}
	return appt, nil
}

type ListInput struct {
	OwnerID     string
	VetID       string
	Status      domain.AppointmentStatus
	WindowStart time.Time
	WindowEnd   time.Time
}

func (s *Service) ListAppointments(ctx context.Context, in ListInput) ([]domain.Appointment, error) {
	filter := store.AppointmentFilter{
		OwnerID: strings.TrimSpace(in.OwnerID),
		VetID:   strings.TrimSpace(in.VetID),
		Status:  in.Status,
	}
	if filter.OwnerID == "" && filter.VetID == "" {
		return nil, invalidRequest("owner_id or vet_id is required")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalidRequest("invalid status")
	}
	if !in.WindowStart.IsZero() {
		filter.WindowStart = in.WindowStart.UTC()
	}
	if !in.WindowEnd.IsZero() {
		filter.WindowEnd = in.WindowEnd.UTC()
	}
	if !filter.WindowStart.IsZero() && !filter.WindowEnd.IsZero() && !filter.WindowEnd.After(filter.WindowStart) {
		return nil, invalidRequest("window_end must be after window_start")
	}

	appts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, serverUnavailable("list appointments", err)
	}
	return appts, nil
}
