package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"vetcare/backend/internal/domain"
	"vetcare/backend/internal/store"
)

const (
	pgUniqueViolation = "23505"

	vetSlotConstraint = "appointments_vet_slot_active"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type calendarTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.InVetTransaction(ctx, appt.VetID, func(ctx context.Context, tx store.VetCalendarTx) error {
		if err := ensureNoOverlap(ctx, tx, appt); err != nil {
			return err
		}
		a, err := tx.CreateAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AppointmentStatus, notes *string) (domain.Appointment, error) {
	var out domain.Appointment
	q := r.db.NewUpdate().
		Model(&out).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", from).
		Returning("*")
	if notes != nil {
		q = q.Set("notes = ?", *notes)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return out, nil
}

func (r *AppointmentRepo) List(ctx context.Context, filter store.AppointmentFilter) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q := r.db.NewSelect().Model(&rows)
	if filter.OwnerID != "" {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.VetID != "" {
		q = q.Where("vet_id = ?", filter.VetID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.WindowStart.IsZero() {
		q = q.Where("start_time >= ?", filter.WindowStart)
	}
	if !filter.WindowEnd.IsZero() {
		q = q.Where("start_time < ?", filter.WindowEnd)
	}
	if err := q.OrderExpr("start_time ASC, id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListBookedSlots(ctx context.Context, vetID string, windowStart, windowEnd time.Time) ([]domain.BookedSlot, error) {
	rows, err := listActive(ctx, r.db, vetID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BookedSlot, 0, len(rows))
	for _, a := range rows {
		out = append(out, a.Booked())
	}
	return out, nil
}

// InVetTransaction runs fn with the vet's calendar locked until commit.
func (r *AppointmentRepo) InVetTransaction(ctx context.Context, vetID string, fn func(ctx context.Context, tx store.VetCalendarTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockVetCalendar(ctx, tx, vetID); err != nil {
			return err
		}
		return fn(ctx, calendarTx{tx: tx})
	})
}

func lockVetCalendar(ctx context.Context, tx bun.Tx, vetID string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", vetID).Exec(ctx)
	return err
}

func listActive(ctx context.Context, db bun.IDB, vetID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := db.NewSelect().
		Model(&rows).
		Where("vet_id = ?", vetID).
		Where("status <> ?", domain.StatusCancelled).
		Where("start_time < ?", windowEnd).
		Where("end_time > ?", windowStart).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r calendarTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:        appt.ID,
		VetID:     appt.VetID,
		PetID:     appt.PetID,
		OwnerID:   appt.OwnerID,
		StartTime: appt.StartTime.UTC(),
		EndTime:   appt.EndTime.UTC(),
		Status:    appt.Status,
		Notes:     appt.Notes,
		CreatedAt: appt.CreatedAt,
		UpdatedAt: appt.UpdatedAt,
	}

	res, err := r.tx.NewInsert().
		Model(&m).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == vetSlotConstraint {
			return domain.Appointment{}, store.ErrConflict
		}
		return domain.Appointment{}, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var existing domain.Appointment
		if err := r.tx.NewSelect().
			Model(&existing).
			Where("id = ?", m.ID).
			Limit(1).
			Scan(ctx); err != nil {
			return domain.Appointment{}, err
		}
		return replayedBooking(existing, m)
	}

	return m, nil
}

// replayedBooking decides what a retried insert with an existing id returns.
// Only a still-scheduled booking for the same slot, pet and owner counts as
// the same request.
func replayedBooking(existing, requested domain.Appointment) (domain.Appointment, error) {
	if !sameBooking(existing, requested) {
		return domain.Appointment{}, store.ErrIdempotencyConflict
	}
	if existing.Status != domain.StatusScheduled {
		return domain.Appointment{}, fmt.Errorf("%w: appointment %s is %s", store.ErrBookingNotActive, existing.ID, existing.Status)
	}
	return existing, nil
}

func sameBooking(a, b domain.Appointment) bool {
	return a.VetID == b.VetID &&
		a.PetID == b.PetID &&
		a.OwnerID == b.OwnerID &&
		a.StartTime.Equal(b.StartTime) &&
		a.EndTime.Equal(b.EndTime)
}

func (r calendarTx) ListActiveAppointments(ctx context.Context, vetID string, windowStart, windowEnd time.Time) ([]domain.Appointment, error) {
	return listActive(ctx, r.tx, vetID, windowStart, windowEnd)
}

// ensureNoOverlap rejects appt when it intersects any active appointment of
// the same vet. A replay of an existing booking with the same id is let
// through so the insert can resolve it idempotently.
func ensureNoOverlap(ctx context.Context, tx store.VetCalendarTx, appt domain.Appointment) error {
	start := appt.StartTime.UTC()
	end := appt.EndTime.UTC()
	existing, err := tx.ListActiveAppointments(ctx, appt.VetID, start, end)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if appt.ID != uuid.Nil && e.ID == appt.ID {
			continue
		}
		if start.Before(e.EndTime.UTC()) && end.After(e.StartTime.UTC()) {
			return store.ErrConflict
		}
	}
	return nil
}
