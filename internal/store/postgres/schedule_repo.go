package postgres

import (
	"context"

	"github.com/uptrace/bun"

	"vetcare/backend/internal/domain"
)

type ScheduleRepo struct {
	db *bun.DB
}

func NewScheduleRepo(db *bun.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) GetWeeklyAvailability(ctx context.Context, vetID string) ([]domain.WeeklyAvailabilityWindow, error) {
	var rows []domain.WeeklyAvailabilityWindow
	err := r.db.NewSelect().
		Model(&rows).
		Where("vet_id = ?", vetID).
		OrderExpr("day_of_week ASC, start_minute ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceWeeklyAvailability swaps the vet's windows in one transaction, under
// the same calendar lock bookings take.
func (r *ScheduleRepo) ReplaceWeeklyAvailability(ctx context.Context, vetID string, windows []domain.WeeklyAvailabilityWindow) ([]domain.WeeklyAvailabilityWindow, error) {
	rows := make([]domain.WeeklyAvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		rows = append(rows, domain.WeeklyAvailabilityWindow{
			VetID:     vetID,
			DayOfWeek: w.DayOfWeek,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		})
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockVetCalendar(ctx, tx, vetID); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*domain.WeeklyAvailabilityWindow)(nil)).
			Where("vet_id = ?", vetID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err = tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleRepo) ListVetIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.NewSelect().
		Model((*domain.WeeklyAvailabilityWindow)(nil)).
		ColumnExpr("DISTINCT vet_id").
		OrderExpr("vet_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
