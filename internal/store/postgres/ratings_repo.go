package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"vetcare/backend/internal/domain"
	"vetcare/backend/internal/store"
)

type RatingRepo struct {
	db *bun.DB
}

func NewRatingRepo(db *bun.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

func (r *RatingRepo) Create(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	m := rating
	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "ratings_appointment_unique" {
			return domain.Rating{}, store.ErrAlreadyRated
		}
		return domain.Rating{}, err
	}
	return m, nil
}

func (r *RatingRepo) ListByVet(ctx context.Context, vetID string) ([]domain.Rating, error) {
	var rows []domain.Rating
	err := r.db.NewSelect().
		Model(&rows).
		Where("vet_id = ?", vetID).
		OrderExpr("created_at DESC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RatingRepo) ListAll(ctx context.Context) ([]domain.Rating, error) {
	var rows []domain.Rating
	if err := r.db.NewSelect().Model(&rows).OrderExpr("vet_id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}
