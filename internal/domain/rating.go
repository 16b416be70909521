package domain

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Rating is an owner's score for one completed appointment.
type Rating struct {
	bun.BaseModel `bun:"table:ratings"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	AppointmentID uuid.UUID `bun:"appointment_id,notnull,type:uuid"`
	VetID         string    `bun:"vet_id,notnull"`
	OwnerID       string    `bun:"owner_id,notnull"`
	Score         int       `bun:"score,notnull"`
	Comment       string    `bun:"comment"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
}

func (r *Rating) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if r.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		r.ID = id
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}

// VetRating is the aggregate shown next to a vet. Average is meaningless
// when Count is zero.
type VetRating struct {
	VetID   string
	Average float64
	Count   int
}

func (v VetRating) Rated() bool {
	return v.Count > 0
}

// AverageScore returns the arithmetic mean of the scores, and false when
// there are none.
func AverageScore(ratings []Rating) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(ratings)), true
}

// RankVets aggregates ratings per vet and orders the result: rated vets by
// average descending, then unrated vets, ties broken by vet id ascending.
// Vets that appear only in ratings are included too.
func RankVets(vetIDs []string, ratings []Rating) []VetRating {
	byVet := make(map[string][]Rating, len(vetIDs))
	for _, id := range vetIDs {
		byVet[id] = nil
	}
	for _, r := range ratings {
		byVet[r.VetID] = append(byVet[r.VetID], r)
	}

	out := make([]VetRating, 0, len(byVet))
	for id, rs := range byVet {
		avg, _ := AverageScore(rs)
		out = append(out, VetRating{VetID: id, Average: avg, Count: len(rs)})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Rated() != b.Rated() {
			return a.Rated()
		}
		if a.Rated() && a.Average != b.Average {
			return a.Average > b.Average
		}
		return a.VetID < b.VetID
	})
	return out
}
