package ratings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"vetcare/backend/internal/domain"
	"vetcare/backend/internal/store"
)

const maxCommentLength = 1000

type Service struct {
	ratings      store.RatingRepository
	appointments store.AppointmentRepository
	schedules    store.ScheduleRepository
}

func NewService(ratings store.RatingRepository, appointments store.AppointmentRepository, schedules store.ScheduleRepository) *Service {
	return &Service{ratings: ratings, appointments: appointments, schedules: schedules}
}

type SubmitInput struct {
	AppointmentID uuid.UUID
	OwnerID       string
	Score         int
	Comment       string
}

// Submit stores the owner's rating of a completed appointment. Duplicate
// submissions are rejected by the store's one-rating-per-appointment rule.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (domain.Rating, error) {
	ownerID := strings.TrimSpace(in.OwnerID)
	comment := strings.TrimSpace(in.Comment)
	switch {
	case in.AppointmentID == uuid.Nil:
		return domain.Rating{}, invalidRequest("appointment_id is required", nil)
	case ownerID == "":
		return domain.Rating{}, invalidRequest("owner_id is required", nil)
	case in.Score < domain.MinScore || in.Score > domain.MaxScore:
		return domain.Rating{}, invalidRequest(fmt.Sprintf("score must be between %d and %d", domain.MinScore, domain.MaxScore), nil)
	case len(comment) > maxCommentLength:
		return domain.Rating{}, invalidRequest("comment too long", nil)
	}

	appt, err := s.appointments.Get(ctx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Rating{}, &domain.Error{Kind: domain.KindNotFound, Msg: "appointment not found", Err: err}
		}
		return domain.Rating{}, &domain.Error{Kind: domain.KindServerUnavailable, Msg: "load appointment", Err: err}
	}
	if appt.OwnerID != ownerID {
		return domain.Rating{}, invalidRequest("appointment belongs to another owner", nil)
	}
	if appt.Status != domain.StatusCompleted {
		return domain.Rating{}, invalidRequest("only completed appointments can be rated", nil)
	}

	r, err := s.ratings.Create(ctx, domain.Rating{
		AppointmentID: appt.ID,
		VetID:         appt.VetID,
		OwnerID:       ownerID,
		Score:         in.Score,
		Comment:       comment,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyRated) {
			return domain.Rating{}, invalidRequest("appointment already rated", err)
		}
		return domain.Rating{}, &domain.Error{Kind: domain.KindServerUnavailable, Msg: "store rating", Err: err}
	}
	return r, nil
}

type VetSummary struct {
	domain.VetRating
	Ratings []domain.Rating
}

func (s *Service) VetRatings(ctx context.Context, vetID string) (VetSummary, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return VetSummary{}, invalidRequest("vet_id is required", nil)
	}
	rs, err := s.ratings.ListByVet(ctx, vetID)
	if err != nil {
		return VetSummary{}, &domain.Error{Kind: domain.KindServerUnavailable, Msg: "list ratings", Err: err}
	}
	avg, _ := domain.AverageScore(rs)
	return VetSummary{
		VetRating: domain.VetRating{VetID: vetID, Average: avg, Count: len(rs)},
		Ratings:   rs,
	}, nil
}

// Rank orders every vet that publishes a schedule or has been rated.
func (s *Service) Rank(ctx context.Context) ([]domain.VetRating, error) {
	vetIDs, err := s.schedules.ListVetIDs(ctx)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindServerUnavailable, Msg: "list vets", Err: err}
	}
	rs, err := s.ratings.ListAll(ctx)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindServerUnavailable, Msg: "list ratings", Err: err}
	}
	return domain.RankVets(vetIDs, rs), nil
}

func invalidRequest(msg string, cause error) error {
	return &domain.Error{Kind: domain.KindInvalidRequest, Msg: msg, Err: cause}
}
