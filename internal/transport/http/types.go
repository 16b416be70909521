package httpapi

import (
	"time"

	"github.com/google/uuid"

	"vetcare/backend/internal/domain"
	"vetcare/backend/internal/service/ratings"
)

type SlotResponse struct {
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

type BookSlotRequest struct {
	VetID     string `json:"vet_id"`
	PetID     string `json:"pet_id"`
	OwnerID   string `json:"owner_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CompleteAppointmentRequest struct {
	Notes string `json:"notes"`
}

type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	VetID     string    `json:"vet_id"`
	PetID     string    `json:"pet_id"`
	OwnerID   string    `json:"owner_id"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WindowPayload struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type AvailabilityPayload struct {
	VetID   string          `json:"vet_id,omitempty"`
	Windows []WindowPayload `json:"windows"`
}

type SubmitRatingRequest struct {
	AppointmentID string `json:"appointment_id"`
	OwnerID       string `json:"owner_id"`
	Score         int    `json:"score"`
	Comment       string `json:"comment"`
}

type RatingResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	VetID         string    `json:"vet_id"`
	OwnerID       string    `json:"owner_id"`
	Score         int       `json:"score"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// VetRatingResponse leaves Average null for vets nobody has rated yet.
type VetRatingResponse struct {
	VetID   string   `json:"vet_id"`
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

type VetRatingsResponse struct {
	VetRatingResponse
	Ratings []RatingResponse `json:"ratings"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toSlotResponse(s domain.AvailableSlot) SlotResponse {
	return SlotResponse{
		Date:      s.Date.String(),
		StartTime: s.StartTime.String(),
		EndTime:   s.EndTime.String(),
		StartsAt:  s.Start(),
		EndsAt:    s.End(),
	}
}

func toAppointmentResponse(a domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		VetID:     a.VetID,
		PetID:     a.PetID,
		OwnerID:   a.OwnerID,
		Status:    string(a.Status),
		Notes:     a.Notes,
		StartTime: a.StartTime.UTC(),
		EndTime:   a.EndTime.UTC(),
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
}

func toAvailabilityPayload(vetID string, windows []domain.WeeklyAvailabilityWindow) AvailabilityPayload {
	out := AvailabilityPayload{VetID: vetID, Windows: make([]WindowPayload, 0, len(windows))}
	for _, w := range windows {
		out.Windows = append(out.Windows, WindowPayload{
			DayOfWeek: int(w.DayOfWeek),
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
		})
	}
	return out
}

func toRatingResponse(r domain.Rating) RatingResponse {
	return RatingResponse{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		VetID:         r.VetID,
		OwnerID:       r.OwnerID,
		Score:         r.Score,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

func toVetRatingResponse(v domain.VetRating) VetRatingResponse {
	out := VetRatingResponse{VetID: v.VetID, Count: v.Count}
	if v.Rated() {
		avg := v.Average
		out.Average = &avg
	}
	return out
}

func toVetRatingsResponse(s ratings.VetSummary) VetRatingsResponse {
	out := VetRatingsResponse{
		VetRatingResponse: toVetRatingResponse(s.VetRating),
		Ratings:           make([]RatingResponse, 0, len(s.Ratings)),
	}
	for _, r := range s.Ratings {
		out.Ratings = append(out.Ratings, toRatingResponse(r))
	}
	return out
}
