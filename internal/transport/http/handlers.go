package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vetcare/backend/internal/domain"
	"vetcare/backend/internal/service/appointments"
	"vetcare/backend/internal/service/ratings"
)

type AppointmentsService interface {
	ResolveAvailability(ctx context.Context, vetID string, date domain.Date) ([]domain.AvailableSlot, error)
	BookSlot(ctx context.Context, in appointments.BookInput) (domain.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	CompleteAppointment(ctx context.Context, id uuid.UUID, notes string) (domain.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListAppointments(ctx context.Context, in appointments.ListInput) ([]domain.Appointment, error)
	GetWeeklyAvailability(ctx context.Context, vetID string) ([]domain.WeeklyAvailabilityWindow, error)
	SetWeeklyAvailability(ctx context.Context, vetID string, in []appointments.WindowInput) ([]domain.WeeklyAvailabilityWindow, error)
}

type RatingsService interface {
	Submit(ctx context.Context, in ratings.SubmitInput) (domain.Rating, error)
	VetRatings(ctx context.Context, vetID string) (ratings.VetSummary, error)
	Rank(ctx context.Context) ([]domain.VetRating, error)
}

const maxBodyBytes = 1 << 20

type handlers struct {
	appointments AppointmentsService
	ratings      RatingsService
	log          *slog.Logger
}

func (h *handlers) listSlots(w http.ResponseWriter, r *http.Request) {
	vetID := chi.URLParam(r, "vetID")
	date, err := domain.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidDate), "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.appointments.ResolveAvailability(r.Context(), vetID, date)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getAvailability(w http.ResponseWriter, r *http.Request) {
	vetID := chi.URLParam(r, "vetID")
	windows, err := h.appointments.GetWeeklyAvailability(r.Context(), vetID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAvailabilityPayload(vetID, windows))
}

func (h *handlers) setAvailability(w http.ResponseWriter, r *http.Request) {
	vetID := chi.URLParam(r, "vetID")
	var req AvailabilityPayload
	if !decodeJSON(w, r, &req) {
		return
	}

	in := make([]appointments.WindowInput, 0, len(req.Windows))
	for _, win := range req.Windows {
		in = append(in, appointments.WindowInput{
			DayOfWeek: win.DayOfWeek,
			StartTime: win.StartTime,
			EndTime:   win.EndTime,
		})
	}

	windows, err := h.appointments.SetWeeklyAvailability(r.Context(), vetID, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.log.Info("weekly availability replaced", slog.String("vet_id", vetID), slog.Int("windows", len(windows)))
	writeJSON(w, http.StatusOK, toAvailabilityPayload(vetID, windows))
}

func (h *handlers) bookSlot(w http.ResponseWriter, r *http.Request) {
	var req BookSlotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidDate), "date must be YYYY-MM-DD")
		return
	}
	start, err := domain.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidRequest), err.Error())
		return
	}
	end, err := domain.ParseTimeOfDay(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidRequest), err.Error())
		return
	}

	appt, err := h.appointments.BookSlot(r.Context(), appointments.BookInput{
		VetID:   req.VetID,
		PetID:   req.PetID,
		OwnerID: req.OwnerID,
		Slot: domain.AvailableSlot{SlotCandidate: domain.SlotCandidate{
			Date:      date,
			StartTime: start,
			EndTime:   end,
		}},
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.log.Info("appointment booked",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("vet_id", appt.VetID),
		slog.Time("start_time", appt.StartTime),
		slog.String("request_id", GetRequestID(r.Context())),
	)
	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *handlers) listAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := appointments.ListInput{
		OwnerID: q.Get("owner_id"),
		VetID:   q.Get("vet_id"),
		Status:  domain.AppointmentStatus(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
	}

	var err error
	if in.WindowStart, err = parseInstant(q.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidRequest), "from must be RFC3339 or YYYY-MM-DD")
		return
	}
	if in.WindowEnd, err = parseInstant(q.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidRequest), "to must be RFC3339 or YYYY-MM-DD")
		return
	}

	appts, err := h.appointments.ListAppointments(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// parseInstant accepts RFC3339 or a bare date meaning midnight UTC. Empty
// input yields the zero time, which leaves that bound open.
func parseInstant(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return d.At(0), nil
}

func (h *handlers) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentIDParam(w, r)
	if !ok {
		return
	}
	appt, err := h.appointments.GetAppointment(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *handlers) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentIDParam(w, r)
	if !ok {
		return
	}
	appt, err := h.appointments.CancelAppointment(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.log.Info("appointment cancelled", slog.String("appointment_id", id.String()))
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *handlers) completeAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentIDParam(w, r)
	if !ok {
		return
	}
	var req CompleteAppointmentRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	appt, err := h.appointments.CompleteAppointment(r.Context(), id, req.Notes)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.log.Info("appointment completed", slog.String("appointment_id", id.String()))
	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *handlers) submitRating(w http.ResponseWriter, r *http.Request) {
	var req SubmitRatingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	apptID, err := uuid.Parse(strings.TrimSpace(req.AppointmentID))
	if err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidRequest), "appointment_id must be a valid UUID")
		return
	}

	rating, err := h.ratings.Submit(r.Context(), ratings.SubmitInput{
		AppointmentID: apptID,
		OwnerID:       req.OwnerID,
		Score:         req.Score,
		Comment:       req.Comment,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRatingResponse(rating))
}

func (h *handlers) vetRatings(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ratings.VetRatings(r.Context(), chi.URLParam(r, "vetID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVetRatingsResponse(summary))
}

func (h *handlers) rankVets(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.ratings.Rank(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	out := make([]VetRatingResponse, 0, len(ranked))
	for _, v := range ranked {
		out = append(out, toVetRatingResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func appointmentIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, string(domain.KindInvalidRequest), "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return false
	}
	return true
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidDate, domain.KindInvalidRequest:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindSlotTaken:
		return http.StatusConflict
	case domain.KindScheduleUnavailable, domain.KindServerUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	code := statusFor(kind)

	attrs := []any{slog.Any("err", err), slog.String("request_id", GetRequestID(r.Context()))}
	if code >= http.StatusInternalServerError {
		h.log.Error("request failed", attrs...)
	} else {
		h.log.Info("request rejected", attrs...)
	}

	var dErr *domain.Error
	switch {
	case code == http.StatusServiceUnavailable:
		writeError(w, code, string(kind), "service temporarily unavailable, try again")
	case code == http.StatusInternalServerError:
		writeError(w, code, "internal_error", "internal error")
	case errors.As(err, &dErr):
		writeError(w, code, string(kind), dErr.Msg)
	default:
		writeError(w, code, string(kind), err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
