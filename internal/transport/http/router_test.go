package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"vetcare/backend/internal/domain"
	"vetcare/backend/internal/service/appointments"
	"vetcare/backend/internal/service/ratings"
)

type fakeAppointments struct {
	resolveFn   func(ctx context.Context, vetID string, date domain.Date) ([]domain.AvailableSlot, error)
	bookFn      func(ctx context.Context, in appointments.BookInput) (domain.Appointment, error)
	cancelFn    func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	completeFn  func(ctx context.Context, id uuid.UUID, notes string) (domain.Appointment, error)
	getFn       func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	listFn      func(ctx context.Context, in appointments.ListInput) ([]domain.Appointment, error)
	getWeeklyFn func(ctx context.Context, vetID string) ([]domain.WeeklyAvailabilityWindow, error)
	setWeeklyFn func(ctx context.Context, vetID string, in []appointments.WindowInput) ([]domain.WeeklyAvailabilityWindow, error)
}

func (f *fakeAppointments) ResolveAvailability(ctx context.Context, vetID string, date domain.Date) ([]domain.AvailableSlot, error) {
	if f.resolveFn == nil {
		panic("ResolveAvailability not configured")
	}
	return f.resolveFn(ctx, vetID, date)
}

func (f *fakeAppointments) BookSlot(ctx context.Context, in appointments.BookInput) (domain.Appointment, error) {
	if f.bookFn == nil {
		panic("BookSlot not configured")
	}
	return f.bookFn(ctx, in)
}

func (f *fakeAppointments) CancelAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.cancelFn == nil {
		panic("CancelAppointment not configured")
	}
	return f.cancelFn(ctx, id)
}

func (f *fakeAppointments) CompleteAppointment(ctx context.Context, id uuid.UUID, notes string) (domain.Appointment, error) {
	if f.completeFn == nil {
		panic("CompleteAppointment not configured")
	}
	return f.completeFn(ctx, id, notes)
}

func (f *fakeAppointments) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.getFn == nil {
		panic("GetAppointment not configured")
	}
	return f.getFn(ctx, id)
}

func (f *fakeAppointments) ListAppointments(ctx context.Context, in appointments.ListInput) ([]domain.Appointment, error) {
	if f.listFn == nil {
		panic("ListAppointments not configured")
	}
	return f.listFn(ctx, in)
}

func (f *fakeAppointments) GetWeeklyAvailability(ctx context.Context, vetID string) ([]domain.WeeklyAvailabilityWindow, error) {
	if f.getWeeklyFn == nil {
		panic("GetWeeklyAvailability not configured")
	}
	return f.getWeeklyFn(ctx, vetID)
}

func (f *fakeAppointments) SetWeeklyAvailability(ctx context.Context, vetID string, in []appointments.WindowInput) ([]domain.WeeklyAvailabilityWindow, error) {
	if f.setWeeklyFn == nil {
		panic("SetWeeklyAvailability not configured")
	}
	return f.setWeeklyFn(ctx, vetID, in)
}

type fakeRatings struct {
	submitFn     func(ctx context.Context, in ratings.SubmitInput) (domain.Rating, error)
	vetRatingsFn func(ctx context.Context, vetID string) (ratings.VetSummary, error)
	rankFn       func(ctx context.Context) ([]domain.VetRating, error)
}

func (f *fakeRatings) Submit(ctx context.Context, in ratings.SubmitInput) (domain.Rating, error) {
	if f.submitFn == nil {
		panic("Submit not configured")
	}
	return f.submitFn(ctx, in)
}

func (f *fakeRatings) VetRatings(ctx context.Context, vetID string) (ratings.VetSummary, error) {
	if f.vetRatingsFn == nil {
		panic("VetRatings not configured")
	}
	return f.vetRatingsFn(ctx, vetID)
}

func (f *fakeRatings) Rank(ctx context.Context) ([]domain.VetRating, error) {
	if f.rankFn == nil {
		panic("Rank not configured")
	}
	return f.rankFn(ctx)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var monday = domain.Date{Year: 2026, Month: time.January, Day: 5}

func newTestRouter(appts *fakeAppointments, rs *fakeRatings) http.Handler {
	if appts == nil {
		appts = &fakeAppointments{}
	}
	if rs == nil {
		rs = &fakeRatings{}
	}
	return NewRouter(RouterConfig{
		Appointments: appts,
		Ratings:      rs,
		Database:     pingFunc(func(ctx context.Context) error { return nil }),
		Log:          slog.New(slog.DiscardHandler),
	})
}

func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestListSlots(t *testing.T) {
	h := newTestRouter(&fakeAppointments{
		resolveFn: func(ctx context.Context, vetID string, date domain.Date) ([]domain.AvailableSlot, error) {
			if vetID != "v1" || date != monday {
				t.Errorf("resolve(%q, %v)", vetID, date)
			}
			return []domain.AvailableSlot{
				{SlotCandidate: domain.SlotCandidate{Date: date, StartTime: domain.NewTimeOfDay(8, 0), EndTime: domain.NewTimeOfDay(9, 0)}},
			}, nil
		},
	}, nil)

	rec := do(t, h, http.MethodGet, "/vets/v1/slots?date=2026-01-05", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	slots := decode[[]SlotResponse](t, rec)
	if len(slots) != 1 || slots[0].StartTime != "08:00" || slots[0].EndTime != "09:00" || slots[0].Date != "2026-01-05" {
		t.Fatalf("slots = %+v", slots)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID")
	}
}

func TestListSlots_EmptyIsArray(t *testing.T) {
	h := newTestRouter(&fakeAppointments{
		resolveFn: func(ctx context.Context, vetID string, date domain.Date) ([]domain.AvailableSlot, error) {
			return []domain.AvailableSlot{}, nil
		},
	}, nil)

	rec := do(t, h, http.MethodGet, "/vets/v1/slots?date=2026-01-10", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
}

func TestListSlots_InvalidDate(t *testing.T) {
	h := newTestRouter(nil, nil)

	rec := do(t, h, http.MethodGet, "/vets/v1/slots?date=2026-02-30", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[ErrorResponse](t, rec); got.Error != "invalid_date" {
		t.Fatalf("error = %+v", got)
	}
}

func TestErrorKindsMapToStatus(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want int
	}{
		{domain.KindInvalidDate, http.StatusBadRequest},
		{domain.KindInvalidRequest, http.StatusBadRequest},
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindSlotTaken, http.StatusConflict},
		{domain.KindScheduleUnavailable, http.StatusServiceUnavailable},
		{domain.KindServerUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			h := newTestRouter(&fakeAppointments{
				resolveFn: func(ctx context.Context, vetID string, date domain.Date) ([]domain.AvailableSlot, error) {
					return nil, domain.NewError(tt.kind, "boom", errors.New("secret cause"))
				},
			}, nil)

			rec := do(t, h, http.MethodGet, "/vets/v1/slots?date=2026-01-05", "")
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			body := decode[ErrorResponse](t, rec)
			if body.Error != string(tt.kind) {
				t.Fatalf("error = %q, want %q", body.Error, tt.kind)
			}
			if strings.Contains(body.Details, "secret cause") {
				t.Fatalf("cause leaked: %q", body.Details)
			}
		})
	}
}

func TestBookSlot(t *testing.T) {
	apptID := uuid.MustParse("00000000-0000-0000-0000-000000000301")
	var got appointments.BookInput
	h := newTestRouter(&fakeAppointments{
		bookFn: func(ctx context.Context, in appointments.BookInput) (domain.Appointment, error) {
			got = in
			return domain.Appointment{
				ID:        apptID,
				VetID:     in.VetID,
				PetID:     in.PetID,
				OwnerID:   in.OwnerID,
				StartTime: in.Slot.Start(),
				EndTime:   in.Slot.End(),
				Status:    domain.StatusScheduled,
			}, nil
		},
	}, nil)

	body := `{"vet_id":"v1","pet_id":"p1","owner_id":"o1","date":"2026-01-05","start_time":"09:00","end_time":"10:00"}`
	rec := do(t, h, http.MethodPost, "/appointments", body, "Idempotency-Key", "k-1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got.IdempotencyKey != "k-1" || got.Slot.StartTime != domain.NewTimeOfDay(9, 0) || got.Slot.Date != monday {
		t.Fatalf("book input = %+v", got)
	}
	resp := decode[AppointmentResponse](t, rec)
	if resp.ID != apptID || resp.Status != "SCHEDULED" || !resp.StartTime.Equal(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("response = %+v", resp)
	}
}

func TestBookSlot_SlotTakenIsConflict(t *testing.T) {
	h := newTestRouter(&fakeAppointments{
		bookFn: func(ctx context.Context, in appointments.BookInput) (domain.Appointment, error) {
			return domain.Appointment{}, domain.NewError(domain.KindSlotTaken, "slot already booked", nil)
		},
	}, nil)

	body := `{"vet_id":"v1","pet_id":"p1","owner_id":"o1","date":"2026-01-05","start_time":"09:00","end_time":"10:00"}`
	rec := do(t, h, http.MethodPost, "/appointments", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode[ErrorResponse](t, rec); got.Error != "slot_taken" || got.Details != "slot already booked" {
		t.Fatalf("error = %+v", got)
	}
}

func TestBookSlot_RejectsMalformedBody(t *testing.T) {
	h := newTestRouter(nil, nil)

	for _, body := range []string{
		`{"vet_id":`,
		`{"vet_id":"v1","unknown":1}`,
		`{"vet_id":"v1","pet_id":"p1","owner_id":"o1","date":"05/01/2026","start_time":"09:00","end_time":"10:00"}`,
		`{"vet_id":"v1","pet_id":"p1","owner_id":"o1","date":"2026-01-05","start_time":"9am","end_time":"10:00"}`,
	} {
		rec := do(t, h, http.MethodPost, "/appointments", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d", body, rec.Code)
		}
	}
}

func TestListAppointments_ParsesWindow(t *testing.T) {
	var got appointments.ListInput
	h := newTestRouter(&fakeAppointments{
		listFn: func(ctx context.Context, in appointments.ListInput) ([]domain.Appointment, error) {
			got = in
			return nil, nil
		},
	}, nil)

	rec := do(t, h, http.MethodGet, "/appointments?vet_id=v1&status=cancelled&from=2026-01-05&to=2026-01-06T12:00:00Z", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if got.VetID != "v1" || got.Status != domain.StatusCancelled {
		t.Fatalf("input = %+v", got)
	}
	if !got.WindowStart.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) || !got.WindowEnd.Equal(time.Date(2026, 1, 6, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("window = [%v, %v)", got.WindowStart, got.WindowEnd)
	}
}

func TestAppointmentLifecycleRoutes(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000302")
	var notes string
	h := newTestRouter(&fakeAppointments{
		getFn: func(ctx context.Context, got uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{ID: got, Status: domain.StatusScheduled}, nil
		},
		cancelFn: func(ctx context.Context, got uuid.UUID) (domain.Appointment, error) {
			return domain.Appointment{ID: got, Status: domain.StatusCancelled}, nil
		},
		completeFn: func(ctx context.Context, got uuid.UUID, n string) (domain.Appointment, error) {
			notes = n
			return domain.Appointment{ID: got, Status: domain.StatusCompleted, Notes: n}, nil
		},
	}, nil)

	if rec := do(t, h, http.MethodGet, "/appointments/"+id.String(), ""); rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/appointments/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/appointments/"+id.String()+"/cancel", "")
	if rec.Code != http.StatusOK || decode[AppointmentResponse](t, rec).Status != "CANCELLED" {
		t.Fatalf("cancel status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/appointments/"+id.String()+"/complete", `{"notes":"vaccinated"}`)
	if rec.Code != http.StatusOK || notes != "vaccinated" {
		t.Fatalf("complete status = %d notes = %q", rec.Code, notes)
	}
}

func TestAvailabilityRoutes(t *testing.T) {
	var got []appointments.WindowInput
	h := newTestRouter(&fakeAppointments{
		setWeeklyFn: func(ctx context.Context, vetID string, in []appointments.WindowInput) ([]domain.WeeklyAvailabilityWindow, error) {
			got = in
			return []domain.WeeklyAvailabilityWindow{{VetID: vetID, DayOfWeek: time.Monday, StartTime: domain.NewTimeOfDay(8, 0), EndTime: domain.NewTimeOfDay(12, 0)}}, nil
		},
		getWeeklyFn: func(ctx context.Context, vetID string) ([]domain.WeeklyAvailabilityWindow, error) {
			return nil, nil
		},
	}, nil)

	rec := do(t, h, http.MethodPut, "/vets/v1/availability", `{"windows":[{"day_of_week":1,"start_time":"08:00","end_time":"12:00"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(got) != 1 || got[0].DayOfWeek != 1 || got[0].StartTime != "08:00" {
		t.Fatalf("window input = %+v", got)
	}
	payload := decode[AvailabilityPayload](t, rec)
	if payload.VetID != "v1" || len(payload.Windows) != 1 || payload.Windows[0].EndTime != "12:00" {
		t.Fatalf("payload = %+v", payload)
	}

	rec = do(t, h, http.MethodGet, "/vets/v1/availability", "")
	if rec.Code != http.StatusOK || len(decode[AvailabilityPayload](t, rec).Windows) != 0 {
		t.Fatalf("get status = %d", rec.Code)
	}
}

func TestRatingRoutes(t *testing.T) {
	apptID := uuid.New()
	h := newTestRouter(nil, &fakeRatings{
		submitFn: func(ctx context.Context, in ratings.SubmitInput) (domain.Rating, error) {
			if in.AppointmentID != apptID || in.Score != 5 {
				t.Errorf("submit input = %+v", in)
			}
			return domain.Rating{ID: uuid.New(), AppointmentID: in.AppointmentID, VetID: "v1", Score: in.Score}, nil
		},
		rankFn: func(ctx context.Context) ([]domain.VetRating, error) {
			return []domain.VetRating{{VetID: "v1", Average: 4.5, Count: 2}, {VetID: "v2"}}, nil
		},
		vetRatingsFn: func(ctx context.Context, vetID string) (ratings.VetSummary, error) {
			return ratings.VetSummary{VetRating: domain.VetRating{VetID: vetID}}, nil
		},
	})

	rec := do(t, h, http.MethodPost, "/ratings", `{"appointment_id":"`+apptID.String()+`","owner_id":"o1","score":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/vets/ranking", "")
	ranked := decode[[]VetRatingResponse](t, rec)
	if len(ranked) != 2 || ranked[0].Average == nil || *ranked[0].Average != 4.5 || ranked[1].Average != nil {
		t.Fatalf("ranking = %+v", ranked)
	}

	rec = do(t, h, http.MethodGet, "/vets/v3/ratings", "")
	summary := decode[VetRatingsResponse](t, rec)
	if summary.VetID != "v3" || summary.Average != nil || summary.Ratings == nil {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestReadiness(t *testing.T) {
	down := pingFunc(func(ctx context.Context) error { return errors.New("down") })
	up := pingFunc(func(ctx context.Context) error { return nil })

	tests := []struct {
		name       string
		db, redis  Pinger
		wantStatus int
		wantBody   string
	}{
		{name: "all up", db: up, redis: up, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "redis disabled", db: up, wantStatus: http.StatusOK, wantBody: "ok"},
		{name: "redis down", db: up, redis: down, wantStatus: http.StatusOK, wantBody: "degraded"},
		{name: "db down", db: down, redis: up, wantStatus: http.StatusServiceUnavailable, wantBody: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, tt.redis, "test", "v0")
			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decode[ReadinessResponse](t, rec); got.Status != tt.wantBody {
				t.Fatalf("readiness = %+v", got)
			}
		})
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(nil, nil)

	rec := do(t, h, http.MethodGet, "/health/live", "", "X-Request-ID", "abc-123")
	if rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
}
