package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"vetcare/backend/internal/domain"
	"vetcare/backend/internal/service/appointments"
)

type SchedulingServer struct {
	svc schedulingService
	log *slog.Logger
}

type schedulingService interface {
	ResolveAvailability(ctx context.Context, vetID string, date domain.Date) ([]domain.AvailableSlot, error)
	BookSlot(ctx context.Context, in appointments.BookInput) (domain.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	CompleteAppointment(ctx context.Context, id uuid.UUID, notes string) (domain.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListAppointments(ctx context.Context, in appointments.ListInput) ([]domain.Appointment, error)
}

func NewSchedulingServer(svc schedulingService, log *slog.Logger) *SchedulingServer {
	if log == nil {
		log = slog.Default()
	}
	return &SchedulingServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.scheduling")),
	}
}

func (s *SchedulingServer) ListAvailableSlots(ctx context.Context, req *ListAvailableSlotsRequest) (*ListAvailableSlotsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAvailableSlots"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_date"), slog.String("vet_id", req.VetId))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	slots, err := s.svc.ResolveAvailability(ctx, req.VetId, date)
	if err != nil {
		return nil, s.statusError(log, "availability resolve failed", err, slog.String("vet_id", req.VetId))
	}

	out := make([]*Slot, 0, len(slots))
	for _, sl := range slots {
		out = append(out, toProtoSlot(sl))
	}

	log.Debug("slots listed", slog.String("vet_id", req.VetId), slog.String("date", date.String()), slog.Int("count", len(out)))
	return &ListAvailableSlotsResponse{Slots: out}, nil
}

func (s *SchedulingServer) BookSlot(ctx context.Context, req *BookSlotRequest) (*BookSlotResponse, error) {
	log := s.log.With(slog.String("rpc", "BookSlot"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.Slot == nil {
		log.Warn("invalid request", slog.String("reason", "missing_slot"), slog.String("owner_id", req.OwnerId))
		return nil, status.Error(codes.InvalidArgument, "slot is required")
	}
	slot, err := fromProtoSlot(req.Slot)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_slot"), slog.Any("err", err))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	appt, err := s.svc.BookSlot(ctx, appointments.BookInput{
		VetID:          req.VetId,
		PetID:          req.PetId,
		OwnerID:        req.OwnerId,
		Slot:           slot,
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		return nil, s.statusError(log, "booking failed", err,
			slog.String("vet_id", req.VetId),
			slog.String("owner_id", req.OwnerId),
			slog.Time("start_time", slot.Start()),
		)
	}

	log.Info(
		"appointment booked",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("vet_id", appt.VetID),
		slog.String("owner_id", appt.OwnerID),
		slog.Time("start_time", appt.StartTime),
	)
	return &BookSlotResponse{Appointment: toProtoAppointment(appt)}, nil
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func (s *SchedulingServer) CancelAppointment(ctx context.Context, req *CancelAppointmentRequest) (*CancelAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CancelAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseAppointmentID(log, req.AppointmentId)
	if err != nil {
		return nil, err
	}

	appt, err := s.svc.CancelAppointment(ctx, id)
	if err != nil {
		return nil, s.statusError(log, "appointment cancel failed", err, slog.String("appointment_id", id.String()))
	}

	log.Info("appointment cancelled", slog.String("appointment_id", id.String()), slog.String("vet_id", appt.VetID))
	return &CancelAppointmentResponse{Appointment: toProtoAppointment(appt)}, nil
}

func (s *SchedulingServer) CompleteAppointment(ctx context.Context, req *CompleteAppointmentRequest) (*CompleteAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CompleteAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseAppointmentID(log, req.AppointmentId)
	if err != nil {
		return nil, err
	}

	appt, err := s.svc.CompleteAppointment(ctx, id, req.Notes)
	if err != nil {
		return nil, s.statusError(log, "appointment complete failed", err, slog.String("appointment_id", id.String()))
	}

	log.Info("appointment completed", slog.String("appointment_id", id.String()), slog.String("vet_id", appt.VetID))
	return &CompleteAppointmentResponse{Appointment: toProtoAppointment(appt)}, nil
}

func (s *SchedulingServer) GetAppointment(ctx context.Context, req *GetAppointmentRequest) (*GetAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "GetAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseAppointmentID(log, req.AppointmentId)
	if err != nil {
		return nil, err
	}

	appt, err := s.svc.GetAppointment(ctx, id)
	if err != nil {
		return nil, s.statusError(log, "appointment get failed", err, slog.String("appointment_id", id.String()))
	}
	return &GetAppointmentResponse{Appointment: toProtoAppointment(appt)}, nil
}

func (s *SchedulingServer) ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAppointments"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in := appointments.ListInput{
		OwnerID: req.OwnerId,
		VetID:   req.VetId,
		Status:  domain.AppointmentStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
	}
	if req.WindowStart != nil {
		in.WindowStart = req.WindowStart.AsTime()
	}
	if req.WindowEnd != nil {
		in.WindowEnd = req.WindowEnd.AsTime()
	}

	appts, err := s.svc.ListAppointments(ctx, in)
	if err != nil {
		return nil, s.statusError(log, "appointments list failed", err,
			slog.String("owner_id", req.OwnerId),
			slog.String("vet_id", req.VetId),
		)
	}

	out := make([]*Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, toProtoAppointment(a))
	}

	log.Debug("appointments listed", slog.String("owner_id", req.OwnerId), slog.String("vet_id", req.VetId), slog.Int("count", len(out)))
	return &ListAppointmentsResponse{Appointments: out}, nil
}

func parseAppointmentID(log *slog.Logger, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return uuid.Nil, status.Error(codes.InvalidArgument, "appointment_id must be a UUID")
	}
	return id, nil
}

// statusError logs err at a level matching its kind and converts it to a
// gRPC status. Causes of server-side failures are not sent to the client.
func (s *SchedulingServer) statusError(log *slog.Logger, msg string, err error, attrs ...any) error {
	attrs = append(attrs, slog.Any("err", err))
	code := codeFor(domain.KindOf(err))

	switch code {
	case codes.InvalidArgument:
		log.Warn("invalid request", attrs...)
	case codes.NotFound, codes.FailedPrecondition:
		log.Info(msg, attrs...)
	default:
		log.Error(msg, attrs...)
	}

	var dErr *domain.Error
	switch {
	case code == codes.Unavailable:
		return status.Error(code, "service temporarily unavailable, try again")
	case code == codes.Internal:
		return status.Error(code, "internal error")
	case errors.As(err, &dErr):
		return status.Error(code, dErr.Msg)
	}
	return status.Error(code, err.Error())
}

func codeFor(kind domain.ErrorKind) codes.Code {
	switch kind {
	case domain.KindInvalidDate, domain.KindInvalidRequest:
		return codes.InvalidArgument
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindSlotTaken:
		return codes.FailedPrecondition
	case domain.KindScheduleUnavailable, domain.KindServerUnavailable:
		return codes.Unavailable
	}
	return codes.Internal
}

func toProtoSlot(sl domain.AvailableSlot) *Slot {
	return &Slot{
		Date:      sl.Date.String(),
		StartTime: sl.StartTime.String(),
		EndTime:   sl.EndTime.String(),
		StartsAt:  timestamppb.New(sl.Start()),
		EndsAt:    timestamppb.New(sl.End()),
	}
}

func fromProtoSlot(p *Slot) (domain.AvailableSlot, error) {
	date, err := domain.ParseDate(p.Date)
	if err != nil {
		return domain.AvailableSlot{}, err
	}
	start, err := domain.ParseTimeOfDay(p.StartTime)
	if err != nil {
		return domain.AvailableSlot{}, err
	}
	end, err := domain.ParseTimeOfDay(p.EndTime)
	if err != nil {
		return domain.AvailableSlot{}, err
	}
	return domain.AvailableSlot{SlotCandidate: domain.SlotCandidate{
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}}, nil
}

func toProtoAppointment(a domain.Appointment) *Appointment {
	return &Appointment{
		Id:        a.ID.String(),
		VetId:     a.VetID,
		PetId:     a.PetID,
		OwnerId:   a.OwnerID,
		Status:    string(a.Status),
		Notes:     a.Notes,
		StartTime: timestamppb.New(a.StartTime),
		EndTime:   timestamppb.New(a.EndTime),
		CreatedAt: timestamppb.New(a.CreatedAt),
		UpdatedAt: timestamppb.New(a.UpdatedAt),
	}
}
