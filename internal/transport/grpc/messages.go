package grpc

import "google.golang.org/protobuf/types/known/timestamppb"

// Slot identifies a bookable hour by calendar date and local wall-clock
// bounds; StartsAt and EndsAt carry the same instants in UTC.
type Slot struct {
	Date      string                 `json:"date"`
	StartTime string                 `json:"start_time"`
	EndTime   string                 `json:"end_time"`
	StartsAt  *timestamppb.Timestamp `json:"starts_at,omitempty"`
	EndsAt    *timestamppb.Timestamp `json:"ends_at,omitempty"`
}

type Appointment struct {
	Id        string                 `json:"id"`
	VetId     string                 `json:"vet_id"`
	PetId     string                 `json:"pet_id"`
	OwnerId   string                 `json:"owner_id"`
	Status    string                 `json:"status"`
	Notes     string                 `json:"notes,omitempty"`
	StartTime *timestamppb.Timestamp `json:"start_time"`
	EndTime   *timestamppb.Timestamp `json:"end_time"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
	UpdatedAt *timestamppb.Timestamp `json:"updated_at,omitempty"`
}

type ListAvailableSlotsRequest struct {
	VetId string `json:"vet_id"`
	Date  string `json:"date"`
}

type ListAvailableSlotsResponse struct {
	Slots []*Slot `json:"slots"`
}

type BookSlotRequest struct {
	VetId   string `json:"vet_id"`
	PetId   string `json:"pet_id"`
	OwnerId string `json:"owner_id"`
	Slot    *Slot  `json:"slot"`
}

type BookSlotResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type CancelAppointmentRequest struct {
	AppointmentId string `json:"appointment_id"`
}

type CancelAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type CompleteAppointmentRequest struct {
	AppointmentId string `json:"appointment_id"`
	Notes         string `json:"notes,omitempty"`
}

type CompleteAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type GetAppointmentRequest struct {
	AppointmentId string `json:"appointment_id"`
}

type GetAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type ListAppointmentsRequest struct {
	OwnerId     string                 `json:"owner_id,omitempty"`
	VetId       string                 `json:"vet_id,omitempty"`
	Status      string                 `json:"status,omitempty"`
	WindowStart *timestamppb.Timestamp `json:"window_start,omitempty"`
	WindowEnd   *timestamppb.Timestamp `json:"window_end,omitempty"`
}

type ListAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}
