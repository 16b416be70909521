package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	grpcTransport "vetcare/backend/internal/transport/grpc"
)

type Context struct {
	Client  *grpcTransport.SchedulingClient
	Timeout time.Duration
	Out     io.Writer
}

func (c *Context) call() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Timeout)
}

func (c *Context) print(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// callError flattens a gRPC status into "<code>: <message>".
func callError(err error) error {
	if st, ok := status.FromError(err); ok {
		return fmt.Errorf("%s: %s", st.Code(), st.Message())
	}
	return err
}

type SlotsCmd struct {
	Vet  string `arg:"" help:"Vet ID."`
	Date string `arg:"" help:"Calendar date (YYYY-MM-DD)."`
}

func (c *SlotsCmd) Run(app *Context) error {
	ctx, cancel := app.call()
	defer cancel()

	resp, err := app.Client.ListAvailableSlots(ctx, &grpcTransport.ListAvailableSlotsRequest{VetId: c.Vet, Date: c.Date})
	if err != nil {
		return callError(err)
	}
	if len(resp.Slots) == 0 {
		fmt.Fprintln(app.Out, "no open slots")
		return nil
	}
	for _, s := range resp.Slots {
		fmt.Fprintf(app.Out, "%s %s-%s\n", s.Date, s.StartTime, s.EndTime)
	}
	return nil
}

type BookCmd struct {
	Vet            string `arg:"" help:"Vet ID."`
	Date           string `arg:"" help:"Calendar date (YYYY-MM-DD)."`
	Start          string `arg:"" help:"Slot start time (HH:MM)."`
	End            string `arg:"" help:"Slot end time (HH:MM)."`
	Pet            string `required:"" help:"Pet ID."`
	Owner          string `required:"" help:"Owner ID."`
	IdempotencyKey string `short:"k" help:"Key that makes retries of this booking safe. Generated when empty."`
}

func (c *BookCmd) Run(app *Context) error {
	key := strings.TrimSpace(c.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}

	ctx, cancel := app.call()
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, "idempotency-key", key)

	resp, err := app.Client.BookSlot(ctx, &grpcTransport.BookSlotRequest{
		VetId:   c.Vet,
		PetId:   c.Pet,
		OwnerId: c.Owner,
		Slot:    &grpcTransport.Slot{Date: c.Date, StartTime: c.Start, EndTime: c.End},
	})
	if err != nil {
		return callError(err)
	}
	return app.print(resp.Appointment)
}

type CancelCmd struct {
	ID string `arg:"" help:"Appointment ID."`
}

func (c *CancelCmd) Run(app *Context) error {
	ctx, cancel := app.call()
	defer cancel()

	resp, err := app.Client.CancelAppointment(ctx, &grpcTransport.CancelAppointmentRequest{AppointmentId: c.ID})
	if err != nil {
		return callError(err)
	}
	return app.print(resp.Appointment)
}

type CompleteCmd struct {
	ID    string `arg:"" help:"Appointment ID."`
	Notes string `short:"n" help:"Visit notes."`
}

func (c *CompleteCmd) Run(app *Context) error {
	ctx, cancel := app.call()
	defer cancel()

	resp, err := app.Client.CompleteAppointment(ctx, &grpcTransport.CompleteAppointmentRequest{AppointmentId: c.ID, Notes: c.Notes})
	if err != nil {
		return callError(err)
	}
	return app.print(resp.Appointment)
}

type GetCmd struct {
	ID string `arg:"" help:"Appointment ID."`
}

func (c *GetCmd) Run(app *Context) error {
	ctx, cancel := app.call()
	defer cancel()

	resp, err := app.Client.GetAppointment(ctx, &grpcTransport.GetAppointmentRequest{AppointmentId: c.ID})
	if err != nil {
		return callError(err)
	}
	return app.print(resp.Appointment)
}

type ListCmd struct {
	Owner  string `help:"Filter by owner ID."`
	Vet    string `help:"Filter by vet ID."`
	Status string `help:"Filter by status (SCHEDULED|CANCELLED|COMPLETED)."`
	From   string `help:"Window start (RFC3339)."`
	To     string `help:"Window end (RFC3339)."`
}

func (c *ListCmd) Validate() error {
	if c.Owner == "" && c.Vet == "" {
		return fmt.Errorf("one of --owner or --vet is required")
	}
	return nil
}

func (c *ListCmd) Run(app *Context) error {
	req := &grpcTransport.ListAppointmentsRequest{OwnerId: c.Owner, VetId: c.Vet, Status: c.Status}
	var err error
	if req.WindowStart, err = parseInstant(c.From); err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	if req.WindowEnd, err = parseInstant(c.To); err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	ctx, cancel := app.call()
	defer cancel()

	resp, err := app.Client.ListAppointments(ctx, req)
	if err != nil {
		return callError(err)
	}
	return app.print(resp.Appointments)
}

func parseInstant(s string) (*timestamppb.Timestamp, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return timestamppb.New(t), nil
}
