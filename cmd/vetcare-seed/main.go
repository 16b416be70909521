package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"vetcare/backend/internal/config"
	"vetcare/backend/internal/domain"
	"vetcare/backend/internal/service/appointments"
	"vetcare/backend/internal/service/ratings"
	"vetcare/backend/internal/store/postgres"
	"vetcare/backend/migrations"
)

const (
	vetCount     = 12
	ownerCount   = 40
	daysAhead    = 7
	bookingRatio = 3 // roughly one in bookingRatio open slots gets booked
)

var (
	visitNotes = []string{
		"Annual vaccination given.",
		"Dental check, mild tartar.",
		"Follow-up in two weeks.",
		"Skin irritation, prescribed ointment.",
		"Routine weight check.",
	}
	comments = []string{
		"Very gentle with our dog.",
		"Explained everything clearly.",
		"Waited a bit long but good care.",
		"Would book again.",
		"",
	}
)

type owner struct {
	id   string
	pets []string
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", "vetcare-seed"))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{MaxOpenConns: 4, MaxIdleConns: 2})
	if err != nil {
		log.Error("database connection failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer postgres.Close(db)

	if _, err := postgres.Migrate(ctx, db, migrations.FS); err != nil {
		log.Error("migrations failed", slog.Any("err", err))
		os.Exit(1)
	}

	gofakeit.Seed(time.Now().UnixNano())

	apptRepo := postgres.NewAppointmentRepo(db)
	scheduleRepo := postgres.NewScheduleRepo(db)
	apptSvc := appointments.NewService(scheduleRepo, apptRepo, appointments.Options{SlotMinutes: cfg.SlotMinutes})
	ratingSvc := ratings.NewService(postgres.NewRatingRepo(db), apptRepo, scheduleRepo)

	vets, err := seedVets(ctx, log, apptSvc, vetCount)
	if err != nil {
		log.Error("seed vets failed", slog.Any("err", err))
		os.Exit(1)
	}
	owners := fakeOwners(ownerCount)

	booked, err := seedAppointments(ctx, log, apptSvc, vets, owners)
	if err != nil {
		log.Error("seed appointments failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := seedOutcomes(ctx, log, apptSvc, ratingSvc, booked); err != nil {
		log.Error("seed outcomes failed", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("seed complete", slog.Int("vets", len(vets)), slog.Int("appointments", len(booked)))
}

func seedVets(ctx context.Context, log *slog.Logger, svc *appointments.Service, count int) ([]string, error) {
	shifts := [][]appointments.WindowInput{
		{{StartTime: "09:00", EndTime: "12:00"}, {StartTime: "13:00", EndTime: "17:00"}},
		{{StartTime: "08:00", EndTime: "14:00"}},
		{{StartTime: "12:00", EndTime: "20:00"}},
	}

	vets := make([]string, 0, count)
	for i := 0; i < count; i++ {
		vetID := uuid.NewString()
		shift := shifts[gofakeit.Number(0, len(shifts)-1)]

		var windows []appointments.WindowInput
		for day := time.Monday; day <= time.Saturday; day++ {
			if day == time.Saturday && gofakeit.Bool() {
				continue
			}
			for _, w := range shift {
				w.DayOfWeek = int(day)
				windows = append(windows, w)
			}
		}

		if _, err := svc.SetWeeklyAvailability(ctx, vetID, windows); err != nil {
			return nil, fmt.Errorf("vet %s: %w", vetID, err)
		}
		log.Info("vet seeded", slog.String("vet_id", vetID), slog.String("name", "Dr. "+gofakeit.LastName()), slog.Int("windows", len(windows)))
		vets = append(vets, vetID)
	}
	return vets, nil
}

func fakeOwners(count int) []owner {
	owners := make([]owner, 0, count)
	for i := 0; i < count; i++ {
		o := owner{id: uuid.NewString()}
		for p := gofakeit.Number(1, 3); p > 0; p-- {
			o.pets = append(o.pets, uuid.NewString())
		}
		owners = append(owners, o)
	}
	return owners
}

func seedAppointments(ctx context.Context, log *slog.Logger, svc *appointments.Service, vets []string, owners []owner) ([]domain.Appointment, error) {
	var booked []domain.Appointment
	today := domain.DateOf(time.Now().UTC())

	for _, vetID := range vets {
		for d := 1; d <= daysAhead; d++ {
			date := domain.DateOf(time.Date(today.Year, today.Month, today.Day+d, 0, 0, 0, 0, time.UTC))
			slots, err := svc.ResolveAvailability(ctx, vetID, date)
			if err != nil {
				return nil, fmt.Errorf("availability %s %s: %w", vetID, date, err)
			}
			for _, slot := range slots {
				if gofakeit.Number(1, bookingRatio) != 1 {
					continue
				}
				o := owners[gofakeit.Number(0, len(owners)-1)]
				appt, err := svc.BookSlot(ctx, appointments.BookInput{
					VetID:   vetID,
					PetID:   o.pets[gofakeit.Number(0, len(o.pets)-1)],
					OwnerID: o.id,
					Slot:    slot,
				})
				if err != nil {
					return nil, fmt.Errorf("book %s %s: %w", vetID, slot.Start().Format(time.RFC3339), err)
				}
				booked = append(booked, appt)
			}
		}
		log.Info("appointments seeded", slog.String("vet_id", vetID), slog.Int("total", len(booked)))
	}
	return booked, nil
}

// seedOutcomes cancels a few bookings and completes and rates others so the
// ranking endpoint has data to work with.
func seedOutcomes(ctx context.Context, log *slog.Logger, apptSvc *appointments.Service, ratingSvc *ratings.Service, booked []domain.Appointment) error {
	var cancelled, rated int
	for _, appt := range booked {
		switch gofakeit.Number(1, 10) {
		case 1:
			if _, err := apptSvc.CancelAppointment(ctx, appt.ID); err != nil {
				return err
			}
			cancelled++
		case 2, 3, 4:
			if _, err := apptSvc.CompleteAppointment(ctx, appt.ID, gofakeit.RandomString(visitNotes)); err != nil {
				return err
			}
			if _, err := ratingSvc.Submit(ctx, ratings.SubmitInput{
				AppointmentID: appt.ID,
				OwnerID:       appt.OwnerID,
				Score:         gofakeit.Number(domain.MinScore, domain.MaxScore),
				Comment:       gofakeit.RandomString(comments),
			}); err != nil {
				return err
			}
			rated++
		}
	}
	log.Info("outcomes seeded", slog.Int("cancelled", cancelled), slog.Int("rated", rated))
	return nil
}
