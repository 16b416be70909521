package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Appointments AppointmentsService
	Ratings      RatingsService
	Database     Pinger
	// Redis is nil when the slot lock runs without Redis.
	Redis   Pinger
	Env     string
	Version string
	Log     *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http"))

	h := &handlers{
		appointments: cfg.Appointments,
		ratings:      cfg.Ratings,
		log:          log,
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))
	r.Use(middleware.Recoverer)

	health := NewHealthHandler(cfg.Database, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/vets", func(r chi.Router) {
		r.Get("/ranking", h.rankVets)
		r.Route("/{vetID}", func(r chi.Router) {
			r.Get("/availability", h.getAvailability)
			r.Put("/availability", h.setAvailability)
			r.Get("/slots", h.listSlots)
			r.Get("/ratings", h.vetRatings)
		})
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", h.bookSlot)
		r.Get("/", h.listAppointments)
		r.Get("/{id}", h.getAppointment)
		r.Post("/{id}/cancel", h.cancelAppointment)
		r.Post("/{id}/complete", h.completeAppointment)
	})

	r.Post("/ratings", h.submitRating)

	return r
}
