package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/medagenda/hospital-appointment-scheduling/internal/booking"
	"github.com/medagenda/hospital-appointment-scheduling/internal/catalog"
	"github.com/medagenda/hospital-appointment-scheduling/internal/schedule"
)

type RouterConfig struct {
	Availability *schedule.Engine
	Booking      *booking.Service
	Catalog      *catalog.Service
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Availability endpoints
	r.Get("/availability/slots", daySlotsHandler(cfg.Availability))
	r.Get("/availability/dates", availableDatesHandler(cfg.Availability))
	r.Get("/doctors/{id}/appointment-duration", appointmentDurationHandler(cfg.Availability))

	// Catalog endpoints
	r.Get("/specialties", listSpecialtiesHandler(cfg.Catalog))
	r.Get("/doctors", listDoctorsHandler(cfg.Catalog))

	// Patient and booking endpoints
	r.Post("/patients/validate", validatePatientHandler(cfg.Booking))
	r.Post("/appointments", bookAppointmentHandler(cfg.Booking))
	r.Get("/appointments", listAppointmentsHandler(cfg.Booking))
	r.Delete("/appointments/{id}", cancelAppointmentHandler(cfg.Booking))

	return r
}
