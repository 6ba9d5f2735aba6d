package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vetdesk/booking/internal/appointment"
	"github.com/vetdesk/booking/internal/availability"
	"github.com/vetdesk/booking/internal/doctor"
	"github.com/vetdesk/booking/internal/identity"
	"github.com/vetdesk/booking/internal/notification"
	"github.com/vetdesk/booking/internal/ws"
)

type RouterConfig struct {
	Appointments  *appointment.Service
	Availability  *availability.Service
	Applications  *doctor.Service
	Notifications notification.Repository
	WS            *ws.Handler
	Tokens        *identity.TokenManager
	PgPool        *pgxpool.Pool
	Redis         *redis.Client
	Logger        zerolog.Logger
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	validate := validator.New()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public availability reads.
	r.Get("/doctors/{id}/availability", getAvailabilityHandler(cfg.Availability))
	r.Get("/doctors/{id}/availability/{day}", getDayAvailabilityHandler(cfg.Availability))

	// The websocket endpoint authenticates via its token query parameter.
	r.Get("/ws", cfg.WS.HandleConnect)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Tokens))

		r.Put("/doctors/me/availability", upsertAvailabilityHandler(cfg.Availability, validate))
		r.Put("/doctors/me/availability/{day}", setDayAvailabilityHandler(cfg.Availability))

		r.Post("/appointments", createAppointmentHandler(cfg.Appointments, validate))
		r.Get("/appointments", listAppointmentsHandler(cfg.Appointments))
		r.Get("/appointments/upcoming", upcomingAppointmentsHandler(cfg.Appointments))
		r.Get("/appointments/today", todayAppointmentsHandler(cfg.Appointments))
		r.Get("/appointments/requests", appointmentRequestsHandler(cfg.Appointments))
		r.Get("/appointments/{id}", getAppointmentHandler(cfg.Appointments))
		r.Patch("/appointments/{id}", updateAppointmentHandler(cfg.Appointments, validate))
		r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Appointments))

		r.Get("/notifications", listNotificationsHandler(cfg.Notifications))
		r.Patch("/notifications/{id}/read", markNotificationReadHandler(cfg.Notifications))
		r.Post("/notifications/read-all", markAllNotificationsReadHandler(cfg.Notifications))

		r.Post("/doctor-applications", submitApplicationHandler(cfg.Applications, validate))
		r.Post("/doctor-applications/{id}/approve", decideApplicationHandler(cfg.Applications, true))
		r.Post("/doctor-applications/{id}/reject", decideApplicationHandler(cfg.Applications, false))
	})

	return r
}
