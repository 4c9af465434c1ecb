package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-booking/internal/appointment"
	"github.com/hackgods/clinic-booking/internal/booking"
	"github.com/hackgods/clinic-booking/internal/catalog"
)

type RouterConfig struct {
	Service     *appointment.Service
	Sessions    *booking.Registry
	Catalog     *catalog.Catalog
	Metrics     http.Handler // served on /metrics when set
	Postgres    Pinger       // nil when the event log is disabled
	Redis       Pinger       // nil when slot locks are in-process
	Logger      *zap.Logger
	Env         string
	Version     string
	HorizonDays int
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger.Named("http")))
	r.Use(middleware.Recoverer)

	health := NewHealthHandler(cfg.Postgres, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Get("/treatments", listTreatmentsHandler(cfg.Catalog))
	r.Get("/locations", listLocationsHandler(cfg.Catalog))
	r.Get("/availability", availabilityHandler(cfg.Service, cfg.HorizonDays))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", openSessionHandler(cfg.Sessions))
		r.Get("/{id}", getSessionHandler(cfg.Sessions))
		r.Patch("/{id}", updateSessionHandler(cfg.Sessions, cfg.Service, cfg.Catalog, cfg.HorizonDays))
		r.Delete("/{id}", closeSessionHandler(cfg.Sessions))
		r.Post("/{id}/commit", commitSessionHandler(cfg.Sessions, cfg.Service, cfg.Catalog))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(cfg.Service, cfg.Catalog))
		r.Get("/{id}", getAppointmentHandler(cfg.Service, cfg.Catalog))
		r.Post("/{id}/cancel", cancelAppointmentHandler(cfg.Service, cfg.Catalog))
		r.Get("/{id}/countdown", countdownHandler(cfg.Service))
	})

	return r
}
