package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/auth"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/directory"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/scheduling"
)

type RouterConfig struct {
	Auth       *auth.Service
	Directory  *directory.Service
	Scheduling *scheduling.Service
	PgPool     *pgxpool.Pool
	Redis      *redis.Client
	Logger     *zap.Logger
	Env        string
	Version    string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	h := NewHandler(cfg.Auth, cfg.Directory, cfg.Scheduling, cfg.Logger)

	// Routes keep the paths the frontend already consumes
	r.Post("/auth/login", h.Login)
	r.Get("/doctor/allDoctors", h.ListDoctors)
	r.Get("/doctor/{id}/disponibilites", h.ListDoctorAvailabilities)
	r.Get("/doctor/{id}/rendezvous", h.ListDoctorAgenda)
	r.Get("/speciality/allSpecialities", h.ListSpecialties)

	r.Post("/rendezvous", h.BookAppointment)
	r.Get("/rendezvous/{id}", h.GetAppointment)
	r.Post("/rendezvous/{id}/cancel", h.CancelAppointment)

	r.Post("/disponibilites", h.AddAvailability)
	r.Delete("/disponibilites/{id}", h.DeactivateAvailability)

	r.Get("/reference/jours", h.ListDays)
	r.Get("/reference/heures", h.ListHours)

	// Local development frontends, with credentials
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}
