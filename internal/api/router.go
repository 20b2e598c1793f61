package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
)

type RouterConfig struct {
	Bookings *clinic.BookingService
	Doctors  *clinic.DoctorService
	Patients *clinic.PatientService
	Store    Pinger
	Calendar clinic.Calendar
	Logger   zerolog.Logger

	Env          string
	Production   bool
	Version      string
	FrontendURL  string
	MaxBodyBytes int64
	StartedAt    time.Time
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoverMiddleware(cfg.Production))
	r.Use(CORSMiddleware(cfg.FrontendURL))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(cfg.MaxBodyBytes))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health endpoints
	health := NewHealthHandler(cfg.Store, cfg.Env, cfg.Version, cfg.StartedAt)
	r.Get("/", health.Root)
	r.Get("/api/health", health.Liveness)
	r.Get("/api/health/ready", health.Readiness)

	rn := renderer{production: cfg.Production, calendar: cfg.Calendar}

	r.Route("/api/bookings", func(r chi.Router) {
		r.Get("/", listBookingsHandler(cfg.Bookings, rn))
		r.Get("/today", todayBookingsHandler(cfg.Bookings, rn))
		r.Get("/date/{date}", bookingsForDateHandler(cfg.Bookings, rn))
		r.Get("/doctor/{doctor_id}", doctorBookingsHandler(cfg.Bookings, rn))
	})

	r.Route("/api/doctors", func(r chi.Router) {
		r.Get("/", listDoctorsHandler(cfg.Doctors, rn))
		r.Post("/", createDoctorHandler(cfg.Doctors, rn))
		r.Get("/active", activeDoctorsHandler(cfg.Doctors, rn))
		r.Get("/available-today", availableDoctorsHandler(cfg.Doctors, rn))
		r.Get("/search/{query}", searchDoctorsHandler(cfg.Doctors, rn))
		r.Get("/stats/summary", doctorStatsHandler(cfg.Doctors, rn))
		r.Get("/{id}", getDoctorHandler(cfg.Doctors, rn))
		r.Get("/{id}/appointments/today", doctorTodayAppointmentsHandler(cfg.Doctors, rn))
	})

	r.Route("/api/patients", func(r chi.Router) {
		r.Get("/", listPatientsHandler(cfg.Patients, rn))
		r.Get("/search/{query}", searchPatientsHandler(cfg.Patients, rn))
		r.Get("/phone/{phone}", patientByPhoneHandler(cfg.Patients, rn))
		r.Get("/{id}", getPatientHandler(cfg.Patients, rn))
	})

	return r
}
