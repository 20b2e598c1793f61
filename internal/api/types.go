package api

import (
	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
	"github.com/hackgods/clinic-dashboard-api/internal/dashboard"
)

type CreateDoctorRequest struct {
	Name                   string              `json:"name"`
	Color                  string              `json:"color"`
	Availability           clinic.Availability `json:"availability"`
	MaxAppointmentsPerHour int                 `json:"max_appointments_per_hour"`
	Status                 string              `json:"status"`
}

func (req CreateDoctorRequest) toDoctor() clinic.Doctor {
	return clinic.Doctor{
		Name:                   req.Name,
		Color:                  req.Color,
		Availability:           req.Availability,
		MaxAppointmentsPerHour: req.MaxAppointmentsPerHour,
		Status:                 req.Status,
	}
}

// BookingView is a stored booking plus its badge tone.
type BookingView struct {
	clinic.Booking
	StatusBadge dashboard.Tone `json:"status_badge"`
}

// DoctorView is a stored doctor plus whether today is one of their days.
type DoctorView struct {
	clinic.Doctor
	AvailableToday bool `json:"available_today"`
}

// PatientView is a stored patient plus their visit recency.
type PatientView struct {
	clinic.Patient
	Recency dashboard.Recency `json:"recency"`
}

// ListResponse carries a collection. Only the context fields relevant to
// the route are set.
type ListResponse[T any] struct {
	Success       bool   `json:"success"`
	Date          string `json:"date,omitempty"`
	RequestedDate string `json:"requested_date,omitempty"`
	Day           string `json:"day,omitempty"`
	DoctorID      string `json:"doctor_id,omitempty"`
	Query         string `json:"query,omitempty"`
	Count         int    `json:"count"`
	Data          []T    `json:"data"`
}

func newListResponse[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Success: true, Count: len(data), Data: data}
}

type ItemResponse[T any] struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	DoctorID    string `json:"doctor_id,omitempty"`
	PatientID   string `json:"patient_id,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Data        T      `json:"data"`
}

type StatsView struct {
	TotalDoctors      int64  `json:"total_doctors"`
	ActiveDoctors     int64  `json:"active_doctors"`
	AvailableToday    int64  `json:"available_today"`
	TodayAppointments int64  `json:"today_appointments"`
	CurrentDay        string `json:"current_day"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Message string `json:"message,omitempty"`
}

type NotFoundResponse struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	DoctorID    string `json:"doctor_id,omitempty"`
	PatientID   string `json:"patient_id,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
