package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
	"github.com/hackgods/clinic-dashboard-api/internal/dashboard"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// renderer turns records into response views and store failures into 500s.
// Failure details are withheld in production.
type renderer struct {
	production bool
	calendar   clinic.Calendar
}

func (rn renderer) storeFailure(w http.ResponseWriter, r *http.Request, failure string, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(failure)

	resp := ErrorResponse{Error: failure}
	if !rn.production {
		resp.Details = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

func (rn renderer) bookings(bookings []clinic.Booking) []BookingView {
	out := make([]BookingView, len(bookings))
	for i, b := range bookings {
		out[i] = BookingView{Booking: b, StatusBadge: dashboard.StatusBadge(b.Status)}
	}
	return out
}

func (rn renderer) doctor(d clinic.Doctor) DoctorView {
	if d.Availability.Days == nil {
		d.Availability.Days = []string{}
	}
	return DoctorView{Doctor: d, AvailableToday: dashboard.AvailableToday(d, rn.calendar.Today())}
}

func (rn renderer) doctors(doctors []clinic.Doctor) []DoctorView {
	out := make([]DoctorView, len(doctors))
	for i, d := range doctors {
		out[i] = rn.doctor(d)
	}
	return out
}

func (rn renderer) patient(p clinic.Patient) PatientView {
	return PatientView{
		Patient: p,
		Recency: dashboard.PatientRecency(p.LastAppointmentDate, rn.calendar.Current(), rn.calendar.Location),
	}
}

func (rn renderer) patients(patients []clinic.Patient) []PatientView {
	out := make([]PatientView, len(patients))
	for i, p := range patients {
		out[i] = rn.patient(p)
	}
	return out
}

// urlParam returns the trimmed path parameter. chi matches on RawPath when
// the request has one, so only then is the value still escaped.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if r.URL.RawPath != "" {
		if v, err := url.PathUnescape(raw); err == nil {
			raw = v
		}
	}
	return strings.TrimSpace(raw)
}
