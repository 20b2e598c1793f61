package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
)

func listDoctorsHandler(svc *clinic.DoctorService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.List(r.Context())
		if err != nil {
			handleDoctorError(w, r, rn, err, "", "Failed to fetch doctors")
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(rn.doctors(doctors)))
	}
}

func activeDoctorsHandler(svc *clinic.DoctorService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListActive(r.Context())
		if err != nil {
			handleDoctorError(w, r, rn, err, "", "Failed to fetch active doctors")
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(rn.doctors(doctors)))
	}
}

func availableDoctorsHandler(svc *clinic.DoctorService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		available, err := svc.ListAvailableToday(r.Context())
		if err != nil {
			handleDoctorError(w, r, rn, err, "", "Failed to fetch available doctors")
			return
		}
		resp := newListResponse(rn.doctors(available.Doctors))
		resp.Day = available.Weekday
		writeJSON(w, http.StatusOK, resp)
	}
}

func searchDoctorsHandler(svc *clinic.DoctorService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, doctors, err := svc.Search(r.Context(), urlParam(r, "query"))
		if err != nil {
			handleDoctorError(w, r, rn, err, "", "Failed to search doctors")
			return
		}
		resp := newListResponse(rn.doctors(doctors))
		resp.Query = query
		writeJSON(w, http.StatusOK, resp)
	}
}

func getDoctorHandler(svc *clinic.DoctorService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := urlParam(r, "id")

		doctor, err := svc.Get(r.Context(), id)
		if err != nil {
			handleDoctorError(w, r, rn, err, id, "Failed to fetch doctor by ID")
			return
		}
		writeJSON(w, http.StatusOK, ItemResponse[DoctorView]{
			Success:  true,
			DoctorID: id,
			Data:     rn.doctor(*doctor),
		})
	}
}

func doctorTodayAppointmentsHandler(svc *clinic.DoctorService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := svc.TodayAppointments(r.Context(), urlParam(r, "id"))
		if err != nil {
			handleDoctorError(w, r, rn, err, "", "Failed to fetch doctor appointments")
			return
		}
		resp := newListResponse(rn.bookings(appts.Bookings))
		resp.DoctorID = appts.DoctorID
		resp.Date = appts.Date
		writeJSON(w, http.StatusOK, resp)
	}
}

func createDoctorHandler(svc *clinic.DoctorService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid request body",
				Details: err.Error(),
			})
			return
		}

		doctor, err := svc.Create(r.Context(), req.toDoctor())
		if err != nil {
			handleDoctorError(w, r, rn, err, "", "Failed to create doctor")
			return
		}
		writeJSON(w, http.StatusCreated, ItemResponse[DoctorView]{
			Success:  true,
			Message:  "Doctor created successfully",
			DoctorID: doctor.ID.String(),
			Data:     rn.doctor(*doctor),
		})
	}
}

func doctorStatsHandler(svc *clinic.DoctorService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Summary(r.Context())
		if err != nil {
			handleDoctorError(w, r, rn, err, "", "Failed to fetch doctor statistics")
			return
		}
		writeJSON(w, http.StatusOK, ItemResponse[StatsView]{
			Success: true,
			Data: StatsView{
				TotalDoctors:      stats.TotalDoctors,
				ActiveDoctors:     stats.ActiveDoctors,
				AvailableToday:    stats.AvailableToday,
				TodayAppointments: stats.TodayAppointments,
				CurrentDay:        stats.CurrentDay,
			},
		})
	}
}

func handleDoctorError(w http.ResponseWriter, r *http.Request, rn renderer, err error, id, failure string) {
	switch {
	case errors.Is(err, clinic.ErrQueryTooShort):
		writeError(w, http.StatusBadRequest, "Search query must be at least 2 characters long")
	case errors.Is(err, clinic.ErrMissingID):
		writeError(w, http.StatusBadRequest, "Doctor ID is required")
	case errors.Is(err, clinic.ErrDoctorNotFound):
		writeJSON(w, http.StatusNotFound, NotFoundResponse{
			Error:    "Doctor not found",
			DoctorID: id,
		})
	default:
		rn.storeFailure(w, r, failure, err)
	}
}
