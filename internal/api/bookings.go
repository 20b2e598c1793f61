package api

import (
	"errors"
	"net/http"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
)

func listBookingsHandler(svc *clinic.BookingService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookings, err := svc.List(r.Context())
		if err != nil {
			handleBookingError(w, r, rn, err, "Failed to fetch bookings")
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(rn.bookings(bookings)))
	}
}

func todayBookingsHandler(svc *clinic.BookingService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing, err := svc.ListToday(r.Context())
		if err != nil {
			handleBookingError(w, r, rn, err, "Failed to fetch today's bookings")
			return
		}
		resp := newListResponse(rn.bookings(listing.Bookings))
		resp.Date = listing.Date
		writeJSON(w, http.StatusOK, resp)
	}
}

func bookingsForDateHandler(svc *clinic.BookingService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requested := urlParam(r, "date")

		listing, err := svc.ListForDate(r.Context(), requested)
		if err != nil {
			handleBookingError(w, r, rn, err, "Failed to fetch bookings for date")
			return
		}
		resp := newListResponse(rn.bookings(listing.Bookings))
		resp.Date = listing.Date
		resp.RequestedDate = requested
		writeJSON(w, http.StatusOK, resp)
	}
}

func doctorBookingsHandler(svc *clinic.BookingService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID := urlParam(r, "doctor_id")

		bookings, err := svc.ListByDoctor(r.Context(), doctorID)
		if err != nil {
			handleBookingError(w, r, rn, err, "Failed to fetch bookings for doctor")
			return
		}
		resp := newListResponse(rn.bookings(bookings))
		resp.DoctorID = doctorID
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleBookingError(w http.ResponseWriter, r *http.Request, rn renderer, err error, failure string) {
	switch {
	case errors.Is(err, clinic.ErrInvalidDate):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid date format",
			Message: "Please use YYYY-MM-DD format",
		})
	case errors.Is(err, clinic.ErrMissingID):
		writeError(w, http.StatusBadRequest, "doctor_id is required")
	default:
		rn.storeFailure(w, r, failure, err)
	}
}
