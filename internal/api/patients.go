package api

import (
	"errors"
	"net/http"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
)

// patientKey names the lookup a patient error came from, for the 400 and 404
// bodies.
type patientKey struct {
	id      string
	phone   string
	byPhone bool
}

func listPatientsHandler(svc *clinic.PatientService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.List(r.Context())
		if err != nil {
			handlePatientError(w, r, rn, err, patientKey{}, "Failed to fetch patients")
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(rn.patients(patients)))
	}
}

func searchPatientsHandler(svc *clinic.PatientService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, patients, err := svc.Search(r.Context(), urlParam(r, "query"))
		if err != nil {
			handlePatientError(w, r, rn, err, patientKey{}, "Failed to search patients")
			return
		}
		resp := newListResponse(rn.patients(patients))
		resp.Query = query
		writeJSON(w, http.StatusOK, resp)
	}
}

func patientByPhoneHandler(svc *clinic.PatientService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := urlParam(r, "phone")

		patient, err := svc.GetByPhone(r.Context(), phone)
		if err != nil {
			handlePatientError(w, r, rn, err, patientKey{phone: phone, byPhone: true}, "Failed to fetch patient by phone")
			return
		}
		writeJSON(w, http.StatusOK, ItemResponse[PatientView]{
			Success:     true,
			PhoneNumber: phone,
			Data:        rn.patient(*patient),
		})
	}
}

func getPatientHandler(svc *clinic.PatientService, rn renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := urlParam(r, "id")

		patient, err := svc.Get(r.Context(), id)
		if err != nil {
			handlePatientError(w, r, rn, err, patientKey{id: id}, "Failed to fetch patient by ID")
			return
		}
		writeJSON(w, http.StatusOK, ItemResponse[PatientView]{
			Success:   true,
			PatientID: id,
			Data:      rn.patient(*patient),
		})
	}
}

func handlePatientError(w http.ResponseWriter, r *http.Request, rn renderer, err error, key patientKey, failure string) {
	switch {
	case errors.Is(err, clinic.ErrQueryTooShort):
		writeError(w, http.StatusBadRequest, "Search query must be at least 2 characters long")
	case errors.Is(err, clinic.ErrMissingID) && key.byPhone:
		writeError(w, http.StatusBadRequest, "Phone number is required")
	case errors.Is(err, clinic.ErrMissingID):
		writeError(w, http.StatusBadRequest, "Patient ID is required")
	case errors.Is(err, clinic.ErrPatientNotFound):
		writeJSON(w, http.StatusNotFound, NotFoundResponse{
			Error:       "Patient not found",
			PatientID:   key.id,
			PhoneNumber: key.phone,
		})
	default:
		rn.storeFailure(w, r, failure, err)
	}
}
