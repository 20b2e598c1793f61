package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
	"github.com/hackgods/clinic-dashboard-api/internal/clinic/clinictest"
)

// Monday, September 08, 2025.
var testNow = time.Date(2025, 9, 8, 10, 0, 0, 0, time.UTC)

const testOrigin = "http://localhost:5173"

type testServer struct {
	store   *clinictest.Store
	handler http.Handler
}

func newTestServer(t *testing.T, production bool) *testServer {
	t.Helper()

	store := clinictest.NewStore()
	cal := clinic.Calendar{Location: time.UTC, Now: func() time.Time { return testNow }}

	handler := NewRouter(RouterConfig{
		Bookings:     clinic.NewBookingService(store, cal),
		Doctors:      clinic.NewDoctorService(store, store, cal),
		Patients:     clinic.NewPatientService(store),
		Store:        store,
		Calendar:     cal,
		Logger:       zerolog.Nop(),
		Env:          "test",
		Production:   production,
		Version:      "test",
		FrontendURL:  testOrigin,
		MaxBodyBytes: 1024,
		StartedAt:    testNow.Add(-time.Minute),
	})
	return &testServer{store: store, handler: handler}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func dataList(t *testing.T, body map[string]any) []any {
	t.Helper()
	data, ok := body["data"].([]any)
	require.True(t, ok, "data is not a list: %v", body["data"])
	return data
}

func TestBookingsForDate_InvalidDate(t *testing.T) {
	s := newTestServer(t, false)

	rec, body := s.do(t, http.MethodGet, "/api/bookings/date/not-a-date", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid date format", body["error"])
	assert.Equal(t, "Please use YYYY-MM-DD format", body["message"])
}

func TestBookingsForDate(t *testing.T) {
	s := newTestServer(t, false)
	s.store.AddBookings(
		clinic.Booking{ID: clinic.ParseRecordID("b1"), Date: "September 06, 2025", Start: "2025-09-06T14:00:00.000Z", Status: "visited"},
		clinic.Booking{ID: clinic.ParseRecordID("b2"), Start: "2025-09-06T09:00:00.000Z", Status: "active"},
		clinic.Booking{ID: clinic.ParseRecordID("b3"), Date: "September 07, 2025"},
	)

	rec, body := s.do(t, http.MethodGet, "/api/bookings/date/2025-09-06", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "September 06, 2025", body["date"])
	assert.Equal(t, "2025-09-06", body["requested_date"])
	assert.Equal(t, float64(2), body["count"])

	data := dataList(t, body)
	first := data[0].(map[string]any)
	assert.Equal(t, "b2", first["_id"])
	assert.Equal(t, "green", first["status_badge"])
	assert.Equal(t, "blue", data[1].(map[string]any)["status_badge"])
}

func TestTodayBookings(t *testing.T) {
	s := newTestServer(t, false)
	s.store.AddBookings(
		clinic.Booking{ID: clinic.ParseRecordID("b1"), Date: "September 08, 2025", Start: "2025-09-08T09:00:00.000Z"},
		clinic.Booking{ID: clinic.ParseRecordID("b2"), Start: "2025-09-08T08:00:00.000Z"},
	)

	rec, body := s.do(t, http.MethodGet, "/api/bookings/today", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "September 08, 2025", body["date"])
	assert.Equal(t, float64(2), body["count"])
}

func TestDoctorBookings_BlankID(t *testing.T) {
	s := newTestServer(t, false)

	rec, body := s.do(t, http.MethodGet, "/api/bookings/doctor/%20", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "doctor_id is required", body["error"])
}

func TestListBookings_StoreFailure(t *testing.T) {
	t.Run("development shows details", func(t *testing.T) {
		s := newTestServer(t, false)
		s.store.Err = errors.New("connection refused")

		rec, body := s.do(t, http.MethodGet, "/api/bookings", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to fetch bookings", body["error"])
		assert.Contains(t, body["details"], "connection refused")
	})

	t.Run("production hides details", func(t *testing.T) {
		s := newTestServer(t, true)
		s.store.Err = errors.New("connection refused")

		rec, body := s.do(t, http.MethodGet, "/api/bookings", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to fetch bookings", body["error"])
		assert.NotContains(t, body, "details")
	})
}

func TestSearchDoctors(t *testing.T) {
	s := newTestServer(t, false)
	s.store.AddDoctors(clinic.Doctor{ID: clinic.ParseRecordID("d1"), Name: "Dr. Ahmed", Status: clinic.StatusActive})

	rec, body := s.do(t, http.MethodGet, "/api/doctors/search/xy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "xy", body["query"])
	assert.Equal(t, float64(0), body["count"])
	assert.Empty(t, dataList(t, body))

	rec, body = s.do(t, http.MethodGet, "/api/doctors/search/AHM", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])

	rec, body = s.do(t, http.MethodGet, "/api/doctors/search/a", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Search query must be at least 2 characters long", body["error"])
}

func TestGetDoctor(t *testing.T) {
	s := newTestServer(t, false)
	oid := primitive.NewObjectID()
	s.store.AddDoctors(
		clinic.Doctor{
			ID:           clinic.RecordIDFromObjectID(oid),
			Name:         "Dr. Object",
			Status:       clinic.StatusActive,
			Availability: clinic.Availability{Days: []string{"monday"}},
		},
		clinic.Doctor{ID: clinic.ParseRecordID("legacy"), Name: "Dr. Legacy", Status: clinic.StatusActive},
	)

	rec, body := s.do(t, http.MethodGet, "/api/doctors/"+oid.Hex(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, oid.Hex(), body["doctor_id"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Dr. Object", data["name"])
	assert.Equal(t, true, data["available_today"])

	rec, body = s.do(t, http.MethodGet, "/api/doctors/legacy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data = body["data"].(map[string]any)
	assert.Equal(t, false, data["available_today"])
	availability := data["availability"].(map[string]any)
	assert.Equal(t, []any{}, availability["days"])

	rec, body = s.do(t, http.MethodGet, "/api/doctors/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Doctor not found", body["error"])
	assert.Equal(t, "unknown", body["doctor_id"])
}

func TestAvailableTodayAndActive(t *testing.T) {
	s := newTestServer(t, false)
	s.store.AddDoctors(
		clinic.Doctor{ID: clinic.ParseRecordID("d1"), Status: clinic.StatusActive, Availability: clinic.Availability{Days: []string{"monday"}}},
		clinic.Doctor{ID: clinic.ParseRecordID("d2"), Status: clinic.StatusInactive, Availability: clinic.Availability{Days: []string{"monday"}}},
	)

	rec, body := s.do(t, http.MethodGet, "/api/doctors/available-today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "monday", body["day"])
	assert.Equal(t, float64(1), body["count"])

	rec, body = s.do(t, http.MethodGet, "/api/doctors/active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])

	rec, body = s.do(t, http.MethodGet, "/api/doctors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
}

func TestDoctorTodayAppointments(t *testing.T) {
	s := newTestServer(t, false)
	s.store.AddBookings(
		clinic.Booking{ID: clinic.ParseRecordID("b1"), DoctorID: "d1", Date: "September 08, 2025", Time: "14:00"},
		clinic.Booking{ID: clinic.ParseRecordID("b2"), DoctorID: "d1", Date: "September 08, 2025", Time: "09:00"},
	)

	rec, body := s.do(t, http.MethodGet, "/api/doctors/d1/appointments/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "d1", body["doctor_id"])
	assert.Equal(t, "September 08, 2025", body["date"])
	data := dataList(t, body)
	require.Len(t, data, 2)
	assert.Equal(t, "b2", data[0].(map[string]any)["_id"])
}

func TestCreateDoctor(t *testing.T) {
	s := newTestServer(t, false)

	rec, body := s.do(t, http.MethodPost, "/api/doctors", `{"name":"Dr. New","availability":{"days":["Monday"],"start_time":"09:00","end_time":"17:00"}}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Doctor created successfully", body["message"])
	assert.NotEmpty(t, body["doctor_id"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, float64(3), data["max_appointments_per_hour"])
	assert.Equal(t, true, data["available_today"])
	assert.Equal(t, body["doctor_id"], data["_id"])

	stored := s.store.Doctors()
	require.Len(t, stored, 1)
	assert.Equal(t, "Dr. New", stored[0].Name)
}

func TestCreateDoctor_EmptyBody(t *testing.T) {
	s := newTestServer(t, false)

	rec, body := s.do(t, http.MethodPost, "/api/doctors", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, float64(3), data["max_appointments_per_hour"])
	assert.Equal(t, []any{}, data["availability"].(map[string]any)["days"])
	assert.Len(t, s.store.Doctors(), 1)
}

func TestCreateDoctor_BadBodies(t *testing.T) {
	s := newTestServer(t, false)

	rec, body := s.do(t, http.MethodPost, "/api/doctors", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", body["error"])

	big := `{"name":"` + strings.Repeat("x", 2048) + `"}`
	rec, body = s.do(t, http.MethodPost, "/api/doctors", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Request body too large", body["error"])

	assert.Empty(t, s.store.Doctors())
}

func TestDoctorStats(t *testing.T) {
	s := newTestServer(t, false)
	s.store.AddDoctors(
		clinic.Doctor{ID: clinic.ParseRecordID("d1"), Status: clinic.StatusActive, Availability: clinic.Availability{Days: []string{"monday"}}},
		clinic.Doctor{ID: clinic.ParseRecordID("d2"), Status: clinic.StatusInactive},
	)
	s.store.AddBookings(clinic.Booking{ID: clinic.ParseRecordID("b1"), Date: "September 08, 2025"})

	rec, body := s.do(t, http.MethodGet, "/api/doctors/stats/summary", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"total_doctors":      float64(2),
		"active_doctors":     float64(1),
		"available_today":    float64(1),
		"today_appointments": float64(1),
		"current_day":        "monday",
	}, body["data"])
}

func TestPatients(t *testing.T) {
	s := newTestServer(t, false)
	last := "2025-08-04"
	serial := "AB-100"
	s.store.AddPatients(
		clinic.Patient{ID: clinic.ParseRecordID("p1"), PhoneNumber: "+966500000001", SerialCode: &serial, LastAppointmentDate: &last},
		clinic.Patient{ID: clinic.ParseRecordID("p2"), PhoneNumber: "+966500000002"},
	)

	rec, body := s.do(t, http.MethodGet, "/api/patients/phone/+966500000001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "+966500000001", body["phone_number"])
	recency := body["data"].(map[string]any)["recency"].(map[string]any)
	assert.Equal(t, "warning", recency["level"])
	assert.Equal(t, float64(35), recency["days_since"])

	rec, body = s.do(t, http.MethodGet, "/api/patients/p2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p2", body["patient_id"])
	recency = body["data"].(map[string]any)["recency"].(map[string]any)
	assert.Equal(t, "normal", recency["level"])
	assert.Nil(t, recency["days_since"])

	rec, body = s.do(t, http.MethodGet, "/api/patients/phone/+10000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Patient not found", body["error"])
	assert.Equal(t, "+10000000000", body["phone_number"])

	rec, body = s.do(t, http.MethodGet, "/api/patients/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "nobody", body["patient_id"])

	rec, body = s.do(t, http.MethodGet, "/api/patients/phone/%20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Phone number is required", body["error"])

	rec, body = s.do(t, http.MethodGet, "/api/patients/search/ab-", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])

	rec, body = s.do(t, http.MethodGet, "/api/patients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
}

func TestPathParamsDecodedOnce(t *testing.T) {
	s := newTestServer(t, false)
	s.store.AddPatients(clinic.Patient{ID: clinic.ParseRecordID("p1"), PhoneNumber: "a%41bc"})

	rec, body := s.do(t, http.MethodGet, "/api/patients/phone/a%2541bc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a%41bc", body["phone_number"])

	rec, body = s.do(t, http.MethodGet, "/api/patients/phone/aAbc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "aAbc", body["phone_number"])

	rec, body = s.do(t, http.MethodGet, "/api/doctors/search/x%2541", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "x%41", body["query"])

	rec, body = s.do(t, http.MethodGet, "/api/doctors/search/a%2Fb", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a/b", body["query"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, false)

	rec, body := s.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body["error"])

	rec, body = s.do(t, http.MethodGet, "/api/bookings/nope/deeper", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body["error"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)

	rec, body := s.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	rec, body = s.do(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", body["status"])
	assert.Greater(t, body["uptime"], float64(0))
	assert.NotEmpty(t, body["timestamp"])

	rec, body = s.do(t, http.MethodGet, "/api/health/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"store": "ok"}, body["dependencies"])

	s.store.Err = errors.New("down")
	rec, body = s.do(t, http.MethodGet, "/api/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, map[string]any{"store": "down"}, body["dependencies"])
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, false)

	rec, _ := s.do(t, http.MethodGet, "/api/health", "")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "my-custom-id", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", testOrigin)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
