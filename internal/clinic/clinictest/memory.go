// Package clinictest provides an in-memory clinic.Store with the same
// matching rules as the database backends, for handler and service tests.
package clinictest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
)

// Store keeps records in insertion order. When Err is set every call fails
// with it, which stands in for a lost connection.
type Store struct {
	mu       sync.RWMutex
	bookings []clinic.Booking
	doctors  []clinic.Doctor
	patients []clinic.Patient

	Err error
}

var _ clinic.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{}
}

func (s *Store) AddBookings(bookings ...clinic.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, bookings...)
}

func (s *Store) AddDoctors(doctors ...clinic.Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = append(s.doctors, doctors...)
}

func (s *Store) AddPatients(patients ...clinic.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = append(s.patients, patients...)
}

// Doctors returns a copy of the stored doctors.
func (s *Store) Doctors() []clinic.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]clinic.Doctor(nil), s.doctors...)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Err
}

func filterBookings(all []clinic.Booking, keep func(clinic.Booking) bool) []clinic.Booking {
	out := []clinic.Booking{}
	for _, b := range all {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func containsFold(s, fragment string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(fragment))
}

func matchesID(stored, id clinic.RecordID) bool {
	return stored.String() == id.String()
}

// Bookings

func (s *Store) ListBookings(ctx context.Context) ([]clinic.Booking, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterBookings(s.bookings, func(clinic.Booking) bool { return true }), nil
}

func (s *Store) FindBookingsByDate(ctx context.Context, displayDate string) ([]clinic.Booking, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterBookings(s.bookings, func(b clinic.Booking) bool { return b.Date == displayDate }), nil
}

func (s *Store) FindBookingsStartingBetween(ctx context.Context, from, to string) ([]clinic.Booking, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterBookings(s.bookings, func(b clinic.Booking) bool {
		return b.Start != "" && b.Start >= from && b.Start <= to
	}), nil
}

func (s *Store) FindBookingsByDoctor(ctx context.Context, doctorID string) ([]clinic.Booking, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterBookings(s.bookings, func(b clinic.Booking) bool { return b.DoctorID == doctorID }), nil
}

func (s *Store) FindDoctorBookingsByDate(ctx context.Context, doctorID, displayDate string) ([]clinic.Booking, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := filterBookings(s.bookings, func(b clinic.Booking) bool {
		return b.DoctorID == doctorID && b.Date == displayDate
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (s *Store) CountBookingsByDate(ctx context.Context, displayDate string) (int64, error) {
	found, err := s.FindBookingsByDate(ctx, displayDate)
	return int64(len(found)), err
}

func (s *Store) InsertBookings(ctx context.Context, bookings []clinic.Booking) error {
	if s.Err != nil {
		return s.Err
	}
	s.AddBookings(bookings...)
	return nil
}

// Doctors

func doctorMatches(d clinic.Doctor, f clinic.DoctorFilter) bool {
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.Weekday != "" && !d.Availability.WorksOn(f.Weekday) {
		return false
	}
	return true
}

func (s *Store) ListDoctors(ctx context.Context, filter clinic.DoctorFilter) ([]clinic.Doctor, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []clinic.Doctor{}
	for _, d := range s.doctors {
		if doctorMatches(d, filter) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) CountDoctors(ctx context.Context, filter clinic.DoctorFilter) (int64, error) {
	found, err := s.ListDoctors(ctx, filter)
	return int64(len(found)), err
}

func (s *Store) SearchDoctors(ctx context.Context, fragment string) ([]clinic.Doctor, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []clinic.Doctor{}
	for _, d := range s.doctors {
		if containsFold(d.Name, fragment) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) GetDoctor(ctx context.Context, id clinic.RecordID) (*clinic.Doctor, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.doctors {
		if matchesID(d.ID, id) {
			found := d
			return &found, nil
		}
	}
	return nil, clinic.ErrDoctorNotFound
}

func (s *Store) InsertDoctor(ctx context.Context, d *clinic.Doctor) error {
	if s.Err != nil {
		return s.Err
	}
	s.AddDoctors(*d)
	return nil
}

// Patients

func (s *Store) ListPatients(ctx context.Context) ([]clinic.Patient, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]clinic.Patient{}, s.patients...), nil
}

func (s *Store) SearchPatients(ctx context.Context, fragment string) ([]clinic.Patient, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []clinic.Patient{}
	for _, p := range s.patients {
		serial := ""
		if p.SerialCode != nil {
			serial = *p.SerialCode
		}
		if containsFold(p.PhoneNumber, fragment) || containsFold(serial, fragment) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) GetPatientByPhone(ctx context.Context, phone string) (*clinic.Patient, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if p.PhoneNumber == phone {
			found := p
			return &found, nil
		}
	}
	return nil, clinic.ErrPatientNotFound
}

func (s *Store) GetPatient(ctx context.Context, id clinic.RecordID) (*clinic.Patient, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if matchesID(p.ID, id) {
			found := p
			return &found, nil
		}
	}
	return nil, clinic.ErrPatientNotFound
}

func (s *Store) InsertPatients(ctx context.Context, patients []clinic.Patient) error {
	if s.Err != nil {
		return s.Err
	}
	s.AddPatients(patients...)
	return nil
}
