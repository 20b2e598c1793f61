package clinic

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")

	// ErrInvalidInput marks caller mistakes that are rejected before the
	// store is queried.
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidDate   = fmt.Errorf("%w: invalid date format", ErrInvalidInput)
	ErrQueryTooShort = fmt.Errorf("%w: search query must be at least %d characters long", ErrInvalidInput, MinSearchLength)
	ErrMissingID     = fmt.Errorf("%w: identifier is required", ErrInvalidInput)
)

// DoctorFilter narrows doctor listings and counts. Empty fields match all.
type DoctorFilter struct {
	Status  string
	Weekday string // lowercase weekday that must be in availability.days
}

type BookingRepository interface {
	ListBookings(ctx context.Context) ([]Booking, error)
	FindBookingsByDate(ctx context.Context, displayDate string) ([]Booking, error)
	// Bounds are inclusive ISO-8601 strings compared against Booking.Start.
	FindBookingsStartingBetween(ctx context.Context, from, to string) ([]Booking, error)
	FindBookingsByDoctor(ctx context.Context, doctorID string) ([]Booking, error)
	// Sorted by Booking.Time ascending.
	FindDoctorBookingsByDate(ctx context.Context, doctorID, displayDate string) ([]Booking, error)
	CountBookingsByDate(ctx context.Context, displayDate string) (int64, error)
}

type DoctorRepository interface {
	ListDoctors(ctx context.Context, filter DoctorFilter) ([]Doctor, error)
	CountDoctors(ctx context.Context, filter DoctorFilter) (int64, error)
	// Case-insensitive literal substring match on name.
	SearchDoctors(ctx context.Context, fragment string) ([]Doctor, error)
	GetDoctor(ctx context.Context, id RecordID) (*Doctor, error)
	InsertDoctor(ctx context.Context, d *Doctor) error
}

type PatientRepository interface {
	ListPatients(ctx context.Context) ([]Patient, error)
	// Case-insensitive literal substring match on phone number or serial code.
	SearchPatients(ctx context.Context, fragment string) ([]Patient, error)
	GetPatientByPhone(ctx context.Context, phone string) (*Patient, error)
	GetPatient(ctx context.Context, id RecordID) (*Patient, error)
}

// Seeder loads fixture data. Only the seed tool uses it.
type Seeder interface {
	InsertBookings(ctx context.Context, bookings []Booking) error
	InsertPatients(ctx context.Context, patients []Patient) error
	InsertDoctor(ctx context.Context, d *Doctor) error
}

// Store is everything a storage backend provides.
type Store interface {
	BookingRepository
	DoctorRepository
	PatientRepository
	Seeder
	Ping(ctx context.Context) error
}
