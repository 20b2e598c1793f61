package clinic

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     BookingRepository
	calendar Calendar
}

func NewBookingService(repo BookingRepository, calendar Calendar) *BookingService {
	return &BookingService{repo: repo, calendar: calendar}
}

// List returns every booking in store order.
func (s *BookingService) List(ctx context.Context) ([]Booking, error) {
	bookings, err := s.repo.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) ListToday(ctx context.Context) (DayListing, error) {
	return s.listDay(ctx, s.calendar.Today())
}

// ListForDate parses raw before touching the store; an unparsable value is
// ErrInvalidDate.
func (s *BookingService) ListForDate(ctx context.Context, raw string) (DayListing, error) {
	day, err := s.calendar.Parse(raw)
	if err != nil {
		return DayListing{}, err
	}
	return s.listDay(ctx, day)
}

// listDay matches bookings by display date and by start timestamp range,
// since stored records carry one or the other (or both).
func (s *BookingService) listDay(ctx context.Context, day Day) (DayListing, error) {
	display := day.Display()

	byDate, err := s.repo.FindBookingsByDate(ctx, display)
	if err != nil {
		return DayListing{}, fmt.Errorf("bookings by date: %w", err)
	}

	from, to := day.Range()
	byStart, err := s.repo.FindBookingsStartingBetween(ctx, from, to)
	if err != nil {
		return DayListing{}, fmt.Errorf("bookings by start: %w", err)
	}

	merged := MergeDay(byDate, byStart)
	zerolog.Ctx(ctx).Debug().
		Str("date", display).
		Int("by_date", len(byDate)).
		Int("by_start", len(byStart)).
		Int("merged", len(merged)).
		Msg("day bookings resolved")

	return DayListing{Date: display, Bookings: merged}, nil
}

func (s *BookingService) ListByDoctor(ctx context.Context, doctorID string) ([]Booking, error) {
	if strings.TrimSpace(doctorID) == "" {
		return nil, ErrMissingID
	}
	bookings, err := s.repo.FindBookingsByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by doctor: %w", err)
	}
	return bookings, nil
}
