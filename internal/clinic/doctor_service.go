package clinic

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// MinSearchLength is the shortest trimmed query a name, phone or serial
// search accepts.
const MinSearchLength = 2

type DoctorService struct {
	doctors  DoctorRepository
	bookings BookingRepository
	calendar Calendar
}

func NewDoctorService(doctors DoctorRepository, bookings BookingRepository, calendar Calendar) *DoctorService {
	return &DoctorService{
		doctors:  doctors,
		bookings: bookings,
		calendar: calendar,
	}
}

func (s *DoctorService) List(ctx context.Context) ([]Doctor, error) {
	doctors, err := s.doctors.ListDoctors(ctx, DoctorFilter{})
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *DoctorService) ListActive(ctx context.Context) ([]Doctor, error) {
	doctors, err := s.doctors.ListDoctors(ctx, DoctorFilter{Status: StatusActive})
	if err != nil {
		return nil, fmt.Errorf("list active doctors: %w", err)
	}
	return doctors, nil
}

// ListAvailableToday returns active doctors whose availability includes the
// current weekday. Inactive doctors are excluded even on their days.
func (s *DoctorService) ListAvailableToday(ctx context.Context) (AvailableDoctors, error) {
	weekday := s.calendar.Today().Weekday()
	doctors, err := s.doctors.ListDoctors(ctx, availableOn(weekday))
	if err != nil {
		return AvailableDoctors{}, fmt.Errorf("list available doctors: %w", err)
	}
	return AvailableDoctors{Weekday: weekday, Doctors: doctors}, nil
}

// Search returns the trimmed query alongside doctors whose name contains it.
func (s *DoctorService) Search(ctx context.Context, query string) (string, []Doctor, error) {
	q, err := searchTerm(query)
	if err != nil {
		return "", nil, err
	}
	doctors, err := s.doctors.SearchDoctors(ctx, q)
	if err != nil {
		return "", nil, fmt.Errorf("search doctors: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("query", q).Int("matches", len(doctors)).Msg("doctor search")
	return q, doctors, nil
}

// Get accepts either an object ID hex string or a plain string ID.
func (s *DoctorService) Get(ctx context.Context, id string) (*Doctor, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingID
	}
	d, err := s.doctors.GetDoctor(ctx, ParseRecordID(id))
	if err != nil {
		return nil, fmt.Errorf("get doctor %s: %w", id, err)
	}
	return d, nil
}

// TodayAppointments lists the doctor's bookings dated today, by time.
func (s *DoctorService) TodayAppointments(ctx context.Context, doctorID string) (DoctorAppointments, error) {
	if strings.TrimSpace(doctorID) == "" {
		return DoctorAppointments{}, ErrMissingID
	}
	date := s.calendar.Today().Display()
	bookings, err := s.bookings.FindDoctorBookingsByDate(ctx, doctorID, date)
	if err != nil {
		return DoctorAppointments{}, fmt.Errorf("doctor appointments today: %w", err)
	}
	return DoctorAppointments{DoctorID: doctorID, Date: date, Bookings: bookings}, nil
}

// Create stores a new doctor. Missing status and hourly limit get their
// defaults; availability days are normalised to lowercase.
func (s *DoctorService) Create(ctx context.Context, d Doctor) (*Doctor, error) {
	now := s.calendar.Current()

	d.ID = NewRecordID()
	if d.Status == "" {
		d.Status = StatusActive
	}
	if d.MaxAppointmentsPerHour == 0 {
		d.MaxAppointmentsPerHour = DefaultMaxAppointmentsPerHour
	}
	d.Availability.Days = normalizeDays(d.Availability.Days)
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := s.doctors.InsertDoctor(ctx, &d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("doctor_id", d.ID.String()).
		Str("name", d.Name).
		Str("status", d.Status).
		Msg("doctor created")

	return &d, nil
}

// Summary aggregates doctor counts and today's booking count.
func (s *DoctorService) Summary(ctx context.Context) (DoctorStats, error) {
	today := s.calendar.Today()
	stats := DoctorStats{CurrentDay: today.Weekday()}

	var err error
	if stats.TotalDoctors, err = s.doctors.CountDoctors(ctx, DoctorFilter{}); err != nil {
		return DoctorStats{}, fmt.Errorf("count doctors: %w", err)
	}
	if stats.ActiveDoctors, err = s.doctors.CountDoctors(ctx, DoctorFilter{Status: StatusActive}); err != nil {
		return DoctorStats{}, fmt.Errorf("count active doctors: %w", err)
	}
	if stats.AvailableToday, err = s.doctors.CountDoctors(ctx, availableOn(stats.CurrentDay)); err != nil {
		return DoctorStats{}, fmt.Errorf("count available doctors: %w", err)
	}
	if stats.TodayAppointments, err = s.bookings.CountBookingsByDate(ctx, today.Display()); err != nil {
		return DoctorStats{}, fmt.Errorf("count today's bookings: %w", err)
	}
	return stats, nil
}

func availableOn(weekday string) DoctorFilter {
	return DoctorFilter{Status: StatusActive, Weekday: weekday}
}

func searchTerm(query string) (string, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < MinSearchLength {
		return "", ErrQueryTooShort
	}
	return q, nil
}

func normalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := make(map[string]struct{}, len(days))
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
