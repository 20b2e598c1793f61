package clinic

import (
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	DefaultMaxAppointmentsPerHour = 3
)

// Booking is one scheduled or completed appointment. Doctor and patient are
// soft references; their names are copied onto the booking for display.
type Booking struct {
	ID          RecordID  `bson:"_id,omitempty" json:"_id"`
	DoctorID    string    `bson:"doctor_id" json:"doctor_id"`
	PatientID   string    `bson:"patient_id,omitempty" json:"patient_id,omitempty"`
	PatientName string    `bson:"patient_name" json:"patient_name"`
	DoctorName  string    `bson:"doctor_name,omitempty" json:"doctor_name,omitempty"`
	Summary     string    `bson:"summary,omitempty" json:"summary,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Start       string    `bson:"start,omitempty" json:"start,omitempty"`
	End         string    `bson:"end,omitempty" json:"end,omitempty"`
	Time        string    `bson:"time,omitempty" json:"time,omitempty"`
	Day         string    `bson:"day,omitempty" json:"day,omitempty"`
	Date        string    `bson:"date,omitempty" json:"date,omitempty"`
	Status      string    `bson:"status" json:"status"`
	EventID     string    `bson:"event_id,omitempty" json:"event_id,omitempty"`
	Rating      *float64  `bson:"rating,omitempty" json:"rating"`
	Comments    *string   `bson:"comments,omitempty" json:"comments"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// StartTime parses Start. ok is false when Start is missing or not an ISO
// 8601 timestamp.
func (b Booking) StartTime() (t time.Time, ok bool) {
	if b.Start == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, b.Start)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type Availability struct {
	Days            []string `bson:"days" json:"days"`
	StartTime       string   `bson:"start_time" json:"start_time"`
	EndTime         string   `bson:"end_time" json:"end_time"`
	LastBookingTime string   `bson:"last_booking_time" json:"last_booking_time"`
}

// WorksOn reports whether weekday (lowercase English name) is one of the
// availability days.
func (a Availability) WorksOn(weekday string) bool {
	for _, d := range a.Days {
		if d == weekday {
			return true
		}
	}
	return false
}

type Doctor struct {
	ID                     RecordID     `bson:"_id,omitempty" json:"_id"`
	Name                   string       `bson:"name" json:"name"`
	Color                  string       `bson:"color,omitempty" json:"color,omitempty"`
	Availability           Availability `bson:"availability" json:"availability"`
	MaxAppointmentsPerHour int          `bson:"max_appointments_per_hour" json:"max_appointments_per_hour"`
	Status                 string       `bson:"status" json:"status"`
	CreatedAt              time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time    `bson:"updated_at" json:"updated_at"`
}

type RecentMessage struct {
	MessageID string    `bson:"message_id" json:"message_id"`
	Type      string    `bson:"type" json:"type"` // incoming or outgoing
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

type Patient struct {
	ID                  RecordID        `bson:"_id,omitempty" json:"_id"`
	PhoneNumber         string          `bson:"phone_number" json:"phone_number"`
	SerialCode          *string         `bson:"serial_code,omitempty" json:"serial_code"`
	LastAppointmentDate *string         `bson:"last_appointment_date,omitempty" json:"last_appointment_date"`
	LastAppointmentDay  *string         `bson:"last_appointment_day,omitempty" json:"last_appointment_day"`
	NextEligibleDate    *string         `bson:"next_eligible_date,omitempty" json:"next_eligible_date"`
	TotalAppointments   int             `bson:"total_appointments" json:"total_appointments"`
	ActiveAppointments  int             `bson:"active_appointments" json:"active_appointments"`
	RecentMessages      []RecentMessage `bson:"recent_messages" json:"recent_messages"`
	LastMessageTime     time.Time       `bson:"last_message_time" json:"last_message_time"`
}

// DayListing is the result of a day query: the display date that was
// matched and the bookings that fall on it.
type DayListing struct {
	Date     string
	Bookings []Booking
}

// AvailableDoctors are the active doctors working on Weekday.
type AvailableDoctors struct {
	Weekday string
	Doctors []Doctor
}

// DoctorAppointments is one doctor's bookings for a display date.
type DoctorAppointments struct {
	DoctorID string
	Date     string
	Bookings []Booking
}

type DoctorStats struct {
	TotalDoctors      int64
	ActiveDoctors     int64
	AvailableToday    int64
	TodayAppointments int64
	CurrentDay        string
}
