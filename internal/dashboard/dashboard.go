// Package dashboard derives the display state the dashboard renders next to
// raw records: patient recency, doctor availability today and booking badge
// tones. Nothing here touches the store or changes a record.
package dashboard

import (
	"strconv"
	"strings"
	"time"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
)

type Level string

const (
	LevelNormal  Level = "normal"
	LevelWarning Level = "warning"
	LevelUrgent  Level = "urgent"
)

const (
	WarningAfterDays = 30
	UrgentAfterDays  = 40
)

// Recency describes how long ago a patient was last seen. DaysSince is nil
// when there is no usable last appointment date.
type Recency struct {
	Level      Level  `json:"level"`
	DaysSince  *int   `json:"days_since"`
	HasHistory bool   `json:"has_history"`
	Message    string `json:"message"`
}

// PatientRecency buckets the days since lastAppointment, measured in
// calendar days in loc. Missing, sentinel or unparsable dates count as no
// history and are never an error.
func PatientRecency(lastAppointment *string, now time.Time, loc *time.Location) Recency {
	noHistory := Recency{Level: LevelNormal, Message: "No previous appointments"}

	if lastAppointment == nil {
		return noHistory
	}
	raw := strings.TrimSpace(*lastAppointment)
	switch strings.ToLower(raw) {
	case "", "null", "undefined":
		return noHistory
	}

	last, err := clinic.ParseDay(raw, loc)
	if err != nil {
		return noHistory
	}

	days := clinic.DayOf(now, loc).DaysSince(last)
	r := Recency{Level: levelFor(days), DaysSince: &days, HasHistory: true}
	switch {
	case days <= 0:
		r.Message = "Seen today"
	case days == 1:
		r.Message = "1 day since last visit"
	default:
		r.Message = strconv.Itoa(days) + " days since last visit"
	}
	return r
}

func levelFor(days int) Level {
	switch {
	case days >= UrgentAfterDays:
		return LevelUrgent
	case days >= WarningAfterDays:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// AvailableToday reports whether today's weekday is one of the doctor's
// availability days. Status is not considered.
func AvailableToday(d clinic.Doctor, today clinic.Day) bool {
	weekday := today.Weekday()
	for _, day := range d.Availability.Days {
		if strings.EqualFold(strings.TrimSpace(day), weekday) {
			return true
		}
	}
	return false
}

type Tone string

const (
	ToneGreen   Tone = "green"
	ToneBlue    Tone = "blue"
	ToneYellow  Tone = "yellow"
	ToneRed     Tone = "red"
	ToneEmerald Tone = "emerald"
	ToneGray    Tone = "gray"
)

var bookingTones = map[string]Tone{
	"active":      ToneGreen,
	"visited":     ToneBlue,
	"survey_sent": ToneYellow,
	"cancelled":   ToneRed,
	"completed":   ToneEmerald,
}

// StatusBadge returns the badge tone for a booking status. Unknown statuses
// are gray.
func StatusBadge(status string) Tone {
	if tone, ok := bookingTones[strings.ToLower(strings.TrimSpace(status))]; ok {
		return tone
	}
	return ToneGray
}
