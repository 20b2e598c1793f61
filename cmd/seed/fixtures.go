package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/clinic-dashboard-api/internal/clinic"
)

var weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var bookingStatuses = []string{"active", "visited", "survey_sent", "cancelled", "completed"}

var treatments = []string{
	"Check-up",
	"Cleaning",
	"Filling",
	"Root canal",
	"Extraction",
	"Whitening",
	"Orthodontic review",
	"Crown fitting",
}

// fakeDoctors builds n doctors. Every third one gets a plain string ID the
// way externally imported records do.
func fakeDoctors(n int, now time.Time) []clinic.Doctor {
	doctors := make([]clinic.Doctor, 0, n)
	for i := 0; i < n; i++ {
		id := clinic.NewRecordID()
		if i%3 == 2 {
			id = clinic.ParseRecordID(fmt.Sprintf("doc-%03d", i+1))
		}

		status := clinic.StatusActive
		if gofakeit.Number(1, 10) == 1 {
			status = clinic.StatusInactive
		}

		doctors = append(doctors, clinic.Doctor{
			ID:    id,
			Name:  "Dr. " + gofakeit.FirstName() + " " + gofakeit.LastName(),
			Color: gofakeit.HexColor(),
			Availability: clinic.Availability{
				Days:            workingDays(gofakeit.Number(3, 5)),
				StartTime:       "09:00",
				EndTime:         "17:00",
				LastBookingTime: "16:30",
			},
			MaxAppointmentsPerHour: clinic.DefaultMaxAppointmentsPerHour,
			Status:                 status,
			CreatedAt:              now,
			UpdatedAt:              now,
		})
	}
	return doctors
}

// workingDays picks n distinct weekdays, in week order.
func workingDays(n int) []string {
	picked := make(map[int]bool, n)
	for len(picked) < n && len(picked) < len(weekdays) {
		picked[gofakeit.Number(0, len(weekdays)-1)] = true
	}
	days := make([]string, 0, n)
	for i, d := range weekdays {
		if picked[i] {
			days = append(days, d)
		}
	}
	return days
}

// fakePatients builds n patients with last visits spread over the past two
// months so every recency bucket shows up. Some have no history at all.
func fakePatients(n int, today clinic.Day) []clinic.Patient {
	patients := make([]clinic.Patient, 0, n)
	for i := 0; i < n; i++ {
		p := clinic.Patient{
			ID:                 clinic.NewRecordID(),
			PhoneNumber:        fmt.Sprintf("+9665%08d", gofakeit.Number(0, 99999999)),
			TotalAppointments:  gofakeit.Number(0, 12),
			ActiveAppointments: gofakeit.Number(0, 2),
			RecentMessages:     []clinic.RecentMessage{},
		}

		if gofakeit.Number(1, 4) > 1 {
			serial := fmt.Sprintf("P-%05d", i+1)
			p.SerialCode = &serial
		}

		if gofakeit.Number(1, 5) > 1 {
			last := clinic.DayOf(today.Start().AddDate(0, 0, -gofakeit.Number(0, 60)), today.Start().Location())
			date := last.ISO()
			weekday := last.Weekday()
			next := clinic.DayOf(last.Start().AddDate(0, 0, 30), last.Start().Location()).ISO()
			p.LastAppointmentDate = &date
			p.LastAppointmentDay = &weekday
			p.NextEligibleDate = &next
			p.LastMessageTime = last.Start().Add(10 * time.Hour)
			p.RecentMessages = append(p.RecentMessages, clinic.RecentMessage{
				MessageID: fmt.Sprintf("msg-%d-1", i+1),
				Type:      "outgoing",
				Text:      "Your appointment is confirmed.",
				Timestamp: p.LastMessageTime,
			})
		}

		patients = append(patients, p)
	}
	return patients
}

// fakeBookings builds n bookings on day. The representation rotates between
// display date only, start timestamp only, and both, matching the mix found
// in real data.
func fakeBookings(n int, day clinic.Day, doctors []clinic.Doctor, patients []clinic.Patient, now time.Time) []clinic.Booking {
	bookings := make([]clinic.Booking, 0, n)
	for i := 0; i < n; i++ {
		doctor := doctors[gofakeit.Number(0, len(doctors)-1)]
		patient := patients[gofakeit.Number(0, len(patients)-1)]

		start := day.Start().Add(time.Duration(gofakeit.Number(9, 16))*time.Hour + time.Duration(30*gofakeit.Number(0, 1))*time.Minute)
		end := start.Add(30 * time.Minute)
		status := bookingStatuses[gofakeit.Number(0, len(bookingStatuses)-1)]
		treatment := treatments[gofakeit.Number(0, len(treatments)-1)]

		b := clinic.Booking{
			ID:          clinic.NewRecordID(),
			DoctorID:    doctor.ID.String(),
			DoctorName:  doctor.Name,
			PatientID:   patient.ID.String(),
			PatientName: gofakeit.Name(),
			Summary:     treatment,
			Description: treatment + " for " + patient.PhoneNumber,
			Day:         day.Weekday(),
			Status:      status,
			EventID:     fmt.Sprintf("evt-%s-%02d", day.ISO(), i+1),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		switch i % 3 {
		case 0:
			b.Date = day.Display()
			b.Time = start.Format("15:04")
		case 1:
			b.Start = start.UTC().Format("2006-01-02T15:04:05.000Z")
			b.End = end.UTC().Format("2006-01-02T15:04:05.000Z")
		default:
			b.Date = day.Display()
			b.Time = start.Format("15:04")
			b.Start = start.UTC().Format("2006-01-02T15:04:05.000Z")
			b.End = end.UTC().Format("2006-01-02T15:04:05.000Z")
		}

		if status == "completed" {
			rating := float64(gofakeit.Number(3, 5))
			b.Rating = &rating
		}

		bookings = append(bookings, b)
	}
	return bookings
}
