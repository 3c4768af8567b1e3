// Package booking implements appointment scheduling: slot availability,
// booking, status lifecycle, rescheduling, and soft deletion.
package booking

import (
	"fmt"
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

// Status is the appointment lifecycle state. The set is closed: values only
// enter the system through ParseStatus and comparisons are exact. There is no
// transition table; any parsed status may replace any other.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusConfirmed Status = "Confirmed"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
	StatusNoShow    Status = "NoShow"
)

var validStatuses = map[Status]bool{
	StatusScheduled: true, StatusConfirmed: true, StatusCancelled: true,
	StatusCompleted: true, StatusNoShow: true,
}

// ParseStatus validates a status string. No case folding, no aliases;
// anything outside the five known values is rejected.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !validStatuses[st] {
		return "", apperr.Invalidf("invalid status value: %q", s)
	}
	return st, nil
}

// Appointment is a booking of one doctor's time slot on one date. The
// (DoctorID, Date, TimeSlot) triple is unique among live rows; a partial
// unique index enforces it under concurrency.
type Appointment struct {
	ID             int64     `json:"id"`
	PatientID      int64     `json:"patient_id"`
	DoctorID       int64     `json:"doctor_id"`
	Date           time.Time `json:"date"`      // calendar date, time part zero
	TimeSlot       string    `json:"time_slot"` // label, e.g. "09:00-09:30"
	Status         Status    `json:"status"`
	ReasonForVisit string    `json:"reason_for_visit"`
	Notes          string    `json:"notes"`
	CreatedBy      int64     `json:"created_by"`
	UpdatedBy      int64     `json:"updated_by"`
	IsDeleted      bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Detail is an appointment joined with patient and doctor display fields and
// a flag for whether its consultation has been recorded. This is the shape
// handed back to API callers on single reads.
type Detail struct {
	Appointment
	PatientName     string `json:"patient_name"`
	PatientEmail    string `json:"patient_email"`
	PatientPhone    string `json:"patient_phone"`
	DoctorName      string `json:"doctor_name"`
	DoctorSpecialty string `json:"doctor_specialty"`
	HasConsultation bool   `json:"has_consultation"`
}

// AppendNote adds a timestamped line to the running notes. Existing content
// is never overwritten; history accumulates in chronological order.
func AppendNote(notes, line string, at time.Time) string {
	entry := fmt.Sprintf("[%s] %s", at.Format("2006-01-02 15:04"), line)
	if notes == "" {
		return entry
	}
	return notes + "\n" + entry
}

// Slot statuses for the availability table.
const (
	SlotAvailable = "Available"
	SlotBooked    = "Booked"
)

// TimeSlot is generated availability reference data cut from a doctor's
// schedule. Appointments carry the triple themselves; slot rows exist so
// clients can list what is open.
type TimeSlot struct {
	ID       int64     `json:"id"`
	DoctorID int64     `json:"doctor_id"`
	Date     time.Time `json:"date"`
	Label    string    `json:"label"`
	Status   string    `json:"status"`
}
