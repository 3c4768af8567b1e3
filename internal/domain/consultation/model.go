// Package consultation records the clinical outcome of an appointment.
// Exactly one live consultation may exist per appointment.
package consultation

import "time"

type Consultation struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointment_id"`
	Symptoms      string    `json:"symptoms"`
	Diagnosis     string    `json:"diagnosis"`
	TreatmentPlan string    `json:"treatment_plan"`
	Notes         string    `json:"notes"`
	Fee           float64   `json:"fee"`
	IsPaid        bool      `json:"is_paid"`
	IsDeleted     bool      `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
