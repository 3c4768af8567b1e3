// Package prescription manages prescriptions issued after a consultation,
// their medication line items, and the medication catalog.
package prescription

import (
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

// Status is the lifecycle state of a prescription.
type Status string

const (
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

var validStatuses = map[Status]bool{
	StatusActive:    true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// ParseStatus validates a raw status value. Matching is case sensitive.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !validStatuses[s] {
		return "", apperr.Invalidf("invalid prescription status: %q", raw)
	}
	return s, nil
}

// Medication is a catalog entry doctors pick from when prescribing.
type Medication struct {
	ID           int64     `json:"id"`
	DrugName     string    `json:"drug_name"`
	Category     string    `json:"category"`
	CommonDosage string    `json:"common_dosage"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Prescription ties a set of medication details to a consultation.
type Prescription struct {
	ID             int64     `json:"id"`
	ConsultationID int64     `json:"consultation_id"`
	PatientID      int64     `json:"patient_id"`
	DoctorID       int64     `json:"doctor_id"`
	Status         Status    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	IsDeleted      bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Details []*Detail `json:"details,omitempty"`
}

// Detail is one medication line on a prescription.
type Detail struct {
	ID             int64  `json:"id"`
	PrescriptionID int64  `json:"prescription_id"`
	MedicationID   int64  `json:"medication_id"`
	Dose           string `json:"dose"`
	Frequency      string `json:"frequency"`
	Notes          string `json:"notes,omitempty"`
}
