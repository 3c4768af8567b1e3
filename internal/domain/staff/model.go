// Package staff manages doctors, nurses, and doctor working schedules.
package staff

import "time"

type Doctor struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Specialty string    `json:"specialty"`
	UserID    *int64    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Nurse struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"full_name"`
	Department string    `json:"department"`
	UserID     *int64    `json:"user_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultSlotDuration is used when a schedule does not specify one.
const DefaultSlotDuration = 30

// Schedule is a working window for a doctor on a single day. Booking slots
// are generated from it by cutting the window into fixed-length pieces.
type Schedule struct {
	ID              int64     `json:"id"`
	DoctorID        int64     `json:"doctor_id"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"` // "HH:MM"
	EndTime         string    `json:"end_time"`   // "HH:MM"
	SlotDurationMin int       `json:"slot_duration_min"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NurseSchedule is a nurse's working window on a single day. Pure reference
// data; nothing is generated from it.
type NurseSchedule struct {
	ID        int64     `json:"id"`
	NurseID   int64     `json:"nurse_id"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time"` // "HH:MM"
	EndTime   string    `json:"end_time"`   // "HH:MM"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
