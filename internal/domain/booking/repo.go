package booking

import (
	"context"
	"time"
)

// AppointmentRepository reads exclude soft-deleted rows. Create surfaces a
// conflict when the live-triple unique index rejects the insert.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	GetDetail(ctx context.Context, id int64) (*Detail, error)
	Update(ctx context.Context, a *Appointment) error
	SoftDelete(ctx context.Context, id, actorID int64) error
	ExistsActive(ctx context.Context, doctorID int64, date time.Time, slot string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID int64, date *time.Time, limit, offset int) ([]*Appointment, int, error)
}

// SlotRepository maintains the availability reference rows.
type SlotRepository interface {
	UpsertAvailable(ctx context.Context, doctorID int64, date time.Time, labels []string) error
	SetStatus(ctx context.Context, doctorID int64, date time.Time, label, status string) error
	ListOpen(ctx context.Context, doctorID int64, date time.Time) ([]*TimeSlot, error)
}
