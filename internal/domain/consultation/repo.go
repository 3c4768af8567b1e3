package consultation

import "context"

// Repository reads exclude soft-deleted rows. Create surfaces a conflict
// when a live consultation already exists for the appointment.
type Repository interface {
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id int64) (*Consultation, error)
	GetByAppointment(ctx context.Context, appointmentID int64) (*Consultation, error)
	Update(ctx context.Context, c *Consultation) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Consultation, int, error)
}
