package consultation

import (
	"context"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

// AppointmentGateway is the slice of the booking domain this package needs:
// confirm an appointment is live, and force it to Completed once its
// consultation exists.
type AppointmentGateway interface {
	Exists(ctx context.Context, id int64) error
	Complete(ctx context.Context, id, actorID int64) error
}

type txRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	consultations Repository
	appointments  AppointmentGateway
	tx            txRunner
}

func NewService(consultations Repository, appointments AppointmentGateway, tx txRunner) *Service {
	return &Service{consultations: consultations, appointments: appointments, tx: tx}
}

// Create records a consultation for a live appointment and marks the
// appointment Completed, all in one transaction. An appointment can have at
// most one live consultation; a second attempt conflicts.
func (s *Service) Create(ctx context.Context, con *Consultation, actorID int64) error {
	if con.AppointmentID <= 0 {
		return apperr.Invalid("appointment_id is required")
	}
	if con.Fee < 0 {
		return apperr.Invalid("fee must not be negative")
	}

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.appointments.Exists(ctx, con.AppointmentID); err != nil {
			return err
		}

		if _, err := s.consultations.GetByAppointment(ctx, con.AppointmentID); err == nil {
			return apperr.Conflict("appointment already has a consultation")
		} else if !apperr.IsNotFound(err) {
			return err
		}

		if err := s.consultations.Create(ctx, con); err != nil {
			return err
		}
		return s.appointments.Complete(ctx, con.AppointmentID, actorID)
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*Consultation, error) {
	return s.consultations.GetByID(ctx, id)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID int64) (*Consultation, error) {
	return s.consultations.GetByAppointment(ctx, appointmentID)
}

// Update replaces the clinical fields. Payment state is only touched through
// MarkPaid.
func (s *Service) Update(ctx context.Context, con *Consultation) error {
	existing, err := s.consultations.GetByID(ctx, con.ID)
	if err != nil {
		return err
	}
	con.AppointmentID = existing.AppointmentID
	con.IsPaid = existing.IsPaid
	return s.consultations.Update(ctx, con)
}

// MarkPaid is idempotent: paying an already-paid consultation succeeds
// without touching the row.
func (s *Service) MarkPaid(ctx context.Context, id int64) (*Consultation, error) {
	con, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if con.IsPaid {
		return con, nil
	}
	con.IsPaid = true
	if err := s.consultations.Update(ctx, con); err != nil {
		return nil, err
	}
	return con, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.consultations.SoftDelete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	return s.consultations.List(ctx, limit, offset)
}
