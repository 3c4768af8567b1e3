package booking

import (
	"context"
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

// txRunner abstracts db.Transactor so tests can run without a database.
type txRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier tells a doctor about a new booking. Delivery problems never fail
// the booking itself.
type Notifier interface {
	NotifyDoctor(ctx context.Context, doctorID int64, title, message string) error
}

type Service struct {
	appts    AppointmentRepository
	slots    SlotRepository
	tx       txRunner
	notifier Notifier
}

func NewService(appts AppointmentRepository, slots SlotRepository, tx txRunner, notifier Notifier) *Service {
	return &Service{appts: appts, slots: slots, tx: tx, notifier: notifier}
}

// IsSlotAvailable reports whether the triple is free: no appointment for the
// doctor on the date in the slot, not counting cancelled or deleted ones.
func (s *Service) IsSlotAvailable(ctx context.Context, doctorID int64, date time.Time, slot string) (bool, error) {
	exists, err := s.appts.ExistsActive(ctx, doctorID, normalizeDate(date), slot)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// BookRequest carries everything needed to place a booking. CreatedBy is the
// authenticated user placing it.
type BookRequest struct {
	PatientID      int64
	DoctorID       int64
	Date           time.Time
	TimeSlot       string
	ReasonForVisit string
	Notes          string
	CreatedBy      int64
}

// Book places an appointment. The availability pre-check gives a clean
// conflict message; the partial unique index on live rows is what actually
// guarantees single occupancy when two requests race. Both paths surface the
// same Conflict error. The result is re-read with the patient and doctor
// display fields joined in.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Detail, error) {
	if req.TimeSlot == "" {
		return nil, apperr.Invalid("time_slot is required")
	}

	a := &Appointment{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		Date:           normalizeDate(req.Date),
		TimeSlot:       req.TimeSlot,
		Status:         StatusScheduled,
		ReasonForVisit: req.ReasonForVisit,
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
		UpdatedBy:      req.CreatedBy,
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		taken, err := s.appts.ExistsActive(ctx, a.DoctorID, a.Date, a.TimeSlot)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("time slot is already booked")
		}
		if err := s.appts.Create(ctx, a); err != nil {
			return err
		}
		return s.slots.SetStatus(ctx, a.DoctorID, a.Date, a.TimeSlot, SlotBooked)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		// Best effort; the appointment is already committed.
		_ = s.notifier.NotifyDoctor(ctx, a.DoctorID, "New appointment",
			"A new appointment was booked for "+a.Date.Format("2006-01-02")+" "+a.TimeSlot)
	}
	return s.appts.GetDetail(ctx, a.ID)
}

// AvailableSlots lists the published open slots for a doctor on a date.
func (s *Service) AvailableSlots(ctx context.Context, doctorID int64, date time.Time) ([]*TimeSlot, error) {
	return s.slots.ListOpen(ctx, doctorID, normalizeDate(date))
}

// PublishSlots records generated schedule slots as available. Satisfies the
// staff domain's SlotWriter.
func (s *Service) PublishSlots(ctx context.Context, doctorID int64, date time.Time, labels []string) error {
	return s.slots.UpsertAvailable(ctx, doctorID, normalizeDate(date), labels)
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	return s.appts.GetDetail(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64, date *time.Time, limit, offset int) ([]*Appointment, int, error) {
	if date != nil {
		d := normalizeDate(*date)
		date = &d
	}
	return s.appts.ListByDoctor(ctx, doctorID, date, limit, offset)
}

// UpdateStatus overwrites an appointment's status. The status string is
// parsed strictly; beyond that any value may replace any other, including
// the one already stored. A non-empty reason is appended to the notes with a
// timestamp. Cancelling reopens the slot; un-cancelling books it again.
func (s *Service) UpdateStatus(ctx context.Context, id int64, statusStr, reason string, actorID int64) (*Appointment, error) {
	next, err := ParseStatus(statusStr)
	if err != nil {
		return nil, err
	}

	var a *Appointment
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		a, err = s.appts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		prev := a.Status

		a.Status = next
		a.UpdatedBy = actorID
		if reason != "" {
			a.Notes = AppendNote(a.Notes, reason, time.Now())
		}
		if err := s.appts.Update(ctx, a); err != nil {
			return err
		}
		switch {
		case next == StatusCancelled && prev != StatusCancelled:
			return s.slots.SetStatus(ctx, a.DoctorID, a.Date, a.TimeSlot, SlotAvailable)
		case prev == StatusCancelled && next != StatusCancelled:
			return s.slots.SetStatus(ctx, a.DoctorID, a.Date, a.TimeSlot, SlotBooked)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Reschedule moves a Scheduled or Confirmed appointment to a new date and
// slot, checking the new triple and swapping the slot rows in one
// transaction.
func (s *Service) Reschedule(ctx context.Context, id int64, newDate time.Time, newSlot string, actorID int64) (*Appointment, error) {
	if newSlot == "" {
		return nil, apperr.Invalid("time_slot is required")
	}
	newDate = normalizeDate(newDate)

	var a *Appointment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.appts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.Status != StatusScheduled && a.Status != StatusConfirmed {
			return apperr.Invalidf("cannot reschedule a %s appointment", a.Status)
		}

		taken, err := s.appts.ExistsActive(ctx, a.DoctorID, newDate, newSlot)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("time slot is already booked")
		}

		oldDate, oldSlot := a.Date, a.TimeSlot
		a.Date = newDate
		a.TimeSlot = newSlot
		a.UpdatedBy = actorID
		if err := s.appts.Update(ctx, a); err != nil {
			return err
		}
		if err := s.slots.SetStatus(ctx, a.DoctorID, oldDate, oldSlot, SlotAvailable); err != nil {
			return err
		}
		return s.slots.SetStatus(ctx, a.DoctorID, newDate, newSlot, SlotBooked)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete tombstones the appointment, stamps the acting user, and reopens its
// slot. A second delete reports not found; the state does not change again.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		a, err := s.appts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.appts.SoftDelete(ctx, id, actorID); err != nil {
			return err
		}
		return s.slots.SetStatus(ctx, a.DoctorID, a.Date, a.TimeSlot, SlotAvailable)
	})
}

// Complete forces the status to Completed regardless of the current value.
// Used when a consultation is recorded against the appointment.
func (s *Service) Complete(ctx context.Context, id, actorID int64) error {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.Status = StatusCompleted
	a.UpdatedBy = actorID
	return s.appts.Update(ctx, a)
}

// normalizeDate strips the time-of-day so date comparisons match rows stored
// as calendar dates.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
