package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/db"
)

// =========== Appointment Repository ===========

type apptRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository { return &apptRepoPG{pool: pool} }

func (r *apptRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const apptCols = `id, patient_id, doctor_id, appointment_date, time_slot, status,
	reason_for_visit, notes, created_by, updated_by, is_deleted, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.TimeSlot, &a.Status,
		&a.ReasonForVisit, &a.Notes, &a.CreatedBy, &a.UpdatedBy, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment")
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *apptRepoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment (patient_id, doctor_id, appointment_date, time_slot, status,
			reason_for_visit, notes, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.DoctorID, a.Date, a.TimeSlot, a.Status,
		a.ReasonForVisit, a.Notes, a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // the live-triple unique index caught a concurrent booking
			return apperr.Conflict("time slot is already booked")
		case "23503":
			return apperr.Invalid("unknown patient or doctor")
		}
	}
	return err
}

func (r *apptRepoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1 AND NOT is_deleted`, id))
}

// GetDetail joins the patient and doctor display fields onto the appointment.
// The patient's email lives on the linked user account, when there is one.
func (r *apptRepoPG) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	var d Detail
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.time_slot, a.status,
			a.reason_for_visit, a.notes, a.created_by, a.updated_by, a.is_deleted,
			a.created_at, a.updated_at,
			p.full_name, COALESCE(u.email, ''), p.phone, doc.full_name, doc.specialty,
			EXISTS (
				SELECT 1 FROM consultation c
				WHERE c.appointment_id = a.id AND NOT c.is_deleted
			)
		FROM appointment a
		JOIN patient p ON p.id = a.patient_id
		LEFT JOIN app_user u ON u.id = p.user_id
		JOIN doctor doc ON doc.id = a.doctor_id
		WHERE a.id = $1 AND NOT a.is_deleted`, id,
	).Scan(&d.ID, &d.PatientID, &d.DoctorID, &d.Date, &d.TimeSlot, &d.Status,
		&d.ReasonForVisit, &d.Notes, &d.CreatedBy, &d.UpdatedBy, &d.IsDeleted,
		&d.CreatedAt, &d.UpdatedAt,
		&d.PatientName, &d.PatientEmail, &d.PatientPhone, &d.DoctorName, &d.DoctorSpecialty,
		&d.HasConsultation)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *apptRepoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment
		SET appointment_date=$2, time_slot=$3, status=$4, notes=$5, updated_by=$6, updated_at=NOW()
		WHERE id = $1 AND NOT is_deleted`,
		a.ID, a.Date, a.TimeSlot, a.Status, a.Notes, a.UpdatedBy)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflict("time slot is already booked")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment")
	}
	return nil
}

func (r *apptRepoPG) SoftDelete(ctx context.Context, id, actorID int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET is_deleted = TRUE, updated_by = $2, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted`, id, actorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment")
	}
	return nil
}

// ExistsActive reports whether a live appointment occupies the triple.
// Cancelled and soft-deleted rows do not block the slot.
func (r *apptRepoPG) ExistsActive(ctx context.Context, doctorID int64, date time.Time, slot string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointment
			WHERE doctor_id = $1 AND appointment_date = $2 AND time_slot = $3
			  AND status <> $4 AND NOT is_deleted
		)`, doctorID, date, slot, StatusCancelled).Scan(&exists)
	return exists, err
}

func (r *apptRepoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE NOT is_deleted`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE NOT is_deleted
		ORDER BY appointment_date DESC, time_slot LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppointments(rows, total)
}

func (r *apptRepoPG) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE patient_id = $1 AND NOT is_deleted`,
		patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE patient_id = $1 AND NOT is_deleted
		ORDER BY appointment_date DESC, time_slot LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppointments(rows, total)
}

func (r *apptRepoPG) ListByDoctor(ctx context.Context, doctorID int64, date *time.Time, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE doctor_id = $1 AND NOT is_deleted`
	args := []interface{}{doctorID}
	if date != nil {
		where += ` AND appointment_date = $2`
		args = append(args, *date)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + apptCols + ` FROM appointment` + where +
		fmt.Sprintf(` ORDER BY appointment_date DESC, time_slot LIMIT $%d OFFSET $%d`,
			len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppointments(rows, total)
}

func collectAppointments(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

// =========== Slot Repository ===========

type slotRepoPG struct{ pool *pgxpool.Pool }

func NewSlotRepoPG(pool *pgxpool.Pool) SlotRepository { return &slotRepoPG{pool: pool} }

func (r *slotRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// UpsertAvailable inserts slot rows, leaving existing rows alone so a
// regenerated schedule cannot reopen a booked slot.
func (r *slotRepoPG) UpsertAvailable(ctx context.Context, doctorID int64, date time.Time, labels []string) error {
	for _, label := range labels {
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO time_slot (doctor_id, slot_date, label, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (doctor_id, slot_date, label) DO NOTHING`,
			doctorID, date, label, SlotAvailable)
		if err != nil {
			return err
		}
	}
	return nil
}

// SetStatus flips a slot row. Missing rows are fine: appointments may carry
// slots that were never published from a schedule.
func (r *slotRepoPG) SetStatus(ctx context.Context, doctorID int64, date time.Time, label, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE time_slot SET status = $4
		WHERE doctor_id = $1 AND slot_date = $2 AND label = $3`,
		doctorID, date, label, status)
	return err
}

func (r *slotRepoPG) ListOpen(ctx context.Context, doctorID int64, date time.Time) ([]*TimeSlot, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, doctor_id, slot_date, label, status FROM time_slot
		WHERE doctor_id = $1 AND slot_date = $2 AND status = $3
		ORDER BY label`, doctorID, date, SlotAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*TimeSlot
	for rows.Next() {
		var s TimeSlot
		if err := rows.Scan(&s.ID, &s.DoctorID, &s.Date, &s.Label, &s.Status); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}
