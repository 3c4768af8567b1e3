package consultation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const consultCols = `id, appointment_id, symptoms, diagnosis, treatment_plan, notes,
	fee, is_paid, is_deleted, created_at, updated_at`

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	err := row.Scan(&c.ID, &c.AppointmentID, &c.Symptoms, &c.Diagnosis, &c.TreatmentPlan,
		&c.Notes, &c.Fee, &c.IsPaid, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("consultation")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO consultation (appointment_id, symptoms, diagnosis, treatment_plan, notes, fee)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		c.AppointmentID, c.Symptoms, c.Diagnosis, c.TreatmentPlan, c.Notes, c.Fee,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperr.Conflict("appointment already has a consultation")
		case "23503":
			return apperr.NotFound("appointment")
		}
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Consultation, error) {
	return scanConsultation(r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultCols+` FROM consultation WHERE id = $1 AND NOT is_deleted`, id))
}

func (r *repoPG) GetByAppointment(ctx context.Context, appointmentID int64) (*Consultation, error) {
	return scanConsultation(r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultCols+` FROM consultation WHERE appointment_id = $1 AND NOT is_deleted`,
		appointmentID))
}

func (r *repoPG) Update(ctx context.Context, c *Consultation) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultation
		SET symptoms=$2, diagnosis=$3, treatment_plan=$4, notes=$5, fee=$6, is_paid=$7, updated_at=NOW()
		WHERE id = $1 AND NOT is_deleted`,
		c.ID, c.Symptoms, c.Diagnosis, c.TreatmentPlan, c.Notes, c.Fee, c.IsPaid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("consultation")
	}
	return nil
}

func (r *repoPG) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE consultation SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("consultation")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM consultation WHERE NOT is_deleted`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+consultCols+` FROM consultation
		WHERE NOT is_deleted
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
