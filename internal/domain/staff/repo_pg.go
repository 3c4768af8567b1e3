package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/db"
)

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const doctorCols = `id, full_name, specialty, user_id, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.FullName, &d.Specialty, &d.UserID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("doctor")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor (full_name, specialty, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		d.FullName, d.Specialty, d.UserID,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor SET full_name=$2, specialty=$3, user_id=$4, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.FullName, d.Specialty, d.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("doctor")
	}
	return nil
}

func (r *doctorRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("doctor")
	}
	return nil
}

func (r *doctorRepoPG) List(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	where := ``
	args := []interface{}{}
	if specialty != "" {
		where = ` WHERE specialty = $1`
		args = append(args, specialty)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctor`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + doctorCols + ` FROM doctor` + where +
		fmt.Sprintf(` ORDER BY full_name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

// =========== Nurse Repository ===========

type nurseRepoPG struct{ pool *pgxpool.Pool }

func NewNurseRepoPG(pool *pgxpool.Pool) NurseRepository { return &nurseRepoPG{pool: pool} }

func (r *nurseRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const nurseCols = `id, full_name, department, user_id, created_at, updated_at`

func scanNurse(row pgx.Row) (*Nurse, error) {
	var n Nurse
	err := row.Scan(&n.ID, &n.FullName, &n.Department, &n.UserID, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("nurse")
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *nurseRepoPG) Create(ctx context.Context, n *Nurse) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO nurse (full_name, department, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		n.FullName, n.Department, n.UserID,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

func (r *nurseRepoPG) GetByID(ctx context.Context, id int64) (*Nurse, error) {
	return scanNurse(r.conn(ctx).QueryRow(ctx,
		`SELECT `+nurseCols+` FROM nurse WHERE id = $1`, id))
}

func (r *nurseRepoPG) Update(ctx context.Context, n *Nurse) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE nurse SET full_name=$2, department=$3, user_id=$4, updated_at=NOW()
		WHERE id = $1`,
		n.ID, n.FullName, n.Department, n.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("nurse")
	}
	return nil
}

func (r *nurseRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM nurse WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("nurse")
	}
	return nil
}

func (r *nurseRepoPG) List(ctx context.Context, limit, offset int) ([]*Nurse, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM nurse`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+nurseCols+` FROM nurse ORDER BY full_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Nurse
	for rows.Next() {
		n, err := scanNurse(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, rows.Err()
}

// =========== Schedule Repository ===========

type scheduleRepoPG struct{ pool *pgxpool.Pool }

func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository { return &scheduleRepoPG{pool: pool} }

func (r *scheduleRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const scheduleCols = `id, doctor_id, schedule_date, start_time, end_time, slot_duration_min, created_at, updated_at`

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var s Schedule
	err := row.Scan(&s.ID, &s.DoctorID, &s.Date, &s.StartTime, &s.EndTime,
		&s.SlotDurationMin, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("schedule")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepoPG) Create(ctx context.Context, s *Schedule) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor_schedule (doctor_id, schedule_date, start_time, end_time, slot_duration_min)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		s.DoctorID, s.Date, s.StartTime, s.EndTime, s.SlotDurationMin,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *scheduleRepoPG) GetByID(ctx context.Context, id int64) (*Schedule, error) {
	return scanSchedule(r.conn(ctx).QueryRow(ctx,
		`SELECT `+scheduleCols+` FROM doctor_schedule WHERE id = $1`, id))
}

func (r *scheduleRepoPG) ListByDoctor(ctx context.Context, doctorID int64, from, to time.Time) ([]*Schedule, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+scheduleCols+` FROM doctor_schedule
		WHERE doctor_id = $1 AND schedule_date >= $2 AND schedule_date <= $3
		ORDER BY schedule_date, start_time`,
		doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *scheduleRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor_schedule WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("schedule")
	}
	return nil
}

// =========== Nurse Schedule Repository ===========

type nurseScheduleRepoPG struct{ pool *pgxpool.Pool }

func NewNurseScheduleRepoPG(pool *pgxpool.Pool) NurseScheduleRepository {
	return &nurseScheduleRepoPG{pool: pool}
}

func (r *nurseScheduleRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const nurseScheduleCols = `id, nurse_id, schedule_date, start_time, end_time, created_at, updated_at`

func scanNurseSchedule(row pgx.Row) (*NurseSchedule, error) {
	var s NurseSchedule
	err := row.Scan(&s.ID, &s.NurseID, &s.Date, &s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("nurse schedule")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *nurseScheduleRepoPG) Create(ctx context.Context, s *NurseSchedule) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO nurse_schedule (nurse_id, schedule_date, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		s.NurseID, s.Date, s.StartTime, s.EndTime,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *nurseScheduleRepoPG) GetByID(ctx context.Context, id int64) (*NurseSchedule, error) {
	return scanNurseSchedule(r.conn(ctx).QueryRow(ctx,
		`SELECT `+nurseScheduleCols+` FROM nurse_schedule WHERE id = $1`, id))
}

func (r *nurseScheduleRepoPG) ListByNurse(ctx context.Context, nurseID int64, from, to time.Time) ([]*NurseSchedule, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+nurseScheduleCols+` FROM nurse_schedule
		WHERE nurse_id = $1 AND schedule_date >= $2 AND schedule_date <= $3
		ORDER BY schedule_date, start_time`,
		nurseID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*NurseSchedule
	for rows.Next() {
		s, err := scanNurseSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *nurseScheduleRepoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM nurse_schedule WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("nurse schedule")
	}
	return nil
}
