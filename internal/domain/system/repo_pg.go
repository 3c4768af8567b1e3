package system

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/db"
)

// =========== Audit Repository ===========

type auditRepoPG struct{ pool *pgxpool.Pool }

func NewAuditRepoPG(pool *pgxpool.Pool) AuditRepository { return &auditRepoPG{pool: pool} }

func (r *auditRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const auditCols = `id, user_id, role, action, details, ip_address, request_id, created_at`

func (r *auditRepoPG) Create(ctx context.Context, l *AuditLog) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO audit_log (user_id, role, action, details, ip_address, request_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		l.UserID, l.Role, l.Action, l.Details, l.IPAddress, l.RequestID,
	).Scan(&l.ID, &l.CreatedAt)
}

func (r *auditRepoPG) List(ctx context.Context, limit, offset int) ([]*AuditLog, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_log`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+auditCols+` FROM audit_log
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAuditLogs(rows, total)
}

func (r *auditRepoPG) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*AuditLog, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+auditCols+` FROM audit_log
		WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAuditLogs(rows, total)
}

func collectAuditLogs(rows pgx.Rows, total int) ([]*AuditLog, int, error) {
	var items []*AuditLog
	for rows.Next() {
		var l AuditLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Role, &l.Action, &l.Details,
			&l.IPAddress, &l.RequestID, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &l)
	}
	return items, total, rows.Err()
}

// =========== Setting Repository ===========

type settingRepoPG struct{ pool *pgxpool.Pool }

func NewSettingRepoPG(pool *pgxpool.Pool) SettingRepository { return &settingRepoPG{pool: pool} }

func (r *settingRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *settingRepoPG) Get(ctx context.Context, key string) (*Setting, error) {
	var s Setting
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT key, value, updated_at FROM system_setting WHERE key = $1`, key,
	).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("setting")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *settingRepoPG) Upsert(ctx context.Context, s *Setting) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO system_setting (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING updated_at`,
		s.Key, s.Value,
	).Scan(&s.UpdatedAt)
}

func (r *settingRepoPG) List(ctx context.Context) ([]*Setting, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT key, value, updated_at FROM system_setting ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}
