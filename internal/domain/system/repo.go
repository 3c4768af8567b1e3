package system

import "context"

type AuditRepository interface {
	Create(ctx context.Context, l *AuditLog) error
	List(ctx context.Context, limit, offset int) ([]*AuditLog, int, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*AuditLog, int, error)
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, s *Setting) error
	List(ctx context.Context) ([]*Setting, error)
}
