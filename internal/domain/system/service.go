package system

import (
	"context"
	"fmt"
	"strconv"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/middleware"
)

type Service struct {
	audit    AuditRepository
	settings SettingRepository
}

func NewService(audit AuditRepository, settings SettingRepository) *Service {
	return &Service{audit: audit, settings: settings}
}

// Record persists an audit entry. It satisfies middleware.AuditRecorder and
// runs after the response is written, so it uses a background context rather
// than the request's, which may already be cancelled.
func (s *Service) Record(entry middleware.AuditEntry) error {
	l := &AuditLog{
		UserID:    entry.UserID,
		Role:      entry.Role,
		Action:    entry.Action,
		Details:   fmt.Sprintf("%s %s -> %d", entry.Method, entry.Path, entry.StatusCode),
		IPAddress: entry.IPAddress,
		RequestID: entry.RequestID,
	}
	return s.audit.Create(context.Background(), l)
}

func (s *Service) ListAuditLogs(ctx context.Context, limit, offset int) ([]*AuditLog, int, error) {
	return s.audit.List(ctx, limit, offset)
}

func (s *Service) ListAuditLogsByUser(ctx context.Context, userID int64, limit, offset int) ([]*AuditLog, int, error) {
	return s.audit.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) GetSetting(ctx context.Context, key string) (*Setting, error) {
	if key == "" {
		return nil, apperr.Invalid("setting key is required")
	}
	return s.settings.Get(ctx, key)
}

func (s *Service) PutSetting(ctx context.Context, key, value string) (*Setting, error) {
	if key == "" {
		return nil, apperr.Invalid("setting key is required")
	}
	setting := &Setting{Key: key, Value: value}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *Service) ListSettings(ctx context.Context) ([]*Setting, error) {
	return s.settings.List(ctx)
}

// SettingInt reads a numeric setting, returning def when the key is absent
// or does not parse.
func (s *Service) SettingInt(ctx context.Context, key string, def int) int {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(setting.Value)
	if err != nil {
		return def
	}
	return n
}

// SettingBool reads a boolean setting, returning def when the key is absent
// or does not parse.
func (s *Service) SettingBool(ctx context.Context, key string, def bool) bool {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return def
	}
	b, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return def
	}
	return b
}
