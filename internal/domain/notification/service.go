package notification

import (
	"context"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify records a message for a user. Callers that treat delivery as
// best-effort are expected to log rather than fail on an error here.
func (s *Service) Notify(ctx context.Context, userID int64, title, message string) (*Notification, error) {
	if userID <= 0 {
		return nil, apperr.Invalid("user_id is required")
	}
	if title == "" {
		return nil, apperr.Invalid("title is required")
	}
	n := &Notification{UserID: userID, Title: title, Message: message}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*Notification, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}
