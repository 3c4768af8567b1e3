package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id int64) (*Notification, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID int64) error
	UnreadCount(ctx context.Context, userID int64) (int, error)
}
