package storage

import (
	"context"

	"messageboard/internal/domain"
)

// MessageRepository is one open database session. It is not shared between
// requests; the caller closes it when done.
type MessageRepository interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, content string) (domain.Message, error)
	FindAll(ctx context.Context) ([]domain.Message, error)
	FindByID(ctx context.Context, id int64) (domain.Message, error)
	Close() error
}

// Dialer hands out fresh sessions.
type Dialer interface {
	Connect(ctx context.Context) (MessageRepository, error)
}
