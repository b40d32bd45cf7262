package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows an audit search. Zero values mean no restriction.
type Filter struct {
	UserID   string
	Action   string
	Entity   string
	EntityID string
	From     time.Time
	To       time.Time
}

// Repository is deliberately append-only: Create, point read and search.
// No update or delete methods exist, here or in any implementation.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	Search(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error)
}
