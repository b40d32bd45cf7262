package newborn

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, n *Newborn) error
	GetByID(ctx context.Context, id uuid.UUID) (*Newborn, error)
	GetByBirthEvent(ctx context.Context, birthEventID uuid.UUID) (*Newborn, error)
	Update(ctx context.Context, n *Newborn) error
	// SetApgar writes one summary APGAR field. Used by the detail push-down
	// and nothing else.
	SetApgar(ctx context.Context, id uuid.UUID, minute, total int) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Newborn, int, error)
}

type APGARDetailRepository interface {
	Create(ctx context.Context, d *APGARDetail) error
	ExistsForMinute(ctx context.Context, newbornID uuid.UUID, minute int) (bool, error)
	ListByNewborn(ctx context.Context, newbornID uuid.UUID) ([]*APGARDetail, error)
}

type ComplicationRepository interface {
	Create(ctx context.Context, nc *NeonatalComplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*NeonatalComplication, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByNewborn(ctx context.Context, newbornID uuid.UUID) ([]*NeonatalComplication, error)
}
