package birth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Event, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Event, int, error)
	CountByRobsonGroup(ctx context.Context, from, to time.Time) (map[int]int, error)
}

type ComplicationRepository interface {
	Create(ctx context.Context, mc *MaternalComplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*MaternalComplication, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByBirthEvent(ctx context.Context, birthEventID uuid.UUID) ([]*MaternalComplication, error)
}
