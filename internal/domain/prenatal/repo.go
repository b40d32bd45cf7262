package prenatal

import (
	"context"

	"github.com/google/uuid"
)

type ControlRepository interface {
	Create(ctx context.Context, c *Control) error
	GetByID(ctx context.Context, id uuid.UUID) (*Control, error)
	Update(ctx context.Context, c *Control) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Control, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Control, int, error)
}

type ExamRepository interface {
	Create(ctx context.Context, e *Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*Exam, error)
	Update(ctx context.Context, e *Exam) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByControl(ctx context.Context, controlID uuid.UUID) ([]*Exam, error)
}
