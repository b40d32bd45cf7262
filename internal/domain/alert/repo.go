package alert

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows an alert listing. Zero values mean no restriction.
type Filter struct {
	State     string
	Urgency   string
	AlertType string
	NewbornID *uuid.UUID
}

// StateUrgencyCount is one cell of the alert distribution report.
type StateUrgencyCount struct {
	State   string `json:"state"`
	Urgency string `json:"urgency"`
	Count   int    `json:"count"`
}

type Repository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	Update(ctx context.Context, a *Alert) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Alert, int, error)
	// HasOpenOfType reports whether an active or in_attention alert of the
	// given type already exists for the newborn.
	HasOpenOfType(ctx context.Context, alertType string, newbornID uuid.UUID) (bool, error)
	CountByStateAndUrgency(ctx context.Context) ([]StateUrgencyCount, error)
}
