package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hhm/maternity/internal/domain/errs"
)

type Service struct {
	alerts Repository
}

func NewService(alerts Repository) *Service {
	return &Service{alerts: alerts}
}

// -- Creation --

func validateAlert(a *Alert) error {
	if !validTypes[a.AlertType] {
		return errs.Validationf("alert_type", "invalid value: %s", a.AlertType)
	}
	if !validUrgencies[a.Urgency] {
		return errs.Validationf("urgency", "invalid value: %s", a.Urgency)
	}
	if a.Title == "" {
		return errs.Validation("title", "is required")
	}
	return nil
}

// Create raises a new alert. Every alert starts active.
func (s *Service) Create(ctx context.Context, a *Alert) error {
	if err := validateAlert(a); err != nil {
		return err
	}
	a.State = StateActive
	a.RaisedAt = time.Now()
	return s.alerts.Create(ctx, a)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return s.alerts.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Alert, int, error) {
	if f.State != "" && !validStates[f.State] {
		return nil, 0, errs.Validationf("state", "invalid value: %s", f.State)
	}
	if f.Urgency != "" && !validUrgencies[f.Urgency] {
		return nil, 0, errs.Validationf("urgency", "invalid value: %s", f.Urgency)
	}
	return s.alerts.List(ctx, f, limit, offset)
}

// -- Critical condition detection --

// Observation carries the newborn findings the detector evaluates. The
// ids are copied onto any alert raised so the ward can navigate back.
type Observation struct {
	NewbornID    uuid.UUID
	BirthEventID *uuid.UUID
	PatientID    *uuid.UUID
	Apgar5       *int
	WeightGrams  int
	Resuscitated bool
	RaisedBy     string
}

// EvaluateNewborn checks the observation against the critical condition
// triggers and raises one alert per condition met. An open alert of the
// same type for the same newborn suppresses re-firing, so re-saving an
// evaluation does not duplicate the board. Returns the alerts raised.
func (s *Service) EvaluateNewborn(ctx context.Context, obs Observation) ([]*Alert, error) {
	var raised []*Alert

	if obs.Apgar5 != nil && *obs.Apgar5 < 7 {
		a, err := s.raise(ctx, obs, TypeAPGARCritical, UrgencyCritical,
			"Critical APGAR score",
			fmt.Sprintf("APGAR at 5 minutes is %d, below 7", *obs.Apgar5))
		if err != nil {
			return raised, err
		}
		if a != nil {
			raised = append(raised, a)
		}
	}

	if obs.WeightGrams > 0 && obs.WeightGrams < 2500 {
		urgency := UrgencyHigh
		if obs.WeightGrams < 1500 {
			urgency = UrgencyCritical
		}
		a, err := s.raise(ctx, obs, TypeLowWeight, urgency,
			"Low birth weight",
			fmt.Sprintf("Birth weight is %d g, below 2500 g", obs.WeightGrams))
		if err != nil {
			return raised, err
		}
		if a != nil {
			raised = append(raised, a)
		}
	}

	if obs.Resuscitated {
		a, err := s.raise(ctx, obs, TypeResuscitation, UrgencyCritical,
			"Resuscitation required",
			"Newborn required resuscitation at delivery")
		if err != nil {
			return raised, err
		}
		if a != nil {
			raised = append(raised, a)
		}
	}

	return raised, nil
}

// raise creates one alert unless an open alert of the same type already
// covers the newborn. Returns nil without error when suppressed.
func (s *Service) raise(ctx context.Context, obs Observation, alertType, urgency, title, description string) (*Alert, error) {
	open, err := s.alerts.HasOpenOfType(ctx, alertType, obs.NewbornID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, nil
	}
	newbornID := obs.NewbornID
	a := &Alert{
		AlertType:    alertType,
		Urgency:      urgency,
		State:        StateActive,
		Title:        title,
		Description:  description,
		NewbornID:    &newbornID,
		BirthEventID: obs.BirthEventID,
		PatientID:    obs.PatientID,
		RaisedBy:     obs.RaisedBy,
		RaisedAt:     time.Now(),
	}
	if err := s.alerts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// -- Lifecycle --

// MarkInAttention moves an active alert to in_attention and stamps the
// attending user. On any other state the alert is returned untouched
// together with a StateTransitionWarning.
func (s *Service) MarkInAttention(ctx context.Context, id uuid.UUID, userID string) (*Alert, error) {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.State != StateActive {
		return a, errs.TransitionWarning("alert is %s, not active; attention not recorded", a.State)
	}
	now := time.Now()
	a.State = StateInAttention
	a.AttendedBy = &userID
	a.AttendedAt = &now
	if err := s.alerts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// MarkResolved closes an active or in_attention alert. Resolved and
// discarded are terminal; resolving again is a warning no-op.
func (s *Service) MarkResolved(ctx context.Context, id uuid.UUID, userID string, notes *string) (*Alert, error) {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Open() {
		return a, errs.TransitionWarning("alert is already %s; resolution not recorded", a.State)
	}
	now := time.Now()
	if a.AttendedBy == nil {
		a.AttendedBy = &userID
		a.AttendedAt = &now
	}
	if notes != nil {
		a.Notes = notes
	}
	a.State = StateResolved
	a.ResolvedAt = &now
	if err := s.alerts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Discard drops an active alert that turned out not to need attention.
func (s *Service) Discard(ctx context.Context, id uuid.UUID) (*Alert, error) {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.State != StateActive {
		return a, errs.TransitionWarning("alert is %s, not active; not discarded", a.State)
	}
	a.State = StateDiscarded
	if err := s.alerts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// -- Report --

// Report returns the alert counts broken down by state and urgency.
func (s *Service) Report(ctx context.Context) ([]StateUrgencyCount, error) {
	return s.alerts.CountByStateAndUrgency(ctx)
}
