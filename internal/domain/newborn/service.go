package newborn

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hhm/maternity/internal/domain/alert"
	"github.com/hhm/maternity/internal/domain/birth"
	"github.com/hhm/maternity/internal/domain/errs"
)

// AlertEvaluator runs the critical condition triggers for an evaluated
// newborn. Satisfied by alert.Service.
type AlertEvaluator interface {
	EvaluateNewborn(ctx context.Context, obs alert.Observation) ([]*alert.Alert, error)
}

// BirthGetter resolves the birth event a newborn belongs to. Satisfied
// by birth.Service.
type BirthGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*birth.Event, error)
}

// TxRunner runs fn atomically. Wired to db.WithTx in production; tests
// pass a plain call-through.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	newborns      Repository
	details       APGARDetailRepository
	complications ComplicationRepository
	births        BirthGetter
	alerts        AlertEvaluator
	runTx         TxRunner
}

func NewService(newborns Repository, details APGARDetailRepository, complications ComplicationRepository,
	births BirthGetter, alerts AlertEvaluator, runTx TxRunner) *Service {
	if runTx == nil {
		runTx = passthroughTx
	}
	return &Service{
		newborns:      newborns,
		details:       details,
		complications: complications,
		births:        births,
		alerts:        alerts,
		runTx:         runTx,
	}
}

func validateNewborn(n *Newborn) error {
	if n.BirthEventID == uuid.Nil {
		return errs.Validation("birth_event_id", "is required")
	}
	if !validSexes[n.Sex] {
		return errs.Validationf("sex", "invalid value: %s", n.Sex)
	}
	if n.WeightGrams < 400 || n.WeightGrams > 6000 {
		return errs.Validationf("weight_grams", "must be between 400 and 6000, got %d", n.WeightGrams)
	}
	for _, a := range []struct {
		field string
		value *int
	}{{"apgar_1", n.Apgar1}, {"apgar_5", n.Apgar5}, {"apgar_10", n.Apgar10}} {
		if a.value != nil && (*a.value < 0 || *a.value > 10) {
			return errs.Validationf(a.field, "must be between 0 and 10, got %d", *a.value)
		}
	}
	if !validVitalStatuses[n.VitalStatus] {
		return errs.Validationf("vital_status", "invalid value: %s", n.VitalStatus)
	}
	if n.Destination != nil && !validDestinations[*n.Destination] {
		return errs.Validationf("destination", "invalid value: %s", *n.Destination)
	}
	if n.CordClamping != nil && !validClampings[*n.CordClamping] {
		return errs.Validationf("cord_clamping", "invalid value: %s", *n.CordClamping)
	}
	return nil
}

// Register persists the newborn evaluation and runs the critical
// condition triggers, in one transaction. One newborn per birth event.
// Returns the alerts raised so the caller can surface them.
func (s *Service) Register(ctx context.Context, n *Newborn) ([]*alert.Alert, error) {
	if err := validateNewborn(n); err != nil {
		return nil, err
	}
	event, err := s.births.GetByID(ctx, n.BirthEventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.newborns.GetByBirthEvent(ctx, n.BirthEventID); err == nil {
		return nil, errs.Invariant("a newborn is already registered for birth event %s", n.BirthEventID)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	var raised []*alert.Alert
	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.newborns.Create(ctx, n); err != nil {
			return err
		}
		raised, err = s.alerts.EvaluateNewborn(ctx, s.observation(n, event))
		return err
	})
	if err != nil {
		return nil, err
	}
	return raised, nil
}

// Update revises the evaluation and re-runs the triggers; open alerts of
// a type suppress their own duplicates, so re-evaluation is safe.
func (s *Service) Update(ctx context.Context, n *Newborn) ([]*alert.Alert, error) {
	current, err := s.newborns.GetByID(ctx, n.ID)
	if err != nil {
		return nil, err
	}
	// The birth link and the APGAR summaries stay as recorded; summaries
	// move only through the detail push-down.
	n.BirthEventID = current.BirthEventID
	n.EvaluatedBy = current.EvaluatedBy
	n.Apgar1 = current.Apgar1
	n.Apgar5 = current.Apgar5
	n.Apgar10 = current.Apgar10
	if err := validateNewborn(n); err != nil {
		return nil, err
	}
	event, err := s.births.GetByID(ctx, n.BirthEventID)
	if err != nil {
		return nil, err
	}

	var raised []*alert.Alert
	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.newborns.Update(ctx, n); err != nil {
			return err
		}
		raised, err = s.alerts.EvaluateNewborn(ctx, s.observation(n, event))
		return err
	})
	if err != nil {
		return nil, err
	}
	return raised, nil
}

func (s *Service) observation(n *Newborn, event *birth.Event) alert.Observation {
	birthEventID := event.ID
	patientID := event.PatientID
	return alert.Observation{
		NewbornID:    n.ID,
		BirthEventID: &birthEventID,
		PatientID:    &patientID,
		Apgar5:       n.Apgar5,
		WeightGrams:  n.WeightGrams,
		Resuscitated: n.Resuscitation,
		RaisedBy:     n.EvaluatedBy,
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Newborn, error) {
	return s.newborns.GetByID(ctx, id)
}

func (s *Service) GetByBirthEvent(ctx context.Context, birthEventID uuid.UUID) (*Newborn, error) {
	return s.newborns.GetByBirthEvent(ctx, birthEventID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.newborns.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Newborn, int, error) {
	return s.newborns.List(ctx, limit, offset)
}

// Assessment is a newborn with its derived clinical fields resolved.
type Assessment struct {
	*Newborn
	WeightClass            string `json:"weight_class"`
	Apgar5Critical         bool   `json:"apgar_5_critical"`
	Preterm                bool   `json:"preterm"`
	RequiresPediatricAlert bool   `json:"requires_pediatric_alert"`
}

// Assess loads the newborn and computes the derived fields, pulling the
// preterm flag from the birth event.
func (s *Service) Assess(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	n, err := s.newborns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event, err := s.births.GetByID(ctx, n.BirthEventID)
	if err != nil {
		return nil, err
	}
	preterm := event.Preterm()
	return &Assessment{
		Newborn:                n,
		WeightClass:            n.WeightClass(),
		Apgar5Critical:         n.Apgar5Critical(),
		Preterm:                preterm,
		RequiresPediatricAlert: n.RequiresPediatricAlert(preterm),
	}, nil
}

// -- APGAR detail --

func validateAPGARDetail(d *APGARDetail) error {
	if d.NewbornID == uuid.Nil {
		return errs.Validation("newborn_id", "is required")
	}
	if !validAPGARMinutes[d.Minute] {
		return errs.Validationf("minute", "must be 1, 5 or 10, got %d", d.Minute)
	}
	for _, c := range []struct {
		field string
		value int
	}{
		{"heart_rate", d.HeartRate},
		{"respiratory_effort", d.RespiratoryEffort},
		{"muscle_tone", d.MuscleTone},
		{"reflex_irritability", d.ReflexIrritability},
		{"skin_color", d.SkinColor},
	} {
		if c.value < 0 || c.value > 2 {
			return errs.Validationf(c.field, "must be between 0 and 2, got %d", c.value)
		}
	}
	return nil
}

// RecordAPGARDetail saves the five-component score sheet and pushes its
// total into the newborn's summary field for that minute, atomically.
// A second sheet for the same newborn and minute is rejected.
func (s *Service) RecordAPGARDetail(ctx context.Context, d *APGARDetail) error {
	if err := validateAPGARDetail(d); err != nil {
		return err
	}
	if _, err := s.newborns.GetByID(ctx, d.NewbornID); err != nil {
		return err
	}
	exists, err := s.details.ExistsForMinute(ctx, d.NewbornID, d.Minute)
	if err != nil {
		return err
	}
	if exists {
		return errs.Invariant("an APGAR detail for minute %d already exists for newborn %s", d.Minute, d.NewbornID)
	}
	return s.runTx(ctx, func(ctx context.Context) error {
		if err := s.details.Create(ctx, d); err != nil {
			return err
		}
		return s.RecomputeAPGARTotal(ctx, d)
	})
}

// RecomputeAPGARTotal writes the detail's total into the matching
// newborn summary field. One-way: the summary never flows back.
func (s *Service) RecomputeAPGARTotal(ctx context.Context, d *APGARDetail) error {
	return s.newborns.SetApgar(ctx, d.NewbornID, d.Minute, d.Total())
}

func (s *Service) ListAPGARDetails(ctx context.Context, newbornID uuid.UUID) ([]*APGARDetail, error) {
	return s.details.ListByNewborn(ctx, newbornID)
}

// -- Neonatal complication --

func validateComplication(nc *NeonatalComplication) error {
	if nc.NewbornID == uuid.Nil {
		return errs.Validation("newborn_id", "is required")
	}
	if !validComplicationTypes[nc.ComplicationType] {
		return errs.Validationf("complication_type", "invalid value: %s", nc.ComplicationType)
	}
	if !validSeverities[nc.Severity] {
		return errs.Validationf("severity", "invalid value: %s", nc.Severity)
	}
	return nil
}

func (s *Service) RecordComplication(ctx context.Context, nc *NeonatalComplication) error {
	if err := validateComplication(nc); err != nil {
		return err
	}
	if _, err := s.newborns.GetByID(ctx, nc.NewbornID); err != nil {
		return err
	}
	return s.complications.Create(ctx, nc)
}

func (s *Service) DeleteComplication(ctx context.Context, id uuid.UUID) error {
	return s.complications.Delete(ctx, id)
}

func (s *Service) ListComplications(ctx context.Context, newbornID uuid.UUID) ([]*NeonatalComplication, error) {
	return s.complications.ListByNewborn(ctx, newbornID)
}
