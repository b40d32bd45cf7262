package birth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hhm/maternity/internal/domain/errs"
)

type Service struct {
	events        EventRepository
	complications ComplicationRepository
}

func NewService(events EventRepository, complications ComplicationRepository) *Service {
	return &Service{events: events, complications: complications}
}

// -- Birth Event --

func validateEvent(e *Event) error {
	if e.PatientID == uuid.Nil {
		return errs.Validation("patient_id", "is required")
	}
	if e.BirthDateTime.IsZero() {
		return errs.Validation("birth_datetime", "is required")
	}
	if e.BirthDateTime.After(time.Now().Add(time.Hour)) {
		return errs.Validation("birth_datetime", "cannot be in the future")
	}
	if e.GestationalWeeks < 20 || e.GestationalWeeks > 45 {
		return errs.Validationf("gestational_weeks", "must be between 20 and 45, got %d", e.GestationalWeeks)
	}
	if e.GestationalDays < 0 || e.GestationalDays > 6 {
		return errs.Validationf("gestational_days", "must be between 0 and 6, got %d", e.GestationalDays)
	}
	if !validDeliveryTypes[e.DeliveryType] {
		return errs.Validationf("delivery_type", "invalid value: %s", e.DeliveryType)
	}
	if !validPresentations[e.Presentation] {
		return errs.Validationf("presentation", "invalid value: %s", e.Presentation)
	}
	if !validLaborOnsets[e.LaborOnset] {
		return errs.Validationf("labor_onset", "invalid value: %s", e.LaborOnset)
	}
	if e.MembraneRupture != nil && !validMembraneRuptures[*e.MembraneRupture] {
		return errs.Validationf("membrane_rupture", "invalid value: %s", *e.MembraneRupture)
	}
	if e.Anesthesia != nil && !validAnesthesias[*e.Anesthesia] {
		return errs.Validationf("anesthesia", "invalid value: %s", *e.Anesthesia)
	}
	return nil
}

// Reclassify recomputes the Robson group from the event's current
// classification inputs and writes it into the struct. Called on create
// and on every update so the stored group never drifts from the inputs.
func (s *Service) Reclassify(e *Event) {
	e.RobsonGroup = ClassifyRobson(e.ClassificationInputs())
}

func (s *Service) Create(ctx context.Context, e *Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	s.Reclassify(e)
	return s.events.Create(ctx, e)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *Event) error {
	current, err := s.events.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	// The patient link and the recording user are fixed at registration.
	e.PatientID = current.PatientID
	e.PrenatalControlID = current.PrenatalControlID
	e.RecordedBy = current.RecordedBy
	if err := validateEvent(e); err != nil {
		return err
	}
	s.Reclassify(e)
	return s.events.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.events.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Event, int, error) {
	return s.events.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Event, int, error) {
	return s.events.ListByPatient(ctx, patientID, limit, offset)
}

// -- Robson Report --

// RobsonGroupCount is one row of the Robson distribution report.
type RobsonGroupCount struct {
	Group int `json:"group"`
	Count int `json:"count"`
}

// RobsonReport returns the count of births per Robson group for the
// half-open interval [from, to). Every group 1 to 10 appears, zero or not.
func (s *Service) RobsonReport(ctx context.Context, from, to time.Time) ([]RobsonGroupCount, error) {
	counts, err := s.events.CountByRobsonGroup(ctx, from, to)
	if err != nil {
		return nil, err
	}
	report := make([]RobsonGroupCount, 0, 10)
	for group := 1; group <= 10; group++ {
		report = append(report, RobsonGroupCount{Group: group, Count: counts[group]})
	}
	return report, nil
}

// -- Maternal Complication --

func validateComplication(mc *MaternalComplication) error {
	if mc.BirthEventID == uuid.Nil {
		return errs.Validation("birth_event_id", "is required")
	}
	if !validComplicationTypes[mc.ComplicationType] {
		return errs.Validationf("complication_type", "invalid value: %s", mc.ComplicationType)
	}
	if !validSeverities[mc.Severity] {
		return errs.Validationf("severity", "invalid value: %s", mc.Severity)
	}
	return nil
}

func (s *Service) RecordComplication(ctx context.Context, mc *MaternalComplication) error {
	if err := validateComplication(mc); err != nil {
		return err
	}
	if _, err := s.events.GetByID(ctx, mc.BirthEventID); err != nil {
		return err
	}
	return s.complications.Create(ctx, mc)
}

func (s *Service) GetComplication(ctx context.Context, id uuid.UUID) (*MaternalComplication, error) {
	return s.complications.GetByID(ctx, id)
}

func (s *Service) DeleteComplication(ctx context.Context, id uuid.UUID) error {
	return s.complications.Delete(ctx, id)
}

func (s *Service) ListComplications(ctx context.Context, birthEventID uuid.UUID) ([]*MaternalComplication, error) {
	return s.complications.ListByBirthEvent(ctx, birthEventID)
}
