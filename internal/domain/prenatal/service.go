package prenatal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hhm/maternity/internal/domain/errs"
)

type Service struct {
	controls ControlRepository
	exams    ExamRepository
}

func NewService(controls ControlRepository, exams ExamRepository) *Service {
	return &Service{controls: controls, exams: exams}
}

// -- Prenatal Control --

func validateControl(c *Control) error {
	if c.PatientID == uuid.Nil {
		return errs.Validation("patient_id", "is required")
	}
	if c.LMPDate.IsZero() {
		return errs.Validation("lmp_date", "is required")
	}
	if c.LMPDate.After(time.Now()) {
		return errs.Validation("lmp_date", "cannot be in the future")
	}
	if c.BloodGroup != nil && !validBloodGroups[*c.BloodGroup] {
		return errs.Validationf("blood_group", "invalid value: %s", *c.BloodGroup)
	}
	if c.RhFactor != nil && !validRhFactors[*c.RhFactor] {
		return errs.Validationf("rh_factor", "invalid value: %s", *c.RhFactor)
	}
	if c.HemoglobinGDL != nil && (*c.HemoglobinGDL < 6.0 || *c.HemoglobinGDL > 20.0) {
		return errs.Validationf("hemoglobin_g_dl", "must be between 6.0 and 20.0, got %.1f", *c.HemoglobinGDL)
	}
	if c.GlycemiaMGDL != nil && (*c.GlycemiaMGDL < 50 || *c.GlycemiaMGDL > 400) {
		return errs.Validationf("glycemia_mg_dl", "must be between 50 and 400, got %d", *c.GlycemiaMGDL)
	}
	if c.ControlsPerformed < 0 || c.ControlsPerformed > 20 {
		return errs.Validation("controls_performed", "must be between 0 and 20")
	}
	if c.PriorGestations < 0 || c.PriorGestations > 20 {
		return errs.Validation("prior_gestations", "must be between 0 and 20")
	}
	if c.PriorBirths < 0 || c.PriorBirths > 20 {
		return errs.Validation("prior_births", "must be between 0 and 20")
	}
	if c.PriorCesareans < 0 || c.PriorCesareans > 10 {
		return errs.Validation("prior_cesareans", "must be between 0 and 10")
	}
	if c.PriorAbortions < 0 || c.PriorAbortions > 10 {
		return errs.Validation("prior_abortions", "must be between 0 and 10")
	}
	return nil
}

func (s *Service) CreateControl(ctx context.Context, c *Control) error {
	if err := validateControl(c); err != nil {
		return err
	}
	return s.controls.Create(ctx, c)
}

func (s *Service) GetControl(ctx context.Context, id uuid.UUID) (*Control, error) {
	return s.controls.GetByID(ctx, id)
}

func (s *Service) UpdateControl(ctx context.Context, c *Control) error {
	current, err := s.controls.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	// The LMP date anchors gestational age and stays fixed after intake.
	c.LMPDate = current.LMPDate
	c.PatientID = current.PatientID
	if err := validateControl(c); err != nil {
		return err
	}
	return s.controls.Update(ctx, c)
}

func (s *Service) DeleteControl(ctx context.Context, id uuid.UUID) error {
	return s.controls.Delete(ctx, id)
}

func (s *Service) ListControls(ctx context.Context, limit, offset int) ([]*Control, int, error) {
	return s.controls.List(ctx, limit, offset)
}

func (s *Service) ListControlsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Control, int, error) {
	return s.controls.ListByPatient(ctx, patientID, limit, offset)
}

// -- Prenatal Exam --

func (s *Service) RecordExam(ctx context.Context, e *Exam) error {
	if e.ControlID == uuid.Nil {
		return errs.Validation("control_id", "is required")
	}
	if !validExamTypes[e.ExamType] {
		return errs.Validationf("exam_type", "invalid value: %s", e.ExamType)
	}
	if !validExamResults[e.Result] {
		return errs.Validationf("result", "invalid value: %s", e.Result)
	}
	if _, err := s.controls.GetByID(ctx, e.ControlID); err != nil {
		return err
	}
	return s.exams.Create(ctx, e)
}

func (s *Service) GetExam(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return s.exams.GetByID(ctx, id)
}

func (s *Service) UpdateExam(ctx context.Context, e *Exam) error {
	if !validExamResults[e.Result] {
		return errs.Validationf("result", "invalid value: %s", e.Result)
	}
	return s.exams.Update(ctx, e)
}

func (s *Service) DeleteExam(ctx context.Context, id uuid.UUID) error {
	return s.exams.Delete(ctx, id)
}

func (s *Service) ListExamsByControl(ctx context.Context, controlID uuid.UUID) ([]*Exam, error) {
	return s.exams.ListByControl(ctx, controlID)
}

// CriticalExamsByControl returns the exams on the control whose results
// require the special care protocol.
func (s *Service) CriticalExamsByControl(ctx context.Context, controlID uuid.UUID) ([]*Exam, error) {
	exams, err := s.exams.ListByControl(ctx, controlID)
	if err != nil {
		return nil, err
	}
	var critical []*Exam
	for _, e := range exams {
		if e.Critical() {
			critical = append(critical, e)
		}
	}
	return critical, nil
}
