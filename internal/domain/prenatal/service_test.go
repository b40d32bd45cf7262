package prenatal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hhm/maternity/internal/domain/errs"
)

// -- Mock Repositories --

type mockControlRepo struct {
	records map[uuid.UUID]*Control
}

func newMockControlRepo() *mockControlRepo {
	return &mockControlRepo{records: make(map[uuid.UUID]*Control)}
}

func (m *mockControlRepo) Create(_ context.Context, c *Control) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	m.records[c.ID] = c
	return nil
}

func (m *mockControlRepo) GetByID(_ context.Context, id uuid.UUID) (*Control, error) {
	c, ok := m.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return c, nil
}

func (m *mockControlRepo) Update(_ context.Context, c *Control) error {
	m.records[c.ID] = c
	return nil
}

func (m *mockControlRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

func (m *mockControlRepo) List(_ context.Context, limit, offset int) ([]*Control, int, error) {
	var result []*Control
	for _, c := range m.records {
		result = append(result, c)
	}
	return result, len(result), nil
}

func (m *mockControlRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Control, int, error) {
	var result []*Control
	for _, c := range m.records {
		if c.PatientID == patientID {
			result = append(result, c)
		}
	}
	return result, len(result), nil
}

type mockExamRepo struct {
	records map[uuid.UUID]*Exam
}

func newMockExamRepo() *mockExamRepo {
	return &mockExamRepo{records: make(map[uuid.UUID]*Exam)}
}

func (m *mockExamRepo) Create(_ context.Context, e *Exam) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	m.records[e.ID] = e
	return nil
}

func (m *mockExamRepo) GetByID(_ context.Context, id uuid.UUID) (*Exam, error) {
	e, ok := m.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return e, nil
}

func (m *mockExamRepo) Update(_ context.Context, e *Exam) error {
	m.records[e.ID] = e
	return nil
}

func (m *mockExamRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

func (m *mockExamRepo) ListByControl(_ context.Context, controlID uuid.UUID) ([]*Exam, error) {
	var result []*Exam
	for _, e := range m.records {
		if e.ControlID == controlID {
			result = append(result, e)
		}
	}
	return result, nil
}

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(i int) *int           { return &i }
func ptrStr(s string) *string     { return &s }

func validControl() *Control {
	return &Control{
		PatientID: uuid.New(),
		LMPDate:   time.Now().AddDate(0, 0, -30*7),
	}
}

// -- Tests --

func TestCreateControl(t *testing.T) {
	svc := NewService(newMockControlRepo(), newMockExamRepo())

	c := validControl()
	if err := svc.CreateControl(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreateControl_Validation(t *testing.T) {
	svc := NewService(newMockControlRepo(), newMockExamRepo())

	tests := []struct {
		name   string
		mutate func(*Control)
	}{
		{"missing patient", func(c *Control) { c.PatientID = uuid.Nil }},
		{"missing lmp", func(c *Control) { c.LMPDate = time.Time{} }},
		{"future lmp", func(c *Control) { c.LMPDate = time.Now().AddDate(0, 1, 0) }},
		{"invalid blood group", func(c *Control) { c.BloodGroup = ptrStr("C") }},
		{"invalid rh", func(c *Control) { c.RhFactor = ptrStr("neutral") }},
		{"hemoglobin too low", func(c *Control) { c.HemoglobinGDL = ptrFloat(4.5) }},
		{"hemoglobin too high", func(c *Control) { c.HemoglobinGDL = ptrFloat(22.0) }},
		{"glycemia too low", func(c *Control) { c.GlycemiaMGDL = ptrInt(30) }},
		{"glycemia too high", func(c *Control) { c.GlycemiaMGDL = ptrInt(500) }},
		{"negative gestations", func(c *Control) { c.PriorGestations = -1 }},
		{"too many cesareans", func(c *Control) { c.PriorCesareans = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validControl()
			tt.mutate(c)
			err := svc.CreateControl(context.Background(), c)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGestationalAgeWeeks(t *testing.T) {
	lmp := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	c := &Control{LMPDate: lmp}

	tests := []struct {
		at   time.Time
		want int
	}{
		{lmp.AddDate(0, 0, 7), 1},
		{lmp.AddDate(0, 0, 13), 1},
		{lmp.AddDate(0, 0, 14), 2},
		{lmp.AddDate(0, 0, 37*7), 37},
	}
	for _, tt := range tests {
		if got := c.GestationalAgeWeeksAt(tt.at); got != tt.want {
			t.Errorf("GestationalAgeWeeksAt(%s) = %d, want %d", tt.at.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestUpdateControl_LMPImmutable(t *testing.T) {
	repo := newMockControlRepo()
	svc := NewService(repo, newMockExamRepo())

	c := validControl()
	if err := svc.CreateControl(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	originalLMP := c.LMPDate

	update := *c
	update.LMPDate = time.Now().AddDate(0, -1, 0)
	update.TwinPregnancy = true
	if err := svc.UpdateControl(context.Background(), &update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !update.LMPDate.Equal(originalLMP) {
		t.Error("expected lmp date to be preserved on update")
	}
	if !update.TwinPregnancy {
		t.Error("expected twin pregnancy flag to be updated")
	}
}

func TestRecordExam(t *testing.T) {
	controls := newMockControlRepo()
	exams := newMockExamRepo()
	svc := NewService(controls, exams)

	c := validControl()
	if err := svc.CreateControl(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := &Exam{ControlID: c.ID, ExamType: ExamHIV, Result: ResultNegative}
	if err := svc.RecordExam(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RecordExam(context.Background(), &Exam{ControlID: c.ID, ExamType: "xray", Result: ResultNegative}); err == nil {
		t.Error("expected error for invalid exam type")
	}
	if err := svc.RecordExam(context.Background(), &Exam{ControlID: c.ID, ExamType: ExamHIV, Result: "maybe"}); err == nil {
		t.Error("expected error for invalid result")
	}
	if err := svc.RecordExam(context.Background(), &Exam{ControlID: uuid.New(), ExamType: ExamHIV, Result: ResultNegative}); err == nil {
		t.Error("expected error for unknown control")
	}
}

func TestExamCritical(t *testing.T) {
	tests := []struct {
		examType string
		result   string
		want     bool
	}{
		{ExamHIV, ResultPositive, true},
		{ExamHIV, ResultNegative, false},
		{ExamVDRL, ResultReactive, true},
		{ExamVDRL, ResultNonReactive, false},
		{ExamHepatitisB, ResultPositive, true},
		{ExamGroupBStrep, ResultPositive, true},
		{ExamGlycemia, ResultPositive, false},
		{ExamHemogram, ResultReactive, false},
	}
	for _, tt := range tests {
		e := &Exam{ExamType: tt.examType, Result: tt.result}
		if got := e.Critical(); got != tt.want {
			t.Errorf("Critical() for %s/%s = %v, want %v", tt.examType, tt.result, got, tt.want)
		}
	}
}

func TestCriticalExamsByControl(t *testing.T) {
	controls := newMockControlRepo()
	exams := newMockExamRepo()
	svc := NewService(controls, exams)

	c := validControl()
	if err := svc.CreateControl(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, e := range []*Exam{
		{ControlID: c.ID, ExamType: ExamHIV, Result: ResultPositive},
		{ControlID: c.ID, ExamType: ExamVDRL, Result: ResultNonReactive},
		{ControlID: c.ID, ExamType: ExamGroupBStrep, Result: ResultPositive},
	} {
		if err := svc.RecordExam(context.Background(), e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	critical, err := svc.CriticalExamsByControl(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(critical) != 2 {
		t.Errorf("expected 2 critical exams, got %d", len(critical))
	}
}
