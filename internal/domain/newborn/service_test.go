package newborn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hhm/maternity/internal/domain/alert"
	"github.com/hhm/maternity/internal/domain/birth"
	"github.com/hhm/maternity/internal/domain/errs"
)

// -- Mock Repositories --

type mockRepo struct {
	records map[uuid.UUID]*Newborn
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*Newborn)}
}

func (m *mockRepo) Create(_ context.Context, n *Newborn) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	m.records[n.ID] = n
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Newborn, error) {
	n, ok := m.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return n, nil
}

func (m *mockRepo) GetByBirthEvent(_ context.Context, birthEventID uuid.UUID) (*Newborn, error) {
	for _, n := range m.records {
		if n.BirthEventID == birthEventID {
			return n, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, n *Newborn) error {
	m.records[n.ID] = n
	return nil
}

func (m *mockRepo) SetApgar(_ context.Context, id uuid.UUID, minute, total int) error {
	n, ok := m.records[id]
	if !ok {
		return errs.ErrNotFound
	}
	switch minute {
	case 1:
		n.Apgar1 = &total
	case 5:
		n.Apgar5 = &total
	case 10:
		n.Apgar10 = &total
	}
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Newborn, int, error) {
	var result []*Newborn
	for _, n := range m.records {
		result = append(result, n)
	}
	return result, len(result), nil
}

type mockDetailRepo struct {
	records map[uuid.UUID]*APGARDetail
}

func newMockDetailRepo() *mockDetailRepo {
	return &mockDetailRepo{records: make(map[uuid.UUID]*APGARDetail)}
}

func (m *mockDetailRepo) Create(_ context.Context, d *APGARDetail) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	m.records[d.ID] = d
	return nil
}

func (m *mockDetailRepo) ExistsForMinute(_ context.Context, newbornID uuid.UUID, minute int) (bool, error) {
	for _, d := range m.records {
		if d.NewbornID == newbornID && d.Minute == minute {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDetailRepo) ListByNewborn(_ context.Context, newbornID uuid.UUID) ([]*APGARDetail, error) {
	var result []*APGARDetail
	for _, d := range m.records {
		if d.NewbornID == newbornID {
			result = append(result, d)
		}
	}
	return result, nil
}

type mockNCRepo struct {
	records map[uuid.UUID]*NeonatalComplication
}

func newMockNCRepo() *mockNCRepo {
	return &mockNCRepo{records: make(map[uuid.UUID]*NeonatalComplication)}
}

func (m *mockNCRepo) Create(_ context.Context, nc *NeonatalComplication) error {
	nc.ID = uuid.New()
	nc.CreatedAt = time.Now()
	m.records[nc.ID] = nc
	return nil
}

func (m *mockNCRepo) GetByID(_ context.Context, id uuid.UUID) (*NeonatalComplication, error) {
	nc, ok := m.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return nc, nil
}

func (m *mockNCRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

func (m *mockNCRepo) ListByNewborn(_ context.Context, newbornID uuid.UUID) ([]*NeonatalComplication, error) {
	var result []*NeonatalComplication
	for _, nc := range m.records {
		if nc.NewbornID == newbornID {
			result = append(result, nc)
		}
	}
	return result, nil
}

type mockBirthGetter struct {
	events map[uuid.UUID]*birth.Event
}

func newMockBirthGetter() *mockBirthGetter {
	return &mockBirthGetter{events: make(map[uuid.UUID]*birth.Event)}
}

func (m *mockBirthGetter) GetByID(_ context.Context, id uuid.UUID) (*birth.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return e, nil
}

func (m *mockBirthGetter) add(weeks int) *birth.Event {
	e := &birth.Event{
		ID:               uuid.New(),
		PatientID:        uuid.New(),
		GestationalWeeks: weeks,
	}
	m.events[e.ID] = e
	return e
}

type mockEvaluator struct {
	observations []alert.Observation
	raise        int
}

func (m *mockEvaluator) EvaluateNewborn(_ context.Context, obs alert.Observation) ([]*alert.Alert, error) {
	m.observations = append(m.observations, obs)
	var raised []*alert.Alert
	for i := 0; i < m.raise; i++ {
		raised = append(raised, &alert.Alert{ID: uuid.New()})
	}
	return raised, nil
}

func ptrInt(i int) *int { return &i }

type fixture struct {
	svc       *Service
	newborns  *mockRepo
	details   *mockDetailRepo
	births    *mockBirthGetter
	evaluator *mockEvaluator
}

func newFixture() *fixture {
	newborns := newMockRepo()
	details := newMockDetailRepo()
	births := newMockBirthGetter()
	evaluator := &mockEvaluator{}
	svc := NewService(newborns, details, newMockNCRepo(), births, evaluator, nil)
	return &fixture{svc: svc, newborns: newborns, details: details, births: births, evaluator: evaluator}
}

func validNewborn(birthEventID uuid.UUID) *Newborn {
	return &Newborn{
		BirthEventID: birthEventID,
		Sex:          SexFemale,
		WeightGrams:  3400,
		Apgar1:       ptrInt(8),
		Apgar5:       ptrInt(9),
		VitalStatus:  StatusLive,
		EvaluatedBy:  "user-1",
	}
}

// -- Tests --

func TestRegister_RunsEvaluation(t *testing.T) {
	f := newFixture()
	event := f.births.add(39)

	n := validNewborn(event.ID)
	raised, err := f.svc.Register(context.Background(), n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raised) != 0 {
		t.Errorf("expected no alerts, got %d", len(raised))
	}
	if len(f.evaluator.observations) != 1 {
		t.Fatalf("expected exactly one evaluation, got %d", len(f.evaluator.observations))
	}
	obs := f.evaluator.observations[0]
	if obs.NewbornID != n.ID {
		t.Error("expected observation to carry the newborn id")
	}
	if obs.PatientID == nil || *obs.PatientID != event.PatientID {
		t.Error("expected observation to carry the patient id from the birth event")
	}
	if obs.WeightGrams != 3400 {
		t.Errorf("expected weight 3400 in observation, got %d", obs.WeightGrams)
	}
}

func TestRegister_ReturnsRaisedAlerts(t *testing.T) {
	f := newFixture()
	f.evaluator.raise = 3
	event := f.births.add(39)

	raised, err := f.svc.Register(context.Background(), validNewborn(event.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raised) != 3 {
		t.Errorf("expected 3 alerts back from registration, got %d", len(raised))
	}
}

func TestRegister_OnePerBirthEvent(t *testing.T) {
	f := newFixture()
	event := f.births.add(39)

	if _, err := f.svc.Register(context.Background(), validNewborn(event.ID)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.svc.Register(context.Background(), validNewborn(event.ID))
	var iv *errs.InvariantViolation
	if !errors.As(err, &iv) {
		t.Errorf("expected invariant violation for second newborn on same birth, got %v", err)
	}
}

func TestRegister_UnknownBirthEvent(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.Register(context.Background(), validNewborn(uuid.New())); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture()
	event := f.births.add(39)

	tests := []struct {
		name   string
		mutate func(*Newborn)
	}{
		{"invalid sex", func(n *Newborn) { n.Sex = "unknown" }},
		{"weight too low", func(n *Newborn) { n.WeightGrams = 399 }},
		{"weight too high", func(n *Newborn) { n.WeightGrams = 6001 }},
		{"apgar above range", func(n *Newborn) { n.Apgar5 = ptrInt(11) }},
		{"apgar below range", func(n *Newborn) { n.Apgar1 = ptrInt(-1) }},
		{"invalid vital status", func(n *Newborn) { n.VitalStatus = "unclear" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNewborn(event.ID)
			tt.mutate(n)
			_, err := f.svc.Register(context.Background(), n)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdate_ReEvaluatesAndPinsApgar(t *testing.T) {
	f := newFixture()
	event := f.births.add(39)

	n := validNewborn(event.ID)
	if _, err := f.svc.Register(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	update := *n
	update.WeightGrams = 2300
	update.Apgar5 = ptrInt(2)
	if _, err := f.svc.Update(context.Background(), &update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update.Apgar5 == nil || *update.Apgar5 != 9 {
		t.Error("expected APGAR summary to stay as recorded; it moves only via detail push-down")
	}
	if len(f.evaluator.observations) != 2 {
		t.Fatalf("expected re-evaluation on update, got %d evaluations", len(f.evaluator.observations))
	}
	if f.evaluator.observations[1].WeightGrams != 2300 {
		t.Error("expected re-evaluation to see the updated weight")
	}
}

func TestRecordAPGARDetail_PushesTotal(t *testing.T) {
	f := newFixture()
	event := f.births.add(39)
	n := validNewborn(event.ID)
	if _, err := f.svc.Register(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := &APGARDetail{
		NewbornID:          n.ID,
		Minute:             5,
		HeartRate:          1,
		RespiratoryEffort:  1,
		MuscleTone:         1,
		ReflexIrritability: 1,
		SkinColor:          1,
		EvaluatedBy:        "user-1",
	}
	if err := f.svc.RecordAPGARDetail(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := f.newborns.GetByID(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Apgar5 == nil || *stored.Apgar5 != 5 {
		t.Errorf("expected summary APGAR-5 pushed to 5, got %v", stored.Apgar5)
	}
	if stored.Apgar1 == nil || *stored.Apgar1 != 8 {
		t.Error("expected minute-1 summary untouched")
	}
}

func TestRecordAPGARDetail_DuplicateMinuteRejected(t *testing.T) {
	f := newFixture()
	event := f.births.add(39)
	n := validNewborn(event.ID)
	if _, err := f.svc.Register(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := &APGARDetail{NewbornID: n.ID, Minute: 1, HeartRate: 2, RespiratoryEffort: 2, MuscleTone: 2, ReflexIrritability: 1, SkinColor: 1}
	if err := f.svc.RecordAPGARDetail(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := &APGARDetail{NewbornID: n.ID, Minute: 1, HeartRate: 2, RespiratoryEffort: 2, MuscleTone: 2, ReflexIrritability: 2, SkinColor: 2}
	err := f.svc.RecordAPGARDetail(context.Background(), dup)
	var iv *errs.InvariantViolation
	if !errors.As(err, &iv) {
		t.Errorf("expected invariant violation for duplicate minute, got %v", err)
	}
}

func TestRecordAPGARDetail_Validation(t *testing.T) {
	f := newFixture()
	event := f.births.add(39)
	n := validNewborn(event.ID)
	if _, err := f.svc.Register(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		detail APGARDetail
	}{
		{"bad minute", APGARDetail{NewbornID: n.ID, Minute: 3}},
		{"component above range", APGARDetail{NewbornID: n.ID, Minute: 1, HeartRate: 3}},
		{"component below range", APGARDetail{NewbornID: n.ID, Minute: 1, SkinColor: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.detail
			err := f.svc.RecordAPGARDetail(context.Background(), &d)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAssess(t *testing.T) {
	f := newFixture()
	event := f.births.add(35)
	n := validNewborn(event.ID)
	n.WeightGrams = 2200
	if _, err := f.svc.Register(context.Background(), n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := f.svc.Assess(context.Background(), n.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.WeightClass != WeightLow {
		t.Errorf("expected low weight class, got %s", a.WeightClass)
	}
	if !a.Preterm {
		t.Error("expected preterm at 35 weeks")
	}
	if !a.RequiresPediatricAlert {
		t.Error("expected pediatric alert to be required")
	}
	if a.Apgar5Critical {
		t.Error("expected APGAR 9 not to be critical")
	}
}
