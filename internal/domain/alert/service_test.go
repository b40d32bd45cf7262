package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hhm/maternity/internal/domain/errs"
)

// -- Mock Repository --

type mockRepo struct {
	records map[uuid.UUID]*Alert
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[uuid.UUID]*Alert)}
}

func (m *mockRepo) Create(_ context.Context, a *Alert) error {
	a.ID = uuid.New()
	m.records[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Alert, error) {
	a, ok := m.records[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Alert) error {
	m.records[a.ID] = a
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Alert, int, error) {
	var result []*Alert
	for _, a := range m.records {
		if f.State != "" && a.State != f.State {
			continue
		}
		if f.Urgency != "" && a.Urgency != f.Urgency {
			continue
		}
		if f.AlertType != "" && a.AlertType != f.AlertType {
			continue
		}
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) HasOpenOfType(_ context.Context, alertType string, newbornID uuid.UUID) (bool, error) {
	for _, a := range m.records {
		if a.AlertType == alertType && a.NewbornID != nil && *a.NewbornID == newbornID && a.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) CountByStateAndUrgency(_ context.Context) ([]StateUrgencyCount, error) {
	byKey := make(map[[2]string]int)
	for _, a := range m.records {
		byKey[[2]string{a.State, a.Urgency}]++
	}
	var counts []StateUrgencyCount
	for key, n := range byKey {
		counts = append(counts, StateUrgencyCount{State: key[0], Urgency: key[1], Count: n})
	}
	return counts, nil
}

func ptrInt(i int) *int { return &i }

// -- Detector tests --

func TestEvaluateNewborn_AllTriggers(t *testing.T) {
	svc := NewService(newMockRepo())

	obs := Observation{
		NewbornID:    uuid.New(),
		Apgar5:       ptrInt(3),
		WeightGrams:  1200,
		Resuscitated: true,
		RaisedBy:     "user-1",
	}
	raised, err := svc.EvaluateNewborn(context.Background(), obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raised) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(raised))
	}
	types := make(map[string]string)
	for _, a := range raised {
		types[a.AlertType] = a.Urgency
		if a.State != StateActive {
			t.Errorf("alert %s: expected active state, got %s", a.AlertType, a.State)
		}
	}
	if types[TypeAPGARCritical] != UrgencyCritical {
		t.Errorf("expected critical APGAR alert, got %q", types[TypeAPGARCritical])
	}
	if types[TypeLowWeight] != UrgencyCritical {
		t.Errorf("expected critical low weight alert below 1500 g, got %q", types[TypeLowWeight])
	}
	if types[TypeResuscitation] != UrgencyCritical {
		t.Errorf("expected critical resuscitation alert, got %q", types[TypeResuscitation])
	}
}

func TestEvaluateNewborn_NoTriggers(t *testing.T) {
	svc := NewService(newMockRepo())

	raised, err := svc.EvaluateNewborn(context.Background(), Observation{
		NewbornID:   uuid.New(),
		Apgar5:      ptrInt(9),
		WeightGrams: 3400,
		RaisedBy:    "user-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raised) != 0 {
		t.Errorf("expected no alerts, got %d", len(raised))
	}
}

func TestEvaluateNewborn_LowWeightUrgency(t *testing.T) {
	tests := []struct {
		weight int
		want   string
	}{
		{1499, UrgencyCritical},
		{1500, UrgencyHigh},
		{2499, UrgencyHigh},
	}
	for _, tt := range tests {
		svc := NewService(newMockRepo())
		raised, err := svc.EvaluateNewborn(context.Background(), Observation{
			NewbornID: uuid.New(), WeightGrams: tt.weight, RaisedBy: "user-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(raised) != 1 || raised[0].Urgency != tt.want {
			t.Errorf("weight %d: expected one %s alert, got %+v", tt.weight, tt.want, raised)
		}
	}
}

func TestEvaluateNewborn_SuppressesOpenDuplicates(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	obs := Observation{NewbornID: uuid.New(), Apgar5: ptrInt(4), WeightGrams: 3200, RaisedBy: "user-1"}

	first, err := svc.EvaluateNewborn(context.Background(), obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 alert on first evaluation, got %d", len(first))
	}

	second, err := svc.EvaluateNewborn(context.Background(), obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("expected duplicate to be suppressed, got %d alerts", len(second))
	}

	// Once resolved, the condition may fire again.
	if _, err := svc.MarkResolved(context.Background(), first[0].ID, "user-2", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	third, err := svc.EvaluateNewborn(context.Background(), obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(third) != 1 {
		t.Errorf("expected alert to re-fire after resolution, got %d", len(third))
	}
}

// -- Lifecycle tests --

func activeAlert(t *testing.T, svc *Service) *Alert {
	t.Helper()
	a := &Alert{
		AlertType:   TypeHemorrhage,
		Urgency:     UrgencyHigh,
		Title:       "Postpartum hemorrhage",
		Description: "Estimated blood loss over 1000 mL",
		RaisedBy:    "user-1",
	}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestLifecycle_ActiveToResolved(t *testing.T) {
	svc := NewService(newMockRepo())
	a := activeAlert(t, svc)

	attended, err := svc.MarkInAttention(context.Background(), a.ID, "user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attended.State != StateInAttention {
		t.Errorf("expected in_attention, got %s", attended.State)
	}
	if attended.AttendedBy == nil || *attended.AttendedBy != "user-2" {
		t.Error("expected attending user to be stamped")
	}
	if attended.AttendedAt == nil {
		t.Error("expected attended timestamp to be stamped")
	}

	notes := "transfused, stable"
	resolved, err := svc.MarkResolved(context.Background(), a.ID, "user-2", &notes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.State != StateResolved {
		t.Errorf("expected resolved, got %s", resolved.State)
	}
	if resolved.ResolvedAt == nil {
		t.Error("expected resolved timestamp to be stamped")
	}
	if resolved.Notes == nil || *resolved.Notes != notes {
		t.Error("expected notes to be recorded")
	}
}

func TestLifecycle_TerminalStatesWarnAndNoOp(t *testing.T) {
	svc := NewService(newMockRepo())
	a := activeAlert(t, svc)

	if _, err := svc.MarkResolved(context.Background(), a.ID, "user-2", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.MarkInAttention(context.Background(), a.ID, "user-3")
	if !errs.IsWarning(err) {
		t.Fatalf("expected transition warning, got %v", err)
	}
	if got.State != StateResolved {
		t.Errorf("expected state untouched, got %s", got.State)
	}
	if got.AttendedBy != nil && *got.AttendedBy == "user-3" {
		t.Error("expected no-op to leave attending user alone")
	}

	if _, err := svc.MarkResolved(context.Background(), a.ID, "user-3", nil); !errs.IsWarning(err) {
		t.Errorf("expected warning on double resolve, got %v", err)
	}
	if _, err := svc.Discard(context.Background(), a.ID); !errs.IsWarning(err) {
		t.Errorf("expected warning on discarding resolved alert, got %v", err)
	}
}

func TestLifecycle_Discard(t *testing.T) {
	svc := NewService(newMockRepo())
	a := activeAlert(t, svc)

	discarded, err := svc.Discard(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if discarded.State != StateDiscarded {
		t.Errorf("expected discarded, got %s", discarded.State)
	}
	// Discarded is terminal.
	if _, err := svc.MarkInAttention(context.Background(), a.ID, "user-2"); !errs.IsWarning(err) {
		t.Errorf("expected warning, got %v", err)
	}
}

func TestLifecycle_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.MarkInAttention(context.Background(), uuid.New(), "user-1"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestMinutesWithoutAttention(t *testing.T) {
	raised := time.Now().Add(-45 * time.Minute)
	a := &Alert{State: StateActive, RaisedAt: raised}
	if got := a.MinutesWithoutAttention(time.Now()); got != 45 {
		t.Errorf("expected 45 minutes, got %d", got)
	}

	a.State = StateInAttention
	if got := a.MinutesWithoutAttention(time.Now()); got != 0 {
		t.Errorf("expected 0 for attended alert, got %d", got)
	}

	a.State = StateResolved
	if got := a.MinutesWithoutAttention(time.Now()); got != 0 {
		t.Errorf("expected 0 for resolved alert, got %d", got)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name  string
		alert Alert
	}{
		{"invalid type", Alert{AlertType: "SOLAR_FLARE", Urgency: UrgencyHigh, Title: "x"}},
		{"invalid urgency", Alert{AlertType: TypeHemorrhage, Urgency: "panic", Title: "x"}},
		{"missing title", Alert{AlertType: TypeHemorrhage, Urgency: UrgencyHigh}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.alert
			err := svc.Create(context.Background(), &a)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}
