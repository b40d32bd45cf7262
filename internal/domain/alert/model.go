package alert

import (
	"time"

	"github.com/google/uuid"
)

// Alert types.
const (
	TypeAPGARCritical        = "APGAR_CRITICAL"
	TypeLowWeight            = "LOW_WEIGHT"
	TypeResuscitation        = "RESUSCITATION"
	TypeHemorrhage           = "HEMORRHAGE"
	TypePreeclampsia         = "PREECLAMPSIA"
	TypeFetalDistress        = "FETAL_DISTRESS"
	TypeEmergencyCesarean    = "EMERGENCY_CESAREAN"
	TypeNICUReferral         = "NICU_REFERRAL"
	TypeMaternalComplication = "MATERNAL_COMPLICATION"
	TypeNewbornComplication  = "NEWBORN_COMPLICATION"
)

var validTypes = map[string]bool{
	TypeAPGARCritical: true, TypeLowWeight: true, TypeResuscitation: true,
	TypeHemorrhage: true, TypePreeclampsia: true, TypeFetalDistress: true,
	TypeEmergencyCesarean: true, TypeNICUReferral: true,
	TypeMaternalComplication: true, TypeNewbornComplication: true,
}

// Urgency levels.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

var validUrgencies = map[string]bool{
	UrgencyLow: true, UrgencyMedium: true, UrgencyHigh: true, UrgencyCritical: true,
}

// urgencyRank orders urgencies for listing, highest first.
var urgencyRank = map[string]int{
	UrgencyCritical: 4, UrgencyHigh: 3, UrgencyMedium: 2, UrgencyLow: 1,
}

// Lifecycle states. Transitions move forward only: active to in_attention
// to resolved, or active to discarded. Resolved and discarded are terminal.
const (
	StateActive      = "active"
	StateInAttention = "in_attention"
	StateResolved    = "resolved"
	StateDiscarded   = "discarded"
)

var validStates = map[string]bool{
	StateActive: true, StateInAttention: true, StateResolved: true, StateDiscarded: true,
}

// Alert maps to the alert table. Subject references are weak: an alert
// outlives the chart row that raised it, so none of them carry FKs.
type Alert struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	AlertType    string     `db:"alert_type" json:"alert_type"`
	Urgency      string     `db:"urgency" json:"urgency"`
	State        string     `db:"state" json:"state"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	NewbornID    *uuid.UUID `db:"newborn_id" json:"newborn_id,omitempty"`
	BirthEventID *uuid.UUID `db:"birth_event_id" json:"birth_event_id,omitempty"`
	PatientID    *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	RaisedBy     string     `db:"raised_by" json:"raised_by"`
	AttendedBy   *string    `db:"attended_by" json:"attended_by,omitempty"`
	RaisedAt     time.Time  `db:"raised_at" json:"raised_at"`
	AttendedAt   *time.Time `db:"attended_at" json:"attended_at,omitempty"`
	ResolvedAt   *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// MinutesWithoutAttention returns how long the alert has been waiting.
// Only meaningful while active; any other state reports 0.
func (a *Alert) MinutesWithoutAttention(now time.Time) int {
	if a.State != StateActive {
		return 0
	}
	m := int(now.Sub(a.RaisedAt).Minutes())
	if m < 0 {
		return 0
	}
	return m
}

// Open reports whether the alert still needs clinical attention.
func (a *Alert) Open() bool {
	return a.State == StateActive || a.State == StateInAttention
}
