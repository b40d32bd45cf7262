package birth

import (
	"time"

	"github.com/google/uuid"
)

// Delivery types.
const (
	DeliverySpontaneousVaginal = "spontaneous_vaginal"
	DeliveryElectiveCesarean   = "elective_cesarean"
	DeliveryEmergencyCesarean  = "emergency_cesarean"
	DeliveryForceps            = "forceps"
	DeliveryVacuum             = "vacuum"
)

var validDeliveryTypes = map[string]bool{
	DeliverySpontaneousVaginal: true, DeliveryElectiveCesarean: true,
	DeliveryEmergencyCesarean: true, DeliveryForceps: true, DeliveryVacuum: true,
}

// Fetal presentations.
const (
	PresentationCephalic   = "cephalic"
	PresentationBreech     = "breech"
	PresentationTransverse = "transverse"
)

var validPresentations = map[string]bool{
	PresentationCephalic: true, PresentationBreech: true, PresentationTransverse: true,
}

// Labor onsets.
const (
	OnsetSpontaneous          = "spontaneous"
	OnsetInduced              = "induced"
	OnsetCesareanWithoutLabor = "cesarean_without_labor"
)

var validLaborOnsets = map[string]bool{
	OnsetSpontaneous: true, OnsetInduced: true, OnsetCesareanWithoutLabor: true,
}

// Membrane rupture types.
const (
	MembranesSpontaneous = "spontaneous"
	MembranesArtificial  = "artificial"
	MembranesIntact      = "intact"
)

var validMembraneRuptures = map[string]bool{
	MembranesSpontaneous: true, MembranesArtificial: true, MembranesIntact: true,
}

// Anesthesia types.
const (
	AnesthesiaNone     = "none"
	AnesthesiaEpidural = "epidural"
	AnesthesiaSpinal   = "spinal"
	AnesthesiaGeneral  = "general"
	AnesthesiaLocal    = "local"
)

var validAnesthesias = map[string]bool{
	AnesthesiaNone: true, AnesthesiaEpidural: true, AnesthesiaSpinal: true,
	AnesthesiaGeneral: true, AnesthesiaLocal: true,
}

// Event maps to the birth_event table. One row per childbirth; the
// robson_group column is derived from the classification inputs and is
// recomputed on every write that touches one of them.
type Event struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	PatientID          uuid.UUID  `db:"patient_id" json:"patient_id"`
	PrenatalControlID  *uuid.UUID `db:"prenatal_control_id" json:"prenatal_control_id,omitempty"`
	RecordedBy         string     `db:"recorded_by" json:"recorded_by"`
	BirthDateTime      time.Time  `db:"birth_datetime" json:"birth_datetime"`
	GestationalWeeks   int        `db:"gestational_weeks" json:"gestational_weeks"`
	GestationalDays    int        `db:"gestational_days" json:"gestational_days"`
	DeliveryType       string     `db:"delivery_type" json:"delivery_type"`
	Presentation       string     `db:"presentation" json:"presentation"`
	LaborOnset         string     `db:"labor_onset" json:"labor_onset"`
	Primipara          bool       `db:"primipara" json:"primipara"`
	PriorUterineScar   bool       `db:"prior_uterine_scar" json:"prior_uterine_scar"`
	MultiplePregnancy  bool       `db:"multiple_pregnancy" json:"multiple_pregnancy"`
	MembraneRupture    *string    `db:"membrane_rupture" json:"membrane_rupture,omitempty"`
	AmnioticFluid      *string    `db:"amniotic_fluid" json:"amniotic_fluid,omitempty"`
	Anesthesia         *string    `db:"anesthesia" json:"anesthesia,omitempty"`
	CesareanIndication *string    `db:"cesarean_indication" json:"cesarean_indication,omitempty"`
	PlaceOfCare        *string    `db:"place_of_care" json:"place_of_care,omitempty"`
	Complications      bool       `db:"complications" json:"complications"`
	RobsonGroup        int        `db:"robson_group" json:"robson_group"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// ClassificationInputs returns the subset of the event that drives the
// Robson ten-group classification.
func (e *Event) ClassificationInputs() ClassificationInputs {
	return ClassificationInputs{
		GestationalWeeks:  e.GestationalWeeks,
		Presentation:      e.Presentation,
		LaborOnset:        e.LaborOnset,
		Primipara:         e.Primipara,
		PriorUterineScar:  e.PriorUterineScar,
		MultiplePregnancy: e.MultiplePregnancy,
	}
}

// Cesarean reports whether the delivery was by cesarean section.
func (e *Event) Cesarean() bool {
	return e.DeliveryType == DeliveryElectiveCesarean || e.DeliveryType == DeliveryEmergencyCesarean
}

// Preterm reports whether the birth happened before 37 completed weeks.
func (e *Event) Preterm() bool {
	return e.GestationalWeeks < 37
}

// Complication severities.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

var validSeverities = map[string]bool{
	SeverityMild: true, SeverityModerate: true, SeveritySevere: true,
}

// Maternal complication types.
const (
	ComplicationHemorrhage       = "hemorrhage"
	ComplicationPreeclampsia     = "preeclampsia"
	ComplicationEclampsia        = "eclampsia"
	ComplicationInfection        = "infection"
	ComplicationUterineRupture   = "uterine_rupture"
	ComplicationPlacentaRetained = "retained_placenta"
	ComplicationPerinealTear     = "perineal_tear"
	ComplicationOther            = "other"
)

var validComplicationTypes = map[string]bool{
	ComplicationHemorrhage: true, ComplicationPreeclampsia: true,
	ComplicationEclampsia: true, ComplicationInfection: true,
	ComplicationUterineRupture: true, ComplicationPlacentaRetained: true,
	ComplicationPerinealTear: true, ComplicationOther: true,
}

// MaternalComplication maps to the maternal_complication table.
type MaternalComplication struct {
	ID               uuid.UUID `db:"id" json:"id"`
	BirthEventID     uuid.UUID `db:"birth_event_id" json:"birth_event_id"`
	ComplicationType string    `db:"complication_type" json:"complication_type"`
	ICD10Code        *string   `db:"icd10_code" json:"icd10_code,omitempty"`
	Severity         string    `db:"severity" json:"severity"`
	Treatment        *string   `db:"treatment" json:"treatment,omitempty"`
	RequiredICU      bool      `db:"required_icu" json:"required_icu"`
	Transfusion      bool      `db:"transfusion" json:"transfusion"`
	Surgery          bool      `db:"surgery" json:"surgery"`
	RecordedBy       string    `db:"recorded_by" json:"recorded_by"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
