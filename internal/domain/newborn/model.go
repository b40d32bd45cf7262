package newborn

import (
	"time"

	"github.com/google/uuid"
)

// Sexes.
const (
	SexMale          = "male"
	SexFemale        = "female"
	SexIndeterminate = "indeterminate"
)

var validSexes = map[string]bool{
	SexMale: true, SexFemale: true, SexIndeterminate: true,
}

// Vital statuses.
const (
	StatusLive      = "live"
	StatusStillborn = "stillborn"
	StatusDeceased  = "deceased"
)

var validVitalStatuses = map[string]bool{
	StatusLive: true, StatusStillborn: true, StatusDeceased: true,
}

// Immediate destinations after delivery.
const (
	DestinationRoomingIn        = "rooming_in"
	DestinationNICU             = "nicu"
	DestinationIntermediateCare = "intermediate_care"
	DestinationTransfer         = "transfer"
)

var validDestinations = map[string]bool{
	DestinationRoomingIn: true, DestinationNICU: true,
	DestinationIntermediateCare: true, DestinationTransfer: true,
}

// Cord clamping.
const (
	ClampingEarly   = "early"
	ClampingDelayed = "delayed"
)

var validClampings = map[string]bool{ClampingEarly: true, ClampingDelayed: true}

// Weight classes derived from birth weight in grams.
const (
	WeightVeryLow    = "very_low"
	WeightLow        = "low"
	WeightNormal     = "normal"
	WeightMacrosomic = "macrosomic"
)

// Newborn maps to the newborn table. One row per birth event. The APGAR
// summary fields hold the totals for each standard minute; once a
// detailed score sheet exists for a minute, that sheet is the source of
// truth and the summary is overwritten from it.
type Newborn struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	BirthEventID        uuid.UUID  `db:"birth_event_id" json:"birth_event_id"`
	Sex                 string     `db:"sex" json:"sex"`
	WeightGrams         int        `db:"weight_grams" json:"weight_grams"`
	LengthCM            *float64   `db:"length_cm" json:"length_cm,omitempty"`
	HeadCircumferenceCM *float64   `db:"head_circumference_cm" json:"head_circumference_cm,omitempty"`
	Apgar1              *int       `db:"apgar_1" json:"apgar_1,omitempty"`
	Apgar5              *int       `db:"apgar_5" json:"apgar_5,omitempty"`
	Apgar10             *int       `db:"apgar_10" json:"apgar_10,omitempty"`
	Resuscitation       bool       `db:"resuscitation" json:"resuscitation"`
	ResuscitationType   *string    `db:"resuscitation_type" json:"resuscitation_type,omitempty"`
	Malformation        bool       `db:"malformation" json:"malformation"`
	MalformationDetail  *string    `db:"malformation_detail" json:"malformation_detail,omitempty"`
	CordClamping        *string    `db:"cord_clamping" json:"cord_clamping,omitempty"`
	SkinToSkin          bool       `db:"skin_to_skin" json:"skin_to_skin"`
	VitaminK            bool       `db:"vitamin_k" json:"vitamin_k"`
	EyeProphylaxis      bool       `db:"eye_prophylaxis" json:"eye_prophylaxis"`
	HepBVaccine         bool       `db:"hep_b_vaccine" json:"hep_b_vaccine"`
	Destination         *string    `db:"destination" json:"destination,omitempty"`
	VitalStatus         string     `db:"vital_status" json:"vital_status"`
	EvaluatedBy         string     `db:"evaluated_by" json:"evaluated_by"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// WeightClass buckets the birth weight. Computed on read, never stored.
func (n *Newborn) WeightClass() string {
	switch {
	case n.WeightGrams < 1500:
		return WeightVeryLow
	case n.WeightGrams < 2500:
		return WeightLow
	case n.WeightGrams <= 4000:
		return WeightNormal
	default:
		return WeightMacrosomic
	}
}

// Apgar5Critical reports whether the 5-minute APGAR is below 7.
func (n *Newborn) Apgar5Critical() bool {
	return n.Apgar5 != nil && *n.Apgar5 < 7
}

// RequiresPediatricAlert reports whether the evaluation warrants
// immediate pediatric review. Preterm is derived from the birth event,
// which the newborn row does not carry itself.
func (n *Newborn) RequiresPediatricAlert(preterm bool) bool {
	return n.Apgar5Critical() ||
		n.WeightGrams < 2500 ||
		n.WeightGrams > 4000 ||
		preterm ||
		n.Malformation ||
		n.Resuscitation
}

// APGAR minutes with a dedicated score sheet.
var validAPGARMinutes = map[int]bool{1: true, 5: true, 10: true}

// APGAR classifications.
const (
	APGARNormal             = "normal"
	APGARModeratelyAbnormal = "moderately_abnormal"
	APGARSeverelyAbnormal   = "severely_abnormal"
)

// APGARDetail maps to the apgar_detail table: the five-component score
// sheet for one standard minute. At most one sheet per newborn per minute.
type APGARDetail struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	NewbornID          uuid.UUID `db:"newborn_id" json:"newborn_id"`
	Minute             int       `db:"minute" json:"minute"`
	HeartRate          int       `db:"heart_rate" json:"heart_rate"`
	RespiratoryEffort  int       `db:"respiratory_effort" json:"respiratory_effort"`
	MuscleTone         int       `db:"muscle_tone" json:"muscle_tone"`
	ReflexIrritability int       `db:"reflex_irritability" json:"reflex_irritability"`
	SkinColor          int       `db:"skin_color" json:"skin_color"`
	EvaluatedBy        string    `db:"evaluated_by" json:"evaluated_by"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// Total sums the five components, 0 to 10.
func (d *APGARDetail) Total() int {
	return d.HeartRate + d.RespiratoryEffort + d.MuscleTone + d.ReflexIrritability + d.SkinColor
}

// Classification buckets the total per the standard clinical cutoffs.
func (d *APGARDetail) Classification() string {
	switch total := d.Total(); {
	case total >= 7:
		return APGARNormal
	case total >= 4:
		return APGARModeratelyAbnormal
	default:
		return APGARSeverelyAbnormal
	}
}

// Neonatal complication types.
const (
	ComplicationRespiratoryDistress = "respiratory_distress"
	ComplicationSepsis              = "sepsis"
	ComplicationJaundice            = "jaundice"
	ComplicationHypoglycemia        = "hypoglycemia"
	ComplicationBirthTrauma         = "birth_trauma"
	ComplicationCongenitalAnomaly   = "congenital_anomaly"
	ComplicationOther               = "other"
)

var validComplicationTypes = map[string]bool{
	ComplicationRespiratoryDistress: true, ComplicationSepsis: true,
	ComplicationJaundice: true, ComplicationHypoglycemia: true,
	ComplicationBirthTrauma: true, ComplicationCongenitalAnomaly: true,
	ComplicationOther: true,
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

// NeonatalComplication maps to the neonatal_complication table.
type NeonatalComplication struct {
	ID               uuid.UUID `db:"id" json:"id"`
	NewbornID        uuid.UUID `db:"newborn_id" json:"newborn_id"`
	ComplicationType string    `db:"complication_type" json:"complication_type"`
	ICD10Code        *string   `db:"icd10_code" json:"icd10_code,omitempty"`
	Severity         string    `db:"severity" json:"severity"`
	RequiredNICU     bool      `db:"required_nicu" json:"required_nicu"`
	Ventilation      bool      `db:"ventilation" json:"ventilation"`
	Phototherapy     bool      `db:"phototherapy" json:"phototherapy"`
	RecordedBy       string    `db:"recorded_by" json:"recorded_by"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
