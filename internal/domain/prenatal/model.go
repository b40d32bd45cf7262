package prenatal

import (
	"time"

	"github.com/google/uuid"
)

// Control maps to the prenatal_control table. It records the current
// pregnancy data and obstetric history collected during prenatal care.
type Control struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	PatientID           uuid.UUID  `db:"patient_id" json:"patient_id"`
	LMPDate             time.Time  `db:"lmp_date" json:"lmp_date"`
	FirstControlDate    *time.Time `db:"first_control_date" json:"first_control_date,omitempty"`
	ControlsPerformed   int        `db:"controls_performed" json:"controls_performed"`
	BloodGroup          *string    `db:"blood_group" json:"blood_group,omitempty"`
	RhFactor            *string    `db:"rh_factor" json:"rh_factor,omitempty"`
	HemoglobinGDL       *float64   `db:"hemoglobin_g_dl" json:"hemoglobin_g_dl,omitempty"`
	GlycemiaMGDL        *int       `db:"glycemia_mg_dl" json:"glycemia_mg_dl,omitempty"`
	PriorGestations     int        `db:"prior_gestations" json:"prior_gestations"`
	PriorBirths         int        `db:"prior_births" json:"prior_births"`
	PriorCesareans      int        `db:"prior_cesareans" json:"prior_cesareans"`
	PriorAbortions      int        `db:"prior_abortions" json:"prior_abortions"`
	TwinPregnancy       bool       `db:"twin_pregnancy" json:"twin_pregnancy"`
	Hypertension        bool       `db:"hypertension" json:"hypertension"`
	GestationalDiabetes bool       `db:"gestational_diabetes" json:"gestational_diabetes"`
	Preeclampsia        bool       `db:"preeclampsia" json:"preeclampsia"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// GestationalAgeWeeksAt returns the gestational age in whole weeks counted
// from the last menstrual period.
func (c *Control) GestationalAgeWeeksAt(at time.Time) int {
	days := int(at.Sub(c.LMPDate).Hours() / 24)
	return days / 7
}

// GestationalAgeWeeks returns the current gestational age in whole weeks.
func (c *Control) GestationalAgeWeeks() int {
	return c.GestationalAgeWeeksAt(time.Now())
}

var validBloodGroups = map[string]bool{"A": true, "B": true, "AB": true, "O": true}
var validRhFactors = map[string]bool{"positive": true, "negative": true}

// Prenatal exam types.
const (
	ExamHIV          = "hiv"
	ExamVDRL         = "vdrl"
	ExamHepatitisB   = "hepatitis_b"
	ExamGroupBStrep  = "group_b_strep"
	ExamHemogram     = "hemogram"
	ExamBloodGroup   = "blood_group_rh"
	ExamGlycemia     = "glycemia"
	ExamUrineCulture = "urine_culture"
)

var validExamTypes = map[string]bool{
	ExamHIV: true, ExamVDRL: true, ExamHepatitisB: true, ExamGroupBStrep: true,
	ExamHemogram: true, ExamBloodGroup: true, ExamGlycemia: true, ExamUrineCulture: true,
}

// Prenatal exam results.
const (
	ResultNegative     = "negative"
	ResultPositive     = "positive"
	ResultNonReactive  = "non_reactive"
	ResultReactive     = "reactive"
	ResultNotPerformed = "not_performed"
	ResultPending      = "pending"
)

var validExamResults = map[string]bool{
	ResultNegative: true, ResultPositive: true, ResultNonReactive: true,
	ResultReactive: true, ResultNotPerformed: true, ResultPending: true,
}

// criticalExamResults maps the mandatory infectious screenings to the
// result that triggers the special care protocol.
var criticalExamResults = map[string]string{
	ExamHIV:         ResultPositive,
	ExamVDRL:        ResultReactive,
	ExamHepatitisB:  ResultPositive,
	ExamGroupBStrep: ResultPositive,
}

// Exam maps to the prenatal_exam table. It records the mandatory prenatal
// screenings (HIV, VDRL, hepatitis B, group B strep and the rest).
type Exam struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ControlID uuid.UUID  `db:"control_id" json:"control_id"`
	ExamType  string     `db:"exam_type" json:"exam_type"`
	Result    string     `db:"result" json:"result"`
	ExamDate  *time.Time `db:"exam_date" json:"exam_date,omitempty"`
	Notes     *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Critical reports whether the exam result requires the special care
// protocol. Only the flagged infectious screenings can be critical.
func (e *Exam) Critical() bool {
	critical, ok := criticalExamResults[e.ExamType]
	return ok && e.Result == critical
}
