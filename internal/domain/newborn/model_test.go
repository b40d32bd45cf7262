package newborn

import "testing"

func TestWeightClass(t *testing.T) {
	tests := []struct {
		grams int
		want  string
	}{
		{400, WeightVeryLow},
		{1499, WeightVeryLow},
		{1500, WeightLow},
		{2499, WeightLow},
		{2500, WeightNormal},
		{4000, WeightNormal},
		{4001, WeightMacrosomic},
		{6000, WeightMacrosomic},
	}
	for _, tt := range tests {
		n := &Newborn{WeightGrams: tt.grams}
		if got := n.WeightClass(); got != tt.want {
			t.Errorf("WeightClass(%d) = %s, want %s", tt.grams, got, tt.want)
		}
	}
}

func TestApgar5Critical(t *testing.T) {
	n := &Newborn{}
	if n.Apgar5Critical() {
		t.Error("expected unset APGAR-5 not to be critical")
	}
	six := 6
	n.Apgar5 = &six
	if !n.Apgar5Critical() {
		t.Error("expected APGAR-5 of 6 to be critical")
	}
	seven := 7
	n.Apgar5 = &seven
	if n.Apgar5Critical() {
		t.Error("expected APGAR-5 of 7 not to be critical")
	}
}

func TestRequiresPediatricAlert(t *testing.T) {
	nine := 9
	tests := []struct {
		name    string
		newborn Newborn
		preterm bool
		want    bool
	}{
		{"healthy term", Newborn{WeightGrams: 3400, Apgar5: &nine}, false, false},
		{"low weight", Newborn{WeightGrams: 2400, Apgar5: &nine}, false, true},
		{"macrosomic", Newborn{WeightGrams: 4300, Apgar5: &nine}, false, true},
		{"preterm", Newborn{WeightGrams: 3000, Apgar5: &nine}, true, true},
		{"malformation", Newborn{WeightGrams: 3400, Apgar5: &nine, Malformation: true}, false, true},
		{"resuscitated", Newborn{WeightGrams: 3400, Apgar5: &nine, Resuscitation: true}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.newborn.RequiresPediatricAlert(tt.preterm); got != tt.want {
				t.Errorf("RequiresPediatricAlert() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPGARDetailTotalAndClassification(t *testing.T) {
	tests := []struct {
		name      string
		detail    APGARDetail
		wantTotal int
		wantClass string
	}{
		{
			"perfect score",
			APGARDetail{HeartRate: 2, RespiratoryEffort: 2, MuscleTone: 2, ReflexIrritability: 2, SkinColor: 2},
			10, APGARNormal,
		},
		{
			"boundary normal",
			APGARDetail{HeartRate: 2, RespiratoryEffort: 2, MuscleTone: 1, ReflexIrritability: 1, SkinColor: 1},
			7, APGARNormal,
		},
		{
			"moderately abnormal",
			APGARDetail{HeartRate: 1, RespiratoryEffort: 1, MuscleTone: 1, ReflexIrritability: 1, SkinColor: 2},
			6, APGARModeratelyAbnormal,
		},
		{
			"boundary moderate",
			APGARDetail{HeartRate: 1, RespiratoryEffort: 1, MuscleTone: 1, ReflexIrritability: 1},
			4, APGARModeratelyAbnormal,
		},
		{
			"severely abnormal",
			APGARDetail{HeartRate: 1, RespiratoryEffort: 1, MuscleTone: 1},
			3, APGARSeverelyAbnormal,
		},
		{
			"no signs",
			APGARDetail{},
			0, APGARSeverelyAbnormal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.detail.Total(); got != tt.wantTotal {
				t.Errorf("Total() = %d, want %d", got, tt.wantTotal)
			}
			if got := tt.detail.Classification(); got != tt.wantClass {
				t.Errorf("Classification() = %s, want %s", got, tt.wantClass)
			}
		})
	}
}
