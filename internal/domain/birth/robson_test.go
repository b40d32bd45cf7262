package birth

import "testing"

func TestClassifyRobson(t *testing.T) {
	tests := []struct {
		name string
		in   ClassificationInputs
		want int
	}{
		{
			name: "term cephalic primipara spontaneous",
			in:   ClassificationInputs{GestationalWeeks: 39, Presentation: PresentationCephalic, LaborOnset: OnsetSpontaneous, Primipara: true},
			want: 1,
		},
		{
			name: "term cephalic primipara induced",
			in:   ClassificationInputs{GestationalWeeks: 39, Presentation: PresentationCephalic, LaborOnset: OnsetInduced, Primipara: true},
			want: 2,
		},
		{
			name: "term cephalic primipara cesarean without labor",
			in:   ClassificationInputs{GestationalWeeks: 40, Presentation: PresentationCephalic, LaborOnset: OnsetCesareanWithoutLabor, Primipara: true},
			want: 2,
		},
		{
			name: "term cephalic multipara spontaneous no scar",
			in:   ClassificationInputs{GestationalWeeks: 38, Presentation: PresentationCephalic, LaborOnset: OnsetSpontaneous},
			want: 3,
		},
		{
			name: "term cephalic multipara induced no scar",
			in:   ClassificationInputs{GestationalWeeks: 39, Presentation: PresentationCephalic, LaborOnset: OnsetInduced},
			want: 4,
		},
		{
			name: "term cephalic multipara with scar",
			in:   ClassificationInputs{GestationalWeeks: 39, Presentation: PresentationCephalic, LaborOnset: OnsetSpontaneous, PriorUterineScar: true},
			want: 5,
		},
		{
			name: "breech primipara",
			in:   ClassificationInputs{GestationalWeeks: 38, Presentation: PresentationBreech, LaborOnset: OnsetSpontaneous, Primipara: true},
			want: 6,
		},
		{
			name: "breech multipara",
			in:   ClassificationInputs{GestationalWeeks: 38, Presentation: PresentationBreech, LaborOnset: OnsetSpontaneous},
			want: 7,
		},
		{
			name: "multiple pregnancy beats everything",
			in:   ClassificationInputs{GestationalWeeks: 33, Presentation: PresentationTransverse, LaborOnset: OnsetInduced, MultiplePregnancy: true},
			want: 8,
		},
		{
			name: "transverse beats preterm",
			in:   ClassificationInputs{GestationalWeeks: 34, Presentation: PresentationTransverse, LaborOnset: OnsetSpontaneous},
			want: 9,
		},
		{
			name: "preterm cephalic primipara",
			in:   ClassificationInputs{GestationalWeeks: 36, Presentation: PresentationCephalic, LaborOnset: OnsetSpontaneous, Primipara: true},
			want: 10,
		},
		{
			name: "preterm breech",
			in:   ClassificationInputs{GestationalWeeks: 30, Presentation: PresentationBreech, LaborOnset: OnsetSpontaneous},
			want: 10,
		},
		{
			name: "unknown presentation falls through to unclassified",
			in:   ClassificationInputs{GestationalWeeks: 39, Presentation: "oblique", LaborOnset: OnsetSpontaneous},
			want: RobsonUnclassified,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRobson(tt.in)
			if got != tt.want {
				t.Errorf("ClassifyRobson() = %d, want %d", got, tt.want)
			}
			if got < 1 || got > 10 {
				t.Errorf("ClassifyRobson() = %d, outside [1,10]", got)
			}
			if again := ClassifyRobson(tt.in); again != got {
				t.Errorf("ClassifyRobson() not deterministic: %d then %d", got, again)
			}
		})
	}
}
