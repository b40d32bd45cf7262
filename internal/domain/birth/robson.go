package birth

// RobsonUnclassified is the fallback group for input combinations the
// decision table does not match. The WHO manual folds these into group 10.
const RobsonUnclassified = 10

// ClassificationInputs are the obstetric characteristics the Robson
// ten-group classification is a function of.
type ClassificationInputs struct {
	GestationalWeeks  int
	Presentation      string
	LaborOnset        string
	Primipara         bool
	PriorUterineScar  bool
	MultiplePregnancy bool
}

// ClassifyRobson maps a birth to its WHO Robson group (1 to 10). The
// checks encode a priority order, not a partition: the first matching
// rule decides. Deterministic and total, so the stored group can always
// be recomputed from the row.
func ClassifyRobson(in ClassificationInputs) int {
	if in.MultiplePregnancy {
		return 8
	}
	if in.Presentation == PresentationTransverse {
		return 9
	}
	if in.GestationalWeeks < 37 {
		return 10
	}
	if in.Presentation == PresentationBreech {
		if in.Primipara {
			return 6
		}
		return 7
	}
	if in.Presentation == PresentationCephalic {
		if !in.Primipara && in.PriorUterineScar {
			return 5
		}
		if in.Primipara {
			if in.LaborOnset == OnsetSpontaneous {
				return 1
			}
			return 2
		}
		if in.LaborOnset == OnsetSpontaneous {
			return 3
		}
		return 4
	}
	return RobsonUnclassified
}
