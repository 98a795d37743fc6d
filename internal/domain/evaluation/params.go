package evaluation

// DefaultPointsPerCorrect is the fixed award for a correct item when no
// override is configured.
const DefaultPointsPerCorrect = 10

// Params defines the configurable parameters for answer evaluation.
// There is deliberately no partial credit and no time-based scoring.
type Params struct {
	// PointsPerCorrect is awarded for each correct item; incorrect items
	// always score 0.
	PointsPerCorrect int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		PointsPerCorrect: DefaultPointsPerCorrect,
	}
}
