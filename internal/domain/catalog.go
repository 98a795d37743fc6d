package domain

// GroundTruth is the catalog-supplied correct answer for one exercise item:
// either a canonical free-text answer or the id of the correct option. The
// practice engine never mutates catalog data.
type GroundTruth struct {
	CorrectText     *string `json:"correct_text,omitempty"`
	CorrectOptionID *string `json:"correct_option_id,omitempty"`
}

// HasText reports whether the ground truth defines a correct free-text answer.
func (g GroundTruth) HasText() bool {
	return g.CorrectText != nil
}

// HasOption reports whether the ground truth defines a correct option id.
func (g GroundTruth) HasOption() bool {
	return g.CorrectOptionID != nil
}
