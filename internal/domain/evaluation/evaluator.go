package evaluation

import (
	"strings"

	"github.com/practica-app/practica-api/internal/domain"
)

// Verdict is the outcome of evaluating one submission against one item's
// ground truth. CorrectAnswer carries the catalog's correct text or option id
// for feedback display; it is nil when the submission shape did not match any
// available ground-truth shape.
type Verdict struct {
	IsCorrect     bool
	Score         int
	CorrectAnswer *string
}

// Service defines the interface for answer evaluation.
type Service interface {
	// Evaluate compares a submission against the ground truth for one item
	// and returns the verdict with the awarded score.
	Evaluate(sub domain.AnswerSubmission, truth domain.GroundTruth) Verdict

	// PointsPerCorrect returns the fixed per-item award used for scoring.
	PointsPerCorrect() int
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates an evaluation service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates an evaluation service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// Evaluate implements the Service interface.
func (s *defaultService) Evaluate(sub domain.AnswerSubmission, truth domain.GroundTruth) Verdict {
	points := s.params.PointsPerCorrect

	switch {
	case sub.SelectedOptionID != nil && truth.HasOption():
		correct := *sub.SelectedOptionID == *truth.CorrectOptionID
		return verdict(correct, points, truth.CorrectOptionID)

	case sub.SubmittedText != nil && truth.HasText():
		correct := textMatches(*sub.SubmittedText, *truth.CorrectText)
		return verdict(correct, points, truth.CorrectText)

	default:
		// Submission shape has no matching ground-truth shape: never correct,
		// and the correct answer is not surfaced.
		return Verdict{}
	}
}

// PointsPerCorrect implements the Service interface.
func (s *defaultService) PointsPerCorrect() int {
	return s.params.PointsPerCorrect
}

// textMatches compares free-text answers after trimming surrounding
// whitespace and Unicode case-folding. Accent- and punctuation-sensitive;
// no fuzzy matching.
func textMatches(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}

func verdict(correct bool, points int, answer *string) Verdict {
	v := Verdict{IsCorrect: correct, CorrectAnswer: answer}
	if correct {
		v.Score = points
	}
	return v
}
