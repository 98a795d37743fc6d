package domain

import (
	"testing"

	"github.com/google/uuid"
)

func strPtr(s string) *string {
	return &s
}

func TestAnswerSubmissionValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	// Exactly one of text or option must be set
	sub := AnswerSubmission{SubmittedText: strPtr("hola")}
	if err := sub.Validate(); err != nil {
		t.Errorf("Expected valid text submission, got error %v", err)
	}

	sub = AnswerSubmission{SelectedOptionID: strPtr("opt-2")}
	if err := sub.Validate(); err != nil {
		t.Errorf("Expected valid option submission, got error %v", err)
	}

	sub = AnswerSubmission{}
	if err := sub.Validate(); err != ErrInvalidSubmission {
		t.Errorf("Expected error %v, got %v", ErrInvalidSubmission, err)
	}

	sub = AnswerSubmission{SubmittedText: strPtr("hola"), SelectedOptionID: strPtr("opt-2")}
	if err := sub.Validate(); err != ErrInvalidSubmission {
		t.Errorf("Expected error %v, got %v", ErrInvalidSubmission, err)
	}

	sub = AnswerSubmission{SubmittedText: strPtr("hola"), TimeSpentMs: -5}
	if err := sub.Validate(); err != ErrResponseTimeSpentInvalid {
		t.Errorf("Expected error %v, got %v", ErrResponseTimeSpentInvalid, err)
	}
}

func TestNewResponse(t *testing.T) {
	t.Parallel()
	attemptID := uuid.New()
	itemID := uuid.New()
	sub := AnswerSubmission{SubmittedText: strPtr("bonjour"), TimeSpentMs: 1200}

	response, err := NewResponse(attemptID, itemID, sub, true, 10)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if response.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if response.AttemptID != attemptID {
		t.Errorf("Expected attempt ID %s, got %s", attemptID, response.AttemptID)
	}

	if response.ItemID != itemID {
		t.Errorf("Expected item ID %s, got %s", itemID, response.ItemID)
	}

	if response.SubmittedText == nil || *response.SubmittedText != "bonjour" {
		t.Error("Expected submitted text to be carried over")
	}

	if !response.IsCorrect {
		t.Error("Expected response to be marked correct")
	}

	if response.Score != 10 {
		t.Errorf("Expected score 10, got %d", response.Score)
	}

	if response.TimeSpentMs != 1200 {
		t.Errorf("Expected time spent 1200ms, got %d", response.TimeSpentMs)
	}

	// Test invalid attemptID
	_, err = NewResponse(uuid.Nil, itemID, sub, true, 10)
	if err != ErrResponseAttemptIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrResponseAttemptIDEmpty, err)
	}

	// Test invalid itemID
	_, err = NewResponse(attemptID, uuid.Nil, sub, true, 10)
	if err != ErrResponseItemIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrResponseItemIDEmpty, err)
	}

	// Test negative score
	_, err = NewResponse(attemptID, itemID, sub, false, -1)
	if err != ErrResponseScoreInvalid {
		t.Errorf("Expected error %v, got %v", ErrResponseScoreInvalid, err)
	}

	// Test empty submission
	_, err = NewResponse(attemptID, itemID, AnswerSubmission{}, false, 0)
	if err != ErrInvalidSubmission {
		t.Errorf("Expected error %v, got %v", ErrInvalidSubmission, err)
	}
}

func TestGroundTruthShape(t *testing.T) {
	t.Parallel()
	truth := GroundTruth{CorrectText: strPtr("merci")}
	if !truth.HasText() || truth.HasOption() {
		t.Error("Expected text-only ground truth")
	}

	truth = GroundTruth{CorrectOptionID: strPtr("opt-1")}
	if truth.HasText() || !truth.HasOption() {
		t.Error("Expected option-only ground truth")
	}
}
