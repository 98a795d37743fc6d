// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/api/shared"
	"github.com/practica-app/practica-api/internal/domain"
	"github.com/practica-app/practica-api/internal/platform/logger"
	"github.com/practica-app/practica-api/internal/redact"
	"github.com/practica-app/practica-api/internal/service/practice"
)

// SessionResponse represents the response data for a practice session
type SessionResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	LessonID  string     `json:"lesson_id"`
	Mode      string     `json:"mode"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// AttemptResponse represents the response data for an attempt
type AttemptResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

// AttemptDetailResponse represents an attempt together with the responses
// recorded under it
type AttemptDetailResponse struct {
	ID          string             `json:"id"`
	SessionID   string             `json:"session_id"`
	Number      int                `json:"number"`
	TotalScore  int                `json:"total_score"`
	MaxScore    int                `json:"max_score"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	Responses   []*domain.Response `json:"responses"`
}

// StartSessionRequest represents the request body for starting a session
type StartSessionRequest struct {
	LessonID string `json:"lesson_id" validate:"required,uuid"`
	Mode     string `json:"mode"      validate:"required,oneof=learn review"`
}

// SubmitAnswerRequest represents the request body for a single graded answer
type SubmitAnswerRequest struct {
	ItemID           string  `json:"item_id" validate:"required,uuid"`
	SubmittedText    *string `json:"submitted_text,omitempty"`
	SelectedOptionID *string `json:"selected_option_id,omitempty"`
	TimeSpentMs      int     `json:"time_spent_ms" validate:"gte=0"`
}

// SubmitAttemptRequest represents the request body for the bulk submit flow
type SubmitAttemptRequest struct {
	Responses []SubmitAnswerRequest `json:"responses" validate:"dive"`
}

// PracticeHandler handles practice-related HTTP requests
type PracticeHandler struct {
	practiceService practice.PracticeService
	logger          *slog.Logger
}

// NewPracticeHandler creates a new PracticeHandler
func NewPracticeHandler(
	practiceService practice.PracticeService,
	logger *slog.Logger,
) *PracticeHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PracticeHandler")
	}

	return &PracticeHandler{
		practiceService: practiceService,
		logger:          logger.With(slog.String("component", "practice_handler")),
	}
}

// StartSession handles POST /practice/sessions requests.
// Starting is idempotent per (user, lesson): retries get the same session.
func (h *PracticeHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	lessonID, err := uuid.Parse(req.LessonID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	session, err := h.practiceService.StartSession(
		r.Context(),
		userID,
		lessonID,
		domain.SessionMode(req.Mode),
	)
	if err != nil {
		respondServiceError(w, r, err, "Failed to start session")
		return
	}

	log.Debug("session start handled",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// GetSession handles GET /practice/sessions/{id} requests.
func (h *PracticeHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, ok := pathUUID(w, r, "id", "Session")
	if !ok {
		return
	}

	session, err := h.practiceService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// StartAttempt handles POST /practice/sessions/{id}/attempts requests.
func (h *PracticeHandler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := pathUUID(w, r, "id", "Session")
	if !ok {
		return
	}

	attempt, err := h.practiceService.StartAttempt(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to start attempt")
		return
	}

	log.Debug("attempt started",
		slog.String("session_id", sessionID.String()),
		slog.String("attempt_id", attempt.ID.String()),
		slog.Int("attempt_number", attempt.Number))
	shared.RespondWithJSON(w, r, http.StatusCreated, attemptToResponse(attempt))
}

// GetAttempt handles GET /practice/attempts/{id} requests. The attempt is
// returned with every response recorded so far; attempts under another
// user's session read as not found.
func (h *PracticeHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	attemptID, ok := pathUUID(w, r, "id", "Attempt")
	if !ok {
		return
	}

	detail, err := h.practiceService.GetAttempt(r.Context(), userID, attemptID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get attempt")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, attemptDetailToResponse(detail))
}

// SubmitAnswer handles POST /practice/attempts/{id}/answers requests.
// Double-submission for the same item is surfaced as a conflict, never
// silently replayed.
func (h *PracticeHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	attemptID, ok := pathUUID(w, r, "id", "Attempt")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("attempt_id", attemptID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	result, err := h.practiceService.SubmitAnswer(r.Context(), attemptID, itemID, domain.AnswerSubmission{
		SubmittedText:    req.SubmittedText,
		SelectedOptionID: req.SelectedOptionID,
		TimeSpentMs:      req.TimeSpentMs,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("answer submitted",
		slog.String("attempt_id", attemptID.String()),
		slog.String("item_id", itemID.String()),
		slog.Bool("is_correct", result.IsCorrect))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// SubmitAttempt handles POST /practice/attempts/{id}/submit requests.
func (h *PracticeHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	attemptID, ok := pathUUID(w, r, "id", "Attempt")
	if !ok {
		return
	}

	var req SubmitAttemptRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("attempt_id", attemptID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	answers := make([]practice.AttemptAnswer, 0, len(req.Responses))
	for _, entry := range req.Responses {
		itemID, err := uuid.Parse(entry.ItemID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
			return
		}
		answers = append(answers, practice.AttemptAnswer{
			ItemID: itemID,
			Answer: domain.AnswerSubmission{
				SubmittedText:    entry.SubmittedText,
				SelectedOptionID: entry.SelectedOptionID,
				TimeSpentMs:      entry.TimeSpentMs,
			},
		})
	}

	result, err := h.practiceService.SubmitAttempt(r.Context(), attemptID, answers)
	if err != nil {
		respondServiceError(w, r, err, "Failed to submit attempt")
		return
	}

	log.Debug("attempt submitted",
		slog.String("attempt_id", attemptID.String()),
		slog.Int("total_score", result.TotalScore),
		slog.Int("percentage", result.Percentage))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// CompleteSession handles POST /practice/sessions/{id}/complete requests.
// Completion is idempotent; repeating it returns the stored end time.
func (h *PracticeHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, ok := pathUUID(w, r, "id", "Session")
	if !ok {
		return
	}

	summary, err := h.practiceService.CompleteSession(r.Context(), userID, sessionID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to complete session")
		return
	}

	log.Debug("session completed",
		slog.String("session_id", sessionID.String()),
		slog.Int("best_score", summary.BestScore),
		slog.Int("total_attempts", summary.TotalAttempts))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// respondServiceError maps a service error onto a status code and sanitized
// message; 5xx responses carry the operation-specific fallback message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)
	if statusCode == http.StatusInternalServerError {
		safeMessage = fallback
	}
	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}

// userIDFromContext extracts the authenticated user ID set by the identity
// middleware.
func userIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses a UUID path parameter, writing the error response itself
// when the parameter is missing or malformed.
func pathUUID(w http.ResponseWriter, r *http.Request, param, entity string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, entity+" ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+entity+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// sessionToResponse converts a domain.PracticeSession to a SessionResponse
func sessionToResponse(session *domain.PracticeSession) SessionResponse {
	return SessionResponse{
		ID:        session.ID.String(),
		UserID:    session.UserID.String(),
		LessonID:  session.LessonID.String(),
		Mode:      string(session.Mode),
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
	}
}

// attemptToResponse converts a domain.Attempt to an AttemptResponse
func attemptToResponse(attempt *domain.Attempt) AttemptResponse {
	return AttemptResponse{
		ID:        attempt.ID.String(),
		SessionID: attempt.SessionID.String(),
		Number:    attempt.Number,
		CreatedAt: attempt.CreatedAt,
	}
}

// attemptDetailToResponse converts a practice.AttemptDetail to an
// AttemptDetailResponse. Responses is never nil in the body.
func attemptDetailToResponse(detail *practice.AttemptDetail) AttemptDetailResponse {
	responses := detail.Responses
	if responses == nil {
		responses = []*domain.Response{}
	}
	return AttemptDetailResponse{
		ID:          detail.Attempt.ID.String(),
		SessionID:   detail.Attempt.SessionID.String(),
		Number:      detail.Attempt.Number,
		TotalScore:  detail.Attempt.TotalScore,
		MaxScore:    detail.Attempt.MaxScore,
		CompletedAt: detail.Attempt.CompletedAt,
		CreatedAt:   detail.Attempt.CreatedAt,
		Responses:   responses,
	}
}
