package practice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/domain"
	"github.com/practica-app/practica-api/internal/domain/evaluation"
	"github.com/practica-app/practica-api/internal/platform/logger"
	"github.com/practica-app/practica-api/internal/store"
)

// Verify interface compliance at compile time
var _ PracticeService = (*practiceServiceImpl)(nil)

// practiceServiceImpl implements the PracticeService interface.
type practiceServiceImpl struct {
	sessionRepo     SessionRepository
	attemptRepo     AttemptRepository
	responseRepo    ResponseRepository
	lessonCatalog   store.LessonCatalog
	exerciseCatalog store.ExerciseCatalog
	evaluator       evaluation.Service
	logger          *slog.Logger
}

// NewPracticeService creates a new PracticeService implementation.
func NewPracticeService(
	sessionRepo SessionRepository,
	attemptRepo AttemptRepository,
	responseRepo ResponseRepository,
	lessonCatalog store.LessonCatalog,
	exerciseCatalog store.ExerciseCatalog,
	evaluator evaluation.Service,
	logger *slog.Logger,
) PracticeService {
	if sessionRepo == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessionRepo cannot be nil")
	}
	if attemptRepo == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("attemptRepo cannot be nil")
	}
	if responseRepo == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("responseRepo cannot be nil")
	}
	if lessonCatalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("lessonCatalog cannot be nil")
	}
	if exerciseCatalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("exerciseCatalog cannot be nil")
	}
	if evaluator == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("evaluator cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &practiceServiceImpl{
		sessionRepo:     sessionRepo,
		attemptRepo:     attemptRepo,
		responseRepo:    responseRepo,
		lessonCatalog:   lessonCatalog,
		exerciseCatalog: exerciseCatalog,
		evaluator:       evaluator,
		logger:          logger.With(slog.String("component", "practice_service")),
	}
}

// StartSession implements PracticeService.StartSession.
func (s *practiceServiceImpl) StartSession(
	ctx context.Context,
	userID, lessonID uuid.UUID,
	mode domain.SessionMode,
) (*domain.PracticeSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	exists, err := s.lessonCatalog.LessonExists(ctx, lessonID)
	if err != nil {
		log.Error("failed to check lesson existence",
			slog.String("error", err.Error()),
			slog.String("lesson_id", lessonID.String()))
		return nil, newServiceError("start_session", "lesson lookup failed", err)
	}
	if !exists {
		log.Debug("lesson not found",
			slog.String("lesson_id", lessonID.String()))
		return nil, ErrLessonNotFound
	}

	// Idempotent start: an active session for this (user, lesson) is
	// returned unchanged, so client retries never fork a second session.
	existing, err := s.sessionRepo.GetActive(ctx, userID, lessonID)
	if err == nil {
		log.Debug("returning existing active session",
			slog.String("session_id", existing.ID.String()),
			slog.String("user_id", userID.String()),
			slog.String("lesson_id", lessonID.String()))
		return existing, nil
	}
	if !errors.Is(err, store.ErrSessionNotFound) {
		return nil, newServiceError("start_session", "active session lookup failed", err)
	}

	session, err := domain.NewPracticeSession(userID, lessonID, mode)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		// A concurrent start won the race on the active-session constraint;
		// read back the winner's row instead of erroring.
		if errors.Is(err, store.ErrActiveSessionExists) {
			log.Debug("lost session creation race, reading back winner",
				slog.String("user_id", userID.String()),
				slog.String("lesson_id", lessonID.String()))
			winner, getErr := s.sessionRepo.GetActive(ctx, userID, lessonID)
			if getErr != nil {
				return nil, newServiceError("start_session", "failed to read back winning session", getErr)
			}
			return winner, nil
		}
		return nil, newServiceError("start_session", "failed to create session", err)
	}

	log.Info("practice session started",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("lesson_id", lessonID.String()),
		slog.String("mode", string(mode)))
	return session, nil
}

// StartAttempt implements PracticeService.StartAttempt.
// The session row is locked while the next number is allocated so concurrent
// starts under one session produce contiguous numbers with no repeats.
func (s *practiceServiceImpl) StartAttempt(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.Attempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var attempt *domain.Attempt
	err := s.runInTransaction(ctx, func(ctx context.Context, repos txRepos) error {
		session, err := repos.sessions.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		if session.IsCompleted() {
			log.Warn("attempt start rejected on completed session",
				slog.String("session_id", sessionID.String()))
			return ErrSessionCompleted
		}

		count, err := repos.attempts.CountBySession(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to count attempts: %w", err)
		}

		attempt, err = domain.NewAttempt(sessionID, count+1)
		if err != nil {
			return err
		}

		if err := repos.attempts.Create(ctx, attempt); err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionCompleted) {
			return nil, err
		}
		return nil, newServiceError("start_attempt", "failed to start attempt", err)
	}

	log.Info("attempt started",
		slog.String("attempt_id", attempt.ID.String()),
		slog.String("session_id", sessionID.String()),
		slog.Int("attempt_number", attempt.Number))
	return attempt, nil
}

// SubmitAnswer implements PracticeService.SubmitAnswer.
func (s *practiceServiceImpl) SubmitAnswer(
	ctx context.Context,
	attemptID, itemID uuid.UUID,
	sub domain.AnswerSubmission,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, store.ErrAttemptNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, newServiceError("submit_answer", "failed to get attempt", err)
	}

	// Completed attempts are immutable; their score already fed the
	// session's best-score aggregate.
	if attempt.IsCompleted() {
		return nil, ErrAttemptCompleted
	}

	truth, err := s.exerciseCatalog.GetCorrectAnswer(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, newServiceError("submit_answer", "failed to get ground truth", err)
	}

	verdict := s.evaluator.Evaluate(sub, *truth)

	response, err := domain.NewResponse(attemptID, itemID, sub, verdict.IsCorrect, verdict.Score)
	if err != nil {
		return nil, err
	}

	if err := s.responseRepo.Create(ctx, response); err != nil {
		// The unique (attempt, item) constraint makes double-submission
		// visible: the caller gets "already answered", never the prior
		// result and never a raw duplicate-key error.
		if errors.Is(err, store.ErrResponseExists) {
			log.Debug("duplicate answer submission",
				slog.String("attempt_id", attemptID.String()),
				slog.String("item_id", itemID.String()))
			return nil, ErrAlreadyAnswered
		}
		return nil, newServiceError("submit_answer", "failed to record response", err)
	}

	log.Debug("answer recorded",
		slog.String("attempt_id", attemptID.String()),
		slog.String("item_id", itemID.String()),
		slog.Bool("is_correct", verdict.IsCorrect),
		slog.Int("score_awarded", verdict.Score))

	return &AnswerResult{
		IsCorrect:     verdict.IsCorrect,
		ScoreAwarded:  verdict.Score,
		CorrectAnswer: verdict.CorrectAnswer,
	}, nil
}

// SubmitAttempt implements PracticeService.SubmitAttempt.
func (s *practiceServiceImpl) SubmitAttempt(
	ctx context.Context,
	attemptID uuid.UUID,
	answers []AttemptAnswer,
) (*AttemptResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, store.ErrAttemptNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, newServiceError("submit_attempt", "failed to get attempt", err)
	}

	if attempt.IsCompleted() {
		return nil, ErrAttemptCompleted
	}

	// Evaluate everything up front: evaluation is pure and the catalog is
	// read-only, so nothing here holds the transaction open. All entries are
	// validated before any row is written, keeping the operation all-or-
	// nothing aside from the per-item skip below.
	details := make([]AnswerDetail, 0, len(answers))
	totalScore := 0
	for _, answer := range answers {
		if err := answer.Answer.Validate(); err != nil {
			return nil, err
		}

		truth, err := s.exerciseCatalog.GetCorrectAnswer(ctx, answer.ItemID)
		if err != nil {
			if errors.Is(err, store.ErrItemNotFound) {
				return nil, ErrItemNotFound
			}
			return nil, newServiceError("submit_attempt", "failed to get ground truth", err)
		}

		verdict := s.evaluator.Evaluate(answer.Answer, *truth)
		totalScore += verdict.Score
		details = append(details, AnswerDetail{
			ItemID:        answer.ItemID,
			IsCorrect:     verdict.IsCorrect,
			ScoreAwarded:  verdict.Score,
			CorrectAnswer: verdict.CorrectAnswer,
		})
	}

	maxScore := s.evaluator.PointsPerCorrect() * len(answers)
	completedAt := time.Now().UTC()

	err = s.runInTransaction(ctx, func(ctx context.Context, repos txRepos) error {
		for i, answer := range answers {
			response, err := domain.NewResponse(
				attemptID,
				answer.ItemID,
				answer.Answer,
				details[i].IsCorrect,
				details[i].ScoreAwarded,
			)
			if err != nil {
				return err
			}

			// Already-answered items (earlier partial sync or a duplicate
			// entry in this batch) are skipped for persistence only; the
			// freshly computed verdict stays in the details and totals so
			// the caller sees one consistent result set. The conflict-free
			// insert keeps a duplicate from aborting the transaction, so
			// the remaining items and the completion still go through.
			inserted, err := repos.responses.CreateIfAbsent(ctx, response)
			if err != nil {
				return fmt.Errorf("failed to record response: %w", err)
			}
			if !inserted {
				details[i].AlreadyAnswered = true
			}
		}

		if err := repos.attempts.Complete(ctx, attemptID, totalScore, maxScore, completedAt); err != nil {
			// A concurrent submission completed the attempt first; its score
			// is frozen and this call must not re-score.
			if errors.Is(err, store.ErrUpdateFailed) {
				return ErrAttemptCompleted
			}
			return fmt.Errorf("failed to complete attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAttemptCompleted) {
			return nil, ErrAttemptCompleted
		}
		return nil, newServiceError("submit_attempt", "failed to submit attempt", err)
	}

	percentage := 0
	if maxScore > 0 {
		percentage = int(math.Round(float64(totalScore) / float64(maxScore) * 100))
	}

	log.Info("attempt submitted",
		slog.String("attempt_id", attemptID.String()),
		slog.Int("total_score", totalScore),
		slog.Int("max_score", maxScore),
		slog.Int("percentage", percentage),
		slog.Int("items", len(answers)))

	return &AttemptResult{
		AttemptID:  attemptID,
		TotalScore: totalScore,
		MaxScore:   maxScore,
		Percentage: percentage,
		Details:    details,
	}, nil
}

// GetSession implements PracticeService.GetSession.
func (s *practiceServiceImpl) GetSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.PracticeSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, newServiceError("get_session", "failed to get session", err)
	}

	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

// GetAttempt implements PracticeService.GetAttempt.
func (s *practiceServiceImpl) GetAttempt(
	ctx context.Context,
	userID, attemptID uuid.UUID,
) (*AttemptDetail, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, store.ErrAttemptNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, newServiceError("get_attempt", "failed to get attempt", err)
	}

	// Ownership runs through the parent session; a foreign attempt looks
	// exactly like a missing one.
	session, err := s.sessionRepo.GetByID(ctx, attempt.SessionID)
	if err != nil {
		return nil, newServiceError("get_attempt", "failed to get parent session", err)
	}
	if session.UserID != userID {
		return nil, ErrAttemptNotFound
	}

	responses, err := s.responseRepo.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, newServiceError("get_attempt", "failed to list responses", err)
	}

	return &AttemptDetail{
		Attempt:   attempt,
		Responses: responses,
	}, nil
}

// CompleteSession implements PracticeService.CompleteSession.
func (s *practiceServiceImpl) CompleteSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*SessionSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, newServiceError("complete_session", "failed to get session", err)
	}

	// Ownership mismatch is reported exactly like nonexistence so session
	// ids cannot be enumerated across users.
	if session.UserID != userID {
		log.Warn("session ownership mismatch",
			slog.String("session_id", sessionID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrSessionNotFound
	}

	var endedAt time.Time
	switch {
	case session.IsCompleted():
		// Idempotent: return the stored end time, no second "ended" side effects.
		endedAt = *session.EndedAt
	default:
		endedAt = time.Now().UTC()
		if err := s.sessionRepo.Complete(ctx, sessionID, endedAt); err != nil {
			if errors.Is(err, store.ErrUpdateFailed) {
				// A concurrent completion won; fall back to its end time.
				current, getErr := s.sessionRepo.GetByID(ctx, sessionID)
				if getErr != nil || current.EndedAt == nil {
					return nil, newServiceError("complete_session", "failed to read back completed session", getErr)
				}
				endedAt = *current.EndedAt
			} else {
				return nil, newServiceError("complete_session", "failed to complete session", err)
			}
		}
	}

	bestScore := 0
	best, err := s.attemptRepo.GetBestCompleted(ctx, sessionID)
	if err == nil {
		bestScore = best.TotalScore
	} else if !errors.Is(err, store.ErrAttemptNotFound) {
		return nil, newServiceError("complete_session", "failed to get best attempt", err)
	}

	totalAttempts, err := s.attemptRepo.CountBySession(ctx, sessionID)
	if err != nil {
		return nil, newServiceError("complete_session", "failed to count attempts", err)
	}

	log.Info("session completed",
		slog.String("session_id", sessionID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("best_score", bestScore),
		slog.Int("total_attempts", totalAttempts))

	return &SessionSummary{
		SessionID:     sessionID,
		LessonID:      session.LessonID,
		EndedAt:       endedAt,
		BestScore:     bestScore,
		TotalAttempts: totalAttempts,
	}, nil
}

// txRepos bundles the transactional repository views handed to a
// transaction function.
type txRepos struct {
	sessions  SessionRepository
	attempts  AttemptRepository
	responses ResponseRepository
}

// runInTransaction runs the given function in a database transaction,
// handing it repositories bound to that transaction.
func (s *practiceServiceImpl) runInTransaction(
	ctx context.Context,
	fn func(context.Context, txRepos) error,
) error {
	return store.RunInTransaction(ctx, s.sessionRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		repos := txRepos{
			sessions:  s.sessionRepo.WithTx(tx),
			attempts:  s.attemptRepo.WithTx(tx),
			responses: s.responseRepo.WithTx(tx),
		}
		return fn(ctx, repos)
	})
}
