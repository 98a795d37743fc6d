package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/practica-app/practica-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test timeout to prevent long-running tests
const testTimeout = 5 * time.Second

// checkIntegrationTestEnvironment checks if we're running in an environment
// where integration tests can be executed, by checking DATABASE_URL
func checkIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// getTestDB gets a connection to the test database.
func getTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	require.NotEmpty(t, dbURL, "DATABASE_URL environment variable not set")

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	require.NoError(t, db.Ping(), "Failed to ping database")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// withRollbackTx executes a test function within a transaction and rolls it
// back afterward so tests stay isolated and leave no rows behind.
func withRollbackTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")
	defer func() { _ = tx.Rollback() }()

	fn(t, tx)
}

// seedSession inserts a lesson and an active session for it.
func seedSession(t *testing.T, tx *sql.Tx) *domain.PracticeSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	lessonID := uuid.New()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO lessons (id, title) VALUES ($1, $2)`,
		lessonID, "Greetings")
	require.NoError(t, err, "Failed to seed lesson")

	session, err := domain.NewPracticeSession(uuid.New(), lessonID, domain.SessionModeLearn)
	require.NoError(t, err, "Failed to create test session")
	require.NoError(
		t,
		NewPostgresSessionStore(tx, nil).Create(ctx, session),
		"Failed to seed session in DB",
	)
	return session
}

// seedExerciseItem inserts one free-text exercise item under the lesson.
func seedExerciseItem(t *testing.T, tx *sql.Tx, lessonID uuid.UUID, correctText string) uuid.UUID {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	itemID := uuid.New()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO exercise_items (id, lesson_id, prompt, correct_text) VALUES ($1, $2, $3, $4)`,
		itemID, lessonID, "Translate the greeting", correctText)
	require.NoError(t, err, "Failed to seed exercise item")
	return itemID
}

// TestPostgresAttemptStore_GetBestCompletedTieBreak verifies that equal total
// scores resolve to the earliest attempt number, so the session summary is
// stable under re-query.
func TestPostgresAttemptStore_GetBestCompletedTieBreak(t *testing.T) {
	if !checkIntegrationTestEnvironment() {
		t.Skip("Skipping integration test - requires DATABASE_URL environment variable")
	}
	t.Parallel()

	db := getTestDB(t)

	withRollbackTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		attemptStore := NewPostgresAttemptStore(tx, nil)
		session := seedSession(t, tx)

		// Attempts 1..3 score 40, 70, 70: the tie must go to attempt 2.
		scores := []int{40, 70, 70}
		attempts := make([]*domain.Attempt, 0, len(scores))
		for i, score := range scores {
			attempt, err := domain.NewAttempt(session.ID, i+1)
			require.NoError(t, err, "Failed to create test attempt")
			require.NoError(t, attemptStore.Create(ctx, attempt), "Failed to insert test attempt")
			require.NoError(
				t,
				attemptStore.Complete(ctx, attempt.ID, score, 100, time.Now().UTC()),
				"Failed to complete test attempt",
			)
			attempts = append(attempts, attempt)
		}

		// An abandoned fourth attempt must not participate in the aggregate.
		abandoned, err := domain.NewAttempt(session.ID, 4)
		require.NoError(t, err)
		require.NoError(t, attemptStore.Create(ctx, abandoned))

		best, err := attemptStore.GetBestCompleted(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, 70, best.TotalScore)
		assert.Equal(t, 2, best.Number, "tied scores should resolve to the earliest attempt")
		assert.Equal(t, attempts[1].ID, best.ID)
	})
}
