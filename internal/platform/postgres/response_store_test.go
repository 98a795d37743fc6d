package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/practica-app/practica-api/internal/domain"
	"github.com/practica-app/practica-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresResponseStore_CreateIfAbsent verifies the bulk submission skip
// against real transaction semantics: a duplicate (attempt, item) insert must
// produce no statement error, because Postgres aborts a transaction on the
// first error and every later statement would fail until rollback. The
// remaining items and the attempt completion must still go through in the
// same transaction.
func TestPostgresResponseStore_CreateIfAbsent(t *testing.T) {
	if !checkIntegrationTestEnvironment() {
		t.Skip("Skipping integration test - requires DATABASE_URL environment variable")
	}
	t.Parallel()

	db := getTestDB(t)

	withRollbackTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		responseStore := NewPostgresResponseStore(tx, nil)
		attemptStore := NewPostgresAttemptStore(tx, nil)

		session := seedSession(t, tx)
		itemA := seedExerciseItem(t, tx, session.LessonID, "Xin chào")
		itemB := seedExerciseItem(t, tx, session.LessonID, "Cảm ơn")

		attempt, err := domain.NewAttempt(session.ID, 1)
		require.NoError(t, err)
		require.NoError(t, attemptStore.Create(ctx, attempt))

		answer := "Xin chào"
		sub := domain.AnswerSubmission{SubmittedText: &answer}

		first, err := domain.NewResponse(attempt.ID, itemA, sub, true, 10)
		require.NoError(t, err)
		inserted, err := responseStore.CreateIfAbsent(ctx, first)
		require.NoError(t, err)
		assert.True(t, inserted)

		// The same (attempt, item) pair again, as a partial retry resends it.
		dup, err := domain.NewResponse(attempt.ID, itemA, sub, true, 10)
		require.NoError(t, err)
		inserted, err = responseStore.CreateIfAbsent(ctx, dup)
		require.NoError(t, err, "a duplicate must not error inside the transaction")
		assert.False(t, inserted)

		// The transaction stays usable: the rest of the batch and the
		// completion still succeed after the skip.
		second, err := domain.NewResponse(attempt.ID, itemB, sub, false, 0)
		require.NoError(t, err)
		inserted, err = responseStore.CreateIfAbsent(ctx, second)
		require.NoError(t, err)
		assert.True(t, inserted)

		require.NoError(
			t,
			attemptStore.Complete(ctx, attempt.ID, 10, 20, time.Now().UTC()),
			"completion must succeed after a skipped duplicate",
		)

		// The first write wins; the duplicate never replaced it.
		responses, err := responseStore.ListByAttempt(ctx, attempt.ID)
		require.NoError(t, err)
		require.Len(t, responses, 2)
		assert.Equal(t, first.ID, responses[0].ID)
	})
}

// TestPostgresResponseStore_CreateDuplicate verifies the single-answer path's
// hard failure: Create maps the unique violation to store.ErrResponseExists.
func TestPostgresResponseStore_CreateDuplicate(t *testing.T) {
	if !checkIntegrationTestEnvironment() {
		t.Skip("Skipping integration test - requires DATABASE_URL environment variable")
	}
	t.Parallel()

	db := getTestDB(t)

	withRollbackTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		responseStore := NewPostgresResponseStore(tx, nil)
		attemptStore := NewPostgresAttemptStore(tx, nil)

		session := seedSession(t, tx)
		itemID := seedExerciseItem(t, tx, session.LessonID, "Xin chào")

		attempt, err := domain.NewAttempt(session.ID, 1)
		require.NoError(t, err)
		require.NoError(t, attemptStore.Create(ctx, attempt))

		answer := "Xin chào"
		sub := domain.AnswerSubmission{SubmittedText: &answer}

		first, err := domain.NewResponse(attempt.ID, itemID, sub, true, 10)
		require.NoError(t, err)
		require.NoError(t, responseStore.Create(ctx, first))

		dup, err := domain.NewResponse(attempt.ID, itemID, sub, true, 10)
		require.NoError(t, err)
		err = responseStore.Create(ctx, dup)
		assert.ErrorIs(t, err, store.ErrResponseExists)
	})
}
