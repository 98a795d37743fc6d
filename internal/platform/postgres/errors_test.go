package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/practica-app/practica-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedError error
	}{
		{
			name:          "nil error",
			err:           nil,
			expectedError: nil,
		},
		{
			name:          "sql no rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name:          "unique violation",
			err:           pgError("23505", "idx_sessions_active_user_lesson"),
			expectedError: store.ErrDuplicate,
		},
		{
			name:          "foreign key violation",
			err:           pgError("23503", "attempts_session_id_fkey"),
			expectedError: store.ErrInvalidEntity,
		},
		{
			name:          "check violation",
			err:           pgError("23514", "responses_one_answer_kind"),
			expectedError: store.ErrInvalidEntity,
		},
		{
			name:          "not null violation",
			err:           pgError("23502", ""),
			expectedError: store.ErrInvalidEntity,
		},
		{
			name:          "unrecognized error passes through",
			err:           errors.New("connection reset"),
			expectedError: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError(tc.err)

			if tc.err == nil {
				assert.NoError(t, mapped)
				return
			}

			require.Error(t, mapped)
			if tc.expectedError != nil {
				assert.ErrorIs(t, mapped, tc.expectedError)
			} else {
				assert.Equal(t, tc.err, mapped)
			}
		})
	}
}

func TestMapErrorPreservesOriginal(t *testing.T) {
	original := pgError("23505", "responses_attempt_item_unique")
	wrapped := fmt.Errorf("insert failed: %w", original)

	mapped := MapError(wrapped)

	assert.ErrorIs(t, mapped, store.ErrDuplicate)
	// The original driver error stays reachable for diagnostics.
	var pgErr *pgconn.PgError
	assert.ErrorAs(t, mapped, &pgErr)
	assert.Equal(t, "responses_attempt_item_unique", pgErr.ConstraintName)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(pgError("23505", "x")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", pgError("23505", "x"))))
	assert.False(t, IsUniqueViolation(pgError("23503", "x")))
	assert.False(t, IsUniqueViolation(errors.New("not a pg error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestMapUniqueViolation(t *testing.T) {
	t.Run("unique violation maps to specific error", func(t *testing.T) {
		err := MapUniqueViolation(pgError("23505", "x"), store.ErrActiveSessionExists)
		assert.ErrorIs(t, err, store.ErrActiveSessionExists)
	})

	t.Run("other errors fall back to MapError", func(t *testing.T) {
		err := MapUniqueViolation(sql.ErrNoRows, store.ErrActiveSessionExists)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NotErrorIs(t, err, store.ErrActiveSessionExists)
	})
}

func TestCheckRowsAffected(t *testing.T) {
	t.Run("rows affected", func(t *testing.T) {
		assert.NoError(t, CheckRowsAffected(mockResult{rowsAffected: 1}, "session"))
	})

	t.Run("zero rows", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, "session")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "session")
	})

	t.Run("zero rows without entity name", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, "")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("rows affected error", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{err: errors.New("driver broke")}, "attempt")
		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("nil result", func(t *testing.T) {
		assert.Error(t, CheckRowsAffected(nil, "attempt"))
	})
}
