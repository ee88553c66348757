package sqlstore

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taskmanager/app/errors"
)

// MockResult implements sql.Result for testing
type MockResult struct {
	rowsAffected int64
	rowsErr      error
}

func (mr *MockResult) LastInsertId() (int64, error) {
	return 0, errors.New("not supported")
}

func (mr *MockResult) RowsAffected() (int64, error) {
	return mr.rowsAffected, mr.rowsErr
}

func TestHandleDatabaseError(t *testing.T) {
	result := HandleDatabaseError("test operation", errors.New("database connection failed"))

	assert.True(t, apperrors.IsErrorType(result, apperrors.ErrorTypeDatabase))
	assert.Contains(t, result.Error(), "test operation")
	assert.Contains(t, result.Error(), "database connection failed")
}

func TestValidateRowsAffected(t *testing.T) {
	tests := []struct {
		name           string
		result         sql.Result
		expectError    bool
		expectNotFound bool
	}{
		{
			name:   "Successful update",
			result: &MockResult{rowsAffected: 1},
		},
		{
			name:           "No rows affected",
			result:         &MockResult{rowsAffected: 0},
			expectError:    true,
			expectNotFound: true,
		},
		{
			name:        "Rows affected error",
			result:      &MockResult{rowsErr: errors.New("driver failure")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRowsAffected(tt.result, "task", "123")

			if !tt.expectError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expectNotFound, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
		})
	}
}

func TestFormatTimeForDB_SortsLexically(t *testing.T) {
	early := time.Date(2024, 3, 1, 10, 0, 5, 0, time.UTC)
	late := early.Add(100 * time.Millisecond)

	assert.Less(t, FormatTimeForDB(early), FormatTimeForDB(late))

	parsed, err := ParseTimeFromDB(FormatTimeForDB(late))
	require.NoError(t, err)
	assert.True(t, late.Equal(parsed))
}

func TestFormatTimeForDB_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2024, 3, 1, 12, 0, 0, 0, loc)

	assert.Equal(t, "2024-03-01T10:00:00.000000000Z", FormatTimeForDB(local))
}
