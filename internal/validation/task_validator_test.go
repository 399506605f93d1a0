package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/domain"
)

func TestTaskValidator_ValidateTaskForCreation(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		form        TaskForm
		expectError bool
		errorType   ValidationErrorType
		cleaned     TaskForm
	}{
		{
			name:    "title and description",
			form:    TaskForm{Title: "The title", Description: "The description"},
			cleaned: TaskForm{Title: "The title", Description: "The description"},
		},
		{
			name:    "title only",
			form:    TaskForm{Title: "First task"},
			cleaned: TaskForm{Title: "First task"},
		},
		{
			name:    "surrounding whitespace is trimmed",
			form:    TaskForm{Title: "  padded  ", Description: "\tdesc\n"},
			cleaned: TaskForm{Title: "padded", Description: "desc"},
		},
		{
			name:    "any characters are accepted",
			form:    TaskForm{Title: "Task@#$% ✓"},
			cleaned: TaskForm{Title: "Task@#$% ✓"},
		},
		{
			name:        "empty title",
			form:        TaskForm{Title: "", Description: "The description"},
			expectError: true,
			errorType:   ErrorTypeRequired,
		},
		{
			name:        "whitespace title",
			form:        TaskForm{Title: "   "},
			expectError: true,
			errorType:   ErrorTypeRequired,
		},
		{
			name:        "title too long",
			form:        TaskForm{Title: strings.Repeat("a", DefaultTitleMaxLength+1)},
			expectError: true,
			errorType:   ErrorTypeInvalidLength,
		},
		{
			name:    "title at the limit",
			form:    TaskForm{Title: strings.Repeat("a", DefaultTitleMaxLength)},
			cleaned: TaskForm{Title: strings.Repeat("a", DefaultTitleMaxLength)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := validator.ValidateTaskForCreation(tt.form)

			if !tt.expectError {
				require.NoError(t, err)
				assert.Equal(t, tt.cleaned, cleaned)
				return
			}

			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "expected *ValidationError, got %T", err)
			require.NotEmpty(t, validationErr.Errors)
			assert.Equal(t, "title", validationErr.Errors[0].Field)
			assert.Equal(t, tt.errorType, validationErr.Errors[0].Type)
		})
	}
}

func TestTaskValidator_ValidateTaskForUpdate(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name          string
		id            int64
		form          TaskForm
		expectedCount int
	}{
		{"valid update", 1, TaskForm{Title: "The title"}, 0},
		{"empty title", 1, TaskForm{Title: "", Description: "The description"}, 1},
		{"invalid id", 0, TaskForm{Title: "The title"}, 1},
		{"invalid id and title", -1, TaskForm{}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.ValidateTaskForUpdate(tt.id, tt.form)
			if tt.expectedCount == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			validationErr := err.(*ValidationError)
			assert.Len(t, validationErr.Errors, tt.expectedCount)
		})
	}
}

func TestTaskValidator_EmptyTitleMessage(t *testing.T) {
	_, err := NewTaskValidator().ValidateTaskForUpdate(1, TaskForm{Title: "", Description: "The description"})
	require.Error(t, err)

	messages := err.(*ValidationError).FieldMessages()
	assert.Equal(t, []string{"This field is required."}, messages["title"])
}

func TestTaskValidator_ValidateTaskID(t *testing.T) {
	validator := NewTaskValidator()

	assert.NoError(t, validator.ValidateTaskID(1))
	assert.Error(t, validator.ValidateTaskID(0))
}

func TestTaskValidator_CustomLimit(t *testing.T) {
	validator := NewTaskValidatorWithLimits(3)
	assert.Equal(t, 3, validator.TitleMaxLength())

	_, err := validator.ValidateTaskForCreation(TaskForm{Title: "abcd"})
	assert.Error(t, err)

	_, err = validator.ValidateTaskForCreation(TaskForm{Title: "abc"})
	assert.NoError(t, err)
}

func TestFormFromTask(t *testing.T) {
	form := FormFromTask(domain.Task{ID: 9, Title: "First task", Description: "d"})
	assert.Equal(t, TaskForm{Title: "First task", Description: "d"}, form)
}
