package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/errors"
)

func TestAddCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("creates task with description", func(t *testing.T) {
		app, out := setupTestApp(t)

		err := NewAddCommand(app, "two litres").Execute(ctx, []string{"Buy", "milk"})
		require.NoError(t, err)
		assert.Equal(t, "Created task 1: Buy milk\n", out.String())

		task, err := app.tasks.GetTask(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "two litres", task.Description)
	})

	t.Run("rejects blank title", func(t *testing.T) {
		app, _ := setupTestApp(t)

		err := NewAddCommand(app, "").Execute(ctx, []string{"   "})
		require.Error(t, err)
		assert.Equal(t, "failed to add task: title: This field is required.", err.Error())
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	})

	t.Run("rejects long title", func(t *testing.T) {
		app, _ := setupTestApp(t)

		err := NewAddCommand(app, "").Execute(ctx, []string{strings.Repeat("x", 201)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Ensure this value has at most 200 characters (it has 201).")
	})

	t.Run("requires arguments", func(t *testing.T) {
		app, _ := setupTestApp(t)

		err := NewAddCommand(app, "").Execute(ctx, nil)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	})
}
