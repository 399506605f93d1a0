package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommandRegistry(t *testing.T) {
	app, _ := setupTestApp(t)

	registry := NewCommandRegistry(app)

	assert.NotNil(t, registry)
	for _, name := range []string{"list", "add", "delete", "migrate"} {
		assert.Contains(t, registry.commands, name)
	}
}

func TestCommandRegistry_Execute(t *testing.T) {
	app, out := setupTestApp(t)
	registry := NewCommandRegistry(app)
	ctx := context.Background()

	t.Run("executes add command", func(t *testing.T) {
		err := registry.Execute(ctx, "add", []string{"Test Task"})
		assert.NoError(t, err)

		tasks, err := app.tasks.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Test Task", tasks[0].Title)
	})

	t.Run("executes list command", func(t *testing.T) {
		out.Reset()
		err := registry.Execute(ctx, "list", nil)
		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Test Task")
	})

	t.Run("executes delete command", func(t *testing.T) {
		err := registry.Execute(ctx, "delete", []string{"1"})
		assert.NoError(t, err)

		tasks, err := app.tasks.ListTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("returns error for unknown command", func(t *testing.T) {
		err := registry.Execute(ctx, "unknown", nil)
		assert.Error(t, err)
	})
}

func TestCommandRegistry_Register(t *testing.T) {
	app, _ := setupTestApp(t)
	registry := NewCommandRegistry(app)

	registry.Register("custom", NewListCommand(app))
	assert.Contains(t, registry.commands, "custom")
	assert.NoError(t, registry.Execute(context.Background(), "custom", nil))
}

func TestCommandRegistry_GetUsage(t *testing.T) {
	app, _ := setupTestApp(t)
	usage := NewCommandRegistry(app).GetUsage()

	assert.Contains(t, usage, "tasks list")
	assert.Contains(t, usage, "tasks add")
	assert.Contains(t, usage, "tasks delete")
}
