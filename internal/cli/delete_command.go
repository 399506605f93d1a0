package cli

import (
	"context"
	"strconv"

	"task-tracker/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("id", "exactly one task id is required")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return errors.NewInvalidInputError("id", "must be a positive integer")
	}

	task, err := c.app.tasks.GetTask(ctx, id)
	if err != nil {
		return c.app.errors.Handle("delete task", err)
	}

	if err := c.app.tasks.DeleteTask(ctx, id); err != nil {
		return c.app.errors.Handle("delete task", err)
	}

	c.app.printf("Deleted task: %s\n", task)
	return nil
}
