package cli

import (
	"context"
	"strings"

	"task-tracker/internal/errors"
	"task-tracker/internal/validation"
)

// AddCommand handles the add command
type AddCommand struct {
	app         *App
	description string
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App, description string) *AddCommand {
	return &AddCommand{app: app, description: description}
}

// Execute runs the add command; all arguments form the title
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("title", "a title is required")
	}

	form := validation.TaskForm{
		Title:       strings.Join(args, " "),
		Description: c.description,
	}

	task, err := c.app.tasks.CreateTask(ctx, form)
	if err != nil {
		return c.app.errors.Handle("add task", err)
	}

	c.app.printf("Created task %d: %s\n", task.ID, task)
	return nil
}
