package cli

import (
	"context"
	"fmt"
	"io"

	"task-tracker/internal/repository/sqlstore"
	"task-tracker/internal/services"
)

// App represents the administrative CLI application
type App struct {
	tasks    services.TaskService
	store    sqlstore.Repository
	out      io.Writer
	errors   *ErrorHandler
	registry *CommandRegistry
}

// NewAppWithOutput creates an application that prints to out
func NewAppWithOutput(store sqlstore.Repository, tasks services.TaskService, out io.Writer) *App {
	app := &App{
		tasks:  tasks,
		store:  store,
		out:    out,
		errors: NewErrorHandler(),
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// Run executes the CLI application with the given arguments
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", a.registry.GetUsage())
	}

	commandName := args[0]
	commandArgs := args[1:]

	return a.registry.Execute(ctx, commandName, commandArgs)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}
