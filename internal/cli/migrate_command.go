package cli

import (
	"context"
)

// MigrateCommand reports the schema version. Pending migrations have
// already been applied when the store was opened.
type MigrateCommand struct {
	app *App
}

// NewMigrateCommand creates a new migrate command handler
func NewMigrateCommand(app *App) *MigrateCommand {
	return &MigrateCommand{app: app}
}

// Execute runs the migrate command
func (c *MigrateCommand) Execute(ctx context.Context, args []string) error {
	version, err := c.app.store.SchemaVersion(ctx)
	if err != nil {
		return c.app.errors.Handle("read schema version", err)
	}

	c.app.printf("Database schema is at version %d\n", version)
	return nil
}
