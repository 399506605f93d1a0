package cli

import (
	"context"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"task-tracker/internal/domain"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	tasks, err := c.app.tasks.ListTasks(ctx)
	if err != nil {
		return c.app.errors.Handle("list tasks", err)
	}

	if len(tasks) == 0 {
		c.app.printf("No tasks found\n")
		return nil
	}

	c.app.printf("%s\n", renderTable(tasks))
	return nil
}

// renderTable prints one row per task in id order
func renderTable(tasks []*domain.Task) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, task := range tasks {
		t.Row(strconv.FormatInt(task.ID, 10), task.Title, task.Description)
	}
	return t.String()
}
