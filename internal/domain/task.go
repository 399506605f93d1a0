package domain

// Task is the single entity tracked by the application.
// It carries no storage concerns; see TaskMapper for the row conversion.
type Task struct {
	ID          int64
	Title       string
	Description string
}

// NewTask creates an unsaved Task with the given title and description.
func NewTask(title, description string) Task {
	return Task{
		Title:       title,
		Description: description,
	}
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}
