package sqlstore

// Task is a row of the tasks table
type Task struct {
	ID          int64
	Title       string
	Description string
}
