package sqlstore

// Scanner is the scanning behavior shared by *sql.Row and *sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows is the subset of *sql.Rows used when scanning result sets
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a database row
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	err := scanner.Scan(&task.ID, &task.Title, &task.Description)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ScanTasks scans every remaining row into tasks
func ScanTasks(rows Rows) ([]*Task, error) {
	tasks := make([]*Task, 0)
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
