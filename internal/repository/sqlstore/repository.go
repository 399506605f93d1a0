package sqlstore

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"task-tracker/internal/errors"
	"task-tracker/internal/repository/sqlstore/migrations"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Repository is the record store for tasks
type Repository interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}

// Options configures how the store connects and bounds its queries.
// A zero timeout disables the bound.
type Options struct {
	Driver       string
	DSN          string
	QueryTimeout time.Duration
	WriteTimeout time.Duration
}

// SQLRepository implements Repository on database/sql
type SQLRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
	writeTimeout time.Duration
}

// New opens a SQLite store at dbPath with no query timeouts
func New(dbPath string) (*SQLRepository, error) {
	return Open(context.Background(), Options{Driver: DriverSQLite, DSN: dbPath})
}

// Open connects to the database described by opts and runs pending migrations
func Open(ctx context.Context, opts Options) (*SQLRepository, error) {
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}
	if opts.Driver != DriverSQLite && opts.Driver != DriverMySQL {
		return nil, errors.NewInvalidInputError("driver", "must be sqlite or mysql")
	}

	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	if opts.Driver == DriverSQLite {
		// SQLite allows one writer; a single connection also keeps
		// :memory: databases shared across calls.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := migrations.RunMigrations(ctx, db, opts.Driver); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLRepository{
		db:           db,
		queryTimeout: opts.QueryTimeout,
		writeTimeout: opts.WriteTimeout,
	}, nil
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// Ping checks that the database is reachable
func (r *SQLRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.queryTimeout)
	defer cancel()
	if err := r.db.PingContext(ctx); err != nil {
		return HandleDatabaseError("ping", err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version
func (r *SQLRepository) SchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx, r.queryTimeout)
	defer cancel()
	version, err := migrations.CurrentVersion(ctx, r.db)
	if err != nil {
		return 0, HandleDatabaseError("read schema version", err)
	}
	return version, nil
}

// CreateTask inserts task and sets its ID
func (r *SQLRepository) CreateTask(ctx context.Context, task *Task) error {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	query := `INSERT INTO tasks (title, description) VALUES (?, ?)`
	id, err := ExecuteWithLastInsertID(ctx, r.db, query, task.Title, task.Description)
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	ctx, cancel := withTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `SELECT id, title, description FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", formatID(id), id)
}

// ListTasks retrieves all tasks in ascending ID order
func (r *SQLRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	ctx, cancel := withTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `SELECT id, title, description FROM tasks ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
}

// UpdateTask overwrites the title and description of an existing task
func (r *SQLRepository) UpdateTask(ctx context.Context, task *Task) error {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	query := `UPDATE tasks SET title = ?, description = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", formatID(task.ID), task.Title, task.Description, task.ID)
}

// DeleteTask deletes a task by ID
func (r *SQLRepository) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	query := `DELETE FROM tasks WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "task", formatID(id), id)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
