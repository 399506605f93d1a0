package config

import (
	"context"
	"path/filepath"
	"testing"

	"task-tracker/internal/repository/sqlstore"
)

func TestCreateRepository(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested")
	t.Setenv("TASKS_DB_DIR", tmpDir)

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	repo, err := CreateRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateRepository() error = %v", err)
	}
	defer repo.Close()

	err = repo.CreateTask(context.Background(), &sqlstore.Task{Title: "Test Task"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	tasks, err := repo.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("ListTasks() returned %d tasks, want 1", len(tasks))
	}
}

func TestCreateRepository_UnsupportedDriver(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Driver = "postgres"
	cfg.Database.DSN = "postgres://localhost"

	if _, err := CreateRepository(context.Background(), cfg); err == nil {
		t.Error("CreateRepository() expected error for unsupported driver")
	}
}

func TestCreateTestRepository(t *testing.T) {
	repo, err := CreateTestRepository()
	if err != nil {
		t.Fatalf("CreateTestRepository() error = %v", err)
	}
	defer repo.Close()

	err = repo.CreateTask(context.Background(), &sqlstore.Task{Title: "Test Task"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	tasks, err := repo.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if tasks == nil {
		t.Error("ListTasks() returned nil")
	}
}

func TestRepositoryFactory(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Dir = t.TempDir()

	tests := []struct {
		name string
		env  Environment
	}{
		{name: "testing uses memory store", env: Testing},
		{name: "production uses configured store", env: Production},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := NewRepositoryFactory(tt.env, cfg).CreateRepository(context.Background())
			if err != nil {
				t.Fatalf("CreateRepository() error = %v", err)
			}
			defer repo.Close()

			if err := repo.Ping(context.Background()); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
		})
	}
}

func TestGetEnvironment(t *testing.T) {
	tests := []struct {
		value string
		want  Environment
	}{
		{"development", Development},
		{"testing", Testing},
		{"production", Production},
		{"", Production},
		{"staging", Production},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TASKS_ENV", tt.value)
			if got := GetEnvironment(); got != tt.want {
				t.Errorf("GetEnvironment() = %v, want %v", got, tt.want)
			}
		})
	}
}
