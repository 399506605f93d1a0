package services

import (
	"context"

	"task-tracker/internal/domain"
	"task-tracker/internal/validation"
)

// TaskService is the record-store contract exposed to handlers and commands.
// Mutations validate their form first and never touch the store on failure.
type TaskService interface {
	CreateTask(ctx context.Context, form validation.TaskForm) (*domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, form validation.TaskForm) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	// Healthy reports whether the underlying store is reachable
	Healthy(ctx context.Context) error
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService TaskService
}
