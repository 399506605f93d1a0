package services

import (
	"context"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/repository/sqlstore"
	"task-tracker/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          sqlstore.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
}

// NewTaskService creates a new TaskService instance. A nil validator uses
// the default limits.
func NewTaskService(repo sqlstore.Repository, taskValidator *validation.TaskValidator) TaskService {
	if taskValidator == nil {
		taskValidator = validation.NewTaskValidator()
	}
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: taskValidator,
	}
}

// NewServiceContainer wires every service around a single repository
func NewServiceContainer(repo sqlstore.Repository, taskValidator *validation.TaskValidator) *ServiceContainer {
	return &ServiceContainer{
		TaskService: NewTaskService(repo, taskValidator),
	}
}

// CreateTask validates form and stores a new task
func (t *taskServiceImpl) CreateTask(ctx context.Context, form validation.TaskForm) (*domain.Task, error) {
	cleaned, err := t.taskValidator.ValidateTaskForCreation(form)
	if err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	dbTask := t.mapper.Task.ToDatabase(domain.NewTask(cleaned.Title, cleaned.Description))
	if err := t.repo.CreateTask(ctx, &dbTask); err != nil {
		return nil, err
	}

	domainTask := t.mapper.Task.FromDatabase(dbTask)
	return &domainTask, nil
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewInvalidInputError("id", "must be a positive integer")
	}

	dbTask, err := t.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	domainTask := t.mapper.Task.FromDatabase(*dbTask)
	return &domainTask, nil
}

// ListTasks returns every task in ascending ID order
func (t *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	dbTasks, err := t.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return t.mapper.Task.FromDatabaseSlice(dbTasks), nil
}

// UpdateTask validates form and overwrites the task in place
func (t *taskServiceImpl) UpdateTask(ctx context.Context, id int64, form validation.TaskForm) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewInvalidInputError("id", "must be a positive integer")
	}

	cleaned, err := t.taskValidator.ValidateTaskForUpdate(id, form)
	if err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	task := domain.NewTask(cleaned.Title, cleaned.Description)
	task.ID = id
	dbTask := t.mapper.Task.ToDatabase(task)
	if err := t.repo.UpdateTask(ctx, &dbTask); err != nil {
		return nil, err
	}

	return &task, nil
}

// DeleteTask removes a task; deleting a missing task is a not found error
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return errors.NewInvalidInputError("id", "must be a positive integer")
	}
	return t.repo.DeleteTask(ctx, id)
}

// Healthy pings the store
func (t *taskServiceImpl) Healthy(ctx context.Context) error {
	return t.repo.Ping(ctx)
}
