package config

import (
	"context"
	"fmt"
	"os"

	"task-tracker/internal/repository/sqlstore"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment from TASKS_ENV
func GetEnvironment() Environment {
	switch os.Getenv("TASKS_ENV") {
	case "development":
		return Development
	case "testing":
		return Testing
	default:
		// Default to production for safety
		return Production
	}
}

// RepositoryFactory creates repository instances based on environment
type RepositoryFactory struct {
	env    Environment
	config *Config
}

// NewRepositoryFactory creates a new repository factory for the given environment
func NewRepositoryFactory(env Environment, config *Config) *RepositoryFactory {
	return &RepositoryFactory{env: env, config: config}
}

// CreateRepository creates a repository instance based on the current environment
func (rf *RepositoryFactory) CreateRepository(ctx context.Context) (sqlstore.Repository, error) {
	switch rf.env {
	case Development:
		return rf.createDevelopmentRepository(ctx)
	case Testing:
		return CreateTestRepository()
	default:
		return CreateRepository(ctx, rf.config)
	}
}

// createDevelopmentRepository uses a SQLite file in the working directory
// unless another driver is configured
func (rf *RepositoryFactory) createDevelopmentRepository(ctx context.Context) (sqlstore.Repository, error) {
	if rf.config.Database.Driver != sqlstore.DriverSQLite {
		return CreateRepository(ctx, rf.config)
	}

	opts := rf.config.StoreOptions()
	opts.DSN = "tasks.db"

	repo, err := sqlstore.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize development database: %w", err)
	}
	return repo, nil
}
