package config

import (
	"context"
	"fmt"
	"os"

	"task-tracker/internal/repository/sqlstore"
)

// StoreOptions converts the database configuration into store options
func (c *Config) StoreOptions() sqlstore.Options {
	return sqlstore.Options{
		Driver:       c.Database.Driver,
		DSN:          c.GetDSN(),
		QueryTimeout: c.GetQueryTimeout(),
		WriteTimeout: c.GetWriteTimeout(),
	}
}

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(ctx context.Context, config *Config) (sqlstore.Repository, error) {
	if config.Database.Driver == sqlstore.DriverSQLite && config.Database.DSN == "" {
		if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	repo, err := sqlstore.Open(ctx, config.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlstore.Repository, error) {
	repo, err := sqlstore.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
