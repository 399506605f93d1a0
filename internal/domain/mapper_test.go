package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"task-tracker/internal/repository/sqlstore"
)

func TestTaskMapper_RoundTrip(t *testing.T) {
	mapper := NewTaskMapper()
	domainTask := Task{ID: 1, Title: "Test Task", Description: "details"}

	dbTask := mapper.ToDatabase(domainTask)
	assert.Equal(t, sqlstore.Task{ID: 1, Title: "Test Task", Description: "details"}, dbTask)
	assert.Equal(t, domainTask, mapper.FromDatabase(dbTask))
}

func TestTaskMapper_FromDatabaseSlice(t *testing.T) {
	mapper := NewTaskMapper()
	dbTasks := []*sqlstore.Task{
		{ID: 1, Title: "Task 1"},
		nil,
		{ID: 2, Title: "Task 2", Description: "second"},
	}

	result := mapper.FromDatabaseSlice(dbTasks)

	expected := []*Task{
		{ID: 1, Title: "Task 1"},
		{ID: 2, Title: "Task 2", Description: "second"},
	}
	assert.Equal(t, expected, result)
}

func TestTaskMapper_FromDatabaseSlice_Empty(t *testing.T) {
	result := NewMapper().Task.FromDatabaseSlice(nil)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
