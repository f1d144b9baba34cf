package core

import (
	"context"

	"github.com/google/uuid"
)

// TaskStore persists tasks. Every method that targets an existing record is
// scoped by ownerID; implementations must return ErrNotFound when the id does
// not exist within that scope, and must not apply partial effects on failure.
// Implementations: storage.Store (SQLite/Postgres), storage.MemoryStore
type TaskStore interface {
	// ListOpenTasks returns the owner's incomplete tasks, project name
	// embedded, ordered by priority severity. projectID narrows the result
	// to one project when non-empty. No tasks is an empty slice, not an error.
	ListOpenTasks(ctx context.Context, ownerID, projectID string) ([]Task, error)

	GetTask(ctx context.Context, ownerID, id string) (*Task, error)
	InsertTask(ctx context.Context, task *Task) error
	UpdateTask(ctx context.Context, ownerID, id string, patch TaskPatch) error
	DeleteTask(ctx context.Context, ownerID, id string) error
}

// ProjectStore persists projects.
// Implementations: storage.Store, storage.MemoryStore
type ProjectStore interface {
	ListProjects(ctx context.Context, ownerID string) ([]Project, error)
	InsertProject(ctx context.Context, project *Project) error

	// DeleteProject removes a project and clears the weak project reference
	// on the owner's tasks in the same transaction (cascade-clear).
	DeleteProject(ctx context.Context, ownerID, id string) error
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	GenerateID() string
}

// defaultIDGenerator uses UUID for ID generation
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) GenerateID() string {
	return uuid.New().String()
}

// NewIDGenerator creates a default ID generator.
func NewIDGenerator() IDGenerator {
	return &defaultIDGenerator{}
}
