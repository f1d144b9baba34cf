package core

import (
	"context"
	"fmt"
	"sync"
)

// MockTaskStore implements TaskStore for testing
type MockTaskStore struct {
	ListOpenTasksFunc func(ctx context.Context, ownerID, projectID string) ([]Task, error)
	GetTaskFunc       func(ctx context.Context, ownerID, id string) (*Task, error)
	InsertTaskFunc    func(ctx context.Context, task *Task) error
	UpdateTaskFunc    func(ctx context.Context, ownerID, id string, patch TaskPatch) error
	DeleteTaskFunc    func(ctx context.Context, ownerID, id string) error

	Inserted []Task
}

func (m *MockTaskStore) ListOpenTasks(ctx context.Context, ownerID, projectID string) ([]Task, error) {
	if m.ListOpenTasksFunc != nil {
		return m.ListOpenTasksFunc(ctx, ownerID, projectID)
	}
	return nil, nil
}

func (m *MockTaskStore) GetTask(ctx context.Context, ownerID, id string) (*Task, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, ownerID, id)
	}
	return nil, ErrNotFound
}

func (m *MockTaskStore) InsertTask(ctx context.Context, task *Task) error {
	if m.InsertTaskFunc != nil {
		if err := m.InsertTaskFunc(ctx, task); err != nil {
			return err
		}
	}
	m.Inserted = append(m.Inserted, *task)
	return nil
}

func (m *MockTaskStore) UpdateTask(ctx context.Context, ownerID, id string, patch TaskPatch) error {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, ownerID, id, patch)
	}
	return nil
}

func (m *MockTaskStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, ownerID, id)
	}
	return nil
}

// MockProjectStore implements ProjectStore for testing
type MockProjectStore struct {
	ListProjectsFunc  func(ctx context.Context, ownerID string) ([]Project, error)
	InsertProjectFunc func(ctx context.Context, project *Project) error
	DeleteProjectFunc func(ctx context.Context, ownerID, id string) error

	Inserted []Project
}

func (m *MockProjectStore) ListProjects(ctx context.Context, ownerID string) ([]Project, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *MockProjectStore) InsertProject(ctx context.Context, project *Project) error {
	if m.InsertProjectFunc != nil {
		if err := m.InsertProjectFunc(ctx, project); err != nil {
			return err
		}
	}
	m.Inserted = append(m.Inserted, *project)
	return nil
}

func (m *MockProjectStore) DeleteProject(ctx context.Context, ownerID, id string) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, ownerID, id)
	}
	return nil
}

// MockIDGenerator produces deterministic sequential IDs
type MockIDGenerator struct {
	mu      sync.Mutex
	Prefix  string
	Counter int
}

func (m *MockIDGenerator) GenerateID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counter++
	return fmt.Sprintf("%s-%d", m.Prefix, m.Counter)
}
