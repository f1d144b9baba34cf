package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Enzoamyr17/ZipTask/internal/core"
)

// MemoryStore keeps everything in process memory. It backs tests and the
// --dev serve mode, and follows the same scoping and ordering rules as the
// SQL store.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*UserRecord    // email -> user
	projects map[string][]core.Project // ownerID -> projects
	tasks    map[string][]core.Task    // ownerID -> tasks
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*UserRecord),
		projects: make(map[string][]core.Project),
		tasks:    make(map[string][]core.Task),
	}
}

func (s *MemoryStore) projectName(ownerID, projectID string) string {
	if projectID == "" {
		return ""
	}
	for _, p := range s.projects[ownerID] {
		if p.ID == projectID {
			return p.Name
		}
	}
	return ""
}

// ListOpenTasks returns the owner's incomplete tasks with project names
// embedded, sorted the way the SQL store sorts them.
func (s *MemoryStore) ListOpenTasks(ctx context.Context, ownerID, projectID string) ([]core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []core.Task
	for _, t := range s.tasks[ownerID] {
		if t.Completed {
			continue
		}
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		t.ProjectName = s.projectName(ownerID, t.ProjectID)
		tasks = append(tasks, t)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ra, rb := core.PriorityRank(a.Priority), core.PriorityRank(b.Priority); ra != rb {
			return ra < rb
		}
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
		return a.ID < b.ID
	})
	return tasks, nil
}

// GetTask retrieves one of the owner's tasks by id.
func (s *MemoryStore) GetTask(ctx context.Context, ownerID, id string) (*core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks[ownerID] {
		if t.ID == id {
			t.ProjectName = s.projectName(ownerID, t.ProjectID)
			return &t, nil
		}
	}
	return nil, core.ErrNotFound
}

// InsertTask persists a new task.
func (s *MemoryStore) InsertTask(ctx context.Context, task *core.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.OwnerID] = append(s.tasks[task.OwnerID], *task)
	return nil
}

// UpdateTask applies a partial update scoped to the owner.
func (s *MemoryStore) UpdateTask(ctx context.Context, ownerID, id string, patch core.TaskPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.tasks[ownerID]
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		t := &tasks[i]
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.DueDate != nil {
			t.DueDate = *patch.DueDate
		}
		if patch.DueTime != nil {
			t.DueTime = *patch.DueTime
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.ProjectID != nil {
			t.ProjectID = *patch.ProjectID
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
		}
		return nil
	}
	return core.ErrNotFound
}

// DeleteTask removes one of the owner's tasks.
func (s *MemoryStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.tasks[ownerID]
	for i := range tasks {
		if tasks[i].ID == id {
			s.tasks[ownerID] = append(tasks[:i], tasks[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// ListProjects returns the owner's projects by name.
func (s *MemoryStore) ListProjects(ctx context.Context, ownerID string) ([]core.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := append([]core.Project(nil), s.projects[ownerID]...)
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Name != projects[j].Name {
			return projects[i].Name < projects[j].Name
		}
		return projects[i].ID < projects[j].ID
	})
	return projects, nil
}

// InsertProject persists a new project.
func (s *MemoryStore) InsertProject(ctx context.Context, project *core.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects[project.OwnerID] = append(s.projects[project.OwnerID], *project)
	return nil
}

// DeleteProject removes a project and clears the weak reference on the
// owner's tasks.
func (s *MemoryStore) DeleteProject(ctx context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := s.projects[ownerID]
	for i := range projects {
		if projects[i].ID != id {
			continue
		}
		s.projects[ownerID] = append(projects[:i], projects[i+1:]...)
		tasks := s.tasks[ownerID]
		for j := range tasks {
			if tasks[j].ProjectID == id {
				tasks[j].ProjectID = ""
			}
		}
		return nil
	}
	return core.ErrNotFound
}

// CreateUser persists a new account.
func (s *MemoryStore) CreateUser(ctx context.Context, user *UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	s.users[user.Email] = &u
	return nil
}

// GetUserByEmail retrieves an account by email.
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *u
	return &copied, nil
}
