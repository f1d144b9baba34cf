package core

import (
	"context"
	"errors"
	"time"
)

// TaskService implements the task repository operations on top of a TaskStore.
// All operations are scoped to the calling owner; a task outside that scope
// behaves as if it did not exist.
type TaskService struct {
	tasks TaskStore
	idGen IDGenerator
	loc   *time.Location
	now   func() time.Time
}

// TaskServiceDeps holds dependencies for constructing a TaskService.
type TaskServiceDeps struct {
	Tasks TaskStore
	IDGen IDGenerator
	Loc   *time.Location
	Now   func() time.Time
}

// NewTaskService creates a task service using the given store and timezone.
func NewTaskService(tasks TaskStore, loc *time.Location) *TaskService {
	return NewTaskServiceWithDeps(TaskServiceDeps{Tasks: tasks, Loc: loc})
}

// NewTaskServiceWithDeps creates a task service with explicit dependencies
// (for testing).
func NewTaskServiceWithDeps(deps TaskServiceDeps) *TaskService {
	s := &TaskService{
		tasks: deps.Tasks,
		idGen: deps.IDGen,
		loc:   deps.Loc,
		now:   deps.Now,
	}
	if s.idGen == nil {
		s.idGen = NewIDGenerator()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// today is the reference date in the service's timezone. It is captured once
// per operation; both bucketing and creation defaults use the same zone.
func (s *TaskService) today() string {
	return s.now().In(s.loc).Format(DateFormat)
}

// ListOpen returns the owner's incomplete tasks, optionally narrowed to one
// project. An owner with no tasks gets an empty list.
func (s *TaskService) ListOpen(ctx context.Context, ownerID, projectID string) ([]Task, error) {
	tasks, err := s.tasks.ListOpenTasks(ctx, ownerID, projectID)
	if err != nil {
		return nil, &BackendError{Op: "list tasks", Err: err}
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// BoardFor fetches the owner's open tasks and partitions them against a
// reference date captured once for the whole call.
func (s *TaskService) BoardFor(ctx context.Context, ownerID, projectID string) (Board, error) {
	tasks, err := s.ListOpen(ctx, ownerID, projectID)
	if err != nil {
		return Board{}, err
	}
	return Partition(tasks, s.today()), nil
}

// Create validates the form and persists a new task. The task starts
// incomplete, with creation date set to today in the configured zone.
func (s *TaskService) Create(ctx context.Context, ownerID string, form TaskForm) (*Task, error) {
	if ownerID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "owner is required"}
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	task := form.Fields()
	task.ID = s.idGen.GenerateID()
	task.OwnerID = ownerID
	task.Completed = false
	task.DateCreated = s.today()

	if err := s.tasks.InsertTask(ctx, &task); err != nil {
		return nil, &BackendError{Op: "create task", Err: err}
	}
	return &task, nil
}

// Update applies a partial update to one of the owner's tasks. The store
// enforces scoping by matching owner and id together, so a foreign id
// surfaces as ErrNotFound with the record untouched.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, patch TaskPatch) error {
	if err := s.tasks.UpdateTask(ctx, ownerID, id, patch); err != nil {
		return s.storeErr("update task", err)
	}
	return nil
}

// Delete removes one of the owner's tasks under the same scoping rule.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.tasks.DeleteTask(ctx, ownerID, id); err != nil {
		return s.storeErr("delete task", err)
	}
	return nil
}

// SetCompleted toggles the completion flag. A completed task drops out of
// the open-task listing on the next fetch.
func (s *TaskService) SetCompleted(ctx context.Context, ownerID, id string, completed bool) error {
	return s.Update(ctx, ownerID, id, TaskPatch{Completed: &completed})
}

// OpenEditor starts the edit flow: it loads the task and returns the opened
// editor state together with the prefilled form.
func (s *TaskService) OpenEditor(ctx context.Context, ownerID, id string) (EditorState, TaskForm, error) {
	task, err := s.tasks.GetTask(ctx, ownerID, id)
	if err != nil {
		return EditorClosed(), TaskForm{}, s.storeErr("load task", err)
	}
	return EditorOpen(task.ID), EditForm(*task), nil
}

func (s *TaskService) storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return &BackendError{Op: op, Err: err}
}

// ProjectService implements the project repository operations.
type ProjectService struct {
	projects ProjectStore
	idGen    IDGenerator
}

// NewProjectService creates a project service.
func NewProjectService(projects ProjectStore) *ProjectService {
	return &ProjectService{projects: projects, idGen: NewIDGenerator()}
}

// NewProjectServiceWithDeps creates a project service with an explicit ID
// generator (for testing).
func NewProjectServiceWithDeps(projects ProjectStore, idGen IDGenerator) *ProjectService {
	if idGen == nil {
		idGen = NewIDGenerator()
	}
	return &ProjectService{projects: projects, idGen: idGen}
}

// List returns the owner's projects.
func (s *ProjectService) List(ctx context.Context, ownerID string) ([]Project, error) {
	projects, err := s.projects.ListProjects(ctx, ownerID)
	if err != nil {
		return nil, &BackendError{Op: "list projects", Err: err}
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

// Create persists a new project. Name uniqueness per owner is not enforced.
func (s *ProjectService) Create(ctx context.Context, ownerID, name string) (*Project, error) {
	if ownerID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "owner is required"}
	}
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}
	project := &Project{
		ID:      s.idGen.GenerateID(),
		OwnerID: ownerID,
		Name:    name,
	}
	if err := s.projects.InsertProject(ctx, project); err != nil {
		return nil, &BackendError{Op: "create project", Err: err}
	}
	return project, nil
}

// Delete removes one of the owner's projects. The store clears the weak
// project reference on the owner's tasks in the same transaction, so no task
// is left pointing at a missing project.
func (s *ProjectService) Delete(ctx context.Context, ownerID, id string) error {
	err := s.projects.DeleteProject(ctx, ownerID, id)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return &BackendError{Op: "delete project", Err: err}
}
