package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errStoreDown = errors.New("store unreachable")

func fixedNow(date string) func() time.Time {
	ts, err := time.Parse(DateFormat, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts }
}

func newTestTaskService(store *MockTaskStore) *TaskService {
	return NewTaskServiceWithDeps(TaskServiceDeps{
		Tasks: store,
		IDGen: &MockIDGenerator{Prefix: "task"},
		Loc:   time.UTC,
		Now:   fixedNow("2024-01-10"),
	})
}

func TestTaskServiceListOpen(t *testing.T) {
	t.Run("empty owner gets empty list not error", func(t *testing.T) {
		svc := newTestTaskService(&MockTaskStore{})
		tasks, err := svc.ListOpen(context.Background(), "owner-a", "")
		if err != nil {
			t.Fatalf("ListOpen: %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("tasks = %v, want empty slice", tasks)
		}
	})

	t.Run("store failure surfaces as BackendError", func(t *testing.T) {
		svc := newTestTaskService(&MockTaskStore{
			ListOpenTasksFunc: func(ctx context.Context, ownerID, projectID string) ([]Task, error) {
				return nil, errStoreDown
			},
		})
		_, err := svc.ListOpen(context.Background(), "owner-a", "")
		if !IsBackend(err) {
			t.Errorf("err = %v, want BackendError", err)
		}
		if !errors.Is(err, errStoreDown) {
			t.Errorf("err does not wrap the store failure: %v", err)
		}
	})

	t.Run("project filter is passed through", func(t *testing.T) {
		var gotProject string
		svc := newTestTaskService(&MockTaskStore{
			ListOpenTasksFunc: func(ctx context.Context, ownerID, projectID string) ([]Task, error) {
				gotProject = projectID
				return []Task{{ID: "t1", ProjectID: projectID}}, nil
			},
		})
		if _, err := svc.ListOpen(context.Background(), "owner-a", "p1"); err != nil {
			t.Fatalf("ListOpen: %v", err)
		}
		if gotProject != "p1" {
			t.Errorf("projectID = %q, want p1", gotProject)
		}
	})
}

func TestTaskServiceCreate(t *testing.T) {
	t.Run("fills defaults", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := newTestTaskService(store)

		task, err := svc.Create(context.Background(), "owner-a", TaskForm{
			Title:     "Ship release",
			DueDate:   "2024-01-20",
			TimeInput: "13:30",
			Priority:  PriorityHigh,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if task.ID != "task-1" {
			t.Errorf("ID = %q, want generated", task.ID)
		}
		if task.OwnerID != "owner-a" {
			t.Errorf("OwnerID = %q", task.OwnerID)
		}
		if task.Completed {
			t.Error("new task must start incomplete")
		}
		if task.DateCreated != "2024-01-10" {
			t.Errorf("DateCreated = %q, want reference date", task.DateCreated)
		}
		if task.DueTime != "1:30 PM" {
			t.Errorf("DueTime = %q", task.DueTime)
		}
		if len(store.Inserted) != 1 {
			t.Fatalf("inserted %d tasks, want 1", len(store.Inserted))
		}
	})

	t.Run("empty title rejected and nothing persisted", func(t *testing.T) {
		store := &MockTaskStore{}
		svc := newTestTaskService(store)

		_, err := svc.Create(context.Background(), "owner-a", TaskForm{Title: "  "})
		if !IsValidation(err) {
			t.Errorf("err = %v, want ValidationError", err)
		}
		if len(store.Inserted) != 0 {
			t.Errorf("inserted %d tasks, want none", len(store.Inserted))
		}
	})

	t.Run("missing owner rejected", func(t *testing.T) {
		svc := newTestTaskService(&MockTaskStore{})
		if _, err := svc.Create(context.Background(), "", TaskForm{Title: "x"}); !IsValidation(err) {
			t.Errorf("err = %v, want ValidationError", err)
		}
	})

	t.Run("store failure surfaces as BackendError", func(t *testing.T) {
		svc := newTestTaskService(&MockTaskStore{
			InsertTaskFunc: func(ctx context.Context, task *Task) error { return errStoreDown },
		})
		if _, err := svc.Create(context.Background(), "owner-a", TaskForm{Title: "x"}); !IsBackend(err) {
			t.Errorf("err = %v, want BackendError", err)
		}
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Run("foreign id surfaces as not found", func(t *testing.T) {
		svc := newTestTaskService(&MockTaskStore{
			UpdateTaskFunc: func(ctx context.Context, ownerID, id string, patch TaskPatch) error {
				return ErrNotFound
			},
		})
		title := "x"
		err := svc.Update(context.Background(), "owner-b", "task-of-a", TaskPatch{Title: &title})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("store failure surfaces as BackendError", func(t *testing.T) {
		svc := newTestTaskService(&MockTaskStore{
			UpdateTaskFunc: func(ctx context.Context, ownerID, id string, patch TaskPatch) error {
				return errStoreDown
			},
		})
		if err := svc.Update(context.Background(), "owner-a", "t1", TaskPatch{}); !IsBackend(err) {
			t.Errorf("err = %v, want BackendError", err)
		}
	})
}

func TestTaskServiceSetCompleted(t *testing.T) {
	var gotPatch TaskPatch
	svc := newTestTaskService(&MockTaskStore{
		UpdateTaskFunc: func(ctx context.Context, ownerID, id string, patch TaskPatch) error {
			gotPatch = patch
			return nil
		},
	})
	if err := svc.SetCompleted(context.Background(), "owner-a", "t1", true); err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	if gotPatch.Completed == nil || !*gotPatch.Completed {
		t.Errorf("patch = %+v, want Completed=true and nothing else", gotPatch)
	}
	if gotPatch.Title != nil || gotPatch.DueDate != nil {
		t.Error("completion toggle must not touch other fields")
	}
}

func TestTaskServiceOpenEditor(t *testing.T) {
	t.Run("prefills form from persisted record", func(t *testing.T) {
		svc := newTestTaskService(&MockTaskStore{
			GetTaskFunc: func(ctx context.Context, ownerID, id string) (*Task, error) {
				return &Task{ID: id, Title: "Ship release", DueTime: "3:30 PM"}, nil
			},
		})
		state, form, err := svc.OpenEditor(context.Background(), "owner-a", "t1")
		if err != nil {
			t.Fatalf("OpenEditor: %v", err)
		}
		if id, open := state.Open(); !open || id != "t1" {
			t.Errorf("state = (%q, %v), want open on t1", id, open)
		}
		if form.Title != "Ship release" || form.TimeInput != "15:30" {
			t.Errorf("form = %+v", form)
		}
	})

	t.Run("missing task leaves editor closed", func(t *testing.T) {
		svc := newTestTaskService(&MockTaskStore{})
		state, _, err := svc.OpenEditor(context.Background(), "owner-a", "nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		if _, open := state.Open(); open {
			t.Error("editor must stay closed on a failed load")
		}
	})
}

func TestProjectServiceCreate(t *testing.T) {
	t.Run("persists project", func(t *testing.T) {
		store := &MockProjectStore{}
		svc := NewProjectServiceWithDeps(store, &MockIDGenerator{Prefix: "project"})

		project, err := svc.Create(context.Background(), "owner-a", "Home")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if project.ID != "project-1" || project.OwnerID != "owner-a" || project.Name != "Home" {
			t.Errorf("project = %+v", project)
		}
	})

	t.Run("empty name rejected and nothing persisted", func(t *testing.T) {
		store := &MockProjectStore{}
		svc := NewProjectServiceWithDeps(store, nil)

		if _, err := svc.Create(context.Background(), "owner-a", ""); !IsValidation(err) {
			t.Errorf("err = %v, want ValidationError", err)
		}
		if len(store.Inserted) != 0 {
			t.Errorf("inserted %d projects, want none", len(store.Inserted))
		}
	})
}

func TestProjectServiceDelete(t *testing.T) {
	svc := NewProjectServiceWithDeps(&MockProjectStore{
		DeleteProjectFunc: func(ctx context.Context, ownerID, id string) error {
			return ErrNotFound
		},
	}, nil)
	if err := svc.Delete(context.Background(), "owner-b", "project-of-a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestTaskServiceBoardFor(t *testing.T) {
	svc := newTestTaskService(&MockTaskStore{
		ListOpenTasksFunc: func(ctx context.Context, ownerID, projectID string) ([]Task, error) {
			return []Task{
				{ID: "a", DueDate: "2024-01-01"},
				{ID: "b", DueDate: "2024-01-10"},
				{ID: "c", DueDate: "2024-01-20"},
			}, nil
		},
	})
	board, err := svc.BoardFor(context.Background(), "owner-a", "")
	if err != nil {
		t.Fatalf("BoardFor: %v", err)
	}
	if len(board.Overdue) != 1 || len(board.Today) != 1 || len(board.Upcoming) != 1 {
		t.Errorf("board = %d/%d/%d, want 1/1/1", len(board.Overdue), len(board.Today), len(board.Upcoming))
	}
}
