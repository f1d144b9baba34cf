package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Enzoamyr17/ZipTask/internal/core"
)

// Supported database drivers. SQLite serves the self-hosted default; Postgres
// matches deployments that keep the data in a hosted Postgres instance.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// UserRecord is a registered account row. The password hash never leaves the
// storage and auth layers.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Store is the SQL-backed persistence layer. It implements core.TaskStore and
// core.ProjectStore plus the user operations the auth service needs.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens (and for SQLite creates) the database and runs schema migration.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		// Expand ~ in path
		if strings.HasPrefix(dsn, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			dsn = filepath.Join(home, dsn[1:])
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, driver: driver}
	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the necessary tables
func (s *Store) Migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			task TEXT NOT NULL,
			description TEXT,
			due_date TEXT,
			due_time TEXT,
			priority TEXT,
			project_id TEXT,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			date_created TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_owner_open ON tasks(user_id, completed);
		CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
		CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(user_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle (used by status reporting).
func (s *Store) DB() *sql.DB {
	return s.db
}

// rebind rewrites ? placeholders to the $N form Postgres expects. Queries are
// written once in SQLite style and rebound per driver.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// nullify maps an empty string to NULL so unset optional fields are stored as
// absent rather than as empty text.
func nullify(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// taskOrder sorts by priority severity (high, medium, low, unset), then due
// date, then id for a stable result. The severity CASE replaces a plain
// lexical sort on the priority column.
const taskOrder = `
	ORDER BY CASE t.priority
		WHEN 'high' THEN 0
		WHEN 'medium' THEN 1
		WHEN 'low' THEN 2
		ELSE 3
	END, t.due_date, t.id`

const taskColumns = `t.id, t.user_id, t.task, t.description, t.due_date,
	t.due_time, t.priority, t.project_id, t.completed, t.date_created, p.name`

func scanTask(row interface{ Scan(...any) error }) (core.Task, error) {
	var t core.Task
	var description, dueDate, dueTime, priority, projectID, projectName, dateCreated sql.NullString
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &description, &dueDate,
		&dueTime, &priority, &projectID, &t.Completed, &dateCreated, &projectName)
	if err != nil {
		return core.Task{}, err
	}
	t.Description = description.String
	t.DueDate = dueDate.String
	t.DueTime = dueTime.String
	t.Priority = priority.String
	t.ProjectID = projectID.String
	t.ProjectName = projectName.String
	t.DateCreated = dateCreated.String
	return t, nil
}

// ListOpenTasks returns the owner's incomplete tasks with the project name
// joined in, ordered by priority severity. projectID narrows the result when
// non-empty.
func (s *Store) ListOpenTasks(ctx context.Context, ownerID, projectID string) ([]core.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.user_id = ? AND t.completed = ?`
	args := []any{ownerID, false}
	if projectID != "" {
		query += " AND t.project_id = ?"
		args = append(args, projectID)
	}
	query += taskOrder

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []core.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask retrieves one of the owner's tasks by id.
func (s *Store) GetTask(ctx context.Context, ownerID, id string) (*core.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.id = ? AND t.user_id = ?`

	t, err := scanTask(s.db.QueryRowContext(ctx, s.rebind(query), id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// InsertTask persists a new task.
func (s *Store) InsertTask(ctx context.Context, task *core.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, task, description, due_date, due_time,
			priority, project_id, completed, date_created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		task.ID, task.OwnerID, task.Title, nullify(task.Description),
		nullify(task.DueDate), nullify(task.DueTime), nullify(task.Priority),
		nullify(task.ProjectID), task.Completed, nullify(task.DateCreated))
	return err
}

// UpdateTask applies a partial update, scoped to the owner. Matching owner and
// id together means a foreign id reports core.ErrNotFound and touches nothing.
func (s *Store) UpdateTask(ctx context.Context, ownerID, id string, patch core.TaskPatch) error {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Title != nil {
		set("task", *patch.Title)
	}
	if patch.Description != nil {
		set("description", nullify(*patch.Description))
	}
	if patch.DueDate != nil {
		set("due_date", nullify(*patch.DueDate))
	}
	if patch.DueTime != nil {
		set("due_time", nullify(*patch.DueTime))
	}
	if patch.Priority != nil {
		set("priority", nullify(*patch.Priority))
	}
	if patch.ProjectID != nil {
		set("project_id", nullify(*patch.ProjectID))
	}
	if patch.Completed != nil {
		set("completed", *patch.Completed)
	}

	if len(sets) == 0 {
		return s.taskExists(ctx, ownerID, id)
	}

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE user_id = ? AND id = ?"
	args = append(args, ownerID, id)

	res, err := s.db.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) taskExists(ctx context.Context, ownerID, id string) error {
	var one int
	query := "SELECT 1 FROM tasks WHERE user_id = ? AND id = ?"
	err := s.db.QueryRowContext(ctx, s.rebind(query), ownerID, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// DeleteTask removes one of the owner's tasks under the same scoping rule.
func (s *Store) DeleteTask(ctx context.Context, ownerID, id string) error {
	query := "DELETE FROM tasks WHERE user_id = ? AND id = ?"
	res, err := s.db.ExecContext(ctx, s.rebind(query), ownerID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ListProjects returns the owner's projects by name.
func (s *Store) ListProjects(ctx context.Context, ownerID string) ([]core.Project, error) {
	query := "SELECT id, user_id, name FROM projects WHERE user_id = ? ORDER BY name, id"
	rows, err := s.db.QueryContext(ctx, s.rebind(query), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []core.Project
	for rows.Next() {
		var p core.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// InsertProject persists a new project.
func (s *Store) InsertProject(ctx context.Context, project *core.Project) error {
	query := "INSERT INTO projects (id, user_id, name) VALUES (?, ?, ?)"
	_, err := s.db.ExecContext(ctx, s.rebind(query), project.ID, project.OwnerID, project.Name)
	return err
}

// DeleteProject removes a project and clears the weak reference on the
// owner's tasks in one transaction, so either both happen or neither does.
func (s *Store) DeleteProject(ctx context.Context, ownerID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	clearRefs := "UPDATE tasks SET project_id = NULL WHERE user_id = ? AND project_id = ?"
	if _, err := tx.ExecContext(ctx, s.rebind(clearRefs), ownerID, id); err != nil {
		return err
	}

	del := "DELETE FROM projects WHERE user_id = ? AND id = ?"
	res, err := tx.ExecContext(ctx, s.rebind(del), ownerID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return tx.Commit()
}

// CreateUser persists a new account. Email uniqueness is enforced by the
// schema; a duplicate insert surfaces as a driver error.
func (s *Store) CreateUser(ctx context.Context, user *UserRecord) error {
	query := "INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, s.rebind(query),
		user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	return err
}

// GetUserByEmail retrieves an account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	query := "SELECT id, email, password_hash, created_at FROM users WHERE email = ?"
	var u UserRecord
	err := s.db.QueryRowContext(ctx, s.rebind(query), email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Counts returns per-table row counts for status reporting.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, table := range []string{"users", "projects", "tasks"} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}
