package core

// Priority values as stored on a task. An empty string means no priority.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// DateFormat is the wire format for due_date and date_created. Calendar
// comparison on strings in this format is equivalent to date comparison.
const DateFormat = "2006-01-02"

// Task is a single task belonging to exactly one owner. DueDate and
// DateCreated are yyyy-MM-dd strings; DueTime is a 12-hour display string
// ("3:30 PM"). Empty strings mean the field is unset.
type Task struct {
	ID          string `json:"id"`
	OwnerID     string `json:"user_id"`
	Title       string `json:"task"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	DueTime     string `json:"due_time,omitempty"`
	Priority    string `json:"priority,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	Completed   bool   `json:"completed"`
	DateCreated string `json:"date_created"`

	// ProjectName is embedded from the referenced project on reads,
	// so a task row can show its project without a second fetch.
	ProjectName string `json:"project_name,omitempty"`
}

// Project is a named grouping of tasks owned by one user. Tasks hold a weak
// reference to a project; deleting a project clears those references rather
// than deleting the tasks.
type Project struct {
	ID      string `json:"id"`
	OwnerID string `json:"user_id"`
	Name    string `json:"name"`
}

// Session is the authenticated identity. It exists only while a user is
// signed in; callers receive nil when there is no session.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// User is a registered account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TaskPatch is a partial update. Nil fields are left unchanged; a pointer to
// the zero value clears the field (e.g. removing a due date).
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	DueTime     *string
	Priority    *string
	ProjectID   *string
	Completed   *bool
}

// PriorityRank maps a priority to its severity order: high sorts before
// medium, medium before low, and unset last. The original column sort was
// lexical ("high" < "low" < "medium"); severity order is the documented
// comparator here because it matches the on-screen intent.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}
