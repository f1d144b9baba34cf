package core

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatDueTime renders a 24-hour clock time as the stored 12-hour display
// string, e.g. (13, 30) -> "1:30 PM". Midnight is "12:00 AM" and noon is
// "12:00 PM"; the hour carries no leading zero.
func FormatDueTime(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, period)
}

// ParseDueTime reverses FormatDueTime: "1:30 PM" -> (13, 30, true). Malformed
// strings report ok=false and are treated as an absent due time; a bad stored
// value must not take down the edit form.
func ParseDueTime(s string) (hour, minute int, ok bool) {
	clock, period, found := strings.Cut(s, " ")
	if !found || (period != "AM" && period != "PM") {
		return 0, 0, false
	}
	hh, mm, found := strings.Cut(clock, ":")
	if !found {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 1 || h > 12 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, 0, false
	}
	h = h % 12
	if period == "PM" {
		h += 12
	}
	return h, m, true
}

// TimeInputValue converts a stored 12-hour string into the 24-hour HH:MM
// value a time input expects ("1:30 PM" -> "13:30"). Absent or malformed
// input yields an empty value.
func TimeInputValue(dueTime string) string {
	if dueTime == "" {
		return ""
	}
	h, m, ok := ParseDueTime(dueTime)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// TaskForm is the editable representation shared by the create and edit
// dialogs. DueDate is a date-picker value (yyyy-MM-dd), TimeInput a 24-hour
// HH:MM value; both map to the wire representation through Fields.
type TaskForm struct {
	Title       string `json:"task"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	TimeInput   string `json:"time_input"`
	Priority    string `json:"priority"`
	ProjectID   string `json:"project_id"`
}

// NewTaskForm starts a create-flow form. All fields are empty except the
// project, which prefills from the currently viewed project context.
func NewTaskForm(projectID string) TaskForm {
	return TaskForm{ProjectID: projectID}
}

// EditForm prefills a form from a persisted task, reverse-parsing the stored
// due time into the 24-hour input value.
func EditForm(t Task) TaskForm {
	return TaskForm{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		TimeInput:   TimeInputValue(t.DueTime),
		Priority:    t.Priority,
		ProjectID:   t.ProjectID,
	}
}

// Validate checks the form's required fields.
func (f TaskForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Field: "task", Reason: "title is required"}
	}
	return nil
}

// Fields maps the form back to the wire representation, forward-formatting
// the time input. An unparseable time input is dropped rather than stored.
func (f TaskForm) Fields() Task {
	var dueTime string
	if f.TimeInput != "" {
		hh, mm, found := strings.Cut(f.TimeInput, ":")
		h, herr := strconv.Atoi(hh)
		m, merr := strconv.Atoi(mm)
		if found && herr == nil && merr == nil && h >= 0 && h <= 23 && m >= 0 && m <= 59 {
			dueTime = FormatDueTime(h, m)
		}
	}
	return Task{
		Title:       strings.TrimSpace(f.Title),
		Description: f.Description,
		DueDate:     f.DueDate,
		DueTime:     dueTime,
		Priority:    f.Priority,
		ProjectID:   f.ProjectID,
	}
}

// EditorState is the edit dialog's view state: closed, or open on one task.
type EditorState struct {
	open   bool
	taskID string
}

// EditorClosed is the closed edit dialog.
func EditorClosed() EditorState { return EditorState{} }

// EditorOpen is the edit dialog opened on taskID.
func EditorOpen(taskID string) EditorState {
	return EditorState{open: true, taskID: taskID}
}

// Open reports whether the dialog is open and, if so, on which task.
func (s EditorState) Open() (string, bool) { return s.taskID, s.open }
