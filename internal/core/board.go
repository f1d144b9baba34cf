package core

import "time"

// Board is the three due-date buckets of an owner's open tasks, plus the
// undated remainder. The four slices are disjoint and together cover the
// input; order within each slice follows the input order.
type Board struct {
	Overdue  []Task `json:"overdue"`
	Today    []Task `json:"today"`
	Upcoming []Task `json:"upcoming"`

	// Undated tasks belong to no bucket and are not shown on the board
	// view. They are kept here so the partition stays a full cover.
	Undated []Task `json:"undated"`
}

// Counts are the header counters derived from a board.
type Counts struct {
	DueToday int `json:"due_today"`
	Overdue  int `json:"overdue"`
}

// Today returns the current calendar date in loc as a yyyy-MM-dd string.
// Callers partition against a single captured value so a task cannot shift
// buckets mid-evaluation when the clock crosses midnight.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(DateFormat)
}

// Partition splits tasks into Overdue / Today / Upcoming by comparing each
// due date against the reference date. Comparison is plain string ordering,
// which for yyyy-MM-dd is calendar ordering. Tasks without a due date go to
// Undated.
func Partition(tasks []Task, today string) Board {
	var b Board
	for _, t := range tasks {
		switch {
		case t.DueDate == "":
			b.Undated = append(b.Undated, t)
		case t.DueDate < today:
			b.Overdue = append(b.Overdue, t)
		case t.DueDate == today:
			b.Today = append(b.Today, t)
		default:
			b.Upcoming = append(b.Upcoming, t)
		}
	}
	return b
}

// Counts returns the Tasks Today / Overdue counters for the board.
func (b Board) Counts() Counts {
	return Counts{
		DueToday: len(b.Today),
		Overdue:  len(b.Overdue),
	}
}

// Size is the total number of tasks across all four partitions.
func (b Board) Size() int {
	return len(b.Overdue) + len(b.Today) + len(b.Upcoming) + len(b.Undated)
}
