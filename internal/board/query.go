package board

import (
	"strings"
	"time"
)

// TaskInfo locates a task on the board: the task itself, the column
// holding it, and its index within that column.
type TaskInfo struct {
	Task   *Task
	Column *Column
	Index  int
}

// FindColumn returns the column with the given ID, or nil if not found.
func (b *Board) FindColumn(columnID string) *Column {
	for i := range b.Columns {
		if b.Columns[i].ID == columnID {
			return &b.Columns[i]
		}
	}
	return nil
}

// FindColumnByTitle returns the first column whose title matches
// case-insensitively, or nil if none does.
func (b *Board) FindColumnByTitle(title string) *Column {
	for i := range b.Columns {
		if strings.EqualFold(b.Columns[i].Title, title) {
			return &b.Columns[i]
		}
	}
	return nil
}

// FindTask locates a task by ID across all columns, or returns nil
// if the board has no such task.
func (b *Board) FindTask(taskID string) *TaskInfo {
	for i := range b.Columns {
		col := &b.Columns[i]
		for j := range col.Tasks {
			if col.Tasks[j].ID == taskID {
				return &TaskInfo{Task: &col.Tasks[j], Column: col, Index: j}
			}
		}
	}
	return nil
}

// TaskExists reports whether a task with the given ID exists in any column.
func (b *Board) TaskExists(taskID string) bool {
	return b.FindTask(taskID) != nil
}

// ColumnExists reports whether a column with the given ID exists.
func (b *Board) ColumnExists(columnID string) bool {
	return b.FindColumn(columnID) != nil
}

// AllTasks returns every task across all columns, in board order.
func (b *Board) AllTasks() []*Task {
	var tasks []*Task
	for i := range b.Columns {
		for j := range b.Columns[i].Tasks {
			tasks = append(tasks, &b.Columns[i].Tasks[j])
		}
	}
	return tasks
}

// TasksByTag returns tasks carrying the given tag.
func (b *Board) TasksByTag(tag string) []*Task {
	var out []*Task
	for _, t := range b.AllTasks() {
		for _, have := range t.Tags {
			if have == tag {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// TasksByPriority returns tasks at the given priority level.
func (b *Board) TasksByPriority(p Priority) []*Task {
	var out []*Task
	for _, t := range b.AllTasks() {
		if t.Priority != "" && t.Priority == p {
			out = append(out, t)
		}
	}
	return out
}

// TasksByAssignee returns tasks assigned to the given person.
func (b *Board) TasksByAssignee(assignee string) []*Task {
	var out []*Task
	for _, t := range b.AllTasks() {
		if t.Assignee == assignee {
			out = append(out, t)
		}
	}
	return out
}

// SearchTasks returns tasks whose title or description contains the
// query, case-insensitively.
func (b *Board) SearchTasks(query string) []*Task {
	q := strings.ToLower(query)
	var out []*Task
	for _, t := range b.AllTasks() {
		if strings.Contains(strings.ToLower(t.Title), q) {
			out = append(out, t)
			continue
		}
		if t.Description != "" && strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// ColumnTaskCount returns the number of tasks in a column, or 0 if
// the column doesn't exist.
func (b *Board) ColumnTaskCount(columnID string) int {
	col := b.FindColumn(columnID)
	if col == nil {
		return 0
	}
	return len(col.Tasks)
}

// TotalTaskCount returns the number of tasks across all columns.
func (b *Board) TotalTaskCount() int {
	n := 0
	for i := range b.Columns {
		n += len(b.Columns[i].Tasks)
	}
	return n
}

// TasksWithIncompleteSubtasks returns tasks that have at least one
// incomplete subtask.
func (b *Board) TasksWithIncompleteSubtasks() []*Task {
	var out []*Task
	for _, t := range b.AllTasks() {
		for _, st := range t.Subtasks {
			if !st.Completed {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// OverdueTasks returns tasks whose due date falls before now's date.
// Due dates are compared at day granularity; tasks with unparseable
// due dates are skipped.
func (b *Board) OverdueTasks(now time.Time) []*Task {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var out []*Task
	for _, t := range b.AllTasks() {
		if t.DueDate == "" {
			continue
		}
		datePart, _, _ := strings.Cut(t.DueDate, "T")
		due, err := time.Parse("2006-01-02", datePart)
		if err != nil {
			continue
		}
		if due.Before(today) {
			out = append(out, t)
		}
	}
	return out
}
