package board

import "reflect"

// ColumnDiff records one column-level change. Index fields are -1
// when they don't apply to the change kind.
type ColumnDiff struct {
	ColumnID      string
	Before        *Column
	After         *Column
	FromIndex     int
	ToIndex       int
	ChangedFields []string
}

// TaskDiff records one task-level change. Index fields are -1 and
// column IDs "" when they don't apply to the change kind.
type TaskDiff struct {
	TaskID        string
	Before        *Task
	After         *Task
	FromColumnID  string
	ToColumnID    string
	FromIndex     int
	ToIndex       int
	ChangedFields []string
}

// BoardDiff is the structural difference between two board snapshots.
// The buckets are independent: a task that changed content while
// changing position appears in both TasksUpdated and TasksMoved.
type BoardDiff struct {
	MetadataChanged bool
	ColumnsAdded    []ColumnDiff
	ColumnsRemoved  []ColumnDiff
	ColumnsUpdated  []ColumnDiff
	ColumnsMoved    []ColumnDiff
	TasksAdded      []TaskDiff
	TasksRemoved    []TaskDiff
	TasksUpdated    []TaskDiff
	TasksMoved      []TaskDiff
}

// HasChanges reports whether the diff records any change at all.
func (d *BoardDiff) HasChanges() bool {
	return d.MetadataChanged ||
		len(d.ColumnsAdded) > 0 || len(d.ColumnsRemoved) > 0 ||
		len(d.ColumnsUpdated) > 0 || len(d.ColumnsMoved) > 0 ||
		len(d.TasksAdded) > 0 || len(d.TasksRemoved) > 0 ||
		len(d.TasksUpdated) > 0 || len(d.TasksMoved) > 0
}

type columnEntry struct {
	col   *Column
	index int
}

type taskEntry struct {
	task     *Task
	columnID string
	index    int
}

func indexColumns(columns []Column) map[string]columnEntry {
	out := make(map[string]columnEntry, len(columns))
	for i := range columns {
		out[columns[i].ID] = columnEntry{col: &columns[i], index: i}
	}
	return out
}

func indexTasks(columns []Column) map[string]taskEntry {
	out := make(map[string]taskEntry)
	for i := range columns {
		col := &columns[i]
		for j := range col.Tasks {
			out[col.Tasks[j].ID] = taskEntry{
				task:     &col.Tasks[j],
				columnID: col.ID,
				index:    j,
			}
		}
	}
	return out
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func subtasksEqual(a, b []Subtask) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// columnChangedFields compares the column fields the diff cares
// about: title and order. Task lists are diffed separately.
func columnChangedFields(before, after *Column) []string {
	var changed []string
	if before.Title != after.Title {
		changed = append(changed, "title")
	}
	if !intPtrEqual(before.Order, after.Order) {
		changed = append(changed, "order")
	}
	return changed
}

// taskChangedFields compares the task content fields the diff cares
// about. Position and column are handled as moves, not updates.
// Equality is deep and order-sensitive for lists.
func taskChangedFields(before, after *Task) []string {
	var changed []string
	if before.Title != after.Title {
		changed = append(changed, "title")
	}
	if before.Description != after.Description {
		changed = append(changed, "description")
	}
	if !stringSlicesEqual(before.RelatedFiles, after.RelatedFiles) {
		changed = append(changed, "relatedFiles")
	}
	if before.Assignee != after.Assignee {
		changed = append(changed, "assignee")
	}
	if !stringSlicesEqual(before.Tags, after.Tags) {
		changed = append(changed, "tags")
	}
	if before.Priority != after.Priority {
		changed = append(changed, "priority")
	}
	if before.DueDate != after.DueDate {
		changed = append(changed, "dueDate")
	}
	if !subtasksEqual(before.Subtasks, after.Subtasks) {
		changed = append(changed, "subtasks")
	}
	if before.Template != after.Template {
		changed = append(changed, "template")
	}
	return changed
}

func metadataEqual(a, b *Board) bool {
	return a.Title == b.Title &&
		a.ProtocolVersion == b.ProtocolVersion &&
		a.SchemaURL == b.SchemaURL &&
		reflect.DeepEqual(a.Agent, b.Agent) &&
		reflect.DeepEqual(a.Rules, b.Rules) &&
		reflect.DeepEqual(a.StatsConfig, b.StatsConfig)
}

// DiffBoards computes the structural diff between two board
// snapshots. Removed entries come back in previous-board order, all
// other buckets in next-board order. The Before/After pointers refer
// into the boards passed in.
func DiffBoards(previous, next *Board) *BoardDiff {
	d := &BoardDiff{MetadataChanged: !metadataEqual(previous, next)}

	prevCols := indexColumns(previous.Columns)
	nextCols := indexColumns(next.Columns)

	for i := range previous.Columns {
		col := &previous.Columns[i]
		if _, ok := nextCols[col.ID]; !ok {
			d.ColumnsRemoved = append(d.ColumnsRemoved, ColumnDiff{
				ColumnID:  col.ID,
				Before:    col,
				FromIndex: i,
				ToIndex:   -1,
			})
		}
	}

	for i := range next.Columns {
		col := &next.Columns[i]
		prev, ok := prevCols[col.ID]
		if !ok {
			d.ColumnsAdded = append(d.ColumnsAdded, ColumnDiff{
				ColumnID:  col.ID,
				After:     col,
				FromIndex: -1,
				ToIndex:   i,
			})
			continue
		}

		if changed := columnChangedFields(prev.col, col); len(changed) > 0 {
			d.ColumnsUpdated = append(d.ColumnsUpdated, ColumnDiff{
				ColumnID:      col.ID,
				Before:        prev.col,
				After:         col,
				FromIndex:     -1,
				ToIndex:       -1,
				ChangedFields: changed,
			})
		}

		if prev.index != i {
			d.ColumnsMoved = append(d.ColumnsMoved, ColumnDiff{
				ColumnID:  col.ID,
				Before:    prev.col,
				After:     col,
				FromIndex: prev.index,
				ToIndex:   i,
			})
		}
	}

	prevTasks := indexTasks(previous.Columns)
	nextTasks := indexTasks(next.Columns)

	for i := range previous.Columns {
		col := &previous.Columns[i]
		for j := range col.Tasks {
			task := &col.Tasks[j]
			if _, ok := nextTasks[task.ID]; !ok {
				d.TasksRemoved = append(d.TasksRemoved, TaskDiff{
					TaskID:       task.ID,
					Before:       task,
					FromColumnID: col.ID,
					FromIndex:    j,
					ToIndex:      -1,
				})
			}
		}
	}

	for i := range next.Columns {
		col := &next.Columns[i]
		for j := range col.Tasks {
			task := &col.Tasks[j]
			prev, ok := prevTasks[task.ID]
			if !ok {
				d.TasksAdded = append(d.TasksAdded, TaskDiff{
					TaskID:     task.ID,
					After:      task,
					ToColumnID: col.ID,
					FromIndex:  -1,
					ToIndex:    j,
				})
				continue
			}

			if prev.columnID != col.ID || prev.index != j {
				d.TasksMoved = append(d.TasksMoved, TaskDiff{
					TaskID:       task.ID,
					Before:       prev.task,
					After:        task,
					FromColumnID: prev.columnID,
					ToColumnID:   col.ID,
					FromIndex:    prev.index,
					ToIndex:      j,
				})
			}

			if changed := taskChangedFields(prev.task, task); len(changed) > 0 {
				d.TasksUpdated = append(d.TasksUpdated, TaskDiff{
					TaskID:        task.ID,
					Before:        prev.task,
					After:         task,
					FromColumnID:  prev.columnID,
					ToColumnID:    col.ID,
					FromIndex:     prev.index,
					ToIndex:       j,
					ChangedFields: changed,
				})
			}
		}
	}

	return d
}
