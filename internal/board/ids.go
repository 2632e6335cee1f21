package board

import (
	"fmt"
	"regexp"
	"strconv"
)

// DefaultIDPrefix is the prefix used for generated task IDs.
const DefaultIDPrefix = "task"

var taskIDNumberRe = regexp.MustCompile(`task-(\d+)`)

// ExtractIDNumber returns the numeric portion of a task ID like
// "task-123", "task-42-1", or "epic-5", matched against the given
// prefix. Returns 0 if the ID doesn't carry a number for that prefix.
func ExtractIDNumber(taskID, prefix string) int {
	re := taskIDNumberRe
	if prefix != DefaultIDPrefix {
		re = regexp.MustCompile(regexp.QuoteMeta(prefix) + `-(\d+)`)
	}
	m := re.FindStringSubmatch(taskID)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// MaxTaskIDNumber returns the highest task ID number across the
// board's columns, or 0 when the board has no tasks.
//
// Archived tasks are deliberately not scanned. Archiving the
// highest-numbered task therefore frees its number for reuse; this
// matches the historical format and changing it would renumber
// boards in the wild.
func (b *Board) MaxTaskIDNumber() int {
	max := 0
	for _, col := range b.Columns {
		for _, t := range col.Tasks {
			if n := ExtractIDNumber(t.ID, DefaultIDPrefix); n > max {
				max = n
			}
		}
	}
	return max
}

// NextTaskID returns the next task ID for the board, like "task-42".
func (b *Board) NextTaskID() string {
	return fmt.Sprintf("%s-%d", DefaultIDPrefix, b.MaxTaskIDNumber()+1)
}

// SubtaskID builds a subtask ID from a parent task ID and a 1-based index.
func SubtaskID(taskID string, index int) string {
	return fmt.Sprintf("%s-%d", taskID, index)
}

// NextSubtaskID returns the next subtask ID for a task given its
// existing subtask IDs.
func NextSubtaskID(taskID string, existing []string) string {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(taskID) + `-(\d+)`)
	max := 0
	for _, id := range existing {
		m := re.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return SubtaskID(taskID, max+1)
}

// ValidTaskID reports whether id has the {prefix}-N form.
func ValidTaskID(id, prefix string) bool {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-\d+$`)
	return re.MatchString(id)
}

// ValidSubtaskID reports whether id has the {prefix}-N-M form.
func ValidSubtaskID(id, prefix string) bool {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-\d+-\d+$`)
	return re.MatchString(id)
}

// ParentTaskID extracts the parent task ID from a subtask ID like
// "task-42-1". Returns false if the ID is not a valid subtask ID.
func ParentTaskID(subtaskID, prefix string) (string, bool) {
	re := regexp.MustCompile(`^(` + regexp.QuoteMeta(prefix) + `-\d+)-\d+$`)
	m := re.FindStringSubmatch(subtaskID)
	if m == nil {
		return "", false
	}
	return m[1], true
}
