package board

import "fmt"

// OperationResult is the outcome of a single board mutation. Expected
// failures (missing task, missing column, empty title) come back as
// Success=false with Error set; they are not Go errors because callers
// routinely branch on them without unwinding.
type OperationResult struct {
	Success bool
	// Board is the new snapshot. Nil when the operation failed.
	Board *Board
	Error string
}

// BulkItemResult is the outcome of one item within a bulk operation.
type BulkItemResult struct {
	ID      string
	Success bool
	Error   string
}

// BulkOperationResult is the outcome of a bulk mutation. Success is
// true only when every item succeeded; Board still carries the partial
// result when some items failed.
type BulkOperationResult struct {
	Success      bool
	Board        *Board
	Results      []BulkItemResult
	SuccessCount int
	FailureCount int
}

func opError(format string, args ...any) OperationResult {
	return OperationResult{Error: fmt.Sprintf(format, args...)}
}

func opOK(b *Board) OperationResult {
	return OperationResult{Success: true, Board: b}
}

// TaskInput describes a new task. Only Title is required. Priority and
// Template are raw strings so callers can pass user input straight
// through; unrecognized values are dropped, not rejected.
type TaskInput struct {
	Title        string
	Description  string
	Priority     string
	Tags         []string
	Assignee     string
	DueDate      string
	RelatedFiles []string
	Template     string
	// Subtasks holds titles only. IDs are generated from the new task's ID.
	Subtasks []string
}

// Field is a three-state patch value. The zero value leaves the target
// field unchanged; Set replaces it; Clear removes it.
type Field[T any] struct {
	state fieldState
	value T
}

type fieldState uint8

const (
	fieldUnchanged fieldState = iota
	fieldCleared
	fieldSet
)

// Set returns a field that replaces the target with v.
func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldSet, value: v}
}

// Clear returns a field that removes the target's value.
func Clear[T any]() Field[T] {
	return Field[T]{state: fieldCleared}
}

// IsSet reports whether the field carries a replacement value.
func (f Field[T]) IsSet() bool { return f.state == fieldSet }

// IsClear reports whether the field removes the target's value.
func (f Field[T]) IsClear() bool { return f.state == fieldCleared }

// Unchanged reports whether the field leaves the target alone.
func (f Field[T]) Unchanged() bool { return f.state == fieldUnchanged }

// Value returns the replacement value. Meaningful only when IsSet.
func (f Field[T]) Value() T { return f.value }

// TaskPatch is a partial update to a task. Title uses a plain pointer
// because titles can be replaced but never removed; every other field
// distinguishes "leave alone" from "clear" from "set".
type TaskPatch struct {
	Title        *string
	Description  Field[string]
	Priority     Field[string]
	Tags         Field[[]string]
	Assignee     Field[string]
	DueDate      Field[string]
	RelatedFiles Field[[]string]
	Template     Field[string]
}

// ContractPatch is a partial update to a task's contract. An empty
// Status leaves the status unchanged; a contract always has a status,
// so it cannot be cleared.
type ContractPatch struct {
	Status       ContractStatus
	Deliverables Field[[]Deliverable]
	Validation   Field[*ValidationConfig]
	Constraints  Field[[]string]
	Context      Field[*ContractContext]
}
