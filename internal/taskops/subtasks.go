package taskops

import (
	"strings"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/taskfile"
)

// AddSubtaskFile appends a subtask to a task file, continuing the
// {taskID}-N id sequence.
func AddSubtaskFile(taskPath, title string) Result {
	if strings.TrimSpace(title) == "" {
		return fail("Subtask title is required")
	}
	doc := taskfile.Read(taskPath)
	if doc == nil {
		return fail("Failed to read task file: %s", taskPath)
	}

	task := doc.Task
	existing := make([]string, len(task.Subtasks))
	for i, st := range task.Subtasks {
		existing[i] = st.ID
	}
	task.Subtasks = append(task.Subtasks, board.Subtask{
		ID:    board.NextSubtaskID(task.ID, existing),
		Title: strings.TrimSpace(title),
	})
	task.UpdatedAt = timestamp()

	if err := taskfile.Write(taskPath, task, doc.Body); err != nil {
		return fail("Failed to write task file: %v", err)
	}
	return Result{Success: true, Task: &task, FilePath: taskPath}
}

// ToggleSubtaskFile flips a subtask's completed flag in a task file.
func ToggleSubtaskFile(taskPath, subtaskID string) Result {
	doc := taskfile.Read(taskPath)
	if doc == nil {
		return fail("Failed to read task file: %s", taskPath)
	}

	task := doc.Task
	if len(task.Subtasks) == 0 {
		return fail("Task %s has no subtasks", task.ID)
	}
	found := false
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Completed = !task.Subtasks[i].Completed
			found = true
			break
		}
	}
	if !found {
		return fail("Subtask %s not found", subtaskID)
	}
	task.UpdatedAt = timestamp()

	if err := taskfile.Write(taskPath, task, doc.Body); err != nil {
		return fail("Failed to write task file: %v", err)
	}
	return Result{Success: true, Task: &task, FilePath: taskPath}
}

// CompleteSubtasksFile marks the listed subtasks of a task file
// completed; an empty list marks all of them. Every id is validated
// before anything is written, so a bad id leaves the file untouched.
func CompleteSubtasksFile(taskPath string, subtaskIDs []string) Result {
	doc := taskfile.Read(taskPath)
	if doc == nil {
		return fail("Failed to read task file: %s", taskPath)
	}

	task := doc.Task
	if len(task.Subtasks) == 0 {
		return fail("Task %s has no subtasks", task.ID)
	}
	wanted := make(map[string]bool, len(subtaskIDs))
	for _, id := range subtaskIDs {
		if !hasSubtaskID(task.Subtasks, id) {
			return fail("Subtask %s not found", id)
		}
		wanted[id] = true
	}

	for i := range task.Subtasks {
		if len(wanted) == 0 || wanted[task.Subtasks[i].ID] {
			task.Subtasks[i].Completed = true
		}
	}
	task.UpdatedAt = timestamp()

	if err := taskfile.Write(taskPath, task, doc.Body); err != nil {
		return fail("Failed to write task file: %v", err)
	}
	return Result{Success: true, Task: &task, FilePath: taskPath}
}

func hasSubtaskID(subtasks []board.Subtask, id string) bool {
	for _, st := range subtasks {
		if st.ID == id {
			return true
		}
	}
	return false
}
