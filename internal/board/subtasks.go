package board

import "strings"

// cloneWithTask clones the board and returns the clone together with
// a pointer to the named task inside it. Callers must have already
// checked that the task exists.
func (b *Board) cloneWithTask(taskID string) (*Board, *Task) {
	next := b.Clone()
	return next, next.FindTask(taskID).Task
}

// ToggleSubtask flips a subtask's completed flag.
func (b *Board) ToggleSubtask(taskID, subtaskID string) OperationResult {
	info := b.FindTask(taskID)
	if info == nil {
		return opError("Task %s not found", taskID)
	}
	if len(info.Task.Subtasks) == 0 {
		return opError("Task %s has no subtasks", taskID)
	}
	if !hasSubtask(info.Task.Subtasks, subtaskID) {
		return opError("Subtask %s not found", subtaskID)
	}

	next, task := b.cloneWithTask(taskID)
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Completed = !task.Subtasks[i].Completed
			break
		}
	}
	return opOK(next)
}

// AddSubtask appends a subtask to a task. The subtask ID continues the
// task's {taskID}-N sequence.
func (b *Board) AddSubtask(taskID, title string) OperationResult {
	info := b.FindTask(taskID)
	if info == nil {
		return opError("Task %s not found", taskID)
	}
	if strings.TrimSpace(title) == "" {
		return opError("Subtask title is required")
	}

	existing := make([]string, len(info.Task.Subtasks))
	for i, st := range info.Task.Subtasks {
		existing[i] = st.ID
	}

	next, task := b.cloneWithTask(taskID)
	task.Subtasks = append(task.Subtasks, Subtask{
		ID:    NextSubtaskID(taskID, existing),
		Title: strings.TrimSpace(title),
	})
	return opOK(next)
}

// DeleteSubtask removes a subtask from a task. Deleting the last
// subtask leaves the task with no subtask list at all.
func (b *Board) DeleteSubtask(taskID, subtaskID string) OperationResult {
	info := b.FindTask(taskID)
	if info == nil {
		return opError("Task %s not found", taskID)
	}
	if len(info.Task.Subtasks) == 0 {
		return opError("Task %s has no subtasks", taskID)
	}
	if !hasSubtask(info.Task.Subtasks, subtaskID) {
		return opError("Subtask %s not found", subtaskID)
	}

	next, task := b.cloneWithTask(taskID)
	var remaining []Subtask
	for _, st := range task.Subtasks {
		if st.ID != subtaskID {
			remaining = append(remaining, st)
		}
	}
	task.Subtasks = remaining
	return opOK(next)
}

// UpdateSubtask replaces a subtask's title.
func (b *Board) UpdateSubtask(taskID, subtaskID, title string) OperationResult {
	info := b.FindTask(taskID)
	if info == nil {
		return opError("Task %s not found", taskID)
	}
	if strings.TrimSpace(title) == "" {
		return opError("Subtask title is required")
	}
	if len(info.Task.Subtasks) == 0 {
		return opError("Task %s has no subtasks", taskID)
	}
	if !hasSubtask(info.Task.Subtasks, subtaskID) {
		return opError("Subtask %s not found", subtaskID)
	}

	next, task := b.cloneWithTask(taskID)
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == subtaskID {
			task.Subtasks[i].Title = strings.TrimSpace(title)
			break
		}
	}
	return opOK(next)
}

// SetSubtasksCompleted marks the listed subtasks completed or not.
// Every ID is validated before anything changes, so a bad ID leaves
// the board untouched.
func (b *Board) SetSubtasksCompleted(taskID string, subtaskIDs []string, completed bool) OperationResult {
	info := b.FindTask(taskID)
	if info == nil {
		return opError("Task %s not found", taskID)
	}
	if len(info.Task.Subtasks) == 0 {
		return opError("Task %s has no subtasks", taskID)
	}
	for _, id := range subtaskIDs {
		if !hasSubtask(info.Task.Subtasks, id) {
			return opError("Subtask %s not found", id)
		}
	}

	wanted := make(map[string]bool, len(subtaskIDs))
	for _, id := range subtaskIDs {
		wanted[id] = true
	}

	next, task := b.cloneWithTask(taskID)
	for i := range task.Subtasks {
		if wanted[task.Subtasks[i].ID] {
			task.Subtasks[i].Completed = completed
		}
	}
	return opOK(next)
}

// SetAllSubtasksCompleted marks every subtask of a task completed or not.
func (b *Board) SetAllSubtasksCompleted(taskID string, completed bool) OperationResult {
	info := b.FindTask(taskID)
	if info == nil {
		return opError("Task %s not found", taskID)
	}
	if len(info.Task.Subtasks) == 0 {
		return opError("Task %s has no subtasks", taskID)
	}

	next, task := b.cloneWithTask(taskID)
	for i := range task.Subtasks {
		task.Subtasks[i].Completed = completed
	}
	return opOK(next)
}

func hasSubtask(subtasks []Subtask, id string) bool {
	for _, st := range subtasks {
		if st.ID == id {
			return true
		}
	}
	return false
}
