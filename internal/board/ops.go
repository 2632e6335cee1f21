package board

import "strings"

func removeTaskByID(tasks []Task, id string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// insertTask inserts t at index, clamping out-of-range indexes so an
// index beyond the end appends.
func insertTask(tasks []Task, index int, t Task) []Task {
	if index < 0 {
		index = 0
	}
	if index > len(tasks) {
		index = len(tasks)
	}
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, tasks[:index]...)
	out = append(out, t)
	return append(out, tasks[index:]...)
}

// MoveTask moves a task to a new column and index. When source and
// target are the same column this is a reorder; otherwise the task is
// copied into the target column's list. Fails if either column is
// missing or the task is not in the stated source column.
func (b *Board) MoveTask(taskID, fromColumnID, toColumnID string, toIndex int) OperationResult {
	from := b.FindColumn(fromColumnID)
	if from == nil {
		return opError("Source column %s not found", fromColumnID)
	}
	if b.FindColumn(toColumnID) == nil {
		return opError("Target column %s not found", toColumnID)
	}

	taskIndex := -1
	for i := range from.Tasks {
		if from.Tasks[i].ID == taskID {
			taskIndex = i
			break
		}
	}
	if taskIndex == -1 {
		return opError("Task %s not found in column %s", taskID, fromColumnID)
	}

	next := b.Clone()
	if fromColumnID == toColumnID {
		col := next.FindColumn(fromColumnID)
		moved := col.Tasks[taskIndex]
		remaining := make([]Task, 0, len(col.Tasks)-1)
		remaining = append(remaining, col.Tasks[:taskIndex]...)
		remaining = append(remaining, col.Tasks[taskIndex+1:]...)
		col.Tasks = insertTask(remaining, toIndex, moved)
	} else {
		src := next.FindColumn(fromColumnID)
		moved := src.Tasks[taskIndex].Clone()
		src.Tasks = removeTaskByID(src.Tasks, taskID)
		dst := next.FindColumn(toColumnID)
		dst.Tasks = insertTask(dst.Tasks, toIndex, moved)
	}
	return opOK(next)
}

// AddTask appends a new task to a column. The task ID is generated
// from the highest active task number; subtask IDs derive from it.
func (b *Board) AddTask(columnID string, input TaskInput) OperationResult {
	if b.FindColumn(columnID) == nil {
		return opError("Column %s not found", columnID)
	}
	if strings.TrimSpace(input.Title) == "" {
		return opError("Task title is required")
	}

	newID := b.NextTaskID()

	var subtasks []Subtask
	for i, title := range input.Subtasks {
		subtasks = append(subtasks, Subtask{
			ID:    SubtaskID(newID, i+1),
			Title: strings.TrimSpace(title),
		})
	}

	priority, _ := ParsePriority(input.Priority)
	template, _ := ParseTemplate(input.Template)

	task := Task{
		ID:          newID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Assignee:    input.Assignee,
		DueDate:     input.DueDate,
		Template:    template,
		Subtasks:    subtasks,
	}
	if len(input.Tags) > 0 {
		task.Tags = cloneStrings(input.Tags)
	}
	if len(input.RelatedFiles) > 0 {
		task.RelatedFiles = cloneStrings(input.RelatedFiles)
	}

	next := b.Clone()
	col := next.FindColumn(columnID)
	col.Tasks = append(col.Tasks, task)
	return opOK(next)
}

// UpdateTask replaces a task's title and description. Unlike PatchTask
// the new values are taken verbatim.
func (b *Board) UpdateTask(columnID, taskID, title, description string) OperationResult {
	col := b.FindColumn(columnID)
	if col == nil {
		return opError("Column %s not found", columnID)
	}
	found := false
	for i := range col.Tasks {
		if col.Tasks[i].ID == taskID {
			found = true
			break
		}
	}
	if !found {
		return opError("Task %s not found in column %s", taskID, columnID)
	}

	next := b.Clone()
	nc := next.FindColumn(columnID)
	for i := range nc.Tasks {
		if nc.Tasks[i].ID == taskID {
			nc.Tasks[i].Title = title
			nc.Tasks[i].Description = description
			break
		}
	}
	return opOK(next)
}

// DeleteTask removes a task from a column.
func (b *Board) DeleteTask(columnID, taskID string) OperationResult {
	col := b.FindColumn(columnID)
	if col == nil {
		return opError("Column %s not found", columnID)
	}
	exists := false
	for i := range col.Tasks {
		if col.Tasks[i].ID == taskID {
			exists = true
			break
		}
	}
	if !exists {
		return opError("Task %s not found in column %s", taskID, columnID)
	}

	next := b.Clone()
	nc := next.FindColumn(columnID)
	nc.Tasks = removeTaskByID(nc.Tasks, taskID)
	return opOK(next)
}

// PatchTask applies a partial update to a task, searching all columns.
func (b *Board) PatchTask(taskID string, patch TaskPatch) OperationResult {
	if b.FindTask(taskID) == nil {
		return opError("Task %s not found", taskID)
	}
	next := b.Clone()
	next.FindTask(taskID).Task.ApplyPatch(patch)
	return opOK(next)
}

// ApplyPatch applies a partial update to the task in place. Cleared
// fields reset to their zero values; unrecognized priority and
// template values clear rather than persist.
func (t *Task) ApplyPatch(patch TaskPatch) {
	if patch.Title != nil {
		t.Title = strings.TrimSpace(*patch.Title)
	}

	switch {
	case patch.Description.IsClear():
		t.Description = ""
	case patch.Description.IsSet():
		t.Description = strings.TrimSpace(patch.Description.Value())
	}

	if !patch.Priority.Unchanged() {
		t.Priority = ""
		if patch.Priority.IsSet() {
			if p, ok := ParsePriority(patch.Priority.Value()); ok {
				t.Priority = p
			}
		}
	}

	if !patch.Tags.Unchanged() {
		t.Tags = nil
		if tags := patch.Tags.Value(); patch.Tags.IsSet() && len(tags) > 0 {
			t.Tags = cloneStrings(tags)
		}
	}

	if !patch.Assignee.Unchanged() {
		t.Assignee = ""
		if patch.Assignee.IsSet() {
			t.Assignee = patch.Assignee.Value()
		}
	}

	if !patch.DueDate.Unchanged() {
		t.DueDate = ""
		if patch.DueDate.IsSet() {
			t.DueDate = patch.DueDate.Value()
		}
	}

	if !patch.RelatedFiles.Unchanged() {
		t.RelatedFiles = nil
		if files := patch.RelatedFiles.Value(); patch.RelatedFiles.IsSet() && len(files) > 0 {
			t.RelatedFiles = cloneStrings(files)
		}
	}

	if !patch.Template.Unchanged() {
		t.Template = ""
		if patch.Template.IsSet() {
			if tmpl, ok := ParseTemplate(patch.Template.Value()); ok {
				t.Template = tmpl
			}
		}
	}
}

// UpdateTitle replaces the board title.
func (b *Board) UpdateTitle(title string) OperationResult {
	next := b.Clone()
	next.Title = title
	return opOK(next)
}

// UpdateStatsConfig replaces the stats column selection.
func (b *Board) UpdateStatsConfig(columns []string) OperationResult {
	next := b.Clone()
	next.StatsConfig = &StatsConfig{Columns: cloneStrings(columns)}
	return opOK(next)
}

// ArchiveTask moves a task from a column to the board archive.
func (b *Board) ArchiveTask(columnID, taskID string) OperationResult {
	col := b.FindColumn(columnID)
	if col == nil {
		return opError("Column %s not found", columnID)
	}
	var task *Task
	for i := range col.Tasks {
		if col.Tasks[i].ID == taskID {
			task = &col.Tasks[i]
			break
		}
	}
	if task == nil {
		return opError("Task %s not found in column %s", taskID, columnID)
	}

	next := b.Clone()
	nc := next.FindColumn(columnID)
	nc.Tasks = removeTaskByID(nc.Tasks, taskID)
	next.Archive = append(next.Archive, task.Clone())
	return opOK(next)
}

// RestoreTask moves a task from the archive back to a column.
func (b *Board) RestoreTask(taskID, toColumnID string) OperationResult {
	if len(b.Archive) == 0 {
		return opError("Archive is empty")
	}
	var task *Task
	for i := range b.Archive {
		if b.Archive[i].ID == taskID {
			task = &b.Archive[i]
			break
		}
	}
	if task == nil {
		return opError("Task %s not found in archive", taskID)
	}
	if b.FindColumn(toColumnID) == nil {
		return opError("Target column %s not found", toColumnID)
	}

	next := b.Clone()
	col := next.FindColumn(toColumnID)
	col.Tasks = append(col.Tasks, task.Clone())
	remaining := make([]Task, 0, len(next.Archive)-1)
	for _, t := range next.Archive {
		if t.ID != taskID {
			remaining = append(remaining, t)
		}
	}
	next.Archive = remaining
	return opOK(next)
}
