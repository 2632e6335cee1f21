package board

import "fmt"

func bulkResult(b *Board, results []BulkItemResult) BulkOperationResult {
	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	return BulkOperationResult{
		Success:      len(results) == ok,
		Board:        b,
		Results:      results,
		SuccessCount: ok,
		FailureCount: len(results) - ok,
	}
}

// MoveTasks moves tasks to a target column, appending each at the end.
// Items are applied in order and partial success is possible; a task
// already in the target column counts as a success without a move.
// A missing target column fails every item up front.
func (b *Board) MoveTasks(taskIDs []string, toColumnID string) BulkOperationResult {
	if b.FindColumn(toColumnID) == nil {
		results := make([]BulkItemResult, len(taskIDs))
		for i, id := range taskIDs {
			results[i] = BulkItemResult{
				ID:    id,
				Error: fmt.Sprintf("Target column %s not found", toColumnID),
			}
		}
		return BulkOperationResult{
			Results:      results,
			FailureCount: len(taskIDs),
		}
	}

	current := b
	var results []BulkItemResult
	for _, taskID := range taskIDs {
		info := current.FindTask(taskID)
		if info == nil {
			results = append(results, BulkItemResult{
				ID:    taskID,
				Error: fmt.Sprintf("Task %s not found", taskID),
			})
			continue
		}
		if info.Column.ID == toColumnID {
			results = append(results, BulkItemResult{ID: taskID, Success: true})
			continue
		}

		toIndex := len(current.FindColumn(toColumnID).Tasks)
		res := current.MoveTask(taskID, info.Column.ID, toColumnID, toIndex)
		if res.Success && res.Board != nil {
			current = res.Board
			results = append(results, BulkItemResult{ID: taskID, Success: true})
		} else {
			results = append(results, BulkItemResult{ID: taskID, Error: res.Error})
		}
	}
	return bulkResult(current, results)
}

// PatchTasks applies the same patch to every listed task in order.
// Partial success is possible.
func (b *Board) PatchTasks(taskIDs []string, patch TaskPatch) BulkOperationResult {
	current := b
	var results []BulkItemResult
	for _, taskID := range taskIDs {
		res := current.PatchTask(taskID, patch)
		if res.Success && res.Board != nil {
			current = res.Board
			results = append(results, BulkItemResult{ID: taskID, Success: true})
		} else {
			results = append(results, BulkItemResult{ID: taskID, Error: res.Error})
		}
	}
	return bulkResult(current, results)
}

// DeleteTasks deletes the listed tasks, searching all columns for
// each. Partial success is possible.
func (b *Board) DeleteTasks(taskIDs []string) BulkOperationResult {
	current := b
	var results []BulkItemResult
	for _, taskID := range taskIDs {
		info := current.FindTask(taskID)
		if info == nil {
			results = append(results, BulkItemResult{
				ID:    taskID,
				Error: fmt.Sprintf("Task %s not found", taskID),
			})
			continue
		}
		res := current.DeleteTask(info.Column.ID, taskID)
		if res.Success && res.Board != nil {
			current = res.Board
			results = append(results, BulkItemResult{ID: taskID, Success: true})
		} else {
			results = append(results, BulkItemResult{ID: taskID, Error: res.Error})
		}
	}
	return bulkResult(current, results)
}

// ArchiveTasks archives the listed tasks, searching all columns for
// each. Partial success is possible.
func (b *Board) ArchiveTasks(taskIDs []string) BulkOperationResult {
	current := b
	var results []BulkItemResult
	for _, taskID := range taskIDs {
		info := current.FindTask(taskID)
		if info == nil {
			results = append(results, BulkItemResult{
				ID:    taskID,
				Error: fmt.Sprintf("Task %s not found", taskID),
			})
			continue
		}
		res := current.ArchiveTask(info.Column.ID, taskID)
		if res.Success && res.Board != nil {
			current = res.Board
			results = append(results, BulkItemResult{ID: taskID, Success: true})
		} else {
			results = append(results, BulkItemResult{ID: taskID, Error: res.Error})
		}
	}
	return bulkResult(current, results)
}
