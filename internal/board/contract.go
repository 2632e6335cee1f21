package board

import (
	"fmt"
	"strings"
)

// updateTaskWith clones the board and applies update to the named
// task inside the clone. The updater returns an error description, or
// "" on success.
func (b *Board) updateTaskWith(taskID string, update func(t *Task) string) OperationResult {
	if b.FindTask(taskID) == nil {
		return opError("Task %s not found", taskID)
	}
	next := b.Clone()
	if msg := update(next.FindTask(taskID).Task); msg != "" {
		return OperationResult{Error: msg}
	}
	return opOK(next)
}

// SetContract creates or replaces the contract on a task.
func (b *Board) SetContract(taskID string, contract Contract) OperationResult {
	return b.updateTaskWith(taskID, func(t *Task) string {
		t.Contract = contract.Clone()
		return ""
	})
}

// ClearContract removes the contract from a task.
func (b *Board) ClearContract(taskID string) OperationResult {
	return b.updateTaskWith(taskID, func(t *Task) string {
		if t.Contract == nil {
			return fmt.Sprintf("Task %s has no contract", t.ID)
		}
		t.Contract = nil
		return ""
	})
}

// SetContractStatus updates only the contract status.
func (b *Board) SetContractStatus(taskID string, status ContractStatus) OperationResult {
	return b.updateTaskWith(taskID, func(t *Task) string {
		if t.Contract == nil {
			return fmt.Sprintf("Task %s has no contract", t.ID)
		}
		t.Contract.Status = status
		return ""
	})
}

// PatchContract applies a partial update to a task's existing contract.
func (b *Board) PatchContract(taskID string, patch ContractPatch) OperationResult {
	return b.updateTaskWith(taskID, func(t *Task) string {
		if t.Contract == nil {
			return fmt.Sprintf("Task %s has no contract", t.ID)
		}
		c := t.Contract
		if patch.Status != "" {
			c.Status = patch.Status
		}
		if !patch.Deliverables.Unchanged() {
			c.Deliverables = nil
			if patch.Deliverables.IsSet() {
				ds := patch.Deliverables.Value()
				c.Deliverables = make([]Deliverable, len(ds))
				copy(c.Deliverables, ds)
			}
		}
		if !patch.Validation.Unchanged() {
			c.Validation = nil
			if patch.Validation.IsSet() && patch.Validation.Value() != nil {
				v := patch.Validation.Value()
				c.Validation = &ValidationConfig{Commands: cloneStrings(v.Commands)}
			}
		}
		if !patch.Constraints.Unchanged() {
			c.Constraints = nil
			if patch.Constraints.IsSet() {
				c.Constraints = cloneStrings(patch.Constraints.Value())
			}
		}
		if !patch.Context.Unchanged() {
			c.Context = nil
			if patch.Context.IsSet() && patch.Context.Value() != nil {
				v := patch.Context.Value()
				c.Context = &ContractContext{
					Background:    v.Background,
					RelevantFiles: cloneStrings(v.RelevantFiles),
					OutOfScope:    cloneStrings(v.OutOfScope),
				}
			}
		}
		return ""
	})
}

// AddDeliverable appends a deliverable to a task's contract. The path
// is trimmed and must be unique within the contract.
func (b *Board) AddDeliverable(taskID string, d Deliverable) OperationResult {
	path := strings.TrimSpace(d.Path)
	if path == "" {
		return opError("Deliverable path is required")
	}
	return b.updateTaskWith(taskID, func(t *Task) string {
		if t.Contract == nil {
			return fmt.Sprintf("Task %s has no contract", t.ID)
		}
		for _, have := range t.Contract.Deliverables {
			if have.Path == path {
				return fmt.Sprintf("Deliverable %s already exists", path)
			}
		}
		d.Path = path
		t.Contract.Deliverables = append(t.Contract.Deliverables, d)
		return ""
	})
}

// RemoveDeliverable removes a contract deliverable by path.
func (b *Board) RemoveDeliverable(taskID, deliverablePath string) OperationResult {
	path := strings.TrimSpace(deliverablePath)
	if path == "" {
		return opError("Deliverable path is required")
	}
	return b.updateTaskWith(taskID, func(t *Task) string {
		if t.Contract == nil {
			return fmt.Sprintf("Task %s has no contract", t.ID)
		}
		found := false
		var remaining []Deliverable
		for _, have := range t.Contract.Deliverables {
			if have.Path == path {
				found = true
				continue
			}
			remaining = append(remaining, have)
		}
		if !found {
			return fmt.Sprintf("Deliverable %s not found", path)
		}
		t.Contract.Deliverables = remaining
		return ""
	})
}

// AddValidationCommand appends a validation command to a task's
// contract. Adding a command that is already present is a no-op.
func (b *Board) AddValidationCommand(taskID, command string) OperationResult {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return opError("Validation command is required")
	}
	return b.updateTaskWith(taskID, func(t *Task) string {
		if t.Contract == nil {
			return fmt.Sprintf("Task %s has no contract", t.ID)
		}
		if t.Contract.Validation == nil {
			t.Contract.Validation = &ValidationConfig{}
		}
		for _, have := range t.Contract.Validation.Commands {
			if have == cmd {
				return ""
			}
		}
		t.Contract.Validation.Commands = append(t.Contract.Validation.Commands, cmd)
		return ""
	})
}

// RemoveValidationCommand removes a validation command from a task's
// contract. Removing the last command drops the validation block.
func (b *Board) RemoveValidationCommand(taskID, command string) OperationResult {
	cmd := strings.TrimSpace(command)
	if cmd == "" {
		return opError("Validation command is required")
	}
	return b.updateTaskWith(taskID, func(t *Task) string {
		if t.Contract == nil {
			return fmt.Sprintf("Task %s has no contract", t.ID)
		}
		v := t.Contract.Validation
		if v == nil || len(v.Commands) == 0 {
			return "Validation command not found"
		}
		found := false
		var remaining []string
		for _, have := range v.Commands {
			if have == cmd {
				found = true
				continue
			}
			remaining = append(remaining, have)
		}
		if !found {
			return "Validation command not found"
		}
		if len(remaining) == 0 {
			t.Contract.Validation = nil
		} else {
			v.Commands = remaining
		}
		return ""
	})
}

// AddConstraint appends a constraint to a task's contract. Adding a
// constraint that is already present is a no-op.
func (b *Board) AddConstraint(taskID, constraint string) OperationResult {
	c := strings.TrimSpace(constraint)
	if c == "" {
		return opError("Constraint is required")
	}
	return b.updateTaskWith(taskID, func(t *Task) string {
		if t.Contract == nil {
			return fmt.Sprintf("Task %s has no contract", t.ID)
		}
		for _, have := range t.Contract.Constraints {
			if have == c {
				return ""
			}
		}
		t.Contract.Constraints = append(t.Contract.Constraints, c)
		return ""
	})
}

// RemoveConstraint removes a constraint from a task's contract.
func (b *Board) RemoveConstraint(taskID, constraint string) OperationResult {
	c := strings.TrimSpace(constraint)
	if c == "" {
		return opError("Constraint is required")
	}
	return b.updateTaskWith(taskID, func(t *Task) string {
		if t.Contract == nil {
			return fmt.Sprintf("Task %s has no contract", t.ID)
		}
		found := false
		var remaining []string
		for _, have := range t.Contract.Constraints {
			if have == c {
				found = true
				continue
			}
			remaining = append(remaining, have)
		}
		if !found {
			return "Constraint not found"
		}
		t.Contract.Constraints = remaining
		return ""
	})
}
