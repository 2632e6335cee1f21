// Package board models a kanban task board and the pure operations over it.
//
// A board is stored as markdown with YAML frontmatter (brainfile.md):
//
//	---
//	title: Project Board
//	columns:
//	  - id: todo
//	    title: To Do
//	    tasks:
//	      - id: task-1
//	        title: Ship the thing
//	        priority: high
//	        subtasks:
//	          - id: task-1-1
//	            title: Write tests
//	            completed: false
//	  - id: done
//	    title: Done
//	    tasks: []
//	archive: []
//	---
//
// # Immutability
//
// Every mutation returns a brand-new Board; the input is never altered.
// Callers hold a snapshot, apply operations to derive new snapshots, and
// use DiffBoards/HashContent to detect how two snapshots diverge. All
// functions are safe for concurrent use against the same input board.
//
// # Results, not errors
//
// Expected failures (missing column, missing task, blank title) are
// reported through OperationResult / BulkOperationResult values rather
// than Go errors, so a caller can thread partial bulk outcomes without
// unwrapping. Bulk operations apply sequentially and are not
// transactional: earlier successes survive later failures.
//
// # Validation
//
// The package supports two validation modes:
//
// 1. JSON Schema validation (when a schema file is provided):
//   - Full validation against JSON Schema draft-2020-12
//
// 2. Minimal structural validation (no schema required):
//   - Non-empty board/column/task/subtask ids and titles
//   - Enum checks for priority and template
//   - Array shape checks for tags, relatedFiles, subtasks, rules, archive
package board
