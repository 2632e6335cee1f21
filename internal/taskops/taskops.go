// Package taskops implements task operations for split workspaces.
// Unlike the board package these have filesystem side effects: each
// operation reads, writes, moves, or deletes files under the
// workspace board and logs directories.
package taskops

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/taskfile"
)

// Result reports the outcome of a file-based task operation. Expected
// failures come back as Error strings with Task nil.
type Result struct {
	Success  bool
	Task     *board.Task
	FilePath string
	Error    string
}

func fail(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// Input describes a task to create as a new file. The embedded fields
// match the in-memory add operation; the rest place the task on disk.
type Input struct {
	board.TaskInput

	// ID overrides generation. When empty the next free id for the
	// type prefix is used.
	ID       string
	Column   string
	Position *int
	ParentID string
	// Type sets the document type and its id prefix, so type "epic"
	// yields ids like epic-1.
	Type string
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}

// NextFileTaskID scans the board directory, and the logs directory
// when given, for the highest id with the type prefix and returns the
// next one. An empty prefix means "task".
func NextFileTaskID(boardDir, logsDir, typePrefix string) string {
	if typePrefix == "" {
		typePrefix = "task"
	}
	re := regexp.MustCompile("^" + regexp.QuoteMeta(typePrefix) + `-(\d+)$`)

	maxNum := 0
	scan := func(dir string) {
		for _, doc := range taskfile.ReadDir(dir) {
			m := re.FindStringSubmatch(doc.Task.ID)
			if m == nil {
				continue
			}
			if n, err := strconv.Atoi(m[1]); err == nil && n > maxNum {
				maxNum = n
			}
		}
	}
	scan(boardDir)
	if logsDir != "" {
		scan(logsDir)
	}

	return fmt.Sprintf("%s-%d", typePrefix, maxNum+1)
}

// AddTaskFile creates a new task file in the board directory. The
// logs directory, when given, is included in the id scan so completed
// ids are never reused.
func AddTaskFile(boardDir string, input Input, body, logsDir string) Result {
	if strings.TrimSpace(input.Title) == "" {
		return fail("Task title is required")
	}
	if strings.TrimSpace(input.Column) == "" {
		return fail("Task column is required")
	}

	typePrefix := input.Type
	if typePrefix == "" {
		typePrefix = "task"
	}
	taskID := input.ID
	if taskID == "" {
		taskID = NextFileTaskID(boardDir, logsDir, typePrefix)
	}
	now := timestamp()

	var subtasks []board.Subtask
	for i, title := range input.Subtasks {
		subtasks = append(subtasks, board.Subtask{
			ID:    board.SubtaskID(taskID, i+1),
			Title: strings.TrimSpace(title),
		})
	}

	priority, _ := board.ParsePriority(input.Priority)
	template, _ := board.ParseTemplate(input.Template)

	task := board.Task{
		ID:           taskID,
		Title:        strings.TrimSpace(input.Title),
		Type:         input.Type,
		Column:       strings.TrimSpace(input.Column),
		Position:     input.Position,
		Description:  strings.TrimSpace(input.Description),
		Priority:     priority,
		Tags:         input.Tags,
		Assignee:     input.Assignee,
		DueDate:      input.DueDate,
		RelatedFiles: input.RelatedFiles,
		Template:     template,
		ParentID:     strings.TrimSpace(input.ParentID),
		Subtasks:     subtasks,
		CreatedAt:    now,
	}

	path := filepath.Join(boardDir, taskfile.FileName(taskID))
	if err := taskfile.Write(path, task, body); err != nil {
		return fail("Failed to write task file: %v", err)
	}
	return Result{Success: true, Task: &task, FilePath: path}
}

// MoveTaskFile moves a task to another column by rewriting its
// frontmatter in place. A nil position keeps the current one.
func MoveTaskFile(taskPath, newColumn string, newPosition *int) Result {
	doc := taskfile.Read(taskPath)
	if doc == nil {
		return fail("Failed to read task file: %s", taskPath)
	}

	task := doc.Task
	task.Column = newColumn
	task.UpdatedAt = timestamp()
	if newPosition != nil {
		task.Position = newPosition
	}

	if err := taskfile.Write(taskPath, task, doc.Body); err != nil {
		return fail("Failed to write task file: %v", err)
	}
	return Result{Success: true, Task: &task, FilePath: taskPath}
}

// PatchTaskFile applies a partial update to a task file in place,
// with the same field semantics as the in-memory patch operation.
func PatchTaskFile(taskPath string, patch board.TaskPatch) Result {
	doc := taskfile.Read(taskPath)
	if doc == nil {
		return fail("Failed to read task file: %s", taskPath)
	}

	task := doc.Task
	task.ApplyPatch(patch)
	task.UpdatedAt = timestamp()

	if err := taskfile.Write(taskPath, task, doc.Body); err != nil {
		return fail("Failed to write task file: %v", err)
	}
	return Result{Success: true, Task: &task, FilePath: taskPath}
}

// CompleteTaskFile completes a task by moving its file to the logs
// directory, dropping its board placement and stamping completedAt.
// Completing an epic also records its child tasks in the body.
func CompleteTaskFile(taskPath, logsDir string) Result {
	doc := taskfile.Read(taskPath)
	if doc == nil {
		return fail("Failed to read task file: %s", taskPath)
	}

	now := timestamp()
	task := doc.Task
	task.Column = ""
	task.Position = nil
	task.CompletedAt = now
	task.UpdatedAt = now

	destPath := filepath.Join(logsDir, filepath.Base(taskPath))
	body := doc.Body

	if doc.Task.Type == "epic" {
		boardDir := filepath.Dir(taskPath)
		children := resolveChildTasks(doc.Task.ID, childTaskIDs(doc.Task), boardDir, logsDir)
		body = appendBodySection(doc.Body, childTasksSection(children))
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fail("Failed to complete task: %v", err)
	}
	if err := taskfile.Write(destPath, task, body); err != nil {
		return fail("Failed to complete task: %v", err)
	}
	if err := os.Remove(taskPath); err != nil {
		return fail("Failed to complete task: %v", err)
	}
	return Result{Success: true, Task: &task, FilePath: destPath}
}

// RestoreTaskFile returns a completed task to the board by moving its
// file back out of the logs directory, clearing completedAt and
// placing it in the given column.
func RestoreTaskFile(logPath, boardDir, newColumn string) Result {
	if strings.TrimSpace(newColumn) == "" {
		return fail("Task column is required")
	}
	doc := taskfile.Read(logPath)
	if doc == nil {
		return fail("Failed to read task file: %s", logPath)
	}

	task := doc.Task
	task.Column = strings.TrimSpace(newColumn)
	task.Position = nil
	task.CompletedAt = ""
	task.UpdatedAt = timestamp()

	destPath := filepath.Join(boardDir, filepath.Base(logPath))
	if err := os.MkdirAll(boardDir, 0o755); err != nil {
		return fail("Failed to restore task: %v", err)
	}
	if err := taskfile.Write(destPath, task, doc.Body); err != nil {
		return fail("Failed to restore task: %v", err)
	}
	if err := os.Remove(logPath); err != nil {
		return fail("Failed to restore task: %v", err)
	}
	return Result{Success: true, Task: &task, FilePath: destPath}
}

// DeleteTaskFile removes a task file from disk.
func DeleteTaskFile(taskPath string) Result {
	doc := taskfile.Read(taskPath)
	if doc == nil {
		return fail("Failed to read task file: %s", taskPath)
	}
	if err := os.Remove(taskPath); err != nil {
		return fail("Failed to delete task file: %v", err)
	}
	return Result{Success: true, Task: &doc.Task}
}

var logHeadingRe = regexp.MustCompile(`(?m)^## Log[ \t]*$`)

// AppendLog adds a timestamped entry to the top of the task body's
// "## Log" section, creating the section when missing. A non-empty
// agent is recorded as the entry's attribution.
func AppendLog(taskPath, entry, agent string) Result {
	doc := taskfile.Read(taskPath)
	if doc == nil {
		return fail("Failed to read task file: %s", taskPath)
	}

	now := timestamp()
	attribution := ""
	if agent != "" {
		attribution = fmt.Sprintf(" [%s]", agent)
	}
	logLine := fmt.Sprintf("- %s%s: %s", now, attribution, entry)

	body := doc.Body
	if loc := logHeadingRe.FindStringIndex(body); loc != nil {
		body = body[:loc[1]] + "\n" + logLine + body[loc[1]:]
	} else {
		if body != "" && !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		if body != "" {
			body += "\n"
		}
		body += "## Log\n" + logLine + "\n"
	}

	task := doc.Task
	task.UpdatedAt = now

	if err := taskfile.Write(taskPath, task, body); err != nil {
		return fail("Failed to append log: %v", err)
	}
	return Result{Success: true, Task: &task, FilePath: taskPath}
}

// ChildTask is one task linked to an epic.
type ChildTask struct {
	ID    string
	Title string
}

// childTaskIDs lists the child ids an epic's subtask entries carry,
// deduplicated in order.
func childTaskIDs(task board.Task) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, st := range task.Subtasks {
		id := strings.TrimSpace(st.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// resolveChildTasks finds an epic's children across board and logs.
// Explicit parentId links win over subtask references.
func resolveChildTasks(epicID string, childIDs []string, boardDir, logsDir string) []ChildTask {
	docs := append(taskfile.ReadDir(boardDir), taskfile.ReadDir(logsDir)...)

	var linked []ChildTask
	for _, doc := range docs {
		if doc.Task.ParentID == epicID {
			linked = append(linked, ChildTask{ID: doc.Task.ID, Title: doc.Task.Title})
		}
	}
	if len(linked) > 0 {
		return linked
	}

	if len(childIDs) == 0 {
		return nil
	}

	titleByID := make(map[string]string)
	for _, doc := range docs {
		if _, ok := titleByID[doc.Task.ID]; !ok {
			titleByID[doc.Task.ID] = doc.Task.Title
		}
	}

	var children []ChildTask
	for _, id := range childIDs {
		if title, ok := titleByID[id]; ok && title != "" {
			children = append(children, ChildTask{ID: id, Title: title})
		}
	}
	return children
}

func childTasksSection(children []ChildTask) string {
	if len(children) == 0 {
		return "## Child Tasks\nNo child tasks recorded."
	}
	lines := make([]string, 0, len(children))
	for _, child := range children {
		lines = append(lines, fmt.Sprintf("- %s: %s", child.ID, child.Title))
	}
	return "## Child Tasks\n" + strings.Join(lines, "\n")
}

func appendBodySection(body, section string) string {
	trimmed := strings.TrimRightFunc(body, unicode.IsSpace)
	if trimmed == "" {
		return section + "\n"
	}
	return trimmed + "\n\n" + section + "\n"
}
