package taskops

import (
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nibzard/brainfile-go/internal/taskfile"
)

// Filters narrows a task listing. Zero-value fields do not filter.
type Filters struct {
	Column   string
	Tag      string
	Priority string
	Assignee string
	ParentID string
}

func (f Filters) match(doc *taskfile.Document) bool {
	task := doc.Task
	if f.Column != "" && task.Column != f.Column {
		return false
	}
	if f.Tag != "" && !containsString(task.Tags, f.Tag) {
		return false
	}
	if f.Priority != "" && string(task.Priority) != f.Priority {
		return false
	}
	if f.Assignee != "" && task.Assignee != f.Assignee {
		return false
	}
	if f.ParentID != "" && task.ParentID != f.ParentID {
		return false
	}
	return true
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// ListTasks reads a task directory and returns its documents filtered
// and ordered by column, then position, with unpositioned tasks last.
func ListTasks(boardDir string, filters Filters) []*taskfile.Document {
	docs := taskfile.ReadDir(boardDir)

	filtered := docs[:0]
	for _, doc := range docs {
		if filters.match(doc) {
			filtered = append(filtered, doc)
		}
	}
	docs = filtered

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Task.Column != docs[j].Task.Column {
			return docs[i].Task.Column < docs[j].Task.Column
		}
		return listPosition(docs[i]) < listPosition(docs[j])
	})
	return docs
}

func listPosition(doc *taskfile.Document) int {
	if doc.Task.Position != nil {
		return *doc.Task.Position
	}
	return math.MaxInt
}

// FindTask locates a task by id in one directory, trying the
// conventional filename before scanning. Returns nil when not found.
func FindTask(boardDir, taskID string) *taskfile.Document {
	direct := taskfile.Read(filepath.Join(boardDir, taskfile.FileName(taskID)))
	if direct != nil && direct.Task.ID == taskID {
		return direct
	}

	for _, doc := range taskfile.ReadDir(boardDir) {
		if doc.Task.ID == taskID {
			return doc
		}
	}
	return nil
}

// SearchTaskFiles returns the tasks whose title, description, body,
// or tags contain the query, case-insensitively.
func SearchTaskFiles(boardDir, query string) []*taskfile.Document {
	needle := strings.ToLower(query)

	var results []*taskfile.Document
	for _, doc := range taskfile.ReadDir(boardDir) {
		if matchesQuery(doc, needle) {
			results = append(results, doc)
		}
	}
	return results
}

func matchesQuery(doc *taskfile.Document, needle string) bool {
	if strings.Contains(strings.ToLower(doc.Task.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Task.Description), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.Body), needle) {
		return true
	}
	for _, tag := range doc.Task.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// SearchLogs searches completed task files the same way.
func SearchLogs(logsDir, query string) []*taskfile.Document {
	return SearchTaskFiles(logsDir, query)
}
