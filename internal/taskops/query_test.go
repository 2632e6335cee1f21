package taskops

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/taskfile"
)

func queryFixture(t *testing.T) string {
	t.Helper()
	boardDir := filepath.Join(t.TempDir(), "board")
	writeDoc(t, boardDir, board.Task{
		ID: "task-1", Title: "Ship release", Column: "todo", Position: intPtr(1),
		Tags: []string{"urgent"}, Priority: board.PriorityHigh, Assignee: "alice",
	}, "")
	writeDoc(t, boardDir, board.Task{
		ID: "task-2", Title: "Write docs", Column: "todo", Position: intPtr(0),
	}, "")
	writeDoc(t, boardDir, board.Task{
		ID: "task-3", Title: "Spike", Column: "doing", Assignee: "alice", ParentID: "epic-1",
	}, "")
	writeDoc(t, boardDir, board.Task{
		ID: "task-4", Title: "Cleanup", Column: "doing", Position: intPtr(5),
		Description: "Fix the parser",
	}, "## Log\n- searched everywhere\n")
	return boardDir
}

func docIDs(docs []*taskfile.Document) []string {
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.Task.ID)
	}
	return ids
}

func TestListTasksOrder(t *testing.T) {
	boardDir := queryFixture(t)
	got := docIDs(ListTasks(boardDir, Filters{}))
	// Columns sort lexically, positioned tasks before unpositioned.
	want := []string{"task-4", "task-3", "task-2", "task-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListTasks order = %v, want %v", got, want)
	}
}

func TestListTasksFilters(t *testing.T) {
	boardDir := queryFixture(t)
	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"column", Filters{Column: "todo"}, []string{"task-2", "task-1"}},
		{"tag", Filters{Tag: "urgent"}, []string{"task-1"}},
		{"priority", Filters{Priority: "high"}, []string{"task-1"}},
		{"assignee", Filters{Assignee: "alice"}, []string{"task-3", "task-1"}},
		{"parent id", Filters{ParentID: "epic-1"}, []string{"task-3"}},
		{"combined", Filters{Column: "todo", Assignee: "alice"}, []string{"task-1"}},
		{"no match", Filters{Assignee: "nobody"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := docIDs(ListTasks(boardDir, tt.filters))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListTasks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindTaskFile(t *testing.T) {
	boardDir := queryFixture(t)

	doc := FindTask(boardDir, "task-3")
	if doc == nil || doc.Task.Title != "Spike" {
		t.Errorf("FindTask = %+v", doc)
	}
	if doc := FindTask(boardDir, "task-99"); doc != nil {
		t.Errorf("FindTask(task-99) = %+v, want nil", doc)
	}
}

func TestFindTaskFileScansOnMismatch(t *testing.T) {
	boardDir := filepath.Join(t.TempDir(), "board")
	// Frontmatter id differs from the filename.
	if err := taskfile.Write(filepath.Join(boardDir, "task-9.md"), board.Task{ID: "task-7", Title: "Misfiled"}, ""); err != nil {
		t.Fatalf("Write: %v", err)
	}

	doc := FindTask(boardDir, "task-7")
	if doc == nil || doc.Task.Title != "Misfiled" {
		t.Errorf("FindTask = %+v, want scan hit", doc)
	}
	if doc := FindTask(boardDir, "task-9"); doc != nil {
		t.Errorf("FindTask(task-9) = %+v, want nil", doc)
	}
}

func TestSearchTaskFiles(t *testing.T) {
	boardDir := queryFixture(t)
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title", "release", []string{"task-1"}},
		{"title case-insensitive", "SHIP", []string{"task-1"}},
		{"description", "parser", []string{"task-4"}},
		{"body", "searched", []string{"task-4"}},
		{"tag", "urg", []string{"task-1"}},
		{"no match", "zebra", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := docIDs(SearchTaskFiles(boardDir, tt.query))
			want := tt.want
			if want == nil {
				want = []string{}
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("SearchTaskFiles(%q) = %v, want %v", tt.query, got, want)
			}
		})
	}
}

func TestSearchLogs(t *testing.T) {
	logsDir := filepath.Join(t.TempDir(), "logs")
	writeDoc(t, logsDir, board.Task{ID: "task-1", Title: "Shipped thing", CompletedAt: "2026-01-01T00:00:00Z"}, "")

	if got := docIDs(SearchLogs(logsDir, "shipped")); !reflect.DeepEqual(got, []string{"task-1"}) {
		t.Errorf("SearchLogs = %v, want [task-1]", got)
	}
	if got := SearchLogs(logsDir, "missing"); len(got) != 0 {
		t.Errorf("SearchLogs = %v, want empty", got)
	}
}
