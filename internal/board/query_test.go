package board

import (
	"reflect"
	"testing"
	"time"
)

func TestFindColumn(t *testing.T) {
	b := testBoard()

	col := b.FindColumn("in-progress")
	if col == nil {
		t.Fatal("FindColumn returned nil for existing column")
	}
	if col.Title != "In Progress" {
		t.Errorf("Title = %q, want In Progress", col.Title)
	}

	if b.FindColumn("missing") != nil {
		t.Error("FindColumn should return nil for unknown column")
	}
}

func TestFindColumnByTitle(t *testing.T) {
	b := testBoard()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"exact match", "To Do", "todo"},
		{"case insensitive", "to do", "todo"},
		{"upper case", "DONE", "done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := b.FindColumnByTitle(tt.title)
			if col == nil {
				t.Fatalf("FindColumnByTitle(%q) = nil", tt.title)
			}
			if col.ID != tt.want {
				t.Errorf("column = %s, want %s", col.ID, tt.want)
			}
		})
	}

	if b.FindColumnByTitle("Backlog") != nil {
		t.Error("FindColumnByTitle should return nil for unknown title")
	}
}

func TestFindTask(t *testing.T) {
	b := testBoard()

	info := b.FindTask("task-2")
	if info == nil {
		t.Fatal("FindTask returned nil for existing task")
	}
	if info.Column.ID != "todo" {
		t.Errorf("Column = %s, want todo", info.Column.ID)
	}
	if info.Index != 1 {
		t.Errorf("Index = %d, want 1", info.Index)
	}
	if info.Task.Title != "Fix bug" {
		t.Errorf("Title = %q, want Fix bug", info.Task.Title)
	}

	if b.FindTask("task-99") != nil {
		t.Error("FindTask should return nil for unknown task")
	}
}

func TestTaskAndColumnExists(t *testing.T) {
	b := testBoard()

	if !b.TaskExists("task-3") {
		t.Error("TaskExists(task-3) = false, want true")
	}
	if b.TaskExists("task-9") {
		t.Error("TaskExists(task-9) = true, want false")
	}
	if !b.ColumnExists("done") {
		t.Error("ColumnExists(done) = false, want true")
	}
	if b.ColumnExists("backlog") {
		t.Error("ColumnExists(backlog) = true, want false")
	}
}

func TestAllTasksBoardOrder(t *testing.T) {
	b := testBoard()

	var ids []string
	for _, task := range b.AllTasks() {
		ids = append(ids, task.ID)
	}
	if !reflect.DeepEqual(ids, []string{"task-1", "task-2", "task-3"}) {
		t.Errorf("AllTasks order = %v, want [task-1 task-2 task-3]", ids)
	}
}

func TestTaskFilters(t *testing.T) {
	b := testBoard()

	if got := b.TasksByTag("urgent"); len(got) != 1 || got[0].ID != "task-1" {
		t.Errorf("TasksByTag(urgent) = %v, want [task-1]", taskIDs(got))
	}
	if got := b.TasksByTag("nope"); len(got) != 0 {
		t.Errorf("TasksByTag(nope) = %v, want empty", taskIDs(got))
	}
	if got := b.TasksByPriority(PriorityMedium); len(got) != 1 || got[0].ID != "task-2" {
		t.Errorf("TasksByPriority(medium) = %v, want [task-2]", taskIDs(got))
	}
	if got := b.TasksByAssignee("alice"); len(got) != 1 || got[0].ID != "task-3" {
		t.Errorf("TasksByAssignee(alice) = %v, want [task-3]", taskIDs(got))
	}
}

func taskIDs(tasks []*Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func TestSearchTasks(t *testing.T) {
	b := testBoard()
	b.Columns[0].Tasks[1].Description = "The parser crashes on empty input"

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title match", "bug", []string{"task-2"}},
		{"case insensitive", "WRITE", []string{"task-1"}},
		{"description match", "parser crashes", []string{"task-2"}},
		{"no match", "deploy", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := taskIDs(b.SearchTasks(tt.query))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SearchTasks(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestTaskCounts(t *testing.T) {
	b := testBoard()

	if got := b.ColumnTaskCount("todo"); got != 2 {
		t.Errorf("ColumnTaskCount(todo) = %d, want 2", got)
	}
	if got := b.ColumnTaskCount("missing"); got != 0 {
		t.Errorf("ColumnTaskCount(missing) = %d, want 0", got)
	}
	if got := b.TotalTaskCount(); got != 3 {
		t.Errorf("TotalTaskCount = %d, want 3", got)
	}
}

func TestTasksWithIncompleteSubtasks(t *testing.T) {
	b := testBoard()
	b.Columns[0].Tasks[0].Subtasks = []Subtask{
		{ID: "task-1-1", Title: "a", Completed: true},
		{ID: "task-1-2", Title: "b", Completed: false},
	}
	b.Columns[0].Tasks[1].Subtasks = []Subtask{
		{ID: "task-2-1", Title: "c", Completed: true},
	}

	got := taskIDs(b.TasksWithIncompleteSubtasks())
	if !reflect.DeepEqual(got, []string{"task-1"}) {
		t.Errorf("TasksWithIncompleteSubtasks = %v, want [task-1]", got)
	}
}

func TestOverdueTasks(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	b := testBoard()
	b.Columns[0].Tasks[0].DueDate = "2026-06-14"
	b.Columns[0].Tasks[1].DueDate = "2026-06-15"
	b.Columns[1].Tasks[0].DueDate = "2026-06-10T09:30:00"

	got := taskIDs(b.OverdueTasks(now))
	if !reflect.DeepEqual(got, []string{"task-1", "task-3"}) {
		t.Errorf("OverdueTasks = %v, want [task-1 task-3]", got)
	}
}

func TestOverdueTasksSkipsUnparseableDates(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	b := testBoard()
	b.Columns[0].Tasks[0].DueDate = "next week"

	if got := b.OverdueTasks(now); len(got) != 0 {
		t.Errorf("OverdueTasks = %v, want empty for unparseable date", taskIDs(got))
	}
}
