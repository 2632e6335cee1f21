package ledger

import (
	"path/filepath"
	"reflect"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
)

// queryFixture seeds a ledger with three completions spanning a month.
func queryFixture(t *testing.T) (string, *Reader) {
	t.Helper()
	logsDir := filepath.Join(t.TempDir(), "logs")

	r1 := testRecord("task-1", "2026-01-10T00:00:00Z")
	r1.Assignee = "alice"
	r1.Tags = []string{"api"}
	r1.FilesChanged = []string{"src/api.go"}
	r1.ContractStatus = "done"

	r2 := testRecord("task-2", "2026-01-20T00:00:00Z")
	r2.Assignee = "bob"
	r2.Tags = []string{"ui", "API"}
	r2.FilesChanged = []string{"web/app.ts"}
	r2.RelatedFiles = []string{"src/api.go"}

	r3 := testRecord("task-3", "2026-02-05T00:00:00Z")
	r3.Assignee = "alice"
	r3.FilesChanged = []string{"docs/readme.md"}
	r3.Deliverables = []string{"src/parser.go"}
	r3.ContractStatus = "failed"

	for _, record := range []Record{r1, r2, r3} {
		if _, err := Append(logsDir, record); err != nil {
			t.Fatalf("Append %s: %v", record.ID, err)
		}
	}

	logger, _ := logtest.NewNullLogger()
	return logsDir, NewReader(logger)
}

func recordIDs(records []Record) []string {
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	return ids
}

func TestQuery(t *testing.T) {
	logsDir, reader := queryFixture(t)
	tests := []struct {
		name    string
		filters QueryFilters
		want    []string
	}{
		{"no filters", QueryFilters{}, []string{"task-1", "task-2", "task-3"}},
		{"assignee", QueryFilters{Assignee: "alice"}, []string{"task-1", "task-3"}},
		{"tag case-insensitive", QueryFilters{Tags: []string{"API"}}, []string{"task-1", "task-2"}},
		{"date range from", QueryFilters{DateRange: &DateRange{From: "2026-01-15T00:00:00Z"}}, []string{"task-2", "task-3"}},
		{"date range to inclusive", QueryFilters{DateRange: &DateRange{To: "2026-01-20T00:00:00Z"}}, []string{"task-1", "task-2"}},
		{"date range both", QueryFilters{DateRange: &DateRange{From: "2026-01-15T00:00:00Z", To: "2026-01-31T00:00:00Z"}}, []string{"task-2"}},
		{"contract status", QueryFilters{ContractStatus: []string{"done", "failed"}}, []string{"task-1", "task-3"}},
		{"status excludes records without one", QueryFilters{ContractStatus: []string{"ready"}}, []string{}},
		{"files matches changed and related", QueryFilters{Files: []string{"api.go"}}, []string{"task-1", "task-2"}},
		{"files matches deliverables", QueryFilters{Files: []string{"parser.go"}}, []string{"task-3"}},
		{"combined", QueryFilters{Assignee: "alice", Files: []string{"api.go"}}, []string{"task-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recordIDs(reader.Query(logsDir, tt.filters))
			want := tt.want
			if len(want) == 0 {
				want = []string{}
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Query = %v, want %v", got, want)
			}
		})
	}
}

func TestFileHistory(t *testing.T) {
	logsDir, reader := queryFixture(t)

	later := testRecord("task-4", "2026-03-01T00:00:00Z")
	later.FilesChanged = []string{"src/api.go"}
	if _, err := Append(logsDir, later); err != nil {
		t.Fatalf("Append: %v", err)
	}

	t.Run("newest first", func(t *testing.T) {
		got := recordIDs(reader.FileHistory(logsDir, "src/api.go", HistoryOptions{}))
		want := []string{"task-4", "task-1"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FileHistory = %v, want %v", got, want)
		}
	})

	t.Run("bare filename matches nested path", func(t *testing.T) {
		got := recordIDs(reader.FileHistory(logsDir, "api.go", HistoryOptions{}))
		want := []string{"task-4", "task-1"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("FileHistory = %v, want %v", got, want)
		}
	})

	t.Run("related files do not count", func(t *testing.T) {
		// task-2 only relates to src/api.go, it did not change it.
		for _, id := range recordIDs(reader.FileHistory(logsDir, "src/api.go", HistoryOptions{})) {
			if id == "task-2" {
				t.Error("task-2 should not appear in file history")
			}
		}
	})

	t.Run("limit", func(t *testing.T) {
		got := recordIDs(reader.FileHistory(logsDir, "src/api.go", HistoryOptions{Limit: 1}))
		if !reflect.DeepEqual(got, []string{"task-4"}) {
			t.Errorf("FileHistory = %v, want [task-4]", got)
		}
	})

	t.Run("date range", func(t *testing.T) {
		opts := HistoryOptions{DateRange: &DateRange{To: "2026-01-31T00:00:00Z"}}
		got := recordIDs(reader.FileHistory(logsDir, "src/api.go", opts))
		if !reflect.DeepEqual(got, []string{"task-1"}) {
			t.Errorf("FileHistory = %v, want [task-1]", got)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if got := reader.FileHistory(logsDir, "   ", HistoryOptions{}); got != nil {
			t.Errorf("FileHistory = %v, want nil", got)
		}
	})
}

func TestTaskContext(t *testing.T) {
	logsDir, reader := queryFixture(t)

	t.Run("matches scope across record files", func(t *testing.T) {
		entries := reader.TaskContext(logsDir, []string{"src/api.go"}, nil, ContextOptions{})
		if len(entries) != 2 {
			t.Fatalf("len(entries) = %d, want 2", len(entries))
		}
		// Newest first: task-2 related to the file after task-1 changed it.
		if entries[0].Record.ID != "task-2" || entries[1].Record.ID != "task-1" {
			t.Errorf("order = %s, %s", entries[0].Record.ID, entries[1].Record.ID)
		}
		if !reflect.DeepEqual(entries[0].MatchedFiles, []string{"src/api.go"}) {
			t.Errorf("MatchedFiles = %v", entries[0].MatchedFiles)
		}
	})

	t.Run("deliverable paths extend scope", func(t *testing.T) {
		entries := reader.TaskContext(logsDir, nil, []string{"src/parser.go"}, ContextOptions{})
		if len(entries) != 1 || entries[0].Record.ID != "task-3" {
			t.Errorf("entries = %+v, want task-3", entries)
		}
	})

	t.Run("limit", func(t *testing.T) {
		entries := reader.TaskContext(logsDir, []string{"src/api.go"}, nil, ContextOptions{Limit: 1})
		if len(entries) != 1 || entries[0].Record.ID != "task-2" {
			t.Errorf("entries = %+v, want only task-2", entries)
		}
	})

	t.Run("empty scope", func(t *testing.T) {
		if entries := reader.TaskContext(logsDir, nil, []string{"  "}, ContextOptions{}); entries != nil {
			t.Errorf("entries = %+v, want nil", entries)
		}
	})
}
