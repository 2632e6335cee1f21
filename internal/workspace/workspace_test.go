package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/taskfile"
)

func intPtr(v int) *int { return &v }

const configContent = "---\n" +
	"title: Team Board\n" +
	"columns:\n" +
	"  - id: todo\n" +
	"    title: To Do\n" +
	"  - id: done\n" +
	"    title: Done\n" +
	"---\n"

// newWorkspace lays out a split workspace in a temp dir and returns
// the config path and resolved dirs.
func newWorkspace(t *testing.T) (string, Dirs) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), Dir, ConfigFile)
	dirs, err := EnsureDirs(configPath)
	if err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return configPath, dirs
}

func writeTask(t *testing.T, dir string, task board.Task, body string) {
	t.Helper()
	if err := taskfile.Write(filepath.Join(dir, taskfile.FileName(task.ID)), task, body); err != nil {
		t.Fatalf("writing task %s: %v", task.ID, err)
	}
}

func TestDirsFor(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), Dir, ConfigFile)
	dirs := DirsFor(configPath)

	if !filepath.IsAbs(dirs.Config) {
		t.Errorf("Config = %q, want absolute", dirs.Config)
	}
	if dirs.Root != filepath.Dir(dirs.Config) {
		t.Errorf("Root = %q, want parent of config", dirs.Root)
	}
	if dirs.Board != filepath.Join(dirs.Root, "board") {
		t.Errorf("Board = %q", dirs.Board)
	}
	if dirs.Logs != filepath.Join(dirs.Root, "logs") {
		t.Errorf("Logs = %q", dirs.Logs)
	}
}

func TestIsSplit(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), Dir, ConfigFile)
	if IsSplit(configPath) {
		t.Error("IsSplit = true before the board directory exists")
	}
	if _, err := EnsureDirs(configPath); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	if !IsSplit(configPath) {
		t.Error("IsSplit = false after EnsureDirs")
	}
}

func TestEnsureDirsCreatesLayout(t *testing.T) {
	_, dirs := newWorkspace(t)
	for _, dir := range []string{dirs.Board, dirs.Logs} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("Stat(%s): %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestTaskAndLogPaths(t *testing.T) {
	_, dirs := newWorkspace(t)
	if got := dirs.TaskPath("task-1"); got != filepath.Join(dirs.Board, "task-1.md") {
		t.Errorf("TaskPath = %q", got)
	}
	if got := dirs.LogPath("task-1"); got != filepath.Join(dirs.Logs, "task-1.md") {
		t.Errorf("LogPath = %q", got)
	}
}

func TestFindTask(t *testing.T) {
	_, dirs := newWorkspace(t)
	writeTask(t, dirs.Board, board.Task{ID: "task-1", Title: "Active"}, "")
	writeTask(t, dirs.Logs, board.Task{ID: "task-2", Title: "Completed"}, "")

	t.Run("active task at conventional path", func(t *testing.T) {
		found := FindTask(dirs, "task-1", false)
		if found == nil {
			t.Fatal("FindTask returned nil")
		}
		if found.IsLog {
			t.Error("IsLog = true for active task")
		}
		if found.Path != dirs.TaskPath("task-1") {
			t.Errorf("Path = %q, want %q", found.Path, dirs.TaskPath("task-1"))
		}
		if found.Doc.Task.Title != "Active" {
			t.Errorf("Title = %q", found.Doc.Task.Title)
		}
	})

	t.Run("completed task only with searchLogs", func(t *testing.T) {
		if found := FindTask(dirs, "task-2", false); found != nil {
			t.Errorf("FindTask without searchLogs = %+v, want nil", found)
		}
		found := FindTask(dirs, "task-2", true)
		if found == nil {
			t.Fatal("FindTask with searchLogs returned nil")
		}
		if !found.IsLog {
			t.Error("IsLog = false for completed task")
		}
	})

	t.Run("missing task", func(t *testing.T) {
		if found := FindTask(dirs, "task-99", true); found != nil {
			t.Errorf("FindTask = %+v, want nil", found)
		}
	})
}

func TestFindTaskFilenameMismatch(t *testing.T) {
	_, dirs := newWorkspace(t)
	// The file is named task-9.md but its frontmatter says task-5.
	content, err := taskfile.SerializeContent(board.Task{ID: "task-5", Title: "Misfiled"}, "")
	if err != nil {
		t.Fatalf("SerializeContent: %v", err)
	}
	if err := os.WriteFile(dirs.TaskPath("task-9"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	found := FindTask(dirs, "task-5", false)
	if found == nil {
		t.Fatal("FindTask(task-5) returned nil, want directory scan hit")
	}
	if !strings.HasSuffix(found.Path, "task-9.md") {
		t.Errorf("Path = %q, want the misfiled task-9.md", found.Path)
	}

	if found := FindTask(dirs, "task-9", false); found != nil {
		t.Errorf("FindTask(task-9) = %+v, want nil for stale filename", found)
	}
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"present",
			"## Description\nDo the thing.\n",
			"Do the thing.",
		},
		{
			"stops before next heading",
			"## Description\nFirst part.\n\n## Log\n- entry\n",
			"First part.",
		},
		{
			"runs to end of body",
			"intro\n## Description\nLast section, no trailing newline",
			"Last section, no trailing newline",
		},
		{"absent", "## Log\n- entry\n", ""},
		{"empty section", "## Description\n\n## Log\n- entry\n", ""},
		{"empty body", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDescription(tt.body); got != tt.want {
				t.Errorf("ExtractDescription = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractLog(t *testing.T) {
	body := "## Description\nThing.\n\n## Log\n- first\n- second\n"
	want := "- first\n- second"
	if got := ExtractLog(body); got != want {
		t.Errorf("ExtractLog = %q, want %q", got, want)
	}
	if got := ExtractLog("## Description\nThing.\n"); got != "" {
		t.Errorf("ExtractLog = %q, want empty", got)
	}
}

func TestComposeBody(t *testing.T) {
	tests := []struct {
		name        string
		description string
		log         string
		want        string
	}{
		{
			"both sections",
			"Do the thing.",
			"- entry",
			"## Description\nDo the thing.\n\n## Log\n- entry\n",
		},
		{
			"description only",
			"Do the thing.",
			"",
			"## Description\nDo the thing.\n",
		},
		{
			"log only",
			"",
			"- entry",
			"## Log\n- entry\n",
		},
		{"neither", "", "", ""},
		{"whitespace only is dropped", "   \n", "\t", ""},
		{
			"sections are trimmed",
			"  padded  ",
			"",
			"## Description\npadded\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComposeBody(tt.description, tt.log); got != tt.want {
				t.Errorf("ComposeBody = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposeExtractRoundTrip(t *testing.T) {
	body := ComposeBody("A multi\nline description.", "- one\n- two")
	if got := ExtractDescription(body); got != "A multi\nline description." {
		t.Errorf("ExtractDescription = %q", got)
	}
	if got := ExtractLog(body); got != "- one\n- two" {
		t.Errorf("ExtractLog = %q", got)
	}
}

func TestReadConfig(t *testing.T) {
	configPath, _ := newWorkspace(t)
	b, err := ReadConfig(configPath)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if b.Title != "Team Board" {
		t.Errorf("Title = %q", b.Title)
	}
	if len(b.Columns) != 2 {
		t.Fatalf("len(Columns) = %d, want 2", len(b.Columns))
	}
	for _, col := range b.Columns {
		if col.Tasks == nil {
			t.Errorf("column %s has nil Tasks, want empty slice", col.ID)
		}
	}
}

func TestReadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadConfig(filepath.Join(t.TempDir(), "nope.md")); err == nil {
			t.Error("ReadConfig succeeded for missing file")
		}
	})

	t.Run("not a board", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "journal.md")
		content := "---\ntitle: Notes\nentries:\n  - date: 2026-01-01\n---\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := ReadConfig(path); err == nil {
			t.Error("ReadConfig succeeded for a journal document")
		}
	})
}

func TestReadBoardConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), Dir, ConfigFile)
	if _, err := EnsureDirs(configPath); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	content := "---\n" +
		"type: board\n" +
		"title: Strict Board\n" +
		"strict: true\n" +
		"types:\n" +
		"  epic:\n" +
		"    idPrefix: epic\n" +
		"columns:\n" +
		"  - id: todo\n" +
		"    title: To Do\n" +
		"---\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	c, err := ReadBoardConfig(configPath)
	if err != nil {
		t.Fatalf("ReadBoardConfig: %v", err)
	}
	if !c.Strict {
		t.Error("Strict = false, want true")
	}
	if err := c.ValidateColumn("todo"); err != nil {
		t.Errorf("ValidateColumn(todo) = %v, want nil", err)
	}
	if err := c.ValidateColumn("shipping"); err == nil {
		t.Error("ValidateColumn(shipping) = nil, want error")
	}
	if got := c.IDPrefixFor("epic"); got != "epic" {
		t.Errorf("IDPrefixFor(epic) = %q, want epic", got)
	}

	if _, err := ReadBoardConfig(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Error("ReadBoardConfig succeeded for missing file")
	}
}

func TestBuildBoard(t *testing.T) {
	configPath, dirs := newWorkspace(t)

	writeTask(t, dirs.Board, board.Task{ID: "task-2", Title: "Positioned first", Column: "todo", Position: intPtr(0)},
		"## Description\nFrom body.\n\n## Log\n- started\n")
	writeTask(t, dirs.Board, board.Task{ID: "task-6", Title: "No column field", Position: intPtr(1)}, "")
	writeTask(t, dirs.Board, board.Task{ID: "task-10", Title: "Unpositioned ten", Column: "todo"}, "")
	writeTask(t, dirs.Board, board.Task{ID: "task-9", Title: "Unpositioned nine", Column: "todo"}, "")
	writeTask(t, dirs.Board, board.Task{ID: "task-4", Title: "Finished", Column: "done", Description: "explicit"},
		"## Description\nignored\n")
	writeTask(t, dirs.Board, board.Task{ID: "task-5", Title: "Orphan", Column: "bogus"}, "")

	b, err := BuildBoard(configPath)
	if err != nil {
		t.Fatalf("BuildBoard: %v", err)
	}

	todo := b.FindColumn("todo")
	if todo == nil {
		t.Fatal("todo column missing")
	}
	var ids []string
	for i := range todo.Tasks {
		ids = append(ids, todo.Tasks[i].ID)
	}
	want := []string{"task-2", "task-6", "task-9", "task-10"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("todo order = %v, want %v", ids, want)
	}

	if todo.Tasks[0].Description != "From body." {
		t.Errorf("task-2 description = %q, want body section", todo.Tasks[0].Description)
	}

	done := b.FindColumn("done")
	if done == nil || len(done.Tasks) != 1 {
		t.Fatalf("done column = %+v, want one task", done)
	}
	if done.Tasks[0].Description != "explicit" {
		t.Errorf("task-4 description = %q, explicit field should win", done.Tasks[0].Description)
	}

	if b.TotalTaskCount() != 5 {
		t.Errorf("TotalTaskCount = %d, want 5 with the orphan dropped", b.TotalTaskCount())
	}
}

func TestBuildBoardEmptyBoardDir(t *testing.T) {
	configPath, _ := newWorkspace(t)
	b, err := BuildBoard(configPath)
	if err != nil {
		t.Fatalf("BuildBoard: %v", err)
	}
	for _, col := range b.Columns {
		if col.Tasks == nil {
			t.Errorf("column %s has nil Tasks", col.ID)
		}
		if len(col.Tasks) != 0 {
			t.Errorf("column %s has %d tasks, want 0", col.ID, len(col.Tasks))
		}
	}
}
