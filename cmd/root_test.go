// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/codec"
	"github.com/nibzard/brainfile-go/internal/config"
	"github.com/nibzard/brainfile-go/internal/ledger"
	"github.com/nibzard/brainfile-go/internal/workspace"
)

// testConfig returns a config rooted in a fresh temp directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()
	return &config.Config{
		BoardFile:     filepath.Join(tmpDir, "brainfile.md"),
		DefaultColumn: "todo",
		ProjectRoot:   tmpDir,
		LogLevel:      "error",
		LogFormat:     "text",
	}
}

// sampleBoard builds a three-column board with two tasks in todo.
func sampleBoard() *board.Board {
	completion := true
	return &board.Board{
		Title: "Test Board",
		Type:  board.TypeBoard,
		Columns: []board.Column{
			{ID: "todo", Title: "To Do", Tasks: []board.Task{
				{ID: "task-1", Title: "First task"},
				{ID: "task-2", Title: "Second task", Tags: []string{"backend"}},
			}},
			{ID: "doing", Title: "In Progress", Tasks: []board.Task{}},
			{ID: "done", Title: "Done", CompletionColumn: &completion, Tasks: []board.Task{}},
		},
	}
}

func serializeBoard(t *testing.T, b *board.Board) string {
	t.Helper()
	content, err := codec.Serialize(b)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	return content
}

func seedBoard(t *testing.T, cfg *config.Config, b *board.Board) {
	t.Helper()
	if err := os.WriteFile(cfg.BoardFile, []byte(serializeBoard(t, b)), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", cfg.BoardFile, err)
	}
}

func readBoard(t *testing.T, path string) *board.Board {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	b, err := codec.Parse(string(content))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return b
}

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	t.Run("shows help with --help flag", func(t *testing.T) {
		ctx := context.Background()
		err := Run(ctx, []string{"--help"})
		if err != nil {
			t.Errorf("expected no error with --help, got %v", err)
		}
	})

	t.Run("shows help with -h flag", func(t *testing.T) {
		ctx := context.Background()
		err := Run(ctx, []string{"-h"})
		if err != nil {
			t.Errorf("expected no error with -h, got %v", err)
		}
	})

	t.Run("shows version with --version flag", func(t *testing.T) {
		ctx := context.Background()
		err := Run(ctx, []string{"--version"})
		if err != nil {
			t.Errorf("expected no error with --version, got %v", err)
		}
	})

	t.Run("shows version with -v flag", func(t *testing.T) {
		ctx := context.Background()
		err := Run(ctx, []string{"-v"})
		if err != nil {
			t.Errorf("expected no error with -v, got %v", err)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		ctx := context.Background()
		err := Run(ctx, []string{"help"})
		if err != nil {
			t.Errorf("expected no error with help command, got %v", err)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		ctx := context.Background()
		err := Run(ctx, []string{"unknown-command"})
		if err == nil {
			t.Error("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("ls without board file shows reasonable error", func(t *testing.T) {
		ctx := context.Background()
		tmpDir := t.TempDir()
		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(tmpDir)

		err := Run(ctx, []string{"ls"})
		if err == nil {
			t.Error("expected error for ls without board file")
		}
	})

	t.Run("defaults to ls when a board exists", func(t *testing.T) {
		ctx := context.Background()
		tmpDir := t.TempDir()
		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(tmpDir)

		if err := Run(ctx, []string{"init", "-skip-config"}); err != nil {
			t.Fatalf("Run(init) error = %v", err)
		}
		if err := Run(ctx, []string{}); err != nil {
			t.Errorf("Run() error = %v", err)
		}
	})

	t.Run("board path argument lists that board", func(t *testing.T) {
		ctx := context.Background()
		tmpDir := t.TempDir()
		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(tmpDir)

		content, err := codec.Serialize(sampleBoard())
		if err != nil {
			t.Fatalf("Serialize() error = %v", err)
		}
		if err := os.WriteFile("other.md", []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(other.md) error = %v", err)
		}

		if err := Run(ctx, []string{"other.md"}); err != nil {
			t.Errorf("Run(other.md) error = %v", err)
		}
	})
}

func TestInitCommandCreatesFiles(t *testing.T) {
	cfg := testConfig(t)

	if err := initCommand(cfg, []string{}); err != nil {
		t.Fatalf("initCommand() error = %v", err)
	}

	configPath := filepath.Join(cfg.ProjectRoot, "brainfile.toml")
	for _, path := range []string{cfg.BoardFile, configPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", path, err)
		}
	}

	b := readBoard(t, cfg.BoardFile)
	if b.Title != "Project Tasks" {
		t.Errorf("Title = %q, want %q", b.Title, "Project Tasks")
	}
	if len(b.Columns) != 3 {
		t.Fatalf("Columns = %d, want 3", len(b.Columns))
	}
	if info := b.FindTask("task-1"); info == nil || info.Column.ID != "todo" {
		t.Errorf("expected example task task-1 in todo, got %v", info)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("ReadFile(configPath) error = %v", err)
	}
	if string(configData) != config.ExampleConfig() {
		t.Error("config file does not match example config")
	}
}

func TestInitCommandExistingBoard(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.BoardFile, []byte("existing"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	err := initCommand(cfg, []string{"-skip-config"})
	if err == nil {
		t.Fatal("expected error for existing board without -force")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error = %v, want 'already exists'", err)
	}

	data, err := os.ReadFile(cfg.BoardFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "existing" {
		t.Error("board file was overwritten without -force")
	}

	if err := initCommand(cfg, []string{"-force", "-skip-config"}); err != nil {
		t.Fatalf("initCommand(-force) error = %v", err)
	}
	b := readBoard(t, cfg.BoardFile)
	if b.Title != "Project Tasks" {
		t.Errorf("Title after -force = %q, want %q", b.Title, "Project Tasks")
	}
}

func TestInitCommandSplit(t *testing.T) {
	cfg := testConfig(t)

	if err := initCommand(cfg, []string{"-split", "-skip-config"}); err != nil {
		t.Fatalf("initCommand(-split) error = %v", err)
	}

	configPath := filepath.Join(cfg.ProjectRoot, workspace.Dir, workspace.ConfigFile)
	if !workspace.IsSplit(configPath) {
		t.Fatal("expected a split workspace")
	}
	dirs := workspace.DirsFor(configPath)
	if _, err := os.Stat(filepath.Join(dirs.Board, "task-1.md")); err != nil {
		t.Fatalf("expected example task file: %v", err)
	}

	b, err := workspace.BuildBoard(configPath)
	if err != nil {
		t.Fatalf("BuildBoard() error = %v", err)
	}
	info := b.FindTask("task-1")
	if info == nil || info.Column.ID != "todo" {
		t.Fatalf("expected task-1 in todo, got %v", info)
	}
	if info.Task.Title != "Explore your new board" {
		t.Errorf("example task title = %q", info.Task.Title)
	}
}

func TestAddCommand(t *testing.T) {
	cfg := testConfig(t)
	seedBoard(t, cfg, sampleBoard())

	err := addCommand(cfg, []string{"-column", "doing", "-priority", "high", "-tags", "api,urgent", "New", "task", "title"})
	if err != nil {
		t.Fatalf("addCommand() error = %v", err)
	}

	b := readBoard(t, cfg.BoardFile)
	col := b.FindColumn("doing")
	if col == nil || len(col.Tasks) != 1 {
		t.Fatalf("expected one task in doing, got %v", col)
	}
	got := col.Tasks[0]
	if got.ID != "task-3" {
		t.Errorf("new task ID = %s, want task-3", got.ID)
	}
	if got.Title != "New task title" {
		t.Errorf("Title = %q, want %q", got.Title, "New task title")
	}
	if got.Priority != board.PriorityHigh {
		t.Errorf("Priority = %s, want high", got.Priority)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "api" || got.Tags[1] != "urgent" {
		t.Errorf("Tags = %v, want [api urgent]", got.Tags)
	}

	t.Run("missing title errors", func(t *testing.T) {
		if err := addCommand(cfg, []string{"-column", "todo"}); err == nil {
			t.Error("expected error for missing title")
		}
	})

	t.Run("unknown column errors", func(t *testing.T) {
		if err := addCommand(cfg, []string{"-column", "nope", "Title"}); err == nil {
			t.Error("expected error for unknown column")
		}
	})
}

func TestMoveCommand(t *testing.T) {
	cfg := testConfig(t)
	seedBoard(t, cfg, sampleBoard())

	if err := moveCommand(cfg, []string{"task-1", "doing"}); err != nil {
		t.Fatalf("moveCommand() error = %v", err)
	}

	b := readBoard(t, cfg.BoardFile)
	info := b.FindTask("task-1")
	if info == nil || info.Column.ID != "doing" {
		t.Fatalf("expected task-1 in doing, got %v", info)
	}

	t.Run("missing task errors", func(t *testing.T) {
		if err := moveCommand(cfg, []string{"task-99", "doing"}); err == nil {
			t.Error("expected error for missing task")
		}
	})

	t.Run("wrong argument count errors", func(t *testing.T) {
		if err := moveCommand(cfg, []string{"task-1"}); err == nil {
			t.Error("expected usage error")
		}
	})
}

func TestPatchCommand(t *testing.T) {
	cfg := testConfig(t)
	seedBoard(t, cfg, sampleBoard())

	err := patchCommand(cfg, []string{"-description", "Updated description", "-priority", "low", "task-1"})
	if err != nil {
		t.Fatalf("patchCommand() error = %v", err)
	}

	b := readBoard(t, cfg.BoardFile)
	got := b.FindTask("task-1").Task
	if got.Description != "Updated description" {
		t.Errorf("Description = %q, want %q", got.Description, "Updated description")
	}
	if got.Priority != board.PriorityLow {
		t.Errorf("Priority = %s, want low", got.Priority)
	}
	if got.Title != "First task" {
		t.Errorf("Title changed unexpectedly to %q", got.Title)
	}

	t.Run("clear flag removes a field", func(t *testing.T) {
		if err := patchCommand(cfg, []string{"-clear-description", "task-1"}); err != nil {
			t.Fatalf("patchCommand(-clear-description) error = %v", err)
		}
		b := readBoard(t, cfg.BoardFile)
		if got := b.FindTask("task-1").Task; got.Description != "" {
			t.Errorf("Description = %q, want empty", got.Description)
		}
	})

	t.Run("no fields errors", func(t *testing.T) {
		if err := patchCommand(cfg, []string{"task-1"}); err == nil {
			t.Error("expected error when no fields are given")
		}
	})
}

func TestDoneAndRestoreCommand(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	seedBoard(t, cfg, sampleBoard())

	if err := doneCommand(ctx, cfg, []string{"task-1"}); err != nil {
		t.Fatalf("doneCommand() error = %v", err)
	}

	b := readBoard(t, cfg.BoardFile)
	if b.FindTask("task-1") != nil {
		t.Error("task-1 still on the board after done")
	}
	if len(b.Archive) != 1 || b.Archive[0].ID != "task-1" {
		t.Fatalf("Archive = %v, want [task-1]", b.Archive)
	}

	if err := restoreCommand(cfg, []string{"-column", "doing", "task-1"}); err != nil {
		t.Fatalf("restoreCommand() error = %v", err)
	}

	b = readBoard(t, cfg.BoardFile)
	info := b.FindTask("task-1")
	if info == nil || info.Column.ID != "doing" {
		t.Fatalf("expected task-1 restored to doing, got %v", info)
	}
	if len(b.Archive) != 0 {
		t.Errorf("Archive = %v, want empty", b.Archive)
	}

	t.Run("restore from empty archive errors", func(t *testing.T) {
		if err := restoreCommand(cfg, []string{"task-1"}); err == nil {
			t.Error("expected error restoring a task that is not archived")
		}
	})
}

func TestSubtaskCommand(t *testing.T) {
	cfg := testConfig(t)
	seedBoard(t, cfg, sampleBoard())

	if err := subtaskCommand(cfg, []string{"add", "task-1", "Write", "tests"}); err != nil {
		t.Fatalf("subtaskCommand(add) error = %v", err)
	}

	b := readBoard(t, cfg.BoardFile)
	got := b.FindTask("task-1").Task
	if len(got.Subtasks) != 1 {
		t.Fatalf("Subtasks = %v, want 1", got.Subtasks)
	}
	if got.Subtasks[0].ID != "task-1-1" || got.Subtasks[0].Title != "Write tests" {
		t.Errorf("Subtask = %+v, want task-1-1 %q", got.Subtasks[0], "Write tests")
	}

	t.Run("toggle flips completion", func(t *testing.T) {
		if err := subtaskCommand(cfg, []string{"toggle", "task-1", "task-1-1"}); err != nil {
			t.Fatalf("subtaskCommand(toggle) error = %v", err)
		}
		b := readBoard(t, cfg.BoardFile)
		if st := b.FindTask("task-1").Task.Subtasks[0]; !st.Completed {
			t.Error("subtask not completed after toggle")
		}
	})

	t.Run("done completes all", func(t *testing.T) {
		if err := subtaskCommand(cfg, []string{"add", "task-1", "Second item"}); err != nil {
			t.Fatalf("subtaskCommand(add) error = %v", err)
		}
		if err := subtaskCommand(cfg, []string{"done", "task-1"}); err != nil {
			t.Fatalf("subtaskCommand(done) error = %v", err)
		}
		b := readBoard(t, cfg.BoardFile)
		for _, st := range b.FindTask("task-1").Task.Subtasks {
			if !st.Completed {
				t.Errorf("subtask %s not completed", st.ID)
			}
		}
	})

	t.Run("unknown operation errors", func(t *testing.T) {
		if err := subtaskCommand(cfg, []string{"frobnicate", "task-1"}); err == nil {
			t.Error("expected error for unknown operation")
		}
	})
}

// TestSplitWorkspaceFlow drives a task through its whole life in a
// split workspace: add, move, done with a ledger record, restore.
func TestSplitWorkspaceFlow(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	if err := initCommand(cfg, []string{"-split", "-skip-config"}); err != nil {
		t.Fatalf("initCommand(-split) error = %v", err)
	}
	cfg.BoardFile = filepath.Join(cfg.ProjectRoot, workspace.Dir, workspace.ConfigFile)
	dirs := workspace.DirsFor(cfg.BoardFile)

	if err := addCommand(cfg, []string{"-column", "todo", "Split", "task"}); err != nil {
		t.Fatalf("addCommand() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dirs.Board, "task-2.md")); err != nil {
		t.Fatalf("expected task-2 file: %v", err)
	}

	if err := moveCommand(cfg, []string{"task-2", "doing"}); err != nil {
		t.Fatalf("moveCommand() error = %v", err)
	}
	b, err := workspace.BuildBoard(cfg.BoardFile)
	if err != nil {
		t.Fatalf("BuildBoard() error = %v", err)
	}
	if info := b.FindTask("task-2"); info == nil || info.Column.ID != "doing" {
		t.Fatalf("expected task-2 in doing, got %v", info)
	}

	if err := doneCommand(ctx, cfg, []string{"-summary", "Shipped it", "task-2"}); err != nil {
		t.Fatalf("doneCommand() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dirs.Board, "task-2.md")); !os.IsNotExist(err) {
		t.Errorf("task-2 still in board dir after done: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dirs.Logs, "task-2.md")); err != nil {
		t.Fatalf("expected completed task file in logs: %v", err)
	}

	records := ledger.NewReader(newLogger(cfg)).Read(dirs.Logs)
	if len(records) != 1 {
		t.Fatalf("ledger records = %d, want 1", len(records))
	}
	if records[0].ID != "task-2" {
		t.Errorf("record ID = %s, want task-2", records[0].ID)
	}
	if records[0].Summary != "Shipped it" {
		t.Errorf("record Summary = %q, want %q", records[0].Summary, "Shipped it")
	}
	if len(records[0].ColumnHistory) != 1 || records[0].ColumnHistory[0] != "doing" {
		t.Errorf("record ColumnHistory = %v, want [doing]", records[0].ColumnHistory)
	}

	if err := restoreCommand(cfg, []string{"task-2"}); err != nil {
		t.Fatalf("restoreCommand() error = %v", err)
	}
	b, err = workspace.BuildBoard(cfg.BoardFile)
	if err != nil {
		t.Fatalf("BuildBoard() error = %v", err)
	}
	if info := b.FindTask("task-2"); info == nil || info.Column.ID != "todo" {
		t.Fatalf("expected task-2 restored to todo, got %v", info)
	}
}

// strictWorkspace lays out a split workspace whose config enables
// strict mode with custom epic and decision types.
func strictWorkspace(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.BoardFile = filepath.Join(cfg.ProjectRoot, workspace.Dir, workspace.ConfigFile)
	if _, err := workspace.EnsureDirs(cfg.BoardFile); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	content := "---\n" +
		"type: board\n" +
		"title: Strict Board\n" +
		"strict: true\n" +
		"types:\n" +
		"  epic:\n" +
		"    idPrefix: epic\n" +
		"  decision:\n" +
		"    idPrefix: adr\n" +
		"    completable: false\n" +
		"columns:\n" +
		"  - id: todo\n" +
		"    title: To Do\n" +
		"  - id: doing\n" +
		"    title: In Progress\n" +
		"---\n"
	if err := os.WriteFile(cfg.BoardFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return cfg
}

func TestStrictWorkspace(t *testing.T) {
	ctx := context.Background()

	t.Run("add rejects an unknown column", func(t *testing.T) {
		cfg := strictWorkspace(t)
		err := addCommand(cfg, []string{"-column", "shipping", "Strict", "add"})
		if err == nil {
			t.Fatal("addCommand() succeeded, want unknown column error")
		}
		if !strings.Contains(err.Error(), "Column 'shipping' is not defined") {
			t.Errorf("error = %v, want unknown column", err)
		}
		if !strings.Contains(err.Error(), "Available columns: todo, doing") {
			t.Errorf("error = %v, should list the configured columns", err)
		}
	})

	t.Run("add rejects an unknown type", func(t *testing.T) {
		cfg := strictWorkspace(t)
		err := addCommand(cfg, []string{"-type", "story", "Strict", "add"})
		if err == nil {
			t.Fatal("addCommand() succeeded, want unknown type error")
		}
		if !strings.Contains(err.Error(), "Type 'story' is not defined") {
			t.Errorf("error = %v, want unknown type", err)
		}
		if !strings.Contains(err.Error(), "Available types: task, decision, epic") {
			t.Errorf("error = %v, should list the configured types", err)
		}
	})

	t.Run("configured type drives the id prefix", func(t *testing.T) {
		cfg := strictWorkspace(t)
		if err := addCommand(cfg, []string{"-type", "decision", "Choose", "a", "database"}); err != nil {
			t.Fatalf("addCommand() error = %v", err)
		}
		dirs := workspace.DirsFor(cfg.BoardFile)
		if _, err := os.Stat(filepath.Join(dirs.Board, "adr-1.md")); err != nil {
			t.Fatalf("expected adr-1 file: %v", err)
		}
		b, err := workspace.BuildBoard(cfg.BoardFile)
		if err != nil {
			t.Fatalf("BuildBoard() error = %v", err)
		}
		info := b.FindTask("adr-1")
		if info == nil {
			t.Fatal("adr-1 not on the board")
		}
		if info.Task.Type != "decision" {
			t.Errorf("Type = %q, want decision", info.Task.Type)
		}
	})

	t.Run("move rejects an unknown column", func(t *testing.T) {
		cfg := strictWorkspace(t)
		if err := addCommand(cfg, []string{"Movable", "task"}); err != nil {
			t.Fatalf("addCommand() error = %v", err)
		}
		err := moveCommand(cfg, []string{"task-1", "shipping"})
		if err == nil || !strings.Contains(err.Error(), "Column 'shipping' is not defined") {
			t.Errorf("moveCommand() error = %v, want unknown column", err)
		}
	})

	t.Run("non-completable type cannot be completed", func(t *testing.T) {
		cfg := strictWorkspace(t)
		if err := addCommand(cfg, []string{"-type", "decision", "Choose", "a", "database"}); err != nil {
			t.Fatalf("addCommand() error = %v", err)
		}
		err := doneCommand(ctx, cfg, []string{"adr-1"})
		if err == nil || !strings.Contains(err.Error(), "Type 'decision' is not completable") {
			t.Errorf("doneCommand() error = %v, want not completable", err)
		}
	})

	t.Run("restore validates the target column", func(t *testing.T) {
		cfg := strictWorkspace(t)
		if err := addCommand(cfg, []string{"-type", "epic", "Big", "feature"}); err != nil {
			t.Fatalf("addCommand() error = %v", err)
		}
		if err := doneCommand(ctx, cfg, []string{"epic-1"}); err != nil {
			t.Fatalf("doneCommand() error = %v", err)
		}
		err := restoreCommand(cfg, []string{"-column", "shipping", "epic-1"})
		if err == nil || !strings.Contains(err.Error(), "Column 'shipping' is not defined") {
			t.Errorf("restoreCommand() error = %v, want unknown column", err)
		}
		if err := restoreCommand(cfg, []string{"-column", "doing", "epic-1"}); err != nil {
			t.Fatalf("restoreCommand() error = %v", err)
		}
	})
}

func TestResolveBoardFile(t *testing.T) {
	t.Run("falls back to split workspace config", func(t *testing.T) {
		cfg := testConfig(t)
		configPath := filepath.Join(cfg.ProjectRoot, workspace.Dir, workspace.ConfigFile)
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(configPath, []byte(serializeBoard(t, sampleBoard())), 0o644); err != nil {
			t.Fatal(err)
		}

		resolveBoardFile(cfg)
		if cfg.BoardFile != configPath {
			t.Errorf("BoardFile = %s, want %s", cfg.BoardFile, configPath)
		}
	})

	t.Run("keeps an existing default board", func(t *testing.T) {
		cfg := testConfig(t)
		seedBoard(t, cfg, sampleBoard())
		want := cfg.BoardFile

		resolveBoardFile(cfg)
		if cfg.BoardFile != want {
			t.Errorf("BoardFile = %s, want %s", cfg.BoardFile, want)
		}
	})

	t.Run("keeps an explicitly configured path", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.BoardFile = filepath.Join(cfg.ProjectRoot, "custom.md")
		want := cfg.BoardFile

		resolveBoardFile(cfg)
		if cfg.BoardFile != want {
			t.Errorf("BoardFile = %s, want %s", cfg.BoardFile, want)
		}
	})
}

func TestDiffCommand(t *testing.T) {
	cfg := testConfig(t)
	oldPath := filepath.Join(cfg.ProjectRoot, "old.md")
	newPath := filepath.Join(cfg.ProjectRoot, "new.md")

	if err := os.WriteFile(oldPath, []byte(serializeBoard(t, sampleBoard())), 0o644); err != nil {
		t.Fatal(err)
	}
	next := sampleBoard()
	moved := next.Columns[0].Tasks[0]
	next.Columns[0].Tasks = next.Columns[0].Tasks[1:]
	next.Columns[1].Tasks = append(next.Columns[1].Tasks, moved)
	if err := os.WriteFile(newPath, []byte(serializeBoard(t, next)), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := captureStdout(t, func() error {
		return diffCommand(cfg, []string{oldPath, newPath})
	})
	if err != nil {
		t.Fatalf("diffCommand() error = %v", err)
	}
	if !strings.Contains(output, "> task task-1: todo -> doing") {
		t.Errorf("diff output missing move line, got:\n%s", output)
	}

	t.Run("identical boards report no changes", func(t *testing.T) {
		output, err := captureStdout(t, func() error {
			return diffCommand(cfg, []string{oldPath, oldPath})
		})
		if err != nil {
			t.Fatalf("diffCommand() error = %v", err)
		}
		if !strings.Contains(output, "No changes.") {
			t.Errorf("expected 'No changes.', got:\n%s", output)
		}
	})

	t.Run("wrong argument count errors", func(t *testing.T) {
		if err := diffCommand(cfg, []string{oldPath}); err == nil {
			t.Error("expected usage error")
		}
	})
}

func TestHashCommand(t *testing.T) {
	cfg := testConfig(t)
	seedBoard(t, cfg, sampleBoard())

	content, err := os.ReadFile(cfg.BoardFile)
	if err != nil {
		t.Fatal(err)
	}
	want := board.HashContent(string(content))

	output, err := captureStdout(t, func() error {
		return hashCommand(cfg, nil)
	})
	if err != nil {
		t.Fatalf("hashCommand() error = %v", err)
	}
	if strings.TrimSpace(output) != want {
		t.Errorf("hash = %q, want %q", strings.TrimSpace(output), want)
	}

	t.Run("split workspace hashes the assembled board", func(t *testing.T) {
		cfg := testConfig(t)
		if err := initCommand(cfg, []string{"-split", "-skip-config"}); err != nil {
			t.Fatalf("initCommand(-split) error = %v", err)
		}
		cfg.BoardFile = filepath.Join(cfg.ProjectRoot, workspace.Dir, workspace.ConfigFile)

		output, err := captureStdout(t, func() error {
			return hashCommand(cfg, nil)
		})
		if err != nil {
			t.Fatalf("hashCommand() error = %v", err)
		}
		if len(strings.TrimSpace(output)) != 64 {
			t.Errorf("hash length = %d, want 64", len(strings.TrimSpace(output)))
		}
	})
}

func TestLintCommand(t *testing.T) {
	t.Run("clean board passes", func(t *testing.T) {
		cfg := testConfig(t)
		seedBoard(t, cfg, sampleBoard())
		if err := lintCommand(cfg, nil); err != nil {
			t.Errorf("lintCommand() error = %v", err)
		}
	})

	t.Run("broken yaml fails", func(t *testing.T) {
		cfg := testConfig(t)
		broken := "---\ntitle: [broken\n---\n"
		if err := os.WriteFile(cfg.BoardFile, []byte(broken), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := lintCommand(cfg, nil); err == nil {
			t.Error("expected lint failure for broken yaml")
		}
	})
}

func TestDoctorCommand(t *testing.T) {
	cfg := testConfig(t)
	seedBoard(t, cfg, sampleBoard())

	output, err := captureStdout(t, func() error {
		return doctorCommand(cfg, nil)
	})
	if err != nil {
		t.Errorf("doctorCommand() error = %v", err)
	}
	if !strings.Contains(output, "All checks passed") {
		t.Errorf("doctor output missing pass verdict:\n%s", output)
	}
}

// TestVersionCommand tests the versionCommand function.
func TestVersionCommand(t *testing.T) {
	err := versionCommand()
	if err != nil {
		t.Errorf("versionCommand() returned error: %v", err)
	}
}

// TestCheckBinary tests the checkBinary helper with various scenarios.
func TestCheckBinary(t *testing.T) {
	t.Run("required binary that exists", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("skipping Unix-specific test")
		}
		ok := checkBinary("sh", "sh", true)
		if !ok {
			t.Error("expected checkBinary to return true for existing sh")
		}
	})

	t.Run("optional binary that doesn't exist", func(t *testing.T) {
		ok := checkBinary("nonexistent-binary-xyz123", "nonexistent-binary-xyz123", false)
		if !ok {
			t.Error("expected checkBinary to return true even for missing optional binary")
		}
	})

	t.Run("required binary that doesn't exist", func(t *testing.T) {
		ok := checkBinary("nonexistent-binary-xyz123", "nonexistent-binary-xyz123", true)
		if ok {
			t.Error("expected checkBinary to return false for missing required binary")
		}
	})
}

// TestIsWindowsExecutable tests the isWindowsExecutable helper.
func TestIsWindowsExecutable(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("skipping Windows-specific test on non-Windows platform")
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"program.exe", true},
		{"program.EXE", true},
		{"program.Exe", true},
		{"program.bat", true},
		{"program.BAT", true},
		{"program.cmd", true},
		{"program.com", true},
		{"program", false},
		{"program.txt", false},
		{"program.sh", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := isWindowsExecutable(tt.path)
			if got != tt.expected {
				t.Errorf("isWindowsExecutable(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

// TestWindowsExecutableExts tests the windowsExecutableExts helper.
func TestWindowsExecutableExts(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("skipping Windows-specific test on non-Windows platform")
	}

	exts := windowsExecutableExts()
	if len(exts) == 0 {
		t.Error("expected non-empty extensions map")
	}

	commonExts := []string{".exe", ".bat", ".cmd", ".com"}
	for _, ext := range commonExts {
		if !exts[ext] {
			t.Errorf("expected extension %q to be in map", ext)
		}
	}
}
