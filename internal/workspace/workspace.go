// Package workspace handles the split on-disk layout where the board
// lives in a .brainfile directory: config in brainfile.md, one file
// per active task under board/, completed tasks under logs/.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/codec"
	"github.com/nibzard/brainfile-go/internal/taskfile"
)

// Well-known names inside a split workspace.
const (
	Dir        = ".brainfile"
	ConfigFile = "brainfile.md"

	boardDirName = "board"
	logsDirName  = "logs"
)

// Dirs resolves the paths of a split workspace from its config file.
type Dirs struct {
	// Root is the .brainfile directory.
	Root string
	// Board holds one markdown file per active task.
	Board string
	// Logs holds completed task files.
	Logs string
	// Config is the absolute path of the workspace config brainfile.
	Config string
}

// DirsFor derives workspace paths from the config file path.
func DirsFor(configPath string) Dirs {
	resolved, err := filepath.Abs(configPath)
	if err != nil {
		resolved = configPath
	}
	root := filepath.Dir(resolved)
	return Dirs{
		Root:   root,
		Board:  filepath.Join(root, boardDirName),
		Logs:   filepath.Join(root, logsDirName),
		Config: resolved,
	}
}

// IsSplit reports whether the config file belongs to a split
// workspace, detected by the presence of its board directory.
func IsSplit(configPath string) bool {
	_, err := os.Stat(DirsFor(configPath).Board)
	return err == nil
}

// EnsureDirs creates the board and logs directories if missing.
func EnsureDirs(configPath string) (Dirs, error) {
	dirs := DirsFor(configPath)
	if err := os.MkdirAll(dirs.Board, 0o755); err != nil {
		return dirs, fmt.Errorf("creating board directory: %w", err)
	}
	if err := os.MkdirAll(dirs.Logs, 0o755); err != nil {
		return dirs, fmt.Errorf("creating logs directory: %w", err)
	}
	return dirs, nil
}

// TaskPath returns the conventional path of an active task file.
func (d Dirs) TaskPath(taskID string) string {
	return filepath.Join(d.Board, taskfile.FileName(taskID))
}

// LogPath returns the conventional path of a completed task file.
func (d Dirs) LogPath(taskID string) string {
	return filepath.Join(d.Logs, taskfile.FileName(taskID))
}

// FoundTask is a task located somewhere in the workspace.
type FoundTask struct {
	Doc   *taskfile.Document
	Path  string
	IsLog bool
}

// FindTask locates a task by id, first at its conventional path and
// then by scanning the directory, since a file's name and its
// frontmatter id can disagree. With searchLogs it also covers
// completed tasks. Returns nil when not found.
func FindTask(dirs Dirs, taskID string, searchLogs bool) *FoundTask {
	taskPath := dirs.TaskPath(taskID)
	if doc := taskfile.Read(taskPath); doc != nil && doc.Task.ID == taskID {
		return &FoundTask{Doc: doc, Path: taskPath, IsLog: false}
	}

	if searchLogs {
		logPath := dirs.LogPath(taskID)
		if doc := taskfile.Read(logPath); doc != nil && doc.Task.ID == taskID {
			return &FoundTask{Doc: doc, Path: logPath, IsLog: true}
		}
	}

	for _, doc := range taskfile.ReadDir(dirs.Board) {
		if doc.Task.ID == taskID {
			return &FoundTask{Doc: doc, Path: doc.Path, IsLog: false}
		}
	}

	if searchLogs {
		for _, doc := range taskfile.ReadDir(dirs.Logs) {
			if doc.Task.ID == taskID {
				return &FoundTask{Doc: doc, Path: doc.Path, IsLog: true}
			}
		}
	}

	return nil
}

// ExtractDescription returns the trimmed content of the body's
// "## Description" section, or "" when absent or empty.
func ExtractDescription(body string) string {
	return extractSection(body, "Description")
}

// ExtractLog returns the trimmed content of the body's "## Log"
// section, or "" when absent or empty.
func ExtractLog(body string) string {
	return extractSection(body, "Log")
}

func extractSection(body, heading string) string {
	marker := "## " + heading + "\n"
	i := strings.Index(body, marker)
	if i == -1 {
		return ""
	}
	rest := body[i+len(marker):]
	if j := strings.Index(rest, "\n## "); j != -1 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest)
}

// ComposeBody assembles a task body from its sections. Empty sections
// are dropped; a body with any content ends with a newline.
func ComposeBody(description, log string) string {
	var sections []string
	if strings.TrimSpace(description) != "" {
		sections = append(sections, "## Description\n"+strings.TrimSpace(description))
	}
	if strings.TrimSpace(log) != "" {
		sections = append(sections, "## Log\n"+strings.TrimSpace(log))
	}
	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n") + "\n"
}

// ReadConfig parses the workspace config brainfile. Columns keep
// their declared order; a config-only file may omit task arrays, so
// these are normalized to empty.
func ReadConfig(configPath string) (*board.Board, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading workspace config: %w", err)
	}
	b, err := codec.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing workspace config: %w", err)
	}
	for i := range b.Columns {
		if b.Columns[i].Tasks == nil {
			b.Columns[i].Tasks = []board.Task{}
		}
	}
	return b, nil
}

// ReadBoardConfig parses the workspace config into the distributed
// board configuration. This is the form that carries the strict flag
// and type definitions, which the Board returned by ReadConfig drops.
func ReadBoardConfig(configPath string) (*board.Config, error) {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading workspace config: %w", err)
	}
	c, err := codec.ParseConfig(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing workspace config: %w", err)
	}
	return c, nil
}

// noPosition sorts tasks without an explicit position after every
// positioned task.
const noPosition = 1<<31 - 1

// BuildBoard assembles a full in-memory board from a split workspace:
// the config supplies columns and metadata, task files supply the
// tasks. Tasks are grouped by their column field (default "todo"),
// ordered by position then id, and tasks naming an unknown column are
// left out. A task without a description inherits the body's
// Description section.
func BuildBoard(configPath string) (*board.Board, error) {
	dirs := DirsFor(configPath)
	b, err := ReadConfig(configPath)
	if err != nil {
		return nil, err
	}

	byColumn := make(map[string][]*taskfile.Document)
	for _, doc := range taskfile.ReadDir(dirs.Board) {
		colID := doc.Task.Column
		if colID == "" {
			colID = "todo"
		}
		byColumn[colID] = append(byColumn[colID], doc)
	}

	for i := range b.Columns {
		docs := byColumn[b.Columns[i].ID]
		sort.Slice(docs, func(x, y int) bool {
			px, py := docPosition(docs[x]), docPosition(docs[y])
			if px != py {
				return px < py
			}
			return board.CompareIDs(docs[x].Task.ID, docs[y].Task.ID)
		})

		tasks := make([]board.Task, 0, len(docs))
		for _, doc := range docs {
			task := doc.Task
			if task.Description == "" {
				task.Description = ExtractDescription(doc.Body)
			}
			tasks = append(tasks, task)
		}
		b.Columns[i].Tasks = board.CloneTasks(tasks)
	}

	return b, nil
}

func docPosition(doc *taskfile.Document) int {
	if doc.Task.Position != nil {
		return *doc.Task.Position
	}
	return noPosition
}
