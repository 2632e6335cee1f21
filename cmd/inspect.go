package cmd

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/codec"
	"github.com/nibzard/brainfile-go/internal/config"
	"github.com/nibzard/brainfile-go/internal/ledger"
	"github.com/nibzard/brainfile-go/internal/lint"
	"github.com/nibzard/brainfile-go/internal/runner"
	"github.com/nibzard/brainfile-go/internal/taskfile"
	"github.com/nibzard/brainfile-go/internal/workspace"
)

// diffCommand compares two board snapshots.
func diffCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile diff", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 2 {
		return fmt.Errorf("usage: brainfile diff <old> <new>")
	}

	previous, err := loadBoardPath(absPath(cfg, remaining[0]))
	if err != nil {
		return err
	}
	next, err := loadBoardPath(absPath(cfg, remaining[1]))
	if err != nil {
		return err
	}

	d := board.DiffBoards(previous, next)
	if !d.HasChanges() {
		fmt.Println("No changes.")
		return nil
	}
	printDiff(d)
	return nil
}

// printDiff renders a board diff, one line per change.
func printDiff(d *board.BoardDiff) {
	if d.MetadataChanged {
		fmt.Println("~ board metadata")
	}
	for _, c := range d.ColumnsAdded {
		fmt.Printf("+ column %s (%s)\n", c.ColumnID, c.After.Title)
	}
	for _, c := range d.ColumnsRemoved {
		fmt.Printf("- column %s (%s)\n", c.ColumnID, c.Before.Title)
	}
	for _, c := range d.ColumnsUpdated {
		fmt.Printf("~ column %s: %s\n", c.ColumnID, strings.Join(c.ChangedFields, ", "))
	}
	for _, c := range d.ColumnsMoved {
		fmt.Printf("> column %s: %d -> %d\n", c.ColumnID, c.FromIndex, c.ToIndex)
	}
	for _, t := range d.TasksAdded {
		fmt.Printf("+ task %s (%s) in %s\n", t.TaskID, t.After.Title, t.ToColumnID)
	}
	for _, t := range d.TasksRemoved {
		fmt.Printf("- task %s (%s) from %s\n", t.TaskID, t.Before.Title, t.FromColumnID)
	}
	for _, t := range d.TasksUpdated {
		fmt.Printf("~ task %s: %s\n", t.TaskID, strings.Join(t.ChangedFields, ", "))
	}
	for _, t := range d.TasksMoved {
		if t.FromColumnID != t.ToColumnID {
			fmt.Printf("> task %s: %s -> %s\n", t.TaskID, t.FromColumnID, t.ToColumnID)
		} else {
			fmt.Printf("> task %s: position %d -> %d in %s\n", t.TaskID, t.FromIndex, t.ToIndex, t.ToColumnID)
		}
	}
}

// hashCommand prints the board content hash. A split workspace hashes
// the assembled board so the result is stable across file layout.
func hashCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile hash", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	boardPath := cfg.BoardFile
	if len(remaining) == 1 {
		boardPath = absPath(cfg, remaining[0])
	}

	if workspace.IsSplit(boardPath) {
		b, err := workspace.BuildBoard(boardPath)
		if err != nil {
			return err
		}
		hash, err := codec.HashBoard(b)
		if err != nil {
			return fmt.Errorf("hashing board: %w", err)
		}
		fmt.Println(hash)
		return nil
	}

	content, err := os.ReadFile(boardPath)
	if err != nil {
		return fmt.Errorf("reading board file: %w", err)
	}
	fmt.Println(board.HashContent(string(content)))
	return nil
}

// lintCommand checks a board file for YAML and structure problems,
// optionally writing auto-fixes back.
func lintCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile lint", flag.ContinueOnError)
	fix := fs.Bool("fix", false, "Write auto-fixes back to the file")
	strict := fs.Bool("strict", false, "Treat warnings as errors")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	boardPath := cfg.BoardFile
	if len(remaining) == 1 {
		boardPath = absPath(cfg, remaining[0])
	}
	if workspace.IsSplit(boardPath) {
		// In a split workspace the YAML lives in the config file.
		boardPath = workspace.DirsFor(boardPath).Config
	}

	content, err := os.ReadFile(boardPath)
	if err != nil {
		return fmt.Errorf("reading board file: %w", err)
	}

	res := lint.Lint(string(content), lint.Options{
		AutoFix: *fix || cfg.AutoFix,
		Strict:  *strict || cfg.Strict,
	})

	grouped := lint.GroupIssues(res)
	for _, issue := range grouped.Errors {
		printIssue("❌", issue)
	}
	for _, issue := range grouped.Warnings {
		printIssue("⚠️ ", issue)
	}

	if res.FixedContent != "" {
		if err := os.WriteFile(boardPath, []byte(res.FixedContent), 0o644); err != nil {
			return fmt.Errorf("writing fixed file: %w", err)
		}
		fmt.Printf("Fixed %d issue(s) in %s\n", len(grouped.Fixable), boardPath)
	}

	fmt.Println(lint.Summary(res))
	if !res.Valid {
		return fmt.Errorf("lint failed")
	}
	return nil
}

// printIssue renders one lint finding with its location when known.
func printIssue(marker string, issue lint.Issue) {
	loc := ""
	if issue.Line > 0 {
		loc = fmt.Sprintf(" (line %d)", issue.Line)
	}
	fmt.Printf("  %s %s%s\n", marker, issue.Message, loc)
}

// doctorCommand checks project, config, board, and dependency health.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	boardPath := cfg.BoardFile
	if len(remaining) == 1 {
		boardPath = absPath(cfg, remaining[0])
	}

	fmt.Println("Brainfile Doctor")
	fmt.Println("================")
	fmt.Println()

	allOK := true

	// Check project root
	fmt.Printf("Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	if !doctorConfig(cfg) {
		allOK = false
	}
	fmt.Println()

	b, boardOK := doctorBoard(cfg, boardPath, *verbose)
	if !boardOK {
		allOK = false
	}
	fmt.Println()

	doctorSchema(cfg)
	fmt.Println()

	// Contract validation commands run through the shell, so sh is
	// required only when the board actually carries any.
	fmt.Println("Dependencies:")
	if !checkBinary("sh", "sh", boardNeedsShell(b)) {
		allOK = false
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Brainfile may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// doctorConfig reports where configuration came from and flags values
// the rest of the CLI would silently coerce.
func doctorConfig(cfg *config.Config) bool {
	fmt.Println("Config:")
	ok := true

	cws, err := config.LoadWithSources(nil, nil)
	if err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	}
	if file := cws.GetConfigFile(); file != "" {
		fmt.Printf("  ✅ Config file: %s\n", file)
	} else {
		fmt.Println("  ✅ Config file: (built-in defaults)")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "panic", "fatal", "error", "warn", "warning", "info", "debug", "trace":
		fmt.Printf("  ✅ Log level: %s\n", cfg.LogLevel)
	default:
		fmt.Printf("  ⚠️  Log level: %s (unknown, falls back to warn)\n", cfg.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "text", "json":
		fmt.Printf("  ✅ Log format: %s\n", cfg.LogFormat)
	default:
		fmt.Printf("  ⚠️  Log format: %s (unknown, falls back to text)\n", cfg.LogFormat)
	}

	if strings.TrimSpace(cfg.DefaultColumn) == "" {
		fmt.Println("  ❌ Default column: empty")
		ok = false
	} else {
		fmt.Printf("  ✅ Default column: %s\n", cfg.DefaultColumn)
	}

	switch {
	case cfg.ValidationTimeoutSeconds < 0:
		fmt.Printf("  ❌ Validation timeout: %d (expected 0 or more seconds)\n", cfg.ValidationTimeoutSeconds)
		ok = false
	case cfg.ValidationTimeoutSeconds == 0:
		fmt.Println("  ✅ Validation timeout: none")
	default:
		fmt.Printf("  ✅ Validation timeout: %ds\n", cfg.ValidationTimeoutSeconds)
	}

	return ok
}

// doctorBoard checks the board file or split workspace and validates
// its content. Returns the parsed board, nil when unreadable.
func doctorBoard(cfg *config.Config, boardPath string, verbose bool) (*board.Board, bool) {
	ok := true

	if workspace.IsSplit(boardPath) {
		dirs := workspace.DirsFor(boardPath)
		fmt.Printf("Workspace: %s\n", dirs.Root)
		fmt.Printf("  ✅ Task files: %d\n", len(taskfile.ReadDir(dirs.Board)))
		fmt.Printf("  ✅ Completed: %d\n", len(taskfile.ReadDir(dirs.Logs)))
		if _, err := os.Stat(ledger.Path(dirs.Logs)); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("  ⚠️  Ledger: not found (created on first completion)")
			} else {
				fmt.Printf("  ❌ Ledger: %v\n", err)
				ok = false
			}
		} else {
			records := ledger.NewReader(newLogger(cfg)).Read(dirs.Logs)
			fmt.Printf("  ✅ Ledger: %d record(s)\n", len(records))
		}
	} else {
		fmt.Printf("Board file: %s\n", boardPath)
		info, err := os.Stat(boardPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("  ⚠️  Not found (run brainfile init)")
			} else {
				fmt.Printf("  ❌ Error: %v\n", err)
				ok = false
			}
			return nil, ok
		}
		if info.IsDir() {
			fmt.Println("  ❌ Error: path is a directory")
			return nil, false
		}
		fmt.Println("  ✅ OK")
	}

	b, err := loadBoardPath(boardPath)
	if err != nil {
		fmt.Printf("  ❌ Load error: %v\n", err)
		return nil, false
	}

	result := b.Validate(board.ValidationOptions{SchemaPath: cfg.SchemaFile})
	for _, w := range result.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	if result.Valid {
		fmt.Println("  ✅ Valid")
	} else {
		fmt.Println("  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Printf("     - %v\n", e)
		}
		ok = false
	}

	if verbose {
		fmt.Printf("  Tasks: %d\n", b.TotalTaskCount())
		for _, col := range b.Columns {
			fmt.Printf("    - %s: %d\n", col.ID, len(col.Tasks))
		}
		if len(b.Archive) > 0 {
			fmt.Printf("    - archive: %d\n", len(b.Archive))
		}
	}

	return b, ok
}

// doctorSchema reports which validation backend board checks use.
// Schema problems are warnings because validation falls back to the
// structural checks.
func doctorSchema(cfg *config.Config) {
	if cfg.SchemaFile == "" {
		fmt.Println("Schema file: (none, structural checks)")
		fmt.Println("  ✅ OK")
		return
	}
	fmt.Printf("Schema file: %s\n", cfg.SchemaFile)
	info, err := os.Stat(cfg.SchemaFile)
	switch {
	case os.IsNotExist(err):
		fmt.Println("  ⚠️  Not found (structural checks used instead)")
	case err != nil:
		fmt.Printf("  ⚠️  Error: %v\n", err)
	case info.IsDir():
		fmt.Println("  ⚠️  Path is a directory (structural checks used instead)")
	default:
		fmt.Println("  ✅ OK")
	}
}

// boardNeedsShell reports whether any active task carries contract
// validation commands.
func boardNeedsShell(b *board.Board) bool {
	if b == nil {
		return false
	}
	for _, t := range b.AllTasks() {
		if len(runner.Commands(*t)) > 0 {
			return true
		}
	}
	return false
}

// checkBinary reports one dependency line. A missing optional binary
// warns instead of failing.
func checkBinary(label, binary string, required bool) bool {
	fmt.Printf("  %s: %s\n", label, binary)
	if strings.TrimSpace(binary) == "" {
		return binaryVerdict(required, "Not configured")
	}
	if info, err := os.Stat(binary); err == nil {
		if info.IsDir() {
			return binaryVerdict(required, "Path is a directory")
		}
		if !isExecutablePath(binary, info) {
			return binaryVerdict(required, "Not executable")
		}
		fmt.Println("  ✅ OK")
		return true
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return binaryVerdict(required, fmt.Sprintf("Not found: %v", err))
	}
	if info, statErr := os.Stat(resolved); statErr == nil {
		if info.IsDir() {
			return binaryVerdict(required, fmt.Sprintf("Found in PATH but is a directory: %s", resolved))
		}
		if !isExecutablePath(resolved, info) {
			return binaryVerdict(required, fmt.Sprintf("Found in PATH but not executable: %s", resolved))
		}
	}
	fmt.Printf("  ✅ OK (found in PATH: %s)\n", resolved)
	return true
}

// binaryVerdict prints the failure line; optional binaries downgrade
// to a warning and still pass.
func binaryVerdict(required bool, message string) bool {
	if required {
		fmt.Printf("  ❌ %s\n", message)
		return false
	}
	fmt.Printf("  ⚠️  %s\n", message)
	return true
}

func isExecutablePath(path string, info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if runtime.GOOS == "windows" {
		return isWindowsExecutable(path)
	}
	return info.Mode().Perm()&0111 != 0
}

func isWindowsExecutable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	return windowsExecutableExts()[ext]
}

func windowsExecutableExts() map[string]bool {
	exts := map[string]bool{}
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	for _, ext := range strings.Split(pathext, ";") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return exts
}
