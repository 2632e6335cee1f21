// Package cmd implements the CLI command structure for brainfile.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/codec"
	"github.com/nibzard/brainfile-go/internal/config"
	"github.com/nibzard/brainfile-go/internal/logging"
	"github.com/nibzard/brainfile-go/internal/ui"
	"github.com/nibzard/brainfile-go/internal/workspace"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the brainfile CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("brainfile", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")
	verbose := fs.Bool("verbose", false, "Log at debug level")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "ls" as default
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		// Check if it looks like a subcommand (doesn't start with -)
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	// init must see the configured path untouched so it can create it
	if subcommand != "init" {
		resolveBoardFile(cfg)
	}

	// Execute the subcommand
	switch subcommand {
	case "init":
		return initCommand(cfg, remainingArgs)
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "move":
		return moveCommand(cfg, remainingArgs)
	case "patch":
		return patchCommand(cfg, remainingArgs)
	case "done":
		return doneCommand(ctx, cfg, remainingArgs)
	case "restore":
		return restoreCommand(cfg, remainingArgs)
	case "subtask":
		return subtaskCommand(cfg, remainingArgs)
	case "diff":
		return diffCommand(cfg, remainingArgs)
	case "hash":
		return hashCommand(cfg, remainingArgs)
	case "lint":
		return lintCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "watch":
		return watchCommand(ctx, cfg, remainingArgs)
	case "ledger":
		return ledgerCommand(cfg, remainingArgs)
	case "templates":
		return templatesCommand(cfg, remainingArgs)
	case "completion":
		return completionCommand(cfg, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		// If it's not a recognized command, it might be a board path for ls
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			cfg.BoardFile = absPath(cfg, subcommand)
			return lsCommand(cfg, remainingArgs)
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand launches the terminal UI on the active board.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile tui", flag.ContinueOnError)
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
		return ui.RunTUI(ctx, ui.WithReloader(func() (*board.Board, error) {
			return workspace.BuildBoard(boardPath)
		}))
	}
	return ui.RunTUI(ctx, ui.WithBoardPath(boardPath))
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("brainfile version %s\n", Version)
	return nil
}

// newLogger builds the CLI logger from the configured level and format.
func newLogger(cfg *config.Config) *log.Logger {
	return logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
}

// absPath resolves a user-supplied path against the project root.
func absPath(cfg *config.Config, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.ProjectRoot, path)
}

// resolveBoardFile falls back to the split workspace config when the
// default board file does not exist. An explicitly configured path is
// left alone.
func resolveBoardFile(cfg *config.Config) {
	if cfg.BoardFile != filepath.Join(cfg.ProjectRoot, "brainfile.md") {
		return
	}
	if _, err := os.Stat(cfg.BoardFile); err == nil {
		return
	}
	splitConfig := filepath.Join(cfg.ProjectRoot, workspace.Dir, workspace.ConfigFile)
	if _, err := os.Stat(splitConfig); err == nil {
		cfg.BoardFile = splitConfig
	}
}

// loadBoard reads the active board. A split workspace is assembled
// from its task files; a single-file board is parsed directly.
func loadBoard(cfg *config.Config) (*board.Board, error) {
	return loadBoardPath(cfg.BoardFile)
}

func loadBoardPath(path string) (*board.Board, error) {
	if workspace.IsSplit(path) {
		return workspace.BuildBoard(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading board file: %w", err)
	}
	b, err := codec.Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return b, nil
}

// splitBoardConfig reads the workspace board configuration used for
// strict-mode checks. A config that cannot be read applies no checks.
func splitBoardConfig(configPath string) *board.Config {
	bcfg, err := workspace.ReadBoardConfig(configPath)
	if err != nil {
		return &board.Config{}
	}
	return bcfg
}

// writeBoard serializes a board back to the single-file path. Split
// workspaces are never written this way; their mutations go through
// per-task files.
func writeBoard(cfg *config.Config, b *board.Board) error {
	content, err := codec.Serialize(b)
	if err != nil {
		return fmt.Errorf("serializing board: %w", err)
	}
	if err := os.WriteFile(cfg.BoardFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing board file: %w", err)
	}
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Brainfile - Markdown task boards for humans and agents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  brainfile [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  init               Create a starter board (or a split workspace)")
	fmt.Fprintln(w, "  ls [file]          Show the board, optionally filtered (default command)")
	fmt.Fprintln(w, "  add <title>        Add a task")
	fmt.Fprintln(w, "  move <task> <col>  Move a task to another column")
	fmt.Fprintln(w, "  patch <task>       Update task fields")
	fmt.Fprintln(w, "  done <task>        Complete a task")
	fmt.Fprintln(w, "  restore <task>     Bring a completed task back to the board")
	fmt.Fprintln(w, "  subtask <op>       Manage subtasks (add|toggle|done)")
	fmt.Fprintln(w, "  diff <old> <new>   Compare two boards")
	fmt.Fprintln(w, "  hash [file]        Print the board content hash")
	fmt.Fprintln(w, "  lint [file]        Check board syntax and structure")
	fmt.Fprintln(w, "  doctor             Check workspace, config, and board health")
	fmt.Fprintln(w, "  watch [dir]        Watch for board changes and print diffs")
	fmt.Fprintln(w, "  ledger <op>        Search completed task history (query|history)")
	fmt.Fprintln(w, "  templates <op>     Work with task templates (list|show|apply)")
	fmt.Fprintln(w, "  completion <shell> Output shell completion script")
	fmt.Fprintln(w, "  tui [file]         Launch terminal UI")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -column string")
	fmt.Fprintln(w, "        Filter by column id")
	fmt.Fprintln(w, "  -tag string")
	fmt.Fprintln(w, "        Filter by tag")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintln(w, "        Filter by priority (low|medium|high|critical)")
	fmt.Fprintln(w, "  -assignee string")
	fmt.Fprintln(w, "        Filter by assignee")
	fmt.Fprintln(w, "  -search string")
	fmt.Fprintln(w, "        Filter by title/description substring")
	fmt.Fprintln(w, "  -v    Show more details")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options (use with 'add' command):")
	fmt.Fprintln(w, "  -column string")
	fmt.Fprintln(w, "        Target column id (default from config)")
	fmt.Fprintln(w, "  -description string")
	fmt.Fprintln(w, "        Task description")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintln(w, "        Task priority (low|medium|high|critical)")
	fmt.Fprintln(w, "  -tags string")
	fmt.Fprintln(w, "        Comma-separated tags")
	fmt.Fprintln(w, "  -subtasks string")
	fmt.Fprintln(w, "        Comma-separated subtask titles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Done Options (use with 'done' command):")
	fmt.Fprintln(w, "  -validate")
	fmt.Fprintln(w, "        Run the task's contract validation commands first")
	fmt.Fprintln(w, "  -summary string")
	fmt.Fprintln(w, "        Completion summary recorded in the ledger")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Lint Options (use with 'lint' command):")
	fmt.Fprintln(w, "  -fix  Write auto-fixes back to the file")
	fmt.Fprintln(w, "  -strict")
	fmt.Fprintln(w, "        Treat warnings as errors")
}

// printColumnTasks prints one column with its task count.
func printColumnTasks(col board.Column, verbose bool) {
	fmt.Printf("%s (%d):\n", col.Title, len(col.Tasks))
	if len(col.Tasks) == 0 {
		fmt.Println("  (no tasks)")
		fmt.Println()
		return
	}
	for _, t := range col.Tasks {
		printTask(t, verbose)
	}
	fmt.Println()
}

// printTask prints a single task.
func printTask(t board.Task, verbose bool) {
	line := fmt.Sprintf("  [%s] %s", t.ID, t.Title)
	if t.Priority != "" {
		line = fmt.Sprintf("  [%s] (%s) %s", t.ID, t.Priority, t.Title)
	}
	if len(t.Subtasks) > 0 {
		done := 0
		for _, st := range t.Subtasks {
			if st.Completed {
				done++
			}
		}
		line += fmt.Sprintf(" (%d/%d)", done, len(t.Subtasks))
	}
	fmt.Println(line)

	if verbose {
		if t.Description != "" {
			fmt.Printf("      Description: %s\n", t.Description)
		}
		if t.Assignee != "" {
			fmt.Printf("      Assignee: %s\n", t.Assignee)
		}
		if t.DueDate != "" {
			fmt.Printf("      Due: %s\n", t.DueDate)
		}
		if len(t.Tags) > 0 {
			fmt.Printf("      Tags: %s\n", strings.Join(t.Tags, ", "))
		}
		if len(t.RelatedFiles) > 0 {
			fmt.Printf("      Files: %s\n", strings.Join(t.RelatedFiles, ", "))
		}
	}
}

// sortTaskPtrs sorts tasks deterministically by numeric-aware id order.
func sortTaskPtrs(tasks []*board.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return board.CompareIDs(tasks[i].ID, tasks[j].ID)
	})
}
