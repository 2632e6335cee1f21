package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/codec"
	"github.com/nibzard/brainfile-go/internal/config"
	"github.com/nibzard/brainfile-go/internal/ledger"
	"github.com/nibzard/brainfile-go/internal/runner"
	"github.com/nibzard/brainfile-go/internal/taskfile"
	"github.com/nibzard/brainfile-go/internal/taskops"
	"github.com/nibzard/brainfile-go/internal/utils"
	"github.com/nibzard/brainfile-go/internal/workspace"
)

// initCommand creates a starter board, either as a single file or as
// a split workspace.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile init", flag.ContinueOnError)
	split := fs.Bool("split", false, "Create a split workspace instead of a single file")
	force := fs.Bool("force", false, "Overwrite an existing board")
	title := fs.String("title", "Project Tasks", "Board title")
	skipConfig := fs.Bool("skip-config", false, "Do not write brainfile.toml")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	if *split {
		if err := initSplit(cfg, *title, *force); err != nil {
			return err
		}
	} else if err := initSingle(cfg, *title, *force); err != nil {
		return err
	}

	if *skipConfig {
		return nil
	}
	return writeExampleConfig(cfg.ProjectRoot)
}

// starterBoard is the board init writes: three columns with done as
// the completion column, plus one example task in todo.
func starterBoard(title string) *board.Board {
	completion := true
	return &board.Board{
		Title: title,
		Type:  board.TypeBoard,
		Columns: []board.Column{
			{
				ID:    "todo",
				Title: "To Do",
				Tasks: []board.Task{{
					ID:          "task-1",
					Title:       "Explore your new board",
					Description: "Move this card to In Progress with the move command",
				}},
			},
			{ID: "doing", Title: "In Progress", Tasks: []board.Task{}},
			{ID: "done", Title: "Done", CompletionColumn: &completion, Tasks: []board.Task{}},
		},
	}
}

func initSingle(cfg *config.Config, title string, force bool) error {
	path := cfg.BoardFile
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	content, err := codec.Serialize(starterBoard(title))
	if err != nil {
		return fmt.Errorf("serializing starter board: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing board file: %w", err)
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

func initSplit(cfg *config.Config, title string, force bool) error {
	configPath := filepath.Join(cfg.ProjectRoot, workspace.Dir, workspace.ConfigFile)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", configPath)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating workspace directory: %w", err)
	}
	dirs, err := workspace.EnsureDirs(configPath)
	if err != nil {
		return err
	}

	// The workspace config holds columns and metadata only; the example
	// task becomes the first task file.
	b := starterBoard(title)
	example := b.Columns[0].Tasks[0]
	b.Columns[0].Tasks = []board.Task{}

	content, err := codec.Serialize(b)
	if err != nil {
		return fmt.Errorf("serializing workspace config: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing workspace config: %w", err)
	}

	res := taskops.AddTaskFile(dirs.Board, taskops.Input{
		TaskInput: board.TaskInput{
			Title:       example.Title,
			Description: example.Description,
		},
		ID:     example.ID,
		Column: b.Columns[0].ID,
	}, "", dirs.Logs)
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}

	fmt.Printf("Initialized split workspace at %s\n", dirs.Root)
	return nil
}

// writeExampleConfig drops a commented brainfile.toml next to the
// board unless one already exists.
func writeExampleConfig(root string) error {
	path := filepath.Join(root, "brainfile.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

// lsFilters narrows a task listing. Zero-value fields do not filter.
type lsFilters struct {
	column   string
	tag      string
	priority string
	assignee string
	search   string
}

func (f lsFilters) active() bool {
	return f.column != "" || f.tag != "" || f.priority != "" || f.assignee != "" || f.search != ""
}

func (f lsFilters) match(t *board.Task) bool {
	if f.column != "" && t.Column != f.column {
		return false
	}
	if f.tag != "" && !containsString(t.Tags, f.tag) {
		return false
	}
	if f.priority != "" && string(t.Priority) != f.priority {
		return false
	}
	if f.assignee != "" && t.Assignee != f.assignee {
		return false
	}
	if f.search != "" && !matchesSearch(t, f.search) {
		return false
	}
	return true
}

func matchesSearch(t *board.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), q)
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// lsCommand shows the board. Without filters it prints every column;
// with filters it prints a flat task list.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile ls", flag.ContinueOnError)
	column := fs.String("column", "", "Filter by column id")
	tag := fs.String("tag", "", "Filter by tag")
	priority := fs.String("priority", "", "Filter by priority (low|medium|high|critical)")
	assignee := fs.String("assignee", "", "Filter by assignee")
	search := fs.String("search", "", "Filter by title/description substring")
	archived := fs.Bool("archived", false, "Include archived tasks in filtered listings")
	verbose := fs.Bool("v", false, "Show more details")

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

	filters := lsFilters{
		column:   *column,
		tag:      *tag,
		priority: *priority,
		assignee: *assignee,
		search:   *search,
	}

	if (filters.active() || *archived) && workspace.IsSplit(boardPath) {
		return lsSplitFiltered(workspace.DirsFor(boardPath), filters, *archived, *verbose)
	}

	b, err := loadBoardPath(boardPath)
	if err != nil {
		return err
	}

	if !filters.active() && !*archived {
		for _, col := range b.Columns {
			printColumnTasks(col, *verbose)
		}
		if len(b.Archive) > 0 {
			fmt.Printf("Archive: %d task(s)\n", len(b.Archive))
		}
		return nil
	}

	var tasks []*board.Task
	for i := range b.Columns {
		for j := range b.Columns[i].Tasks {
			t := b.Columns[i].Tasks[j].Clone()
			if t.Column == "" {
				t.Column = b.Columns[i].ID
			}
			if filters.match(&t) {
				tasks = append(tasks, &t)
			}
		}
	}
	if *archived {
		for i := range b.Archive {
			t := b.Archive[i].Clone()
			if filters.match(&t) {
				tasks = append(tasks, &t)
			}
		}
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}
	sortTaskPtrs(tasks)
	for _, t := range tasks {
		printTask(*t, *verbose)
	}
	return nil
}

// lsSplitFiltered lists task files directly. Search covers file
// bodies, which the assembled board cannot do.
func lsSplitFiltered(dirs workspace.Dirs, f lsFilters, includeArchived, verbose bool) error {
	var docs []*taskfile.Document
	if f.search != "" {
		docs = taskops.SearchTaskFiles(dirs.Board, f.search)
		if includeArchived {
			docs = append(docs, taskops.SearchLogs(dirs.Logs, f.search)...)
		}
		// Search already matched; apply the remaining filters only, so
		// a body-only match is not dropped by the title check.
		rest := f
		rest.search = ""
		filtered := docs[:0]
		for _, doc := range docs {
			if rest.match(&doc.Task) {
				filtered = append(filtered, doc)
			}
		}
		docs = filtered
	} else {
		filters := taskops.Filters{
			Column:   f.column,
			Tag:      f.tag,
			Priority: f.priority,
			Assignee: f.assignee,
		}
		docs = taskops.ListTasks(dirs.Board, filters)
		if includeArchived {
			docs = append(docs, taskops.ListTasks(dirs.Logs, filters)...)
		}
	}

	if len(docs) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}
	for _, doc := range docs {
		printTask(doc.Task, verbose)
	}
	return nil
}

// addCommand creates a new task from the remaining arguments.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile add", flag.ContinueOnError)
	column := fs.String("column", "", "Target column id (default from config)")
	description := fs.String("description", "", "Task description")
	priority := fs.String("priority", "", "Task priority (low|medium|high|critical)")
	assignee := fs.String("assignee", "", "Task assignee")
	due := fs.String("due", "", "Due date (ISO 8601)")
	tags := fs.String("tags", "", "Comma-separated tags")
	files := fs.String("files", "", "Comma-separated related file paths")
	template := fs.String("template", "", "Task template (bug|feature|refactor)")
	subtasks := fs.String("subtasks", "", "Comma-separated subtask titles")
	parent := fs.String("parent", "", "Parent task id")
	taskType := fs.String("type", "", "Document type (task|epic)")
	position := fs.Int("position", -1, "Position within the column (split workspaces)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return fmt.Errorf("task title is required")
	}

	columnID := *column
	if columnID == "" {
		columnID = cfg.DefaultColumn
	}

	input := board.TaskInput{
		Title:        title,
		Description:  *description,
		Priority:     *priority,
		Assignee:     *assignee,
		DueDate:      *due,
		Tags:         utils.SplitAndTrim(*tags, ","),
		RelatedFiles: utils.SplitAndTrim(*files, ","),
		Template:     *template,
		Subtasks:     utils.SplitAndTrim(*subtasks, ","),
	}

	if workspace.IsSplit(cfg.BoardFile) {
		dirs, err := workspace.EnsureDirs(cfg.BoardFile)
		if err != nil {
			return err
		}
		bcfg := splitBoardConfig(cfg.BoardFile)
		typeName := *taskType
		if typeName == "" {
			typeName = board.DefaultTaskType
		}
		if err := bcfg.ValidateType(typeName); err != nil {
			return err
		}
		if err := bcfg.ValidateColumn(columnID); err != nil {
			return err
		}
		fileInput := taskops.Input{
			TaskInput: input,
			Column:    columnID,
			ParentID:  *parent,
			Type:      *taskType,
		}
		if *position >= 0 {
			p := *position
			fileInput.Position = &p
		}
		// A configured type draws its id prefix from the config; any
		// other type uses its own name as the prefix.
		if _, ok := bcfg.Types[typeName]; ok {
			fileInput.ID = taskops.NextFileTaskID(dirs.Board, dirs.Logs, bcfg.IDPrefixFor(typeName))
		}
		res := taskops.AddTaskFile(dirs.Board, fileInput, "", dirs.Logs)
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}
		fmt.Printf("Added %s: %s\n", res.Task.ID, res.Task.Title)
		return nil
	}

	b, err := loadBoard(cfg)
	if err != nil {
		return err
	}
	res := b.AddTask(columnID, input)
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}
	if err := writeBoard(cfg, res.Board); err != nil {
		return err
	}
	col := res.Board.FindColumn(columnID)
	added := col.Tasks[len(col.Tasks)-1]
	fmt.Printf("Added %s: %s\n", added.ID, added.Title)
	return nil
}

// moveCommand moves a task to another column.
func moveCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile move", flag.ContinueOnError)
	index := fs.Int("index", -1, "Position within the target column (-1 appends)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 2 {
		return fmt.Errorf("usage: brainfile move <task-id> <column-id>")
	}
	taskID, columnID := remaining[0], remaining[1]

	if workspace.IsSplit(cfg.BoardFile) {
		dirs := workspace.DirsFor(cfg.BoardFile)
		if err := splitBoardConfig(cfg.BoardFile).ValidateColumn(columnID); err != nil {
			return err
		}
		found := workspace.FindTask(dirs, taskID, false)
		if found == nil {
			return fmt.Errorf("Task %s not found", taskID)
		}
		var position *int
		if *index >= 0 {
			p := *index
			position = &p
		}
		res := taskops.MoveTaskFile(found.Path, columnID, position)
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}
		fmt.Printf("Moved %s to %s\n", taskID, columnID)
		return nil
	}

	b, err := loadBoard(cfg)
	if err != nil {
		return err
	}
	info := b.FindTask(taskID)
	if info == nil {
		return fmt.Errorf("Task %s not found", taskID)
	}
	toIndex := *index
	if toIndex < 0 {
		// Out-of-range indexes clamp to the end of the column.
		toIndex = 1 << 30
	}
	res := b.MoveTask(taskID, info.Column.ID, columnID, toIndex)
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}
	if err := writeBoard(cfg, res.Board); err != nil {
		return err
	}
	fmt.Printf("Moved %s to %s\n", taskID, columnID)
	return nil
}

// patchCommand applies a partial update to a task. Only flags the
// caller actually passed become part of the patch, so an omitted flag
// never clobbers a field.
func patchCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile patch", flag.ContinueOnError)
	title := fs.String("title", "", "New title")
	description := fs.String("description", "", "New description")
	priority := fs.String("priority", "", "New priority (low|medium|high|critical)")
	assignee := fs.String("assignee", "", "New assignee")
	due := fs.String("due", "", "New due date (ISO 8601)")
	tags := fs.String("tags", "", "Comma-separated tags")
	files := fs.String("files", "", "Comma-separated related file paths")
	template := fs.String("template", "", "Task template (bug|feature|refactor)")
	clearDescription := fs.Bool("clear-description", false, "Remove the description")
	clearPriority := fs.Bool("clear-priority", false, "Remove the priority")
	clearAssignee := fs.Bool("clear-assignee", false, "Remove the assignee")
	clearDue := fs.Bool("clear-due", false, "Remove the due date")
	clearTags := fs.Bool("clear-tags", false, "Remove all tags")
	clearFiles := fs.Bool("clear-files", false, "Remove all related files")
	clearTemplate := fs.Bool("clear-template", false, "Remove the template")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return fmt.Errorf("usage: brainfile patch <task-id> [options]")
	}
	taskID := remaining[0]

	passed := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { passed[f.Name] = true })
	if len(passed) == 0 {
		return fmt.Errorf("no fields to update")
	}

	var patch board.TaskPatch
	if passed["title"] {
		patch.Title = title
	}
	switch {
	case *clearDescription:
		patch.Description = board.Clear[string]()
	case passed["description"]:
		patch.Description = board.Set(*description)
	}
	switch {
	case *clearPriority:
		patch.Priority = board.Clear[string]()
	case passed["priority"]:
		patch.Priority = board.Set(*priority)
	}
	switch {
	case *clearAssignee:
		patch.Assignee = board.Clear[string]()
	case passed["assignee"]:
		patch.Assignee = board.Set(*assignee)
	}
	switch {
	case *clearDue:
		patch.DueDate = board.Clear[string]()
	case passed["due"]:
		patch.DueDate = board.Set(*due)
	}
	switch {
	case *clearTags:
		patch.Tags = board.Clear[[]string]()
	case passed["tags"]:
		patch.Tags = board.Set(utils.SplitAndTrim(*tags, ","))
	}
	switch {
	case *clearFiles:
		patch.RelatedFiles = board.Clear[[]string]()
	case passed["files"]:
		patch.RelatedFiles = board.Set(utils.SplitAndTrim(*files, ","))
	}
	switch {
	case *clearTemplate:
		patch.Template = board.Clear[string]()
	case passed["template"]:
		patch.Template = board.Set(*template)
	}

	if workspace.IsSplit(cfg.BoardFile) {
		dirs := workspace.DirsFor(cfg.BoardFile)
		found := workspace.FindTask(dirs, taskID, false)
		if found == nil {
			return fmt.Errorf("Task %s not found", taskID)
		}
		res := taskops.PatchTaskFile(found.Path, patch)
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}
		fmt.Printf("Updated %s\n", taskID)
		return nil
	}

	b, err := loadBoard(cfg)
	if err != nil {
		return err
	}
	res := b.PatchTask(taskID, patch)
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}
	if err := writeBoard(cfg, res.Board); err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", taskID)
	return nil
}

// doneCommand completes a task: contract validation first when asked,
// then archive (single file) or move to logs plus a ledger record
// (split workspace).
func doneCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile done", flag.ContinueOnError)
	validate := fs.Bool("validate", false, "Run the task's contract validation commands first")
	summary := fs.String("summary", "", "Completion summary recorded in the ledger")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return fmt.Errorf("usage: brainfile done <task-id> [options]")
	}
	taskID := remaining[0]

	if workspace.IsSplit(cfg.BoardFile) {
		return doneSplit(ctx, cfg, taskID, *validate, *summary)
	}
	return doneSingle(ctx, cfg, taskID, *validate)
}

func doneSingle(ctx context.Context, cfg *config.Config, taskID string, validate bool) error {
	b, err := loadBoard(cfg)
	if err != nil {
		return err
	}
	info := b.FindTask(taskID)
	if info == nil {
		return fmt.Errorf("Task %s not found", taskID)
	}
	if validate {
		if err := runValidation(ctx, cfg, *info.Task); err != nil {
			return err
		}
	}
	res := b.ArchiveTask(info.Column.ID, taskID)
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}
	if err := writeBoard(cfg, res.Board); err != nil {
		return err
	}
	fmt.Printf("Completed %s: %s\n", taskID, info.Task.Title)
	return nil
}

func doneSplit(ctx context.Context, cfg *config.Config, taskID string, validate bool, summary string) error {
	dirs, err := workspace.EnsureDirs(cfg.BoardFile)
	if err != nil {
		return err
	}
	found := workspace.FindTask(dirs, taskID, false)
	if found == nil {
		return fmt.Errorf("Task %s not found", taskID)
	}
	if !splitBoardConfig(cfg.BoardFile).Completable(found.Doc.Task.Type) {
		return fmt.Errorf("Type '%s' is not completable", found.Doc.Task.Type)
	}
	if validate {
		if err := runValidation(ctx, cfg, found.Doc.Task); err != nil {
			return err
		}
	}
	res := taskops.CompleteTaskFile(found.Path, dirs.Logs)
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}

	// The completed file's body may have grown a child tasks section;
	// prefer it for the ledger record.
	body := found.Doc.Body
	if doc := taskfile.Read(res.FilePath); doc != nil {
		body = doc.Body
	}
	opts := ledger.BuildOptions{Summary: summary}
	if found.Doc.Task.Column != "" {
		// Completion clears the column field, so the record's history
		// comes from the pre-completion placement.
		opts.ColumnHistory = []string{found.Doc.Task.Column}
	}
	record := ledger.BuildRecord(*res.Task, body, opts)
	if _, err := ledger.Append(dirs.Logs, record); err != nil {
		newLogger(cfg).WithField("task", taskID).Warnf("Recording completion in ledger: %v", err)
	}

	fmt.Printf("Completed %s: %s\n", taskID, res.Task.Title)
	return nil
}

// runValidation runs the task's contract commands and reports each
// outcome. A failing command fails the completion.
func runValidation(ctx context.Context, cfg *config.Config, task board.Task) error {
	if len(runner.Commands(task)) == 0 {
		fmt.Println("No validation commands, skipping validation.")
		return nil
	}

	r := runner.New(newLogger(cfg))
	if cfg.ValidationTimeoutSeconds > 0 {
		r.Timeout = time.Duration(cfg.ValidationTimeoutSeconds) * time.Second
	}
	report := r.Run(ctx, task, cfg.ProjectRoot)
	for _, result := range report.Results {
		icon := "✅"
		if !result.Passed {
			icon = "❌"
		}
		fmt.Printf("  %s %s (exit %d, %s)\n", icon, result.Command, result.ExitCode, result.Duration.Round(time.Millisecond))
	}
	fmt.Println(runner.Summarize(report))
	if !report.Passed {
		return fmt.Errorf("validation failed")
	}
	return nil
}

// restoreCommand brings a completed task back onto the board.
func restoreCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile restore", flag.ContinueOnError)
	column := fs.String("column", "", "Target column id (default from config)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return fmt.Errorf("usage: brainfile restore <task-id> [options]")
	}
	taskID := remaining[0]

	columnID := *column
	if columnID == "" {
		columnID = cfg.DefaultColumn
	}

	if workspace.IsSplit(cfg.BoardFile) {
		dirs := workspace.DirsFor(cfg.BoardFile)
		if err := splitBoardConfig(cfg.BoardFile).ValidateColumn(columnID); err != nil {
			return err
		}
		found := workspace.FindTask(dirs, taskID, true)
		if found == nil {
			return fmt.Errorf("Task %s not found", taskID)
		}
		if !found.IsLog {
			return fmt.Errorf("Task %s is not completed", taskID)
		}
		res := taskops.RestoreTaskFile(found.Path, dirs.Board, columnID)
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}
		fmt.Printf("Restored %s to %s\n", taskID, columnID)
		return nil
	}

	b, err := loadBoard(cfg)
	if err != nil {
		return err
	}
	res := b.RestoreTask(taskID, columnID)
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}
	if err := writeBoard(cfg, res.Board); err != nil {
		return err
	}
	fmt.Printf("Restored %s to %s\n", taskID, columnID)
	return nil
}

// subtaskCommand manages a task's checklist: add appends an item,
// toggle flips one, done marks listed items (or all) completed.
func subtaskCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile subtask", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) < 2 {
		return fmt.Errorf("usage: brainfile subtask <add|toggle|done> <task-id> [args]")
	}
	op, taskID := remaining[0], remaining[1]
	rest := remaining[2:]

	if workspace.IsSplit(cfg.BoardFile) {
		dirs := workspace.DirsFor(cfg.BoardFile)
		found := workspace.FindTask(dirs, taskID, false)
		if found == nil {
			return fmt.Errorf("Task %s not found", taskID)
		}
		var res taskops.Result
		switch op {
		case "add":
			res = taskops.AddSubtaskFile(found.Path, strings.Join(rest, " "))
		case "toggle":
			if len(rest) != 1 {
				return fmt.Errorf("usage: brainfile subtask toggle <task-id> <subtask-id>")
			}
			res = taskops.ToggleSubtaskFile(found.Path, rest[0])
		case "done":
			res = taskops.CompleteSubtasksFile(found.Path, rest)
		default:
			return fmt.Errorf("unknown subtask operation: %s", op)
		}
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}
		printSubtasks(*res.Task)
		return nil
	}

	b, err := loadBoard(cfg)
	if err != nil {
		return err
	}
	var res board.OperationResult
	switch op {
	case "add":
		res = b.AddSubtask(taskID, strings.Join(rest, " "))
	case "toggle":
		if len(rest) != 1 {
			return fmt.Errorf("usage: brainfile subtask toggle <task-id> <subtask-id>")
		}
		res = b.ToggleSubtask(taskID, rest[0])
	case "done":
		if len(rest) == 0 {
			res = b.SetAllSubtasksCompleted(taskID, true)
		} else {
			res = b.SetSubtasksCompleted(taskID, rest, true)
		}
	default:
		return fmt.Errorf("unknown subtask operation: %s", op)
	}
	if !res.Success {
		return fmt.Errorf("%s", res.Error)
	}
	if err := writeBoard(cfg, res.Board); err != nil {
		return err
	}
	printSubtasks(*res.Board.FindTask(taskID).Task)
	return nil
}

// printSubtasks shows a task's checklist state.
func printSubtasks(t board.Task) {
	for _, st := range t.Subtasks {
		mark := " "
		if st.Completed {
			mark = "x"
		}
		fmt.Printf("  [%s] %s %s\n", mark, st.ID, st.Title)
	}
}
