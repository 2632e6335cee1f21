package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/config"
	"github.com/nibzard/brainfile-go/internal/taskops"
	"github.com/nibzard/brainfile-go/internal/templates"
	"github.com/nibzard/brainfile-go/internal/workspace"
)

// templatesCommand works with built-in task templates.
func templatesCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: brainfile templates <list|show|apply> [options]")
	}
	switch args[0] {
	case "list":
		return templatesList(args[1:])
	case "show":
		return templatesShow(args[1:])
	case "apply":
		return templatesApply(cfg, args[1:])
	default:
		return fmt.Errorf("unknown templates operation: %s (expected list, show, or apply)", args[0])
	}
}

func templatesList(args []string) error {
	fs := flag.NewFlagSet("brainfile templates list", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	for _, tmpl := range templates.BuiltIn {
		fmt.Printf("%-16s %s\n", tmpl.ID, tmpl.Name)
	}
	return nil
}

func templatesShow(args []string) error {
	fs := flag.NewFlagSet("brainfile templates show", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return fmt.Errorf("usage: brainfile templates show <id>")
	}
	tmpl := templates.ByID(remaining[0])
	if tmpl == nil {
		return fmt.Errorf("unknown template: %s (available: %s)", remaining[0], strings.Join(templates.IDs(), ", "))
	}

	fmt.Printf("%s (%s)\n", tmpl.Name, tmpl.ID)
	fmt.Println(tmpl.Description)
	fmt.Println()
	fmt.Printf("Priority: %s\n", tmpl.Task.Priority)
	if len(tmpl.Task.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(tmpl.Task.Tags, ", "))
	}
	if len(tmpl.Task.Subtasks) > 0 {
		fmt.Println("Subtasks:")
		for _, st := range tmpl.Task.Subtasks {
			fmt.Printf("  - %s\n", st.Title)
		}
	}
	if len(tmpl.Variables) > 0 {
		fmt.Println("Variables:")
		for _, v := range tmpl.Variables {
			required := ""
			if v.Required {
				required = " (required)"
			}
			fmt.Printf("  %s%s: %s\n", v.Name, required, v.Description)
		}
	}
	return nil
}

// templatesApply instantiates a template and adds the result to the
// board.
func templatesApply(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile templates apply", flag.ContinueOnError)
	column := fs.String("column", "", "Target column id (default from config)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return fmt.Errorf("usage: brainfile templates apply <id> [name=value ...]")
	}
	tmpl := templates.ByID(remaining[0])
	if tmpl == nil {
		return fmt.Errorf("unknown template: %s (available: %s)", remaining[0], strings.Join(templates.IDs(), ", "))
	}

	values := make(map[string]string)
	for _, arg := range remaining[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected name=value, got %q", arg)
		}
		values[name] = value
	}
	for _, v := range tmpl.Variables {
		if v.Required && strings.TrimSpace(values[v.Name]) == "" {
			return fmt.Errorf("missing required variable %s (%s)", v.Name, v.Description)
		}
	}

	task := templates.Process(*tmpl, values)
	columnID := *column
	if columnID == "" {
		columnID = cfg.DefaultColumn
	}

	input := board.TaskInput{
		Title:        task.Title,
		Description:  task.Description,
		Priority:     string(task.Priority),
		Assignee:     task.Assignee,
		DueDate:      task.DueDate,
		Tags:         task.Tags,
		RelatedFiles: task.RelatedFiles,
		Template:     string(task.Template),
	}
	for _, st := range task.Subtasks {
		input.Subtasks = append(input.Subtasks, st.Title)
	}

	if workspace.IsSplit(cfg.BoardFile) {
		dirs, err := workspace.EnsureDirs(cfg.BoardFile)
		if err != nil {
			return err
		}
		res := taskops.AddTaskFile(dirs.Board, taskops.Input{TaskInput: input, Column: columnID}, "", dirs.Logs)
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
