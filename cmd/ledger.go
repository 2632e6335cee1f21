package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/config"
	"github.com/nibzard/brainfile-go/internal/ledger"
	"github.com/nibzard/brainfile-go/internal/utils"
	"github.com/nibzard/brainfile-go/internal/workspace"
)

// ledgerCommand searches the completion ledger.
func ledgerCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: brainfile ledger <query|history|context> [options]")
	}
	switch args[0] {
	case "query":
		return ledgerQuery(cfg, args[1:])
	case "history":
		return ledgerHistory(cfg, args[1:])
	case "context":
		return ledgerContext(cfg, args[1:])
	default:
		return fmt.Errorf("unknown ledger operation: %s (expected query, history, or context)", args[0])
	}
}

// ledgerQuery lists completion records passing every given filter.
func ledgerQuery(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile ledger query", flag.ContinueOnError)
	assignee := fs.String("assignee", "", "Filter by assignee")
	tags := fs.String("tags", "", "Comma-separated tags (any match)")
	status := fs.String("status", "", "Comma-separated contract statuses")
	files := fs.String("files", "", "Comma-separated file paths (any match)")
	from := fs.String("from", "", "Completed on or after (ISO 8601)")
	to := fs.String("to", "", "Completed on or before (ISO 8601)")
	asJSON := fs.Bool("json", false, "Output records as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logsDir := workspace.DirsFor(cfg.BoardFile).Logs
	records := ledger.NewReader(newLogger(cfg)).Query(logsDir, ledger.QueryFilters{
		Assignee:       *assignee,
		Tags:           utils.SplitAndTrim(*tags, ","),
		ContractStatus: utils.SplitAndTrim(*status, ","),
		Files:          utils.SplitAndTrim(*files, ","),
		DateRange:      dateRange(*from, *to),
	})
	return printRecords(records, *asJSON)
}

// ledgerHistory lists the records that changed one file, newest first.
func ledgerHistory(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile ledger history", flag.ContinueOnError)
	limit := fs.Int("limit", 0, "Maximum records to return (0 = all)")
	from := fs.String("from", "", "Completed on or after (ISO 8601)")
	to := fs.String("to", "", "Completed on or before (ISO 8601)")
	asJSON := fs.Bool("json", false, "Output records as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return fmt.Errorf("usage: brainfile ledger history <file> [options]")
	}

	logsDir := workspace.DirsFor(cfg.BoardFile).Logs
	records := ledger.NewReader(newLogger(cfg)).FileHistory(logsDir, remaining[0], ledger.HistoryOptions{
		Limit:     *limit,
		DateRange: dateRange(*from, *to),
	})
	return printRecords(records, *asJSON)
}

// ledgerContext shows prior completed work that touched the files a
// task is about to touch.
func ledgerContext(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("brainfile ledger context", flag.ContinueOnError)
	limit := fs.Int("limit", 0, "Maximum entries to return (0 = all)")
	asJSON := fs.Bool("json", false, "Output entries as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return fmt.Errorf("usage: brainfile ledger context <task-id> [options]")
	}
	taskID := remaining[0]

	related, deliverables, err := taskScope(cfg, taskID)
	if err != nil {
		return err
	}
	if len(related) == 0 && len(deliverables) == 0 {
		fmt.Printf("Task %s has no related files or deliverables.\n", taskID)
		return nil
	}

	logsDir := workspace.DirsFor(cfg.BoardFile).Logs
	entries := ledger.NewReader(newLogger(cfg)).TaskContext(logsDir, related, deliverables, ledger.ContextOptions{
		Limit: *limit,
	})

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No earlier work touched these files.")
		return nil
	}
	for _, e := range entries {
		printRecord(e.Record)
		fmt.Printf("    matched: %s\n", strings.Join(e.MatchedFiles, ", "))
	}
	fmt.Printf("%d record(s)\n", len(entries))
	return nil
}

// taskScope returns the related files and deliverable paths of a task
// anywhere in the workspace, completed tasks included.
func taskScope(cfg *config.Config, taskID string) ([]string, []string, error) {
	var t *board.Task
	if workspace.IsSplit(cfg.BoardFile) {
		found := workspace.FindTask(workspace.DirsFor(cfg.BoardFile), taskID, true)
		if found == nil {
			return nil, nil, fmt.Errorf("task %s not found", taskID)
		}
		t = &found.Doc.Task
	} else {
		b, err := loadBoard(cfg)
		if err != nil {
			return nil, nil, err
		}
		if info := b.FindTask(taskID); info != nil {
			t = info.Task
		} else {
			for i := range b.Archive {
				if b.Archive[i].ID == taskID {
					t = &b.Archive[i]
					break
				}
			}
		}
		if t == nil {
			return nil, nil, fmt.Errorf("task %s not found", taskID)
		}
	}

	var deliverables []string
	if t.Contract != nil {
		for _, d := range t.Contract.Deliverables {
			if d.Path != "" {
				deliverables = append(deliverables, d.Path)
			}
		}
	}
	return t.RelatedFiles, deliverables, nil
}

// dateRange builds a bounds filter, nil when both ends are open.
func dateRange(from, to string) *ledger.DateRange {
	if from == "" && to == "" {
		return nil
	}
	return &ledger.DateRange{From: from, To: to}
}

func printRecords(records []ledger.Record, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}
	for _, r := range records {
		printRecord(r)
	}
	fmt.Printf("%d record(s)\n", len(records))
	return nil
}

// printRecord renders one completion record.
func printRecord(r ledger.Record) {
	line := fmt.Sprintf("%s  %s", r.ID, r.Title)
	if r.ContractStatus != "" {
		line += fmt.Sprintf("  [%s]", r.ContractStatus)
	}
	fmt.Println(line)
	if r.CompletedAt != "" {
		fmt.Printf("    completed: %s (%.1fh cycle)\n", r.CompletedAt, r.CycleTimeHours)
	}
	if r.Assignee != "" {
		fmt.Printf("    assignee: %s\n", r.Assignee)
	}
	if len(r.Tags) > 0 {
		fmt.Printf("    tags: %s\n", strings.Join(r.Tags, ", "))
	}
	if len(r.FilesChanged) > 0 {
		fmt.Printf("    files: %s\n", strings.Join(r.FilesChanged, ", "))
	}
	if r.Summary != "" {
		fmt.Printf("    summary: %s\n", r.Summary)
	}
}
