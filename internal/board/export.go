package board

import (
	"fmt"
	"strings"
)

// GitHubIssue is the payload for creating a GitHub issue from a task.
type GitHubIssue struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
	State  string   `json:"state"`
}

// GitHubIssueOptions controls GitHub payload assembly.
type GitHubIssueOptions struct {
	IncludeMeta         bool
	IncludeSubtasks     bool
	IncludeRelatedFiles bool
	// IncludeTaskID prefixes the title with "[task-N]".
	IncludeTaskID bool
	ResolvedBy    string
	ResolvedByPR  string
	FromColumn    string
	BoardTitle    string
	ExtraLabels   []string
}

// DefaultGitHubIssueOptions returns the standard GitHub export
// configuration: everything included.
func DefaultGitHubIssueOptions() GitHubIssueOptions {
	return GitHubIssueOptions{
		IncludeMeta:         true,
		IncludeSubtasks:     true,
		IncludeRelatedFiles: true,
		IncludeTaskID:       true,
	}
}

// LinearIssue is the payload for creating a Linear issue from a task.
type LinearIssue struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    *int     `json:"priority,omitempty"`
	LabelNames  []string `json:"labelNames,omitempty"`
	StateName   string   `json:"stateName"`
}

// LinearIssueOptions controls Linear payload assembly.
type LinearIssueOptions struct {
	IncludeMeta         bool
	IncludeSubtasks     bool
	IncludeRelatedFiles bool
	IncludeTaskID       bool
	ResolvedBy          string
	ResolvedByPR        string
	FromColumn          string
	BoardTitle          string
	// StateName defaults to "Done".
	StateName string
}

// DefaultLinearIssueOptions returns the standard Linear export
// configuration. Linear titles carry no task ID by default.
func DefaultLinearIssueOptions() LinearIssueOptions {
	return LinearIssueOptions{
		IncludeMeta:         true,
		IncludeSubtasks:     true,
		IncludeRelatedFiles: true,
		StateName:           "Done",
	}
}

const exportFooter = "---\n*Archived from brainfile.md*"

// GitHubIssuePayload formats a task as a closed GitHub issue. The body
// stacks description, subtask checklist, metadata, related files, and
// resolution sections; labels combine tags, extras, a priority label,
// and the template name.
func GitHubIssuePayload(task Task, opts GitHubIssueOptions) GitHubIssue {
	title := task.Title
	if opts.IncludeTaskID {
		title = fmt.Sprintf("[%s] %s", task.ID, task.Title)
	}

	sections := exportSections(task, exportContext{
		includeMeta:         opts.IncludeMeta,
		includeSubtasks:     opts.IncludeSubtasks,
		includeRelatedFiles: opts.IncludeRelatedFiles,
		resolvedBy:          opts.ResolvedBy,
		resolvedByPR:        opts.ResolvedByPR,
		fromColumn:          opts.FromColumn,
		boardTitle:          opts.BoardTitle,
	})

	var labels []string
	labels = append(labels, task.Tags...)
	labels = append(labels, opts.ExtraLabels...)
	if task.Priority != "" {
		labels = append(labels, "priority:"+string(task.Priority))
	}
	if task.Template != "" {
		labels = append(labels, string(task.Template))
	}

	return GitHubIssue{
		Title:  title,
		Body:   strings.Join(sections, "\n\n"),
		Labels: labels,
		State:  "closed",
	}
}

// LinearIssuePayload formats a task as a Linear issue with the
// priority mapped onto Linear's 1 (urgent) to 4 (low) scale.
func LinearIssuePayload(task Task, opts LinearIssueOptions) LinearIssue {
	title := task.Title
	if opts.IncludeTaskID {
		title = fmt.Sprintf("[%s] %s", task.ID, task.Title)
	}

	sections := exportSections(task, exportContext{
		includeMeta:         opts.IncludeMeta,
		includeSubtasks:     opts.IncludeSubtasks,
		includeRelatedFiles: opts.IncludeRelatedFiles,
		resolvedBy:          opts.ResolvedBy,
		resolvedByPR:        opts.ResolvedByPR,
		fromColumn:          opts.FromColumn,
		boardTitle:          opts.BoardTitle,
	})

	stateName := opts.StateName
	if stateName == "" {
		stateName = "Done"
	}

	var labelNames []string
	if len(task.Tags) > 0 {
		labelNames = append(labelNames, task.Tags...)
	}

	return LinearIssue{
		Title:       title,
		Description: strings.Join(sections, "\n\n"),
		Priority:    linearPriority(task.Priority),
		LabelNames:  labelNames,
		StateName:   stateName,
	}
}

type exportContext struct {
	includeMeta         bool
	includeSubtasks     bool
	includeRelatedFiles bool
	resolvedBy          string
	resolvedByPR        string
	fromColumn          string
	boardTitle          string
}

func exportSections(task Task, ctx exportContext) []string {
	var sections []string

	if task.Description != "" {
		sections = append(sections, task.Description)
	}
	if ctx.includeSubtasks && len(task.Subtasks) > 0 {
		sections = append(sections, subtaskChecklist(task.Subtasks))
	}
	if ctx.includeMeta {
		if meta := metadataSection(task, ctx.boardTitle, ctx.fromColumn); meta != "" {
			sections = append(sections, meta)
		}
	}
	if ctx.includeRelatedFiles && len(task.RelatedFiles) > 0 {
		sections = append(sections, relatedFilesSection(task.RelatedFiles))
	}
	if ctx.resolvedBy != "" || ctx.resolvedByPR != "" {
		sections = append(sections, resolutionSection(ctx.resolvedBy, ctx.resolvedByPR))
	}

	return append(sections, exportFooter)
}

func subtaskChecklist(subtasks []Subtask) string {
	lines := make([]string, len(subtasks))
	for i, st := range subtasks {
		mark := " "
		if st.Completed {
			mark = "x"
		}
		lines[i] = fmt.Sprintf("- [%s] %s", mark, st.Title)
	}
	return "## Subtasks\n\n" + strings.Join(lines, "\n")
}

func metadataSection(task Task, boardTitle, fromColumn string) string {
	var lines []string
	if boardTitle != "" {
		lines = append(lines, "**Board:** "+boardTitle)
	}
	if fromColumn != "" {
		lines = append(lines, "**Column:** "+fromColumn)
	}
	if task.Priority != "" {
		lines = append(lines, "**Priority:** "+string(task.Priority))
	}
	if task.Assignee != "" {
		lines = append(lines, "**Assignee:** "+task.Assignee)
	}
	if task.DueDate != "" {
		lines = append(lines, "**Due Date:** "+task.DueDate)
	}
	if task.CreatedAt != "" {
		lines = append(lines, "**Created:** "+task.CreatedAt)
	}
	if len(lines) == 0 {
		return ""
	}
	return "## Details\n\n" + strings.Join(lines, "\n")
}

func relatedFilesSection(files []string) string {
	lines := make([]string, len(files))
	for i, file := range files {
		lines[i] = fmt.Sprintf("- `%s`", file)
	}
	return "## Related Files\n\n" + strings.Join(lines, "\n")
}

func resolutionSection(resolvedBy, resolvedByPR string) string {
	section := "## Resolution"
	if resolvedByPR != "" {
		section += "\n**Pull Request:** " + resolvedByPR
	}
	if resolvedBy != "" {
		section += "\n**Commit:** " + resolvedBy
	}
	return section
}

// linearPriority maps a task priority to Linear's numeric scale.
// Unknown non-empty priorities map to 0 (no priority).
func linearPriority(p Priority) *int {
	if p == "" {
		return nil
	}
	var n int
	switch Priority(strings.ToLower(string(p))) {
	case PriorityCritical:
		n = 1
	case PriorityHigh:
		n = 2
	case PriorityMedium:
		n = 3
	case PriorityLow:
		n = 4
	default:
		n = 0
	}
	return &n
}
