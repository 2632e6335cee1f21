// Package templates provides built-in task templates and the variable
// substitution that instantiates them.
package templates

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/brainfile-go/internal/board"
)

// Variable describes one placeholder a template expects.
type Variable struct {
	Name        string
	Description string
	Required    bool
}

// Template is a reusable task skeleton. Task.Title and
// Task.Description may contain {name} placeholders matching Variables.
type Template struct {
	ID          string
	Name        string
	Description string
	BuiltIn     bool
	Task        board.Task
	Variables   []Variable
}

// BuiltIn holds the standard templates, in display order.
var BuiltIn = []Template{
	{
		ID:          "bug-report",
		Name:        "Bug Report",
		Description: "Template for reporting bugs and issues",
		BuiltIn:     true,
		Task: board.Task{
			Title: "{title}",
			Description: "## Bug Description\n{description}\n\n" +
				"## Steps to Reproduce\n1. \n2. \n3. \n\n" +
				"## Expected Behavior\n\n" +
				"## Actual Behavior\n\n" +
				"## Environment\n- OS: \n- Version: ",
			Template: board.TemplateBug,
			Priority: board.PriorityHigh,
			Tags:     []string{"bug", "needs-triage"},
			Subtasks: []board.Subtask{
				{ID: "bug-1", Title: "Reproduce the issue"},
				{ID: "bug-2", Title: "Identify root cause"},
				{ID: "bug-3", Title: "Implement fix"},
				{ID: "bug-4", Title: "Write tests"},
				{ID: "bug-5", Title: "Verify fix in production"},
			},
		},
		Variables: []Variable{
			{Name: "title", Description: "Brief bug title", Required: true},
			{Name: "description", Description: "Detailed bug description", Required: true},
		},
	},
	{
		ID:          "feature-request",
		Name:        "Feature Request",
		Description: "Template for proposing new features",
		BuiltIn:     true,
		Task: board.Task{
			Title: "{title}",
			Description: "## Feature Description\n{description}\n\n" +
				"## Use Cases\n- \n- \n\n" +
				"## Proposed Implementation\n\n" +
				"## Acceptance Criteria\n- [ ] \n- [ ] ",
			Template: board.TemplateFeature,
			Priority: board.PriorityMedium,
			Tags:     []string{"feature", "enhancement"},
			Subtasks: []board.Subtask{
				{ID: "feature-1", Title: "Design specification"},
				{ID: "feature-2", Title: "Implement core functionality"},
				{ID: "feature-3", Title: "Add unit tests"},
				{ID: "feature-4", Title: "Add integration tests"},
				{ID: "feature-5", Title: "Update documentation"},
				{ID: "feature-6", Title: "Code review"},
			},
		},
		Variables: []Variable{
			{Name: "title", Description: "Feature title", Required: true},
			{Name: "description", Description: "Feature description and rationale", Required: true},
		},
	},
	{
		ID:          "refactor",
		Name:        "Code Refactor",
		Description: "Template for code refactoring tasks",
		BuiltIn:     true,
		Task: board.Task{
			Title: "Refactor: {area}",
			Description: "## Refactoring Scope\n{description}\n\n" +
				"## Motivation\n- \n\n" +
				"## Changes\n- [ ] \n- [ ] \n\n" +
				"## Testing Plan\n",
			Template: board.TemplateRefactor,
			Priority: board.PriorityLow,
			Tags:     []string{"refactor", "technical-debt"},
			Subtasks: []board.Subtask{
				{ID: "refactor-1", Title: "Analyze current implementation"},
				{ID: "refactor-2", Title: "Design new structure"},
				{ID: "refactor-3", Title: "Implement refactoring"},
				{ID: "refactor-4", Title: "Update/add tests"},
				{ID: "refactor-5", Title: "Update documentation"},
				{ID: "refactor-6", Title: "Performance testing"},
			},
		},
		Variables: []Variable{
			{Name: "area", Description: "Area or component to refactor", Required: true},
			{Name: "description", Description: "Details about what needs refactoring", Required: true},
		},
	},
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// UniqueTaskID returns a collision-resistant task ID built from the
// current time and a random suffix, for contexts with no board to scan
// for the next sequential number.
func UniqueTaskID() string {
	var suffix strings.Builder
	for i := 0; i < 9; i++ {
		suffix.WriteByte(idAlphabet[rand.Intn(len(idAlphabet))])
	}
	return "task-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + suffix.String()
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// substitute replaces {name} placeholders with values. Placeholders
// with no value stay as written.
func substitute(text string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})
}

// Process instantiates a template: substitutes variables into the
// title and description and re-keys subtasks under a fresh unique ID
// so repeated instantiations never collide. The returned task has no
// ID; the caller assigns one when adding it to a board.
func Process(tmpl Template, values map[string]string) board.Task {
	task := tmpl.Task.Clone()
	task.Title = substitute(task.Title, values)
	task.Description = substitute(task.Description, values)

	if len(task.Subtasks) > 0 {
		base := UniqueTaskID()
		for i := range task.Subtasks {
			task.Subtasks[i].ID = board.SubtaskID(base, i+1)
		}
	}
	return task
}

// ByID returns the built-in template with the given ID, or nil.
func ByID(templateID string) *Template {
	for i := range BuiltIn {
		if BuiltIn[i].ID == templateID {
			return &BuiltIn[i]
		}
	}
	return nil
}

// IDs returns the IDs of every built-in template.
func IDs() []string {
	ids := make([]string, len(BuiltIn))
	for i, tmpl := range BuiltIn {
		ids[i] = tmpl.ID
	}
	return ids
}
