package templates

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/nibzard/brainfile-go/internal/board"
)

func TestBuiltInCatalog(t *testing.T) {
	if got := IDs(); !reflect.DeepEqual(got, []string{"bug-report", "feature-request", "refactor"}) {
		t.Fatalf("IDs() = %v", got)
	}
	for _, tmpl := range BuiltIn {
		if !tmpl.BuiltIn {
			t.Errorf("template %s not marked built-in", tmpl.ID)
		}
		if tmpl.Task.ID != "" {
			t.Errorf("template %s carries a task ID %q, want none", tmpl.ID, tmpl.Task.ID)
		}
		if len(tmpl.Variables) == 0 {
			t.Errorf("template %s has no variables", tmpl.ID)
		}
	}
}

func TestByID(t *testing.T) {
	tmpl := ByID("bug-report")
	if tmpl == nil {
		t.Fatal("ByID(bug-report) = nil")
	}
	if tmpl.Name != "Bug Report" || tmpl.Task.Priority != board.PriorityHigh {
		t.Errorf("ByID(bug-report) = %s/%s, want Bug Report/high", tmpl.Name, tmpl.Task.Priority)
	}
	if got := ByID("nonexistent"); got != nil {
		t.Errorf("ByID(nonexistent) = %+v, want nil", got)
	}
}

func TestUniqueTaskID(t *testing.T) {
	re := regexp.MustCompile(`^task-\d+-[a-z0-9]{9}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := UniqueTaskID()
		if !re.MatchString(id) {
			t.Fatalf("UniqueTaskID() = %q, want task-<ms>-<9 chars>", id)
		}
		if seen[id] {
			t.Fatalf("UniqueTaskID() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestProcess(t *testing.T) {
	tmpl := ByID("bug-report")
	task := Process(*tmpl, map[string]string{
		"title":       "Login fails on Safari",
		"description": "Session cookie is dropped.",
	})

	if task.Title != "Login fails on Safari" {
		t.Errorf("Title = %q", task.Title)
	}
	if !strings.Contains(task.Description, "## Bug Description\nSession cookie is dropped.") {
		t.Errorf("Description = %q, want substituted bug description", task.Description)
	}
	if !strings.Contains(task.Description, "## Steps to Reproduce") {
		t.Errorf("Description lost template scaffolding: %q", task.Description)
	}
	if task.ID != "" {
		t.Errorf("ID = %q, want empty until added to a board", task.ID)
	}
	if task.Priority != board.PriorityHigh || task.Template != board.TemplateBug {
		t.Errorf("task = %s/%s, want high/bug", task.Priority, task.Template)
	}
}

func TestProcessKeepsUnknownPlaceholders(t *testing.T) {
	tmpl := Template{
		Task: board.Task{
			Title:       "{title} in {area}",
			Description: "{missing}",
		},
	}
	task := Process(tmpl, map[string]string{"title": "Crash"})

	if task.Title != "Crash in {area}" {
		t.Errorf("Title = %q, want unknown placeholder kept", task.Title)
	}
	if task.Description != "{missing}" {
		t.Errorf("Description = %q, want {missing} kept", task.Description)
	}
}

func TestProcessRekeysSubtasks(t *testing.T) {
	tmpl := ByID("refactor")
	task := Process(*tmpl, map[string]string{"area": "parser", "description": "Too tangled."})

	if task.Title != "Refactor: parser" {
		t.Errorf("Title = %q, want Refactor: parser", task.Title)
	}
	if len(task.Subtasks) != 6 {
		t.Fatalf("len(Subtasks) = %d, want 6", len(task.Subtasks))
	}

	re := regexp.MustCompile(`^task-\d+-[a-z0-9]{9}-\d+$`)
	for i, subtask := range task.Subtasks {
		if !re.MatchString(subtask.ID) {
			t.Errorf("Subtasks[%d].ID = %q, want re-keyed unique ID", i, subtask.ID)
		}
		if subtask.ID == tmpl.Task.Subtasks[i].ID {
			t.Errorf("Subtasks[%d].ID = %q, template ID leaked through", i, subtask.ID)
		}
		if subtask.Title != tmpl.Task.Subtasks[i].Title {
			t.Errorf("Subtasks[%d].Title = %q, want %q", i, subtask.Title, tmpl.Task.Subtasks[i].Title)
		}
	}

	if !strings.HasSuffix(task.Subtasks[0].ID, "-1") || !strings.HasSuffix(task.Subtasks[5].ID, "-6") {
		t.Errorf("subtask indices = %q ... %q, want -1 through -6", task.Subtasks[0].ID, task.Subtasks[5].ID)
	}
}

func TestProcessDoesNotMutateTemplate(t *testing.T) {
	tmpl := ByID("feature-request")
	before := tmpl.Task.Clone()

	Process(*tmpl, map[string]string{"title": "X", "description": "Y"})

	if !reflect.DeepEqual(tmpl.Task, before) {
		t.Error("Process() mutated the built-in template")
	}
}
