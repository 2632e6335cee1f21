package board

import (
	"strconv"
)

// idSortKey extracts the numeric value from a task ID for sorting.
// For IDs like "task-1", "task-2", "task-10", it returns 1, 2, 10
// respectively. If the ID doesn't contain a number, it returns -1.
func idSortKey(id string) int {
	// Find the numeric part after the prefix
	i := 0
	for i < len(id) && (id[i] < '0' || id[i] > '9') {
		i++
	}
	if i == len(id) {
		return -1
	}
	num, err := strconv.Atoi(id[i:])
	if err != nil {
		return -1
	}
	return num
}

// CompareIDs returns true if id1 should come before id2 in numeric-aware
// ordering. If both IDs have numeric parts, compares numerically.
// Otherwise falls back to lexicographic comparison.
func CompareIDs(id1, id2 string) bool {
	k1 := idSortKey(id1)
	k2 := idSortKey(id2)
	if k1 >= 0 && k2 >= 0 {
		if k1 != k2 {
			return k1 < k2
		}
		return id1 < id2
	}
	return id1 < id2
}

// TypeBoard is the type discriminator carried by board documents.
const TypeBoard = "board"

// Priority represents a task priority level.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a recognized priority level.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// ParsePriority returns the priority named by s, or false if s is not
// a recognized level. Unrecognized values are dropped rather than
// carried through, so a bad priority never survives a mutation.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(s)
	if p.Valid() {
		return p, true
	}
	return "", false
}

// Template identifies a built-in task template.
type Template string

const (
	TemplateBug      Template = "bug"
	TemplateFeature  Template = "feature"
	TemplateRefactor Template = "refactor"
)

// Valid reports whether t is a recognized built-in template.
func (t Template) Valid() bool {
	switch t {
	case TemplateBug, TemplateFeature, TemplateRefactor:
		return true
	}
	return false
}

// ParseTemplate returns the template named by s, or false if s is not
// a recognized built-in template.
func ParseTemplate(s string) (Template, bool) {
	t := Template(s)
	if t.Valid() {
		return t, true
	}
	return "", false
}

// ContractStatus represents the lifecycle state of a task contract.
type ContractStatus string

const (
	ContractDraft      ContractStatus = "draft"
	ContractReady      ContractStatus = "ready"
	ContractInProgress ContractStatus = "in_progress"
	ContractDelivered  ContractStatus = "delivered"
	ContractDone       ContractStatus = "done"
	ContractFailed     ContractStatus = "failed"
)

// Valid reports whether s is a recognized contract status.
func (s ContractStatus) Valid() bool {
	switch s {
	case ContractDraft, ContractReady, ContractInProgress,
		ContractDelivered, ContractDone, ContractFailed:
		return true
	}
	return false
}

// Rule is a single numbered project rule.
type Rule struct {
	ID   int    `json:"id" yaml:"id"`
	Rule string `json:"rule" yaml:"rule"`
}

// Rules groups project rules by how strongly they bind.
type Rules struct {
	Always  []Rule `json:"always,omitempty" yaml:"always,omitempty"`
	Never   []Rule `json:"never,omitempty" yaml:"never,omitempty"`
	Prefer  []Rule `json:"prefer,omitempty" yaml:"prefer,omitempty"`
	Context []Rule `json:"context,omitempty" yaml:"context,omitempty"`
}

// AgentInstructions carries instructions for AI agents working the board.
type AgentInstructions struct {
	Instructions []string `json:"instructions" yaml:"instructions"`
	LLMNotes     string   `json:"llmNotes,omitempty" yaml:"llmNotes,omitempty"`
}

// StatsConfig selects which columns appear in board statistics.
type StatsConfig struct {
	// Columns holds column IDs to display in stats (max 4).
	Columns []string `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// Subtask is a checklist item belonging to a task.
type Subtask struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Deliverable is a single artifact a contract promises to produce.
type Deliverable struct {
	// Type is the deliverable kind: "file", "test", "doc", "link",
	// "other", or any custom string.
	Type        string `json:"type" yaml:"type"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ValidationConfig holds shell commands for validating contract deliverables.
type ValidationConfig struct {
	Commands []string `json:"commands,omitempty" yaml:"commands,omitempty"`
}

// ContractContext carries background needed to understand a contract.
type ContractContext struct {
	Background    string   `json:"background,omitempty" yaml:"background,omitempty"`
	RelevantFiles []string `json:"relevantFiles,omitempty" yaml:"relevantFiles,omitempty"`
	OutOfScope    []string `json:"outOfScope,omitempty" yaml:"outOfScope,omitempty"`
}

// ContractMetrics tracks contract lifecycle timing.
type ContractMetrics struct {
	PickedUpAt  string `json:"pickedUpAt,omitempty" yaml:"pickedUpAt,omitempty"`
	DeliveredAt string `json:"deliveredAt,omitempty" yaml:"deliveredAt,omitempty"`
	// Duration is minutes from pickup to delivery.
	Duration    *int `json:"duration,omitempty" yaml:"duration,omitempty"`
	ReworkCount *int `json:"reworkCount,omitempty" yaml:"reworkCount,omitempty"`
}

// Contract is the full agent work contract attached to a task.
type Contract struct {
	Status       ContractStatus    `json:"status" yaml:"status"`
	Deliverables []Deliverable     `json:"deliverables,omitempty" yaml:"deliverables,omitempty"`
	Validation   *ValidationConfig `json:"validation,omitempty" yaml:"validation,omitempty"`
	Constraints  []string          `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Context      *ContractContext  `json:"context,omitempty" yaml:"context,omitempty"`
	Metrics      *ContractMetrics  `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// Task is a single card on the board.
//
// Timestamps are ISO 8601 strings rather than time.Time: they pass
// through from the file unchanged, and reformatting them would make
// every read-write cycle look like an edit.
type Task struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	ParentID     string    `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	RelatedFiles []string  `json:"relatedFiles,omitempty" yaml:"relatedFiles,omitempty"`
	Assignee     string    `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Tags         []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Priority     Priority  `json:"priority,omitempty" yaml:"priority,omitempty"`
	DueDate      string    `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Subtasks     []Subtask `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
	Template     Template  `json:"template,omitempty" yaml:"template,omitempty"`
	CreatedAt    string    `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt    string    `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	CompletedAt  string    `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`

	// Distributed-format fields. Column and Position place a task file
	// on the board; embedded board tasks derive both from where they sit.
	Column   string    `json:"column,omitempty" yaml:"column,omitempty"`
	Position *int      `json:"position,omitempty" yaml:"position,omitempty"`
	Contract *Contract `json:"contract,omitempty" yaml:"contract,omitempty"`
	Type     string    `json:"type,omitempty" yaml:"type,omitempty"`
}

// IsZero returns true if the task is empty (has no ID).
func (t Task) IsZero() bool {
	return t.ID == ""
}

// Column is one lane of the board, holding tasks in order.
type Column struct {
	ID               string `json:"id" yaml:"id"`
	Title            string `json:"title" yaml:"title"`
	Order            *int   `json:"order,omitempty" yaml:"order,omitempty"`
	CompletionColumn *bool  `json:"completionColumn,omitempty" yaml:"completionColumn,omitempty"`
	Tasks            []Task `json:"tasks" yaml:"tasks"`
}

// Board is a kanban-style task board. It is a plain value: operations
// never modify one in place, they clone it and return the clone.
type Board struct {
	Title           string             `json:"title" yaml:"title"`
	Type            string             `json:"type,omitempty" yaml:"type,omitempty"`
	SchemaURL       string             `json:"schema,omitempty" yaml:"schema,omitempty"`
	ProtocolVersion string             `json:"protocolVersion,omitempty" yaml:"protocolVersion,omitempty"`
	Agent           *AgentInstructions `json:"agent,omitempty" yaml:"agent,omitempty"`
	Rules           *Rules             `json:"rules,omitempty" yaml:"rules,omitempty"`
	Columns         []Column           `json:"columns" yaml:"columns"`
	Archive         []Task             `json:"archive,omitempty" yaml:"archive,omitempty"`
	StatsConfig     *StatsConfig       `json:"statsConfig,omitempty" yaml:"statsConfig,omitempty"`
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBoolPtr(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneRules(rules []Rule) []Rule {
	if rules == nil {
		return nil
	}
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Clone returns a deep copy of the agent instructions.
func (a *AgentInstructions) Clone() *AgentInstructions {
	if a == nil {
		return nil
	}
	out := *a
	out.Instructions = cloneStrings(a.Instructions)
	return &out
}

// Clone returns a deep copy of the rules.
func (r *Rules) Clone() *Rules {
	if r == nil {
		return nil
	}
	return &Rules{
		Always:  cloneRules(r.Always),
		Never:   cloneRules(r.Never),
		Prefer:  cloneRules(r.Prefer),
		Context: cloneRules(r.Context),
	}
}

// Clone returns a deep copy of the stats config.
func (s *StatsConfig) Clone() *StatsConfig {
	if s == nil {
		return nil
	}
	return &StatsConfig{Columns: cloneStrings(s.Columns)}
}

// Clone returns a deep copy of the contract.
func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	out := *c
	if c.Deliverables != nil {
		out.Deliverables = make([]Deliverable, len(c.Deliverables))
		copy(out.Deliverables, c.Deliverables)
	}
	if c.Validation != nil {
		out.Validation = &ValidationConfig{Commands: cloneStrings(c.Validation.Commands)}
	}
	out.Constraints = cloneStrings(c.Constraints)
	if c.Context != nil {
		out.Context = &ContractContext{
			Background:    c.Context.Background,
			RelevantFiles: cloneStrings(c.Context.RelevantFiles),
			OutOfScope:    cloneStrings(c.Context.OutOfScope),
		}
	}
	if c.Metrics != nil {
		m := *c.Metrics
		m.Duration = cloneIntPtr(c.Metrics.Duration)
		m.ReworkCount = cloneIntPtr(c.Metrics.ReworkCount)
		out.Metrics = &m
	}
	return &out
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	out := t
	out.RelatedFiles = cloneStrings(t.RelatedFiles)
	out.Tags = cloneStrings(t.Tags)
	if t.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(out.Subtasks, t.Subtasks)
	}
	out.Position = cloneIntPtr(t.Position)
	out.Contract = t.Contract.Clone()
	return out
}

// CloneTasks returns a deep copy of a task slice, preserving nil.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the column.
func (c Column) Clone() Column {
	out := c
	out.Order = cloneIntPtr(c.Order)
	out.CompletionColumn = cloneBoolPtr(c.CompletionColumn)
	out.Tasks = CloneTasks(c.Tasks)
	return out
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := *b
	out.Agent = b.Agent.Clone()
	out.Rules = b.Rules.Clone()
	if b.Columns != nil {
		out.Columns = make([]Column, len(b.Columns))
		for i := range b.Columns {
			out.Columns[i] = b.Columns[i].Clone()
		}
	}
	out.Archive = CloneTasks(b.Archive)
	out.StatsConfig = b.StatsConfig.Clone()
	return &out
}
