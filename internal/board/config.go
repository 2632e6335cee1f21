package board

import (
	"fmt"
	"sort"
	"strings"
)

// ColumnConfig describes one column in a distributed-format board.
// Unlike Column it carries no tasks; task files reference columns by ID.
type ColumnConfig struct {
	ID               string `json:"id" yaml:"id"`
	Title            string `json:"title" yaml:"title"`
	Order            *int   `json:"order,omitempty" yaml:"order,omitempty"`
	CompletionColumn *bool  `json:"completionColumn,omitempty" yaml:"completionColumn,omitempty"`
}

// TypeEntry configures a custom task type for strict mode.
type TypeEntry struct {
	// IDPrefix is the ID prefix for this type, e.g. "epic" or "adr".
	IDPrefix    string `json:"idPrefix" yaml:"idPrefix"`
	Completable *bool  `json:"completable,omitempty" yaml:"completable,omitempty"`
	SchemaURL   string `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Config is the distributed-format board configuration, parsed from
// the workspace config file. Columns, rules, and agent instructions
// live here; tasks live in their own files.
type Config struct {
	Type        string               `json:"type" yaml:"type"`
	Columns     []ColumnConfig       `json:"columns" yaml:"columns"`
	Strict      bool                 `json:"strict,omitempty" yaml:"strict,omitempty"`
	Types       map[string]TypeEntry `json:"types,omitempty" yaml:"types,omitempty"`
	StatsConfig *StatsConfig         `json:"statsConfig,omitempty" yaml:"statsConfig,omitempty"`
	Agent       *AgentInstructions   `json:"agent,omitempty" yaml:"agent,omitempty"`
	Rules       *Rules               `json:"rules,omitempty" yaml:"rules,omitempty"`
	Title       string               `json:"title,omitempty" yaml:"title,omitempty"`
}

// DefaultTaskType is always valid regardless of the configured type map.
const DefaultTaskType = "task"

// TypeNames returns the configured type names in sorted order, with
// "task" first when it is not configured explicitly.
func (c *Config) TypeNames() []string {
	keys := make([]string, 0, len(c.Types))
	for k := range c.Types {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == DefaultTaskType {
			return keys
		}
	}
	return append([]string{DefaultTaskType}, keys...)
}

// ValidateType checks a task type name against the config. Outside
// strict mode, or when no types are configured, every name is valid.
func (c *Config) ValidateType(typeName string) error {
	if !c.Strict || len(c.Types) == 0 {
		return nil
	}
	if typeName == DefaultTaskType {
		return nil
	}
	if _, ok := c.Types[typeName]; ok {
		return nil
	}
	return fmt.Errorf("Type '%s' is not defined. Available types: %s",
		typeName, strings.Join(c.TypeNames(), ", "))
}

// ValidateColumn checks a column ID against the config. Outside strict
// mode every ID is valid.
func (c *Config) ValidateColumn(columnID string) error {
	if !c.Strict {
		return nil
	}
	ids := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		ids[i] = col.ID
	}
	for _, id := range ids {
		if id == columnID {
			return nil
		}
	}
	return fmt.Errorf("Column '%s' is not defined. Available columns: %s",
		columnID, strings.Join(ids, ", "))
}

// IDPrefixFor returns the ID prefix for a task type. Custom types use
// their configured prefix; everything else uses "task".
func (c *Config) IDPrefixFor(typeName string) string {
	if entry, ok := c.Types[typeName]; ok && entry.IDPrefix != "" {
		return entry.IDPrefix
	}
	return DefaultTaskType
}

// Completable reports whether tasks of the given type can be marked
// complete. Types default to completable unless configured otherwise.
func (c *Config) Completable(typeName string) bool {
	entry, ok := c.Types[typeName]
	if !ok || entry.Completable == nil {
		return true
	}
	return *entry.Completable
}
