package board

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // path to the error location, like "columns[0].tasks[2].id"
	Err  error  // underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to a JSON Schema file.
	// If empty, validation uses only structural checks.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Validate validates the board's structural integrity. When a schema
// path is provided and loadable, JSON Schema validation takes over;
// otherwise the built-in structural checks run.
func (b *Board) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if opts.SchemaPath != "" {
		schemaResult := b.validateWithSchema(opts.SchemaPath)
		result.UsedSchema = schemaResult.UsedSchema
		if len(schemaResult.Warnings) > 0 {
			result.Warnings = append(result.Warnings, schemaResult.Warnings...)
		}
		if schemaResult.UsedSchema {
			if !schemaResult.Valid {
				result.Valid = false
				result.Errors = append(result.Errors, schemaResult.Errors...)
			}
			return result
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using structural checks")
	}

	b.validateStructure(result)
	return result
}

func addIssue(result *ValidationResult, path, message string) {
	result.Valid = false
	result.Errors = append(result.Errors, &ValidationError{
		Path: path,
		Err:  fmt.Errorf("%s", message),
	})
}

// validateStructure performs structural validation without JSON Schema.
func (b *Board) validateStructure(result *ValidationResult) {
	if strings.TrimSpace(b.Title) == "" {
		addIssue(result, "title", "Board title must be a non-empty string")
	}

	if b.Columns == nil {
		addIssue(result, "columns", "Columns must be an array")
	} else {
		for i := range b.Columns {
			validateColumn(result, &b.Columns[i], fmt.Sprintf("columns[%d]", i))
		}
	}

	if b.Rules != nil {
		validateRules(result, b.Rules, "rules")
	}

	for i := range b.Archive {
		validateTask(result, &b.Archive[i], fmt.Sprintf("archive[%d]", i))
	}

	if b.StatsConfig != nil && len(b.StatsConfig.Columns) > 4 {
		addIssue(result, "statsConfig.columns", "StatsConfig columns must have maximum 4 items")
	}
}

func validateColumn(result *ValidationResult, col *Column, path string) {
	if strings.TrimSpace(col.ID) == "" {
		addIssue(result, path+".id", "Column id must be a non-empty string")
	}
	if strings.TrimSpace(col.Title) == "" {
		addIssue(result, path+".title", "Column title must be a non-empty string")
	}
	if col.Tasks == nil {
		addIssue(result, path+".tasks", "Column tasks must be an array")
		return
	}
	for i := range col.Tasks {
		validateTask(result, &col.Tasks[i], fmt.Sprintf("%s.tasks[%d]", path, i))
	}
}

func validateTask(result *ValidationResult, t *Task, path string) {
	if strings.TrimSpace(t.ID) == "" {
		addIssue(result, path+".id", "Task id must be a non-empty string")
	}
	if strings.TrimSpace(t.Title) == "" {
		addIssue(result, path+".title", "Task title must be a non-empty string")
	}
	if t.Priority != "" && !t.Priority.Valid() {
		addIssue(result, path+".priority", "Task priority must be one of: low, medium, high, critical")
	}
	if t.Template != "" && !t.Template.Valid() {
		addIssue(result, path+".template", "Task template must be one of: bug, feature, refactor")
	}
	for i := range t.Subtasks {
		validateSubtask(result, &t.Subtasks[i], fmt.Sprintf("%s.subtasks[%d]", path, i))
	}
}

func validateSubtask(result *ValidationResult, st *Subtask, path string) {
	if strings.TrimSpace(st.ID) == "" {
		addIssue(result, path+".id", "Subtask id must be a non-empty string")
	}
	if strings.TrimSpace(st.Title) == "" {
		addIssue(result, path+".title", "Subtask title must be a non-empty string")
	}
}

func validateRules(result *ValidationResult, rules *Rules, path string) {
	groups := []struct {
		name  string
		rules []Rule
	}{
		{"always", rules.Always},
		{"never", rules.Never},
		{"prefer", rules.Prefer},
		{"context", rules.Context},
	}
	for _, g := range groups {
		for i, r := range g.rules {
			if strings.TrimSpace(r.Rule) == "" {
				addIssue(result, fmt.Sprintf("%s.%s[%d].rule", path, g.name, i),
					"Rule rule must be a non-empty string")
			}
		}
	}
}

// validateWithSchema attempts JSON Schema validation.
func (b *Board) validateWithSchema(schemaPath string) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return result
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return result
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v", err))
		return result
	}

	result.UsedSchema = true

	data, err := json.Marshal(b)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to marshal board for validation: %w", err),
		})
		return result
	}

	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to unmarshal board for validation: %w", err),
		})
		return result
	}

	if err := schema.Validate(obj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
