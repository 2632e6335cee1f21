// Package ledger maintains the append-only completion history in
// logs/ledger.jsonl, one JSON record per completed task, and the
// queries that mine it for context.
package ledger

import (
	"math"
	"strings"
	"time"

	"github.com/nibzard/brainfile-go/internal/board"
)

// FileName is the ledger file inside the logs directory.
const FileName = "ledger.jsonl"

// EpochISO stands in for records whose source carries no timestamp.
const EpochISO = "1970-01-01T00:00:00.000Z"

// Record is one line of the ledger.
type Record struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	FilesChanged   []string `json:"filesChanged"`
	CreatedAt      string   `json:"createdAt"`
	CompletedAt    string   `json:"completedAt"`
	CycleTimeHours float64  `json:"cycleTimeHours"`
	Summary        string   `json:"summary"`

	ColumnHistory      []string `json:"columnHistory,omitempty"`
	Assignee           string   `json:"assignee,omitempty"`
	Priority           string   `json:"priority,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	ParentID           string   `json:"parentId,omitempty"`
	RelatedFiles       []string `json:"relatedFiles,omitempty"`
	Deliverables       []string `json:"deliverables,omitempty"`
	ContractStatus     string   `json:"contractStatus,omitempty"`
	ValidationAttempts *int     `json:"validationAttempts,omitempty"`
	Constraints        []string `json:"constraints,omitempty"`
	SubtasksCompleted  *int     `json:"subtasksCompleted,omitempty"`
	SubtasksTotal      *int     `json:"subtasksTotal,omitempty"`
}

// BuildOptions overrides fields derived from the task.
type BuildOptions struct {
	Summary      string
	FilesChanged []string
	CompletedAt  string
	// ColumnHistory nil derives a single-entry history from the
	// task's column field.
	ColumnHistory      []string
	ValidationAttempts *int
}

// contractStatuses are the statuses the ledger records. Draft
// contracts never reach the ledger.
var contractStatuses = map[string]bool{
	"ready":       true,
	"in_progress": true,
	"delivered":   true,
	"done":        true,
	"failed":      true,
	"blocked":     true,
}

// IsContractStatus reports whether value is a ledger contract status.
func IsContractStatus(value string) bool {
	return contractStatuses[value]
}

func utcNowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// BuildRecord derives a ledger record from a completed task and its
// markdown body.
func BuildRecord(task board.Task, body string, opts BuildOptions) Record {
	completedAt := opts.CompletedAt
	if completedAt == "" {
		completedAt = task.CompletedAt
	}
	if completedAt == "" {
		completedAt = utcNowISO()
	}
	createdAt := task.CreatedAt
	if createdAt == "" {
		createdAt = completedAt
	}

	filesChanged := uniquePaths(opts.FilesChanged)
	if len(filesChanged) == 0 {
		filesChanged = defaultFilesChanged(task)
	}

	summary := strings.TrimSpace(opts.Summary)
	if summary == "" {
		summary = deriveSummary(body, task.Title)
	}

	record := Record{
		ID:             task.ID,
		Type:           recordType(task),
		Title:          task.Title,
		FilesChanged:   filesChanged,
		CreatedAt:      createdAt,
		CompletedAt:    completedAt,
		CycleTimeHours: cycleTimeHours(createdAt, completedAt),
		Summary:        summary,
	}

	historyInput := opts.ColumnHistory
	if historyInput == nil && task.Column != "" {
		historyInput = []string{task.Column}
	}
	record.ColumnHistory = uniqueStrings(historyInput)

	record.Assignee = task.Assignee
	record.Priority = string(task.Priority)
	record.Tags = uniqueStrings(task.Tags)
	record.ParentID = task.ParentID
	record.RelatedFiles = uniquePaths(task.RelatedFiles)

	if task.Contract != nil {
		record.Deliverables = deliverablePaths(task.Contract.Deliverables)
		record.Constraints = uniqueStrings(task.Contract.Constraints)
		if status := string(task.Contract.Status); IsContractStatus(status) {
			record.ContractStatus = status
		}
	}

	attempts := opts.ValidationAttempts
	if attempts == nil && task.Contract != nil && task.Contract.Metrics != nil {
		attempts = task.Contract.Metrics.ReworkCount
	}
	if attempts != nil && *attempts >= 0 {
		v := *attempts
		record.ValidationAttempts = &v
	}

	if task.Subtasks != nil {
		completed := 0
		for _, st := range task.Subtasks {
			if st.Completed {
				completed++
			}
		}
		total := len(task.Subtasks)
		record.SubtasksCompleted = &completed
		record.SubtasksTotal = &total
	}

	return record
}

func recordType(task board.Task) string {
	switch task.Type {
	case "task", "epic", "adr":
		return task.Type
	}
	if strings.HasPrefix(task.ID, "epic-") {
		return "epic"
	}
	if strings.HasPrefix(task.ID, "adr-") {
		return "adr"
	}
	return "task"
}

// deriveSummary takes the first body line that is neither blank nor a
// heading.
func deriveSummary(body, fallbackTitle string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return trimmed
	}
	return "Completed: " + fallbackTitle
}

// defaultFilesChanged falls back from contract deliverables to
// related files to the task's own markdown file.
func defaultFilesChanged(task board.Task) []string {
	if task.Contract != nil {
		if paths := deliverablePaths(task.Contract.Deliverables); len(paths) > 0 {
			return paths
		}
	}
	if related := uniquePaths(task.RelatedFiles); len(related) > 0 {
		return related
	}
	return []string{task.ID + ".md"}
}

func deliverablePaths(deliverables []board.Deliverable) []string {
	if len(deliverables) == 0 {
		return nil
	}
	paths := make([]string, 0, len(deliverables))
	for _, d := range deliverables {
		paths = append(paths, d.Path)
	}
	return uniquePaths(paths)
}

func cycleTimeHours(createdAt, completedAt string) float64 {
	created, okCreated := parseTimestampMs(createdAt)
	completed, okCompleted := parseTimestampMs(completedAt)
	if !okCreated || !okCompleted {
		return 0
	}

	hours := float64(completed-created) / (1000 * 60 * 60)
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0
	}
	return math.Round(hours*1000) / 1000
}

// NormalizePath makes path values comparable across platforms: forward
// slashes, no ./ prefix, trimmed.
func NormalizePath(value string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), "\\", "/")
	return strings.TrimPrefix(normalized, "./")
}

func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	var result []string
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		result = append(result, trimmed)
	}
	return result
}

func uniquePaths(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	var result []string
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		normalized := NormalizePath(value)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// parseTimestampMs converts an ISO timestamp to Unix milliseconds.
// Timestamps without a zone are taken as UTC.
func parseTimestampMs(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

func timestampOr(value string, fallback int64) int64 {
	if ms, ok := parseTimestampMs(value); ok {
		return ms
	}
	return fallback
}
