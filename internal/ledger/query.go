package ledger

import (
	"sort"
	"strings"
)

// DateRange filters records by completion time. Empty bounds are
// open.
type DateRange struct {
	From string
	To   string
}

func (dr *DateRange) matches(completedAt string) bool {
	if dr == nil {
		return true
	}
	completed, ok := parseTimestampMs(completedAt)
	if !ok {
		return false
	}
	if from, ok := parseTimestampMs(dr.From); ok && completed < from {
		return false
	}
	if to, ok := parseTimestampMs(dr.To); ok && completed > to {
		return false
	}
	return true
}

// QueryFilters narrows a ledger query. Zero-value fields match
// everything.
type QueryFilters struct {
	Assignee string
	// Tags matches records carrying any of these, case-insensitively.
	Tags      []string
	DateRange *DateRange
	// ContractStatus matches records in any of these statuses.
	ContractStatus []string
	// Files matches records that touched any of these paths.
	Files []string
}

// Query returns the records passing every filter, in ledger order.
func (r *Reader) Query(logsDir string, filters QueryFilters) []Record {
	records := r.Read(logsDir)

	var queryTags []string
	for _, tag := range filters.Tags {
		queryTags = append(queryTags, strings.ToLower(tag))
	}
	var statusSet map[string]bool
	if len(filters.ContractStatus) > 0 {
		statusSet = make(map[string]bool, len(filters.ContractStatus))
		for _, status := range filters.ContractStatus {
			statusSet[status] = true
		}
	}
	queryFiles := uniquePaths(filters.Files)

	var filtered []Record
	for _, record := range records {
		if filters.Assignee != "" && record.Assignee != filters.Assignee {
			continue
		}
		if len(queryTags) > 0 && !hasAnyTag(record.Tags, queryTags) {
			continue
		}
		if !filters.DateRange.matches(record.CompletedAt) {
			continue
		}
		if statusSet != nil && !statusSet[record.ContractStatus] {
			continue
		}
		if len(queryFiles) > 0 && !touchesAnyFile(record, queryFiles) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

func hasAnyTag(recordTags, queryTags []string) bool {
	for _, tag := range recordTags {
		lower := strings.ToLower(tag)
		for _, query := range queryTags {
			if lower == query {
				return true
			}
		}
	}
	return false
}

func touchesAnyFile(record Record, queryFiles []string) bool {
	recordFiles := collectRecordFiles(record)
	for _, queryFile := range queryFiles {
		for _, recordFile := range recordFiles {
			if pathMatches(recordFile, queryFile) {
				return true
			}
		}
	}
	return false
}

// collectRecordFiles gathers every path a record touched.
func collectRecordFiles(record Record) []string {
	all := make([]string, 0, len(record.FilesChanged)+len(record.RelatedFiles)+len(record.Deliverables))
	all = append(all, record.FilesChanged...)
	all = append(all, record.RelatedFiles...)
	all = append(all, record.Deliverables...)
	return uniquePaths(all)
}

// pathMatches compares normalized paths, letting a bare filename
// match a nested path on either side.
func pathMatches(left, right string) bool {
	nl, nr := NormalizePath(left), NormalizePath(right)
	if nl == "" || nr == "" {
		return false
	}
	return nl == nr || strings.HasSuffix(nl, "/"+nr) || strings.HasSuffix(nr, "/"+nl)
}

// HistoryOptions bounds a file history query.
type HistoryOptions struct {
	// Limit caps the result when positive.
	Limit     int
	DateRange *DateRange
}

// FileHistory returns records whose filesChanged include the path,
// newest first.
func (r *Reader) FileHistory(logsDir, filePath string, opts HistoryOptions) []Record {
	target := NormalizePath(filePath)
	if target == "" {
		return nil
	}

	var records []Record
	for _, record := range r.Read(logsDir) {
		if !anyPathMatches(record.FilesChanged, target) {
			continue
		}
		if !opts.DateRange.matches(record.CompletedAt) {
			continue
		}
		records = append(records, record)
	}

	sortByCompletedDesc(records)

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return records
}

func anyPathMatches(paths []string, target string) bool {
	for _, path := range paths {
		if pathMatches(path, target) {
			return true
		}
	}
	return false
}

func sortByCompletedDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return timestampOr(records[i].CompletedAt, 0) > timestampOr(records[j].CompletedAt, 0)
	})
}

// ContextEntry pairs a matched record with the scope files that
// matched it.
type ContextEntry struct {
	Record       Record   `json:"record"`
	MatchedFiles []string `json:"matchedFiles"`
}

// ContextOptions bounds a task context query.
type ContextOptions struct {
	Limit     int
	DateRange *DateRange
}

// TaskContext intersects a task's scope, its related files and
// deliverable paths, with ledger history, newest first. It answers
// "who touched these files before me".
func (r *Reader) TaskContext(logsDir string, relatedFiles, deliverables []string, opts ContextOptions) []ContextEntry {
	scope := uniquePaths(append(append([]string{}, relatedFiles...), deliverables...))
	if len(scope) == 0 {
		return nil
	}

	var entries []ContextEntry
	for _, record := range r.Read(logsDir) {
		if !opts.DateRange.matches(record.CompletedAt) {
			continue
		}
		matched := matchedScopeFiles(scope, collectRecordFiles(record))
		if len(matched) > 0 {
			entries = append(entries, ContextEntry{Record: record, MatchedFiles: matched})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return timestampOr(entries[i].Record.CompletedAt, 0) > timestampOr(entries[j].Record.CompletedAt, 0)
	})

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries
}

func matchedScopeFiles(scopeFiles, recordFiles []string) []string {
	var matched []string
	for _, scopeFile := range scopeFiles {
		if anyPathMatches(recordFiles, scopeFile) {
			matched = append(matched, scopeFile)
		}
	}
	return matched
}
