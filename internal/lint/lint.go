// Package lint checks brainfile content for YAML and structural
// problems and can auto-fix the quotable ones.
package lint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/codec"
)

// IssueType is the severity of a lint issue.
type IssueType string

const (
	IssueError   IssueType = "error"
	IssueWarning IssueType = "warning"
)

// Issue codes, for categorizing without string matching on messages.
const (
	CodeUnquotedString         = "UNQUOTED_STRING"
	CodeMissingFrontmatterOpen = "MISSING_FRONTMATTER_START"
	CodeMissingFrontmatterEnd  = "MISSING_FRONTMATTER_END"
	CodeYAMLSyntax             = "YAML_SYNTAX_ERROR"
	CodeYAMLError              = "YAML_ERROR"
	CodeDuplicateColumn        = "DUPLICATE_COLUMN"
	CodeValidationError        = "VALIDATION_ERROR"
	CodeParseError             = "PARSE_ERROR"
)

// Issue is one lint finding. Line and Column are 1-based; zero means
// unknown.
type Issue struct {
	Type    IssueType
	Message string
	Line    int
	Column  int
	Fixable bool
	Code    string
}

// Result is the outcome of linting one document.
type Result struct {
	Valid  bool
	Issues []Issue
	// FixedContent holds the repaired document when auto-fix changed
	// anything, otherwise "".
	FixedContent string
	// Board is the parsed board when the content parses as one.
	Board *board.Board
}

// Options controls a lint run.
type Options struct {
	AutoFix bool
	// Strict treats warnings as errors when deciding validity.
	Strict bool
}

var (
	quotableRe = regexp.MustCompile(`^(\s+)(title|rule|description):\s+([^"'][^"]*:\s*[^"]+)$`)
	fixLineRe  = regexp.MustCompile(`^(\s+)(title|rule|description):\s+(.+)$`)
	yamlLineRe = regexp.MustCompile(`line (\d+)`)
)

type quotable struct {
	line int
	text string
}

// Lint checks content for fixable quoting problems, YAML syntax
// errors, and board-structure violations.
func Lint(content string, opts Options) Result {
	var issues []Issue
	fixed := content

	quotables := findQuotables(content)
	for _, q := range quotables {
		issues = append(issues, Issue{
			Type:    IssueWarning,
			Message: fmt.Sprintf("Unquoted string with colon: %q", q.text),
			Line:    q.line,
			Fixable: true,
			Code:    CodeUnquotedString,
		})
	}
	if opts.AutoFix && len(quotables) > 0 {
		fixed = fixQuotables(content, quotables)
	}

	checked := content
	if opts.AutoFix {
		checked = fixed
	}
	yamlIssues := checkYAMLSyntax(checked)
	issues = append(issues, yamlIssues...)

	var parsed *board.Board
	if len(yamlIssues) == 0 {
		parsed, issues = checkBoard(checked, issues)
	}

	hasErrors := false
	hasWarnings := false
	for _, issue := range issues {
		switch issue.Type {
		case IssueError:
			hasErrors = true
		case IssueWarning:
			hasWarnings = true
		}
	}
	valid := !hasErrors
	if opts.Strict {
		valid = !hasErrors && !hasWarnings
	}

	res := Result{Valid: valid, Issues: issues, Board: parsed}
	if opts.AutoFix && fixed != content {
		res.FixedContent = fixed
	}
	return res
}

// findQuotables locates indented title, rule, and description values
// containing an unquoted colon-space, which YAML reads as a nested
// mapping.
func findQuotables(content string) []quotable {
	var results []quotable
	for i, line := range strings.Split(content, "\n") {
		m := quotableRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[3])
		if strings.Contains(text, ": ") {
			results = append(results, quotable{line: i + 1, text: text})
		}
	}
	return results
}

func fixQuotables(content string, quotables []quotable) string {
	lines := strings.Split(content, "\n")
	for _, q := range quotables {
		idx := q.line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		m := fixLineRe.FindStringSubmatch(lines[idx])
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[3])
		if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "'") {
			continue
		}
		lines[idx] = fmt.Sprintf(`%s%s: "%s"`, m[1], m[2], value)
	}
	return strings.Join(lines, "\n")
}

func checkYAMLSyntax(content string) []Issue {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || !strings.HasPrefix(strings.TrimSpace(lines[0]), "---") {
		return []Issue{{
			Type:    IssueError,
			Message: "Missing YAML frontmatter opening (---)",
			Line:    1,
			Code:    CodeMissingFrontmatterOpen,
		}}
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return []Issue{{
			Type:    IssueError,
			Message: "Missing YAML frontmatter closing (---)",
			Code:    CodeMissingFrontmatterEnd,
		}}
	}

	raw := strings.Join(lines[1:end], "\n")
	var data any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		issue := Issue{
			Type:    IssueError,
			Message: fmt.Sprintf("YAML syntax error: %v", err),
			Code:    CodeYAMLSyntax,
		}
		if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
			if n, convErr := strconv.Atoi(m[1]); convErr == nil {
				// Reported lines are relative to the frontmatter body,
				// which starts on file line 2.
				issue.Line = n + 1
			}
		} else {
			issue.Code = CodeYAMLError
			issue.Message = fmt.Sprintf("YAML error: %v", err)
		}
		return []Issue{issue}
	}
	return nil
}

func checkBoard(content string, issues []Issue) (*board.Board, []Issue) {
	res := codec.ParseWithDetails(content, "")
	if res.Board == nil {
		err := res.Err
		if err == nil {
			err = fmt.Errorf("%w (kind %s)", codec.ErrNotBoard, res.Kind)
		}
		return nil, append(issues, Issue{
			Type:    IssueError,
			Message: fmt.Sprintf("Parse error: %v", err),
			Code:    CodeParseError,
		})
	}

	for _, warning := range res.Warnings {
		if strings.Contains(warning, "Duplicate column") {
			issues = append(issues, Issue{
				Type:    IssueWarning,
				Message: warning,
				Code:    CodeDuplicateColumn,
			})
		}
	}

	validation := res.Board.Validate(board.ValidationOptions{})
	if !validation.Valid {
		for _, err := range validation.Errors {
			issues = append(issues, Issue{
				Type:    IssueError,
				Message: err.Error(),
				Code:    CodeValidationError,
			})
		}
	}
	return res.Board, issues
}

// Summary renders a short human-readable count of the findings.
func Summary(res Result) string {
	if res.Valid && len(res.Issues) == 0 {
		return "No issues found"
	}

	errors, warnings, fixable := 0, 0, 0
	for _, issue := range res.Issues {
		switch issue.Type {
		case IssueError:
			errors++
		case IssueWarning:
			warnings++
		}
		if issue.Fixable {
			fixable++
		}
	}

	var parts []string
	if errors > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", errors, plural("error", errors)))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", warnings, plural("warning", warnings)))
	}
	if fixable > 0 {
		parts = append(parts, fmt.Sprintf("%d fixable", fixable))
	}
	return strings.Join(parts, ", ")
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// Grouped buckets issues by severity and fixability. Fixable issues
// appear in both their severity bucket and Fixable.
type Grouped struct {
	Errors   []Issue
	Warnings []Issue
	Fixable  []Issue
}

// GroupIssues splits a result's issues into severity buckets.
func GroupIssues(res Result) Grouped {
	var g Grouped
	for _, issue := range res.Issues {
		switch issue.Type {
		case IssueError:
			g.Errors = append(g.Errors, issue)
		case IssueWarning:
			g.Warnings = append(g.Warnings, issue)
		}
		if issue.Fixable {
			g.Fixable = append(g.Fixable, issue)
		}
	}
	return g
}
