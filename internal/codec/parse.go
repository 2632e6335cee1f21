package codec

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/brainfile-go/internal/board"
)

// ErrNoFrontmatter is returned when the content has no parseable YAML
// frontmatter block.
var ErrNoFrontmatter = errors.New("no YAML frontmatter found")

// ErrNotBoard is returned by Parse for documents of a non-board kind.
var ErrNotBoard = errors.New("document is not a board")

// ParseResult is the detailed outcome of parsing a brainfile.
type ParseResult struct {
	// Board is the decoded board. Nil unless Kind is KindBoard and
	// decoding succeeded.
	Board *board.Board
	// Data is the raw frontmatter mapping, available for every kind.
	Data map[string]any
	// Kind is the document kind, resolved once here.
	Kind Kind
	// Warnings holds recoverable problems, such as duplicate columns
	// that were merged.
	Warnings []string
	Err      error
}

// Parse decodes a board document. Non-board documents and malformed
// content return an error; merge warnings are dropped, use
// ParseWithDetails to inspect them.
func Parse(content string) (*board.Board, error) {
	res := ParseWithDetails(content, "")
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Board == nil {
		return nil, fmt.Errorf("%w (kind %s)", ErrNotBoard, res.Kind)
	}
	return res.Board, nil
}

// ParseWithDetails parses brainfile content, resolving the document
// kind and decoding board documents into typed values. The filename,
// when known, participates in kind resolution.
func ParseWithDetails(content, filename string) ParseResult {
	raw, ok := extractFrontmatter(content)
	if !ok {
		return ParseResult{Err: ErrNoFrontmatter}
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return ParseResult{Err: fmt.Errorf("parsing frontmatter: %w", err)}
	}
	if data == nil {
		return ParseResult{Err: ErrNoFrontmatter}
	}

	res := ParseResult{Data: data, Kind: InferKind(data, filename)}
	if res.Kind != KindBoard {
		return res
	}

	var b board.Board
	if err := yaml.Unmarshal([]byte(raw), &b); err != nil {
		res.Err = fmt.Errorf("decoding board: %w", err)
		return res
	}
	b.Columns, res.Warnings = consolidateColumns(b.Columns)
	res.Board = &b
	return res
}

// ParseConfig decodes a workspace config document into the
// distributed-format board configuration. Unlike Parse it keeps the
// strict-mode fields (strict, types) that Board does not carry.
func ParseConfig(content string) (*board.Config, error) {
	raw, ok := extractFrontmatter(content)
	if !ok {
		return nil, ErrNoFrontmatter
	}
	var c board.Config
	if err := yaml.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decoding board config: %w", err)
	}
	if c.Type != "" && c.Type != board.TypeBoard {
		return nil, fmt.Errorf("%w (type %s)", ErrNotBoard, c.Type)
	}
	return &c, nil
}

// extractFrontmatter returns the YAML between the opening --- line and
// the next line that is exactly ---. The opening marker only needs to
// start the first line, matching files with trailing frontmatter
// annotations.
func extractFrontmatter(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || !strings.HasPrefix(strings.TrimSpace(lines[0]), "---") {
		return "", false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), true
		}
	}
	return "", false
}

// consolidateColumns merges columns that share an ID, appending the
// duplicate's tasks to the first occurrence and keeping first-seen
// column order.
func consolidateColumns(cols []board.Column) ([]board.Column, []string) {
	if cols == nil {
		return nil, nil
	}
	var warnings []string
	seen := make(map[string]int, len(cols))
	out := make([]board.Column, 0, len(cols))

	for _, col := range cols {
		if at, ok := seen[col.ID]; ok {
			warnings = append(warnings, fmt.Sprintf(
				"Duplicate column detected: %q (title: %q). Merging %d task(s) into existing column.",
				col.ID, col.Title, len(col.Tasks)))
			out[at].Tasks = append(out[at].Tasks, col.Tasks...)
			continue
		}
		seen[col.ID] = len(out)
		out = append(out, col)
	}
	return out, warnings
}
