// Package taskfile reads and writes per-task markdown files, the unit
// of storage in split workspaces. Each file is YAML task frontmatter
// between --- markers followed by a free-form markdown body.
package taskfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/brainfile-go/internal/board"
)

// Document is one parsed task file.
type Document struct {
	Task board.Task
	// Body is the markdown after the frontmatter, with the single
	// conventional blank line after the closing marker trimmed.
	Body string
	// Path is the absolute file path, set when the document was read
	// from disk.
	Path string
}

// FileName returns the conventional filename for a task id.
func FileName(taskID string) string {
	return taskID + ".md"
}

// ParseContent parses raw task file content. It returns nil for
// invalid input: missing or unterminated frontmatter, malformed YAML,
// or a task without id and title.
func ParseContent(content string) *Document {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return nil
	}

	var task board.Task
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &task); err != nil {
		return nil
	}
	if task.ID == "" || task.Title == "" {
		return nil
	}

	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(body, "\n")

	return &Document{Task: task, Body: body}
}

// SerializeContent renders a task and body as task file content. A
// non-empty body is separated from the frontmatter by one blank line
// and always ends with a newline.
func SerializeContent(task board.Task, body string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(task); err != nil {
		enc.Close()
		return "", fmt.Errorf("encoding task %s: %w", task.ID, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding task %s: %w", task.ID, err)
	}

	var out strings.Builder
	out.WriteString("---\n")
	out.Write(buf.Bytes())
	out.WriteString("---\n")
	if body != "" {
		out.WriteString("\n")
		out.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			out.WriteString("\n")
		}
	}
	return out.String(), nil
}

// Read reads and parses a task file. It returns nil when the file is
// missing or invalid.
func Read(path string) *Document {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	doc := ParseContent(string(content))
	if doc == nil {
		return nil
	}
	if abs, err := filepath.Abs(path); err == nil {
		doc.Path = abs
	} else {
		doc.Path = path
	}
	return doc
}

// Write serializes a task file to disk, creating parent directories as
// needed.
func Write(path string, task board.Task, body string) error {
	content, err := SerializeContent(task, body)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating task directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing task file: %w", err)
	}
	return nil
}

// ReadDir reads every .md task file in a directory, skipping entries
// that fail to parse. A missing directory yields an empty list.
func ReadDir(dir string) []*Document {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		if doc := Read(filepath.Join(dir, entry.Name())); doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs
}
