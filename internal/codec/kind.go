package codec

import "regexp"

// Kind identifies what a brainfile document contains. The kind is
// resolved once while parsing; downstream code switches on the tag
// instead of re-inspecting the data shape.
type Kind string

const (
	KindBoard      Kind = "board"
	KindJournal    Kind = "journal"
	KindChecklist  Kind = "checklist"
	KindCollection Kind = "collection"
	KindDocument   Kind = "document"
)

var (
	schemaKindRe   = regexp.MustCompile(`/v1/(\w+)\.json$`)
	filenameKindRe = regexp.MustCompile(`brainfile\.(\w+)\.md$`)
)

// InferKind resolves the document kind from the parsed frontmatter.
// Resolution order: explicit type field, schema URL pattern, filename
// suffix (brainfile.{kind}.md), structural probe, board default.
// Unknown explicit types pass through unchanged so custom documents
// keep their declared kind.
func InferKind(data map[string]any, filename string) Kind {
	if t, ok := data["type"].(string); ok && t != "" {
		return Kind(t)
	}

	if schema, ok := data["schema"].(string); ok {
		if m := schemaKindRe.FindStringSubmatch(schema); m != nil {
			return Kind(m[1])
		}
	}

	if filename != "" {
		if m := filenameKindRe.FindStringSubmatch(filename); m != nil {
			return Kind(m[1])
		}
	}

	if kind, ok := kindFromStructure(data); ok {
		return kind
	}
	return KindBoard
}

func kindFromStructure(data map[string]any) (Kind, bool) {
	if _, ok := data["entries"].([]any); ok {
		return KindJournal, true
	}
	if _, ok := data["columns"].([]any); ok {
		return KindBoard, true
	}
	if _, ok := data["categories"].([]any); ok {
		return KindCollection, true
	}
	if items, ok := data["items"].([]any); ok && len(items) > 0 && allHaveCompleted(items) {
		return KindChecklist, true
	}
	if _, ok := data["sections"].([]any); ok {
		return KindDocument, true
	}
	return "", false
}

func allHaveCompleted(items []any) bool {
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := m["completed"].(bool); !ok {
			return false
		}
	}
	return true
}
