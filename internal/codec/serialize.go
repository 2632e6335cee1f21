package codec

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/brainfile-go/internal/board"
)

// Options controls serialization output.
type Options struct {
	// Indent is the YAML indentation width in spaces. Zero or negative
	// means the default of 2.
	Indent int
	// TrailingNewline keeps the final newline after the closing marker.
	TrailingNewline bool
}

// DefaultOptions returns the canonical serialization options. The
// content hash is computed over output produced with these options, so
// they must stay stable.
func DefaultOptions() Options {
	return Options{Indent: 2, TrailingNewline: true}
}

// Serialize renders a board as markdown with YAML frontmatter using
// the canonical options.
func Serialize(b *board.Board) (string, error) {
	return SerializeWith(b, DefaultOptions())
}

// SerializeWith renders a board as markdown with YAML frontmatter.
func SerializeWith(b *board.Board, opts Options) (string, error) {
	body, err := marshalYAML(b, opts)
	if err != nil {
		return "", err
	}
	out := "---\n" + body + "---\n"
	if !opts.TrailingNewline {
		out = strings.TrimRight(out, "\n")
	}
	return out, nil
}

// SerializeYAML renders a board as bare YAML without the frontmatter
// markers.
func SerializeYAML(b *board.Board, opts Options) (string, error) {
	return marshalYAML(b, opts)
}

func marshalYAML(b *board.Board, opts Options) (string, error) {
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(b); err != nil {
		enc.Close()
		return "", fmt.Errorf("encoding board: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding board: %w", err)
	}
	return buf.String(), nil
}

// HashBoard returns the content hash of a board's canonical
// serialization. Two boards with equal field values always produce the
// same hash.
func HashBoard(b *board.Board) (string, error) {
	content, err := Serialize(b)
	if err != nil {
		return "", err
	}
	return board.HashContent(content), nil
}
