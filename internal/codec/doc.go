// Package codec reads and writes brainfile markdown documents. A
// brainfile is a markdown file whose content is a single YAML
// frontmatter block between --- markers; the codec extracts that
// block, resolves the document kind once at the parse boundary, and
// decodes board documents into typed values. Serialization produces
// the canonical form the content hash is computed over.
package codec
