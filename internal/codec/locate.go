package codec

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	listItemIDRe = regexp.MustCompile(`^\s*-\s+id:\s+`)
	bareDashRe   = regexp.MustCompile(`^\s*-\s*$`)
	topKeyRe     = regexp.MustCompile(`^[a-z]+:`)
	groupKeyRe   = regexp.MustCompile(`^\s{2}[a-z]+:`)
)

// idBoundary reports whether the text following a matched id ends the
// id there. Without this, task-1 would match inside task-10.
func idBoundary(rest string) bool {
	if rest == "" {
		return true
	}
	c := rest[0]
	return !(c == '-' || c == '_' ||
		c >= '0' && c <= '9' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z')
}

// FindTaskLine returns the 1-based line number of a task's id within
// the raw file content. When the id sits under a bare "-" list marker,
// the marker's line is returned so editors land on the entry start.
func FindTaskLine(content, taskID string) (int, bool) {
	lines := strings.Split(content, "\n")
	needle := "id: " + taskID

	for i, line := range lines {
		at := strings.Index(line, needle)
		if at < 0 || !idBoundary(line[at+len(needle):]) {
			continue
		}
		if listItemIDRe.MatchString(line) {
			return i + 1, true
		}
		if i > 0 && bareDashRe.MatchString(lines[i-1]) {
			return i, true
		}
		return i + 1, true
	}
	return 0, false
}

// FindRuleLine returns the 1-based line number of a rule's id within
// the frontmatter. Only the requested rule group (always, never,
// prefer, context) is searched.
func FindRuleLine(content string, ruleID int, ruleType string) (int, bool) {
	lines := strings.Split(content, "\n")
	needle := fmt.Sprintf("id: %d", ruleID)

	inFrontmatter := false
	inRules := false
	inRuleType := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "---" {
			if !inFrontmatter {
				inFrontmatter = true
				continue
			}
			break
		}
		if !inFrontmatter {
			continue
		}

		if trimmed == "rules:" {
			inRules = true
			continue
		}
		if inRules && trimmed == ruleType+":" {
			inRuleType = true
			continue
		}
		if inRules && topKeyRe.MatchString(line) {
			inRules = false
			inRuleType = false
		}

		if !inRuleType {
			continue
		}
		if groupKeyRe.MatchString(line) && !strings.Contains(line, ruleType+":") {
			inRuleType = false
			continue
		}

		at := strings.Index(line, needle)
		if at < 0 {
			continue
		}
		if rest := line[at+len(needle):]; rest != "" && rest[0] >= '0' && rest[0] <= '9' {
			continue
		}
		if listItemIDRe.MatchString(line) {
			return i + 1, true
		}
		if i > 0 && bareDashRe.MatchString(lines[i-1]) {
			return i, true
		}
		return i + 1, true
	}
	return 0, false
}
