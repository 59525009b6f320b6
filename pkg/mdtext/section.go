package mdtext

import (
	"fmt"
	"strings"
)

// Section is the extracted body of a Markdown heading.
type Section struct {
	Heading string // the matched heading line, as written
	Body    string // lines after the heading up to the next heading of equal or shallower level
	Line    int    // 1-indexed line of the matched heading
}

// ExtractSection finds the first heading matching target and returns its
// body. The target includes its leading '#' markers; the marker count fixes
// the heading level. Matching collapses internal whitespace and ignores
// case. The body runs up to (excluding) the next heading whose level is less
// than or equal to the matched level; deeper headings stay in the body.
//
// Returns found=false with no warning when no heading matches. When several
// headings match, the first one's body is returned and a single ambiguity
// warning is emitted. Headings inside fenced code blocks are invisible.
func ExtractSection(content, target string) (section Section, found bool, warnings []string) {
	targetLevel, targetText := splitHeading(target)
	if targetLevel == 0 {
		return Section{}, false, nil
	}
	normTarget := normalizeHeading(targetText)

	lines := strings.Split(content, "\n")

	inFence := false
	matches := 0
	bodyStart := -1 // line index after the matched heading
	bodyEnd := -1

	for i, line := range lines {
		if _, _, ok := fenceMarker(line); ok {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		level, text := splitHeading(line)
		if level == 0 {
			continue
		}

		if bodyStart >= 0 && bodyEnd < 0 && level <= targetLevel {
			bodyEnd = i
		}

		if level == targetLevel && normalizeHeading(text) == normTarget {
			matches++
			if matches == 1 {
				section.Heading = strings.TrimSpace(line)
				section.Line = i + 1
				bodyStart = i + 1
			}
		}
	}

	if matches == 0 {
		return Section{}, false, nil
	}
	if matches > 1 {
		warnings = append(warnings,
			fmt.Sprintf("Ambiguous heading %q: %d occurrences, using the first", target, matches))
	}

	if bodyEnd < 0 {
		bodyEnd = len(lines)
	}
	section.Body = strings.Join(lines[bodyStart:bodyEnd], "\n")
	return section, true, warnings
}

// splitHeading parses a Markdown ATX heading line into level and text.
// Returns level 0 for non-heading lines.
func splitHeading(line string) (level int, text string) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return 0, ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0, ""
	}
	rest := trimmed[n:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, ""
	}
	return n, strings.TrimSpace(rest)
}

// normalizeHeading collapses internal whitespace and lowercases for
// comparison.
func normalizeHeading(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// HasHeading reports whether content contains a heading exactly matching
// target (same normalization rules as ExtractSection).
func HasHeading(content, target string) bool {
	_, found, _ := ExtractSection(content, target)
	return found
}

// HasHeadingExact reports whether content contains target as a heading line
// with exact case, as required by the command document contract.
func HasHeadingExact(content, target string) bool {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		if _, _, ok := fenceMarker(line); ok {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.TrimSpace(line) == target {
			return true
		}
	}
	return false
}
