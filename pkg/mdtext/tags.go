package mdtext

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/promptgate/promptgate/pkg/types"
)

// TagIssue is a tag-balance problem found in a document.
type TagIssue struct {
	Message string
	Line    int
}

// tagTokenRe matches open, close, and self-closing tag tokens. The character
// after the name must be whitespace, '/', or '>', so Markdown autolinks like
// <https://example.com> never parse as tags.
var tagTokenRe = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9_-]*)((?:[ \t][^<>]*?)?)(/?)>`)

// openTag is a stack entry during balance checking.
type openTag struct {
	name string
	line int
}

// CheckTagBalance scans content for tagged-section tokens and reports
// unclosed tags, mismatched tags, and unexpected closing tags. Code blocks,
// inline code spans, comments, and frontmatter never contribute tokens.
//
// Line attribution convention: an unclosed-tag issue carries the line of the
// earliest still-open opener; mismatched and unexpected closers carry the
// offending closer's line.
func CheckTagBalance(content string) []TagIssue {
	masked := MaskOpaque(content)
	maskedBytes := []byte(masked)

	var issues []TagIssue
	var stack []openTag

	for _, m := range tagTokenRe.FindAllStringSubmatchIndex(masked, -1) {
		start := m[0]
		closing := m[3] > m[2] // group 1 ("/") non-empty
		name := masked[m[4]:m[5]]
		selfClosing := m[9] > m[8] // group 4 ("/") non-empty
		line := types.LineOf(maskedBytes, start)

		switch {
		case selfClosing:
			// No stack effect.
		case !closing:
			stack = append(stack, openTag{name: name, line: line})
		case len(stack) == 0:
			issues = append(issues, TagIssue{
				Message: fmt.Sprintf("Unexpected closing tag </%s>", name),
				Line:    line,
			})
		case stack[len(stack)-1].name == name:
			stack = stack[:len(stack)-1]
		default:
			// The closer does not match the innermost opener. If a matching
			// opener exists deeper in the stack, recover by popping down to
			// it; otherwise this closer is simply unexpected.
			depth := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == name {
					depth = i
					break
				}
			}
			if depth < 0 {
				issues = append(issues, TagIssue{
					Message: fmt.Sprintf("Unexpected closing tag </%s>", name),
					Line:    line,
				})
				continue
			}
			issues = append(issues, TagIssue{
				Message: fmt.Sprintf("Mismatched tags: expected </%s>, found </%s>",
					stack[len(stack)-1].name, name),
				Line: line,
			})
			stack = stack[:depth]
		}
	}

	if len(stack) > 0 {
		names := make([]string, len(stack))
		for i, t := range stack {
			names[i] = "<" + t.name + ">"
		}
		issues = append(issues, TagIssue{
			Message: "Unclosed tags: " + strings.Join(names, ", "),
			Line:    stack[0].line,
		})
	}

	return issues
}

// OpenTagNames returns the distinct tag names opened anywhere in content
// (code blocks excluded), in first-appearance order.
func OpenTagNames(content string) []string {
	masked := MaskOpaque(content)

	seen := make(map[string]bool)
	var names []string
	for _, m := range tagTokenRe.FindAllStringSubmatch(masked, -1) {
		if m[1] == "/" {
			continue
		}
		name := m[2]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// HasTag reports whether content opens a tag with the given name outside of
// code blocks.
func HasTag(content, name string) bool {
	for _, n := range OpenTagNames(content) {
		if n == name {
			return true
		}
	}
	return false
}

// TagBody returns the text between the first <name> opener and its closing
// </name>, and whether such a section exists. Nested same-name tags are
// honored. The body is taken from the original content, so code blocks
// inside the section are preserved.
func TagBody(content, name string) (string, bool) {
	masked := MaskOpaque(content)

	depth := 0
	bodyStart := -1
	for _, m := range tagTokenRe.FindAllStringSubmatchIndex(masked, -1) {
		tagName := masked[m[4]:m[5]]
		if tagName != name {
			continue
		}
		closing := m[3] > m[2]
		selfClosing := m[9] > m[8]
		if selfClosing {
			continue
		}
		if !closing {
			depth++
			if depth == 1 {
				bodyStart = m[1]
			}
			continue
		}
		if depth > 0 {
			depth--
			if depth == 0 {
				return content[bodyStart:m[0]], true
			}
		}
	}
	return "", false
}
