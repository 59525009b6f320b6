// Package mdtext provides structural analysis of Markdown-flavored prompt
// documents: opaque-region masking, heading section extraction, and tagged
// section balance checking.
package mdtext

import "strings"

// MaskOpaque blanks out every region of content that is opaque to structural
// analysis: fenced code blocks, indented code blocks, inline code spans,
// HTML comments, and a leading frontmatter declaration. Non-newline bytes in
// those regions become spaces, so byte offsets and line numbers in the
// returned string line up exactly with the input.
func MaskOpaque(content string) string {
	buf := []byte(content)

	maskFrontmatter(buf)
	maskCodeLines(buf)
	maskInlineSpans(buf)
	maskComments(buf)

	return string(buf)
}

// blank overwrites buf[start:end] with spaces, preserving newlines.
func blank(buf []byte, start, end int) {
	for i := start; i < end && i < len(buf); i++ {
		if buf[i] != '\n' {
			buf[i] = ' '
		}
	}
}

// lineSpans returns the [start,end) byte span of every line, end excluding
// the newline.
func lineSpans(buf []byte) [][2]int {
	var spans [][2]int
	start := 0
	for i, b := range buf {
		if b == '\n' {
			spans = append(spans, [2]int{start, i})
			start = i + 1
		}
	}
	if start <= len(buf) {
		spans = append(spans, [2]int{start, len(buf)})
	}
	return spans
}

// maskFrontmatter blanks a leading "---" ... "---" declaration block.
func maskFrontmatter(buf []byte) {
	spans := lineSpans(buf)
	if len(spans) < 2 {
		return
	}
	first := strings.TrimRight(string(buf[spans[0][0]:spans[0][1]]), " \t")
	if first != "---" {
		return
	}
	for i := 1; i < len(spans); i++ {
		line := strings.TrimRight(string(buf[spans[i][0]:spans[i][1]]), " \t")
		if line == "---" {
			blank(buf, spans[0][0], spans[i][1])
			return
		}
	}
	// Unterminated frontmatter is left alone rather than blanking the
	// whole document.
}

// fenceMarker reports whether a line opens or closes a code fence, returning
// the fence rune and its run length.
func fenceMarker(line string) (marker byte, count int, ok bool) {
	trimmed := line
	indent := 0
	for indent < len(trimmed) && indent < 3 && trimmed[indent] == ' ' {
		indent++
	}
	trimmed = trimmed[indent:]
	if len(trimmed) < 3 {
		return 0, 0, false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return 0, 0, false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0, false
	}
	return c, n, true
}

// maskCodeLines blanks fenced code blocks (fence lines included) and
// indented code lines.
func maskCodeLines(buf []byte) {
	spans := lineSpans(buf)

	inFence := false
	var fenceChar byte
	fenceLen := 0

	for _, span := range spans {
		line := string(buf[span[0]:span[1]])

		if inFence {
			blank(buf, span[0], span[1])
			if c, n, ok := fenceMarker(line); ok && c == fenceChar && n >= fenceLen &&
				strings.TrimRight(strings.TrimLeft(line, " "), " \t") == strings.Repeat(string(c), n) {
				inFence = false
			}
			continue
		}

		if c, n, ok := fenceMarker(line); ok {
			inFence = true
			fenceChar = c
			fenceLen = n
			blank(buf, span[0], span[1])
			continue
		}

		if isIndentedCode(line) {
			blank(buf, span[0], span[1])
		}
	}
}

// isIndentedCode reports whether a line is a 4-space or tab indented code
// line with actual content.
func isIndentedCode(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

// maskInlineSpans blanks `inline code spans`, delimiters included.
// Spans do not cross line boundaries.
func maskInlineSpans(buf []byte) {
	for _, span := range lineSpans(buf) {
		line := buf[span[0]:span[1]]
		i := 0
		for i < len(line) {
			if line[i] != '`' {
				i++
				continue
			}
			// Opening run length
			runStart := i
			for i < len(line) && line[i] == '`' {
				i++
			}
			runLen := i - runStart
			// Find a closing run of the same length
			j := i
			for j < len(line) {
				if line[j] == '`' {
					closeStart := j
					for j < len(line) && line[j] == '`' {
						j++
					}
					if j-closeStart == runLen {
						blank(buf, span[0]+runStart, span[0]+j)
						i = j
						break
					}
					continue
				}
				j++
			}
			if j >= len(line) {
				// No closing run on this line; leave the backticks as-is.
				i = runStart + runLen
			}
		}
	}
}

// maskComments blanks HTML comments, which may span lines.
func maskComments(buf []byte) {
	s := string(buf)
	for from := 0; ; {
		start := strings.Index(s[from:], "<!--")
		if start < 0 {
			return
		}
		start += from
		end := strings.Index(s[start+4:], "-->")
		if end < 0 {
			// Unterminated comment is opaque to end of document.
			blank(buf, start, len(buf))
			return
		}
		end = start + 4 + end + 3
		blank(buf, start, end)
		from = end
		s = string(buf)
	}
}

// HasCodeBlock reports whether content contains a fenced or indented code
// block.
func HasCodeBlock(content string) bool {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		if _, _, ok := fenceMarker(line); ok {
			if inFence {
				return true
			}
			inFence = true
			continue
		}
		if inFence {
			// Any line inside an open fence counts as block content; even a
			// bare open fence signals intent, but require the block itself.
			return true
		}
		if isIndentedCode(line) {
			return true
		}
	}
	return false
}
