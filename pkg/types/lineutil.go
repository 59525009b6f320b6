package types

// ComputeLineColumn computes 1-indexed line and column numbers from a byte
// offset into content.
func ComputeLineColumn(content []byte, byteOffset int) (line, column int) {
	line = 1
	column = 1
	for i := 0; i < byteOffset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// LineOf returns just the 1-indexed line number for a byte offset.
func LineOf(content []byte, byteOffset int) int {
	line, _ := ComputeLineColumn(content, byteOffset)
	return line
}
