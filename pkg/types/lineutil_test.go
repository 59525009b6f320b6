package types

import "testing"

func TestComputeLineColumn(t *testing.T) {
	content := []byte("first\nsecond\nthird")

	tests := []struct {
		name   string
		offset int
		line   int
		column int
	}{
		{"start", 0, 1, 1},
		{"mid first line", 3, 1, 4},
		{"start of second line", 6, 2, 1},
		{"third line", 14, 3, 2},
		{"past end clamps", 100, 3, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := ComputeLineColumn(content, tt.offset)
			if line != tt.line || col != tt.column {
				t.Errorf("ComputeLineColumn(%d) = (%d,%d), want (%d,%d)",
					tt.offset, line, col, tt.line, tt.column)
			}
		})
	}
}

func TestLineOf_Empty(t *testing.T) {
	if got := LineOf(nil, 0); got != 1 {
		t.Errorf("LineOf(nil, 0) = %d, want 1", got)
	}
}
