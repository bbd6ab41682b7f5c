package seats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSeatLabels(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "comma separated",
			input: "A-1,A-2,A-3",
			want:  []string{"A-1", "A-2", "A-3"},
		},
		{
			name:  "whitespace and newlines",
			input: "A-1 A-2\nB-1\tB-2\r\nC-1",
			want:  []string{"A-1", "A-2", "B-1", "B-2", "C-1"},
		},
		{
			name:  "mixed separators with extra spacing",
			input: "  A-1 , A-2,,\n ,B-1  ",
			want:  []string{"A-1", "A-2", "B-1"},
		},
		{
			name:  "duplicates dropped keeping first occurrence",
			input: "A-1, A-2, A-1, A-2",
			want:  []string{"A-1", "A-2"},
		},
		{
			name:  "empty input",
			input: "   \n\t ",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSeatLabels(tt.input))
		})
	}
}

func TestMergeLabels(t *testing.T) {
	got := mergeLabels([]string{"A-1", " A-2 "}, "A-2, B-1\nB-2")
	assert.Equal(t, []string{"A-1", "A-2", "B-1", "B-2"}, got)
}
