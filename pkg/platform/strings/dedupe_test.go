package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "only whitespace", input: "   ", want: nil},
		{name: "single broker", input: "localhost:9092", want: []string{"localhost:9092"}},
		{name: "trims around commas", input: " a:9092 , b:9092", want: []string{"a:9092", "b:9092"}},
		{name: "drops blanks", input: "a,,b,", want: []string{"a", "b"}},
		{name: "drops repeats keeping first position", input: "b,a,b", want: []string{"b", "a"}},
		{name: "case sensitive", input: "https://A.example,https://a.example", want: []string{"https://A.example", "https://a.example"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.input))
		})
	}
}

func TestDedupeAndTrim(t *testing.T) {
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{}))
	assert.Equal(t, []string{"foo", "bar"}, DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  ", "bar"}))
}
