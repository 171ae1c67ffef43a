package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json code block", "```json\n{\"summary\": \"x\"}\n```", `{"summary": "x"}`},
		{"generic code block", "```\n{\"summary\": \"x\"}\n```", `{"summary": "x"}`},
		{"plain JSON", `{"summary": "x"}`, `{"summary": "x"}`},
		{"preamble", "Here you go:\n{\"suggestedSkills\": [\"Go\"]}", `{"suggestedSkills": ["Go"]}`},
		{"trailing chatter", "{\"a\": 1}\n\nGood luck with the search!", `{"a": 1}`},
		{"top-level array", "Lines:\n[\"one\", \"two\"]", `["one", "two"]`},
		{"braces inside strings", `{"text": "use {curly} and ] here"}`, `{"text": "use {curly} and ] here"}`},
		{"escaped quotes", `Result: {"m": "he said \"}\""}`, `{"m": "he said \"}\""}`},
		{"no JSON", "  sorry, I cannot help  ", "sorry, I cannot help"},
		{"unbalanced", `{"open": true`, `{"open": true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `[[1], [2]]`, extractBalanced(`[[1], [2]] tail`, '[', ']'))
	assert.Equal(t, "", extractBalanced("", '{', '}'))
	assert.Equal(t, "", extractBalanced("x{}", '{', '}'))
}
