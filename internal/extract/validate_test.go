package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoMatch(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"No matching information found", true},
		{"No matching information found.", true},
		{"  no matching information found \n", true},
		{"NO MATCHING INFORMATION FOUND.", true},
		{"", true},
		{"   ", true},
		{".", true},
		{"Price: $10", false},
		{"No matching information found, but the page mentions pricing", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNoMatch(tt.answer, DefaultSentinel), "%q", tt.answer)
	}
}

func TestCleanAnswer(t *testing.T) {
	assert.Equal(t, "a, b", cleanAnswer("  a, b \n"))
	assert.Equal(t, "| a | b |", cleanAnswer("```markdown\n| a | b |\n```"))
	assert.Equal(t, `{"x":1}`, cleanAnswer("```json\n{\"x\":1}\n```"))
	assert.Equal(t, "plain", cleanAnswer("```\nplain\n```"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("page text", "prices", DefaultSentinel)
	assert.Contains(t, p.System, "respond with exactly: No matching information found")
	assert.Contains(t, p.User, "page text")
	assert.Contains(t, p.User, "prices")
}

func TestParseModel(t *testing.T) {
	assert.Equal(t, ModelLocal, ParseModel("ollama"))
	assert.Equal(t, ModelLocal, ParseModel(" Ollama "))
	assert.Equal(t, ModelPrimary, ParseModel("groq"))
	assert.Equal(t, ModelPrimary, ParseModel(""))
	assert.Equal(t, ModelPrimary, ParseModel("gpt"))
	assert.Equal(t, "local", ModelLocal.String())
}
