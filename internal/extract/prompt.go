package extract

import (
	"fmt"
	"strings"
)

// SystemPrompt frames every extraction call. %s is the no-match sentinel.
const SystemPrompt = `You are extracting specific information from a section of web page text.

Rules:
1. Extract only the information that directly matches the description given by the user.
2. Do not add any comments, explanations, or extra text to your response.
3. If nothing in the text matches the description, respond with exactly: %s
4. Your output must contain only the requested data, with no other text.`

// BuildPrompt creates the prompt for one chunk of page text.
func BuildPrompt(chunk, query, sentinel string) Prompt {
	var sb strings.Builder
	sb.WriteString("Text content:\n---\n")
	sb.WriteString(chunk)
	sb.WriteString("\n---\n\n")
	fmt.Fprintf(&sb, "Extract the information matching this description: %s", query)
	return Prompt{
		System: fmt.Sprintf(SystemPrompt, sentinel),
		User:   sb.String(),
	}
}
