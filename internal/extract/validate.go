package extract

import (
	"regexp"
	"strings"
)

// IsNoMatch reports whether a model answer means "nothing found". Empty
// answers count, and the sentinel is matched case-insensitively with an
// optional trailing period.
func IsNoMatch(answer, sentinel string) bool {
	a := strings.TrimSuffix(strings.TrimSpace(answer), ".")
	if strings.TrimSpace(a) == "" {
		return true
	}
	s := strings.TrimSuffix(strings.TrimSpace(sentinel), ".")
	return strings.EqualFold(strings.TrimSpace(a), s)
}

var codeBlockRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func cleanAnswer(s string) string {
	return strings.TrimSpace(stripCodeBlock(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
