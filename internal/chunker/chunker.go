package chunker

import "unicode/utf8"

// DefaultSize is the window length in characters used when none is configured.
const DefaultSize = 6000

// Split cuts text into sequential windows of size runes. The last window may
// be shorter. Text that fits in one window is returned whole, and a
// non-positive size falls back to DefaultSize.
func Split(text string, size int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	if utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	var chunks []string
	start, n := 0, 0
	for i := range text {
		if n == size {
			chunks = append(chunks, text[start:i])
			start, n = i, 0
		}
		n++
	}
	return append(chunks, text[start:])
}
