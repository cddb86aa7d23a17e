package conversation

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkChars keeps a safety margin under Murf's 3000-character
// request limit.
const DefaultChunkChars = 2800

// SplitText splits text into chunks of at most maxLen characters without
// breaking inside a word. Joining the chunks with single spaces reproduces
// the whitespace-normalized input. A single word longer than maxLen becomes
// its own oversized chunk; words are never split. Empty input yields no
// chunks.
func SplitText(text string, maxLen int) []string {
	var chunks []string
	var current []string
	length := 0

	for _, w := range strings.Fields(text) {
		extra := utf8.RuneCountInString(w)
		if len(current) > 0 {
			extra++ // separating space
		}
		if length+extra > maxLen {
			if len(current) > 0 {
				chunks = append(chunks, strings.Join(current, " "))
			}
			current = []string{w}
			length = utf8.RuneCountInString(w)
		} else {
			current = append(current, w)
			length += extra
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
