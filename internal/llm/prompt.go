// Package llm provides the reply-generation clients.
package llm

import (
	"strings"

	"github.com/voicerelay/voice-relay/internal/conversation"
)

// BuildPrompt flattens the mode instruction, the trailing history and the
// new utterance into the single prompt every generation vendor receives.
// History renders oldest-first as "User: ..." / "Assistant: ..." lines.
func BuildPrompt(userText string, history []conversation.Message, mode conversation.Mode) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		prefix := "Assistant"
		if msg.Role == conversation.RoleUser {
			prefix = "User"
		}
		lines = append(lines, prefix+": "+msg.Content)
	}

	var b strings.Builder
	b.WriteString(mode.Instruction())
	b.WriteString("\n\nHere is the recent conversation:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nUser (new): ")
	b.WriteString(userText)
	b.WriteString("\n\nAssistant (spoken-style reply):")
	return b.String()
}
