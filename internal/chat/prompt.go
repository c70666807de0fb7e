// Package chat relays a conversation to a local completion endpoint. The
// transcript is flattened into a single "User:/Assistant:" prompt; the reply
// (or the failure) becomes the next assistant turn.
package chat

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func NewMessage(role Role, content string) Message {
	return Message{ID: uuid.NewString(), Role: role, Content: content}
}

// BasePreamble is prepended to every prompt, followed by the locale's
// language instruction.
var BasePreamble = strings.Join([]string{
	"You are Mustafa's assistant running locally on his Raspberry Pi.",
	"Answer briefly and directly.",
	"If you are unsure, say you are unsure.",
}, "\n")

// Preamble joins the base preamble and a locale instruction.
func Preamble(languageLine string) string {
	if languageLine == "" {
		return BasePreamble
	}
	return BasePreamble + "\n" + languageLine
}

// Recent returns the last limit messages of history. limit <= 0 keeps all.
func Recent(history []Message, limit int) []Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

// BuildPrompt renders system, the prior turns and the new user text into a
// completion prompt ending in "Assistant:". history must not contain
// userText itself; callers bound it with Recent.
func BuildPrompt(system string, history []Message, userText string) string {
	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\n")
	for _, m := range history {
		b.WriteString(speaker(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("User: ")
	b.WriteString(userText)
	b.WriteString("\nAssistant:")
	return b.String()
}

func speaker(r Role) string {
	if r == RoleUser {
		return "User"
	}
	return "Assistant"
}
