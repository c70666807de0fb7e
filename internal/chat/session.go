package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrBusy is returned by Send while a previous reply is still pending.
var ErrBusy = errors.New("reply in progress")

// Responder produces the next assistant turn. *Relay implements it.
type Responder interface {
	Reply(ctx context.Context, locale string, history []Message, userText string) Message
}

// Session is one conversation. The full transcript is kept for display;
// only the recent part goes into each prompt.
type Session struct {
	responder Responder
	locale    string

	mu       sync.Mutex
	messages []Message
	busy     bool
	onReply  func(Message)
}

// NewSession starts a conversation with a greeting turn, if one is given.
func NewSession(r Responder, locale, greeting string) *Session {
	s := &Session{responder: r, locale: locale}
	if greeting != "" {
		s.messages = append(s.messages, NewMessage(RoleAssistant, greeting))
	}
	return s
}

// OnReply registers fn to run after every assistant turn.
func (s *Session) OnReply(fn func(Message)) { s.onReply = fn }

func (s *Session) Locale() string { return s.locale }

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Send appends the user turn, asks the responder for a reply and appends
// that too. Blank input and concurrent sends are rejected.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return Message{}, ErrBusy
	}
	s.busy = true
	history := append([]Message(nil), s.messages...)
	s.messages = append(s.messages, NewMessage(RoleUser, text))
	s.mu.Unlock()

	reply := s.responder.Reply(ctx, s.locale, history, text)

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.busy = false
	fn := s.onReply
	s.mu.Unlock()

	if fn != nil {
		fn(reply)
	}
	return reply, nil
}
