package conversation

import (
	"sync"

	"github.com/google/uuid"
)

// Role identifies the author of a message in a session's history.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a session's history. Messages are immutable once
// appended and always arrive in user/assistant pairs.
type Message struct {
	Role    Role
	Content string
}

// DefaultHistoryMessages is the number of trailing history entries supplied
// to reply generation.
const DefaultHistoryMessages = 10

type session struct {
	mode     Mode
	messages []Message
}

// Store is an in-memory session store. Sessions live for the process
// lifetime; there is no expiry. The map is guarded so concurrent turns on
// distinct sessions cannot corrupt it; concurrent turns on the same session
// have no defined append order.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// CreateSession registers a new session with the given mode and returns its
// identifier.
func (s *Store) CreateSession(mode Mode) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{mode: mode}
	s.mu.Unlock()
	return id
}

// SetMode overwrites the stored mode. Unknown session ids are ignored.
func (s *Store) SetMode(id string, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.mode = mode
	}
}

// Mode returns the stored mode, or ModeAssistant for unknown session ids.
func (s *Store) Mode(id string) Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.mode
	}
	return ModeAssistant
}

// AddTurn appends a user/assistant message pair. A session that was never
// created (e.g. the client supplied a stale id) is created lazily with the
// default mode so the turn is not lost.
func (s *Store) AddTurn(id, userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{mode: ModeAssistant}
		s.sessions[id] = sess
	}
	sess.messages = append(sess.messages,
		Message{Role: RoleUser, Content: userText},
		Message{Role: RoleAssistant, Content: assistantText},
	)
}

// History returns up to max trailing messages, oldest-first. Unknown session
// ids yield an empty slice.
func (s *Store) History(id string, max int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	msgs := sess.messages
	if max > 0 && len(msgs) > max {
		msgs = msgs[len(msgs)-max:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
