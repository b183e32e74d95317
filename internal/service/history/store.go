package history

import (
	"sync"

	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
)

// Store is the ordered, append-only log of one widget session.
// Only the session controller appends; views read snapshots from any goroutine.
type Store struct {
	mu       sync.RWMutex
	messages []chat.Message
}

// NewStore returns an empty history.
func NewStore() *Store {
	return &Store{messages: make([]chat.Message, 0, 16)}
}

// Append adds a message to the end of the log.
func (s *Store) Append(message chat.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, message)
	s.mu.Unlock()
}

// Snapshot returns a copy of the log in insertion order.
func (s *Store) Snapshot() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Len returns the number of messages appended so far.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message.
func (s *Store) Last() (chat.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return chat.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}
