package chat

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/AFARIMINTAH/Safehaven/internal/metrics"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
)

// Session is one conversation buffer. mu is held for a whole turn, so turns
// against the same session never interleave.
type Session struct {
	mu       sync.Mutex
	messages []model.ChatMessage
}

// Messages returns a copy of the buffer. Callers must not hold the session lock.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage(nil), s.messages...)
}

// SessionStore maps session keys to buffers with LRU capacity and idle expiry.
type SessionStore struct {
	mu           sync.Mutex
	cache        *expirable.LRU[string, *Session]
	systemPrompt string
}

// NewSessionStore returns a store holding at most capacity sessions, each dropped after ttl without a turn.
func NewSessionStore(systemPrompt string, capacity int, ttl time.Duration) *SessionStore {
	onEvict := func(key string, _ *Session) {
		metrics.IncSessionsEvicted()
	}
	return &SessionStore{
		cache:        expirable.NewLRU[string, *Session](capacity, onEvict, ttl),
		systemPrompt: systemPrompt,
	}
}

// GetOrCreate returns the session for key, seeding a new one with the system prompt.
func (s *SessionStore) GetOrCreate(key string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.cache.Get(key); ok {
		return sess
	}
	sess := &Session{messages: []model.ChatMessage{{Role: model.RoleSystem, Content: s.systemPrompt}}}
	s.cache.Add(key, sess)
	metrics.SetActiveSessions(s.cache.Len())
	return sess
}

// Acquire returns the live session for key with its lock held. A session evicted
// while the caller waited for its lock is skipped in favor of the current one.
func (s *SessionStore) Acquire(key string) *Session {
	for {
		sess := s.GetOrCreate(key)
		sess.mu.Lock()
		if s.current(key, sess) {
			return sess
		}
		sess.mu.Unlock()
	}
}

func (s *SessionStore) current(key string, sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.cache.Peek(key)
	return ok && cur == sess
}

// Get returns an existing session without creating one.
func (s *SessionStore) Get(key string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(key)
}

// Touch re-inserts the session to restart its idle timer. It is a no-op when key
// now maps to a different session.
func (s *SessionStore) Touch(key string, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.cache.Peek(key); ok && cur != sess {
		return
	}
	s.cache.Add(key, sess)
	metrics.SetActiveSessions(s.cache.Len())
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// truncate keeps the leading system message plus the newest max-1 turns.
func truncate(msgs []model.ChatMessage, max int) []model.ChatMessage {
	if len(msgs) <= max {
		return msgs
	}
	out := make([]model.ChatMessage, 0, max)
	out = append(out, msgs[0])
	out = append(out, msgs[len(msgs)-(max-1):]...)
	return out
}
