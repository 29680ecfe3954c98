package conversation

import (
	"sync"
	"time"
)

// Store owns the live conversations, keyed by chat identifier. Each key has
// its own lock: Execute holds it for the whole callback, including any
// terminal database work, so correctness never depends on the transport
// delivering a user's messages one at a time. Different chats proceed
// independently.
//
// Entries are removed when a callback reports the session finished. There is
// no TTL; a chat that abandons mid-flow leaves its entry until restart.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

type entry struct {
	mu sync.Mutex
	// conv is nil once the session has finished; the entry itself is pruned
	// from the map afterwards.
	conv *Conversation
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

// Begin starts a fresh conversation for the chat, overwriting any prior one.
func (s *Store) Begin(chatID int64, now time.Time) {
	s.mu.Lock()
	e, ok := s.entries[chatID]
	if !ok {
		e = &entry{}
		s.entries[chatID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	e.conv = New(now)
	e.mu.Unlock()

	s.reinstall(chatID, e)
}

// Execute runs fn with exclusive access to the chat's conversation. It
// returns false without calling fn when no conversation is active. fn returns
// whether the session should be kept; returning false removes it.
func (s *Store) Execute(chatID int64, fn func(c *Conversation) (keep bool)) bool {
	s.mu.Lock()
	e, ok := s.entries[chatID]
	s.mu.Unlock()
	if !ok {
		return false
	}

	active, keep := e.run(fn)
	if active && !keep {
		s.prune(chatID, e)
	}
	return active
}

// run invokes fn under the entry lock. The unlock is deferred so a panicking
// callback cannot wedge the chat; the panic itself propagates to the
// dispatcher boundary.
func (e *entry) run(fn func(c *Conversation) bool) (active, keep bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conv == nil {
		return false, true
	}
	if !fn(e.conv) {
		e.conv = nil
		return true, false
	}
	return true, true
}

// Active reports whether the chat has a live conversation.
func (s *Store) Active(chatID int64) bool {
	s.mu.Lock()
	e, ok := s.entries[chatID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conv != nil
}

// reinstall restores the map slot if a concurrently finishing callback pruned
// it between Begin selecting the entry and writing the fresh session; without
// it that Begin would be silently lost. A slot claimed by a newer Begin in
// the same window is left alone, since that session is equally fresh.
func (s *Store) reinstall(chatID int64, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[chatID]; !ok {
		s.entries[chatID] = e
	}
}

// prune drops the map slot unless a newer session claimed it in the meantime.
// Lock order is always map then entry.
func (s *Store) prune(chatID int64, e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.entries[chatID]
	if !ok || cur != e {
		return
	}
	cur.mu.Lock()
	if cur.conv == nil {
		delete(s.entries, chatID)
	}
	cur.mu.Unlock()
}
