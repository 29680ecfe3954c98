package telegram

import "sync"

// dispatchQueue runs queued work strictly in order within a chat while
// letting different chats drain concurrently. One goroutine drains each
// chat's queue and exits when it empties.
type dispatchQueue struct {
	mu    sync.Mutex
	chats map[int64][]func()
}

func newDispatchQueue() *dispatchQueue {
	return &dispatchQueue{chats: make(map[int64][]func())}
}

// Enqueue appends fn to the chat's queue. The map slot doubles as the
// drainer's claim: it exists exactly while a goroutine owns the chat, so an
// absent slot means a new drainer must be started.
func (q *dispatchQueue) Enqueue(chatID int64, fn func()) {
	q.mu.Lock()
	pending, claimed := q.chats[chatID]
	q.chats[chatID] = append(pending, fn)
	q.mu.Unlock()

	if !claimed {
		go q.drain(chatID)
	}
}

func (q *dispatchQueue) drain(chatID int64) {
	for {
		q.mu.Lock()
		pending := q.chats[chatID]
		if len(pending) == 0 {
			delete(q.chats, chatID)
			q.mu.Unlock()
			return
		}
		fn := pending[0]
		q.chats[chatID] = pending[1:]
		q.mu.Unlock()

		fn()
	}
}
