package tui

import (
	"sync"

	"github.com/tessro/reel/internal/core"
)

// mailbox holds the newest session snapshot until the UI collects it.
// Controller callbacks never block on the UI loop.
type mailbox struct {
	mu     sync.Mutex
	latest core.Session // newest snapshot stored, kept after take
	seen   bool
	full   bool
	ready  chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newMailbox() *mailbox {
	return &mailbox{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// put stores s if it is newer than every snapshot stored so far, delivered
// or not. Older snapshots are dropped.
func (b *mailbox) put(s core.Session) {
	b.mu.Lock()
	if b.seen && s.Seq <= b.latest.Seq {
		b.mu.Unlock()
		return
	}
	b.latest = s
	b.seen = true
	b.full = true
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// take waits for a snapshot. It reports false once the mailbox is closed.
func (b *mailbox) take() (core.Session, bool) {
	for {
		select {
		case <-b.done:
			return core.Session{}, false
		case <-b.ready:
		}

		b.mu.Lock()
		s, ok := b.latest, b.full
		b.full = false
		b.mu.Unlock()
		if ok {
			return s, true
		}
	}
}

func (b *mailbox) close() {
	b.once.Do(func() { close(b.done) })
}
