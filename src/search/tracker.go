package search

import (
	"context"
	"sync"
)

// Tracker hands out a generation number per key (a chat, a browser session).
// Starting a new search for a key cancels the previous one, and Current lets
// a late response find out it has been superseded.
type Tracker struct {
	mu      sync.Mutex
	last    uint64
	entries map[string]*generation
}

type generation struct {
	id     uint64
	cancel context.CancelFunc
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]*generation)}
}

// Begin starts the next generation for key. The returned context is cancelled
// when a newer generation begins or done is called. Generation numbers are
// unique across keys and never reused.
func (t *Tracker) Begin(parent context.Context, key string) (ctx context.Context, gen uint64, done func()) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	if prev := t.entries[key]; prev != nil {
		prev.cancel()
	}
	t.last++
	gen = t.last
	t.entries[key] = &generation{id: gen, cancel: cancel}
	t.mu.Unlock()

	return ctx, gen, func() {
		cancel()
		t.mu.Lock()
		defer t.mu.Unlock()
		if entry, ok := t.entries[key]; ok && entry.id == gen {
			delete(t.entries, key)
		}
	}
}

// Current reports whether gen is still the latest generation for key. A
// generation stops being current once a newer one begins or its done runs.
func (t *Tracker) Current(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[key]
	return ok && entry.id == gen
}
