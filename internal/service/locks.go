package service

import "sync"

// phoneLocks serializes message handling per phone number. Concurrent
// webhooks for the same sender must observe each other's state changes;
// different senders never block each other.
type phoneLocks struct {
	mu    sync.Mutex
	locks map[string]*phoneEntry
}

type phoneEntry struct {
	mu   sync.Mutex
	refs int
}

func newPhoneLocks() *phoneLocks {
	return &phoneLocks{locks: make(map[string]*phoneEntry)}
}

// Lock acquires the per-phone mutex and returns its release function.
// Entries are reference counted so the map does not grow unboundedly.
func (p *phoneLocks) Lock(phone string) func() {
	p.mu.Lock()
	e, ok := p.locks[phone]
	if !ok {
		e = &phoneEntry{}
		p.locks[phone] = e
	}
	e.refs++
	p.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		p.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(p.locks, phone)
		}
		p.mu.Unlock()
	}
}
