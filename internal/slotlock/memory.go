package slotlock

import (
	"context"
	"sync"
	"time"
)

// memorySlot is a one-token semaphore shared by every caller interested in
// a key. refs counts holders and waiters; the slot is dropped at zero.
type memorySlot struct {
	ch   chan struct{}
	refs int
}

// MemoryLocker is an in-process Locker. It only protects a single server
// instance and is used when no Redis is configured.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*memorySlot
	wait  time.Duration
}

// NewMemoryLocker creates a MemoryLocker. A non-positive wait means callers
// wait until their context is done.
func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{
		slots: make(map[string]*memorySlot),
		wait:  wait,
	}
}

func (l *MemoryLocker) ref(key string) *memorySlot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &memorySlot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *MemoryLocker) unref(key string, s *memorySlot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	s := l.ref(key)

	var timeout <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, s)
		return nil, ctx.Err()
	case <-timeout:
		l.unref(key, s)
		return nil, ErrLockTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(key, s)
		})
	}, nil
}

// size reports how many keys currently have holders or waiters.
func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
