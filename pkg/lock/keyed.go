// Package lock provides in-process mutual exclusion keyed by an arbitrary
// identifier, for serializing work on a single resource (a package id) while
// leaving unrelated resources fully parallel. Entries are created lazily and
// removed once no goroutine holds or waits for them, so the map does not grow
// with the number of distinct keys ever seen.
//
// This is single-process scope only. A multi-instance deployment needs an
// external lock with the same contract.
package lock

import (
	"errors"
	"sync"
	"time"
)

// ErrBusy is returned by TryDo when the key could not be acquired within the
// timeout. It signals contention, not a business failure, and is retryable.
var ErrBusy = errors.New("lock: key is busy")

type entry struct {
	sem  chan struct{}
	refs int
}

// KeyedLock serializes execution per key. The zero value is not usable; use New.
type KeyedLock[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
}

func New[K comparable]() *KeyedLock[K] {
	return &KeyedLock[K]{
		entries: make(map[K]*entry),
	}
}

// acquire registers interest in the key under the map mutex, then blocks on
// the key's semaphore. The refs count covers both the holder and all waiters,
// so an entry is only ever deleted when refs is provably zero.
func (l *KeyedLock[K]) acquire(key K) *entry {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.sem <- struct{}{}
	return e
}

func (l *KeyedLock[K]) tryAcquire(key K, timeout time.Duration) (*entry, bool) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		return e, true
	case <-timer.C:
		l.unref(key, e)
		return nil, false
	}
}

func (l *KeyedLock[K]) release(key K, e *entry) {
	<-e.sem
	l.unref(key, e)
}

func (l *KeyedLock[K]) unref(key K, e *entry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}

// Do runs fn while holding the key's lock. The lock is released even if fn
// panics, and fn's error is returned verbatim.
func (l *KeyedLock[K]) Do(key K, fn func() error) error {
	e := l.acquire(key)
	defer l.release(key, e)
	return fn()
}

// TryDo is Do with a bounded wait for the lock. On timeout it returns ErrBusy
// without having run fn and without holding anything.
func (l *KeyedLock[K]) TryDo(key K, timeout time.Duration, fn func() error) error {
	e, ok := l.tryAcquire(key, timeout)
	if !ok {
		return ErrBusy
	}
	defer l.release(key, e)
	return fn()
}

// Len reports the number of live lock entries, held or waited on.
func (l *KeyedLock[K]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// WithLock runs fn while holding the key's lock and passes its result through
// unchanged. It is a package-level function because methods cannot introduce
// type parameters.
func WithLock[K comparable, T any](l *KeyedLock[K], key K, fn func() (T, error)) (T, error) {
	e := l.acquire(key)
	defer l.release(key, e)
	return fn()
}
