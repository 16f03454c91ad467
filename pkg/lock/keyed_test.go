package lock

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestDo_MutualExclusionPerKey(t *testing.T) {
	l := New[string]()

	const goroutines = 50
	var inSection int
	var maxInSection int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.Do("pkg-1", func() error {
				mu.Lock()
				inSection++
				if inSection > maxInSection {
					maxInSection = inSection
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inSection--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxInSection != 1 {
		t.Errorf("expected at most 1 goroutine in critical section, observed %d", maxInSection)
	}
}

func TestDo_DistinctKeysRunInParallel(t *testing.T) {
	l := New[string]()

	const keys = 3
	const hold = 50 * time.Millisecond

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < keys; i++ {
		wg.Add(1)
		key := string(rune('a' + i))
		go func() {
			defer wg.Done()
			_ = l.Do(key, func() error {
				time.Sleep(hold)
				return nil
			})
		}()
	}
	wg.Wait()

	elapsed := time.Since(start)
	// Serialized execution would take keys*hold. Allow generous scheduling slack
	// while still ruling out serialization.
	if elapsed >= time.Duration(keys)*hold {
		t.Errorf("distinct keys were serialized: %d keys holding %v took %v", keys, hold, elapsed)
	}
}

func TestDo_ErrorPropagatesAndLockIsReleased(t *testing.T) {
	l := New[string]()

	wantErr := errors.New("boom")
	if err := l.Do("k", func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected error to propagate verbatim, got %v", err)
	}

	done := make(chan struct{})
	go func() {
		_ = l.Do("k", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock was not released after fn returned an error")
	}
}

func TestDo_PanicReleasesLock(t *testing.T) {
	l := New[string]()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = l.Do("k", func() error { panic("inside critical section") })
	}()

	done := make(chan struct{})
	go func() {
		_ = l.Do("k", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock was not released after panic")
	}
}

func TestEntriesAreRemovedWhenIdle(t *testing.T) {
	l := New[string]()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		key := string(rune('a' + i%5))
		go func() {
			defer wg.Done()
			_ = l.Do(key, func() error {
				time.Sleep(time.Millisecond)
				return nil
			})
		}()
	}
	wg.Wait()

	if n := l.Len(); n != 0 {
		t.Errorf("expected no live entries after all work finished, got %d", n)
	}
}

func TestTryDo_ReturnsBusyOnContention(t *testing.T) {
	l := New[string]()

	holding := make(chan struct{})
	releaseHold := make(chan struct{})
	go func() {
		_ = l.Do("k", func() error {
			close(holding)
			<-releaseHold
			return nil
		})
	}()
	<-holding

	err := l.TryDo("k", 10*time.Millisecond, func() error {
		t.Error("fn must not run when the lock is busy")
		return nil
	})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(releaseHold)

	// A timed-out attempt must not leave a partial hold behind.
	if err := l.TryDo("k", time.Second, func() error { return nil }); err != nil {
		t.Fatalf("expected lock to be acquirable after the holder released, got %v", err)
	}
	if n := l.Len(); n != 0 {
		t.Errorf("expected no live entries, got %d", n)
	}
}

func TestWithLock_ReturnsResult(t *testing.T) {
	l := New[string]()

	got, err := WithLock(l, "k", func() (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	wantErr := errors.New("nope")
	_, err = WithLock(l, "k", func() (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected error to propagate verbatim, got %v", err)
	}
}
