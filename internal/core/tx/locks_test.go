package tx

import (
	"sync"
	"testing"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/types"
)

func TestAccountLocks_Exclusive(t *testing.T) {
	locks := NewAccountLocks()
	a, b, c := types.Address{1}, types.Address{2}, types.Address{3}

	unlock := locks.Lock([]types.Address{a, b})

	acquired := make(chan struct{})
	go func() {
		release := locks.Lock([]types.Address{c, b})
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("overlapping set acquired while held")
	case <-time.After(20 * time.Millisecond):
	}

	// Disjoint sets do not wait.
	locks.Lock([]types.Address{c})()

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestAccountLocks_NoDeadlockOnReversedOrder(t *testing.T) {
	locks := NewAccountLocks()
	a, b := types.Address{1}, types.Address{2}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			locks.Lock([]types.Address{a, b})()
		}()
		go func() {
			defer wg.Done()
			locks.Lock([]types.Address{b, a})()
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("deadlock")
	}

	if held := locks.held(); held != 0 {
		t.Errorf("held() = %d after release, want 0", held)
	}
}

func TestAccountLocks_ReleaseIsIdempotent(t *testing.T) {
	locks := NewAccountLocks()
	a := types.Address{1}

	unlock := locks.Lock([]types.Address{a, a, {}})
	if held := locks.held(); held != 1 {
		t.Errorf("held() = %d, want 1 (duplicates and zero dropped)", held)
	}
	unlock()
	unlock()
	if held := locks.held(); held != 0 {
		t.Errorf("held() = %d, want 0", held)
	}
}
