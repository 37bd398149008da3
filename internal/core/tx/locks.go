package tx

import (
	"sort"
	"sync"

	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// AccountLocks hands out one exclusive lock per address. Lock acquires a
// set of addresses in sorted order so overlapping sets cannot deadlock.
type AccountLocks struct {
	mu    sync.Mutex
	locks map[types.Address]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func NewAccountLocks() *AccountLocks {
	return &AccountLocks{locks: make(map[types.Address]*accountLock)}
}

// Lock blocks until every address is held and returns the release func.
func (l *AccountLocks) Lock(addrs []types.Address) func() {
	sorted := UniqueAccounts(addrs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	held := make([]*accountLock, 0, len(sorted))
	for _, a := range sorted {
		lk := l.acquireRef(a)
		lk.mu.Lock()
		held = append(held, lk)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].mu.Unlock()
				l.releaseRef(sorted[i])
			}
		})
	}
}

func (l *AccountLocks) acquireRef(a types.Address) *accountLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk, ok := l.locks[a]
	if !ok {
		lk = &accountLock{}
		l.locks[a] = lk
	}
	lk.refs++
	return lk
}

func (l *AccountLocks) releaseRef(a types.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk := l.locks[a]
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, a)
	}
}

// held returns the number of addresses currently locked or waited on.
func (l *AccountLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
