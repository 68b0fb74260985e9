// Package datelock serializes writers touching the same calendar date so a
// conflict check and the write that follows it cannot interleave with
// another booking for that date.
package datelock

import (
	"context"
	"slices"
	"sync"
)

// Unlock releases a lock obtained from Locker.Lock. It is safe to call once.
type Unlock func()

type Locker interface {
	// Lock blocks until the date is held exclusively or ctx is done.
	Lock(ctx context.Context, date string) (Unlock, error)
}

// LockAll takes every distinct date in lexical order, so two writers that
// need the same pair of dates can never deadlock.
func LockAll(ctx context.Context, l Locker, dates ...string) (Unlock, error) {
	sorted := slices.Clone(dates)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	unlocks := make([]Unlock, 0, len(sorted))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}

	for _, d := range sorted {
		u, err := l.Lock(ctx, d)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, u)
	}
	return release, nil
}

// LocalLocker is an in-process Locker: one channel-based mutex per date,
// dropped once nobody holds or waits for it.
type LocalLocker struct {
	mu    sync.Mutex
	dates map[string]*dateEntry
}

type dateEntry struct {
	sem  chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{dates: make(map[string]*dateEntry)}
}

func (l *LocalLocker) Lock(ctx context.Context, date string) (Unlock, error) {
	l.mu.Lock()
	e, ok := l.dates[date]
	if !ok {
		e = &dateEntry{sem: make(chan struct{}, 1)}
		l.dates[date] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(date, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(date, e)
		})
	}, nil
}

func (l *LocalLocker) release(date string, e *dateEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.dates, date)
	}
}

// held is used by tests to check entries are cleaned up.
func (l *LocalLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.dates)
}
