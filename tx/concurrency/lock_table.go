package concurrency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"simpledb/file"
)

// MaxWaitTime is the maximum time to wait for a lock before aborting.
const MaxWaitTime = 10 * time.Second

// ErrLockAbort indicates that acquiring a lock timed out.
var ErrLockAbort = errors.New("lock abort: lock acquisition timed out")

// LockTable grants shared and exclusive locks on blocks.
// The lock value for a block is -1 for an exclusive lock, a positive count of
// shared holders, or absent for no lock. There is one lock table per engine,
// shared by every transaction's concurrency manager.
type LockTable struct {
	locks       map[file.BlockId]int
	maxWaitTime time.Duration
	mu          sync.Mutex
	cond        *sync.Cond
}

// NewLockTable creates a lock table with the default wait timeout.
func NewLockTable() *LockTable {
	return NewLockTableWithTimeout(MaxWaitTime)
}

// NewLockTableWithTimeout creates a lock table whose lock waits are bounded
// by the given timeout.
func NewLockTableWithTimeout(maxWaitTime time.Duration) *LockTable {
	lt := &LockTable{
		locks:       make(map[file.BlockId]int),
		maxWaitTime: maxWaitTime,
	}
	lt.cond = sync.NewCond(&lt.mu)
	return lt
}

// SLock acquires a shared lock on the specified block, waiting while another
// transaction holds an exclusive lock. Returns ErrLockAbort on timeout.
func (lt *LockTable) SLock(block *file.BlockId) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if err := lt.waitFor(block, func() bool { return !lt.hasXLock(block) }); err != nil {
		return fmt.Errorf("%w: slock on block %s", ErrLockAbort, block)
	}
	lt.locks[*block] = lt.getLockVal(block) + 1
	return nil
}

// XLock acquires an exclusive lock on the specified block, waiting while any
// other transaction holds a shared lock. The caller is expected to already
// hold one shared lock on the block (the concurrency manager acquires it
// before upgrading), so a lock value of 1 is compatible.
// Returns ErrLockAbort on timeout.
func (lt *LockTable) XLock(block *file.BlockId) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if err := lt.waitFor(block, func() bool { return !lt.hasOtherSLocks(block) }); err != nil {
		return fmt.Errorf("%w: xlock on block %s", ErrLockAbort, block)
	}
	lt.locks[*block] = -1
	return nil
}

// Unlock releases a lock on the specified block. If more than one shared
// holder remains, the count is decremented; otherwise the entry is removed.
// In either case waiting goroutines are notified, so an upgrade waiting for
// the other shared holders to leave can proceed.
func (lt *LockTable) Unlock(block *file.BlockId) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	val := lt.getLockVal(block)
	if val > 1 {
		lt.locks[*block] = val - 1
	} else {
		delete(lt.locks, *block)
	}
	lt.cond.Broadcast()
}

// waitFor blocks until the condition holds or the wait timeout expires.
// Must be called with the table's mutex held. Uses the conditional wait
// pattern detailed here: https://pkg.go.dev/context#example-AfterFunc-Cond
func (lt *LockTable) waitFor(block *file.BlockId, ok func() bool) error {
	if ok() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), lt.maxWaitTime)
	defer cancel()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			lt.mu.Lock()
			lt.cond.Broadcast()
			lt.mu.Unlock()
		case <-done:
			// The condition was met before the context was canceled.
		}
	}()

	for !ok() {
		lt.cond.Wait()
		if ctx.Err() != nil {
			if !ok() {
				return ctx.Err()
			}
			break
		}
	}
	return nil
}

// hasXLock reports whether the block is exclusively locked.
func (lt *LockTable) hasXLock(block *file.BlockId) bool {
	return lt.getLockVal(block) < 0
}

// hasOtherSLocks reports whether the block has shared holders besides the
// upgrading transaction's own.
func (lt *LockTable) hasOtherSLocks(block *file.BlockId) bool {
	return lt.getLockVal(block) > 1
}

// getLockVal returns the lock value for the block.
func (lt *LockTable) getLockVal(block *file.BlockId) int {
	return lt.locks[*block]
}
