package concurrency

import (
	"simpledb/file"
)

// LockMode is the mode of a lock held by a transaction on a block.
type LockMode string

const (
	SharedLock    LockMode = "S"
	ExclusiveLock LockMode = "X"
)

// Manager is the concurrency manager for a single transaction. It keeps track
// of which locks the transaction currently holds and coordinates with the
// engine's lock table to implement two-phase locking: all locks are acquired
// before any are released, and release happens only at commit or rollback.
// A transaction is single-threaded internally, so the held-lock map needs no
// locking of its own.
type Manager struct {
	lockTable *LockTable
	locks     map[file.BlockId]LockMode
}

// NewManager creates a concurrency manager backed by the engine's lock table.
func NewManager(lockTable *LockTable) *Manager {
	return &Manager{
		lockTable: lockTable,
		locks:     make(map[file.BlockId]LockMode),
	}
}

// SLock obtains a shared lock on the specified block. If the transaction
// already holds any lock on the block, this is a no-op.
func (cm *Manager) SLock(block *file.BlockId) error {
	if _, held := cm.locks[*block]; held {
		return nil
	}
	if err := cm.lockTable.SLock(block); err != nil {
		return err
	}
	cm.locks[*block] = SharedLock
	return nil
}

// XLock obtains an exclusive lock on the specified block. If the transaction
// holds a shared lock, it is upgraded; if it holds no lock, a shared lock is
// acquired first and then upgraded. On a failed upgrade the intermediate
// shared lock is released before the error is surfaced.
func (cm *Manager) XLock(block *file.BlockId) error {
	if cm.hasXLock(block) {
		return nil
	}

	if _, held := cm.locks[*block]; held {
		// Upgrade the shared lock we already hold.
		if err := cm.lockTable.XLock(block); err != nil {
			return err
		}
		cm.locks[*block] = ExclusiveLock
		return nil
	}

	if err := cm.SLock(block); err != nil {
		return err
	}
	if err := cm.lockTable.XLock(block); err != nil {
		cm.lockTable.Unlock(block)
		delete(cm.locks, *block)
		return err
	}
	cm.locks[*block] = ExclusiveLock
	return nil
}

// Release releases all locks held by this transaction. It is called when the
// transaction commits or rolls back.
func (cm *Manager) Release() {
	for block := range cm.locks {
		block := block
		cm.lockTable.Unlock(&block)
	}
	clear(cm.locks)
}

// hasXLock reports whether the transaction holds an exclusive lock on the block.
func (cm *Manager) hasXLock(block *file.BlockId) bool {
	return cm.locks[*block] == ExclusiveLock
}
