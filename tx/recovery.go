package tx

import (
	"fmt"

	"simpledb/buffer"
	"simpledb/log"
)

// RecoveryManager is the recovery manager for a single transaction.
// It writes the transaction's log records and uses them to roll the
// transaction back or to recover the database after a crash.
// Recovery is undo-only: commit forces the transaction's pages to disk, so no
// redo information is kept, but eviction may flush pages of uncommitted
// transactions, so every logged update carries its old value.
type RecoveryManager struct {
	logManager    *log.Manager
	bufferManager *buffer.Manager
	tx            *Transaction
	txNum         int
}

// NewRecoveryManager creates a recovery manager for the specified
// transaction and writes its start record to the log.
func NewRecoveryManager(tx *Transaction, txNum int, logManager *log.Manager, bufferManager *buffer.Manager) (*RecoveryManager, error) {
	if _, err := WriteStartToLog(logManager, txNum); err != nil {
		return nil, fmt.Errorf("failed to write start record: %w", err)
	}
	return &RecoveryManager{
		logManager:    logManager,
		bufferManager: bufferManager,
		tx:            tx,
		txNum:         txNum,
	}, nil
}

// Commit commits the transaction: the transaction's modified buffers are
// forced to disk, then a commit record is written and flushed. Once Commit
// returns, the commit record and every modified page are durable.
func (rm *RecoveryManager) Commit() error {
	if err := rm.bufferManager.FlushAll(rm.txNum); err != nil {
		return err
	}
	lsn, err := WriteCommitToLog(rm.logManager, rm.txNum)
	if err != nil {
		return err
	}
	return rm.logManager.Flush(lsn)
}

// Rollback rolls the transaction back: its updates are undone in reverse
// order, the affected buffers are forced to disk, and a rollback record is
// written and flushed.
func (rm *RecoveryManager) Rollback() error {
	if err := rm.doRollback(); err != nil {
		return err
	}
	if err := rm.bufferManager.FlushAll(rm.txNum); err != nil {
		return err
	}
	lsn, err := WriteRollbackToLog(rm.logManager, rm.txNum)
	if err != nil {
		return err
	}
	return rm.logManager.Flush(lsn)
}

// Recover recovers the database after a crash: every update of every
// uncompleted transaction is undone, the restored pages are forced to disk,
// and a rollback record for the recovering transaction is written and
// flushed. This method is called during system startup, before any user
// transactions begin.
func (rm *RecoveryManager) Recover() error {
	if err := rm.doRecover(); err != nil {
		return err
	}
	if err := rm.bufferManager.FlushAll(rm.txNum); err != nil {
		return err
	}
	lsn, err := WriteRollbackToLog(rm.logManager, rm.txNum)
	if err != nil {
		return err
	}
	return rm.logManager.Flush(lsn)
}

// SetInt writes a set-int record to the log and returns its LSN.
// The old value is read from the buffer before the caller overwrites it.
func (rm *RecoveryManager) SetInt(buff *buffer.Buffer, offset int) (int, error) {
	oldVal := buff.Contents().GetInt(offset)
	return WriteSetIntToLog(rm.logManager, rm.txNum, buff.Block(), offset, oldVal)
}

// SetString writes a set-string record to the log and returns its LSN.
// The old value is read from the buffer before the caller overwrites it.
func (rm *RecoveryManager) SetString(buff *buffer.Buffer, offset int) (int, error) {
	oldVal, err := buff.Contents().GetString(offset)
	if err != nil {
		return -1, err
	}
	return WriteSetStringToLog(rm.logManager, rm.txNum, buff.Block(), offset, oldVal)
}

// SetFloat writes a set-float record to the log and returns its LSN.
// The old value is read from the buffer before the caller overwrites it.
func (rm *RecoveryManager) SetFloat(buff *buffer.Buffer, offset int) (int, error) {
	oldVal := buff.Contents().GetFloat(offset)
	return WriteSetFloatToLog(rm.logManager, rm.txNum, buff.Block(), offset, oldVal)
}

// doRollback iterates through the log records in reverse order, undoing every
// update of this transaction, and stops at the transaction's start record.
func (rm *RecoveryManager) doRollback() error {
	iter, err := rm.logManager.Iterator()
	if err != nil {
		return err
	}

	for iter.HasNext() {
		bytes, err := iter.Next()
		if err != nil {
			return err
		}
		record, err := CreateLogRecord(bytes)
		if err != nil {
			return err
		}

		if record.TxNumber() != rm.txNum {
			continue
		}
		if record.Op() == Start {
			return nil
		}
		if err := record.Undo(rm.tx); err != nil {
			return err
		}
	}
	return nil
}

// doRecover performs a single backward pass over the log, stopping at a
// checkpoint record. Updates belonging to transactions with no commit or
// rollback record are undone; undo is idempotent, so repeating recovery
// after a second crash is safe.
func (rm *RecoveryManager) doRecover() error {
	finished := make(map[int]struct{})

	iter, err := rm.logManager.Iterator()
	if err != nil {
		return err
	}

	for iter.HasNext() {
		bytes, err := iter.Next()
		if err != nil {
			return err
		}
		record, err := CreateLogRecord(bytes)
		if err != nil {
			return err
		}

		switch record.Op() {
		case Checkpoint:
			return nil
		case Commit, Rollback:
			finished[record.TxNumber()] = struct{}{}
		default:
			if _, done := finished[record.TxNumber()]; !done {
				if err := record.Undo(rm.tx); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
