package tx

import (
	"fmt"
	"sync/atomic"

	"simpledb/buffer"
	"simpledb/file"
	"simpledb/log"
	"simpledb/tx/concurrency"
)

// EndOfFile is the block number of the sentinel block used to serialize file
// extension against readers counting blocks.
const EndOfFile = -1

var nextTxNum atomic.Int64

// nextTxNumber returns the next transaction number. Transaction ids are
// assigned monotonically, starting at 1, and are not persisted.
func nextTxNumber() int {
	return int(nextTxNum.Add(1))
}

// Transaction provides transaction management for clients, ensuring that all
// transactions are serializable and recoverable. It is the facade binding
// buffer pinning, locking, logged mutation, and commit/rollback.
// Each transaction is single-threaded internally.
type Transaction struct {
	recoveryManager    *RecoveryManager
	concurrencyManager *concurrency.Manager
	bufferManager      *buffer.Manager
	fileManager        *file.Manager
	txNum              int
	myBuffers          *BufferList
}

// NewTransaction creates a new Transaction and its associated recovery and
// concurrency managers. The file, log, and buffer managers and the lock
// table come from the engine object, which creates them at system startup.
func NewTransaction(fileManager *file.Manager, logManager *log.Manager, bufferManager *buffer.Manager, lockTable *concurrency.LockTable) (*Transaction, error) {
	tx := &Transaction{
		fileManager:        fileManager,
		bufferManager:      bufferManager,
		txNum:              nextTxNumber(),
		concurrencyManager: concurrency.NewManager(lockTable),
		myBuffers:          NewBufferList(bufferManager),
	}
	var err error
	if tx.recoveryManager, err = NewRecoveryManager(tx, tx.txNum, logManager, bufferManager); err != nil {
		return nil, err
	}
	return tx, nil
}

// Commit commits the current transaction.
// Flushes all modified buffers (and their log records), writes and flushes a
// commit record to the log, releases all the locks, and unpins any pinned
// buffers.
func (tx *Transaction) Commit() error {
	if err := tx.recoveryManager.Commit(); err != nil {
		return err
	}
	fmt.Printf("Transaction %d committed\n", tx.txNum)
	tx.concurrencyManager.Release()
	tx.myBuffers.UnpinAll()
	return nil
}

// Rollback rolls back the current transaction.
// Undoes any modified values, flushes those buffers, writes and flushes a
// rollback record to the log, releases all the locks, and unpins any pinned
// buffers.
func (tx *Transaction) Rollback() error {
	if err := tx.recoveryManager.Rollback(); err != nil {
		return err
	}
	fmt.Printf("Transaction %d rolled back\n", tx.txNum)
	tx.concurrencyManager.Release()
	tx.myBuffers.UnpinAll()
	return nil
}

// Recover flushes the buffers modified by this transaction to disk, then goes
// through the log, rolling back all uncommitted transactions. This method is called during
// system startup, before any user transactions begin.
func (tx *Transaction) Recover() error {
	if err := tx.bufferManager.FlushAll(tx.txNum); err != nil {
		return err
	}
	return tx.recoveryManager.Recover()
}

// Pin pins the specified block. The transaction manages the buffer for the
// client.
func (tx *Transaction) Pin(block *file.BlockId) error {
	return tx.myBuffers.Pin(block)
}

// Unpin unpins the specified block. The transaction looks up the buffer
// pinned to this block, and unpins it.
func (tx *Transaction) Unpin(block *file.BlockId) {
	tx.myBuffers.Unpin(block)
}

// GetInt returns the integer value stored at the specified offset of the
// specified block. The method first obtains a shared lock on the block, then
// reads the value from the pinned buffer.
func (tx *Transaction) GetInt(block *file.BlockId, offset int) (int, error) {
	if err := tx.concurrencyManager.SLock(block); err != nil {
		return 0, err
	}
	buff := tx.myBuffers.GetBuffer(block)
	if buff == nil {
		return 0, fmt.Errorf("buffer for block %s not found", block)
	}
	return buff.Contents().GetInt(offset), nil
}

// GetFloat returns the float value stored at the specified offset of the
// specified block. The method first obtains a shared lock on the block, then
// reads the value from the pinned buffer.
func (tx *Transaction) GetFloat(block *file.BlockId, offset int) (float32, error) {
	if err := tx.concurrencyManager.SLock(block); err != nil {
		return 0, err
	}
	buff := tx.myBuffers.GetBuffer(block)
	if buff == nil {
		return 0, fmt.Errorf("buffer for block %s not found", block)
	}
	return buff.Contents().GetFloat(offset), nil
}

// GetString returns the string value stored at the specified offset of the
// specified block. The method first obtains a shared lock on the block, then
// reads the value from the pinned buffer.
func (tx *Transaction) GetString(block *file.BlockId, offset int) (string, error) {
	if err := tx.concurrencyManager.SLock(block); err != nil {
		return "", err
	}
	buff := tx.myBuffers.GetBuffer(block)
	if buff == nil {
		return "", fmt.Errorf("buffer for block %s not found", block)
	}
	return buff.Contents().GetString(offset)
}

// SetInt stores an integer at the specified offset of the specified block.
// The method first obtains an exclusive lock on the block. If logIt is true,
// it reads the current value at that offset, puts it into an update log
// record, and writes that record to the log. Finally, it stores the value in
// the buffer and marks the buffer with the record's LSN and the transaction's
// id.
func (tx *Transaction) SetInt(block *file.BlockId, offset, val int, logIt bool) error {
	if err := tx.concurrencyManager.XLock(block); err != nil {
		return err
	}
	buff := tx.myBuffers.GetBuffer(block)
	if buff == nil {
		return fmt.Errorf("buffer for block %s not found", block)
	}

	lsn := -1
	if logIt {
		var err error
		if lsn, err = tx.recoveryManager.SetInt(buff, offset); err != nil {
			return err
		}
	}

	buff.Contents().SetInt(offset, val)
	buff.SetModified(tx.txNum, lsn)
	return nil
}

// SetFloat stores a float at the specified offset of the specified block.
// The method first obtains an exclusive lock on the block. If logIt is true,
// it reads the current value at that offset, puts it into an update log
// record, and writes that record to the log. Finally, it stores the value in
// the buffer and marks the buffer with the record's LSN and the transaction's
// id.
func (tx *Transaction) SetFloat(block *file.BlockId, offset int, val float32, logIt bool) error {
	if err := tx.concurrencyManager.XLock(block); err != nil {
		return err
	}
	buff := tx.myBuffers.GetBuffer(block)
	if buff == nil {
		return fmt.Errorf("buffer for block %s not found", block)
	}

	lsn := -1
	if logIt {
		var err error
		if lsn, err = tx.recoveryManager.SetFloat(buff, offset); err != nil {
			return err
		}
	}

	buff.Contents().SetFloat(offset, val)
	buff.SetModified(tx.txNum, lsn)
	return nil
}

// SetString stores a string at the specified offset of the specified block.
// The method first obtains an exclusive lock on the block. If logIt is true,
// it reads the current value at that offset, puts it into an update log
// record, and writes that record to the log. Finally, it stores the value in
// the buffer and marks the buffer with the record's LSN and the transaction's
// id.
func (tx *Transaction) SetString(block *file.BlockId, offset int, val string, logIt bool) error {
	if err := tx.concurrencyManager.XLock(block); err != nil {
		return err
	}
	buff := tx.myBuffers.GetBuffer(block)
	if buff == nil {
		return fmt.Errorf("buffer for block %s not found", block)
	}

	lsn := -1
	if logIt {
		var err error
		if lsn, err = tx.recoveryManager.SetString(buff, offset); err != nil {
			return err
		}
	}

	if err := buff.Contents().SetString(offset, val); err != nil {
		return err
	}
	buff.SetModified(tx.txNum, lsn)
	return nil
}

// Size returns the number of blocks in the specified file. The method first
// obtains a shared lock on the "end of file" sentinel block, so that another
// transaction cannot extend the file while this transaction is counting its
// blocks.
func (tx *Transaction) Size(filename string) (int, error) {
	sentinel := file.NewBlockId(filename, EndOfFile)
	if err := tx.concurrencyManager.SLock(sentinel); err != nil {
		return 0, err
	}
	return tx.fileManager.Length(filename)
}

// Append appends a new block to the end of the specified file and returns a
// reference to it. The method first obtains an exclusive lock on the
// "end of file" sentinel block, so that readers counting blocks are
// serialized against the extension.
func (tx *Transaction) Append(filename string) (*file.BlockId, error) {
	sentinel := file.NewBlockId(filename, EndOfFile)
	if err := tx.concurrencyManager.XLock(sentinel); err != nil {
		return nil, err
	}
	return tx.fileManager.Append(filename)
}

// BlockSize returns the size of a block in the database.
func (tx *Transaction) BlockSize() int {
	return tx.fileManager.BlockSize()
}

// AvailableBuffers returns the number of available (unpinned) buffers.
func (tx *Transaction) AvailableBuffers() int {
	return tx.bufferManager.Available()
}

// TxNum returns the transaction number.
func (tx *Transaction) TxNum() int {
	return tx.txNum
}
