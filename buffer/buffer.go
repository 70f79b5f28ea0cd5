package buffer

import (
	"simpledb/file"
	"simpledb/log"
)

// Buffer is an individual frame of the buffer pool. It holds the in-memory
// contents of one disk block along with the pin count and, if the page has
// been modified, the id of the modifying transaction and the LSN of the
// corresponding log record.
type Buffer struct {
	fileManager *file.Manager
	logManager  *log.Manager
	contents    *file.Page
	block       *file.BlockId
	pins        int
	txNum       int
	lsn         int
}

// NewBuffer creates an unassigned buffer frame.
func NewBuffer(fileManager *file.Manager, logManager *log.Manager) *Buffer {
	return &Buffer{
		fileManager: fileManager,
		logManager:  logManager,
		contents:    file.NewPage(fileManager.BlockSize()),
		txNum:       -1,
		lsn:         -1,
	}
}

// Contents returns the page held by this buffer.
func (b *Buffer) Contents() *file.Page {
	return b.contents
}

// Block returns the block this buffer is currently assigned to, or nil.
func (b *Buffer) Block() *file.BlockId {
	return b.block
}

// SetModified marks the buffer as modified by the given transaction.
// A negative LSN indicates that no log record was written for the update.
func (b *Buffer) SetModified(txNum, lsn int) {
	b.txNum = txNum
	if lsn >= 0 {
		b.lsn = lsn
	}
}

// IsPinned returns true if the buffer is currently pinned.
func (b *Buffer) IsPinned() bool {
	return b.pins > 0
}

// ModifyingTx returns the id of the transaction that modified the buffer,
// or -1 if the buffer is clean.
func (b *Buffer) ModifyingTx() int {
	return b.txNum
}

// assignToBlock associates the buffer with the specified block, flushing any
// modifications to the previous block and reading the new block from disk.
// The pin count is reset.
func (b *Buffer) assignToBlock(block *file.BlockId) error {
	if err := b.flush(); err != nil {
		return err
	}
	b.block = block
	if err := b.fileManager.Read(block, b.contents); err != nil {
		return err
	}
	b.pins = 0
	return nil
}

// flush writes the buffer to disk if it was modified. The log is flushed up
// to the buffer's LSN first, which preserves the write-ahead property.
func (b *Buffer) flush() error {
	if b.txNum < 0 {
		return nil
	}
	if err := b.logManager.Flush(b.lsn); err != nil {
		return err
	}
	if err := b.fileManager.Write(b.block, b.contents); err != nil {
		return err
	}
	b.txNum = -1
	return nil
}

func (b *Buffer) pin() {
	b.pins++
}

func (b *Buffer) unpin() {
	b.pins--
}
