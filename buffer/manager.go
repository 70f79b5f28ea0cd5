package buffer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"simpledb/file"
	"simpledb/log"
)

// MaxWaitTime is the maximum time to wait for a buffer to become available.
const MaxWaitTime = 10 * time.Second

// ErrBufferAbort indicates that a pin request timed out because no buffer
// became available.
var ErrBufferAbort = errors.New("buffer abort: no buffer available")

// Manager manages the pinning and unpinning of buffers to blocks.
type Manager struct {
	bufferPool   []*Buffer
	numAvailable int
	maxWaitTime  time.Duration
	mu           sync.Mutex
	cond         *sync.Cond
	strategy     ReplacementStrategy
}

// NewManager creates a buffer manager having the specified number of buffer
// slots. It depends on a file.Manager and log.Manager instance. Uses the LRU
// replacement strategy by default.
func NewManager(fileManager *file.Manager, logManager *log.Manager, numBuffers int) *Manager {
	return NewManagerWithOptions(fileManager, logManager, numBuffers, NewLRUStrategy(), MaxWaitTime)
}

// NewManagerWithOptions creates a buffer manager with the given replacement
// strategy and pin wait timeout.
func NewManagerWithOptions(fileManager *file.Manager, logManager *log.Manager, numBuffers int, strategy ReplacementStrategy, maxWaitTime time.Duration) *Manager {
	bm := &Manager{
		bufferPool:   make([]*Buffer, numBuffers),
		numAvailable: numBuffers,
		maxWaitTime:  maxWaitTime,
		strategy:     strategy,
	}
	bm.cond = sync.NewCond(&bm.mu)
	for i := 0; i < numBuffers; i++ {
		bm.bufferPool[i] = NewBuffer(fileManager, logManager)
	}
	strategy.initialize(bm.bufferPool)
	return bm
}

// Available returns the number of available (i.e., unpinned) buffers.
func (m *Manager) Available() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.numAvailable
}

// FlushAll flushes the dirty buffers modified by the specified transaction.
func (m *Manager) FlushAll(txNum int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, buff := range m.bufferPool {
		if buff.ModifyingTx() == txNum {
			if err := buff.flush(); err != nil {
				return fmt.Errorf("failed to flush buffer for txn %d: %v", txNum, err)
			}
		}
	}
	return nil
}

// Unpin unpins the specified buffer. If its pin count goes to zero, it
// increases the number of available buffers and notifies any waiting
// goroutines.
func (m *Manager) Unpin(buffer *Buffer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buffer.unpin()
	m.strategy.unpinBuffer(buffer)
	if !buffer.IsPinned() {
		m.numAvailable++
		m.cond.Broadcast()
	}
}

// Pin pins a buffer to the specified block, potentially waiting until a
// buffer becomes available. If no buffer becomes available within the
// manager's wait timeout, it returns ErrBufferAbort.
// This function uses the conditional wait pattern detailed here:
// https://pkg.go.dev/context#example-AfterFunc-Cond
func (m *Manager) Pin(block *file.BlockId) (*Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.maxWaitTime)
	defer cancel()

	var buff *Buffer
	var err error

	waitOnCond := func() error {
		// Set up a goroutine to wake the condition when the context is done.
		done := make(chan struct{})
		defer close(done)

		go func() {
			select {
			case <-ctx.Done():
				m.mu.Lock()
				m.cond.Broadcast()
				m.mu.Unlock()
			case <-done:
				// The condition was met before the context was canceled.
			}
		}()

		for {
			if buff, err = m.tryToPin(block); err != nil {
				return err
			}
			if buff != nil {
				break
			}
			m.cond.Wait()

			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		return nil
	}

	if err := waitOnCond(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: could not pin block %s", ErrBufferAbort, block)
		}
		return nil, err
	}
	return buff, nil
}

// tryToPin tries to pin a buffer to the specified block.
// If there is already a buffer assigned to that block, it uses that buffer.
// Otherwise, it asks the replacement strategy for an unpinned buffer.
// Returns nil if there are no available buffers.
// This method is not thread-safe.
func (m *Manager) tryToPin(block *file.BlockId) (*Buffer, error) {
	buffer := m.findExistingBuffer(block)
	if buffer == nil {
		buffer = m.strategy.chooseUnpinnedBuffer()
		if buffer == nil {
			return nil, nil
		}
		if err := buffer.assignToBlock(block); err != nil {
			return nil, err
		}
	}
	if !buffer.IsPinned() {
		m.numAvailable--
	}
	buffer.pin()
	m.strategy.pinBuffer(buffer)
	return buffer, nil
}

// findExistingBuffer searches for a buffer assigned to the specified block.
func (m *Manager) findExistingBuffer(block *file.BlockId) *Buffer {
	for _, buffer := range m.bufferPool {
		b := buffer.Block()
		if b != nil && b.Equals(block) {
			return buffer
		}
	}
	return nil
}
