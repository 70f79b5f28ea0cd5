package log

import (
	"fmt"
	"sync"

	"simpledb/file"
)

// Manager manages the log file. It provides methods to append log records and
// to iterate over them in reverse order.
// The log file is processed in blocks, and records are written to the most
// recently allocated block. Records within a block are stored backwards, with
// the boundary word at offset 0 holding the position of the most recently
// written record. When a block is full, a new block is allocated and used.
// The log manager is thread-safe.
type Manager struct {
	fileManager  *file.Manager
	logFile      string
	logPage      *file.Page
	currentBlock *file.BlockId
	latestLSN    int
	lastSavedLSN int
	mu           sync.Mutex
}

// NewManager creates the manager for the specified log file.
// If the log file does not yet exist, it is created with an empty first block.
func NewManager(fileManager *file.Manager, logFile string) (*Manager, error) {
	logPage := file.NewPage(fileManager.BlockSize())
	logSize, err := fileManager.Length(logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get log file length: %v", err)
	}

	var currentBlock *file.BlockId
	if logSize == 0 {
		// The log file is empty, append a new empty block to it.
		currentBlock, err = appendNewBlock(fileManager, logFile, logPage)
		if err != nil {
			return nil, fmt.Errorf("failed to append new block: %v", err)
		}
	} else {
		// Read the last block of the log file into the page.
		currentBlock = &file.BlockId{File: logFile, BlockNumber: logSize - 1}
		if err := fileManager.Read(currentBlock, logPage); err != nil {
			return nil, fmt.Errorf("failed to read log page: %v", err)
		}
	}

	return &Manager{
		fileManager:  fileManager,
		logFile:      logFile,
		logPage:      logPage,
		currentBlock: currentBlock,
	}, nil
}

// Flush ensures that the log record with the given LSN, and all records
// preceding it, are durable on disk.
func (m *Manager) Flush(lsn int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lsn >= m.lastSavedLSN {
		return m.flush()
	}
	return nil
}

// Iterator returns an iterator over the log records, positioned after the
// most recent record. The log is flushed first so that iteration sees a
// durable prefix.
func (m *Manager) Iterator() (*Iterator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.flush(); err != nil {
		return nil, fmt.Errorf("failed to flush log: %v", err)
	}
	return NewIterator(m.fileManager, m.currentBlock)
}

// Append appends a log record to the log buffer and returns its LSN.
// The record consists of an arbitrary byte slice, written from right to left
// in the page, preceded by its size. The boundary word at offset 0 tracks the
// position of the last-written record; storing records backwards makes it
// easy to read them in reverse order.
// ...............................*boundary
// [<boundary (int)>............[][recordN (bytes)]...[record1 (bytes)]]
func (m *Manager) Append(logRecord []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	boundary := m.logPage.GetInt(0)

	recordSize := len(logRecord)
	bytesNeeded := recordSize + 4 // 4 bytes for the integer storing the record size.

	if boundary-bytesNeeded < 4 { // The first 4 bytes are reserved for the boundary value.
		// The page doesn't have enough space, flush it to disk.
		if err := m.flush(); err != nil {
			return 0, fmt.Errorf("failed to flush log: %v", err)
		}

		// Allocate a new block on the log.
		var err error
		m.currentBlock, err = appendNewBlock(m.fileManager, m.logFile, m.logPage)
		if err != nil {
			return 0, fmt.Errorf("failed to append new block: %v", err)
		}

		boundary = m.logPage.GetInt(0)
	}

	recordPosition := boundary - bytesNeeded

	m.logPage.SetBytes(recordPosition, logRecord)
	m.logPage.SetInt(0, recordPosition)

	m.latestLSN++
	return m.latestLSN, nil
}

// appendNewBlock appends a fresh block to the log file and resets the page's
// boundary to the block size (the end of the page).
func appendNewBlock(fileManager *file.Manager, logFile string, logPage *file.Page) (*file.BlockId, error) {
	block, err := fileManager.Append(logFile)
	if err != nil {
		return nil, fmt.Errorf("failed to append new block: %v", err)
	}

	logPage.SetInt(0, fileManager.BlockSize())
	if err := fileManager.Write(block, logPage); err != nil {
		return nil, fmt.Errorf("failed to write new block: %v", err)
	}
	return block, nil
}

// flush writes the buffer to the log file. This method is not thread-safe.
func (m *Manager) flush() error {
	if err := m.fileManager.Write(m.currentBlock, m.logPage); err != nil {
		return fmt.Errorf("failed to write log page: %v", err)
	}
	m.lastSavedLSN = m.latestLSN
	return nil
}
