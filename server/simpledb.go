package server

import (
	"fmt"

	"simpledb/buffer"
	"simpledb/file"
	"simpledb/log"
	"simpledb/tx"
	"simpledb/tx/concurrency"
)

const (
	blockSize  = 400
	bufferSize = 8
	logFile    = "simpledb.log"
)

// SimpleDB is the engine object. It owns the file, log, and buffer managers
// and the lock table, and allocates transactions over them. The lock table
// lives for the life of the engine and is shared by every transaction.
type SimpleDB struct {
	fileManager   *file.Manager
	logManager    *log.Manager
	bufferManager *buffer.Manager
	lockTable     *concurrency.LockTable
}

// NewWithOptions creates an engine with explicit block and buffer pool sizes.
// It does not run recovery; it is mostly useful for debugging and tests.
func NewWithOptions(dirName string, blockSize, bufferSize int) (*SimpleDB, error) {
	return newEngine(dirName, blockSize, bufferSize, logFile)
}

func newEngine(dirName string, blockSize, bufferSize int, logFileName string) (*SimpleDB, error) {
	db := &SimpleDB{}
	var err error

	if db.fileManager, err = file.NewManager(dirName, blockSize); err != nil {
		return nil, err
	}
	if db.logManager, err = log.NewManager(db.fileManager, logFileName); err != nil {
		return nil, err
	}
	db.bufferManager = buffer.NewManager(db.fileManager, db.logManager, bufferSize)
	db.lockTable = concurrency.NewLockTable()

	return db, nil
}

// New creates an engine over the specified database directory with the
// default configuration. If the database already exists, it is recovered
// before any user transactions begin.
func New(dirName string) (*SimpleDB, error) {
	return NewFromConfig(DefaultConfig(dirName))
}

// NewFromConfig creates an engine from the given configuration. If the
// database already exists, it is recovered before any user transactions
// begin.
func NewFromConfig(cfg Config) (*SimpleDB, error) {
	db, err := newEngine(cfg.DBDirectory, cfg.BlockSize, cfg.BufferSize, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	transaction, err := db.NewTx()
	if err != nil {
		return nil, err
	}

	if db.fileManager.IsNew() {
		fmt.Printf("creating new database\n")
	} else {
		fmt.Printf("recovering existing database\n")
		if err := transaction.Recover(); err != nil {
			return nil, err
		}
	}

	if err := transaction.Commit(); err != nil {
		return nil, err
	}
	return db, nil
}

// NewTx allocates a new transaction over the engine's managers.
func (db *SimpleDB) NewTx() (*tx.Transaction, error) {
	return tx.NewTransaction(db.fileManager, db.logManager, db.bufferManager, db.lockTable)
}

// FileManager returns the engine's file manager.
func (db *SimpleDB) FileManager() *file.Manager {
	return db.fileManager
}

// LogManager returns the engine's log manager.
func (db *SimpleDB) LogManager() *log.Manager {
	return db.logManager
}

// BufferManager returns the engine's buffer manager.
func (db *SimpleDB) BufferManager() *buffer.Manager {
	return db.bufferManager
}

// LockTable returns the engine's lock table.
func (db *SimpleDB) LockTable() *concurrency.LockTable {
	return db.lockTable
}
