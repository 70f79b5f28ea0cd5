package tx

import (
	"simpledb/file"
	"simpledb/log"
	"simpledb/types"
)

// CheckpointRecord marks a quiescent point in the log: recovery stops its
// backward scan when it reaches one.
type CheckpointRecord struct{}

// NewCheckpointRecord creates a new CheckpointRecord.
func NewCheckpointRecord() (*CheckpointRecord, error) {
	return &CheckpointRecord{}, nil
}

// Op returns the type of the log record.
func (r *CheckpointRecord) Op() LogRecordType {
	return Checkpoint
}

// TxNumber returns a dummy transaction id; checkpoint records are not
// associated with any transaction.
func (r *CheckpointRecord) TxNumber() int {
	return -1
}

// Undo does nothing. A checkpoint record contains no undo information.
func (r *CheckpointRecord) Undo(_ *Transaction) error {
	return nil
}

// String returns a string representation of the log record.
func (r *CheckpointRecord) String() string {
	return "<CHECKPOINT>"
}

// WriteCheckpointToLog writes a checkpoint record to the log.
// The method returns the LSN of the new log record.
func WriteCheckpointToLog(logManager *log.Manager) (int, error) {
	record := make([]byte, types.IntSize)

	page := file.NewPageFromBytes(record)
	page.SetInt(0, int(Checkpoint))

	return logManager.Append(record)
}
