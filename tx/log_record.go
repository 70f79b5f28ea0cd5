package tx

import (
	"errors"
	"fmt"

	"simpledb/file"
)

// LogRecordType is the type tag stored in the first 4 bytes of a log record.
type LogRecordType int

const (
	Checkpoint LogRecordType = iota
	Start
	Commit
	Rollback
	SetInt
	SetString
	SetFloat
)

// ErrUnknownRecordType indicates a log record whose type tag is not
// recognized; the log is considered corrupt.
var ErrUnknownRecordType = errors.New("unknown log record type")

func (t LogRecordType) String() string {
	switch t {
	case Checkpoint:
		return "Checkpoint"
	case Start:
		return "Start"
	case Commit:
		return "Commit"
	case Rollback:
		return "Rollback"
	case SetInt:
		return "SetInt"
	case SetString:
		return "SetString"
	case SetFloat:
		return "SetFloat"
	default:
		return "Unknown"
	}
}

// FromCode maps a stored type tag back to a LogRecordType.
func FromCode(code int) (LogRecordType, error) {
	if code < int(Checkpoint) || code > int(SetFloat) {
		return -1, fmt.Errorf("%w: code %d", ErrUnknownRecordType, code)
	}
	return LogRecordType(code), nil
}

// LogRecord is implemented by every log record variant.
type LogRecord interface {
	// Op returns the log record type.
	Op() LogRecordType

	// TxNumber returns the transaction id stored with the log record.
	TxNumber() int

	// Undo undoes the operation encoded by this log record. The only record
	// types for which this method does anything interesting are the SET_*
	// variants, which restore the saved old value.
	Undo(tx *Transaction) error
}

// CreateLogRecord interprets the bytes to create the appropriate log record.
// The first 4 bytes of the byte array hold the record type tag.
func CreateLogRecord(bytes []byte) (LogRecord, error) {
	p := file.NewPageFromBytes(bytes)
	recordType, err := FromCode(p.GetInt(0))
	if err != nil {
		return nil, err
	}

	switch recordType {
	case Checkpoint:
		return NewCheckpointRecord()
	case Start:
		return NewStartRecord(p)
	case Commit:
		return NewCommitRecord(p)
	case Rollback:
		return NewRollbackRecord(p)
	case SetInt:
		return NewSetIntRecord(p)
	case SetString:
		return NewSetStringRecord(p)
	case SetFloat:
		return NewSetFloatRecord(p)
	default:
		return nil, fmt.Errorf("%w: code %d", ErrUnknownRecordType, int(recordType))
	}
}
