package scan

import (
	"simpledb/record"
	"simpledb/types"
)

// Scan is the interface implemented by each query scan. There is a Scan
// implementation for each relational algebra operator.
type Scan interface {
	// BeforeFirst positions the scan before the first record. A subsequent
	// call to Next will move to the first record.
	BeforeFirst() error

	// Next moves to the next record in the scan. It returns false if there
	// are no more records to scan.
	Next() (bool, error)

	// GetInt returns the integer value of the specified field in the current record.
	GetInt(fieldName string) (int, error)

	// GetFloat returns the float value of the specified field in the current record.
	GetFloat(fieldName string) (float32, error)

	// GetString returns the string value of the specified field in the current record.
	GetString(fieldName string) (string, error)

	// GetVal returns the value of the specified field in the current record.
	GetVal(fieldName string) (*types.Constant, error)

	// HasField returns true if the scan has the specified field.
	HasField(fieldName string) bool

	// Close closes the scan and its subscans, if any.
	Close()
}

// UpdateScan is the interface implemented by scans whose underlying records
// can be modified.
type UpdateScan interface {
	Scan

	// SetInt sets the integer value of the specified field in the current record.
	SetInt(fieldName string, val int) error

	// SetFloat sets the float value of the specified field in the current record.
	SetFloat(fieldName string, val float32) error

	// SetString sets the string value of the specified field in the current record.
	SetString(fieldName string, val string) error

	// SetVal sets the value of the specified field in the current record.
	SetVal(fieldName string, val *types.Constant) error

	// Insert inserts a new record somewhere in the scan.
	Insert() error

	// Delete deletes the current record from the scan.
	Delete() error

	// GetRecordID returns the record ID of the current record.
	GetRecordID() *record.ID

	// MoveToRecordID moves the scan to the record with the specified record ID.
	MoveToRecordID(rid *record.ID) error
}
