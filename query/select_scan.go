package query

import (
	"fmt"

	"simpledb/record"
	"simpledb/scan"
	"simpledb/types"
)

// ErrUpdateNotSupported is the format string for update operations forwarded
// to a scan that cannot be updated.
var ErrUpdateNotSupported = "update not supported on scan: %T"

// Ensure SelectScan conforms to the scan.UpdateScan interface.
var _ scan.UpdateScan = (*SelectScan)(nil)

// SelectScan filters the records of its underlying scan by a predicate.
// It delegates field access to the underlying scan, and implements the
// update interface by forwarding to the underlying scan when it is updatable.
type SelectScan struct {
	inputScan scan.Scan
	predicate *Predicate
}

// NewSelectScan creates a select scan with the specified underlying scan and
// predicate.
func NewSelectScan(s scan.Scan, p *Predicate) *SelectScan {
	return &SelectScan{inputScan: s, predicate: p}
}

// BeforeFirst positions the scan before the first record.
func (ss *SelectScan) BeforeFirst() error {
	return ss.inputScan.BeforeFirst()
}

// Next advances the underlying scan until a record satisfying the predicate
// is found, returning false when the underlying scan runs out.
func (ss *SelectScan) Next() (bool, error) {
	for {
		ok, err := ss.inputScan.Next()
		if !ok || err != nil {
			return ok, err
		}
		if ss.predicate == nil {
			return true, nil
		}
		satisfied, err := ss.predicate.IsSatisfied(ss.inputScan)
		if err != nil {
			return false, err
		}
		if satisfied {
			return true, nil
		}
	}
}

// GetInt returns the integer value of the specified field in the current record.
func (ss *SelectScan) GetInt(fieldName string) (int, error) {
	return ss.inputScan.GetInt(fieldName)
}

// GetFloat returns the float value of the specified field in the current record.
func (ss *SelectScan) GetFloat(fieldName string) (float32, error) {
	return ss.inputScan.GetFloat(fieldName)
}

// GetString returns the string value of the specified field in the current record.
func (ss *SelectScan) GetString(fieldName string) (string, error) {
	return ss.inputScan.GetString(fieldName)
}

// GetVal returns the value of the specified field in the current record.
func (ss *SelectScan) GetVal(fieldName string) (*types.Constant, error) {
	return ss.inputScan.GetVal(fieldName)
}

// HasField returns true if the underlying scan has the specified field.
func (ss *SelectScan) HasField(fieldName string) bool {
	return ss.inputScan.HasField(fieldName)
}

// Close closes the underlying scan.
func (ss *SelectScan) Close() {
	ss.inputScan.Close()
}

// SetInt sets the integer value of the specified field in the current record.
func (ss *SelectScan) SetInt(fieldName string, val int) error {
	updateScan, ok := ss.inputScan.(scan.UpdateScan)
	if !ok {
		return fmt.Errorf(ErrUpdateNotSupported, ss.inputScan)
	}
	return updateScan.SetInt(fieldName, val)
}

// SetFloat sets the float value of the specified field in the current record.
func (ss *SelectScan) SetFloat(fieldName string, val float32) error {
	updateScan, ok := ss.inputScan.(scan.UpdateScan)
	if !ok {
		return fmt.Errorf(ErrUpdateNotSupported, ss.inputScan)
	}
	return updateScan.SetFloat(fieldName, val)
}

// SetString sets the string value of the specified field in the current record.
func (ss *SelectScan) SetString(fieldName string, val string) error {
	updateScan, ok := ss.inputScan.(scan.UpdateScan)
	if !ok {
		return fmt.Errorf(ErrUpdateNotSupported, ss.inputScan)
	}
	return updateScan.SetString(fieldName, val)
}

// SetVal sets the value of the specified field in the current record.
func (ss *SelectScan) SetVal(fieldName string, val *types.Constant) error {
	updateScan, ok := ss.inputScan.(scan.UpdateScan)
	if !ok {
		return fmt.Errorf(ErrUpdateNotSupported, ss.inputScan)
	}
	return updateScan.SetVal(fieldName, val)
}

// Insert inserts a new record somewhere in the scan.
func (ss *SelectScan) Insert() error {
	updateScan, ok := ss.inputScan.(scan.UpdateScan)
	if !ok {
		return fmt.Errorf(ErrUpdateNotSupported, ss.inputScan)
	}
	return updateScan.Insert()
}

// Delete deletes the current record from the scan.
func (ss *SelectScan) Delete() error {
	updateScan, ok := ss.inputScan.(scan.UpdateScan)
	if !ok {
		return fmt.Errorf(ErrUpdateNotSupported, ss.inputScan)
	}
	return updateScan.Delete()
}

// GetRecordID returns the record ID of the current record.
func (ss *SelectScan) GetRecordID() *record.ID {
	updateScan, ok := ss.inputScan.(scan.UpdateScan)
	if !ok {
		panic(fmt.Sprintf(ErrUpdateNotSupported, ss.inputScan))
	}
	return updateScan.GetRecordID()
}

// MoveToRecordID moves the scan to the record with the specified record ID.
func (ss *SelectScan) MoveToRecordID(rid *record.ID) error {
	updateScan, ok := ss.inputScan.(scan.UpdateScan)
	if !ok {
		return fmt.Errorf(ErrUpdateNotSupported, ss.inputScan)
	}
	return updateScan.MoveToRecordID(rid)
}
