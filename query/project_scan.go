package query

import (
	"fmt"

	"simpledb/scan"
	"simpledb/types"
)

// ErrFieldNotFound is the format string for accesses to fields outside a
// projection's field list.
var ErrFieldNotFound = "field %s not found"

// Ensure ProjectScan conforms to the scan.Scan interface.
var _ scan.Scan = (*ProjectScan)(nil)

// ProjectScan restricts the fields of its underlying scan to a field list,
// rejecting accesses to any other field.
type ProjectScan struct {
	inputScan scan.Scan
	fieldList []string
}

// NewProjectScan creates a project scan with the specified underlying scan
// and field list.
func NewProjectScan(s scan.Scan, fieldList []string) *ProjectScan {
	return &ProjectScan{inputScan: s, fieldList: fieldList}
}

// BeforeFirst positions the scan before the first record.
func (ps *ProjectScan) BeforeFirst() error {
	return ps.inputScan.BeforeFirst()
}

// Next moves to the next record of the underlying scan.
func (ps *ProjectScan) Next() (bool, error) {
	return ps.inputScan.Next()
}

// Close closes the underlying scan.
func (ps *ProjectScan) Close() {
	ps.inputScan.Close()
}

// HasField returns true if the specified field is in the field list.
func (ps *ProjectScan) HasField(fieldName string) bool {
	for _, f := range ps.fieldList {
		if f == fieldName {
			return true
		}
	}
	return false
}

// GetInt returns the integer value of the specified field in the current record.
func (ps *ProjectScan) GetInt(fieldName string) (int, error) {
	if !ps.HasField(fieldName) {
		return 0, fmt.Errorf(ErrFieldNotFound, fieldName)
	}
	return ps.inputScan.GetInt(fieldName)
}

// GetFloat returns the float value of the specified field in the current record.
func (ps *ProjectScan) GetFloat(fieldName string) (float32, error) {
	if !ps.HasField(fieldName) {
		return 0, fmt.Errorf(ErrFieldNotFound, fieldName)
	}
	return ps.inputScan.GetFloat(fieldName)
}

// GetString returns the string value of the specified field in the current record.
func (ps *ProjectScan) GetString(fieldName string) (string, error) {
	if !ps.HasField(fieldName) {
		return "", fmt.Errorf(ErrFieldNotFound, fieldName)
	}
	return ps.inputScan.GetString(fieldName)
}

// GetVal returns the value of the specified field in the current record.
func (ps *ProjectScan) GetVal(fieldName string) (*types.Constant, error) {
	if !ps.HasField(fieldName) {
		return nil, fmt.Errorf(ErrFieldNotFound, fieldName)
	}
	return ps.inputScan.GetVal(fieldName)
}
