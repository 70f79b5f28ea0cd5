package query

import (
	"simpledb/scan"
	"simpledb/types"
)

// Ensure ProductScan conforms to the scan.Scan interface.
var _ scan.Scan = (*ProductScan)(nil)

// ProductScan is the nested-loops Cartesian product of its two underlying
// scans: every record of the LHS scan is paired with every record of the RHS
// scan. Field accesses dispatch to whichever underlying scan contains the
// field.
type ProductScan struct {
	scan1 scan.Scan
	scan2 scan.Scan
}

// NewProductScan creates a product scan of the two specified scans.
func NewProductScan(s1, s2 scan.Scan) (*ProductScan, error) {
	ps := &ProductScan{scan1: s1, scan2: s2}
	if err := ps.BeforeFirst(); err != nil {
		return nil, err
	}
	return ps, nil
}

// BeforeFirst positions the scan before its first record. In particular, the
// LHS scan is positioned at its first record, and the RHS scan is positioned
// before its first record.
func (ps *ProductScan) BeforeFirst() error {
	if err := ps.scan1.BeforeFirst(); err != nil {
		return err
	}
	if _, err := ps.scan1.Next(); err != nil {
		return err
	}
	return ps.scan2.BeforeFirst()
}

// Next moves the scan to the next record. The method moves to the next RHS
// record, if possible. Otherwise, it resets the RHS scan and moves to the
// next LHS record. It returns false when the LHS scan is exhausted.
func (ps *ProductScan) Next() (bool, error) {
	hasNext2, err := ps.scan2.Next()
	if err != nil {
		return false, err
	}
	if hasNext2 {
		return true, nil
	}

	if err := ps.scan2.BeforeFirst(); err != nil {
		return false, err
	}
	hasNext2, err = ps.scan2.Next()
	if err != nil || !hasNext2 {
		return false, err
	}
	hasNext1, err := ps.scan1.Next()
	if err != nil || !hasNext1 {
		return false, err
	}
	return true, nil
}

// Close closes both underlying scans.
func (ps *ProductScan) Close() {
	ps.scan1.Close()
	ps.scan2.Close()
}

// HasField returns true if the specified field is in either of the
// underlying scans.
func (ps *ProductScan) HasField(fieldName string) bool {
	return ps.scan1.HasField(fieldName) || ps.scan2.HasField(fieldName)
}

// GetInt returns the integer value of the specified field in the current record.
func (ps *ProductScan) GetInt(fieldName string) (int, error) {
	if ps.scan1.HasField(fieldName) {
		return ps.scan1.GetInt(fieldName)
	}
	return ps.scan2.GetInt(fieldName)
}

// GetFloat returns the float value of the specified field in the current record.
func (ps *ProductScan) GetFloat(fieldName string) (float32, error) {
	if ps.scan1.HasField(fieldName) {
		return ps.scan1.GetFloat(fieldName)
	}
	return ps.scan2.GetFloat(fieldName)
}

// GetString returns the string value of the specified field in the current record.
func (ps *ProductScan) GetString(fieldName string) (string, error) {
	if ps.scan1.HasField(fieldName) {
		return ps.scan1.GetString(fieldName)
	}
	return ps.scan2.GetString(fieldName)
}

// GetVal returns the value of the specified field in the current record.
func (ps *ProductScan) GetVal(fieldName string) (*types.Constant, error) {
	if ps.scan1.HasField(fieldName) {
		return ps.scan1.GetVal(fieldName)
	}
	return ps.scan2.GetVal(fieldName)
}
