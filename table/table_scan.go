package table

import (
	"errors"
	"fmt"

	"simpledb/file"
	"simpledb/record"
	"simpledb/scan"
	"simpledb/tx"
	"simpledb/types"
)

const fileExtension = ".tbl"

// Ensure Scan implements the UpdateScan interface.
var _ scan.UpdateScan = (*Scan)(nil)

// Scan provides the abstraction of an arbitrarily large array of records.
// It is a forward cursor over all records of a table, pinning exactly one
// block at a time; advancing blocks always unpins the current block before
// pinning the next.
type Scan struct {
	tx          *tx.Transaction
	layout      *record.Layout
	recordPage  *record.Page
	fileName    string
	currentSlot int
}

// NewTableScan creates a scan over the specified table. If the table file is
// empty, a first block is appended and formatted.
func NewTableScan(transaction *tx.Transaction, tableName string, layout *record.Layout) (*Scan, error) {
	if layout.SlotSize() > transaction.BlockSize() {
		return nil, fmt.Errorf("record slot size (%d) exceeds block size (%d)", layout.SlotSize(), transaction.BlockSize())
	}

	ts := &Scan{
		tx:          transaction,
		layout:      layout,
		fileName:    tableName + fileExtension,
		currentSlot: -1,
	}

	size, err := transaction.Size(ts.fileName)
	if err != nil {
		return nil, fmt.Errorf("get file size: %w", err)
	}

	if size == 0 {
		if err := ts.moveToNewBlock(); err != nil {
			return nil, fmt.Errorf("move to new block: %w", err)
		}
	} else {
		if err := ts.moveToBlock(0); err != nil {
			return nil, fmt.Errorf("move to block 0: %w", err)
		}
	}

	return ts, nil
}

// BeforeFirst positions the scan before the first record of the table.
func (ts *Scan) BeforeFirst() error {
	return ts.moveToBlock(0)
}

// Next moves the scan to the next record in the table, advancing to
// subsequent blocks as the current one is exhausted. It returns false once
// no used slot remains in any block.
func (ts *Scan) Next() (bool, error) {
	for {
		slot, err := ts.recordPage.NextAfter(ts.currentSlot)
		if err == nil {
			ts.currentSlot = slot
			return true, nil
		}
		if !errors.Is(err, record.ErrNoSlotFound) {
			return false, err
		}

		atLastBlock, err := ts.atLastBlock()
		if err != nil {
			return false, err
		}
		if atLastBlock {
			return false, nil
		}
		if err := ts.moveToBlock(ts.recordPage.Block().Number() + 1); err != nil {
			return false, err
		}
	}
}

// GetInt returns the integer value of the specified field in the current record.
func (ts *Scan) GetInt(fieldName string) (int, error) {
	return ts.recordPage.GetInt(ts.currentSlot, fieldName)
}

// GetFloat returns the float value of the specified field in the current record.
func (ts *Scan) GetFloat(fieldName string) (float32, error) {
	return ts.recordPage.GetFloat(ts.currentSlot, fieldName)
}

// GetString returns the string value of the specified field in the current record.
func (ts *Scan) GetString(fieldName string) (string, error) {
	return ts.recordPage.GetString(ts.currentSlot, fieldName)
}

// GetVal returns the value of the specified field in the current record.
func (ts *Scan) GetVal(fieldName string) (*types.Constant, error) {
	switch ts.layout.Schema().Type(fieldName) {
	case types.Integer:
		val, err := ts.GetInt(fieldName)
		if err != nil {
			return nil, err
		}
		return types.NewIntConstant(val), nil
	case types.Float:
		val, err := ts.GetFloat(fieldName)
		if err != nil {
			return nil, err
		}
		return types.NewFloatConstant(val), nil
	case types.Varchar:
		val, err := ts.GetString(fieldName)
		if err != nil {
			return nil, err
		}
		return types.NewStringConstant(val), nil
	default:
		return nil, fmt.Errorf("field %s not found", fieldName)
	}
}

// SetInt sets the integer value of the specified field in the current record.
func (ts *Scan) SetInt(fieldName string, val int) error {
	return ts.recordPage.SetInt(ts.currentSlot, fieldName, val)
}

// SetFloat sets the float value of the specified field in the current record.
func (ts *Scan) SetFloat(fieldName string, val float32) error {
	return ts.recordPage.SetFloat(ts.currentSlot, fieldName, val)
}

// SetString sets the string value of the specified field in the current record.
func (ts *Scan) SetString(fieldName string, val string) error {
	return ts.recordPage.SetString(ts.currentSlot, fieldName, val)
}

// SetVal sets the value of the specified field in the current record.
func (ts *Scan) SetVal(fieldName string, val *types.Constant) error {
	switch ts.layout.Schema().Type(fieldName) {
	case types.Integer:
		v, err := val.AsInt()
		if err != nil {
			return err
		}
		return ts.SetInt(fieldName, v)
	case types.Float:
		v, err := val.AsFloat()
		if err != nil {
			return err
		}
		return ts.SetFloat(fieldName, v)
	case types.Varchar:
		v, err := val.AsString()
		if err != nil {
			return err
		}
		return ts.SetString(fieldName, v)
	default:
		return fmt.Errorf("field %s not found", fieldName)
	}
}

// HasField returns true if the table's schema has the specified field.
func (ts *Scan) HasField(fieldName string) bool {
	return ts.layout.Schema().HasField(fieldName)
}

// Close closes the scan, unpinning the current record page.
func (ts *Scan) Close() {
	if ts.recordPage != nil {
		ts.tx.Unpin(ts.recordPage.Block())
		ts.recordPage = nil
	}
}

// Insert inserts a new record somewhere in the scan, starting at the current
// position, and moves the scan to it. If no block has room, a new block is
// appended to the file and formatted.
func (ts *Scan) Insert() error {
	for {
		slot, err := ts.recordPage.InsertAfter(ts.currentSlot)
		if err == nil {
			ts.currentSlot = slot
			return nil
		}
		if !errors.Is(err, record.ErrNoSlotFound) {
			return err
		}

		atLastBlock, err := ts.atLastBlock()
		if err != nil {
			return fmt.Errorf("checking last block: %w", err)
		}

		if atLastBlock {
			if err := ts.moveToNewBlock(); err != nil {
				return fmt.Errorf("move to new block: %w", err)
			}
		} else {
			if err := ts.moveToBlock(ts.recordPage.Block().Number() + 1); err != nil {
				return fmt.Errorf("move to next block: %w", err)
			}
		}
	}
}

// Delete deletes the current record from the scan.
func (ts *Scan) Delete() error {
	return ts.recordPage.Delete(ts.currentSlot)
}

// GetRecordID returns the record ID of the current record.
func (ts *Scan) GetRecordID() *record.ID {
	return record.NewID(ts.recordPage.Block().Number(), ts.currentSlot)
}

// MoveToRecordID positions the scan at the specified record.
func (ts *Scan) MoveToRecordID(rid *record.ID) error {
	ts.Close()
	block := file.NewBlockId(ts.fileName, rid.BlockNumber())
	recordPage, err := record.NewPage(ts.tx, block, ts.layout)
	if err != nil {
		return err
	}
	ts.recordPage = recordPage
	ts.currentSlot = rid.Slot()
	return nil
}

// moveToBlock positions the scan before the first slot of the specified block.
func (ts *Scan) moveToBlock(blockNumber int) error {
	ts.Close()
	block := file.NewBlockId(ts.fileName, blockNumber)
	recordPage, err := record.NewPage(ts.tx, block, ts.layout)
	if err != nil {
		return err
	}
	ts.recordPage = recordPage
	ts.currentSlot = -1
	return nil
}

// moveToNewBlock appends a new block to the table file, formats it, and
// positions the scan before its first slot.
func (ts *Scan) moveToNewBlock() error {
	ts.Close()
	block, err := ts.tx.Append(ts.fileName)
	if err != nil {
		return err
	}
	recordPage, err := record.NewPage(ts.tx, block, ts.layout)
	if err != nil {
		return err
	}
	ts.recordPage = recordPage
	if err := ts.recordPage.Format(); err != nil {
		return err
	}
	ts.currentSlot = -1
	return nil
}

// atLastBlock reports whether the scan is positioned in the table's last block.
func (ts *Scan) atLastBlock() (bool, error) {
	size, err := ts.tx.Size(ts.fileName)
	if err != nil {
		return false, err
	}
	return ts.recordPage.Block().Number() == size-1, nil
}
