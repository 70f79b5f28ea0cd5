package tx

import (
	"fmt"

	"simpledb/file"
	"simpledb/log"
	"simpledb/types"
)

// SetIntRecord is the undo image for an integer write: it stores the value
// the field held before the update.
type SetIntRecord struct {
	txNum  int
	offset int
	value  int
	block  *file.BlockId
}

// NewSetIntRecord creates a new SetIntRecord from a Page.
func NewSetIntRecord(page *file.Page) (*SetIntRecord, error) {
	txNumPos := types.IntSize
	txNum := page.GetInt(txNumPos)

	fileNamePos := txNumPos + types.IntSize
	fileName, err := page.GetString(fileNamePos)
	if err != nil {
		return nil, err
	}

	blockNumPos := fileNamePos + file.MaxLength(len(fileName))
	block := &file.BlockId{File: fileName, BlockNumber: page.GetInt(blockNumPos)}

	offsetPos := blockNumPos + types.IntSize
	offset := page.GetInt(offsetPos)

	valuePos := offsetPos + types.IntSize
	value := page.GetInt(valuePos)

	return &SetIntRecord{txNum: txNum, offset: offset, value: value, block: block}, nil
}

// Op returns the type of the log record.
func (r *SetIntRecord) Op() LogRecordType {
	return SetInt
}

// TxNumber returns the transaction id stored in the log record.
func (r *SetIntRecord) TxNumber() int {
	return r.txNum
}

// String returns a string representation of the log record.
func (r *SetIntRecord) String() string {
	return fmt.Sprintf("<SETINT %d %s %d %d>", r.txNum, r.block, r.offset, r.value)
}

// Undo replaces the specified data value with the value saved in the log
// record. The method pins a buffer to the specified block, restores the saved
// value without logging, and unpins the buffer.
func (r *SetIntRecord) Undo(tx *Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetInt(r.block, r.offset, r.value, false)
}

// WriteSetIntToLog writes a set-int record to the log. The record contains
// the transaction id, the filename and number of the block, the offset of the
// modified field, and its old value.
// The method returns the LSN of the new log record.
func WriteSetIntToLog(logManager *log.Manager, txNum int, block *file.BlockId, offset, value int) (int, error) {
	txNumPos := types.IntSize
	fileNamePos := txNumPos + types.IntSize
	fileName := block.Filename()

	blockNumPos := fileNamePos + file.MaxLength(len(fileName))
	offsetPos := blockNumPos + types.IntSize
	valuePos := offsetPos + types.IntSize
	recordLen := valuePos + types.IntSize

	recordBytes := make([]byte, recordLen)
	page := file.NewPageFromBytes(recordBytes)

	page.SetInt(0, int(SetInt))
	page.SetInt(txNumPos, txNum)
	if err := page.SetString(fileNamePos, fileName); err != nil {
		return -1, err
	}
	page.SetInt(blockNumPos, block.Number())
	page.SetInt(offsetPos, offset)
	page.SetInt(valuePos, value)

	return logManager.Append(recordBytes)
}
