package tx

import (
	"fmt"

	"simpledb/file"
	"simpledb/log"
	"simpledb/types"
)

// SetStringRecord is the undo image for a string write: it stores the value
// the field held before the update.
type SetStringRecord struct {
	txNum  int
	offset int
	value  string
	block  *file.BlockId
}

// NewSetStringRecord creates a new SetStringRecord from a Page.
func NewSetStringRecord(page *file.Page) (*SetStringRecord, error) {
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
	value, err := page.GetString(valuePos)
	if err != nil {
		return nil, err
	}

	return &SetStringRecord{txNum: txNum, offset: offset, value: value, block: block}, nil
}

// Op returns the type of the log record.
func (r *SetStringRecord) Op() LogRecordType {
	return SetString
}

// TxNumber returns the transaction id stored in the log record.
func (r *SetStringRecord) TxNumber() int {
	return r.txNum
}

// String returns a string representation of the log record.
func (r *SetStringRecord) String() string {
	return fmt.Sprintf("<SETSTRING %d %s %d %s>", r.txNum, r.block, r.offset, r.value)
}

// Undo replaces the specified data value with the value saved in the log
// record. The method pins a buffer to the specified block, restores the saved
// value without logging, and unpins the buffer.
func (r *SetStringRecord) Undo(tx *Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetString(r.block, r.offset, r.value, false)
}

// WriteSetStringToLog writes a set-string record to the log. The record
// contains the transaction id, the filename and number of the block, the
// offset of the modified field, and its old value.
// The method returns the LSN of the new log record.
func WriteSetStringToLog(logManager *log.Manager, txNum int, block *file.BlockId, offset int, value string) (int, error) {
	txNumPos := types.IntSize
	fileNamePos := txNumPos + types.IntSize
	fileName := block.Filename()

	blockNumPos := fileNamePos + file.MaxLength(len(fileName))
	offsetPos := blockNumPos + types.IntSize
	valuePos := offsetPos + types.IntSize
	recordLen := valuePos + file.MaxLength(len(value))

	recordBytes := make([]byte, recordLen)
	page := file.NewPageFromBytes(recordBytes)

	page.SetInt(0, int(SetString))
	page.SetInt(txNumPos, txNum)
	if err := page.SetString(fileNamePos, fileName); err != nil {
		return -1, err
	}
	page.SetInt(blockNumPos, block.Number())
	page.SetInt(offsetPos, offset)
	if err := page.SetString(valuePos, value); err != nil {
		return -1, err
	}

	return logManager.Append(recordBytes)
}
