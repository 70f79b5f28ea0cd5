package tx

import (
	"fmt"

	"simpledb/file"
	"simpledb/log"
	"simpledb/types"
)

// SetFloatRecord is the undo image for a float write: it stores the value
// the field held before the update.
type SetFloatRecord struct {
	txNum  int
	offset int
	value  float32
	block  *file.BlockId
}

// NewSetFloatRecord creates a new SetFloatRecord from a Page.
func NewSetFloatRecord(page *file.Page) (*SetFloatRecord, error) {
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
	value := page.GetFloat(valuePos)

	return &SetFloatRecord{txNum: txNum, offset: offset, value: value, block: block}, nil
}

// Op returns the type of the log record.
func (r *SetFloatRecord) Op() LogRecordType {
	return SetFloat
}

// TxNumber returns the transaction id stored in the log record.
func (r *SetFloatRecord) TxNumber() int {
	return r.txNum
}

// String returns a string representation of the log record.
func (r *SetFloatRecord) String() string {
	return fmt.Sprintf("<SETFLOAT %d %s %d %g>", r.txNum, r.block, r.offset, r.value)
}

// Undo replaces the specified data value with the value saved in the log
// record. The method pins a buffer to the specified block, restores the saved
// value without logging, and unpins the buffer.
func (r *SetFloatRecord) Undo(tx *Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetFloat(r.block, r.offset, r.value, false)
}

// WriteSetFloatToLog writes a set-float record to the log. The record
// contains the transaction id, the filename and number of the block, the
// offset of the modified field, and its old value.
// The method returns the LSN of the new log record.
func WriteSetFloatToLog(logManager *log.Manager, txNum int, block *file.BlockId, offset int, value float32) (int, error) {
	txNumPos := types.IntSize
	fileNamePos := txNumPos + types.IntSize
	fileName := block.Filename()

	blockNumPos := fileNamePos + file.MaxLength(len(fileName))
	offsetPos := blockNumPos + types.IntSize
	valuePos := offsetPos + types.IntSize
	recordLen := valuePos + types.FloatSize

	recordBytes := make([]byte, recordLen)
	page := file.NewPageFromBytes(recordBytes)

	page.SetInt(0, int(SetFloat))
	page.SetInt(txNumPos, txNum)
	if err := page.SetString(fileNamePos, fileName); err != nil {
		return -1, err
	}
	page.SetInt(blockNumPos, block.Number())
	page.SetInt(offsetPos, offset)
	page.SetFloat(valuePos, value)

	return logManager.Append(recordBytes)
}
