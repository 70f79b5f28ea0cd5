package record

import (
	"fmt"

	"simpledb/file"
	"simpledb/tx"
	"simpledb/types"
)

// Slot flags.
const (
	FlagEmpty = iota
	FlagUsed
)

// ErrNoSlotFound indicates that no slot with the requested flag exists after
// the given position in the block.
var ErrNoSlotFound = fmt.Errorf("no slot found")

// ErrBadSlot indicates a field access on a slot outside the block's valid
// range, such as a cursor that has not been positioned on a record yet.
var ErrBadSlot = fmt.Errorf("slot out of range")

// ErrBadField indicates an access to a field that is not in the layout's
// schema.
var ErrBadField = fmt.Errorf("no such field")

// Page manages the records within one block, laid out as a fixed array of
// slots. Each slot holds a used/empty flag followed by the record's fields at
// the layout's offsets.
// The block is pinned on construction and stays pinned until the caller
// releases it through the transaction.
type Page struct {
	tx     *tx.Transaction
	block  *file.BlockId
	layout *Layout
}

// NewPage creates a record page for the given block, pinning it.
func NewPage(transaction *tx.Transaction, block *file.BlockId, layout *Layout) (*Page, error) {
	if err := transaction.Pin(block); err != nil {
		return nil, err
	}
	return &Page{
		tx:     transaction,
		block:  block,
		layout: layout,
	}, nil
}

// GetInt returns the integer value stored for the specified field of the
// specified slot.
func (p *Page) GetInt(slot int, fieldName string) (int, error) {
	fieldPosition, err := p.fieldPosition(slot, fieldName)
	if err != nil {
		return 0, err
	}
	return p.tx.GetInt(p.block, fieldPosition)
}

// GetFloat returns the float value stored for the specified field of the
// specified slot.
func (p *Page) GetFloat(slot int, fieldName string) (float32, error) {
	fieldPosition, err := p.fieldPosition(slot, fieldName)
	if err != nil {
		return 0, err
	}
	return p.tx.GetFloat(p.block, fieldPosition)
}

// GetString returns the string value stored for the specified field of the
// specified slot.
func (p *Page) GetString(slot int, fieldName string) (string, error) {
	fieldPosition, err := p.fieldPosition(slot, fieldName)
	if err != nil {
		return "", err
	}
	return p.tx.GetString(p.block, fieldPosition)
}

// SetInt stores an integer value for the specified field of the specified slot.
func (p *Page) SetInt(slot int, fieldName string, val int) error {
	fieldPosition, err := p.fieldPosition(slot, fieldName)
	if err != nil {
		return err
	}
	return p.tx.SetInt(p.block, fieldPosition, val, true)
}

// SetFloat stores a float value for the specified field of the specified slot.
func (p *Page) SetFloat(slot int, fieldName string, val float32) error {
	fieldPosition, err := p.fieldPosition(slot, fieldName)
	if err != nil {
		return err
	}
	return p.tx.SetFloat(p.block, fieldPosition, val, true)
}

// SetString stores a string value for the specified field of the specified slot.
func (p *Page) SetString(slot int, fieldName string, val string) error {
	fieldPosition, err := p.fieldPosition(slot, fieldName)
	if err != nil {
		return err
	}
	return p.tx.SetString(p.block, fieldPosition, val, true)
}

// Delete marks the slot as empty.
func (p *Page) Delete(slot int) error {
	if slot < 0 || !p.isValidSlot(slot) {
		return fmt.Errorf("%w: slot %d", ErrBadSlot, slot)
	}
	return p.setFlag(slot, FlagEmpty)
}

// Format uses the layout to format a new block of records: every slot's flag
// is set to empty and every field is initialized to its type's zero value.
// These values are not logged, because the old values are meaningless.
func (p *Page) Format() error {
	slot := 0
	for p.isValidSlot(slot) {
		if err := p.tx.SetInt(p.block, p.offset(slot), FlagEmpty, false); err != nil {
			return err
		}

		schema := p.layout.Schema()
		for _, fieldName := range schema.Fields() {
			fieldPosition := p.offset(slot) + p.layout.Offset(fieldName)

			var err error
			switch schema.Type(fieldName) {
			case types.Integer:
				err = p.tx.SetInt(p.block, fieldPosition, 0, false)
			case types.Float:
				err = p.tx.SetFloat(p.block, fieldPosition, 0, false)
			case types.Varchar:
				err = p.tx.SetString(p.block, fieldPosition, "", false)
			}
			if err != nil {
				return err
			}
		}
		slot++
	}
	return nil
}

// NextAfter returns the next slot in use after the specified slot, or
// ErrNoSlotFound.
func (p *Page) NextAfter(slot int) (int, error) {
	return p.searchAfter(slot, FlagUsed)
}

// InsertAfter finds the next empty slot after the specified slot, marks it as
// used, and returns its number. Returns ErrNoSlotFound if the block has no
// empty slot after the given position.
func (p *Page) InsertAfter(slot int) (int, error) {
	newSlot, err := p.searchAfter(slot, FlagEmpty)
	if err != nil {
		return -1, err
	}

	if err := p.setFlag(newSlot, FlagUsed); err != nil {
		return -1, fmt.Errorf("set flag for slot %d: %w", newSlot, err)
	}
	return newSlot, nil
}

// Block returns the block this record page operates on.
func (p *Page) Block() *file.BlockId {
	return p.block
}

// searchAfter finds the next slot after the given one with the specified flag.
func (p *Page) searchAfter(slot, flag int) (int, error) {
	slot++
	for p.isValidSlot(slot) {
		currentFlag, err := p.tx.GetInt(p.block, p.offset(slot))
		if err != nil {
			return -1, fmt.Errorf("read flag at slot %d: %w", slot, err)
		}
		if currentFlag == flag {
			return slot, nil
		}
		slot++
	}
	return -1, ErrNoSlotFound
}

// fieldPosition validates the slot and field and returns the field's byte
// offset within the block.
func (p *Page) fieldPosition(slot int, fieldName string) (int, error) {
	if slot < 0 || !p.isValidSlot(slot) {
		return 0, fmt.Errorf("%w: slot %d", ErrBadSlot, slot)
	}
	if !p.layout.Schema().HasField(fieldName) {
		return 0, fmt.Errorf("%w: %s", ErrBadField, fieldName)
	}
	return p.offset(slot) + p.layout.Offset(fieldName), nil
}

// setFlag sets the slot's flag to the specified value.
func (p *Page) setFlag(slot, flag int) error {
	return p.tx.SetInt(p.block, p.offset(slot), flag, true)
}

// isValidSlot reports whether the slot fits entirely within the block.
func (p *Page) isValidSlot(slot int) bool {
	return p.offset(slot+1) <= p.tx.BlockSize()
}

// offset returns the byte offset of the slot within the block.
func (p *Page) offset(slot int) int {
	return slot * p.layout.SlotSize()
}
