package record

import (
	"fmt"

	"simpledb/file"
	"simpledb/types"
)

// Layout describes the structure of a record. It contains the name, type,
// length, and slot offset of each field of a given table. Offsets are
// assigned sequentially in schema order, after the 4-byte used/empty flag
// that starts every slot.
type Layout struct {
	schema   *Schema
	offsets  map[string]int
	slotSize int
}

// NewLayout computes a layout for the given schema.
func NewLayout(schema *Schema) *Layout {
	layout := &Layout{
		schema:  schema,
		offsets: make(map[string]int),
	}

	pos := types.IntSize // Space for the empty/in-use flag.
	for _, field := range schema.Fields() {
		layout.offsets[field] = pos
		pos += layout.lengthInBytes(field)
	}
	layout.slotSize = pos
	return layout
}

// NewLayoutFromMetadata creates a layout from previously computed offsets,
// as retrieved from a catalog.
func NewLayoutFromMetadata(schema *Schema, offsets map[string]int, slotSize int) *Layout {
	return &Layout{
		schema:   schema,
		offsets:  offsets,
		slotSize: slotSize,
	}
}

// Schema returns the schema of the table's records.
func (l *Layout) Schema() *Schema {
	return l.schema
}

// Offset returns the offset of the specified field within a slot.
func (l *Layout) Offset(fieldName string) int {
	return l.offsets[fieldName]
}

// SlotSize returns the size of a record slot in bytes.
func (l *Layout) SlotSize() int {
	return l.slotSize
}

// lengthInBytes returns the number of bytes the field occupies in a slot.
func (l *Layout) lengthInBytes(fieldName string) int {
	fieldType := l.schema.Type(fieldName)

	switch fieldType {
	case types.Integer:
		return types.IntSize
	case types.Float:
		return types.FloatSize
	case types.Varchar:
		return file.MaxLength(l.schema.Length(fieldName))
	default:
		panic(fmt.Sprintf("unknown field type: %d", fieldType))
	}
}
