package record

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"simpledb/file"
	"simpledb/types"
)

func TestLayout_SequentialOffsets(t *testing.T) {
	assert := assert.New(t)

	schema := NewSchema()
	schema.AddIntField("a")
	schema.AddStringField("b", 9)
	schema.AddFloatField("c")
	layout := NewLayout(schema)

	// The used/empty flag occupies the first four bytes of every slot.
	assert.Equal(4, layout.Offset("a"))
	assert.Equal(8, layout.Offset("b"))
	assert.Equal(8+file.MaxLength(9), layout.Offset("c"))
	assert.Equal(12+file.MaxLength(9), layout.SlotSize())
}

func TestLayout_FromMetadata(t *testing.T) {
	assert := assert.New(t)

	schema := NewSchema()
	schema.AddIntField("a")
	offsets := map[string]int{"a": 4}
	layout := NewLayoutFromMetadata(schema, offsets, 8)

	assert.Equal(4, layout.Offset("a"))
	assert.Equal(8, layout.SlotSize())
	assert.Same(schema, layout.Schema())
}

func TestSchema_AddAll(t *testing.T) {
	assert := assert.New(t)

	s1 := NewSchema()
	s1.AddIntField("a")
	s1.AddStringField("b", 5)

	s2 := NewSchema()
	s2.AddFloatField("c")
	s2.AddAll(s1)

	assert.Equal([]string{"c", "a", "b"}, s2.Fields())
	assert.True(s2.HasField("b"))
	assert.False(s2.HasField("d"))
	assert.Equal(types.Varchar, s2.Type("b"))
	assert.Equal(5, s2.Length("b"))
	assert.Equal(types.Float, s2.Type("c"))
}
