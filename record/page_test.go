package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpledb/buffer"
	"simpledb/file"
	"simpledb/log"
	"simpledb/tx"
	"simpledb/tx/concurrency"
)

func newTestTx(t *testing.T) *tx.Transaction {
	t.Helper()
	fm, err := file.NewManager(t.TempDir(), 400)
	require.NoError(t, err)
	lm, err := log.NewManager(fm, "testlog")
	require.NoError(t, err)
	bm := buffer.NewManager(fm, lm, 3)
	lt := concurrency.NewLockTable()
	transaction, err := tx.NewTransaction(fm, lm, bm, lt)
	require.NoError(t, err)
	return transaction
}

func testLayout() *Layout {
	schema := NewSchema()
	schema.AddIntField("a")
	schema.AddStringField("b", 9)
	schema.AddFloatField("c")
	return NewLayout(schema)
}

func TestPage_FormatAndInsert(t *testing.T) {
	assert := assert.New(t)
	transaction := newTestTx(t)
	layout := testLayout()

	block, err := transaction.Append("testfile")
	require.NoError(t, err)
	page, err := NewPage(transaction, block, layout)
	require.NoError(t, err)
	require.NoError(t, page.Format())

	// A formatted block has no used slots.
	_, err = page.NextAfter(-1)
	assert.ErrorIs(err, ErrNoSlotFound)

	slot, err := page.InsertAfter(-1)
	require.NoError(t, err)
	assert.Equal(0, slot)
	require.NoError(t, page.SetInt(slot, "a", 17))
	require.NoError(t, page.SetString(slot, "b", "rec0"))
	require.NoError(t, page.SetFloat(slot, "c", 0.5))

	slot, err = page.InsertAfter(slot)
	require.NoError(t, err)
	assert.Equal(1, slot)
	require.NoError(t, page.SetInt(slot, "a", 18))

	// Iterate the used slots and read back the stored values.
	slot, err = page.NextAfter(-1)
	require.NoError(t, err)
	assert.Equal(0, slot)
	intVal, err := page.GetInt(slot, "a")
	require.NoError(t, err)
	assert.Equal(17, intVal)
	strVal, err := page.GetString(slot, "b")
	require.NoError(t, err)
	assert.Equal("rec0", strVal)
	floatVal, err := page.GetFloat(slot, "c")
	require.NoError(t, err)
	assert.Equal(float32(0.5), floatVal)

	slot, err = page.NextAfter(slot)
	require.NoError(t, err)
	assert.Equal(1, slot)
	_, err = page.NextAfter(slot)
	assert.ErrorIs(err, ErrNoSlotFound)

	// Out-of-range slots and unknown fields are rejected.
	_, err = page.GetInt(-1, "a")
	assert.ErrorIs(err, ErrBadSlot)
	_, err = page.GetInt(0, "nope")
	assert.ErrorIs(err, ErrBadField)

	transaction.Unpin(block)
	require.NoError(t, transaction.Commit())
}

func TestPage_DeleteFreesSlot(t *testing.T) {
	assert := assert.New(t)
	transaction := newTestTx(t)
	layout := testLayout()

	block, err := transaction.Append("testfile")
	require.NoError(t, err)
	page, err := NewPage(transaction, block, layout)
	require.NoError(t, err)
	require.NoError(t, page.Format())

	slot0, err := page.InsertAfter(-1)
	require.NoError(t, err)
	slot1, err := page.InsertAfter(slot0)
	require.NoError(t, err)

	require.NoError(t, page.Delete(slot0))

	// Slot 0 is skipped by iteration and available for reuse.
	next, err := page.NextAfter(-1)
	require.NoError(t, err)
	assert.Equal(slot1, next)

	reused, err := page.InsertAfter(-1)
	require.NoError(t, err)
	assert.Equal(slot0, reused)

	transaction.Unpin(block)
	require.NoError(t, transaction.Commit())
}

func TestPage_FillsBlock(t *testing.T) {
	assert := assert.New(t)
	transaction := newTestTx(t)
	layout := testLayout()

	block, err := transaction.Append("testfile")
	require.NoError(t, err)
	page, err := NewPage(transaction, block, layout)
	require.NoError(t, err)
	require.NoError(t, page.Format())

	capacity := transaction.BlockSize() / layout.SlotSize()
	slot := -1
	for i := 0; i < capacity; i++ {
		slot, err = page.InsertAfter(slot)
		require.NoError(t, err)
	}

	_, err = page.InsertAfter(slot)
	assert.True(errors.Is(err, ErrNoSlotFound))

	transaction.Unpin(block)
	require.NoError(t, transaction.Commit())
}
