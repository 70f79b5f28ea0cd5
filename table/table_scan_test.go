package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpledb/buffer"
	"simpledb/file"
	"simpledb/log"
	"simpledb/record"
	"simpledb/tx"
	"simpledb/tx/concurrency"
)

func setupTestTable(t *testing.T) (*Scan, *tx.Transaction) {
	t.Helper()

	fm, err := file.NewManager(t.TempDir(), 400)
	require.NoError(t, err)
	lm, err := log.NewManager(fm, "testlog")
	require.NoError(t, err)
	// A small pool, so multi-block scans exercise unpinning.
	bm := buffer.NewManager(fm, lm, 3)
	lt := concurrency.NewLockTable()

	transaction, err := tx.NewTransaction(fm, lm, bm, lt)
	require.NoError(t, err)

	schema := record.NewSchema()
	schema.AddIntField("id")
	schema.AddStringField("name", 20)
	schema.AddFloatField("score")
	layout := record.NewLayout(schema)

	ts, err := NewTableScan(transaction, "test_table", layout)
	require.NoError(t, err)
	return ts, transaction
}

func TestTableScan_EmptyTableHasNoRecords(t *testing.T) {
	assert := assert.New(t)
	ts, transaction := setupTestTable(t)

	// Field access is invalid before the first successful Next.
	_, err := ts.GetInt("id")
	assert.ErrorIs(err, record.ErrBadSlot)

	require.NoError(t, ts.BeforeFirst())
	hasNext, err := ts.Next()
	require.NoError(t, err)
	assert.False(hasNext)

	ts.Close()
	require.NoError(t, transaction.Commit())
}

func TestTableScan_SingleInsert(t *testing.T) {
	assert := assert.New(t)
	ts, transaction := setupTestTable(t)

	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("id", 1))
	require.NoError(t, ts.SetString("name", "first"))
	require.NoError(t, ts.SetFloat("score", 9.5))

	require.NoError(t, ts.BeforeFirst())
	hasNext, err := ts.Next()
	require.NoError(t, err)
	require.True(t, hasNext)

	id, err := ts.GetInt("id")
	require.NoError(t, err)
	assert.Equal(1, id)
	name, err := ts.GetString("name")
	require.NoError(t, err)
	assert.Equal("first", name)
	score, err := ts.GetFloat("score")
	require.NoError(t, err)
	assert.Equal(float32(9.5), score)

	hasNext, err = ts.Next()
	require.NoError(t, err)
	assert.False(hasNext)

	ts.Close()
	require.NoError(t, transaction.Commit())
}

func TestTableScan_InsertAcrossBlocks(t *testing.T) {
	assert := assert.New(t)
	ts, transaction := setupTestTable(t)

	recordCount := 50
	for i := 0; i < recordCount; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("id", i))
		require.NoError(t, ts.SetString("name", fmt.Sprintf("rec%d", i)))
		require.NoError(t, ts.SetFloat("score", float32(i)/2))
	}

	// The table spilled past its first block.
	size, err := transaction.Size("test_table.tbl")
	require.NoError(t, err)
	assert.Greater(size, 1)

	require.NoError(t, ts.BeforeFirst())
	seen := 0
	for {
		hasNext, err := ts.Next()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		id, err := ts.GetInt("id")
		require.NoError(t, err)
		assert.Equal(seen, id)
		seen++
	}
	assert.Equal(recordCount, seen)

	ts.Close()
	require.NoError(t, transaction.Commit())
}

func TestTableScan_DeleteSkipsRecords(t *testing.T) {
	assert := assert.New(t)
	ts, transaction := setupTestTable(t)

	for i := 0; i < 10; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("id", i))
	}

	// Delete the even records.
	require.NoError(t, ts.BeforeFirst())
	for {
		hasNext, err := ts.Next()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		id, err := ts.GetInt("id")
		require.NoError(t, err)
		if id%2 == 0 {
			require.NoError(t, ts.Delete())
		}
	}

	require.NoError(t, ts.BeforeFirst())
	remaining := make([]int, 0, 5)
	for {
		hasNext, err := ts.Next()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		id, err := ts.GetInt("id")
		require.NoError(t, err)
		remaining = append(remaining, id)
	}
	assert.Equal([]int{1, 3, 5, 7, 9}, remaining)

	ts.Close()
	require.NoError(t, transaction.Commit())
}

func TestTableScan_MoveToRecordID(t *testing.T) {
	assert := assert.New(t)
	ts, transaction := setupTestTable(t)

	rids := make([]*record.ID, 0, 5)
	for i := 0; i < 5; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("id", i*100))
		rids = append(rids, ts.GetRecordID())
	}

	require.NoError(t, ts.MoveToRecordID(rids[3]))
	id, err := ts.GetInt("id")
	require.NoError(t, err)
	assert.Equal(300, id)
	assert.True(ts.GetRecordID().Equals(rids[3]))

	ts.Close()
	require.NoError(t, transaction.Commit())
}
