package log

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpledb/file"
)

func newTestLogManager(t *testing.T, blockSize int) (*file.Manager, *Manager) {
	t.Helper()
	fm, err := file.NewManager(t.TempDir(), blockSize)
	require.NoError(t, err)
	lm, err := NewManager(fm, "testlog")
	require.NoError(t, err)
	return fm, lm
}

// makeLogRecord builds a record holding a string followed by an integer, the
// shape used by the transaction layer's update records.
func makeLogRecord(s string, n int) []byte {
	npos := file.MaxLength(len(s))
	record := make([]byte, npos+4)
	page := file.NewPageFromBytes(record)
	_ = page.SetString(0, s)
	page.SetInt(npos, n)
	return record
}

func TestLogManager_ReverseIteration(t *testing.T) {
	assert := assert.New(t)
	_, lm := newTestLogManager(t, 400)

	for i := 1; i <= 35; i++ {
		lsn, err := lm.Append(makeLogRecord(fmt.Sprintf("record%d", i), 100+i))
		require.NoError(t, err)
		assert.Equal(i, lsn)
	}

	iterator, err := lm.Iterator()
	require.NoError(t, err)

	// The iterator yields the records in reverse insertion order.
	for i := 35; i >= 1; i-- {
		assert.Truef(iterator.HasNext(), "expected record %d, but iterator is exhausted", i)

		bytes, err := iterator.Next()
		require.NoError(t, err)

		page := file.NewPageFromBytes(bytes)
		s, err := page.GetString(0)
		assert.NoError(err)
		assert.Equal(fmt.Sprintf("record%d", i), s)
		assert.Equal(100+i, page.GetInt(file.MaxLength(len(s))))
	}

	assert.False(iterator.HasNext())
}

func TestLogManager_IteratorSurvivesReopen(t *testing.T) {
	assert := assert.New(t)
	blockSize := 400
	dir := t.TempDir()

	fm, err := file.NewManager(dir, blockSize)
	require.NoError(t, err)
	lm, err := NewManager(fm, "testlog")
	require.NoError(t, err)

	recordCount := 50
	for i := 1; i <= recordCount; i++ {
		_, err := lm.Append(makeLogRecord(fmt.Sprintf("entry%d", i), i))
		require.NoError(t, err)
	}
	require.NoError(t, lm.Flush(recordCount))

	// A manager over the same files picks up where the last one stopped.
	lm2, err := NewManager(fm, "testlog")
	require.NoError(t, err)
	iterator, err := lm2.Iterator()
	require.NoError(t, err)

	seen := 0
	for iterator.HasNext() {
		_, err := iterator.Next()
		require.NoError(t, err)
		seen++
	}
	assert.Equal(recordCount, seen)
}

func TestLogManager_BlockBoundary(t *testing.T) {
	assert := assert.New(t)
	blockSize := 400
	fm, lm := newTestLogManager(t, blockSize)

	// A record of blockSize-8 bytes plus its length prefix fills the page
	// exactly, leaving just the 4-byte boundary word.
	big := make([]byte, blockSize-8)
	lsn, err := lm.Append(big)
	require.NoError(t, err)
	require.NoError(t, lm.Flush(lsn))

	length, err := fm.Length("testlog")
	require.NoError(t, err)
	assert.Equal(1, length)

	// One more byte cannot fit: the next append allocates a new block.
	lsn, err = lm.Append([]byte{1})
	require.NoError(t, err)
	require.NoError(t, lm.Flush(lsn))

	length, err = fm.Length("testlog")
	require.NoError(t, err)
	assert.Equal(2, length)
}
