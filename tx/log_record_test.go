package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpledb/file"
	"simpledb/log"
)

func newTestLogManager(t *testing.T) *log.Manager {
	t.Helper()
	fm, err := file.NewManager(t.TempDir(), 400)
	require.NoError(t, err)
	lm, err := log.NewManager(fm, "testlog")
	require.NoError(t, err)
	return lm
}

func TestLogRecords_RoundTripThroughLog(t *testing.T) {
	assert := assert.New(t)
	lm := newTestLogManager(t)
	block := file.NewBlockId("testfile", 7)

	_, err := WriteStartToLog(lm, 3)
	require.NoError(t, err)
	_, err = WriteSetIntToLog(lm, 3, block, 80, 542)
	require.NoError(t, err)
	_, err = WriteSetStringToLog(lm, 3, block, 40, "one")
	require.NoError(t, err)
	_, err = WriteSetFloatToLog(lm, 3, block, 120, 2.5)
	require.NoError(t, err)
	_, err = WriteRollbackToLog(lm, 3)
	require.NoError(t, err)
	_, err = WriteCommitToLog(lm, 4)
	require.NoError(t, err)
	_, err = WriteCheckpointToLog(lm)
	require.NoError(t, err)

	iterator, err := lm.Iterator()
	require.NoError(t, err)

	records := make([]LogRecord, 0, 7)
	for iterator.HasNext() {
		bytes, err := iterator.Next()
		require.NoError(t, err)
		record, err := CreateLogRecord(bytes)
		require.NoError(t, err)
		records = append(records, record)
	}

	// Records come back in reverse insertion order.
	require.Len(t, records, 7)
	assert.Equal(Checkpoint, records[0].Op())
	assert.Equal(Commit, records[1].Op())
	assert.Equal(4, records[1].TxNumber())
	assert.Equal(Rollback, records[2].Op())

	setFloat, ok := records[3].(*SetFloatRecord)
	require.True(t, ok)
	assert.Equal(3, setFloat.TxNumber())
	assert.Equal(float32(2.5), setFloat.value)
	assert.Equal(120, setFloat.offset)
	assert.True(block.Equals(setFloat.block))

	setString, ok := records[4].(*SetStringRecord)
	require.True(t, ok)
	assert.Equal("one", setString.value)
	assert.Equal(40, setString.offset)

	setInt, ok := records[5].(*SetIntRecord)
	require.True(t, ok)
	assert.Equal(542, setInt.value)
	assert.Equal(80, setInt.offset)
	assert.True(block.Equals(setInt.block))

	assert.Equal(Start, records[6].Op())
	assert.Equal(3, records[6].TxNumber())
}

func TestCreateLogRecord_RejectsUnknownTag(t *testing.T) {
	bytes := make([]byte, 8)
	page := file.NewPageFromBytes(bytes)
	page.SetInt(0, 99)

	_, err := CreateLogRecord(bytes)
	assert.ErrorIs(t, err, ErrUnknownRecordType)
}
