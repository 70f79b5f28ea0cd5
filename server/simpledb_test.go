package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpledb/file"
)

func TestSimpleDB_CreateAndReopen(t *testing.T) {
	assert := assert.New(t)
	dir := filepath.Join(t.TempDir(), "db")

	db, err := New(dir)
	require.NoError(t, err)
	assert.True(db.FileManager().IsNew())
	assert.Equal(blockSize, db.FileManager().BlockSize())

	// Commit a value, then reopen the database: startup recovery runs and
	// the committed value survives.
	block := file.NewBlockId("testfile", 0)
	tx1, err := db.NewTx()
	require.NoError(t, err)
	require.NoError(t, tx1.Pin(block))
	require.NoError(t, tx1.SetInt(block, 80, 9, true))
	require.NoError(t, tx1.Commit())

	db2, err := New(dir)
	require.NoError(t, err)
	assert.False(db2.FileManager().IsNew())

	tx2, err := db2.NewTx()
	require.NoError(t, err)
	require.NoError(t, tx2.Pin(block))
	val, err := tx2.GetInt(block, 80)
	require.NoError(t, err)
	assert.Equal(9, val)
	require.NoError(t, tx2.Commit())
}

func TestSimpleDB_RecoveryUndoesUncommittedOnReopen(t *testing.T) {
	assert := assert.New(t)
	dir := filepath.Join(t.TempDir(), "db")

	db, err := New(dir)
	require.NoError(t, err)

	block := file.NewBlockId("testfile", 0)
	tx1, err := db.NewTx()
	require.NoError(t, err)
	require.NoError(t, tx1.Pin(block))
	require.NoError(t, tx1.SetInt(block, 80, 1234, true))
	// Simulate a steal: the dirty page reaches disk without a commit.
	require.NoError(t, db.BufferManager().FlushAll(tx1.TxNum()))

	// Crash: abandon tx1 and reopen the database.
	db2, err := New(dir)
	require.NoError(t, err)

	tx2, err := db2.NewTx()
	require.NoError(t, err)
	require.NoError(t, tx2.Pin(block))
	val, err := tx2.GetInt(block, 80)
	require.NoError(t, err)
	assert.Equal(0, val)
	require.NoError(t, tx2.Commit())
}

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "simpledb.yaml")
	contents := "db_directory: " + filepath.Join(dir, "db") + "\nblock_size: 512\nbuffer_size: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0666))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(filepath.Join(dir, "db"), cfg.DBDirectory)
	assert.Equal(512, cfg.BlockSize)
	assert.Equal(4, cfg.BufferSize)
	// Omitted values fall back to the defaults.
	assert.Equal(logFile, cfg.LogFile)
}

func TestLoadConfig_RequiresDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simpledb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("block_size: 512\n"), 0666))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	cfg := Config{
		DBDirectory: filepath.Join(dir, "db"),
		BlockSize:   512,
		BufferSize:  4,
		LogFile:     "custom.log",
	}
	db, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(512, db.FileManager().BlockSize())

	_, err = os.Stat(filepath.Join(dir, "db", "custom.log"))
	assert.NoError(err)
}
