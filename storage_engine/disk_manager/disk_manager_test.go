package diskmanager

import (
	"BlockDB/storage_engine/block"
	"BlockDB/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDisk(t *testing.T) (*DiskManager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.db")
	dm, err := Open(path, types.BlockSize, nil)
	require.NoError(t, err)
	t.Cleanup(func() { dm.Close() })
	return dm, path
}

func TestWriteReadRoundTrip(t *testing.T) {
	dm, path := openTestDisk(t)

	id, err := dm.AllocateBlock()
	require.NoError(t, err)
	assert.Equal(t, types.BlockID(0), id)

	blk := block.New(id, types.BlockSize)
	blk.SetBytes(100, []byte("payload"))
	blk.SetInt(0, 42)
	require.NoError(t, dm.WriteBlock(blk))
	assert.False(t, blk.IsDirty)

	got, err := dm.ReadBlock(id)
	require.NoError(t, err)
	assert.Equal(t, blk.Data, got.Data)

	require.NoError(t, dm.Close())
	reopened, err := Open(path, types.BlockSize, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, int64(1), reopened.NumBlocks())

	got, err = reopened.ReadBlock(id)
	require.NoError(t, err)
	assert.Equal(t, int32(42), got.GetInt(0))
}

func TestReadUnwrittenBlock(t *testing.T) {
	dm, _ := openTestDisk(t)

	_, err := dm.ReadBlock(0)
	assert.ErrorIs(t, err, ErrBlockNotFound)

	first, err := dm.AllocateBlock()
	require.NoError(t, err)
	second, err := dm.AllocateBlock()
	require.NoError(t, err)

	_, err = dm.ReadBlock(first)
	assert.ErrorIs(t, err, ErrBlockNotFound)

	require.NoError(t, dm.WriteBlock(block.New(second, types.BlockSize)))
	_, err = dm.ReadBlock(first)
	assert.ErrorIs(t, err, ErrBlockNotFound)
	_, err = dm.ReadBlock(second)
	assert.NoError(t, err)
}

func TestChecksumMismatch(t *testing.T) {
	dm, path := openTestDisk(t)

	id, err := dm.AllocateBlock()
	require.NoError(t, err)
	blk := block.New(id, types.BlockSize)
	blk.SetBytes(0, []byte("intact"))
	require.NoError(t, dm.WriteBlock(blk))
	require.NoError(t, dm.Close())

	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte("X"), 3)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reopened, err := Open(path, types.BlockSize, nil)
	require.NoError(t, err)
	defer reopened.Close()
	_, err = reopened.ReadBlock(id)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestWriteRejectsWrongSize(t *testing.T) {
	dm, _ := openTestDisk(t)
	id, err := dm.AllocateBlock()
	require.NoError(t, err)
	assert.Error(t, dm.WriteBlock(block.New(id, types.BlockSize/2)))
}

func TestClosedManager(t *testing.T) {
	dm, _ := openTestDisk(t)
	require.NoError(t, dm.Close())
	require.NoError(t, dm.Close())

	_, err := dm.AllocateBlock()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = dm.ReadBlock(0)
	assert.ErrorIs(t, err, ErrClosed)
}
