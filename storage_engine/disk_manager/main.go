package diskmanager

import (
	"BlockDB/storage_engine/block"
	"BlockDB/storage_engine/logger"
	"BlockDB/types"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
)

/*
This is main file for disk manager
It owns:
The file descriptor (os.File)
Reading/writing block frames at id*frameSize (ReadAt, WriteAt)
Block id allocation (append only)
A checksum per frame so torn or corrupted writes are detected on read

Placement policy and free-block reuse belong to a file layer above; the disk
manager only hands out the next id.
*/

var (
	ErrBlockNotFound    = errors.New("diskmanager: block not found")
	ErrChecksumMismatch = errors.New("diskmanager: block checksum mismatch")
	ErrClosed           = errors.New("diskmanager: file is closed")
)

// Open opens or creates the block file at filePath.
func Open(filePath string, blockSize int, log logger.Logger) (*DiskManager, error) {
	if blockSize < types.MinBlockSize {
		return nil, fmt.Errorf("block size %d below minimum %d", blockSize, types.MinBlockSize)
	}
	if log == nil {
		log = logger.Nop()
	}

	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	dm := &DiskManager{
		filePath:  filePath,
		file:      file,
		blockSize: blockSize,
		log:       log.WithField("component", "DiskManager"),
	}
	dm.numBlocks = stat.Size() / int64(dm.frameSize())
	if stat.Size()%int64(dm.frameSize()) != 0 {
		dm.log.Warn("file %s has a partial trailing frame, ignoring it", filePath)
	}
	dm.log.Debug("opened %s blocks=%d", filePath, dm.numBlocks)

	return dm, nil
}

func (dm *DiskManager) frameSize() int {
	return dm.blockSize + types.ChecksumSize
}

func (dm *DiskManager) BlockSize() int {
	return dm.blockSize
}

// NumBlocks returns the number of allocated block ids.
func (dm *DiskManager) NumBlocks() int64 {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.numBlocks
}

// AllocateBlock reserves the next block id. Nothing is written until the
// block is first flushed.
func (dm *DiskManager) AllocateBlock() (types.BlockID, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return types.InvalidBlock, ErrClosed
	}
	if dm.numBlocks >= math.MaxInt32 {
		return types.InvalidBlock, fmt.Errorf("block id space exhausted")
	}
	id := types.BlockID(dm.numBlocks)
	dm.numBlocks++
	return id, nil
}

// ReadBlock reads and verifies the frame of id.
func (dm *DiskManager) ReadBlock(id types.BlockID) (*block.Block, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	if dm.file == nil {
		return nil, ErrClosed
	}
	if id < 0 || int64(id) >= dm.numBlocks {
		return nil, fmt.Errorf("%w: id %d (allocated=%d)", ErrBlockNotFound, id, dm.numBlocks)
	}

	frame := make([]byte, dm.frameSize())
	n, err := dm.file.ReadAt(frame, int64(id)*int64(dm.frameSize()))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read block %d: %w", id, err)
	}
	if n < len(frame) {
		// allocated but never flushed
		return nil, fmt.Errorf("%w: id %d was allocated but never written", ErrBlockNotFound, id)
	}

	data := frame[:dm.blockSize]
	want := binary.LittleEndian.Uint64(frame[dm.blockSize:])
	if want == 0 && isZero(data) {
		// hole left by a later block being flushed first
		return nil, fmt.Errorf("%w: id %d was allocated but never written", ErrBlockNotFound, id)
	}
	if got := xxhash.Sum64(data); got != want {
		return nil, fmt.Errorf("%w: block %d expected %d, got %d", ErrChecksumMismatch, id, want, got)
	}

	return block.Wrap(id, data), nil
}

// WriteBlock writes blk and its checksum to the frame of blk.ID and clears the
// dirty flag.
func (dm *DiskManager) WriteBlock(blk *block.Block) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return ErrClosed
	}
	if blk.Capacity() != dm.blockSize {
		return fmt.Errorf("block data size %d does not match block size %d", blk.Capacity(), dm.blockSize)
	}
	if blk.ID < 0 || int64(blk.ID) >= dm.numBlocks {
		return fmt.Errorf("%w: id %d (allocated=%d)", ErrBlockNotFound, blk.ID, dm.numBlocks)
	}

	frame := make([]byte, dm.frameSize())
	copy(frame, blk.Data)
	binary.LittleEndian.PutUint64(frame[dm.blockSize:], xxhash.Sum64(blk.Data))

	if _, err := dm.file.WriteAt(frame, int64(blk.ID)*int64(dm.frameSize())); err != nil {
		return fmt.Errorf("failed to write block %d: %w", blk.ID, err)
	}

	blk.IsDirty = false
	return nil
}

// Sync flushes the file to stable storage.
func (dm *DiskManager) Sync() error {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	if dm.file == nil {
		return ErrClosed
	}
	if err := dm.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", dm.filePath, err)
	}
	return nil
}

// Close syncs and closes the file. Closing twice is a no-op.
func (dm *DiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return nil
	}
	if err := dm.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync before close: %w", err)
	}
	if err := dm.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	dm.file = nil
	dm.log.Debug("closed %s", dm.filePath)
	return nil
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
