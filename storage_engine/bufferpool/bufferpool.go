package bufferpool

import (
	"BlockDB/storage_engine/block"
	diskmanager "BlockDB/storage_engine/disk_manager"
	"BlockDB/storage_engine/logger"
	"BlockDB/types"
	"errors"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

/*
This file is the main file of the bufferpool.
A block is checked out with FetchBlock/NewBlock (pin count incremented) and
handed back with UnpinBlock. While pinned, the caller owns the buffer: the
slotted layer above has no locking of its own, so two callers must not mutate
the same pinned block at once.

When the last pin is released a dirty block is written through the disk manager
before it enters the cache, so eviction never loses data.
*/

var (
	ErrAllPinned   = errors.New("bufferpool: all blocks are pinned")
	ErrNotResident = errors.New("bufferpool: block not pinned")
)

// NewBufferPool creates a pool holding up to capacity pinned blocks and up to
// capacity cached ones.
func NewBufferPool(capacity int, disk *diskmanager.DiskManager, log logger.Logger) (*BufferPool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("buffer pool capacity must be positive, got %d", capacity)
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithField("component", "BufferPool")

	cache, err := ristretto.NewCache(&ristretto.Config[int32, *block.Block]{
		NumCounters: int64(capacity) * 10,
		MaxCost:     int64(capacity),
		BufferItems: 64,
		// cost counts blocks, not bytes
		IgnoreInternalCost: true,
		OnEvict: func(item *ristretto.Item[*block.Block]) {
			log.Debug("EVICT blockID=%d", item.Value.ID)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create block cache: %w", err)
	}

	return &BufferPool{
		pinned:   make(map[int32]*block.Block, capacity),
		cache:    cache,
		capacity: capacity,
		disk:     disk,
		log:      log,
	}, nil
}

// FetchBlock returns block id pinned, loading it from disk on a miss.
func (bp *BufferPool) FetchBlock(id types.BlockID) (*block.Block, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	key := int32(id)
	if blk, ok := bp.pinned[key]; ok {
		bp.hits++
		blk.Lock()
		blk.PinCount++
		pins := blk.PinCount
		blk.Unlock()
		bp.log.Debug("HIT  blockID=%d pinCount=%d", id, pins)
		return blk, nil
	}

	if len(bp.pinned) >= bp.capacity {
		return nil, fmt.Errorf("%w: capacity %d", ErrAllPinned, bp.capacity)
	}

	blk, ok := bp.cache.Get(key)
	if ok {
		bp.hits++
		bp.cache.Del(key)
		bp.log.Debug("HIT  blockID=%d (cached)", id)
	} else {
		bp.misses++
		bp.log.Debug("MISS blockID=%d — loading from disk", id)
		var err error
		blk, err = bp.disk.ReadBlock(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read block %d from disk: %w", id, err)
		}
	}

	blk.Lock()
	blk.PinCount = 1
	blk.Unlock()
	bp.pinned[key] = blk
	return blk, nil
}

// NewBlock allocates a fresh zeroed block on disk and returns it pinned and
// dirty. The caller is expected to initialize its layout.
func (bp *BufferPool) NewBlock() (*block.Block, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if len(bp.pinned) >= bp.capacity {
		return nil, fmt.Errorf("%w: capacity %d", ErrAllPinned, bp.capacity)
	}

	id, err := bp.disk.AllocateBlock()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate block: %w", err)
	}

	blk := block.New(id, bp.disk.BlockSize())
	blk.Lock()
	blk.IsDirty = true
	blk.PinCount = 1
	blk.Unlock()
	bp.pinned[int32(id)] = blk
	bp.log.Debug("NEW  blockID=%d", id)
	return blk, nil
}

// UnpinBlock releases one pin. isDirty marks the block modified. When the
// last pin goes, a dirty block is flushed and the block moves to the cache.
func (bp *BufferPool) UnpinBlock(id types.BlockID, isDirty bool) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	key := int32(id)
	blk, ok := bp.pinned[key]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotResident, id)
	}

	blk.Lock()
	if isDirty {
		blk.IsDirty = true
	}
	if blk.PinCount > 0 {
		blk.PinCount--
	}
	pins := blk.PinCount
	blk.Unlock()
	if pins > 0 {
		return nil
	}

	if err := bp.writeBack(blk); err != nil {
		blk.Lock()
		blk.PinCount = 1
		blk.Unlock()
		return fmt.Errorf("failed to flush block %d on unpin: %w", id, err)
	}

	delete(bp.pinned, key)
	bp.cache.Set(key, blk, 1)
	bp.cache.Wait()
	return nil
}

// FlushBlock writes a pinned block to disk if dirty.
func (bp *BufferPool) FlushBlock(id types.BlockID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	blk, ok := bp.pinned[int32(id)]
	if !ok {
		// unpinned blocks are always clean
		return nil
	}
	if err := bp.writeBack(blk); err != nil {
		return fmt.Errorf("failed to flush block %d: %w", id, err)
	}
	return nil
}

// FlushAll writes every dirty pinned block and syncs the file.
func (bp *BufferPool) FlushAll() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	for id, blk := range bp.pinned {
		if err := bp.writeBack(blk); err != nil {
			return fmt.Errorf("failed to flush block %d: %w", id, err)
		}
	}
	return bp.disk.Sync()
}

// writeBack writes blk if dirty. The block lock is held for the write since
// WriteBlock clears the dirty flag.
// Assumes bp.mu is already held
func (bp *BufferPool) writeBack(blk *block.Block) error {
	blk.Lock()
	defer blk.Unlock()

	if !blk.IsDirty {
		return nil
	}
	if err := bp.disk.WriteBlock(blk); err != nil {
		return err
	}
	bp.log.Debug("FLUSH blockID=%d", blk.ID)
	return nil
}

// Stats returns current buffer pool statistics.
func (bp *BufferPool) Stats() BufferPoolStats {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	stats := BufferPoolStats{
		PinnedBlocks: len(bp.pinned),
		Capacity:     bp.capacity,
		Hits:         bp.hits,
		Misses:       bp.misses,
	}
	for _, blk := range bp.pinned {
		blk.RLock()
		if blk.IsDirty {
			stats.DirtyBlocks++
		}
		blk.RUnlock()
	}
	if total := bp.hits + bp.misses; total > 0 {
		stats.HitRate = float64(bp.hits) / float64(total)
	}
	return stats
}

// Close flushes everything and releases the cache. Pinned blocks stay valid
// in memory but the pool must not be used afterwards.
func (bp *BufferPool) Close() error {
	err := bp.FlushAll()
	bp.cache.Close()
	return err
}
