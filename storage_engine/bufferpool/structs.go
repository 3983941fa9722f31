package bufferpool

import (
	"BlockDB/storage_engine/block"
	diskmanager "BlockDB/storage_engine/disk_manager"
	"BlockDB/storage_engine/logger"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

// ############################################# BUFFER POOL #############################################

// BufferPool keeps blocks resident in memory.
// Pinned blocks live in a map and are never evicted. Unpinned blocks are
// written back if dirty and then parked in a ristretto cache, which may drop
// them at any time since they are clean.
type BufferPool struct {
	pinned   map[int32]*block.Block // blockID -> checked-out block
	cache    *ristretto.Cache[int32, *block.Block]
	capacity int
	disk     *diskmanager.DiskManager
	log      logger.Logger
	hits     uint64
	misses   uint64
	mu       sync.Mutex
}

// BufferPoolStats is a snapshot of pool counters.
type BufferPoolStats struct {
	PinnedBlocks int
	DirtyBlocks  int
	Capacity     int
	Hits         uint64
	Misses       uint64
	HitRate      float64
}
