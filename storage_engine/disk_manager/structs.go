package diskmanager

import (
	"BlockDB/storage_engine/logger"
	"os"
	"sync"
)

// ############################################# DISK MANAGER #############################################

// DiskManager owns the OS handle of one block file.
//
// Frame layout on disk (frame i at offset i*frameSize):
//
//	[ block bytes (blockSize) ][ xxhash64 of block bytes (8) ]
type DiskManager struct {
	filePath  string
	file      *os.File
	blockSize int
	numBlocks int64 // frames allocated so far, next id to hand out
	log       logger.Logger
	mu        sync.RWMutex
}
