package block

import (
	"BlockDB/types"
	"encoding/binary"
	"sync"
)

/*
Block is the raw fixed-size byte buffer every higher layer works on.
It knows nothing about the slotted layout: it only offers integer and byte-range
access at offsets, plus the frame metadata the buffer pool needs (dirty flag,
pin count). The buffer pool takes the block lock whenever it touches that
metadata or writes the block out. Integers are int32 little-endian, the agreed
convention for every block type.
*/

type Block struct {
	ID       types.BlockID
	Data     []byte
	IsDirty  bool
	PinCount int32
	mu       sync.RWMutex
}

// New allocates a zeroed block of size bytes.
func New(id types.BlockID, size int) *Block {
	return &Block{
		ID:   id,
		Data: make([]byte, size),
	}
}

// Wrap adopts data as the block buffer without copying.
func Wrap(id types.BlockID, data []byte) *Block {
	return &Block{ID: id, Data: data}
}

func (b *Block) Capacity() int {
	return len(b.Data)
}

func (b *Block) GetInt(offset int) int32 {
	return int32(binary.LittleEndian.Uint32(b.Data[offset : offset+4]))
}

func (b *Block) SetInt(offset int, v int32) {
	binary.LittleEndian.PutUint32(b.Data[offset:offset+4], uint32(v))
	b.IsDirty = true
}

// GetBytes returns a copy of data[offset : offset+length].
func (b *Block) GetBytes(offset, length int) []byte {
	out := make([]byte, length)
	copy(out, b.Data[offset:offset+length])
	return out
}

func (b *Block) SetBytes(offset int, src []byte) {
	copy(b.Data[offset:offset+len(src)], src)
	b.IsDirty = true
}

// MoveBytes copies length bytes from src to dst inside the buffer.
// Overlapping ranges are handled like the builtin copy.
func (b *Block) MoveBytes(dst, src, length int) {
	copy(b.Data[dst:dst+length], b.Data[src:src+length])
	b.IsDirty = true
}

func (b *Block) Lock() {
	b.mu.Lock()
}

func (b *Block) Unlock() {
	b.mu.Unlock()
}

func (b *Block) RLock() {
	b.mu.RLock()
}

func (b *Block) RUnlock() {
	b.mu.RUnlock()
}
