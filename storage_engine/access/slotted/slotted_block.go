package slotted

import (
	"BlockDB/storage_engine/block"
	"BlockDB/types"
	"fmt"
	"math"
)

// Header field offsets, see types/block.go.
const (
	offBlockID          = 0
	offNextBlockID      = 4
	offPrevBlockID      = 8
	offNumSlots         = 12
	offFreeSpacePointer = 16
)

// SlottedBlock interprets a block.Block as a slotted page. It keeps no state of
// its own beyond the buffer reference: everything lives in the bytes, so a block
// written by one process and read back by another behaves identically.
//
// The layout is documented in types/block.go. Records grow backward from the end
// of the buffer, the slot directory grows forward from the header.
//
// A SlottedBlock is not safe for concurrent use; the buffer pool pin protocol
// decides who owns the buffer at any moment.
type SlottedBlock struct {
	blk *block.Block
}

// New wraps blk. The buffer is not touched; call Init on a fresh buffer.
func New(blk *block.Block) (*SlottedBlock, error) {
	if blk.Capacity() < types.MinBlockSize {
		return nil, fmt.Errorf("%w: capacity %d, need %d",
			ErrBlockTooSmall, blk.Capacity(), types.MinBlockSize)
	}
	if blk.Capacity() > math.MaxInt32 {
		return nil, fmt.Errorf("slotted: capacity %d does not fit in int32 offsets", blk.Capacity())
	}
	return &SlottedBlock{blk: blk}, nil
}

// Block returns the underlying buffer.
func (sb *SlottedBlock) Block() *block.Block {
	return sb.blk
}

// Init resets the header and directory to the empty state. Record bytes from a
// previous lifetime stay in the buffer but become unreachable.
func (sb *SlottedBlock) Init() {
	sb.blk.SetInt(offBlockID, int32(types.InvalidBlock))
	sb.blk.SetInt(offNextBlockID, int32(types.InvalidBlock))
	sb.blk.SetInt(offPrevBlockID, int32(types.InvalidBlock))
	sb.blk.SetInt(offNumSlots, 0)
	sb.blk.SetInt(offFreeSpacePointer, int32(sb.blk.Capacity()))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain links
// ─────────────────────────────────────────────────────────────────────────────

func (sb *SlottedBlock) BlockID() types.BlockID {
	return types.BlockID(sb.blk.GetInt(offBlockID))
}
func (sb *SlottedBlock) SetBlockID(id types.BlockID) {
	sb.blk.SetInt(offBlockID, int32(id))
}

func (sb *SlottedBlock) NextBlockID() types.BlockID {
	return types.BlockID(sb.blk.GetInt(offNextBlockID))
}
func (sb *SlottedBlock) SetNextBlockID(id types.BlockID) {
	sb.blk.SetInt(offNextBlockID, int32(id))
}

func (sb *SlottedBlock) PrevBlockID() types.BlockID {
	return types.BlockID(sb.blk.GetInt(offPrevBlockID))
}
func (sb *SlottedBlock) SetPrevBlockID(id types.BlockID) {
	sb.blk.SetInt(offPrevBlockID, int32(id))
}

// ─────────────────────────────────────────────────────────────────────────────
// Space bookkeeping
// ─────────────────────────────────────────────────────────────────────────────

// NumSlots counts directory entries, empty ones included.
func (sb *SlottedBlock) NumSlots() int {
	return int(sb.blk.GetInt(offNumSlots))
}
func (sb *SlottedBlock) setNumSlots(n int) {
	sb.blk.SetInt(offNumSlots, int32(n))
}

// FreeSpacePointer is the first byte of record data.
func (sb *SlottedBlock) FreeSpacePointer() int {
	return int(sb.blk.GetInt(offFreeSpacePointer))
}
func (sb *SlottedBlock) setFreeSpacePointer(p int) {
	sb.blk.SetInt(offFreeSpacePointer, int32(p))
}

func (sb *SlottedBlock) directoryEnd() int {
	return types.BlockHeaderSize + sb.NumSlots()*types.SlotSize
}

// freeBytes is the raw gap between the directory and the record data.
func (sb *SlottedBlock) freeBytes() int {
	return sb.FreeSpacePointer() - sb.directoryEnd()
}

// AvailableSpace returns how many record bytes fit if the insert needs a new
// slot entry:
//
//	available = FreeSpacePointer - directoryEnd - SlotSize
//
// An uninitialized block reports 0 rather than an error; InsertRecord on such
// a block returns ErrUninitializedBlock.
func (sb *SlottedBlock) AvailableSpace() int {
	if sb.checkInit() != nil {
		return 0
	}
	available := sb.freeBytes() - types.SlotSize
	if available < 0 {
		return 0
	}
	return available
}

// Empty reports whether no slot holds a record. An uninitialized block
// reports true; use FirstRecord to get ErrUninitializedBlock instead.
func (sb *SlottedBlock) Empty() bool {
	if sb.checkInit() != nil {
		return true
	}
	for i := 0; i < sb.NumSlots(); i++ {
		if sb.slotLive(i) {
			return false
		}
	}
	return true
}

// LiveRecords counts non-empty slots.
func (sb *SlottedBlock) LiveRecords() int {
	if sb.checkInit() != nil {
		return 0
	}
	n := 0
	for i := 0; i < sb.NumSlots(); i++ {
		if sb.slotLive(i) {
			n++
		}
	}
	return n
}

// checkInit validates the header fields the other operations rely on.
// A zeroed buffer fails because FreeSpacePointer sits inside the header.
func (sb *SlottedBlock) checkInit() error {
	numSlots := sb.NumSlots()
	fsp := sb.FreeSpacePointer()
	if numSlots < 0 {
		return fmt.Errorf("%w: numSlots=%d", ErrUninitializedBlock, numSlots)
	}
	maxSlots := (sb.blk.Capacity() - types.BlockHeaderSize) / types.SlotSize
	if numSlots > maxSlots {
		return fmt.Errorf("%w: numSlots=%d exceeds %d", ErrUninitializedBlock, numSlots, maxSlots)
	}
	if fsp < types.BlockHeaderSize+numSlots*types.SlotSize || fsp > sb.blk.Capacity() {
		return fmt.Errorf("%w: freeSpacePointer=%d numSlots=%d capacity=%d",
			ErrUninitializedBlock, fsp, numSlots, sb.blk.Capacity())
	}
	return nil
}
