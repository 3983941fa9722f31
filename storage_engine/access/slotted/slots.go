package slotted

import (
	"BlockDB/types"
	"fmt"
)

// slotByteOffset returns where slot i begins in the buffer.
//
//	slot 0: bytes 20–27
//	slot 1: bytes 28–35
//	slot i: BlockHeaderSize + i*SlotSize
func slotByteOffset(i int) int {
	return types.BlockHeaderSize + i*types.SlotSize
}

func (sb *SlottedBlock) readSlot(i int) (offset, length int32) {
	base := slotByteOffset(i)
	return sb.blk.GetInt(base), sb.blk.GetInt(base + 4)
}

func (sb *SlottedBlock) writeSlot(i int, offset, length int32) {
	base := slotByteOffset(i)
	sb.blk.SetInt(base, offset)
	sb.blk.SetInt(base+4, length)
}

func (sb *SlottedBlock) clearSlot(i int) {
	sb.writeSlot(i, types.EmptySlot, 0)
}

func (sb *SlottedBlock) slotLive(i int) bool {
	offset, _ := sb.readSlot(i)
	return offset != types.EmptySlot
}

// firstEmptySlot returns the lowest deleted slot index, or -1.
func (sb *SlottedBlock) firstEmptySlot() int {
	for i := 0; i < sb.NumSlots(); i++ {
		if !sb.slotLive(i) {
			return i
		}
	}
	return -1
}

// nextLiveSlot returns the lowest live slot index >= from, or -1.
func (sb *SlottedBlock) nextLiveSlot(from int) int {
	for i := from; i < sb.NumSlots(); i++ {
		if sb.slotLive(i) {
			return i
		}
	}
	return -1
}

// resolve checks that rid addresses a slot of this block and returns its index.
// With live set, the slot must also hold a record.
func (sb *SlottedBlock) resolve(rid types.RID, live bool) (int, error) {
	if err := sb.checkInit(); err != nil {
		return 0, err
	}
	if rid.BlockID != sb.BlockID() {
		return 0, fmt.Errorf("%w: %s belongs to block %s, this is block %s",
			ErrInvalidRID, rid, rid.BlockID, sb.BlockID())
	}
	if rid.SlotNum < 0 || int(rid.SlotNum) >= sb.NumSlots() {
		return 0, fmt.Errorf("%w: %s slot out of range (count=%d)",
			ErrInvalidRID, rid, sb.NumSlots())
	}
	slot := int(rid.SlotNum)
	if live && !sb.slotLive(slot) {
		return 0, fmt.Errorf("%w: %s slot is empty", ErrInvalidRID, rid)
	}
	return slot, nil
}

// releaseData removes the bytes of slot from the record region and slides
// every record stored below it up by the freed length, so the free region
// stays contiguous. Slot numbers never change, only offsets. The slot itself
// is left pointing at nothing; the caller rewrites or clears it.
func (sb *SlottedBlock) releaseData(slot int) {
	offset, length := sb.readSlot(slot)
	fsp := sb.FreeSpacePointer()
	shift := int(length)

	if moved := int(offset) - fsp; moved > 0 {
		sb.blk.MoveBytes(fsp+shift, fsp, moved)
	}
	for i := 0; i < sb.NumSlots(); i++ {
		if i == slot {
			continue
		}
		o, l := sb.readSlot(i)
		if o != types.EmptySlot && o < offset {
			sb.writeSlot(i, o+int32(shift), l)
		}
	}
	sb.blk.SetBytes(fsp, make([]byte, shift))
	sb.setFreeSpacePointer(fsp + shift)
}
