package slotted

import (
	"BlockDB/types"
	"fmt"
)

// InsertRecord copies data into the block and returns its RID.
// The lowest deleted slot is reused before the directory grows. On
// ErrOutOfSpace nothing is written.
func (sb *SlottedBlock) InsertRecord(data []byte) (types.RID, error) {
	if err := sb.checkInit(); err != nil {
		return types.RID{}, err
	}
	if len(data) == 0 {
		return types.RID{}, ErrEmptyRecord
	}

	slot := sb.firstEmptySlot()
	need := len(data)
	if slot < 0 {
		need += types.SlotSize
	}
	if need > sb.freeBytes() {
		return types.RID{}, fmt.Errorf("%w: need %d bytes, only %d available",
			ErrOutOfSpace, need, sb.freeBytes())
	}

	if slot < 0 {
		slot = sb.NumSlots()
		sb.setNumSlots(slot + 1)
	}
	sb.place(slot, data)

	return types.RID{BlockID: sb.BlockID(), SlotNum: int32(slot)}, nil
}

// place writes data just below the record region and points slot at it.
// Space must already be checked.
func (sb *SlottedBlock) place(slot int, data []byte) {
	offset := sb.FreeSpacePointer() - len(data)
	sb.blk.SetBytes(offset, data)
	sb.writeSlot(slot, int32(offset), int32(len(data)))
	sb.setFreeSpacePointer(offset)
}

// GetRecord returns a copy of the record at rid.
func (sb *SlottedBlock) GetRecord(rid types.RID) ([]byte, error) {
	slot, err := sb.resolve(rid, true)
	if err != nil {
		return nil, err
	}
	offset, length := sb.readSlot(slot)
	return sb.blk.GetBytes(int(offset), int(length)), nil
}

// DeleteRecord empties the slot at rid and compacts the record region so the
// bytes go back to the free region. Other RIDs stay valid.
func (sb *SlottedBlock) DeleteRecord(rid types.RID) error {
	slot, err := sb.resolve(rid, true)
	if err != nil {
		return err
	}
	sb.releaseData(slot)
	sb.clearSlot(slot)
	return nil
}

// UpdateRecord replaces the record at rid, keeping its RID. The old bytes are
// released and the new ones placed at the free-space boundary, so a shrinking
// record returns the difference to the free region. A larger record succeeds
// when the growth fits; otherwise the old record is kept and ErrOutOfSpace is
// returned.
func (sb *SlottedBlock) UpdateRecord(rid types.RID, data []byte) error {
	slot, err := sb.resolve(rid, true)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptyRecord
	}
	_, length := sb.readSlot(slot)
	if avail := sb.freeBytes() + int(length); len(data) > avail {
		return fmt.Errorf("%w: need %d bytes, only %d available",
			ErrOutOfSpace, len(data), avail)
	}

	sb.releaseData(slot)
	sb.place(slot, data)
	return nil
}
