package slotted

import "BlockDB/types"

// FirstRecord returns the RID of the lowest live slot. ok is false when the
// block holds no records.
func (sb *SlottedBlock) FirstRecord() (rid types.RID, ok bool, err error) {
	if err := sb.checkInit(); err != nil {
		return types.RID{}, false, err
	}
	return sb.ridAt(sb.nextLiveSlot(0))
}

// NextRecord returns the RID of the lowest live slot after rid.SlotNum. The
// slot rid names may itself be empty, so a scan can resume after its current
// record was deleted. Order is slot order, not insertion or physical order.
func (sb *SlottedBlock) NextRecord(rid types.RID) (next types.RID, ok bool, err error) {
	slot, err := sb.resolve(rid, false)
	if err != nil {
		return types.RID{}, false, err
	}
	return sb.ridAt(sb.nextLiveSlot(slot + 1))
}

func (sb *SlottedBlock) ridAt(slot int) (types.RID, bool, error) {
	if slot < 0 {
		return types.RID{}, false, nil
	}
	return types.RID{BlockID: sb.BlockID(), SlotNum: int32(slot)}, true, nil
}

// ForEach calls fn for every live record in slot order. fn receives a copy of
// the record and may stop the scan by returning an error, which ForEach
// returns. fn must not mutate the block.
func (sb *SlottedBlock) ForEach(fn func(rid types.RID, data []byte) error) error {
	rid, ok, err := sb.FirstRecord()
	for ; ok && err == nil; rid, ok, err = sb.NextRecord(rid) {
		data, gerr := sb.GetRecord(rid)
		if gerr != nil {
			return gerr
		}
		if ferr := fn(rid, data); ferr != nil {
			return ferr
		}
	}
	return err
}
