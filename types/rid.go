package types

import "fmt"

// BlockID identifies a block inside its file. InvalidBlock means unset.
type BlockID int32

func (id BlockID) Valid() bool {
	return id != InvalidBlock
}

func (id BlockID) String() string {
	if !id.Valid() {
		return "INVALID"
	}
	return fmt.Sprintf("%d", int32(id))
}

// RID points to a specific record inside a slotted block.
// It stays valid for as long as the record is not deleted.
type RID struct {
	BlockID BlockID `json:"block_id"`
	SlotNum int32   `json:"slot_num"` // Index in the slot directory
}

func (r RID) String() string {
	return fmt.Sprintf("(%d, %d)", int32(r.BlockID), r.SlotNum)
}
