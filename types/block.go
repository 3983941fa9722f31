package types

/*
Binary layout of a slotted block (all fields int32, little-endian):

	Offset  Size  Field
	──────────────────────────────────────────────────────
	0       4     BlockID           — INVALID_BLOCK (-1) when unset
	4       4     NextBlockID       — INVALID_BLOCK marks list end
	8       4     PrevBlockID       — INVALID_BLOCK marks list end
	12      4     NumSlots          — directory entries, live + empty
	16      4     FreeSpacePointer  — first byte of record data
	──────────────────────────────────────────────────────
	20            BlockHeaderSize

	[ header ][ slot dir → ][ free space ][ ← records ]
	0         20            ^             ^            BlockSize
	                        dirEnd        FreeSpacePointer

Slot i lives at BlockHeaderSize + i*SlotSize: [ Offset int32 ][ Length int32 ].
An Offset of EmptySlot marks a deleted slot.
*/
const (
	BlockSize       = 1024 // default block size in bytes
	BlockHeaderSize = 20
	SlotSize        = 8

	// MinBlockSize fits a header and a single slot entry.
	MinBlockSize = BlockHeaderSize + SlotSize

	// ChecksumSize is the trailer appended to every block frame on disk.
	ChecksumSize = 8
)

const (
	InvalidBlock BlockID = -1
	EmptySlot    int32   = -1
)
