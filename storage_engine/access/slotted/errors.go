package slotted

import "errors"

var (
	// ErrOutOfSpace is returned when a record plus any slot entry it needs
	// does not fit in the free region. The block is left untouched; callers
	// usually retry against another block.
	ErrOutOfSpace = errors.New("slotted: not enough free space in block")

	// ErrInvalidRID is returned for a block id mismatch, an out-of-range slot
	// number, or a slot that holds no record.
	ErrInvalidRID = errors.New("slotted: invalid record id")

	// ErrUninitializedBlock is returned when the header does not describe a
	// valid slotted block, typically because Init was never called.
	ErrUninitializedBlock = errors.New("slotted: block not initialized")

	ErrEmptyRecord = errors.New("slotted: record must not be empty")

	ErrBlockTooSmall = errors.New("slotted: buffer smaller than header plus one slot")
)
