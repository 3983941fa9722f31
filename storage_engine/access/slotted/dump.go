package slotted

import (
	"BlockDB/types"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// DumpBlock prints the header and slot directory to stdout.
func (sb *SlottedBlock) DumpBlock() {
	sb.DumpBlockTo(os.Stdout)
}

// DumpBlockTo writes a human-readable dump of the header and directory to w.
func (sb *SlottedBlock) DumpBlockTo(w io.Writer) {
	p := func(format string, args ...interface{}) { fmt.Fprintf(w, format, args...) }

	p("Block %s (next=%s prev=%s) capacity=%s\n",
		sb.BlockID(), sb.NextBlockID(), sb.PrevBlockID(),
		humanize.IBytes(uint64(sb.blk.Capacity())))
	if err := sb.checkInit(); err != nil {
		p("  header invalid: %v\n", err)
		return
	}
	p("  numSlots=%d freeSpacePointer=%d available=%s live=%d\n",
		sb.NumSlots(), sb.FreeSpacePointer(),
		humanize.IBytes(uint64(sb.AvailableSpace())), sb.LiveRecords())

	for i := 0; i < sb.NumSlots(); i++ {
		offset, length := sb.readSlot(i)
		if offset == types.EmptySlot {
			p("  slot %-4d empty\n", i)
			continue
		}
		p("  slot %-4d offset=%-5d length=%d\n", i, offset, length)
	}
}
