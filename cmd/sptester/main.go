// sptester exercises a single slotted block in memory and prints a transcript.
// Run from repo root: go run ./cmd/sptester
package main

import (
	"BlockDB/storage_engine/access/slotted"
	"BlockDB/storage_engine/block"
	"BlockDB/types"
	"errors"
	"fmt"
	"io"
	"os"
)

type testCase struct {
	name string
	run  func(w io.Writer) error
}

var tests = []testCase{
	{"Block Initialization Checks", testInit},
	{"Insert and traversal of records", testInsertTraversal},
}

func main() {
	fmt.Println("Running block tests.")
	if failed := runAll(os.Stdout); failed > 0 {
		fmt.Fprintf(os.Stderr, "%d test(s) failed\n", failed)
		os.Exit(1)
	}
}

// runAll runs every test and returns how many failed.
func runAll(w io.Writer) int {
	failed := 0
	for i, tc := range tests {
		fmt.Fprintf(w, "--- Test %d: %s ---\n", i+1, tc.name)
		if err := tc.run(w); err != nil {
			fmt.Fprintf(w, "FAILED: %v\n", err)
			failed++
		}
	}
	return failed
}

func newBlock() (*slotted.SlottedBlock, error) {
	sb, err := slotted.New(block.New(types.InvalidBlock, types.BlockSize))
	if err != nil {
		return nil, err
	}
	sb.Init()
	sb.SetBlockID(7)
	sb.SetNextBlockID(8)
	sb.SetPrevBlockID(types.InvalidBlock)
	return sb, nil
}

func testInit(w io.Writer) error {
	sb, err := newBlock()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Current Block No.: %d, Next Block Id: %d, Prev Block Id: %d, Available Space: %d\n",
		int32(sb.BlockID()), int32(sb.NextBlockID()), int32(sb.PrevBlockID()), sb.AvailableSpace())

	if !sb.Empty() {
		return errors.New("block should be empty")
	}
	fmt.Fprintln(w, "Block Empty as expected.")
	sb.DumpBlockTo(w)
	return nil
}

func testInsertTraversal(w io.Writer) error {
	const buffSize, limit = 20, 20

	sb, err := newBlock()
	if err != nil {
		return err
	}

	tmpBuf := make([]byte, buffSize)
	for i := 0; i < limit; i++ {
		tmpBuf[0] = byte(i)
		rid, err := sb.InsertRecord(tmpBuf)
		if err != nil {
			return fmt.Errorf("insert %d: %w", i, err)
		}
		fmt.Fprintf(w, "Inserted record, RID %d, %d\n", rid.BlockID, rid.SlotNum)

		// the newest record is always the last one in slot order
		next, ok, err := sb.NextRecord(rid)
		if err != nil {
			return fmt.Errorf("next after insert %d: %w", i, err)
		}
		if ok {
			return fmt.Errorf("record %s follows newly inserted %s", next, rid)
		}
	}

	if sb.Empty() {
		return errors.New("the block cannot be empty")
	}

	seen := 0
	rid, ok, err := sb.FirstRecord()
	for ; ok; rid, ok, err = sb.NextRecord(rid) {
		data, err := sb.GetRecord(rid)
		if err != nil {
			return err
		}
		if data[0] != byte(rid.SlotNum) {
			return fmt.Errorf("record %s holds %d", rid, data[0])
		}
		fmt.Fprintf(w, "Retrieved record, RID %d, %d\n", rid.BlockID, rid.SlotNum)
		seen++
	}
	if err != nil {
		return err
	}
	if seen != limit {
		return fmt.Errorf("traversal returned %d records, want %d", seen, limit)
	}
	return nil
}
