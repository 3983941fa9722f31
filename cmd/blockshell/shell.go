package main

import (
	"BlockDB/storage_engine/access/slotted"
	"BlockDB/storage_engine/block"
	"BlockDB/storage_engine/bufferpool"
	diskmanager "BlockDB/storage_engine/disk_manager"
	"BlockDB/types"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var errQuit = errors.New("quit")

// shell holds the state of one interactive session: the open store and the
// block currently checked out of the pool.
type shell struct {
	disk *diskmanager.DiskManager
	pool *bufferpool.BufferPool
	cur  *slotted.SlottedBlock
	out  io.Writer
}

func newShell(disk *diskmanager.DiskManager, pool *bufferpool.BufferPool, out io.Writer) *shell {
	return &shell{disk: disk, pool: pool, out: out}
}

func (s *shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// exec runs one command line. errQuit ends the session.
func (s *shell) exec(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd := strings.ToUpper(parts[0])
	args := parts[1:]

	if strings.HasPrefix(cmd, ".") {
		switch strings.ToLower(cmd) {
		case ".help":
			s.printf("%s", helpText)
		case ".exit":
			return errQuit
		case ".stats":
			s.stats()
		case ".flush":
			if err := s.pool.FlushAll(); err != nil {
				return err
			}
			s.printf("flushed\n")
		default:
			return fmt.Errorf("unknown command %s", parts[0])
		}
		return nil
	}

	switch cmd {
	case "NEW":
		return s.newBlock()
	case "OPEN":
		id, err := parseInt(args, 0, "block id")
		if err != nil {
			return err
		}
		return s.open(types.BlockID(id))
	case "CLOSE":
		return s.release()
	}

	if s.cur == nil {
		return errors.New("no block open, use NEW or OPEN first")
	}

	switch cmd {
	case "INSERT":
		if len(args) == 0 {
			return errors.New("usage: INSERT text")
		}
		rid, err := s.cur.InsertRecord([]byte(strings.Join(args, " ")))
		if err != nil {
			return err
		}
		s.printf("inserted %s\n", rid)
	case "GET":
		rid, err := s.rid(args)
		if err != nil {
			return err
		}
		data, err := s.cur.GetRecord(rid)
		if err != nil {
			return err
		}
		s.printf("%s %q\n", rid, data)
	case "UPDATE":
		rid, err := s.rid(args)
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return errors.New("usage: UPDATE slot text")
		}
		if err := s.cur.UpdateRecord(rid, []byte(strings.Join(args[1:], " "))); err != nil {
			return err
		}
		s.printf("updated %s\n", rid)
	case "DELETE":
		rid, err := s.rid(args)
		if err != nil {
			return err
		}
		if err := s.cur.DeleteRecord(rid); err != nil {
			return err
		}
		s.printf("deleted %s\n", rid)
	case "SCAN":
		count := 0
		err := s.cur.ForEach(func(rid types.RID, data []byte) error {
			s.printf("%s %q\n", rid, data)
			count++
			return nil
		})
		if err != nil {
			return err
		}
		s.printf("%d record(s)\n", count)
	case "LINK":
		next, err := parseInt(args, 0, "next block id")
		if err != nil {
			return err
		}
		prev, err := parseInt(args, 1, "prev block id")
		if err != nil {
			return err
		}
		s.cur.SetNextBlockID(types.BlockID(next))
		s.cur.SetPrevBlockID(types.BlockID(prev))
		s.printf("linked next=%s prev=%s\n", s.cur.NextBlockID(), s.cur.PrevBlockID())
	case "SPACE":
		s.printf("available %s (%d bytes), %d slot(s), %d live\n",
			humanize.IBytes(uint64(s.cur.AvailableSpace())), s.cur.AvailableSpace(),
			s.cur.NumSlots(), s.cur.LiveRecords())
	case "DUMP":
		s.cur.DumpBlockTo(s.out)
	default:
		return fmt.Errorf("unknown command %s", parts[0])
	}
	return nil
}

func (s *shell) newBlock() error {
	if err := s.release(); err != nil {
		return err
	}
	blk, err := s.pool.NewBlock()
	if err != nil {
		return err
	}
	sb, err := s.adopt(blk)
	if err != nil {
		return err
	}
	sb.Init()
	sb.SetBlockID(blk.ID)
	s.cur = sb
	s.printf("block %s created\n", blk.ID)
	return nil
}

func (s *shell) open(id types.BlockID) error {
	if err := s.release(); err != nil {
		return err
	}
	blk, err := s.pool.FetchBlock(id)
	if err != nil {
		return err
	}
	sb, err := s.adopt(blk)
	if err != nil {
		return err
	}
	s.cur = sb
	s.printf("block %s opened, %d record(s)\n", id, sb.LiveRecords())
	return nil
}

// adopt wraps a freshly pinned block. On failure the pin is given back.
func (s *shell) adopt(blk *block.Block) (*slotted.SlottedBlock, error) {
	sb, err := slotted.New(blk)
	if err != nil {
		if uerr := s.pool.UnpinBlock(blk.ID, false); uerr != nil {
			return nil, errors.Join(err, uerr)
		}
		return nil, err
	}
	return sb, nil
}

// release unpins the current block. Dirty state is tracked on the block itself.
func (s *shell) release() error {
	if s.cur == nil {
		return nil
	}
	blk := s.cur.Block()
	s.cur = nil
	return s.pool.UnpinBlock(blk.ID, blk.IsDirty)
}

func (s *shell) rid(args []string) (types.RID, error) {
	slot, err := parseInt(args, 0, "slot")
	if err != nil {
		return types.RID{}, err
	}
	return types.RID{BlockID: s.cur.BlockID(), SlotNum: int32(slot)}, nil
}

func (s *shell) stats() {
	st := s.pool.Stats()
	s.printf("blocks on disk: %d (%s)\n", s.disk.NumBlocks(),
		humanize.IBytes(uint64(s.disk.NumBlocks())*uint64(s.disk.BlockSize())))
	s.printf("pinned: %d dirty: %d capacity: %d\n", st.PinnedBlocks, st.DirtyBlocks, st.Capacity)
	s.printf("hits: %d misses: %d hit rate: %.1f%%\n", st.Hits, st.Misses, st.HitRate*100)
}

func parseInt(args []string, i int, what string) (int32, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s", what)
	}
	v, err := strconv.ParseInt(args[i], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, args[i], err)
	}
	return int32(v), nil
}
