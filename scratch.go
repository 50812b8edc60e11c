package alohactr

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/cpu"
)

// paddedSlot is a worker's staging area for one block: the counter being
// encrypted and the keystream it produces, alone on its cache line(s).
type paddedSlot struct {
	_   cpu.CacheLinePad
	ctr [BlockSize]byte
	out [BlockSize]byte
	_   cpu.CacheLinePad
}

// scratchTable is the engine-owned, fixed-capacity store behind the
// UnpaddedArray and PaddedArray strategies. Entry i belongs to worker i for
// the duration of one call; the engine holds mu across any call that uses
// the table, so two calls never hand out the same entry.
type scratchTable struct {
	mu sync.Mutex

	// Packed 16-byte entries: four workers per 64-byte line in each array.
	ctrs [][BlockSize]byte
	outs [][BlockSize]byte

	padded []paddedSlot
}

func newScratchTable(capacity int) *scratchTable {
	return &scratchTable{
		ctrs:   make([][BlockSize]byte, capacity),
		outs:   make([][BlockSize]byte, capacity),
		padded: make([]paddedSlot, capacity),
	}
}

func (t *scratchTable) capacity() int {
	return len(t.ctrs)
}

// slot returns worker id's counter and block buffers under the given layout.
func (t *scratchTable) slot(strategy Strategy, id int) (ctr, out []byte, err error) {
	if id < 0 || id >= t.capacity() {
		return nil, nil, errors.Wrapf(ErrScratchExhausted, "worker %d, capacity %d", id, t.capacity())
	}
	switch strategy {
	case UnpaddedArray:
		return t.ctrs[id][:], t.outs[id][:], nil
	case PaddedArray:
		return t.padded[id].ctr[:], t.padded[id].out[:], nil
	}
	return nil, nil, errors.Wrapf(ErrUnknownStrategy, "%v has no table layout", strategy)
}
