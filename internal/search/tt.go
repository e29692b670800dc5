package search

import (
	"sync/atomic"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/score"
)

// Bound records which side of the window a stored score is valid on.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundLower
	BoundUpper
	BoundExact
)

// Entry is probe()'s result view; Score is still TT-relative (the caller
// must pass it through score.FromTT before using it).
type Entry struct {
	Move  board.Move
	Score score.Score
	Depth int
	Bound Bound
}

// ttSlot is one cluster slot, lock-free per spec.md §5/§9: the payload word
// is stored plain, and a second word holds key XOR payload. A torn read
// across the two atomics recomputes to a key that (overwhelmingly likely)
// doesn't match the probe key, so it is simply treated as a miss — no
// per-slot mutex is needed.
type ttSlot struct {
	data       atomic.Uint64
	keyXorData atomic.Uint64
}

// ageBits is the width of the replacement-policy generation counter; it
// only needs to distinguish "this search" from "an earlier one", so it
// wraps modulo 64 rather than growing unbounded.
const ageBits = 6
const ageMask = 1<<ageBits - 1

func packEntry(move board.Move, s score.Score, depth int, bound Bound, age uint8) uint64 {
	d := depth
	if d < 0 {
		d = 0
	}
	if d > 255 {
		d = 255
	}
	return uint64(uint16(move)) |
		uint64(uint16(s))<<16 |
		uint64(uint8(d))<<32 |
		uint64(bound&0x3)<<40 |
		uint64(age&ageMask)<<42
}

func unpackEntry(data uint64) (move board.Move, s score.Score, depth int, bound Bound, age uint8) {
	move = board.Move(uint16(data))
	s = score.Score(int16(uint16(data >> 16)))
	depth = int(uint8(data >> 32))
	bound = Bound((data >> 40) & 0x3)
	age = uint8((data >> 42) & ageMask)
	return
}

// TT is the shared transposition table: a flat, power-of-two-sized array of
// lock-free slots, probed and stored without any per-slot mutex per
// spec.md §5's concurrency model. Grounded on the depth-preferred,
// age-tiebreaking replacement policy of TheKrainBow-gomoku's tt.go, with
// that file's striped sync.RWMutex dropped in favour of the XOR encoding
// above (the mutex design does not satisfy spec.md's lock-free requirement).
type TT struct {
	slots      []ttSlot
	mask       uint64
	generation atomic.Uint32
}

// NewTT allocates a table sized to approximately sizeMB megabytes, rounding
// the slot count down to a power of two so indexing is a mask-and, not a
// modulo.
func NewTT(sizeMB int) *TT {
	const slotBytes = 16
	numSlots := sizeMB * 1024 * 1024 / slotBytes
	if numSlots < 1 {
		numSlots = 1
	}
	n := 1
	for n*2 <= numSlots {
		n *= 2
	}
	return &TT{slots: make([]ttSlot, n), mask: uint64(n - 1)}
}

func (tt *TT) index(key uint64) uint64 { return key & tt.mask }

// NewSearch bumps the generation counter, called once per search by
// Pool.Start so stores from a finished search are preferentially replaced over stores
// from the one in progress.
func (tt *TT) NewSearch() { tt.generation.Add(1) }

func (tt *TT) age() uint8 { return uint8(tt.generation.Load() & ageMask) }

// Clear zeroes every slot, used by the `ucinewgame` handler.
func (tt *TT) Clear() {
	for i := range tt.slots {
		tt.slots[i].data.Store(0)
		tt.slots[i].keyXorData.Store(0)
	}
}

// Probe looks up key. A miss is reported either because the slot was never
// written or because the XOR-decoded key didn't match (including a torn
// concurrent read, which this treats identically to a clean miss per
// spec.md §7).
func (tt *TT) Probe(key uint64) (Entry, bool) {
	slot := &tt.slots[tt.index(key)]
	data := slot.data.Load()
	kx := slot.keyXorData.Load()
	if kx^data != key {
		return Entry{}, false
	}
	move, s, depth, bound, _ := unpackEntry(data)
	return Entry{Move: move, Score: s, Depth: depth, Bound: bound}, true
}

// Store writes an entry for key, applying spec.md §4.C's replacement
// policy: always replace a stale (prior-generation) entry, otherwise only
// replace when the existing entry isn't meaningfully deeper than the new
// one.
func (tt *TT) Store(key uint64, depth int, s score.Score, bound Bound, move board.Move) {
	const depthMargin = 3

	slot := &tt.slots[tt.index(key)]

	// The policy applies to whatever the slot holds, whether it belongs to
	// this key or to a colliding one; an empty slot unpacks to depth 0.
	_, _, oldDepth, _, oldAge := unpackEntry(slot.data.Load())
	if oldAge == tt.age() && oldDepth > depth+depthMargin {
		return
	}

	newData := packEntry(move, s, depth, bound, tt.age())
	slot.data.Store(newData)
	slot.keyXorData.Store(key ^ newData)
}

// Hashfull samples the first 1000 slots and reports occupancy per mille
// against the current search generation, per spec.md §4.C.
func (tt *TT) Hashfull() int {
	n := len(tt.slots)
	sample := 1000
	if sample > n {
		sample = n
	}
	used := 0
	gen := tt.age()
	for i := 0; i < sample; i++ {
		data := tt.slots[i].data.Load()
		kx := tt.slots[i].keyXorData.Load()
		if kx == 0 && data == 0 {
			continue
		}
		_, _, _, _, age := unpackEntry(data)
		if age == gen {
			used++
		}
	}
	if n == 0 {
		return 0
	}
	return used * 1000 / sample
}
