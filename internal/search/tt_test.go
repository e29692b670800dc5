package search

import (
	"testing"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/score"
)

func TestTTStoreThenProbeRoundTrips(t *testing.T) {
	tt := NewTT(1)
	m, _ := twoDistinctMoves(t)

	tt.Store(0xabc, 6, 123, BoundExact, m)

	entry, ok := tt.Probe(0xabc)
	if !ok {
		t.Fatal("probe missed an entry that was just stored")
	}
	if entry.Move != m || entry.Score != 123 || entry.Depth != 6 || entry.Bound != BoundExact {
		t.Errorf("probe returned %+v, want move=%v score=123 depth=6 bound=Exact", entry, m)
	}
}

func TestTTProbeMissesOnEmptyTable(t *testing.T) {
	tt := NewTT(1)
	if _, ok := tt.Probe(0xdeadbeef); ok {
		t.Error("probe on an empty table should miss")
	}
}

func TestTTScoreRoundTripLaw(t *testing.T) {
	// spec.md §8: scoreToTT(scoreFromTT(x, ply), ply) == x for every score x
	// that a store at ply writes, i.e. x = ToTT(s, ply).
	for _, ply := range []int{0, 1, 5, 40, 100} {
		for _, s := range []score.Score{0, 500, -500, score.MateInMaxPly, score.MatedInMaxPly, score.Mate - 1, -score.Mate + 1} {
			x := score.ToTT(s, ply)
			got := score.ToTT(score.FromTT(x, ply), ply)
			if got != x {
				t.Errorf("ToTT(FromTT(%d, %d), %d) = %d, want %d", x, ply, ply, got, x)
			}
		}
	}
}

func TestTTDeeperEntryIsNotOverwrittenBySameGenerationShallowerStore(t *testing.T) {
	tt := NewTT(1)
	m, _ := twoDistinctMoves(t)

	tt.Store(0x1, 20, 100, BoundExact, m)
	tt.Store(0x1, 1, 200, BoundExact, m)

	entry, ok := tt.Probe(0x1)
	if !ok {
		t.Fatal("probe missed a stored entry")
	}
	if entry.Depth != 20 {
		t.Errorf("a much shallower same-generation store should not replace a deep entry, got depth %d", entry.Depth)
	}
}

func TestTTNewSearchAllowsReplacingStaleDeepEntry(t *testing.T) {
	tt := NewTT(1)
	m, _ := twoDistinctMoves(t)

	tt.Store(0x1, 20, 100, BoundExact, m)
	tt.NewSearch()
	tt.Store(0x1, 1, 200, BoundExact, m)

	entry, ok := tt.Probe(0x1)
	if !ok {
		t.Fatal("probe missed a stored entry")
	}
	if entry.Depth != 1 {
		t.Errorf("a new generation's store should replace a stale entry regardless of depth, got depth %d", entry.Depth)
	}
}

func TestTTClearRemovesEntries(t *testing.T) {
	tt := NewTT(1)
	m, _ := twoDistinctMoves(t)
	tt.Store(0x1, 5, 10, BoundExact, m)

	tt.Clear()

	if _, ok := tt.Probe(0x1); ok {
		t.Error("probe found an entry after Clear")
	}
}

func TestHashfullStartsAtZero(t *testing.T) {
	tt := NewTT(1)
	if got := tt.Hashfull(); got != 0 {
		t.Errorf("Hashfull on an empty table = %d, want 0", got)
	}
}
