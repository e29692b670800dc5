package search

import (
	"testing"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/OfekShochat/Smallbrain/internal/board"
)

func TestMovePickerYieldsTTMoveFirst(t *testing.T) {
	b := board.StartPos()
	legal := b.GenerateLegalMoves()
	ttMove := legal[len(legal)/2]

	var h butterflyHistory
	mp := NewMovePicker(b, ttMove, board.NoMove, board.NoMove, &h, nil)

	got, ok := mp.Next()
	if !ok || got != ttMove {
		t.Fatalf("first move from picker = %v, ok=%v; want ttMove %v", got, ok, ttMove)
	}
}

func TestMovePickerYieldsEveryLegalMoveExactlyOnce(t *testing.T) {
	b := board.StartPos()
	legal := b.GenerateLegalMoves()

	var h butterflyHistory
	mp := NewMovePicker(b, board.NoMove, board.NoMove, board.NoMove, &h, nil)

	seen := make(map[board.Move]int)
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		seen[m]++
	}

	if len(seen) != len(legal) {
		t.Fatalf("picker yielded %d distinct moves, want %d", len(seen), len(legal))
	}
	for _, m := range legal {
		if seen[m] != 1 {
			t.Errorf("move %v yielded %d times, want exactly 1", m, seen[m])
		}
	}
}

func TestMovePickerIgnoresTTMoveNotInPosition(t *testing.T) {
	b := board.StartPos()
	legal := b.GenerateLegalMoves()

	// Construct a bogus TT move by combining from/to squares that cross a
	// legal move's endpoints in a way that isn't itself a legal move here:
	// reuse a different position's move, which this position never generates.
	other, err := board.NewFromFEN("8/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	otherMoves := other.GenerateLegalMoves()
	var bogus board.Move
	for _, m := range otherMoves {
		if !containsMove(legal, m) {
			bogus = m
			break
		}
	}
	if bogus == board.NoMove {
		t.Skip("no usable bogus move found for this position pair")
	}

	var h butterflyHistory
	mp := NewMovePicker(b, bogus, board.NoMove, board.NoMove, &h, nil)

	seen := make(map[board.Move]bool)
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if m == bogus {
			t.Fatalf("picker yielded the stale TT move %v, which is illegal in this position", bogus)
		}
		seen[m] = true
	}
	if len(seen) != len(legal) {
		t.Fatalf("picker yielded %d moves, want %d legal moves", len(seen), len(legal))
	}
}

func TestMovePickerRespectsSearchMoves(t *testing.T) {
	b := board.StartPos()
	legal := b.GenerateLegalMoves()
	restricted := legal[:1]

	var h butterflyHistory
	mp := NewMovePicker(b, board.NoMove, board.NoMove, board.NoMove, &h, restricted)

	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if m != restricted[0] {
			t.Errorf("picker yielded %v outside the searchmoves restriction %v", m, restricted)
		}
	}
}

func TestMovePickerSearchMovesRejectsCachedTTMoveOutsideRestriction(t *testing.T) {
	b := board.StartPos()
	legal := b.GenerateLegalMoves()
	restricted := legal[:1]

	var ttMove board.Move
	for _, m := range legal {
		if m != restricted[0] {
			ttMove = m
			break
		}
	}
	if ttMove == board.NoMove {
		t.Fatal("no legal move found outside the searchmoves restriction")
	}

	var h butterflyHistory
	mp := NewMovePicker(b, ttMove, board.NoMove, board.NoMove, &h, restricted)

	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if m == ttMove {
			t.Fatalf("picker yielded cached TT move %v outside the searchmoves restriction %v", ttMove, restricted)
		}
		if m != restricted[0] {
			t.Errorf("picker yielded %v outside the searchmoves restriction %v", m, restricted)
		}
	}
}

func TestQMovePickerOnlyYieldsCaptures(t *testing.T) {
	b, err := board.NewFromFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	mp := NewQMovePicker(b, board.NoMove)

	count := 0
	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		count++
		if b.PieceAt(m.To()) == dragon.Nothing {
			t.Errorf("quiescence picker yielded non-capture move %v", m)
		}
	}
	if count == 0 {
		t.Error("expected at least the exd5 capture from this position")
	}
}
