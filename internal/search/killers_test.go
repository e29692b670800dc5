package search

import (
	"testing"

	"github.com/OfekShochat/Smallbrain/internal/board"
)

func twoDistinctMoves(t *testing.T) (board.Move, board.Move) {
	t.Helper()
	b := board.StartPos()
	moves := b.GenerateLegalMoves()
	if len(moves) < 2 {
		t.Fatal("startpos should have at least two legal moves")
	}
	return moves[0], moves[1]
}

func TestKillerAddThenAtReturnsInsertedMove(t *testing.T) {
	m1, _ := twoDistinctMoves(t)
	var kt killerTable
	kt.add(3, m1)

	got1, got2 := kt.at(3)
	if got1 != m1 {
		t.Errorf("killer slot 0 at ply 3 = %v, want %v", got1, m1)
	}
	if got2 != board.NoMove {
		t.Errorf("killer slot 1 at ply 3 = %v, want NoMove", got2)
	}
}

func TestKillerSlotsAreDistinctAfterTwoUpdates(t *testing.T) {
	m1, m2 := twoDistinctMoves(t)
	var kt killerTable
	kt.add(5, m1)
	kt.add(5, m2)

	got1, got2 := kt.at(5)
	if got1 == got2 {
		t.Errorf("killer slots at ply 5 must be distinct after two distinct updates, both = %v", got1)
	}
	if got1 != m2 {
		t.Errorf("most recently added killer should occupy slot 0, got %v want %v", got1, m2)
	}
	if got2 != m1 {
		t.Errorf("previous killer should have shifted into slot 1, got %v want %v", got2, m1)
	}
}

func TestKillerReAddDoesNotDuplicate(t *testing.T) {
	m1, _ := twoDistinctMoves(t)
	var kt killerTable
	kt.add(0, m1)
	kt.add(0, m1)

	got1, got2 := kt.at(0)
	if got1 != m1 || got2 != board.NoMove {
		t.Errorf("re-adding the same killer should not duplicate it, got (%v, %v)", got1, got2)
	}
}

func TestKillersAtDifferentPliesAreIndependent(t *testing.T) {
	m1, m2 := twoDistinctMoves(t)
	var kt killerTable
	kt.add(1, m1)
	kt.add(2, m2)

	got1, _ := kt.at(1)
	got2, _ := kt.at(2)
	if got1 != m1 {
		t.Errorf("ply 1 killer = %v, want %v", got1, m1)
	}
	if got2 != m2 {
		t.Errorf("ply 2 killer = %v, want %v", got2, m2)
	}
}
