package search

import (
	"testing"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/OfekShochat/Smallbrain/internal/board"
)

func TestHistoryUpdateRewardsBestMove(t *testing.T) {
	best, other := twoDistinctMoves(t)
	var h butterflyHistory

	h.update(dragon.White, best, []board.Move{other}, 4)

	if got := h.score(dragon.White, best); got <= 0 {
		t.Errorf("bestmove history score = %d, want > 0", got)
	}
	if got := h.score(dragon.White, other); got >= 0 {
		t.Errorf("tried-but-not-best history score = %d, want < 0", got)
	}
}

func TestHistoryUpdateSkipsBestBonusAtDepthOne(t *testing.T) {
	best, other := twoDistinctMoves(t)
	var h butterflyHistory

	h.update(dragon.White, best, []board.Move{other}, 1)

	if got := h.score(dragon.White, best); got != 0 {
		t.Errorf("depth-1 update should skip the bestmove bonus, got %d", got)
	}
}

func TestHistoryMagnitudeStaysBounded(t *testing.T) {
	best, other := twoDistinctMoves(t)
	var h butterflyHistory

	for i := 0; i < 10000; i++ {
		h.update(dragon.White, best, []board.Move{other}, 30)
	}

	const bound = historyMax + 2000
	if got := h.score(dragon.White, best); got > bound || got < -bound {
		t.Errorf("history score %d exceeded bound %d after repeated updates", got, bound)
	}
}

func TestHistoryIsPerColor(t *testing.T) {
	best, _ := twoDistinctMoves(t)
	var h butterflyHistory

	h.update(dragon.White, best, nil, 4)

	if got := h.score(dragon.Black, best); got != 0 {
		t.Errorf("black's history entry should be untouched by a white update, got %d", got)
	}
}
