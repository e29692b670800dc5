package search

import (
	"testing"
	"time"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/score"
	"github.com/OfekShochat/Smallbrain/internal/tablebase"
)

func runSearch(t *testing.T, b *board.Board, limits Limits, threads int) Result {
	t.Helper()
	pool := NewPool(NewTT(16), tablebase.NoopProber{})
	pool.Start(b, limits, threads)
	return pool.Wait()
}

func runSearchFEN(t *testing.T, fen string, limits Limits, threads int) Result {
	t.Helper()
	b, err := board.NewFromFEN(fen)
	if err != nil {
		t.Fatalf("parse fen %q: %v", fen, err)
	}
	return runSearch(t, b, limits, threads)
}

func TestSearchStartPosDepth1(t *testing.T) {
	result := runSearch(t, board.StartPos(), Limits{Depth: 1}, 1)
	if result.BestMove == board.NoMove {
		t.Fatal("no bestmove produced at depth 1 from the startpos")
	}
	if score.IsMate(result.Score) {
		t.Errorf("startpos depth 1 should not report a mate score, got %d", result.Score)
	}
}

func TestSearchMateInOne(t *testing.T) {
	result := runSearchFEN(t, "4k3/8/4K3/8/8/8/8/4R3 w - - 0 1", Limits{Depth: 3}, 1)
	if !score.IsMate(result.Score) || result.Score <= 0 {
		t.Fatalf("score = %d, want a positive mate score", result.Score)
	}
	if got := score.Mate - result.Score; got != 1 {
		t.Errorf("mate distance = %d, want mate in 1", got)
	}
	if len(result.PV) < 1 {
		t.Error("pv_length[0] must be >= 1 after completing depth 1")
	}
}

func TestSearchMateInTwo(t *testing.T) {
	result := runSearchFEN(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", Limits{Depth: 5}, 1)
	if !score.IsMate(result.Score) || result.Score <= 0 {
		t.Fatalf("score = %d, want a positive mate score", result.Score)
	}
	if got := score.Mate - result.Score; got != 3 {
		// "Mate in 2" is two of white's moves (3 half-moves of distance):
		// score.Mate - result.Score counts half-moves to mate.
		t.Errorf("mate distance = %d, want 3 (UCI \"mate 2\")", got)
	}
	if len(result.PV) < 3 {
		t.Errorf("pv length = %d, want >= 3", len(result.PV))
	}
}

func TestSearchStalemateReturnsZero(t *testing.T) {
	result := runSearchFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Limits{Depth: 1}, 1)
	if result.Score != 0 {
		t.Errorf("stalemate score = %d, want 0", result.Score)
	}
}

func TestSearchKBvKIsADrawBeforeAnyMove(t *testing.T) {
	result := runSearchFEN(t, "8/2k1B3/8/8/8/8/2K5/8 w - - 0 1", Limits{Depth: 4}, 1)
	if result.Score != 0 {
		t.Errorf("KBvk score = %d, want 0 (insufficient material)", result.Score)
	}
}

func TestSearchStartPosMultiThreadTimeLimited(t *testing.T) {
	result := runSearch(t, board.StartPos(), Limits{Maximum: 200 * time.Millisecond, Optimum: 150 * time.Millisecond}, 4)
	if result.BestMove == board.NoMove {
		t.Fatal("4-thread timed search produced no bestmove")
	}
}

func TestSearchScoresStayWithinInfBand(t *testing.T) {
	fens := []string{
		"4k3/8/4K3/8/8/8/8/4R3 w - - 0 1",
		"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	}
	for _, fen := range fens {
		result := runSearchFEN(t, fen, Limits{Depth: 2}, 1)
		if result.Score <= -score.Inf || result.Score >= score.Inf {
			t.Errorf("fen %q: score %d out of (-INF, INF)", fen, result.Score)
		}
	}
	if result := runSearch(t, board.StartPos(), Limits{Depth: 2}, 1); result.Score <= -score.Inf || result.Score >= score.Inf {
		t.Errorf("startpos: score %d out of (-INF, INF)", result.Score)
	}
}

func TestSearchIsDeterministicSingleThread(t *testing.T) {
	first := runSearch(t, board.StartPos(), Limits{Depth: 4}, 1)
	second := runSearch(t, board.StartPos(), Limits{Depth: 4}, 1)
	if first.BestMove != second.BestMove {
		t.Errorf("single-threaded search is not deterministic: %v vs %v", first.BestMove, second.BestMove)
	}
}
