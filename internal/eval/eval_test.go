package eval

import (
	"testing"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/score"
)

func TestStartPosIsBalanced(t *testing.T) {
	b := board.StartPos()
	if got := Evaluate(b); got != 0 {
		t.Errorf("startpos eval = %d, want 0", got)
	}
}

func TestEvaluateNeverReturnsMateScore(t *testing.T) {
	b := board.StartPos()
	got := Evaluate(b)
	if score.IsMate(got) {
		t.Errorf("static eval %d must never fall in the mate-score band", got)
	}
}

func TestMaterialAdvantageIsPositiveForSideUp(t *testing.T) {
	b, err := board.NewFromFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := Evaluate(b); got <= 0 {
		t.Errorf("white up a pawn should evaluate positive for white to move, got %d", got)
	}
}
