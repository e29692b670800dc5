package tablebase

import (
	"testing"

	"github.com/OfekShochat/Smallbrain/internal/score"
)

func TestWDLToScoreMonotonic(t *testing.T) {
	const ply = 4
	scores := []score.Score{
		WDLToScore(Win, ply),
		WDLToScore(CursedWin, ply),
		WDLToScore(Draw, ply),
		WDLToScore(BlessedLoss, ply),
		WDLToScore(Loss, ply),
	}
	for i := 1; i < len(scores); i++ {
		if scores[i-1] <= scores[i] {
			t.Errorf("WDLToScore not monotonic at index %d: %d <= %d", i, scores[i-1], scores[i])
		}
	}
}

func TestNoopProberIsUnavailable(t *testing.T) {
	var p Prober = NoopProber{}
	if p.Available() {
		t.Error("NoopProber must report unavailable")
	}
	if p.MaxPieces() != 0 {
		t.Error("NoopProber must report zero max pieces")
	}
}

func TestFileProberWithoutDirBehavesLikeNoop(t *testing.T) {
	fp := NewFileProber("")
	if fp.Available() {
		t.Error("FileProber with no directory must report unavailable")
	}
}
