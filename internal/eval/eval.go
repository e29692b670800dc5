// Package eval adapts internal/board's incremental accumulator into the
// scalar evaluate(board) -> Score the search consults at every leaf,
// applying the fifty-move-rule scaling and mate-band clamping spec.md
// requires of a static evaluation. The accumulator itself (material+PST
// bookkeeping) lives in internal/board since only make/unmake can compute
// its deltas cheaply; this package never looks past Accumulator.Score().
package eval

import (
	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/score"
)

// Evaluate returns a centipawn score from the side-to-move's perspective,
// grounded on the teacher's StaticEval/NegaStaticEval shape in evaluate.go:
// a white-perspective material+PST sum, negated for black to move, scaled
// down as the half-move clock approaches the fifty-move mark.
func Evaluate(b *board.Board) score.Score {
	raw := score.Score(b.Accumulator().Score())

	if b.SideToMove() == dragon.Black {
		raw = -raw
	}

	raw = scaleForHalfMoveClock(raw, b.HalfMoveClock())

	return score.Clamp(raw)
}

// scaleForHalfMoveClock shrinks the evaluation towards zero as the fifty
// move counter climbs, per spec.md §6.2's `1 - half_move_clock/1000` factor.
func scaleForHalfMoveClock(s score.Score, halfMoveClock int) score.Score {
	return s * score.Score(1000-halfMoveClock) / 1000
}
