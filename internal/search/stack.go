package search

import (
	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/score"
)

// stackFrame is one ply's worth of recursion-local state, per spec.md §3's
// "Stack frame" and §9's redesign guidance to replace `ss[-1]`/`ss[-2]`
// pointer arithmetic with an owned, offset-indexed slice.
type stackFrame struct {
	ply          int
	currentMove  board.Move
	eval         score.Score
	excludedMove board.Move
	wasNull      bool
}

// frameOffset is how far stack[] is shifted so that ss[-2] and ss[-1]
// (readable sentinels for the "improving" check and null-move guard) are
// addressable without negative indices.
const frameOffset = 2

// searchStack is the per-ply frame array, indexed ply+frameOffset, sized so
// every legal ply plus the -2/-1 sentinels fit.
type searchStack struct {
	frames [maxPlyCap + frameOffset + 2]stackFrame
}

func newSearchStack() *searchStack {
	s := &searchStack{}
	for i := range s.frames {
		s.frames[i] = stackFrame{eval: score.None, currentMove: board.NoMove, excludedMove: board.NoMove}
	}
	return s
}

func (s *searchStack) at(ply int) *stackFrame {
	return &s.frames[ply+frameOffset]
}

// pvTable is the triangular principal-variation table of spec.md §4.B: row
// ply holds the continuation from ply onward, each row a fixed-capacity
// slice sized for the deepest possible line.
type pvTable struct {
	lines  [maxPlyCap][maxPlyCap]board.Move
	length [maxPlyCap]int
}

// update records move as the best move at ply and appends the child's
// continuation, per spec.md's "write pv[ply][ply]=move, copy
// pv[ply+1][ply+1..]" rule.
func (t *pvTable) update(ply int, move board.Move) {
	if ply < 0 || ply >= maxPlyCap {
		return
	}
	t.lines[ply][ply] = move
	childLen := 0
	if ply+1 < maxPlyCap {
		childLen = t.length[ply+1]
	}
	for i := 0; i < childLen && ply+1+i < maxPlyCap; i++ {
		t.lines[ply][ply+1+i] = t.lines[ply+1][ply+1+i]
	}
	t.length[ply] = 1 + childLen
}

func (t *pvTable) reset(ply int) {
	if ply >= 0 && ply < maxPlyCap {
		t.length[ply] = 0
	}
}

// line returns the principal variation from ply 0.
func (t *pvTable) line() []board.Move {
	n := t.length[0]
	out := make([]board.Move, n)
	copy(out, t.lines[0][:n])
	return out
}
