// Package tablebase adapts the Prober shape from the retrieved
// hailam/chessplay tablebase package to this engine's Board and Score
// types: a WDL/DTZ probing interface, a NoopProber default, and the
// WDL -> mate-distance Score mapping spec.md §6.3 and §3 require.
package tablebase

import (
	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/score"
)

// WDL is a tablebase win/draw/loss result from the probing side's
// perspective, including the 50-move-rule-sensitive cursed/blessed bands.
type WDL int

const (
	Loss        WDL = -2
	BlessedLoss WDL = -1 // loss, but the fifty-move rule may save it
	Draw        WDL = 0
	CursedWin   WDL = 1 // win, but the fifty-move rule may spoil it
	Win         WDL = 2
)

// ProbeResult is the outcome of probing a single position.
type ProbeResult struct {
	Found bool
	WDL   WDL
	DTZ   int // distance to the next zeroing move (capture or pawn push)
}

// RootResult is the outcome of probing every legal root move to find the
// tablebase-preferred one.
type RootResult struct {
	Found bool
	Move  board.Move
	WDL   WDL
	DTZ   int
}

// Prober mirrors spec.md §6.3's probe_wdl/probe_root contract.
type Prober interface {
	// Probe looks up pos's WDL/DTZ if it's within the tablebase's piece
	// count and the position is reachable (no castling rights, etc).
	Probe(pos *board.Board) ProbeResult

	// ProbeRoot evaluates every legal root move through the tablebase. The
	// search package does not call it; only Probe feeds the search.
	ProbeRoot(pos *board.Board) RootResult

	// MaxPieces is spec.md's TB_LARGEST: the largest total piece count the
	// loaded tablebase set supports probing for.
	MaxPieces() int

	// Available reports whether any tablebase files are currently loaded.
	Available() bool
}

// WDLToScore converts a WDL result at a given ply into a Score landing in
// the TB-win/TB-loss bands of the score package, monotonic in
// Win > CursedWin > Draw > BlessedLoss > Loss for any fixed ply.
func WDLToScore(wdl WDL, ply int) score.Score {
	const cursedMargin = 100

	switch wdl {
	case Win:
		return score.TBWin - score.Score(ply)
	case CursedWin:
		return score.TBWin - cursedMargin - score.Score(ply)
	case Draw:
		return 0
	case BlessedLoss:
		return -score.TBWin + cursedMargin + score.Score(ply)
	case Loss:
		return -score.TBWin + score.Score(ply)
	default:
		return 0
	}
}

// NoopProber always reports unavailable; it is the zero-value default so an
// engine with no tablebase files configured still has a working Prober.
type NoopProber struct{}

func (NoopProber) Probe(*board.Board) ProbeResult     { return ProbeResult{Found: false} }
func (NoopProber) ProbeRoot(*board.Board) RootResult  { return RootResult{Found: false} }
func (NoopProber) MaxPieces() int                     { return 0 }
func (NoopProber) Available() bool                    { return false }

var _ Prober = NoopProber{}
