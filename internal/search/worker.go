package search

import (
	"sync/atomic"
	"time"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/tablebase"
)

// Info is one completed-depth report, matching spec.md §6.4's info line
// fields; the UCI front end formats it, this package only produces it.
type Info struct {
	Depth    int
	SelDepth int
	Score    int32 // centipawns, or a mate-in-N move count pre-converted by makeInfo
	IsMate   bool
	TBHits   uint64
	Nodes    uint64
	NPS      uint64
	Hashfull int
	Time     time.Duration
	PV       []board.Move
}

// CurrMove is the optional root "searching move N" report spec.md §6.4
// allows after 10s of root search.
type CurrMove struct {
	Depth       int
	Move        board.Move
	MoveNumber  int
}

// Worker is one lazy-SMP search thread: its own board clone and SearchState
// (spec.md §3), sharing only the TT and the stop flag with its siblings.
// Worker 0 is authoritative for time control and UCI output, per spec.md
// §4.H; workers 1..N-1 run the identical iterative-deepening loop purely to
// seed the shared TT with extra knowledge (lazy SMP).
type Worker struct {
	id     int
	board  *board.Board
	tt     *TT
	prober tablebase.Prober
	stop   *atomic.Bool

	limits       Limits
	normalSearch bool
	searchMoves  []board.Move

	nodes    uint64
	tbHits   uint64
	seldepth int

	stack   *searchStack
	pv      pvTable
	killers killerTable
	history butterflyHistory

	spentEffort [64][64]uint64

	checkTime int
	startTime time.Time

	bestMoveChanges int

	onInfo     func(Info)
	onCurrMove func(CurrMove)

	// poolNodes/poolTBHits report the whole pool's aggregate counters, wired
	// in by Pool.Start for worker 0: spec.md requires nodes/tbhits reported
	// to UCI to sum across every worker, not just the reporting one.
	poolNodes  func() uint64
	poolTBHits func() uint64

	result Result
}

func newWorker(id int, b *board.Board, tt *TT, prober tablebase.Prober, stop *atomic.Bool, limits Limits) *Worker {
	return &Worker{
		id:           id,
		board:        b,
		tt:           tt,
		prober:       prober,
		stop:         stop,
		limits:       limits,
		normalSearch: true,
		searchMoves:  limits.SearchMoves,
		stack:        newSearchStack(),
		checkTime:    2047,
	}
}

// stopped reports the shared stop flag without any timing work, safe to
// call from every worker on every node.
func (w *Worker) stopped() bool { return w.stop.Load() }

// limitReached is spec.md §5's cooperative cancellation check: every worker
// observes the shared stop flag, but only worker 0 checks the node budget
// (on every call) and samples the wall clock (once every ~2048 calls).
func (w *Worker) limitReached() bool {
	if w.stop.Load() {
		return true
	}
	if w.id != 0 {
		return false
	}
	if w.limits.Nodes > 0 && w.nodes >= w.limits.Nodes {
		w.stop.Store(true)
		return true
	}
	if w.limits.Infinite {
		return false
	}
	w.checkTime--
	if w.checkTime > 0 {
		return false
	}
	w.checkTime = 2047

	if w.limits.Maximum > 0 && time.Since(w.startTime) >= w.limits.Maximum {
		w.stop.Store(true)
		return true
	}
	return false
}
