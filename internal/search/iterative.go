package search

import (
	"time"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/score"
)

// DefaultMaxDepth is used when Limits.Depth is zero.
const DefaultMaxDepth = maxPlyCap - 4

// aspirationSearch is spec.md §4.G's windowed root search: a narrow bracket
// around the previous iteration's score from depth 9 on, widening
// geometrically on either side until an exact-window result lands.
func (w *Worker) aspirationSearch(depth int, prevScore score.Score) score.Score {
	alpha := -score.Inf
	beta := score.Inf
	delta := score.Score(30)

	if depth >= 9 {
		alpha = prevScore - 30
		beta = prevScore + 30
		if alpha < -3500 {
			alpha = -score.Inf
		}
		if beta > 3500 {
			beta = score.Inf
		}
	}

	for {
		value := w.absearch(alpha, beta, depth, 0, nodeRoot, false)
		if w.stopped() {
			return value
		}
		switch {
		case value <= alpha:
			beta = (alpha + beta) / 2
			alpha -= delta
			if alpha < -score.Inf+1 {
				alpha = -score.Inf + 1
			}
			delta += delta / 2
		case value >= beta:
			beta += delta
			if beta > score.Inf-1 {
				beta = score.Inf - 1
			}
			delta += delta / 2
		default:
			return value
		}
	}
}

// Result is what a single worker's iterative_deepening loop produces for
// the pool to aggregate.
type Result struct {
	BestMove board.Move
	Score    score.Score
	Depth    int
	PV       []board.Move
}

// run is spec.md §4.G's root driver: iterative deepening over aspiration
// windows, with worker-0-only time management (§4.G) layered on top.
func (w *Worker) run() Result {
	w.startTime = time.Now()

	maxDepth := w.limits.Depth
	if maxDepth <= 0 || maxDepth > DefaultMaxDepth {
		maxDepth = DefaultMaxDepth
	}

	optimum := w.limits.Optimum
	maximum := w.limits.Maximum

	var prevScore score.Score
	var lastBest board.Move
	var evalSum int64

	var result Result

	for depth := 1; depth <= maxDepth; depth++ {
		value := w.aspirationSearch(depth, prevScore)
		if w.stopped() && depth > 1 {
			break
		}
		prevScore = value
		evalSum += int64(value)

		pv := w.pv.line()
		if len(pv) > 0 {
			result = Result{BestMove: pv[0], Score: value, Depth: depth, PV: pv}
			if pv[0] != lastBest {
				if lastBest != board.NoMove {
					w.bestMoveChanges++
				}
				lastBest = pv[0]
			}
		}

		if w.onInfo != nil {
			w.onInfo(w.makeInfo(depth, value))
		}

		if w.id == 0 && !w.limits.Infinite && optimum > 0 {
			if w.timeToStop(depth, value, evalSum, &optimum, maximum, result.BestMove) {
				break
			}
		}

		if w.stopped() {
			break
		}

		if score.IsMate(value) {
			// A mate score does not end the loop early: deepening carries on
			// until the depth, node or time limit, or a stop.
		}
	}

	if w.limits.Infinite {
		for !w.stopped() {
			time.Sleep(time.Millisecond)
		}
	}

	w.stop.Store(true)
	return result
}

// timeToStop applies spec.md §4.G's main-thread time heuristics after a
// completed depth, mutating optimum in place as the spec's pseudocode does.
func (w *Worker) timeToStop(depth int, result score.Score, evalSum int64, optimum *time.Duration, maximum time.Duration, best board.Move) bool {
	now := time.Since(w.startTime)

	effort := 0
	if w.nodes > 0 {
		effort = int(w.spentEffort[best.From()][best.To()] * 100 / w.nodes)
	}
	if effort > 90 {
		effort = 90
	}

	if depth > 10 && now > (*optimum*time.Duration(110-effort))/100 {
		return true
	}

	if int64(result)+30 < evalSum/int64(depth) {
		*optimum = time.Duration(float64(*optimum) * 1.10)
	}

	if w.bestMoveChanges > 4 {
		*optimum = time.Duration(float64(maximum) * 0.75)
	} else if depth > 10 && now*10 > (*optimum)*6 {
		return true
	}

	return false
}

// makeInfo packages a completed depth into spec.md §6.4's info line fields.
func (w *Worker) makeInfo(depth int, value score.Score) Info {
	elapsed := time.Since(w.startTime)

	nodes := w.nodes
	if w.poolNodes != nil {
		nodes = w.poolNodes()
	}
	tbHits := w.tbHits
	if w.poolTBHits != nil {
		tbHits = w.poolTBHits()
	}

	nps := uint64(0)
	if elapsed > 0 {
		nps = uint64(float64(nodes) / elapsed.Seconds())
	}

	isMate := score.IsMate(value)
	reported := int32(value)
	if isMate {
		if value > 0 {
			reported = int32((score.Mate - value + 1) / 2)
		} else {
			reported = int32((-score.Mate - value) / 2)
		}
	}

	return Info{
		Depth:    depth,
		SelDepth: w.seldepth,
		Score:    reported,
		IsMate:   isMate,
		TBHits:   tbHits,
		Nodes:    nodes,
		NPS:      nps,
		Hashfull: w.tt.Hashfull(),
		Time:     elapsed,
		PV:       w.pv.line(),
	}
}
