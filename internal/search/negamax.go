package search

import (
	"sync/atomic"
	"time"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/eval"
	"github.com/OfekShochat/Smallbrain/internal/score"
	"github.com/OfekShochat/Smallbrain/internal/tablebase"
)

// nodeKind is spec.md §9's runtime stand-in for the template-dispatched
// Root/PV/NonPV node parameter: three hot-path branches, picked at each
// call site rather than monomorphised.
type nodeKind int

const (
	nodePV nodeKind = iota
	nodeNonPV
	nodeRoot
)

// drawScore is spec.md §4.E/§4.F's repetition-breaking randomised draw
// score: small enough never to matter positionally, varying only so
// identical positions reached by different move orders don't collapse to
// the exact same TT entry and starve the search of information.
func (w *Worker) drawScore() score.Score {
	return score.Score(-1 + int32(w.nodes&2))
}

// absearch is the negamax/PVS driver of spec.md §4.F.
func (w *Worker) absearch(alpha, beta score.Score, depth, ply int, node nodeKind, cutNode bool) score.Score {
	pvNode := node != nodeNonPV

	if w.limitReached() {
		return 0
	}
	w.pv.reset(ply)

	inCheck := w.board.InCheck()

	// Fifty-move/insufficient-material draws apply at every node, root
	// included — spec.md §8 scenario 5 expects KBvk to return 0 "before any
	// move is tried" even at the root.
	if w.board.IsDrawn(inCheck) == board.DrawStatusDrawn {
		return 0
	}

	if node != nodeRoot {
		// IsRepetition's count includes the current occurrence.
		repCount := 2
		if pvNode {
			repCount = 3
		}
		if w.board.IsRepetition(repCount) {
			return w.drawScore()
		}

		if a := score.MatedIn(ply); alpha < a {
			alpha = a
		}
		if b := score.MateIn(ply + 1); beta > b {
			beta = b
		}
		if alpha >= beta {
			return alpha
		}
	}

	if inCheck {
		depth++
	}
	if depth <= 0 {
		return w.qsearch(alpha, beta, ply)
	}
	if pvNode && ply+1 > w.seldepth {
		w.seldepth = ply + 1
	}

	key := w.board.HashKey()
	entry, ttHit := w.tt.Probe(key)
	ttMove := board.NoMove
	var ttScore score.Score = score.None
	if ttHit {
		ttMove = entry.Move
		ttScore = score.FromTT(entry.Score, ply)
	}

	prevWasNull := w.stack.at(ply - 1).wasNull

	if node == nodeNonPV && ttHit && entry.Depth >= depth && !prevWasNull {
		switch entry.Bound {
		case BoundExact:
			return ttScore
		case BoundLower:
			if ttScore >= beta {
				return ttScore
			}
			if ttScore > alpha {
				alpha = ttScore
			}
		case BoundUpper:
			if ttScore <= alpha {
				return ttScore
			}
			if ttScore < beta {
				beta = ttScore
			}
		}
		if alpha >= beta {
			return ttScore
		}
	}

	maxValue := score.Score(score.Inf - 1)

	if node != nodeRoot && w.normalSearch && w.prober != nil && w.prober.Available() &&
		w.board.TotalPieces() <= w.prober.MaxPieces() {
		res := w.prober.Probe(w.board)
		if res.Found {
			atomic.AddUint64(&w.tbHits, 1)
			tbScore := tablebase.WDLToScore(res.WDL, ply)
			var bound Bound
			switch {
			case res.WDL > tablebase.Draw:
				bound = BoundLower
			case res.WDL < tablebase.Draw:
				bound = BoundUpper
			default:
				bound = BoundExact
			}
			if bound == BoundExact || (bound == BoundLower && tbScore >= beta) || (bound == BoundUpper && tbScore <= alpha) {
				w.tt.Store(key, tablebase.TTStoreDepth(depth), score.ToTT(tbScore, ply), bound, board.NoMove)
				return tbScore
			}
			if pvNode && bound == BoundUpper {
				maxValue = tbScore
			}
		}
	}

	var staticEval score.Score
	improving := false
	if inCheck {
		staticEval = score.None
	} else if ttHit {
		staticEval = ttScore
	} else {
		staticEval = eval.Evaluate(w.board)
	}
	w.stack.at(ply).eval = staticEval
	if !inCheck {
		if prev := w.stack.at(ply - 2).eval; prev != score.None {
			improving = staticEval > prev
		}
	}

	if depth >= 3 && !ttHit {
		depth--
		if pvNode {
			depth--
		}
	}
	if depth <= 0 {
		return w.qsearch(alpha, beta, ply)
	}

	if node == nodeNonPV && !inCheck {
		if depth < 3 && staticEval+129 < alpha {
			return w.qsearch(alpha, beta, ply)
		}

		if absScore(beta) < score.TBWinInMaxPly && depth < 7 {
			margin := score.Score(64*depth) - score.Score(71*boolToInt(improving))
			if staticEval-margin >= beta {
				return beta
			}
		}

		if w.board.NonPawnMaterial(w.board.SideToMove()) > 0 && !prevWasNull &&
			depth >= 3 && staticEval >= beta {
			r := 5 + minInt(4, depth/5) + minInt(3, int(staticEval-beta)/214)
			w.stack.at(ply).currentMove = board.NoMove
			w.stack.at(ply).wasNull = true
			w.board.MakeNullMove()
			nullScore := -w.absearch(-beta, -beta+1, depth-r, ply+1, nodeNonPV, !cutNode)
			w.board.UnmakeNullMove()
			w.stack.at(ply).wasNull = false
			if w.stopped() {
				return 0
			}
			if nullScore >= beta {
				if nullScore > score.TBWinInMaxPly {
					nullScore = beta
				}
				return nullScore
			}
		}
	}

	excludedMove := w.stack.at(ply).excludedMove
	killer1, killer2 := w.killers.at(ply)

	var rootFilter []board.Move
	if node == nodeRoot {
		rootFilter = w.searchMoves
	}
	mp := NewMovePicker(w.board, ttMove, killer1, killer2, &w.history, rootFilter)

	bestValue := score.MatedIn(ply)
	bestMove := board.NoMove
	madeMoves := 0
	quiets := make([]board.Move, 0, 64)

	for {
		m, ok := mp.Next()
		if !ok {
			break
		}
		if excludedMove != board.NoMove && m == excludedMove {
			continue
		}

		capture := w.board.PieceAt(m.To()) != dragon.Nothing

		if node != nodeRoot && bestValue > score.TBLossInMaxPly {
			if capture {
				if depth < 6 && !w.board.SEE(m, score.Score(-92*depth)) {
					continue
				}
			} else {
				promo := m.Promote() != dragon.Nothing
				if depth <= 5 && !inCheck && node == nodeNonPV && !promo && len(quiets) > 4+depth*depth {
					continue
				}
				if depth < 7 && !w.board.SEE(m, score.Score(-93*depth)) {
					continue
				}
			}
		}

		extension := 0
		if node != nodeRoot && depth >= 8 && m == ttMove && excludedMove == board.NoMove &&
			ttHit && absScore(ttScore) < 10000 && entry.Bound == BoundLower && entry.Depth >= depth-3 {
			singularBeta := ttScore - score.Score(3*depth)
			singularDepth := (depth - 1) / 2
			w.stack.at(ply).excludedMove = m
			sScore := w.absearch(singularBeta-1, singularBeta, singularDepth, ply, nodeNonPV, cutNode)
			w.stack.at(ply).excludedMove = board.NoMove
			if sScore < singularBeta {
				extension = 1
			} else if singularBeta >= beta {
				return singularBeta
			}
		}

		newDepth := depth - 1 + extension

		if node == nodeRoot && w.id == 0 && w.onCurrMove != nil && time.Since(w.startTime) > 10*time.Second {
			w.onCurrMove(CurrMove{Depth: depth, Move: m, MoveNumber: madeMoves + 1})
		}

		w.stack.at(ply).currentMove = m
		w.stack.at(ply).wasNull = false
		nodesBefore := w.nodes
		w.board.MakeMove(m)
		madeMoves++
		atomic.AddUint64(&w.nodes, 1)

		var value score.Score
		lmrApplied := false

		if depth >= 3 && !inCheck && madeMoves > 3+2*boolToInt(pvNode) {
			r := lmrReduction(depth, madeMoves)
			r -= w.id % 2
			if improving {
				r++
			}
			if pvNode {
				r--
			}
			rd := maxInt(1, minInt(newDepth-r, newDepth+1))
			value = -w.absearch(-(alpha + 1), -alpha, rd, ply+1, nodeNonPV, true)
			lmrApplied = true
		}

		// A zero-window full-depth re-search runs when LMR found something
		// better than alpha (needs confirming at full depth), or when LMR
		// was skipped entirely and this isn't the PV node's first move.
		if (lmrApplied && value > alpha) || (!lmrApplied && (!pvNode || madeMoves > 1)) {
			value = -w.absearch(-(alpha + 1), -alpha, newDepth, ply+1, nodeNonPV, !cutNode)
		}

		if pvNode && (madeMoves == 1 || (value > alpha && value < beta)) {
			value = -w.absearch(-beta, -alpha, newDepth, ply+1, nodePV, false)
		}

		w.board.UnmakeMove()
		if w.id == 0 {
			w.spentEffort[m.From()][m.To()] += w.nodes - nodesBefore
		}

		if w.stopped() {
			return 0
		}

		if value > bestValue {
			bestValue = value
			if value > alpha {
				bestMove = m
				if pvNode {
					w.pv.update(ply, m)
				}
				alpha = value
				if value >= beta {
					if !capture {
						w.killers.add(ply, m)
						w.history.update(w.board.SideToMove(), m, quiets, depth)
					}
					break
				}
			}
		}
		if !capture && len(quiets) < 64 {
			quiets = append(quiets, m)
		}
	}

	if madeMoves == 0 {
		if excludedMove != board.NoMove {
			return alpha
		}
		if inCheck {
			return score.MatedIn(ply)
		}
		return 0
	}

	if pvNode && bestValue > maxValue {
		bestValue = maxValue
	}

	if excludedMove == board.NoMove && (!w.stopped() || !w.normalSearch) {
		bound := BoundUpper
		if bestValue >= beta {
			bound = BoundLower
		} else if pvNode && bestMove != board.NoMove {
			bound = BoundExact
		}
		w.tt.Store(key, depth, score.ToTT(bestValue, ply), bound, bestMove)
	}

	return bestValue
}
