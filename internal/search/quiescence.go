package search

import (
	"sync/atomic"

	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/OfekShochat/Smallbrain/internal/board"
	"github.com/OfekShochat/Smallbrain/internal/eval"
	"github.com/OfekShochat/Smallbrain/internal/score"
)

// qsearch is spec.md §4.E's capture-only tactical extension, called once
// absearch reaches depth <= 0. alpha < beta on entry.
func (w *Worker) qsearch(alpha, beta score.Score, ply int) score.Score {
	if w.limitReached() {
		return 0
	}
	if ply >= maxPlyCap-1 {
		return eval.Evaluate(w.board)
	}

	inCheck := w.board.InCheck()
	pvNode := beta-alpha > 1

	// IsRepetition's count includes the current occurrence.
	repCount := 2
	if pvNode {
		repCount = 3
	}
	if w.board.IsRepetition(repCount) {
		return score.Score(-1 + int32(w.nodes&2))
	}
	if w.board.IsDrawn(inCheck) == board.DrawStatusDrawn {
		return 0
	}

	key := w.board.HashKey()
	var ttMove board.Move
	if entry, ok := w.tt.Probe(key); ok {
		ttMove = entry.Move
		ttScore := score.FromTT(entry.Score, ply)
		if !pvNode {
			switch entry.Bound {
			case BoundExact:
				return ttScore
			case BoundLower:
				if ttScore >= beta {
					return ttScore
				}
			case BoundUpper:
				if ttScore <= alpha {
					return ttScore
				}
			}
		}
	}

	bestValue := eval.Evaluate(w.board)
	if bestValue >= beta {
		return bestValue
	}
	if alpha < bestValue {
		alpha = bestValue
	}

	nonPawn := w.board.NonPawnMaterial(w.board.SideToMove())

	mp := NewQMovePicker(w.board, ttMove)
	var bestMove board.Move

	for {
		m, ok := mp.Next()
		if !ok {
			break
		}

		if !inCheck {
			captured := w.board.PieceAt(m.To())
			if m.Promote() == dragon.Nothing && nonPawn > 0 &&
				score.Score(int32(bestValue)+400+board.PieceValue(captured)) < alpha {
				continue
			}
			if !w.board.SEE(m, 0) {
				continue
			}
		}

		w.board.MakeMove(m)
		atomic.AddUint64(&w.nodes, 1)
		value := -w.qsearch(-beta, -alpha, ply+1)
		w.board.UnmakeMove()

		if w.stopped() {
			return 0
		}

		if value > bestValue {
			bestValue = value
			bestMove = m
			if value > alpha {
				alpha = value
				if value >= beta {
					break
				}
			}
		}
	}

	bound := BoundUpper
	if bestValue >= beta {
		bound = BoundLower
	}
	w.tt.Store(key, 0, score.ToTT(bestValue, ply), bound, bestMove)

	return bestValue
}
