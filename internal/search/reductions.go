// Package search implements the tree-search driver: alpha-beta/PVS over a
// board.Board, quiescence search, transposition table, move ordering
// heuristics, iterative deepening with aspiration windows and time
// management, and a lazy-SMP thread pool sharing only the TT. The recursive
// shape (TT probe/search/store, PV-line propagation through caller-owned
// slices, per-ply heuristic tables) follows the teacher's negalphabeta.go;
// the pruning/reduction/extension formulas themselves are new, following a
// modern PVS design the teacher's ad hoc search never implemented.
package search

import "math"

// maxPlyCap bounds every per-ply table in this package; it is smaller than
// score.MaxPly because no real search reaches that deep, and it keeps the
// tables a fixed, modest size.
const maxPlyCap = 128

// maxRootMoves bounds the move-count axis of the reductions table; no real
// move list at any node exceeds it (chess has at most ~218 legal moves from
// any position).
const maxRootMoves = 220

// reductions is R[depth][moveNumber] from spec.md §3, initialised once at
// package load and read-only thereafter.
var reductions [maxPlyCap][maxRootMoves]int

func init() {
	for depth := 1; depth < maxPlyCap; depth++ {
		for moves := 1; moves < maxRootMoves; moves++ {
			r := 1 + math.Log(float64(depth))*math.Log(float64(moves))/1.75
			reductions[depth][moves] = int(r)
		}
	}
}

// lmrReduction returns R[depth][moveNumber], clamped to the table bounds.
func lmrReduction(depth, moveNumber int) int {
	if depth < 0 {
		depth = 0
	}
	if depth >= maxPlyCap {
		depth = maxPlyCap - 1
	}
	if moveNumber < 0 {
		moveNumber = 0
	}
	if moveNumber >= maxRootMoves {
		moveNumber = maxRootMoves - 1
	}
	return reductions[depth][moveNumber]
}
