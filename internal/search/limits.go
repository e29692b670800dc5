package search

import (
	"time"

	"github.com/OfekShochat/Smallbrain/internal/board"
)

// Limits is spec.md §6.5's SearchLimits: what the UCI front end hands the
// pool for a single `go` command.
type Limits struct {
	// Depth caps the deepening loop; zero means "use the package default".
	Depth int

	// Nodes stops the search once worker 0's node count reaches it; zero
	// means unlimited.
	Nodes uint64

	// Optimum and Maximum are the soft/hard time budgets; zero means
	// untimed (only Depth/Nodes/Infinite bound the search).
	Optimum time.Duration
	Maximum time.Duration

	// Infinite busy-waits on Stop without its own time/node ceiling,
	// per spec.md §4.G.
	Infinite bool

	// SearchMoves restricts the root to this allowlist when non-empty.
	SearchMoves []board.Move
}
