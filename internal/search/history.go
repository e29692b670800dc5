package search

import (
	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/OfekShochat/Smallbrain/internal/board"
)

// historyMax bounds the magnitude of any butterfly history entry, per
// spec.md §8's "bounded by roughly 16384 + bonus" invariant.
const historyMax = 16384

// butterflyHistory scores quiet moves by (side to move, from, to); the
// teacher's engine has no equivalent (its history.go is a repetition
// counter, not a move-ordering table — see DESIGN.md), so this is new code
// following spec.md §4.B's exact bonus/decay formula, shaped like the
// teacher's other fixed-size per-ply arrays (killermovetable.go).
type butterflyHistory struct {
	table [2][64][64]int32
}

// score returns the current history value for a quiet move by color.
func (h *butterflyHistory) score(color dragon.ColorT, m board.Move) int32 {
	return h.table[color][m.From()][m.To()]
}

// bonusFor returns spec.md §4.B's depth-scaled bonus, capped at 2000.
func bonusFor(depth int) int32 {
	b := int32(depth) * 155
	if b > 2000 {
		b = 2000
	}
	return b
}

// update applies spec.md §4.B's gravity-decaying update to every move in
// quiets, rewarding best (the move that caused the cutoff, always quiet by
// the time this is called) with +bonus and penalising the rest with -bonus.
// The bestmove update is skipped at depth <= 1, matching the spec.
func (h *butterflyHistory) update(color dragon.ColorT, best board.Move, quiets []board.Move, depth int) {
	bonus := bonusFor(depth)

	apply := func(m board.Move, signedBonus int32) {
		entry := &h.table[color][m.From()][m.To()]
		magnitude := signedBonus
		if magnitude < 0 {
			magnitude = -magnitude
		}
		delta := signedBonus - *entry*magnitude/historyMax
		*entry += delta
	}

	if depth > 1 {
		apply(best, bonus)
	}
	for _, m := range quiets {
		if m == best {
			continue
		}
		apply(m, -bonus)
	}
}
