package search

import "github.com/OfekShochat/Smallbrain/internal/board"

// killerTable holds two killer-move slots per ply, adapted down from the
// teacher's killermovetable.go (which keeps four); spec.md §4.B fixes the
// slot count at two.
type killerTable struct {
	moves [maxPlyCap][2]board.Move
}

// add records m as a killer at ply, shifting the previous slot-0 occupant
// into slot 1, matching the teacher's addKillerMove shift-insert. Re-adding
// the current slot-0 killer is a no-op, so the two slots never hold the
// same move.
func (k *killerTable) add(ply int, m board.Move) {
	if ply < 0 || ply >= maxPlyCap {
		return
	}
	if k.moves[ply][0] == m {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

// at returns the two killers for ply (board.NoMove if unset).
func (k *killerTable) at(ply int) (board.Move, board.Move) {
	if ply < 0 || ply >= maxPlyCap {
		return board.NoMove, board.NoMove
	}
	return k.moves[ply][0], k.moves[ply][1]
}
