package board

import dragon "github.com/dylhunn/dragontoothmg"

// Shift helpers for single-step pawn attack generation, adapted from the
// teacher's bitboard.go (N/S/E/W); only what SEE and attackersTo need.
const (
	fileA uint64 = 0x0101010101010101
	fileH uint64 = 0x8080808080808080
)

func north(bb uint64) uint64 { return bb << 8 }
func south(bb uint64) uint64 { return bb >> 8 }
func west(bb uint64) uint64  { return (bb & ^fileA) >> 1 }
func east(bb uint64) uint64  { return (bb & ^fileH) << 1 }

func whitePawnAttacksFrom(pawns uint64) uint64 {
	n := north(pawns)
	return west(n) | east(n)
}

func blackPawnAttacksFrom(pawns uint64) uint64 {
	s := south(pawns)
	return west(s) | east(s)
}

// attackersTo returns the bitboard of color's pieces attacking sq given an
// arbitrary occupancy (not necessarily the board's current one — SEE needs
// to recompute this after each simulated capture removes a slider from the
// blocker set). Grounded in the teacher's bitboard.go pawn-attack shifts and
// the library's own sliding/leaper move-bitboard generators.
func attackersTo(raw *dragon.Board, sq uint8, color dragon.ColorT, occupied uint64) uint64 {
	bbs := &raw.Bbs
	var attackers uint64

	sqBB := uint64(1) << sq

	// A pawn of color attacks sq iff sq is one of the squares the opposite
	// color's pawn-attack shift from sq would reach — pawn attacks are
	// symmetric, so this avoids enumerating color's pawns individually.
	if color == dragon.White {
		attackers |= bbs[dragon.White][dragon.Pawn] & blackPawnAttacksFrom(sqBB)
	} else {
		attackers |= bbs[dragon.Black][dragon.Pawn] & whitePawnAttacksFrom(sqBB)
	}

	attackers |= bbs[color][dragon.Knight] & dragon.KnightMovesBitboard(sq)
	attackers |= bbs[color][dragon.King] & dragon.KingMovesBitboard(sq)

	bishopAttacks := dragon.CalculateBishopMoveBitboard(sq, occupied)
	rookAttacks := dragon.CalculateRookMoveBitboard(sq, occupied)

	attackers |= bbs[color][dragon.Bishop] & bishopAttacks
	attackers |= bbs[color][dragon.Rook] & rookAttacks
	attackers |= bbs[color][dragon.Queen] & (bishopAttacks | rookAttacks)

	return attackers
}

var seePieceValue = [dragon.NPiecesWithAll]int32{
	dragon.Nothing: 0,
	dragon.Pawn:    100,
	dragon.Knight:  300,
	dragon.Bishop:  300,
	dragon.Rook:    500,
	dragon.Queen:   900,
	dragon.King:    20000,
}

// leastValuableAttacker picks the lowest-value piece of color attacking sq
// out of the attackers bitboard, returning its square and piece type, or
// (64, Nothing) if none remain.
func leastValuableAttacker(raw *dragon.Board, attackers uint64, color dragon.ColorT) (uint8, dragon.Piece) {
	bbs := &raw.Bbs
	for piece := dragon.Pawn; piece <= dragon.King; piece++ {
		bb := attackers & bbs[color][piece]
		if bb != 0 {
			return lowestSquare(bb), piece
		}
	}
	return 64, dragon.Nothing
}

// SEE performs a static exchange evaluation of the capture sequence starting
// with m on the board's current position (not yet applied), returning true
// if the net material gain for the side to move is >= threshold. It walks
// the classic least-valuable-attacker swap-off: resolve the initial capture,
// then repeatedly let the side to move recapture with its cheapest attacker,
// stopping as soon as a side would rather not continue.
func (b *Board) SEE(m Move, threshold int32) bool {
	raw := &b.raw
	from, to := m.From(), m.To()

	target := raw.PieceAt(to)
	gain := make([]int32, 0, 32)
	gain = append(gain, seePieceValue[target])

	attacker := raw.PieceAt(from)
	occupied := b.occupied()
	occupied &^= uint64(1) << from

	mover := dragon.White
	if !raw.Wtomove {
		mover = dragon.Black
	}
	side := opponent(mover)

	attackers := (attackersTo(raw, to, dragon.White, occupied) | attackersTo(raw, to, dragon.Black, occupied)) & occupied

	depth := 0
	for {
		depth++
		gain = append(gain, seePieceValue[attacker]-gain[depth-1])
		if max32(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		sideAttackers := attackersTo(raw, to, side, occupied) & attackers
		sq, piece := leastValuableAttacker(raw, sideAttackers, side)
		if piece == dragon.Nothing {
			break
		}

		occupied &^= uint64(1) << sq
		attacker = piece
		side = opponent(side)

		// Removing a slider can expose a new slider attack through it;
		// pieces that have already captured are no longer on the board.
		attackers = (attackersTo(raw, to, dragon.White, occupied) | attackersTo(raw, to, dragon.Black, occupied)) & occupied
	}

	for depth > 1 {
		depth--
		gain[depth-1] = -max32(-gain[depth-1], gain[depth])
	}

	return gain[0] >= threshold
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func opponent(color dragon.ColorT) dragon.ColorT {
	if color == dragon.White {
		return dragon.Black
	}
	return dragon.White
}
