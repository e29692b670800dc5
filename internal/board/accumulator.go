package board

import dragon "github.com/dylhunn/dragontoothmg"

// Accumulator is the opaque incremental evaluation state spec.md §6.1
// alludes to ("accumulator (opaque), handed to evaluate"). It tracks a
// material+piece-square score from white's perspective, updated by small
// deltas on MakeMove/UnmakeMove instead of being recomputed from scratch
// every node — the same shape of optimisation a real NNUE accumulator
// provides, just with a linear feature set instead of a network.
//
// Piece values and piece-square tables are adapted from the teacher
// engine's evaluate.go (attributed in DESIGN.md); only the plumbing that
// turns them into an incremental accumulator is new.
type Accumulator struct {
	score      int32
	deltaStack []int32
}

var pieceValue = [dragon.NPiecesWithAll]int32{
	dragon.Nothing: 0,
	dragon.Pawn:    100,
	dragon.Knight:  300,
	dragon.Bishop:  300,
	dragon.Rook:    500,
	dragon.Queen:   900,
	dragon.King:    0,
}

// whitePst[piece][sq] is the piece-square bonus for that piece on sq from
// white's point of view; black's bonus is whitePst[piece][sq^56] (vertical
// mirror), avoiding a second copy of every table.
var whitePst = [dragon.NPiecesWithAll][64]int32{
	dragon.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		78, 83, 86, 73, 102, 82, 85, 90,
		7, 29, 21, 44, 40, 31, 44, 7,
		-17, 16, -2, 15, 14, 0, 15, -13,
		-26, 3, 10, 9, 6, 1, 0, -23,
		-22, 9, 5, -11, -10, -2, 3, -19,
		-31, 8, -7, -37, -36, -14, 3, -31,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	dragon.Knight: {
		-74, -23, -26, -24, -19, -35, -22, -69,
		-23, -15, 2, 0, 2, 0, -23, -20,
		-18, 10, 13, 22, 18, 15, 11, -14,
		-1, 5, 31, 21, 22, 35, 2, 0,
		24, 24, 45, 37, 33, 41, 25, 17,
		10, 67, 1, 74, 73, 27, 62, -2,
		-3, -6, 100, -36, 4, 62, -4, -14,
		-66, -53, -75, -75, -10, -55, -58, -70,
	},
	dragon.Bishop: {
		-7, 2, -15, -12, -14, -15, -10, -10,
		19, 20, 11, 6, 7, 6, 20, 16,
		14, 25, 24, 15, 8, 25, 20, 15,
		13, 10, 17, 23, 17, 16, 0, 7,
		25, 17, 20, 34, 26, 25, 15, 10,
		-9, 39, -32, 41, 52, -10, 28, -14,
		-11, 20, 35, -42, -39, 31, 2, -22,
		-59, -78, -82, -76, -23, -107, -37, -50,
	},
	dragon.Rook: {
		-30, -24, -18, 5, -2, -18, -31, -32,
		-53, -38, -31, -26, -29, -43, -44, -53,
		-42, -28, -42, -25, -25, -35, -26, -46,
		-28, -35, -16, -21, -13, -29, -46, -30,
		0, 5, 16, 13, 18, -4, -9, -6,
		19, 35, 28, 33, 45, 27, 25, 15,
		55, 29, 56, 67, 55, 62, 34, 60,
		35, 29, 33, 4, 37, 33, 56, 50,
	},
	dragon.Queen: {
		-39, -30, -31, -13, -31, -36, -34, -42,
		-36, -18, 0, -19, -15, -15, -21, -38,
		-30, -6, -13, -11, -16, -11, -16, -27,
		-14, -15, -2, -5, -1, -10, -20, -22,
		1, -16, 22, 17, 25, 20, -13, -6,
		-2, 43, 32, 60, 72, 63, 43, 2,
		14, 32, 60, -10, 20, 76, 57, 24,
		6, 1, -8, -104, 69, 24, 88, 26,
	},
	dragon.King: {
		17, 30, -3, -14, 6, -1, 40, 18,
		-4, 3, -14, -50, -57, -18, 13, 4,
		-47, -42, -43, -79, -64, -32, -29, -32,
		-55, -43, -52, -28, -51, -47, -8, -50,
		-55, 50, 11, -4, -19, 13, 0, -49,
		-62, 12, -57, 44, -67, 28, 37, -31,
		-32, 10, 55, 56, 56, 55, 10, 3,
		4, 54, 47, -99, -99, 60, 83, -62,
	},
}

// PieceValue returns the material value used by the accumulator and by the
// search's move ordering (MVV/LVA) and SEE threshold checks, so both share
// one table instead of duplicating piece values across packages.
func PieceValue(piece dragon.Piece) int32 { return pieceValue[piece] }

func pieceSquareValue(color dragon.ColorT, piece dragon.Piece, sq uint8) int32 {
	if color == dragon.Black {
		sq ^= 56
	}
	return whitePst[piece][sq]
}

func pieceScore(color dragon.ColorT, piece dragon.Piece, sq uint8) int32 {
	v := pieceValue[piece] + pieceSquareValue(color, piece, sq)
	if color == dragon.Black {
		return -v
	}
	return v
}

// Init computes the accumulator from scratch for a freshly parsed board.
func (a *Accumulator) Init(raw *dragon.Board) {
	a.score = 0
	a.deltaStack = a.deltaStack[:0]
	for _, color := range [2]dragon.ColorT{dragon.White, dragon.Black} {
		for piece := dragon.Pawn; piece <= dragon.King; piece++ {
			bb := raw.Bbs[color][piece]
			for bb != 0 {
				sq := uint8(lowestSquare(bb))
				bb &= bb - 1
				a.score += pieceScore(color, piece, sq)
			}
		}
	}
}

// Apply must be called BEFORE the move is applied to raw; it inspects the
// pre-move board to compute the score delta, then pushes it so Unapply can
// reverse it in O(1) without touching raw at all.
func (a *Accumulator) Apply(raw *dragon.Board, m Move) {
	from, to := m.From(), m.To()
	mover := raw.PieceAt(from)
	moverColor := dragon.White
	if !raw.Wtomove {
		moverColor = dragon.Black
	}

	delta := -pieceScore(moverColor, mover, from)

	if captured := raw.PieceAt(to); captured != dragon.Nothing {
		capturedColor := dragon.Black
		if moverColor == dragon.Black {
			capturedColor = dragon.White
		}
		delta -= pieceScore(capturedColor, captured, to)
	}

	destPiece := mover
	if promo := m.Promote(); promo != dragon.Nothing {
		destPiece = promo
	}
	delta += pieceScore(moverColor, destPiece, to)

	a.deltaStack = append(a.deltaStack, delta)
	a.score += delta
}

// Unapply reverses the most recent Apply.
func (a *Accumulator) Unapply() {
	n := len(a.deltaStack) - 1
	a.score -= a.deltaStack[n]
	a.deltaStack = a.deltaStack[:n]
}

// Score returns the current material+PST score from white's perspective.
func (a *Accumulator) Score() int32 { return a.score }
