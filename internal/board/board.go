// Package board adapts github.com/dylhunn/dragontoothmg's board
// representation and move generator to the query surface the search engine
// needs: repetition counting, draw detection, non-pawn material, square
// attacks and an incremental evaluation accumulator handle. Move generation,
// make/unmake and attack tables themselves are dragontoothmg's job, not
// ours.
package board

import (
	"fmt"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Move is dragontoothmg's move encoding, re-exported so callers don't need
// to import dragontoothmg directly.
type Move = dragon.Move

// NoMove is the zero value of Move, used as a sentinel "no move" everywhere
// in the search (TT move absent, killer slot empty, ...).
const NoMove Move = 0

// DrawStatus mirrors spec.md's is_drawn() result type.
type DrawStatus int

const (
	DrawStatusNone DrawStatus = iota
	DrawStatusDrawn
	DrawStatusLost
)

// undoEntry records what MakeMove needs to reverse, plus the bookkeeping
// (half-move clock, repetition count) that dragontoothmg itself doesn't
// track for us.
type undoEntry struct {
	unapply       func()
	halfMoveClock int
	zobrist       uint64
	wasNull       bool
}

// Board wraps a dragontoothmg.Board with search-facing queries.
type Board struct {
	raw dragon.Board

	halfMoveClock int
	repetitions   map[uint64]int
	undo          []undoEntry

	acc Accumulator
}

// NewFromFEN parses a FEN string into a Board ready for search.
func NewFromFEN(fen string) (*Board, error) {
	raw, err := dragon.ParseFen(fen)
	if err != nil {
		return nil, fmt.Errorf("board: parse fen %q: %w", fen, err)
	}
	b := &Board{
		raw:         raw,
		repetitions: make(map[uint64]int, 64),
	}
	b.repetitions[b.raw.Hash()] = 1
	b.acc.Init(&b.raw)
	return b, nil
}

// StartPos returns a Board at the standard chess starting position.
func StartPos() *Board {
	b, err := NewFromFEN(dragon.Startpos)
	if err != nil {
		// The library's own startpos constant must always parse.
		panic(err)
	}
	return b
}

// Clone returns an independent copy, used to give each search worker its
// own board while sharing nothing else.
func (b *Board) Clone() *Board {
	clone := &Board{
		raw:           b.raw,
		halfMoveClock: b.halfMoveClock,
		repetitions:   make(map[uint64]int, len(b.repetitions)),
		acc:           b.acc,
	}
	for k, v := range b.repetitions {
		clone.repetitions[k] = v
	}
	clone.acc.deltaStack = append([]int32(nil), b.acc.deltaStack...)
	return clone
}

// HashKey returns the current Zobrist hash.
func (b *Board) HashKey() uint64 { return b.raw.Hash() }

// SideToMove returns the color on move.
func (b *Board) SideToMove() dragon.ColorT {
	if b.raw.Wtomove {
		return dragon.White
	}
	return dragon.Black
}

// HalfMoveClock returns the number of half-moves since the last capture or
// pawn push, used for the fifty-move rule and evaluation scaling.
func (b *Board) HalfMoveClock() int { return b.halfMoveClock }

// Accumulator exposes the opaque incremental evaluation state for the
// current position; only the evaluation adapter inspects its contents.
func (b *Board) Accumulator() *Accumulator { return &b.acc }

// Raw exposes the underlying dragontoothmg board for callers that need the
// full move-generation surface (move picker, SEE). It must never be
// mutated outside MakeMove/UnmakeMove/MakeNullMove/UnmakeNullMove.
func (b *Board) Raw() *dragon.Board { return &b.raw }

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool { return b.raw.OurKingInCheck() }

// GenerateLegalMoves returns every legal move for the side to move.
func (b *Board) GenerateLegalMoves() []Move {
	return b.raw.GenerateLegalMoves()
}

// GenerateCaptures returns captures, promotions and (if in check) evasions —
// the move set quiescence search operates over.
func (b *Board) GenerateCaptures() ([]Move, bool) {
	return b.raw.GenerateLegalMoves2(true)
}

// isCaptureOrPawnMove reports whether applying move resets the fifty-move
// counter.
func (b *Board) isCaptureOrPawnMove(m Move) bool {
	from, to := m.From(), m.To()
	if b.PieceAt(to) != dragon.Nothing {
		return true
	}
	moved := b.PieceAt(from)
	return moved == dragon.Pawn
}

// MakeMove applies m, pushing undo state for the matching UnmakeMove.
func (b *Board) MakeMove(m Move) {
	resets := b.isCaptureOrPawnMove(m)
	prevClock := b.halfMoveClock

	b.acc.Apply(&b.raw, m)
	unapply := b.raw.Apply(m)

	if resets {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}

	key := b.raw.Hash()
	b.repetitions[key]++

	b.undo = append(b.undo, undoEntry{
		unapply:       unapply,
		halfMoveClock: prevClock,
		zobrist:       key,
	})
}

// UnmakeMove reverses the most recent MakeMove.
func (b *Board) UnmakeMove() {
	n := len(b.undo) - 1
	u := b.undo[n]
	b.undo = b.undo[:n]

	if b.repetitions[u.zobrist] <= 1 {
		delete(b.repetitions, u.zobrist)
	} else {
		b.repetitions[u.zobrist]--
	}

	u.unapply()
	if !u.wasNull {
		b.acc.Unapply()
	}
	b.halfMoveClock = u.halfMoveClock
}

// MakeNullMove flips the side to move without moving a piece, used by the
// null-move pruning heuristic.
func (b *Board) MakeNullMove() {
	prevClock := b.halfMoveClock
	unapply := b.raw.ApplyNullMove()
	b.halfMoveClock++
	key := b.raw.Hash()
	b.repetitions[key]++
	b.undo = append(b.undo, undoEntry{unapply: unapply, halfMoveClock: prevClock, zobrist: key, wasNull: true})
}

// UnmakeNullMove reverses the most recent MakeNullMove.
func (b *Board) UnmakeNullMove() {
	b.UnmakeMove()
}

// IsRepetition reports whether the current position has occurred at least
// `count` times in the game/search history (including the current
// occurrence), per spec.md's board.is_repetition(count) contract.
func (b *Board) IsRepetition(count int) bool {
	return b.repetitions[b.raw.Hash()] >= count
}

// IsDrawn reports fifty-move-rule and insufficient-material draws. Mate and
// stalemate are not draw conditions detected here — those fall out of the
// search finding no legal moves.
func (b *Board) IsDrawn(inCheck bool) DrawStatus {
	if b.halfMoveClock >= 100 {
		return DrawStatusDrawn
	}
	if b.hasInsufficientMaterial() {
		return DrawStatusDrawn
	}
	return DrawStatusNone
}

// hasInsufficientMaterial covers KvK, KvK+minor and same-colour-bishop
// KBvKB — the draws no amount of search can ever turn into a mate.
func (b *Board) hasInsufficientMaterial() bool {
	bbs := &b.raw.Bbs
	if bbs[dragon.White][dragon.Pawn] != 0 || bbs[dragon.Black][dragon.Pawn] != 0 {
		return false
	}
	if bbs[dragon.White][dragon.Rook] != 0 || bbs[dragon.Black][dragon.Rook] != 0 {
		return false
	}
	if bbs[dragon.White][dragon.Queen] != 0 || bbs[dragon.Black][dragon.Queen] != 0 {
		return false
	}

	whiteMinors := popcount(bbs[dragon.White][dragon.Knight]) + popcount(bbs[dragon.White][dragon.Bishop])
	blackMinors := popcount(bbs[dragon.Black][dragon.Knight]) + popcount(bbs[dragon.Black][dragon.Bishop])

	switch {
	case whiteMinors == 0 && blackMinors == 0:
		return true // KvK
	case whiteMinors == 1 && blackMinors == 0 && bbs[dragon.White][dragon.Knight] == 0:
		return true // KBvK
	case blackMinors == 1 && whiteMinors == 0 && bbs[dragon.Black][dragon.Knight] == 0:
		return true // KvKB
	case whiteMinors == 1 && blackMinors == 0:
		return true // KNvK
	case blackMinors == 1 && whiteMinors == 0:
		return true // KvKN
	case whiteMinors == 1 && blackMinors == 1 &&
		bbs[dragon.White][dragon.Knight] == 0 && bbs[dragon.Black][dragon.Knight] == 0:
		return squareColor(lowestSquare(bbs[dragon.White][dragon.Bishop])) ==
			squareColor(lowestSquare(bbs[dragon.Black][dragon.Bishop]))
	default:
		return false
	}
}

// NonPawnMaterial returns the count of non-pawn, non-king pieces for color,
// used by the null-move-heuristic zugzwang guard.
func (b *Board) NonPawnMaterial(color dragon.ColorT) int {
	bbs := &b.raw.Bbs
	return popcount(bbs[color][dragon.Knight]) + popcount(bbs[color][dragon.Bishop]) +
		popcount(bbs[color][dragon.Rook]) + popcount(bbs[color][dragon.Queen])
}

// TotalPieces returns the number of pieces on the board (both colors,
// including kings and pawns), used to gate tablebase probes against
// Prober.MaxPieces().
func (b *Board) TotalPieces() int {
	return popcount(b.occupied())
}

// PieceAt returns the piece occupying sq, or dragon.Nothing.
func (b *Board) PieceAt(sq uint8) dragon.Piece {
	return b.raw.PieceAt(sq)
}

// KingSq returns the square of color's king.
func (b *Board) KingSq(color dragon.ColorT) uint8 {
	return lowestSquare(b.raw.Bbs[color][dragon.King])
}

// IsSquareAttacked reports whether sq is attacked by any piece of color.
func (b *Board) IsSquareAttacked(color dragon.ColorT, sq uint8) bool {
	return attackersTo(&b.raw, sq, color, b.occupied()) != 0
}

func (b *Board) occupied() uint64 {
	return b.raw.Bbs[dragon.White][dragon.All] | b.raw.Bbs[dragon.Black][dragon.All]
}

func popcount(bb uint64) int {
	n := 0
	for bb != 0 {
		n++
		bb &= bb - 1
	}
	return n
}

func lowestSquare(bb uint64) uint8 {
	if bb == 0 {
		return 64
	}
	n := 0
	for bb&1 == 0 {
		bb >>= 1
		n++
	}
	return uint8(n)
}

// squareColor returns 0 for a dark square, 1 for a light square — used to
// tell same-colour from opposite-colour bishops.
func squareColor(sq uint8) int {
	return int((sq/8 + sq%8) % 2)
}
