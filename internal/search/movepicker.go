package search

import (
	dragon "github.com/dylhunn/dragontoothmg"

	"github.com/OfekShochat/Smallbrain/internal/board"
)

// pickerStage is the explicit move-picker state machine of spec.md §4.D and
// §9 ("model as an explicit state machine... not a lazy coroutine").
type pickerStage int

const (
	stageTT pickerStage = iota
	stageGenerate
	stageCapturesGood
	stageKiller1
	stageKiller2
	stageQuiets
	stageCapturesBad
	stageQCaptures // quiescence-only: captures, no killer/quiet stages
	stageDone
)

type scoredMove struct {
	move  board.Move
	score int32
}

// MovePicker is a lazy, staged move orderer shared by the main search and
// quiescence search, switched between the two stage sequences spec.md §4.D
// names via the qsearch flag.
type MovePicker struct {
	b       *board.Board
	qsearch bool
	side    dragon.ColorT

	ttMove              board.Move
	killer1, killer2    board.Move
	history             *butterflyHistory
	searchMoves         []board.Move // root-only restriction; nil elsewhere

	stage pickerStage
	legal []board.Move // every legal move here, for ttMove/killer validation

	goodCaptures []scoredMove
	badCaptures  []scoredMove
	quiets       []scoredMove
	cursor       int
}

func containsMove(ms []board.Move, m board.Move) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}

// NewMovePicker constructs a picker for the main alpha-beta search. Legal
// moves are generated once up front (the board only exposes one movegen
// call), but ordering/classification is still deferred to stageGenerate so
// a beta cutoff on the TT move alone never pays for it.
func NewMovePicker(b *board.Board, ttMove, killer1, killer2 board.Move, history *butterflyHistory, searchMoves []board.Move) *MovePicker {
	return &MovePicker{
		b:           b,
		side:        b.SideToMove(),
		ttMove:      ttMove,
		killer1:     killer1,
		killer2:     killer2,
		history:     history,
		searchMoves: searchMoves,
		stage:       stageTT,
		legal:       b.GenerateLegalMoves(),
	}
}

// NewQMovePicker constructs a picker for quiescence search: captures
// (and evasions, via Board.GenerateCaptures) only.
func NewQMovePicker(b *board.Board, ttMove board.Move) *MovePicker {
	captures, _ := b.GenerateCaptures()
	return &MovePicker{
		b:       b,
		side:    b.SideToMove(),
		ttMove:  ttMove,
		qsearch: true,
		stage:   stageTT,
		legal:   captures,
	}
}

func (mp *MovePicker) allowed(m board.Move) bool {
	if mp.searchMoves == nil {
		return true
	}
	for _, a := range mp.searchMoves {
		if a == m {
			return true
		}
	}
	return false
}

func isCaptureOrPromotion(b *board.Board, m board.Move) bool {
	return b.PieceAt(m.To()) != dragon.Nothing || m.Promote() != dragon.Nothing
}

func mvvLvaScore(b *board.Board, m board.Move) int32 {
	victim := b.PieceAt(m.To())
	attacker := b.PieceAt(m.From())
	score := board.PieceValue(victim)*16 - board.PieceValue(attacker)
	if promo := m.Promote(); promo != dragon.Nothing {
		score += board.PieceValue(promo)
	}
	return score
}

// generate classifies and orders mp.legal into the staged buffers, on first
// use past stageTT.
func (mp *MovePicker) generate() {
	if mp.qsearch {
		for _, m := range mp.legal {
			if m == mp.ttMove {
				continue
			}
			mp.goodCaptures = append(mp.goodCaptures, scoredMove{m, mvvLvaScore(mp.b, m)})
		}
		sortDescending(mp.goodCaptures)
		return
	}

	for _, m := range mp.legal {
		if m == mp.ttMove || !mp.allowed(m) {
			continue
		}
		if isCaptureOrPromotion(mp.b, m) {
			sc := mvvLvaScore(mp.b, m)
			if mp.b.SEE(m, 0) {
				mp.goodCaptures = append(mp.goodCaptures, scoredMove{m, sc})
			} else {
				mp.badCaptures = append(mp.badCaptures, scoredMove{m, sc})
			}
			continue
		}
		mp.quiets = append(mp.quiets, scoredMove{m, mp.history.score(mp.side, m)})
	}
	sortDescending(mp.goodCaptures)
	sortDescending(mp.badCaptures)
	sortDescending(mp.quiets)
}

// sortDescending is an insertion sort; move lists are small enough (legal
// chess positions have at most a few dozen captures) that this beats the
// overhead of sort.Slice's interface dispatch.
func sortDescending(ms []scoredMove) {
	for i := 1; i < len(ms); i++ {
		v := ms[i]
		j := i - 1
		for j >= 0 && ms[j].score < v.score {
			ms[j+1] = ms[j]
			j--
		}
		ms[j+1] = v
	}
}

func nextFrom(ms []scoredMove, cursor *int) (board.Move, bool) {
	if *cursor >= len(ms) {
		return board.NoMove, false
	}
	m := ms[*cursor].move
	*cursor++
	return m, true
}

// Next returns the next move in staged order, or (NoMove, false) when
// exhausted.
func (mp *MovePicker) Next() (board.Move, bool) {
	for {
		switch mp.stage {
		case stageTT:
			mp.stage = stageGenerate
			if mp.ttMove != board.NoMove && mp.allowed(mp.ttMove) && containsMove(mp.legal, mp.ttMove) {
				return mp.ttMove, true
			}
		case stageGenerate:
			mp.generate()
			mp.cursor = 0
			if mp.qsearch {
				mp.stage = stageQCaptures
			} else {
				mp.stage = stageCapturesGood
			}
		case stageQCaptures:
			if m, ok := nextFrom(mp.goodCaptures, &mp.cursor); ok {
				return m, true
			}
			mp.stage = stageDone
		case stageCapturesGood:
			if m, ok := nextFrom(mp.goodCaptures, &mp.cursor); ok {
				return m, true
			}
			mp.stage = stageKiller1
			mp.cursor = 0
		case stageKiller1:
			mp.stage = stageKiller2
			if mp.killer1 != board.NoMove && mp.killer1 != mp.ttMove && mp.legalQuiet(mp.killer1) {
				return mp.killer1, true
			}
		case stageKiller2:
			mp.stage = stageQuiets
			if mp.killer2 != board.NoMove && mp.killer2 != mp.ttMove && mp.killer2 != mp.killer1 && mp.legalQuiet(mp.killer2) {
				return mp.killer2, true
			}
		case stageQuiets:
			for mp.cursor < len(mp.quiets) {
				m := mp.quiets[mp.cursor].move
				mp.cursor++
				if m == mp.killer1 || m == mp.killer2 {
					continue
				}
				return m, true
			}
			mp.stage = stageCapturesBad
			mp.cursor = 0
		case stageCapturesBad:
			if m, ok := nextFrom(mp.badCaptures, &mp.cursor); ok {
				return m, true
			}
			mp.stage = stageDone
		case stageDone:
			return board.NoMove, false
		}
	}
}

// legalQuiet reports whether m is present in the already-generated quiets
// buffer, so a killer move from a sibling position (not legal here) is
// never yielded twice or yielded when it isn't actually available.
func (mp *MovePicker) legalQuiet(m board.Move) bool {
	for _, s := range mp.quiets {
		if s.move == m {
			return true
		}
	}
	return false
}
