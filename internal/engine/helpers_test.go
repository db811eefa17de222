package engine

import (
	"strings"
	"testing"
)

// boardFromRows builds a position from eight rows of symbols, rank 8 first.
// Upper case is White, lower case Black and '.' an empty square. Kings and
// rooks away from their home squares are marked as moved.
func boardFromRows(t *testing.T, turn Color, rows ...string) *Board {
	t.Helper()
	if len(rows) != boardSize {
		t.Fatalf("boardFromRows: got %d rows, want %d", len(rows), boardSize)
	}
	b := &Board{turn: turn}
	for r, row := range rows {
		if len(row) != boardSize {
			t.Fatalf("boardFromRows: row %d is %q", r, row)
		}
		for c := 0; c < boardSize; c++ {
			ch := row[c]
			if ch == '.' {
				continue
			}
			color := White
			if ch >= 'a' && ch <= 'z' {
				color = Black
			}
			kind := kindFromLetter(t, strings.ToUpper(string(ch))[0])
			p := NewPiece(kind, color)
			sq := Sq(r, c)
			switch kind {
			case King:
				p.Moved = sq != Sq(color.backRow(), 4)
			case Rook:
				p.Moved = sq != Sq(color.backRow(), 0) && sq != Sq(color.backRow(), 7)
			}
			b.squares.set(sq, p)
		}
	}
	return b
}

func kindFromLetter(t *testing.T, l byte) Kind {
	t.Helper()
	for _, k := range []Kind{King, Queen, Rook, Bishop, Knight, Pawn} {
		if k.Letter() == l {
			return k
		}
	}
	t.Fatalf("unknown piece letter %q", l)
	return NoKind
}

func sq(t *testing.T, name string) Square {
	t.Helper()
	s, err := ParseSquare(name)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", name, err)
	}
	return s
}

func mustMove(t *testing.T, b *Board, from, to string) Ply {
	t.Helper()
	ply, err := b.MovePiece(sq(t, from), sq(t, to))
	if err != nil {
		t.Fatalf("MovePiece(%s, %s): %v\n%s", from, to, err, b)
	}
	return ply
}

// scriptedPromoter answers with the given tokens in order and counts calls.
type scriptedPromoter struct {
	tokens []string
	calls  int
}

func (p *scriptedPromoter) PromotionChoice(Color, Square) (string, error) {
	if p.calls >= len(p.tokens) {
		return "", ErrInvalidPromotion
	}
	tok := p.tokens[p.calls]
	p.calls++
	return tok, nil
}
