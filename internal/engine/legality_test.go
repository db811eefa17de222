package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIsMoveValidPreconditions(t *testing.T) {
	b := NewBoard()
	tests := []struct {
		name     string
		from, to Square
		color    Color
		want     bool
	}{
		{"opening pawn push", sq(t, "e2"), sq(t, "e4"), White, true},
		{"knight development", sq(t, "g1"), sq(t, "f3"), White, true},
		{"wrong color", sq(t, "e2"), sq(t, "e4"), Black, false},
		{"empty origin", sq(t, "e3"), sq(t, "e4"), White, false},
		{"origin off board", Sq(-1, 4), sq(t, "e4"), White, false},
		{"destination off board", sq(t, "e2"), Sq(8, 4), White, false},
		{"blocked bishop", sq(t, "f1"), sq(t, "c4"), White, false},
		{"black reply", sq(t, "e7"), sq(t, "e5"), Black, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.IsMoveValid(tt.from, tt.to, tt.color); got != tt.want {
				t.Errorf("IsMoveValid(%v, %v, %v) = %v; want %v", tt.from, tt.to, tt.color, got, tt.want)
			}
		})
	}
}

func TestPinnedPieceCannotLeaveLine(t *testing.T) {
	t.Run("bishop pinned on file", func(t *testing.T) {
		b := boardFromRows(t, White,
			"....r..k",
			"........",
			"........",
			"........",
			"........",
			"........",
			"....B...",
			"....K...",
		)
		if b.IsMoveValid(sq(t, "e2"), sq(t, "d3"), White) {
			t.Error("pinned bishop was allowed to expose the king")
		}
		if b.IsKingInCheck(White) {
			t.Error("king should not be in check while the bishop blocks")
		}
	})

	t.Run("rook slides along the pin", func(t *testing.T) {
		b := boardFromRows(t, White,
			"....r..k",
			"........",
			"........",
			"........",
			"........",
			"........",
			"....R...",
			"....K...",
		)
		if !b.IsMoveValid(sq(t, "e2"), sq(t, "e5"), White) {
			t.Error("rook should move along the pin line")
		}
		if !b.IsMoveValid(sq(t, "e2"), sq(t, "e8"), White) {
			t.Error("rook should capture the pinning rook")
		}
		if b.IsMoveValid(sq(t, "e2"), sq(t, "d2"), White) {
			t.Error("rook left the pin line")
		}
	})
}

func TestKingSafety(t *testing.T) {
	b := boardFromRows(t, White,
		"...r...k",
		"........",
		"........",
		"........",
		"........",
		"........",
		"......q.",
		"....K..b",
	)
	tests := []struct {
		to   string
		want bool
	}{
		{"d1", false}, // rook file
		{"d2", false}, // rook file
		{"f2", false}, // queen
		{"f1", false}, // queen diagonal
		{"e2", false}, // queen rank
	}
	for _, tt := range tests {
		if got := b.IsMoveValid(sq(t, "e1"), sq(t, tt.to), White); got != tt.want {
			t.Errorf("king e1-%s = %v; want %v", tt.to, got, tt.want)
		}
	}
	if b.HasAnyValidMove(White) {
		t.Errorf("white should have no legal move:\n%s", b)
	}
}

func TestMoveMustAnswerCheck(t *testing.T) {
	b := boardFromRows(t, White,
		"....r..k",
		"........",
		"........",
		"........",
		"........",
		"........",
		"P.....N.",
		"....K...",
	)
	if !b.IsKingInCheck(White) {
		t.Fatal("white should be in check")
	}
	if b.IsMoveValid(sq(t, "a2"), sq(t, "a3"), White) {
		t.Error("pawn push ignores the check")
	}
	if !b.IsMoveValid(sq(t, "g2"), sq(t, "e3"), White) {
		t.Error("knight block on e3 should be legal")
	}
	if !b.IsMoveValid(sq(t, "e1"), sq(t, "d2"), White) {
		t.Error("king step out of the file should be legal")
	}
}

func TestSimulationLeavesBoardUntouched(t *testing.T) {
	boards := map[string]*Board{
		"start": NewBoard(),
		"middlegame": boardFromRows(t, Black,
			"r..qk..r",
			"pp...ppp",
			"..n.bn..",
			"..bpp...",
			"....P...",
			"..NP.N..",
			"PPP..PPP",
			"R.BQKB.R",
		),
	}
	for name, b := range boards {
		t.Run(name, func(t *testing.T) {
			before := *b
			for from := 0; from < boardSize*boardSize; from++ {
				for to := 0; to < boardSize*boardSize; to++ {
					f := Sq(from/boardSize, from%boardSize)
					s := Sq(to/boardSize, to%boardSize)
					for _, c := range []Color{White, Black} {
						b.DoesMovePutKingInCheck(f, s, c)
						b.IsMoveValid(f, s, c)
					}
				}
			}
			if diff := cmp.Diff(before, *b, cmp.AllowUnexported(Board{})); diff != "" {
				t.Errorf("board changed during simulation (-before +after):\n%s", diff)
			}
		})
	}
}

func TestSimulatedCaptureOfKingCountsAsCheck(t *testing.T) {
	b := NewBoard()
	// relocating an empty square onto the king removes it from the position
	if !b.DoesMovePutKingInCheck(sq(t, "e4"), sq(t, "e1"), White) {
		t.Error("position without a white king should count as check")
	}
}

func TestLegalMoves(t *testing.T) {
	b := NewBoard()
	got := b.LegalMoves(sq(t, "b1"))
	want := []Square{sq(t, "a3"), sq(t, "c3")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LegalMoves(b1) mismatch (-want +got):\n%s", diff)
	}
	if moves := b.LegalMoves(sq(t, "e4")); moves != nil {
		t.Errorf("LegalMoves(empty) = %v; want nil", moves)
	}
	if n := len(b.AllLegalMoves(White)); n != 20 {
		t.Errorf("opening move count = %d; want 20", n)
	}
	if n := len(b.AllLegalMoves(Black)); n != 20 {
		t.Errorf("black opening move count = %d; want 20", n)
	}
}

func TestTurnAlternatesAndSquaresStaySingle(t *testing.T) {
	b := NewBoard()
	moves := [][2]string{
		{"e2", "e4"}, {"d7", "d5"}, {"e4", "d5"}, {"d8", "d5"},
		{"b1", "c3"}, {"d5", "a5"}, {"d2", "d4"}, {"c7", "c6"},
	}
	pieces := countPieces(b)
	for i, m := range moves {
		mover := b.Turn()
		ply := mustMove(t, b, m[0], m[1])
		if b.Turn() != mover.Opposite() {
			t.Fatalf("ply %d: turn = %v; want %v", i, b.Turn(), mover.Opposite())
		}
		if ply.Captured != nil {
			pieces--
		}
		if got := countPieces(b); got != pieces {
			t.Fatalf("ply %d: %d pieces on board; want %d", i, got, pieces)
		}
	}
}

func countPieces(b *Board) int {
	n := 0
	for _, p := range b.squares {
		if !p.IsEmpty() {
			n++
		}
	}
	return n
}
