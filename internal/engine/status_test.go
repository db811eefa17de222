package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckmatePositions(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want bool
	}{
		{
			name: "two rooks on the a and b files",
			rows: []string{
				"k.......",
				"........",
				"........",
				"........",
				"........",
				"........",
				".R......",
				"R...K...",
			},
			want: true,
		},
		{
			name: "rook ladder",
			rows: []string{
				"k......R",
				"......R.",
				"........",
				"........",
				"........",
				"........",
				"........",
				"....K...",
			},
			want: true,
		},
		{
			name: "check can be blocked",
			rows: []string{
				"k.......",
				"........",
				"........",
				".......r",
				"........",
				"........",
				".R......",
				"R...K...",
			},
			want: false,
		},
		{
			name: "attacker can be captured",
			rows: []string{
				"k.......",
				"........",
				"........",
				"........",
				"........",
				".n......",
				".R......",
				"R...K...",
			},
			want: false,
		},
		{
			name: "single back rank check answered by capture",
			rows: []string{
				"r...R..k",
				"......pp",
				"........",
				"........",
				"........",
				"........",
				"........",
				"....K...",
			},
			want: false,
		},
		{
			name: "double check ignores the possible capture",
			rows: []string{
				"r...R..k",
				".....Npp",
				"........",
				"........",
				"........",
				"........",
				"........",
				"....K...",
			},
			want: true,
		},
		{
			name: "not in check",
			rows: []string{
				"k.......",
				"........",
				".Q......",
				"........",
				"........",
				"........",
				"........",
				"....K...",
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromRows(t, Black, tt.rows...)
			if got := b.IsCheckmate(Black); got != tt.want {
				t.Errorf("IsCheckmate(black) = %v; want %v\n%s", got, tt.want, b)
			}
			if tt.want && b.HasAnyValidMove(Black) {
				t.Errorf("checkmated side still has a legal move:\n%s", b)
			}
		})
	}
}

func TestStalemate(t *testing.T) {
	b := boardFromRows(t, Black,
		"k.......",
		"........",
		".Q......",
		"........",
		"........",
		"........",
		"........",
		".......K",
	)
	if b.IsKingInCheck(Black) {
		t.Fatal("black should not be in check")
	}
	if !b.IsStalemate(Black) {
		t.Errorf("IsStalemate(black) = false; want true\n%s", b)
	}
	if b.IsCheckmate(Black) {
		t.Error("IsCheckmate(black) = true; want false")
	}
	if b.IsStalemate(White) {
		t.Error("IsStalemate(white) = true; want false")
	}
}

func TestStalemateAfterMove(t *testing.T) {
	b := boardFromRows(t, White,
		"k.......",
		"........",
		"..Q.....",
		"........",
		"........",
		"........",
		"........",
		".......K",
	)
	mustMove(t, b, "c6", "b6")
	if !b.IsGameOver() || b.Status() != Stalemate {
		t.Errorf("status = %v, over = %v; want stalemate", b.Status(), b.IsGameOver())
	}
	if _, ok := b.Winner(); ok {
		t.Error("stalemate has no winner")
	}
}

func TestFoolsMate(t *testing.T) {
	b := NewBoard()
	mustMove(t, b, "f2", "f3")
	mustMove(t, b, "e7", "e5")
	mustMove(t, b, "g2", "g4")

	if !b.IsMoveValid(sq(t, "d8"), sq(t, "h4"), Black) {
		t.Fatal("Qh4 should be legal")
	}
	mustMove(t, b, "d8", "h4")

	if !b.IsKingInCheck(White) {
		t.Error("white king should be in check")
	}
	if !b.IsCheckmate(White) {
		t.Errorf("IsCheckmate(white) = false\n%s", b)
	}
	if !b.IsGameOver() || b.Status() != Checkmate {
		t.Errorf("status = %v, over = %v; want checkmate", b.Status(), b.IsGameOver())
	}
	if winner, ok := b.Winner(); !ok || winner != Black {
		t.Errorf("Winner = %v, %v; want black", winner, ok)
	}
	if _, err := b.MovePiece(sq(t, "a2"), sq(t, "a3")); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate error = %v; want ErrGameOver", err)
	}
}

func TestCheckmateDetectedOnFailedAttempt(t *testing.T) {
	b := boardFromRows(t, Black,
		"k.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		".R......",
		"R...K...",
	)
	if b.IsGameOver() {
		t.Fatal("hand-built board should not be over yet")
	}
	_, err := b.MovePiece(sq(t, "a8"), sq(t, "a7"))
	var moveErr *MoveError
	if !errors.As(err, &moveErr) || !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("error = %v; want MoveError wrapping ErrIllegalMove", err)
	}
	if moveErr.From != sq(t, "a8") || moveErr.To != sq(t, "a7") {
		t.Errorf("MoveError squares = %v-%v", moveErr.From, moveErr.To)
	}
	if !b.IsGameOver() || b.Status() != Checkmate {
		t.Errorf("status = %v, over = %v; want checkmate", b.Status(), b.IsGameOver())
	}
}

func TestEnPassantEscapesCheck(t *testing.T) {
	b := boardFromRows(t, Black,
		".......k",
		"...p....",
		"..p.....",
		"....PP..",
		"...PKP..",
		"...PPP..",
		"........",
		"........",
	)
	mustMove(t, b, "d7", "d5")

	if !b.IsKingInCheck(White) {
		t.Fatalf("d5 pawn should check the king:\n%s", b)
	}
	if b.IsCheckmate(White) {
		t.Errorf("exd6 en passant removes the checker; not mate:\n%s", b)
	}
	if b.IsGameOver() {
		t.Error("game should continue")
	}
	mustMove(t, b, "e5", "d6")
	if b.IsKingInCheck(White) {
		t.Error("check should be gone after en passant")
	}
}

func TestEnPassantTargetIgnoredForSideNotToMove(t *testing.T) {
	b := boardFromRows(t, Black,
		"k.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....nPPP",
		".....RKR",
	)
	b.enPassant = sq(t, "e3")
	b.hasEnPassant = true

	if !b.IsCheckmate(White) {
		t.Errorf("smothered king on g1 should be mated whatever the en passant target:\n%s", b)
	}
	if b.IsCheckmate(Black) {
		t.Error("black is not in check")
	}
}

func TestAttackRoute(t *testing.T) {
	b := NewBoard()
	tests := []struct {
		name           string
		attacker, king string
		want           []string
	}{
		{"file", "e8", "e4", []string{"e7", "e6", "e5"}},
		{"rank", "a1", "d1", []string{"b1", "c1"}},
		{"diagonal", "h4", "e1", []string{"g3", "f2"}},
		{"anti diagonal", "a8", "d5", []string{"b7", "c6"}},
		{"adjacent", "d2", "e1", nil},
		{"knight", "f3", "e1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var want []Square
			for _, s := range tt.want {
				want = append(want, sq(t, s))
			}
			got := b.AttackRoute(sq(t, tt.attacker), sq(t, tt.king))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("AttackRoute mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMissingKingPanics(t *testing.T) {
	b := &Board{turn: White}
	b.squares.set(Sq(0, 4), NewPiece(King, Black))
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvariant) {
			t.Errorf("recovered %v; want ErrInvariant", r)
		}
	}()
	b.IsKingInCheck(White)
}
